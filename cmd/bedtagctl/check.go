package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/openbeds/bedtags/internal/domain"
	"github.com/openbeds/bedtags/internal/validator"
)

// errRejected is returned when the rule rejects the name, so the process
// exits non-zero after the violations have been printed.
var errRejected = errors.New("bed tag rejected")

func newCheckCmd(e env, flags *rootFlags) *cobra.Command {
	var (
		name   string
		id     string
		voided bool
	)

	cmd := &cobra.Command{
		Use:   "check --name NAME [--id UUID] [--voided]",
		Short: "Check a bed tag name against the stored tags",
		Long: `check runs the bed tag name rule against the database without saving anything.
Pass --id when checking a rename of an existing tag so it does not collide with itself.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tag := domain.BedTag{Name: strings.TrimSpace(name)}
			if id != "" {
				parsed, err := uuid.Parse(id)
				if err != nil {
					return fmt.Errorf("--id: %w", err)
				}
				tag.ID = parsed
			}
			if voided {
				now := time.Now().UTC()
				tag.DateVoided = &now
			}

			schema, err := flags.schema()
			if err != nil {
				return err
			}
			policy, err := validator.ParsePolicy(flags.policy)
			if err != nil {
				return err
			}
			dsn, err := flags.requireDatabaseURL()
			if err != nil {
				return err
			}

			lookup, closeFn, err := e.openStore(cmd.Context(), dsn)
			if err != nil {
				return err
			}
			defer closeFn()

			v := validator.New(lookup, validator.WithSchema(schema), validator.WithPolicy(policy))
			errs := domain.NewErrors("bedTag")
			if err := v.Validate(cmd.Context(), tag, errs); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !errs.HasErrors() {
				fmt.Fprintf(out, "ok: %q is available\n", tag.Name)
				return nil
			}
			for _, g := range errs.GlobalErrors() {
				fmt.Fprintf(out, "%s: %s\n", g.Code, g.Message)
			}
			for _, f := range errs.FieldErrors("") {
				fmt.Fprintf(out, "%s: %s: %s\n", f.Field, f.Code, f.Message)
			}
			return errRejected
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Tag name to check")
	cmd.Flags().StringVar(&id, "id", "", "ID of the stored tag being renamed")
	cmd.Flags().BoolVar(&voided, "voided", false, "Check the candidate as a voided tag")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
