package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/openbeds/bedtags/internal/domain"
)

// shownTag is the YAML rendering of a bed tag.
type shownTag struct {
	ID         string     `yaml:"id"`
	Name       string     `yaml:"name"`
	Voided     bool       `yaml:"voided"`
	DateVoided *time.Time `yaml:"dateVoided,omitempty"`
	VoidReason string     `yaml:"voidReason,omitempty"`
	CreatedAt  time.Time  `yaml:"createdAt"`
}

func newShowCmd(e env, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Show the tag holding a name",
		Long:  `show looks a tag up by name, case-insensitively. When several tags share the name the active one is shown, otherwise the most recently voided.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn, err := flags.requireDatabaseURL()
			if err != nil {
				return err
			}
			store, closeFn, err := e.openStore(cmd.Context(), dsn)
			if err != nil {
				return err
			}
			defer closeFn()

			tag, err := store.GetByName(cmd.Context(), args[0])
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("no bed tag named %q", args[0])
			}
			if err != nil {
				return err
			}

			out, err := yaml.Marshal(shownTag{
				ID:         tag.ID.String(),
				Name:       tag.Name,
				Voided:     tag.Expired(),
				DateVoided: tag.DateVoided,
				VoidReason: tag.VoidReason,
				CreatedAt:  tag.CreatedAt,
			})
			if err != nil {
				return fmt.Errorf("encode tag: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
