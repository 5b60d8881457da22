package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/openbeds/bedtags/internal/domain"
	"github.com/openbeds/bedtags/internal/repo"
	"github.com/openbeds/bedtags/internal/validator"
	"github.com/openbeds/bedtags/migrations"
)

const version = "0.1.0"

// tagStore is the slice of repo.BedTagRepo the CLI reads through.
type tagStore interface {
	validator.Lookup
	GetByName(ctx context.Context, name string) (domain.BedTag, error)
}

// env holds the connections a command may open. Tests replace the openers
// so commands run without a database.
type env struct {
	openStore func(ctx context.Context, dsn string) (tagStore, func(), error)
	openSQL   func(dsn string) (*sql.DB, error)
}

func defaultEnv() env {
	return env{openStore: openRepo, openSQL: migrations.Open}
}

// openRepo connects a pgx pool and returns the bed tag repo over it.
func openRepo(ctx context.Context, dsn string) (tagStore, func(), error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	return repo.NewBedTagRepo(pool), pool.Close, nil
}

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	databaseURL   string
	schemaFile    string
	maxNameLength int
	policy        string
}

// schema resolves the field-length schema the same way the API server does.
func (f *rootFlags) schema() (validator.Schema, error) {
	if f.schemaFile != "" {
		return validator.LoadSchema(f.schemaFile)
	}
	s := validator.Schema{validator.FieldName: f.maxNameLength}
	if err := s.Verify(); err != nil {
		return nil, fmt.Errorf("--max-name-length: %w", err)
	}
	return s, nil
}

func (f *rootFlags) requireDatabaseURL() (string, error) {
	if f.databaseURL == "" {
		return "", fmt.Errorf("database URL not set: pass --database-url or set DATABASE_URL")
	}
	return f.databaseURL, nil
}

func newRootCmd(e env) *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "bedtagctl",
		Short:         "Bed tags administration",
		Long:          `bedtagctl applies database migrations, looks up bed tags by name, and checks names against the uniqueness rule.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("bedtagctl version {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVar(&flags.databaseURL, "database-url", os.Getenv("DATABASE_URL"), "Postgres connection string (default $DATABASE_URL)")
	pf.StringVar(&flags.schemaFile, "schema-file", os.Getenv("BEDTAG_SCHEMA_FILE"), "YAML field-length schema (default $BEDTAG_SCHEMA_FILE)")
	pf.IntVar(&flags.maxNameLength, "max-name-length", envInt("BEDTAG_MAX_NAME_LENGTH", validator.DefaultMaxNameLength), "Name length limit when no schema file is given")
	pf.StringVar(&flags.policy, "policy", os.Getenv("BEDTAG_DUPLICATE_POLICY"), "Duplicate policy: existing-active or both-active")

	root.AddCommand(
		newMigrateCmd(e, flags),
		newCheckCmd(e, flags),
		newShowCmd(e, flags),
		newSchemaCmd(flags),
	)
	return root
}

// envInt reads an integer default from the environment, ignoring bad values.
func envInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}
