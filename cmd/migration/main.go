package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/joho/godotenv"
	"github.com/riskibarqy/fpl-season-ingest/db/migrations"
	"github.com/riskibarqy/fpl-season-ingest/internal/config"
	"github.com/riskibarqy/fpl-season-ingest/internal/platform/logging"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fpl-migrate: %v\n", err)
		os.Exit(1)
	}
}

type migrator struct {
	dsn    string
	logger *logging.Logger
}

func newRootCommand() *cobra.Command {
	var envFile string
	mg := &migrator{logger: logging.Default()}

	root := &cobra.Command{
		Use:           "fpl-migrate",
		Short:         "Apply the embedded season schema migrations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if path := strings.TrimSpace(envFile); path != "" {
				if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("load %s: %w", path, err)
				}
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			mg.dsn = cfg.DSN()
			mg.logger = logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return mg.run("up", func(m *migrate.Migrate) error { return m.Up() })
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back migrations (default 1)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				steps, err := parseSteps(args)
				if err != nil {
					return err
				}
				return mg.run("down", func(m *migrate.Migrate) error { return m.Steps(-steps) }, "steps", steps)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return mg.with(func(m *migrate.Migrate) error {
					version, dirty, err := m.Version()
					if errors.Is(err, migrate.ErrNilVersion) {
						fmt.Fprintln(cmd.OutOrStdout(), "version: none")
						return nil
					}
					if err != nil {
						return fmt.Errorf("read version: %w", err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "version: %d dirty: %t\n", version, dirty)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Mark a version as applied without running it",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				version, err := parseVersion(args[0])
				if err != nil {
					return err
				}
				return mg.run("force", func(m *migrate.Migrate) error { return m.Force(version) }, "version", version)
			},
		},
		&cobra.Command{
			Use:     "goto <version>",
			Aliases: []string{"migrate"},
			Short:   "Migrate up or down to a target version",
			Args:    cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				target, err := parseTarget(args[0])
				if err != nil {
					return err
				}
				return mg.run("goto", func(m *migrate.Migrate) error { return m.Migrate(target) }, "target", target)
			},
		},
	)
	return root
}

// run applies step and treats ErrNoChange as success.
func (mg *migrator) run(name string, step func(*migrate.Migrate) error, args ...any) error {
	return mg.with(func(m *migrate.Migrate) error {
		err := step(m)
		if errors.Is(err, migrate.ErrNoChange) {
			mg.logger.Info("no migration changes", append([]any{"command", name}, args...)...)
			return nil
		}
		if err != nil {
			return fmt.Errorf("migrate %s: %w", name, err)
		}
		mg.logger.Info("migration finished", append([]any{"command", name}, args...)...)
		return nil
	})
}

func (mg *migrator) with(fn func(*migrate.Migrate) error) error {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, mg.dsn)
	if err != nil {
		return fmt.Errorf("create migrator for %s: %w", config.DBName(mg.dsn), err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			mg.logger.Warn("close migration source", "error", srcErr)
		}
		if dbErr != nil {
			mg.logger.Warn("close migration db", "error", dbErr)
		}
		_ = mg.logger.Sync()
	}()

	return fn(m)
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	steps, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, fmt.Errorf("parse down steps %q: %w", args[0], err)
	}
	if steps <= 0 {
		return 0, fmt.Errorf("down steps must be > 0")
	}
	return steps, nil
}

func parseVersion(raw string) (int, error) {
	version, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("parse version %q: %w", raw, err)
	}
	if version < 0 {
		return 0, fmt.Errorf("version must be >= 0")
	}
	return version, nil
}

func parseTarget(raw string) (uint, error) {
	target, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 0)
	if err != nil {
		return 0, fmt.Errorf("parse target version %q: %w", raw, err)
	}
	return uint(target), nil
}
