package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/fpl-season-ingest/internal/app"
	"github.com/riskibarqy/fpl-season-ingest/internal/config"
	"github.com/riskibarqy/fpl-season-ingest/internal/domain/season"
	"github.com/riskibarqy/fpl-season-ingest/internal/observability"
	"github.com/riskibarqy/fpl-season-ingest/internal/platform/logging"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var (
	errSchemaIncomplete = errors.New("schema incomplete")
	tracer              = otel.Tracer("fpl-season-ingest/cmd/ingest")
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fpl-ingest: %v\n", err)
		stop()
		os.Exit(1)
	}
}

type runtime struct {
	cfg      config.Config
	logger   *logging.Logger
	shutdown func(context.Context) error
}

func newRootCommand() *cobra.Command {
	var envFile string
	rt := &runtime{}

	root := &cobra.Command{
		Use:           "fpl-ingest",
		Short:         "Load fantasynutmeg season history into Postgres",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if err := loadEnvFile(envFile); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger := logging.New(logging.Options{
				Writer: os.Stdout,
				Level:  cfg.LogLevel,
				Format: cfg.LogFormat,
			})
			logging.SetDefault(logger)

			shutdown, err := observability.InitUptrace(cfg, logger)
			if err != nil {
				logger.Error("init uptrace", "error", err)
				return err
			}

			rt.cfg = cfg
			rt.logger = logger
			rt.shutdown = shutdown
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	root.AddCommand(newRunCommand(rt), newCheckCommand(rt))
	return root
}

func newRunCommand(rt *runtime) *cobra.Command {
	var (
		dryRun bool
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "run [season-url]",
		Short: "Fetch one season and upsert it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer rt.close()

			cfg := rt.cfg
			if strict {
				cfg.StrictRecords = true
			}
			locator := cfg.SeasonURL
			if len(args) == 1 {
				locator = strings.TrimSpace(args[0])
			}

			var store season.Store = app.NewPostgresStore(cfg, rt.logger)
			if dryRun {
				store = app.NewMemoryStore()
				rt.logger.Info("dry run: rows are kept in memory only")
			}

			ctx, span := tracer.Start(cmd.Context(), "ingest.run")
			defer span.End()

			summary, err := app.NewSeasonIngestService(cfg, store, rt.logger).Run(ctx, locator)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "season ingest failed")
				rt.logger.ErrorContext(ctx, "season ingest failed", "source_url", locator, "error", err)
				return err
			}

			printSummary(cmd.OutOrStdout(), summary, dryRun)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "transform and stage rows without touching Postgres")
	cmd.Flags().BoolVar(&strict, "strict", false, "abort on the first malformed record")
	return cmd
}

func newCheckCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the database is reachable and the season tables exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer rt.close()

			report, err := app.NewPostgresStore(rt.cfg, rt.logger).Check(cmd.Context())
			if err != nil {
				rt.logger.ErrorContext(cmd.Context(), "schema check failed", "error", err)
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "server: %s\n", report.ServerVersion)
			fmt.Fprintf(out, "present: %s\n", strings.Join(report.Present, ", "))
			if !report.Complete() {
				fmt.Fprintf(out, "missing: %s\n", strings.Join(report.Missing, ", "))
				rt.logger.Error("schema check failed", "missing", strings.Join(report.Missing, ","))
				return errSchemaIncomplete
			}
			fmt.Fprintln(out, "schema ok")
			return nil
		},
	}
}

func (rt *runtime) close() {
	if rt.shutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rt.shutdown(ctx); err != nil && rt.logger != nil {
			rt.logger.Warn("shutdown uptrace", "error", err)
		}
		cancel()
		rt.shutdown = nil
	}
	if rt.logger != nil {
		_ = rt.logger.Sync()
	}
}

func loadEnvFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func printSummary(w io.Writer, summary season.Summary, dryRun bool) {
	mode := "committed"
	if dryRun {
		mode = "dry run"
	}
	fmt.Fprintf(w, "season %s %s (run %s, %s)\n", summary.Season, mode, summary.RunID, summary.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "  player_matrix      %d\n", summary.Matrix)
	fmt.Fprintf(w, "  team_history       %d\n", summary.Teams)
	fmt.Fprintf(w, "  player             %d\n", summary.Players)
	fmt.Fprintf(w, "  fixture_selection  %d\n", summary.FixtureSelections)
	fmt.Fprintf(w, "  player_selection   %d\n", summary.PlayerSelections)
	fmt.Fprintf(w, "  skipped            %d\n", summary.Skipped)
	fmt.Fprintf(w, "  raw archived       %t\n", summary.RawArchived)
}
