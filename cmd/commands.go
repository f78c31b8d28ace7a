package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/guttosm/pulsefilter/config"
	"github.com/guttosm/pulsefilter/internal/app"
	"github.com/guttosm/pulsefilter/internal/ingestion"
	"github.com/guttosm/pulsefilter/internal/logger"
)

var (
	dbOpener    = app.InitPostgres
	appInit     = app.InitializeApp
	runMigrate  = app.Migrate
	runIngest   = ingestion.ProcessDirectory
	serveRouter = func(ctx context.Context, router http.Handler, port string, cleanup func()) {
		gracefulShutdown(ctx, startServer(router, port), cleanup)
	}
)

func newAPICmd() *cobra.Command {
	var (
		port    string
		migrate bool
	)
	cmd := &cobra.Command{
		Use:   "api",
		Short: "Serve the REST API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port == "" {
				port = config.AppConfig.Server.Port
			}
			if migrate {
				if err := withDB(cmd.Context(), func(ctx context.Context, db *sql.DB) error {
					return runMigrate(ctx, db)
				}); err != nil {
					return err
				}
			}

			router, cleanup, err := appInit()
			if err != nil {
				return fmt.Errorf("app init: %w", err)
			}
			logger.L().Info().Msg("starting API server")
			serveRouter(cmd.Context(), router, port, cleanup)
			return nil
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "Port for the API server (default SERVER_PORT)")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply pending migrations before serving")
	return cmd
}

func newIngestCmd() *cobra.Command {
	var (
		opts    ingestion.Options
		migrate bool
	)
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest the last business days of B3 trade files",
		Long: `Ingest reads one <DD-MM-YYYY>_NEGOCIOSAVISTA.txt file per business day,
counting back from yesterday, and stores every trade. Days already recorded
in the ingestion log are skipped unless --force is given.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return withDB(ctx, func(ctx context.Context, db *sql.DB) error {
				if migrate {
					if err := runMigrate(ctx, db); err != nil {
						return err
					}
				}
				logger.L().Info().Str("dir", opts.Dir).Int("days", opts.Days).Bool("force", opts.Force).Msg("running ingestion")
				sum, err := runIngest(ctx, db, opts)
				if err != nil {
					return fmt.Errorf("ingestion failed: %w", err)
				}
				logger.L().Info().
					Int("files", sum.Files).
					Int("skipped", sum.Skipped).
					Int("rows", sum.Rows).
					Dur("duration", sum.Duration).
					Msg("ingestion completed")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&opts.Dir, "dir", "./data/input", "Directory with the .txt files")
	cmd.Flags().IntVar(&opts.Days, "days", 7, "Number of last business days to ingest (1-7)")
	cmd.Flags().IntVar(&opts.Parallel, "parallel", 0, "Files processed concurrently (0=auto up to CPU, max 7)")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Reload days that were already ingested")
	cmd.Flags().IntVar(&opts.Batch, "batch", 0, "Rows per COPY batch (0=default)")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply pending migrations before ingesting")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd.Context(), func(ctx context.Context, db *sql.DB) error {
				return runMigrate(ctx, db)
			})
		},
	}
}

func newFilterCmd() *cobra.Command {
	var fields, format, aggregate string
	cmd := &cobra.Command{
		Use:   "filter [file]",
		Short: "Filter a JSON payload from a file or stdin",
		Long: `Filter applies the same field selection, aggregation and output format
as the API to a JSON document and prints the result.

Examples:
  pulsefilter filter trades.json --fields preset:trade
  curl -s localhost:8080/api/v1/daily?ticker=PETR4\&output_format=json | pulsefilter filter --fields close --aggregate last`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := app.NewFilterEngine(config.AppConfig)
			if err != nil {
				return err
			}
			cfg, err := engine.Parse(fields, format, aggregate)
			if err != nil {
				return err
			}

			data, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			out, err := engine.ApplyJSON(data, cfg)
			if err != nil {
				return err
			}
			if !strings.HasSuffix(out, "\n") {
				out += "\n"
			}
			_, err = io.WriteString(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVar(&fields, "fields", "", "Comma-separated fields or preset:<name>")
	cmd.Flags().StringVar(&format, "output-format", "", "csv (default), json or compact")
	cmd.Flags().StringVar(&aggregate, "aggregate", "", "first or last")
	return cmd
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "Print the field preset table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := app.NewFilterEngine(config.AppConfig)
			if err != nil {
				return err
			}
			reg := engine.Presets()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, name := range reg.Names() {
				fields, _ := reg.Resolve(name)
				fmt.Fprintf(tw, "%s\t%s\n", name, strings.Join(fields, ","))
			}
			return tw.Flush()
		},
	}
}

// withDB opens PostgreSQL for the duration of fn.
func withDB(ctx context.Context, fn func(context.Context, *sql.DB) error) error {
	db, err := dbOpener(config.AppConfig)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer func() { _ = db.Close() }()
	return fn(ctx, db)
}

func readInput(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", args[0], err)
	}
	return data, nil
}
