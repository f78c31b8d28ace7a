package main

//
//  @title           pulsefilter API
//  @version         1.0
//  @description     B3 trade ingestion with filtered CSV and JSON market-data output.
//  @termsOfService  https://github.com/guttosm/pulsefilter
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/pulsefilter
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        market
//  @tag.description Market data endpoints with output filtering
//
//  @tag.name        filter
//  @tag.description Standalone payload filtering and preset catalogue
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/guttosm/pulsefilter/config"
	_ "github.com/guttosm/pulsefilter/docs" // swagger docs
	"github.com/guttosm/pulsefilter/internal/logger"
)

// loadConfig is swapped in tests so commands run without touching the environment.
var loadConfig = config.LoadConfig

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the pulsefilter command tree.
//
// Subcommands:
//   - api:     serve the REST API.
//   - ingest:  load the last business days of B3 trade files.
//   - migrate: apply the embedded database migrations.
//   - filter:  run the output filter over a JSON file or stdin.
//   - presets: print the field preset table.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pulsefilter",
		Short: "B3 trade ingestion and filtered market-data API",
		Long: `pulsefilter ingests B3 daily trade files into PostgreSQL and serves them
through a REST API whose responses can be trimmed to selected fields and
rendered as CSV, JSON or compact JSON.

Examples:
  pulsefilter migrate
  pulsefilter ingest --dir ./data/input --days 3
  pulsefilter api --port 8080
  echo '{"results":[{"ticker":"PETR4","close":38.4}]}' | pulsefilter filter --fields ticker,close`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			loadConfig()
			// stdout carries command results, so logs go to stderr
			logger.SetOutput(cmd.ErrOrStderr())
		},
	}

	root.AddCommand(
		newAPICmd(),
		newIngestCmd(),
		newMigrateCmd(),
		newFilterCmd(),
		newPresetsCmd(),
	)
	return root
}

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (e.g., DB connections).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case <-ctx.Done():
	}
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Error().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}
