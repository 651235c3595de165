package main

//
//  @title           PackFlow API
//  @version         1.0
//  @description     Payment requests, SMS notifications and revenue metrics for contractors.
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/packflow
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @securityDefinitions.apikey  BearerAuth
//  @in                          header
//  @name                        Authorization
//
//  @tag.name        payments
//  @tag.description Payment request lifecycle
//
//  @tag.name        metrics
//  @tag.description Revenue series, cards and exports
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guttosm/packflow/config"
	_ "github.com/guttosm/packflow/docs" // swagger docs
	"github.com/guttosm/packflow/internal/app"
	"github.com/guttosm/packflow/internal/importer"
	"github.com/guttosm/packflow/internal/logger"
	"github.com/guttosm/packflow/internal/storage"
)

// startServer starts the HTTP server in a separate goroutine and returns it.
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
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// runImport loads every CSV file in dir into the payment store.
func runImport(ctx context.Context, dir string, opts importer.Options) error {
	db, err := app.InitPostgres(config.AppConfig)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return importer.ProcessDirectory(ctx, dir, db, opts)
}

// main is the entry point of the PackFlow service.
//
// Modes (selected via --mode flag):
//   - api:     Starts the REST API.
//   - migrate: Applies pending schema migrations and exits.
//   - import:  Loads historical payments from the CSV files in --dir.
//
// Flags:
//   - --mode:     Execution mode. Default: "api".
//   - --migrate:  Apply migrations before starting the API.
//   - --dir:      Directory containing .csv input files. Default: "./data/import".
//   - --user:     Owner of imported payments (required for import).
//   - --parallel: Files imported concurrently (0 = auto).
//   - --force:    Re-import files that changed since their last import.
//   - --port:     Port for the API server. Defaults to SERVER_PORT.
func main() {
	ctx := context.Background()

	config.LoadConfig()
	logger.Init()

	mode := flag.String("mode", "api", "Mode: api, migrate or import")
	migrateFirst := flag.Bool("migrate", false, "Apply migrations before starting the API")
	dir := flag.String("dir", "./data/import", "Directory with .csv files")
	user := flag.String("user", "", "User id that owns imported payments")
	parallel := flag.Int("parallel", 0, "How many files to import concurrently (0=auto up to CPU, max 8)")
	force := flag.Bool("force", false, "Re-import files that changed since they were imported")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	flag.Parse()

	switch *mode {
	case "migrate":
		if err := storage.RunMigrations(config.AppConfig.Postgres.URL); err != nil {
			logger.L().Fatal().Err(err).Msg("migration failed")
		}

	case "import":
		logger.L().Info().Str("dir", *dir).Msg("running import")
		opts := importer.Options{UserID: *user, Parallel: *parallel, Force: *force}
		if err := runImport(ctx, *dir, opts); err != nil {
			logger.L().Fatal().Err(err).Msg("import failed")
		}
		logger.L().Info().Msg("import completed successfully")

	case "api":
		if *migrateFirst {
			if err := storage.RunMigrations(config.AppConfig.Postgres.URL); err != nil {
				logger.L().Fatal().Err(err).Msg("migration failed")
			}
		}

		logger.L().Info().Msg("starting API server")
		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
