package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dbcove/dbcove/internal/catalog"
	"github.com/dbcove/dbcove/internal/config"
	"github.com/dbcove/dbcove/internal/ddl"
	"github.com/dbcove/dbcove/internal/export"
	"github.com/dbcove/dbcove/internal/filestore"
	miniostore "github.com/dbcove/dbcove/internal/filestore/minio"
	"github.com/dbcove/dbcove/internal/logger"
	"github.com/dbcove/dbcove/internal/query"
	"github.com/dbcove/dbcove/internal/registry"
	"github.com/dbcove/dbcove/internal/server"
	"github.com/dbcove/dbcove/internal/session"
	"github.com/dbcove/dbcove/internal/vault"

	// Engine drivers register themselves with the database package.
	_ "github.com/dbcove/dbcove/internal/database/firebird"
	_ "github.com/dbcove/dbcove/internal/database/mssql"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "dbcove.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}

	log := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})

	if err := run(cfg, log); err != nil {
		log.With().Err(err).Logger().Error("fatal")
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	if err := os.MkdirAll(cfg.Storage.Dir, 0o700); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}

	v, err := vault.New(cfg.KeyPath())
	if err != nil {
		return err
	}

	store := registry.NewStore(cfg.RegistryPath(), v, log)
	if err := store.Load(); err != nil {
		return err
	}

	manager := session.NewManager(store, log,
		session.WithHealthTimeout(cfg.Health.Timeout.Std()))
	executor := query.NewExecutor(manager)
	reader := catalog.NewReader(executor, manager)
	synth := ddl.NewSynthesizer(reader, manager)

	exporter, err := buildExporter(cfg, synth, log)
	if err != nil {
		return err
	}

	router := server.NewRouter(server.Deps{
		Manager:  manager,
		Executor: executor,
		Reader:   reader,
		Synth:    synth,
		Exporter: exporter,
		Log:      log,
		Version:  version,
	})

	var sweeper *session.Sweeper
	if cfg.Health.Interval > 0 {
		sweeper, err = manager.StartHealthSweep(cfg.Health.Interval.Std())
		if err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.With().
			Str("addr", srv.Addr).
			Str("version", version).
			Logger().
			Info("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.With().Str("signal", sig.String()).Logger().Info("shutting down")
	case err := <-serverErr:
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Std())
	defer cancel()

	if sweeper != nil {
		sweeper.Stop()
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	manager.CloseAll(ctx)

	log.Info("server stopped")
	return nil
}

// buildExporter connects to the configured export storage, or returns
// nil when none is configured.
func buildExporter(cfg *config.Config, synth *ddl.Synthesizer, log *logger.Logger) (*export.Exporter, error) {
	if cfg.Export == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var store filestore.Store
	switch cfg.Export.Provider {
	case filestore.ProviderMinIO, "":
		s, err := miniostore.New(ctx, cfg.Export)
		if err != nil {
			return nil, err
		}
		store = s
	default:
		return nil, fmt.Errorf("unknown export provider %q", cfg.Export.Provider)
	}

	return export.New(synth, store, cfg.Export.Bucket, log), nil
}
