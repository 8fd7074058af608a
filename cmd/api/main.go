package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	mem "pet-registry/internal/adapters/storage/memory"
	pg "pet-registry/internal/adapters/storage/postgres"
	"pet-registry/internal/config"
	"pet-registry/internal/platform/logger"
	"pet-registry/internal/platform/metrics"
	"pet-registry/internal/router"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "pet-registry",
	Short:         "Pet registry HTTP API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("CONFIG_PATH"), "path to config.yaml (optional)")
	rootCmd.AddCommand(serveCmd)
	// sin subcomando => serve
	rootCmd.RunE = serveCmd.RunE
}

func main() {
	// .env es opcional (dev)
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func serve(ctx context.Context) error {
	// hasta tener config, se loguea con LOG_LEVEL/LOG_FORMAT del entorno
	boot := logger.NewFromEnv()
	cfg, err := config.Load(configPath)
	if err != nil {
		boot.Error("config load failed", map[string]any{"path": configPath, "err": err})
		_ = boot.Sync()
		return err
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.App.Name,
	})
	defer func() { _ = log.Sync() }()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		if m, err = metrics.New(); err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
	}

	opts := router.Options{
		Logger:         log,
		Metrics:        m,
		MetricsPath:    cfg.Metrics.Path,
		DocsEnabled:    cfg.Docs.Enabled && !cfg.IsProd(),
		IdempotencyTTL: cfg.Idempotency.TTL,
	}

	db, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		opts.DB = db
	} else if cfg.Storage.SeedDemo {
		opts.Repo = mem.NewPetRepo(mem.DemoSeed()...)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router.NewRouter(opts),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting server", map[string]any{
			"addr":    cfg.Server.Addr,
			"env":     cfg.App.Env,
			"storage": cfg.Storage.Driver,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", map[string]any{"timeout": cfg.Server.ShutdownTimeout.String()})

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openStorage devuelve nil si el driver es memory.
func openStorage(ctx context.Context, cfg *config.Config, log logger.Logger) (*sql.DB, error) {
	if cfg.Storage.Driver != config.DriverPostgres {
		return nil, nil
	}

	db, err := pg.Open(cfg.Storage.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	if err := pg.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if cfg.Storage.SeedDemo {
		if err := pg.Seed(ctx, db, mem.DemoSeed()...); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	log.Info("postgres connected", nil)
	return db, nil
}
