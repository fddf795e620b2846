package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rgehrsitz/hiquote/internal/api"
	"github.com/rgehrsitz/hiquote/internal/calculation"
	"github.com/rgehrsitz/hiquote/internal/config"
	"github.com/rgehrsitz/hiquote/internal/ratestore"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the quote HTTP API",
		Long: `Serve quote calculation, CSV import and rate-table management over HTTP.

Settings come from HIQUOTE_* environment variables; flags override them.

Examples:
  hiquote serve --addr :8080
  hiquote serve --store sqlite --dsn rates.db
  HIQUOTE_DSN=postgres://localhost/hiquote?sslmode=disable hiquote serve --store postgres`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := serverConfigFromFlags(cmd)
			if err != nil {
				return err
			}
			quiet, _ := cmd.Flags().GetBool("quiet")
			return runServer(cmd.Context(), cfg, quiet)
		},
	}
	cmd.Flags().String("addr", "", "Listen address (HIQUOTE_ADDR)")
	cmd.Flags().String("store", "", "Rate store: memory, sqlite or postgres (HIQUOTE_STORE)")
	cmd.Flags().String("dsn", "", "SQLite path or PostgreSQL DSN (HIQUOTE_DSN)")
	cmd.Flags().Duration("cache-ttl", 0, "Rate cache TTL (HIQUOTE_CACHE_TTL)")
	cmd.Flags().String("refresh-schedule", "", "Cron schedule for cache refresh (HIQUOTE_REFRESH_SCHEDULE)")
	cmd.Flags().Bool("no-refresh", false, "Disable the scheduled cache refresh")
	cmd.Flags().StringSlice("allowed-origins", nil, "CORS origins (HIQUOTE_ALLOWED_ORIGINS)")
	cmd.Flags().Bool("quiet", false, "Disable request logging")
	return cmd
}

// serverConfigFromFlags layers explicitly set flags over the environment
func serverConfigFromFlags(cmd *cobra.Command) (*config.ServerConfig, error) {
	cfg := config.LoadServerConfig()
	flags := cmd.Flags()

	if flags.Changed("addr") {
		cfg.Addr, _ = flags.GetString("addr")
	}
	if flags.Changed("store") {
		s, _ := flags.GetString("store")
		cfg.Store = strings.ToLower(s)
	}
	if flags.Changed("dsn") {
		cfg.DSN, _ = flags.GetString("dsn")
	}
	if flags.Changed("cache-ttl") {
		cfg.CacheTTL, _ = flags.GetDuration("cache-ttl")
	}
	if flags.Changed("refresh-schedule") {
		cfg.RefreshSchedule, _ = flags.GetString("refresh-schedule")
	}
	if noRefresh, _ := flags.GetBool("no-refresh"); noRefresh {
		cfg.RefreshEnabled = false
	}
	if flags.Changed("allowed-origins") {
		cfg.AllowedOrigins, _ = flags.GetStringSlice("allowed-origins")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server configuration: %w", err)
	}
	return cfg, nil
}

// openStore opens the configured rate store; the closer is nil for the memory store
func openStore(ctx context.Context, cfg *config.ServerConfig) (ratestore.Store, io.Closer, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		s, err := ratestore.NewSQLiteStore(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.StorePostgres:
		s, err := ratestore.OpenPostgres(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	}
	return ratestore.NewMemoryStore(), nil, nil
}

func runServer(ctx context.Context, cfg *config.ServerConfig, quiet bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := simpleCLILogger{}

	store, closer, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.Store, err)
	}
	if closer != nil {
		defer closer.Close()
	}

	resolver := ratestore.NewResolver(store, ratestore.NewCache(ratestore.CacheConfig{TTL: cfg.CacheTTL}))
	resolver.SetLogger(logger)

	scheduler := ratestore.NewRefreshScheduler(ratestore.SchedulerConfig{
		Schedule: cfg.RefreshSchedule,
		Timeout:  cfg.RefreshTimeout,
		Enabled:  cfg.RefreshEnabled,
	}, resolver, logger)
	if err := scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start refresh scheduler: %w", err)
	}
	if cfg.RefreshEnabled {
		if n, err := scheduler.RunNow(); err != nil {
			logger.Warnf("initial rate refresh failed: %v", err)
		} else {
			logger.Infof("loaded %d rate configuration(s) from the %s store", n, cfg.Store)
		}
	}

	engine := calculation.NewCalculationEngine()
	engine.SetLogger(logger)
	srv := api.NewServer(engine, resolver, logger)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Router(api.Options{AllowedOrigins: cfg.AllowedOrigins, Quiet: quiet}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("hiquote API listening on %s (store %s)", cfg.Addr, cfg.Store)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		<-scheduler.Stop().Done()
		return err
	case <-ctx.Done():
	}

	log.Println("shutting down server...")
	<-scheduler.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Println("server exited")
	return nil
}
