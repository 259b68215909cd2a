package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"FinQuery/internal/collector"
	"FinQuery/internal/config"
	"FinQuery/internal/logger"
	"FinQuery/internal/notifier"
	"FinQuery/internal/scheduler"
	"FinQuery/internal/store"
	"FinQuery/internal/web"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath, ".env")
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logger.Setup(cfg.Log.Level, cfg.Log.Format)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	loc, _ := cfg.Location()
	log.Info().Str("config", cfgPath).Str("driver", cfg.Database.Driver).Msg("FinQuery starting")

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init store
	st, err := store.Open(ctx, cfg.Database.Driver, cfg.Database.SQLitePath, cfg.Database.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	defer st.Close()

	// Init notifier
	var n notifier.Notifier = notifier.NewNoopNotifier()
	if cfg.Redis.Enabled {
		rn, err := notifier.NewRedisNotifier(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Stream, cfg.Redis.Channel)
		if err != nil {
			log.Warn().Err(err).Msg("init redis notifier failed, fetch events disabled")
		} else {
			n = rn
		}
	}
	defer n.Close()

	// Init fetcher and collector
	fetcher := collector.NewYahooFetcher(cfg.Provider.BaseURL, cfg.Provider.UserAgent, cfg.Proxy, cfg.Provider.Timeout)
	col := collector.NewCollector(fetcher, st, n, loc)
	log.Info().Str("source", fetcher.Name()).Str("base_url", fetcher.BaseURL).Str("timezone", loc.String()).Msg("provider ready")

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, st, cfg.QueryLog.Retention)
	if err := sched.RegisterAll(cfg.QueryLog.PruneCron); err != nil {
		log.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()
	defer sched.Stop()

	// Init HTTP server
	srv, err := web.NewServer(col, st, cfg.Server.StaticDir)
	if err != nil {
		log.Fatal().Err(err).Msg("init web server")
	}
	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("FinQuery is listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received, stopping...")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	log.Info().Msg("FinQuery stopped")
}
