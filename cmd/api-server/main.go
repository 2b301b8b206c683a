package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hackgods/medi-assist/internal/api"
	"github.com/hackgods/medi-assist/internal/app"
	"github.com/hackgods/medi-assist/internal/config"
	"github.com/hackgods/medi-assist/internal/logging"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logging.New("api-server", "info", "", false)
		bootLog.Fatal().Err(err).Msg("config load error")
	}

	log := logging.New("api-server", cfg.LogLevel, cfg.LogFormat, cfg.Production())
	log.Info().Str("env", cfg.Env).Str("http_port", cfg.HTTPPort).Msg("api-server starting up")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(rootCtx, cfg, log); err != nil {
		log.Error().Err(err).Msg("api-server stopped with error")
		stop()
		os.Exit(1)
	}

	log.Info().Msg("api-server stopped")
}

// run serves the API and the missed-dose sweeper until ctx ends or either
// fails.
func run(rootCtx context.Context, cfg config.Config, log zerolog.Logger) error {
	b, err := app.Build(rootCtx, cfg, log)
	if err != nil {
		return err
	}
	defer b.Close()

	router := api.NewRouter(api.RouterConfig{
		Services:     b.Services,
		Tokens:       b.Tokens,
		AuthRequired: cfg.AuthRequired,
		PgPool:       b.Pg,
		Redis:        b.Redis,
		Env:          cfg.Env,
		Version:      version,
		Logger:       log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(rootCtx)

	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		log.Info().
			Dur("interval", cfg.ReminderInterval).
			Dur("grace", cfg.DoseGrace).
			Msg("missed-dose sweeper started")
		return b.Services.Medications.RunReminders(ctx, cfg.ReminderInterval, cfg.DoseGrace)
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down api-server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
