package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/sir_venger/docgate/internal/app/gatewayhttp"
	"github.com/sir_venger/docgate/internal/config"
)

// serve поднимает шлюз и janitor, завершается корректно по SIGINT/SIGTERM.
func serve(parent context.Context, cfg *config.Config, log zerolog.Logger) error {
	if parent == nil {
		parent = context.Background()
	}

	handler, gw, err := gatewayhttp.NewServer(cfg, log)
	if err != nil {
		log.Error().Err(err).Str("root", cfg.Storage.Root).Msg("init shared storage")
		return err
	}

	stopJanitor := gw.Store.StartJanitor(gw.SweepPolicy(), cfg.Janitor.Interval, log)
	defer stopJanitor()

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: handler,
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Сценарий graceful shutdown при получении SIGTERM/SIGINT.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().
		Str("addr", cfg.ListenAddr).
		Str("converter", cfg.Converter.BaseURL).
		Str("storage_root", gw.Store.Root()).
		Dur("janitor_every", cfg.Janitor.Interval).
		Msg("gateway listening")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("listen")
		return err
	}
	stop()

	log.Info().Msg("gateway stopped")
	return nil
}
