package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Simplici0/cabinet-cpq/internal/app"
	"github.com/Simplici0/cabinet-cpq/internal/config"
	"github.com/Simplici0/cabinet-cpq/internal/logger"
	"github.com/Simplici0/cabinet-cpq/internal/store"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// run serves until SIGINT or SIGTERM. Deferred cleanup runs before main
// decides the exit status.
func run() error {
	cfg := config.Load()
	if !cfg.IsDev() {
		logger.JSON()
	}
	logger.SetLevel(cfg.LogLevel)

	kv, closeStore, err := app.OpenStore(cfg, cfg.IsDev())
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := app.Catalog(ctx, cfg, kv, cfg.IsDev())
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	srv := newServer(app.Engine(cfg, c), store.NewQuoteStore(kv), cfg.SessionSecret)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	log.Info().Str("addr", httpServer.Addr).Str("env", cfg.Env).Msg("listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}
