package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/outlinemd/internal/api"
	"github.com/dgallion1/outlinemd/internal/config"
	"github.com/dgallion1/outlinemd/internal/logo"
	"github.com/dgallion1/outlinemd/internal/stats"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Logo processing runs in the background; the page falls back to the
	// original URL until it finishes.
	var lp *logo.Processor
	fetcher := logo.NewFetcher(cfg.LogoFetchTimeout)
	var httpRemover *logo.HTTPRemover
	if cfg.LogoEnabled {
		var remover logo.Remover = logo.KeyRemover{Tolerance: cfg.BGTolerance}
		if cfg.BGRemoverURL != "" {
			httpRemover = logo.NewHTTPRemover(cfg.BGRemoverURL, cfg.BGRemoverAPIKey, cfg.LogoFetchTimeout)
			remover = httpRemover
		}
		lp = logo.NewProcessor(cfg.LogoURL, fetcher, remover, log.With("component", "logo"))
		lp.Start(ctx)
	}

	srv := api.NewServer(lp, stats.NewLatency(cfg.StatsWindow), log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if lp != nil {
			lp.Wait(shutdownCtx)
		}
		fetcher.Close()
		if httpRemover != nil {
			httpRemover.Close()
		}
	}()

	log.Info("starting outlinemd", "port", cfg.Port, "logo_enabled", cfg.LogoEnabled)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
