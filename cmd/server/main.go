package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/navgest/internal/api"
	"github.com/dgallion1/navgest/internal/config"
	"github.com/dgallion1/navgest/internal/fragment"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize fragment sources, origin first.
	var chain fragment.Chain
	var origin *fragment.HTTPSource
	if cfg.FragmentBaseURL != "" {
		var opts []fragment.HTTPOption
		if cfg.FragmentAPIKey != "" {
			opts = append(opts, fragment.WithAPIKey(cfg.FragmentAPIKey))
		}
		origin = fragment.NewHTTPSource(cfg.FragmentBaseURL, cfg.FragmentTimeout, log, opts...)
		chain = append(chain, origin)
	}
	if cfg.FragmentDir != "" {
		chain = append(chain, fragment.NewDirSource(cfg.FragmentDir))
	}
	cache := fragment.NewCache(chain, cfg.CacheTTL, log)
	go cache.Run(ctx, cfg.CacheCleanup)

	// Initialize HTTP server.
	srv := api.NewServer(cache, log, cfg)

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

		if origin != nil {
			origin.Close()
		}
	}()

	log.Info("starting navgest", "port", cfg.Port, "nav_path", cfg.NavPath, "sources", len(chain))
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
