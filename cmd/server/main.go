package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docmodel/internal/api"
	"github.com/dgallion1/docmodel/internal/config"
	"github.com/dgallion1/docmodel/internal/indexstore"
	"github.com/dgallion1/docmodel/internal/pipeline"
	"github.com/dgallion1/docmodel/internal/version"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

// run serves until ctx is cancelled. HTTP is drained before the workers
// stop, so no request submits into a closed queue.
func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	// Without an index client, jobs are analysed only.
	var index *indexstore.Client
	if cfg.PublishEnabled() {
		index = indexstore.NewClient(cfg.IndexURL, cfg.IndexAPIKey)
		defer index.Close()
	}

	orch := pipeline.NewOrchestrator(cfg, index, log)
	orch.Start(context.WithoutCancel(ctx))
	defer orch.Stop()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      api.NewServer(orch, log, cfg),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting docmodel", "port", cfg.Port, "version", version.String(), "publishing", cfg.PublishEnabled())
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
