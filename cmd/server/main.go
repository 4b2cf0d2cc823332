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

	"github.com/damon-houk/cambio-quoter/internal/application/service"
	"github.com/damon-houk/cambio-quoter/internal/infrastructure/cache"
	"github.com/damon-houk/cambio-quoter/internal/infrastructure/config"
	"github.com/damon-houk/cambio-quoter/internal/infrastructure/db"
	"github.com/damon-houk/cambio-quoter/internal/infrastructure/handler"
	"github.com/damon-houk/cambio-quoter/internal/infrastructure/logger"
	"github.com/damon-houk/cambio-quoter/internal/infrastructure/scheduler"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()

	if err != nil {
		logger.Fatal("Server exited with error", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// run wires the server and blocks until ctx is done or a component fails.
// Every resource it opens is released before it returns.
func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.NewJSONLogger(os.Stdout, cfg.Level()).WithField("service", "cambio-quoter")
	logger.SetDefaultLogger(log)

	log.Info("Starting USD/PEN exchange quoter", map[string]interface{}{
		"port":        cfg.Port,
		"feed_driver": cfg.FeedDriver,
		"collection":  cfg.RatesCollection,
		"doc_id":      cfg.RatesDocID,
	})

	ctx, stop := context.WithCancel(ctx)
	defer stop()

	// Rates document store
	ratesDocs, err := db.OpenRatesDocumentStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open rates document store: %w", err)
	}
	defer func() {
		if err := ratesDocs.Close(); err != nil {
			log.Error("Error closing rates document store", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	// Core state
	rateStore := service.NewRateStore(log.WithField("component", "rate_store"))
	defer rateStore.LogReadiness(log)()

	sessionStore := cache.NewSessionCache[*service.Session](cfg.SessionIdleTTL)
	sessionService := service.NewSessionService(sessionStore, rateStore, log)
	conversionService := service.NewConversionService(rateStore, log)

	sweeper, err := scheduler.NewSessionSweeper(cfg.SessionSweepSchedule, sessionService, log)
	if err != nil {
		return fmt.Errorf("failed to schedule session sweeper: %w", err)
	}

	// Feed subscription lives for the whole process
	feedService := service.NewRateFeedService(ratesDocs, rateStore, log.WithField("component", "rates_feed"))
	feedDone := make(chan error, 1)
	go func() {
		feedDone <- feedService.Run(ctx)
	}()

	sweeper.Start()

	router := handler.NewRouter(
		handler.NewRatesHandler(conversionService, log),
		handler.NewSessionHandler(sessionService, log),
		cfg.AllowedOrigins,
		log,
	)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server listening", map[string]interface{}{"addr": server.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	var runErr error
	feedStopped := false
	select {
	case <-ctx.Done():
		log.Info("Shutdown signal received", nil)
	case err := <-serverErr:
		runErr = fmt.Errorf("server failed: %w", err)
	case err := <-feedDone:
		feedStopped = true
		runErr = err
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down server", map[string]interface{}{"error": err.Error()})
	}
	sweeper.Stop(shutdownCtx)

	// The store must not close under a running Watch
	if !feedStopped {
		select {
		case <-feedDone:
		case <-shutdownCtx.Done():
			log.Warn("Rates feed did not stop before the shutdown deadline", nil)
		}
	}

	log.Info("Server stopped", nil)
	return runErr
}
