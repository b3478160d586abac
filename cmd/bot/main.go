package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/MankweAI/goat-edtech/internal/bot"
	"github.com/MankweAI/goat-edtech/internal/classifier"
	"github.com/MankweAI/goat-edtech/internal/flows"
	"github.com/MankweAI/goat-edtech/internal/hints"
	"github.com/MankweAI/goat-edtech/internal/ocr"
	"github.com/MankweAI/goat-edtech/internal/question"
	"github.com/MankweAI/goat-edtech/internal/render"
	"github.com/MankweAI/goat-edtech/internal/storage"
	"github.com/MankweAI/goat-edtech/internal/whatsapp"
	"github.com/MankweAI/goat-edtech/pkg/config"
	"github.com/MankweAI/goat-edtech/pkg/observability"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	// Initialize persistence
	remote, err := newRemote(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize persistence", zap.Error(err))
	}
	store := storage.New(cfg.Store, remote, logger)
	defer store.Close()

	// Initialize observability
	metrics := observability.NewCollector("goat", func() float64 {
		return float64(store.ActiveCount())
	})
	sender := whatsapp.NewSender(cfg.WhatsApp, logger)
	metrics.RegisterGauge("retry_queue_depth", "Writes waiting for retry.", func() float64 {
		return float64(store.QueueDepth())
	})
	metrics.RegisterGauge("store_breaker_state", "State store breaker (0 closed, 1 half-open, 2 open).", func() float64 {
		return float64(store.BreakerState())
	})
	metrics.RegisterGauge("media_breaker_state", "Media upload breaker (0 closed, 1 half-open, 2 open).", func() float64 {
		return float64(sender.BreakerState())
	})

	// Initialize the bot with its flows
	gen := question.NewGenerator(cfg.OpenAI, logger).WithFallbackCounter(metrics.LLMFallbacks)
	ocrService := ocr.NewService(cfg.OCR, logger).WithCacheHitCounter(metrics.OCRCacheHits)
	b := bot.New(bot.Deps{
		Store:       store,
		Practice:    flows.NewPracticeFlow(gen, logger),
		Homework:    flows.NewHomeworkFlow(ocrService, hints.NewEngine(cfg.OpenAI, logger), cfg.OCR, logger),
		MemoryHacks: flows.NewMemoryHacksFlow(),
		Classifier:  classifier.NewContentClassifier(),
		Renderer:    render.New(cfg.Render, logger),
		Sender:      sender,
		Metrics:     metrics,
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: bot.NewServer(b, logger).Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Background retry and session-sweep loops
	go store.Run(ctx)

	go func() {
		logger.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shut down", zap.Error(err))
	}
}

func newRemote(cfg *config.Config, logger *zap.Logger) (storage.Remote, error) {
	switch cfg.Persistence.Backend {
	case "", "memory":
		logger.Info("Using in-memory persistence")
		return storage.NewMemoryRemote(), nil
	case "supabase":
		logger.Info("Using Supabase persistence")
		return storage.NewSupabaseRemote(cfg.Persistence.SupabaseURL, cfg.Persistence.SupabaseKey, cfg.Store.FetchTimeout)
	case "postgres":
		logger.Info("Using PostgreSQL persistence")
		return storage.NewPostgresRemote(cfg.Persistence.Database, cfg.Store.FetchTimeout)
	}
	return nil, fmt.Errorf("unknown persistence backend %q", cfg.Persistence.Backend)
}
