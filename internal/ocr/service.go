package ocr

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/MankweAI/goat-edtech/internal/cache"
	"github.com/MankweAI/goat-edtech/internal/models"
	"github.com/MankweAI/goat-edtech/pkg/config"
)

// ErrNotConfigured is returned when no OCR endpoint is set up. The homework
// flow turns it into guidance rather than a crash.
var ErrNotConfigured = errors.New("ocr: no endpoint configured")

// Extraction is the full outcome for one image: recognized text, detected
// questions and the hash used for caching and dedup.
type Extraction struct {
	ImageHash  string
	Text       string
	Confidence float64
	Questions  []models.DetectedQuestion
}

// Service glues the client, the bounded result cache and the question
// detector together.
type Service struct {
	client    Client
	cache     *cache.LRU
	cfg       config.OCRConfig
	logger    *zap.Logger
	cacheHits prometheus.Counter
}

func NewService(cfg config.OCRConfig, logger *zap.Logger) *Service {
	s := &Service{
		cache:  cache.NewLRU(cfg.CacheSize, cfg.CacheTTL),
		cfg:    cfg,
		logger: logger,
	}
	if cfg.Endpoint != "" {
		s.client = NewVisionClient(cfg.Endpoint, cfg.APIKey, cfg.Timeout, logger)
	}
	return s
}

// WithClient swaps the OCR backend, used by tests and future providers.
func (s *Service) WithClient(c Client) *Service {
	s.client = c
	return s
}

// WithCacheHitCounter counts extractions answered from cache. May stay unset.
func (s *Service) WithCacheHitCounter(c prometheus.Counter) *Service {
	s.cacheHits = c
	return s
}

// Extract assumes the caller already validated the bytes. It runs recognition
// with the cache in front and carves the text into questions.
func (s *Service) Extract(ctx context.Context, image []byte) (Extraction, error) {
	hash := Hash(image)
	if v, ok := s.cache.Get(hash); ok {
		res := v.(Result)
		s.logger.Debug("ocr cache hit", zap.String("image_hash", hash[:12]))
		if s.cacheHits != nil {
			s.cacheHits.Inc()
		}
		return s.carve(hash, res), nil
	}

	if s.client == nil {
		return Extraction{}, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	res, err := s.client.Recognize(ctx, image)
	if err != nil {
		return Extraction{}, fmt.Errorf("ocr: recognize: %w", err)
	}
	s.cache.Add(hash, res)
	return s.carve(hash, res), nil
}

func (s *Service) carve(hash string, res Result) Extraction {
	return Extraction{
		ImageHash:  hash,
		Text:       res.Text,
		Confidence: res.Confidence,
		Questions:  DetectQuestions(res.Text),
	}
}
