package whatsapp

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/MankweAI/goat-edtech/internal/cache"
	"github.com/MankweAI/goat-edtech/internal/render"
	"github.com/MankweAI/goat-edtech/pkg/config"
)

var (
	// ErrDuplicateImage means the same image already went to this subscriber
	// inside the dedup window; the caller notes that in text instead.
	ErrDuplicateImage = errors.New("image recently sent to subscriber")
	// ErrMediaUnavailable means the media breaker is open and uploads fail
	// fast; the caller falls back to a text marker.
	ErrMediaUnavailable = errors.New("media delivery unavailable")
)

const (
	uploadBackoffBase = 250 * time.Millisecond
	uploadBackoffCap  = time.Second
)

// Sender uploads rendered images to the chat platform. Endpoint candidates
// are tried in order per send; the first 2xx wins and closes the breaker.
type Sender struct {
	cfg     config.WhatsAppConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	sent    *cache.LRU
	logger  *zap.Logger
}

func NewSender(cfg config.WhatsAppConfig, logger *zap.Logger) *Sender {
	s := &Sender{
		cfg:    cfg,
		client: &http.Client{},
		sent:   cache.NewLRU(cfg.DedupMax, cfg.DedupTTL),
		logger: logger,
	}
	s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "media-upload",
		Timeout: cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("media breaker changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return s
}

// SendImage uploads one rendered image for a subscriber.
func (s *Sender) SendImage(ctx context.Context, subscriberID string, img *render.Image, caption string) error {
	raw, err := base64.StdEncoding.DecodeString(img.Data)
	if err != nil {
		return fmt.Errorf("decode image payload: %w", err)
	}

	sum := md5.Sum(raw)
	key := subscriberID + "|" + hex.EncodeToString(sum[:])
	if s.sent.Contains(key) {
		return ErrDuplicateImage
	}

	_, err = s.breaker.Execute(func() (interface{}, error) {
		return nil, s.upload(ctx, subscriberID, raw, img.Format, caption)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return ErrMediaUnavailable
		}
		return err
	}

	s.sent.Add(key, true)
	return nil
}

func (s *Sender) upload(ctx context.Context, subscriberID string, raw []byte, format, caption string) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.GlobalBudget)
	defer cancel()

	backoff := uploadBackoffBase
	var lastErr error
	for i, endpoint := range s.cfg.Endpoints {
		if i > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("upload budget exhausted: %w", ctx.Err())
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > uploadBackoffCap {
				backoff = uploadBackoffCap
			}
		}

		err := s.attempt(ctx, endpoint, subscriberID, raw, format, caption)
		if err == nil {
			return nil
		}
		lastErr = err
		s.logger.Debug("image upload attempt failed",
			zap.String("endpoint", endpoint),
			zap.Error(err))
	}
	if lastErr == nil {
		lastErr = errors.New("no upload endpoints configured")
	}
	return lastErr
}

func (s *Sender) attempt(ctx context.Context, endpoint, subscriberID string, raw []byte, format, caption string) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.AttemptTimeout)
	defer cancel()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := form.WriteField("subscriber_id", subscriberID); err != nil {
		return err
	}
	if caption != "" {
		if err := form.WriteField("caption", caption); err != nil {
			return err
		}
	}
	part, err := form.CreateFormFile("file", fileName(format))
	if err != nil {
		return err
	}
	if _, err := part.Write(raw); err != nil {
		return err
	}
	if err := form.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	if s.cfg.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIToken)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// fileName picks the upload filename. SVG goes up as-is; no raster encoder
// ships with the service.
func fileName(format string) string {
	if strings.Contains(format, "svg") {
		return "render.svg"
	}
	return "render." + format
}

// BreakerState exposes the media breaker state for health reporting.
func (s *Sender) BreakerState() gobreaker.State {
	return s.breaker.State()
}
