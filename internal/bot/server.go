package bot

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/MankweAI/goat-edtech/internal/models"
	"github.com/MankweAI/goat-edtech/internal/whatsapp"
)

// maxWebhookBytes bounds the request body. Base64 photos at the 5MB image
// cap fit well inside.
const maxWebhookBytes = 8 << 20

// Server exposes the webhook plus health and metrics endpoints.
type Server struct {
	bot     *Bot
	started time.Time
	logger  *zap.Logger
}

func NewServer(b *Bot, logger *zap.Logger) *Server {
	return &Server{bot: b, started: time.Now(), logger: logger}
}

// Router builds the handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Post("/webhook", s.handleWebhook)
	r.Get("/health", s.handleHealth)
	if s.bot.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.bot.metrics.Handler())
	}
	return r
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, whatsapp.NewReply("Could not read that event.", models.StatusError))
		return
	}

	in, err := DecodeInbound(body, r.Header.Get("User-Agent"))
	if err != nil {
		s.logger.Warn("undecodable webhook payload", zap.Error(err))
		s.writeJSON(w, http.StatusBadRequest, whatsapp.NewReply("Could not understand that event.", models.StatusError))
		return
	}

	s.writeJSON(w, http.StatusOK, s.bot.Dispatch(r.Context(), in))
}

type healthStatus struct {
	Status            string            `json:"status"`
	UptimeSeconds     int64             `json:"uptime_seconds"`
	ActiveSubscribers int               `json:"active_subscribers"`
	RetryQueueDepth   int               `json:"retry_queue_depth"`
	Breakers          map[string]string `json:"breakers"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthStatus{
		Status:            "ok",
		UptimeSeconds:     int64(time.Since(s.started).Seconds()),
		ActiveSubscribers: s.bot.store.ActiveCount(),
		RetryQueueDepth:   s.bot.store.QueueDepth(),
		Breakers: map[string]string{
			"store": s.bot.store.BreakerState().String(),
			"media": s.bot.sender.BreakerState().String(),
		},
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("error encoding response", zap.Error(err))
	}
}
