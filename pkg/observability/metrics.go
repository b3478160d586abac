// Package observability holds the Prometheus instruments served on /metrics.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the bot's metrics. It carries its own registry so tests
// can build isolated collectors without duplicate-registration panics.
type Collector struct {
	registry *prometheus.Registry

	MessagesTotal   *prometheus.CounterVec
	RepliesTotal    *prometheus.CounterVec
	TurnDuration    prometheus.Histogram
	ImagesSent      prometheus.Counter
	ImageSendErrors prometheus.Counter
	ImageDedupSkips prometheus.Counter
	LLMFallbacks    prometheus.Counter
	OCRCacheHits    prometheus.Counter

	namespace string
}

// NewCollector builds and registers the instrument set. activeSubscribers
// feeds the hot-cache gauge and may be nil.
func NewCollector(namespace string, activeSubscribers func() float64) *Collector {
	registry := prometheus.NewRegistry()

	messages := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Inbound messages handled, by flow.",
		},
		[]string{"flow"},
	)
	replies := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replies_total",
			Help:      "Outbound replies, by envelope status.",
		},
		[]string{"status"},
	)
	duration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_duration_seconds",
			Help:      "Time to handle one inbound message.",
			Buckets:   prometheus.DefBuckets,
		},
	)
	imagesSent := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "images_sent_total",
			Help:      "Rendered images delivered to the chat platform.",
		},
	)
	imageErrors := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_send_errors_total",
			Help:      "Image deliveries that failed and degraded to a text marker.",
		},
	)
	dedupSkips := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_dedup_skips_total",
			Help:      "Image sends skipped because the subscriber already received them.",
		},
	)
	llmFallbacks := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_fallbacks_total",
			Help:      "Question generations that fell back to the offline bank.",
		},
	)
	ocrHits := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ocr_cache_hits_total",
			Help:      "OCR extractions answered from the image-hash cache.",
		},
	)

	registry.MustRegister(messages, replies, duration, imagesSent, imageErrors,
		dedupSkips, llmFallbacks, ocrHits)

	if activeSubscribers != nil {
		registry.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_subscribers",
				Help:      "Subscribers currently held in the hot cache.",
			},
			activeSubscribers,
		))
	}

	return &Collector{
		registry:        registry,
		MessagesTotal:   messages,
		RepliesTotal:    replies,
		TurnDuration:    duration,
		ImagesSent:      imagesSent,
		ImageSendErrors: imageErrors,
		ImageDedupSkips: dedupSkips,
		LLMFallbacks:    llmFallbacks,
		OCRCacheHits:    ocrHits,
		namespace:       namespace,
	}
}

// RegisterGauge attaches a live-read gauge, used for breaker states and the
// retry queue depth.
func (c *Collector) RegisterGauge(name, help string, fn func() float64) {
	c.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: c.namespace,
			Name:      name,
			Help:      help,
		},
		fn,
	))
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
