package whatsapp

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MankweAI/goat-edtech/internal/render"
	"github.com/MankweAI/goat-edtech/pkg/config"
)

func testSenderConfig(endpoints ...string) config.WhatsAppConfig {
	return config.WhatsAppConfig{
		Endpoints:        endpoints,
		APIToken:         "test-token",
		AttemptTimeout:   2 * time.Second,
		GlobalBudget:     5 * time.Second,
		BreakerThreshold: 3,
		BreakerCooldown:  time.Minute,
		DedupTTL:         time.Minute,
		DedupMax:         10,
	}
}

func testImage(content string) *render.Image {
	return &render.Image{
		Data:   base64.StdEncoding.EncodeToString([]byte(content)),
		Format: "svg+xml",
		Width:  480,
		Height: 120,
		Alt:    "rendered formula",
	}
}

func TestSendImageUploadsMultipart(t *testing.T) {
	var gotSubscriber, gotCaption, gotName, gotAuth string
	var gotBytes []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotSubscriber = r.FormValue("subscriber_id")
		gotCaption = r.FormValue("caption")
		gotAuth = r.Header.Get("Authorization")
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		gotName = header.Filename
		gotBytes, err = io.ReadAll(file)
		require.NoError(t, err)
	}))
	defer srv.Close()

	s := NewSender(testSenderConfig(srv.URL), zap.NewNop())
	err := s.SendImage(context.Background(), "learner-1", testImage("<svg>y = x²</svg>"), "y = x²")

	require.NoError(t, err)
	assert.Equal(t, "learner-1", gotSubscriber)
	assert.Equal(t, "y = x²", gotCaption)
	assert.Equal(t, "render.svg", gotName)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "<svg>y = x²</svg>", string(gotBytes))
}

func TestSendImageDedup(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	s := NewSender(testSenderConfig(srv.URL), zap.NewNop())
	img := testImage("<svg>same bytes</svg>")

	require.NoError(t, s.SendImage(context.Background(), "learner-1", img, ""))
	err := s.SendImage(context.Background(), "learner-1", img, "")

	assert.ErrorIs(t, err, ErrDuplicateImage)
	assert.Equal(t, int32(1), hits.Load())

	// Another subscriber gets their own upload.
	require.NoError(t, s.SendImage(context.Background(), "learner-2", img, ""))
	assert.Equal(t, int32(2), hits.Load())
}

func TestSendImageFallsBackToNextEndpoint(t *testing.T) {
	var badHits, goodHits atomic.Int32
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		badHits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		goodHits.Add(1)
	}))
	defer good.Close()

	s := NewSender(testSenderConfig(bad.URL, good.URL), zap.NewNop())
	err := s.SendImage(context.Background(), "learner-1", testImage("<svg>fallback</svg>"), "")

	require.NoError(t, err)
	assert.Equal(t, int32(1), badHits.Load())
	assert.Equal(t, int32(1), goodHits.Load())
	assert.Equal(t, gobreaker.StateClosed, s.BreakerState())
}

func TestMediaBreakerOpensAndFailsFast(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewSender(testSenderConfig(srv.URL), zap.NewNop())
	for i := 0; i < 3; i++ {
		err := s.SendImage(context.Background(), "learner-1", testImage("<svg>"+string(rune('a'+i))+"</svg>"), "")
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrMediaUnavailable)
	}
	require.Equal(t, gobreaker.StateOpen, s.BreakerState())

	err := s.SendImage(context.Background(), "learner-1", testImage("<svg>d</svg>"), "")
	assert.ErrorIs(t, err, ErrMediaUnavailable)
	assert.Equal(t, int32(3), hits.Load())
}

func TestSendImageNoEndpoints(t *testing.T) {
	s := NewSender(testSenderConfig(), zap.NewNop())
	err := s.SendImage(context.Background(), "learner-1", testImage("<svg>x</svg>"), "")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateImage)
}

func TestSendImageRejectsBadPayload(t *testing.T) {
	s := NewSender(testSenderConfig("http://unused.invalid"), zap.NewNop())
	err := s.SendImage(context.Background(), "learner-1", &render.Image{Data: "not base64!!!"}, "")
	assert.Error(t, err)
}
