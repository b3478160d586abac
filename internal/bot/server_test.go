package bot

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MankweAI/goat-edtech/internal/models"
	"github.com/MankweAI/goat-edtech/internal/whatsapp"
	"github.com/MankweAI/goat-edtech/pkg/observability"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	b, st := newTestBot(t, nil)
	b.metrics = observability.NewCollector("goat", func() float64 {
		return float64(st.ActiveCount())
	})

	ts := httptest.NewServer(NewServer(b, zap.NewNop()).Router())
	t.Cleanup(ts.Close)
	return ts
}

func postWebhook(t *testing.T, ts *httptest.Server, payload string) (*http.Response, whatsapp.Reply) {
	t.Helper()
	resp, err := http.Post(ts.URL+"/webhook", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var reply whatsapp.Reply
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reply))
	return resp, reply
}

func TestWebhookRoundTrip(t *testing.T) {
	ts := newTestServer(t)

	resp, reply := postWebhook(t, ts, `{"psid":"web-1","message":"hi"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, models.StatusSuccess, reply.Status)
	assert.Contains(t, reply.Message, "Welcome to The GOAT")
	assert.False(t, reply.Timestamp.IsZero())
}

func TestWebhookDrivesFlowAcrossRequests(t *testing.T) {
	ts := newTestServer(t)

	postWebhook(t, ts, `{"psid":"web-2","message":"hi"}`)
	_, reply := postWebhook(t, ts, `{"psid":"web-2","message":"3"}`)

	assert.Contains(t, reply.Message, "Memory Hacks")
	assert.Contains(t, reply.Message, "1️⃣ Mathematics")
}

func TestWebhookRejectsMalformedJSON(t *testing.T) {
	ts := newTestServer(t)

	resp, reply := postWebhook(t, ts, `{"psid":`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, models.StatusError, reply.Status)
	assert.Contains(t, reply.Message, "Could not understand")
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)
	postWebhook(t, ts, `{"psid":"web-health","message":"hi"}`)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var hs struct {
		Status            string            `json:"status"`
		ActiveSubscribers int               `json:"active_subscribers"`
		RetryQueueDepth   int               `json:"retry_queue_depth"`
		Breakers          map[string]string `json:"breakers"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&hs))

	assert.Equal(t, "ok", hs.Status)
	assert.Equal(t, 1, hs.ActiveSubscribers)
	assert.Equal(t, "closed", hs.Breakers["store"])
	assert.Equal(t, "closed", hs.Breakers["media"])
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	postWebhook(t, ts, `{"psid":"web-metrics","message":"hi"}`)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, "goat_messages_total")
	assert.Contains(t, text, "goat_turn_duration_seconds")
	assert.Contains(t, text, "goat_active_subscribers")
}

func TestMetricsAbsentWithoutCollector(t *testing.T) {
	b, _ := newTestBot(t, nil)
	ts := httptest.NewServer(NewServer(b, zap.NewNop()).Router())
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
