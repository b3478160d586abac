package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSupabaseTestRemote(t *testing.T, handler http.HandlerFunc, opTimeout time.Duration) *SupabaseRemote {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	remote, err := NewSupabaseRemote(ts.URL, "service-role-key", opTimeout)
	require.NoError(t, err)
	t.Cleanup(func() { _ = remote.Close() })
	return remote
}

func TestSupabaseFetchSubscriberDecodesRow(t *testing.T) {
	remote := newSupabaseTestRemote(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Contains(t, r.URL.Path, "subscribers")
		assert.Contains(t, r.URL.RawQuery, "id=eq.learner-1")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"learner-1","current_menu":"topic_practice",` +
			`"context":{},"preferences":{"device":"smartphone"},"conversation":[],` +
			`"updated_at":"2026-08-26T10:00:00Z"}`))
	}, time.Second)

	row, err := remote.FetchSubscriber(context.Background(), "learner-1")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "learner-1", row.ID)
	assert.Equal(t, "topic_practice", row.CurrentMenu)
	assert.False(t, row.UpdatedAt.IsZero())
}

func TestSupabaseFetchSubscriberAbsentIsNotAnError(t *testing.T) {
	remote := newSupabaseTestRemote(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotAcceptable)
		_, _ = w.Write([]byte(`{"code":"PGRST116","details":"The result contains 0 rows",` +
			`"hint":null,"message":"JSON object requested, multiple (or no) rows returned"}`))
	}, time.Second)

	row, err := remote.FetchSubscriber(context.Background(), "nobody")
	assert.NoError(t, err)
	assert.Nil(t, row)
}

func TestSupabaseUpsertSubscriber(t *testing.T) {
	remote := newSupabaseTestRemote(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "subscribers")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`[]`))
	}, time.Second)

	row := SubscriberRow{ID: "learner-2", CurrentMenu: "welcome", UpdatedAt: time.Now().UTC()}
	assert.NoError(t, remote.UpsertSubscriber(context.Background(), row))
}

func TestSupabaseOperationsHonorTimeout(t *testing.T) {
	release := make(chan struct{})
	remote := newSupabaseTestRemote(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	}, 100*time.Millisecond)
	// Registered after the server's Close cleanup so it runs first (LIFO),
	// unblocking the handler before httptest.Server.Close waits on it.
	t.Cleanup(func() { close(release) })

	start := time.Now()
	_, err := remote.FetchSubscriber(context.Background(), "learner-3")
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second,
		"a stalled backend must fail inside the per-operation timeout")
}
