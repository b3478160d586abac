package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MankweAI/goat-edtech/internal/models"
	"github.com/MankweAI/goat-edtech/pkg/config"
)

func testStoreConfig() config.StoreConfig {
	return config.StoreConfig{
		DebounceWindow:    30 * time.Millisecond,
		UpsertTimeout:     2 * time.Second,
		FetchTimeout:      2 * time.Second,
		RetrieveTimeout:   time.Second,
		RetryInterval:     50 * time.Millisecond,
		RetryBase:         10 * time.Millisecond,
		RetryCeiling:      80 * time.Millisecond,
		RetryMaxState:     8,
		RetryMaxAnalytics: 5,
		QueueCap:          200,
		BreakerThreshold:  5,
		BreakerCooldown:   time.Minute,
		SessionTTL:        12 * time.Hour,
		SweepInterval:     time.Hour,
	}
}

// flakyRemote fails every operation with a settable error.
type flakyRemote struct {
	mu      sync.Mutex
	fail    error
	upserts int
	events  int
}

func (f *flakyRemote) FetchSubscriber(_ context.Context, _ string) (*SubscriberRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	return nil, nil
}

func (f *flakyRemote) UpsertSubscriber(_ context.Context, _ SubscriberRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	return f.fail
}

func (f *flakyRemote) InsertEvent(_ context.Context, _ Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events++
	return f.fail
}

func (f *flakyRemote) Close() error { return nil }

func (f *flakyRemote) setFail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = err
}

func (f *flakyRemote) upsertCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.upserts
}

func TestPersistDebounceCoalesces(t *testing.T) {
	remote := NewMemoryRemote()
	s := New(testStoreConfig(), remote, zap.NewNop())

	sub := s.GetOrCreate(context.Background(), "u1")
	for _, menu := range []models.Menu{models.MenuTopicPractice, models.MenuHomework, models.MenuMemoryHacks} {
		sub.CurrentMenu = menu
		s.Persist(sub)
	}

	require.Eventually(t, func() bool { return remote.UpsertCount("u1") > 0 }, time.Second, 5*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, 1, remote.UpsertCount("u1"))
	row, ok := remote.Row("u1")
	require.True(t, ok)
	assert.Equal(t, string(models.MenuMemoryHacks), row.CurrentMenu)
}

func TestPersistSeparateBurstsUpsertSeparately(t *testing.T) {
	remote := NewMemoryRemote()
	s := New(testStoreConfig(), remote, zap.NewNop())

	sub := s.GetOrCreate(context.Background(), "u1")
	s.Persist(sub)
	require.Eventually(t, func() bool { return remote.UpsertCount("u1") == 1 }, time.Second, 5*time.Millisecond)

	s.Persist(sub)
	require.Eventually(t, func() bool { return remote.UpsertCount("u1") == 2 }, time.Second, 5*time.Millisecond)
}

func TestGetOrCreateMaterializesFromRemote(t *testing.T) {
	remote := NewMemoryRemote()
	seed := models.NewSubscriber("u2")
	seed.CurrentMenu = models.MenuTopicPractice
	p := seed.EnsurePractice()
	p.State = models.PracticeLoop
	p.Subject = "Mathematics"
	p.Grade = 10
	p.Progression = 2
	row, err := EncodeRow(seed)
	require.NoError(t, err)
	require.NoError(t, remote.UpsertSubscriber(context.Background(), row))

	s := New(testStoreConfig(), remote, zap.NewNop())
	sub := s.GetOrCreate(context.Background(), "u2")

	assert.Equal(t, models.MenuTopicPractice, sub.CurrentMenu)
	require.NotNil(t, sub.Practice)
	assert.Equal(t, "Mathematics", sub.Practice.Subject)
	assert.Equal(t, 2, sub.Practice.Progression)
}

func TestGetOrCreateFreshAndCached(t *testing.T) {
	s := New(testStoreConfig(), NewMemoryRemote(), zap.NewNop())

	a := s.GetOrCreate(context.Background(), "u3")
	assert.Equal(t, models.MenuWelcome, a.CurrentMenu)

	b := s.GetOrCreate(context.Background(), "u3")
	assert.Same(t, a, b)
}

func TestMemoryOnlyStore(t *testing.T) {
	s := New(testStoreConfig(), nil, zap.NewNop())

	sub := s.GetOrCreate(context.Background(), "u4")
	sub.CurrentMenu = models.MenuHomework
	s.Persist(sub)
	s.Track(EventHintServed, "u4", nil)

	assert.Same(t, sub, s.GetOrCreate(context.Background(), "u4"))
	require.NoError(t, s.Close())
}

func TestBreakerIgnoresTransientFailures(t *testing.T) {
	remote := &flakyRemote{fail: errors.New("fetch failed: socket hang up")}
	s := New(testStoreConfig(), remote, zap.NewNop())
	row := SubscriberRow{ID: "u5"}

	for i := 0; i < 8; i++ {
		s.sendRow(row, 0)
	}

	assert.Equal(t, gobreaker.StateClosed, s.BreakerState())
	assert.Equal(t, 8, remote.upsertCalls())
	assert.Equal(t, 8, s.QueueDepth())
}

func TestBreakerOpensOnPersistentFailures(t *testing.T) {
	remote := &flakyRemote{fail: errors.New("permission denied for table subscribers")}
	s := New(testStoreConfig(), remote, zap.NewNop())
	row := SubscriberRow{ID: "u5"}

	for i := 0; i < 5; i++ {
		s.sendRow(row, 0)
	}
	require.Equal(t, gobreaker.StateOpen, s.BreakerState())

	// Open breaker short-circuits: the remote is not touched, the write is
	// queued for later.
	before := remote.upsertCalls()
	s.sendRow(row, 0)
	assert.Equal(t, before, remote.upsertCalls())
	assert.Equal(t, 6, s.QueueDepth())
}

func TestRetryDrainsWhenRemoteRecovers(t *testing.T) {
	remote := &flakyRemote{fail: errors.New("connection reset by peer")}
	s := New(testStoreConfig(), remote, zap.NewNop())

	s.sendRow(SubscriberRow{ID: "u6"}, 0)
	require.Equal(t, 1, s.QueueDepth())

	remote.setFail(nil)
	s.mu.Lock()
	s.queue[0].nextAt = time.Now().Add(-time.Second)
	s.mu.Unlock()

	s.processRetries()

	assert.Equal(t, 0, s.QueueDepth())
	assert.Equal(t, 2, remote.upsertCalls())
}

func TestRetryLeavesFutureItemsQueued(t *testing.T) {
	s := New(testStoreConfig(), NewMemoryRemote(), zap.NewNop())
	s.enqueue(retryItem{kind: opStateUpsert, row: SubscriberRow{ID: "later"}, attempt: 1, nextAt: time.Now().Add(time.Hour)})

	s.processRetries()

	assert.Equal(t, 1, s.QueueDepth())
}

func TestRetryBudgetExhausted(t *testing.T) {
	cfg := testStoreConfig()
	s := New(cfg, NewMemoryRemote(), zap.NewNop())

	s.enqueue(retryItem{kind: opStateUpsert, attempt: cfg.RetryMaxState})
	assert.Equal(t, 0, s.QueueDepth())

	s.enqueue(retryItem{kind: opAnalyticsEvent, attempt: cfg.RetryMaxAnalytics})
	assert.Equal(t, 0, s.QueueDepth())

	s.enqueue(retryItem{kind: opStateUpsert, attempt: cfg.RetryMaxState - 1})
	assert.Equal(t, 1, s.QueueDepth())
}

func TestQueueCapDropsOldest(t *testing.T) {
	cfg := testStoreConfig()
	cfg.QueueCap = 3
	s := New(cfg, NewMemoryRemote(), zap.NewNop())

	for i := 1; i <= 5; i++ {
		s.enqueue(retryItem{kind: opStateUpsert, row: SubscriberRow{ID: fmt.Sprintf("u%d", i)}, attempt: 1})
	}

	require.Equal(t, 3, s.QueueDepth())
	s.mu.Lock()
	ids := lo.Map(s.queue, func(item retryItem, _ int) string { return item.row.ID })
	s.mu.Unlock()
	assert.Equal(t, []string{"u3", "u4", "u5"}, ids)
}

func TestSweepRemovesInactive(t *testing.T) {
	s := New(testStoreConfig(), nil, zap.NewNop())

	s.GetOrCreate(context.Background(), "fresh")
	stale := s.GetOrCreate(context.Background(), "stale")
	stale.LastActive = time.Now().Add(-13 * time.Hour)

	assert.Equal(t, 1, s.Sweep(time.Now()))
	assert.Equal(t, 1, s.ActiveCount())
}

func TestTrackRecordsEvent(t *testing.T) {
	remote := NewMemoryRemote()
	s := New(testStoreConfig(), remote, zap.NewNop())

	s.Track(EventQuestionServed, "u7", map[string]string{"subject": "Mathematics"})

	require.Eventually(t, func() bool { return len(remote.Events()) == 1 }, time.Second, 5*time.Millisecond)
	ev := remote.Events()[0]
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, EventQuestionServed, ev.Type)
	assert.Equal(t, "u7", ev.SubscriberID)
	assert.Contains(t, string(ev.Payload), "Mathematics")
}

func TestBackoffGrowsAndCaps(t *testing.T) {
	cfg := testStoreConfig()
	cfg.RetryBase = time.Second
	cfg.RetryCeiling = 45 * time.Second
	s := New(cfg, nil, zap.NewNop())

	expected := []time.Duration{
		time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second,
		16 * time.Second, 32 * time.Second, 45 * time.Second, 45 * time.Second,
	}
	for attempt, want := range expected {
		d := s.backoff(attempt + 1)
		assert.GreaterOrEqual(t, d, time.Duration(float64(want)*0.75), "attempt %d", attempt+1)
		assert.LessOrEqual(t, d, time.Duration(float64(want)*1.25), "attempt %d", attempt+1)
	}
}

func TestCloseFlushesPendingWrites(t *testing.T) {
	remote := NewMemoryRemote()
	cfg := testStoreConfig()
	cfg.DebounceWindow = time.Hour
	s := New(cfg, remote, zap.NewNop())

	sub := s.GetOrCreate(context.Background(), "u8")
	sub.CurrentMenu = models.MenuMemoryHacks
	s.Persist(sub)
	require.Equal(t, 0, remote.UpsertCount("u8"))

	require.NoError(t, s.Close())

	assert.Equal(t, 1, remote.UpsertCount("u8"))
	row, _ := remote.Row("u8")
	assert.Equal(t, string(models.MenuMemoryHacks), row.CurrentMenu)
}
