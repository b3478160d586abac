package storage

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/MankweAI/goat-edtech/internal/models"
	"github.com/MankweAI/goat-edtech/pkg/config"
)

type opKind string

const (
	opStateUpsert    opKind = "state_upsert"
	opAnalyticsEvent opKind = "analytics_event"
)

type retryItem struct {
	kind    opKind
	row     SubscriberRow
	event   Event
	attempt int
	nextAt  time.Time
}

type pendingWrite struct {
	row   SubscriberRow
	timer *time.Timer
}

// Store is the subscriber state service. The in-memory map is authoritative
// during a request; the remote is written behind a per-id debounce so a burst
// of turns produces one upsert carrying the latest snapshot. Remote failures
// never surface to a turn: writes fall back to the retry queue, reads fall
// back to a fresh subscriber.
type Store struct {
	cfg     config.StoreConfig
	remote  Remote
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger

	mu      sync.Mutex
	subs    map[string]*models.Subscriber
	pending map[string]*pendingWrite
	queue   []retryItem

	wg sync.WaitGroup
}

func New(cfg config.StoreConfig, remote Remote, logger *zap.Logger) *Store {
	s := &Store{
		cfg:     cfg,
		remote:  remote,
		logger:  logger,
		subs:    make(map[string]*models.Subscriber),
		pending: make(map[string]*pendingWrite),
	}
	s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "state-store",
		Timeout: cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerThreshold
		},
		// Transient network conditions are retried elsewhere and must not
		// open the breaker.
		IsSuccessful: func(err error) bool {
			return err == nil || IsTransient(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("state store breaker changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return s
}

// GetOrCreate returns the live subscriber for an id. On a memory miss it
// attempts remote retrieval, and failing that starts a fresh subscriber.
func (s *Store) GetOrCreate(ctx context.Context, id string) *models.Subscriber {
	s.mu.Lock()
	if sub, ok := s.subs[id]; ok {
		s.mu.Unlock()
		return sub
	}
	s.mu.Unlock()

	sub := s.retrieve(ctx, id)
	if sub == nil {
		sub = models.NewSubscriber(id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.subs[id]; ok {
		return cur
	}
	s.subs[id] = sub
	return sub
}

func (s *Store) retrieve(ctx context.Context, id string) *models.Subscriber {
	if s.remote == nil {
		return nil
	}
	rctx, cancel := context.WithTimeout(ctx, s.cfg.RetrieveTimeout)
	defer cancel()

	var row *SubscriberRow
	_, err := s.breaker.Execute(func() (interface{}, error) {
		var err error
		row, err = s.remote.FetchSubscriber(rctx, id)
		return nil, err
	})
	if err != nil {
		s.logger.Debug("state retrieval failed",
			zap.String("subscriber", id),
			zap.Error(err))
		return nil
	}
	if row == nil {
		return nil
	}
	sub, err := DecodeRow(*row)
	if err != nil {
		s.logger.Warn("stored state unreadable",
			zap.String("subscriber", id),
			zap.Error(err))
		return nil
	}
	return sub
}

// Persist snapshots the subscriber and schedules a debounced upsert. Calls
// within the debounce window for the same id coalesce; the last snapshot wins.
func (s *Store) Persist(sub *models.Subscriber) {
	s.mu.Lock()
	s.subs[sub.ID] = sub
	s.mu.Unlock()

	if s.remote == nil {
		return
	}

	row, err := EncodeRow(sub)
	if err != nil {
		s.logger.Error("state snapshot failed",
			zap.String("subscriber", sub.ID),
			zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.pending[sub.ID]; ok {
		p.row = row
		return
	}
	id := sub.ID
	s.pending[id] = &pendingWrite{
		row:   row,
		timer: time.AfterFunc(s.cfg.DebounceWindow, func() { s.flush(id) }),
	}
}

func (s *Store) flush(id string) {
	s.mu.Lock()
	p, ok := s.pending[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.pending, id)
	row := p.row
	s.mu.Unlock()

	s.sendRow(row, 0)
}

// sendRow pushes one row through the breaker; attempt counts tries already
// made before this one.
func (s *Store) sendRow(row SubscriberRow, attempt int) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.UpsertTimeout)
	defer cancel()

	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.remote.UpsertSubscriber(ctx, row)
	})
	if err == nil {
		return
	}
	s.logger.Warn("state upsert failed",
		zap.String("subscriber", row.ID),
		zap.Int("attempt", attempt+1),
		zap.Error(err))
	s.enqueue(retryItem{
		kind:    opStateUpsert,
		row:     row,
		attempt: attempt + 1,
		nextAt:  time.Now().Add(s.backoff(attempt + 1)),
	})
}

func (s *Store) sendEvent(ev Event, attempt int) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.UpsertTimeout)
	defer cancel()

	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.remote.InsertEvent(ctx, ev)
	})
	if err == nil {
		return
	}
	s.logger.Debug("analytics insert failed",
		zap.String("type", ev.Type),
		zap.Int("attempt", attempt+1),
		zap.Error(err))
	s.enqueue(retryItem{
		kind:    opAnalyticsEvent,
		event:   ev,
		attempt: attempt + 1,
		nextAt:  time.Now().Add(s.backoff(attempt + 1)),
	})
}

// Track records an analytics event without blocking the caller.
func (s *Store) Track(eventType, subscriberID string, payload interface{}) {
	if s.remote == nil {
		return
	}
	ev := Event{
		ID:           uuid.NewString(),
		Type:         eventType,
		SubscriberID: subscriberID,
		CreatedAt:    time.Now().UTC(),
	}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			s.logger.Warn("analytics payload unmarshalable",
				zap.String("type", eventType),
				zap.Error(err))
		} else {
			ev.Payload = b
		}
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.sendEvent(ev, 0)
	}()
}

func (s *Store) enqueue(item retryItem) {
	max := s.cfg.RetryMaxState
	if item.kind == opAnalyticsEvent {
		max = s.cfg.RetryMaxAnalytics
	}
	if item.attempt >= max {
		s.logger.Warn("retry budget exhausted, dropping",
			zap.String("op", string(item.kind)),
			zap.Int("attempts", item.attempt))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) >= s.cfg.QueueCap {
		dropped := s.queue[0]
		s.queue = s.queue[1:]
		s.logger.Warn("retry queue full, dropping oldest",
			zap.String("op", string(dropped.kind)))
	}
	s.queue = append(s.queue, item)
}

func (s *Store) processRetries() {
	now := time.Now()
	s.mu.Lock()
	due, rest := lo.FilterReject(s.queue, func(item retryItem, _ int) bool {
		return !item.nextAt.After(now)
	})
	s.queue = rest
	s.mu.Unlock()

	for _, item := range due {
		switch item.kind {
		case opStateUpsert:
			s.sendRow(item.row, item.attempt)
		case opAnalyticsEvent:
			s.sendEvent(item.event, item.attempt)
		}
	}
}

func (s *Store) backoff(attempt int) time.Duration {
	d := s.cfg.RetryBase
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= s.cfg.RetryCeiling {
			break
		}
	}
	if d > s.cfg.RetryCeiling {
		d = s.cfg.RetryCeiling
	}
	jitter := 0.75 + 0.5*rand.Float64()
	return time.Duration(float64(d) * jitter)
}

// Sweep drops subscribers inactive beyond the session TTL from the hot cache
// and returns how many were removed.
func (s *Store) Sweep(now time.Time) int {
	cutoff := now.Add(-s.cfg.SessionTTL)
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sub := range s.subs {
		if sub.LastActive.Before(cutoff) {
			delete(s.subs, id)
			removed++
		}
	}
	return removed
}

// Run drives the retry scheduler and the TTL sweeper until the context ends.
func (s *Store) Run(ctx context.Context) {
	retry := time.NewTicker(s.cfg.RetryInterval)
	sweep := time.NewTicker(s.cfg.SweepInterval)
	defer retry.Stop()
	defer sweep.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-retry.C:
			s.processRetries()
		case <-sweep.C:
			if n := s.Sweep(time.Now()); n > 0 {
				s.logger.Info("swept inactive subscribers", zap.Int("count", n))
			}
		}
	}
}

// ActiveCount reports how many subscribers are in the hot cache.
func (s *Store) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// QueueDepth reports how many operations await retry.
func (s *Store) QueueDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// BreakerState exposes the remote breaker state for health reporting.
func (s *Store) BreakerState() gobreaker.State {
	return s.breaker.State()
}

// Close flushes pending writes, waits for in-flight analytics, and closes the
// remote.
func (s *Store) Close() error {
	s.mu.Lock()
	ids := make([]string, 0, len(s.pending))
	for id, p := range s.pending {
		p.timer.Stop()
		ids = append(ids, id)
	}
	s.mu.Unlock()

	for _, id := range ids {
		s.flush(id)
	}
	s.wg.Wait()

	if s.remote != nil {
		return s.remote.Close()
	}
	return nil
}
