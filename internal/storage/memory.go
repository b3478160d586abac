package storage

import (
	"context"
	"sync"
)

// MemoryRemote keeps rows in process memory. It backs local development and
// tests, where durability across restarts does not matter.
type MemoryRemote struct {
	mu      sync.RWMutex
	rows    map[string]SubscriberRow
	events  []Event
	upserts map[string]int
}

func NewMemoryRemote() *MemoryRemote {
	return &MemoryRemote{
		rows:    make(map[string]SubscriberRow),
		upserts: make(map[string]int),
	}
}

func (m *MemoryRemote) FetchSubscriber(_ context.Context, id string) (*SubscriberRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	row, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (m *MemoryRemote) UpsertSubscriber(_ context.Context, row SubscriberRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rows[row.ID] = row
	m.upserts[row.ID]++
	return nil
}

func (m *MemoryRemote) InsertEvent(_ context.Context, ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, ev)
	return nil
}

func (m *MemoryRemote) Close() error {
	return nil
}

// Row returns the stored row for an id.
func (m *MemoryRemote) Row(id string) (SubscriberRow, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	row, ok := m.rows[id]
	return row, ok
}

// UpsertCount reports how many upserts have landed for an id.
func (m *MemoryRemote) UpsertCount(id string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.upserts[id]
}

// Events returns a copy of the recorded analytics rows.
func (m *MemoryRemote) Events() []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}
