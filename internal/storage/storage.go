package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/MankweAI/goat-edtech/internal/models"
)

// Remote is the durable backstop behind the in-memory subscriber map. A nil
// Remote means the service runs memory-only; every caller must tolerate that.
type Remote interface {
	// FetchSubscriber returns the stored row, or nil when the id is absent.
	FetchSubscriber(ctx context.Context, id string) (*SubscriberRow, error)
	UpsertSubscriber(ctx context.Context, row SubscriberRow) error
	InsertEvent(ctx context.Context, ev Event) error
	Close() error
}

// SubscriberRow is the external table shape, one row per subscriber. The JSON
// columns carry opaque snapshots so schema changes in the flow contexts do not
// need migrations.
type SubscriberRow struct {
	ID           string          `json:"id"`
	CurrentMenu  string          `json:"current_menu"`
	Context      json.RawMessage `json:"context"`
	Preferences  json.RawMessage `json:"preferences"`
	Conversation json.RawMessage `json:"conversation"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Event is one append-only analytics row. ID is assigned client-side so a
// retried insert whose first attempt actually landed stays a no-op.
type Event struct {
	ID           string          `json:"id"`
	Type         string          `json:"type"`
	SubscriberID string          `json:"subscriber_id"`
	Payload      json.RawMessage `json:"payload,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Analytics event names emitted by the flows and the dispatcher.
const (
	EventSessionStarted = "session_started"
	EventMenuSelected   = "menu_selected"
	EventQuestionServed = "question_served"
	EventSolutionServed = "solution_served"
	EventHintServed     = "hint_served"
	EventImageReceived  = "image_received"
	EventMessageIn      = "message_in"
	EventMessageOut     = "message_out"
	EventFlowSwitch     = "flow_switch"
)

type flowSnapshot struct {
	Practice *models.TopicPracticeContext `json:"practice,omitempty"`
	Homework *models.HomeworkContext      `json:"homework,omitempty"`
}

// EncodeRow snapshots a subscriber into its external row form. The
// conversation column carries only the persisted tail.
func EncodeRow(sub *models.Subscriber) (SubscriberRow, error) {
	ctxJSON, err := json.Marshal(flowSnapshot{Practice: sub.Practice, Homework: sub.Homework})
	if err != nil {
		return SubscriberRow{}, fmt.Errorf("encode context: %w", err)
	}
	prefs, err := json.Marshal(sub.Preferences)
	if err != nil {
		return SubscriberRow{}, fmt.Errorf("encode preferences: %w", err)
	}
	tail := sub.PersistedTail()
	if tail == nil {
		tail = []models.ConversationEntry{}
	}
	conv, err := json.Marshal(tail)
	if err != nil {
		return SubscriberRow{}, fmt.Errorf("encode conversation: %w", err)
	}
	return SubscriberRow{
		ID:           sub.ID,
		CurrentMenu:  string(sub.CurrentMenu),
		Context:      ctxJSON,
		Preferences:  prefs,
		Conversation: conv,
		UpdatedAt:    time.Now().UTC(),
	}, nil
}

// DecodeRow materializes a stored row back into a live subscriber.
func DecodeRow(row SubscriberRow) (*models.Subscriber, error) {
	sub := models.NewSubscriber(row.ID)
	if row.CurrentMenu != "" {
		sub.CurrentMenu = models.Menu(row.CurrentMenu)
	}
	if len(row.Context) > 0 {
		var snap flowSnapshot
		if err := json.Unmarshal(row.Context, &snap); err != nil {
			return nil, fmt.Errorf("decode context: %w", err)
		}
		sub.Practice = snap.Practice
		sub.Homework = snap.Homework
	}
	if len(row.Preferences) > 0 {
		if err := json.Unmarshal(row.Preferences, &sub.Preferences); err != nil {
			return nil, fmt.Errorf("decode preferences: %w", err)
		}
	}
	if sub.Preferences.Device == "" {
		sub.Preferences.Device = models.DeviceUnknown
	}
	if len(row.Conversation) > 0 {
		if err := json.Unmarshal(row.Conversation, &sub.Conversation); err != nil {
			return nil, fmt.Errorf("decode conversation: %w", err)
		}
	}
	if !row.UpdatedAt.IsZero() {
		sub.LastActive = row.UpdatedAt
	}
	return sub, nil
}

var transientMarkers = []string{
	"timeout",
	"timed out",
	"connection reset",
	"fetch failed",
	"network",
}

// IsTransient reports whether an error is a passing network condition rather
// than a real rejection. Transient failures are retried without counting
// toward opening the circuit breaker.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
