package models

import "time"

// Menu identifies which conversational flow currently owns a subscriber.
type Menu string

const (
	MenuWelcome       Menu = "welcome"
	MenuTopicPractice Menu = "topic_practice"
	MenuHomework      Menu = "homework"
	MenuMemoryHacks   Menu = "memory_hacks"
)

// ReplyStatus is the status field of the outbound reply envelope.
type ReplyStatus string

const (
	StatusSuccess          ReplyStatus = "success"
	StatusError            ReplyStatus = "error"
	StatusInvalidSelection ReplyStatus = "invalid_selection"
	StatusNoQuestions      ReplyStatus = "no_questions"
)

// DeviceClass is derived from the User-Agent header on first contact.
type DeviceClass string

const (
	DeviceUnknown      DeviceClass = "unknown"
	DeviceFeaturePhone DeviceClass = "feature_phone"
	DeviceSmartphone   DeviceClass = "smartphone"
)

// Role marks who produced a conversation entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationEntry is one line of the bounded per-subscriber transcript.
type ConversationEntry struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	// ConversationKeep is the in-memory transcript tail bound.
	ConversationKeep = 20
	// ConversationPersist is the transcript tail written to the external store.
	ConversationPersist = 10
)

// Preferences holds the per-subscriber settings that survive flow switches.
type Preferences struct {
	Device      DeviceClass `json:"device"`
	LastSubject string      `json:"last_subject,omitempty"`
	LastGrade   int         `json:"last_grade,omitempty"`
}

// Subscriber is one learner on the messaging channel. It is created lazily on
// first inbound event and swept after a period of inactivity.
type Subscriber struct {
	ID           string                `json:"id"`
	CurrentMenu  Menu                  `json:"current_menu"`
	Practice     *TopicPracticeContext `json:"practice,omitempty"`
	Homework     *HomeworkContext      `json:"homework,omitempty"`
	Preferences  Preferences           `json:"preferences"`
	Conversation []ConversationEntry   `json:"conversation,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	LastActive   time.Time             `json:"last_active"`
}

// NewSubscriber returns a fresh subscriber parked on the welcome menu.
func NewSubscriber(id string) *Subscriber {
	now := time.Now()
	return &Subscriber{
		ID:          id,
		CurrentMenu: MenuWelcome,
		Preferences: Preferences{Device: DeviceUnknown},
		CreatedAt:   now,
		LastActive:  now,
	}
}

// Touch refreshes the inactivity clock.
func (s *Subscriber) Touch() {
	s.LastActive = time.Now()
}

// AppendConversation records one transcript line and trims the tail to
// ConversationKeep entries, oldest first out.
func (s *Subscriber) AppendConversation(role Role, text string) {
	s.Conversation = append(s.Conversation, ConversationEntry{
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	})
	if n := len(s.Conversation); n > ConversationKeep {
		s.Conversation = s.Conversation[n-ConversationKeep:]
	}
}

// PersistedTail returns the transcript slice written to the external store,
// preserving order.
func (s *Subscriber) PersistedTail() []ConversationEntry {
	if n := len(s.Conversation); n > ConversationPersist {
		return s.Conversation[n-ConversationPersist:]
	}
	return s.Conversation
}

// EnsurePractice returns the topic-practice context, allocating it on first use.
func (s *Subscriber) EnsurePractice() *TopicPracticeContext {
	if s.Practice == nil {
		s.Practice = NewTopicPracticeContext()
	}
	return s.Practice
}

// EnsureHomework returns the homework context, allocating it on first use.
func (s *Subscriber) EnsureHomework() *HomeworkContext {
	if s.Homework == nil {
		s.Homework = NewHomeworkContext()
	}
	return s.Homework
}
