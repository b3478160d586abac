package models

// PracticeState is the topic-practice FSM state.
type PracticeState string

const (
	PracticeSubjectGrade   PracticeState = "subject_grade"
	PracticeTopicSelect    PracticeState = "topic_select"
	PracticeSubtopicSelect PracticeState = "subtopic_select"
	PracticeLoop           PracticeState = "loop"
)

// TopicPracticeContext is the flow context while a subscriber is in topic
// practice. TopicChoices and SubChoices back the numbered prompt currently on
// screen; they are rebuilt from the catalog when absent, so they stay out of
// the persisted snapshot.
type TopicPracticeContext struct {
	State        PracticeState `json:"state"`
	Subject      string        `json:"subject,omitempty"`
	Grade        int           `json:"grade,omitempty"`
	Topic        string        `json:"topic,omitempty"`
	SubTopic     string        `json:"sub_topic,omitempty"`
	Progression  int           `json:"progression"`
	QIndex       int           `json:"q_index"`
	Current      *Question     `json:"current_question,omitempty"`
	LastHelpUsed bool          `json:"last_help_used"`

	TopicChoices []string `json:"-"`
	SubChoices   []string `json:"-"`
}

// NewTopicPracticeContext starts the flow at the subject+grade prompt.
func NewTopicPracticeContext() *TopicPracticeContext {
	return &TopicPracticeContext{State: PracticeSubjectGrade}
}

// Harder raises the difficulty tier, clamped to the top tier.
func (c *TopicPracticeContext) Harder() {
	c.Progression = ClampProgression(c.Progression + 1)
}

// Easier lowers the difficulty tier, clamped to the bottom tier.
func (c *TopicPracticeContext) Easier() {
	c.Progression = ClampProgression(c.Progression - 1)
}

// AdvanceAfterNext applies the progressive-difficulty rule for "next": bump a
// tier only when the learner solved the previous question without help.
func (c *TopicPracticeContext) AdvanceAfterNext() {
	if !c.LastHelpUsed {
		c.Progression = ClampProgression(c.Progression + 1)
	}
	c.LastHelpUsed = false
}

// HomeworkState is the homework-help FSM state.
type HomeworkState string

const (
	HomeworkAwaitingImage     HomeworkState = "awaiting_image"
	HomeworkQuestionsDetected HomeworkState = "questions_detected"
	HomeworkProvidingHint     HomeworkState = "providing_hint"
)

// HintType records which hint strategy produced the last hint, so the engine
// can rotate to a different one next turn.
type HintType string

const (
	HintNone    HintType = "none"
	HintInstant HintType = "instant"
	HintDynamic HintType = "dynamic"
	HintAI      HintType = "ai"
)

// HomeworkContext is the flow context while a subscriber is in homework help.
type HomeworkContext struct {
	State         HomeworkState      `json:"state"`
	ExtractedText string             `json:"extracted_text,omitempty"`
	Questions     []DetectedQuestion `json:"questions,omitempty"`
	Selected      *DetectedQuestion  `json:"selected_question,omitempty"`
	HintCount     int                `json:"hint_count"`
	LastHintType  HintType           `json:"last_hint_type"`
	ImageHash     string             `json:"image_hash,omitempty"`
}

// NewHomeworkContext starts the flow waiting for a photo.
func NewHomeworkContext() *HomeworkContext {
	return &HomeworkContext{
		State:        HomeworkAwaitingImage,
		LastHintType: HintNone,
	}
}

// SelectQuestion pins the learner's pick and moves to the hinting state.
func (c *HomeworkContext) SelectQuestion(q DetectedQuestion) {
	c.Selected = &q
	c.State = HomeworkProvidingHint
	c.HintCount = 0
	c.LastHintType = HintNone
}
