package models

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendConversationKeepsBoundedTail(t *testing.T) {
	s := NewSubscriber("sub-1")

	for i := 0; i < ConversationKeep+15; i++ {
		s.AppendConversation(RoleUser, fmt.Sprintf("msg %d", i))
	}

	require.Len(t, s.Conversation, ConversationKeep)
	assert.Equal(t, "msg 15", s.Conversation[0].Text)
	assert.Equal(t, fmt.Sprintf("msg %d", ConversationKeep+14), s.Conversation[len(s.Conversation)-1].Text)
}

func TestPersistedTailOrderPreserved(t *testing.T) {
	s := NewSubscriber("sub-2")
	s.AppendConversation(RoleUser, "hello")
	s.AppendConversation(RoleAssistant, "hi there")

	tail := s.PersistedTail()
	require.Len(t, tail, 2)
	assert.Equal(t, RoleUser, tail[0].Role)
	assert.Equal(t, RoleAssistant, tail[1].Role)

	for i := 0; i < 25; i++ {
		s.AppendConversation(RoleUser, "u")
		s.AppendConversation(RoleAssistant, "a")
	}
	assert.Len(t, s.PersistedTail(), ConversationPersist)
}

func TestClampProgression(t *testing.T) {
	assert.Equal(t, 0, ClampProgression(-2))
	assert.Equal(t, 0, ClampProgression(0))
	assert.Equal(t, 3, ClampProgression(3))
	assert.Equal(t, 3, ClampProgression(7))
}

func TestDifficultyForProgression(t *testing.T) {
	cases := map[int]DifficultyKey{
		0: DifficultySimplified,
		1: DifficultyMixed,
		2: DifficultyChallenging,
		3: DifficultyExpert,
		9: DifficultyExpert,
	}
	for p, want := range cases {
		assert.Equal(t, want, DifficultyForProgression(p), "progression %d", p)
	}
}

func TestAdvanceAfterNext(t *testing.T) {
	c := NewTopicPracticeContext()

	c.AdvanceAfterNext()
	assert.Equal(t, 1, c.Progression, "next without help bumps a tier")

	c.LastHelpUsed = true
	c.AdvanceAfterNext()
	assert.Equal(t, 1, c.Progression, "next after help keeps the tier")
	assert.False(t, c.LastHelpUsed, "help flag is consumed")

	c.Progression = 3
	c.AdvanceAfterNext()
	assert.Equal(t, 3, c.Progression, "clamped at the top tier")
}

func TestHarderEasierClamp(t *testing.T) {
	c := NewTopicPracticeContext()
	c.Easier()
	assert.Equal(t, 0, c.Progression)
	for i := 0; i < 5; i++ {
		c.Harder()
	}
	assert.Equal(t, 3, c.Progression)
}

func TestDetectedQuestionPreview(t *testing.T) {
	short := DetectedQuestion{Number: 1, Text: "Solve 2x+3=9"}
	assert.Equal(t, "Solve 2x+3=9", short.Preview())

	long := DetectedQuestion{Number: 2, Text: strings.Repeat("calculate the perimeter ", 10)}
	got := long.Preview()
	assert.Len(t, got, 80)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestSelectQuestionResetsHintTracking(t *testing.T) {
	c := NewHomeworkContext()
	c.HintCount = 4
	c.LastHintType = HintAI

	c.SelectQuestion(DetectedQuestion{Number: 2, Text: "Find the area"})

	require.NotNil(t, c.Selected)
	assert.Equal(t, HomeworkProvidingHint, c.State)
	assert.Equal(t, 0, c.HintCount)
	assert.Equal(t, HintNone, c.LastHintType)
}
