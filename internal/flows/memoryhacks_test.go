package flows

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MankweAI/goat-edtech/internal/models"
)

func TestMemoryHacksEnterListsSubjects(t *testing.T) {
	f := NewMemoryHacksFlow()
	sub := models.NewSubscriber("learner-1")

	turn := f.Enter(sub)

	assert.Equal(t, models.MenuMemoryHacks, sub.CurrentMenu)
	assert.Contains(t, turn.Body, "1️⃣ Mathematics")
	assert.Contains(t, turn.Body, "5️⃣ History")
}

func TestMemoryHacksPick(t *testing.T) {
	f := NewMemoryHacksFlow()
	sub := models.NewSubscriber("learner-1")
	f.Enter(sub)

	turn := f.Handle(sub, "1")

	assert.Equal(t, models.StatusSuccess, turn.Status)
	assert.Contains(t, turn.Body, "BODMAS")
	assert.Contains(t, turn.Body, "SOH CAH TOA")
	assert.Contains(t, turn.Tail, "menu")
	assert.Equal(t, models.MenuMemoryHacks, sub.CurrentMenu)
}

func TestMemoryHacksLifeSciences(t *testing.T) {
	f := NewMemoryHacksFlow()
	sub := models.NewSubscriber("learner-1")
	f.Enter(sub)

	turn := f.Handle(sub, "3")

	assert.Contains(t, turn.Body, "MRS GREN")
	assert.Contains(t, turn.Body, "King Phillip")
}

func TestMemoryHacksInvalidPickIsIdempotent(t *testing.T) {
	f := NewMemoryHacksFlow()
	sub := models.NewSubscriber("learner-1")
	f.Enter(sub)

	first := f.Handle(sub, "9")
	second := f.Handle(sub, "9")

	assert.Equal(t, models.StatusInvalidSelection, first.Status)
	assert.Equal(t, first.Body, second.Body)
	assert.Contains(t, first.Body, "Pick a subject")
}

func TestMemoryHacksWordInputReprompts(t *testing.T) {
	f := NewMemoryHacksFlow()
	sub := models.NewSubscriber("learner-1")
	f.Enter(sub)

	turn := f.Handle(sub, "maths")

	assert.Equal(t, models.StatusInvalidSelection, turn.Status)
	assert.Contains(t, turn.Body, "1️⃣ Mathematics")
}
