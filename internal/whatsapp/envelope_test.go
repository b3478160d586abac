package whatsapp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MankweAI/goat-edtech/internal/models"
)

func TestDecorate(t *testing.T) {
	out := Decorate("Here is your question.", "Reply *menu* for main menu")

	assert.True(t, strings.HasPrefix(out, "Here is your question.\n\n"))
	assert.Contains(t, out, Footer)
	assert.True(t, strings.HasSuffix(out, "Reply *menu* for main menu"))

	lines := strings.Split(out, "\n")
	assert.Equal(t, Footer, lines[len(lines)-2])
}

func TestDecorateWithoutTail(t *testing.T) {
	out := Decorate("Cheers!", "")
	assert.Equal(t, "Cheers!\n\n"+Footer, out)
}

func TestNumberEmoji(t *testing.T) {
	assert.Equal(t, "1️⃣", NumberEmoji(1))
	assert.Equal(t, "7️⃣", NumberEmoji(7))
	assert.Equal(t, "🔟", NumberEmoji(10))
	assert.Equal(t, "11.", NumberEmoji(11))
	assert.Equal(t, "0.", NumberEmoji(0))
}

func TestNewReply(t *testing.T) {
	r := NewReply("hello", models.StatusSuccess)

	assert.Equal(t, "hello", r.Message)
	assert.Equal(t, "hello", r.Echo)
	assert.Equal(t, models.StatusSuccess, r.Status)
	assert.False(t, r.Timestamp.IsZero())
	assert.Nil(t, r.Image)
}
