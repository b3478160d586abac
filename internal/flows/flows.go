// Package flows implements the three conversational flows behind the main
// menu: topic practice, homework help and memory hacks. Each flow is a small
// state machine over the subscriber's flow context; flows build reply turns
// and mutate state, the dispatcher owns envelope decoration and persistence.
package flows

import (
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/MankweAI/goat-edtech/internal/models"
	"github.com/MankweAI/goat-edtech/internal/whatsapp"
)

// Turn is the outcome of one flow step, before the envelope footer is added.
// Render carries the content eligible for image rendering (usually the bare
// question text); Body already contains its display form.
type Turn struct {
	Body    string
	Tail    string
	Status  models.ReplyStatus
	Render  string
	Caption string

	// Analytics event to record for this turn, empty when none.
	Event        string
	EventPayload interface{}
}

const welcomeBody = `🐐 *Welcome to The GOAT!*
Your CAPS study buddy for Grades 8-11.

What do you need today?

1️⃣ Topic Practice
2️⃣ Homework Help
3️⃣ Memory Hacks

Reply with a number.`

// Welcome puts the subscriber back on the main menu and returns its turn.
func Welcome(sub *models.Subscriber) Turn {
	sub.CurrentMenu = models.MenuWelcome
	return Turn{Body: welcomeBody, Status: models.StatusSuccess}
}

var greetings = map[string]bool{
	"hi":             true,
	"hello":          true,
	"hola":           true,
	"hey":            true,
	"heita":          true,
	"howzit":         true,
	"sawubona":       true,
	"molo":           true,
	"dumela":         true,
	"start":          true,
	"good morning":   true,
	"good afternoon": true,
	"good evening":   true,
}

// IsGreeting reports whether the text is a session-opening salutation.
func IsGreeting(text string) bool {
	return greetings[normalizeInput(text)]
}

var menuEscapes = map[string]bool{
	"menu":      true,
	"main menu": true,
	"0":         true,
	"home":      true,
	"back":      true,
}

// IsMenuEscape reports whether the text is the global escape back to the
// main menu, honoured in every flow state.
func IsMenuEscape(text string) bool {
	return menuEscapes[normalizeInput(text)]
}

// normalizeInput lowers, trims and collapses whitespace so synonym tables
// can match on exact strings.
func normalizeInput(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	t = strings.Trim(t, ".!?")
	return strings.Join(strings.Fields(t), " ")
}

// parsePick reads a numbered-menu selection. It accepts "3", "3." and "3)"
// and rejects anything outside [1, n].
func parsePick(text string, n int) (int, bool) {
	t := strings.TrimRight(normalizeInput(text), ".)")
	v, err := strconv.Atoi(t)
	if err != nil || v < 1 || v > n {
		return 0, false
	}
	return v, true
}

// numberedList renders menu items one per line, each prefixed with its
// number emoji.
func numberedList(items []string) string {
	lines := lo.Map(items, func(item string, i int) string {
		return whatsapp.NumberEmoji(i+1) + " " + item
	})
	return strings.Join(lines, "\n")
}
