// Package whatsapp is the outbound adapter for the chat platform. It wraps
// reply text in the response envelope, numbers menu options, and uploads
// rendered images with endpoint fallback, per-subscriber dedup and a
// process-scoped circuit breaker.
package whatsapp

import (
	"fmt"
	"time"

	"github.com/MankweAI/goat-edtech/internal/models"
	"github.com/MankweAI/goat-edtech/internal/render"
)

// Footer separates the reply body from the menu tail on every message.
const Footer = "━━━━━━━━━━━━━━━"

// Reply is the HTTP response payload returned to the chat platform.
type Reply struct {
	Message     string             `json:"message"`
	Echo        string             `json:"echo"`
	Status      models.ReplyStatus `json:"status"`
	Timestamp   time.Time          `json:"timestamp"`
	Image       *render.Image      `json:"image_payload,omitempty"`
	Diagnostics map[string]string  `json:"diagnostics,omitempty"`
}

// NewReply wraps finished body text into the reply envelope. Echo mirrors the
// message for platform configurations that render the echo field instead.
func NewReply(text string, status models.ReplyStatus) Reply {
	return Reply{
		Message:   text,
		Echo:      text,
		Status:    status,
		Timestamp: time.Now().UTC(),
	}
}

// Decorate appends the footer separator and a menu tail to a reply body.
func Decorate(body, tail string) string {
	if tail == "" {
		return body + "\n\n" + Footer
	}
	return body + "\n\n" + Footer + "\n" + tail
}

var numberEmojis = []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣", "🔟"}

// NumberEmoji returns the keycap form of 1..10 and a plain "n." beyond that.
func NumberEmoji(n int) string {
	if n >= 1 && n <= len(numberEmojis) {
		return numberEmojis[n-1]
	}
	return fmt.Sprintf("%d.", n)
}
