package flows

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/MankweAI/goat-edtech/internal/hints"
	"github.com/MankweAI/goat-edtech/internal/models"
	"github.com/MankweAI/goat-edtech/internal/ocr"
	"github.com/MankweAI/goat-edtech/internal/render"
	"github.com/MankweAI/goat-edtech/internal/storage"
	"github.com/MankweAI/goat-edtech/internal/whatsapp"
	"github.com/MankweAI/goat-edtech/pkg/config"
)

// InboundImage is a homework photo off the webhook: either bytes already
// decoded from the payload, or a remote URL still to be fetched.
type InboundImage struct {
	Data []byte
	URL  string
}

// homeworkIntent is a follow-up action while hints are being served.
type homeworkIntent int

const (
	hwNone homeworkIntent = iota
	hwMoreHint
	hwWantAnswer
)

var homeworkSynonyms = map[string]homeworkIntent{
	"more":               hwMoreHint,
	"hint":               hwMoreHint,
	"another":            hwMoreHint,
	"another hint":       hwMoreHint,
	"again":              hwMoreHint,
	"help":               hwMoreHint,
	"stuck":              hwMoreHint,
	"i'm stuck":          hwMoreHint,
	"im stuck":           hwMoreHint,
	"explain":            hwMoreHint,
	"i don't understand": hwMoreHint,
	"i dont understand":  hwMoreHint,
	"don't understand":   hwMoreHint,
	"dont understand":    hwMoreHint,
	"huh":                hwMoreHint,
	"what":               hwMoreHint,
	"answer":             hwWantAnswer,
	"solution":           hwWantAnswer,
	"the answer":         hwWantAnswer,
	"just tell me":       hwWantAnswer,
	"tell me":            hwWantAnswer,
}

func parseHomeworkIntent(text string) homeworkIntent {
	t := normalizeInput(text)
	if intent, ok := homeworkSynonyms[t]; ok {
		return intent
	}
	if strings.Contains(t, "understand") || strings.Contains(t, "stuck") || strings.Contains(t, "explain") {
		return hwMoreHint
	}
	if strings.Contains(t, "answer") || strings.Contains(t, "solution") {
		return hwWantAnswer
	}
	return hwNone
}

// HomeworkFlow drives homework help: photo in, questions out, then staged
// hints for the one the learner picks. It never sends a full solution.
type HomeworkFlow struct {
	ocr    *ocr.Service
	hints  *hints.Engine
	cfg    config.OCRConfig
	logger *zap.Logger
}

func NewHomeworkFlow(ocrService *ocr.Service, hintEngine *hints.Engine, cfg config.OCRConfig, logger *zap.Logger) *HomeworkFlow {
	return &HomeworkFlow{ocr: ocrService, hints: hintEngine, cfg: cfg, logger: logger}
}

// Enter resets the flow context and asks for a photo.
func (f *HomeworkFlow) Enter(sub *models.Subscriber) Turn {
	sub.CurrentMenu = models.MenuHomework
	sub.Homework = models.NewHomeworkContext()
	return Turn{
		Body:   "📸 *Homework Help*\n\nSend a clear photo of the problem and I'll help you work through it.\nGood light, flat page, whole question in frame 👌",
		Status: models.StatusSuccess,
		Event:  storage.EventMenuSelected,
		EventPayload: map[string]interface{}{
			"menu": string(models.MenuHomework),
		},
	}
}

// HandleImage runs the photo turn: fetch if needed, validate, OCR, list the
// detected questions.
func (f *HomeworkFlow) HandleImage(ctx context.Context, sub *models.Subscriber, img InboundImage) Turn {
	h := sub.EnsureHomework()

	data := img.Data
	if len(data) == 0 && img.URL != "" {
		fetched, err := ocr.DownloadImage(ctx, img.URL, f.cfg.DownloadTimeout, f.cfg.MaxImageBytes)
		if err != nil {
			f.logger.Warn("homework image download failed",
				zap.String("subscriber_id", sub.ID),
				zap.Error(err))
			return Turn{Body: "I couldn't fetch that image 😕 Please send the photo directly.", Status: models.StatusError}
		}
		data = fetched
	}

	if err := ocr.ValidateImage(data, f.cfg.MaxImageBytes); err != nil {
		if errors.Is(err, ocr.ErrImageTooLarge) {
			return Turn{Body: "Image too large (max 5MB). Try a smaller photo.", Status: models.StatusError}
		}
		return Turn{Body: "Image too small or invalid. Please send a clearer photo 📷", Status: models.StatusError}
	}

	extraction, err := f.ocr.Extract(ctx, data)
	switch {
	case errors.Is(err, ocr.ErrNotConfigured):
		return Turn{Body: "I can't read photos right now. Type the question out and I'll still help you 💪", Status: models.StatusError}
	case err != nil:
		f.logger.Warn("ocr extraction failed",
			zap.String("subscriber_id", sub.ID),
			zap.Error(err))
		return Turn{Body: "I couldn't read that photo. Could you take one with better lighting?", Status: models.StatusError}
	}

	if len(extraction.Questions) == 0 {
		h.State = models.HomeworkAwaitingImage
		return Turn{
			Body:   "I couldn't find a question in that photo. Send a clearer one with the whole question in frame 🙏",
			Status: models.StatusNoQuestions,
		}
	}

	resent := h.ImageHash != "" && h.ImageHash == extraction.ImageHash

	h.ExtractedText = extraction.Text
	h.Questions = extraction.Questions
	h.Selected = nil
	h.HintCount = 0
	h.LastHintType = models.HintNone
	h.ImageHash = extraction.ImageHash
	h.State = models.HomeworkQuestionsDetected
	body := questionListing(extraction.Questions)
	if resent {
		body += "\n\n" + render.MarkerRepeat
	}
	return Turn{
		Body:   body,
		Status: models.StatusSuccess,
		Event:  storage.EventImageReceived,
		EventPayload: map[string]interface{}{
			"image_hash": extraction.ImageHash,
			"questions":  len(extraction.Questions),
			"confidence": extraction.Confidence,
		},
	}
}

// Handle advances the text side of the state machine.
func (f *HomeworkFlow) Handle(ctx context.Context, sub *models.Subscriber, text string) Turn {
	h := sub.EnsureHomework()
	switch h.State {
	case models.HomeworkQuestionsDetected:
		return f.selectTurn(ctx, h, text)
	case models.HomeworkProvidingHint:
		return f.followUpTurn(ctx, h, text)
	default:
		return Turn{Body: "Snap a photo of the problem and send it here 📸", Status: models.StatusSuccess}
	}
}

func (f *HomeworkFlow) selectTurn(ctx context.Context, h *models.HomeworkContext, text string) Turn {
	pick, ok := parsePick(text, len(h.Questions))
	if !ok {
		return Turn{
			Body:   "That number isn't on the list.\n\n" + questionListing(h.Questions),
			Status: models.StatusInvalidSelection,
		}
	}
	h.SelectQuestion(h.Questions[pick-1])
	return f.hintTurn(ctx, h)
}

func (f *HomeworkFlow) followUpTurn(ctx context.Context, h *models.HomeworkContext, text string) Turn {
	if pick, ok := parsePick(text, len(h.Questions)); ok {
		h.SelectQuestion(h.Questions[pick-1])
		return f.hintTurn(ctx, h)
	}

	switch parseHomeworkIntent(text) {
	case hwMoreHint:
		return f.hintTurn(ctx, h)
	case hwWantAnswer:
		turn := f.hintTurn(ctx, h)
		turn.Body = "I won't give the final answer away, that part is yours 😉\n\n" + turn.Body
		return turn
	default:
		return Turn{
			Body:   "Give it a shot with what you have 💪 Reply *more* for another hint, or *menu* to head back.",
			Status: models.StatusSuccess,
		}
	}
}

// hintTurn serves the next hint for the selected question, rotating the
// strategy away from the previous one.
func (f *HomeworkFlow) hintTurn(ctx context.Context, h *models.HomeworkContext) Turn {
	sel := h.Selected
	if sel == nil {
		return Turn{Body: questionListing(h.Questions), Status: models.StatusInvalidSelection}
	}

	hint, hintType := f.hints.Next(ctx, sel.Text, sel.Type, h.HintCount, h.LastHintType)
	h.HintCount++
	h.LastHintType = hintType
	return Turn{
		Body:   fmt.Sprintf("💡 *Hint %d*\n\n%s\n\nTry it! Reply *more* if you need another nudge.", h.HintCount, hint),
		Status: models.StatusSuccess,
		Event:  storage.EventHintServed,
		EventPayload: map[string]interface{}{
			"hint_type": string(hintType),
			"count":     h.HintCount,
			"question":  sel.Number,
			"origin":    "homework",
		},
	}
}

func questionListing(qs []models.DetectedQuestion) string {
	var b strings.Builder
	if len(qs) == 1 {
		b.WriteString("I found this question:\n\n")
	} else {
		fmt.Fprintf(&b, "I found %d questions:\n\n", len(qs))
	}
	for i, q := range qs {
		fmt.Fprintf(&b, "%s %s\n", whatsapp.NumberEmoji(i+1), q.Preview())
	}
	b.WriteString("\nWhich one is giving you trouble? Reply with the number.")
	return b.String()
}
