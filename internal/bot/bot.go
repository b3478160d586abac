// Package bot connects the webhook to the flows. The dispatcher loads the
// subscriber, routes the event to the state machine that owns the current
// menu, runs the outcome through the render pipeline and persists the
// subscriber with a debounced write.
package bot

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/MankweAI/goat-edtech/internal/classifier"
	"github.com/MankweAI/goat-edtech/internal/flows"
	"github.com/MankweAI/goat-edtech/internal/models"
	"github.com/MankweAI/goat-edtech/internal/render"
	"github.com/MankweAI/goat-edtech/internal/storage"
	"github.com/MankweAI/goat-edtech/internal/whatsapp"
	"github.com/MankweAI/goat-edtech/pkg/observability"
)

// Deps are the services the dispatcher needs. Metrics may be nil.
type Deps struct {
	Store       *storage.Store
	Practice    *flows.PracticeFlow
	Homework    *flows.HomeworkFlow
	MemoryHacks *flows.MemoryHacksFlow
	Classifier  *classifier.ContentClassifier
	Renderer    *render.Renderer
	Sender      *whatsapp.Sender
	Metrics     *observability.Collector
	Logger      *zap.Logger
}

type Bot struct {
	store    *storage.Store
	practice *flows.PracticeFlow
	homework *flows.HomeworkFlow
	hacks    *flows.MemoryHacksFlow
	class    *classifier.ContentClassifier
	renderer *render.Renderer
	sender   *whatsapp.Sender
	metrics  *observability.Collector
	logger   *zap.Logger
}

func New(d Deps) *Bot {
	return &Bot{
		store:    d.Store,
		practice: d.Practice,
		homework: d.Homework,
		hacks:    d.MemoryHacks,
		class:    d.Classifier,
		renderer: d.Renderer,
		sender:   d.Sender,
		metrics:  d.Metrics,
		logger:   d.Logger,
	}
}

// Dispatch handles one inbound event end to end and returns the reply
// envelope. State changes are persisted fire-and-forget; the reply never
// waits on the remote store.
func (b *Bot) Dispatch(ctx context.Context, in Inbound) whatsapp.Reply {
	started := time.Now()

	sub := b.store.GetOrCreate(ctx, in.SubscriberID)
	sub.Touch()
	if sub.Preferences.Device == "" || sub.Preferences.Device == models.DeviceUnknown {
		sub.Preferences.Device = DeviceFromUserAgent(in.UserAgent)
	}
	b.reconcileMenu(sub, in.MenuHint)
	menuBefore := sub.CurrentMenu
	b.store.Track(storage.EventMessageIn, sub.ID, map[string]interface{}{
		"menu":      string(menuBefore),
		"has_image": in.HasImage(),
	})

	turn := b.route(ctx, sub, in)
	reply := b.compose(ctx, sub, turn)

	sub.AppendConversation(models.RoleUser, userEcho(in))
	sub.AppendConversation(models.RoleAssistant, reply.Message)
	b.store.Persist(sub)
	if sub.CurrentMenu != menuBefore {
		b.store.Track(storage.EventFlowSwitch, sub.ID, map[string]interface{}{
			"from": string(menuBefore),
			"to":   string(sub.CurrentMenu),
		})
	}
	if turn.Event != "" {
		b.store.Track(turn.Event, sub.ID, turn.EventPayload)
	}
	b.store.Track(storage.EventMessageOut, sub.ID, map[string]interface{}{
		"menu":   string(sub.CurrentMenu),
		"status": string(reply.Status),
	})

	if b.metrics != nil {
		b.metrics.MessagesTotal.WithLabelValues(string(sub.CurrentMenu)).Inc()
		b.metrics.RepliesTotal.WithLabelValues(string(reply.Status)).Inc()
		b.metrics.TurnDuration.Observe(time.Since(started).Seconds())
	}
	b.logger.Debug("dispatched message",
		zap.String("subscriber_id", sub.ID),
		zap.String("menu", string(sub.CurrentMenu)),
		zap.String("status", string(reply.Status)))
	return reply
}

// route picks the flow step for the event. A panicking step becomes an
// apology envelope; whatever state the step already committed stands.
func (b *Bot) route(ctx context.Context, sub *models.Subscriber, in Inbound) (turn flows.Turn) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("flow step panicked",
				zap.Any("panic", r),
				zap.String("subscriber_id", sub.ID),
				zap.String("menu", string(sub.CurrentMenu)))
			turn = apologyTurn()
		}
	}()

	if in.HasImage() {
		sub.CurrentMenu = models.MenuHomework
		sub.EnsureHomework()
		return b.homework.HandleImage(ctx, sub, in.Image)
	}

	if flows.IsMenuEscape(in.Text) {
		return flows.Welcome(sub)
	}

	switch sub.CurrentMenu {
	case models.MenuTopicPractice:
		return b.practice.Handle(ctx, sub, in.Text)
	case models.MenuHomework:
		return b.homework.Handle(ctx, sub, in.Text)
	case models.MenuMemoryHacks:
		return b.hacks.Handle(sub, in.Text)
	default:
		return b.welcomeTurn(sub, in.Text)
	}
}

// welcomeTurn is the main-menu step: numbers enter a flow, greetings restart
// the session, anything else shows the menu again.
func (b *Bot) welcomeTurn(sub *models.Subscriber, text string) flows.Turn {
	switch strings.TrimSpace(text) {
	case "1":
		return b.practice.Enter(sub)
	case "2":
		return b.homework.Enter(sub)
	case "3":
		return b.hacks.Enter(sub)
	}

	turn := flows.Welcome(sub)
	if flows.IsGreeting(text) || strings.TrimSpace(text) == "" {
		turn.Event = storage.EventSessionStarted
		turn.EventPayload = map[string]interface{}{"greeting": strings.TrimSpace(text)}
		return turn
	}
	turn.Status = models.StatusInvalidSelection
	return turn
}

// reconcileMenu adopts the channel's last-menu hint when the server has no
// better idea. A subscriber already mid-flow keeps their server-side menu;
// the hint only rescues sessions that materialized fresh on the default.
func (b *Bot) reconcileMenu(sub *models.Subscriber, hint string) {
	if hint == "" || sub.CurrentMenu != models.MenuWelcome {
		return
	}
	switch models.Menu(strings.ToLower(strings.TrimSpace(hint))) {
	case models.MenuTopicPractice:
		sub.CurrentMenu = models.MenuTopicPractice
	case models.MenuHomework:
		sub.CurrentMenu = models.MenuHomework
	case models.MenuMemoryHacks:
		sub.CurrentMenu = models.MenuMemoryHacks
	}
}

// compose turns the flow outcome into the final envelope: classify the
// renderable content, try the image path, degrade to markers, fold unicode
// for feature phones, then decorate with the footer.
func (b *Bot) compose(ctx context.Context, sub *models.Subscriber, turn flows.Turn) whatsapp.Reply {
	body := turn.Body
	device := sub.Preferences.Device

	var delivered *render.Image
	if turn.Render != "" && device != models.DeviceFeaturePhone {
		class := b.class.Classify(turn.Render).Class
		out := b.renderer.Prepare(turn.Render, class, device)
		switch {
		case out.Image != nil:
			err := b.sender.SendImage(ctx, sub.ID, out.Image, turn.Caption)
			switch {
			case err == nil:
				delivered = out.Image
				if b.metrics != nil {
					b.metrics.ImagesSent.Inc()
				}
			case errors.Is(err, whatsapp.ErrDuplicateImage):
				if b.metrics != nil {
					b.metrics.ImageDedupSkips.Inc()
				}
				body += "\n\n" + render.MarkerRepeat
			default:
				if b.metrics != nil {
					b.metrics.ImageSendErrors.Inc()
				}
				b.logger.Warn("image delivery failed, degrading to marker",
					zap.String("subscriber_id", sub.ID),
					zap.Error(err))
				if marker := markerFor(class); marker != "" {
					body += "\n\n" + marker
				}
			}
		case out.Marker != "":
			body += "\n\n" + out.Marker
		}
	}

	if device == models.DeviceFeaturePhone {
		body = render.ASCIIFold(body)
	}

	reply := whatsapp.NewReply(whatsapp.Decorate(body, turn.Tail), turn.Status)
	reply.Image = delivered
	return reply
}

func markerFor(class string) string {
	switch class {
	case classifier.MathImage:
		return render.MarkerEquation
	case classifier.GraphImage:
		return render.MarkerGraph
	case classifier.TableImage:
		return render.MarkerTable
	}
	return ""
}

func apologyTurn() flows.Turn {
	return flows.Turn{
		Body:   "Eish, something glitched on my side 😅 Please send that again.",
		Status: models.StatusError,
	}
}

func userEcho(in Inbound) string {
	if in.HasImage() {
		return "[image]"
	}
	return in.Text
}
