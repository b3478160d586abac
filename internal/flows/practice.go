package flows

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/MankweAI/goat-edtech/internal/catalog"
	"github.com/MankweAI/goat-edtech/internal/hints"
	"github.com/MankweAI/goat-edtech/internal/models"
	"github.com/MankweAI/goat-edtech/internal/question"
	"github.com/MankweAI/goat-edtech/internal/render"
	"github.com/MankweAI/goat-edtech/internal/storage"
)

// practiceIntent is a loop-menu action. Free text maps to exactly one intent
// through practiceSynonyms; parsing happens in one place only.
type practiceIntent int

const (
	intentNone practiceIntent = iota
	intentSolution
	intentHint
	intentNext
	intentHarder
	intentEasier
	intentChangeTopic
	intentExit
)

var practiceSynonyms = map[string]practiceIntent{
	"1":              intentSolution,
	"solution":       intentSolution,
	"answer":         intentSolution,
	"show solution":  intentSolution,
	"2":              intentHint,
	"hint":           intentHint,
	"help":           intentHint,
	"stuck":          intentHint,
	"3":              intentNext,
	"next":           intentNext,
	"another":        intentNext,
	"next question":  intentNext,
	"another one":    intentNext,
	"4":              intentHarder,
	"harder":         intentHarder,
	"difficult":      intentHarder,
	"more difficult": intentHarder,
	"5":              intentEasier,
	"easier":         intentEasier,
	"easy":           intentEasier,
	"simpler":        intentEasier,
	"too hard":       intentEasier,
	"6":              intentChangeTopic,
	"change topic":   intentChangeTopic,
	"change":         intentChangeTopic,
	"new topic":      intentChangeTopic,
	"topic":          intentChangeTopic,
	"7":              intentExit,
	"exit":           intentExit,
	"quit":           intentExit,
	"stop":           intentExit,
	"done":           intentExit,
}

func parsePracticeIntent(text string) practiceIntent {
	return practiceSynonyms[normalizeInput(text)]
}

const practiceLoopTail = "1️⃣ Solution · 2️⃣ Hint · 3️⃣ Next\n4️⃣ Harder · 5️⃣ Easier · 6️⃣ Change topic · 7️⃣ Exit"

// practiceMarks is the mark allocation per progression tier. Estimated time
// follows the mark-a-minute exam pacing rule.
var practiceMarks = [...]int{3, 4, 6, 8}

func questionMarks(progression int) int {
	return practiceMarks[models.ClampProgression(progression)]
}

// PracticeFlow drives the topic-practice state machine: subject and grade,
// topic, optional sub-topic, then the question loop with progressive
// difficulty.
type PracticeFlow struct {
	gen    *question.Generator
	logger *zap.Logger
}

func NewPracticeFlow(gen *question.Generator, logger *zap.Logger) *PracticeFlow {
	return &PracticeFlow{gen: gen, logger: logger}
}

// Enter resets the flow context and asks for subject and grade.
func (f *PracticeFlow) Enter(sub *models.Subscriber) Turn {
	sub.CurrentMenu = models.MenuTopicPractice
	sub.Practice = models.NewTopicPracticeContext()
	return Turn{
		Body:   "🎯 *Topic Practice*\n\nWhat subject and grade?\nSay something like \"Mathematics 10\" or \"Physical Sciences Grade 11\".",
		Status: models.StatusSuccess,
		Event:  storage.EventMenuSelected,
		EventPayload: map[string]interface{}{
			"menu": string(models.MenuTopicPractice),
		},
	}
}

// Handle advances the state machine by one learner message.
func (f *PracticeFlow) Handle(ctx context.Context, sub *models.Subscriber, text string) Turn {
	p := sub.EnsurePractice()
	switch p.State {
	case models.PracticeTopicSelect:
		return f.topicTurn(ctx, p, text)
	case models.PracticeSubtopicSelect:
		return f.subtopicTurn(ctx, p, text)
	case models.PracticeLoop:
		return f.loopTurn(ctx, sub, p, text)
	default:
		return f.subjectGradeTurn(sub, p, text)
	}
}

func (f *PracticeFlow) subjectGradeTurn(sub *models.Subscriber, p *models.TopicPracticeContext, text string) Turn {
	subject, grade, subjectOK, gradeOK := catalog.ParseSubjectGrade(text)
	if !subjectOK && !gradeOK {
		return Turn{
			Body:   "Hmm, I didn't catch a subject there. Try something like \"Mathematics 10\" or \"Life Sciences Grade 11\".",
			Status: models.StatusInvalidSelection,
		}
	}

	var notes []string
	if !subjectOK {
		if last := sub.Preferences.LastSubject; last != "" {
			subject = last
		} else {
			subject = catalog.Subjects()[0]
		}
		notes = append(notes, fmt.Sprintf("I went with %s, tell me another subject any time.", subject))
	}
	if !gradeOK {
		if last := sub.Preferences.LastGrade; last != 0 {
			grade = last
		} else {
			grade = 10
		}
		notes = append(notes, fmt.Sprintf("Assuming Grade %d.", grade))
	}

	topics := catalog.Topics(subject, grade)
	if len(topics) == 0 {
		f.logger.Info("catalog miss, serving fallback topics",
			zap.String("subject", subject),
			zap.Int("grade", grade))
		topics = catalog.FallbackTopics()
		notes = append(notes, "I don't have that combination mapped yet, so here are some popular topics.")
	}

	p.Subject = subject
	p.Grade = grade
	p.Topic = ""
	p.SubTopic = ""
	p.TopicChoices = topics
	p.State = models.PracticeTopicSelect
	sub.Preferences.LastSubject = subject
	sub.Preferences.LastGrade = grade

	var b strings.Builder
	fmt.Fprintf(&b, "Got it: *%s Grade %d*\n", subject, grade)
	for _, note := range notes {
		b.WriteString(note + "\n")
	}
	b.WriteString("\nPick a topic:\n\n")
	b.WriteString(numberedList(topics))
	return Turn{Body: b.String(), Status: models.StatusSuccess}
}

func (f *PracticeFlow) topicTurn(ctx context.Context, p *models.TopicPracticeContext, text string) Turn {
	choices := f.topicChoices(p)
	pick, ok := parsePick(text, len(choices))
	if !ok {
		return Turn{
			Body:   "Please reply with a number from the list:\n\n" + numberedList(choices),
			Status: models.StatusInvalidSelection,
		}
	}

	p.Topic = choices[pick-1]
	subs := catalog.SubTopics(p.Subject, p.Grade, p.Topic)
	if len(subs) == 0 {
		p.SubTopic = p.Topic
		p.State = models.PracticeLoop
		return f.question(ctx, p)
	}

	p.SubChoices = subs
	p.State = models.PracticeSubtopicSelect
	return Turn{
		Body:   fmt.Sprintf("*%s* it is. Which part?\n\n%s", p.Topic, numberedList(subs)),
		Status: models.StatusSuccess,
	}
}

func (f *PracticeFlow) subtopicTurn(ctx context.Context, p *models.TopicPracticeContext, text string) Turn {
	choices := f.subChoices(p)
	if len(choices) == 0 {
		p.SubTopic = p.Topic
		p.State = models.PracticeLoop
		return f.question(ctx, p)
	}

	pick, ok := parsePick(text, len(choices))
	if !ok {
		return Turn{
			Body:   "Please reply with a number from the list:\n\n" + numberedList(choices),
			Status: models.StatusInvalidSelection,
		}
	}

	p.SubTopic = choices[pick-1]
	p.State = models.PracticeLoop
	return f.question(ctx, p)
}

func (f *PracticeFlow) loopTurn(ctx context.Context, sub *models.Subscriber, p *models.TopicPracticeContext, text string) Turn {
	switch parsePracticeIntent(text) {
	case intentSolution:
		return f.solutionTurn(p)
	case intentHint:
		return f.hintTurn(p)
	case intentNext:
		p.AdvanceAfterNext()
		return f.question(ctx, p)
	case intentHarder:
		p.Harder()
		p.LastHelpUsed = false
		return f.question(ctx, p)
	case intentEasier:
		p.Easier()
		p.LastHelpUsed = false
		return f.question(ctx, p)
	case intentChangeTopic:
		p.Topic = ""
		p.SubTopic = ""
		p.Current = nil
		p.TopicChoices = nil
		p.SubChoices = nil
		p.QIndex = 0
		p.State = models.PracticeTopicSelect
		return Turn{
			Body:   "No problem. Pick a topic:\n\n" + numberedList(f.topicChoices(p)),
			Status: models.StatusSuccess,
		}
	case intentExit:
		return Welcome(sub)
	default:
		return Turn{
			Body:   "I didn't catch that. Pick an option below 👇",
			Tail:   practiceLoopTail,
			Status: models.StatusInvalidSelection,
		}
	}
}

func (f *PracticeFlow) solutionTurn(p *models.TopicPracticeContext) Turn {
	q := p.Current
	if q == nil {
		return Turn{Body: "No question on the go yet. Reply *3* for one.", Tail: practiceLoopTail, Status: models.StatusNoQuestions}
	}

	p.LastHelpUsed = true
	return Turn{
		Body:    "✅ *Solution*\n\n" + render.Sanitize(q.Solution) + "\n\nWalk through it line by line, then try the next one.",
		Tail:    practiceLoopTail,
		Status:  models.StatusSuccess,
		Render:  q.Solution,
		Caption: "Solution",
		Event:   storage.EventSolutionServed,
		EventPayload: map[string]interface{}{
			"content_id": q.ContentID,
		},
	}
}

func (f *PracticeFlow) hintTurn(p *models.TopicPracticeContext) Turn {
	q := p.Current
	if q == nil {
		return Turn{Body: "No question on the go yet. Reply *3* for one.", Tail: practiceLoopTail, Status: models.StatusNoQuestions}
	}

	p.LastHelpUsed = true
	return Turn{
		Body:   "💡 *Hint*\n\n" + hints.FromSolution(q.Solution) + "\n\nHave another go!",
		Tail:   practiceLoopTail,
		Status: models.StatusSuccess,
		Event:  storage.EventHintServed,
		EventPayload: map[string]interface{}{
			"content_id": q.ContentID,
			"origin":     "practice",
		},
	}
}

// question serves the next question at the current progression tier.
func (f *PracticeFlow) question(ctx context.Context, p *models.TopicPracticeContext) Turn {
	q := f.gen.Generate(ctx, question.Request{
		Subject:    p.Subject,
		Grade:      p.Grade,
		Topic:      p.Topic,
		SubTopic:   p.SubTopic,
		Difficulty: models.DifficultyForProgression(p.Progression),
	})
	p.Current = &q
	p.QIndex++

	marks := questionMarks(p.Progression)
	banner := fmt.Sprintf("📘 *Q%d* · %s · %d marks · ~%d min",
		p.QIndex, models.ProgressionLabel(p.Progression), marks, marks)
	return Turn{
		Body:    banner + "\n\n" + render.Sanitize(q.Text),
		Tail:    practiceLoopTail,
		Status:  models.StatusSuccess,
		Render:  q.Text,
		Caption: fmt.Sprintf("Q%d · %s", p.QIndex, p.SubTopic),
		Event:   storage.EventQuestionServed,
		EventPayload: map[string]interface{}{
			"content_id": q.ContentID,
			"source":     string(q.Source),
			"difficulty": string(models.DifficultyForProgression(p.Progression)),
			"subject":    p.Subject,
			"grade":      p.Grade,
			"topic":      p.Topic,
		},
	}
}

func (f *PracticeFlow) topicChoices(p *models.TopicPracticeContext) []string {
	if len(p.TopicChoices) == 0 {
		if t := catalog.Topics(p.Subject, p.Grade); len(t) > 0 {
			p.TopicChoices = t
		} else {
			p.TopicChoices = catalog.FallbackTopics()
		}
	}
	return p.TopicChoices
}

func (f *PracticeFlow) subChoices(p *models.TopicPracticeContext) []string {
	if len(p.SubChoices) == 0 {
		p.SubChoices = catalog.SubTopics(p.Subject, p.Grade, p.Topic)
	}
	return p.SubChoices
}
