// Package question produces practice questions with private worked
// solutions, from the language model when it is configured and healthy, and
// from a deterministic bank when it is not.
package question

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/MankweAI/goat-edtech/internal/classifier"
	"github.com/MankweAI/goat-edtech/internal/models"
	"github.com/MankweAI/goat-edtech/pkg/config"
)

// Request describes the question being asked for.
type Request struct {
	Subject    string
	Grade      int
	Topic      string
	SubTopic   string
	Difficulty models.DifficultyKey
}

// llmResponse is the JSON shape the prompt asks the model to return.
type llmResponse struct {
	Question       string `json:"question"`
	Solution       string `json:"solution"`
	Classification string `json:"classification"`
}

type Generator struct {
	client     *openai.Client
	cfg        config.OpenAIConfig
	classifier *classifier.ContentClassifier
	logger     *zap.Logger
	fallbacks  prometheus.Counter
}

func NewGenerator(cfg config.OpenAIConfig, logger *zap.Logger) *Generator {
	g := &Generator{
		cfg:        cfg,
		classifier: classifier.NewContentClassifier(),
		logger:     logger,
	}
	if cfg.Enabled() {
		g.client = openai.NewClient(cfg.APIKey)
	}
	return g
}

// WithFallbackCounter counts bank servings when the model path was available
// but failed. May stay unset.
func (g *Generator) WithFallbackCounter(c prometheus.Counter) *Generator {
	g.fallbacks = c
	return g
}

// Generate never fails: the model path degrades to the bank, and the bank
// always has something for the subject. The returned question carries its
// provenance in Source.
func (g *Generator) Generate(ctx context.Context, req Request) models.Question {
	if g.client == nil {
		q := g.fromBank(req)
		q.Source = models.SourceOffline
		return g.finalize(q, req)
	}

	q, err := g.fromModel(ctx, req)
	if err != nil {
		g.logger.Warn("question generation fell back to bank",
			zap.String("subject", req.Subject),
			zap.String("topic", req.Topic),
			zap.Error(err))
		if g.fallbacks != nil {
			g.fallbacks.Inc()
		}
		q = g.fromBank(req)
		q.Source = models.SourceFallback
	}
	return g.finalize(q, req)
}

func (g *Generator) fromModel(ctx context.Context, req Request) (models.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	focus := req.Topic
	if req.SubTopic != "" {
		focus = fmt.Sprintf("%s (%s)", req.Topic, req.SubTopic)
	}

	prompt := fmt.Sprintf(`You are a South African CAPS curriculum tutor. Write ONE practice question for a Grade %d learner.

Subject: %s
Topic: %s
Difficulty: %s

Requirements:
- The question must be solvable with Grade %d knowledge only.
- Write the full worked solution as numbered steps, one per line, each starting "Step N:".
- Keep the question under 80 words. Use plain text or simple LaTeX.
- classification is a short snake_case label for the question type (e.g. "quadratic_equation").

Return only a JSON object with this structure:
{
    "question": "...",
    "solution": "Step 1: ...\nStep 2: ...",
    "classification": "..."
}`, req.Grade, req.Subject, focus, difficultyPhrase(req.Difficulty), req.Grade)

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   g.cfg.QuestionMaxTokens + g.cfg.SolutionMaxTokens,
		Temperature: float32(g.cfg.Temperature),
	})
	if err != nil {
		return models.Question{}, err
	}
	if len(resp.Choices) == 0 {
		return models.Question{}, fmt.Errorf("question: empty completion")
	}

	var parsed llmResponse
	raw := extractJSON(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return models.Question{}, fmt.Errorf("question: parse completion: %w", err)
	}
	if err := validate(parsed); err != nil {
		return models.Question{}, err
	}

	return models.Question{
		Text:           strings.TrimSpace(parsed.Question),
		Solution:       strings.TrimSpace(parsed.Solution),
		Source:         models.SourceLLM,
		Classification: normalizeLabel(parsed.Classification),
	}, nil
}

func (g *Generator) fromBank(req Request) models.Question {
	return bankQuestion(req)
}

// finalize stamps the id and complexity on whichever path produced the
// question.
func (g *Generator) finalize(q models.Question, req Request) models.Question {
	if q.ContentID == "" {
		q.ContentID = NewContentID(req.Subject, req.Topic, time.Now())
	}
	if q.Classification == "" {
		q.Classification = "general_practice"
	}
	q.Complexity = g.classifier.Classify(q.Text).Flags
	return q
}

func validate(r llmResponse) error {
	q := strings.TrimSpace(r.Question)
	s := strings.TrimSpace(r.Solution)
	if q == "" {
		return fmt.Errorf("question: completion missing question text")
	}
	if s == "" {
		return fmt.Errorf("question: completion missing solution")
	}
	if len([]rune(q)) > 600 {
		return fmt.Errorf("question: completion question too long (%d runes)", len([]rune(q)))
	}
	return nil
}

// extractJSON tolerates models that wrap the object in prose or code fences.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "{"); i >= 0 {
		if j := strings.LastIndex(s, "}"); j > i {
			return s[i : j+1]
		}
	}
	return s
}

func normalizeLabel(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.ReplaceAll(s, " ", "_")
	if s == "" {
		return "general_practice"
	}
	return s
}

func difficultyPhrase(d models.DifficultyKey) string {
	switch d {
	case models.DifficultySimplified:
		return "simplified - single concept, small numbers, confidence building"
	case models.DifficultyChallenging:
		return "challenging - multi-step, requires combining two ideas"
	case models.DifficultyExpert:
		return "expert - exam-level, non-routine reasoning"
	default:
		return "mixed - standard exam practice"
	}
}

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewContentID builds qst_{subj3}{topic3}_{ts36}{rand5}, e.g.
// qst_matalg_sgkx1za7f2q.
func NewContentID(subject, topic string, now time.Time) string {
	var tail strings.Builder
	for i := 0; i < 5; i++ {
		tail.WriteByte(idAlphabet[rand.Intn(len(idAlphabet))])
	}
	return fmt.Sprintf("qst_%s%s_%s%s",
		keyPrefix(subject), keyPrefix(topic),
		strconv.FormatInt(now.Unix(), 36), tail.String())
}

// keyPrefix takes the first three letters, lowercased, padded with 'x' for
// very short names.
func keyPrefix(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
			if b.Len() == 3 {
				break
			}
		}
	}
	for b.Len() < 3 {
		b.WriteByte('x')
	}
	return b.String()
}
