// Package hints produces escalating help for a question without revealing
// its answer. Three strategies feed it: canned technique templates, a
// text-pattern heuristic, and the language model.
package hints

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/MankweAI/goat-edtech/internal/models"
	"github.com/MankweAI/goat-edtech/pkg/config"
)

const aiHintTemperature = 0.3

type Engine struct {
	client *openai.Client
	cfg    config.OpenAIConfig
	logger *zap.Logger
}

func NewEngine(cfg config.OpenAIConfig, logger *zap.Logger) *Engine {
	e := &Engine{cfg: cfg, logger: logger}
	if cfg.Enabled() {
		e.client = openai.NewClient(cfg.APIKey)
	}
	return e
}

// Next produces the hint for the given depth. The first hint tries the
// instant template, then the model, then the heuristic; later hints rotate
// to a different strategy than the previous one so the help varies. Every
// candidate passes the answer-leak validator before it is returned.
func (e *Engine) Next(ctx context.Context, questionText, classification string, count int, last models.HintType) (string, models.HintType) {
	for _, typ := range rotation(count, last) {
		var candidate string
		switch typ {
		case models.HintInstant:
			candidate = instantHint(classification)
		case models.HintDynamic:
			candidate = dynamicHint(questionText, count)
		case models.HintAI:
			var err error
			candidate, err = e.aiHint(ctx, questionText, classification, count)
			if err != nil {
				e.logger.Warn("ai hint unavailable, rotating strategy", zap.Error(err))
				continue
			}
		}
		if cleaned, ok := Validate(candidate); ok {
			return cleaned, typ
		}
	}
	return GenericStrategy, models.HintDynamic
}

// rotation orders the strategies for a given depth, skipping whichever one
// produced the previous hint.
func rotation(count int, last models.HintType) []models.HintType {
	if count <= 0 {
		return []models.HintType{models.HintInstant, models.HintAI, models.HintDynamic}
	}
	order := []models.HintType{models.HintDynamic, models.HintAI, models.HintInstant}
	out := make([]models.HintType, 0, len(order))
	for _, t := range order {
		if t != last {
			out = append(out, t)
		}
	}
	return out
}

func (e *Engine) aiHint(ctx context.Context, questionText, classification string, count int) (string, error) {
	if e.client == nil {
		return "", fmt.Errorf("hints: model not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	system := fmt.Sprintf(`You are a patient South African study coach. The learner is stuck on a homework question.
Question type: %s. This is hint number %d, so go one level deeper than a first nudge.
Give ONE short hint (2-3 sentences) that teaches the next move. NEVER state the final answer, never write "x = <number>", and never give more than one step.`,
		classification, count+1)

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: questionText},
		},
		MaxTokens:   e.cfg.HintMaxTokens,
		Temperature: aiHintTemperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("hints: empty completion")
	}
	hint := strings.TrimSpace(resp.Choices[0].Message.Content)
	if hint == "" {
		return "", fmt.Errorf("hints: blank completion")
	}
	return hint, nil
}

// FromSolution peels the opening move out of a private worked solution for
// the practice loop: the first "Step 1" line when the solution is
// structured, otherwise its first line. A one-line solution is never echoed
// back, since that would be the whole answer.
func FromSolution(solution string) string {
	lines := nonEmptyLines(solution)
	if len(lines) == 0 {
		return GenericStrategy
	}

	var pick string
	for _, line := range lines {
		if stepMarker.MatchString(line) {
			pick = line
			break
		}
	}
	if pick == "" {
		if len(lines) == 1 {
			return GenericStrategy
		}
		pick = lines[0]
	}

	if cleaned, ok := Validate(pick); ok {
		return cleaned
	}
	return GenericStrategy
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			out = append(out, t)
		}
	}
	return out
}
