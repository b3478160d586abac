package models

// QuestionSource records which pathway produced a question.
type QuestionSource string

const (
	SourceLLM      QuestionSource = "llm"
	SourceFallback QuestionSource = "fallback"
	SourceOffline  QuestionSource = "offline"
)

// DifficultyKey is the generation-profile difficulty label for a progression tier.
type DifficultyKey string

const (
	DifficultySimplified  DifficultyKey = "simplified"
	DifficultyMixed       DifficultyKey = "mixed"
	DifficultyChallenging DifficultyKey = "challenging"
	DifficultyExpert      DifficultyKey = "expert"
)

const (
	// ProgressionMin and ProgressionMax bound the difficulty progression.
	ProgressionMin = 0
	ProgressionMax = 3
)

// ClampProgression forces p into the valid progression range.
func ClampProgression(p int) int {
	if p < ProgressionMin {
		return ProgressionMin
	}
	if p > ProgressionMax {
		return ProgressionMax
	}
	return p
}

// DifficultyForProgression maps a progression tier to its generation profile key.
func DifficultyForProgression(p int) DifficultyKey {
	switch ClampProgression(p) {
	case 0:
		return DifficultySimplified
	case 1:
		return DifficultyMixed
	case 2:
		return DifficultyChallenging
	default:
		return DifficultyExpert
	}
}

// ProgressionLabel is the learner-facing tier name shown in question banners.
func ProgressionLabel(p int) string {
	switch ClampProgression(p) {
	case 0:
		return "Foundation"
	case 1:
		return "Standard"
	case 2:
		return "Advanced"
	default:
		return "Expert"
	}
}

// ComplexityFlags are set by the complexity classifier on outbound content.
type ComplexityFlags struct {
	HasLatex         bool `json:"has_latex,omitempty"`
	HasGraph         bool `json:"has_graph,omitempty"`
	HasTable         bool `json:"has_table,omitempty"`
	HasSimpleUnicode bool `json:"has_simple_unicode,omitempty"`
}

// Question is a generated practice question. The solution is consumed by the
// hint engine and the topic-practice "view solution" action only; the homework
// flow never sends it verbatim.
type Question struct {
	Text           string          `json:"text"`
	Solution       string          `json:"solution"`
	Source         QuestionSource  `json:"source"`
	ContentID      string          `json:"content_id"`
	Classification string          `json:"classification,omitempty"`
	Complexity     ComplexityFlags `json:"complexity,omitempty"`
}

// DetectedQuestion is one homework question pulled out of an OCR'd photo.
type DetectedQuestion struct {
	Number     int     `json:"number"`
	Text       string  `json:"text"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

// Preview returns the list-display form of a detected question, truncated so a
// ten-item listing stays readable on a phone.
func (q DetectedQuestion) Preview() string {
	const max = 80
	if len(q.Text) <= max {
		return q.Text
	}
	return q.Text[:max-3] + "..."
}
