package ocr

import (
	"regexp"
	"strings"

	"github.com/MankweAI/goat-edtech/internal/models"
)

// Detection runs in tiers, first non-empty wins: numbered items, lettered
// items, keyword headers, question-like sentences, then the whole text.
var (
	numberedHead = regexp.MustCompile(`(?m)^\s*(\d{1,2})[.)]\s+`)
	letteredHead = regexp.MustCompile(`(?m)^\s*([a-h])[.)]\s+`)
	keywordHead  = regexp.MustCompile(`(?im)\b(?:question|problem|exercise)\s*(\d{1,2})\s*[:.]?\s*`)

	questionWords = regexp.MustCompile(`(?i)\b(solve|find|calculate|determine|simplify|evaluate|factorise|prove|show that|what is|how many|how much|explain|name|state|sketch|draw|write down)\b`)
	mathContent   = regexp.MustCompile(`[=+×÷√%²³]|[0-9]\s*[-*/^]\s*[0-9]|\b(equation|expression|fraction|graph)\b`)
	geometricNoun = regexp.MustCompile(`(?i)\b(triangle|angle|circle|rectangle|polygon|parallel|perimeter|area|volume|diameter|radius)\b`)
	hasDigit      = regexp.MustCompile(`\d`)
	trigWord      = regexp.MustCompile(`(?i)\b(sin|cos|tan)\b|θ`)
	plainFraction = regexp.MustCompile(`\d+\s*/\s*\d+`)
	wordProblem   = regexp.MustCompile(`(?i)\b(how many|how much|each|total|cost|price|shared|altogether)\b`)

	derivWord = regexp.MustCompile(`(?i)\b(derivative|differentiate|dy/dx|first principles)\b`)
	statsWord = regexp.MustCompile(`(?i)\b(mean|median|mode|standard deviation|frequency|histogram|box[- ]and[- ]whisker)\b`)
	probWord  = regexp.MustCompile(`(?i)\bprobability\b|\bat random\b|\bdice\b|\bcoin\b`)
	bioWord   = regexp.MustCompile(`(?i)\b(photosynthesis|respiration|osmosis|diffusion|cells?|enzymes?|ecosystem|chromosomes?|organisms?)\b`)
	defWord   = regexp.MustCompile(`(?i)\bdefine\b|\bdefinition\b|what is meant by|explain the term|state the term`)
)

const (
	detectorCap     = 10
	minConfidence   = 0.3
	baseConfidence  = 0.4
	minSegmentRunes = 8
)

// DetectQuestions carves OCR text into numbered candidate questions, scores
// each, drops the weak ones and caps the list.
func DetectQuestions(text string) []models.DetectedQuestion {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	segments := splitByHeads(text, numberedHead)
	if len(segments) == 0 {
		segments = splitByHeads(text, letteredHead)
	}
	if len(segments) == 0 {
		segments = splitByHeads(text, keywordHead)
	}
	if len(segments) == 0 {
		segments = questionSentences(text)
	}
	if len(segments) == 0 && len([]rune(text)) >= 20 {
		segments = []string{text}
	}

	out := make([]models.DetectedQuestion, 0, len(segments))
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if len([]rune(seg)) < minSegmentRunes {
			continue
		}
		conf := scoreSegment(seg)
		if conf < minConfidence {
			continue
		}
		out = append(out, models.DetectedQuestion{
			Number:     len(out) + 1,
			Text:       seg,
			Type:       classifyQuestion(seg),
			Confidence: conf,
		})
		if len(out) == detectorCap {
			break
		}
	}
	return out
}

// splitByHeads cuts the text at each head match, discarding any preamble
// before the first head.
func splitByHeads(text string, head *regexp.Regexp) []string {
	locs := head.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	var segs []string
	for i, loc := range locs {
		start := loc[1]
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		segs = append(segs, strings.TrimSpace(text[start:end]))
	}
	return segs
}

// questionSentences keeps sentences that look like homework tasks.
func questionSentences(text string) []string {
	var out []string
	var b strings.Builder
	flush := func() {
		s := strings.TrimSpace(b.String())
		b.Reset()
		if s == "" {
			return
		}
		if questionWords.MatchString(s) || mathContent.MatchString(s) || geometricNoun.MatchString(s) {
			out = append(out, s)
		}
	}
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			flush()
		}
	}
	flush()
	return out
}

// scoreSegment applies the confidence heuristic: math content +0.3,
// question words +0.2, digits +0.1, very short −0.2, very long −0.1.
func scoreSegment(seg string) float64 {
	conf := baseConfidence
	if mathContent.MatchString(seg) {
		conf += 0.3
	}
	if questionWords.MatchString(seg) {
		conf += 0.2
	}
	if hasDigit.MatchString(seg) {
		conf += 0.1
	}
	n := len([]rune(seg))
	if n < 20 {
		conf -= 0.2
	}
	if n > 200 {
		conf -= 0.1
	}
	if conf < 0 {
		return 0
	}
	if conf > 1 {
		return 1
	}
	return conf
}

// classifyQuestion labels a question with the first matching type. The
// named shapes run in a fixed order, then a few broader buckets, and
// everything else lands on general_academic.
func classifyQuestion(seg string) string {
	s := strings.ToLower(seg)
	switch {
	case looksLinearEquation(s):
		return "linear_equation"
	case strings.Contains(s, "x²") || strings.Contains(s, "x^2") || strings.Contains(s, "quadratic"):
		return "quadratic_equation"
	case strings.Contains(s, "area") && strings.Contains(s, "triangle"):
		return "triangle_area"
	case strings.Contains(s, "area") && strings.Contains(s, "circle"):
		return "circle_area"
	case strings.Contains(s, "area") && (strings.Contains(s, "rectangle") || strings.Contains(s, "square")):
		return "rectangle_area"
	case strings.Contains(s, "perimeter"):
		return "perimeter"
	case strings.Contains(s, "factor"):
		return "factoring"
	case strings.Contains(s, "simplif"):
		return "simplifying"
	case trigWord.MatchString(s):
		return "trigonometry"
	case strings.Contains(s, "angle"):
		return "geometry_angles"
	case derivWord.MatchString(s):
		return "calculus_derivative"
	case statsWord.MatchString(s):
		return "statistics"
	case probWord.MatchString(s):
		return "probability"
	case bioWord.MatchString(s):
		return "biology_concept"
	case defWord.MatchString(s):
		return "definition"
	case strings.Contains(s, "graph") || strings.Contains(s, "sketch") || strings.Contains(s, "plot"):
		return "graph_interpretation"
	case strings.Contains(s, "=") && strings.ContainsAny(s, "abcxyz"):
		return "algebra_equation"
	case geometricNoun.MatchString(s):
		return "geometry_problem"
	case strings.Contains(s, "%") || strings.Contains(s, "percent") || strings.Contains(s, "interest") || strings.Contains(s, "vat"):
		return "percentage_problem"
	case strings.Contains(s, "fraction") || plainFraction.MatchString(s):
		return "fraction_problem"
	case wordProblem.MatchString(s):
		return "word_problem"
	default:
		return "general_academic"
	}
}

// looksLinearEquation wants an equation in one variable with no power or
// calculus signal; those shapes carry their own labels further down.
func looksLinearEquation(s string) bool {
	if !strings.Contains(s, "=") || !strings.ContainsAny(s, "abcxyz") {
		return false
	}
	if strings.ContainsAny(s, "²³") || strings.Contains(s, "^") || strings.Contains(s, "quadratic") {
		return false
	}
	return !derivWord.MatchString(s)
}
