package hints

import (
	"regexp"
	"strings"
)

var (
	answerIs   = regexp.MustCompile(`(?i)\bthe answer is\s*[:\-]?\s*-?\d`)
	varEquals  = regexp.MustCompile(`(?i)\b[a-z]\s*=\s*-?\d+(?:[.,]\d+)?(?:\s|[.!?,;]|$)`)
	equalsNum  = regexp.MustCompile(`(?i)\bequals\s+-?\d+`)
	stepMarker = regexp.MustCompile(`(?i)\bstep\s*\d+`)

	// Signals that a flagged text is teaching a technique rather than
	// handing over the result.
	educational = regexp.MustCompile(`(?i)\b(formula|method|rule|theorem|identity|law|factorise|factor|ratio|SOH|CAH|TOA)\b`)
)

// Validate decides whether a hint is safe to send. A hint that spells out
// the answer or reads like a full solution is rejected; when the
// surrounding text is clearly educational the offending sentences are
// stripped instead and the remainder survives.
func Validate(hint string) (string, bool) {
	trimmed := strings.TrimSpace(hint)
	if trimmed == "" {
		return "", false
	}

	// Three step markers means the strategy produced a worked solution,
	// not a hint. Keep only the first step's worth of guidance.
	if marks := stepMarker.FindAllStringIndex(trimmed, -1); len(marks) >= 3 {
		trimmed = strings.TrimSpace(trimmed[:marks[1][0]])
		trimmed = strings.TrimRight(trimmed, "\n ")
	}

	if !leaksAnswer(trimmed) {
		return trimmed, true
	}
	if !educational.MatchString(trimmed) {
		return "", false
	}

	kept := make([]string, 0, 4)
	for _, sentence := range splitSentences(trimmed) {
		if leaksAnswer(sentence) {
			continue
		}
		kept = append(kept, sentence)
	}
	cleaned := strings.TrimSpace(strings.Join(kept, " "))
	if cleaned == "" {
		return "", false
	}
	return cleaned, true
}

func leaksAnswer(s string) bool {
	return answerIs.MatchString(s) || varEquals.MatchString(s) || equalsNum.MatchString(s)
}

// splitSentences breaks on sentence punctuation, keeping the punctuation
// attached. Newlines count as boundaries too, so step lines split cleanly.
func splitSentences(s string) []string {
	var out []string
	var b strings.Builder
	flush := func() {
		if t := strings.TrimSpace(b.String()); t != "" {
			out = append(out, t)
		}
		b.Reset()
	}
	for _, r := range s {
		if r == '\n' {
			flush()
			continue
		}
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			flush()
		}
	}
	flush()
	return out
}
