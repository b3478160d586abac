// Package classifier decides how question content should be delivered:
// plain text, unicode-enriched text, or a rendered image for math, graphs
// and tables.
package classifier

import (
	"regexp"
	"strings"

	"github.com/MankweAI/goat-edtech/internal/models"
)

// Classification values, ordered from heaviest to lightest delivery.
const (
	TableImage      = "table_image"
	GraphImage      = "graph_image"
	MathImage       = "math_image"
	TextWithUnicode = "text_with_unicode"
	TextOnly        = "text_only"
)

// Result couples the chosen classification with the raw signals that led to
// it, so rendering can degrade gracefully per device.
type Result struct {
	Class string
	Flags models.ComplexityFlags
}

type Classifier interface {
	Classify(content string) Result
}

var (
	latexCommand  = regexp.MustCompile(`\\(frac|sqrt|int|sum|lim|begin|end|left|right|times|div|pm|cdot|over|text|sin|cos|tan|log|ln|pi|theta|alpha|beta|gamma|Delta)\b`)
	groupExponent = regexp.MustCompile(`\^\s*[({]`)
	bracedScript  = regexp.MustCompile(`[\^_]\{[^}]+\}`)
	algebraicFrac = regexp.MustCompile(`\)\s*/\s*\(|[a-zA-Z][a-zA-Z0-9]*\s*/\s*\(|\)\s*/\s*[a-zA-Z]`)
	functionForm  = regexp.MustCompile(`(?i)\b(?:y|[fgh]\s*\(\s*x\s*\))\s*=`)
	simpleCaret   = regexp.MustCompile(`[a-zA-Z0-9)]\^[0-9n]\b`)
	tableRow      = regexp.MustCompile(`^\s*\|.*\|\s*$`)
	numericRow    = regexp.MustCompile(`^\s*\|[\s\d.,+-]+\|\s*$`)
	matrixBlock   = regexp.MustCompile(`\[[^\[\]]*\d[^\[\]]*[;\n|][^\[\]]*\d[^\[\]]*\]`)
	tableEnv      = regexp.MustCompile(`\\begin\{(array|tabular|matrix|pmatrix|bmatrix|vmatrix)\}`)
)

// unicodeMath are characters already beyond plain ASCII that WhatsApp text
// renders fine; their presence alone never forces an image.
const unicodeMath = "²³¹⁰⁴⁵⁶⁷⁸⁹×÷√π°≤≥±≈≠½¼¾"

// ContentClassifier is a rule-based classifier over the generated or
// extracted question text. It has no external calls and never fails.
type ContentClassifier struct{}

func NewContentClassifier() *ContentClassifier {
	return &ContentClassifier{}
}

// Classify inspects content and picks the delivery class. Detection runs
// heaviest-first: a question that both tabulates data and includes LaTeX is a
// table_image, because the table is what plain text cannot carry.
func (c *ContentClassifier) Classify(content string) Result {
	flags := models.ComplexityFlags{
		HasLatex:         hasComplexMath(content),
		HasGraph:         hasGraphRequest(content),
		HasTable:         hasTable(content),
		HasSimpleUnicode: hasSimpleUnicode(content),
	}

	res := Result{Flags: flags}
	switch {
	case flags.HasTable:
		res.Class = TableImage
	case flags.HasGraph:
		res.Class = GraphImage
	case flags.HasLatex:
		res.Class = MathImage
	case flags.HasSimpleUnicode:
		res.Class = TextWithUnicode
	default:
		res.Class = TextOnly
	}
	return res
}

func hasComplexMath(content string) bool {
	if latexCommand.MatchString(content) {
		return true
	}
	if bracedScript.MatchString(content) || groupExponent.MatchString(content) {
		return true
	}
	return algebraicFrac.MatchString(content)
}

// hasGraphRequest needs both a drawing verb and a function definition;
// "sketch the angle bisector" is geometry, not a graph.
func hasGraphRequest(content string) bool {
	if !functionForm.MatchString(content) {
		return false
	}
	lower := strings.ToLower(content)
	keywords := []string{
		"sketch", "plot", "draw the graph", "graph of",
		"on the same axes", "on the same set of axes",
	}
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return strings.Contains(lower, "graph")
}

// hasTable matches real tabular layouts: a pipe grid at least three columns
// wide or four rows tall, matrix/determinant notation, or an explicit
// table instruction. Inline absolute values never qualify.
func hasTable(content string) bool {
	if tableEnv.MatchString(content) || strings.Contains(strings.ToLower(content), "<table") {
		return true
	}
	rows, maxCols, numericRows := 0, 0, 0
	for _, line := range strings.Split(content, "\n") {
		if !tableRow.MatchString(line) {
			continue
		}
		rows++
		if cols := strings.Count(line, "|") - 1; cols > maxCols {
			maxCols = cols
		}
		if numericRow.MatchString(line) {
			numericRows++
		}
	}
	if rows > 0 && (maxCols >= 3 || rows >= 4) {
		return true
	}
	if numericRows >= 2 {
		return true
	}
	if matrixBlock.MatchString(content) {
		return true
	}
	lower := strings.ToLower(content)
	return strings.Contains(lower, "complete the table") || strings.Contains(lower, "table below")
}

func hasSimpleUnicode(content string) bool {
	if strings.ContainsAny(content, unicodeMath) {
		return true
	}
	if simpleCaret.MatchString(content) {
		return true
	}
	lower := strings.ToLower(content)
	for _, token := range []string{"sqrt(", " pi ", "<=", ">="} {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}
