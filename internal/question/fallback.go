package question

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/samber/lo"

	"github.com/MankweAI/goat-edtech/internal/models"
)

// bankItem is one canned question in the offline bank.
type bankItem struct {
	text           string
	solution       string
	classification string
	difficulty     models.DifficultyKey
}

// bankQuestion serves the deterministic path. Mathematics algebra questions
// are generated with fresh numbers; everything else draws from curated pools.
// There is always an answer: unknown subjects land on the generic pool.
func bankQuestion(req Request) models.Question {
	if strings.EqualFold(req.Subject, "Mathematics") {
		if q, ok := mathsQuestion(req); ok {
			return q
		}
	}
	pool, ok := subjectPools[req.Subject]
	if !ok {
		pool = genericPool
	}
	item := pickItem(pool, req.Difficulty)
	return models.Question{
		Text:           item.text,
		Solution:       item.solution,
		Classification: item.classification,
	}
}

func pickItem(items []bankItem, d models.DifficultyKey) bankItem {
	matches := lo.Filter(items, func(it bankItem, _ int) bool {
		return it.difficulty == d
	})
	if len(matches) == 0 {
		matches = items
	}
	return matches[rand.Intn(len(matches))]
}

func mathsQuestion(req Request) (models.Question, bool) {
	topic := strings.ToLower(req.Topic + " " + req.SubTopic)
	switch {
	case strings.Contains(topic, "quadratic"):
		return quadraticQuestion(req.Difficulty), true
	case strings.Contains(topic, "linear equation"), strings.Contains(topic, "algebraic equation"):
		return linearQuestion(req.Difficulty), true
	case strings.Contains(topic, "algebra"):
		if req.Difficulty == models.DifficultySimplified {
			return linearQuestion(req.Difficulty), true
		}
		return quadraticQuestion(req.Difficulty), true
	case strings.Contains(topic, "trigonometry"):
		return poolQuestion(trigPool, req.Difficulty), true
	case strings.Contains(topic, "function"):
		return poolQuestion(functionsPool, req.Difficulty), true
	case strings.Contains(topic, "pattern"):
		return poolQuestion(patternsPool, req.Difficulty), true
	default:
		return models.Question{}, false
	}
}

func poolQuestion(pool []bankItem, d models.DifficultyKey) models.Question {
	item := pickItem(pool, d)
	return models.Question{
		Text:           item.text,
		Solution:       item.solution,
		Classification: item.classification,
	}
}

// quadraticQuestion builds a solvable equation whose shape follows the
// difficulty: factorable monic, mixed-sign roots, a leading coefficient, or
// completing the square with a surd answer.
func quadraticQuestion(d models.DifficultyKey) models.Question {
	switch d {
	case models.DifficultyExpert:
		p := 1 + rand.Intn(4)
		k := []int{2, 3, 5, 6, 7}[rand.Intn(5)]
		c := p*p - k
		text := fmt.Sprintf("Solve for x, leaving your answer in simplest surd form: %s", quadText(1, -2*p, c))
		solution := strings.Join([]string{
			fmt.Sprintf("Step 1: Move the constant to the right side: x² - %dx = %d", 2*p, -c),
			fmt.Sprintf("Step 2: Complete the square by adding (%d)² = %d to both sides: (x - %d)² = %d", p, p*p, p, k),
			fmt.Sprintf("Step 3: Take the square root of both sides: x - %d = ±√%d", p, k),
			fmt.Sprintf("Step 4: x = %d + √%d or x = %d - √%d", p, k, p, k),
		}, "\n")
		return models.Question{Text: text, Solution: solution, Classification: "quadratic_equation"}

	case models.DifficultyChallenging:
		a := 2 + rand.Intn(2)
		r1, r2 := nonZero(6), nonZero(6)
		b, c := -a*(r1+r2), a*r1*r2
		text := fmt.Sprintf("Solve for x: %s", quadText(a, b, c))
		solution := strings.Join([]string{
			fmt.Sprintf("Step 1: Divide every term by %d: %s", a, quadText(1, -(r1+r2), r1*r2)),
			fmt.Sprintf("Step 2: Factorise: (x %s)(x %s) = 0", factorSign(r1), factorSign(r2)),
			fmt.Sprintf("Step 3: Set each factor to zero: x = %d or x = %d", r1, r2),
		}, "\n")
		return models.Question{Text: text, Solution: solution, Classification: "quadratic_equation"}

	case models.DifficultySimplified:
		r1, r2 := 1+rand.Intn(5), 1+rand.Intn(5)
		return monicQuadratic(r1, r2)

	default:
		r1, r2 := nonZero(6), nonZero(6)
		return monicQuadratic(r1, r2)
	}
}

func monicQuadratic(r1, r2 int) models.Question {
	b, c := -(r1 + r2), r1*r2
	text := fmt.Sprintf("Solve for x: %s", quadText(1, b, c))
	solution := strings.Join([]string{
		fmt.Sprintf("Step 1: Factorise the left side: (x %s)(x %s) = 0", factorSign(r1), factorSign(r2)),
		"Step 2: Apply the zero product rule: a product is zero when either factor is zero",
		fmt.Sprintf("Step 3: Solve each factor: x = %d or x = %d", r1, r2),
	}, "\n")
	return models.Question{Text: text, Solution: solution, Classification: "quadratic_equation"}
}

// linearQuestion picks the answer first so the division always comes out
// even.
func linearQuestion(d models.DifficultyKey) models.Question {
	a := 2 + rand.Intn(7)
	x := 1 + rand.Intn(6)
	if d != models.DifficultySimplified {
		x = nonZero(8)
	}
	b := nonZero(9)
	c := a*x + b

	text := fmt.Sprintf("Solve for x: %dx %s = %d", a, signedTerm(b), c)
	solution := strings.Join([]string{
		fmt.Sprintf("Step 1: Subtract %d from both sides: %dx = %d", b, a, c-b),
		fmt.Sprintf("Step 2: Divide both sides by %d: x = %d", a, x),
	}, "\n")
	if b < 0 {
		solution = strings.Join([]string{
			fmt.Sprintf("Step 1: Add %d to both sides: %dx = %d", -b, a, c-b),
			fmt.Sprintf("Step 2: Divide both sides by %d: x = %d", a, x),
		}, "\n")
	}
	return models.Question{Text: text, Solution: solution, Classification: "linear_equation"}
}

func nonZero(max int) int {
	for {
		v := rand.Intn(2*max+1) - max
		if v != 0 {
			return v
		}
	}
}

// quadText renders ax² + bx + c = 0 with natural signs, dropping unit
// coefficients and zero terms.
func quadText(a, b, c int) string {
	var sb strings.Builder
	switch a {
	case 1:
		sb.WriteString("x²")
	case -1:
		sb.WriteString("-x²")
	default:
		fmt.Fprintf(&sb, "%dx²", a)
	}
	if b != 0 {
		sign, v := "+", b
		if b < 0 {
			sign, v = "-", -b
		}
		if v == 1 {
			fmt.Fprintf(&sb, " %s x", sign)
		} else {
			fmt.Fprintf(&sb, " %s %dx", sign, v)
		}
	}
	if c != 0 {
		fmt.Fprintf(&sb, " %s", signedTerm(c))
	}
	sb.WriteString(" = 0")
	return sb.String()
}

func signedTerm(n int) string {
	if n < 0 {
		return fmt.Sprintf("- %d", -n)
	}
	return fmt.Sprintf("+ %d", n)
}

// factorSign renders the factor for root r: root 3 gives "- 3", root -2
// gives "+ 2".
func factorSign(r int) string {
	if r < 0 {
		return fmt.Sprintf("+ %d", -r)
	}
	return fmt.Sprintf("- %d", r)
}
