package render

import (
	"regexp"
	"strings"
)

var (
	fracPattern = regexp.MustCompile(`\\[dt]?frac\{([^{}]*)\}\{([^{}]*)\}`)
	sqrtPattern = regexp.MustCompile(`\\sqrt\{([^{}]*)\}`)
	supBraced   = regexp.MustCompile(`\^\{([^{}]*)\}`)
	subBraced   = regexp.MustCompile(`_\{([^{}]*)\}`)
	supSingle   = regexp.MustCompile(`\^([0-9a-zA-Zn])`)
	texCommand  = regexp.MustCompile(`\\[a-zA-Z]+`)
)

// macroGlyphs runs longest-key-first so \left never half-matches \le.
var macroGlyphs = strings.NewReplacer(
	`\approx`, "≈",
	`\degree`, "°",
	`\right`, "",
	`\times`, "×",
	`\infty`, "∞",
	`\Delta`, "Δ",
	`\theta`, "θ",
	`\alpha`, "α",
	`\left`, "",
	`\beta`, "β",
	`\quad`, " ",
	`\cdot`, "·",
	`\circ`, "°",
	`\leq`, "≤",
	`\geq`, "≥",
	`\neq`, "≠",
	`\div`, "÷",
	`\le`, "≤",
	`\ge`, "≥",
	`\ne`, "≠",
	`\pm`, "±",
	`\pi`, "π",
	`\,`, " ",
)

var superRunes = map[rune]rune{
	'0': '⁰', '1': '¹', '2': '²', '3': '³', '4': '⁴',
	'5': '⁵', '6': '⁶', '7': '⁷', '8': '⁸', '9': '⁹',
	'n': 'ⁿ', 'x': 'ˣ', '-': '⁻', '+': '⁺', '(': '⁽', ')': '⁾',
}

var subRunes = map[rune]rune{
	'0': '₀', '1': '₁', '2': '₂', '3': '₃', '4': '₄',
	'5': '₅', '6': '₆', '7': '₇', '8': '₈', '9': '₉',
	'n': 'ₙ', 'x': 'ₓ',
}

// Sanitize converts LaTeX-ish question text into display-safe tokens that
// WhatsApp renders directly: fractions become (a)/(b), roots become √(a),
// exponents become unicode superscripts, macros become glyphs. Line breaks
// survive; runs of spaces collapse.
func Sanitize(text string) string {
	// Fractions can nest one level; the inner pass creates parenthesised
	// halves the outer pass then consumes.
	for i := 0; i < 4 && fracPattern.MatchString(text); i++ {
		text = fracPattern.ReplaceAllStringFunc(text, func(m string) string {
			parts := fracPattern.FindStringSubmatch(m)
			num, den := strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2])
			if len([]rune(num)) == 1 && len([]rune(den)) == 1 {
				return num + "/" + den
			}
			return "(" + num + ")/(" + den + ")"
		})
	}

	text = sqrtPattern.ReplaceAllString(text, "√($1)")
	text = macroGlyphs.Replace(text)

	text = supBraced.ReplaceAllStringFunc(text, func(m string) string {
		inner := supBraced.FindStringSubmatch(m)[1]
		if mapped, ok := mapRunes(inner, superRunes); ok {
			return mapped
		}
		return "^(" + inner + ")"
	})
	text = supSingle.ReplaceAllStringFunc(text, func(m string) string {
		if mapped, ok := mapRunes(m[1:], superRunes); ok {
			return mapped
		}
		return m
	})
	text = subBraced.ReplaceAllStringFunc(text, func(m string) string {
		inner := subBraced.FindStringSubmatch(m)[1]
		if mapped, ok := mapRunes(inner, subRunes); ok {
			return mapped
		}
		return "_" + inner
	})

	text = texCommand.ReplaceAllString(text, "")
	text = strings.NewReplacer("{", "", "}", "", "^°", "°").Replace(text)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func mapRunes(s string, table map[rune]rune) (string, bool) {
	var b strings.Builder
	for _, r := range s {
		mapped, ok := table[r]
		if !ok {
			return "", false
		}
		b.WriteRune(mapped)
	}
	return b.String(), true
}

// asciiFolds rewrites glyphs feature phones tend to tofu into plain ASCII.
var asciiFolds = map[rune]string{
	'⁰': "^0", '¹': "^1", '²': "^2", '³': "^3", '⁴': "^4",
	'⁵': "^5", '⁶': "^6", '⁷': "^7", '⁸': "^8", '⁹': "^9",
	'ⁿ': "^n", 'ˣ': "^x", '⁻': "^-", '⁺': "^+",
	'₀': "0", '₁': "1", '₂': "2", '₃': "3", '₄': "4",
	'₅': "5", '₆': "6", '₇': "7", '₈': "8", '₉': "9",
	'×': "x", '÷': "/", '·': "*", '√': "sqrt", 'π': "pi",
	'°': " deg", '≤': "<=", '≥': ">=", '≠': "!=", '±': "+/-",
	'≈': "~", '∞': "infinity", '½': "1/2", '¼': "1/4", '¾': "3/4",
	'Δ': "delta", 'θ': "theta", 'α': "alpha", 'β': "beta",
}

// ASCIIFold degrades unicode math for feature phones.
func ASCIIFold(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if folded, ok := asciiFolds[r]; ok {
			b.WriteString(folded)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// wrap breaks overlong lines at word boundaries. Lines that already fit pass
// through untouched so pre-aligned grids keep their spacing.
func wrap(text string, maxChars int) []string {
	if maxChars < 8 {
		maxChars = 8
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if len([]rune(line)) <= maxChars {
			out = append(out, line)
			continue
		}
		words := strings.Fields(line)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		current := words[0]
		for _, w := range words[1:] {
			if len([]rune(current))+1+len([]rune(w)) > maxChars {
				out = append(out, current)
				current = w
				continue
			}
			current += " " + w
		}
		out = append(out, current)
	}
	return out
}
