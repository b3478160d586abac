// Package catalog holds the static CAPS-aligned curriculum taxonomy and the
// free-text resolution used when a learner names a subject and grade.
package catalog

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

const (
	// GradeMin and GradeMax bound the grades the assistant serves. Input
	// outside the range clamps rather than errors.
	GradeMin = 8
	GradeMax = 11
)

// fuzzyMaxDistance is the largest Levenshtein distance accepted when falling
// back to fuzzy alias matching ("fisics", "mathz").
const fuzzyMaxDistance = 2

var gradePattern = regexp.MustCompile(`\d{1,2}`)

// Subjects returns the offered subjects in display order.
func Subjects() []string {
	out := make([]string, len(subjects))
	copy(out, subjects)
	return out
}

// HasPair reports whether the catalog carries content for the pair.
func HasPair(subject string, grade int) bool {
	grades, ok := curriculum[subject]
	if !ok {
		return false
	}
	_, ok = grades[grade]
	return ok
}

// Grades lists the grades available for a subject, ascending.
func Grades(subject string) []int {
	grades, ok := curriculum[subject]
	if !ok {
		return nil
	}
	out := make([]int, 0, len(grades))
	for g := range grades {
		out = append(out, g)
	}
	sort.Ints(out)
	return out
}

// Topics returns the ordered topic names for a (subject, grade) pair, or nil
// when the pair is not in the catalog.
func Topics(subject string, grade int) []string {
	entries := curriculum[subject][grade]
	if len(entries) == 0 {
		return nil
	}
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Topic
	}
	return out
}

// SubTopics returns the ordered sub-topics of a topic. Topic names compare
// case-insensitively. An empty result means the topic has no sub-division and
// practice starts at topic level.
func SubTopics(subject string, grade int, topic string) []string {
	for _, e := range curriculum[subject][grade] {
		if strings.EqualFold(e.Topic, topic) {
			out := make([]string, len(e.SubTopics))
			copy(out, e.SubTopics)
			return out
		}
	}
	return nil
}

// FallbackTopics is the short example list shown when a catalog lookup
// misses, so the conversation never dead-ends.
func FallbackTopics() []string {
	return []string{"Algebra", "Functions", "Geometry", "Data handling"}
}

// ResolveSubject maps free text onto a canonical subject name. It tries an
// exact alias hit, then alias substrings (longest first, so "maths lit" beats
// "maths"), then fuzzy matching for near-miss spellings.
func ResolveSubject(input string) (string, bool) {
	text := normalize(input)
	if text == "" {
		return "", false
	}
	if canonical, ok := aliases[text]; ok {
		return canonical, true
	}

	for _, key := range aliasKeysByLength(true) {
		if containsWord(text, key) {
			return aliases[key], true
		}
	}

	// Near misses: "geog" abbreviates "geography", "matematics" is one edit
	// from "mathematics". Shortest key first so "mat" lands on "math" rather
	// than "mathematical literacy".
	short := aliasKeysByLength(false)
	for _, word := range strings.Fields(text) {
		if len(word) < 3 {
			continue
		}
		for _, key := range short {
			if strings.HasPrefix(key, word) {
				return aliases[key], true
			}
		}
		best, bestDist := "", fuzzyMaxDistance+1
		for _, key := range short {
			if d := fuzzy.LevenshteinDistance(word, key); d < bestDist {
				best, bestDist = key, d
			}
		}
		if best != "" {
			return aliases[best], true
		}
	}
	return "", false
}

// ParseGrade extracts the first number in the text and clamps it into the
// served range. "grade 12" comes back as 11, "7" as 8.
func ParseGrade(text string) (int, bool) {
	match := gradePattern.FindString(text)
	if match == "" {
		return 0, false
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return ClampGrade(n), true
}

// ClampGrade bounds a grade to [GradeMin, GradeMax].
func ClampGrade(grade int) int {
	if grade < GradeMin {
		return GradeMin
	}
	if grade > GradeMax {
		return GradeMax
	}
	return grade
}

// ParseSubjectGrade resolves both halves of a "Mathematics 10" style message.
// Either half may fail independently; the caller decides how to recover.
func ParseSubjectGrade(text string) (subject string, grade int, subjectOK, gradeOK bool) {
	subject, subjectOK = ResolveSubject(text)
	grade, gradeOK = ParseGrade(text)
	return subject, grade, subjectOK, gradeOK
}

func normalize(input string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(input)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// containsWord reports whether needle appears in text on word boundaries, so
// "history" does not fire on "prehistoric".
func containsWord(text, needle string) bool {
	idx := strings.Index(text, needle)
	for idx >= 0 {
		before := idx == 0 || text[idx-1] == ' '
		end := idx + len(needle)
		after := end == len(text) || text[end] == ' '
		if before && after {
			return true
		}
		next := strings.Index(text[idx+1:], needle)
		if next < 0 {
			return false
		}
		idx += 1 + next
	}
	return false
}

func aliasKeysByLength(longestFirst bool) []string {
	keys := make([]string, 0, len(aliases))
	for k := range aliases {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			if longestFirst {
				return len(keys[i]) > len(keys[j])
			}
			return len(keys[i]) < len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}
