package hints

import "strings"

// GenericStrategy is the last-resort hint. It passes the validator by
// construction.
const GenericStrategy = "Start by writing down what the question gives you and what it asks for, then pick the rule that connects the two."

// instantHint maps a classification label onto a technique prompt. Labels
// come from two places, the question generator and the OCR detector, so
// matching is by keyword rather than exact string.
func instantHint(classification string) string {
	c := strings.ToLower(classification)
	switch {
	case strings.Contains(c, "quadratic"):
		return "Get every term onto one side so the equation equals zero. Then look for two numbers that multiply to the constant term and add up to the middle coefficient."
	case strings.Contains(c, "linear"):
		return "Collect the terms with the variable on one side and the plain numbers on the other. Whatever you do to one side, do to the other side too."
	case strings.Contains(c, "trig"), strings.Contains(c, "angle_of"):
		return "Label the sides relative to the given angle first: opposite, adjacent, hypotenuse. Then choose the ratio that links the two sides involved (SOH CAH TOA)."
	case strings.Contains(c, "geometry"), strings.Contains(c, "angle"):
		return "Mark everything you know on the sketch. Then hunt for angle pairs: angles on a straight line, around a point, or between parallel lines."
	case strings.Contains(c, "percent"), strings.Contains(c, "interest"), strings.Contains(c, "vat"):
		return "Convert the percentage to a decimal before anything else. Then decide whether you are looking for the part, the whole, or the rate."
	case strings.Contains(c, "fraction"):
		return "Find a common denominator first. Only the numerators change when you rewrite each fraction."
	case strings.Contains(c, "factor"):
		return "Take out the highest common factor first. Whatever stays inside the brackets must multiply back to the original expression, so check by expanding."
	case strings.Contains(c, "simplif"):
		return "Clear the brackets first, then collect like terms. Only terms with exactly the same variable part can be combined."
	case strings.Contains(c, "pattern"), strings.Contains(c, "sequence"):
		return "Write down the difference between each pair of consecutive terms. A constant difference means a linear pattern; a constant second difference means a quadratic one."
	case strings.Contains(c, "graph"), strings.Contains(c, "function"), strings.Contains(c, "parabola"), strings.Contains(c, "straight_line"):
		return "Find the intercepts first: substitute zero for x to get the y-intercept, and zero for y to get the x-intercepts. Those points anchor the whole sketch."
	case strings.Contains(c, "word"):
		return "Turn the words into mathematics: choose a letter for the unknown, then translate each phrase of the sentence into part of an equation."
	case strings.Contains(c, "measure"), strings.Contains(c, "area"), strings.Contains(c, "perimeter"), strings.Contains(c, "volume"), strings.Contains(c, "kinematics"), strings.Contains(c, "circuit"):
		return "Write the formula down before touching the numbers. Then substitute each given value with its unit attached, and only simplify at the end."
	default:
		return "Identify what the question gives you and what it wants from you. Then write down the definition, formula or rule that links those two things."
	}
}

// dynamicLadders hold escalating guidance per recognised question shape.
// Depth indexes into the ladder, clamped to its last rung.
var dynamicLadders = []struct {
	match func(string) bool
	steps []string
}{
	{
		match: func(s string) bool { return strings.Contains(s, "=") && strings.ContainsAny(s, "xyab") },
		steps: []string{
			"Rearrange the equation so all the terms sit on one side and zero on the other. That shape tells you which solving method applies.",
			"Look at the highest power of the variable. Power one means isolate it directly; power two means factorise or complete the square.",
			"After solving, substitute your value back into the original equation to confirm both sides agree.",
		},
	},
	{
		match: func(s string) bool { return strings.Contains(s, "%") || strings.Contains(s, "percent") },
		steps: []string{
			"Express the percentage as a fraction over one hundred before calculating anything.",
			"Decide which quantity is the whole. The percentage always acts on the whole, not on the part.",
			"Estimate the size of the result first, then check your calculation lands near the estimate.",
		},
	},
	{
		match: func(s string) bool {
			return strings.Contains(s, "triangle") || strings.Contains(s, "angle") || strings.Contains(s, "°")
		},
		steps: []string{
			"Redraw the figure roughly and transfer every given value onto it. Seeing the picture labelled is half the work.",
			"Ask which theorem fits the picture: Pythagoras for right angles and sides, a trig ratio when an angle and a side pair up.",
			"Check your result against the picture: the longest side must face the biggest angle.",
		},
	},
	{
		match: func(s string) bool { return strings.Contains(s, "graph") || strings.Contains(s, "sketch") },
		steps: []string{
			"Identify the function family first. Its shape tells you what features to find before plotting anything.",
			"Calculate the intercepts and any turning point or asymptote, and mark them before joining the curve.",
			"Label the axes and the key points. An unlabelled sketch loses the marks the features earned.",
		},
	},
}

var genericLadder = []string{
	"Underline the key values and the question phrase. Everything you need is in those underlined parts.",
	"Break the problem into two smaller questions and solve the easier one first.",
	"Explain the problem out loud in your own words. The step you cannot explain is the one to focus on.",
}

// dynamicHint inspects the question text itself and returns guidance scaled
// to how many hints the learner has already had.
func dynamicHint(questionText string, depth int) string {
	lower := strings.ToLower(questionText)
	for _, ladder := range dynamicLadders {
		if ladder.match(lower) {
			return ladder.steps[clampIndex(depth, len(ladder.steps))]
		}
	}
	return genericLadder[clampIndex(depth, len(genericLadder))]
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
