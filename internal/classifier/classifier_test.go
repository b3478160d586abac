package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyPlainText(t *testing.T) {
	c := NewContentClassifier()
	res := c.Classify("Name the three branches of government in South Africa.")
	assert.Equal(t, TextOnly, res.Class)
	assert.False(t, res.Flags.HasLatex)
	assert.False(t, res.Flags.HasGraph)
}

func TestClassifySimpleUnicode(t *testing.T) {
	c := NewContentClassifier()

	res := c.Classify("Solve x^2 - 5x + 6 = 0")
	assert.Equal(t, TextWithUnicode, res.Class)
	assert.True(t, res.Flags.HasSimpleUnicode)

	res = c.Classify("The area is 12 cm² and the angle is 45°")
	assert.Equal(t, TextWithUnicode, res.Class)
}

func TestClassifyComplexMath(t *testing.T) {
	c := NewContentClassifier()

	res := c.Classify(`Simplify \frac{x^2-4}{x-2}`)
	assert.Equal(t, MathImage, res.Class)
	assert.True(t, res.Flags.HasLatex)

	res = c.Classify("Simplify (x^2 - 4)/(x - 2) fully")
	assert.Equal(t, MathImage, res.Class)

	res = c.Classify("Evaluate 2^{3x+1} = 16")
	assert.Equal(t, MathImage, res.Class)
}

func TestClassifyGraphRequest(t *testing.T) {
	c := NewContentClassifier()

	res := c.Classify("Sketch the graph of y = x² - 4 showing all intercepts")
	assert.Equal(t, GraphImage, res.Class)
	assert.True(t, res.Flags.HasGraph)

	res = c.Classify("Draw the graph of f(x) = 2/x for x ≠ 0")
	assert.Equal(t, GraphImage, res.Class)

	// A function form without any graphing verb stays textual.
	res = c.Classify("Given y = 2x + 3, find x when y = 11")
	assert.NotEqual(t, GraphImage, res.Class)
}

func TestClassifyTable(t *testing.T) {
	c := NewContentClassifier()

	content := "Use the data:\n| x | 1 | 2 | 3 |\n| y | 2 | 4 | 6 |\nFind the rule."
	res := c.Classify(content)
	assert.Equal(t, TableImage, res.Class)
	assert.True(t, res.Flags.HasTable)

	res = c.Classify("Complete the table below using y = 3x")
	assert.Equal(t, TableImage, res.Class)

	res = c.Classify(`Find the determinant of \begin{pmatrix} 1 & 2 \\ 3 & 4 \end{pmatrix}`)
	assert.Equal(t, TableImage, res.Class)
}

func TestClassifyMatrixNotation(t *testing.T) {
	c := NewContentClassifier()

	res := c.Classify("Evaluate the determinant:\n|2 1|\n|4 3|")
	assert.Equal(t, TableImage, res.Class)

	res = c.Classify("Multiply the matrix [1 2; 3 4] by the scalar 3")
	assert.Equal(t, TableImage, res.Class)
}

func TestClassifyNarrowPipesAreNotTables(t *testing.T) {
	c := NewContentClassifier()

	// Two rows of a single cell each: not enough grid to warrant an image.
	res := c.Classify("Label the columns:\n| x |\n| y |")
	assert.False(t, res.Flags.HasTable)

	// Inline absolute values never span a whole line.
	res = c.Classify("Solve |x - 2| + |x + 1| = 5 for x")
	assert.False(t, res.Flags.HasTable)
}

func TestClassifySketchWithoutFunctionIsNotGraph(t *testing.T) {
	c := NewContentClassifier()

	res := c.Classify("Sketch the angle bisector of triangle ABC")
	assert.NotEqual(t, GraphImage, res.Class)
	assert.False(t, res.Flags.HasGraph)

	res = c.Classify("Plot the points from your field survey on the map")
	assert.False(t, res.Flags.HasGraph)
}

func TestTableBeatsGraphBeatsMath(t *testing.T) {
	c := NewContentClassifier()

	content := "Sketch y = x² using the table:\n| x | -1 | 0 | 1 |\n| y |  ? | ? | ? |"
	res := c.Classify(content)
	assert.Equal(t, TableImage, res.Class)
	assert.True(t, res.Flags.HasGraph)

	res = c.Classify(`Sketch the graph of y = \frac{1}{x}`)
	assert.Equal(t, GraphImage, res.Class)
	assert.True(t, res.Flags.HasLatex)
}
