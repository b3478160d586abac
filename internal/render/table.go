package render

import (
	"strings"
)

// tableGrid rewrites pipe-delimited rows into a monospaced aligned grid,
// keeping any surrounding prose lines in place. Returns false when fewer
// than two table rows are present.
func tableGrid(content string) (string, bool) {
	lines := strings.Split(content, "\n")

	type row struct {
		index int
		cells []string
	}
	var rows []row
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "|") || strings.Count(trimmed, "|") < 2 {
			continue
		}
		cells := strings.Split(strings.Trim(trimmed, "|"), "|")
		for j := range cells {
			cells[j] = strings.TrimSpace(cells[j])
		}
		rows = append(rows, row{index: i, cells: cells})
	}
	if len(rows) < 2 {
		return "", false
	}

	cols := 0
	for _, r := range rows {
		if len(r.cells) > cols {
			cols = len(r.cells)
		}
	}
	widths := make([]int, cols)
	for _, r := range rows {
		for j, c := range r.cells {
			if n := len([]rune(c)); n > widths[j] {
				widths[j] = n
			}
		}
	}

	formatRow := func(cells []string) string {
		parts := make([]string, cols)
		for j := 0; j < cols; j++ {
			c := ""
			if j < len(cells) {
				c = cells[j]
			}
			parts[j] = c + strings.Repeat(" ", widths[j]-len([]rune(c)))
		}
		return "| " + strings.Join(parts, " | ") + " |"
	}

	var rule strings.Builder
	rule.WriteByte('+')
	for _, w := range widths {
		rule.WriteString(strings.Repeat("-", w+2))
		rule.WriteByte('+')
	}

	out := make([]string, 0, len(lines)+2)
	rowAt := make(map[int][]string, len(rows))
	first, last := rows[0].index, rows[len(rows)-1].index
	for _, r := range rows {
		rowAt[r.index] = r.cells
	}
	for i, line := range lines {
		cells, isRow := rowAt[i]
		if !isRow {
			out = append(out, line)
			continue
		}
		if i == first {
			out = append(out, rule.String())
		}
		out = append(out, formatRow(cells))
		if i == first || i == last {
			out = append(out, rule.String())
		}
	}
	return strings.Join(out, "\n"), true
}
