package render

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

type funcKind int

const (
	kindLinear funcKind = iota
	kindQuadratic
	kindHyperbola
	kindExponential
)

// plotFunc is one member of the four school function families.
type plotFunc struct {
	kind funcKind
	a    float64 // leading coefficient
	b    float64 // linear coefficient (quadratic) or base (exponential)
	q    float64 // vertical shift / constant term
	expr string  // display form for the label
}

const graphSamples = 400

var (
	funcIntro = regexp.MustCompile(`(?i)\b(?:y|[fgh]\s*\(\s*x\s*\))\s*=\s*([^,;\n]+)`)
	exprStop  = regexp.MustCompile(`(?i)\s+(?:for|where|showing|with|if|and|on)\b.*$`)

	quadForm = regexp.MustCompile(`^([+-]?[\d.]*)x²([+-][\d.]*x)?([+-][\d.]+)?$`)
	linForm  = regexp.MustCompile(`^([+-]?[\d.]*)x([+-][\d.]+)?$`)
	hypForm  = regexp.MustCompile(`^([+-]?[\d.]*)/x([+-][\d.]+)?$`)
	expForm  = regexp.MustCompile(`^([+-]?[\d.]*)·?([\d.]+)ˣ([+-][\d.]+)?$`)
)

// parseFunction pulls the first y=… or f(x)=… out of sanitized question text
// and fits it to a family. Anything outside the four canonical shapes is
// rejected so the caller can fall back to a formula image.
func parseFunction(text string) (*plotFunc, bool) {
	m := funcIntro.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	display := strings.TrimSpace(exprStop.ReplaceAllString(m[1], ""))
	display = strings.TrimRight(display, ".?! ")
	compact := strings.ReplaceAll(display, " ", "")

	if g := quadForm.FindStringSubmatch(compact); g != nil {
		b := 0.0
		if g[2] != "" {
			b = coeff(strings.TrimSuffix(g[2], "x"))
		}
		return &plotFunc{kind: kindQuadratic, a: coeff(g[1]), b: b, q: constTerm(g[3]), expr: display}, true
	}
	if g := hypForm.FindStringSubmatch(compact); g != nil {
		return &plotFunc{kind: kindHyperbola, a: coeff(g[1]), q: constTerm(g[2]), expr: display}, true
	}
	if g := expForm.FindStringSubmatch(compact); g != nil {
		base, err := strconv.ParseFloat(g[2], 64)
		if err != nil || base <= 0 {
			return nil, false
		}
		return &plotFunc{kind: kindExponential, a: coeff(g[1]), b: base, q: constTerm(g[3]), expr: display}, true
	}
	if g := linForm.FindStringSubmatch(compact); g != nil {
		return &plotFunc{kind: kindLinear, a: coeff(g[1]), q: constTerm(g[2]), expr: display}, true
	}
	return nil, false
}

func coeff(s string) float64 {
	switch s {
	case "", "+":
		return 1
	case "-":
		return -1
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 1
	}
	return v
}

func constTerm(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func (f *plotFunc) eval(x float64) float64 {
	switch f.kind {
	case kindQuadratic:
		return f.a*x*x + f.b*x + f.q
	case kindHyperbola:
		if x == 0 {
			return math.NaN()
		}
		return f.a/x + f.q
	case kindExponential:
		return f.a*math.Pow(f.b, x) + f.q
	default:
		return f.a*x + f.q
	}
}

// window picks the x range per family: quadratics center on the vertex with
// ±6 padding, exponentials stay narrow so growth does not flatten the view.
func (f *plotFunc) window() (xmin, xmax float64) {
	switch f.kind {
	case kindQuadratic:
		vx := 0.0
		if f.a != 0 {
			vx = -f.b / (2 * f.a)
		}
		return vx - 6, vx + 6
	case kindExponential:
		return -6, 6
	default:
		return -10, 10
	}
}

type graphPoint struct {
	x, y float64
	ok   bool
}

func (f *plotFunc) sample() []graphPoint {
	xmin, xmax := f.window()
	step := (xmax - xmin) / float64(graphSamples-1)
	pts := make([]graphPoint, 0, graphSamples)
	for i := 0; i < graphSamples; i++ {
		x := xmin + float64(i)*step
		y := f.eval(x)
		pts = append(pts, graphPoint{x: x, y: y, ok: !math.IsNaN(y) && !math.IsInf(y, 0)})
	}
	return pts
}

// yWindow bounds the vertical view to the sampled values, clamped so
// asymptotic blowups do not squash the interesting region, always keeping
// the x-axis in sight.
func yWindow(pts []graphPoint) (ymin, ymax float64) {
	const clampAbs = 24
	ymin, ymax = math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		if !p.ok || math.Abs(p.y) > clampAbs {
			continue
		}
		ymin = math.Min(ymin, p.y)
		ymax = math.Max(ymax, p.y)
	}
	if math.IsInf(ymin, 1) {
		return -10, 10
	}
	ymin = math.Min(ymin, 0)
	ymax = math.Max(ymax, 0)
	pad := (ymax - ymin) * 0.1
	if pad < 1 {
		pad = 1
	}
	return ymin - pad, ymax + pad
}

// niceStep rounds a raw interval to the nearest 1/2/5 decade step.
func niceStep(raw float64) float64 {
	if raw <= 0 {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, m := range []float64{1, 2, 5, 10} {
		if raw <= m*mag {
			return m * mag
		}
	}
	return 10 * mag
}

const (
	graphWidth  = 480
	graphHeight = 360
	graphPad    = 36
)

// graphSVG renders axes, a unit grid, numeric ticks and the sampled curve.
// Non-finite samples reset the polyline so asymptotes draw as separate
// branches instead of a vertical smear.
func graphSVG(f *plotFunc) []byte {
	pts := f.sample()
	xmin, xmax := f.window()
	ymin, ymax := yWindow(pts)

	sx := float64(graphWidth-2*graphPad) / (xmax - xmin)
	sy := float64(graphHeight-2*graphPad) / (ymax - ymin)
	px := func(x float64) float64 { return graphPad + (x-xmin)*sx }
	py := func(y float64) float64 { return float64(graphHeight-graphPad) - (y-ymin)*sy }

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		graphWidth, graphHeight, graphWidth, graphHeight)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="#ffffff"/>`, graphWidth, graphHeight)

	xstep := niceStep((xmax - xmin) / 10)
	ystep := niceStep((ymax - ymin) / 8)

	for gx := math.Ceil(xmin/xstep) * xstep; gx <= xmax+1e-9; gx += xstep {
		fmt.Fprintf(&b, `<line x1="%.1f" y1="%d" x2="%.1f" y2="%d" stroke="#e0e0e0" stroke-width="1"/>`,
			px(gx), graphPad, px(gx), graphHeight-graphPad)
	}
	for gy := math.Ceil(ymin/ystep) * ystep; gy <= ymax+1e-9; gy += ystep {
		fmt.Fprintf(&b, `<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="#e0e0e0" stroke-width="1"/>`,
			graphPad, py(gy), graphWidth-graphPad, py(gy))
	}

	if xmin <= 0 && xmax >= 0 {
		fmt.Fprintf(&b, `<line x1="%.1f" y1="%d" x2="%.1f" y2="%d" stroke="#424242" stroke-width="1.5"/>`,
			px(0), graphPad, px(0), graphHeight-graphPad)
	}
	if ymin <= 0 && ymax >= 0 {
		fmt.Fprintf(&b, `<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="#424242" stroke-width="1.5"/>`,
			graphPad, py(0), graphWidth-graphPad, py(0))
	}

	axisY := py(0)
	if ymin > 0 || ymax < 0 {
		axisY = float64(graphHeight - graphPad)
	}
	for gx := math.Ceil(xmin/xstep) * xstep; gx <= xmax+1e-9; gx += xstep {
		if math.Abs(gx) < 1e-9 {
			continue
		}
		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" font-size="10" fill="#616161" text-anchor="middle">%s</text>`,
			px(gx), axisY+14, trimFloat(gx))
	}
	axisX := px(0)
	if xmin > 0 || xmax < 0 {
		axisX = graphPad
	}
	for gy := math.Ceil(ymin/ystep) * ystep; gy <= ymax+1e-9; gy += ystep {
		if math.Abs(gy) < 1e-9 {
			continue
		}
		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" font-size="10" fill="#616161" text-anchor="end">%s</text>`,
			axisX-4, py(gy)+3, trimFloat(gy))
	}

	var path strings.Builder
	open := false
	flush := func() {
		if open {
			b.WriteString(`<polyline points="` + path.String() + `" fill="none" stroke="#1565c0" stroke-width="2"/>`)
			path.Reset()
			open = false
		}
	}
	for _, p := range pts {
		if !p.ok || p.y < ymin || p.y > ymax {
			flush()
			continue
		}
		if open {
			path.WriteByte(' ')
		}
		fmt.Fprintf(&path, "%.1f,%.1f", px(p.x), py(p.y))
		open = true
	}
	flush()

	fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="13" font-family="monospace" fill="#212121">%s</text>`,
		graphPad, 20, escapeSVG("y = "+f.expr))
	b.WriteString(`</svg>`)
	return []byte(b.String())
}

func trimFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

func escapeSVG(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}
