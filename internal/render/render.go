// Package render turns question content into WhatsApp-deliverable form:
// display-safe text for most questions, vector images for formulas, graphs
// and tables that plain text would mangle.
package render

import (
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/MankweAI/goat-edtech/internal/cache"
	"github.com/MankweAI/goat-edtech/internal/classifier"
	"github.com/MankweAI/goat-edtech/internal/models"
	"github.com/MankweAI/goat-edtech/pkg/config"
)

// Image is the payload shape the outbound adapter uploads.
type Image struct {
	Data   string `json:"data"` // base64-encoded SVG document
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Alt    string `json:"alt"`
}

// Markers substituted into the text path when an image cannot be produced.
// MarkerRepeat flags a reply whose visual was already delivered on an
// earlier turn.
const (
	MarkerEquation = "[equation detected]"
	MarkerGraph    = "[graph detected]"
	MarkerTable    = "[table detected]"
	MarkerRepeat   = "[shown in previous image]"
)

// Output is what a flow sends onward: text always, an image when the
// classification asked for one and it rendered, or a marker when it did not.
type Output struct {
	Text   string
	Image  *Image
	Marker string
}

// Renderer owns the render cache. It is pure computation; the only failure
// mode is content that does not fit any drawable shape.
type Renderer struct {
	cache    *cache.LRU
	fontSize int
	logger   *zap.Logger
}

func New(cfg config.RenderConfig, logger *zap.Logger) *Renderer {
	return &Renderer{
		cache:    cache.NewLRU(cfg.CacheSize, 0),
		fontSize: cfg.FontSize,
		logger:   logger,
	}
}

// Prepare routes content through the pipeline chosen by the classifier.
// Feature phones get ASCII-folded text; everyone else keeps unicode math.
func (r *Renderer) Prepare(content, class string, device models.DeviceClass) Output {
	text := Sanitize(content)
	if device == models.DeviceFeaturePhone {
		text = ASCIIFold(text)
	}

	switch class {
	case classifier.TableImage:
		img, err := r.Table(content)
		if err == nil {
			return Output{Text: text, Image: img}
		}
		r.logger.Warn("table render failed, degrading to text", zap.Error(err))
		return Output{Text: text, Marker: MarkerTable}
	case classifier.GraphImage:
		img, err := r.Graph(content)
		if err == nil {
			return Output{Text: text, Image: img}
		}
		r.logger.Warn("graph render failed, trying formula image", zap.Error(err))
		if img, err := r.Formula(content); err == nil {
			return Output{Text: text, Image: img}
		}
		return Output{Text: text, Marker: MarkerGraph}
	case classifier.MathImage:
		img, err := r.Formula(content)
		if err == nil {
			return Output{Text: text, Image: img}
		}
		return Output{Text: text, Marker: MarkerEquation}
	default:
		return Output{Text: text}
	}
}

// Formula renders sanitized text as a word-wrapped vector image.
func (r *Renderer) Formula(content string) (*Image, error) {
	text := Sanitize(content)
	if text == "" {
		return nil, errors.New("render: empty formula content")
	}
	return r.cached("formula", text, func() *Image {
		return r.textImage(text)
	}), nil
}

// Graph renders the first recognizable function in the content.
func (r *Renderer) Graph(content string) (*Image, error) {
	text := Sanitize(content)
	f, ok := parseFunction(text)
	if !ok {
		return nil, fmt.Errorf("render: no plottable function in %q", firstRunes(text, 40))
	}
	return r.cached("graph", f.expr, func() *Image {
		svg := graphSVG(f)
		return &Image{
			Data:   base64.StdEncoding.EncodeToString(svg),
			Format: "svg+xml",
			Width:  graphWidth,
			Height: graphHeight,
			Alt:    "Graph of y = " + f.expr,
		}
	}), nil
}

// Table renders pipe-delimited rows as an aligned monospace grid image.
func (r *Renderer) Table(content string) (*Image, error) {
	text := Sanitize(content)
	grid, ok := tableGrid(text)
	if !ok {
		return nil, errors.New("render: fewer than two table rows")
	}
	return r.cached("table", grid, func() *Image {
		return r.textImage(grid)
	}), nil
}

// cached looks up md5(kind|fontSize|key) before building.
func (r *Renderer) cached(kind, key string, build func() *Image) *Image {
	sum := md5.Sum([]byte(fmt.Sprintf("%s|%d|%s", kind, r.fontSize, key)))
	ck := hex.EncodeToString(sum[:])
	if v, ok := r.cache.Get(ck); ok {
		return v.(*Image)
	}
	img := build()
	r.cache.Add(ck, img)
	return img
}

// textImage lays wrapped lines onto a plain SVG canvas in a monospace face,
// so grids and aligned working keep their columns.
func (r *Renderer) textImage(text string) *Image {
	charW := (r.fontSize * 3) / 5
	maxChars := (formulaWidth - 2*formulaPad) / charW
	lines := wrap(text, maxChars)

	lineHeight := r.fontSize + 8
	height := 2*formulaPad + lineHeight*len(lines)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		formulaWidth, height, formulaWidth, height)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="#ffffff"/>`, formulaWidth, height)
	for i, line := range lines {
		if line == "" {
			continue
		}
		fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="%d" font-family="monospace" fill="#212121" xml:space="preserve">%s</text>`,
			formulaPad, formulaPad+lineHeight*i+r.fontSize, r.fontSize, escapeSVG(line))
	}
	b.WriteString(`</svg>`)

	svg := b.String()
	return &Image{
		Data:   base64.StdEncoding.EncodeToString([]byte(svg)),
		Format: "svg+xml",
		Width:  formulaWidth,
		Height: height,
		Alt:    firstRunes(text, 80),
	}
}

const (
	formulaWidth = 480
	formulaPad   = 24
)

func firstRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
