package font

import (
	"github.com/npillmayer/bitfont/core/label"
	"github.com/npillmayer/bitfont/core/raster"
)

// Metrics are the integer spacing metrics of a glyph. All default to zero.
type Metrics struct {
	LeftBearing   int
	RightBearing  int
	ShiftUp       int
	ShiftLeft     int
	TopBearing    int
	BottomBearing int
	RightKerning  int
	LeftKerning   int
}

// Glyph is one character cell of a bitmap font: a raster together with the
// labels identifying it and its spacing metrics. Glyphs are immutable; all
// operations return new glyphs.
type Glyph struct {
	raster  raster.Raster
	labels  []label.Label
	metrics Metrics
}

// NewGlyph creates a glyph over a raster.
func NewGlyph(r raster.Raster, labels ...label.Label) *Glyph {
	g := &Glyph{raster: r}
	g.labels = append(g.labels, labels...)
	return g
}

// Raster returns the glyph's pixel content.
func (g *Glyph) Raster() raster.Raster {
	return g.raster
}

// Labels returns a copy of the glyph's labels.
func (g *Glyph) Labels() []label.Label {
	return append([]label.Label{}, g.labels...)
}

// Metrics returns the glyph's spacing metrics.
func (g *Glyph) Metrics() Metrics {
	return g.metrics
}

// Codepoint returns the glyph's first codepoint label, if any.
func (g *Glyph) Codepoint() label.Codepoint {
	for _, l := range g.labels {
		if cp, ok := l.(label.Codepoint); ok {
			return cp
		}
	}
	return ""
}

// Char returns the glyph's first character label, if any.
func (g *Glyph) Char() label.Char {
	for _, l := range g.labels {
		if ch, ok := l.(label.Char); ok {
			return ch
		}
	}
	return ""
}

// Tags returns the glyph's tag labels.
func (g *Glyph) Tags() []label.Tag {
	var tags []label.Tag
	for _, l := range g.labels {
		if tag, ok := l.(label.Tag); ok {
			tags = append(tags, tag)
		}
	}
	return tags
}

// WithRaster returns a glyph with the same labels and metrics over a new
// raster.
func (g *Glyph) WithRaster(r raster.Raster) *Glyph {
	return &Glyph{raster: r, labels: g.Labels(), metrics: g.metrics}
}

// WithLabels returns a glyph with labels replaced.
func (g *Glyph) WithLabels(labels ...label.Label) *Glyph {
	return &Glyph{raster: g.raster, labels: append([]label.Label{}, labels...), metrics: g.metrics}
}

// AppendLabels returns a glyph with labels added.
func (g *Glyph) AppendLabels(labels ...label.Label) *Glyph {
	return &Glyph{raster: g.raster, labels: append(g.Labels(), labels...), metrics: g.metrics}
}

// WithMetrics returns a glyph with metrics replaced.
func (g *Glyph) WithMetrics(m Metrics) *Glyph {
	return &Glyph{raster: g.raster, labels: g.Labels(), metrics: m}
}

// Mirror returns the glyph flipped horizontally.
func (g *Glyph) Mirror() *Glyph {
	return g.WithRaster(g.raster.Mirror())
}

// Flip returns the glyph flipped vertically.
func (g *Glyph) Flip() *Glyph {
	return g.WithRaster(g.raster.Flip())
}

// Turn returns the glyph rotated by 90-degree turns.
func (g *Glyph) Turn(clockwise int) *Glyph {
	return g.WithRaster(g.raster.Turn(clockwise))
}

// Invert returns the glyph with ink and paper swapped.
func (g *Glyph) Invert() *Glyph {
	return g.WithRaster(g.raster.Invert())
}
