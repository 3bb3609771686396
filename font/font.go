package font

import (
	"sort"

	"github.com/npillmayer/bitfont/core/label"
)

// Font is an ordered collection of glyphs plus a property map. Fonts are
// immutable values; transformations produce new fonts.
type Font struct {
	glyphs []*Glyph
	props  map[string]string
}

// Well-known property keys.
const (
	PropFamily     = "family"
	PropWeight     = "weight"
	PropAscent     = "ascent"
	PropDescent    = "descent"
	PropLineHeight = "line-height"
	PropEncoding   = "encoding"
	PropDPI        = "dpi"
)

// NewFont creates a font over a glyph sequence. The glyph order is kept.
func NewFont(glyphs []*Glyph, props map[string]string) *Font {
	f := &Font{
		glyphs: append([]*Glyph{}, glyphs...),
		props:  make(map[string]string, len(props)),
	}
	for k, v := range props {
		f.props[k] = v
	}
	return f
}

// Glyphs returns a copy of the font's glyph sequence, in order.
func (f *Font) Glyphs() []*Glyph {
	return append([]*Glyph{}, f.glyphs...)
}

// NumGlyphs is the number of glyphs in the font.
func (f *Font) NumGlyphs() int {
	return len(f.glyphs)
}

// Glyph returns the glyph at an index.
func (f *Font) Glyph(i int) *Glyph {
	return f.glyphs[i]
}

// GlyphByLabel finds the first glyph carrying the given label.
func (f *Font) GlyphByLabel(l label.Label) (*Glyph, bool) {
	for _, g := range f.glyphs {
		for _, gl := range g.labels {
			if label.Equal(gl, l) {
				return g, true
			}
		}
	}
	return nil, false
}

// Property returns a font property, or "" if unset.
func (f *Font) Property(key string) string {
	return f.props[key]
}

// PropertyKeys lists the set property keys, sorted.
func (f *Font) PropertyKeys() []string {
	keys := make([]string, 0, len(f.props))
	for k := range f.props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Encoding names the font's character encoding, or "" if unknown.
func (f *Font) Encoding() string {
	return f.props[PropEncoding]
}

// WithProperty returns a font with one property set.
func (f *Font) WithProperty(key, value string) *Font {
	out := NewFont(f.glyphs, f.props)
	out.props[key] = value
	return out
}

// WithGlyphs returns a font with the glyph sequence replaced.
func (f *Font) WithGlyphs(glyphs []*Glyph) *Font {
	return NewFont(glyphs, f.props)
}

// Modify returns a font with every glyph replaced by transform(glyph).
func (f *Font) Modify(transform func(*Glyph) *Glyph) *Font {
	glyphs := make([]*Glyph, len(f.glyphs))
	for i, g := range f.glyphs {
		glyphs[i] = transform(g)
	}
	return NewFont(glyphs, f.props)
}

// Pack is a sequence of fonts, as read from or written to a single file.
type Pack struct {
	fonts []*Font
}

// NewPack creates a pack over fonts.
func NewPack(fonts ...*Font) *Pack {
	return &Pack{fonts: append([]*Font{}, fonts...)}
}

// Fonts returns a copy of the pack's font sequence.
func (p *Pack) Fonts() []*Font {
	return append([]*Font{}, p.fonts...)
}

// Len is the number of fonts in the pack.
func (p *Pack) Len() int {
	return len(p.fonts)
}

// Font returns the font at an index.
func (p *Pack) Font(i int) *Font {
	return p.fonts[i]
}
