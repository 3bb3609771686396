package storage

import (
	"path"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/npillmayer/bitfont/core"
	"github.com/npillmayer/bitfont/font"
)

// Options carry format-specific parameters into codecs.
type Options map[string]string

// LoadFunc reads fonts from an open stream in read mode. A codec that
// finds the stream not to be of its format returns an EFORMATNOMATCH
// error so that dispatch can try the next candidate. Codecs must not
// close the stream.
type LoadFunc func(s *Stream, opts Options) ([]*font.Font, error)

// SaveFunc writes a pack of fonts to an open stream in write mode. Codecs
// must not close the stream.
type SaveFunc func(p *font.Pack, s *Stream, opts Options) error

// ContainerFunc opens a container on a stream.
type ContainerFunc func(s *Stream, mode Mode) (Container, error)

// WrapperFunc peels a wrapper layer off a stream, emitting the single
// inner stream.
type WrapperFunc func(s *Stream, mode Mode) (*Stream, error)

// Codec describes one registered file format: its identification marks
// plus whichever of the conversion functions apply to it.
type Codec struct {
	Name     string
	Magic    []SigMatcher
	Patterns []NamePattern
	Template string // output filename template, e.g. "{name}.fnt"
	Text     bool   // text-based format

	Load LoadFunc
	Save SaveFunc

	OpenContainer ContainerFunc
	Unwrap        WrapperFunc
}

// Registry retrieves codecs through magic signatures and filename
// patterns. Magic signatures are tried longest first; ties keep
// registration order.
type Registry struct {
	name          string
	defaultText   string
	defaultBinary string
	magic         *treeset.Set
	patterns      []patternEntry
	names         map[string]*Codec
	order         []string
	seq           int
}

type magicEntry struct {
	seq     int
	matcher SigMatcher
	codec   *Codec
}

type patternEntry struct {
	pattern NamePattern
	codec   *Codec
}

// byMagicLength orders magic entries longest-signature-first, with
// registration order as the tie break.
func byMagicLength(a, b interface{}) int {
	ea, eb := a.(*magicEntry), b.(*magicEntry)
	if la, lb := ea.matcher.Len(), eb.matcher.Len(); la != lb {
		return lb - la
	}
	return ea.seq - eb.seq
}

// NewRegistry creates a codec registry with fallback formats for
// unidentified text and binary streams.
func NewRegistry(name, defaultText, defaultBinary string) *Registry {
	return &Registry{
		name:          name,
		defaultText:   defaultText,
		defaultBinary: defaultBinary,
		magic:         treeset.NewWith(byMagicLength),
		names:         make(map[string]*Codec),
	}
}

// Register adds a codec to the registry. With linked set, unspecified
// identification fields are inherited from the linked codec. Format names
// must be unique within a registry.
func (r *Registry) Register(c *Codec, linked *Codec) error {
	if linked != nil {
		if c.Name == "" {
			c.Name = linked.Name
		}
		if len(c.Magic) == 0 {
			c.Magic = linked.Magic
		}
		if len(c.Patterns) == 0 {
			c.Patterns = linked.Patterns
		}
		if c.Template == "" {
			c.Template = linked.Template
		}
		c.Text = c.Text || linked.Text
	}
	if c.Name == "" {
		return core.Error(core.EINVALID, "no registration name given")
	}
	if _, ok := r.names[c.Name]; ok {
		return core.Error(core.EINVALID,
			"registration name '%s' already in use", c.Name)
	}
	r.names[c.Name] = c
	r.order = append(r.order, c.Name)
	for _, m := range c.Magic {
		r.magic.Add(&magicEntry{seq: r.seq, matcher: m, codec: c})
		r.seq++
	}
	for _, p := range c.Patterns {
		r.patterns = append(r.patterns, patternEntry{pattern: p, codec: c})
	}
	return nil
}

// Formats lists the registered format names, in registration order.
func (r *Registry) Formats() []string {
	return append([]string{}, r.order...)
}

// Get retrieves a codec by format name.
func (r *Registry) Get(format string) (*Codec, bool) {
	c, ok := r.names[format]
	return c, ok
}

// Identify finds the codecs matching a stream: magic signatures first,
// longest first, then filename patterns. Text-only formats are dropped
// when the stream looks binary.
func (r *Registry) Identify(s *Stream) []*Codec {
	if s == nil {
		return nil
	}
	var matches []*Codec
	seen := make(map[*Codec]bool)
	maybeText := LooksLikeText(s)
	if s.Mode() == ReadMode {
		it := r.magic.Iterator()
		for it.Next() {
			e := it.Value().(*magicEntry)
			if seen[e.codec] || !e.matcher.Fits(s) {
				continue
			}
			tracer().Debugf("stream matches signature for format `%s`", e.codec.Name)
			seen[e.codec] = true
			matches = append(matches, e.codec)
		}
	}
	basename := path.Base(s.Name())
	for _, e := range r.patterns {
		if seen[e.codec] || !e.pattern.Matches(basename) {
			continue
		}
		tracer().Debugf("filename matches pattern for format `%s`", e.codec.Name)
		if e.codec.Text && !maybeText {
			tracer().Debugf("but format `%s` requires text", e.codec.Name)
			continue
		}
		seen[e.codec] = true
		matches = append(matches, e.codec)
	}
	return matches
}

// GetFor returns the candidate codecs for a stream. An explicit format
// wins; otherwise the stream is identified, falling back to the registry's
// default text or binary format.
func (r *Registry) GetFor(s *Stream, format string) []*Codec {
	if format != "" {
		if c, ok := r.names[format]; ok {
			return []*Codec{c}
		}
		return nil
	}
	matches := r.Identify(s)
	if len(matches) > 0 {
		return matches
	}
	fallback := r.defaultBinary
	if s == nil || s.Mode() == WriteMode || LooksLikeText(s) {
		fallback = r.defaultText
	}
	if s != nil && fallback != "" {
		if path.Ext(s.Name()) != "" {
			tracer().Infof("could not infer format from file '%s', "+
				"falling back to default `%s` format", s.Name(), fallback)
		} else {
			tracer().Debugf("could not infer format from file '%s', "+
				"falling back to default `%s` format", s.Name(), fallback)
		}
	}
	if c, ok := r.names[fallback]; ok {
		return []*Codec{c}
	}
	return nil
}

// GetTemplate returns the output filename template for a format, derived
// from its patterns if no explicit template was registered.
func (r *Registry) GetTemplate(format string) string {
	c, ok := r.names[format]
	if !ok {
		return "{name}." + format
	}
	if c.Template != "" {
		return c.Template
	}
	for _, p := range c.Patterns {
		if t := p.Template("{name}"); t != "" {
			return t
		}
	}
	return "{name}." + format
}


func formatList(codecs []*Codec) string {
	names := make([]string, len(codecs))
	for i, c := range codecs {
		names[i] = c.Name
	}
	return strings.Join(names, ", ")
}
