package storage

import (
	"bytes"
	"path"
	"regexp"
	"strings"
)

// SigMatcher matches the contents of a binary stream against a format
// signature.
type SigMatcher interface {
	Len() int
	Fits(s *Stream) bool
}

// Magic matches stream contents against byte patterns at fixed offsets.
type Magic struct {
	chunks []magicChunk
}

type magicChunk struct {
	offset int
	value  []byte
}

// NewMagic creates a signature of a single byte pattern at the stream
// start.
func NewMagic(value []byte) *Magic {
	return &Magic{chunks: []magicChunk{{offset: 0, value: value}}}
}

// At creates a signature of a single byte pattern at an offset.
func (m *Magic) At(offset int, value []byte) *Magic {
	out := &Magic{chunks: append([]magicChunk{}, m.chunks...)}
	out.chunks = append(out.chunks, magicChunk{offset: offset, value: value})
	return out
}

// Then appends a byte pattern directly after the previous patterns.
func (m *Magic) Then(value []byte) *Magic {
	return m.At(m.Len(), value)
}

// Len is the total length of the signature.
func (m *Magic) Len() int {
	length := 0
	for _, c := range m.chunks {
		if end := c.offset + len(c.value); end > length {
			length = end
		}
	}
	return length
}

// Matches tells whether the target bytes fit the mask.
func (m *Magic) Matches(target []byte) bool {
	if len(target) < m.Len() {
		return false
	}
	for _, c := range m.chunks {
		if !bytes.Equal(target[c.offset:c.offset+len(c.value)], c.value) {
			return false
		}
	}
	return true
}

// Fits tells whether the stream contents match the signature. Write
// streams never match.
func (m *Magic) Fits(s *Stream) bool {
	if s.Mode() == WriteMode {
		return false
	}
	sample, err := s.Peek(m.Len())
	if err != nil {
		return false
	}
	return m.Matches(sample)
}

// Sentinel matches stream contents against a start-of-line token appearing
// within the first bytes of the stream.
type Sentinel struct {
	value  []byte
	window int
}

// NewSentinel creates a line-anchored signature. The token must appear at
// the start of a line within the peek window.
func NewSentinel(value []byte) *Sentinel {
	return &Sentinel{value: value, window: 256}
}

// Len is the token length.
func (sn *Sentinel) Len() int {
	return len(sn.value)
}

// Fits tells whether the stream holds the sentinel at a line start.
func (sn *Sentinel) Fits(s *Stream) bool {
	if s.Mode() == WriteMode {
		return false
	}
	buffer, err := s.Peek(sn.window)
	if err != nil {
		return false
	}
	return bytes.HasPrefix(buffer, sn.value) ||
		bytes.Contains(buffer, append([]byte{'\n'}, sn.value...)) ||
		bytes.Contains(buffer, append([]byte{'\r'}, sn.value...))
}

// NamePattern matches a filename against a pattern.
type NamePattern interface {
	Matches(name string) bool
	// Template generates a filename for the given stem; empty on failure.
	Template(stem string) string
}

// Glob matches filenames case-insensitively against a glob pattern.
type Glob string

// Matches tells whether the name fits the glob.
func (g Glob) Matches(name string) bool {
	ok, err := path.Match(strings.ToLower(string(g)), strings.ToLower(name))
	return err == nil && ok
}

// Template derives an output filename template from the glob.
func (g Glob) Template(stem string) string {
	pat := string(g)
	if strings.ContainsAny(pat, "?[") || strings.Count(pat, "*") != 1 {
		return ""
	}
	return strings.Replace(pat, "*", stem, 1)
}

// Regex matches filenames against a regular expression.
type Regex struct {
	re *regexp.Regexp
}

// NewRegex compiles a filename pattern. The expression must match the
// whole lowercased name.
func NewRegex(expr string) (*Regex, error) {
	re, err := regexp.Compile("^(?:" + expr + ")$")
	if err != nil {
		return nil, err
	}
	return &Regex{re: re}, nil
}

// Matches tells whether the name fits the expression.
func (r *Regex) Matches(name string) bool {
	return r.re.MatchString(strings.ToLower(name))
}

// Template cannot be derived from a regular expression.
func (r *Regex) Template(stem string) string {
	return ""
}
