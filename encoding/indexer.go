package encoding

import (
	"github.com/npillmayer/bitfont/core/label"
)

// Indexer hands out successive codepoints from a label range. It is a
// write-only encoder: it exists to assign codepoints to glyphs that lack
// them, and cannot convert codepoints back to characters.
type Indexer struct {
	seq label.Seq
}

// NewIndexer creates an indexer over a label range specification such as
// "0x20-" or "0x00-0xff". The range must yield codepoint labels.
func NewIndexer(rangeSpec string) (*Indexer, error) {
	if rangeSpec == "" {
		rangeSpec = "0x00-"
	}
	seq, err := label.ParseSeq(rangeSpec)
	if err != nil {
		return nil, err
	}
	return &Indexer{seq: seq}, nil
}

// Name returns the encoder name.
func (ix *Indexer) Name() string {
	return "index"
}

// Char is not available on an indexer; it always yields an empty character.
func (ix *Indexer) Char(labels ...label.Label) label.Char {
	tracer().Errorf("can only use an indexer to set codepoints, not character labels")
	return ""
}

// Codepoint returns the next codepoint of the indexer's range, regardless
// of the labels given. An exhausted range yields empty codepoints.
func (ix *Indexer) Codepoint(labels ...label.Label) label.Codepoint {
	l, ok := ix.seq.Next()
	if !ok {
		return ""
	}
	cp, ok := l.(label.Codepoint)
	if !ok {
		return ""
	}
	return cp
}
