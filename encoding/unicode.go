package encoding

import (
	"strings"
	"unicode/utf8"

	bbin "github.com/npillmayer/bitfont/core/binary"
	"github.com/npillmayer/bitfont/core/label"
)

// Unicode converts between characters and UTF-32 codepoints: each Unicode
// scalar maps to four big-endian bytes.
type Unicode struct{}

// Name returns the encoder name.
func (Unicode) Name() string {
	return "unicode"
}

// Char converts a codepoint label to a character. The bytes are padded at
// the front to a multiple of four and decoded as big-endian UTF-32 chunks.
// Invalid scalars yield an empty character.
func (Unicode) Char(labels ...label.Label) label.Char {
	for _, l := range labels {
		cp, ok := l.(label.Codepoint)
		if !ok {
			continue
		}
		data := cp.Bytes()
		padded := make([]byte, bbin.Align(len(data), 2))
		copy(padded[len(padded)-len(data):], data)
		var sb strings.Builder
		for start := 0; start < len(padded); start += 4 {
			v := bbin.BytesToInt(padded[start:start+4], bbin.BigEndian)
			if v > utf8.MaxRune || !utf8.ValidRune(rune(v)) {
				return ""
			}
			sb.WriteRune(rune(v))
		}
		return label.Char(sb.String())
	}
	return ""
}

// Codepoint converts a character label to its UTF-32 codepoint, four bytes
// per scalar, concatenated.
func (Unicode) Codepoint(labels ...label.Label) label.Codepoint {
	for _, l := range labels {
		ch, ok := l.(label.Char)
		if !ok {
			continue
		}
		var buf []byte
		for _, r := range ch.Value() {
			buf = append(buf, byte(r>>24), byte(r>>16), byte(r>>8), byte(r))
		}
		return label.Codepoint(buf)
	}
	return ""
}
