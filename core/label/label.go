package label

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/bitfont/core"
	"github.com/npillmayer/bitfont/core/binary"
	"github.com/rivo/uniseg"
)

// Label is a glyph label: a Char, a Codepoint or a Tag.
type Label interface {
	fmt.Stringer
	sealed()
}

// --- Character labels -------------------------------------------------------

// Char is a character label: a Unicode grapheme cluster, possibly
// multi-codepoint.
type Char string

func (c Char) sealed() {}

// String prints the character as a comma-joined sequence of u+XXXX scalars.
func (c Char) String() string {
	parts := make([]string, 0, len(c))
	for _, r := range string(c) {
		parts = append(parts, fmt.Sprintf("u+%04x", r))
	}
	return strings.Join(parts, ", ")
}

// Value returns the raw character contents.
func (c Char) Value() string {
	return string(c)
}

// Graphemes splits the character label into its grapheme clusters.
func (c Char) Graphemes() []string {
	var clusters []string
	state := -1
	rest := string(c)
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		clusters = append(clusters, cluster)
	}
	return clusters
}

// --- Codepoint labels -------------------------------------------------------

// Codepoint is a codepoint label: a byte sequence interpreted as the native
// encoded form of a glyph. The canonical form has no leading null bytes
// unless the value is exactly one null.
type Codepoint string

func (c Codepoint) sealed() {}

// NewCodepoint creates a codepoint label in canonical form.
func NewCodepoint(value []byte) Codepoint {
	if len(value) > 1 {
		i := 0
		for i < len(value)-1 && value[i] == 0 {
			i++
		}
		value = value[i:]
	}
	return Codepoint(value)
}

// CodepointFromInt creates a codepoint label from an integer value.
func CodepointFromInt(v uint64) Codepoint {
	return Codepoint(binary.IntToBytes(v, binary.BigEndian))
}

// String prints the codepoint as 0xHH… hex.
func (c Codepoint) String() string {
	var sb strings.Builder
	sb.WriteString("0x")
	for i := 0; i < len(c); i++ {
		fmt.Fprintf(&sb, "%02x", c[i])
	}
	return sb.String()
}

// Bytes returns the codepoint's byte contents.
func (c Codepoint) Bytes() []byte {
	return []byte(c)
}

// Int returns the codepoint's integer value.
func (c Codepoint) Int() (uint64, error) {
	if len(c) == 0 {
		return 0, core.Error(core.EINVALID,
			"empty codepoint cannot be converted to int")
	}
	return binary.BytesToInt([]byte(c), binary.BigEndian), nil
}

// Add increments the codepoint's integer value.
func (c Codepoint) Add(delta int) Codepoint {
	v, err := c.Int()
	if err != nil {
		return c
	}
	return CodepointFromInt(uint64(int64(v) + int64(delta)))
}

// --- Tag labels -------------------------------------------------------------

// Tag is an opaque name label.
type Tag string

func (t Tag) sealed() {}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isTagChar(b byte) bool {
	return isASCIILetter(b) || (b >= '0' && b <= '9') ||
		b == '_' || b == '-' || b == '.'
}

// String prints the tag, quoted iff it would otherwise be ambiguous.
func (t Tag) String() string {
	needsQuotes := len(t) < 2 || !isASCIILetter(t[0])
	for i := 0; !needsQuotes && i < len(t); i++ {
		needsQuotes = !isTagChar(t[i])
	}
	if needsQuotes {
		return `"` + string(t) + `"`
	}
	return string(t)
}

// Value returns the tag contents.
func (t Tag) Value() string {
	return string(t)
}

// --- Comparison --------------------------------------------------------------

// Equal compares two labels. Labels of different variants are never equal.
func Equal(a, b Label) bool {
	switch x := a.(type) {
	case Char:
		y, ok := b.(Char)
		return ok && x == y
	case Codepoint:
		y, ok := b.(Codepoint)
		return ok && x == y
	case Tag:
		y, ok := b.(Tag)
		return ok && x == y
	}
	return false
}

// Less orders two labels of the same variant. Codepoints order like
// integers, characters and tags lexicographically. Labels of different
// variants do not order; Less returns false for them.
func Less(a, b Label) bool {
	switch x := a.(type) {
	case Char:
		y, ok := b.(Char)
		return ok && x < y
	case Codepoint:
		y, ok := b.(Codepoint)
		if !ok {
			return false
		}
		if len(x) != len(y) {
			return len(x) < len(y)
		}
		return x < y
	case Tag:
		y, ok := b.(Tag)
		return ok && x < y
	}
	return false
}

// --- Parsing -----------------------------------------------------------------

func isEnclosed(s string, quote byte) bool {
	return len(s) >= 2 && s[0] == quote && s[len(s)-1] == quote
}

// Parse converts the string representation of a label to a Label.
//
// Double-quoted input is a tag, single-quoted input a character. Input with
// a leading ASCII digit is a codepoint; 0xNN hex and comma-joined multibyte
// sequences are supported. Length-one and non-ASCII input is a character,
// as are comma-joined u+NNNN sequences. Everything else is a tag.
func Parse(value string) Label {
	if value == "" {
		return Char("")
	}
	if isEnclosed(value, '"') {
		return Tag(value[1 : len(value)-1])
	}
	if isEnclosed(value, '\'') {
		return Char(value[1 : len(value)-1])
	}
	if value[0] >= '0' && value[0] <= '9' {
		if cp, err := parseCodepoint(value); err == nil {
			return cp
		}
	}
	if len(value) == 1 {
		return Char(value)
	}
	for i := 0; i < len(value); i++ {
		if value[i] > 0x7f {
			// unquoted non-ascii covers grapheme sequences
			return Char(value)
		}
	}
	if ch, err := parseCharSequence(value); err == nil {
		return ch
	}
	return Tag(strings.TrimSpace(value))
}

// parseCodepoint converts comma-joined integer elements to a codepoint.
func parseCodepoint(value string) (Codepoint, error) {
	var buf []byte
	for _, elem := range strings.Split(value, ",") {
		elem = strings.TrimSpace(elem)
		if elem == "" {
			continue
		}
		v, err := strconv.ParseUint(elem, 0, 64)
		if err != nil {
			return "", core.WrapError(err, core.EINVALID,
				"cannot convert '%s' to codepoint label", value)
		}
		buf = append(buf, binary.IntToBytes(v, binary.BigEndian)...)
	}
	return NewCodepoint(buf), nil
}

// parseCharSequence converts comma-joined u+NNNN or quoted elements to a
// character label.
func parseCharSequence(value string) (Char, error) {
	var sb strings.Builder
	for _, elem := range strings.Split(value, ",") {
		elem = strings.TrimSpace(elem)
		if elem == "" {
			continue
		}
		if isEnclosed(elem, '\'') {
			sb.WriteString(elem[1 : len(elem)-1])
			continue
		}
		lower := strings.ToLower(elem)
		if !strings.HasPrefix(lower, "u+") {
			return "", core.Error(core.EINVALID,
				"'%s' is not a character label element", elem)
		}
		v, err := strconv.ParseUint(lower[2:], 16, 32)
		if err != nil {
			return "", core.WrapError(err, core.EINVALID,
				"cannot convert '%s' to character label", value)
		}
		sb.WriteRune(rune(v))
	}
	return Char(sb.String()), nil
}
