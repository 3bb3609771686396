package encoding

import (
	"strings"

	"github.com/npillmayer/bitfont/core"
	"github.com/npillmayer/bitfont/core/label"
)

// Encoder converts between characters and codepoints for single glyphs.
// Encoders act on single-glyph codes only, which may be single- or
// multi-codepoint; they need not encode between full strings and bytes.
//
// When called with multiple labels, the first label of the matching
// variant wins; if no label matches, the result is empty.
type Encoder interface {
	Name() string
	Char(labels ...label.Label) label.Char
	Codepoint(labels ...label.Label) label.Codepoint
}

// NormaliseName replaces an encoding name with its normalised variant for
// display: lowercased, with underscores and spaces turned into dashes.
func NormaliseName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "_", "-")
	return strings.ReplaceAll(name, " ", "-")
}

// Range is an inclusive range of codepoint values.
type Range struct {
	Lo, Hi uint64
}

// Contains tells whether a value lies in the range.
func (r Range) Contains(v uint64) bool {
	return v >= r.Lo && v <= r.Hi
}

// RangeSet is a set of codepoint values, represented as ranges.
type RangeSet []Range

// Contains tells whether a value lies in any of the set's ranges.
func (rs RangeSet) Contains(v uint64) bool {
	for _, r := range rs {
		if r.Contains(v) {
			return true
		}
	}
	return false
}

// FullRange covers all codepoint values.
var FullRange = RangeSet{{Lo: 0, Hi: ^uint64(0)}}

// ParseRanges converts a comma-separated list of hex values and inclusive
// hex ranges, e.g. "0x00-0x1f,0x7f", to a range set.
func ParseRanges(spec string) (RangeSet, error) {
	var rs RangeSet
	for _, elem := range strings.Split(spec, ",") {
		elem = strings.TrimSpace(elem)
		if elem == "" {
			continue
		}
		lower, upper, isRange := strings.Cut(elem, "-")
		lo, err := parseValue(lower)
		if err != nil {
			return nil, err
		}
		hi := lo
		if isRange {
			if hi, err = parseValue(upper); err != nil {
				return nil, err
			}
		}
		rs = append(rs, Range{Lo: lo, Hi: hi})
	}
	return rs, nil
}

func parseValue(s string) (uint64, error) {
	cp, ok := label.Parse(strings.TrimSpace(s)).(label.Codepoint)
	if !ok {
		return 0, core.Error(core.EINVALID, "'%s' is not a codepoint value", s)
	}
	return cp.Int()
}
