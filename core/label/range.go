package label

import (
	"strings"

	"github.com/npillmayer/bitfont/core"
)

// Seq is a lazy sequence of labels. Open-ended ranges never materialise;
// they yield labels one by one for as long as the caller keeps asking.
type Seq interface {
	Next() (Label, bool)
}

type funcSeq struct {
	next func() (Label, bool)
}

func (s *funcSeq) Next() (Label, bool) {
	return s.next()
}

// ParseSeq converts a comma-separated list of labels and label ranges to a
// lazy label sequence. Ranges are written `a-b` (inclusive) or `a-`
// (open-ended, codepoint bounds only). Both bounds of a range must be of
// the same variant.
func ParseSeq(spec string) (Seq, error) {
	var chunks []Seq
	for _, elem := range strings.Split(spec, ",") {
		elem = strings.TrimSpace(elem)
		if elem == "" {
			continue
		}
		lower, rest, isRange := strings.Cut(elem, "-")
		var chunk Seq
		var err error
		switch {
		case !isRange:
			chunk = singleton(Parse(lower))
		case rest == "":
			chunk, err = openRange(Parse(lower))
		default:
			chunk, err = boundedRange(Parse(lower), Parse(rest))
		}
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
	return chain(chunks), nil
}

// Collect materialises up to limit labels from a sequence. A negative
// limit drains the sequence; do not do that on an open-ended range.
func Collect(s Seq, limit int) []Label {
	var labels []Label
	for limit < 0 || len(labels) < limit {
		l, ok := s.Next()
		if !ok {
			break
		}
		labels = append(labels, l)
	}
	return labels
}

func singleton(l Label) Seq {
	done := false
	return &funcSeq{next: func() (Label, bool) {
		if done {
			return nil, false
		}
		done = true
		return l, true
	}}
}

func chain(chunks []Seq) Seq {
	i := 0
	return &funcSeq{next: func() (Label, bool) {
		for i < len(chunks) {
			if l, ok := chunks[i].Next(); ok {
				return l, true
			}
			i++
		}
		return nil, false
	}}
}

// openRange yields successive codepoints starting at the lower bound,
// without an upper limit.
func openRange(lower Label) (Seq, error) {
	cp, ok := lower.(Codepoint)
	if !ok {
		return nil, core.Error(core.EINVALID,
			"open-ended ranges need a codepoint lower bound, have %v", lower)
	}
	v, err := cp.Int()
	if err != nil {
		return nil, err
	}
	return &funcSeq{next: func() (Label, bool) {
		l := CodepointFromInt(v)
		v++
		return l, true
	}}, nil
}

// boundedRange yields the labels between two bounds, inclusive. Codepoint
// bounds iterate integers, character bounds iterate Unicode code points.
func boundedRange(lower, upper Label) (Seq, error) {
	switch lo := lower.(type) {
	case Codepoint:
		hi, ok := upper.(Codepoint)
		if !ok {
			return nil, core.Error(core.EINVALID, "range bounds must be of same variant")
		}
		lov, err := lo.Int()
		if err != nil {
			return nil, err
		}
		hiv, err := hi.Int()
		if err != nil {
			return nil, err
		}
		v := lov
		return &funcSeq{next: func() (Label, bool) {
			if v > hiv {
				return nil, false
			}
			l := CodepointFromInt(v)
			v++
			return l, true
		}}, nil
	case Char:
		hi, ok := upper.(Char)
		if !ok {
			return nil, core.Error(core.EINVALID, "range bounds must be of same variant")
		}
		lov, err := singleRune(lo)
		if err != nil {
			return nil, err
		}
		hiv, err := singleRune(hi)
		if err != nil {
			return nil, err
		}
		v := lov
		return &funcSeq{next: func() (Label, bool) {
			if v > hiv {
				return nil, false
			}
			l := Char(string(v))
			v++
			return l, true
		}}, nil
	}
	return nil, core.Error(core.EINVALID,
		"range bounds must be characters or codepoints, have %v", lower)
}

func singleRune(c Char) (rune, error) {
	runes := []rune(string(c))
	if len(runes) != 1 {
		return 0, core.Error(core.EINVALID,
			"character range bounds must be single code points, have %v", c)
	}
	return runes[0], nil
}
