package encoding

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/npillmayer/bitfont/core/label"
	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/runenames"
)

// Pair is one entry of a charmap: a codepoint and the character it maps to.
type Pair struct {
	Code label.Codepoint
	Char label.Char
}

// mapping is an insertion-ordered codepoint → character table.
type mapping struct {
	fwd  map[label.Codepoint]label.Char
	keys []label.Codepoint
}

func newMapping() *mapping {
	return &mapping{fwd: make(map[label.Codepoint]label.Char)}
}

// set inserts or overwrites a pair. Overwriting keeps the original
// insertion position.
func (mp *mapping) set(cp label.Codepoint, ch label.Char) {
	if _, ok := mp.fwd[cp]; !ok {
		mp.keys = append(mp.keys, cp)
	}
	mp.fwd[cp] = ch
}

// reverse builds the character → codepoint table. Duplicate characters
// resolve to whichever codepoint was inserted last.
func (mp *mapping) reverse() map[label.Char]label.Codepoint {
	rev := make(map[label.Char]label.Codepoint, len(mp.fwd))
	for _, cp := range mp.keys {
		rev[mp.fwd[cp]] = cp
	}
	return rev
}

// Charmap converts between characters and codepoints using a stored
// mapping. The mapping may be loaded lazily from a table file on first
// use; derived charmaps force the load.
type Charmap struct {
	name     string
	loadOnce sync.Once
	loader   func() (*mapping, error)
	tbl      *mapping
	loadErr  error
	revOnce  sync.Once
	rev      map[label.Char]label.Codepoint
}

// NewCharmap creates a charmap from codepoint/character pairs. Duplicate
// codepoints resolve to the last pair given.
func NewCharmap(name string, pairs []Pair) *Charmap {
	mp := newMapping()
	for _, p := range pairs {
		mp.set(p.Code, p.Char)
	}
	return &Charmap{name: NormaliseName(name), tbl: mp}
}

// newLazy creates a charmap whose mapping is built by loader on first use.
func newLazy(name string, loader func() (*mapping, error)) *Charmap {
	return &Charmap{name: NormaliseName(name), loader: loader}
}

// Name returns the normalised charmap name.
func (cm *Charmap) Name() string {
	return cm.name
}

// load forces the mapping to be built.
func (cm *Charmap) load() (*mapping, error) {
	cm.loadOnce.Do(func() {
		if cm.tbl != nil {
			return
		}
		if cm.loader == nil {
			cm.tbl = newMapping()
			return
		}
		cm.tbl, cm.loadErr = cm.loader()
		if cm.loadErr != nil {
			cm.tbl = newMapping()
		}
	})
	return cm.tbl, cm.loadErr
}

// Load forces the lazily built mapping and reports any table file error.
func (cm *Charmap) Load() error {
	_, err := cm.load()
	return err
}

// Char converts a codepoint label to a character. The first codepoint
// label decides: its mapped character, or empty if unmapped. Labels of
// other variants yield an empty result.
func (cm *Charmap) Char(labels ...label.Label) label.Char {
	tbl, err := cm.load()
	if err != nil {
		tracer().Errorf("charmap %s failed to load: %v", cm.name, err)
	}
	for _, l := range labels {
		if cp, ok := l.(label.Codepoint); ok {
			return tbl.fwd[cp]
		}
	}
	return ""
}

// Codepoint converts a character label to a codepoint. The first character
// label decides: its mapped codepoint, or empty if unmapped. Labels of
// other variants yield an empty result.
func (cm *Charmap) Codepoint(labels ...label.Label) label.Codepoint {
	tbl, err := cm.load()
	if err != nil {
		tracer().Errorf("charmap %s failed to load: %v", cm.name, err)
	}
	cm.revOnce.Do(func() {
		cm.rev = tbl.reverse()
	})
	for _, l := range labels {
		if ch, ok := l.(label.Char); ok {
			return cm.rev[ch]
		}
	}
	return ""
}

// Len is the number of defined codepoints.
func (cm *Charmap) Len() int {
	tbl, _ := cm.load()
	return len(tbl.fwd)
}

// Equal compares the mappings of two charmaps.
func (cm *Charmap) Equal(other *Charmap) bool {
	a, _ := cm.load()
	b, _ := other.load()
	if len(a.fwd) != len(b.fwd) {
		return false
	}
	for cp, ch := range a.fwd {
		if b.fwd[cp] != ch {
			return false
		}
	}
	return true
}

// Mapping returns a copy of the charmap's pairs, in insertion order.
func (cm *Charmap) Mapping() []Pair {
	tbl, _ := cm.load()
	pairs := make([]Pair, 0, len(tbl.keys))
	for _, cp := range tbl.keys {
		pairs = append(pairs, Pair{Code: cp, Char: tbl.fwd[cp]})
	}
	return pairs
}

// --- Charmap operations -----------------------------------------------------

// Sub returns a charmap with only the pairs of cm whose key maps
// differently, or not at all, in other.
func (cm *Charmap) Sub(other *Charmap) (*Charmap, error) {
	tbl, err := cm.load()
	if err != nil {
		return nil, err
	}
	if _, err := other.load(); err != nil {
		return nil, err
	}
	mp := newMapping()
	for _, cp := range tbl.keys {
		if other.Char(cp) != tbl.fwd[cp] {
			mp.set(cp, tbl.fwd[cp])
		}
	}
	name := fmt.Sprintf("[%s]-[%s]", cm.name, other.name)
	return &Charmap{name: NormaliseName(name), tbl: mp}, nil
}

// Union returns cm overlaid with all pairs defined in other; other shadows
// cm on conflicting keys.
func (cm *Charmap) Union(other *Charmap) (*Charmap, error) {
	a, err := cm.load()
	if err != nil {
		return nil, err
	}
	b, err := other.load()
	if err != nil {
		return nil, err
	}
	mp := newMapping()
	for _, cp := range a.keys {
		mp.set(cp, a.fwd[cp])
	}
	for _, cp := range b.keys {
		mp.set(cp, b.fwd[cp])
	}
	return &Charmap{name: cm.name, tbl: mp}, nil
}

// Subset returns the charmap restricted to keys whose integer value, or
// first byte for single-byte keys, lies in the given range set.
func (cm *Charmap) Subset(rs RangeSet) (*Charmap, error) {
	tbl, err := cm.load()
	if err != nil {
		return nil, err
	}
	mp := newMapping()
	for _, cp := range tbl.keys {
		if v, err := cp.Int(); err == nil && rs.Contains(v) {
			mp.set(cp, tbl.fwd[cp])
		}
	}
	name := fmt.Sprintf("subset[%s]", cm.name)
	return &Charmap{name: NormaliseName(name), tbl: mp}, nil
}

// Shift increments every key's integer value by delta, keeping the
// characters.
func (cm *Charmap) Shift(delta int64) (*Charmap, error) {
	tbl, err := cm.load()
	if err != nil {
		return nil, err
	}
	mp := newMapping()
	for _, cp := range tbl.keys {
		mp.set(cp.Add(int(delta)), tbl.fwd[cp])
	}
	name := fmt.Sprintf("shift-%x[%s]", delta, cm.name)
	return &Charmap{name: NormaliseName(name), tbl: mp}, nil
}

// OverlayRange returns cm overlaid with the pairs of other whose keys lie
// in the given range set.
func (cm *Charmap) OverlayRange(other *Charmap, rs RangeSet) (*Charmap, error) {
	sub, err := other.Subset(rs)
	if err != nil {
		return nil, err
	}
	return cm.Union(sub)
}

// Distance counts the code points on which two charmaps disagree: keys
// only in one of the two, plus keys mapping to different characters.
func (cm *Charmap) Distance(other *Charmap) int {
	a, _ := cm.load()
	b, _ := other.load()
	dist := 0
	for cp, ch := range a.fwd {
		if bch, ok := b.fwd[cp]; !ok || bch != ch {
			dist++
		}
	}
	for cp := range b.fwd {
		if _, ok := a.fwd[cp]; !ok {
			dist++
		}
	}
	return dist
}

// --- Representations --------------------------------------------------------

// Chart renders one 256-codepoint page of the charmap as a 16x16 table.
func (cm *Charmap) Chart(page int) string {
	const bg = '░'
	var sb strings.Builder
	sb.WriteString("    ")
	for c := 0; c < 16; c++ {
		fmt.Fprintf(&sb, "_%x ", c)
	}
	sb.WriteString("\n  +")
	sb.WriteString(strings.Repeat("-", 49))
	sb.WriteByte('\n')
	for row := 0; row < 16; row++ {
		fmt.Fprintf(&sb, "%x_|%c", row, bg)
		for col := 0; col < 16; col++ {
			code := 16*row + col
			var cp label.Codepoint
			if page > 0 {
				cp = label.NewCodepoint([]byte{byte(page), byte(code)})
			} else {
				cp = label.NewCodepoint([]byte{byte(code)})
			}
			ch := cm.Char(cp)
			cell := chartCell(ch)
			sb.WriteString(cell)
			sb.WriteRune(bg)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// chartCell renders a single chart cell, two columns wide.
func chartCell(ch label.Char) string {
	if ch == "" {
		return "░░"
	}
	s := ch.Value()
	if !isPrintable(s) {
		s = "�"
	}
	if uniseg.StringWidth(s) >= 2 {
		return s
	}
	if unicode.In([]rune(s)[0], unicode.Mn) {
		// keep table format for nonspacing marks
		return " " + s
	}
	return s + " "
}

func isPrintable(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) || !unicode.IsGraphic(r) {
			return false
		}
	}
	return s != ""
}

// Table renders the full mapping, one pair per line, with the Unicode
// character names as comments.
func (cm *Charmap) Table() string {
	tbl, _ := cm.load()
	var sb strings.Builder
	for _, cp := range tbl.keys {
		ch := tbl.fwd[cp]
		names := make([]string, 0, 1)
		for _, r := range ch.Value() {
			names = append(names, runenames.Name(r))
		}
		fmt.Fprintf(&sb, "%s: %s  # %s\n", cp, ch, strings.Join(names, ", "))
	}
	return sb.String()
}

// String gives a short description of the charmap.
func (cm *Charmap) String() string {
	return fmt.Sprintf("Charmap(name='%s', <%d code points>)", cm.name, cm.Len())
}
