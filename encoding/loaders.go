package encoding

import (
	"embed"
	"encoding/hex"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/npillmayer/bitfont/core"
	"github.com/npillmayer/bitfont/core/binary"
	"github.com/npillmayer/bitfont/core/label"
)

//go:embed tables
var tablesFS embed.FS

// LoadOptions parameterise the charmap table file loaders.
type LoadOptions struct {
	Comment          string // comment line prefix
	Separator        string // column separator; empty means any whitespace
	Joiner           string // joiner of multi-element codepoints; empty means whitespace
	CodepointColumn  int
	UnicodeColumn    int
	CodepointBase    int
	UnicodeBase      int
	UnicodeIsChar    bool // the character itself is in the unicode column
	NoInlineComments bool
	IgnoreErrors     bool
	Table            int      // html: index of the target chset table
	Column           int      // html: target column if multiple points per cell
	Ranges           RangeSet // html: accept-range filter, nil accepts all
}

// NewLoadOptions returns loader options with the column-text defaults.
func NewLoadOptions() *LoadOptions {
	return &LoadOptions{
		Comment:         "#",
		Joiner:          "+",
		CodepointColumn: 0,
		UnicodeColumn:   1,
		CodepointBase:   16,
		UnicodeBase:     16,
	}
}

type loaderFunc func(data []byte, opts *LoadOptions) (*mapping, error)

type dialect struct {
	read     loaderFunc
	defaults func(*LoadOptions)
}

// table file dialects, keyed by format name (usually the file suffix)
var dialects = map[string]dialect{
	"txt": {read: fromTextColumns},
	"enc": {read: fromTextColumns},
	"map": {read: fromTextColumns},
	"ucp": {read: fromTextColumns, defaults: func(o *LoadOptions) {
		o.Separator = ":"
		o.Joiner = ","
	}},
	"adobe": {read: fromTextColumns, defaults: func(o *LoadOptions) {
		o.Separator = "\t"
		o.Joiner = ""
		o.CodepointColumn = 1
		o.UnicodeColumn = 0
	}},
	"ucm":  {read: fromUCM},
	"html": {read: fromWikipedia},
}

// LoadCharmap lazily creates a charmap from a table file. Filenames
// starting with "/" or "." name files on disk; anything else refers to the
// table files packaged with the module. An empty format is inferred from
// the file suffix.
func LoadCharmap(filename, name, format string, opts *LoadOptions) *Charmap {
	if name == "" {
		base := path.Base(filename)
		name = strings.TrimSuffix(base, path.Ext(base))
	}
	return newLazy(name, func() (*mapping, error) {
		return loadTableFile(filename, format, opts)
	})
}

func loadTableFile(filename, format string, opts *LoadOptions) (*mapping, error) {
	var data []byte
	var err error
	if strings.HasPrefix(filename, "/") || strings.HasPrefix(filename, ".") {
		data, err = os.ReadFile(filename)
	} else {
		data, err = tablesFS.ReadFile(path.Join("tables", filename))
	}
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING,
			"could not load charmap file '%s'", filename)
	}
	if len(data) == 0 {
		return nil, core.Error(core.EMISSING,
			"no data in charmap file '%s'", filename)
	}
	if format == "" {
		format = strings.TrimPrefix(path.Ext(filename), ".")
	}
	d, ok := dialects[strings.ToLower(format)]
	if !ok {
		return nil, core.Error(core.EMISSING,
			"undefined charmap file format '%s'", format)
	}
	merged := NewLoadOptions()
	if d.defaults != nil {
		d.defaults(merged)
	}
	if opts != nil {
		*merged = mergeOptions(*merged, *opts)
	}
	return d.read(data, merged)
}

// mergeOptions lets explicitly set caller fields win over dialect defaults.
func mergeOptions(def, set LoadOptions) LoadOptions {
	out := def
	if set.Comment != "" {
		out.Comment = set.Comment
	}
	if set.Separator != "" {
		out.Separator = set.Separator
	}
	if set.Joiner != "" {
		out.Joiner = set.Joiner
	}
	if set.CodepointColumn != 0 {
		out.CodepointColumn = set.CodepointColumn
	}
	if set.UnicodeColumn != 0 {
		out.UnicodeColumn = set.UnicodeColumn
	}
	if set.CodepointBase != 0 {
		out.CodepointBase = set.CodepointBase
	}
	if set.UnicodeBase != 0 {
		out.UnicodeBase = set.UnicodeBase
	}
	out.UnicodeIsChar = out.UnicodeIsChar || set.UnicodeIsChar
	out.NoInlineComments = out.NoInlineComments || set.NoInlineComments
	out.IgnoreErrors = out.IgnoreErrors || set.IgnoreErrors
	if set.Table != 0 {
		out.Table = set.Table
	}
	if set.Column != 0 {
		out.Column = set.Column
	}
	if set.Ranges != nil {
		out.Ranges = set.Ranges
	}
	return out
}

func splitColumns(line, separator string) []string {
	if separator == "" {
		return strings.Fields(line)
	}
	return strings.Split(line, separator)
}

func splitJoined(s, joiner string) []string {
	if joiner == "" {
		return strings.Fields(s)
	}
	return strings.Split(s, joiner)
}

func parseBaseInt(s string, base int) (uint64, error) {
	s = strings.TrimSpace(s)
	if base == 16 {
		s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	}
	return strconv.ParseUint(s, base, 64)
}

// fromTextColumns extracts a character mapping from text columns in table
// file data.
func fromTextColumns(data []byte, opts *LoadOptions) (*mapping, error) {
	mp := newMapping()
	for _, line := range strings.Split(decodeUTF8Sig(data), "\n") {
		line = strings.TrimRight(line, "\r")
		// ignore empty lines and comment lines
		if line == "" || strings.HasPrefix(line, opts.Comment) {
			continue
		}
		// xfonts .enc files - STARTENCODING, STARTMAPPING etc.
		if strings.HasPrefix(line, "START") || strings.HasPrefix(line, "END") {
			continue
		}
		if !opts.NoInlineComments {
			line = strings.SplitN(line, opts.Comment, 2)[0]
		}
		cols := splitColumns(line, opts.Separator)
		if len(cols) <= max(opts.CodepointColumn, opts.UnicodeColumn) {
			continue
		}
		cpStr := strings.TrimSpace(cols[opts.CodepointColumn])
		uniStr := strings.TrimSpace(cols[opts.UnicodeColumn])
		// directional markers in mac codepages, reverse-video marker in
		// kreativekorp codepages
		uniStr = strings.ReplaceAll(uniStr, "<RL>+", "")
		uniStr = strings.ReplaceAll(uniStr, "<LR>+", "")
		uniStr = strings.ReplaceAll(uniStr, "<RV>+", "")
		// czyborra's codepages have U+ in front, ibm-ugl has U
		if strings.HasPrefix(strings.ToUpper(uniStr), "U+") {
			uniStr = uniStr[2:]
		}
		if strings.HasPrefix(strings.ToUpper(uniStr), "U") {
			uniStr = uniStr[1:]
		}
		// czyborra's codepages have = in front of the codepoint
		cpStr = strings.TrimPrefix(cpStr, "=")
		cp, ch, err := parseTableRow(cpStr, uniStr, opts)
		if err != nil {
			if !opts.IgnoreErrors {
				tracer().Infof("could not parse line in text charmap file: %v [%s]",
					err, line)
			}
			continue
		}
		if ch == "�" {
			// u+FFFD replacement character marks undefined code points
			continue
		}
		mp.set(cp, ch)
	}
	return mp, nil
}

func parseTableRow(cpStr, uniStr string, opts *LoadOptions) (label.Codepoint, label.Char, error) {
	// multibyte code points may be given as an element sequence or as a
	// single large number
	var buf []byte
	for _, elem := range splitJoined(cpStr, opts.Joiner) {
		v, err := parseBaseInt(elem, opts.CodepointBase)
		if err != nil {
			return "", "", err
		}
		buf = append(buf, binary.IntToBytes(v, binary.BigEndian)...)
	}
	var ch string
	if opts.UnicodeIsChar {
		ch = uniStr
	} else {
		var sb strings.Builder
		for _, elem := range splitJoined(uniStr, opts.Joiner) {
			v, err := parseBaseInt(elem, opts.UnicodeBase)
			if err != nil {
				return "", "", err
			}
			sb.WriteRune(rune(v))
		}
		ch = sb.String()
	}
	return label.NewCodepoint(buf), label.Char(ch), nil
}

// fromUCM extracts a character mapping from icu ucm / linux charmap file
// data. Only single-byte and small multi-byte sections are handled.
func fromUCM(data []byte, opts *LoadOptions) (*mapping, error) {
	comment := "#"
	escape := `\`
	mp := newMapping()
	parse := false
	for _, line := range strings.Split(decodeUTF8Sig(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || strings.HasPrefix(line, comment) {
			continue
		}
		switch {
		case strings.HasPrefix(line, "<comment_char>"):
			fields := strings.Fields(line)
			comment = strings.TrimSpace(fields[len(fields)-1])
			continue
		case strings.HasPrefix(line, "<escape_char>"):
			fields := strings.Fields(line)
			escape = strings.TrimSpace(fields[len(fields)-1])
			continue
		case strings.HasPrefix(line, "END CHARMAP"):
			parse = false
			continue
		case strings.HasPrefix(line, "CHARMAP"):
			parse = true
			continue
		}
		if !parse {
			continue
		}
		var uniStr string
		var cpBytes []byte
		accept := true
		for _, item := range strings.Fields(line) {
			switch {
			case strings.HasPrefix(item, "<U"):
				// e.g. <U0000> or <U2913C>
				uniStr = strings.TrimSuffix(item[2:], ">")
			case strings.HasPrefix(item, escape+"x"):
				cpStr := strings.ReplaceAll(item, escape+"x", "")
				b, err := hex.DecodeString(cpStr)
				if err != nil {
					continue
				}
				cpBytes = b
			case strings.HasPrefix(item, "|"):
				// precision indicator; only accept normal roundtrip
				// mappings, |0
				if strings.TrimSpace(item[1:]) != "0" {
					accept = false
				}
			}
			if !accept {
				break
			}
		}
		if !accept {
			continue
		}
		if uniStr == "" || len(cpBytes) == 0 {
			tracer().Infof("could not parse line in ucm charmap file: %s", line)
			continue
		}
		v, err := strconv.ParseUint(uniStr, 16, 32)
		if err != nil {
			tracer().Infof("could not parse line in ucm charmap file: %s", line)
			continue
		}
		cp := label.NewCodepoint(cpBytes)
		if _, ok := mp.fwd[cp]; ok {
			tracer().Debugf("ignoring redefinition of code point %v", cp)
			continue
		}
		mp.set(cp, label.Char(string(rune(v))))
	}
	return mp, nil
}

// decodeUTF8Sig strips a UTF-8 byte order mark, if present.
func decodeUTF8Sig(data []byte) string {
	s := string(data)
	return strings.TrimPrefix(s, "\ufeff")
}
