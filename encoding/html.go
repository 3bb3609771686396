package encoding

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/npillmayer/bitfont/core"
	"github.com/npillmayer/bitfont/core/label"
	"golang.org/x/net/html"
)

// selects matrix tables with class="chset", as used by Wikipedia code
// page articles
var chsetSelector = mustSelector(`table[class*="chset"]`)
var smallSelector = mustSelector("small")

func mustSelector(s string) cascadia.Selector {
	sel, err := cascadia.Compile(s)
	if err != nil {
		panic("invalid built-in selector: " + s)
	}
	return sel
}

// fromWikipedia scrapes a charmap from a table in a Wikipedia code page
// article. Row headers of the form "X_" give the high nibble of the row's
// codepoints; cells carry their Unicode scalar in <small> tags.
func fromWikipedia(data []byte, opts *LoadOptions) (*mapping, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, core.WrapError(err, core.EFORMAT, "cannot parse charmap html")
	}
	tables := chsetSelector.MatchAll(doc)
	if opts.Table >= len(tables) {
		return nil, core.Error(core.EMISSING,
			"charmap html holds %d chset tables, need #%d", len(tables), opts.Table)
	}
	scraper := &wikiScraper{opts: opts, mp: newMapping()}
	scraper.walk(tables[opts.Table])
	return scraper.mp, nil
}

type wikiScraper struct {
	opts    *LoadOptions
	mp      *mapping
	current uint64
}

// walk visits the cells of a chset table in document order. Each data cell
// advances the current codepoint by one; row headers reset it.
func (ws *wikiScraper) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "th":
			ws.rowHeader(nodeText(n))
			return
		case "td":
			ws.cell(n)
			ws.current++
			return
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		ws.walk(child)
	}
}

// rowHeader interprets headers of the form "4_" as the first code point of
// the row.
func (ws *wikiScraper) rowHeader(text string) {
	text = strings.TrimSpace(text)
	if len(text) != 2 || text[1] != '_' {
		return
	}
	hi, err := strconv.ParseUint(text[:1], 16, 8)
	if err != nil {
		return
	}
	ws.current = hi * 16
}

// cell reads the unicode point from the <small> tags of a table cell.
func (ws *wikiScraper) cell(td *html.Node) {
	for _, small := range smallSelector.MatchAll(td) {
		data := strings.TrimSpace(nodeText(small))
		cols := strings.Fields(data)
		if len(cols) > ws.opts.Column {
			data = cols[ws.opts.Column]
		}
		if len(data) < 4 {
			continue
		}
		lower := strings.ToLower(data)
		if strings.HasPrefix(lower, "u+") {
			data = data[2:]
		}
		if ws.opts.Ranges != nil && !ws.opts.Ranges.Contains(ws.current) {
			continue
		}
		v, err := strconv.ParseUint(data, 16, 32)
		if err != nil {
			// not a unicode point
			continue
		}
		ws.mp.set(label.NewCodepoint([]byte{byte(ws.current)}), label.Char(string(rune(v))))
	}
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			collect(child)
		}
	}
	collect(n)
	return sb.String()
}
