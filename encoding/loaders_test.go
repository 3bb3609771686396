package encoding

import (
	"testing"

	"github.com/npillmayer/bitfont/core/label"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextColumnLoader(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.encoding")
	defer teardown()
	data := []byte(`# a comment line
STARTENCODING test
41	U+0041  # inline comment
=42	U+0042
5A	<RL>+U+005A
FF	U+FFFD
not a parseable line at all
ENDENCODING
`)
	mp, err := fromTextColumns(data, NewLoadOptions())
	require.NoError(t, err)
	cm := &Charmap{name: "test", tbl: mp}
	assert.Equal(t, 3, cm.Len())
	assert.Equal(t, label.Char("A"), cm.Char(label.Codepoint("\x41")))
	assert.Equal(t, label.Char("B"), cm.Char(label.Codepoint("\x42")),
		"leading = on the codepoint column is stripped")
	assert.Equal(t, label.Char("Z"), cm.Char(label.Codepoint("\x5a")),
		"directional markers are stripped")
	assert.Equal(t, label.Char(""), cm.Char(label.Codepoint("\xff")),
		"u+fffd marks undefined code points")
}

func TestTextColumnDialects(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.encoding")
	defer teardown()
	// ucp dialect: colon-separated, comma-joined sequences
	ucp := []byte("41:0041\nF5,02:0042\n")
	opts := NewLoadOptions()
	dialects["ucp"].defaults(opts)
	mp, err := fromTextColumns(ucp, opts)
	require.NoError(t, err)
	cm := &Charmap{name: "ucp", tbl: mp}
	assert.Equal(t, label.Char("A"), cm.Char(label.Codepoint("\x41")))
	assert.Equal(t, label.Char("B"), cm.Char(label.Codepoint("\xf5\x02")),
		"multibyte codepoint sequences are joined")

	// adobe dialect: unicode first, codepoint second
	adobe := []byte("0041\t41\n")
	opts = NewLoadOptions()
	dialects["adobe"].defaults(opts)
	mp, err = fromTextColumns(adobe, opts)
	require.NoError(t, err)
	cm = &Charmap{name: "adobe", tbl: mp}
	assert.Equal(t, label.Char("A"), cm.Char(label.Codepoint("\x41")))
}

func TestUCMLoader(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.encoding")
	defer teardown()
	data := []byte(`<code_set_name> "test"
<comment_char> %
% a comment with the redefined comment char
CHARMAP
<U0041> \x41 |0
<U0042> \x42 |1
<U0043> \x43 |0
<U0044> \x43 |0
END CHARMAP
<U0045> \x45 |0
`)
	mp, err := fromUCM(data, NewLoadOptions())
	require.NoError(t, err)
	cm := &Charmap{name: "ucm", tbl: mp}
	assert.Equal(t, 2, cm.Len())
	assert.Equal(t, label.Char("A"), cm.Char(label.Codepoint("\x41")))
	assert.Equal(t, label.Char(""), cm.Char(label.Codepoint("\x42")),
		"only roundtrip |0 mappings are accepted")
	assert.Equal(t, label.Char("C"), cm.Char(label.Codepoint("\x43")),
		"redefinitions are ignored")
	assert.Equal(t, label.Char(""), cm.Char(label.Codepoint("\x45")),
		"rows outside the CHARMAP section are ignored")
}

func TestUCMBuiltinASCII(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.encoding")
	defer teardown()
	cm, err := GlobalRegistry().GetCharmap("us-ascii")
	require.NoError(t, err)
	assert.Equal(t, 128, cm.Len())
	assert.Equal(t, label.Char("A"), cm.Char(label.Codepoint("\x41")))
}

func TestHTMLLoader(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.encoding")
	defer teardown()
	cm := LoadCharmap("./testdata/chset.html", "wiki", "html", nil)
	require.NoError(t, cm.Load())
	assert.Equal(t, 4, cm.Len())
	assert.Equal(t, label.Char("A"), cm.Char(label.Codepoint("\x40")),
		"row header gives the high nibble")
	assert.Equal(t, label.Char("B"), cm.Char(label.Codepoint("\x41")))
	assert.Equal(t, label.Char("P"), cm.Char(label.Codepoint("\x50")),
		"u+ prefixes are accepted")
	assert.Equal(t, label.Char("Q"), cm.Char(label.Codepoint("\x51")))
}

func TestHTMLLoaderRangeFilter(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.encoding")
	defer teardown()
	opts := &LoadOptions{Ranges: RangeSet{{Lo: 0x50, Hi: 0x5f}}}
	cm := LoadCharmap("./testdata/chset.html", "wiki", "html", opts)
	require.NoError(t, cm.Load())
	assert.Equal(t, 2, cm.Len())
	assert.Equal(t, label.Char(""), cm.Char(label.Codepoint("\x40")))
}

func TestLoaderErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.encoding")
	defer teardown()
	cm := LoadCharmap("no-such-file.txt", "", "", nil)
	assert.Error(t, cm.Load())
	cm = LoadCharmap("cp437.txt", "", "weird", nil)
	assert.Error(t, cm.Load())
	// a failed load behaves like an empty charmap
	assert.Equal(t, 0, cm.Len())
}
