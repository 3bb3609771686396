package encoding

import (
	"testing"

	"github.com/npillmayer/bitfont/core"
	"github.com/npillmayer/bitfont/core/label"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameNormalisation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.encoding")
	defer teardown()
	r := NewRegistry()
	assert.True(t, r.Match("CP437", "cp-437"))
	assert.True(t, r.Match("microsoft-cp1252", "windows-1252"),
		"prefix rewrites apply longest-first")
	assert.True(t, r.Match("MSDOS-CP437", "oem-437"))
	assert.True(t, r.Match("x-mac-roman", "mac-roman"))
	assert.True(t, r.Match("apple-roman", "mac-roman"))
	assert.False(t, r.Match("cp437", "cp850"))
}

func TestRegistryAliasGetIdentity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.encoding")
	defer teardown()
	r := NewRegistry()
	r.AddCharmap(NewCharmap("test-map", pairsFor(0x41)))
	require.NoError(t, r.Alias("my-alias", "test-map"))
	a, err := r.Get("my-alias")
	require.NoError(t, err)
	b, err := r.Get("test-map")
	require.NoError(t, err)
	assert.Same(t, a, b, "alias and canonical name must resolve to the same encoder")
}

func TestRegistryAliasCollision(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.encoding")
	defer teardown()
	r := NewRegistry()
	r.AddCharmap(NewCharmap("one", pairsFor(0x41)))
	r.AddCharmap(NewCharmap("two", pairsFor(0x42)))
	err := r.Alias("one", "two")
	assert.Error(t, err, "alias may not shadow a registered canonical name")
	assert.NoError(t, r.Alias("uno", "one"))
}

func TestRegistryNotFound(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.encoding")
	defer teardown()
	_, err := GlobalRegistry().Get("there-is-no-such-encoding")
	require.Error(t, err)
	assert.Equal(t, core.EMISSING, core.Code(err))
}

func TestGlobalRegistryBuiltins(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.encoding")
	defer teardown()
	r := GlobalRegistry()
	for _, name := range []string{"cp437", "IBM437", "oem-437", "latin-1", "us-ascii", "unicode"} {
		_, err := r.Get(name)
		assert.NoError(t, err, "builtin encoding %s must resolve", name)
	}
	assert.True(t, r.IsUnicode("ucs"))
	assert.False(t, r.IsUnicode("cp437"))
}

func TestGlobalRegistryCP437(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.encoding")
	defer teardown()
	cm, err := GlobalRegistry().GetCharmap("cp437")
	require.NoError(t, err)
	assert.Equal(t, label.Char("α"), cm.Char(label.Codepoint("\xe0")))
	assert.Equal(t, label.Codepoint("\xe0"), cm.Codepoint(label.Char("α")))
	// the control-range overlay shadows the base map
	assert.Equal(t, label.Char("☺"), cm.Char(label.Codepoint("\x01")))
	assert.Equal(t, label.Char("⌂"), cm.Char(label.Codepoint("\x7f")))
}

func TestRegistryOverlayOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.encoding")
	defer teardown()
	r := NewRegistry()
	r.Register([]string{"base"}, "latin-1.txt", "txt", nil)
	require.NoError(t, r.Overlay("base", "cp437-control.txt",
		RangeSet{{Lo: 0x00, Hi: 0x1f}}, "txt", nil))
	cm, err := r.GetCharmap("base")
	require.NoError(t, err)
	assert.Equal(t, label.Char("☺"), cm.Char(label.Codepoint("\x01")))
	assert.Equal(t, label.Char("A"), cm.Char(label.Codepoint("\x41")))
}

func TestRegistryFit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.encoding")
	defer teardown()
	r := GlobalRegistry()
	cp437, err := r.GetCharmap("cp437")
	require.NoError(t, err)
	fit, err := r.Fit(cp437)
	require.NoError(t, err)
	assert.True(t, fit.Equal(cp437), "exact match short-circuits")

	// a slightly damaged copy still fits best
	damaged, err := cp437.Sub(NewCharmap("hole", pairsFor(0x41)))
	require.NoError(t, err)
	fit, err = r.Fit(damaged)
	require.NoError(t, err)
	assert.True(t, fit.Equal(cp437))
}

func TestUnicodeEncoder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.encoding")
	defer teardown()
	var u Unicode
	assert.Equal(t, label.Codepoint("\x00\x00\x00\x41"), u.Codepoint(label.Char("A")))
	assert.Equal(t, label.Char("A"), u.Char(label.Codepoint("\x00\x00\x00\x41")))
	assert.Equal(t, label.Char("A"), u.Char(label.Codepoint("\x41")),
		"short codepoints are padded at the front")
	assert.Equal(t, label.Codepoint("\x00\x00\x00\x41\x00\x00\x03\x08"),
		u.Codepoint(label.Char("Ä")))
	assert.Equal(t, label.Char(""), u.Char(label.Codepoint("\x00\x11\x00\x00")),
		"invalid scalars yield an empty character")
}

func TestIndexer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.encoding")
	defer teardown()
	ix, err := NewIndexer("0x20-")
	require.NoError(t, err)
	assert.Equal(t, label.Codepoint("\x20"), ix.Codepoint())
	assert.Equal(t, label.Codepoint("\x21"), ix.Codepoint(label.Tag("ignored")))
	assert.Equal(t, label.Char(""), ix.Char(label.Codepoint("\x20")),
		"an indexer is write-only")

	bounded, err := NewIndexer("0x01-0x02")
	require.NoError(t, err)
	bounded.Codepoint()
	bounded.Codepoint()
	assert.Equal(t, label.Codepoint(""), bounded.Codepoint(), "exhausted range")
}
