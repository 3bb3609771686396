package unifont

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/bitfont/core/label"
	"github.com/npillmayer/bitfont/font"
	"github.com/npillmayer/bitfont/storage"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `# a comment
0041:0000000018242442427E424242420000
00C5:1818000018242442427E424242420000
`

func TestLoadHexFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.fonts")
	defer teardown()
	fonts, err := load(storage.FromBytes([]byte(sample), "test.hex"), nil)
	require.NoError(t, err)
	require.Len(t, fonts, 1)
	f := fonts[0]
	assert.Equal(t, 2, f.NumGlyphs())
	assert.Equal(t, "unicode", f.Encoding())

	g, ok := f.GlyphByLabel(label.Char("A"))
	require.True(t, ok)
	assert.Equal(t, 8, g.Raster().Width())
	assert.Equal(t, 16, g.Raster().Height())
	assert.False(t, g.Raster().IsBlank())
}

func TestLoadRejectsForeignContent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.fonts")
	defer teardown()
	_, err := load(storage.FromBytes([]byte("STARTFONT 2.1\n"), "x.bdf"), nil)
	require.Error(t, err)
}

func TestSaveRoundtrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.fonts")
	defer teardown()
	fonts, err := load(storage.FromBytes([]byte(sample), "test.hex"), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	w, err := storage.NewWriter(&buf, "out.hex")
	require.NoError(t, err)
	require.NoError(t, save(font.NewPack(fonts...), w, nil))
	assert.True(t, strings.Contains(buf.String(), "0041:0000000018242442427E424242420000"))

	back, err := load(storage.FromBytes(buf.Bytes(), "out.hex"), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, back[0].NumGlyphs())
}

func TestEndToEndLoad(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.fonts")
	defer teardown()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "font.hex"), []byte(sample), 0644))
	pack, err := storage.Load(filepath.Join(root, "font.hex"), "", "", nil)
	require.NoError(t, err)
	require.Equal(t, 1, pack.Len())
	assert.Equal(t, "unifont", pack.Font(0).Property("source-format"))
}

func TestEndToEndLoadCompressed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.fonts")
	defer teardown()
	root := t.TempDir()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(sample))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(filepath.Join(root, "font.hex.gz"), buf.Bytes(), 0644))

	pack, err := storage.Load(filepath.Join(root, "font.hex.gz"), "", "", nil)
	require.NoError(t, err)
	require.Equal(t, 1, pack.Len())
	assert.Equal(t, 2, pack.Font(0).NumGlyphs(),
		"the gzip layer is peeled before codec dispatch")
}

func TestEndToEndSave(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.fonts")
	defer teardown()
	fonts, err := load(storage.FromBytes([]byte(sample), "test.hex"), nil)
	require.NoError(t, err)
	root := t.TempDir()
	target := filepath.Join(root, "saved.hex")
	require.NoError(t, storage.Save(font.NewPack(fonts...), target, "", "", nil))
	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(content), "0041:")
}
