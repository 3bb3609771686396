package storage

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipped(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestLocationPlainFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.storage")
	defer teardown()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "font.bin"), []byte("data"), 0644))
	s, err := Open(filepath.Join(root, "font.bin"), ReadMode, "")
	require.NoError(t, err)
	defer s.Close()
	content, err := io.ReadAll(s)
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))
}

func TestLocationMissingFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.storage")
	defer teardown()
	_, err := Open(filepath.Join(t.TempDir(), "nope.fnt"), ReadMode, "")
	assert.Error(t, err)
}

func TestLocationIntoArchive(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.storage")
	defer teardown()
	// a zip containing dir/file.gz, whose decoded stream is named `file`
	payload := []byte("the payload")
	data := buildZip(t, map[string][]byte{
		"dir/file.gz": gzipped(t, payload),
	}, []string{"dir/file.gz"})
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "archive.zip"), data, 0644))

	s, err := Open(filepath.Join(root, "archive.zip", "dir", "file.gz"), ReadMode, "")
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, "file", s.Name(), "the wrapper suffix is stripped off the name")
	content, err := io.ReadAll(s)
	require.NoError(t, err)
	assert.Equal(t, payload, content)
}

func TestLocationSubpathIntoNonContainer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.storage")
	defer teardown()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "plain.bin"), []byte("xx"), 0644))
	_, err := Open(filepath.Join(root, "plain.bin", "inner"), ReadMode, "")
	assert.Error(t, err, "remaining subpath on a non-container must fail")
}

func TestWrapperComposition(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.storage")
	defer teardown()
	payload := []byte("wrapped payload")

	// base64 over gzip
	b64OverGz := []byte(base64.StdEncoding.EncodeToString(gzipped(t, payload)))
	s, err := unwrapAll(FromBytes(b64OverGz, "font.bin.gz.b64"), "")
	require.NoError(t, err)
	content, err := io.ReadAll(s)
	require.NoError(t, err)
	assert.Equal(t, payload, content)
	assert.Equal(t, "font.bin", s.Name())

	// gzip over base64
	gzOverB64 := gzipped(t, []byte(base64.StdEncoding.EncodeToString(payload)))
	s, err = unwrapAll(FromBytes(gzOverB64, "font.bin.b64.gz"), "")
	require.NoError(t, err)
	content, err = io.ReadAll(s)
	require.NoError(t, err)
	assert.Equal(t, payload, content, "wrappers compose in either order")
}

func TestLocationWriteThroughArchive(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.storage")
	defer teardown()
	root := t.TempDir()
	target := filepath.Join(root, "out.zip", "font.bin")
	s, err := Open(target, WriteMode, "")
	require.NoError(t, err)
	_, err = s.Write([]byte("glyphs"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	data, err := os.ReadFile(filepath.Join(root, "out.zip"))
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	assert.Equal(t, "out/font.bin", zr.File[0].Name)
	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "glyphs", string(content))
}

func TestLocationWriteWithWrapper(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.storage")
	defer teardown()
	root := t.TempDir()
	target := filepath.Join(root, "font.bin.gz")
	s, err := Open(target, WriteMode, "")
	require.NoError(t, err)
	assert.Equal(t, "font.bin", s.Name())
	_, err = s.Write([]byte("payload"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	f, err := os.Open(target)
	require.NoError(t, err)
	defer f.Close()
	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	content, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(content))
}

func TestLocationFormatHints(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.storage")
	defer teardown()
	// gzip data without a telltale name; an explicit hint unwraps it
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "opaque"),
		gzipped(t, []byte("hinted")), 0644))
	s, err := Open(filepath.Join(root, "opaque"), ReadMode, "gzip")
	require.NoError(t, err)
	content, err := io.ReadAll(s)
	require.NoError(t, err)
	assert.Equal(t, "hinted", string(content))
}
