package storage

import (
	"io"
	"testing"

	"github.com/npillmayer/bitfont/core"
	"github.com/npillmayer/bitfont/core/raster"
	"github.com/npillmayer/bitfont/font"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oneGlyphFont() []*font.Font {
	r := raster.Blank(8, 8)
	return []*font.Font{font.NewFont([]*font.Glyph{font.NewGlyph(r)}, nil)}
}

func TestLoadDispatchFallthrough(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.storage")
	defer teardown()
	var declinedCalls int
	declining := &Codec{
		Name:     "ft-declining",
		Magic:    []SigMatcher{NewMagic([]byte("FTST"))},
		Patterns: []NamePattern{Glob("*.ftst")},
		Load: func(s *Stream, opts Options) ([]*font.Font, error) {
			declinedCalls++
			return nil, core.Error(core.EFORMATNOMATCH, "not mine after all")
		},
	}
	accepting := &Codec{
		Name:     "ft-accepting",
		Patterns: []NamePattern{Glob("*.ftst")},
		Load: func(s *Stream, opts Options) ([]*font.Font, error) {
			// the declining codec must have left the stream rewound
			head, err := s.Peek(4)
			require.NoError(t, err)
			assert.Equal(t, "FTST", string(head))
			return oneGlyphFont(), nil
		},
	}
	require.NoError(t, Loaders.Register(declining, nil))
	require.NoError(t, Loaders.Register(accepting, nil))

	pack, err := LoadStream(FromBytes([]byte("FTST data"), "x.ftst"), "", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, declinedCalls, "magic match is tried before pattern-only match")
	assert.Equal(t, 1, pack.Len())
	assert.Equal(t, "ft-accepting", pack.Font(0).Property("source-format"))
	assert.Equal(t, "x.ftst", pack.Font(0).Property("source-name"))
}

func TestLoadDispatchFatalErrorPropagates(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.storage")
	defer teardown()
	require.NoError(t, Loaders.Register(&Codec{
		Name:     "ft-broken",
		Patterns: []NamePattern{Glob("*.ftbk")},
		Load: func(s *Stream, opts Options) ([]*font.Font, error) {
			return nil, core.FormatError(12, "structure is damaged")
		},
	}, nil))
	_, err := LoadStream(FromBytes([]byte{1, 2, 3}, "x.ftbk"), "", nil)
	require.Error(t, err)
	assert.Equal(t, core.EFORMAT, core.Code(err),
		"malformed-format errors do not fall through")
}

func TestLoadDispatchEmptyResultTriesNext(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.storage")
	defer teardown()
	require.NoError(t, Loaders.Register(&Codec{
		Name:     "ft-empty",
		Magic:    []SigMatcher{NewMagic([]byte("FTEM"))},
		Patterns: []NamePattern{Glob("*.ftem")},
		Load: func(s *Stream, opts Options) ([]*font.Font, error) {
			return nil, nil
		},
	}, nil))
	require.NoError(t, Loaders.Register(&Codec{
		Name:     "ft-full",
		Patterns: []NamePattern{Glob("*.ftem")},
		Load: func(s *Stream, opts Options) ([]*font.Font, error) {
			return oneGlyphFont(), nil
		},
	}, nil))
	pack, err := LoadStream(FromBytes([]byte("FTEM"), "x.ftem"), "", nil)
	require.NoError(t, err)
	assert.Equal(t, "ft-full", pack.Font(0).Property("source-format"),
		"a codec returning zero fonts counts as not matched")
}

func TestSaveDispatchAmbiguityIsAnError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.storage")
	defer teardown()
	save := func(p *font.Pack, s *Stream, opts Options) error {
		_, err := s.Write([]byte("x"))
		return err
	}
	require.NoError(t, Savers.Register(&Codec{
		Name: "sv-one", Patterns: []NamePattern{Glob("*.dup")}, Save: save,
	}, nil))
	require.NoError(t, Savers.Register(&Codec{
		Name: "sv-two", Patterns: []NamePattern{Glob("*.dup")}, Save: save,
	}, nil))

	w, err := NewWriter(io.Discard, "font.dup")
	require.NoError(t, err)
	err = SaveStream(font.NewPack(), w, "", nil)
	require.Error(t, err, "ambiguous saver matches must raise rather than guess")
	assert.Equal(t, core.EINVALID, core.Code(err))

	err = SaveStream(font.NewPack(), w, "sv-one", nil)
	assert.NoError(t, err, "an explicit format disambiguates")
}

func TestLoadDispatchUnknownFormat(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.storage")
	defer teardown()
	_, err := LoadStream(FromBytes([]byte("x"), "x.bin"), "no-such-format", nil)
	require.Error(t, err)
}
