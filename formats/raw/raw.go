/*
Package raw reads and writes headerless binary cell dumps, the DOS-style
font format of video ROMs and .com font loaders.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2024 Norbert Pillmayer <norbert@pillmayer.com>

*/
package raw

import (
	"io"
	"strconv"

	"github.com/npillmayer/bitfont/core"
	"github.com/npillmayer/bitfont/core/binary"
	"github.com/npillmayer/bitfont/core/raster"
	"github.com/npillmayer/bitfont/encoding"
	"github.com/npillmayer/bitfont/font"
	"github.com/npillmayer/bitfont/storage"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'bitfont.fonts'
func tracer() tracing.Trace {
	return tracing.Select("bitfont.fonts")
}

func init() {
	codec := &storage.Codec{
		Name: "raw",
		Patterns: []storage.NamePattern{
			storage.Glob("*.bin"),
			storage.Glob("*.rom"),
			storage.Glob("*.raw"),
		},
		Template: "{name}.bin",
		Load:     load,
		Save:     save,
	}
	if err := storage.Loaders.Register(codec, nil); err != nil {
		tracer().Errorf("cannot register raw loader: %v", err)
	}
	if err := storage.Savers.Register(codec, nil); err != nil {
		tracer().Errorf("cannot register raw saver: %v", err)
	}
}

// option reads an integer codec option with a default.
func option(opts storage.Options, key string, def int) (int, error) {
	v, ok := opts[key]
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, core.Error(core.EINVALID, "option %s must be a positive number", key)
	}
	return n, nil
}

// load reads a headerless binary cell dump. Options: cell-width and
// cell-height (pixels, default 8x8), first-codepoint (default 0).
func load(s *storage.Stream, opts storage.Options) ([]*font.Font, error) {
	width, err := option(opts, "cell-width", 8)
	if err != nil {
		return nil, err
	}
	height, err := option(opts, "cell-height", 8)
	if err != nil {
		return nil, err
	}
	first := 0
	if v, ok := opts["first-codepoint"]; ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, core.Error(core.EINVALID,
				"option first-codepoint must be a non-negative number")
		}
		first = n
	}
	data, err := io.ReadAll(s)
	if err != nil {
		return nil, core.WrapError(err, core.EIO, "cannot read '%s'", s.Name())
	}
	cellbytes := binary.Ceildiv(width, 8) * height
	count := len(data) / cellbytes
	if count == 0 {
		return nil, core.Error(core.EFORMATNOMATCH,
			"'%s' is too short for %dx%d cells", s.Name(), width, height)
	}
	if excess := len(data) % cellbytes; excess != 0 {
		tracer().Debugf("ignoring %d trailing bytes in '%s'", excess, s.Name())
	}
	indexer, err := encoding.NewIndexer(strconv.Itoa(first) + "-")
	if err != nil {
		return nil, err
	}
	glyphs := make([]*font.Glyph, 0, count)
	for i := 0; i < count; i++ {
		o := raster.NewByteOptions()
		o.Width, o.Height = width, height
		r, err := raster.FromBytes(data[i*cellbytes:(i+1)*cellbytes], o)
		if err != nil {
			return nil, core.FormatError(int64(i*cellbytes), "bad glyph cell: %v", err)
		}
		glyphs = append(glyphs, font.NewGlyph(r, indexer.Codepoint()))
	}
	f := font.NewFont(glyphs, map[string]string{
		"cell-width":  strconv.Itoa(width),
		"cell-height": strconv.Itoa(height),
	})
	return []*font.Font{f}, nil
}

// save writes the glyphs of all fonts as contiguous byte cells.
func save(p *font.Pack, s *storage.Stream, opts storage.Options) error {
	for _, f := range p.Fonts() {
		for _, g := range f.Glyphs() {
			if _, err := s.Write(g.Raster().AsBytes(raster.NewByteOptions())); err != nil {
				return err
			}
		}
	}
	return nil
}
