/*
Package unifont reads and writes GNU Unifont .hex files.

The format is line-oriented text: each line holds a Unicode scalar in hex,
a colon, and the glyph bitmap as hex digits. 32 digits encode an 8x16
glyph, 64 digits a 16x16 glyph.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2024 Norbert Pillmayer <norbert@pillmayer.com>

*/
package unifont

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/bitfont/core"
	"github.com/npillmayer/bitfont/core/label"
	"github.com/npillmayer/bitfont/core/raster"
	"github.com/npillmayer/bitfont/font"
	"github.com/npillmayer/bitfont/storage"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'bitfont.fonts'
func tracer() tracing.Trace {
	return tracing.Select("bitfont.fonts")
}

const glyphHeight = 16

func init() {
	codec := &storage.Codec{
		Name:     "unifont",
		Patterns: []storage.NamePattern{storage.Glob("*.hex")},
		Template: "{name}.hex",
		Text:     true,
		Load:     load,
		Save:     save,
	}
	if err := storage.Loaders.Register(codec, nil); err != nil {
		tracer().Errorf("cannot register unifont loader: %v", err)
	}
	if err := storage.Savers.Register(codec, nil); err != nil {
		tracer().Errorf("cannot register unifont saver: %v", err)
	}
}

// load reads a unifont .hex file from a stream.
func load(s *storage.Stream, opts storage.Options) ([]*font.Font, error) {
	var glyphs []*font.Glyph
	scanner := bufio.NewScanner(s.Text())
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cpStr, hexStr, ok := strings.Cut(line, ":")
		if !ok {
			if len(glyphs) == 0 {
				return nil, core.Error(core.EFORMATNOMATCH,
					"'%s' does not look like a unifont hex file", s.Name())
			}
			return nil, core.FormatError(-1, "malformed hex line %d", lineno)
		}
		v, err := strconv.ParseUint(strings.TrimSpace(cpStr), 16, 32)
		if err != nil {
			if len(glyphs) == 0 {
				return nil, core.Error(core.EFORMATNOMATCH,
					"'%s' does not look like a unifont hex file", s.Name())
			}
			return nil, core.FormatError(-1, "malformed hex line %d", lineno)
		}
		hexStr = strings.TrimSpace(hexStr)
		width := len(hexStr) * 4 / glyphHeight
		if width == 0 {
			return nil, core.FormatError(-1, "empty glyph on hex line %d", lineno)
		}
		r, err := raster.FromHex(hexStr, width, glyphHeight, raster.AlignLeft)
		if err != nil {
			return nil, core.FormatError(-1, "bad glyph on hex line %d: %v", lineno, err)
		}
		glyphs = append(glyphs, font.NewGlyph(r, label.Char(string(rune(v)))))
	}
	if err := scanner.Err(); err != nil {
		return nil, core.WrapError(err, core.EIO, "cannot read '%s'", s.Name())
	}
	if len(glyphs) == 0 {
		return nil, nil
	}
	f := font.NewFont(glyphs, map[string]string{
		font.PropEncoding:   "unicode",
		font.PropLineHeight: strconv.Itoa(glyphHeight),
	})
	return []*font.Font{f}, nil
}

// save writes the glyphs of all fonts in the pack as unifont hex lines.
// Glyphs without a character label or with a cell size other than 8x16 or
// 16x16 are skipped.
func save(p *font.Pack, s *storage.Stream, opts storage.Options) error {
	for _, f := range p.Fonts() {
		for _, g := range f.Glyphs() {
			ch := g.Char()
			if ch == "" {
				tracer().Infof("skipping unlabelled glyph in unifont file")
				continue
			}
			runes := []rune(ch.Value())
			r := g.Raster()
			if r.Height() != glyphHeight || (r.Width() != 8 && r.Width() != 16) {
				tracer().Infof("skipping %dx%d glyph in unifont file",
					r.Width(), r.Height())
				continue
			}
			line := fmt.Sprintf("%04X:%s\n", runes[0],
				strings.ToUpper(r.AsHex(raster.AlignLeft)))
			if _, err := s.Write([]byte(line)); err != nil {
				return err
			}
		}
	}
	return nil
}
