/*
Package font holds the in-memory model for bitmap fonts: glyphs, fonts and
packs of fonts.

All values are immutable: transformations return new glyphs and fonts and
never touch their receivers. The pixel content of a glyph lives in a
raster owned by the glyph.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2024 Norbert Pillmayer <norbert@pillmayer.com>

*/
package font

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'bitfont.fonts'
func tracer() tracing.Trace {
	return tracing.Select("bitfont.fonts")
}
