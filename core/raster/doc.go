/*
Package raster implements an immutable bit matrix with geometric and
logical operations.

A Raster is a rectangular matrix of ink/paper pixels. All operations are
pure: they leave the receiver untouched and return a fresh raster. Glyph
transforms throughout the module reduce to calls on this algebra.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2024 Norbert Pillmayer <norbert@pillmayer.com>

*/
package raster

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'bitfont.raster'
func tracer() tracing.Trace {
	return tracing.Select("bitfont.raster")
}
