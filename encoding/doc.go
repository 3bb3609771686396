/*
Package encoding implements character maps for bitmap fonts.

A charmap is a partial mapping between codepoints (native byte sequences)
and Unicode characters. The package ships loaders for the common table file
dialects, derived-map operations (difference, overlay, subsetting,
shifting), and a process-wide registry which resolves names and aliases
to lazily loaded charmaps.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2024 Norbert Pillmayer <norbert@pillmayer.com>

*/
package encoding

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'bitfont.encoding'
func tracer() tracing.Trace {
	return tracing.Select("bitfont.encoding")
}
