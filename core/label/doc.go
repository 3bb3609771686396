/*
Package label implements glyph labels and label ranges.

A label identifies a glyph in one of three ways: as a Unicode character
(grapheme cluster), as a codepoint (the byte sequence addressing the glyph
in its native encoding), or as an opaque tag. Labels are totally orderable
within their variant only; equality across variants always fails.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2024 Norbert Pillmayer <norbert@pillmayer.com>

*/
package label

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'bitfont.core'
func tracer() tracing.Trace {
	return tracing.Select("bitfont.core")
}
