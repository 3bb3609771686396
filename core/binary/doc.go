/*
Package binary provides bit- and byte-packing helpers for bitmap font data.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2024 Norbert Pillmayer <norbert@pillmayer.com>

*/
package binary

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'bitfont.core'
func tracer() tracing.Trace {
	return tracing.Select("bitfont.core")
}
