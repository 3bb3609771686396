/*
Package storage routes bitmap fonts between files and the in-memory model.

It identifies file formats from magic signatures and filename patterns,
composes nested containers (directories, archives) and wrappers
(compression, text encodings) above a single codec, and dispatches load
and save operations through the resulting chain.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2024 Norbert Pillmayer <norbert@pillmayer.com>

*/
package storage

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'bitfont.storage'
func tracer() tracing.Trace {
	return tracing.Select("bitfont.storage")
}
