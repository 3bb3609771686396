package storage

// Default formats used when identification fails.
const (
	DefaultTextFormat   = "unifont"
	DefaultBinaryFormat = "raw"
)

// The process-wide format registries. They are populated at startup, by
// the codec packages' init functions, and treated read-mostly thereafter.
var (
	// Loaders holds the font reading codecs.
	Loaders = NewRegistry("loaders", DefaultTextFormat, DefaultBinaryFormat)
	// Savers holds the font writing codecs.
	Savers = NewRegistry("savers", DefaultTextFormat, DefaultBinaryFormat)
	// Containers holds the archive formats.
	Containers = NewRegistry("containers", "", "")
	// Wrappers holds the single-stream transforms.
	Wrappers = NewRegistry("wrappers", "", "")
)

// NewMagicAt creates a signature of a single byte pattern at an offset.
func NewMagicAt(offset int, value []byte) *Magic {
	return &Magic{chunks: []magicChunk{{offset: offset, value: value}}}
}

func init() {
	Containers.Register(&Codec{
		Name:          "zip",
		Magic:         []SigMatcher{NewMagic([]byte("PK\x03\x04"))},
		Patterns:      []NamePattern{Glob("*.zip")},
		OpenContainer: NewZip,
	}, nil)
	Containers.Register(&Codec{
		Name:          "tar",
		Magic:         []SigMatcher{NewMagicAt(257, []byte("ustar"))},
		Patterns:      []NamePattern{Glob("*.tar")},
		OpenContainer: NewTar,
	}, nil)
	Wrappers.Register(&Codec{
		Name:     "gzip",
		Magic:    []SigMatcher{NewMagic([]byte{0x1f, 0x8b})},
		Patterns: []NamePattern{Glob("*.gz")},
		Unwrap:   unwrapGzip,
	}, nil)
	Wrappers.Register(&Codec{
		Name:     "bzip2",
		Magic:    []SigMatcher{NewMagic([]byte("BZh"))},
		Patterns: []NamePattern{Glob("*.bz2")},
		Unwrap:   unwrapBzip2,
	}, nil)
	Wrappers.Register(&Codec{
		Name:     "base64",
		Patterns: []NamePattern{Glob("*.b64"), Glob("*.base64")},
		Unwrap:   unwrapBase64,
	}, nil)
}
