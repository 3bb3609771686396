package raster

import (
	"encoding/hex"

	"github.com/npillmayer/bitfont/core"
	"github.com/npillmayer/bitfont/core/binary"
)

// Alignment selects how rows of pixels sit within their byte storage.
type Alignment int

// Row alignments. AlignBit means bits flow contiguously with no per-row
// padding.
const (
	AlignLeft Alignment = iota
	AlignRight
	AlignBit
)

// Order is the byte order of a flat raster dump.
type Order int

// Byte matrix orders. ColumnMajor interleaves the source bytes as
// height-sized columns before decoding. It has no effect under AlignBit.
const (
	RowMajor Order = iota
	ColumnMajor
)

// BitOrder is the per-byte bit endianness.
type BitOrder int

// Bit orders. LSBFirst reverses the bits within each source byte, putting
// the least significant bit in the leftmost column.
const (
	MSBFirst BitOrder = iota
	LSBFirst
)

// ByteOptions parameterise the conversion between rasters and flat byte
// buffers. Width, Height and Stride may be Unset. Stride is the bit-pitch
// between rows. ByteSwap reverses each group of n bytes; 0 means no swap.
type ByteOptions struct {
	Width, Height, Stride int
	Align                 Alignment
	Order                 Order
	ByteSwap              int
	BitOrder              BitOrder
}

// NewByteOptions returns byte options with Width, Height and Stride unset
// and all other fields at their defaults.
func NewByteOptions() ByteOptions {
	return ByteOptions{Width: Unset, Height: Unset, Stride: Unset}
}

// FromVector reshapes a flat bit sequence into a raster. Stride is the
// bit-pitch between rows; width is the number of retained columns. With
// AlignRight, columns [stride-width, stride) are read, otherwise columns
// [0, width). Excess bits at the tail are ignored.
func FromVector(bits []bool, stride, width, height int, align Alignment) (Raster, error) {
	if len(bits) == 0 || width == 0 || stride == 0 {
		return Raster{}, nil
	}
	if width == Unset {
		width = stride
	}
	if width > stride {
		return Raster{}, core.Error(core.EINVALID,
			"raster width %d exceeds stride %d", width, stride)
	}
	offset := 0
	if align == AlignRight {
		offset = stride - width
	}
	limit := len(bits) - len(bits)%stride
	rows := make([][]bool, 0, limit/stride)
	for offs := offset; offs < limit; offs += stride {
		row := make([]bool, width)
		copy(row, bits[offs:offs+width])
		rows = append(rows, row)
	}
	if height != Unset {
		if len(rows) < height {
			return Raster{}, core.Error(core.EINVALID, "bit string too short")
		}
		rows = rows[:height]
	}
	return fresh(rows, width), nil
}

// AsVector returns the pixels as a flat bit sequence, row by row.
func (r Raster) AsVector() []bool {
	bits := make([]bool, 0, r.width*len(r.pixels))
	for _, row := range r.pixels {
		bits = append(bits, row...)
	}
	return bits
}

// AsBits returns the pixels as flat bytes with the supplied ink and paper
// byte values, one byte per pixel.
func (r Raster) AsBits(ink, paper byte) []byte {
	out := make([]byte, 0, r.width*len(r.pixels))
	for _, row := range r.pixels {
		for _, bit := range row {
			if bit {
				out = append(out, ink)
			} else {
				out = append(out, paper)
			}
		}
	}
	return out
}

// FromBytes decodes a byte buffer into a raster. At least one of width,
// height or stride must be given. For AlignLeft and AlignRight each row
// occupies ceil(stride/8) bytes and is clipped to width; under AlignBit
// bits flow contiguously with no per-row padding.
func FromBytes(data []byte, o ByteOptions) (Raster, error) {
	if o.Width == Unset && o.Height == Unset && o.Stride == Unset {
		return Raster{}, core.Error(core.EINVALID,
			"at least one of width, height or stride must be specified")
	}
	if o.Width == 0 || o.Height == 0 {
		return Blank(max(o.Width, 0), max(o.Height, 0)), nil
	}
	width, stride := o.Width, o.Stride
	if stride != Unset {
		if width == Unset {
			width = stride
		}
	} else if o.Align != AlignBit {
		if width == Unset {
			if o.Height == Unset {
				return Raster{}, core.Error(core.EINVALID,
					"need height to infer raster stride")
			}
			stride = 8 * (len(data) / o.Height)
		} else {
			stride = 8 * binary.Ceildiv(width, 8)
		}
	} else {
		if width == Unset {
			if o.Height == Unset {
				return Raster{}, core.Error(core.EINVALID,
					"need height to infer raster stride")
			}
			stride = (8 * len(data)) / o.Height
		} else {
			stride = width
		}
	}
	if o.ByteSwap > 0 {
		swapped := binary.SwapByteGroups(data, o.ByteSwap)
		data = swapped[:len(data)]
	}
	if o.Order == ColumnMajor && o.Align != AlignBit {
		if o.Height == Unset {
			return Raster{}, core.Error(core.EINVALID,
				"column-major byte order needs an explicit height")
		}
		interleaved := make([]byte, 0, len(data))
		for offs := 0; offs < o.Height; offs++ {
			for i := offs; i < len(data); i += o.Height {
				interleaved = append(interleaved, data[i])
			}
		}
		data = interleaved
	}
	bits := binary.BytesToBits(data, -1, binary.Left)
	if o.BitOrder == LSBFirst {
		bits = binary.ReverseGroups(bits, 8)
	}
	align := o.Align
	if align == AlignBit {
		align = AlignLeft
	}
	return FromVector(bits, stride, width, o.Height, align)
}

// AsByteRows converts the raster to bytes, row by row. Each row occupies
// ceil(width/8) bytes, padded with paper on the right for AlignLeft and on
// the left for AlignRight.
func (r Raster) AsByteRows(align Alignment, bitOrder BitOrder) [][]byte {
	if r.IsEmpty() {
		return nil
	}
	bytewidth := binary.Ceildiv(r.width, 8)
	rows := make([][]byte, 0, len(r.pixels))
	for _, row := range r.pixels {
		bits := make([]bool, 8*bytewidth)
		if align == AlignRight {
			copy(bits[8*bytewidth-r.width:], row)
		} else {
			copy(bits, row)
		}
		if bitOrder == LSBFirst {
			bits = binary.ReverseGroups(bits, 8)
		}
		rows = append(rows, binary.BitsToBytes(bits))
	}
	return rows
}

// AsBytes converts the raster to flat bytes. Only the Align, Stride,
// ByteSwap and BitOrder options apply; it is the dual of FromBytes.
func (r Raster) AsBytes(o ByteOptions) []byte {
	if r.IsEmpty() {
		return []byte{}
	}
	work := r
	if o.Stride != Unset && o.Stride > r.width {
		var err error
		if o.Align == AlignRight {
			work, err = r.Expand(o.Stride-r.width, 0, 0, 0)
		} else {
			work, err = r.Expand(0, 0, o.Stride-r.width, 0)
		}
		if err != nil {
			return []byte{}
		}
	}
	var out []byte
	if o.Align == AlignBit {
		bits := work.AsVector()
		if o.BitOrder == LSBFirst {
			bits = binary.ReverseGroups(bits, 8)
		}
		size := binary.Ceildiv(len(bits), 8)
		padded := make([]bool, 8*size)
		copy(padded[8*size-len(bits):], bits)
		out = binary.BitsToBytes(padded)
	} else {
		for _, row := range work.AsByteRows(o.Align, o.BitOrder) {
			out = append(out, row...)
		}
	}
	if o.ByteSwap > 0 {
		out = binary.SwapByteGroups(out, o.ByteSwap)
	}
	return out
}

// ByteSize returns the exact length of the byte representation AsBytes
// would produce for the given alignment and stride. Stride may be Unset.
func (r Raster) ByteSize(align Alignment, stride int) int {
	if r.IsEmpty() {
		return 0
	}
	if stride == Unset {
		stride = r.width
	}
	if align == AlignBit {
		return binary.Ceildiv(stride*len(r.pixels), 8)
	}
	return binary.Ceildiv(stride, 8) * len(r.pixels)
}

// FromHex creates a raster from a hex string; a shortcut over FromBytes.
// Height may be Unset.
func FromHex(hexstr string, width, height int, align Alignment) (Raster, error) {
	data, err := hex.DecodeString(hexstr)
	if err != nil {
		return Raster{}, core.WrapError(err, core.EINVALID,
			"raster hex string is malformed")
	}
	o := NewByteOptions()
	o.Width, o.Height, o.Align = width, height, align
	return FromBytes(data, o)
}

// AsHex converts the raster to a hex string.
func (r Raster) AsHex(align Alignment) string {
	o := NewByteOptions()
	o.Align = align
	return hex.EncodeToString(r.AsBytes(o))
}
