package raster

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromVector(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.raster")
	defer teardown()
	bits := []bool{
		true, false, false, false,
		false, true, false, false,
	}
	r, err := FromVector(bits, 4, 2, Unset, AlignLeft)
	require.NoError(t, err)
	assert.True(t, r.Equal(mustPattern(t, "@.", ".@")))
	r, err = FromVector(bits, 4, 2, Unset, AlignRight)
	require.NoError(t, err)
	assert.True(t, r.Equal(mustPattern(t, "..", "..")))
	_, err = FromVector(bits, 4, 2, 3, AlignLeft)
	assert.Error(t, err, "bit string too short for demanded height")
}

func TestFromBytesBitOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.raster")
	defer teardown()
	o := NewByteOptions()
	o.Width = 8
	r, err := FromBytes([]byte{0x81}, o)
	require.NoError(t, err)
	assert.True(t, r.Equal(mustPattern(t, "@......@")))
	o.BitOrder = LSBFirst
	r, err = FromBytes([]byte{0x81}, o)
	require.NoError(t, err)
	assert.True(t, r.Equal(mustPattern(t, "@......@")),
		"0x81 is bit-reversal symmetric")
	o.BitOrder = MSBFirst
	r, err = FromBytes([]byte{0x01}, o)
	require.NoError(t, err)
	assert.True(t, r.Equal(mustPattern(t, ".......@")))
	o.BitOrder = LSBFirst
	r, err = FromBytes([]byte{0x01}, o)
	require.NoError(t, err)
	assert.True(t, r.Equal(mustPattern(t, "@.......")))
}

func TestFromBytesRequiresGeometry(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.raster")
	defer teardown()
	_, err := FromBytes([]byte{0xff}, NewByteOptions())
	assert.Error(t, err)
	o := NewByteOptions()
	o.Width = 0
	o.Height = 4
	blank, err := FromBytes(nil, o)
	require.NoError(t, err)
	assert.Equal(t, 0, blank.Width())
	assert.Equal(t, 4, blank.Height())
}

func TestBytesRoundtrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.raster")
	defer teardown()
	r := mustPattern(t,
		"@......@",
		".@@..@@.",
		"..@@@@..",
		"@@@@@@@@",
	)
	data := r.AsBytes(NewByteOptions())
	assert.Equal(t, []byte{0x81, 0x66, 0x3c, 0xff}, data)
	o := NewByteOptions()
	o.Width, o.Height = 8, 4
	back, err := FromBytes(data, o)
	require.NoError(t, err)
	assert.True(t, back.Equal(r))
}

func TestBytesRoundtripOddWidth(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.raster")
	defer teardown()
	r := mustPattern(t,
		"@..@.",
		".@@.@",
		"@@.@@",
	)
	for _, align := range []Alignment{AlignLeft, AlignRight} {
		o := NewByteOptions()
		o.Align = align
		data := r.AsBytes(o)
		o.Width, o.Height = 5, 3
		back, err := FromBytes(data, o)
		require.NoError(t, err)
		assert.True(t, back.Equal(r), "align %v", align)
	}
}

func TestBytesByteSwap(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.raster")
	defer teardown()
	r := mustPattern(t,
		"@@@@@@@@........",
		"........@@@@@@@@",
	)
	o := NewByteOptions()
	o.ByteSwap = 2
	data := r.AsBytes(o)
	assert.Equal(t, []byte{0x00, 0xff, 0xff, 0x00}, data)
	o.Width, o.Height = 16, 2
	back, err := FromBytes(data, o)
	require.NoError(t, err)
	assert.True(t, back.Equal(r))
}

func TestBytesColumnMajor(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.raster")
	defer teardown()
	// a 16x2 raster stored column by column: byte i of every row first
	data := []byte{0xff, 0x0f, 0x00, 0xf0}
	o := NewByteOptions()
	o.Width, o.Height = 16, 2
	o.Order = ColumnMajor
	r, err := FromBytes(data, o)
	require.NoError(t, err)
	assert.True(t, r.Equal(mustPattern(t,
		"@@@@@@@@........",
		"....@@@@@@@@....",
	)))
}

func TestBitAlignedBytes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.raster")
	defer teardown()
	// 3x3 raster occupies 9 bits; bit alignment packs rows contiguously
	r := mustPattern(t, "@@@", "...", "@@@")
	o := NewByteOptions()
	o.Align = AlignBit
	data := r.AsBytes(o)
	assert.Equal(t, 2, len(data))
	assert.Equal(t, r.ByteSize(AlignBit, Unset), len(data))
	// 16x1: 16 bits fill exactly two bytes and roundtrip
	r2 := mustPattern(t, "@.@.@.@..@.@.@.@")
	o2 := NewByteOptions()
	o2.Align = AlignBit
	data2 := r2.AsBytes(o2)
	o2.Width, o2.Height = 16, 1
	back, err := FromBytes(data2, o2)
	require.NoError(t, err)
	assert.True(t, back.Equal(r2))
}

func TestHexRoundtrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.raster")
	defer teardown()
	r := mustPattern(t,
		"@.@.",
		".@.@",
	)
	for _, align := range []Alignment{AlignLeft, AlignRight} {
		h := r.AsHex(align)
		back, err := FromHex(h, 4, 2, align)
		require.NoError(t, err)
		assert.True(t, back.Equal(r), "align %v", align)
	}
	_, err := FromHex("zz", 4, Unset, AlignLeft)
	assert.Error(t, err)
}

func TestByteSize(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.raster")
	defer teardown()
	r := mustPattern(t, "@....", ".@...", "..@..")
	assert.Equal(t, len(r.AsBytes(NewByteOptions())), r.ByteSize(AlignLeft, Unset))
	o := NewByteOptions()
	o.Stride = 10
	assert.Equal(t, len(r.AsBytes(o)), r.ByteSize(AlignLeft, 10))
	assert.Equal(t, 0, Raster{}.ByteSize(AlignLeft, Unset))
}

func TestAsBitsAndVector(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.raster")
	defer teardown()
	r := mustPattern(t, "@.", ".@")
	assert.Equal(t, []byte{1, 0, 0, 1}, r.AsBits(1, 0))
	assert.Equal(t, []bool{true, false, false, true}, r.AsVector())
}
