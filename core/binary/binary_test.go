package binary

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestCeildiv(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.core")
	defer teardown()
	assert.Equal(t, 0, Ceildiv(0, 8))
	assert.Equal(t, 1, Ceildiv(1, 8))
	assert.Equal(t, 1, Ceildiv(8, 8))
	assert.Equal(t, 2, Ceildiv(9, 8))
}

func TestAlign(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.core")
	defer teardown()
	assert.Equal(t, 0, Align(0, 3))
	assert.Equal(t, 8, Align(1, 3))
	assert.Equal(t, 8, Align(8, 3))
	assert.Equal(t, 16, Align(9, 3))
	assert.Equal(t, 4, Align(3, 2))
	assert.Equal(t, 12, AlignTo(9, 4))
}

func TestIntBytes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.core")
	defer teardown()
	assert.Equal(t, []byte{0x00}, IntToBytes(0, BigEndian), "at least one byte")
	assert.Equal(t, []byte{0x41}, IntToBytes(0x41, BigEndian))
	assert.Equal(t, []byte{0x01, 0x00}, IntToBytes(0x100, BigEndian))
	assert.Equal(t, []byte{0x00, 0x01}, IntToBytes(0x100, LittleEndian))
	for _, v := range []uint64{0, 1, 0x7f, 0x100, 0xfedcba} {
		assert.Equal(t, v, BytesToInt(IntToBytes(v, BigEndian), BigEndian))
		assert.Equal(t, v, BytesToInt(IntToBytes(v, LittleEndian), LittleEndian))
	}
}

func TestBytesToBits(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.core")
	defer teardown()
	bits := BytesToBits([]byte{0x81}, -1, Left)
	assert.Equal(t, []bool{true, false, false, false, false, false, false, true}, bits)
	assert.Equal(t, []bool{true, false}, BytesToBits([]byte{0x81}, 2, Left))
	assert.Equal(t, []bool{false, true}, BytesToBits([]byte{0x81}, 2, Right))
	assert.Equal(t, []byte{0x81}, BitsToBytes(bits))
	assert.Equal(t, []byte{0x80}, BitsToBytes([]bool{true}), "tail is zero-padded")
}

func TestReverseByGroup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.core")
	defer teardown()
	assert.Equal(t, "badcfe", ReverseByGroup("abcdef", 2))
	assert.Equal(t, "cbafed", ReverseByGroup("abcdef", 3))
	assert.Equal(t, "badc", ReverseByGroup("abcd", 2))
	assert.Equal(t, "dcbae", ReverseByGroup("abcde", 4), "partial tail group")
	assert.Equal(t, "abc", ReverseByGroup("abc", 1))
}

func TestSwapByteGroups(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bitfont.core")
	defer teardown()
	assert.Equal(t, []byte{2, 1, 4, 3}, SwapByteGroups([]byte{1, 2, 3, 4}, 2))
	assert.Equal(t, []byte{2, 1, 0, 3}, SwapByteGroups([]byte{1, 2, 3}, 2),
		"the final group is null-padded")
	assert.Equal(t, []byte{1, 2, 3}, SwapByteGroups([]byte{1, 2, 3}, 1))
}
