package raster

import (
	"strings"

	"github.com/npillmayer/bitfont/core"
)

// Block-character lookup tables, one per cell resolution. Keys are cell
// pixel masks in row-major order: pixel (row, col) of the cell contributes
// bit row*cx+col.
var blockTables = map[[2]int][]rune{}

func init() {
	blockTables[[2]int{1, 1}] = []rune{' ', '█'}
	quads := []rune{
		' ', '▘', '▝', '▀',
		'▖', '▌', '▞', '▛',
		'▗', '▚', '▐', '▜',
		'▄', '▙', '▟', '█',
	}
	blockTables[[2]int{2, 2}] = quads
	// sexants; Unicode leaves out the codes covered by half-block elements
	sexants := make([]rune, 64)
	i := 0
	for code := 1; code < 63; code++ {
		if code == 0b010101 || code == 0b101010 {
			continue
		}
		sexants[code] = rune(0x1FB00 + i)
		i++
	}
	sexants[0b000000] = ' '
	sexants[0b101010] = '▐'
	sexants[0b010101] = '▌'
	sexants[0b111111] = '█'
	blockTables[[2]int{2, 3}] = sexants
	// braille; dots 1-3 and 7 are the left column, 4-6 and 8 the right
	braille := make([]rune, 256)
	for mask := 0; mask < 256; mask++ {
		dots := mask&1 |
			mask>>1&2 |
			mask>>2&4 |
			mask<<2&8 |
			mask<<1&16 |
			mask&32 |
			mask&64 |
			mask&128
		braille[mask] = rune(0x2800 + dots)
	}
	blockTables[[2]int{2, 4}] = braille
	// degenerate resolutions map onto the tables above
	pairsH := make([]rune, 4)
	pairsV := make([]rune, 4)
	for mask := 0; mask < 4; mask++ {
		p0, p1 := mask&1, mask>>1&1
		pairsH[mask] = quads[p0|p1<<1|p0<<2|p1<<3]
		pairsV[mask] = quads[p0|p0<<1|p1<<2|p1<<3]
	}
	blockTables[[2]int{2, 1}] = pairsH
	blockTables[[2]int{1, 2}] = pairsV
	triples := make([]rune, 8)
	for mask := 0; mask < 8; mask++ {
		p0, p1, p2 := mask&1, mask>>1&1, mask>>2&1
		triples[mask] = sexants[p0|p0<<1|p1<<2|p1<<3|p2<<4|p2<<5]
	}
	blockTables[[2]int{1, 3}] = triples
}

// AsBlocks renders the raster as a string of Unicode block, sexant or
// Braille characters, mapping cells of cx by cy pixels to one character.
// Supported resolutions are 1x1, 1x2, 1x3, 2x1, 2x2, 2x3 and 2x4.
func (r Raster) AsBlocks(cx, cy int) (string, error) {
	table, ok := blockTables[[2]int{cx, cy}]
	if !ok {
		return "", core.Error(core.EINVALID,
			"unsupported block resolution: %dx%d", cx, cy)
	}
	if len(r.pixels) == 0 {
		return "", nil
	}
	height := len(r.pixels)
	var sb strings.Builder
	for top := 0; top < height; top += cy {
		for left := 0; left < r.width; left += cx {
			mask := 0
			for dy := 0; dy < cy; dy++ {
				for dx := 0; dx < cx; dx++ {
					y, x := top+dy, left+dx
					if y < height && x < r.width && r.pixels[y][x] {
						mask |= 1 << uint(dy*cx+dx)
					}
				}
			}
			sb.WriteRune(table[mask])
		}
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}
