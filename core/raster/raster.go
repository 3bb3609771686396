package raster

import (
	"github.com/npillmayer/bitfont/core"
)

// Unset marks an integer option as not provided.
const Unset = -1

// Raster is an immutable rectangular bit matrix. The zero value is the
// empty raster. Background (paper) is false, foreground (ink) is true.
type Raster struct {
	pixels [][]bool
	width  int
}

// Bounds are distances from the four raster sides, in the order used by
// crop and expand: left, bottom, right, top.
type Bounds struct {
	Left, Bottom, Right, Top int
}

// FromMatrix creates a raster from rows of pixels, top to bottom.
// All rows must be of the same width.
func FromMatrix(rows [][]bool) (Raster, error) {
	if len(rows) == 0 {
		return Raster{}, nil
	}
	width := len(rows[0])
	pixels := make([][]bool, len(rows))
	for i, row := range rows {
		if len(row) != width {
			return Raster{}, core.Error(core.EINVALID,
				"all rows in raster must be of the same width")
		}
		pixels[i] = make([]bool, width)
		copy(pixels[i], row)
	}
	return Raster{pixels: pixels, width: width}, nil
}

// FromPattern creates a raster from strings of pixels encoded against a
// caller-supplied ink marker. Bytes other than ink count as paper.
// All rows must be of the same width.
func FromPattern(rows []string, ink byte) (Raster, error) {
	matrix := make([][]bool, len(rows))
	for i, row := range rows {
		bits := make([]bool, len(row))
		for j := 0; j < len(row); j++ {
			bits[j] = row[j] == ink
		}
		matrix[i] = bits
	}
	return FromMatrix(matrix)
}

// Blank creates an uninked raster of the given size.
func Blank(width, height int) Raster {
	if width < 0 {
		width = 0
	}
	if height <= 0 {
		return Raster{width: width}
	}
	pixels := make([][]bool, height)
	for i := range pixels {
		pixels[i] = make([]bool, width)
	}
	return Raster{pixels: pixels, width: width}
}

// Width is the raster width in pixels.
func (r Raster) Width() int {
	return r.width
}

// Height is the raster height in pixels.
func (r Raster) Height() int {
	return len(r.pixels)
}

// IsEmpty tells whether the raster has zero size on either axis.
func (r Raster) IsEmpty() bool {
	return r.width == 0 || len(r.pixels) == 0
}

// IsBlank tells whether the raster has no ink anywhere.
func (r Raster) IsBlank() bool {
	for _, row := range r.pixels {
		for _, bit := range row {
			if bit {
				return false
			}
		}
	}
	return true
}

// Padding returns the distances from the four raster sides to the bounding
// box of the ink. A blank raster of nonzero size reports (W, H, 0, 0), the
// empty raster (0, 0, 0, 0).
func (r Raster) Padding() Bounds {
	if r.IsEmpty() {
		return Bounds{}
	}
	height := len(r.pixels)
	rowInked := make([]bool, height)
	colInked := make([]bool, r.width)
	any := false
	for i, row := range r.pixels {
		for j, bit := range row {
			if bit {
				rowInked[i] = true
				colInked[j] = true
				any = true
			}
		}
	}
	if !any {
		return Bounds{Left: r.width, Bottom: height}
	}
	var b Bounds
	for !colInked[b.Left] {
		b.Left++
	}
	for !colInked[r.width-1-b.Right] {
		b.Right++
	}
	for !rowInked[b.Top] {
		b.Top++
	}
	for !rowInked[height-1-b.Bottom] {
		b.Bottom++
	}
	return b
}

// Equal compares two rasters pixel by pixel.
func (r Raster) Equal(other Raster) bool {
	if r.width != other.width || len(r.pixels) != len(other.pixels) {
		return false
	}
	for i, row := range r.pixels {
		for j, bit := range row {
			if bit != other.pixels[i][j] {
				return false
			}
		}
	}
	return true
}

// Matrix returns a copy of the pixel matrix, top to bottom.
func (r Raster) Matrix() [][]bool {
	rows := make([][]bool, len(r.pixels))
	for i, row := range r.pixels {
		rows[i] = make([]bool, len(row))
		copy(rows[i], row)
	}
	return rows
}

// fresh wraps a pixel matrix without copying. Callers must hand over
// ownership of rows they will not touch again.
func fresh(pixels [][]bool, width int) Raster {
	return Raster{pixels: pixels, width: width}
}

// --- Orthogonal transformations --------------------------------------------

// Mirror reverses the pixels of each row horizontally.
func (r Raster) Mirror() Raster {
	pixels := make([][]bool, len(r.pixels))
	for i, row := range r.pixels {
		rev := make([]bool, len(row))
		for j, bit := range row {
			rev[len(row)-1-j] = bit
		}
		pixels[i] = rev
	}
	return fresh(pixels, r.width)
}

// Flip reverses the row order vertically.
func (r Raster) Flip() Raster {
	pixels := make([][]bool, len(r.pixels))
	for i, row := range r.pixels {
		cp := make([]bool, len(row))
		copy(cp, row)
		pixels[len(r.pixels)-1-i] = cp
	}
	return fresh(pixels, r.width)
}

// Transpose swaps rows and columns.
func (r Raster) Transpose() Raster {
	height := len(r.pixels)
	pixels := make([][]bool, r.width)
	for j := 0; j < r.width; j++ {
		col := make([]bool, height)
		for i := 0; i < height; i++ {
			col[i] = r.pixels[i][j]
		}
		pixels[j] = col
	}
	return fresh(pixels, height)
}

// Turn rotates by 90-degree turns, clockwise for positive amounts and
// anti-clockwise for negative ones.
func (r Raster) Turn(clockwise int) Raster {
	switch ((clockwise % 4) + 4) % 4 {
	case 1:
		return r.Transpose().Mirror()
	case 2:
		return r.Mirror().Flip()
	case 3:
		return r.Transpose().Flip()
	}
	return r
}

// --- Ink shifts on constant raster size -------------------------------------

// Roll cycles rows and/or columns: down if positive, up if negative;
// right if positive, left if negative.
func (r Raster) Roll(down, right int) Raster {
	height := len(r.pixels)
	pixels := r.Matrix()
	if height > 1 && down != 0 {
		d := ((down % height) + height) % height
		pixels = append(pixels[height-d:], pixels[:height-d]...)
	}
	if r.width > 1 && right != 0 {
		c := ((right % r.width) + r.width) % r.width
		for i, row := range pixels {
			pixels[i] = append(append([]bool{}, row[r.width-c:]...), row[:r.width-c]...)
		}
	}
	return fresh(pixels, r.width)
}

// Shift moves rows and/or columns by non-negative amounts, filling the
// exposed area with paper.
func (r Raster) Shift(left, down, right, up int) (Raster, error) {
	if left < 0 || down < 0 || right < 0 || up < 0 {
		return Raster{}, core.Error(core.EINVALID,
			"can only shift raster by a positive amount")
	}
	height := len(r.pixels)
	rows := down - up
	columns := right - left
	pixels := make([][]bool, height)
	for i := range pixels {
		src := i - rows
		row := make([]bool, r.width)
		if src >= 0 && src < height {
			for j := range row {
				srcCol := j - columns
				if srcCol >= 0 && srcCol < r.width {
					row[j] = r.pixels[src][srcCol]
				}
			}
		}
		pixels[i] = row
	}
	return fresh(pixels, r.width), nil
}

// --- Raster size changes -----------------------------------------------------

// Crop removes the stated number of edge pixels.
func (r Raster) Crop(left, bottom, right, top int) (Raster, error) {
	if left < 0 || bottom < 0 || right < 0 || top < 0 {
		return Raster{}, core.Error(core.EINVALID,
			"can only crop raster by a positive amount")
	}
	height := len(r.pixels)
	if height-top-bottom <= 0 {
		return Blank(max(0, r.width-right-left), 0), nil
	}
	newWidth := max(0, r.width-left-right)
	pixels := make([][]bool, 0, height-top-bottom)
	for i := top; i < height-bottom; i++ {
		row := make([]bool, newWidth)
		for j := 0; j < newWidth; j++ {
			if left+j < r.width {
				row[j] = r.pixels[i][left+j]
			}
		}
		pixels = append(pixels, row)
	}
	return fresh(pixels, newWidth), nil
}

// Expand pads the raster with paper.
func (r Raster) Expand(left, bottom, right, top int) (Raster, error) {
	if left < 0 || bottom < 0 || right < 0 || top < 0 {
		return Raster{}, core.Error(core.EINVALID,
			"can only expand raster by a positive amount")
	}
	height := len(r.pixels)
	if top+height+bottom == 0 {
		return Blank(left+r.width+right, 0), nil
	}
	newWidth := left + r.width + right
	pixels := make([][]bool, 0, top+height+bottom)
	for i := 0; i < top; i++ {
		pixels = append(pixels, make([]bool, newWidth))
	}
	for _, row := range r.pixels {
		padded := make([]bool, newWidth)
		copy(padded[left:], row)
		pixels = append(pixels, padded)
	}
	for i := 0; i < bottom; i++ {
		pixels = append(pixels, make([]bool, newWidth))
	}
	return fresh(pixels, newWidth), nil
}

// Stretch replicates each column fx times and each row fy times.
func (r Raster) Stretch(fx, fy int) Raster {
	if fx < 1 {
		fx = 1
	}
	if fy < 1 {
		fy = 1
	}
	pixels := make([][]bool, 0, len(r.pixels)*fy)
	for _, row := range r.pixels {
		wide := make([]bool, 0, r.width*fx)
		for _, bit := range row {
			for k := 0; k < fx; k++ {
				wide = append(wide, bit)
			}
		}
		for k := 0; k < fy; k++ {
			cp := make([]bool, len(wide))
			copy(cp, wide)
			pixels = append(pixels, cp)
		}
	}
	return fresh(pixels, r.width*fx)
}

// Shrink takes every fx-th column and every fy-th row.
func (r Raster) Shrink(fx, fy int) Raster {
	if fx < 1 {
		fx = 1
	}
	if fy < 1 {
		fy = 1
	}
	newWidth := 0
	if r.width > 0 {
		newWidth = (r.width + fx - 1) / fx
	}
	pixels := make([][]bool, 0, (len(r.pixels)+fy-1)/fy)
	for i := 0; i < len(r.pixels); i += fy {
		row := make([]bool, 0, newWidth)
		for j := 0; j < r.width; j += fx {
			row = append(row, r.pixels[i][j])
		}
		pixels = append(pixels, row)
	}
	return fresh(pixels, newWidth)
}

// Concatenate joins rasters of equal height left to right. Zero-width
// rasters are dropped; the empty call yields the empty raster.
func Concatenate(rasters ...Raster) (Raster, error) {
	nonempty := rasters[:0:0]
	for _, r := range rasters {
		if r.width > 0 {
			nonempty = append(nonempty, r)
		}
	}
	if len(nonempty) == 0 {
		return Raster{}, nil
	}
	height := len(nonempty[0].pixels)
	width := 0
	for _, r := range nonempty {
		if len(r.pixels) != height {
			return Raster{}, core.Error(core.EINVALID,
				"rasters must be of same height")
		}
		width += r.width
	}
	pixels := make([][]bool, height)
	for i := range pixels {
		row := make([]bool, 0, width)
		for _, r := range nonempty {
			row = append(row, r.pixels[i]...)
		}
		pixels[i] = row
	}
	return fresh(pixels, width), nil
}

// --- Effects -----------------------------------------------------------------

// Combiner aggregates the pixels at one position of several overlaid rasters.
type Combiner func(bits []bool) bool

// OpAny is the union (OR) combiner.
func OpAny(bits []bool) bool {
	for _, b := range bits {
		if b {
			return true
		}
	}
	return false
}

// OpAll is the intersection (AND) combiner.
func OpAll(bits []bool) bool {
	for _, b := range bits {
		if !b {
			return false
		}
	}
	return true
}

// Overlay combines the receiver with equal-sized rasters pointwise.
func (r Raster) Overlay(op Combiner, others ...Raster) (Raster, error) {
	height := len(r.pixels)
	for _, o := range others {
		if o.width != r.width || len(o.pixels) != height {
			return Raster{}, core.Error(core.EINVALID,
				"can only overlay equal-sized rasters")
		}
	}
	pixels := make([][]bool, height)
	stack := make([]bool, len(others)+1)
	for i := 0; i < height; i++ {
		row := make([]bool, r.width)
		for j := 0; j < r.width; j++ {
			stack[0] = r.pixels[i][j]
			for k, o := range others {
				stack[k+1] = o.pixels[i][j]
			}
			row[j] = op(stack)
		}
		pixels[i] = row
	}
	return fresh(pixels, r.width), nil
}

// Invert swaps ink and paper.
func (r Raster) Invert() Raster {
	pixels := make([][]bool, len(r.pixels))
	for i, row := range r.pixels {
		inv := make([]bool, len(row))
		for j, bit := range row {
			inv[j] = !bit
		}
		pixels[i] = inv
	}
	return fresh(pixels, r.width)
}

// Smear repeatedly unions the raster with copies of itself shifted by each
// unit up to the given counts.
func (r Raster) Smear(left, right, up, down int) Raster {
	work := r
	work = work.smearDir(left, func(w Raster, n int) (Raster, error) { return w.Shift(n, 0, 0, 0) })
	work = work.smearDir(right, func(w Raster, n int) (Raster, error) { return w.Shift(0, 0, n, 0) })
	work = work.smearDir(up, func(w Raster, n int) (Raster, error) { return w.Shift(0, 0, 0, n) })
	work = work.smearDir(down, func(w Raster, n int) (Raster, error) { return w.Shift(0, n, 0, 0) })
	return work
}

func (r Raster) smearDir(count int, shift func(Raster, int) (Raster, error)) Raster {
	shifted := make([]Raster, 0, count)
	for i := 1; i <= count; i++ {
		s, err := shift(r, i)
		if err != nil {
			return r
		}
		shifted = append(shifted, s)
	}
	if len(shifted) == 0 {
		return r
	}
	out, err := r.Overlay(OpAny, shifted...)
	if err != nil {
		return r
	}
	return out
}

// ShearDirection selects the direction of a diagonal shear.
type ShearDirection int

// Shear directions.
const (
	ShearLeft ShearDirection = iota
	ShearRight
)

// Shear translates each row diagonally by floor((y*xpitch + modulo)/ypitch)
// pixels, counting y from the bottom row, and fills the exposed area with
// paper. When modulo equals ypitch the offsets are reduced by one.
func (r Raster) Shear(dir ShearDirection, xpitch, ypitch, modulo int) (Raster, error) {
	if ypitch == 0 {
		return Raster{}, core.Error(core.EINVALID, "shear pitch must be nonzero")
	}
	height := len(r.pixels)
	pixels := make([][]bool, height)
	for i := 0; i < height; i++ {
		y := height - 1 - i
		offset := (y*xpitch + modulo) / ypitch
		if modulo == ypitch {
			offset--
		}
		if offset < 0 {
			offset = 0
		}
		if offset > r.width {
			offset = r.width
		}
		row := make([]bool, r.width)
		if dir == ShearLeft {
			copy(row, r.pixels[i][offset:])
		} else {
			copy(row[offset:], r.pixels[i][:r.width-offset])
		}
		pixels[i] = row
	}
	return fresh(pixels, r.width), nil
}

// Underline sets every pixel in the inclusive row band
// [H-1-top, H-1-bottom] to ink.
func (r Raster) Underline(top, bottom int) Raster {
	if bottom > top {
		return r
	}
	height := len(r.pixels)
	top = min(height, max(0, top))
	bottom = min(height, max(0, bottom))
	pixels := make([][]bool, height)
	for i, row := range r.pixels {
		cp := make([]bool, len(row))
		if top >= height-i-1 && height-i-1 >= bottom {
			for j := range cp {
				cp[j] = true
			}
		} else {
			copy(cp, row)
		}
		pixels[i] = cp
	}
	return fresh(pixels, r.width)
}
