package render

import (
	"ray-engine/math"
)

// Film accumulates sample contributions. Two buffers are kept: the primary
// sum and an optional secondary sum fed every other pass, which gives a
// variance estimate for adaptive rendering and convergence tests.
//
// Writes are plain stores: tiles partition the film between workers and
// the box-filter jitter is clamped to the tile, so no two workers ever
// touch the same pixel within a pass.
type Film struct {
	width  int
	height int

	sum          []math.Vec3
	secondarySum []math.Vec3

	numPasses uint32
}

func NewFilm(width, height int, withSecondary bool) *Film {
	film := &Film{
		width:  width,
		height: height,
		sum:    make([]math.Vec3, width*height),
	}
	if withSecondary {
		film.secondarySum = make([]math.Vec3, width*height)
	}
	return film
}

func (f *Film) Width() int        { return f.width }
func (f *Film) Height() int       { return f.height }
func (f *Film) NumPasses() uint32 { return f.numPasses }

// Clear zeroes both accumulation buffers.
func (f *Film) Clear() {
	for i := range f.sum {
		f.sum[i] = math.Vec3Zero
	}
	for i := range f.secondarySum {
		f.secondarySum[i] = math.Vec3Zero
	}
	f.numPasses = 0
}

// EndPass bumps the pass counter.
func (f *Film) EndPass() {
	f.numPasses++
}

// AccumulateColor adds a sample to the pixel (x, y).
func (f *Film) AccumulateColor(x, y int, value math.Vec3, toSecondary bool) {
	index := y*f.width + x
	f.sum[index] = f.sum[index].Add(value)
	if toSecondary && f.secondarySum != nil {
		f.secondarySum[index] = f.secondarySum[index].Add(value)
	}
}

// AccumulateSample adds a sample at continuous film coordinates. With
// probability equal to the fractional pixel position the sample snaps to
// the next pixel, which realizes a 2x2 box filter; the snap is clamped to
// the tile so workers never cross into another worker's pixels.
func (f *Film) AccumulateSample(coords math.Vec2, value math.Vec3, tile TileRect, random *math.Random, toSecondary bool) {
	fx := coords.X*float32(f.width) + 0.0
	fy := coords.Y*float32(f.height) + 0.5

	x := int(fx)
	y := int(fy)

	u := random.GetVec2()
	if u.X < fx-float32(x) {
		x++
	}
	if u.Y < fy-float32(y) {
		y++
	}

	if x < tile.X0 {
		x = tile.X0
	}
	if x >= tile.X1 {
		x = tile.X1 - 1
	}
	if y < tile.Y0 {
		y = tile.Y0
	}
	if y >= tile.Y1 {
		y = tile.Y1 - 1
	}

	f.AccumulateColor(x, y, value, toSecondary)
}

// Pixel returns the average accumulated value of a pixel.
func (f *Film) Pixel(x, y int) math.Vec3 {
	if f.numPasses == 0 {
		return math.Vec3Zero
	}
	return f.sum[y*f.width+x].Mul(1 / float32(f.numPasses))
}

// Sum returns the raw primary accumulation buffer.
func (f *Film) Sum() []math.Vec3 {
	return f.sum
}

// SecondarySum returns the raw secondary buffer, or nil.
func (f *Film) SecondarySum() []math.Vec3 {
	return f.secondarySum
}
