package simd

import "math"

// Float4 is a 4-wide float register.
type Float4 [4]float32

func NewFloat4(x, y, z, w float32) Float4 {
	return Float4{x, y, z, w}
}

// SplatFloat4 broadcasts a scalar to all lanes.
func SplatFloat4(v float32) Float4 {
	return Float4{v, v, v, v}
}

func Float4Zero() Float4 { return Float4{} }
func Float4One() Float4  { return Float4{1, 1, 1, 1} }

func (a Float4) Add(b Float4) Float4 {
	return Float4{a[0] + b[0], a[1] + b[1], a[2] + b[2], a[3] + b[3]}
}

func (a Float4) Sub(b Float4) Float4 {
	return Float4{a[0] - b[0], a[1] - b[1], a[2] - b[2], a[3] - b[3]}
}

func (a Float4) Mul(b Float4) Float4 {
	return Float4{a[0] * b[0], a[1] * b[1], a[2] * b[2], a[3] * b[3]}
}

func (a Float4) Div(b Float4) Float4 {
	return Float4{a[0] / b[0], a[1] / b[1], a[2] / b[2], a[3] / b[3]}
}

func (a Float4) Scale(s float32) Float4 {
	return Float4{a[0] * s, a[1] * s, a[2] * s, a[3] * s}
}

func (a Float4) Neg() Float4 {
	return Float4{-a[0], -a[1], -a[2], -a[3]}
}

// MulAdd returns a*b + c per lane.
func (a Float4) MulAdd(b, c Float4) Float4 {
	return Float4{
		a[0]*b[0] + c[0],
		a[1]*b[1] + c[1],
		a[2]*b[2] + c[2],
		a[3]*b[3] + c[3],
	}
}

// MulSub returns a*b - c per lane.
func (a Float4) MulSub(b, c Float4) Float4 {
	return Float4{
		a[0]*b[0] - c[0],
		a[1]*b[1] - c[1],
		a[2]*b[2] - c[2],
		a[3]*b[3] - c[3],
	}
}

// NegMulAdd returns c - a*b per lane.
func (a Float4) NegMulAdd(b, c Float4) Float4 {
	return Float4{
		c[0] - a[0]*b[0],
		c[1] - a[1]*b[1],
		c[2] - a[2]*b[2],
		c[3] - a[3]*b[3],
	}
}

func (a Float4) Min(b Float4) Float4 {
	return Float4{min32(a[0], b[0]), min32(a[1], b[1]), min32(a[2], b[2]), min32(a[3], b[3])}
}

func (a Float4) Max(b Float4) Float4 {
	return Float4{max32(a[0], b[0]), max32(a[1], b[1]), max32(a[2], b[2]), max32(a[3], b[3])}
}

func (a Float4) Abs() Float4 {
	return Float4{abs32(a[0]), abs32(a[1]), abs32(a[2]), abs32(a[3])}
}

func (a Float4) Sqrt() Float4 {
	return Float4{sqrt32(a[0]), sqrt32(a[1]), sqrt32(a[2]), sqrt32(a[3])}
}

func (a Float4) Floor() Float4 {
	return Float4{
		float32(math.Floor(float64(a[0]))),
		float32(math.Floor(float64(a[1]))),
		float32(math.Floor(float64(a[2]))),
		float32(math.Floor(float64(a[3]))),
	}
}

// Reciprocal returns exact 1/a per lane.
func (a Float4) Reciprocal() Float4 {
	return Float4{1 / a[0], 1 / a[1], 1 / a[2], 1 / a[3]}
}

// FastReciprocal approximates 1/a with one Newton-Raphson refinement step.
func (a Float4) FastReciprocal() Float4 {
	var r Float4
	for i := 0; i < 4; i++ {
		r[i] = fastRcp(a[i])
	}
	return r
}

func (a Float4) Rsqrt() Float4 {
	return Float4{1 / sqrt32(a[0]), 1 / sqrt32(a[1]), 1 / sqrt32(a[2]), 1 / sqrt32(a[3])}
}

func (a Float4) Less(b Float4) Bool4 {
	var m Bool4
	for i := 0; i < 4; i++ {
		if a[i] < b[i] {
			m |= 1 << uint(i)
		}
	}
	return m
}

func (a Float4) LessEq(b Float4) Bool4 {
	var m Bool4
	for i := 0; i < 4; i++ {
		if a[i] <= b[i] {
			m |= 1 << uint(i)
		}
	}
	return m
}

func (a Float4) Greater(b Float4) Bool4   { return b.Less(a) }
func (a Float4) GreaterEq(b Float4) Bool4 { return b.LessEq(a) }

func (a Float4) Equal(b Float4) Bool4 {
	var m Bool4
	for i := 0; i < 4; i++ {
		if a[i] == b[i] {
			m |= 1 << uint(i)
		}
	}
	return m
}

// Select returns b[i] where mask lane i is set, a[i] otherwise.
func Select4(a, b Float4, mask Bool4) Float4 {
	var r Float4
	for i := 0; i < 4; i++ {
		if mask.Get(i) {
			r[i] = b[i]
		} else {
			r[i] = a[i]
		}
	}
	return r
}

func (a Float4) HorizontalMin() float32 {
	return min32(min32(a[0], a[1]), min32(a[2], a[3]))
}

func (a Float4) HorizontalMax() float32 {
	return max32(max32(a[0], a[1]), max32(a[2], a[3]))
}

func (a Float4) HorizontalSum() float32 {
	return a[0] + a[1] + a[2] + a[3]
}

func (a Float4) Dot2(b Float4) float32 {
	return a[0]*b[0] + a[1]*b[1]
}

func (a Float4) Dot3(b Float4) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func (a Float4) Dot4(b Float4) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] + a[3]*b[3]
}

// Cross3 treats the registers as xyz vectors; lane 3 is zeroed.
func (a Float4) Cross3(b Float4) Float4 {
	return Float4{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
		0,
	}
}

// SignMask extracts the sign bit of each lane into a bit mask.
func (a Float4) SignMask() Bool4 {
	var m Bool4
	for i := 0; i < 4; i++ {
		if math.Float32bits(a[i])&0x80000000 != 0 {
			m |= 1 << uint(i)
		}
	}
	return m
}

// CastToInt bit-casts the lanes to integers.
func (a Float4) CastToInt() Int4 {
	return Int4{
		int32(math.Float32bits(a[0])),
		int32(math.Float32bits(a[1])),
		int32(math.Float32bits(a[2])),
		int32(math.Float32bits(a[3])),
	}
}

// Shuffle reorders lanes by immediate indices.
func (a Float4) Shuffle(i0, i1, i2, i3 int) Float4 {
	return Float4{a[i0], a[i1], a[i2], a[i3]}
}

func (a Float4) IsValid() bool {
	for i := 0; i < 4; i++ {
		if !isFinite32(a[i]) {
			return false
		}
	}
	return true
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func abs32(a float32) float32 {
	return math.Float32frombits(math.Float32bits(a) &^ 0x80000000)
}

func sqrt32(a float32) float32 {
	return float32(math.Sqrt(float64(a)))
}

func isFinite32(a float32) bool {
	exp := math.Float32bits(a) & 0x7f800000
	return exp != 0x7f800000
}

// fastRcp is the scalar rcpps + one Newton-Raphson step equivalent: the
// estimate keeps 12 mantissa bits, as rcpps does.
func fastRcp(a float32) float32 {
	x := math.Float32frombits(math.Float32bits(1/a) &^ 0x7ff)
	return x * (2 - a*x)
}
