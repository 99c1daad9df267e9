package simd

import "math"

// Float8 is an 8-wide float register.
type Float8 [8]float32

func NewFloat8(e0, e1, e2, e3, e4, e5, e6, e7 float32) Float8 {
	return Float8{e0, e1, e2, e3, e4, e5, e6, e7}
}

// SplatFloat8 broadcasts a scalar to all lanes.
func SplatFloat8(v float32) Float8 {
	return Float8{v, v, v, v, v, v, v, v}
}

func Float8Zero() Float8 { return Float8{} }
func Float8One() Float8  { return SplatFloat8(1) }

// Float8Iota returns {0, 1, 2, 3, 4, 5, 6, 7}.
func Float8Iota() Float8 {
	return Float8{0, 1, 2, 3, 4, 5, 6, 7}
}

func (a Float8) Add(b Float8) Float8 {
	var r Float8
	for i := 0; i < 8; i++ {
		r[i] = a[i] + b[i]
	}
	return r
}

func (a Float8) Sub(b Float8) Float8 {
	var r Float8
	for i := 0; i < 8; i++ {
		r[i] = a[i] - b[i]
	}
	return r
}

func (a Float8) Mul(b Float8) Float8 {
	var r Float8
	for i := 0; i < 8; i++ {
		r[i] = a[i] * b[i]
	}
	return r
}

func (a Float8) Div(b Float8) Float8 {
	var r Float8
	for i := 0; i < 8; i++ {
		r[i] = a[i] / b[i]
	}
	return r
}

func (a Float8) Scale(s float32) Float8 {
	var r Float8
	for i := 0; i < 8; i++ {
		r[i] = a[i] * s
	}
	return r
}

func (a Float8) Neg() Float8 {
	var r Float8
	for i := 0; i < 8; i++ {
		r[i] = -a[i]
	}
	return r
}

// MulAdd returns a*b + c per lane.
func (a Float8) MulAdd(b, c Float8) Float8 {
	var r Float8
	for i := 0; i < 8; i++ {
		r[i] = a[i]*b[i] + c[i]
	}
	return r
}

// MulSub returns a*b - c per lane.
func (a Float8) MulSub(b, c Float8) Float8 {
	var r Float8
	for i := 0; i < 8; i++ {
		r[i] = a[i]*b[i] - c[i]
	}
	return r
}

// NegMulAdd returns c - a*b per lane.
func (a Float8) NegMulAdd(b, c Float8) Float8 {
	var r Float8
	for i := 0; i < 8; i++ {
		r[i] = c[i] - a[i]*b[i]
	}
	return r
}

func (a Float8) Min(b Float8) Float8 {
	var r Float8
	for i := 0; i < 8; i++ {
		r[i] = min32(a[i], b[i])
	}
	return r
}

func (a Float8) Max(b Float8) Float8 {
	var r Float8
	for i := 0; i < 8; i++ {
		r[i] = max32(a[i], b[i])
	}
	return r
}

func (a Float8) Abs() Float8 {
	var r Float8
	for i := 0; i < 8; i++ {
		r[i] = abs32(a[i])
	}
	return r
}

func (a Float8) Sqrt() Float8 {
	var r Float8
	for i := 0; i < 8; i++ {
		r[i] = sqrt32(a[i])
	}
	return r
}

func (a Float8) Rsqrt() Float8 {
	var r Float8
	for i := 0; i < 8; i++ {
		r[i] = 1 / sqrt32(a[i])
	}
	return r
}

func (a Float8) Floor() Float8 {
	var r Float8
	for i := 0; i < 8; i++ {
		r[i] = float32(math.Floor(float64(a[i])))
	}
	return r
}

// Reciprocal returns exact 1/a per lane.
func (a Float8) Reciprocal() Float8 {
	var r Float8
	for i := 0; i < 8; i++ {
		r[i] = 1 / a[i]
	}
	return r
}

// FastReciprocal approximates 1/a with one Newton-Raphson refinement step.
func (a Float8) FastReciprocal() Float8 {
	var r Float8
	for i := 0; i < 8; i++ {
		r[i] = fastRcp(a[i])
	}
	return r
}

// Fmod1 returns the fractional part of each lane.
func (a Float8) Fmod1() Float8 {
	var r Float8
	for i := 0; i < 8; i++ {
		r[i] = a[i] - float32(math.Floor(float64(a[i])))
	}
	return r
}

func (a Float8) Less(b Float8) Bool8 {
	var m Bool8
	for i := 0; i < 8; i++ {
		if a[i] < b[i] {
			m |= 1 << uint(i)
		}
	}
	return m
}

func (a Float8) LessEq(b Float8) Bool8 {
	var m Bool8
	for i := 0; i < 8; i++ {
		if a[i] <= b[i] {
			m |= 1 << uint(i)
		}
	}
	return m
}

func (a Float8) Greater(b Float8) Bool8   { return b.Less(a) }
func (a Float8) GreaterEq(b Float8) Bool8 { return b.LessEq(a) }

// Select returns b[i] where mask lane i is set, a[i] otherwise.
func Select8(a, b Float8, mask Bool8) Float8 {
	var r Float8
	for i := 0; i < 8; i++ {
		if mask.Get(i) {
			r[i] = b[i]
		} else {
			r[i] = a[i]
		}
	}
	return r
}

func (a Float8) HorizontalMin() float32 {
	m := a[0]
	for i := 1; i < 8; i++ {
		m = min32(m, a[i])
	}
	return m
}

func (a Float8) HorizontalMax() float32 {
	m := a[0]
	for i := 1; i < 8; i++ {
		m = max32(m, a[i])
	}
	return m
}

func (a Float8) HorizontalSum() float32 {
	var s float32
	for i := 0; i < 8; i++ {
		s += a[i]
	}
	return s
}

// SignMask extracts the sign bit of each lane into a bit mask.
func (a Float8) SignMask() Bool8 {
	var m Bool8
	for i := 0; i < 8; i++ {
		if math.Float32bits(a[i])&0x80000000 != 0 {
			m |= 1 << uint(i)
		}
	}
	return m
}

// CastToInt bit-casts the lanes to integers.
func (a Float8) CastToInt() Int8 {
	var r Int8
	for i := 0; i < 8; i++ {
		r[i] = int32(math.Float32bits(a[i]))
	}
	return r
}

// GatherFloat8 loads base[idx[i]] into each lane.
func GatherFloat8(base []float32, idx Int8) Float8 {
	var r Float8
	for i := 0; i < 8; i++ {
		r[i] = base[idx[i]]
	}
	return r
}

// Permute reorders lanes by per-lane variable indices (low 3 bits used).
func (a Float8) Permute(idx Int8) Float8 {
	var r Float8
	for i := 0; i < 8; i++ {
		r[i] = a[idx[i]&7]
	}
	return r
}

func (a Float8) IsValid() bool {
	for i := 0; i < 8; i++ {
		if !isFinite32(a[i]) {
			return false
		}
	}
	return true
}
