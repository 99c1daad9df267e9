package simd

import "math"

// Int4 is a 4-wide 32-bit integer register.
type Int4 [4]int32

func NewInt4(x, y, z, w int32) Int4 {
	return Int4{x, y, z, w}
}

// SplatInt4 broadcasts a scalar to all lanes.
func SplatInt4(v int32) Int4 {
	return Int4{v, v, v, v}
}

func (a Int4) Add(b Int4) Int4 {
	return Int4{a[0] + b[0], a[1] + b[1], a[2] + b[2], a[3] + b[3]}
}

func (a Int4) Sub(b Int4) Int4 {
	return Int4{a[0] - b[0], a[1] - b[1], a[2] - b[2], a[3] - b[3]}
}

func (a Int4) And(b Int4) Int4 {
	return Int4{a[0] & b[0], a[1] & b[1], a[2] & b[2], a[3] & b[3]}
}

func (a Int4) Or(b Int4) Int4 {
	return Int4{a[0] | b[0], a[1] | b[1], a[2] | b[2], a[3] | b[3]}
}

func (a Int4) Xor(b Int4) Int4 {
	return Int4{a[0] ^ b[0], a[1] ^ b[1], a[2] ^ b[2], a[3] ^ b[3]}
}

// ShiftLeft shifts each lane left by an immediate count.
func (a Int4) ShiftLeft(count uint) Int4 {
	return Int4{a[0] << count, a[1] << count, a[2] << count, a[3] << count}
}

// ShiftRight performs a logical per-lane right shift.
func (a Int4) ShiftRight(count uint) Int4 {
	return Int4{
		int32(uint32(a[0]) >> count),
		int32(uint32(a[1]) >> count),
		int32(uint32(a[2]) >> count),
		int32(uint32(a[3]) >> count),
	}
}

// ConvertFloat4 truncates float lanes toward zero.
func ConvertFloat4(a Float4) Int4 {
	return Int4{int32(a[0]), int32(a[1]), int32(a[2]), int32(a[3])}
}

// ConvertToFloat converts lanes to float.
func (a Int4) ConvertToFloat() Float4 {
	return Float4{float32(a[0]), float32(a[1]), float32(a[2]), float32(a[3])}
}

// CastToFloat bit-casts the lanes to floats.
func (a Int4) CastToFloat() Float4 {
	return Float4{
		math.Float32frombits(uint32(a[0])),
		math.Float32frombits(uint32(a[1])),
		math.Float32frombits(uint32(a[2])),
		math.Float32frombits(uint32(a[3])),
	}
}

// SelectInt4 returns b[i] where mask lane i is set, a[i] otherwise.
func SelectInt4(a, b Int4, mask Bool4) Int4 {
	var r Int4
	for i := 0; i < 4; i++ {
		if mask.Get(i) {
			r[i] = b[i]
		} else {
			r[i] = a[i]
		}
	}
	return r
}
