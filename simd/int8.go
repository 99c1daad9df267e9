package simd

import "math"

// Int8 is an 8-wide 32-bit integer register.
type Int8 [8]int32

func NewInt8(e0, e1, e2, e3, e4, e5, e6, e7 int32) Int8 {
	return Int8{e0, e1, e2, e3, e4, e5, e6, e7}
}

// SplatInt8 broadcasts a scalar to all lanes.
func SplatInt8(v int32) Int8 {
	return Int8{v, v, v, v, v, v, v, v}
}

// Int8Iota returns {0, 1, 2, 3, 4, 5, 6, 7}.
func Int8Iota() Int8 {
	return Int8{0, 1, 2, 3, 4, 5, 6, 7}
}

func (a Int8) Add(b Int8) Int8 {
	var r Int8
	for i := 0; i < 8; i++ {
		r[i] = a[i] + b[i]
	}
	return r
}

func (a Int8) Sub(b Int8) Int8 {
	var r Int8
	for i := 0; i < 8; i++ {
		r[i] = a[i] - b[i]
	}
	return r
}

func (a Int8) And(b Int8) Int8 {
	var r Int8
	for i := 0; i < 8; i++ {
		r[i] = a[i] & b[i]
	}
	return r
}

func (a Int8) Or(b Int8) Int8 {
	var r Int8
	for i := 0; i < 8; i++ {
		r[i] = a[i] | b[i]
	}
	return r
}

func (a Int8) Xor(b Int8) Int8 {
	var r Int8
	for i := 0; i < 8; i++ {
		r[i] = a[i] ^ b[i]
	}
	return r
}

// ShiftLeft shifts each lane left by an immediate count.
func (a Int8) ShiftLeft(count uint) Int8 {
	var r Int8
	for i := 0; i < 8; i++ {
		r[i] = a[i] << count
	}
	return r
}

// ShiftRight performs a logical per-lane right shift.
func (a Int8) ShiftRight(count uint) Int8 {
	var r Int8
	for i := 0; i < 8; i++ {
		r[i] = int32(uint32(a[i]) >> count)
	}
	return r
}

// ConvertFloat8 truncates float lanes toward zero.
func ConvertFloat8(a Float8) Int8 {
	var r Int8
	for i := 0; i < 8; i++ {
		r[i] = int32(a[i])
	}
	return r
}

// ConvertToFloat converts lanes to float.
func (a Int8) ConvertToFloat() Float8 {
	var r Float8
	for i := 0; i < 8; i++ {
		r[i] = float32(a[i])
	}
	return r
}

// CastToFloat bit-casts the lanes to floats.
func (a Int8) CastToFloat() Float8 {
	var r Float8
	for i := 0; i < 8; i++ {
		r[i] = math.Float32frombits(uint32(a[i]))
	}
	return r
}

// SelectInt8 returns b[i] where mask lane i is set, a[i] otherwise.
func SelectInt8(a, b Int8, mask Bool8) Int8 {
	var r Int8
	for i := 0; i < 8; i++ {
		if mask.Get(i) {
			r[i] = b[i]
		} else {
			r[i] = a[i]
		}
	}
	return r
}
