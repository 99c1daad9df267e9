package math

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math"
	"math/bits"

	"ray-engine/simd"
)

// Random is a non-cryptographic generator for Monte Carlo sampling. The
// scalar path is xoroshiro128+; the 4-wide and 8-wide paths run xorshift128+
// per lane pair. Not safe for concurrent use: every worker owns one.
type Random struct {
	seed  [2]uint64
	seed4 [2][2]uint64
	seed8 [2][4]uint64
}

// NewRandom seeds a generator from the system entropy source.
func NewRandom() *Random {
	r := &Random{}
	r.Reset()
	return r
}

// NewRandomSeeded seeds a generator deterministically.
func NewRandomSeeded(seed uint64) *Random {
	r := &Random{}
	// SplitMix64 expansion so a single word seeds every stream
	state := seed
	next := func() uint64 {
		state += 0x9e3779b97f4a7c15
		z := state
		z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
		z = (z ^ (z >> 27)) * 0x94d049bb133111eb
		return z ^ (z >> 31)
	}
	for i := 0; i < 2; i++ {
		r.seed[i] = next()
		for j := 0; j < 2; j++ {
			r.seed4[i][j] = next()
		}
		for j := 0; j < 4; j++ {
			r.seed8[i][j] = next()
		}
	}
	return r
}

// Reset reseeds all streams from the entropy source.
func (r *Random) Reset() {
	var buf [8]byte
	entropy := func() uint64 {
		if _, err := cryptorand.Read(buf[:]); err != nil {
			// fall back to a fixed seed; sampling quality degrades but
			// rendering stays functional
			return 0x853c49e6748fea9b
		}
		return binary.LittleEndian.Uint64(buf[:])
	}
	for i := 0; i < 2; i++ {
		r.seed[i] = entropy()
		for j := 0; j < 2; j++ {
			r.seed4[i][j] = entropy()
		}
		for j := 0; j < 4; j++ {
			r.seed8[i][j] = entropy()
		}
	}
}

// Fork derives an independent generator for a worker by mixing in its id.
func (r *Random) Fork(workerID uint64) *Random {
	return NewRandomSeeded(r.seed[0] ^ (workerID+1)*0xa0761d6478bd642f)
}

// GetLong advances the scalar xoroshiro128+ stream.
func (r *Random) GetLong() uint64 {
	s0 := r.seed[0]
	s1 := r.seed[1]
	result := s0 + s1

	s1 ^= s0
	r.seed[0] = bits.RotateLeft64(s0, 24) ^ s1 ^ (s1 << 16)
	r.seed[1] = bits.RotateLeft64(s1, 37)

	return result
}

func (r *Random) GetInt() uint32 {
	return uint32(r.GetLong())
}

// GetFloat returns a sample from [0, 1).
func (r *Random) GetFloat() float32 {
	u := (r.GetInt() & 0x007fffff) | 0x3f800000
	return math.Float32frombits(u) - 1
}

// GetFloatBipolar returns a sample from [-1, 1).
func (r *Random) GetFloatBipolar() float32 {
	u := (r.GetInt() & 0x007fffff) | 0x40000000
	return math.Float32frombits(u) - 3
}

func (r *Random) GetVec2() Vec2 {
	return Vec2{X: r.GetFloat(), Y: r.GetFloat()}
}

func (r *Random) GetVec3() Vec3 {
	v := r.GetFloat4()
	return Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// xorshift128+ step over a pair of 64-bit lanes.
func xorshift128plus(s *[2]uint64) uint64 {
	s1 := s[0]
	s0 := s[1]
	result := s0 + s1
	s[0] = s0
	s1 ^= s1 << 23
	s[1] = s1 ^ s0 ^ (s1 >> 18) ^ (s0 >> 5)
	return result
}

// GetInt4 advances the 4-wide xorshift128+ stream.
func (r *Random) GetInt4() simd.Int4 {
	var lanes [2]uint64
	for i := 0; i < 2; i++ {
		var s [2]uint64
		s[0] = r.seed4[0][i]
		s[1] = r.seed4[1][i]
		lanes[i] = xorshift128plus(&s)
		r.seed4[0][i] = s[0]
		r.seed4[1][i] = s[1]
	}
	return simd.NewInt4(
		int32(lanes[0]), int32(lanes[0]>>32),
		int32(lanes[1]), int32(lanes[1]>>32),
	)
}

// GetFloat4 returns four samples from [0, 1).
func (r *Random) GetFloat4() simd.Float4 {
	v := r.GetInt4()
	v = v.And(simd.SplatInt4(0x007fffff))
	v = v.Or(simd.SplatInt4(0x3f800000))
	return v.CastToFloat().Sub(simd.Float4One())
}

// GetInt8 advances the 8-wide xorshift128+ stream.
func (r *Random) GetInt8() simd.Int8 {
	var out simd.Int8
	for i := 0; i < 4; i++ {
		var s [2]uint64
		s[0] = r.seed8[0][i]
		s[1] = r.seed8[1][i]
		lane := xorshift128plus(&s)
		r.seed8[0][i] = s[0]
		r.seed8[1][i] = s[1]
		out[2*i] = int32(lane)
		out[2*i+1] = int32(lane >> 32)
	}
	return out
}

// GetFloat8 returns eight samples from [0, 1).
func (r *Random) GetFloat8() simd.Float8 {
	v := r.GetInt8()
	v = v.And(simd.SplatInt8(0x007fffff))
	v = v.Or(simd.SplatInt8(0x3f800000))
	return v.CastToFloat().Sub(simd.Float8One())
}
