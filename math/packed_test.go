package math

import (
	"math"
	"testing"
)

func TestPackedUnitVector3RoundTrip(t *testing.T) {
	const maxAngularError = 0.017 // about one degree

	worst := float32(0)
	for _, v := range randomUnitVectors(5000) {
		packed := PackUnitVector3(v)
		back := packed.ToVector()

		dot := Clamp(v.Dot(back), -1, 1)
		angle := float32(math.Acos(float64(dot)))
		if angle > worst {
			worst = angle
		}
	}

	if worst > maxAngularError {
		t.Errorf("octahedral round trip: max angular error %v rad, want <= %v", worst, maxAngularError)
	}
}

func TestPackedUnitVector3Axes(t *testing.T) {
	axes := []Vec3{
		{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1},
	}
	for _, axis := range axes {
		back := PackUnitVector3(axis).ToVector()
		if back.Sub(axis).Length() > 1e-3 {
			t.Errorf("axis %v decoded as %v", axis, back)
		}
	}
}

func TestPackedColorRgbHdrRoundTrip(t *testing.T) {
	random := NewRandomSeeded(2718)
	const maxRelError = 2e-4

	for i := 0; i < 5000; i++ {
		// log-uniform magnitudes across [1e-3, 1e3]
		mag := float32(math.Pow(10, float64(random.GetFloatBipolar()*3)))
		c := Vec3{
			X: (0.05 + random.GetFloat()) * mag,
			Y: (0.05 + random.GetFloat()) * mag,
			Z: (0.05 + random.GetFloat()) * mag,
		}

		back := PackColorRgbHdr(c).ToVector()

		for axis := 0; axis < 3; axis++ {
			want := c.Component(axis)
			got := back.Component(axis)
			if Abs(got-want) > maxRelError*Max(want, mag) {
				t.Fatalf("channel %d: %v decoded as %v (input %v)", axis, want, got, c)
			}
		}
	}
}

func TestHalfRoundTripExact(t *testing.T) {
	// every finite half value must convert to float and back unchanged
	for bits := 0; bits < 0x10000; bits++ {
		h := Half(bits)
		exponent := bits & 0x7c00
		mantissa := bits & 0x03ff
		if exponent == 0x7c00 && mantissa != 0 {
			continue // NaN patterns compare by class below
		}

		back := HalfFromFloat(h.ToFloat())
		if back != h && !(h == 0x8000 && back == 0) {
			t.Fatalf("half bits %#04x -> %v -> %#04x", bits, h.ToFloat(), uint16(back))
		}
	}
}

func TestHalfSpecials(t *testing.T) {
	posInf := HalfFromFloat(float32(math.Inf(1)))
	if posInf != 0x7c00 {
		t.Errorf("+Inf: expected 0x7c00, got %#04x", uint16(posInf))
	}
	negInf := HalfFromFloat(float32(math.Inf(-1)))
	if negInf != 0xfc00 {
		t.Errorf("-Inf: expected 0xfc00, got %#04x", uint16(negInf))
	}

	nan := HalfFromFloat(float32(math.NaN()))
	if nan&0x7c00 != 0x7c00 || nan&0x03ff == 0 {
		t.Errorf("NaN: got %#04x, not a half NaN", uint16(nan))
	}
	if !math.IsNaN(float64(Half(0x7e00).ToFloat())) {
		t.Error("half NaN did not decode to float NaN")
	}
	if !math.IsInf(float64(Half(0x7c00).ToFloat()), 1) {
		t.Error("half +Inf did not decode to float +Inf")
	}
}

func TestHalfCommonValues(t *testing.T) {
	cases := []float32{0, 1, -1, 0.5, 2, 65504, -65504, 0.000061035156}
	for _, value := range cases {
		got := HalfFromFloat(value).ToFloat()
		if got != value {
			t.Errorf("half(%v): decoded as %v", value, got)
		}
	}
}

func TestSharedExpFloat3(t *testing.T) {
	// x=y=z=256 (max mantissa 511 is 9 bits), exponent chosen for 1.0:
	// value = m * 2^(e-24), so m=256, e=16 gives 256 * 2^-8 = 1.0
	encoded := SharedExpFloat3(uint32(256) | uint32(256)<<9 | uint32(256)<<18 | uint32(16)<<27)
	v := encoded.ToVector()
	want := Vec3{X: 1, Y: 1, Z: 1}
	if v.Sub(want).Length() > 1e-6 {
		t.Errorf("shared-exp decode: expected %v, got %v", want, v)
	}
}

func TestPacked565(t *testing.T) {
	p := NewPacked565(31, 63, 31)
	if p.X() != 31 || p.Y() != 63 || p.Z() != 31 {
		t.Errorf("565 full white: got (%d, %d, %d)", p.X(), p.Y(), p.Z())
	}

	p = NewPacked565(10, 20, 30)
	if p.X() != 10 || p.Y() != 20 || p.Z() != 30 {
		t.Errorf("565 channels: got (%d, %d, %d)", p.X(), p.Y(), p.Z())
	}
}
