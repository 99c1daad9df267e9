package simd

import "math"

const (
	Pi     = 3.14159265358979323846
	TwoPi  = 2 * Pi
	InvPi  = 1.0 / Pi
	HalfPi = Pi / 2
)

// Degree-11 odd minimax polynomial coefficients for sine on [-pi/2, pi/2].
const (
	sinC0 = 9.9999970197e-01
	sinC1 = -1.6666577756e-01
	sinC2 = 8.3325579762e-03
	sinC3 = -1.9812576647e-04
	sinC4 = 2.7040521217e-06
	sinC5 = -2.0532988642e-08
)

// Sin approximates sine with absolute error below 2e-6 on [-pi, pi].
func Sin(x float32) float32 {
	// range reduction by multiples of pi
	i := int32(x * (1.0 / Pi))
	x -= float32(i) * Pi

	x2 := x * x

	y := x * (sinC0 + x2*(sinC1+x2*(sinC2+x2*(sinC3+x2*(sinC4+x2*sinC5)))))

	if i&1 != 0 {
		return -y
	}
	return y
}

// Cos approximates cosine via the shifted sine polynomial.
func Cos(x float32) float32 {
	return Sin(x + HalfPi)
}

// SinCos returns both sine and cosine of x.
func SinCos(x float32) (sin, cos float32) {
	return Sin(x), Sin(x + HalfPi)
}

// Sin4 evaluates the sine polynomial on all four lanes.
func Sin4(a Float4) Float4 {
	i := ConvertFloat4(a.Scale(1.0 / Pi))
	x := i.ConvertToFloat().NegMulAdd(SplatFloat4(Pi), a)

	x2 := x.Mul(x)

	y := SplatFloat4(sinC5).MulAdd(x2, SplatFloat4(sinC4))
	y = y.MulAdd(x2, SplatFloat4(sinC3))
	y = y.MulAdd(x2, SplatFloat4(sinC2))
	y = y.MulAdd(x2, SplatFloat4(sinC1))
	y = y.MulAdd(x2, SplatFloat4(sinC0))
	y = y.Mul(x)

	// equivalent of: (i & 1) ? -y : y
	return y.CastToInt().Xor(i.ShiftLeft(31)).CastToFloat()
}

// Sin8 evaluates the sine polynomial on all eight lanes.
func Sin8(a Float8) Float8 {
	i := ConvertFloat8(a.Scale(1.0 / Pi))
	x := i.ConvertToFloat().NegMulAdd(SplatFloat8(Pi), a)

	x2 := x.Mul(x)

	y := SplatFloat8(sinC5).MulAdd(x2, SplatFloat8(sinC4))
	y = y.MulAdd(x2, SplatFloat8(sinC3))
	y = y.MulAdd(x2, SplatFloat8(sinC2))
	y = y.MulAdd(x2, SplatFloat8(sinC1))
	y = y.MulAdd(x2, SplatFloat8(sinC0))
	y = y.Mul(x)

	return y.CastToInt().Xor(i.ShiftLeft(31)).CastToFloat()
}

// Cos8 evaluates cosine on all eight lanes.
func Cos8(a Float8) Float8 {
	return Sin8(a.Add(SplatFloat8(HalfPi)))
}

// FastACos approximates arccosine, absolute error below 7e-5.
func FastACos(x float32) float32 {
	negate := float32(0)
	if x < 0 {
		negate = 1
	}
	x = abs32(x)
	ret := float32(-0.0187293)
	ret = ret*x + 0.0742610
	ret = ret*x - 0.2121144
	ret = ret*x + 1.5707288
	ret = ret * sqrt32(1.0-x)
	ret = ret - 2*negate*ret
	return negate*Pi + ret
}

// FastExp approximates e^x with relative error below 0.2% on [-87, 87].
func FastExp(x float32) float32 {
	if x > 87 {
		return float32(math.Inf(1))
	}
	if x < -87 {
		return 0
	}

	t := x * 1.442695041
	fi := float32(math.Floor(float64(t)))
	i := int32(fi)
	f := t - fi

	bits := math.Float32bits((0.3371894346*f+0.657636276)*f + 1.00172476)
	return math.Float32frombits(uint32(int32(bits) + i<<23))
}

// FastExp8 evaluates FastExp on all eight lanes.
func FastExp8(a Float8) Float8 {
	t := a.Scale(1.442695041)
	fi := t.Floor()
	i := ConvertFloat8(fi)
	f := t.Sub(fi)

	y := f.MulAdd(SplatFloat8(0.3371894346), SplatFloat8(0.657636276))
	y = f.MulAdd(y, SplatFloat8(1.00172476))

	y = y.CastToInt().Add(i.ShiftLeft(23)).CastToFloat()

	rng := SplatFloat8(87)
	y = Select8(y, Float8Zero(), a.Neg().Greater(rng))
	y = Select8(y, SplatFloat8(float32(math.Inf(1))), a.Greater(rng))
	return y
}

// Log approximates the natural logarithm, relative error below 1e-6.
func Log(x float32) float32 {
	// range reduction
	e := (int32(math.Float32bits(x)) - 0x3f2aaaab) & int32(-0x800000)
	m := math.Float32frombits(uint32(int32(math.Float32bits(x)) - e))
	i := 1.19209290e-7 * float32(e)

	f := m - 1.0
	s := f * f

	// compute log1p(f) for f in [-1/3, 1/3]
	r := -0.130187988*f + 0.140889585
	t := -0.121489584*f + 0.139809534
	r = r*s + t
	r = r*f - 0.166845024
	r = r*f + 0.200121149
	r = r*f - 0.249996364
	r = r*f + 0.333331943
	r = r*f - 0.5
	r = r*s + f
	r = i*0.693147182 + r
	return r
}

// FastLog approximates the natural logarithm with relative error below
// 0.07% on [1e-30, 1e30].
func FastLog(x float32) float32 {
	e := (int32(math.Float32bits(x)) - 0x3f2aaaab) & int32(-0x800000)
	m := math.Float32frombits(uint32(int32(math.Float32bits(x)) - e))
	i := 1.19209290e-7 * float32(e)

	f := m - 1.0
	s := f * f

	r := 0.230836749*f - 0.279208571
	t := 0.331826031*f - 0.498910338
	r = r*s + t
	r = r*s + f
	r = i*0.693147182 + r
	return r
}

// FastLog4 evaluates FastLog on all four lanes.
func FastLog4(a Float4) Float4 {
	bias := SplatInt4(0x3f2aaaab)
	expMask := SplatInt4(int32(-0x800000))

	e := a.CastToInt().Sub(bias).And(expMask)
	m := a.CastToInt().Sub(e).CastToFloat()
	i := e.ConvertToFloat().Scale(1.19209290e-7)

	f := m.Sub(Float4One())
	s := f.Mul(f)

	r := f.MulAdd(SplatFloat4(0.230836749), SplatFloat4(-0.279208571))
	t := f.MulAdd(SplatFloat4(0.331826031), SplatFloat4(-0.498910338))
	r = r.MulAdd(s, t)
	r = r.MulAdd(s, f)
	r = i.MulAdd(SplatFloat4(0.693147182), r)
	return r
}

// FastATan2 approximates atan2(y, x), absolute error below 5e-4.
func FastATan2(y, x float32) float32 {
	ax := abs32(x)
	ay := abs32(y)
	mx := max32(ay, ax)
	mn := min32(ay, ax)
	a := mn / mx

	// minimax polynomial approximation of atan(a) on [0, 1]
	s := a * a
	c := s * a
	q := s * s
	t := -0.094097948*q - 0.33213072
	r := 0.024840285*q + 0.18681418
	r = r*s + t
	r = r*c + a

	// map to the full circle
	if ay > ax {
		r = 1.57079637 - r
	}
	if x < 0 {
		r = Pi - r
	}
	if y < 0 {
		r = -r
	}
	return r
}
