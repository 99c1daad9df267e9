package math

import "ray-engine/simd"

// PDF constants for the uniform samplers.

func UniformHemispherePdf() float32 {
	return InvPi / 2
}

func UniformSpherePdf() float32 {
	return InvPi / 4
}

func UniformSpherePdfRadius(radius float32) float32 {
	return InvPi / (4 * radius * radius)
}

func UniformCirclePdf(radius float32) float32 {
	return 1 / (Pi * Sqr(radius))
}

// SphereCapPdf is the solid-angle density of uniform sampling inside a cone
// with the given cosine half-angle.
func SphereCapPdf(cosTheta float32) float32 {
	return 1 / (TwoPi * (1 - cosTheta))
}

// SampleTriangle maps a unit square sample to barycentric coordinates.
func SampleTriangle(u Vec2) Vec2 {
	t := Sqrt(u.X)
	return Vec2{X: 1 - t, Y: u.Y * t}
}

// SampleCircle maps a unit square sample to the unit disk.
func SampleCircle(u Vec2) Vec2 {
	theta := TwoPi * u.X
	r := Sqrt(u.Y)
	sin, cos := simd.SinCos(theta)
	return Vec2{X: r * sin, Y: r * cos}
}

var hexVectors = [4]Vec2{
	{X: -1, Y: 0},
	{X: 0.5, Y: 0.8660254},
	{X: 0.5, Y: -0.8660254},
	{X: -1, Y: 0},
}

// SampleHexagon maps a cube sample to a unit hexagon (bokeh shape).
func SampleHexagon(u Vec3) Vec2 {
	x := int(3 * u.Z)
	if x > 2 {
		x = 2
	}

	a := hexVectors[x]
	b := hexVectors[x+1]

	return Vec2{
		X: u.X*a.X + u.Y*b.X,
		Y: u.X*a.Y + u.Y*b.Y,
	}
}

// SampleSphere maps a unit square sample to the unit sphere (Marsaglia map).
func SampleSphere(u Vec2) Vec3 {
	vx := 2*u.X - 1
	vy := 2*u.Y - 1

	t := Sqrt(1 - vy*vy)
	theta := Pi * vx
	sin, cos := simd.SinCos(theta)

	return Vec3{X: t * sin, Y: t * cos, Z: vy}
}

// SampleHemisphere maps a unit square sample to the upper unit hemisphere.
func SampleHemisphere(u Vec2) Vec3 {
	p := SampleSphere(u)
	p.Z = Abs(p.Z)
	return p
}

// SampleHemisphereCos draws a cosine-weighted direction in the local frame
// (z up). The density is cosTheta/pi.
func SampleHemisphereCos(u Vec2) Vec3 {
	theta := TwoPi * u.Y
	r := Sqrt(u.X)
	sin, cos := simd.SinCos(theta)

	return Vec3{
		X: r * sin,
		Y: r * cos,
		Z: Sqrt(1 - u.X),
	}
}

// SampleNormal2 draws two standard normal variates via Box-Muller.
func SampleNormal2(u Vec2) Vec2 {
	r := Sqrt(-2 * simd.FastLog(u.X))
	sin, cos := simd.SinCos(TwoPi * u.Y)
	return Vec2{X: r * sin, Y: r * cos}
}

// SampleCircle8 maps eight unit square samples to the unit disk.
func SampleCircle8(ux, uy simd.Float8) (x, y simd.Float8) {
	theta := ux.Scale(TwoPi)
	r := uy.Sqrt()

	vSin := simd.Sin8(theta)
	vCos := simd.Sin8(theta.Add(simd.SplatFloat8(HalfPi)))

	return r.Mul(vSin), r.Mul(vCos)
}
