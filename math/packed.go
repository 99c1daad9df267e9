package math

import "math"

// PackedUnitVector3 is a 4-byte compressed 3D unit vector using the signed
// octahedron encoding: the vector is mapped to the octahedron surface and
// then to a [-1, 1] square. Accuracy sits between Float3 and Half3.
type PackedUnitVector3 struct {
	U int16
	V int16
}

const packedUnitVectorScale = 32767.0

func PackUnitVector3(input Vec3) PackedUnitVector3 {
	vAbs := input.Abs()
	inv := 1 / (vAbs.X + vAbs.Y + vAbs.Z)
	nx := input.X * inv
	ny := input.Y * inv

	if input.Z < 0 {
		// lower hemisphere: fold over the diagonals
		ox := (1 - Abs(ny)) * Signum(input.X)
		oy := (1 - Abs(nx)) * Signum(input.Y)
		nx, ny = ox, oy
	}

	return PackedUnitVector3{
		U: int16(nx * packedUnitVectorScale),
		V: int16(ny * packedUnitVectorScale),
	}
}

func (p PackedUnitVector3) ToVector() Vec3 {
	fx := float32(p.U) * (1.0 / packedUnitVectorScale)
	fy := float32(p.V) * (1.0 / packedUnitVectorScale)
	fz := 1 - Abs(fx) - Abs(fy)

	t := Max(-fz, 0)
	if fx > 0 {
		fx -= t
	} else {
		fx += t
	}
	if fy > 0 {
		fy -= t
	} else {
		fy += t
	}

	return Vec3{X: fx, Y: fy, Z: fz}.Normalize()
}

// PackedColorRgbHdr is an HDR color packed to 8 bytes: full-precision
// luminance plus 16-bit YCoCg chroma.
type PackedColorRgbHdr struct {
	Y  float32
	Co int16
	Cg int16
}

const packedChromaScale = 16383.0

func PackColorRgbHdr(color Vec3) PackedColorRgbHdr {
	y := 0.25*color.X + 0.5*color.Y + 0.25*color.Z
	co := 0.5*color.X - 0.5*color.Z
	cg := -0.25*color.X + 0.5*color.Y - 0.25*color.Z

	if y > 0 {
		co /= y
		cg /= y
	}

	return PackedColorRgbHdr{
		Y:  y,
		Co: int16(co * packedChromaScale),
		Cg: int16(cg * packedChromaScale),
	}
}

func (p PackedColorRgbHdr) ToVector() Vec3 {
	co := float32(p.Co) * (1.0 / packedChromaScale)
	cg := float32(p.Cg) * (1.0 / packedChromaScale)
	tmp := 1 - cg
	return Vec3Max(Vec3Zero, Vec3{
		X: (tmp + co) * p.Y,
		Y: (1 + cg) * p.Y,
		Z: (tmp - co) * p.Y,
	})
}

// SharedExpFloat3 is a shared-exponent 3-element float as in
// DXGI_FORMAT_R9G9B9E5_SHAREDEXP: 9-bit mantissas and a 5-bit exponent.
type SharedExpFloat3 uint32

func (s SharedExpFloat3) ToVector() Vec3 {
	x := uint32(s) & 0x1ff
	y := (uint32(s) >> 9) & 0x1ff
	z := (uint32(s) >> 18) & 0x1ff
	e := (uint32(s) >> 27) & 0x1f

	scale := math.Float32frombits(0x33800000 + e<<23)
	return Vec3{
		X: scale * float32(x),
		Y: scale * float32(y),
		Z: scale * float32(z),
	}
}

// PackedFloat3 is a packed 3-channel RGB float as in
// DXGI_FORMAT_R11G11B10_FLOAT.
type PackedFloat3 uint32

func (p PackedFloat3) ToVector() Vec3 {
	xm := uint32(p) & 0x3f
	xe := (uint32(p) >> 6) & 0x1f
	ym := (uint32(p) >> 11) & 0x3f
	ye := (uint32(p) >> 17) & 0x1f
	zm := (uint32(p) >> 22) & 0x1f
	ze := (uint32(p) >> 27) & 0x1f

	return Vec3{
		X: math.Float32frombits((xe+112)<<23 | xm<<17),
		Y: math.Float32frombits((ye+112)<<23 | ym<<17),
		Z: math.Float32frombits((ze+112)<<23 | zm<<18),
	}
}

// Packed565 is the classic 5-6-5 16-bit color layout used by the BC
// block-compression formats.
type Packed565 uint16

func NewPacked565(x, y, z uint8) Packed565 {
	return Packed565(uint16(x&0x1f) | uint16(y&0x3f)<<5 | uint16(z&0x1f)<<11)
}

func (p Packed565) X() uint8 { return uint8(p & 0x1f) }
func (p Packed565) Y() uint8 { return uint8(p >> 5 & 0x3f) }
func (p Packed565) Z() uint8 { return uint8(p >> 11 & 0x1f) }
