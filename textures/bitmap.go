// Package textures holds decoded images and procedural patterns the
// materials sample. The renderer core only ever calls Evaluate(u, v).
package textures

import (
	"fmt"
	"math"

	rmath "ray-engine/math"
)

// Format enumerates the pixel layouts a Bitmap can carry.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatR8UNorm
	FormatR8G8UNorm
	FormatB8G8R8UNorm
	FormatB8G8R8A8UNorm
	FormatB5G6R5UNorm
	FormatR16UNorm
	FormatR16G16UNorm
	FormatR16G16B16A16UNorm
	FormatR16Half
	FormatR16G16Half
	FormatR16G16B16Half
	FormatR16G16B16A16Half
	FormatR32Float
	FormatR32G32Float
	FormatR32G32B32Float
	FormatR32G32B32A32Float
)

// BytesPerPixel returns the pixel stride of a format.
func (f Format) BytesPerPixel() int {
	switch f {
	case FormatR8UNorm:
		return 1
	case FormatR8G8UNorm, FormatR16UNorm, FormatR16Half, FormatB5G6R5UNorm:
		return 2
	case FormatB8G8R8UNorm:
		return 3
	case FormatB8G8R8A8UNorm, FormatR16G16UNorm, FormatR16G16Half, FormatR32Float:
		return 4
	case FormatR16G16B16Half:
		return 6
	case FormatR16G16B16A16UNorm, FormatR16G16B16A16Half, FormatR32G32Float:
		return 8
	case FormatR32G32B32Float:
		return 12
	case FormatR32G32B32A32Float:
		return 16
	default:
		return 0
	}
}

func (f Format) String() string {
	switch f {
	case FormatR8UNorm:
		return "R8_UNorm"
	case FormatR8G8UNorm:
		return "R8G8_UNorm"
	case FormatB8G8R8UNorm:
		return "B8G8R8_UNorm"
	case FormatB8G8R8A8UNorm:
		return "B8G8R8A8_UNorm"
	case FormatB5G6R5UNorm:
		return "B5G6R5_UNorm"
	case FormatR16UNorm:
		return "R16_UNorm"
	case FormatR16G16UNorm:
		return "R16G16_UNorm"
	case FormatR16G16B16A16UNorm:
		return "R16G16B16A16_UNorm"
	case FormatR16Half:
		return "R16_Half"
	case FormatR16G16Half:
		return "R16G16_Half"
	case FormatR16G16B16Half:
		return "R16G16B16_Half"
	case FormatR16G16B16A16Half:
		return "R16G16B16A16_Half"
	case FormatR32Float:
		return "R32_Float"
	case FormatR32G32Float:
		return "R32G32_Float"
	case FormatR32G32B32Float:
		return "R32G32B32_Float"
	case FormatR32G32B32A32Float:
		return "R32G32B32A32_Float"
	default:
		return "Unknown"
	}
}

// Bitmap is a decoded image in one of the supported pixel formats.
type Bitmap struct {
	data   []byte
	width  int
	height int
	format Format
}

// NewBitmap allocates pixel storage for the given dimensions and format.
func NewBitmap(width, height int, format Format) (*Bitmap, error) {
	bpp := format.BytesPerPixel()
	if bpp == 0 {
		return nil, fmt.Errorf("textures: unsupported format %v", format)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("textures: invalid bitmap size %dx%d", width, height)
	}
	return &Bitmap{
		data:   make([]byte, width*height*bpp),
		width:  width,
		height: height,
		format: format,
	}, nil
}

func (b *Bitmap) Width() int     { return b.width }
func (b *Bitmap) Height() int    { return b.height }
func (b *Bitmap) Format() Format { return b.format }
func (b *Bitmap) Data() []byte   { return b.data }

func unorm8(v byte) float32 {
	return float32(v) * (1.0 / 255.0)
}

func unorm16(lo, hi byte) float32 {
	return float32(uint16(lo)|uint16(hi)<<8) * (1.0 / 65535.0)
}

func half(lo, hi byte) float32 {
	return rmath.Half(uint16(lo) | uint16(hi)<<8).ToFloat()
}

func float32At(p []byte) float32 {
	bits := uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16 | uint32(p[3])<<24
	return math.Float32frombits(bits)
}

// GetPixel decodes the texel at (x, y) to RGBA floats. Missing channels
// default to zero (alpha to one).
func (b *Bitmap) GetPixel(x, y int) rmath.Vec4 {
	p := b.data[(y*b.width+x)*b.format.BytesPerPixel():]

	switch b.format {
	case FormatR8UNorm:
		return rmath.Vec4{X: unorm8(p[0]), W: 1}
	case FormatR8G8UNorm:
		return rmath.Vec4{X: unorm8(p[0]), Y: unorm8(p[1]), W: 1}
	case FormatB8G8R8UNorm:
		return rmath.Vec4{X: unorm8(p[2]), Y: unorm8(p[1]), Z: unorm8(p[0]), W: 1}
	case FormatB8G8R8A8UNorm:
		return rmath.Vec4{X: unorm8(p[2]), Y: unorm8(p[1]), Z: unorm8(p[0]), W: unorm8(p[3])}
	case FormatB5G6R5UNorm:
		packed := rmath.Packed565(uint16(p[0]) | uint16(p[1])<<8)
		return rmath.Vec4{
			X: float32(packed.Z()) * (1.0 / 31.0),
			Y: float32(packed.Y()) * (1.0 / 63.0),
			Z: float32(packed.X()) * (1.0 / 31.0),
			W: 1,
		}
	case FormatR16UNorm:
		return rmath.Vec4{X: unorm16(p[0], p[1]), W: 1}
	case FormatR16G16UNorm:
		return rmath.Vec4{X: unorm16(p[0], p[1]), Y: unorm16(p[2], p[3]), W: 1}
	case FormatR16G16B16A16UNorm:
		return rmath.Vec4{
			X: unorm16(p[0], p[1]),
			Y: unorm16(p[2], p[3]),
			Z: unorm16(p[4], p[5]),
			W: unorm16(p[6], p[7]),
		}
	case FormatR16Half:
		return rmath.Vec4{X: half(p[0], p[1]), W: 1}
	case FormatR16G16Half:
		return rmath.Vec4{X: half(p[0], p[1]), Y: half(p[2], p[3]), W: 1}
	case FormatR16G16B16Half:
		return rmath.Vec4{X: half(p[0], p[1]), Y: half(p[2], p[3]), Z: half(p[4], p[5]), W: 1}
	case FormatR16G16B16A16Half:
		return rmath.Vec4{
			X: half(p[0], p[1]),
			Y: half(p[2], p[3]),
			Z: half(p[4], p[5]),
			W: half(p[6], p[7]),
		}
	case FormatR32Float:
		return rmath.Vec4{X: float32At(p), W: 1}
	case FormatR32G32Float:
		return rmath.Vec4{X: float32At(p), Y: float32At(p[4:]), W: 1}
	case FormatR32G32B32Float:
		return rmath.Vec4{X: float32At(p), Y: float32At(p[4:]), Z: float32At(p[8:]), W: 1}
	case FormatR32G32B32A32Float:
		return rmath.Vec4{X: float32At(p), Y: float32At(p[4:]), Z: float32At(p[8:]), W: float32At(p[12:])}
	default:
		return rmath.Vec4{}
	}
}

// SetPixelBytes writes raw texel bytes at (x, y).
func (b *Bitmap) SetPixelBytes(x, y int, texel []byte) {
	bpp := b.format.BytesPerPixel()
	copy(b.data[(y*b.width+x)*bpp:], texel[:bpp])
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// Evaluate samples the bitmap bilinearly with wrap addressing.
func (b *Bitmap) Evaluate(uv rmath.Vec2) rmath.Vec4 {
	fx := uv.X*float32(b.width) - 0.5
	fy := uv.Y*float32(b.height) - 0.5

	x0 := int(rmath.Floor(fx))
	y0 := int(rmath.Floor(fy))
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	x1 := wrap(x0+1, b.width)
	y1 := wrap(y0+1, b.height)
	x0 = wrap(x0, b.width)
	y0 = wrap(y0, b.height)

	p00 := b.GetPixel(x0, y0)
	p10 := b.GetPixel(x1, y0)
	p01 := b.GetPixel(x0, y1)
	p11 := b.GetPixel(x1, y1)

	top := p00.Add(p10.Sub(p00).Mul(tx))
	bottom := p01.Add(p11.Sub(p01).Mul(tx))
	return top.Add(bottom.Sub(top).Mul(ty))
}
