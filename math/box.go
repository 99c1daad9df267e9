package math

import "math"

// Box is an axis-aligned bounding box.
type Box struct {
	Min Vec3
	Max Vec3
}

// EmptyBox returns the union identity: (+Inf, -Inf).
func EmptyBox() Box {
	inf := float32(math.Inf(1))
	return Box{
		Min: Vec3{X: inf, Y: inf, Z: inf},
		Max: Vec3{X: -inf, Y: -inf, Z: -inf},
	}
}

func NewBox(min, max Vec3) Box {
	return Box{Min: min, Max: max}
}

// BoxFromPoint returns a degenerate box containing a single point.
func BoxFromPoint(point Vec3) Box {
	return Box{Min: point, Max: point}
}

// BoxFromSphere returns the bounding box of a sphere.
func BoxFromSphere(center Vec3, radius float32) Box {
	r := Vec3{X: radius, Y: radius, Z: radius}
	return Box{Min: center.Sub(r), Max: center.Add(r)}
}

// Union merges two boxes.
func (b Box) Union(other Box) Box {
	return Box{
		Min: Vec3Min(b.Min, other.Min),
		Max: Vec3Max(b.Max, other.Max),
	}
}

// AddPoint grows the box to contain a point.
func (b Box) AddPoint(point Vec3) Box {
	return Box{
		Min: Vec3Min(b.Min, point),
		Max: Vec3Max(b.Max, point),
	}
}

func (b Box) Center() Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b Box) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

func (b Box) SurfaceArea() float32 {
	size := b.Size()
	return 2 * (size.X*(size.Y+size.Z) + size.Y*size.Z)
}

func (b Box) Volume() float32 {
	size := b.Size()
	return size.X * size.Y * size.Z
}

// Contains tests point membership with a tolerance.
func (b Box) Contains(point Vec3, eps float32) bool {
	return point.X >= b.Min.X-eps && point.X <= b.Max.X+eps &&
		point.Y >= b.Min.Y-eps && point.Y <= b.Max.Y+eps &&
		point.Z >= b.Min.Z-eps && point.Z <= b.Max.Z+eps
}

// Transformed returns the bounding box of the 8 transformed corners.
func (b Box) Transformed(m Mat4) Box {
	result := EmptyBox()
	for i := 0; i < 8; i++ {
		corner := Vec3{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z}
		if i&1 != 0 {
			corner.X = b.Max.X
		}
		if i&2 != 0 {
			corner.Y = b.Max.Y
		}
		if i&4 != 0 {
			corner.Z = b.Max.Z
		}
		result = result.AddPoint(m.MulVec3(corner))
	}
	return result
}
