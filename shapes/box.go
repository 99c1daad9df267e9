package shapes

import (
	"ray-engine/bvh"
	"ray-engine/math"
)

// BoxShape is an axis-aligned box with the given half-extents, centered at
// the local origin.
type BoxShape struct {
	Size    math.Vec3 // half-extents
	invSize math.Vec3

	// normalized face-selection CDF over the three axis face pairs
	faceCdf math.Vec3
}

// face-local tangent frames, indexed -X, +X, -Y, +Y, -Z, +Z
var boxFaceFrames = [6][3]math.Vec3{
	{{X: 0, Y: 0, Z: 1}, {X: 0, Y: 1, Z: 0}, {X: -1, Y: 0, Z: 0}},
	{{X: 0, Y: 0, Z: -1}, {X: 0, Y: 1, Z: 0}, {X: 1, Y: 0, Z: 0}},
	{{X: 1, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 1}, {X: 0, Y: -1, Z: 0}},
	{{X: 1, Y: 0, Z: 0}, {X: 0, Y: 0, Z: -1}, {X: 0, Y: 1, Z: 0}},
	{{X: -1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: -1}},
	{{X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1}},
}

// NewBoxShape wraps a box in the Shape union.
func NewBoxShape(halfSize math.Vec3) *Shape {
	box := BoxShape{
		Size:    halfSize,
		invSize: halfSize.Reciprocal(),
	}

	// normalize the CDF up front so extreme extents do not bias selection
	ax := halfSize.Y * halfSize.Z
	ay := halfSize.Z * halfSize.X
	az := halfSize.X * halfSize.Y
	total := ax + ay + az
	box.faceCdf = math.Vec3{
		X: ax / total,
		Y: (ax + ay) / total,
		Z: 1,
	}

	return &Shape{kind: KindBox, box: box}
}

func (b *BoxShape) BoundingBox() math.Box {
	return math.NewBox(b.Size.Negate(), b.Size)
}

func (b *BoxShape) SurfaceArea() float32 {
	return 8 * (b.Size.X*(b.Size.Y+b.Size.Z) + b.Size.Y*b.Size.Z)
}

func (b *BoxShape) Intersect(ray math.Ray) (ShapeIntersection, bool) {
	box := math.NewBox(b.Size.Negate(), b.Size)
	near, far, hit := math.IntersectBoxRayTwoSided(ray, box)
	return ShapeIntersection{NearDist: near, FarDist: far}, hit
}

func (b *BoxShape) SampleArea(u math.Vec3) (position, normal math.Vec3, pdfA float32) {
	v := u.Z

	// select the face-pair axis from the normalized CDF
	var zAxis int
	switch {
	case v < b.faceCdf.X:
		v /= b.faceCdf.X
		zAxis = 0
	case v < b.faceCdf.Y:
		v = (v - b.faceCdf.X) / (b.faceCdf.Y - b.faceCdf.X)
		zAxis = 1
	default:
		v = (v - b.faceCdf.Y) / (1 - b.faceCdf.Y)
		zAxis = 2
	}

	xAxis := (zAxis + 1) % 3
	yAxis := (zAxis + 2) % 3

	sign := float32(1)
	if v < 0.5 {
		sign = -1
	}

	normal = math.Vec3Zero.SetComponent(zAxis, sign)

	position = math.Vec3Zero.
		SetComponent(xAxis, (2*u.X-1)*b.Size.Component(xAxis)).
		SetComponent(yAxis, (2*u.Y-1)*b.Size.Component(yAxis)).
		SetComponent(zAxis, sign*b.Size.Component(zAxis))

	return position, normal, 1 / b.SurfaceArea()
}

// cubeFace maps a point on the unit cube surface to its face index and
// face-local UV.
func cubeFace(p math.Vec3) (side int, uv math.Vec2) {
	abs := p.Abs()

	var uc, vc, maxAxis float32
	switch {
	case abs.X >= abs.Y && abs.X >= abs.Z:
		if p.X > 0 {
			uc = -p.Z
			side = 1
		} else {
			uc = p.Z
			side = 0
		}
		maxAxis = abs.X
		vc = p.Y
	case abs.Y >= abs.X && abs.Y >= abs.Z:
		if p.Y > 0 {
			vc = -p.Z
			side = 3
		} else {
			vc = p.Z
			side = 2
		}
		maxAxis = abs.Y
		uc = p.X
	default:
		if p.Z > 0 {
			uc = p.X
			side = 5
		} else {
			uc = -p.X
			side = 4
		}
		maxAxis = abs.Z
		vc = p.Y
	}

	// [-1, 1] -> [0, 1]
	uv = math.Vec2{
		X: uc/(2*maxAxis) + 0.5,
		Y: vc/(2*maxAxis) + 0.5,
	}
	return side, uv
}

func (b *BoxShape) EvaluateIntersection(_ bvh.HitPoint, data *IntersectionData) {
	side, uv := cubeFace(data.Position.MulVec(b.invSize))
	data.TexCoord = uv
	data.Tangent = boxFaceFrames[side][0]
	data.Bitangent = boxFaceFrames[side][1]
	data.Normal = boxFaceFrames[side][2]
	data.MaterialID = InvalidMaterial
}
