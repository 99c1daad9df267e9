package math

import "ray-engine/simd"

// Vec3x8 holds eight 3D vectors in structure-of-arrays layout.
type Vec3x8 struct {
	X simd.Float8
	Y simd.Float8
	Z simd.Float8
}

// SplatVec3x8 broadcasts a single vector to all lanes.
func SplatVec3x8(v Vec3) Vec3x8 {
	return Vec3x8{
		X: simd.SplatFloat8(v.X),
		Y: simd.SplatFloat8(v.Y),
		Z: simd.SplatFloat8(v.Z),
	}
}

// Lane extracts the i-th vector.
func (v Vec3x8) Lane(i int) Vec3 {
	return Vec3{X: v.X[i], Y: v.Y[i], Z: v.Z[i]}
}

// SetLane stores a vector into the i-th lane.
func (v *Vec3x8) SetLane(i int, value Vec3) {
	v.X[i] = value.X
	v.Y[i] = value.Y
	v.Z[i] = value.Z
}

func (v Vec3x8) Add(other Vec3x8) Vec3x8 {
	return Vec3x8{X: v.X.Add(other.X), Y: v.Y.Add(other.Y), Z: v.Z.Add(other.Z)}
}

func (v Vec3x8) Sub(other Vec3x8) Vec3x8 {
	return Vec3x8{X: v.X.Sub(other.X), Y: v.Y.Sub(other.Y), Z: v.Z.Sub(other.Z)}
}

func (v Vec3x8) Mul(other Vec3x8) Vec3x8 {
	return Vec3x8{X: v.X.Mul(other.X), Y: v.Y.Mul(other.Y), Z: v.Z.Mul(other.Z)}
}

func (v Vec3x8) Scale(s simd.Float8) Vec3x8 {
	return Vec3x8{X: v.X.Mul(s), Y: v.Y.Mul(s), Z: v.Z.Mul(s)}
}

// MulSub returns v*b - c per component.
func (v Vec3x8) MulSub(b, c Vec3x8) Vec3x8 {
	return Vec3x8{
		X: v.X.MulSub(b.X, c.X),
		Y: v.Y.MulSub(b.Y, c.Y),
		Z: v.Z.MulSub(b.Z, c.Z),
	}
}

// MulAdd returns v*b + c per component.
func (v Vec3x8) MulAdd(b, c Vec3x8) Vec3x8 {
	return Vec3x8{
		X: v.X.MulAdd(b.X, c.X),
		Y: v.Y.MulAdd(b.Y, c.Y),
		Z: v.Z.MulAdd(b.Z, c.Z),
	}
}

func (v Vec3x8) Min(other Vec3x8) Vec3x8 {
	return Vec3x8{X: v.X.Min(other.X), Y: v.Y.Min(other.Y), Z: v.Z.Min(other.Z)}
}

func (v Vec3x8) Max(other Vec3x8) Vec3x8 {
	return Vec3x8{X: v.X.Max(other.X), Y: v.Y.Max(other.Y), Z: v.Z.Max(other.Z)}
}

func (v Vec3x8) Neg() Vec3x8 {
	return Vec3x8{X: v.X.Neg(), Y: v.Y.Neg(), Z: v.Z.Neg()}
}

// Dot returns the eight per-lane dot products.
func Vec3x8Dot(a, b Vec3x8) simd.Float8 {
	return a.X.Mul(b.X).Add(a.Y.Mul(b.Y)).Add(a.Z.Mul(b.Z))
}

// Cross returns the eight per-lane cross products.
func Vec3x8Cross(a, b Vec3x8) Vec3x8 {
	return Vec3x8{
		X: a.Y.Mul(b.Z).Sub(a.Z.Mul(b.Y)),
		Y: a.Z.Mul(b.X).Sub(a.X.Mul(b.Z)),
		Z: a.X.Mul(b.Y).Sub(a.Y.Mul(b.X)),
	}
}

// Ray8 holds eight rays in structure-of-arrays layout.
type Ray8 struct {
	Origin Vec3x8
	Dir    Vec3x8
	InvDir Vec3x8
}

// SetLane stores a single ray into the i-th lane.
func (r *Ray8) SetLane(i int, ray Ray) {
	r.Origin.SetLane(i, ray.Origin)
	r.Dir.SetLane(i, ray.Dir)
	r.InvDir.SetLane(i, ray.InvDir)
}

// Lane extracts the i-th ray.
func (r Ray8) Lane(i int) Ray {
	origin := r.Origin.Lane(i)
	invDir := r.InvDir.Lane(i)
	return Ray{
		Origin:       origin,
		Dir:          r.Dir.Lane(i),
		InvDir:       invDir,
		OriginDivDir: origin.MulVec(invDir),
	}
}

// Box8 holds eight boxes in structure-of-arrays layout. A single BVH node
// box is splatted across all lanes to test one node against eight rays.
type Box8 struct {
	Min Vec3x8
	Max Vec3x8
}

// SplatBox8 broadcasts one box to all lanes.
func SplatBox8(box Box) Box8 {
	return Box8{Min: SplatVec3x8(box.Min), Max: SplatVec3x8(box.Max)}
}

// Triangle8 holds one processed triangle splatted across eight lanes.
type Triangle8 struct {
	V0    Vec3x8
	Edge1 Vec3x8
	Edge2 Vec3x8
}

// SplatTriangle8 broadcasts one triangle to all lanes.
func SplatTriangle8(tri ProcessedTriangle) Triangle8 {
	return Triangle8{
		V0:    SplatVec3x8(tri.V0),
		Edge1: SplatVec3x8(tri.Edge1),
		Edge2: SplatVec3x8(tri.Edge2),
	}
}
