package math

import "ray-engine/simd"

// IntersectBoxRay8 tests one box against eight rays. A lane passes when the
// slab interval is non-empty, in front of the ray, and closer than the
// lane's current best distance.
func IntersectBoxRay8(rayInvDir, rayOriginDivDir Vec3x8, box Box8, maxDistance simd.Float8) (distance simd.Float8, mask simd.Bool8) {
	tmp1 := box.Min.MulSub(rayInvDir, rayOriginDivDir)
	tmp2 := box.Max.MulSub(rayInvDir, rayOriginDivDir)
	lmin := tmp1.Min(tmp2)
	lmax := tmp1.Max(tmp2)

	maxT := lmax.Z.Min(lmax.X.Min(lmax.Y))
	minT := lmin.Z.Max(lmin.X.Max(lmin.Y))

	zero := simd.Float8Zero()
	mask = maxT.Greater(zero).And(minT.LessEq(maxT)).And(minT.LessEq(maxDistance))
	return minT, mask
}

// octantBlendMask holds per-axis lane blends for the octant-specialized box
// test: when the packet shares an octant the per-axis min/max collapses to
// a fixed operand order.
var octantBlendMask = [8][3]bool{}

func init() {
	for octant := 0; octant < 8; octant++ {
		octantBlendMask[octant] = [3]bool{
			octant&1 != 0,
			octant&2 != 0,
			octant&4 != 0,
		}
	}
}

// IntersectBoxRay8Octant is the octant-specialized variant: all eight rays
// must share the direction sign pattern given by octant, which turns the
// per-axis min/max into a fixed blend.
func IntersectBoxRay8Octant(octant uint32, rayInvDir, rayOriginDivDir Vec3x8, box Box8, maxDistance simd.Float8) (distance simd.Float8, mask simd.Bool8) {
	tmp1 := box.Min.MulSub(rayInvDir, rayOriginDivDir)
	tmp2 := box.Max.MulSub(rayInvDir, rayOriginDivDir)

	blend := octantBlendMask[octant&7]
	var lmin, lmax Vec3x8
	if blend[0] {
		lmin.X, lmax.X = tmp2.X, tmp1.X
	} else {
		lmin.X, lmax.X = tmp1.X, tmp2.X
	}
	if blend[1] {
		lmin.Y, lmax.Y = tmp2.Y, tmp1.Y
	} else {
		lmin.Y, lmax.Y = tmp1.Y, tmp2.Y
	}
	if blend[2] {
		lmin.Z, lmax.Z = tmp2.Z, tmp1.Z
	} else {
		lmin.Z, lmax.Z = tmp1.Z, tmp2.Z
	}

	maxT := lmax.Z.Min(lmax.X.Min(lmax.Y))
	minT := lmin.Z.Max(lmin.X.Max(lmin.Y))

	zero := simd.Float8Zero()
	mask = maxT.Greater(zero).And(minT.LessEq(maxT)).And(minT.LessEq(maxDistance))
	return minT, mask
}

// IntersectTriangleRay8 tests one triangle against eight rays
// (Möller-Trumbore, structure-of-arrays form).
func IntersectTriangleRay8(rayDir, rayOrigin Vec3x8, tri Triangle8, maxDistance simd.Float8) (u, v, distance simd.Float8, mask simd.Bool8) {
	tvec := rayOrigin.Sub(tri.V0)
	pvec := Vec3x8Cross(rayDir, tri.Edge2)
	det := Vec3x8Dot(tri.Edge1, pvec)
	invDet := det.Reciprocal()

	qvec := Vec3x8Cross(tvec, tri.Edge1)

	u = Vec3x8Dot(tvec, pvec).Mul(invDet)
	v = Vec3x8Dot(rayDir, qvec).Mul(invDet)
	distance = Vec3x8Dot(tri.Edge2, qvec).Mul(invDet)

	zero := simd.Float8Zero()
	one := simd.Float8One()
	mask = u.GreaterEq(zero).
		And(v.GreaterEq(zero)).
		And(u.Add(v).LessEq(one)).
		And(distance.Greater(zero)).
		And(distance.Less(maxDistance))
	return u, v, distance, mask
}

// IntersectBoxesRay8 tests eight boxes against a single ray (the box
// arrays hold eight distinct boxes rather than one splatted node).
func IntersectBoxesRay8(ray Ray, boxes Box8, maxDistance simd.Float8) (distance simd.Float8, mask simd.Bool8) {
	invDir := SplatVec3x8(ray.InvDir)
	originDivDir := SplatVec3x8(ray.OriginDivDir)

	tmp1 := boxes.Min.MulSub(invDir, originDivDir)
	tmp2 := boxes.Max.MulSub(invDir, originDivDir)
	lmin := tmp1.Min(tmp2)
	lmax := tmp1.Max(tmp2)

	maxT := lmax.Z.Min(lmax.X.Min(lmax.Y))
	minT := lmin.Z.Max(lmin.X.Max(lmin.Y))

	zero := simd.Float8Zero()
	mask = maxT.Greater(zero).And(minT.LessEq(maxT)).And(minT.LessEq(maxDistance))
	return minT, mask
}
