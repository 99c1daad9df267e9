package math

import "math"

// IntersectBoxRay tests a ray against a box using the slab method and
// returns the near slab distance. A hit requires the intersection interval
// to overlap [0, +inf).
func IntersectBoxRay(ray Ray, box Box) (distance float32, hit bool) {
	// distances to all box planes; subtracting the origin before scaling
	// keeps axis-parallel rays free of Inf-Inf NaNs
	tmp1 := box.Min.Sub(ray.Origin).MulVec(ray.InvDir)
	tmp2 := box.Max.Sub(ray.Origin).MulVec(ray.InvDir)
	lmin := Vec3Min(tmp1, tmp2)
	lmax := Vec3Max(tmp1, tmp2)

	near := lmin.MaxComponent()
	far := lmax.MinComponent()

	return near, far >= near && far >= 0
}

// IntersectBoxRayTwoSided returns both slab distances; a hit means the
// interval is non-empty (the caller decides how to treat negative values).
func IntersectBoxRayTwoSided(ray Ray, box Box) (near, far float32, hit bool) {
	tmp1 := box.Min.Sub(ray.Origin).MulVec(ray.InvDir)
	tmp2 := box.Max.Sub(ray.Origin).MulVec(ray.InvDir)
	lmin := Vec3Min(tmp1, tmp2)
	lmax := Vec3Max(tmp1, tmp2)

	near = lmin.MaxComponent()
	far = lmax.MinComponent()

	return near, far, near < far
}

// IntersectTriangleRay runs the Möller-Trumbore test. Backfaces are not
// culled and the determinant is not clamped, so degenerate triangles fail
// the comparisons naturally.
func IntersectTriangleRay(ray Ray, tri ProcessedTriangle) (u, v, distance float32, hit bool) {
	tvec := ray.Origin.Sub(tri.V0)
	pvec := ray.Dir.Cross(tri.Edge2)

	det := tri.Edge1.Dot(pvec)

	qvec := tvec.Cross(tri.Edge1)

	u = tvec.Dot(pvec) / det
	v = ray.Dir.Dot(qvec) / det
	distance = tri.Edge2.Dot(qvec) / det

	hit = u >= 0 && v >= 0 && u+v <= 1 && distance > 0
	return u, v, distance, hit
}

// IntersectSphereRay intersects a ray with a sphere of radius r centered at
// the local-space origin. The quadratic is solved in float64 to avoid
// catastrophic cancellation on grazing rays.
func IntersectSphereRay(ray Ray, radius float32) (near, far float32, hit bool) {
	v := float64(ray.Dir.Dot(ray.Origin.Negate()))
	det := float64(radius)*float64(radius) - float64(ray.Origin.LengthSqr()) + v*v

	if det <= 0 {
		return 0, 0, false
	}

	sqrtDet := math.Sqrt(det)
	near = float32(v - sqrtDet)
	far = float32(v + sqrtDet)

	return near, far, far > near
}

// BuildOrthonormalBasis generates vectors u, v orthonormal to the unit
// vector n, with n x u = v.
//
// Based on "Building an Orthonormal Basis, Revisited" (2017) by Duff et al.
func BuildOrthonormalBasis(n Vec3) (u, v Vec3) {
	sign := CopySign(1, n.Z)
	a := -1 / (sign + n.Z)

	u = Vec3{
		X: 1 + sign*n.X*n.X*a,
		Y: sign * n.X * n.Y * a,
		Z: -sign * n.X,
	}
	v = Vec3{
		X: n.X * n.Y * a,
		Y: sign + n.Y*n.Y*a,
		Z: -n.Y,
	}
	return u, v
}

// CartesianToSpherical maps a unit direction to (u, v) spherical
// coordinates in [0, 1]^2.
func CartesianToSpherical(dir Vec3) Vec2 {
	theta := float32(math.Acos(float64(Clamp(dir.Z, -1, 1))))
	phi := float32(math.Atan2(float64(dir.Y), float64(dir.X)))

	return Vec2{
		X: phi*(0.5*InvPi) + 0.5,
		Y: theta * InvPi,
	}
}

// PointLineDistanceSqr returns the squared distance from testPoint to the
// line through pointOnLine with direction lineDir.
func PointLineDistanceSqr(pointOnLine, lineDir, testPoint Vec3) float32 {
	t := testPoint.Sub(pointOnLine)
	return lineDir.Cross(t).LengthSqr() / lineDir.LengthSqr()
}
