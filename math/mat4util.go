package math

import "math"

// TransformDir transforms a direction (w = 0), ignoring translation.
func (m Mat4) TransformDir(v Vec3) Vec3 {
	return Vec3{
		X: v.X*m[0][0] + v.Y*m[1][0] + v.Z*m[2][0],
		Y: v.X*m[0][1] + v.Y*m[1][1] + v.Z*m[2][1],
		Z: v.X*m[0][2] + v.Y*m[1][2] + v.Z*m[2][2],
	}
}

// TransformPoint transforms a point (w = 1) without the perspective divide.
func (m Mat4) TransformPoint(v Vec3) Vec3 {
	return Vec3{
		X: v.X*m[0][0] + v.Y*m[1][0] + v.Z*m[2][0] + m[3][0],
		Y: v.X*m[0][1] + v.Y*m[1][1] + v.Z*m[2][1] + m[3][1],
		Z: v.X*m[0][2] + v.Y*m[1][2] + v.Z*m[2][2] + m[3][2],
	}
}

// TransformRay transforms a ray, renormalizing the direction and rebuilding
// the cached reciprocal products in the new space.
func (m Mat4) TransformRay(r Ray) Ray {
	return NewRay(m.TransformPoint(r.Origin), m.TransformDir(r.Dir))
}

// HasUniformScale reports whether the upper 3x3 scales all axes equally
// (within tolerance). Anisotropic transforms would break world-space hit
// distances during two-level traversal.
func (m Mat4) HasUniformScale(tolerance float32) bool {
	sx := Vec3{X: m[0][0], Y: m[0][1], Z: m[0][2]}.LengthSqr()
	sy := Vec3{X: m[1][0], Y: m[1][1], Z: m[1][2]}.LengthSqr()
	sz := Vec3{X: m[2][0], Y: m[2][1], Z: m[2][2]}.LengthSqr()
	return Abs(sx-sy) <= tolerance && Abs(sx-sz) <= tolerance
}

// QuaternionFromMat4 extracts the rotation from an orthonormal matrix.
func QuaternionFromMat4(m Mat4) Quaternion {
	trace := m[0][0] + m[1][1] + m[2][2]

	var q Quaternion
	if trace > 0 {
		s := float32(math.Sqrt(float64(trace+1))) * 2
		q = Quaternion{
			X: (m[1][2] - m[2][1]) / s,
			Y: (m[2][0] - m[0][2]) / s,
			Z: (m[0][1] - m[1][0]) / s,
			W: 0.25 * s,
		}
	} else if m[0][0] > m[1][1] && m[0][0] > m[2][2] {
		s := float32(math.Sqrt(float64(1+m[0][0]-m[1][1]-m[2][2]))) * 2
		q = Quaternion{
			X: 0.25 * s,
			Y: (m[1][0] + m[0][1]) / s,
			Z: (m[2][0] + m[0][2]) / s,
			W: (m[1][2] - m[2][1]) / s,
		}
	} else if m[1][1] > m[2][2] {
		s := float32(math.Sqrt(float64(1+m[1][1]-m[0][0]-m[2][2]))) * 2
		q = Quaternion{
			X: (m[1][0] + m[0][1]) / s,
			Y: 0.25 * s,
			Z: (m[2][1] + m[1][2]) / s,
			W: (m[2][0] - m[0][2]) / s,
		}
	} else {
		s := float32(math.Sqrt(float64(1+m[2][2]-m[0][0]-m[1][1]))) * 2
		q = Quaternion{
			X: (m[2][0] + m[0][2]) / s,
			Y: (m[2][1] + m[1][2]) / s,
			Z: 0.25 * s,
			W: (m[0][1] - m[1][0]) / s,
		}
	}
	return q.Normalize()
}
