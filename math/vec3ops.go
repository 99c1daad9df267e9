package math

// Component-wise helpers used by the intersection and shading kernels.

func Vec3Min(a, b Vec3) Vec3 {
	return Vec3{X: Min(a.X, b.X), Y: Min(a.Y, b.Y), Z: Min(a.Z, b.Z)}
}

func Vec3Max(a, b Vec3) Vec3 {
	return Vec3{X: Max(a.X, b.X), Y: Max(a.Y, b.Y), Z: Max(a.Z, b.Z)}
}

func (v Vec3) Abs() Vec3 {
	return Vec3{X: Abs(v.X), Y: Abs(v.Y), Z: Abs(v.Z)}
}

// Reciprocal returns the per-component reciprocal. Zero components map to
// +/-Inf, which the slab-method box test relies on.
func (v Vec3) Reciprocal() Vec3 {
	return Vec3{X: 1 / v.X, Y: 1 / v.Y, Z: 1 / v.Z}
}

func (v Vec3) MaxComponent() float32 {
	return Max(v.X, Max(v.Y, v.Z))
}

func (v Vec3) MinComponent() float32 {
	return Min(v.X, Min(v.Y, v.Z))
}

// Component returns the i-th component (0=X, 1=Y, 2=Z).
func (v Vec3) Component(i int) float32 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// SetComponent returns a copy with the i-th component replaced.
func (v Vec3) SetComponent(i int, value float32) Vec3 {
	switch i {
	case 0:
		v.X = value
	case 1:
		v.Y = value
	default:
		v.Z = value
	}
	return v
}

// MulAdd returns v*s + b.
func (v Vec3) MulAdd(s float32, b Vec3) Vec3 {
	return Vec3{X: v.X*s + b.X, Y: v.Y*s + b.Y, Z: v.Z*s + b.Z}
}

func (v Vec3) IsValid() bool {
	return IsFinite(v.X) && IsFinite(v.Y) && IsFinite(v.Z)
}

// Reflect returns i - 2*(i.n)*n.
func Reflect(i, n Vec3) Vec3 {
	return i.Sub(n.Mul(2 * i.Dot(n)))
}

// Refract refracts the incident direction i (pointing toward the surface)
// about the normal n for a medium with index of refraction ior. The sign of
// i.n decides whether the ray enters or leaves the medium. Returns the zero
// vector on total internal reflection.
func Refract(i, n Vec3, ior float32) Vec3 {
	c := i.Dot(n)

	eta := ior
	axis := n.Negate()
	cosI := c
	if c < 0 {
		eta = 1 / ior
		axis = n
		cosI = -c
	}

	k := 1 - eta*eta*(1-cosI*cosI)
	if k < 0 {
		// total internal reflection
		return Vec3Zero
	}

	return i.Mul(eta).Add(axis.Mul(eta*cosI - Sqrt(k))).Normalize()
}
