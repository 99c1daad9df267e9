package shapes

import (
	stdmath "math"

	"ray-engine/bvh"
	"ray-engine/math"
	"ray-engine/simd"
)

// SphereShape is a sphere of the given radius centered at the local origin.
type SphereShape struct {
	Radius    float32
	invRadius float32
}

// NewSphereShape wraps a sphere in the Shape union.
func NewSphereShape(radius float32) *Shape {
	return &Shape{
		kind: KindSphere,
		sphere: SphereShape{
			Radius:    radius,
			invRadius: 1 / radius,
		},
	}
}

func (s *SphereShape) BoundingBox() math.Box {
	return math.BoxFromSphere(math.Vec3Zero, s.Radius)
}

func (s *SphereShape) SurfaceArea() float32 {
	return 4 * math.Pi * math.Sqr(s.Radius)
}

func (s *SphereShape) Intersect(ray math.Ray) (ShapeIntersection, bool) {
	near, far, ok := math.IntersectSphereRay(ray, s.Radius)
	if !ok {
		return ShapeIntersection{}, false
	}
	return ShapeIntersection{NearDist: near, FarDist: far}, true
}

func (s *SphereShape) SampleArea(u math.Vec3) (position, normal math.Vec3, pdfA float32) {
	point := math.SampleSphere(math.Vec2{X: u.X, Y: u.Y})
	return point.Mul(s.Radius), point, 1 / s.SurfaceArea()
}

// SampleByRef samples the solid-angle cone the sphere subtends from the
// reference point. Reference points inside the sphere are rejected.
func (s *SphereShape) SampleByRef(ref math.Vec3, u math.Vec3) (ShapeSampleResult, bool) {
	var result ShapeSampleResult

	centerDir := ref.Negate() // direction to the sphere center
	centerDistSqr := centerDir.LengthSqr()
	centerDist := math.Sqrt(centerDistSqr)

	if centerDistSqr < math.Sqr(s.Radius) {
		return result, false
	}

	phi := math.TwoPi * u.Y
	sinPhi, cosPhi := simd.SinCos(phi)

	sinThetaMaxSqr := math.Sqr(s.Radius) / centerDistSqr
	cosThetaMax := math.Sqrt(1 - math.Clamp(sinThetaMaxSqr, 0, 1))
	cosTheta := math.Lerp(cosThetaMax, 1, u.X)
	sinThetaSqr := 1 - math.Sqr(cosTheta)
	sinTheta := math.Sqrt(sinThetaSqr)

	// generate the direction inside the cone uniformly
	w := centerDir.Mul(1 / centerDist)
	tangent, bitangent := math.BuildOrthonormalBasis(w)
	result.Direction = tangent.Mul(cosPhi).Add(bitangent.Mul(sinPhi)).Mul(sinTheta).
		Add(w.Mul(cosTheta)).Normalize()

	result.Distance = centerDist*cosTheta -
		math.Sqrt(math.Max(0, math.Sqr(s.Radius)-centerDistSqr*sinThetaSqr))

	result.Position = ref.Add(result.Direction.Mul(result.Distance))
	result.Normal = result.Position.Normalize()
	result.CosAtSurface = cosTheta

	if cosThetaMax > 0.999999 {
		result.Pdf = stdmath.MaxFloat32
	} else {
		result.Pdf = math.SphereCapPdf(cosThetaMax)
	}

	return result, true
}

func (s *SphereShape) PdfByRef(ref, point math.Vec3) float32 {
	centerDistSqr := ref.LengthSqr()
	sinThetaMaxSqr := math.Clamp(math.Sqr(s.Radius)/centerDistSqr, 0, 1)
	cosThetaMax := math.Sqrt(1 - sinThetaMaxSqr)
	return math.SphereCapPdf(cosThetaMax)
}

func (s *SphereShape) EvaluateIntersection(_ bvh.HitPoint, data *IntersectionData) {
	data.TexCoord = math.CartesianToSpherical(data.Position.Negate().Mul(s.invRadius))
	data.Normal = data.Position.Mul(s.invRadius)

	// tangent = normalize(cross(+Y, normal)), with the poles degenerating
	// to an arbitrary frame
	data.Tangent = math.Vec3{X: data.Normal.Z, Y: 0, Z: -data.Normal.X}
	if data.Tangent.LengthSqr() < 1e-12 {
		data.Tangent = math.Vec3{X: 1, Y: 0, Z: 0}
	}
	data.Tangent = data.Tangent.Normalize()
	data.Bitangent = data.Normal.Cross(data.Tangent).Normalize()
	data.Normal = data.Normal.Normalize()
	data.MaterialID = InvalidMaterial
}
