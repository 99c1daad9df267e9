package scene

import (
	stdmath "math"

	"ray-engine/math"
)

// BokehShape selects the aperture sampling pattern for depth of field.
type BokehShape uint8

const (
	BokehCircle BokehShape = iota
	BokehHexagon
	BokehSquare
)

// DepthOfField holds the thin-lens parameters.
type DepthOfField struct {
	Enable             bool
	Aperture           float32
	FocalPlaneDistance float32
	Bokeh              BokehShape
}

// Camera generates primary rays. Film coordinates are in [0, 1]^2 with the
// origin at the lower-left corner.
type Camera struct {
	DOF DepthOfField

	BarrelDistortionConstFactor    float32
	BarrelDistortionVariableFactor float32
	EnableBarrelDistortion         bool

	localToWorld  math.Mat4
	worldToScreen math.Mat4
	aspectRatio   float32
	fieldOfView   float32
	tanHalfFoV    float32
}

// NewCamera returns a camera at the origin with a 20 degree vertical FoV.
func NewCamera() *Camera {
	camera := &Camera{
		localToWorld:                math.Mat4Identity(),
		BarrelDistortionConstFactor: 0.01,
	}
	camera.SetPerspective(1, math.Pi*20/180)
	return camera
}

// SetTransform sets the camera's local-to-world matrix (rows: right, up,
// forward, position).
func (c *Camera) SetTransform(transform math.Mat4) {
	c.localToWorld = transform
	c.updateWorldToScreen()
}

// LookAt orients the camera toward a target.
func (c *Camera) LookAt(position, target, up math.Vec3) {
	forward := target.Sub(position).Normalize()
	right := up.Cross(forward).Normalize()
	realUp := forward.Cross(right)

	transform := math.Mat4Identity()
	transform[0] = [4]float32{right.X, right.Y, right.Z, 0}
	transform[1] = [4]float32{realUp.X, realUp.Y, realUp.Z, 0}
	transform[2] = [4]float32{forward.X, forward.Y, forward.Z, 0}
	transform[3] = [4]float32{position.X, position.Y, position.Z, 1}
	c.SetTransform(transform)
}

// SetPerspective sets the aspect ratio and vertical field of view
// (radians).
func (c *Camera) SetPerspective(aspectRatio, fieldOfView float32) {
	c.aspectRatio = aspectRatio
	c.fieldOfView = fieldOfView
	c.tanHalfFoV = float32(stdmath.Tan(float64(fieldOfView) * 0.5))
	c.updateWorldToScreen()
}

func (c *Camera) AspectRatio() float32 { return c.aspectRatio }
func (c *Camera) FieldOfView() float32 { return c.fieldOfView }

func (c *Camera) updateWorldToScreen() {
	worldToLocal := c.localToWorld.Inverse()

	// like math.Mat4Perspective, but for a +Z-forward view space so the
	// projected w equals the view depth
	const near, far = 0.01, 1000.0
	projection := math.Mat4Zero()
	projection[0][0] = 1 / (c.aspectRatio * c.tanHalfFoV)
	projection[1][1] = 1 / c.tanHalfFoV
	projection[2][2] = (far + near) / (far - near)
	projection[2][3] = 1
	projection[3][2] = -(2 * far * near) / (far - near)

	c.worldToScreen = worldToLocal.Mul(projection)
}

// Position returns the camera origin.
func (c *Camera) Position() math.Vec3 {
	return math.Vec3{X: c.localToWorld[3][0], Y: c.localToWorld[3][1], Z: c.localToWorld[3][2]}
}

func (c *Camera) forward() math.Vec3 {
	return math.Vec3{X: c.localToWorld[2][0], Y: c.localToWorld[2][1], Z: c.localToWorld[2][2]}
}

func (c *Camera) right() math.Vec3 {
	return math.Vec3{X: c.localToWorld[0][0], Y: c.localToWorld[0][1], Z: c.localToWorld[0][2]}
}

func (c *Camera) up() math.Vec3 {
	return math.Vec3{X: c.localToWorld[1][0], Y: c.localToWorld[1][1], Z: c.localToWorld[1][2]}
}

// GenerateRay builds the primary ray through the given film coordinates.
func (c *Camera) GenerateRay(coords math.Vec2, random *math.Random) math.Ray {
	offsetCoords := math.Vec2{X: 2*coords.X - 1, Y: 2*coords.Y - 1}

	if c.EnableBarrelDistortion {
		radius := offsetCoords.Dot(offsetCoords)
		radius *= c.BarrelDistortionConstFactor + c.BarrelDistortionVariableFactor*random.GetFloat()
		offsetCoords = offsetCoords.Add(offsetCoords.Mul(radius))
	}

	direction := c.forward().
		Add(c.right().Mul(offsetCoords.X * c.aspectRatio * c.tanHalfFoV)).
		Add(c.up().Mul(offsetCoords.Y * c.tanHalfFoV))
	origin := c.Position()

	if c.DOF.Enable {
		focusPoint := origin.Add(direction.Mul(c.DOF.FocalPlaneDistance))

		bokeh := c.generateBokeh(random).Mul(c.DOF.Aperture)
		origin = origin.Add(c.right().Mul(bokeh.X)).Add(c.up().Mul(bokeh.Y))

		direction = focusPoint.Sub(origin)
	}

	return math.NewRay(origin, direction)
}

func (c *Camera) generateBokeh(random *math.Random) math.Vec2 {
	switch c.DOF.Bokeh {
	case BokehHexagon:
		return math.SampleHexagon(random.GetVec3())
	case BokehSquare:
		return math.Vec2{X: random.GetFloatBipolar(), Y: random.GetFloatBipolar()}
	default:
		return math.SampleCircle(random.GetVec2())
	}
}

// WorldToFilm projects a world position back to film coordinates. Returns
// false for points behind the camera.
func (c *Camera) WorldToFilm(worldPosition math.Vec3) (math.Vec2, bool) {
	v := worldPosition.ToVec4(1).MulMat(c.worldToScreen)

	if v.Z > 0 && v.W > 0 {
		// perspective projection, [-1, 1] -> [0, 1]
		return math.Vec2{
			X: v.X/v.W*0.5 + 0.5,
			Y: v.Y/v.W*0.5 + 0.5,
		}, true
	}
	return math.Vec2{}, false
}

// PdfW is the solid-angle density of generating a primary ray in the given
// direction.
func (c *Camera) PdfW(direction math.Vec3) float32 {
	cosAtCamera := c.forward().Dot(direction)
	if cosAtCamera <= 0 {
		return 0
	}
	return 0.25 / (math.Sqr(c.tanHalfFoV) * math.Cube(cosAtCamera) * c.aspectRatio)
}
