// Package scene assembles shapes, materials and lights into a traceable
// world: a two-level BVH with per-object transforms, plus the camera.
//
// Ownership is arena-based: shapes, materials and lights live in
// scene-owned slices and everything else refers to them by uint32 handle.
package scene

import (
	"errors"

	"ray-engine/math"
)

// InvalidHandle marks an unset arena reference.
const InvalidHandle = ^uint32(0)

// ErrAnisotropicTransform is returned for transforms the two-level
// traversal cannot support: hit distances are kept in world-space units,
// which only survives rigid motion and uniform scale.
var ErrAnisotropicTransform = errors.New("scene: anisotropic object transforms are not supported")

// SceneObject places a shape in the world. A MaterialID of InvalidHandle
// selects the scene's default material.
type SceneObject struct {
	ShapeID    uint32
	MaterialID uint32

	transform        math.Mat4
	inverseTransform math.Mat4

	// length of a world-space unit direction taken into local space;
	// 1 for rigid transforms, 1/scale under uniform scaling
	invScale float32
}

// NewSceneObject creates an object with an identity transform.
func NewSceneObject(shapeID uint32) SceneObject {
	return SceneObject{
		ShapeID:          shapeID,
		MaterialID:       InvalidHandle,
		transform:        math.Mat4Identity(),
		inverseTransform: math.Mat4Identity(),
		invScale:         1,
	}
}

// SetTransform sets the local-to-world matrix. Anisotropic scale is
// rejected.
func (o *SceneObject) SetTransform(transform math.Mat4) error {
	if !transform.HasUniformScale(1e-4) {
		return ErrAnisotropicTransform
	}

	o.transform = transform
	o.inverseTransform = transform.Inverse()
	o.invScale = o.inverseTransform.TransformDir(math.Vec3Right).Length()
	return nil
}

func (o *SceneObject) Transform() math.Mat4 {
	return o.transform
}

func (o *SceneObject) InverseTransform() math.Mat4 {
	return o.inverseTransform
}

// IsRigid reports whether the transform preserves distances.
func (o *SceneObject) IsRigid() bool {
	return math.Abs(o.invScale-1) < 1e-5
}
