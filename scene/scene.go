package scene

import (
	"fmt"

	"ray-engine/bvh"
	"ray-engine/color"
	"ray-engine/core"
	"ray-engine/materials"
	"ray-engine/math"
	"ray-engine/shapes"
)

// Scene owns all world content in arenas (shapes, materials, objects,
// lights) and the top-level BVH over traceable objects. Build the content,
// call BuildBVH, then the scene is immutable and safe to trace from any
// number of workers.
type Scene struct {
	engine *core.Engine

	shapes    []*shapes.Shape
	materials []*materials.Material
	objects   []SceneObject
	lights    []Light
	decals    []Decal

	// indices into lights: emitters with geometry vs. the environment
	areaLights   []uint32
	globalLights []uint32

	tree bvh.BVH

	defaultMaterial *materials.Material
}

// NewScene creates an empty scene bound to an engine handle.
func NewScene(engine *core.Engine) *Scene {
	return &Scene{engine: engine}
}

func (s *Scene) Engine() *core.Engine {
	return s.engine
}

// AddShape moves a shape into the scene arena and returns its handle.
func (s *Scene) AddShape(shape *shapes.Shape) uint32 {
	s.shapes = append(s.shapes, shape)
	return uint32(len(s.shapes) - 1)
}

// AddMaterial moves a material into the scene arena and returns its handle.
func (s *Scene) AddMaterial(material *materials.Material) (uint32, error) {
	if err := material.Compile(); err != nil {
		return InvalidHandle, err
	}
	s.materials = append(s.materials, material)
	return uint32(len(s.materials) - 1), nil
}

// Material resolves a material handle.
func (s *Scene) Material(id uint32) *materials.Material {
	return s.materials[id]
}

// Shape resolves a shape handle.
func (s *Scene) Shape(id uint32) *shapes.Shape {
	return s.shapes[id]
}

// DefaultMaterial lazily creates the material used by objects that set
// none.
func (s *Scene) DefaultMaterial() *materials.Material {
	if s.defaultMaterial == nil {
		material := materials.NewMaterial("default")
		if err := material.Compile(); err != nil {
			// the default material is statically valid
			panic(err)
		}
		s.defaultMaterial = material
	}
	return s.defaultMaterial
}

// AddObject places an object in the scene. Objects with an emissive
// material register as area lights.
func (s *Scene) AddObject(object SceneObject) (uint32, error) {
	if object.ShapeID >= uint32(len(s.shapes)) {
		return InvalidHandle, fmt.Errorf("scene: shape handle %d out of range", object.ShapeID)
	}
	if object.MaterialID != InvalidHandle && object.MaterialID >= uint32(len(s.materials)) {
		return InvalidHandle, fmt.Errorf("scene: material handle %d out of range", object.MaterialID)
	}
	if object.invScale == 0 {
		// zero value: the object was not built with NewSceneObject
		object.transform = math.Mat4Identity()
		object.inverseTransform = math.Mat4Identity()
		object.invScale = 1
	}

	id := uint32(len(s.objects))
	s.objects = append(s.objects, object)

	if s.objectMaterial(&s.objects[id]).IsEmissive() {
		s.lights = append(s.lights, Light{Kind: AreaLight, ObjectID: id})
		s.areaLights = append(s.areaLights, uint32(len(s.lights)-1))
	}

	return id, nil
}

// SetBackground installs an environment light with the given radiance.
func (s *Scene) SetBackground(radiance color.Spectrum) {
	s.lights = append(s.lights, Light{Kind: BackgroundLight, Color: radiance})
	s.globalLights = append(s.globalLights, uint32(len(s.lights)-1))
}

func (s *Scene) NumObjects() int { return len(s.objects) }
func (s *Scene) Lights() []Light { return s.lights }

// PickLight selects a light uniformly. Returns nil when there are none.
func (s *Scene) PickLight(random *math.Random) (*Light, float32) {
	if len(s.lights) == 0 {
		return nil, 0
	}
	index := random.GetInt() % uint32(len(s.lights))
	return &s.lights[index], 1.0 / float32(len(s.lights))
}

// LightForObject returns the light backed by the given object, if any.
func (s *Scene) LightForObject(objectID uint32) *Light {
	for _, lightID := range s.areaLights {
		if s.lights[lightID].ObjectID == objectID {
			return &s.lights[lightID]
		}
	}
	return nil
}

// EvaluateGlobalLights returns the environment radiance for an escaped ray.
func (s *Scene) EvaluateGlobalLights(wavelength *color.Wavelength, _ math.Vec3) color.RayColor {
	radiance := color.RayColorZero()
	for _, lightID := range s.globalLights {
		radiance = radiance.Add(color.Resolve(wavelength, s.lights[lightID].Color))
	}
	return radiance
}

// BuildBVH builds the top-level hierarchy over the objects' world bounds.
func (s *Scene) BuildBVH() error {
	boxes := make([]math.Box, len(s.objects))
	for i := range s.objects {
		object := &s.objects[i]
		localBox := s.shapes[object.ShapeID].BoundingBox()
		boxes[i] = localBox.Transformed(object.transform)
	}

	tree, order, err := bvh.Build(boxes, 1)
	if err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	s.tree = *tree

	// the builder permuted the leaf order; leaves address objects through
	// this indirection
	permuted := make([]SceneObject, len(s.objects))
	remap := make([]uint32, len(s.objects))
	for newIndex, oldIndex := range order {
		permuted[newIndex] = s.objects[oldIndex]
		remap[oldIndex] = uint32(newIndex)
	}
	s.objects = permuted

	for i := range s.lights {
		if s.lights[i].Kind == AreaLight {
			s.lights[i].ObjectID = remap[s.lights[i].ObjectID]
		}
	}

	return nil
}

// BVH exposes the top-level tree (stats, serialization).
func (s *Scene) BVH() *bvh.BVH {
	return &s.tree
}

func (s *Scene) objectMaterial(object *SceneObject) *materials.Material {
	if object.MaterialID != InvalidHandle {
		return s.materials[object.MaterialID]
	}
	return s.DefaultMaterial()
}
