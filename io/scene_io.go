package io

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ray-engine/color"
	"ray-engine/core"
	"ray-engine/materials"
	"ray-engine/math"
	"ray-engine/scene"
	"ray-engine/shapes"
)

// SceneDesc is the JSON scene description.
type SceneDesc struct {
	Background *[3]float32  `json:"background,omitempty"`
	Materials  []MaterialDesc `json:"materials,omitempty"`
	Objects    []ObjectDesc   `json:"objects"`
	Camera     *CameraDesc    `json:"camera,omitempty"`
}

// MaterialDesc serializes one material.
type MaterialDesc struct {
	Name       string     `json:"name"`
	Bsdf       string     `json:"bsdf"`
	BaseColor  [3]float32 `json:"baseColor"`
	Emission   [3]float32 `json:"emission,omitempty"`
	Roughness  float32    `json:"roughness"`
	Metalness  float32    `json:"metalness"`
	IoR        float32    `json:"ior"`
	K          float32    `json:"k"`
	Dispersive bool       `json:"dispersive,omitempty"`
}

// ObjectDesc serializes one scene object.
type ObjectDesc struct {
	Shape    string     `json:"shape"` // sphere, box, mesh
	Radius   float32    `json:"radius,omitempty"`
	Size     [3]float32 `json:"size,omitempty"`
	Path     string     `json:"path,omitempty"` // mesh file, relative to the scene file
	Material string     `json:"material,omitempty"`
	Position [3]float32 `json:"position"`
	Rotation [3]float32 `json:"rotation"` // Euler angles, radians
	Scale    float32    `json:"scale,omitempty"`
}

// CameraDesc serializes the camera setup.
type CameraDesc struct {
	Position [3]float32 `json:"position"`
	Target   [3]float32 `json:"target"`
	FoV      float32    `json:"fov"` // vertical, degrees
}

func vec3Of(v [3]float32) math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// LoadScene reads a JSON scene file and builds the world and camera.
func LoadScene(engine *core.Engine, path string) (*scene.Scene, *scene.Camera, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("scene: %w", err)
	}

	var desc SceneDesc
	if err := json.Unmarshal(raw, &desc); err != nil {
		return nil, nil, fmt.Errorf("scene: parsing %s: %w", path, err)
	}

	world := scene.NewScene(engine)

	if desc.Background != nil {
		world.SetBackground(color.NewSpectrum(desc.Background[0], desc.Background[1], desc.Background[2]))
	}

	materialHandles := make(map[string]uint32)
	for _, md := range desc.Materials {
		material := materials.NewMaterial(md.Name)
		if err := material.SetBsdf(md.Bsdf); err != nil {
			return nil, nil, err
		}
		material.BaseColor.BaseValue = color.NewSpectrum(md.BaseColor[0], md.BaseColor[1], md.BaseColor[2])
		material.Emission.BaseValue = color.NewSpectrum(md.Emission[0], md.Emission[1], md.Emission[2])
		material.Roughness.BaseValue = md.Roughness
		material.Metalness.BaseValue = md.Metalness
		if md.IoR > 0 {
			material.IoR = md.IoR
		}
		if md.K > 0 {
			material.K = md.K
		}
		material.IsDispersive = md.Dispersive

		handle, err := world.AddMaterial(material)
		if err != nil {
			return nil, nil, err
		}
		materialHandles[md.Name] = handle
	}

	for i, od := range desc.Objects {
		var shape *shapes.Shape
		switch od.Shape {
		case "sphere":
			shape = shapes.NewSphereShape(od.Radius)
		case "box":
			shape = shapes.NewBoxShape(vec3Of(od.Size))
		case "mesh":
			objData, err := LoadOBJ(filepath.Join(filepath.Dir(path), od.Path))
			if err != nil {
				return nil, nil, fmt.Errorf("scene object %d: %w", i, err)
			}
			shape, err = shapes.NewMeshShape(engine.Allocator(), objData.Desc)
			if err != nil {
				return nil, nil, fmt.Errorf("scene object %d: %w", i, err)
			}
		default:
			return nil, nil, fmt.Errorf("scene object %d: unknown shape %q", i, od.Shape)
		}

		object := scene.NewSceneObject(world.AddShape(shape))

		if od.Material != "" {
			handle, ok := materialHandles[od.Material]
			if !ok {
				return nil, nil, fmt.Errorf("scene object %d: unknown material %q", i, od.Material)
			}
			object.MaterialID = handle
		}

		scaleFactor := od.Scale
		if scaleFactor == 0 {
			scaleFactor = 1
		}
		transform := math.Mat4Scale(math.Vec3{X: scaleFactor, Y: scaleFactor, Z: scaleFactor}).
			Mul(math.Mat4Rotation(vec3Of(od.Rotation))).
			Mul(math.Mat4Translation(vec3Of(od.Position)))
		if err := object.SetTransform(transform); err != nil {
			return nil, nil, fmt.Errorf("scene object %d: %w", i, err)
		}

		if _, err := world.AddObject(object); err != nil {
			return nil, nil, err
		}
	}

	if err := world.BuildBVH(); err != nil {
		return nil, nil, err
	}

	camera := scene.NewCamera()
	if desc.Camera != nil {
		camera.LookAt(vec3Of(desc.Camera.Position), vec3Of(desc.Camera.Target), math.Vec3Up)
		camera.SetPerspective(1, desc.Camera.FoV*math.Pi/180)
	}

	return world, camera, nil
}

// SaveScene writes a scene description to a JSON file.
func SaveScene(path string, desc *SceneDesc) error {
	raw, err := json.MarshalIndent(desc, "", "  ")
	if err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	return nil
}
