// Command render traces a scene to an image file. Without a scene file it
// renders a small built-in demo: a glass sphere, a rough metal sphere and
// an emissive quad-box over a diffuse floor.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"ray-engine/color"
	"ray-engine/core"
	"ray-engine/io"
	"ray-engine/materials"
	"ray-engine/math"
	"ray-engine/render"
	"ray-engine/scene"
	"ray-engine/shapes"
)

func main() {
	var (
		width        = flag.Int("width", 640, "image width")
		height       = flag.Int("height", 480, "image height")
		passes       = flag.Int("passes", 16, "render passes (samples per pixel)")
		output       = flag.String("out", "render.png", "output image path")
		rendererName = flag.String("renderer", "Path Tracer MIS", "renderer name")
		scenePath    = flag.String("scene", "", "JSON scene file (optional)")
		packets      = flag.Bool("packets", false, "trace primary rays in packets")
	)
	flag.Parse()

	if err := run(*width, *height, *passes, *output, *rendererName, *scenePath, *packets); err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		os.Exit(1)
	}
}

func run(width, height, passes int, output, rendererName, scenePath string, packets bool) error {
	engine := core.Init()

	var world *scene.Scene
	var camera *scene.Camera
	var err error

	if scenePath != "" {
		world, camera, err = io.LoadScene(engine, scenePath)
		if err != nil {
			return err
		}
	} else {
		world, camera, err = buildDemoScene(engine)
		if err != nil {
			return err
		}
	}

	camera.SetPerspective(float32(width)/float32(height), camera.FieldOfView())

	renderer, err := render.CreateRenderer(rendererName, world)
	if err != nil {
		return err
	}

	viewport := render.NewViewport(world, renderer, width, height)
	params := render.DefaultRenderingParams()
	params.PacketPrimaryRays = packets
	viewport.SetParams(params)

	start := time.Now()
	for pass := 0; pass < passes; pass++ {
		viewport.Render(camera)
	}
	elapsed := time.Since(start)

	counters := viewport.Counters()
	fmt.Printf("%d passes in %v (%d rays, %d ray-box tests, %d ray-triangle tests)\n",
		passes, elapsed, counters.NumRays, counters.NumRayBoxTests, counters.NumRayTriangleTests)

	return viewport.Film().SaveImage(output, 1)
}

func buildDemoScene(engine *core.Engine) (*scene.Scene, *scene.Camera, error) {
	world := scene.NewScene(engine)
	world.SetBackground(color.NewSpectrum(0.6, 0.7, 0.9))

	floor := materials.NewMaterial("floor")
	floor.BaseColor.BaseValue = color.NewSpectrum(0.7, 0.7, 0.7)
	floorID, err := world.AddMaterial(floor)
	if err != nil {
		return nil, nil, err
	}

	glass := materials.NewMaterial("glass")
	glass.Bsdf = materials.DielectricBsdf
	glass.BaseColor.BaseValue = color.NewSpectrum(1, 1, 1)
	glass.IoR = 1.5
	glass.IsDispersive = true
	glassID, err := world.AddMaterial(glass)
	if err != nil {
		return nil, nil, err
	}

	metal := materials.NewMaterial("metal")
	metal.Bsdf = materials.RoughMetalBsdf
	metal.BaseColor.BaseValue = color.NewSpectrum(0.95, 0.64, 0.54)
	metal.Roughness.BaseValue = 0.25
	metalID, err := world.AddMaterial(metal)
	if err != nil {
		return nil, nil, err
	}

	lamp := materials.NewMaterial("lamp")
	lamp.Bsdf = materials.NullBsdf
	lamp.Emission.BaseValue = color.NewSpectrum(8, 7.5, 7)
	lampID, err := world.AddMaterial(lamp)
	if err != nil {
		return nil, nil, err
	}

	add := func(shape *shapes.Shape, materialID uint32, position math.Vec3) error {
		object := scene.NewSceneObject(world.AddShape(shape))
		object.MaterialID = materialID
		if err := object.SetTransform(math.Mat4Translation(position)); err != nil {
			return err
		}
		_, err := world.AddObject(object)
		return err
	}

	if err := add(shapes.NewBoxShape(math.Vec3{X: 8, Y: 0.1, Z: 8}), floorID, math.Vec3{Y: -1.1}); err != nil {
		return nil, nil, err
	}
	if err := add(shapes.NewSphereShape(1), glassID, math.Vec3{X: -1.2, Y: 0, Z: 0}); err != nil {
		return nil, nil, err
	}
	if err := add(shapes.NewSphereShape(1), metalID, math.Vec3{X: 1.2, Y: 0, Z: 0}); err != nil {
		return nil, nil, err
	}
	if err := add(shapes.NewBoxShape(math.Vec3{X: 1.5, Y: 0.05, Z: 1.5}), lampID, math.Vec3{Y: 4}); err != nil {
		return nil, nil, err
	}

	if err := world.BuildBVH(); err != nil {
		return nil, nil, err
	}

	camera := scene.NewCamera()
	camera.LookAt(math.Vec3{X: 0, Y: 1.2, Z: -6}, math.Vec3Zero, math.Vec3Up)
	camera.SetPerspective(4.0/3.0, math.Pi*40/180)

	return world, camera, nil
}
