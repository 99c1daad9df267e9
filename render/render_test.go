package render

import (
	"testing"

	"ray-engine/color"
	"ray-engine/core"
	"ray-engine/materials"
	"ray-engine/math"
	"ray-engine/scene"
	"ray-engine/shapes"
)

// testCamera matches the end-to-end setup: 32x32 film, 10 degree vertical
// FoV, camera at (0, 0, -3) looking down +z.
func testCamera() *scene.Camera {
	camera := scene.NewCamera()
	camera.LookAt(math.Vec3{Z: -3}, math.Vec3{}, math.Vec3Up)
	camera.SetPerspective(1, math.Pi*10/180)
	return camera
}

func renderPasses(t *testing.T, world *scene.Scene, rendererName string, passes int) *Film {
	t.Helper()

	renderer, err := CreateRenderer(rendererName, world)
	if err != nil {
		t.Fatal(err)
	}

	viewport := NewViewport(world, renderer, 32, 32)
	viewport.SetSeed(1)
	camera := testCamera()
	for i := 0; i < passes; i++ {
		viewport.Render(camera)
	}
	return viewport.Film()
}

func addSphere(t *testing.T, world *scene.Scene, material *materials.Material) {
	t.Helper()

	materialID, err := world.AddMaterial(material)
	if err != nil {
		t.Fatal(err)
	}
	object := scene.NewSceneObject(world.AddShape(shapes.NewSphereShape(1)))
	object.MaterialID = materialID
	if _, err := world.AddObject(object); err != nil {
		t.Fatal(err)
	}
}

func checkPixel(t *testing.T, film *Film, x, y int, want math.Vec3, tolerance float32) {
	t.Helper()
	got := film.Pixel(x, y)
	if math.Abs(got.X-want.X) > tolerance ||
		math.Abs(got.Y-want.Y) > tolerance ||
		math.Abs(got.Z-want.Z) > tolerance {
		t.Errorf("pixel (%d, %d): got %v, want %v (tolerance %v)", x, y, got, want, tolerance)
	}
}

// checkRegion compares the mean of a 3x3 block, averaging out per-pixel
// Monte Carlo noise.
func checkRegion(t *testing.T, film *Film, x, y int, want math.Vec3, tolerance float32) {
	t.Helper()
	var sum math.Vec3
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			sum = sum.Add(film.Pixel(x+dx, y+dy))
		}
	}
	got := sum.Mul(1.0 / 9.0)
	if math.Abs(got.X-want.X) > tolerance ||
		math.Abs(got.Y-want.Y) > tolerance ||
		math.Abs(got.Z-want.Z) > tolerance {
		t.Errorf("region (%d, %d): got %v, want %v (tolerance %v)", x, y, got, want, tolerance)
	}
}

func TestEmptySceneRendersBlack(t *testing.T) {
	world := scene.NewScene(core.Init())
	if err := world.BuildBVH(); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"Path Tracer", "Path Tracer MIS"} {
		film := renderPasses(t, world, name, 1)
		for y := 0; y < 32; y++ {
			for x := 0; x < 32; x++ {
				if film.Pixel(x, y) != math.Vec3Zero {
					t.Fatalf("%s: pixel (%d, %d) = %v, want exact black", name, x, y, film.Pixel(x, y))
				}
			}
		}
	}
}

func TestBackgroundOnly(t *testing.T) {
	world := scene.NewScene(core.Init())
	world.SetBackground(color.NewSpectrum(1, 2, 3))
	if err := world.BuildBVH(); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"Path Tracer", "Path Tracer MIS"} {
		film := renderPasses(t, world, name, 1)
		want := math.Vec3{X: 1, Y: 2, Z: 3}
		for y := 0; y < 32; y++ {
			for x := 0; x < 32; x++ {
				checkPixel(t, film, x, y, want, 0.01)
			}
		}
	}
}

func TestEmissiveSphere(t *testing.T) {
	world := scene.NewScene(core.Init())
	world.SetBackground(color.NewSpectrum(1, 2, 3))

	lamp := materials.NewMaterial("lamp")
	lamp.Bsdf = materials.NullBsdf
	lamp.Emission.BaseValue = color.NewSpectrum(3, 2, 1)
	addSphere(t, world, lamp)

	if err := world.BuildBVH(); err != nil {
		t.Fatal(err)
	}

	film := renderPasses(t, world, "Path Tracer MIS", 1)

	// at this FoV and distance the whole film sees the sphere
	checkPixel(t, film, 16, 16, math.Vec3{X: 3, Y: 2, Z: 1}, 0.01)
	checkPixel(t, film, 8, 24, math.Vec3{X: 3, Y: 2, Z: 1}, 0.01)
}

// Furnace test: a diffuse sphere in a uniform environment reflects
// albedo * environment in every pixel.
func TestDiffuseFurnace(t *testing.T) {
	world := scene.NewScene(core.Init())
	world.SetBackground(color.NewSpectrum(1, 2, 3))

	diffuse := materials.NewMaterial("diffuse")
	diffuse.Bsdf = materials.DiffuseBsdf
	diffuse.BaseColor.BaseValue = color.NewSpectrum(0.4, 0.6, 0.8)
	addSphere(t, world, diffuse)

	if err := world.BuildBVH(); err != nil {
		t.Fatal(err)
	}

	film := renderPasses(t, world, "Path Tracer MIS", 100)

	want := math.Vec3{X: 0.4, Y: 1.2, Z: 2.4}
	for _, p := range [][2]int{{16, 16}, {4, 4}, {28, 10}, {10, 28}} {
		checkRegion(t, film, p[0], p[1], want, 0.05)
	}
}

// A perfect mirror sphere reflects the environment tinted by its base
// color.
func TestMirrorSphere(t *testing.T) {
	world := scene.NewScene(core.Init())
	world.SetBackground(color.NewSpectrum(1, 2, 3))

	mirror := materials.NewMaterial("mirror")
	mirror.Bsdf = materials.MetalBsdf
	mirror.BaseColor.BaseValue = color.NewSpectrum(0.4, 0.6, 0.8)
	mirror.IoR = 0
	mirror.K = 100
	addSphere(t, world, mirror)

	if err := world.BuildBVH(); err != nil {
		t.Fatal(err)
	}

	film := renderPasses(t, world, "Path Tracer MIS", 20)

	want := math.Vec3{X: 0.4, Y: 1.2, Z: 2.4}
	for _, p := range [][2]int{{16, 16}, {6, 6}, {26, 16}} {
		checkPixel(t, film, p[0], p[1], want, 0.05)
	}
}

// Energy conservation for glass: a clear dielectric sphere in a uniform
// environment is invisible up to Monte Carlo noise.
func TestGlassFurnace(t *testing.T) {
	if testing.Short() {
		t.Skip("glass furnace needs many passes")
	}

	world := scene.NewScene(core.Init())
	world.SetBackground(color.NewSpectrum(1, 2, 3))

	glass := materials.NewMaterial("glass")
	glass.Bsdf = materials.DielectricBsdf
	glass.BaseColor.BaseValue = color.NewSpectrum(1, 1, 1)
	glass.IoR = 1.5
	addSphere(t, world, glass)

	if err := world.BuildBVH(); err != nil {
		t.Fatal(err)
	}

	film := renderPasses(t, world, "Path Tracer MIS", 1000)

	want := math.Vec3{X: 1, Y: 2, Z: 3}
	for _, p := range [][2]int{{16, 16}, {10, 10}, {22, 14}} {
		checkRegion(t, film, p[0], p[1], want, 0.075)
	}
}

func TestPacketPrimaryRaysConsistent(t *testing.T) {
	world := scene.NewScene(core.Init())
	world.SetBackground(color.NewSpectrum(1, 2, 3))

	lamp := materials.NewMaterial("lamp")
	lamp.Bsdf = materials.NullBsdf
	lamp.Emission.BaseValue = color.NewSpectrum(3, 2, 1)
	addSphere(t, world, lamp)

	if err := world.BuildBVH(); err != nil {
		t.Fatal(err)
	}

	renderer, err := CreateRenderer("Path Tracer MIS", world)
	if err != nil {
		t.Fatal(err)
	}

	viewport := NewViewport(world, renderer, 32, 32)
	viewport.SetSeed(5)
	params := DefaultRenderingParams()
	params.PacketPrimaryRays = true
	viewport.SetParams(params)
	viewport.Render(testCamera())

	checkPixel(t, viewport.Film(), 16, 16, math.Vec3{X: 3, Y: 2, Z: 1}, 0.01)
	checkPixel(t, viewport.Film(), 24, 8, math.Vec3{X: 3, Y: 2, Z: 1}, 0.01)
}

func TestRendererRegistry(t *testing.T) {
	world := scene.NewScene(core.Init())
	if err := world.BuildBVH(); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"Path Tracer", "Path Tracer MIS"} {
		renderer, err := CreateRenderer(name, world)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if renderer.Name() != name {
			t.Errorf("renderer name %q, want %q", renderer.Name(), name)
		}
	}

	if _, err := CreateRenderer("VCM", world); err == nil {
		t.Error("VCM should report unavailable")
	}
	if _, err := CreateRenderer("Photon Mapper", world); err == nil {
		t.Error("unknown renderer should error")
	}
}

func TestViewportDeterminism(t *testing.T) {
	world := scene.NewScene(core.Init())
	world.SetBackground(color.NewSpectrum(0.5, 0.5, 0.5))

	diffuse := materials.NewMaterial("diffuse")
	addSphere(t, world, diffuse)
	if err := world.BuildBVH(); err != nil {
		t.Fatal(err)
	}

	render := func(workers int) []math.Vec3 {
		renderer, err := CreateRenderer("Path Tracer MIS", world)
		if err != nil {
			t.Fatal(err)
		}
		viewport := NewViewport(world, renderer, 32, 32)
		viewport.SetSeed(99)
		viewport.SetNumWorkers(workers)
		viewport.Render(testCamera())
		sum := make([]math.Vec3, len(viewport.Film().Sum()))
		copy(sum, viewport.Film().Sum())
		return sum
	}

	serial := render(1)
	parallel := render(8)

	for i := range serial {
		if serial[i] != parallel[i] {
			t.Fatalf("pixel %d differs between 1 and 8 workers: %v vs %v", i, serial[i], parallel[i])
		}
	}
}

func TestFilmAccumulation(t *testing.T) {
	film := NewFilm(8, 8, true)
	random := math.NewRandomSeeded(3)

	film.AccumulateColor(3, 4, math.Vec3{X: 1, Y: 2, Z: 3}, true)
	film.EndPass()

	if film.Pixel(3, 4) != (math.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("pixel after one pass: %v", film.Pixel(3, 4))
	}

	// jitter never leaves the tile
	smallTile := TileRect{X0: 2, Y0: 2, X1: 4, Y1: 4}
	for i := 0; i < 1000; i++ {
		film.AccumulateSample(math.Vec2{X: 0.49, Y: 0.49}, math.Vec3One, smallTile, random, false)
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			inside := x >= 2 && x < 4 && y >= 2 && y < 4
			value := film.Sum()[y*8+x]
			if !inside && (x != 3 || y != 4) && value != math.Vec3Zero {
				t.Errorf("jitter leaked to pixel (%d, %d)", x, y)
			}
		}
	}

	film.Clear()
	if film.NumPasses() != 0 || film.Pixel(3, 4) != math.Vec3Zero {
		t.Error("clear did not reset the film")
	}
}

func TestMisWeightHeuristics(t *testing.T) {
	ctx := NewRenderingContext(math.NewRandomSeeded(1), DefaultRenderingParams())

	// balance heuristic
	if w := ctx.MisWeight(1, 3); math.Abs(w-0.25) > 1e-6 {
		t.Errorf("balance weight %v, want 0.25", w)
	}

	params := DefaultRenderingParams()
	params.PowerHeuristicMIS = true
	ctx = NewRenderingContext(math.NewRandomSeeded(1), params)
	if w := ctx.MisWeight(1, 3); math.Abs(w-0.1) > 1e-6 {
		t.Errorf("power weight %v, want 0.1", w)
	}
}
