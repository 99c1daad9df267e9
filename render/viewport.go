package render

import (
	"runtime"
	"sync"
	"sync/atomic"

	"ray-engine/bvh"
	"ray-engine/core"
	"ray-engine/math"
	"ray-engine/scene"
)

// TileSize is the square tile edge, in pixels. Tiles partition the film
// between workers; a tile is the unit of work and of film ownership.
const TileSize = 16

// TileRect is a half-open pixel region.
type TileRect struct {
	X0, Y0 int
	X1, Y1 int
}

// Viewport owns the film and the worker pool that fills it. Rendering is
// parallel by tile; results are deterministic per tile for a fixed seed
// regardless of worker count or scheduling.
type Viewport struct {
	world    *scene.Scene
	renderer Renderer
	params   RenderingParams

	film *Film

	// base seed mixed with tile and pass indices
	seed uint64

	numWorkers int

	stopRequested atomic.Bool

	counters core.Counters
}

// NewViewport creates a viewport of the given size.
func NewViewport(world *scene.Scene, renderer Renderer, width, height int) *Viewport {
	return &Viewport{
		world:      world,
		renderer:   renderer,
		params:     DefaultRenderingParams(),
		film:       NewFilm(width, height, true),
		seed:       0x2545f4914f6cdd1d,
		numWorkers: runtime.NumCPU(),
	}
}

// SetParams replaces the rendering parameters. Takes effect next pass.
func (v *Viewport) SetParams(params RenderingParams) {
	v.params = params
}

// SetSeed fixes the base seed, making passes reproducible.
func (v *Viewport) SetSeed(seed uint64) {
	v.seed = seed
}

// SetNumWorkers bounds the worker pool (minimum one).
func (v *Viewport) SetNumWorkers(n int) {
	if n < 1 {
		n = 1
	}
	v.numWorkers = n
}

// Resize reallocates the film and drops accumulated passes.
func (v *Viewport) Resize(width, height int) {
	if width == v.film.Width() && height == v.film.Height() {
		return
	}
	v.film = NewFilm(width, height, true)
}

// Reset drops all accumulated passes.
func (v *Viewport) Reset() {
	v.film.Clear()
	v.counters.Reset()
}

// RequestStop asks running workers to finish early; the current pass ends
// at the next tile boundary.
func (v *Viewport) RequestStop() {
	v.stopRequested.Store(true)
}

// Film exposes the accumulation buffers for readback.
func (v *Viewport) Film() *Film {
	return v.film
}

// Counters returns the traversal statistics accumulated so far.
func (v *Viewport) Counters() core.Counters {
	return v.counters
}

func (v *Viewport) tiles() []TileRect {
	var tiles []TileRect
	for y0 := 0; y0 < v.film.Height(); y0 += TileSize {
		for x0 := 0; x0 < v.film.Width(); x0 += TileSize {
			x1 := x0 + TileSize
			y1 := y0 + TileSize
			if x1 > v.film.Width() {
				x1 = v.film.Width()
			}
			if y1 > v.film.Height() {
				y1 = v.film.Height()
			}
			tiles = append(tiles, TileRect{X0: x0, Y0: y0, X1: x1, Y1: y1})
		}
	}
	return tiles
}

// Render accumulates one pass over the whole film.
func (v *Viewport) Render(camera *scene.Camera) {
	v.stopRequested.Store(false)

	tiles := v.tiles()
	tileQueue := make(chan int, len(tiles))
	for i := range tiles {
		tileQueue <- i
	}
	close(tileQueue)

	pass := v.film.NumPasses()
	workerCounters := make([]core.Counters, v.numWorkers)

	var wg sync.WaitGroup
	for worker := 0; worker < v.numWorkers; worker++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			ctx := NewRenderingContext(nil, v.params)
			for tileIndex := range tileQueue {
				if v.stopRequested.Load() {
					break
				}

				// fixed per-tile seed: the image does not depend on which
				// worker renders which tile
				tileSeed := v.seed ^ (uint64(tileIndex)+1)*0x9e3779b97f4a7c15 ^ uint64(pass)<<32
				ctx.Random = math.NewRandomSeeded(tileSeed)
				ctx.Counters.Reset()

				v.renderTile(camera, ctx, tiles[tileIndex], pass)

				workerCounters[workerID].Accumulate(&ctx.Counters)
			}
		}(worker)
	}
	wg.Wait()

	for i := range workerCounters {
		v.counters.Accumulate(&workerCounters[i])
	}

	v.film.EndPass()
}

func (v *Viewport) renderTile(camera *scene.Camera, ctx *RenderingContext, tile TileRect, pass uint32) {
	toSecondary := pass%2 == 0

	if v.params.PacketPrimaryRays {
		v.renderTilePacket(camera, ctx, tile, toSecondary)
		return
	}

	invWidth := 1 / float32(v.film.Width())
	invHeight := 1 / float32(v.film.Height())

	for y := tile.Y0; y < tile.Y1; y++ {
		for x := tile.X0; x < tile.X1; x++ {
			ctx.Wavelength.Randomize(ctx.Random.GetFloat())

			u := ctx.Random.GetVec2()
			coords := math.Vec2{
				X: (float32(x) + u.X) * invWidth,
				Y: (float32(y) + u.Y) * invHeight,
			}

			ray := camera.GenerateRay(coords, ctx.Random)
			ctx.Counters.NumPrimaryRays++

			value := v.renderer.TraceRay(ray, ctx)
			v.film.AccumulateSample(coords, value.ToRGB(&ctx.Wavelength), tile, ctx.Random, toSecondary)
		}
	}
}

// renderTilePacket generates the tile's primary rays as one packet,
// traverses them together to restore coherence, then shades each ray from
// its precomputed hit.
func (v *Viewport) renderTilePacket(camera *scene.Camera, ctx *RenderingContext, tile TileRect, toSecondary bool) {
	invWidth := 1 / float32(v.film.Width())
	invHeight := 1 / float32(v.film.Height())

	ctx.Packet.Clear()

	type sampleInfo struct {
		ray        math.Ray
		coords     math.Vec2
		wavelength float32
	}
	var samples [TileSize * TileSize]sampleInfo
	numSamples := 0

	for y := tile.Y0; y < tile.Y1; y++ {
		for x := tile.X0; x < tile.X1; x++ {
			u := ctx.Random.GetVec2()
			coords := math.Vec2{
				X: (float32(x) + u.X) * invWidth,
				Y: (float32(y) + u.Y) * invHeight,
			}

			ray := camera.GenerateRay(coords, ctx.Random)
			ctx.Counters.NumPrimaryRays++

			samples[numSamples] = sampleInfo{
				ray:        ray,
				coords:     coords,
				wavelength: ctx.Random.GetFloat(),
			}
			ctx.Packet.PushRay(ray, math.Vec3One, bvh.ImageLocation{X: uint16(x), Y: uint16(y)})
			numSamples++
		}
	}

	v.world.TraversePacket(&ctx.PacketContext)

	for i := 0; i < numSamples; i++ {
		ctx.Wavelength.Randomize(samples[i].wavelength)

		hit := ctx.PacketContext.HitPoints[i]
		value := v.renderer.TraceRayFromHit(samples[i].ray, hit, ctx)
		v.film.AccumulateSample(samples[i].coords, value.ToRGB(&ctx.Wavelength), tile, ctx.Random, toSecondary)
	}
}
