package textures

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	rmath "ray-engine/math"
)

// Texture is anything a material parameter can sample.
type Texture interface {
	Evaluate(uv rmath.Vec2) rmath.Vec4
}

// Checkerboard alternates two colors on a grid.
type Checkerboard struct {
	ColorA rmath.Vec4
	ColorB rmath.Vec4
	Scale  float32
}

func (c *Checkerboard) Evaluate(uv rmath.Vec2) rmath.Vec4 {
	scale := c.Scale
	if scale <= 0 {
		scale = 1
	}
	x := int(rmath.Floor(uv.X * scale))
	y := int(rmath.Floor(uv.Y * scale))
	if (x+y)&1 == 0 {
		return c.ColorA
	}
	return c.ColorB
}

// TextureManager caches bitmaps loaded from disk.
type TextureManager struct {
	textures map[string]*Bitmap
	mu       sync.RWMutex
}

func NewTextureManager() *TextureManager {
	return &TextureManager{textures: make(map[string]*Bitmap)}
}

// Load decodes an image file, returning the cached bitmap if available.
// PNG, JPEG, BMP and TIFF are supported.
func (tm *TextureManager) Load(path string) (*Bitmap, error) {
	tm.mu.RLock()
	if tex, ok := tm.textures[path]; ok {
		tm.mu.RUnlock()
		return tex, nil
	}
	tm.mu.RUnlock()

	tex, err := LoadBitmap(path)
	if err != nil {
		return nil, err
	}

	tm.mu.Lock()
	tm.textures[path] = tex
	tm.mu.Unlock()
	return tex, nil
}

// LoadBitmap decodes an image file into a B8G8R8A8 bitmap.
func LoadBitmap(path string) (*Bitmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("textures: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("textures: decoding %s: %w", path, err)
	}

	bounds := img.Bounds()
	bitmap, err := NewBitmap(bounds.Dx(), bounds.Dy(), FormatB8G8R8A8UNorm)
	if err != nil {
		return nil, err
	}

	var texel [4]byte
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			texel[0] = byte(b >> 8)
			texel[1] = byte(g >> 8)
			texel[2] = byte(r >> 8)
			texel[3] = byte(a >> 8)
			bitmap.SetPixelBytes(x, y, texel[:])
		}
	}
	return bitmap, nil
}
