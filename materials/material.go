// Package materials implements the surface model: the closed BSDF set and
// the Material type binding a BSDF to textured parameters.
package materials

import (
	"fmt"

	"ray-engine/color"
	"ray-engine/math"
	"ray-engine/shapes"
	"ray-engine/textures"
)

// DefaultBsdfName is the BSDF assigned to materials that do not pick one.
const DefaultBsdfName = "diffuse"

// DispersionParams are the Cauchy equation coefficients (lambda in
// micrometers). Defaults approximate BK7 glass.
type DispersionParams struct {
	C float32
	D float32
}

// ScalarParameter is a scalar material input with an optional texture; the
// texture's first channel scales the base value.
type ScalarParameter struct {
	BaseValue float32
	Map       textures.Texture
}

func (p *ScalarParameter) Evaluate(uv math.Vec2) float32 {
	value := p.BaseValue
	if p.Map != nil {
		value *= p.Map.Evaluate(uv).X
	}
	return value
}

// ColorParameter is a color material input with an optional texture.
type ColorParameter struct {
	BaseValue color.Spectrum
	Map       textures.Texture
}

func (p *ColorParameter) Evaluate(uv math.Vec2) color.Spectrum {
	value := p.BaseValue
	if p.Map != nil {
		texel := p.Map.Evaluate(uv)
		value.RGB = value.RGB.MulVec(math.Vec3{X: texel.X, Y: texel.Y, Z: texel.Z})
	}
	return value
}

// Material binds a BSDF to its textured parameters.
type Material struct {
	Name string
	Bsdf Bsdf

	Emission  ColorParameter
	BaseColor ColorParameter
	Roughness ScalarParameter
	Metalness ScalarParameter

	// index of refraction (real part) and extinction coefficient
	IoR float32
	K   float32

	NormalMap         textures.Texture
	NormalMapStrength float32
	MaskMap           textures.Texture

	IsDispersive bool
	Dispersion   DispersionParams
}

// NewMaterial returns a material with the default diffuse setup.
func NewMaterial(name string) *Material {
	return &Material{
		Name:              name,
		Bsdf:              DiffuseBsdf,
		BaseColor:         ColorParameter{BaseValue: color.NewSpectrum(0.7, 0.7, 0.7)},
		Roughness:         ScalarParameter{BaseValue: 0.1},
		IoR:               1.5,
		K:                 4.0,
		NormalMapStrength: 1.0,
		Dispersion:        DispersionParams{C: 0.00420},
	}
}

// SetBsdf selects the BSDF by its wire name.
func (m *Material) SetBsdf(name string) error {
	bsdf, err := ParseBsdf(name)
	if err != nil {
		return err
	}
	m.Bsdf = bsdf
	return nil
}

// Compile validates and clamps the material parameters. Call once after
// setup, before rendering.
func (m *Material) Compile() error {
	if !m.Emission.BaseValue.IsValid() {
		return fmt.Errorf("material %q: invalid emission", m.Name)
	}
	if !m.BaseColor.BaseValue.IsValid() {
		return fmt.Errorf("material %q: invalid base color", m.Name)
	}
	if !math.IsFinite(m.IoR) || m.IoR < 0 {
		return fmt.Errorf("material %q: invalid IoR", m.Name)
	}
	if !math.IsFinite(m.K) || m.K < 0 {
		return fmt.Errorf("material %q: invalid extinction coefficient", m.Name)
	}

	rgb := m.BaseColor.BaseValue.RGB
	m.BaseColor.BaseValue.RGB = math.Vec3Min(math.Vec3One, math.Vec3Max(math.Vec3Zero, rgb))
	m.Emission.BaseValue.RGB = math.Vec3Max(math.Vec3Zero, m.Emission.BaseValue.RGB)
	m.Roughness.BaseValue = math.Saturate(m.Roughness.BaseValue)
	m.Metalness.BaseValue = math.Saturate(m.Metalness.BaseValue)
	return nil
}

// IsEmissive reports whether the material radiates.
func (m *Material) IsEmissive() bool {
	return m.Emission.BaseValue.MaxComponent() > 0
}

// GetNormalVector returns the tangent-space shading normal at uv.
func (m *Material) GetNormalVector(uv math.Vec2) math.Vec3 {
	normal := math.Vec3Front

	if m.NormalMap != nil {
		texel := m.NormalMap.Evaluate(uv)
		// scale from [0, 1] to [-1, 1], reconstruct z
		n := math.Vec3{X: 2*texel.X - 1, Y: 2*texel.Y - 1}
		n.Z = math.Sqrt(math.Max(0, 1-n.X*n.X-n.Y*n.Y))
		normal = math.Vec3Front.Lerp(n, m.NormalMapStrength)
	}

	return normal
}

// GetMaskValue reports whether the surface is present at uv.
func (m *Material) GetMaskValue(uv math.Vec2) bool {
	if m.MaskMap != nil {
		const maskThreshold = 0.5
		return m.MaskMap.Evaluate(uv).X > maskThreshold
	}
	return true
}

// ShadingData extends the intersection data with resolved material
// parameters and the world-space outgoing direction.
type ShadingData struct {
	Intersection shapes.IntersectionData
	Material     *Material
	Params       MaterialParams

	// toward the previous path vertex
	OutgoingDirWorldSpace math.Vec3
}

// EvaluateShadingData resolves the textured parameters at the intersection.
func (m *Material) EvaluateShadingData(wavelength *color.Wavelength, shading *ShadingData) {
	uv := shading.Intersection.TexCoord
	shading.Material = m
	shading.Params = MaterialParams{
		BaseColor: color.Resolve(wavelength, m.BaseColor.Evaluate(uv)),
		Roughness: m.Roughness.Evaluate(uv),
		Metalness: m.Metalness.Evaluate(uv),
		IoR:       m.IoR,
	}
}

// EvaluateEmission resolves the emitted radiance at the intersection.
func (m *Material) EvaluateEmission(wavelength *color.Wavelength, uv math.Vec2) color.RayColor {
	return color.Resolve(wavelength, m.Emission.Evaluate(uv))
}

// Evaluate computes the BSDF value for light arriving along
// incomingDirWorldSpace (pointing into the surface).
func (m *Material) Evaluate(
	wavelength *color.Wavelength,
	shading *ShadingData,
	incomingDirWorldSpace math.Vec3,
	outPdfW, outReversePdfW *float32,
) color.RayColor {
	ctx := EvaluationContext{
		Material:    m,
		Params:      shading.Params,
		Wavelength:  wavelength,
		OutgoingDir: shading.Intersection.WorldToLocal(shading.OutgoingDirWorldSpace),
		IncomingDir: shading.Intersection.WorldToLocal(incomingDirWorldSpace),
	}
	return m.Bsdf.Evaluate(&ctx, outPdfW, outReversePdfW)
}

// Sample draws the next path direction in world space. A NullEvent result
// means the sample was invalid and the path dies.
func (m *Material) Sample(
	wavelength *color.Wavelength,
	shading *ShadingData,
	random *math.Random,
) (incomingDirWorldSpace math.Vec3, weight color.RayColor, pdfW float32, event EventType) {
	ctx := SamplingContext{
		Material:    m,
		Params:      shading.Params,
		Wavelength:  wavelength,
		OutgoingDir: shading.Intersection.WorldToLocal(shading.OutgoingDirWorldSpace),
		Random:      random,
	}

	if !m.Bsdf.Sample(&ctx) {
		return math.Vec3Zero, color.RayColorZero(), 0, NullEvent
	}

	incomingDirWorldSpace = shading.Intersection.LocalToWorld(ctx.OutIncomingDir)
	return incomingDirWorldSpace, ctx.OutColor, ctx.OutPdf, ctx.OutEventType
}
