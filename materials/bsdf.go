package materials

import (
	"fmt"

	"ray-engine/color"
	"ray-engine/math"
)

// CosEpsilon guards against grazing directions: samples below it are
// rejected as invalid.
const CosEpsilon = 1.0e-6

// SpecularRoughnessThreshold is the roughness under which the rough BSDFs
// degenerate to their smooth (Dirac) counterparts.
const SpecularRoughnessThreshold = 0.01

// EventType tags the kind of scattering event a BSDF sample produced.
type EventType uint8

const (
	NullEvent EventType = 0

	DiffuseReflectionEvent EventType = iota
	GlossyReflectionEvent
	GlossyRefractionEvent
	SpecularReflectionEvent
	SpecularRefractionEvent
)

// IsSpecular reports whether the event is a Dirac delta.
func (e EventType) IsSpecular() bool {
	return e == SpecularReflectionEvent || e == SpecularRefractionEvent
}

// PdfDirection selects the transport direction of a Pdf query.
type PdfDirection uint8

const (
	ForwardPdf PdfDirection = iota
	ReversePdf
)

// Bsdf is the closed set of surface scattering models, dispatched by
// switch. All directions live in the local tangent frame: z is the
// geometric normal, the outgoing direction points away from the surface
// (toward the previous path vertex) and the incoming direction points into
// it (toward the next vertex).
type Bsdf uint8

const (
	NullBsdf Bsdf = iota
	DiffuseBsdf
	RoughDiffuseBsdf
	DielectricBsdf
	RoughDielectricBsdf
	MetalBsdf
	RoughMetalBsdf
	PlasticBsdf
	RoughPlasticBsdf
)

var bsdfNames = map[string]Bsdf{
	"null":            NullBsdf,
	"diffuse":         DiffuseBsdf,
	"roughDiffuse":    RoughDiffuseBsdf,
	"dielectric":      DielectricBsdf,
	"roughDielectric": RoughDielectricBsdf,
	"metal":           MetalBsdf,
	"roughMetal":      RoughMetalBsdf,
	"plastic":         PlasticBsdf,
	"roughPlastic":    RoughPlasticBsdf,
}

// ParseBsdf resolves a BSDF by its wire name.
func ParseBsdf(name string) (Bsdf, error) {
	bsdf, ok := bsdfNames[name]
	if !ok {
		return NullBsdf, fmt.Errorf("materials: unknown BSDF name %q", name)
	}
	return bsdf, nil
}

func (b Bsdf) Name() string {
	switch b {
	case NullBsdf:
		return "null"
	case DiffuseBsdf:
		return "diffuse"
	case RoughDiffuseBsdf:
		return "roughDiffuse"
	case DielectricBsdf:
		return "dielectric"
	case RoughDielectricBsdf:
		return "roughDielectric"
	case MetalBsdf:
		return "metal"
	case RoughMetalBsdf:
		return "roughMetal"
	case PlasticBsdf:
		return "plastic"
	default:
		return "roughPlastic"
	}
}

// MaterialParams are the per-intersection resolved material values.
type MaterialParams struct {
	BaseColor color.RayColor
	Roughness float32
	Metalness float32
	IoR       float32
}

// SamplingContext feeds a BSDF sample and receives its outputs.
type SamplingContext struct {
	Material   *Material
	Params     MaterialParams
	Wavelength *color.Wavelength
	OutgoingDir math.Vec3
	Random     *math.Random

	OutIncomingDir math.Vec3
	OutPdf         float32
	OutColor       color.RayColor
	OutEventType   EventType
}

// EvaluationContext feeds a BSDF evaluation for a fixed direction pair.
type EvaluationContext struct {
	Material   *Material
	Params     MaterialParams
	Wavelength *color.Wavelength
	OutgoingDir math.Vec3
	IncomingDir math.Vec3
}

// Sample draws an incoming direction. Returns false for invalid samples
// (grazing angles, wrong-side results); the caller kills the path.
func (b Bsdf) Sample(ctx *SamplingContext) bool {
	switch b {
	case DiffuseBsdf:
		return sampleDiffuse(ctx)
	case RoughDiffuseBsdf:
		return sampleRoughDiffuse(ctx)
	case DielectricBsdf:
		return sampleDielectric(ctx)
	case RoughDielectricBsdf:
		return sampleRoughDielectric(ctx)
	case MetalBsdf:
		return sampleMetal(ctx)
	case RoughMetalBsdf:
		return sampleRoughMetal(ctx)
	case PlasticBsdf:
		return samplePlastic(ctx)
	case RoughPlasticBsdf:
		return sampleRoughPlastic(ctx)
	default:
		return false
	}
}

// Evaluate returns the BSDF value premultiplied by the incoming cosine,
// optionally with the forward and reverse solid-angle densities. Dirac
// BSDFs evaluate to zero.
func (b Bsdf) Evaluate(ctx *EvaluationContext, outDirectPdfW, outReversePdfW *float32) color.RayColor {
	if outDirectPdfW != nil {
		*outDirectPdfW = 0
	}
	if outReversePdfW != nil {
		*outReversePdfW = 0
	}

	switch b {
	case DiffuseBsdf:
		return evaluateDiffuse(ctx, outDirectPdfW, outReversePdfW)
	case RoughDiffuseBsdf:
		return evaluateRoughDiffuse(ctx, outDirectPdfW, outReversePdfW)
	case RoughDielectricBsdf:
		return evaluateRoughDielectric(ctx, outDirectPdfW)
	case RoughMetalBsdf:
		return evaluateRoughMetal(ctx, outDirectPdfW, outReversePdfW)
	case PlasticBsdf:
		return evaluatePlastic(ctx, outDirectPdfW, outReversePdfW)
	case RoughPlasticBsdf:
		return evaluateRoughPlastic(ctx, outDirectPdfW, outReversePdfW)
	default:
		// null, dielectric, metal: Dirac deltas cannot be hit by chance
		return color.RayColorZero()
	}
}

// Pdf returns the solid-angle density of the given direction pair.
func (b Bsdf) Pdf(ctx *EvaluationContext, dir PdfDirection) float32 {
	switch b {
	case DiffuseBsdf, RoughDiffuseBsdf:
		return pdfCosHemisphere(ctx, dir)
	case RoughDielectricBsdf:
		var pdf float32
		evaluateRoughDielectric(ctx, &pdf)
		return pdf
	case RoughMetalBsdf:
		return pdfRoughMetal(ctx)
	case PlasticBsdf:
		return pdfPlastic(ctx, dir)
	case RoughPlasticBsdf:
		return pdfRoughPlastic(ctx, dir)
	default:
		return 0
	}
}
