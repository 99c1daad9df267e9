package shapes

import (
	"fmt"
	"unsafe"

	"ray-engine/core"
	"ray-engine/math"
)

// VertexIndices addresses one triangle's vertices plus its material slot.
type VertexIndices struct {
	I0            uint32
	I1            uint32
	I2            uint32
	MaterialIndex uint32
}

// VertexShadingData is the cold per-vertex payload: it is only touched when
// a hit is shaded, never during traversal.
type VertexShadingData struct {
	Normal   math.Vec3
	Tangent  math.Vec3
	TexCoord math.Vec2
}

// VertexBufferDesc describes mesh content handed to Initialize.
type VertexBufferDesc struct {
	Positions       []math.Vec3
	VertexIndices   []uint32 // 3 per triangle
	MaterialIndices []uint32 // 1 per triangle, may be nil
	Normals         []math.Vec3
	Tangents        []math.Vec3
	TexCoords       []math.Vec2
	NumMaterials    uint32
}

// VertexBuffer owns mesh geometry in a single arena: positions first, then
// packed triangle indices, then shading data. Preprocessed triangles for
// the hot intersection path live in a separate parallel array.
type VertexBuffer struct {
	arena []byte

	positions   []math.Vec3
	indices     []VertexIndices
	shadingData []VertexShadingData

	// hot-path triangle data (v0, edge1, edge2)
	processedTriangles []math.ProcessedTriangle

	numVertices  uint32
	numTriangles uint32
	numMaterials uint32
}

func alignUp(offset, alignment int) int {
	return (offset + alignment - 1) &^ (alignment - 1)
}

// Initialize lays the buffers out in one allocation.
func (vb *VertexBuffer) Initialize(allocator core.Allocator, desc VertexBufferDesc) error {
	numTriangles := uint32(len(desc.VertexIndices) / 3)
	numVertices := uint32(len(desc.Positions))

	if numTriangles == 0 {
		*vb = VertexBuffer{}
		return nil
	}
	if numVertices == 0 {
		return fmt.Errorf("vertex buffer: positions must be provided")
	}

	positionsSize := int(numVertices) * int(unsafe.Sizeof(math.Vec3{}))
	indicesOffset := alignUp(positionsSize, 16)
	indicesSize := int(numTriangles) * int(unsafe.Sizeof(VertexIndices{}))
	shadingOffset := alignUp(indicesOffset+indicesSize, 32)
	shadingSize := int(numVertices) * int(unsafe.Sizeof(VertexShadingData{}))

	arena, err := allocator.Alloc(shadingOffset+shadingSize, core.DefaultAlignment)
	if err != nil {
		return fmt.Errorf("vertex buffer: %w", err)
	}

	vb.arena = arena
	vb.positions = unsafe.Slice((*math.Vec3)(unsafe.Pointer(&arena[0])), numVertices)
	vb.indices = unsafe.Slice((*VertexIndices)(unsafe.Pointer(&arena[indicesOffset])), numTriangles)
	vb.shadingData = unsafe.Slice((*VertexShadingData)(unsafe.Pointer(&arena[shadingOffset])), numVertices)

	copy(vb.positions, desc.Positions)

	for i := uint32(0); i < numTriangles; i++ {
		indices := &vb.indices[i]
		indices.I0 = desc.VertexIndices[3*i]
		indices.I1 = desc.VertexIndices[3*i+1]
		indices.I2 = desc.VertexIndices[3*i+2]
		indices.MaterialIndex = InvalidMaterial
		if desc.MaterialIndices != nil {
			indices.MaterialIndex = desc.MaterialIndices[i]
		}

		if indices.I0 >= numVertices || indices.I1 >= numVertices || indices.I2 >= numVertices {
			return fmt.Errorf("vertex buffer: vertex index out of bounds in triangle %d", i)
		}
	}

	for i := uint32(0); i < numVertices; i++ {
		shading := &vb.shadingData[i]
		if desc.Normals != nil {
			shading.Normal = desc.Normals[i]
		}
		if desc.Tangents != nil {
			shading.Tangent = desc.Tangents[i]
		}
		if desc.TexCoords != nil {
			shading.TexCoord = desc.TexCoords[i]
		}
	}

	vb.processedTriangles = make([]math.ProcessedTriangle, numTriangles)
	for i := uint32(0); i < numTriangles; i++ {
		indices := vb.indices[i]
		vb.processedTriangles[i] = math.NewProcessedTriangle(
			vb.positions[indices.I0],
			vb.positions[indices.I1],
			vb.positions[indices.I2],
		)
	}

	vb.numVertices = numVertices
	vb.numTriangles = numTriangles
	vb.numMaterials = desc.NumMaterials
	return nil
}

func (vb *VertexBuffer) NumVertices() uint32  { return vb.numVertices }
func (vb *VertexBuffer) NumTriangles() uint32 { return vb.numTriangles }

func (vb *VertexBuffer) GetVertexIndices(triangleIndex uint32) VertexIndices {
	return vb.indices[triangleIndex]
}

// GetTriangle returns the preprocessed triangle for the hot path.
func (vb *VertexBuffer) GetTriangle(triangleIndex uint32) math.ProcessedTriangle {
	return vb.processedTriangles[triangleIndex]
}

// GetShadingData fetches the three vertex shading records of a triangle.
func (vb *VertexBuffer) GetShadingData(indices VertexIndices) (a, b, c VertexShadingData) {
	return vb.shadingData[indices.I0], vb.shadingData[indices.I1], vb.shadingData[indices.I2]
}

// ReorderTriangles permutes triangle storage to match the BVH's leaf
// order: order[i] is the original index of the triangle now stored at i.
func (vb *VertexBuffer) ReorderTriangles(order []uint32) {
	newIndices := make([]VertexIndices, vb.numTriangles)
	newProcessed := make([]math.ProcessedTriangle, vb.numTriangles)
	for i, original := range order {
		newIndices[i] = vb.indices[original]
		newProcessed[i] = vb.processedTriangles[original]
	}
	copy(vb.indices, newIndices)
	copy(vb.processedTriangles, newProcessed)
}
