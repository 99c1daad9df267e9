package io

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"ray-engine/color"
	"ray-engine/materials"
	"ray-engine/math"
	"ray-engine/shapes"
)

// GLTFData holds the flattened meshes of a glTF document: one mesh
// description per primitive, pre-transformed into world space by the node
// hierarchy, plus the referenced materials.
type GLTFData struct {
	Meshes    []shapes.MeshDesc
	Materials []*materials.Material
}

// LoadGLTF opens a .glb or .gltf file and flattens its scene into mesh
// descriptions. PBR metallic-roughness maps onto the roughPlastic /
// roughMetal BSDFs by metallic factor.
func LoadGLTF(path string) (*GLTFData, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}

	result := &GLTFData{}

	matCache := make([]uint32, len(doc.Materials))
	for i, gm := range doc.Materials {
		material := materials.NewMaterial(gm.Name)

		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			cf := pbr.BaseColorFactorOrDefault()
			material.BaseColor.BaseValue = color.NewSpectrum(float32(cf[0]), float32(cf[1]), float32(cf[2]))
			material.Roughness.BaseValue = float32(pbr.RoughnessFactorOrDefault())
			material.Metalness.BaseValue = float32(pbr.MetallicFactorOrDefault())

			if material.Metalness.BaseValue > 0.5 {
				material.Bsdf = materials.RoughMetalBsdf
			} else {
				material.Bsdf = materials.RoughPlasticBsdf
			}
		}

		matCache[i] = uint32(len(result.Materials))
		result.Materials = append(result.Materials, material)
	}

	// flatten the node hierarchy into world-space primitives
	var visit func(nodeIndex int, parent math.Mat4) error
	visit = func(nodeIndex int, parent math.Mat4) error {
		gn := doc.Nodes[nodeIndex]
		transform := nodeTransform(gn).Mul(parent)

		if gn.Mesh != nil {
			for pi, prim := range doc.Meshes[*gn.Mesh].Primitives {
				desc, err := loadPrimitive(doc, *prim, matCache)
				if err != nil {
					fmt.Printf("Warning: gltf mesh %d prim %d: %v\n", *gn.Mesh, pi, err)
					continue
				}
				transformMeshDesc(&desc, transform)
				desc.Path = fmt.Sprintf("%s#%d/%d", path, *gn.Mesh, pi)
				result.Meshes = append(result.Meshes, desc)
			}
		}

		for _, child := range gn.Children {
			if err := visit(child, transform); err != nil {
				return err
			}
		}
		return nil
	}

	rootNodes := collectRoots(doc)
	for _, root := range rootNodes {
		if err := visit(root, math.Mat4Identity()); err != nil {
			return nil, err
		}
	}

	if len(result.Meshes) == 0 {
		return nil, fmt.Errorf("gltf %q: no mesh primitives", path)
	}
	return result, nil
}

func collectRoots(doc *gltf.Document) []int {
	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}

	hasParent := make([]bool, len(doc.Nodes))
	for _, gn := range doc.Nodes {
		for _, child := range gn.Children {
			hasParent[child] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !hasParent[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

func nodeTransform(gn *gltf.Node) math.Mat4 {
	t := gn.TranslationOrDefault()
	s := gn.ScaleOrDefault()
	r := gn.RotationOrDefault() // [x, y, z, w]

	rotation := math.Quaternion{
		X: float32(r[0]), Y: float32(r[1]),
		Z: float32(r[2]), W: float32(r[3]),
	}

	return math.Mat4Scale(math.Vec3{X: float32(s[0]), Y: float32(s[1]), Z: float32(s[2])}).
		Mul(rotation.ToMat4()).
		Mul(math.Mat4Translation(math.Vec3{X: float32(t[0]), Y: float32(t[1]), Z: float32(t[2])}))
}

func loadPrimitive(doc *gltf.Document, prim gltf.Primitive, matCache []uint32) (shapes.MeshDesc, error) {
	var desc shapes.MeshDesc

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return desc, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return desc, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	var uvs [][2]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, _ = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
	}
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, _ = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return desc, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	materialIndex := shapes.InvalidMaterial
	if prim.Material != nil && int(*prim.Material) < len(matCache) {
		materialIndex = matCache[*prim.Material]
	}

	buffer := shapes.VertexBufferDesc{
		Positions:     make([]math.Vec3, len(positions)),
		Normals:       make([]math.Vec3, len(positions)),
		Tangents:      make([]math.Vec3, len(positions)),
		TexCoords:     make([]math.Vec2, len(positions)),
		VertexIndices: indices,
	}
	if materialIndex != shapes.InvalidMaterial {
		buffer.MaterialIndices = make([]uint32, len(indices)/3)
		for i := range buffer.MaterialIndices {
			buffer.MaterialIndices[i] = materialIndex
		}
		buffer.NumMaterials = uint32(len(matCache))
	}

	for i, p := range positions {
		buffer.Positions[i] = math.Vec3{X: p[0], Y: p[1], Z: p[2]}

		normal := math.Vec3Up
		if i < len(normals) {
			normal = math.Vec3{X: normals[i][0], Y: normals[i][1], Z: normals[i][2]}
			if normal.LengthSqr() < 1e-12 {
				normal = math.Vec3Up
			}
			normal = normal.Normalize()
		}
		tangent, _ := math.BuildOrthonormalBasis(normal)
		buffer.Normals[i] = normal
		buffer.Tangents[i] = tangent

		if i < len(uvs) {
			buffer.TexCoords[i] = math.Vec2{X: uvs[i][0], Y: uvs[i][1]}
		}
	}

	desc.VertexBufferDesc = buffer
	return desc, nil
}

// transformMeshDesc bakes a node transform into vertex data.
func transformMeshDesc(desc *shapes.MeshDesc, transform math.Mat4) {
	for i := range desc.Positions {
		desc.Positions[i] = transform.MulVec3(desc.Positions[i])
	}
	for i := range desc.Normals {
		desc.Normals[i] = transform.TransformDir(desc.Normals[i]).Normalize()
		desc.Tangents[i] = transform.TransformDir(desc.Tangents[i]).Normalize()
	}
}
