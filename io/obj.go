// Package io loads meshes and scene descriptions. The tracing core never
// depends on this package; it only consumes the built results.
package io

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"ray-engine/color"
	"ray-engine/materials"
	"ray-engine/math"
	"ray-engine/shapes"
)

// OBJData holds parsed OBJ content before mesh build.
type OBJData struct {
	Name string
	Desc shapes.MeshDesc

	// materials declared by mtllib, in triangle material-index order
	Materials []*materials.Material
}

type objVertex struct {
	position math.Vec3
	normal   math.Vec3
	uv       math.Vec2
}

// LoadOBJ parses a Wavefront .obj file into a mesh description. Faces are
// fan-triangulated; material assignment follows usemtl per face.
func LoadOBJ(path string) (*OBJData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer f.Close()

	data := &OBJData{Name: filepath.Base(path)}

	var positions []math.Vec3
	var normals []math.Vec3
	var uvs []math.Vec2

	var vertices []objVertex
	vertexMap := make(map[string]uint32) // "v/vt/vn" -> vertex index

	materialIndices := make(map[string]uint32)
	currentMaterial := shapes.InvalidMaterial

	var indexBuffer []uint32
	var triangleMaterials []uint32

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "v":
			if len(parts) >= 4 {
				positions = append(positions, parseVec3(parts[1:4]))
			}
		case "vn":
			if len(parts) >= 4 {
				normals = append(normals, parseVec3(parts[1:4]))
			}
		case "vt":
			if len(parts) >= 3 {
				u, _ := strconv.ParseFloat(parts[1], 32)
				v, _ := strconv.ParseFloat(parts[2], 32)
				uvs = append(uvs, math.Vec2{X: float32(u), Y: float32(v)})
			}
		case "f":
			faceVerts := make([]uint32, 0, len(parts)-1)
			for _, faceStr := range parts[1:] {
				if idx, ok := vertexMap[faceStr]; ok {
					faceVerts = append(faceVerts, idx)
					continue
				}

				vertex := parseFaceVertex(faceStr, positions, normals, uvs)
				newIdx := uint32(len(vertices))
				vertices = append(vertices, vertex)
				vertexMap[faceStr] = newIdx
				faceVerts = append(faceVerts, newIdx)
			}

			// fan triangulation
			for i := 2; i < len(faceVerts); i++ {
				indexBuffer = append(indexBuffer, faceVerts[0], faceVerts[i-1], faceVerts[i])
				triangleMaterials = append(triangleMaterials, currentMaterial)
			}

		case "usemtl":
			if len(parts) > 1 {
				name := parts[1]
				if idx, ok := materialIndices[name]; ok {
					currentMaterial = idx
				} else {
					currentMaterial = uint32(len(data.Materials))
					materialIndices[name] = currentMaterial
					data.Materials = append(data.Materials, materials.NewMaterial(name))
				}
			}

		case "mtllib":
			if len(parts) > 1 {
				mtlPath := filepath.Join(filepath.Dir(path), parts[1])
				mtls, err := LoadMTL(mtlPath)
				if err != nil {
					fmt.Printf("Warning: failed to load MTL file %s: %v\n", mtlPath, err)
					continue
				}
				for name, material := range mtls {
					if idx, ok := materialIndices[name]; ok {
						data.Materials[idx] = material
					} else {
						materialIndices[name] = uint32(len(data.Materials))
						data.Materials = append(data.Materials, material)
					}
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}

	if len(indexBuffer) == 0 {
		return nil, fmt.Errorf("no mesh data found in OBJ file")
	}

	desc := shapes.VertexBufferDesc{
		Positions:       make([]math.Vec3, len(vertices)),
		Normals:         make([]math.Vec3, len(vertices)),
		Tangents:        make([]math.Vec3, len(vertices)),
		TexCoords:       make([]math.Vec2, len(vertices)),
		VertexIndices:   indexBuffer,
		MaterialIndices: triangleMaterials,
		NumMaterials:    uint32(len(data.Materials)),
	}
	for i, vertex := range vertices {
		normal := vertex.normal
		if normal.LengthSqr() < 1e-12 {
			normal = math.Vec3Up
		}
		normal = normal.Normalize()
		tangent, _ := math.BuildOrthonormalBasis(normal)

		desc.Positions[i] = vertex.position
		desc.Normals[i] = normal
		desc.Tangents[i] = tangent
		desc.TexCoords[i] = vertex.uv
	}

	data.Desc = shapes.MeshDesc{VertexBufferDesc: desc, Path: path}
	return data, nil
}

// LoadMTL parses a Wavefront .mtl material file.
func LoadMTL(path string) (map[string]*materials.Material, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	result := make(map[string]*materials.Material)
	var current *materials.Material

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "newmtl":
			if len(parts) > 1 {
				current = materials.NewMaterial(parts[1])
				result[parts[1]] = current
			}
		case "Kd":
			if current != nil && len(parts) >= 4 {
				rgb := parseVec3(parts[1:4])
				current.BaseColor.BaseValue = color.NewSpectrum(rgb.X, rgb.Y, rgb.Z)
			}
		case "Ke":
			if current != nil && len(parts) >= 4 {
				rgb := parseVec3(parts[1:4])
				current.Emission.BaseValue = color.NewSpectrum(rgb.X, rgb.Y, rgb.Z)
			}
		case "Ns":
			if current != nil && len(parts) >= 2 {
				ns, _ := strconv.ParseFloat(parts[1], 32)
				// OBJ shininess (0-1000) to roughness
				current.Roughness.BaseValue = math.Saturate(1 - float32(ns)/1000)
			}
		case "Ni":
			if current != nil && len(parts) >= 2 {
				ni, _ := strconv.ParseFloat(parts[1], 32)
				current.IoR = float32(ni)
			}
		}
	}

	return result, scanner.Err()
}

func parseVec3(parts []string) math.Vec3 {
	x, _ := strconv.ParseFloat(parts[0], 32)
	y, _ := strconv.ParseFloat(parts[1], 32)
	z, _ := strconv.ParseFloat(parts[2], 32)
	return math.Vec3{X: float32(x), Y: float32(y), Z: float32(z)}
}

// parseFaceVertex decodes one "v/vt/vn" face corner (1-based, negative
// means relative).
func parseFaceVertex(faceStr string, positions, normals []math.Vec3, uvs []math.Vec2) objVertex {
	var vertex objVertex

	components := strings.Split(faceStr, "/")

	resolve := func(value string, count int) int {
		idx, err := strconv.Atoi(value)
		if err != nil {
			return -1
		}
		if idx < 0 {
			idx = count + idx
		} else {
			idx--
		}
		if idx < 0 || idx >= count {
			return -1
		}
		return idx
	}

	if len(components) > 0 {
		if idx := resolve(components[0], len(positions)); idx >= 0 {
			vertex.position = positions[idx]
		}
	}
	if len(components) > 1 && components[1] != "" {
		if idx := resolve(components[1], len(uvs)); idx >= 0 {
			vertex.uv = uvs[idx]
		}
	}
	if len(components) > 2 && components[2] != "" {
		if idx := resolve(components[2], len(normals)); idx >= 0 {
			vertex.normal = normals[idx]
		}
	}

	return vertex
}
