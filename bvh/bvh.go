// Package bvh implements the binary bounding volume hierarchy the tracer
// queries: the node array, single-ray and packet traversal, a median-split
// builder and the on-disk format.
package bvh

import (
	"ray-engine/math"
)

// MaxDepth bounds the tree depth so traversal stacks are fixed arrays.
const MaxDepth = 128

const (
	numLeavesBits = 30
	numLeavesMask = 1<<numLeavesBits - 1
)

// Node is one BVH node, 32 bytes. A parent's two children are stored
// contiguously starting at ChildIndex; for leaves ChildIndex is the first
// primitive index and the leaf count is non-zero.
type Node struct {
	Min        [3]float32
	ChildIndex uint32
	Max        [3]float32

	// low 30 bits: leaf count (zero for interior nodes),
	// high 2 bits: split axis chosen by the builder
	leavesAndAxis uint32
}

func (n *Node) IsLeaf() bool {
	return n.leavesAndAxis&numLeavesMask != 0
}

func (n *Node) NumLeaves() uint32 {
	return n.leavesAndAxis & numLeavesMask
}

func (n *Node) SplitAxis() uint32 {
	return n.leavesAndAxis >> numLeavesBits
}

func (n *Node) SetLeaf(firstPrimitive, numPrimitives uint32) {
	n.ChildIndex = firstPrimitive
	n.leavesAndAxis = numPrimitives & numLeavesMask
}

func (n *Node) SetInterior(childIndex, splitAxis uint32) {
	n.ChildIndex = childIndex
	n.leavesAndAxis = splitAxis << numLeavesBits
}

func (n *Node) SetBox(box math.Box) {
	n.Min = [3]float32{box.Min.X, box.Min.Y, box.Min.Z}
	n.Max = [3]float32{box.Max.X, box.Max.Y, box.Max.Z}
}

func (n *Node) Box() math.Box {
	return math.Box{
		Min: math.Vec3{X: n.Min[0], Y: n.Min[1], Z: n.Min[2]},
		Max: math.Vec3{X: n.Max[0], Y: n.Max[1], Z: n.Max[2]},
	}
}

// Box8 splats the node box across eight lanes for packet tests.
func (n *Node) Box8() math.Box8 {
	return math.SplatBox8(n.Box())
}

// BVH is a flat node array; the root sits at index 0.
type BVH struct {
	nodes []Node
}

func (b *BVH) Nodes() []Node {
	return b.nodes
}

func (b *BVH) NumNodes() uint32 {
	return uint32(len(b.nodes))
}

// Stats describes tree shape, produced by CalculateStats.
type Stats struct {
	MaxDepth              uint32
	TotalNodesArea        float64
	TotalNodesVolume      float64
	LeavesCountHistogram  []uint32
}

// CalculateStats walks the whole tree.
func (b *BVH) CalculateStats() Stats {
	stats := Stats{}
	if len(b.nodes) > 0 {
		b.calculateStatsForNode(0, &stats, 1)
	}
	return stats
}

func (b *BVH) calculateStatsForNode(node uint32, stats *Stats, depth uint32) {
	n := &b.nodes[node]

	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	box := n.Box()
	stats.TotalNodesArea += float64(box.SurfaceArea())
	stats.TotalNodesVolume += float64(box.Volume())

	if n.IsLeaf() {
		numLeaves := n.NumLeaves()
		for uint32(len(stats.LeavesCountHistogram)) <= numLeaves {
			stats.LeavesCountHistogram = append(stats.LeavesCountHistogram, 0)
		}
		stats.LeavesCountHistogram[numLeaves]++
		return
	}

	b.calculateStatsForNode(n.ChildIndex, stats, depth+1)
	b.calculateStatsForNode(n.ChildIndex+1, stats, depth+1)
}
