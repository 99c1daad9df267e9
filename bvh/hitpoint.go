package bvh

import (
	"math"

	"ray-engine/core"
	rmath "ray-engine/math"
)

const (
	// InvalidObject marks a miss.
	InvalidObject = ^uint32(0)
	// LightObject marks a hit on a light proxy.
	LightObject = 0xfffffffe
)

// HitPoint is the 16-byte hot intersection record. Distance defaults to
// +Inf, which doubles as the miss sentinel.
type HitPoint struct {
	ObjectID    uint32
	SubObjectID uint32
	Distance    float32
	U           float32
	V           float32
}

// NewHitPoint returns a miss.
func NewHitPoint() HitPoint {
	return HitPoint{
		ObjectID: InvalidObject,
		Distance: float32(math.Inf(1)),
	}
}

// Set records a closer hit; both IDs are written together.
func (h *HitPoint) Set(distance float32, objectID, subObjectID uint32) {
	h.Distance = distance
	h.ObjectID = objectID
	h.SubObjectID = subObjectID
}

func (h *HitPoint) IsHit() bool {
	return h.ObjectID != InvalidObject
}

// SingleContext bundles the state a single-ray traversal threads through
// the tree and the leaf kernels.
type SingleContext struct {
	Ray      rmath.Ray
	Hit      *HitPoint
	Counters *core.Counters
}

// SingleTraverser is implemented by anything owning a BVH whose leaves can
// be intersected: a triangle mesh or the scene itself.
type SingleTraverser interface {
	TraverseLeaf(ctx *SingleContext, objectID uint32, node *Node)
	TraverseLeafShadow(ctx *SingleContext, node *Node) bool
}
