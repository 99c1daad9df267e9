package bvh

import (
	"math"

	"ray-engine/core"
	rmath "ray-engine/math"
	"ray-engine/simd"
)

const (
	// MaxPacketSize is the ray capacity of one packet.
	MaxPacketSize = 512

	// RaysPerGroup is the SIMD width of one ray group.
	RaysPerGroup = 8

	// MaxNumGroups is the group capacity of one packet.
	MaxNumGroups = MaxPacketSize / RaysPerGroup
)

// ImageLocation ties a packet ray back to its film pixel.
type ImageLocation struct {
	X uint16
	Y uint16
}

// RayGroup packs eight rays. Two ray slots are kept, one per two-level
// traversal depth, so reordering rays inside the shape pass does not
// disturb the scene-level state.
type RayGroup struct {
	Rays         [2]rmath.Ray8
	MaxDistances simd.Float8
	RayOffsets   simd.Int8
}

// RayPacket is a wavefront of up to MaxPacketSize rays traced together.
type RayPacket struct {
	Groups [MaxNumGroups]RayGroup

	// ray weights on the image (1.0 for primary rays)
	RayWeights [MaxNumGroups]rmath.Vec3x8

	// film pixels the rays originated from, indexed by ray offset
	ImageLocations [MaxPacketSize]ImageLocation

	// number of rays, not groups
	NumRays uint32
}

func (p *RayPacket) NumGroups() uint32 {
	return (p.NumRays + RaysPerGroup - 1) / RaysPerGroup
}

func (p *RayPacket) Clear() {
	p.NumRays = 0
}

// PushRay appends a single ray to the packet.
func (p *RayPacket) PushRay(ray rmath.Ray, weight rmath.Vec3, location ImageLocation) {
	groupIndex := p.NumRays / RaysPerGroup
	rayIndex := int(p.NumRays % RaysPerGroup)

	group := &p.Groups[groupIndex]
	group.Rays[0].SetLane(rayIndex, ray)
	group.MaxDistances[rayIndex] = float32(math.Inf(1))
	group.RayOffsets[rayIndex] = int32(p.NumRays)

	p.RayWeights[groupIndex].SetLane(rayIndex, weight)
	p.ImageLocations[p.NumRays] = location

	p.NumRays++
}

// PacketContext carries the packet plus the active-set bookkeeping the
// traversal mutates: a compacted list of live group indices and one byte of
// lane liveness per active slot.
type PacketContext struct {
	Packet *RayPacket

	ActiveGroupsIndices [MaxNumGroups]uint32
	ActiveRaysMask      [MaxNumGroups]uint8

	// per-ray results, indexed by the original ray offset
	HitPoints [MaxPacketSize]HitPoint

	Counters *core.Counters
}

// Reset prepares the context for a freshly filled packet.
func (c *PacketContext) Reset() {
	numGroups := c.Packet.NumGroups()
	for i := uint32(0); i < numGroups; i++ {
		c.ActiveGroupsIndices[i] = i
		c.ActiveRaysMask[i] = 0xff
	}
	if tail := c.Packet.NumRays % RaysPerGroup; tail != 0 {
		c.ActiveRaysMask[numGroups-1] = uint8(1<<tail - 1)
	}
	for i := uint32(0); i < c.Packet.NumRays; i++ {
		c.HitPoints[i] = NewHitPoint()
	}
}

// StoreIntersection commits per-lane hits: it tightens the group's maximum
// distances and writes the hit points through the ray offsets, so results
// land on the correct pixels even after reordering.
func (c *PacketContext) StoreIntersection(group *RayGroup, t, u, v simd.Float8, mask simd.Bool8, objectID, subObjectID uint32) {
	if mask.None() {
		return
	}

	group.MaxDistances = simd.Select8(group.MaxDistances, t, mask)

	for k := 0; k < RaysPerGroup; k++ {
		if mask.Get(k) {
			hit := &c.HitPoints[group.RayOffsets[k]]
			hit.Distance = t[k]
			hit.U = u[k]
			hit.V = v[k]
			hit.ObjectID = objectID
			hit.SubObjectID = subObjectID
		}
	}
}

// PacketTraverser is implemented by owners of a BVH that can intersect
// packet rays against their leaves.
type PacketTraverser interface {
	TraverseLeafPacket(ctx *PacketContext, objectID uint32, node *Node, numActiveGroups uint32, traversalDepth int)
}
