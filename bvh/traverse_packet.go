package bvh

import (
	rmath "ray-engine/math"
	"ray-engine/simd"
)

// mixedOctant marks a packet whose rays do not share a direction octant.
const mixedOctant = -1

// TestRayPacket intersects a node's box against every active group and
// refreshes the per-group liveness masks. Returns the number of rays that
// hit. The loop is unrolled four groups at a time; packets sharing a
// direction octant take the specialized slab kernel.
func TestRayPacket(ctx *PacketContext, numGroups uint32, node *Node, traversalDepth int, octant int) uint32 {
	box := node.Box8()

	raysHit := uint32(0)
	i := uint32(0)

	for ; i+4 <= numGroups; i += 4 {
		g0 := &ctx.Packet.Groups[ctx.ActiveGroupsIndices[i+0]]
		g1 := &ctx.Packet.Groups[ctx.ActiveGroupsIndices[i+1]]
		g2 := &ctx.Packet.Groups[ctx.ActiveGroupsIndices[i+2]]
		g3 := &ctx.Packet.Groups[ctx.ActiveGroupsIndices[i+3]]

		m0 := testGroup(g0, box, traversalDepth, octant)
		m1 := testGroup(g1, box, traversalDepth, octant)
		m2 := testGroup(g2, box, traversalDepth, octant)
		m3 := testGroup(g3, box, traversalDepth, octant)

		ctx.ActiveRaysMask[i+0] = uint8(m0)
		ctx.ActiveRaysMask[i+1] = uint8(m1)
		ctx.ActiveRaysMask[i+2] = uint8(m2)
		ctx.ActiveRaysMask[i+3] = uint8(m3)
		raysHit += uint32(m0.Count() + m1.Count() + m2.Count() + m3.Count())
	}

	for ; i < numGroups; i++ {
		group := &ctx.Packet.Groups[ctx.ActiveGroupsIndices[i]]
		mask := testGroup(group, box, traversalDepth, octant)
		ctx.ActiveRaysMask[i] = uint8(mask)
		raysHit += uint32(mask.Count())
	}

	if ctx.Counters != nil {
		ctx.Counters.NumRayBoxTests += uint64(RaysPerGroup * numGroups)
		ctx.Counters.NumPassedRayBoxTests += uint64(raysHit)
	}

	return raysHit
}

func testGroup(group *RayGroup, box rmath.Box8, traversalDepth int, octant int) simd.Bool8 {
	rays := &group.Rays[traversalDepth]
	originDivDir := rays.Origin.Mul(rays.InvDir)
	if octant != mixedOctant {
		_, mask := rmath.IntersectBoxRay8Octant(uint32(octant), rays.InvDir, originDivDir, box, group.MaxDistances)
		return mask
	}
	_, mask := rmath.IntersectBoxRay8(rays.InvDir, originDivDir, box, group.MaxDistances)
	return mask
}

// packetOctant returns the shared direction octant of the packet's active
// groups, or mixedOctant when the signs disagree.
func packetOctant(ctx *PacketContext, numActiveGroups uint32, traversalDepth int) int {
	first := &ctx.Packet.Groups[ctx.ActiveGroupsIndices[0]].Rays[traversalDepth]
	octant := uint32(0)
	if first.Dir.X[0] < 0 {
		octant |= 1
	}
	if first.Dir.Y[0] < 0 {
		octant |= 2
	}
	if first.Dir.Z[0] < 0 {
		octant |= 4
	}

	wantX := simd.Bool8(0)
	if octant&1 != 0 {
		wantX = simd.Bool8All
	}
	wantY := simd.Bool8(0)
	if octant&2 != 0 {
		wantY = simd.Bool8All
	}
	wantZ := simd.Bool8(0)
	if octant&4 != 0 {
		wantZ = simd.Bool8All
	}

	for i := uint32(0); i < numActiveGroups; i++ {
		rays := &ctx.Packet.Groups[ctx.ActiveGroupsIndices[i]].Rays[traversalDepth]
		if rays.Dir.X.SignMask() != wantX || rays.Dir.Y.SignMask() != wantY || rays.Dir.Z.SignMask() != wantZ {
			return mixedOctant
		}
	}
	return int(octant)
}

// RemoveMissedGroups compacts the active-group list by swapping groups with
// no live lanes to the end. Returns the new active count.
func RemoveMissedGroups(ctx *PacketContext, numGroups uint32) uint32 {
	for i := uint32(0); ; {
		// skip in-place hits at the beginning
		for ctx.ActiveRaysMask[i] != 0 {
			i++
			if i == numGroups {
				return numGroups
			}
		}

		// skip in-place misses at the end
		var mask uint8
		for {
			numGroups--
			if i == numGroups {
				return numGroups
			}
			mask = ctx.ActiveRaysMask[numGroups]
			if mask != 0 {
				break
			}
		}

		ctx.ActiveGroupsIndices[i], ctx.ActiveGroupsIndices[numGroups] =
			ctx.ActiveGroupsIndices[numGroups], ctx.ActiveGroupsIndices[i]
		ctx.ActiveRaysMask[i] = mask
	}
}

// swapRays exchanges two rays across (possibly different) active groups,
// moving every per-ray attribute including the offset that links the ray
// back to its pixel. Both depth slots travel together so the lane
// association between world-space and object-space rays survives.
func swapRays(ctx *PacketContext, a, b uint32, _ int) {
	groupA := &ctx.Packet.Groups[ctx.ActiveGroupsIndices[a/RaysPerGroup]]
	groupB := &ctx.Packet.Groups[ctx.ActiveGroupsIndices[b/RaysPerGroup]]
	laneA := int(a % RaysPerGroup)
	laneB := int(b % RaysPerGroup)

	for depth := 0; depth < 2; depth++ {
		raysA := &groupA.Rays[depth]
		raysB := &groupB.Rays[depth]

		rayA := raysA.Lane(laneA)
		rayB := raysB.Lane(laneB)
		raysA.SetLane(laneA, rayB)
		raysB.SetLane(laneB, rayA)
	}

	groupA.MaxDistances[laneA], groupB.MaxDistances[laneB] =
		groupB.MaxDistances[laneB], groupA.MaxDistances[laneA]

	groupA.RayOffsets[laneA], groupB.RayOffsets[laneB] =
		groupB.RayOffsets[laneB], groupA.RayOffsets[laneA]
}

func swapBits(a, b *uint8, indexA, indexB uint32) {
	bitA := (*a >> indexA) & 1
	bitB := (*b >> indexB) & 1
	*a ^= (-bitB ^ *a) & (1 << indexA)
	*b ^= (-bitA ^ *b) & (1 << indexB)
}

// ReorderRays physically packs live rays into the front groups so SIMD
// lanes stay dense after heavy culling.
func ReorderRays(ctx *PacketContext, numGroups uint32, traversalDepth int) {
	numRays := numGroups * RaysPerGroup
	i := uint32(0)
	for i < numRays {
		groupIndex := i / RaysPerGroup
		rayIndex := i % RaysPerGroup

		if ctx.ActiveRaysMask[groupIndex]&(1<<rayIndex) != 0 {
			i++
		} else {
			numRays--
			swapRays(ctx, i, numRays, traversalDepth)
			swapBits(&ctx.ActiveRaysMask[i/RaysPerGroup], &ctx.ActiveRaysMask[numRays/RaysPerGroup], i%RaysPerGroup, numRays%RaysPerGroup)
		}
	}
}

// TraversePacket walks the tree depth-first with an explicit stack,
// carrying the set of groups that still intersect the current subtree. The
// push order uses the packet's shared octant XORed with the node's split
// axis so the nearer child is visited first.
func TraversePacket(ctx *PacketContext, objectID uint32, tree *BVH, object PacketTraverser, numActiveGroups uint32, traversalDepth int) {
	nodes := tree.nodes
	if len(nodes) == 0 || numActiveGroups == 0 {
		return
	}

	type stackFrame struct {
		node            *Node
		numActiveGroups uint32
		numActiveRays   uint32
	}

	var stack [MaxDepth]stackFrame
	stackSize := 1
	stack[0] = stackFrame{
		node:            &nodes[0],
		numActiveGroups: numActiveGroups,
		numActiveRays:   ctx.Packet.NumRays,
	}

	// the shared octant (when there is one) selects both the specialized
	// slab kernel and the near-child push order; for mixed packets the
	// first ray's octant still orders the children
	sharedOctant := packetOctant(ctx, numActiveGroups, traversalDepth)

	firstGroup := &ctx.Packet.Groups[ctx.ActiveGroupsIndices[0]]
	rays := &firstGroup.Rays[traversalDepth]
	rayOctant := uint32(0)
	if rays.Dir.X[0] < 0 {
		rayOctant |= 1
	}
	if rays.Dir.Y[0] < 0 {
		rayOctant |= 2
	}
	if rays.Dir.Z[0] < 0 {
		rayOctant |= 4
	}

	for stackSize > 0 {
		stackSize--
		frame := stack[stackSize]

		numGroups := frame.numActiveGroups
		raysHit := TestRayPacket(ctx, numGroups, frame.node, traversalDepth, sharedOctant)

		if raysHit == 0 {
			continue
		}

		if raysHit < frame.numActiveRays {
			numGroups = RemoveMissedGroups(ctx, numGroups)

			// reorder when utilization drops below 50%
			if numGroups > 1 && 4*numGroups >= raysHit {
				ReorderRays(ctx, numGroups, traversalDepth)
				numGroups = (raysHit + RaysPerGroup - 1) / RaysPerGroup
			}
		}

		if frame.node.IsLeaf() {
			object.TraverseLeafPacket(ctx, objectID, frame.node, numGroups, traversalDepth)
		} else {
			children := frame.node.ChildIndex

			// stored-split-axis trick: pick the near child from the octant
			firstIndex := (rayOctant >> frame.node.SplitAxis()) & 1
			secondIndex := firstIndex ^ 1

			stack[stackSize] = stackFrame{
				node:            &nodes[children+secondIndex],
				numActiveGroups: numGroups,
				numActiveRays:   raysHit,
			}
			stackSize++

			stack[stackSize] = stackFrame{
				node:            &nodes[children+firstIndex],
				numActiveGroups: numGroups,
				numActiveRays:   raysHit,
			}
			stackSize++
		}
	}
}
