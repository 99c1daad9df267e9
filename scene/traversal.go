package scene

import (
	"ray-engine/bvh"
	"ray-engine/math"
)

// Traverse finds the nearest intersection along the context ray across the
// two-level hierarchy.
func (s *Scene) Traverse(ctx *bvh.SingleContext) {
	if ctx.Counters != nil {
		ctx.Counters.NumRays++
	}
	bvh.Traverse(ctx, 0, &s.tree, s)
}

// TraverseShadow reports whether the context ray is occluded before
// ctx.Hit.Distance.
func (s *Scene) TraverseShadow(ctx *bvh.SingleContext) bool {
	if ctx.Counters != nil {
		ctx.Counters.NumShadowRays++
	}
	return bvh.TraverseShadow(ctx, &s.tree, s)
}

// localContext rebuilds the traversal context in an object's local space.
// Hit distances stay in world units for rigid transforms; under uniform
// scale they are converted on the way in and out.
func (s *Scene) localContext(ctx *bvh.SingleContext, object *SceneObject) bvh.SingleContext {
	origin := object.inverseTransform.TransformPoint(ctx.Ray.Origin)
	dir := object.inverseTransform.TransformDir(ctx.Ray.Dir)

	localHit := bvh.NewHitPoint()
	localHit.Distance = ctx.Hit.Distance * object.invScale

	return bvh.SingleContext{
		Ray:      math.NewRayUnsafe(origin, dir.Mul(1/object.invScale)),
		Hit:      &localHit,
		Counters: ctx.Counters,
	}
}

// TraverseLeaf intersects a scene-level leaf: it transforms the ray into
// the object's space and descends into the shape.
func (s *Scene) TraverseLeaf(ctx *bvh.SingleContext, _ uint32, node *bvh.Node) {
	first := node.ChildIndex
	count := node.NumLeaves()

	for i := uint32(0); i < count; i++ {
		objectID := first + i
		object := &s.objects[objectID]

		localCtx := s.localContext(ctx, object)
		s.shapes[object.ShapeID].Traverse(&localCtx, objectID)

		if localCtx.Hit.IsHit() {
			ctx.Hit.Set(localCtx.Hit.Distance/object.invScale, localCtx.Hit.ObjectID, localCtx.Hit.SubObjectID)
			ctx.Hit.U = localCtx.Hit.U
			ctx.Hit.V = localCtx.Hit.V
		}
	}
}

// TraverseLeafShadow tests the leaf's objects for occlusion.
func (s *Scene) TraverseLeafShadow(ctx *bvh.SingleContext, node *bvh.Node) bool {
	first := node.ChildIndex
	count := node.NumLeaves()

	for i := uint32(0); i < count; i++ {
		object := &s.objects[first+i]

		localCtx := s.localContext(ctx, object)
		if s.shapes[object.ShapeID].TraverseShadow(&localCtx) {
			return true
		}
	}
	return false
}

// TraversePacket traces a packet through the two-level hierarchy. Results
// land in ctx.HitPoints, indexed by original ray offsets.
func (s *Scene) TraversePacket(ctx *bvh.PacketContext) {
	ctx.Reset()
	if ctx.Counters != nil {
		ctx.Counters.NumRays += uint64(ctx.Packet.NumRays)
	}
	bvh.TraversePacket(ctx, 0, &s.tree, s, ctx.Packet.NumGroups(), 0)
}

// TraverseLeafPacket descends packet rays into a scene object: the active
// groups' rays are transformed into object space and written to the second
// traversal-depth slot. Non-rigid objects scalarize, since packet hit
// distances are shared across both levels.
func (s *Scene) TraverseLeafPacket(ctx *bvh.PacketContext, _ uint32, node *bvh.Node, numActiveGroups uint32, _ int) {
	first := node.ChildIndex
	count := node.NumLeaves()

	for i := uint32(0); i < count; i++ {
		objectID := first + i
		object := &s.objects[objectID]
		shape := s.shapes[object.ShapeID]

		if !object.IsRigid() {
			s.traverseObjectPacketScalar(ctx, objectID, numActiveGroups)
			continue
		}

		for g := uint32(0); g < numActiveGroups; g++ {
			group := &ctx.Packet.Groups[ctx.ActiveGroupsIndices[g]]
			for lane := 0; lane < bvh.RaysPerGroup; lane++ {
				worldRay := group.Rays[0].Lane(lane)
				origin := object.inverseTransform.TransformPoint(worldRay.Origin)
				dir := object.inverseTransform.TransformDir(worldRay.Dir)
				group.Rays[1].SetLane(lane, math.NewRayUnsafe(origin, dir))
			}
		}

		shape.TraversePacket(ctx, objectID, numActiveGroups, 1)
	}
}

// traverseObjectPacketScalar falls back to single-ray traversal per live
// lane for objects with scaling transforms.
func (s *Scene) traverseObjectPacketScalar(ctx *bvh.PacketContext, objectID uint32, numActiveGroups uint32) {
	object := &s.objects[objectID]

	for g := uint32(0); g < numActiveGroups; g++ {
		group := &ctx.Packet.Groups[ctx.ActiveGroupsIndices[g]]
		for lane := 0; lane < bvh.RaysPerGroup; lane++ {
			if ctx.ActiveRaysMask[g]&(1<<uint(lane)) == 0 {
				continue
			}

			hit := &ctx.HitPoints[group.RayOffsets[lane]]
			hit.Distance = group.MaxDistances[lane]

			singleCtx := bvh.SingleContext{
				Ray:      group.Rays[0].Lane(lane),
				Hit:      hit,
				Counters: ctx.Counters,
			}
			localCtx := s.localContext(&singleCtx, object)
			s.shapes[object.ShapeID].Traverse(&localCtx, objectID)

			if localCtx.Hit.IsHit() {
				hit.Set(localCtx.Hit.Distance/object.invScale, localCtx.Hit.ObjectID, localCtx.Hit.SubObjectID)
				hit.U = localCtx.Hit.U
				hit.V = localCtx.Hit.V
				group.MaxDistances[lane] = hit.Distance
			}
		}
	}
}
