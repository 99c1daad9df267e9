package bvh

import rmath "ray-engine/math"

// Traverse walks the tree depth-first with an explicit stack, visiting the
// closer child first and culling children behind the current best hit.
func Traverse(ctx *SingleContext, objectID uint32, tree *BVH, object SingleTraverser) {
	nodes := tree.nodes
	if len(nodes) == 0 {
		return
	}

	var stack [MaxDepth]*Node
	stackSize := 0

	currentNode := &nodes[0]
	for {
		if currentNode.IsLeaf() {
			object.TraverseLeaf(ctx, objectID, currentNode)
		} else {
			childA := &nodes[currentNode.ChildIndex]
			childB := &nodes[currentNode.ChildIndex+1]

			distanceA, hitA := rmath.IntersectBoxRay(ctx.Ray, childA.Box())
			distanceB, hitB := rmath.IntersectBoxRay(ctx.Ray, childB.Box())

			// box occlusion against the best hit so far
			hitA = hitA && distanceA < ctx.Hit.Distance
			hitB = hitB && distanceB < ctx.Hit.Distance

			if ctx.Counters != nil {
				ctx.Counters.NumRayBoxTests += 2
				if hitA {
					ctx.Counters.NumPassedRayBoxTests++
				}
				if hitB {
					ctx.Counters.NumPassedRayBoxTests++
				}
			}

			if hitA && hitB {
				// visit the closer child first
				if distanceB < distanceA {
					childA, childB = childB, childA
				}
				currentNode = childA
				stack[stackSize] = childB
				stackSize++
				continue
			}
			if hitA {
				currentNode = childA
				continue
			}
			if hitB {
				currentNode = childB
				continue
			}
		}

		if stackSize == 0 {
			break
		}

		stackSize--
		currentNode = stack[stackSize]
	}
}

// TraverseShadow is the early-out occlusion variant: it returns on the
// first hit closer than the ray's limit and does not order children.
func TraverseShadow(ctx *SingleContext, tree *BVH, object SingleTraverser) bool {
	nodes := tree.nodes
	if len(nodes) == 0 {
		return false
	}

	var stack [MaxDepth]*Node
	stackSize := 0

	currentNode := &nodes[0]
	for {
		if currentNode.IsLeaf() {
			if object.TraverseLeafShadow(ctx, currentNode) {
				return true
			}
		} else {
			childA := &nodes[currentNode.ChildIndex]
			childB := &nodes[currentNode.ChildIndex+1]

			distanceA, hitA := rmath.IntersectBoxRay(ctx.Ray, childA.Box())
			distanceB, hitB := rmath.IntersectBoxRay(ctx.Ray, childB.Box())

			hitA = hitA && distanceA < ctx.Hit.Distance
			hitB = hitB && distanceB < ctx.Hit.Distance

			if ctx.Counters != nil {
				ctx.Counters.NumRayBoxTests += 2
				if hitA {
					ctx.Counters.NumPassedRayBoxTests++
				}
				if hitB {
					ctx.Counters.NumPassedRayBoxTests++
				}
			}

			if hitA && hitB {
				currentNode = childA
				stack[stackSize] = childB
				stackSize++
				continue
			}
			if hitA {
				currentNode = childA
				continue
			}
			if hitB {
				currentNode = childB
				continue
			}
		}

		if stackSize == 0 {
			break
		}

		stackSize--
		currentNode = stack[stackSize]
	}

	return false
}
