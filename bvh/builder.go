package bvh

import (
	"errors"
	"sort"

	"ray-engine/math"
)

// ErrTooDeep is returned when the builder cannot partition the input within
// the fixed traversal depth.
var ErrTooDeep = errors.New("bvh: maximum tree depth exceeded")

// Build constructs a tree over the given primitive bounds with a median
// split on the widest centroid axis. Leaves reference contiguous primitive
// ranges, so the returned order maps the new primitive index back to the
// caller's original index; the caller is expected to permute its primitive
// storage accordingly.
//
// This builder favors predictability over SAH quality: the traversal layer
// is the subject of this repository, the builder only has to feed it.
func Build(boxes []math.Box, maxLeafSize uint32) (*BVH, []uint32, error) {
	if maxLeafSize == 0 {
		maxLeafSize = 1
	}

	if len(boxes) == 0 {
		return &BVH{}, nil, nil
	}

	order := make([]uint32, len(boxes))
	for i := range order {
		order[i] = uint32(i)
	}

	b := &BVH{nodes: make([]Node, 1, 2*len(boxes))}

	type workItem struct {
		node  uint32
		begin uint32
		end   uint32
		depth uint32
	}

	stack := []workItem{{node: 0, begin: 0, end: uint32(len(boxes)), depth: 1}}

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if item.depth > MaxDepth {
			return nil, nil, ErrTooDeep
		}

		span := order[item.begin:item.end]

		bounds := math.EmptyBox()
		centroidBounds := math.EmptyBox()
		for _, prim := range span {
			bounds = bounds.Union(boxes[prim])
			centroidBounds = centroidBounds.AddPoint(boxes[prim].Center())
		}

		node := &b.nodes[item.node]
		node.SetBox(bounds)

		count := item.end - item.begin
		size := centroidBounds.Size()
		degenerate := size.MaxComponent() <= 0

		if count <= maxLeafSize || (degenerate && count <= numLeavesMask) {
			node.SetLeaf(item.begin, count)
			continue
		}

		axis := 0
		if size.Y > size.X {
			axis = 1
		}
		if size.Z > size.Component(axis) {
			axis = 2
		}

		sort.Slice(span, func(i, j int) bool {
			return boxes[span[i]].Center().Component(axis) < boxes[span[j]].Center().Component(axis)
		})

		mid := item.begin + count/2

		childIndex := uint32(len(b.nodes))
		b.nodes = append(b.nodes, Node{}, Node{})
		// re-fetch: append may have moved the backing array
		b.nodes[item.node].SetInterior(childIndex, uint32(axis))
		b.nodes[item.node].SetBox(bounds)

		stack = append(stack,
			workItem{node: childIndex + 1, begin: mid, end: item.end, depth: item.depth + 1},
			workItem{node: childIndex, begin: item.begin, end: mid, depth: item.depth + 1},
		)
	}

	return b, order, nil
}
