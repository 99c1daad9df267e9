package bvh

import (
	"bytes"
	"math"
	"testing"

	rmath "ray-engine/math"
)

func randomBoxes(n int, seed uint64) []rmath.Box {
	random := rmath.NewRandomSeeded(seed)
	boxes := make([]rmath.Box, n)
	for i := range boxes {
		center := rmath.Vec3{
			X: random.GetFloatBipolar() * 10,
			Y: random.GetFloatBipolar() * 10,
			Z: random.GetFloatBipolar() * 10,
		}
		size := rmath.Vec3{
			X: 0.1 + random.GetFloat(),
			Y: 0.1 + random.GetFloat(),
			Z: 0.1 + random.GetFloat(),
		}
		boxes[i] = rmath.NewBox(center.Sub(size), center.Add(size))
	}
	return boxes
}

func checkNodeInvariants(t *testing.T, tree *BVH, numPrimitives uint32) {
	t.Helper()
	nodes := tree.Nodes()

	seen := make([]bool, numPrimitives)
	var walk func(index uint32)
	walk = func(index uint32) {
		node := &nodes[index]

		if node.IsLeaf() {
			for i := uint32(0); i < node.NumLeaves(); i++ {
				prim := node.ChildIndex + i
				if prim >= numPrimitives {
					t.Fatalf("leaf range out of bounds: %d", prim)
				}
				if seen[prim] {
					t.Fatalf("primitive %d referenced twice", prim)
				}
				seen[prim] = true
			}
			return
		}

		if node.SplitAxis() > 2 {
			t.Fatalf("invalid split axis %d", node.SplitAxis())
		}

		parentBox := node.Box()
		for c := uint32(0); c < 2; c++ {
			child := &nodes[node.ChildIndex+c]
			childBox := child.Box()
			if !parentBox.Contains(childBox.Min, 1e-4) || !parentBox.Contains(childBox.Max, 1e-4) {
				t.Fatalf("parent box does not enclose child %d", node.ChildIndex+c)
			}
			walk(node.ChildIndex + c)
		}
	}
	walk(0)

	for i, ok := range seen {
		if !ok {
			t.Fatalf("primitive %d not referenced by any leaf", i)
		}
	}
}

func TestBuildInvariants(t *testing.T) {
	boxes := randomBoxes(257, 11)

	tree, order, err := Build(boxes, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(order) != len(boxes) {
		t.Fatalf("order length %d, want %d", len(order), len(boxes))
	}

	checkNodeInvariants(t, tree, uint32(len(boxes)))

	stats := tree.CalculateStats()
	if stats.MaxDepth == 0 || stats.MaxDepth > MaxDepth {
		t.Errorf("implausible max depth %d", stats.MaxDepth)
	}
	if stats.TotalNodesArea <= 0 || stats.TotalNodesVolume <= 0 {
		t.Errorf("implausible stats: %+v", stats)
	}
}

func TestBuildSinglePrimitive(t *testing.T) {
	boxes := randomBoxes(1, 5)
	tree, _, err := Build(boxes, 1)
	if err != nil {
		t.Fatal(err)
	}
	if tree.NumNodes() != 1 {
		t.Fatalf("single primitive should give one node, got %d", tree.NumNodes())
	}
	if !tree.Nodes()[0].IsLeaf() {
		t.Fatal("root of single-primitive tree must be a leaf")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	boxes := randomBoxes(100, 22)
	tree, _, err := Build(boxes, 2)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := tree.Save(&buf); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(&buf)
	if err != nil {
		t.Fatal(err)
	}

	if loaded.NumNodes() != tree.NumNodes() {
		t.Fatalf("node count: expected %d, got %d", tree.NumNodes(), loaded.NumNodes())
	}
	for i := range tree.Nodes() {
		if tree.Nodes()[i] != loaded.Nodes()[i] {
			t.Fatalf("node %d differs after round trip", i)
		}
	}
}

func TestLoadRejectsBadMagic(t *testing.T) {
	if _, err := Load(bytes.NewReader([]byte("NOTABVH0\x00\x00\x00\x00\x00\x00\x00\x00"))); err == nil {
		t.Error("expected error for bad magic")
	}
}

// boxSoup is a minimal traversable object: its primitives are the boxes
// themselves.
type boxSoup struct {
	boxes []rmath.Box
}

func (s *boxSoup) TraverseLeaf(ctx *SingleContext, objectID uint32, node *Node) {
	for i := uint32(0); i < node.NumLeaves(); i++ {
		prim := node.ChildIndex + i
		distance, hit := rmath.IntersectBoxRay(ctx.Ray, s.boxes[prim])
		if hit && distance > 0 && distance < ctx.Hit.Distance {
			ctx.Hit.Set(distance, objectID, prim)
		}
	}
}

func (s *boxSoup) TraverseLeafShadow(ctx *SingleContext, node *Node) bool {
	for i := uint32(0); i < node.NumLeaves(); i++ {
		prim := node.ChildIndex + i
		distance, hit := rmath.IntersectBoxRay(ctx.Ray, s.boxes[prim])
		if hit && distance > 0 && distance < ctx.Hit.Distance {
			return true
		}
	}
	return false
}

func (s *boxSoup) bruteForce(ray rmath.Ray) HitPoint {
	best := NewHitPoint()
	for i, box := range s.boxes {
		distance, hit := rmath.IntersectBoxRay(ray, box)
		if hit && distance > 0 && distance < best.Distance {
			best.Set(distance, 0, uint32(i))
		}
	}
	return best
}

func TestTraverseMatchesBruteForce(t *testing.T) {
	boxes := randomBoxes(300, 33)
	tree, order, err := Build(boxes, 3)
	if err != nil {
		t.Fatal(err)
	}

	// permute primitive storage to the leaf order
	permuted := make([]rmath.Box, len(boxes))
	for newIndex, oldIndex := range order {
		permuted[newIndex] = boxes[oldIndex]
	}
	soup := &boxSoup{boxes: permuted}

	random := rmath.NewRandomSeeded(44)
	for i := 0; i < 2000; i++ {
		origin := rmath.Vec3{
			X: random.GetFloatBipolar() * 20,
			Y: random.GetFloatBipolar() * 20,
			Z: random.GetFloatBipolar() * 20,
		}
		dir := rmath.SampleSphere(random.GetVec2())
		ray := rmath.NewRay(origin, dir)

		hit := NewHitPoint()
		ctx := SingleContext{Ray: ray, Hit: &hit}
		Traverse(&ctx, 0, tree, soup)

		want := soup.bruteForce(ray)

		if hit.IsHit() != want.IsHit() {
			t.Fatalf("ray %d: hit=%v, brute force=%v", i, hit.IsHit(), want.IsHit())
		}
		if hit.IsHit() && math.Abs(float64(hit.Distance-want.Distance)) > 1e-4 {
			t.Fatalf("ray %d: distance %v, brute force %v", i, hit.Distance, want.Distance)
		}
	}
}

func TestTraverseShadowConsistent(t *testing.T) {
	boxes := randomBoxes(100, 55)
	tree, order, err := Build(boxes, 2)
	if err != nil {
		t.Fatal(err)
	}
	permuted := make([]rmath.Box, len(boxes))
	for newIndex, oldIndex := range order {
		permuted[newIndex] = boxes[oldIndex]
	}
	soup := &boxSoup{boxes: permuted}

	random := rmath.NewRandomSeeded(66)
	for i := 0; i < 1000; i++ {
		origin := rmath.Vec3{
			X: random.GetFloatBipolar() * 20,
			Y: random.GetFloatBipolar() * 20,
			Z: random.GetFloatBipolar() * 20,
		}
		ray := rmath.NewRay(origin, rmath.SampleSphere(random.GetVec2()))

		hit := NewHitPoint()
		ctx := SingleContext{Ray: ray, Hit: &hit}
		Traverse(&ctx, 0, tree, soup)

		shadowHit := NewHitPoint()
		shadowCtx := SingleContext{Ray: ray, Hit: &shadowHit}
		occluded := TraverseShadow(&shadowCtx, tree, soup)

		if occluded != hit.IsHit() {
			t.Fatalf("ray %d: shadow=%v but closest-hit=%v", i, occluded, hit.IsHit())
		}
	}
}

func TestEmptyTreeQueries(t *testing.T) {
	tree := &BVH{}
	soup := &boxSoup{}

	ray := rmath.NewRay(rmath.Vec3{}, rmath.Vec3{Z: 1})
	hit := NewHitPoint()
	ctx := SingleContext{Ray: ray, Hit: &hit}

	Traverse(&ctx, 0, tree, soup)
	if hit.IsHit() {
		t.Error("empty tree returned a hit")
	}
	if TraverseShadow(&ctx, tree, soup) {
		t.Error("empty tree returned an occlusion")
	}
}
