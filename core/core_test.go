package core

import (
	"testing"
	"unsafe"
)

func TestSystemAllocatorAlignment(t *testing.T) {
	allocator := NewSystemAllocator()

	for _, alignment := range []int{16, 32, 64} {
		buf, err := allocator.Alloc(1000, alignment)
		if err != nil {
			t.Fatal(err)
		}
		if len(buf) != 1000 {
			t.Fatalf("length %d, want 1000", len(buf))
		}
		if uintptr(unsafe.Pointer(&buf[0]))&uintptr(alignment-1) != 0 {
			t.Errorf("allocation not %d-byte aligned", alignment)
		}
	}

	if allocator.TotalAllocated() != 3000 {
		t.Errorf("total allocated %d, want 3000", allocator.TotalAllocated())
	}
}

func TestSystemAllocatorRejectsBadArgs(t *testing.T) {
	allocator := NewSystemAllocator()

	if _, err := allocator.Alloc(0, 16); err == nil {
		t.Error("zero size accepted")
	}
	if _, err := allocator.Alloc(16, 3); err == nil {
		t.Error("non-power-of-two alignment accepted")
	}
}

func TestTrackingAllocator(t *testing.T) {
	tracking := NewTrackingAllocator(NewSystemAllocator())
	engine := InitWithAllocator(tracking)

	if _, err := engine.Allocator().Alloc(256, 32); err != nil {
		t.Fatal(err)
	}
	if _, err := engine.Allocator().Alloc(512, 32); err != nil {
		t.Fatal(err)
	}

	if len(tracking.Allocations) != 2 {
		t.Fatalf("tracked %d allocations, want 2", len(tracking.Allocations))
	}
	if tracking.Allocations[0] != 256 || tracking.Allocations[1] != 512 {
		t.Errorf("tracked sizes %v", tracking.Allocations)
	}
}

func TestCountersAccumulate(t *testing.T) {
	var a, b Counters
	a.NumRays = 10
	a.NumRayBoxTests = 100
	b.NumRays = 5
	b.NumRayTriangleTests = 7

	a.Accumulate(&b)
	if a.NumRays != 15 || a.NumRayBoxTests != 100 || a.NumRayTriangleTests != 7 {
		t.Errorf("accumulated counters wrong: %+v", a)
	}

	a.Reset()
	if a != (Counters{}) {
		t.Error("reset did not zero the counters")
	}
}
