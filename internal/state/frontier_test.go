package state

import "testing"

func TestFrontierPushLenContains(t *testing.T) {
	f := NewFrontier()
	if f.Len() != 0 {
		t.Fatalf("new frontier Len() = %d, want 0", f.Len())
	}
	p1 := Pixel{X: 1, Y: 1}
	f.Push(p1)
	if f.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", f.Len())
	}
	if !f.Contains(p1) {
		t.Fatal("expected frontier to contain pushed pixel")
	}
	if f.At(0) != p1 {
		t.Fatalf("At(0) = %v, want %v", f.At(0), p1)
	}
}

func TestFrontierRetainDropsAndReindexes(t *testing.T) {
	f := NewFrontier()
	pixels := []Pixel{{0, 0}, {1, 0}, {2, 0}, {3, 0}}
	for _, p := range pixels {
		f.Push(p)
	}
	f.Retain(func(p Pixel) bool { return p.X%2 == 0 })
	if f.Len() != 2 {
		t.Fatalf("Len() after Retain = %d, want 2", f.Len())
	}
	if f.Contains(Pixel{1, 0}) || f.Contains(Pixel{3, 0}) {
		t.Fatal("Retain left a dropped pixel in the index")
	}
	if !f.Contains(Pixel{0, 0}) || !f.Contains(Pixel{2, 0}) {
		t.Fatal("Retain dropped a pixel it should have kept")
	}
	snap := f.Snapshot()
	if len(snap) != 2 || snap[0] != (Pixel{0, 0}) || snap[1] != (Pixel{2, 0}) {
		t.Fatalf("Snapshot() = %v, want order-preserving [{0 0} {2 0}]", snap)
	}
}

func TestFrontierAtMostOnceInvariantIsCallerEnforced(t *testing.T) {
	f := NewFrontier()
	p := Pixel{5, 5}
	f.Push(p)
	if f.Contains(p) != true {
		t.Fatal("expected pixel present after first push")
	}
	// The generator core only pushes pixels it has just marked placed, which
	// were therefore not yet on the frontier; the frontier itself only tracks
	// membership, it does not reject duplicates.
}
