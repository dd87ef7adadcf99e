package vgrid

import "testing"

func TestGroupStoreLifecycle(t *testing.T) {
	g := newGroup[int](4)
	id := g.NewStore()
	for i := 0; i < 6; i++ {
		v := i
		if pos := g.Add(id, &v); pos != i {
			t.Fatalf("Add returned position %d, want %d", pos, i)
		}
	}
	if g.Len(id) != 6 {
		t.Fatalf("store length %d, want 6", g.Len(id))
	}
	for i := 0; i < 6; i++ {
		if *g.At(id, i) != i {
			t.Fatalf("At(%d) = %d", i, *g.At(id, i))
		}
	}
}

func TestGroupClearRecycles(t *testing.T) {
	g := newGroup[int](4)
	id := g.NewStore()
	for i := 0; i < 6; i++ {
		g.Add(id, new(int))
	}
	g.Clear(id)
	if g.Len(id) != 0 {
		t.Fatal("store not empty after Clear")
	}
	// Cache is bounded at 4: two of the six items were dropped.
	for i := 0; i < 4; i++ {
		if g.Pop() == nil {
			t.Fatalf("Pop %d returned nil with cache supposedly filled", i)
		}
	}
	if g.Pop() != nil {
		t.Fatal("cache exceeded its bound")
	}
}

func TestGroupRemoveReusesID(t *testing.T) {
	g := newGroup[int](2)
	a := g.NewStore()
	b := g.NewStore()
	if a == b {
		t.Fatal("distinct stores share an id")
	}
	g.Add(a, new(int))
	g.Remove(a)
	if g.Pop() == nil {
		t.Fatal("Remove did not recycle store contents")
	}
	if c := g.NewStore(); c != a {
		t.Errorf("NewStore after Remove = %d, want recycled id %d", c, a)
	}
}
