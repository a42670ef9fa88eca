package handle

import "testing"

func TestIDEncoding(t *testing.T) {
	id := New(7, 3)
	if id.Index() != 7 || id.Generation() != 3 {
		t.Fatalf("New(7, 3) decoded to (%d, %d)", id.Index(), id.Generation())
	}
	if id.IsZero() {
		t.Fatal("non-zero id reported zero")
	}
	if !None.IsZero() {
		t.Fatal("None is not zero")
	}
}

func TestAllocatorReuseBumpsGeneration(t *testing.T) {
	a := NewAllocator(4)
	first := a.Create()
	if first.IsZero() {
		t.Fatal("allocator handed out the zero id")
	}
	if !a.Destroy(first) {
		t.Fatal("destroy of live id returned false")
	}
	if a.Alive(first) {
		t.Fatal("destroyed id still alive")
	}
	second := a.Create()
	if second.Index() != first.Index() {
		t.Fatalf("expected index reuse, got %d and %d", first.Index(), second.Index())
	}
	if second.Generation() == first.Generation() {
		t.Fatal("reused index kept its generation")
	}
	if a.Destroy(first) {
		t.Fatal("stale destroy released the new occupant")
	}
	if !a.Alive(second) {
		t.Fatal("stale destroy invalidated the new occupant")
	}
	if a.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", a.Len())
	}
}
