package ecs

import "testing"

func TestEntityStoreLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var s entityStore
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, s.create())
			}
			for _, e := range ents {
				if !s.isAlive(e) {
					t.Fatalf("entity %v should be alive", e)
				}
			}
			if c.destroyIndex < 0 {
				return
			}
			e := ents[c.destroyIndex]
			if !s.destroy(e) {
				t.Fatalf("destroy should return true for alive entity")
			}
			if s.isAlive(e) {
				t.Fatalf("entity should not be alive after destruction")
			}
			if s.destroy(e) {
				t.Fatalf("second destroy should return false")
			}
			reused := s.create()
			if reused.id() != e.id() || reused.generation() == e.generation() {
				t.Fatalf("expected id %d reused with new generation, got %v", e.id(), reused)
			}
		})
	}
}

func TestSparseSet(t *testing.T) {
	var s SparseSet[string]
	s.Set(3, "c")
	s.Set(1, "a")
	s.Set(2, "b")
	s.Set(1, "A")

	if v, ok := s.Get(1); !ok || v != "A" {
		t.Fatalf("Get(1) = %q, %v", v, ok)
	}
	s.Remove(3)
	if s.Has(3) || s.Len() != 2 {
		t.Fatalf("remove failed: has=%v len=%d", s.Has(3), s.Len())
	}
	if v, _ := s.Get(2); v != "b" {
		t.Fatalf("swap-remove corrupted id 2: %q", v)
	}
	s.Remove(42)
	if s.Has(0) {
		t.Fatalf("id 0 is never valid")
	}
}
