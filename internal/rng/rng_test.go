package rng

import "testing"

func TestNewIsDeterministic(t *testing.T) {
	a := New(42)
	b := New(42)

	for i := 0; i < 100; i++ {
		if a.Float64() != b.Float64() {
			t.Fatalf("sources with equal seeds diverged at draw %d", i)
		}
	}
}

func TestSeedsDiffer(t *testing.T) {
	a := New(1)
	b := New(2)

	same := true
	for i := 0; i < 10; i++ {
		if a.Float64() != b.Float64() {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical draws")
	}
}

func TestFloat64Bounds(t *testing.T) {
	s := New(7)
	for i := 0; i < 1000; i++ {
		v := s.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("Float64() = %f, want [0, 1)", v)
		}
	}
}

func TestIntNBounds(t *testing.T) {
	s := New(7)
	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		v := s.IntN(4)
		if v < 0 || v >= 4 {
			t.Fatalf("IntN(4) = %d, want [0, 4)", v)
		}
		seen[v] = true
	}
	if len(seen) != 4 {
		t.Errorf("IntN(4) only produced %d distinct values in 1000 draws", len(seen))
	}
}

func TestRangeBounds(t *testing.T) {
	s := New(7)
	for i := 0; i < 1000; i++ {
		v := s.Range(20, 60)
		if v < 20 || v >= 60 {
			t.Fatalf("Range(20, 60) = %f, want [20, 60)", v)
		}
	}
}

func TestRangeNegative(t *testing.T) {
	s := New(7)
	for i := 0; i < 1000; i++ {
		v := s.Range(-0.0002, 0.0002)
		if v < -0.0002 || v >= 0.0002 {
			t.Fatalf("Range(-0.0002, 0.0002) = %f out of bounds", v)
		}
	}
}
