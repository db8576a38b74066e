package stream

import "testing"

func TestPushWithinCapacity(t *testing.T) {
	b := NewBounded[int](3)
	b.Push(1, 2)

	items := b.Items()
	if len(items) != 2 || items[0] != 1 || items[1] != 2 {
		t.Errorf("items = %v, want [1 2]", items)
	}
}

func TestPushEvictsOldest(t *testing.T) {
	b := NewBounded[int](3)
	b.Push(1, 2, 3, 4, 5)

	items := b.Items()
	if len(items) != 3 {
		t.Fatalf("len = %d, want 3", len(items))
	}
	for i, want := range []int{3, 4, 5} {
		if items[i] != want {
			t.Errorf("items[%d] = %d, want %d", i, items[i], want)
		}
	}
}

func TestItemsNewestFirst(t *testing.T) {
	b := NewBounded[string](5)
	b.Push("a", "b", "c")

	items := b.ItemsNewestFirst()
	for i, want := range []string{"c", "b", "a"} {
		if items[i] != want {
			t.Errorf("items[%d] = %s, want %s", i, items[i], want)
		}
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	b := NewBounded[int](3)
	b.Push(1)

	items := b.Items()
	items[0] = 99
	if b.Items()[0] != 1 {
		t.Error("Items() exposes internal storage")
	}
}

func TestMutate(t *testing.T) {
	type rec struct {
		id    int
		acked bool
	}
	b := NewBounded[rec](4)
	b.Push(rec{id: 1}, rec{id: 2}, rec{id: 3})

	b.Mutate(func(r *rec) {
		if r.id == 2 {
			r.acked = true
		}
	})

	for _, r := range b.Items() {
		if r.id == 2 && !r.acked {
			t.Error("mutation did not stick")
		}
		if r.id != 2 && r.acked {
			t.Errorf("record %d mutated unexpectedly", r.id)
		}
	}
}

func TestLenAndClear(t *testing.T) {
	b := NewBounded[int](10)
	b.Push(1, 2, 3)
	if b.Len() != 3 {
		t.Errorf("len = %d, want 3", b.Len())
	}
	if b.Cap() != 10 {
		t.Errorf("cap = %d, want 10", b.Cap())
	}
	b.Clear()
	if b.Len() != 0 {
		t.Errorf("len after clear = %d, want 0", b.Len())
	}
}

func TestNewBoundedPanicsOnBadCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for zero capacity")
		}
	}()
	NewBounded[int](0)
}
