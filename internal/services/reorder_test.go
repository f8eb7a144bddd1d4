package services

import "testing"

func TestRemoveAtClosesGap(t *testing.T) {
	items := []string{"a", "b", "c"}

	result := removeAt(items, 1)
	if len(result) != 2 || result[0] != "a" || result[1] != "c" {
		t.Fatalf("expected [a c], got %v", result)
	}
}

func TestRemoveAtIgnoresOutOfRange(t *testing.T) {
	items := []string{"a", "b"}

	if result := removeAt(items, -1); len(result) != 2 {
		t.Fatalf("expected unchanged slice, got %v", result)
	}
	if result := removeAt(items, 2); len(result) != 2 {
		t.Fatalf("expected unchanged slice, got %v", result)
	}
}

func TestMoveItemForward(t *testing.T) {
	items := []int{1, 2, 3, 4}

	result, changed := moveItem(items, 0, 2)
	if !changed {
		t.Fatalf("expected change")
	}
	expected := []int{2, 3, 1, 4}
	for i := range expected {
		if result[i] != expected[i] {
			t.Fatalf("expected %v, got %v", expected, result)
		}
	}
}

func TestMoveItemBackward(t *testing.T) {
	items := []int{1, 2, 3, 4}

	result, changed := moveItem(items, 3, 1)
	if !changed {
		t.Fatalf("expected change")
	}
	expected := []int{1, 4, 2, 3}
	for i := range expected {
		if result[i] != expected[i] {
			t.Fatalf("expected %v, got %v", expected, result)
		}
	}
}

func TestMoveItemClampsTarget(t *testing.T) {
	items := []int{1, 2, 3}

	result, changed := moveItem(items, 0, 99)
	if !changed {
		t.Fatalf("expected change")
	}
	if result[2] != 1 {
		t.Fatalf("expected moved element at the end, got %v", result)
	}

	result, changed = moveItem(items, 2, -5)
	if !changed {
		t.Fatalf("expected change")
	}
	if result[0] != 3 {
		t.Fatalf("expected moved element at the front, got %v", result)
	}
}

func TestMoveItemNoOp(t *testing.T) {
	items := []int{1, 2, 3}

	if _, changed := moveItem(items, 1, 1); changed {
		t.Fatalf("expected no-op when from == to")
	}
	if _, changed := moveItem(items, 5, 0); changed {
		t.Fatalf("expected no-op for out-of-range source")
	}
}
