package dataset

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestOneHot(t *testing.T) {
	ids := []int{0, 1, 2, 9}
	labels, err := OneHot(ids, 10)
	if err != nil {
		t.Fatalf("OneHot: %v", err)
	}
	rows, cols := labels.Dims()
	if rows != len(ids) || cols != 10 {
		t.Fatalf("expected shape (%d,10), got (%d,%d)", len(ids), rows, cols)
	}
	for i := 0; i < rows; i++ {
		row := mat.Row(nil, i, labels)
		if floats.Sum(row) != 1 {
			t.Fatalf("row %d sums to %f", i, floats.Sum(row))
		}
		if row[ids[i]] != 1 {
			t.Fatalf("row %d: expected 1 at %d, got %v", i, ids[i], row)
		}
	}
	got := ClassIDs(labels)
	for i := range ids {
		if got[i] != ids[i] {
			t.Fatalf("ClassIDs[%d]=%d want %d", i, got[i], ids[i])
		}
	}
}

func TestOneHotRejectsOutOfRange(t *testing.T) {
	if _, err := OneHot([]int{3, 10}, 10); !errors.Is(err, ErrClassOutOfRange) {
		t.Fatalf("expected ErrClassOutOfRange, got %v", err)
	}
	if _, err := OneHot([]int{1}, 0); err == nil {
		t.Fatal("expected error for zero classes")
	}
	if _, err := OneHot(nil, 10); err == nil {
		t.Fatal("expected error for empty ids")
	}
}
