package submission

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submission.csv")
	if err := WriteFile(path, []string{"a.png", "b.png", "c.png"}, []int{3, 7, 1}); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "key,label\na.png,3\nb.png,7\nc.png,1\n"
	if string(got) != want {
		t.Fatalf("unexpected content:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteFileCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "run1", "submission.csv")
	if err := WriteFile(path, []string{"a.png"}, []int{4}); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "key,label\na.png,4\n" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestWriteKeepsDuplicatesInOrder(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := Write(buf, []string{"b.png", "a.png", "b.png"}, []int{1, 2, 3}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := "key,label\nb.png,1\na.png,2\nb.png,3\n"
	if buf.String() != want {
		t.Fatalf("got %q want %q", buf.String(), want)
	}
}

func TestWriteLengthMismatch(t *testing.T) {
	if err := Write(&bytes.Buffer{}, []string{"a.png"}, []int{1, 2}); err == nil {
		t.Fatal("expected error for mismatched lengths")
	}
}

type failingSink struct{ after int }

func (f *failingSink) Write([]string) error {
	if f.after == 0 {
		return errors.New("disk full")
	}
	f.after--
	return nil
}

func TestEmitPropagatesSinkError(t *testing.T) {
	err := Emit(&failingSink{after: 2}, []string{"a", "b", "c"}, []int{1, 2, 3})
	if err == nil {
		t.Fatal("expected sink error")
	}
}

func TestArgmax(t *testing.T) {
	probs := mat.NewDense(3, 3, []float64{
		0.1, 0.7, 0.2,
		0.5, 0.4, 0.1,
		0.0, 0.1, 0.9,
	})
	got := Argmax(probs)
	want := []int{1, 0, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d: got %d want %d", i, got[i], want[i])
		}
	}
}
