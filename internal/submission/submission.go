// Package submission writes prediction tables as key,label CSV files.
package submission

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Header is the first row of every submission.
var Header = []string{"key", "label"}

// RowSink receives tabular rows in order.
type RowSink interface {
	Write(record []string) error
}

// Emit sends the header and one (key, label) row per prediction to sink.
// Rows follow input order; keys are neither deduplicated nor validated.
func Emit(sink RowSink, keys []string, labels []int) error {
	if len(keys) != len(labels) {
		return fmt.Errorf("submission: %d keys for %d labels", len(keys), len(labels))
	}
	if err := sink.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, key := range keys {
		if err := sink.Write([]string{key, strconv.Itoa(labels[i])}); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	return nil
}

// Write emits the submission as CSV to w.
func Write(w io.Writer, keys []string, labels []int) error {
	writer := csv.NewWriter(w)
	if err := Emit(writer, keys, labels); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// WriteFile writes the submission CSV to path, replacing any existing file
// and creating missing parent directories.
func WriteFile(path string, keys []string, labels []int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create submission dir: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create submission: %w", err)
	}
	defer out.Close()

	bw := bufio.NewWriter(out)
	if err := Write(bw, keys, labels); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush submission: %w", err)
	}
	return out.Close()
}

// Argmax returns the most probable class of every row of probs.
func Argmax(probs *mat.Dense) []int {
	rows, _ := probs.Dims()
	out := make([]int, rows)
	for i := 0; i < rows; i++ {
		out[i] = floats.MaxIdx(probs.RawRowView(i))
	}
	return out
}
