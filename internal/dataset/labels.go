package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const (
	keyColumn   = "filename"
	labelColumn = "digit"
)

var (
	// ErrMissingColumn indicates the label CSV header lacks filename or digit.
	ErrMissingColumn = errors.New("labels: missing column")
	// ErrDuplicateKey indicates the same filename appears twice in the table.
	ErrDuplicateKey = errors.New("labels: duplicate filename")
	// ErrUnknownKey indicates a lookup for a filename absent from the table.
	ErrUnknownKey = errors.New("labels: unknown filename")
)

// LabelTable maps an image key to its integer class id.
type LabelTable map[string]int

// LoadLabels reads the label table at path.
func LoadLabels(path string) (LabelTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open labels: %w", err)
	}
	defer f.Close()

	table, err := ReadLabels(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// ReadLabels parses a CSV with at least the filename and digit columns.
func ReadLabels(r io.Reader) (LabelTable, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	keyIdx, labelIdx := -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case keyColumn:
			keyIdx = i
		case labelColumn:
			labelIdx = i
		}
	}
	if keyIdx == -1 {
		return nil, fmt.Errorf("%w %q", ErrMissingColumn, keyColumn)
	}
	if labelIdx == -1 {
		return nil, fmt.Errorf("%w %q", ErrMissingColumn, labelColumn)
	}

	table := make(LabelTable)
	rowNum := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", rowNum, err)
		}
		key := row[keyIdx]
		label, err := strconv.Atoi(strings.TrimSpace(row[labelIdx]))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid digit: %w", rowNum, err)
		}
		if label < 0 {
			return nil, fmt.Errorf("row %d: negative digit %d", rowNum, label)
		}
		if _, ok := table[key]; ok {
			return nil, fmt.Errorf("row %d: %w %q", rowNum, ErrDuplicateKey, key)
		}
		table[key] = label
	}
	return table, nil
}

// Lookup returns the class id stored for key.
func (t LabelTable) Lookup(key string) (int, error) {
	label, ok := t[key]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownKey, key)
	}
	return label, nil
}

// Resolve looks up the key of every path, in order. The first missing key
// fails the whole call.
func (t LabelTable) Resolve(paths []string) ([]int, error) {
	ids := make([]int, len(paths))
	for i, p := range paths {
		label, err := t.Lookup(Key(p))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		ids[i] = label
	}
	return ids, nil
}
