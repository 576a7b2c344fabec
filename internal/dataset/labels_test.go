package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadLabels(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    LabelTable
		wantErr error
	}{
		{
			name:  "normal case",
			input: "filename,digit\na.png,0\nb.png,7\n",
			want:  LabelTable{"a.png": 0, "b.png": 7},
		},
		{
			name:  "extra columns and reordered",
			input: "original filename,digit,database name,filename\nx.png,3,a,a0.png\ny.png,49,a,a1.png\n",
			want:  LabelTable{"a0.png": 3, "a1.png": 49},
		},
		{
			name:    "missing digit column",
			input:   "filename,label\na.png,1\n",
			wantErr: ErrMissingColumn,
		},
		{
			name:    "missing filename column",
			input:   "key,digit\na.png,1\n",
			wantErr: ErrMissingColumn,
		},
		{
			name:    "duplicate filename",
			input:   "filename,digit\na.png,1\na.png,2\n",
			wantErr: ErrDuplicateKey,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ReadLabels(strings.NewReader(tc.input))
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d entries, got %d", len(tc.want), len(got))
			}
			for k, v := range tc.want {
				if got[k] != v {
					t.Fatalf("%s: want %d, got %d", k, v, got[k])
				}
			}
		})
	}
}

func TestReadLabelsMalformed(t *testing.T) {
	for _, input := range []string{
		"",
		"filename,digit\na.png,seven\n",
		"filename,digit\na.png,-1\n",
		"filename,digit\na.png,1,extra\n",
	} {
		if _, err := ReadLabels(strings.NewReader(input)); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}

func TestLoadLabelsMissingFile(t *testing.T) {
	if _, err := LoadLabels(filepath.Join(t.TempDir(), "labels.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestResolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.csv")
	if err := os.WriteFile(path, []byte("filename,digit\na.png,2\nb.png,5\n"), 0o644); err != nil {
		t.Fatalf("write labels: %v", err)
	}
	table, err := LoadLabels(path)
	if err != nil {
		t.Fatalf("LoadLabels: %v", err)
	}

	ids, err := table.Resolve([]string{filepath.Join("imgs", "b.png"), filepath.Join("imgs", "a.png")})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ids[0] != 5 || ids[1] != 2 {
		t.Fatalf("unexpected ids %v", ids)
	}

	_, err = table.Resolve([]string{filepath.Join("imgs", "a.png"), filepath.Join("imgs", "A.png")})
	if !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
	if !strings.Contains(err.Error(), "A.png") {
		t.Fatalf("error should name the failing path: %v", err)
	}
}
