package dataset

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// DiscoverImages returns paths to raster images beneath root, sorted.
func DiscoverImages(root string) ([]string, error) {
	entries := make([]string, 0)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if imageExts[strings.ToLower(filepath.Ext(d.Name()))] {
			entries = append(entries, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover images: %w", err)
	}
	sort.Strings(entries)
	return entries, nil
}

// Key separates the join key of an image from its path: the final path
// component, matched verbatim against the filename column of a label table.
func Key(path string) string {
	return filepath.Base(path)
}

// Keys maps Key over paths, preserving order.
func Keys(paths []string) []string {
	keys := make([]string, len(paths))
	for i, p := range paths {
		keys[i] = Key(p)
	}
	return keys
}
