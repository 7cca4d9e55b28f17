package vdisk

import (
	"path/filepath"
	"strings"
)

// IsWithin reports whether target, after cleaning, lies inside dir or is dir itself.
// Both paths must be absolute.
func IsWithin(dir, target string) bool {
	rel, err := filepath.Rel(dir, target)
	if err != nil {
		return false
	}

	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}

	return !filepath.IsAbs(rel)
}

// isHidden reports whether the last element of a slash-separated path is a
// macOS folder metadata file.
func isHidden(p string) bool {
	base := p
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		base = p[i+1:]
	}
	return base == ".DS_Store"
}
