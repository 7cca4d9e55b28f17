package vdisk

import (
	"path/filepath"
	"strings"
)

// AnyMediaType is sent for files whose extension is not recognised.
const AnyMediaType = "*/*"

var mediaTypes = map[string]string{
	".jpg":  "image/jpg",
	".jpeg": "image/jpg",
	".png":  "image/png",
	".txt":  "text/plain",
	".text": "text/plain",
	".html": "text/html",
	".xml":  "text/xml",
}

// MediaType returns the Content-Type for a file based on its extension.
// Extensions match case-insensitively.
func MediaType(path string) string {
	if t, ok := mediaTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return t
	}
	return AnyMediaType
}

