// Package bundle embeds the startup manifest and the CSV list files it names.
package bundle

import (
	"embed"
	"io/fs"
	"os"
	"strings"
)

// ManifestName is the manifest file at the root of a catalog source.
const ManifestName = "manifest.json"

//go:embed data
var embedded embed.FS

// FS returns the embedded catalog source.
func FS() fs.FS {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return embedded
	}
	return sub
}

// Source returns the catalog source rooted at dir, or the embedded one when
// dir is empty.
func Source(dir string) fs.FS {
	if strings.TrimSpace(dir) == "" {
		return FS()
	}
	return os.DirFS(dir)
}
