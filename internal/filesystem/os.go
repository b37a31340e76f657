package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
)

// OSFileSystem implements read-only filesystem queries using the operating system primitives.
type OSFileSystem struct{}

// Stat retrieves file metadata, following symbolic links.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Abs resolves an absolute path against the process working directory.
func (OSFileSystem) Abs(path string) (string, error) {
	return filepath.Abs(path)
}
