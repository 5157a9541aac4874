package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// RelPath returns the relative path from the base directory to the given path.
// On error the input path is returned.
func RelPath(baseDir string, path string) string {
	relPath, err := filepath.Rel(baseDir, path)
	if err != nil {
		return path
	}
	return relPath
}

// CreateDir creates the directory and any missing parents.
func CreateDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// ResolveDir resolves path to an absolute path and verifies it is an
// existing directory.
func ResolveDir(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for %q: %w", path, err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("directory %q does not exist: %w", absPath, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path %q is not a directory", absPath)
	}
	return absPath, nil
}
