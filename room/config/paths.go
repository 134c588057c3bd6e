package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// PathResolver makes the file references of a config relative to the directory of
// the config file instead of the working directory
type PathResolver struct {
	baseDir string
}

func NewPathResolver(baseDir string) *PathResolver {
	return &PathResolver{baseDir: baseDir}
}

// Resolve rewrites *path in place. Empty and absolute paths are left alone.
func (pr *PathResolver) Resolve(path *string) {
	if *path == "" || filepath.IsAbs(*path) {
		return
	}
	*path = filepath.Join(pr.baseDir, *path)
}

// Require resolves *path and checks that it names a regular file
func (pr *PathResolver) Require(field string, path *string) error {
	pr.Resolve(path)
	info, err := os.Stat(*path)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s: %s is a directory", field, *path)
	}
	return nil
}
