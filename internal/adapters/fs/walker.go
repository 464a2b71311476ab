// Package fs provides file system adapters for walking, hashing and comparing trees.
package fs

import (
	"io/fs"
	"path/filepath"
	"slices"

	"go.trai.ch/zerr"
)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// RelFiles returns the slash-separated paths of all files under root, relative
// to root and sorted. Anything inside .git is skipped.
func (w *Walker) RelFiles(root string) ([]string, error) {
	return w.rel(root, false)
}

// RelDirs returns the slash-separated paths of all directories below root,
// relative to root and sorted. root itself and .git are not included.
func (w *Walker) RelDirs(root string) ([]string, error) {
	return w.rel(root, true)
}

func (w *Walker) rel(root string, dirs bool) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}
		if d.IsDir() != dirs || path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to walk directory"), "path", root)
	}
	slices.Sort(paths)
	return paths, nil
}
