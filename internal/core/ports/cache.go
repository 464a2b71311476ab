// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/precompile/internal/core/domain"

// ContentCache stores whole directory trees keyed by their logical path.
//
//go:generate go run go.uber.org/mock/mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type ContentCache interface {
	// Store copies the tree at path into the cache, replacing any previous entry.
	// A later Load observes either the previous tree or the new one, never a mix.
	Store(path string) error

	// Load restores the cached tree for path onto disk, replacing local contents.
	// It returns domain.ErrCacheMiss if nothing is cached for path.
	Load(path string) error

	// Invalidate drops the cached tree and metadata for path. Dropping an
	// absent entry is not an error.
	Invalidate(path string) error

	// Exists reports whether a tree is cached for path.
	Exists(path string) bool

	// Path returns the on-disk location of the cached tree for path.
	Path(path string) string

	// Entry returns the metadata of the cached tree, or nil, nil if absent.
	Entry(path string) (*domain.CacheEntry, error)
}

// CacheOpener opens a ContentCache for an application directory.
type CacheOpener interface {
	// Open returns a cache rooted at cacheDir whose keys resolve against workDir.
	Open(cacheDir, workDir string) (ContentCache, error)
}
