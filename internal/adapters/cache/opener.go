package cache

import (
	fsadapter "go.trai.ch/precompile/internal/adapters/fs"
	"go.trai.ch/precompile/internal/core/ports"
)

// Opener implements ports.CacheOpener for Store.
type Opener struct {
	hasher *fsadapter.Hasher
}

// NewOpener creates an Opener whose stores record tree digests with hasher.
func NewOpener(hasher *fsadapter.Hasher) *Opener {
	return &Opener{hasher: hasher}
}

// Open returns a Store rooted at cacheDir for the application in workDir.
func (o *Opener) Open(cacheDir, workDir string) (ports.ContentCache, error) {
	return NewStore(cacheDir, workDir, o.hasher)
}
