package fs

import (
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/precompile/internal/core/ports"
)

var _ ports.ChangeDetector = (*Detector)(nil)

// Detector implements ports.ChangeDetector as a recursive tree comparison.
type Detector struct {
	walker *Walker
	hasher *Hasher
}

// NewDetector creates a new Detector.
func NewDetector(walker *Walker, hasher *Hasher) *Detector {
	return &Detector{walker: walker, hasher: hasher}
}

// HasChanged reports whether any file or directory was added or removed, or any
// file modified, between cachedDir and localDir. .git is not compared. A missing
// cachedDir, or any read error, counts as changed.
func (d *Detector) HasChanged(localDir, cachedDir string) bool {
	info, err := os.Stat(cachedDir)
	if err != nil || !info.IsDir() {
		return true
	}

	localFiles, err := d.walker.RelFiles(localDir)
	if err != nil {
		return true
	}
	cachedFiles, err := d.walker.RelFiles(cachedDir)
	if err != nil {
		return true
	}
	if !slices.Equal(localFiles, cachedFiles) {
		return true
	}

	localDirs, err := d.walker.RelDirs(localDir)
	if err != nil {
		return true
	}
	cachedDirs, err := d.walker.RelDirs(cachedDir)
	if err != nil {
		return true
	}
	if !slices.Equal(localDirs, cachedDirs) {
		return true
	}

	for _, rel := range localFiles {
		if d.fileChanged(filepath.Join(localDir, rel), filepath.Join(cachedDir, rel)) {
			return true
		}
	}
	return false
}

func (d *Detector) fileChanged(local, cached string) bool {
	localInfo, err := os.Lstat(local)
	if err != nil {
		return true
	}
	cachedInfo, err := os.Lstat(cached)
	if err != nil {
		return true
	}
	if localInfo.Mode().Type() != cachedInfo.Mode().Type() {
		return true
	}
	if localInfo.Mode().IsRegular() && localInfo.Size() != cachedInfo.Size() {
		return true
	}

	localHash, err := d.hasher.ComputeFileHash(local)
	if err != nil {
		return true
	}
	cachedHash, err := d.hasher.ComputeFileHash(cached)
	if err != nil {
		return true
	}
	return localHash != cachedHash
}
