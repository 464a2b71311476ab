package fs

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// Hasher computes content digests of files and directory trees.
type Hasher struct {
	walker *Walker
}

// NewHasher creates a new Hasher.
func NewHasher(walker *Walker) *Hasher {
	return &Hasher{walker: walker}
}

// ComputeFileHash computes the XXHash of a file's content.
// Symlinks are hashed by their target path, not the content they point to.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to stat file"), "path", path)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(path)
		if err != nil {
			return 0, zerr.With(zerr.Wrap(err, "failed to read symlink"), "path", path)
		}
		return xxhash.Sum64String("link:" + target), nil
	}

	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	digest := xxhash.New()
	if _, err := io.Copy(digest, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}
	return digest.Sum64(), nil
}

// TreeDigest is the summary of a directory tree.
type TreeDigest struct {
	// Files maps slash-separated relative paths to content hashes.
	Files map[string]uint64
	// Sum covers every path and content hash, in sorted path order.
	Sum string
}

// ComputeTreeDigest hashes every file under root.
func (h *Hasher) ComputeTreeDigest(root string) (*TreeDigest, error) {
	rels, err := h.walker.RelFiles(root)
	if err != nil {
		return nil, err
	}

	tree := &TreeDigest{Files: make(map[string]uint64, len(rels))}
	sum := xxhash.New()
	for _, rel := range rels {
		fileHash, err := h.ComputeFileHash(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return nil, err
		}
		tree.Files[rel] = fileHash

		_, _ = sum.WriteString(rel)
		_, _ = sum.Write([]byte{0})
		if err := binary.Write(sum, binary.LittleEndian, fileHash); err != nil {
			return nil, zerr.Wrap(err, "failed to write hash to digest")
		}
	}
	tree.Sum = fmt.Sprintf("%016x", sum.Sum64())
	return tree, nil
}
