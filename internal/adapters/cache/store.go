// Package cache implements the directory-granularity content cache.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	fsadapter "go.trai.ch/precompile/internal/adapters/fs"
	"go.trai.ch/precompile/internal/core/domain"
	"go.trai.ch/precompile/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	treesDirName   = "trees"
	entriesDirName = "entries"
)

var _ ports.ContentCache = (*Store)(nil)

// Store implements ports.ContentCache on the local filesystem.
//
// Trees live under <root>/trees/<key>; metadata under <root>/entries/<sha256(key)>.json.
type Store struct {
	root    string
	workDir string
	hasher  *fsadapter.Hasher
}

// NewStore creates a Store rooted at root whose keys resolve against workDir.
func NewStore(root, workDir string, hasher *fsadapter.Hasher) (*Store, error) {
	root = filepath.Clean(root)
	for _, dir := range []string{filepath.Join(root, treesDirName), filepath.Join(root, entriesDirName)} {
		if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrStorage, err.Error()), "path", dir)
		}
	}
	return &Store{
		root:    root,
		workDir: filepath.Clean(workDir),
		hasher:  hasher,
	}, nil
}

// Path returns the on-disk location of the cached tree for key.
// Invalid keys yield an empty path.
func (s *Store) Path(key string) string {
	clean, err := cleanKey(key)
	if err != nil {
		return ""
	}
	return filepath.Join(s.root, treesDirName, filepath.FromSlash(clean))
}

// Exists reports whether a tree is cached for key.
func (s *Store) Exists(key string) bool {
	if _, err := cleanKey(key); err != nil {
		return false
	}
	info, err := os.Stat(s.Path(key))
	return err == nil && info.IsDir()
}

// Store copies <workDir>/<key> into the cache, replacing any previous tree.
func (s *Store) Store(key string) error {
	clean, err := cleanKey(key)
	if err != nil {
		return err
	}

	src := filepath.Join(s.workDir, filepath.FromSlash(clean))
	info, err := os.Stat(src)
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStorage, err.Error()), "path", src)
	}
	if !info.IsDir() {
		return zerr.With(zerr.Wrap(domain.ErrStorage, "source is not a directory"), "path", src)
	}

	dst := s.Path(clean)
	parent := filepath.Dir(dst)
	if err := os.MkdirAll(parent, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStorage, err.Error()), "path", parent)
	}

	staging, err := os.MkdirTemp(parent, ".staging-"+filepath.Base(dst)+"-")
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStorage, err.Error()), "path", parent)
	}
	defer func() { _ = os.RemoveAll(staging) }()

	if err := copyTree(src, staging); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStorage, err.Error()), "key", clean)
	}
	if err := os.Chmod(staging, info.Mode().Perm()); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStorage, err.Error()), "key", clean)
	}

	if err := swapDir(staging, dst); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStorage, err.Error()), "key", clean)
	}

	return s.putEntry(clean, dst)
}

// Load restores the cached tree for key onto <workDir>/<key>.
func (s *Store) Load(key string) error {
	clean, err := cleanKey(key)
	if err != nil {
		return err
	}
	if !s.Exists(clean) {
		return zerr.With(zerr.Wrap(domain.ErrCacheMiss, "no cached tree"), "key", clean)
	}

	dst := filepath.Join(s.workDir, filepath.FromSlash(clean))
	if err := os.RemoveAll(dst); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStorage, err.Error()), "path", dst)
	}
	if err := copyTree(s.Path(clean), dst); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStorage, err.Error()), "key", clean)
	}
	return nil
}

// Invalidate removes the cached tree and metadata for key.
func (s *Store) Invalidate(key string) error {
	clean, err := cleanKey(key)
	if err != nil {
		return err
	}

	filename := s.entryFilename(clean)
	if err := os.Remove(filename); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(domain.ErrStorage, err.Error()), "path", filename)
	}
	tree := s.Path(clean)
	if err := os.RemoveAll(tree); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStorage, err.Error()), "path", tree)
	}
	return nil
}

// Entry returns the metadata of the cached tree for key, or nil, nil if absent.
func (s *Store) Entry(key string) (*domain.CacheEntry, error) {
	clean, err := cleanKey(key)
	if err != nil {
		return nil, err
	}

	filename := s.entryFilename(clean)
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(domain.ErrStorage, err.Error()), "path", filename)
	}

	var entry domain.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrStorage, err.Error()), "path", filename)
	}
	return &entry, nil
}

func (s *Store) putEntry(key, tree string) error {
	entry := domain.CacheEntry{
		Key:      key,
		StoredAt: time.Now().UTC(),
	}
	if s.hasher != nil {
		digest, err := s.hasher.ComputeTreeDigest(tree)
		if err != nil {
			return zerr.With(zerr.Wrap(domain.ErrStorage, err.Error()), "key", key)
		}
		entry.Files = len(digest.Files)
		entry.Digest = digest.Sum
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return zerr.Wrap(domain.ErrStorage, err.Error())
	}

	filename := s.entryFilename(key)
	if err := atomicWriteFile(filename, data); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStorage, err.Error()), "path", filename)
	}
	return nil
}

func (s *Store) entryFilename(key string) string {
	hash := sha256.Sum256([]byte(key))
	return filepath.Join(s.root, entriesDirName, hex.EncodeToString(hash[:])+".json")
}

// cleanKey normalizes a logical cache key and rejects keys that are absolute
// or leave the workspace.
func cleanKey(key string) (string, error) {
	if key == "" || filepath.IsAbs(key) || strings.HasPrefix(key, "/") {
		return "", zerr.With(zerr.Wrap(domain.ErrInvalidCacheKey, "rejected cache key"), "key", key)
	}
	clean := filepath.ToSlash(filepath.Clean(filepath.FromSlash(key)))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", zerr.With(zerr.Wrap(domain.ErrInvalidCacheKey, "rejected cache key"), "key", key)
	}
	return clean, nil
}
