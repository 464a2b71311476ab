package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/precompile/internal/adapters/fs"
)

func newDetector() *fs.Detector {
	walker := fs.NewWalker()
	return fs.NewDetector(walker, fs.NewHasher(walker))
}

func TestDetector_HasChanged(t *testing.T) {
	base := map[string]string{
		"stylesheets/a.css":  "x",
		"javascripts/app.js": "console.log(1)",
	}

	tests := []struct {
		name    string
		mutate  func(t *testing.T, local string)
		changed bool
	}{
		{
			name:    "identical trees",
			mutate:  func(*testing.T, string) {},
			changed: false,
		},
		{
			name: "file added",
			mutate: func(t *testing.T, local string) {
				writeTree(t, local, map[string]string{"images/logo.png": "png"})
			},
			changed: true,
		},
		{
			name: "file removed",
			mutate: func(t *testing.T, local string) {
				require.NoError(t, os.Remove(filepath.Join(local, "javascripts", "app.js")))
			},
			changed: true,
		},
		{
			name: "file modified with same size",
			mutate: func(t *testing.T, local string) {
				writeTree(t, local, map[string]string{"stylesheets/a.css": "y"})
			},
			changed: true,
		},
		{
			name: "file modified with different size",
			mutate: func(t *testing.T, local string) {
				writeTree(t, local, map[string]string{"stylesheets/a.css": "body {}"})
			},
			changed: true,
		},
		{
			name: "file renamed",
			mutate: func(t *testing.T, local string) {
				require.NoError(t, os.Rename(
					filepath.Join(local, "stylesheets", "a.css"),
					filepath.Join(local, "stylesheets", "b.css"),
				))
			},
			changed: true,
		},
		{
			name: "empty directory added",
			mutate: func(t *testing.T, local string) {
				require.NoError(t, os.MkdirAll(filepath.Join(local, "fonts"), 0o750))
			},
			changed: true,
		},
		{
			name: "empty directory removed",
			mutate: func(t *testing.T, local string) {
				require.NoError(t, os.Remove(filepath.Join(local, "vendor")))
			},
			changed: true,
		},
		{
			name: "git metadata differs",
			mutate: func(t *testing.T, local string) {
				writeTree(t, local, map[string]string{".git/HEAD": "ref: refs/heads/main"})
			},
			changed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local := t.TempDir()
			cached := t.TempDir()
			writeTree(t, local, base)
			writeTree(t, cached, base)
			require.NoError(t, os.Mkdir(filepath.Join(local, "vendor"), 0o750))
			require.NoError(t, os.Mkdir(filepath.Join(cached, "vendor"), 0o750))

			tt.mutate(t, local)

			assert.Equal(t, tt.changed, newDetector().HasChanged(local, cached))
		})
	}
}

func TestDetector_MissingCachedDir(t *testing.T) {
	local := t.TempDir()
	writeTree(t, local, map[string]string{"a.css": "x"})

	assert.True(t, newDetector().HasChanged(local, filepath.Join(t.TempDir(), "never-cached")))
}

func TestDetector_MissingLocalDir(t *testing.T) {
	cached := t.TempDir()
	writeTree(t, cached, map[string]string{"a.css": "x"})

	assert.True(t, newDetector().HasChanged(filepath.Join(t.TempDir(), "gone"), cached))
}

func TestDetector_DoesNotMutate(t *testing.T) {
	local := t.TempDir()
	cached := t.TempDir()
	writeTree(t, local, map[string]string{"a.css": "x"})
	writeTree(t, cached, map[string]string{"a.css": "y"})

	d := newDetector()
	assert.True(t, d.HasChanged(local, cached))

	got, err := os.ReadFile(filepath.Join(cached, "a.css"))
	require.NoError(t, err)
	assert.Equal(t, "y", string(got))
}
