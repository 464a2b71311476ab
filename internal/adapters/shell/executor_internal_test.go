package shell

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveEnvironment(t *testing.T) {
	sep := string(os.PathListSeparator)
	tests := []struct {
		name    string
		sysEnv  []string
		taskEnv []string
		dir     string
		want    []string
	}{
		{
			name:   "appends app bin to PATH",
			sysEnv: []string{"PATH=/usr/bin", "HOME=/home/app"},
			dir:    "/srv/app",
			want:   []string{"HOME=/home/app", "PATH=/usr/bin" + sep + filepath.Join("/srv/app", "bin")},
		},
		{
			name:   "relative bin without dir",
			sysEnv: []string{"PATH=/usr/bin"},
			want:   []string{"PATH=/usr/bin" + sep + "bin"},
		},
		{
			name:    "task env overrides system env",
			sysEnv:  []string{"PATH=/usr/bin", "RAILS_ENV=staging"},
			taskEnv: []string{"RAILS_ENV=production", "RAILS_GROUPS=assets"},
			dir:     "/srv/app",
			want: []string{
				"PATH=/usr/bin" + sep + filepath.Join("/srv/app", "bin"),
				"RAILS_ENV=production",
				"RAILS_GROUPS=assets",
			},
		},
		{
			name: "missing PATH",
			dir:  "/srv/app",
			want: []string{"PATH=" + filepath.Join("/srv/app", "bin")},
		},
		{
			name:   "malformed entries are dropped",
			sysEnv: []string{"NOEQUALS", "PATH=/bin"},
			want:   []string{"PATH=/bin" + sep + "bin"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveEnvironment(tt.sysEnv, tt.taskEnv, tt.dir))
		})
	}
}

func TestLookPath(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "bin")
	assert.NoError(t, os.MkdirAll(bin, 0o750))
	//nolint:gosec // Test requires executable file
	assert.NoError(t, os.WriteFile(filepath.Join(bin, "tool"), []byte("#!/bin/sh\n"), 0o700))
	assert.NoError(t, os.WriteFile(filepath.Join(bin, "data"), []byte("x"), 0o600))

	got, err := lookPath("tool", dir, []string{"PATH=bin"})
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(bin, "tool"), got)

	_, err = lookPath("data", dir, []string{"PATH=bin"})
	assert.Error(t, err)

	_, err = lookPath("tool", dir, []string{"HOME=/"})
	assert.Error(t, err)
}
