// Package shell provides the build task adapter that runs the asset build command.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"go.trai.ch/precompile/internal/core/domain"
	"go.trai.ch/precompile/internal/core/ports"
	"go.trai.ch/zerr"
)

// binDir is appended to PATH so binstubs in the application are found.
const binDir = "bin"

var _ ports.BuildTask = (*Executor)(nil)

// Executor implements ports.BuildTask using os/exec.
type Executor struct {
	logger  ports.Logger
	environ func() []string
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger:  logger,
		environ: os.Environ,
	}
}

// RunBuildTask runs spec.Command in spec.Dir and waits for it to exit.
//
// The command's environment is the process environment overlaid with
// spec.Env, with <spec.Dir>/bin appended to PATH. Output is streamed line by
// line to the logger and, when ctx carries one, to the telemetry vertex.
// A non-zero exit is reported through BuildResult; the error return is only
// used when the command cannot be started.
func (e *Executor) RunBuildTask(ctx context.Context, spec domain.BuildSpec) (domain.BuildResult, error) {
	if len(spec.Command) == 0 {
		return domain.BuildResult{}, domain.ErrNoBuildCommand
	}

	name := spec.Command[0]
	args := spec.Command[1:]

	cmdEnv := resolveEnvironment(e.environ(), spec.Env, spec.Dir)

	executable, err := resolveExecutable(name, spec.Dir, cmdEnv)
	if err != nil {
		return domain.BuildResult{}, zerr.With(
			zerr.Wrap(domain.ErrBuildTaskUnavailable, "executable not found"), "command", name)
	}

	cmd := exec.CommandContext(ctx, executable, args...) //nolint:gosec // configured build command
	if len(cmd.Args) > 0 {
		cmd.Args[0] = name
	}
	cmd.Dir = spec.Dir
	cmd.Env = cmdEnv

	output := &syncBuffer{}
	stdoutLog := &logWriter{logger: e.logger, level: domain.LogLevelInfo}
	stderrLog := &logWriter{logger: e.logger, level: domain.LogLevelWarn}
	stdout := []io.Writer{stdoutLog, output}
	stderr := []io.Writer{stderrLog, output}
	if v, ok := ports.VertexFromContext(ctx); ok {
		stdout = append(stdout, v.Stdout())
		stderr = append(stderr, v.Stderr())
	}
	cmd.Stdout = io.MultiWriter(stdout...)
	cmd.Stderr = io.MultiWriter(stderr...)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return domain.BuildResult{}, zerr.With(
			zerr.Wrap(domain.ErrBuildTaskUnavailable, err.Error()), "command", name)
	}

	waitErr := cmd.Wait()
	elapsed := time.Since(start)
	_ = stdoutLog.Close()
	_ = stderrLog.Close()

	result := domain.BuildResult{
		Success: waitErr == nil,
		Elapsed: elapsed,
		Output:  output.String(),
	}
	if waitErr != nil {
		result.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) && exitErr.ExitCode() >= 0 {
			result.ExitCode = exitErr.ExitCode()
		}
	}
	return result, nil
}

// logWriter forwards complete lines to the logger, buffering partial writes.
type logWriter struct {
	logger ports.Logger
	level  domain.LogLevel
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

// Close flushes a trailing line without a newline.
func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	msg := strings.TrimSuffix(string(line), "\r")
	if w.level == domain.LogLevelInfo {
		w.logger.Info(msg)
		return
	}
	w.logger.Warn(msg)
}

// syncBuffer is a bytes.Buffer safe for the concurrent stdout/stderr copiers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// resolveEnvironment overlays taskEnv on sysEnv and appends <dir>/bin to PATH.
// The result is sorted by key.
func resolveEnvironment(sysEnv, taskEnv []string, dir string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(taskEnv))
	for _, entries := range [][]string{sysEnv, taskEnv} {
		for _, entry := range entries {
			if k, v, ok := strings.Cut(entry, "="); ok {
				envMap[k] = v
			}
		}
	}

	bin := binDir
	if dir != "" {
		bin = filepath.Join(dir, binDir)
	}
	if path := envMap["PATH"]; path != "" {
		envMap["PATH"] = path + string(os.PathListSeparator) + bin
	} else {
		envMap["PATH"] = bin
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}

// resolveExecutable finds name on the PATH of env. Names containing a path
// separator are resolved against dir instead.
func resolveExecutable(name, dir string, env []string) (string, error) {
	if strings.ContainsRune(name, filepath.Separator) || strings.Contains(name, "/") {
		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		if err := findExecutable(path); err != nil {
			return "", err
		}
		return path, nil
	}
	return lookPath(name, dir, env)
}

// lookPath searches for an executable in the directories named by the PATH entry of env.
func lookPath(file, dir string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, d := range filepath.SplitList(path) {
		if d == "" {
			// Unix shell semantics: path element "" means "."
			d = "."
		}
		if !filepath.IsAbs(d) && dir != "" {
			d = filepath.Join(dir, d)
		}
		candidate := filepath.Join(d, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
