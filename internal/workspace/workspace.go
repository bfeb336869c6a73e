// Package workspace owns the process-wide temp directory used to stage
// converter output between the converter and the response encoder.
package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Workspace is a temp directory created once at process start and removed
// once at shutdown. It is never mutated after creation except by artifacts
// being added and removed.
type Workspace struct {
	dir       string
	logger    *slog.Logger
	closeOnce sync.Once
}

// New creates a fresh temp directory with the given prefix
func New(prefix string, logger *slog.Logger) (*Workspace, error) {
	dir, err := os.MkdirTemp("", prefix)
	if err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}

	logger.Info("workspace created", "dir", dir)

	return &Workspace{dir: dir, logger: logger}, nil
}

// Dir returns the workspace directory path
func (w *Workspace) Dir() string {
	return w.dir
}

// Acquire reserves a collision-free artifact path inside the workspace,
// suffixed with ext. Nothing is created on disk; the converter writes the file.
// Callers must defer Release.
func (w *Workspace) Acquire(ext string) *Artifact {
	name := uuid.New().String()
	if ext = strings.TrimPrefix(ext, "."); ext != "" {
		name += "." + ext
	}

	return &Artifact{
		path:   filepath.Join(w.dir, name),
		logger: w.logger,
	}
}

// Close removes the workspace and everything in it.
// Best-effort: failures are logged and returned but callers may ignore them.
func (w *Workspace) Close() error {
	var err error
	w.closeOnce.Do(func() {
		if err = os.RemoveAll(w.dir); err != nil {
			w.logger.Error("failed to clean up workspace", "dir", w.dir, "error", err)
			return
		}
		w.logger.Info("workspace cleaned up", "dir", w.dir)
	})
	return err
}

// Artifact is a single temp file owned by exactly one request
type Artifact struct {
	path     string
	logger   *slog.Logger
	released bool
}

// Path returns the artifact's filesystem path
func (a *Artifact) Path() string {
	return a.path
}

// ReadAll reads the artifact's contents
func (a *Artifact) ReadAll() ([]byte, error) {
	data, err := os.ReadFile(a.path)
	if err != nil {
		return nil, fmt.Errorf("read output file: %w", err)
	}
	return data, nil
}

// Release deletes the artifact. Safe to call on every exit path, including
// when the converter never created the file. Deletion failures are logged,
// never returned.
func (a *Artifact) Release() {
	if a.released {
		return
	}
	a.released = true

	if err := os.Remove(a.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		a.logger.Warn("failed to remove temp file", "path", a.path, "error", err)
	}
}
