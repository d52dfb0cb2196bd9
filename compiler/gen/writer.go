package gen

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"
)

// Output persists rendered artifacts.
type Output interface {
	// Write stores text at path, creating parent directories as needed and
	// overwriting an existing file.
	Write(path, text string) error
}

// WriterMetrics tracks output performance.
type WriterMetrics struct {
	FilesWritten int
	TotalBytes   int64
	WriteTime    int64 // nanoseconds
}

// DirWriter writes artifacts below a root folder. It is safe for concurrent
// use.
type DirWriter struct {
	root string

	// Metrics for performance monitoring
	mu      sync.Mutex
	metrics WriterMetrics
}

// NewDirWriter creates a writer rooted at dir.
func NewDirWriter(dir string) *DirWriter {
	return &DirWriter{root: dir}
}

// Root returns the output folder.
func (w *DirWriter) Root() string { return w.root }

// Metrics returns a snapshot of the writer metrics.
func (w *DirWriter) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// Write implements Output. Paths must be relative and stay below the root.
func (w *DirWriter) Write(path, text string) error {
	start := time.Now()
	rel := filepath.FromSlash(path)
	if !filepath.IsLocal(rel) {
		return NewIOError("write", path, fmt.Errorf("path escapes output folder"))
	}
	fullPath := filepath.Join(w.root, rel)

	// 1. Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return NewIOError("write", path, fmt.Errorf("create directory: %w", err))
	}

	// 2. Write file
	if err := os.WriteFile(fullPath, []byte(text), 0o644); err != nil {
		return NewIOError("write", path, err)
	}

	// Update metrics
	w.mu.Lock()
	w.metrics.FilesWritten++
	w.metrics.TotalBytes += int64(len(text))
	w.metrics.WriteTime += int64(time.Since(start))
	w.mu.Unlock()
	return nil
}

// MemWriter keeps artifacts in memory, e.g. for dry runs.
// It is safe for concurrent use.
type MemWriter struct {
	mu    sync.Mutex
	files map[string]string
}

// NewMemWriter creates an empty in-memory output.
func NewMemWriter() *MemWriter {
	return &MemWriter{files: make(map[string]string)}
}

// Write implements Output.
func (w *MemWriter) Write(path, text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[filepath.ToSlash(path)] = text
	return nil
}

// Get returns the text written at path.
func (w *MemWriter) Get(path string) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	text, ok := w.files[path]
	return text, ok
}

// Files returns a copy of all written files keyed by path.
func (w *MemWriter) Files() map[string]string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return maps.Clone(w.files)
}

// Paths returns the written paths, sorted.
func (w *MemWriter) Paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Sorted(maps.Keys(w.files))
}
