package host

import (
	"context"
	"fmt"
	"path"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

// MemoryHost serves files from a map of slash-separated paths. It counts
// reads so callers can check include-once behavior. Safe for concurrent use.
type MemoryHost struct {
	mu    sync.Mutex
	files map[string]string
	reads map[string]int
}

// NewMemoryHost returns a host serving files.
func NewMemoryHost(files map[string]string) *MemoryHost {
	h := &MemoryHost{
		files: make(map[string]string, len(files)),
		reads: make(map[string]int),
	}
	for p, content := range files {
		h.files[path.Clean(p)] = content
	}
	return h
}

// Add stores or replaces a file.
func (h *MemoryHost) Add(p, content string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.files[path.Clean(p)] = content
}

// Reads returns how many times p has been read.
func (h *MemoryHost) Reads(p string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.reads[path.Clean(p)]
}

// ResolveFile implements Host. Include paths are matched as patterns
// against the directories that hold files.
func (h *MemoryHost) ResolveFile(ctx context.Context, name, from string, extensions, includePaths []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	dirs, err := h.expandDirs(includePaths)
	if err != nil {
		return "", err
	}
	for _, c := range slashPaths.candidates(name, from, extensions, dirs) {
		if _, ok := h.files[c]; ok {
			return c, nil
		}
	}
	return "", fmt.Errorf("%s: %w", name, ErrNotFound)
}

// ReadFile implements Host.
func (h *MemoryHost) ReadFile(ctx context.Context, p string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	p = path.Clean(p)
	content, ok := h.files[p]
	if !ok {
		return "", fmt.Errorf("%s: %w", p, ErrNotFound)
	}
	h.reads[p]++
	return content, nil
}

// Exists implements Host.
func (h *MemoryHost) Exists(ctx context.Context, p string) bool {
	if ctx.Err() != nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.files[path.Clean(p)]
	return ok
}

// expandDirs must be called with mu held.
func (h *MemoryHost) expandDirs(patterns []string) ([]string, error) {
	known := make(map[string]bool)
	for p := range h.files {
		for d := path.Dir(p); ; d = path.Dir(d) {
			known[d] = true
			if d == "." || d == "/" {
				break
			}
		}
	}
	all := make([]string, 0, len(known))
	for d := range known {
		all = append(all, d)
	}
	sort.Strings(all)

	var dirs []string
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include path %q: %w", pattern, doublestar.ErrBadPattern)
		}
		pattern = path.Clean(pattern)
		for _, d := range all {
			if ok, _ := doublestar.Match(pattern, d); ok {
				dirs = append(dirs, d)
			}
		}
	}
	return dirs, nil
}
