package host

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// OSHost reads files from disk. Include paths are glob patterns (with "**"
// support); relative patterns are taken relative to Root.
type OSHost struct {
	Root string
}

// NewOSHost returns a disk host rooted at root. An empty root means the
// working directory.
func NewOSHost(root string) *OSHost {
	return &OSHost{Root: root}
}

// ResolveFile implements Host.
func (h *OSHost) ResolveFile(ctx context.Context, name, from string, extensions, includePaths []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dirs, err := h.expandDirs(includePaths)
	if err != nil {
		return "", err
	}
	for _, c := range osPaths.candidates(name, from, extensions, dirs) {
		if h.isFile(c) {
			abs, err := filepath.Abs(c)
			if err != nil {
				return "", fmt.Errorf("resolving %s: %w", c, err)
			}
			return abs, nil
		}
	}
	return "", fmt.Errorf("%s: %w", name, ErrNotFound)
}

// ReadFile implements Host.
func (h *OSHost) ReadFile(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// Exists implements Host.
func (h *OSHost) Exists(ctx context.Context, path string) bool {
	if ctx.Err() != nil {
		return false
	}
	return h.isFile(path)
}

func (h *OSHost) isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// IncludeDirs returns the existing directories that patterns match, in
// pattern order.
func (h *OSHost) IncludeDirs(patterns []string) ([]string, error) {
	return h.expandDirs(patterns)
}

// expandDirs turns include path patterns into existing directories, in
// pattern order.
func (h *OSHost) expandDirs(patterns []string) ([]string, error) {
	var dirs []string
	for _, pattern := range patterns {
		if !filepath.IsAbs(pattern) && h.Root != "" {
			pattern = filepath.Join(h.Root, pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid include path %q: %w", pattern, err)
		}
		for _, m := range matches {
			if info, err := os.Stat(m); err == nil && info.IsDir() {
				dirs = append(dirs, m)
			}
		}
	}
	return dirs, nil
}
