// Package host provides the file access the preprocessor needs to resolve
// and read included files.
package host

import (
	"context"
	"errors"
	"path"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when a file cannot be resolved or read.
var ErrNotFound = errors.New("file not found")

// Host resolves and reads files on behalf of the preprocessor. Calls may
// block; the preprocessor issues them one at a time in document order.
type Host interface {
	// ResolveFile finds name relative to the directory of from, then in each
	// include path. When name has none of the given extensions, each
	// extension is also tried. It returns ErrNotFound when nothing matches.
	ResolveFile(ctx context.Context, name, from string, extensions, includePaths []string) (string, error)
	ReadFile(ctx context.Context, path string) (string, error)
	Exists(ctx context.Context, path string) bool
}

// pathOps abstracts the separator rules so the disk host can use filepath
// and the in-memory host can use slash paths.
type pathOps struct {
	join  func(elem ...string) string
	dir   func(string) string
	isAbs func(string) bool
	clean func(string) string
}

var (
	osPaths    = pathOps{join: filepath.Join, dir: filepath.Dir, isAbs: filepath.IsAbs, clean: filepath.Clean}
	slashPaths = pathOps{join: path.Join, dir: path.Dir, isAbs: path.IsAbs, clean: path.Clean}
)

// candidates lists the paths to try for name, in order.
func (ops pathOps) candidates(name, from string, extensions, dirs []string) []string {
	names := []string{name}
	if !hasExtension(name, extensions) {
		for _, ext := range extensions {
			names = append(names, name+ext)
		}
	}

	if ops.isAbs(name) {
		out := make([]string, 0, len(names))
		for _, n := range names {
			out = append(out, ops.clean(n))
		}
		return out
	}

	var bases []string
	if from != "" {
		bases = append(bases, ops.dir(from))
	}
	bases = append(bases, dirs...)

	var out []string
	seen := make(map[string]bool)
	for _, base := range bases {
		for _, n := range names {
			p := ops.join(base, n)
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}

func hasExtension(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
