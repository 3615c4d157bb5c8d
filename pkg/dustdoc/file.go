package dustdoc

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// SourceExtensions lists the file extensions treated as Dust sources.
var SourceExtensions = []string{".dust", ".dpaper"}

// IsSourceFile reports whether name carries a Dust source extension.
func IsSourceFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range SourceExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ParseFile reads a Dust source file and extracts its documentation.
func ParseFile(path string) (*Module, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Extract(string(data)), nil
}

// ParseDirectory walks dir recursively and extracts every source file it
// finds. Hidden directories are skipped. Files are extracted concurrently by
// at most workers goroutines (runtime.NumCPU() when workers <= 0) and the
// result is sorted by path.
func ParseDirectory(ctx context.Context, dir string, workers int) ([]File, error) {
	files, err := ParseFS(ctx, os.DirFS(dir), workers)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", dir, err)
	}
	for i := range files {
		files[i].Path = filepath.Join(dir, filepath.FromSlash(files[i].Name))
	}
	return files, nil
}

// ParseFS is ParseDirectory over an fs.FS rooted at the source directory.
// Path and Name of each File are the slash-separated path within fsys.
func ParseFS(ctx context.Context, fsys fs.FS, workers int) ([]File, error) {
	paths, err := findSources(fsys)
	if err != nil {
		return nil, err
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	files := make([]File, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, name := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := fs.ReadFile(fsys, name)
			if err != nil {
				return fmt.Errorf("read %s: %w", name, err)
			}
			files[i] = File{Path: name, Name: name, Module: Extract(string(data))}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// findSources lists the source files in fsys, skipping hidden directories.
func findSources(fsys fs.FS) ([]string, error) {
	var paths []string
	err := fs.WalkDir(fsys, ".", func(name string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if de.IsDir() {
			if name != "." && strings.HasPrefix(de.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if IsSourceFile(de.Name()) {
			paths = append(paths, name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}
