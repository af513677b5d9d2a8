// Package source retrieves RDML script text from a directory or a web
// server.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/open-cli-collective/rdml-cli/internal/config"
)

// maxConcurrentLoads bounds the number of files fetched at once.
const maxConcurrentLoads = 4

// Loader fetches script text by relative path.
type Loader interface {
	Load(ctx context.Context, path string) (string, error)
}

// File is a loaded script.
type File struct {
	Path string
	Src  string
}

// New returns the loader selected by cfg. A base URL takes precedence over
// a source directory.
func New(cfg *config.Config) (Loader, error) {
	switch {
	case cfg.BaseURL != "":
		return NewHTTPLoader(cfg.BaseURL), nil
	case cfg.SourceDir != "":
		return DirLoader{Root: cfg.SourceDir}, nil
	}
	return nil, errors.New("no script source configured (set source_dir or base_url)")
}

// DirLoader reads scripts below Root.
type DirLoader struct {
	Root string
}

// Load reads Root/path. Paths escaping Root are rejected.
func (l DirLoader) Load(ctx context.Context, p string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean, err := cleanPath(p)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(filepath.Join(l.Root, filepath.FromSlash(clean)))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", p, err)
	}
	return string(data), nil
}

func cleanPath(p string) (string, error) {
	clean := path.Clean(strings.ReplaceAll(p, `\`, "/"))
	if clean == "." || path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("invalid script path %q", p)
	}
	return clean, nil
}

// LoadAll loads every path concurrently. The result keeps the order of
// paths; the first failure cancels the remaining loads.
func LoadAll(ctx context.Context, l Loader, paths []string) ([]File, error) {
	files := make([]File, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			src, err := l.Load(ctx, p)
			if err != nil {
				return err
			}
			files[i] = File{Path: p, Src: src}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// ReadInput reads a local file, or r when name is "-".
func ReadInput(name string, r io.Reader) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("failed to read standard input: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return string(data), nil
}
