// Package imagescan enumerates local image files for the asset matcher.
// The matcher itself never touches the filesystem; this package hands it
// plain file lists.
package imagescan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/compasslk/compass/internal/app/assets"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
	".avif": true,
}

// RootConfig names one directory to scan and how its files are exposed.
type RootConfig struct {
	Tag       string
	Dir       string
	URLPrefix string
}

// Scan walks every configured root concurrently and returns matcher
// roots in the given order, preserving root precedence. Files within a
// root are sorted by path so repeated scans of the same tree produce the
// same candidate order. A missing root directory yields an empty root,
// not an error.
func Scan(ctx context.Context, roots []RootConfig) ([]assets.Root, error) {
	out := make([]assets.Root, len(roots))

	g, ctx := errgroup.WithContext(ctx)
	for i, rc := range roots {
		// A root nested inside another (the legacy tree usually lives
		// under the primary one) must not be enumerated twice.
		skip := make(map[string]bool)
		for j, other := range roots {
			if j != i {
				skip[filepath.Clean(other.Dir)] = true
			}
		}
		g.Go(func() error {
			files, err := scanRoot(ctx, rc.Dir, skip)
			if err != nil {
				return fmt.Errorf("failed to scan asset root %s: %w", rc.Dir, err)
			}
			out[i] = assets.Root{Tag: rc.Tag, URLPrefix: rc.URLPrefix, Files: files}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanRoot(ctx context.Context, dir string, skip map[string]bool) ([]assets.File, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	root := filepath.Clean(dir)
	var files []assets.File
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if clean := filepath.Clean(path); clean != root && skip[clean] {
				return fs.SkipDir
			}
			return nil
		}
		if !imageExtensions[strings.ToLower(filepath.Ext(d.Name()))] {
			return nil
		}
		files = append(files, assets.File{Path: path, Filename: d.Name()})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
