package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/samber/lo"

	"image-ranker/internal/model"
)

// Dir is a local directory. Sub-directories are not entries.
type Dir struct {
	root string
}

func NewDir(root string) *Dir {
	return &Dir{root: root}
}

func (d *Dir) Folder() string {
	return d.root
}

func (d *Dir) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(d.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("folder %s: %w", d.root, model.ErrNotFound)
		}
		return nil, fmt.Errorf("read folder: %w", err)
	}
	return lo.FilterMap(entries, func(e os.DirEntry, _ int) (string, bool) {
		return e.Name(), !e.IsDir()
	}), nil
}

func (d *Dir) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := name
	if isBare(name) {
		path = filepath.Join(d.root, name)
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("image %s: %w", path, model.ErrNotFound)
		}
		return nil, fmt.Errorf("open image: %w", err)
	}
	return f, nil
}

func (d *Dir) Locate(ref string) (string, bool) {
	if isBare(ref) {
		return ref, true
	}
	absRef, err := filepath.Abs(ref)
	if err != nil {
		return ref, false
	}
	absRoot, err := filepath.Abs(d.root)
	if err != nil {
		return ref, false
	}
	if filepath.Dir(absRef) == absRoot {
		return filepath.Base(absRef), true
	}
	return ref, false
}
