package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/poiesic/curator/core"
)

// Source reads a full catalog.
type Source interface {
	ReadCatalog(ctx context.Context) ([]*core.CatalogItem, error)
}

// FileSource reads a catalog from a JSON array file.
type FileSource struct {
	path string
}

var _ Source = (*FileSource)(nil)

// NewFileSource creates a source backed by the file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Path returns the file the source reads.
func (f *FileSource) Path() string {
	return f.path
}

// ReadCatalog reads and validates the file.
func (f *FileSource) ReadCatalog(ctx context.Context) ([]*core.CatalogItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, err
	}
	var items []*core.CatalogItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.path, err)
	}
	if err := validateItems(items); err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.path, err)
	}
	return items, nil
}

// SliceSource serves a fixed in-memory catalog.
type SliceSource []*core.CatalogItem

// ReadCatalog returns the slice after validating it.
func (s SliceSource) ReadCatalog(ctx context.Context) ([]*core.CatalogItem, error) {
	if err := validateItems(s); err != nil {
		return nil, err
	}
	return s, nil
}

func validateItems(items []*core.CatalogItem) error {
	seen := make(map[core.ResourceID]struct{}, len(items))
	for i, item := range items {
		if item == nil || item.ID <= 0 {
			return fmt.Errorf("%w: entry %d", ErrInvalidItem, i)
		}
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("%w: %d", ErrDuplicateID, item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}

// WriteFile writes items as an indented JSON array. The file is replaced
// atomically so a concurrent reader never sees a partial catalog.
func WriteFile(path string, items []*core.CatalogItem) error {
	if err := validateItems(items); err != nil {
		return err
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
