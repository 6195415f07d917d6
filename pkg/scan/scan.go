// Package scan classifies filesystem entries and enumerates trees.
//
// Enumeration is a pre-order walk: every directory is emitted immediately
// before its descendants. Sibling order is whatever the storage backend's
// directory listing returns; no sort is applied here, so callers must not
// depend on it. The local backend happens to list names lexically.
package scan

import (
	"context"
	"fmt"

	"github.com/sdejongh/filesync/pkg/models"
	"github.com/sdejongh/filesync/pkg/storage"
)

// Classify reports whether path is a regular file or a directory.
// Anything else, including a missing path or a symlink, fails with
// models.ErrNotFound.
func Classify(ctx context.Context, fsys storage.Backend, path string) (models.EntryKind, error) {
	info, err := fsys.Lstat(ctx, path)
	if err != nil {
		return "", models.NewPathError("classify", path, models.ErrNotFound, err)
	}

	return KindOf(path, info)
}

// KindOf classifies already fetched metadata
func KindOf(path string, info *storage.FileInfo) (models.EntryKind, error) {
	switch {
	case info.IsRegular():
		return models.KindFile, nil
	case info.IsDir():
		return models.KindDirectory, nil
	default:
		return "", models.NewPathError("classify", path, models.ErrNotFound,
			fmt.Errorf("neither file nor directory (mode %s)", info.Mode.Type()))
	}
}

// Enumerate lists every entry under root. A file root yields a single entry
// at depth 0. The walk stops at the first entry that cannot be classified.
func Enumerate(ctx context.Context, fsys storage.Backend, root string) ([]models.Entry, error) {
	kind, err := Classify(ctx, fsys, root)
	if err != nil {
		return nil, err
	}

	if kind == models.KindFile {
		return []models.Entry{{Path: root, Kind: models.KindFile, Depth: 0}}, nil
	}

	var entries []models.Entry
	if err := walk(ctx, fsys, root, 0, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}

func walk(ctx context.Context, fsys storage.Backend, dir string, depth int, entries *[]models.Entry) error {
	children, err := fsys.ReadDir(ctx, dir)
	if err != nil {
		return models.NewPathError("list", dir, models.ErrNotFound, err)
	}

	for _, child := range children {
		// Fresh lstat per child, so an entry that vanished after the listing surfaces as ErrNotFound
		kind, err := Classify(ctx, fsys, child.Path)
		if err != nil {
			return err
		}

		*entries = append(*entries, models.Entry{Path: child.Path, Kind: kind, Depth: depth})

		if kind == models.KindDirectory {
			if err := walk(ctx, fsys, child.Path, depth+1, entries); err != nil {
				return err
			}
		}
	}

	return nil
}
