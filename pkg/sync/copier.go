package sync

import (
	"context"
	"fmt"

	"github.com/sdejongh/filesync/pkg/models"
	"github.com/sdejongh/filesync/pkg/storage"
)

// Copier moves whole files between the two sides of a run, preserving
// modification time and permissions
type Copier struct {
	source storage.Backend
	target storage.Backend
}

// NewCopier creates a copier between source and target
func NewCopier(source, target storage.Backend) *Copier {
	return &Copier{
		source: source,
		target: target,
	}
}

// Forward copies a source file over the target path
func (c *Copier) Forward(ctx context.Context, from, to string) (int64, error) {
	return copyFile(ctx, c.source, c.target, from, to)
}

// Backward copies a target file over the source path
func (c *Copier) Backward(ctx context.Context, from, to string) (int64, error) {
	return copyFile(ctx, c.target, c.source, from, to)
}

// Apply carries out a file decision and returns the number of bytes written
func (c *Copier) Apply(ctx context.Context, d models.Decision) (int64, error) {
	switch d.Action {
	case models.ActionCopyForward:
		return c.Forward(ctx, d.From, d.To)
	case models.ActionCopyBackward:
		return c.Backward(ctx, d.From, d.To)
	default:
		return 0, nil
	}
}

func copyFile(ctx context.Context, from storage.Backend, to storage.Backend, fromPath, toPath string) (int64, error) {
	// Metadata first, so the written size and mtime match what was read
	info, err := from.Lstat(ctx, fromPath)
	if err != nil {
		return 0, models.NewPathError("copy", fromPath, models.ErrCopyFailed,
			fmt.Errorf("failed to get source metadata: %w", err))
	}

	reader, err := from.Read(ctx, fromPath)
	if err != nil {
		return 0, models.NewPathError("copy", fromPath, models.ErrCopyFailed,
			fmt.Errorf("failed to read file: %w", err))
	}
	defer reader.Close()

	if err := to.Write(ctx, toPath, reader, info.Size, info); err != nil {
		return 0, models.NewPathError("copy", toPath, models.ErrCopyFailed,
			fmt.Errorf("failed to write file: %w", err))
	}

	return info.Size, nil
}
