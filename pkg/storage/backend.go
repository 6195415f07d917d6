package storage

import (
	"context"
	"io"
	"os"
	"time"
)

// FileInfo represents metadata about a file or directory
type FileInfo struct {
	Path        string
	Size        int64
	ModTime     time.Time
	Mode        os.FileMode
	Permissions uint32
}

// IsDir reports whether the entry is a directory
func (fi *FileInfo) IsDir() bool {
	return fi.Mode.IsDir()
}

// IsRegular reports whether the entry is a regular file
func (fi *FileInfo) IsRegular() bool {
	return fi.Mode.IsRegular()
}

// Backend defines the filesystem operations the reconciliation core needs.
// All paths are absolute; implementations reject paths outside their root.
type Backend interface {
	// Root returns the absolute path the backend is bound to
	Root() string

	// Lstat returns metadata without following symlinks.
	// A missing path yields an error matching fs.ErrNotExist.
	Lstat(ctx context.Context, path string) (*FileInfo, error)

	// ReadDir lists the immediate children of a directory in the
	// backend's native order
	ReadDir(ctx context.Context, path string) ([]FileInfo, error)

	// Read opens a file for reading
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Write creates or overwrites a file with the given content.
	// If metadata is provided, modification time and permissions are preserved.
	Write(ctx context.Context, path string, reader io.Reader, size int64, metadata *FileInfo) error

	// MkdirAll creates a directory and all necessary parents
	MkdirAll(ctx context.Context, path string) error

	// Close releases any resources held by the backend
	Close() error
}
