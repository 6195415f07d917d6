package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/sdejongh/filesync/pkg/models"
)

// Local is a filesystem-based storage backend built on go-billy
type Local struct {
	rootPath string
	basePath string
	fs       billy.Filesystem
}

// NewLocal creates a new local filesystem backend. rootPath may be a
// directory or a single regular file; a file root is served from its
// parent directory. A missing root is served from its nearest existing
// ancestor, which must be a directory, so that a run can create it.
func NewLocal(rootPath string) (*Local, error) {
	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	basePath := absPath
	info, err := os.Stat(absPath)
	switch {
	case err == nil:
		if !info.IsDir() {
			basePath = filepath.Dir(absPath)
		}
	case os.IsNotExist(err):
		if basePath, err = existingAncestor(absPath); err != nil {
			return nil, fmt.Errorf("failed to access path: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to access path: %w", err)
	}

	return &Local{
		rootPath: absPath,
		basePath: basePath,
		fs:       osfs.New(basePath),
	}, nil
}

// existingAncestor walks up from a missing path to the first directory that exists
func existingAncestor(path string) (string, error) {
	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		info, err := os.Stat(dir)
		switch {
		case err == nil && info.IsDir():
			return dir, nil
		case err == nil:
			return "", fmt.Errorf("%s is not a directory", dir)
		case !os.IsNotExist(err):
			return "", err
		}
		if parent := filepath.Dir(dir); parent == dir {
			return "", fmt.Errorf("no existing ancestor for %s", path)
		}
	}
}

// Root returns the absolute root path
func (l *Local) Root() string {
	return l.rootPath
}

// rel maps an absolute path to a path inside the billy filesystem
func (l *Local) rel(path string) (string, error) {
	rel, err := filepath.Rel(l.basePath, path)
	if err != nil {
		return "", models.NewPathError("resolve", path, models.ErrInvalidPath, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", models.NewPathError("resolve", path, models.ErrInvalidPath,
			fmt.Errorf("outside of %s", l.basePath))
	}
	return rel, nil
}

// Lstat returns file metadata without following symlinks
func (l *Local) Lstat(ctx context.Context, path string) (*FileInfo, error) {
	rel, err := l.rel(path)
	if err != nil {
		return nil, err
	}

	info, err := l.fs.Lstat(rel)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return newFileInfo(path, info), nil
}

// ReadDir lists the children of a directory
func (l *Local) ReadDir(ctx context.Context, path string) ([]FileInfo, error) {
	rel, err := l.rel(path)
	if err != nil {
		return nil, err
	}

	infos, err := l.fs.ReadDir(rel)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	entries := make([]FileInfo, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, *newFileInfo(filepath.Join(path, info.Name()), info))
	}

	return entries, nil
}

// Read opens a file for reading
func (l *Local) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	rel, err := l.rel(path)
	if err != nil {
		return nil, err
	}

	file, err := l.fs.Open(rel)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Write creates or overwrites a file
func (l *Local) Write(ctx context.Context, path string, reader io.Reader, size int64, metadata *FileInfo) error {
	rel, err := l.rel(path)
	if err != nil {
		return err
	}

	// Ensure parent directory exists
	if err := l.fs.MkdirAll(filepath.Dir(rel), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := l.fs.Create(rel)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	written, err := io.Copy(file, reader)
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	if written != size {
		return fmt.Errorf("incomplete write: expected %d bytes, wrote %d", size, written)
	}

	if metadata == nil {
		return nil
	}

	if metadata.Permissions != 0 {
		if err := l.chmod(rel, os.FileMode(metadata.Permissions)); err != nil {
			return fmt.Errorf("failed to set permissions: %w", err)
		}
	}

	if !metadata.ModTime.IsZero() {
		if err := l.chtimes(rel, metadata); err != nil {
			return fmt.Errorf("failed to set modification time: %w", err)
		}
	}

	return nil
}

// MkdirAll creates a directory and all necessary parents
func (l *Local) MkdirAll(ctx context.Context, path string) error {
	rel, err := l.rel(path)
	if err != nil {
		return err
	}

	if err := l.fs.MkdirAll(rel, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	return nil
}

// Close releases resources (no-op for local filesystem)
func (l *Local) Close() error {
	return nil
}

// chmod goes through billy when the filesystem supports it
func (l *Local) chmod(rel string, mode os.FileMode) error {
	if ch, ok := l.fs.(billy.Change); ok {
		return ch.Chmod(rel, mode)
	}
	return os.Chmod(filepath.Join(l.basePath, rel), mode)
}

func (l *Local) chtimes(rel string, metadata *FileInfo) error {
	if ch, ok := l.fs.(billy.Change); ok {
		return ch.Chtimes(rel, metadata.ModTime, metadata.ModTime)
	}
	return os.Chtimes(filepath.Join(l.basePath, rel), metadata.ModTime, metadata.ModTime)
}

func newFileInfo(path string, info os.FileInfo) *FileInfo {
	return &FileInfo{
		Path:        path,
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		Mode:        info.Mode(),
		Permissions: uint32(info.Mode().Perm()),
	}
}
