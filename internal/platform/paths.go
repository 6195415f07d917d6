package platform

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sdejongh/filesync/pkg/models"
)

// NormalizePath normalizes a path for the current platform
func NormalizePath(path string) string {
	// Convert to platform-specific separators
	normalized := filepath.Clean(path)

	// On Windows, ensure UNC paths are preserved
	if runtime.GOOS == "windows" {
		if strings.HasPrefix(path, "\\\\") && !strings.HasPrefix(normalized, "\\\\") {
			normalized = "\\\\" + normalized
		}
	}

	return normalized
}

// Relativize returns path relative to base. The result is "." when path is
// base itself. Paths outside base fail with models.ErrInvalidPath.
func Relativize(path, base string) (string, error) {
	rel, err := filepath.Rel(NormalizePath(base), NormalizePath(path))
	if err != nil {
		return "", models.NewPathError("relativize", path, models.ErrInvalidPath, err)
	}

	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", models.NewPathError("relativize", path, models.ErrInvalidPath,
			fmt.Errorf("not rooted under %s", base))
	}

	return rel, nil
}

// Remap joins a relative path onto a new base. It never touches the filesystem.
func Remap(rel, newBase string) string {
	return filepath.Join(newBase, rel)
}

// DisplayPath renders a relative path with forward slashes for output
func DisplayPath(rel string) string {
	return filepath.ToSlash(rel)
}
