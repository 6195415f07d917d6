package output

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/sdejongh/filesync/pkg/models"
)

// WriteListing prints enumerated entries. Entry paths must already be
// relative to the enumeration root and use forward slashes.
// In tree mode each line shows the base name indented by depth.
func WriteListing(w io.Writer, entries []models.Entry, tree bool) error {
	for _, e := range entries {
		var err error
		if tree {
			_, err = fmt.Fprintf(w, "%s[%s] %s\n", strings.Repeat("  ", e.Depth), e.Kind.ID(), path.Base(e.Path))
		} else {
			_, err = fmt.Fprintf(w, "[%s] %s\n", e.Kind.ID(), e.Path)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
