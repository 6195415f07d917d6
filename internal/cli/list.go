package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sdejongh/filesync/internal/platform"
	"github.com/sdejongh/filesync/pkg/models"
	"github.com/sdejongh/filesync/pkg/output"
	"github.com/sdejongh/filesync/pkg/scan"
	"github.com/sdejongh/filesync/pkg/storage"
)

// NewListCommand creates the list command
func NewListCommand() *cobra.Command {
	var (
		source string
		tree   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every entry of a tree in traversal order",
		Long: `Enumerate a tree the way a synchronization does and print one line per
entry: [D] for directories and [F] for files, with the path relative to the root.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			root, err := filepath.Abs(source)
			if err != nil {
				return fmt.Errorf("failed to resolve source path: %w", err)
			}
			root = platform.NormalizePath(root)

			backend, err := storage.NewLocal(root)
			if err != nil {
				return fmt.Errorf("failed to create source backend: %w", err)
			}
			defer backend.Close()

			entries, err := scan.Enumerate(ctx, backend, root)
			if err != nil {
				return err
			}

			listed := make([]models.Entry, 0, len(entries))
			for _, entry := range entries {
				rel, err := platform.Relativize(entry.Path, root)
				if err != nil {
					return err
				}
				if rel == "." {
					rel = filepath.Base(root)
				}
				entry.Path = platform.DisplayPath(rel)
				listed = append(listed, entry)
			}

			return output.WriteListing(cmd.OutOrStdout(), listed, tree)
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "root to list (required)")
	cmd.Flags().BoolVar(&tree, "tree", false, "indent entries by depth and show base names")
	cmd.MarkFlagRequired("source")

	return cmd
}
