package cli

import (
	"github.com/spf13/cobra"
)

// NewCompareCommand creates the compare command
func NewCompareCommand(global *GlobalFlags) *cobra.Command {
	opts := &SyncFlags{}

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare folders without syncing (dry-run)",
		Long: `Compare source and target folders and print the decision for every entry
without performing any file operations. This is equivalent to --dry-run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, global, opts, true)
		},
	}

	addSyncFlags(cmd, opts)
	cmd.Flags().MarkHidden("dry-run")

	return cmd
}
