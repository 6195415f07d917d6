package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/sdejongh/filesync/pkg/models"
)

// NewRootCommand builds the filesync command tree. The root command itself
// runs a synchronization.
func NewRootCommand() *cobra.Command {
	global := &GlobalFlags{}
	opts := &SyncFlags{}

	cmd := &cobra.Command{
		Use:   "filesync --source <path> --target <path> [flags]",
		Short: "Reconcile two directory trees",
		Long: `filesync reconciles a source tree and a target tree. For every entry it
decides whether and in which direction to copy, according to a merge policy
and a fallback policy for the cases the merge policy cannot decide.`,
		Version:       versionString(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, global, opts, false)
		},
	}

	AddGlobalFlags(cmd, global)
	addSyncFlags(cmd, opts)

	cmd.AddCommand(NewCompareCommand(global))
	cmd.AddCommand(NewListCommand())
	cmd.AddCommand(NewConfigCommand(global))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// runError carries the status of a run that started and then failed
type runError struct {
	status models.SyncStatus
	err    error
}

func (e *runError) Error() string {
	return e.err.Error()
}

func (e *runError) Unwrap() error {
	return e.err
}

// ExitCode maps an error returned by the command tree to a process exit code
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var re *runError
	if errors.As(err, &re) {
		return re.status.ExitCode()
	}
	return 1
}
