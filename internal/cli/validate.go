package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sdejongh/filesync/internal/platform"
	"github.com/sdejongh/filesync/pkg/config"
	"github.com/sdejongh/filesync/pkg/models"
)

// applyFlagsToConfig overrides config values with the flags that were set
// explicitly on the command line
func applyFlagsToConfig(cmd *cobra.Command, cfg *config.Config, opts *SyncFlags) error {
	flags := cmd.Flags()

	if flags.Changed("sync-mode") {
		mode, err := models.ParseSyncMode(opts.Mode)
		if err != nil {
			return err
		}
		cfg.Sync.Mode = mode
	}

	if flags.Changed("merge-mode") {
		merge, err := models.ParseMergePolicy(opts.Merge)
		if err != nil {
			return err
		}
		cfg.Sync.Merge = merge
	}

	if flags.Changed("fallback") {
		fallback, err := models.ParseMergePolicy(opts.Fallback)
		var ve *models.ValidationError
		if errors.As(err, &ve) {
			ve.Field = "fallback"
		}
		if err != nil {
			return err
		}
		cfg.Sync.Fallback = fallback
	}

	if flags.Changed("traversal") {
		traversal, err := models.ParseTraversal(opts.Traversal)
		if err != nil {
			return err
		}
		cfg.Sync.Traversal = traversal
	}

	// Exclude patterns
	if flags.Changed("exclude") {
		cfg.Exclude = opts.Exclude
	}

	// Output
	if flags.Changed("output") {
		cfg.Output.Format = opts.Output
	}
	if flags.Changed("verbose") {
		cfg.Output.Verbose = opts.Verbose
	}

	// Logging
	if flags.Changed("log-file") {
		cfg.Logging.File = opts.LogFile
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = opts.LogFormat
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = opts.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}

// createSyncConfig builds the run configuration from the merged settings
func createSyncConfig(cfg *config.Config, opts *SyncFlags, dryRun bool) (*models.SyncConfig, error) {
	sourceAbs, err := filepath.Abs(opts.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source path: %w", err)
	}

	targetAbs, err := filepath.Abs(opts.Target)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve target path: %w", err)
	}

	return &models.SyncConfig{
		ID:         uuid.New().String(),
		SourceRoot: platform.NormalizePath(sourceAbs),
		TargetRoot: platform.NormalizePath(targetAbs),
		Mode:       cfg.Sync.Mode,
		Merge:      cfg.Sync.Merge,
		Fallback:   cfg.Sync.Fallback,
		Traversal:  cfg.Sync.Traversal,
		Simulate:   dryRun,
		Verbose:    cfg.Output.Verbose,
		Exclude:    cfg.Exclude,
	}, nil
}
