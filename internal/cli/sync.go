package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sdejongh/filesync/pkg/config"
	"github.com/sdejongh/filesync/pkg/logging"
	"github.com/sdejongh/filesync/pkg/models"
	"github.com/sdejongh/filesync/pkg/output"
	"github.com/sdejongh/filesync/pkg/storage"
	"github.com/sdejongh/filesync/pkg/sync"
)

// SyncFlags holds sync command flags
type SyncFlags struct {
	Source       string
	Target       string
	Mode         string
	Merge        string
	Fallback     string
	Traversal    string
	DryRun       bool
	Verbose      bool
	CreateTarget bool
	Exclude      []string
	Output       string
	Report       string
	ReportFormat string
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

func addSyncFlags(cmd *cobra.Command, opts *SyncFlags) {
	defaults := config.Default()

	// Required flags
	cmd.Flags().StringVar(&opts.Source, "source", "", "source path (required)")
	cmd.Flags().StringVar(&opts.Target, "target", "", "target path (required)")
	cmd.MarkFlagRequired("source")
	cmd.MarkFlagRequired("target")

	// Policy flags
	cmd.Flags().StringVar(&opts.Mode, "sync-mode", string(defaults.Sync.Mode), "sync mode: mirroring, sync")
	cmd.Flags().StringVar(&opts.Merge, "merge-mode", string(defaults.Sync.Merge), "merge policy: source, target, bigger, newer, different, intervention, skip")
	cmd.Flags().StringVar(&opts.Fallback, "fallback", string(defaults.Sync.Fallback), "fallback policy: source, target, bigger, skip")
	cmd.Flags().StringVar(&opts.Traversal, "traversal", string(defaults.Sync.Traversal), "trees to enumerate: source, union")

	// Optional flags
	cmd.Flags().BoolVarP(&opts.DryRun, "dry-run", "d", false, "compute and print every decision without changing anything (implies --verbose)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "print one line per entry")
	cmd.Flags().BoolVar(&opts.CreateTarget, "create-target", false, "create the target directory if it doesn't exist")
	cmd.Flags().StringSliceVar(&opts.Exclude, "exclude", []string{}, "glob patterns to exclude")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", defaults.Output.Format, "output format: human, json")
	cmd.Flags().StringVar(&opts.Report, "report", "", "write the run report to file")
	cmd.Flags().StringVar(&opts.ReportFormat, "report-format", "human", "report format: human, json")

	// Logging flags
	cmd.Flags().StringVar(&opts.LogFile, "log-file", "", "write logs to file instead of stderr")
	cmd.Flags().StringVar(&opts.LogFormat, "log-format", defaults.Logging.Format, "log format: text, json")
	cmd.Flags().StringVar(&opts.LogLevel, "log-level", "", "log level: debug, info, warn, error (default: info for --log-file, warn otherwise)")
}

func runSync(cmd *cobra.Command, global *GlobalFlags, opts *SyncFlags, forceDryRun bool) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Load configuration
	cfg, err := loadConfig(global)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	if err := applyFlagsToConfig(cmd, cfg, opts); err != nil {
		return err
	}

	logger, err := createLogger(cmd, cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	syncConfig, err := createSyncConfig(cfg, opts, forceDryRun || opts.DryRun)
	if err != nil {
		return err
	}

	// Mode overrides are applied and logged by the engine
	if err := syncConfig.Validate(); err != nil {
		return err
	}
	if _, err := sync.NewExcluder(syncConfig.Exclude); err != nil {
		return err
	}

	if err := prepareTarget(syncConfig, opts.CreateTarget); err != nil {
		return err
	}

	// Create storage backends
	source, err := storage.NewLocal(syncConfig.SourceRoot)
	if err != nil {
		return fmt.Errorf("failed to create source backend: %w", err)
	}
	defer source.Close()

	target, err := storage.NewLocal(syncConfig.TargetRoot)
	if err != nil {
		return fmt.Errorf("failed to create target backend: %w", err)
	}
	defer target.Close()

	formatter, writer, err := createFormatter(cmd, cfg, syncConfig)
	if err != nil {
		return err
	}

	engine := sync.NewEngine(source, target, formatter, logger, syncConfig)
	engine.SetOutput(writer)

	report, runErr := engine.Run(ctx)

	// Write the report even for a failed run: it lists what was attempted
	if opts.Report != "" && report != nil {
		if err := output.WriteReport(report, opts.Report, opts.ReportFormat); err != nil {
			if runErr == nil {
				return err
			}
			logger.Error(ctx, "Failed to write report", err, logging.Fields{"path": opts.Report})
		}
	}

	if runErr != nil {
		status := models.StatusFailed
		if report != nil {
			status = report.Status
		}
		return &runError{status: status, err: runErr}
	}

	return nil
}

// createFormatter picks the formatter and the stream it writes to. A
// non-verbose human run on a terminal gets a progress bar on stderr.
func createFormatter(cmd *cobra.Command, cfg *config.Config, syncConfig *models.SyncConfig) (output.Formatter, io.Writer, error) {
	stdout := cmd.OutOrStdout()
	verbose := syncConfig.Verbose || syncConfig.Simulate

	if cfg.Output.Format == "human" && !verbose && cfg.Output.Progress {
		stderr := cmd.ErrOrStderr()
		if output.IsTerminal(stderr) {
			return output.NewProgressFormatter(), stderr, nil
		}
	}

	formatter, err := output.New(cfg.Output.Format, verbose)
	if err != nil {
		return nil, nil, err
	}
	return formatter, stdout, nil
}

// createLogger creates a zerolog logger; without a log file it writes to stderr
func createLogger(cmd *cobra.Command, cfg config.LoggingConfig) (logging.Logger, error) {
	return logging.New(logging.Config{
		Path:   cfg.File,
		Format: logging.Format(cfg.Format),
		Level:  cfg.Level,
		Writer: cmd.ErrOrStderr(),
	})
}

// prepareTarget checks both roots on disk and creates the target when asked
func prepareTarget(syncConfig *models.SyncConfig, create bool) error {
	sourceInfo, err := os.Stat(syncConfig.SourceRoot)
	if err != nil {
		return fmt.Errorf("source path does not exist: %s", syncConfig.SourceRoot)
	}

	targetInfo, err := os.Stat(syncConfig.TargetRoot)
	switch {
	case err == nil:
		if sourceInfo.IsDir() && !targetInfo.IsDir() {
			return fmt.Errorf("target path exists but is not a directory: %s", syncConfig.TargetRoot)
		}
		return nil
	case !os.IsNotExist(err):
		return fmt.Errorf("failed to access target path: %w", err)
	case !create:
		return fmt.Errorf("target path does not exist: %s (use --create-target to create it)", syncConfig.TargetRoot)
	}

	dir := syncConfig.TargetRoot
	if !sourceInfo.IsDir() {
		dir = filepath.Dir(dir)
	}
	if syncConfig.Simulate {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create target directory: %w", err)
	}
	return nil
}
