package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/sdejongh/filesync/internal/platform"
	"github.com/sdejongh/filesync/pkg/logging"
	"github.com/sdejongh/filesync/pkg/models"
	"github.com/sdejongh/filesync/pkg/output"
	"github.com/sdejongh/filesync/pkg/reconcile"
	"github.com/sdejongh/filesync/pkg/scan"
	"github.com/sdejongh/filesync/pkg/storage"
)

// Engine orchestrates a reconciliation run
type Engine struct {
	source    storage.Backend
	target    storage.Backend
	copier    *Copier
	formatter output.Formatter
	logger    logging.Logger
	config    *models.SyncConfig
	writer    io.Writer
}

// item is one entry to reconcile, seen from the side it was enumerated on.
// rel is "." when the entry is a file root.
type item struct {
	entry      models.Entry
	rel        string
	display    string
	targetOnly bool
}

// NewEngine creates a new sync engine. formatter and logger may be nil.
func NewEngine(
	source, target storage.Backend,
	formatter output.Formatter,
	logger logging.Logger,
	config *models.SyncConfig,
) *Engine {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Engine{
		source:    source,
		target:    target,
		copier:    NewCopier(source, target),
		formatter: formatter,
		logger:    logger,
		config:    config,
		writer:    os.Stdout,
	}
}

// SetOutput changes where the formatter writes (stdout by default)
func (e *Engine) SetOutput(w io.Writer) {
	e.writer = w
}

// Run executes the reconciliation. On a fatal error the partial report is
// returned together with the error. The configuration passed to NewEngine is
// not modified: mode overrides apply to the run's own copy.
func (e *Engine) Run(ctx context.Context) (*models.SyncReport, error) {
	config := *e.config
	e.config = &config
	logger := e.logger.WithFields(logging.Fields{"run_id": config.ID})

	for _, warning := range config.Normalize() {
		logger.Warn(ctx, warning, logging.Fields{"mode": string(config.Mode)})
	}

	report := &models.SyncReport{
		RunID:      config.ID,
		SourceRoot: e.source.Root(),
		TargetRoot: e.target.Root(),
		Mode:       config.Mode,
		Merge:      config.Merge,
		Fallback:   config.Fallback,
		Traversal:  config.Traversal,
		Simulate:   config.Simulate,
		StartTime:  time.Now(),
		Status:     models.StatusSuccess,
	}

	if err := config.Validate(); err != nil {
		return e.abort(ctx, logger, report, "", err)
	}

	excluder, err := NewExcluder(config.Exclude)
	if err != nil {
		return e.abort(ctx, logger, report, "", err)
	}

	logger.Info(ctx, "Starting synchronization", logging.Fields{
		"source":    report.SourceRoot,
		"target":    report.TargetRoot,
		"mode":      string(report.Mode),
		"merge":     string(report.Merge),
		"fallback":  string(report.Fallback),
		"traversal": string(report.Traversal),
		"simulate":  report.Simulate,
	})

	items, err := e.plan(ctx)
	if err != nil {
		var pe *models.PathError
		path := report.SourceRoot
		if errors.As(err, &pe) {
			path = pe.Path
		}
		return e.abort(ctx, logger, report, path, err)
	}

	items = e.exclude(ctx, logger, excluder, items, report)

	if e.formatter != nil {
		if err := e.formatter.Start(e.writer, e.config, listing(items)); err != nil {
			return e.abort(ctx, logger, report, "", fmt.Errorf("failed to start output: %w", err))
		}
	}

	for _, it := range items {
		if it.entry.IsDir() {
			report.Stats.DirsScanned++
		} else {
			report.Stats.FilesScanned++
		}

		rec, written, err := e.reconcile(ctx, it)
		if err != nil {
			return e.abort(ctx, logger, report, it.entry.Path, err)
		}

		report.Record(rec)
		report.Stats.BytesTransferred += written

		logger.Info(ctx, "Reconciled", logging.Fields{
			"path":     rec.RelativePath,
			"kind":     rec.Kind.Label(),
			"action":   string(rec.Action),
			"reason":   rec.Reason,
			"simulate": e.config.Simulate,
		})

		if e.formatter != nil {
			if err := e.formatter.Entry(rec); err != nil {
				return e.abort(ctx, logger, report, it.entry.Path, fmt.Errorf("failed to write output: %w", err))
			}
		}
	}

	e.finish(report)

	if e.formatter != nil {
		if err := e.formatter.Complete(report); err != nil {
			return report, fmt.Errorf("failed to write output: %w", err)
		}
	}

	logger.Info(ctx, "Synchronization completed", logging.Fields{
		"duration":              report.Duration.String(),
		"status":                string(report.Status),
		"dirs_created":          report.Stats.DirsCreated,
		"files_copied_forward":  report.Stats.FilesCopiedForward,
		"files_copied_backward": report.Stats.FilesCopiedBackward,
		"files_skipped":         report.Stats.FilesSkipped,
		"bytes_transferred":     report.Stats.BytesTransferred,
	})

	return report, nil
}

// plan enumerates the trees and returns the entries to reconcile in order:
// the source walk first, then target-only entries in union traversal
func (e *Engine) plan(ctx context.Context) ([]item, error) {
	sourceRoot := e.source.Root()

	entries, err := scan.Enumerate(ctx, e.source, sourceRoot)
	if err != nil {
		return nil, err
	}

	items := make([]item, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		it, err := newItem(entry, sourceRoot, false)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
		seen[it.rel] = true
	}

	if e.config.Traversal != models.TraversalUnion {
		return items, nil
	}

	targetRoot := e.target.Root()
	if _, err := e.target.Lstat(ctx, targetRoot); errors.Is(err, fs.ErrNotExist) {
		return items, nil
	}

	targetEntries, err := scan.Enumerate(ctx, e.target, targetRoot)
	if err != nil {
		return nil, err
	}

	for _, entry := range targetEntries {
		it, err := newItem(entry, targetRoot, true)
		if err != nil {
			return nil, err
		}
		if !seen[it.rel] {
			items = append(items, it)
		}
	}

	return items, nil
}

// exclude drops excluded entries, in order, and counts them in the report
func (e *Engine) exclude(ctx context.Context, logger logging.Logger, excluder *Excluder, items []item, report *models.SyncReport) []item {
	kept := items[:0]
	for _, it := range items {
		if excluder.Exclude(it.display, it.entry.IsDir()) {
			report.Stats.EntriesExcluded++
			logger.Debug(ctx, "Excluded", logging.Fields{"path": it.display})
			continue
		}
		kept = append(kept, it)
	}
	return kept
}

// listing returns the planned entries with their display paths
func listing(items []item) []models.Entry {
	entries := make([]models.Entry, len(items))
	for i, it := range items {
		entries[i] = models.Entry{Path: it.display, Kind: it.entry.Kind, Depth: it.entry.Depth}
	}
	return entries
}

// newItem maps an entry to its root. A file root is displayed by its base name.
func newItem(entry models.Entry, root string, targetOnly bool) (item, error) {
	rel, err := platform.Relativize(entry.Path, root)
	if err != nil {
		return item{}, err
	}

	display := platform.DisplayPath(rel)
	if rel == "." {
		display = filepath.Base(root)
	}

	return item{entry: entry, rel: rel, display: display, targetOnly: targetOnly}, nil
}

// reconcile decides and, unless simulating, applies the action for one entry
func (e *Engine) reconcile(ctx context.Context, it item) (models.ActionRecord, int64, error) {
	sourcePath, targetPath := e.sidePaths(it)

	rec := models.ActionRecord{
		Kind:         it.entry.Kind,
		RelativePath: it.display,
		Depth:        it.entry.Depth,
	}

	var (
		decision models.Decision
		written  int64
		err      error
	)

	if it.entry.IsDir() {
		decision, err = e.reconcileDir(ctx, it, sourcePath, targetPath)
	} else {
		decision, written, err = e.reconcileFile(ctx, it, sourcePath, targetPath)
	}
	if err != nil {
		return rec, 0, err
	}

	rec.Action = decision.Action
	rec.Reason = decision.Reason
	if decision.IsCopy() {
		rec.From = rec.RelativePath
		rec.To = rec.RelativePath
	}

	return rec, written, nil
}

// sidePaths returns the absolute path of the entry on both sides
func (e *Engine) sidePaths(it item) (string, string) {
	return platform.Remap(it.rel, e.source.Root()), platform.Remap(it.rel, e.target.Root())
}

func (e *Engine) reconcileDir(ctx context.Context, it item, sourcePath, targetPath string) (models.Decision, error) {
	// the side that may be missing the directory
	backend, path := e.target, targetPath
	if it.targetOnly {
		backend, path = e.source, sourcePath
	}

	info, err := backend.Lstat(ctx, path)
	switch {
	case err == nil && info.IsDir():
		return models.Skip("exists"), nil
	case err == nil:
		return models.Decision{}, models.NewPathError("mkdir", path, models.ErrCopyFailed,
			errors.New("a non-directory is in the way"))
	case !errors.Is(err, fs.ErrNotExist):
		return models.Decision{}, models.NewPathError("mkdir", path, models.ErrCopyFailed, err)
	}

	var decision models.Decision
	if it.targetOnly {
		if e.config.Merge == models.MergeSkip {
			return models.Skip("missing on source, merge skip"), nil
		}
		decision = models.CopyBackward(targetPath, sourcePath, "missing on source")
	} else {
		decision = models.CopyForward(sourcePath, targetPath, "missing on target")
	}

	if !e.config.Simulate {
		if err := backend.MkdirAll(ctx, path); err != nil {
			return models.Decision{}, models.NewPathError("mkdir", path, models.ErrCopyFailed, err)
		}
	}

	return decision, nil
}

func (e *Engine) reconcileFile(ctx context.Context, it item, sourcePath, targetPath string) (models.Decision, int64, error) {
	sourceInfo, err := e.stat(ctx, e.source, sourcePath)
	if err != nil {
		return models.Decision{}, 0, err
	}
	targetInfo, err := e.stat(ctx, e.target, targetPath)
	if err != nil {
		return models.Decision{}, 0, err
	}

	decision := reconcile.Decide(reconcile.Candidate{
		SourcePath: sourcePath,
		TargetPath: targetPath,
		Source:     sourceInfo,
		Target:     targetInfo,
	}, e.config)

	if e.config.Simulate || !decision.IsCopy() {
		return decision, 0, nil
	}

	written, err := e.copier.Apply(ctx, decision)
	if err != nil {
		return models.Decision{}, 0, err
	}

	return decision, written, nil
}

// stat returns nil for a missing file. Anything but a regular file is fatal.
func (e *Engine) stat(ctx context.Context, backend storage.Backend, path string) (*storage.FileInfo, error) {
	info, err := backend.Lstat(ctx, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewPathError("stat", path, models.ErrNotFound, err)
	}

	kind, err := scan.KindOf(path, info)
	if err != nil {
		return nil, err
	}
	if kind != models.KindFile {
		return nil, models.NewPathError("stat", path, models.ErrCopyFailed,
			errors.New("a directory is in the way"))
	}

	return info, nil
}

func (e *Engine) abort(ctx context.Context, logger logging.Logger, report *models.SyncReport, path string, err error) (*models.SyncReport, error) {
	report.Fail(path, err)
	e.finish(report)

	logger.Error(ctx, "Synchronization failed", err, logging.Fields{"path": path})
	if e.formatter != nil {
		e.formatter.Error(err)
	}

	return report, err
}

func (e *Engine) finish(report *models.SyncReport) {
	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)
}
