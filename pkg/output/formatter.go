package output

import (
	"fmt"
	"io"

	"github.com/sdejongh/filesync/pkg/models"
)

// Formatter defines the interface for output formatting
// Implementations include human-readable, JSON and progress bar formatters
type Formatter interface {
	// Start initializes the formatter for a new run. entries are the
	// entries that will be reconciled, in order, with relative paths.
	Start(writer io.Writer, cfg *models.SyncConfig, entries []models.Entry) error

	// Entry reports the outcome for one entry, in traversal order
	Entry(rec models.ActionRecord) error

	// Complete finalizes output and displays summary
	Complete(report *models.SyncReport) error

	// Error reports the error that aborted the run
	Error(err error) error

	// Name returns the formatter name
	Name() string
}

// New returns the formatter registered under name
func New(name string, verbose bool) (Formatter, error) {
	switch name {
	case "human", "":
		return NewHumanFormatter(verbose), nil
	case "json":
		return NewJSONFormatter(), nil
	case "progress":
		return NewProgressFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (valid: human, json)", name)
	}
}

// ActionLine renders one record the way the human output prints it
func ActionLine(rec models.ActionRecord) string {
	prefix := fmt.Sprintf("[%s]: ", rec.Kind.ID())

	switch rec.Action {
	case models.ActionCopyForward:
		if rec.Kind == models.KindDirectory {
			return prefix + rec.RelativePath
		}
		return fmt.Sprintf("%s%s -> %s", prefix, rec.From, rec.To)
	case models.ActionCopyBackward:
		if rec.Kind == models.KindDirectory {
			return fmt.Sprintf("%s%s (create in source)", prefix, rec.RelativePath)
		}
		return fmt.Sprintf("%s%s <- %s", prefix, rec.To, rec.From)
	default:
		return fmt.Sprintf("%s%s (skip: %s)", prefix, rec.RelativePath, rec.Reason)
	}
}

// CompletionLine returns the closing line of a run
func CompletionLine(simulate bool) string {
	if simulate {
		return "Simulation complete"
	}
	return "Synchronization complete"
}

// formatBytes formats bytes in human-readable format
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
