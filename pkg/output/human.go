package output

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/sdejongh/filesync/pkg/models"
)

// HumanFormatter formats output in human-readable format
type HumanFormatter struct {
	writer   io.Writer
	verbose  bool
	simulate bool
}

// NewHumanFormatter creates a new human-readable formatter.
// Per-entry lines and the summary table are only printed when verbose.
func NewHumanFormatter(verbose bool) *HumanFormatter {
	return &HumanFormatter{verbose: verbose}
}

// Start prints the input summary and the entry listing
func (f *HumanFormatter) Start(writer io.Writer, cfg *models.SyncConfig, entries []models.Entry) error {
	f.writer = writer
	if f.writer == nil {
		f.writer = io.Discard
	}
	f.verbose = f.verbose || cfg.Verbose
	f.simulate = cfg.Simulate

	if !f.verbose {
		return nil
	}

	fmt.Fprintf(f.writer, "Source:     %s\n", cfg.SourceRoot)
	fmt.Fprintf(f.writer, "Target:     %s\n", cfg.TargetRoot)
	fmt.Fprintf(f.writer, "Sync mode:  %s\n", cfg.Mode)
	fmt.Fprintf(f.writer, "Merge mode: %s\n", cfg.Merge)
	fmt.Fprintf(f.writer, "Fallback:   %s\n", cfg.Fallback)
	fmt.Fprintf(f.writer, "Traversal:  %s\n", cfg.Traversal)
	fmt.Fprintf(f.writer, "Dry run:    %t\n", cfg.Simulate)
	fmt.Fprintf(f.writer, "Entries:    %d\n\n", len(entries))

	if len(entries) == 0 {
		return nil
	}
	if err := WriteListing(f.writer, entries, false); err != nil {
		return err
	}
	_, err := fmt.Fprintln(f.writer)
	return err
}

// Entry prints one action line
func (f *HumanFormatter) Entry(rec models.ActionRecord) error {
	if !f.verbose {
		return nil
	}
	_, err := fmt.Fprintln(f.writer, ActionLine(rec))
	return err
}

// Complete prints the summary
func (f *HumanFormatter) Complete(report *models.SyncReport) error {
	if f.writer == nil {
		f.writer = io.Discard
	}

	if f.verbose {
		fmt.Fprintln(f.writer)
		writeSummaryTable(f.writer, report)
		fmt.Fprintln(f.writer)
	}

	if len(report.Errors) > 0 {
		fmt.Fprintf(f.writer, "Status: %s\n", report.Status)
		for _, err := range report.Errors {
			fmt.Fprintf(f.writer, "  %s: %s\n", err.FilePath, err.Error)
		}
		return nil
	}

	_, err := fmt.Fprintln(f.writer, CompletionLine(report.Simulate))
	return err
}

// Error closes the output of an aborted run. The error itself is
// reported on stderr by the command.
func (f *HumanFormatter) Error(err error) error {
	if f.writer == nil {
		return nil
	}
	label := "Synchronization aborted"
	if f.simulate {
		label = "Simulation aborted"
	}
	_, werr := fmt.Fprintln(f.writer, label)
	return werr
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

func writeSummaryTable(w io.Writer, report *models.SyncReport) {
	stats := report.Stats

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Summary", "Count"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	table.Append([]string{"Files scanned", strconv.Itoa(stats.FilesScanned)})
	table.Append([]string{"Directories scanned", strconv.Itoa(stats.DirsScanned)})
	table.Append([]string{"Directories created", strconv.Itoa(stats.DirsCreated)})
	table.Append([]string{"Copied to target", strconv.Itoa(stats.FilesCopiedForward)})
	table.Append([]string{"Copied to source", strconv.Itoa(stats.FilesCopiedBackward)})
	table.Append([]string{"Skipped", strconv.Itoa(stats.FilesSkipped)})
	table.Append([]string{"Excluded", strconv.Itoa(stats.EntriesExcluded)})
	table.Append([]string{"Transferred", formatBytes(stats.BytesTransferred)})
	table.Append([]string{"Duration", report.Duration.Round(time.Millisecond).String()})

	table.Render()
}
