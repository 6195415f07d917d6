package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sdejongh/filesync/pkg/models"
)

// WriteReport writes the run report to a file
// Format can be "human" or "json"
func WriteReport(report *models.SyncReport, path string, format string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	switch format {
	case "json":
		err = writeReportJSON(report, file)
	case "human", "":
		err = writeReportHuman(report, file)
	default:
		return fmt.Errorf("unknown report format %q (valid: human, json)", format)
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return file.Close()
}

// writeReportHuman writes the report grouped by action
func writeReportHuman(report *models.SyncReport, w io.Writer) error {
	fmt.Fprintf(w, "Synchronization Report\n")
	fmt.Fprintf(w, "======================\n\n")
	fmt.Fprintf(w, "Run:       %s\n", report.RunID)
	fmt.Fprintf(w, "Started:   %s\n", report.StartTime.Format(time.RFC3339))
	fmt.Fprintf(w, "Source:    %s\n", report.SourceRoot)
	fmt.Fprintf(w, "Target:    %s\n", report.TargetRoot)
	fmt.Fprintf(w, "Mode:      %s (merge %s, fallback %s)\n", report.Mode, report.Merge, report.Fallback)
	fmt.Fprintf(w, "Traversal: %s\n", report.Traversal)
	fmt.Fprintf(w, "Dry Run:   %v\n", report.Simulate)
	fmt.Fprintf(w, "Status:    %s\n\n", report.Status)

	sections := []struct {
		label string
		match func(models.ActionRecord) bool
	}{
		{"Directories Created", func(r models.ActionRecord) bool {
			return r.Kind == models.KindDirectory && r.Action != models.ActionSkip
		}},
		{"Copied to Target", func(r models.ActionRecord) bool {
			return r.Kind == models.KindFile && r.Action == models.ActionCopyForward
		}},
		{"Copied to Source", func(r models.ActionRecord) bool {
			return r.Kind == models.KindFile && r.Action == models.ActionCopyBackward
		}},
		{"Skipped Files", func(r models.ActionRecord) bool {
			return r.Kind == models.KindFile && r.Action == models.ActionSkip
		}},
	}

	for _, section := range sections {
		var lines []string
		for _, rec := range report.Records {
			if section.match(rec) {
				lines = append(lines, ActionLine(rec))
			}
		}
		if len(lines) == 0 {
			continue
		}

		label := fmt.Sprintf("%s (%d)", section.label, len(lines))
		fmt.Fprintf(w, "%s\n", label)
		fmt.Fprintf(w, "%s\n", strings.Repeat("-", len(label)))
		for _, line := range lines {
			fmt.Fprintf(w, "  %s\n", line)
		}
		fmt.Fprintf(w, "\n")
	}

	if len(report.Errors) > 0 {
		fmt.Fprintf(w, "Errors\n------\n")
		for _, e := range report.Errors {
			fmt.Fprintf(w, "  %s: %s\n", e.FilePath, e.Error)
		}
		fmt.Fprintf(w, "\n")
	}

	_, err := fmt.Fprintf(w, "Transferred: %s in %s\n",
		formatBytes(report.Stats.BytesTransferred), report.Duration.Round(time.Millisecond))
	return err
}

// writeReportJSON writes the full report, action list included
func writeReportJSON(report *models.SyncReport, w io.Writer) error {
	out := struct {
		Generated  string `json:"generated"`
		SourcePath string `json:"source_path"`
		TargetPath string `json:"target_path"`
		Mode       string `json:"mode"`
		Merge      string `json:"merge"`
		Fallback   string `json:"fallback"`
		Traversal  string `json:"traversal"`
		JSONReportData
	}{
		Generated:      time.Now().Format(time.RFC3339),
		SourcePath:     report.SourceRoot,
		TargetPath:     report.TargetRoot,
		Mode:           string(report.Mode),
		Merge:          string(report.Merge),
		Fallback:       string(report.Fallback),
		Traversal:      string(report.Traversal),
		JSONReportData: reportData(report),
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
