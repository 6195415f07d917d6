package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/sdejongh/filesync/pkg/models"
)

// JSONFormatter writes one JSON event per line for automation and scripting
type JSONFormatter struct {
	encoder *json.Encoder
}

// JSONEvent represents a single event in the JSON output stream
type JSONEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Data      any       `json:"data,omitempty"`
}

// JSONStartData represents the data for a start event
type JSONStartData struct {
	RunID        string   `json:"run_id,omitempty"`
	Source       string   `json:"source"`
	Target       string   `json:"target"`
	Mode         string   `json:"mode"`
	Merge        string   `json:"merge"`
	Fallback     string   `json:"fallback"`
	Traversal    string   `json:"traversal"`
	DryRun       bool     `json:"dry_run"`
	Exclude      []string `json:"exclude,omitempty"`
	TotalEntries int      `json:"total_entries"`
}

// JSONActionData represents one reconciled entry
type JSONActionData struct {
	Kind   string `json:"kind"`
	Path   string `json:"path"`
	Depth  int    `json:"depth"`
	Action string `json:"action"`
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// JSONReportData represents the final report data
type JSONReportData struct {
	RunID      string           `json:"run_id,omitempty"`
	Status     string           `json:"status"`
	DryRun     bool             `json:"dry_run"`
	Duration   string           `json:"duration"`
	DurationMs int64            `json:"duration_ms"`
	Stats      JSONStatsData    `json:"stats"`
	Actions    []JSONActionData `json:"actions,omitempty"`
	Errors     []JSONErrorData  `json:"errors,omitempty"`
}

// JSONStatsData represents statistics in JSON format
type JSONStatsData struct {
	FilesScanned        int   `json:"files_scanned"`
	DirsScanned         int   `json:"dirs_scanned"`
	DirsCreated         int   `json:"dirs_created"`
	FilesCopiedForward  int   `json:"files_copied_forward"`
	FilesCopiedBackward int   `json:"files_copied_backward"`
	FilesSkipped        int   `json:"files_skipped"`
	EntriesExcluded     int   `json:"entries_excluded"`
	BytesTransferred    int64 `json:"bytes_transferred"`
}

// JSONErrorData represents an error entry
type JSONErrorData struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Start emits the start event
func (f *JSONFormatter) Start(writer io.Writer, cfg *models.SyncConfig, entries []models.Entry) error {
	if writer == nil {
		writer = os.Stdout
	}
	f.encoder = json.NewEncoder(writer)

	return f.emit("start", JSONStartData{
		RunID:        cfg.ID,
		Source:       cfg.SourceRoot,
		Target:       cfg.TargetRoot,
		Mode:         string(cfg.Mode),
		Merge:        string(cfg.Merge),
		Fallback:     string(cfg.Fallback),
		Traversal:    string(cfg.Traversal),
		DryRun:       cfg.Simulate,
		Exclude:      cfg.Exclude,
		TotalEntries: len(entries),
	})
}

// Entry emits an action event
func (f *JSONFormatter) Entry(rec models.ActionRecord) error {
	return f.emit("action", actionData(rec))
}

// Complete emits the complete event with the report minus the action list
func (f *JSONFormatter) Complete(report *models.SyncReport) error {
	data := reportData(report)
	data.Actions = nil
	return f.emit("complete", data)
}

// Error emits an error event
func (f *JSONFormatter) Error(err error) error {
	return f.emit("error", map[string]string{"error": err.Error()})
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

func (f *JSONFormatter) emit(kind string, data any) error {
	if f.encoder == nil {
		f.encoder = json.NewEncoder(os.Stdout)
	}
	return f.encoder.Encode(JSONEvent{
		Timestamp: time.Now(),
		Type:      kind,
		Data:      data,
	})
}

func actionData(rec models.ActionRecord) JSONActionData {
	return JSONActionData{
		Kind:   rec.Kind.Label(),
		Path:   rec.RelativePath,
		Depth:  rec.Depth,
		Action: string(rec.Action),
		From:   rec.From,
		To:     rec.To,
		Reason: rec.Reason,
	}
}

func reportData(report *models.SyncReport) JSONReportData {
	data := JSONReportData{
		RunID:      report.RunID,
		Status:     string(report.Status),
		DryRun:     report.Simulate,
		Duration:   report.Duration.Round(time.Millisecond).String(),
		DurationMs: report.Duration.Milliseconds(),
		Stats: JSONStatsData{
			FilesScanned:        report.Stats.FilesScanned,
			DirsScanned:         report.Stats.DirsScanned,
			DirsCreated:         report.Stats.DirsCreated,
			FilesCopiedForward:  report.Stats.FilesCopiedForward,
			FilesCopiedBackward: report.Stats.FilesCopiedBackward,
			FilesSkipped:        report.Stats.FilesSkipped,
			EntriesExcluded:     report.Stats.EntriesExcluded,
			BytesTransferred:    report.Stats.BytesTransferred,
		},
	}

	for _, rec := range report.Records {
		data.Actions = append(data.Actions, actionData(rec))
	}
	for _, e := range report.Errors {
		data.Errors = append(data.Errors, JSONErrorData{Path: e.FilePath, Error: e.Error})
	}

	return data
}
