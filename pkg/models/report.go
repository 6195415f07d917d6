package models

import (
	"time"
)

// SyncReport represents the results of a reconciliation run
type SyncReport struct {
	// Run details
	RunID      string
	SourceRoot string
	TargetRoot string
	Mode       SyncMode
	Merge      MergePolicy
	Fallback   FallbackPolicy
	Traversal  Traversal
	Simulate   bool

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Statistics
	Stats Statistics

	// Records holds one entry per reconciled path, in traversal order
	Records []ActionRecord

	// Errors holds the fatal error that aborted the run, if any
	Errors []SyncError

	// Overall status
	Status SyncStatus
}

// ActionRecord is the logged outcome for one traversed entry. Paths are
// relative to their roots so that a simulated run and a real run over
// equivalent trees produce equal records.
type ActionRecord struct {
	Kind         EntryKind
	RelativePath string
	Depth        int
	Action       Action
	From         string
	To           string
	Reason       string
}

// Statistics holds run metrics
type Statistics struct {
	FilesScanned int
	DirsScanned  int

	DirsCreated         int
	FilesCopiedForward  int
	FilesCopiedBackward int
	FilesSkipped        int
	EntriesExcluded     int

	BytesTransferred int64
}

// FilesCopied returns the number of files copied in either direction
func (s Statistics) FilesCopied() int {
	return s.FilesCopiedForward + s.FilesCopiedBackward
}

// SyncStatus represents the overall result
type SyncStatus string

const (
	// StatusSuccess indicates the run completed
	StatusSuccess SyncStatus = "success"
	// StatusFailed indicates a fatal error aborted the run
	StatusFailed SyncStatus = "failed"
)

// SyncError represents the error that aborted a run
type SyncError struct {
	FilePath  string
	Error     string
	Timestamp time.Time
}

// ExitCode returns the appropriate exit code for the sync status
func (s SyncStatus) ExitCode() int {
	switch s {
	case StatusSuccess:
		return 0
	default:
		return 2
	}
}

// Record appends an action record and updates the counters
func (r *SyncReport) Record(rec ActionRecord) {
	r.Records = append(r.Records, rec)

	switch rec.Kind {
	case KindDirectory:
		if rec.Action != ActionSkip {
			r.Stats.DirsCreated++
		}
	case KindFile:
		switch rec.Action {
		case ActionCopyForward:
			r.Stats.FilesCopiedForward++
		case ActionCopyBackward:
			r.Stats.FilesCopiedBackward++
		default:
			r.Stats.FilesSkipped++
		}
	}
}

// Fail marks the report as failed with the given error
func (r *SyncReport) Fail(path string, err error) {
	r.Status = StatusFailed
	r.Errors = append(r.Errors, SyncError{
		FilePath:  path,
		Error:     err.Error(),
		Timestamp: time.Now(),
	})
}
