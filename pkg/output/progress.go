package output

import (
	"io"
	"os"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"

	"github.com/sdejongh/filesync/pkg/models"
)

const progressTemplate pb.ProgressBarTemplate = `{{string . "prefix"}}{{counters . }} {{bar . }} {{percent . }} {{etime . }}`

// ProgressFormatter shows a progress bar over the reconciled entries and
// prints the human summary once the run is complete
type ProgressFormatter struct {
	bar     *pb.ProgressBar
	summary *HumanFormatter
}

// NewProgressFormatter creates a new progress bar formatter
func NewProgressFormatter() *ProgressFormatter {
	return &ProgressFormatter{summary: NewHumanFormatter(false)}
}

// IsTerminal reports whether w is attached to a terminal
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// Start initializes the bar
func (f *ProgressFormatter) Start(writer io.Writer, cfg *models.SyncConfig, entries []models.Entry) error {
	if writer == nil {
		writer = os.Stderr
	}

	f.bar = progressTemplate.New(len(entries))
	f.bar.SetWriter(writer)
	f.bar.Set("prefix", "Reconciling ")
	if !IsTerminal(writer) {
		f.bar.Set(pb.Terminal, false)
	}
	f.bar.Start()

	return f.summary.Start(writer, cfg, entries)
}

// Entry advances the bar
func (f *ProgressFormatter) Entry(rec models.ActionRecord) error {
	if f.bar != nil {
		f.bar.Increment()
	}
	return nil
}

// Complete stops the bar and prints the summary
func (f *ProgressFormatter) Complete(report *models.SyncReport) error {
	if f.bar != nil {
		f.bar.Finish()
	}
	return f.summary.Complete(report)
}

// Error stops the bar and reports the error
func (f *ProgressFormatter) Error(err error) error {
	if f.bar != nil {
		f.bar.Finish()
	}
	return f.summary.Error(err)
}

// Name returns the formatter name
func (f *ProgressFormatter) Name() string {
	return "progress"
}
