package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/filesync/pkg/models"
)

func sampleConfig() *models.SyncConfig {
	return &models.SyncConfig{
		ID:         "run-1",
		SourceRoot: "/src",
		TargetRoot: "/tgt",
		Mode:       models.ModeSync,
		Merge:      models.MergeSource,
		Fallback:   models.MergeSkip,
		Traversal:  models.TraversalSource,
	}
}

func sampleRecords() []models.ActionRecord {
	return []models.ActionRecord{
		{Kind: models.KindDirectory, RelativePath: "a", Action: models.ActionCopyForward, From: "a", To: "a", Reason: "missing on target"},
		{Kind: models.KindFile, RelativePath: "a/b.txt", Depth: 1, Action: models.ActionCopyForward, From: "a/b.txt", To: "a/b.txt", Reason: "missing on target"},
		{Kind: models.KindFile, RelativePath: "c.txt", Action: models.ActionCopyBackward, From: "c.txt", To: "c.txt", Reason: "target is bigger"},
		{Kind: models.KindFile, RelativePath: "d.txt", Action: models.ActionSkip, Reason: "identical"},
	}
}

func sampleEntries() []models.Entry {
	entries := make([]models.Entry, 0, 4)
	for _, rec := range sampleRecords() {
		entries = append(entries, models.Entry{Path: rec.RelativePath, Kind: rec.Kind, Depth: rec.Depth})
	}
	return entries
}

func sampleReport(simulate bool) *models.SyncReport {
	report := &models.SyncReport{
		RunID:      "run-1",
		SourceRoot: "/src",
		TargetRoot: "/tgt",
		Mode:       models.ModeSync,
		Merge:      models.MergeSource,
		Fallback:   models.MergeSkip,
		Traversal:  models.TraversalSource,
		Simulate:   simulate,
		StartTime:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Duration:   1500 * time.Millisecond,
		Status:     models.StatusSuccess,
	}
	for _, rec := range sampleRecords() {
		report.Record(rec)
	}
	report.Stats.FilesScanned = 3
	report.Stats.DirsScanned = 1
	report.Stats.BytesTransferred = 2048
	return report
}

func TestActionLine(t *testing.T) {
	records := sampleRecords()

	assert.Equal(t, "[D]: a", ActionLine(records[0]))
	assert.Equal(t, "[F]: a/b.txt -> a/b.txt", ActionLine(records[1]))
	assert.Equal(t, "[F]: c.txt <- c.txt", ActionLine(records[2]))
	assert.Equal(t, "[F]: d.txt (skip: identical)", ActionLine(records[3]))
	assert.Equal(t, "[D]: e (create in source)", ActionLine(models.ActionRecord{
		Kind: models.KindDirectory, RelativePath: "e", Action: models.ActionCopyBackward,
	}))
}

func TestCompletionLine(t *testing.T) {
	assert.Equal(t, "Simulation complete", CompletionLine(true))
	assert.Equal(t, "Synchronization complete", CompletionLine(false))
}

func TestNew(t *testing.T) {
	for _, name := range []string{"human", "json", "progress"} {
		f, err := New(name, false)
		require.NoError(t, err)
		assert.Equal(t, name, f.Name())
	}

	_, err := New("xml", false)
	assert.Error(t, err)
}

func TestHumanFormatterVerbose(t *testing.T) {
	var buf bytes.Buffer
	f := NewHumanFormatter(true)

	require.NoError(t, f.Start(&buf, sampleConfig(), sampleEntries()))
	for _, rec := range sampleRecords() {
		require.NoError(t, f.Entry(rec))
	}
	require.NoError(t, f.Complete(sampleReport(false)))

	out := buf.String()
	assert.Contains(t, out, "Source:     /src")
	assert.Contains(t, out, "Merge mode: source")
	assert.Contains(t, out, "Dry run:    false")
	assert.Contains(t, out, "Entries:    4\n")
	assert.Contains(t, out, "\n[D] a\n[F] a/b.txt\n[F] c.txt\n[F] d.txt\n")
	assert.Contains(t, out, "[F]: a/b.txt -> a/b.txt\n")
	assert.Less(t, strings.Index(out, "[F] a/b.txt\n"), strings.Index(out, "[D]: a\n"),
		"listing comes before the action lines")
	assert.Contains(t, out, "Files scanned")
	assert.Contains(t, out, "2.0 KiB")
	assert.True(t, strings.HasSuffix(out, "Synchronization complete\n"))
}

func TestHumanFormatterQuiet(t *testing.T) {
	var buf bytes.Buffer
	f := NewHumanFormatter(false)

	require.NoError(t, f.Start(&buf, sampleConfig(), sampleEntries()))
	for _, rec := range sampleRecords() {
		require.NoError(t, f.Entry(rec))
	}
	require.NoError(t, f.Complete(sampleReport(false)))

	assert.Equal(t, "Synchronization complete\n", buf.String())
}

func TestHumanFormatterSimulateForcesVerbose(t *testing.T) {
	var buf bytes.Buffer
	cfg := sampleConfig()
	cfg.Simulate = true
	cfg.Verbose = true

	f := NewHumanFormatter(false)
	require.NoError(t, f.Start(&buf, cfg, sampleEntries()[:1]))
	require.NoError(t, f.Entry(sampleRecords()[0]))
	require.NoError(t, f.Complete(sampleReport(true)))

	out := buf.String()
	assert.Contains(t, out, "Dry run:    true")
	assert.Contains(t, out, "[D]: a\n")
	assert.True(t, strings.HasSuffix(out, "Simulation complete\n"))
}

func TestHumanFormatterFailedRun(t *testing.T) {
	var buf bytes.Buffer
	f := NewHumanFormatter(false)
	require.NoError(t, f.Start(&buf, sampleConfig(), nil))

	report := sampleReport(false)
	report.Fail("/src/x", models.ErrNotFound)
	require.NoError(t, f.Complete(report))

	out := buf.String()
	assert.Contains(t, out, "Status: failed")
	assert.Contains(t, out, "/src/x: not found")
	assert.NotContains(t, out, "Synchronization complete")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter()

	require.NoError(t, f.Start(&buf, sampleConfig(), sampleEntries()))
	for _, rec := range sampleRecords() {
		require.NoError(t, f.Entry(rec))
	}
	require.NoError(t, f.Complete(sampleReport(false)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)

	var events []map[string]any
	for _, line := range lines {
		var ev map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &ev))
		events = append(events, ev)
	}

	assert.Equal(t, "start", events[0]["type"])
	start := events[0]["data"].(map[string]any)
	assert.Equal(t, "run-1", start["run_id"])
	assert.Equal(t, float64(4), start["total_entries"])

	action := events[2]["data"].(map[string]any)
	assert.Equal(t, "action", events[2]["type"])
	assert.Equal(t, "File", action["kind"])
	assert.Equal(t, "a/b.txt", action["path"])
	assert.Equal(t, "copy-forward", action["action"])

	assert.Equal(t, "complete", events[5]["type"])
	complete := events[5]["data"].(map[string]any)
	assert.Equal(t, "success", complete["status"])
	assert.NotContains(t, complete, "actions")
	stats := complete["stats"].(map[string]any)
	assert.Equal(t, float64(1), stats["files_copied_forward"])
	assert.Equal(t, float64(1), stats["files_copied_backward"])
}

func TestProgressFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewProgressFormatter()

	require.NoError(t, f.Start(&buf, sampleConfig(), sampleEntries()))
	for _, rec := range sampleRecords() {
		require.NoError(t, f.Entry(rec))
	}
	require.NoError(t, f.Complete(sampleReport(false)))

	assert.Contains(t, buf.String(), "Synchronization complete")
	assert.False(t, IsTerminal(&buf))
}

func TestWriteListing(t *testing.T) {
	entries := []models.Entry{
		{Path: "a", Kind: models.KindDirectory, Depth: 0},
		{Path: "a/b.txt", Kind: models.KindFile, Depth: 1},
		{Path: "a/c", Kind: models.KindDirectory, Depth: 1},
		{Path: "a/c/d.txt", Kind: models.KindFile, Depth: 2},
	}

	var flat bytes.Buffer
	require.NoError(t, WriteListing(&flat, entries, false))
	assert.Equal(t, "[D] a\n[F] a/b.txt\n[D] a/c\n[F] a/c/d.txt\n", flat.String())

	var tree bytes.Buffer
	require.NoError(t, WriteListing(&tree, entries, true))
	assert.Equal(t, "[D] a\n  [F] b.txt\n  [D] c\n    [F] d.txt\n", tree.String())
}

func TestWriteReportHuman(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, WriteReport(sampleReport(true), path, "human"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "Dry Run:   true")
	assert.Contains(t, out, "Directories Created (1)")
	assert.Contains(t, out, "Copied to Target (1)")
	assert.Contains(t, out, "  [F]: c.txt <- c.txt")
	assert.Contains(t, out, "Skipped Files (1)")
	assert.Contains(t, out, "Transferred: 2.0 KiB")
}

func TestWriteReportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, WriteReport(sampleReport(false), path, "json"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var out struct {
		SourcePath string           `json:"source_path"`
		Merge      string           `json:"merge"`
		Status     string           `json:"status"`
		Actions    []JSONActionData `json:"actions"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "/src", out.SourcePath)
	assert.Equal(t, "source", out.Merge)
	assert.Equal(t, "success", out.Status)
	require.Len(t, out.Actions, 4)
	assert.Equal(t, "d.txt", out.Actions[3].Path)
}

func TestWriteReportUnknownFormat(t *testing.T) {
	err := WriteReport(sampleReport(false), filepath.Join(t.TempDir(), "r"), "xml")
	assert.Error(t, err)
}

func TestHumanFormatterError(t *testing.T) {
	var buf bytes.Buffer
	cfg := sampleConfig()
	cfg.Simulate = true

	f := NewHumanFormatter(false)
	require.NoError(t, f.Error(models.ErrNotFound))
	assert.Empty(t, buf.String())

	require.NoError(t, f.Start(&buf, cfg, nil))
	require.NoError(t, f.Error(models.ErrNotFound))
	assert.Equal(t, "Simulation aborted\n", buf.String())
}
