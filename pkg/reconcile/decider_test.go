package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sdejongh/filesync/pkg/models"
	"github.com/sdejongh/filesync/pkg/storage"
)

const (
	srcPath = "/src/a/b.txt"
	tgtPath = "/tgt/a/b.txt"
)

var (
	older = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	newer = older.Add(time.Hour)
)

func info(size int64, mtime time.Time) *storage.FileInfo {
	return &storage.FileInfo{Size: size, ModTime: mtime, Mode: 0644}
}

func candidate(src, tgt *storage.FileInfo) Candidate {
	return Candidate{SourcePath: srcPath, TargetPath: tgtPath, Source: src, Target: tgt}
}

func config(merge, fallback models.MergePolicy) *models.SyncConfig {
	return &models.SyncConfig{
		SourceRoot: "/src",
		TargetRoot: "/tgt",
		Mode:       models.ModeSync,
		Merge:      merge,
		Fallback:   fallback,
		Traversal:  models.TraversalSource,
	}
}

func TestDecideTargetMissing(t *testing.T) {
	for _, policy := range models.MergePolicies {
		t.Run(string(policy), func(t *testing.T) {
			d := Decide(candidate(info(3, older), nil), config(policy, models.MergeSkip))
			assert.Equal(t, models.ActionCopyForward, d.Action)
			assert.Equal(t, srcPath, d.From)
			assert.Equal(t, tgtPath, d.To)
		})
	}
}

func TestDecideSourceMissing(t *testing.T) {
	d := Decide(candidate(nil, info(3, older)), config(models.MergeSource, models.MergeSkip))
	assert.Equal(t, models.ActionCopyBackward, d.Action)
	assert.Equal(t, tgtPath, d.From)
	assert.Equal(t, srcPath, d.To)

	d = Decide(candidate(nil, info(3, older)), config(models.MergeSkip, models.MergeSkip))
	assert.Equal(t, models.ActionSkip, d.Action)
}

func TestDecideIdenticalAlwaysSkips(t *testing.T) {
	for _, policy := range models.MergePolicies {
		t.Run(string(policy), func(t *testing.T) {
			d := Decide(candidate(info(7, older), info(7, older)), config(policy, models.MergeSource))
			assert.Equal(t, models.Skip("identical"), d)
		})
	}
}

func TestDecidePolicies(t *testing.T) {
	tests := []struct {
		name     string
		merge    models.MergePolicy
		fallback models.MergePolicy
		src      *storage.FileInfo
		tgt      *storage.FileInfo
		want     models.Action
	}{
		{"SourceWins", models.MergeSource, models.MergeSkip, info(1, older), info(2, newer), models.ActionCopyForward},
		{"TargetWins", models.MergeTarget, models.MergeSkip, info(2, newer), info(1, older), models.ActionCopyBackward},

		{"BiggerSource", models.MergeBigger, models.MergeSkip, info(20, older), info(10, newer), models.ActionCopyForward},
		{"BiggerTarget", models.MergeBigger, models.MergeSkip, info(10, newer), info(20, older), models.ActionCopyBackward},
		{"BiggerTieSkips", models.MergeBigger, models.MergeSource, info(10, newer), info(10, older), models.ActionSkip},

		{"NewerSource", models.MergeNewer, models.MergeSkip, info(1, newer), info(2, older), models.ActionCopyForward},
		{"NewerTarget", models.MergeNewer, models.MergeSkip, info(2, older), info(1, newer), models.ActionCopyBackward},
		{"NewerTieFallbackBigger", models.MergeNewer, models.MergeBigger, info(1, older), info(2, older), models.ActionCopyBackward},
		{"NewerTieFallbackSkip", models.MergeNewer, models.MergeSkip, info(1, older), info(2, older), models.ActionSkip},

		{"DifferentFallbackSource", models.MergeDifferent, models.MergeSource, info(1, older), info(2, newer), models.ActionCopyForward},
		{"DifferentFallbackTarget", models.MergeDifferent, models.MergeTarget, info(1, older), info(2, newer), models.ActionCopyBackward},
		{"DifferentFallbackSkip", models.MergeDifferent, models.MergeSkip, info(1, older), info(2, newer), models.ActionSkip},

		{"InterventionFallbackBigger", models.MergeIntervention, models.MergeBigger, info(9, older), info(2, newer), models.ActionCopyForward},
		{"InterventionFallbackSkip", models.MergeIntervention, models.MergeSkip, info(9, older), info(2, newer), models.ActionSkip},

		{"SkipNeverCopies", models.MergeSkip, models.MergeSource, info(1, older), info(2, newer), models.ActionSkip},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(candidate(tt.src, tt.tgt), config(tt.merge, tt.fallback))
			assert.Equal(t, tt.want, d.Action)
			assert.NotEmpty(t, d.Reason)

			switch d.Action {
			case models.ActionCopyForward:
				assert.Equal(t, srcPath, d.From)
				assert.Equal(t, tgtPath, d.To)
			case models.ActionCopyBackward:
				assert.Equal(t, tgtPath, d.From)
				assert.Equal(t, srcPath, d.To)
			default:
				assert.Empty(t, d.From)
				assert.Empty(t, d.To)
			}
		})
	}
}

func TestDecideFallbackReason(t *testing.T) {
	d := Decide(candidate(info(1, older), info(2, newer)), config(models.MergeIntervention, models.MergeTarget))
	assert.Equal(t, models.ActionCopyBackward, d.Action)
	assert.Equal(t, "needs intervention, fallback target wins", d.Reason)
}

func TestDecideNonTerminalFallbackIsUnresolved(t *testing.T) {
	cfg := config(models.MergeDifferent, models.MergeNewer)
	d := Decide(candidate(info(1, older), info(2, newer)), cfg)
	assert.Equal(t, models.Skip("unresolved"), d)
}

func TestDecideIsDeterministic(t *testing.T) {
	c := candidate(info(5, newer), info(4, older))
	cfg := config(models.MergeNewer, models.MergeSkip)
	first := Decide(c, cfg)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Decide(c, cfg))
	}
}
