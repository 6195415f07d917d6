// Package reconcile resolves, for one file present on at least one side,
// which copy (if any) brings the two trees closer together.
package reconcile

import (
	"fmt"

	"github.com/sdejongh/filesync/pkg/compare"
	"github.com/sdejongh/filesync/pkg/models"
	"github.com/sdejongh/filesync/pkg/storage"
)

// Candidate is one file as seen from both roots. A nil Source or Target
// means the file does not exist on that side.
type Candidate struct {
	SourcePath string
	TargetPath string
	Source     *storage.FileInfo
	Target     *storage.FileInfo
}

// Decide returns the action for a file. It never touches the filesystem.
func Decide(c Candidate, cfg *models.SyncConfig) models.Decision {
	cmp := compare.Compare(c.Source, c.Target)

	switch cmp.Result {
	case compare.SourceOnly:
		return models.CopyForward(c.SourcePath, c.TargetPath, "missing on target")
	case compare.TargetOnly:
		if cfg.Merge == models.MergeSkip {
			return models.Skip("missing on source, merge skip")
		}
		return models.CopyBackward(c.TargetPath, c.SourcePath, "missing on source")
	case compare.Same:
		return models.Skip(cmp.Reason)
	}

	if c.Source == nil || c.Target == nil {
		return models.Skip(cmp.Reason)
	}

	if d, ok := apply(cfg.Merge, c, cmp); ok {
		return d
	}

	if !cfg.Fallback.IsTerminal() {
		return models.Skip("unresolved")
	}

	d, ok := apply(cfg.Fallback, c, cmp)
	if !ok {
		return models.Skip("unresolved")
	}
	d.Reason = fmt.Sprintf("%s, fallback %s", reasonFor(cfg.Merge, cmp), d.Reason)
	return d
}

// apply runs one policy against two differing files. ok is false when the
// policy defers to the fallback.
func apply(policy models.MergePolicy, c Candidate, cmp *compare.Comparison) (models.Decision, bool) {
	switch policy {
	case models.MergeSource:
		return forward(c, "source wins"), true

	case models.MergeTarget:
		return backward(c, "target wins"), true

	case models.MergeBigger:
		switch cmp.Size {
		case compare.SourceGreater:
			return forward(c, "source is bigger"), true
		case compare.TargetGreater:
			return backward(c, "target is bigger"), true
		default:
			return models.Skip("same size"), true
		}

	case models.MergeNewer:
		switch cmp.ModTime {
		case compare.SourceGreater:
			return forward(c, "source is newer"), true
		case compare.TargetGreater:
			return backward(c, "target is newer"), true
		}
		return models.Decision{}, false

	case models.MergeSkip:
		return models.Skip("merge skip"), true
	}

	// different, intervention and anything unknown
	return models.Decision{}, false
}

func reasonFor(policy models.MergePolicy, cmp *compare.Comparison) string {
	switch policy {
	case models.MergeNewer:
		return "same modification time"
	case models.MergeIntervention:
		return "needs intervention"
	default:
		return cmp.Reason
	}
}

func forward(c Candidate, reason string) models.Decision {
	return models.CopyForward(c.SourcePath, c.TargetPath, reason)
}

func backward(c Candidate, reason string) models.Decision {
	return models.CopyBackward(c.TargetPath, c.SourcePath, reason)
}
