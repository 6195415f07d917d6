package compare

import (
	"fmt"

	"github.com/sdejongh/filesync/pkg/storage"
)

// Result represents the outcome of comparing two files
type Result string

const (
	// Same indicates files are identical
	Same Result = "same"
	// Different indicates files differ
	Different Result = "different"
	// SourceOnly indicates file exists only in source
	SourceOnly Result = "source_only"
	// TargetOnly indicates file exists only in target
	TargetOnly Result = "target_only"
)

// Order tells which side of a comparison ranks higher
type Order int

const (
	// TargetGreater means the target side is larger or more recent
	TargetGreater Order = -1
	// Equal means both sides rank the same
	Equal Order = 0
	// SourceGreater means the source side is larger or more recent
	SourceGreater Order = 1
)

// Comparison holds the result of comparing two files
type Comparison struct {
	Result  Result
	Reason  string
	Size    Order
	ModTime Order
}

// Compare compares two files by size and modification time. A nil side
// means the file does not exist there. Files are the same only when both
// size and modification time match exactly.
func Compare(source, target *storage.FileInfo) *Comparison {
	switch {
	case source == nil && target == nil:
		return &Comparison{Result: Different, Reason: "missing on both sides"}
	case target == nil:
		return &Comparison{Result: SourceOnly, Reason: "file exists only in source"}
	case source == nil:
		return &Comparison{Result: TargetOnly, Reason: "file exists only in target"}
	}

	c := &Comparison{
		Size:    orderSize(source.Size, target.Size),
		ModTime: orderTime(source, target),
	}

	switch {
	case c.Size == Equal && c.ModTime == Equal:
		c.Result = Same
		c.Reason = "identical"
	case c.Size != Equal:
		c.Result = Different
		c.Reason = fmt.Sprintf("file sizes differ (source: %d, target: %d)", source.Size, target.Size)
	default:
		c.Result = Different
		c.Reason = fmt.Sprintf("modification times differ (source: %s, target: %s)",
			source.ModTime.Format("2006-01-02 15:04:05.000"), target.ModTime.Format("2006-01-02 15:04:05.000"))
	}

	return c
}

func orderSize(source, target int64) Order {
	switch {
	case source > target:
		return SourceGreater
	case source < target:
		return TargetGreater
	default:
		return Equal
	}
}

func orderTime(source, target *storage.FileInfo) Order {
	switch {
	case source.ModTime.Equal(target.ModTime):
		return Equal
	case source.ModTime.After(target.ModTime):
		return SourceGreater
	default:
		return TargetGreater
	}
}
