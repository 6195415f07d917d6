package models

// Action is the outcome of reconciling one entry
type Action string

const (
	// ActionSkip leaves both sides untouched
	ActionSkip Action = "skip"
	// ActionCopyForward copies source to target (creates the target directory for directories)
	ActionCopyForward Action = "copy-forward"
	// ActionCopyBackward copies target to source (creates the source directory for directories)
	ActionCopyBackward Action = "copy-backward"
)

// Decision is what the decider resolved for a single entry. It is consumed
// right away by the engine and never stored as is.
type Decision struct {
	Action Action
	// From is the path the data is read from (empty for skip)
	From string
	// To is the path the data is written to (empty for skip)
	To     string
	Reason string
}

// Skip builds a skip decision
func Skip(reason string) Decision {
	return Decision{Action: ActionSkip, Reason: reason}
}

// CopyForward builds a source to target decision
func CopyForward(sourcePath, targetPath, reason string) Decision {
	return Decision{Action: ActionCopyForward, From: sourcePath, To: targetPath, Reason: reason}
}

// CopyBackward builds a target to source decision
func CopyBackward(targetPath, sourcePath, reason string) Decision {
	return Decision{Action: ActionCopyBackward, From: targetPath, To: sourcePath, Reason: reason}
}

// IsCopy reports whether the decision moves data
func (d Decision) IsCopy() bool {
	return d.Action == ActionCopyForward || d.Action == ActionCopyBackward
}
