package models

// EntryKind tells whether an entry is a directory or a regular file
type EntryKind string

const (
	// KindDirectory is a directory entry
	KindDirectory EntryKind = "D"
	// KindFile is a regular file entry
	KindFile EntryKind = "F"
)

// ID returns the short identifier ("D" or "F")
func (k EntryKind) ID() string {
	return string(k)
}

// Label returns the long name of the kind
func (k EntryKind) Label() string {
	switch k {
	case KindDirectory:
		return "Directory"
	case KindFile:
		return "File"
	default:
		return "Unknown"
	}
}

func (k EntryKind) String() string {
	return k.Label()
}

// Entry is one filesystem object discovered during a traversal
type Entry struct {
	// Path is the absolute path of the entry
	Path string

	// Kind is the entry type, fixed at classification time
	Kind EntryKind

	// Depth counts the directories between the entry and the traversal root.
	// The root's direct children have depth 0.
	Depth int
}

// IsDir reports whether the entry is a directory
func (e Entry) IsDir() bool {
	return e.Kind == KindDirectory
}

// IsFile reports whether the entry is a regular file
func (e Entry) IsFile() bool {
	return e.Kind == KindFile
}
