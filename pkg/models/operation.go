package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SyncConfig holds everything a reconciliation run needs. It is built once by
// the command layer and must not be modified once the run starts.
type SyncConfig struct {
	ID         string
	SourceRoot string
	TargetRoot string
	Mode       SyncMode
	Merge      MergePolicy
	Fallback   FallbackPolicy
	Traversal  Traversal
	Simulate   bool
	Verbose    bool
	Exclude    []string
}

// Normalize applies the mode compatibility rules and returns one message per
// overridden setting.
func (c *SyncConfig) Normalize() []string {
	var warnings []string

	if c.Mode == ModeMirroring && c.Merge != MergeSource {
		warnings = append(warnings, fmt.Sprintf(
			"merge mode %q is not supported in mirroring mode, using %q", c.Merge, MergeSource))
		c.Merge = MergeSource
	}

	if c.Simulate {
		c.Verbose = true
	}

	if c.Traversal == "" {
		c.Traversal = TraversalSource
	}

	return warnings
}

// Validate checks the configuration before any traversal happens
func (c *SyncConfig) Validate() error {
	if c.SourceRoot == "" {
		return &ValidationError{Field: "SourceRoot", Message: "source path is required"}
	}
	if c.TargetRoot == "" {
		return &ValidationError{Field: "TargetRoot", Message: "target path is required"}
	}

	source := filepath.Clean(c.SourceRoot)
	target := filepath.Clean(c.TargetRoot)
	if source == target {
		return &ValidationError{Field: "TargetRoot", Message: "source and target cannot be the same path: " + source}
	}
	if isNested(source, target) {
		return &ValidationError{Field: "TargetRoot", Message: "target cannot be inside source"}
	}
	if isNested(target, source) {
		return &ValidationError{Field: "SourceRoot", Message: "source cannot be inside target"}
	}

	switch c.Mode {
	case ModeMirroring, ModeSync:
	default:
		return &ValidationError{Field: "Mode", Message: fmt.Sprintf("unknown sync mode %q", c.Mode)}
	}

	if !c.Merge.IsValid() {
		return &ValidationError{Field: "Merge", Message: fmt.Sprintf("unknown merge policy %q", c.Merge)}
	}
	if !c.Fallback.IsValid() {
		return &ValidationError{Field: "Fallback", Message: fmt.Sprintf("unknown fallback policy %q", c.Fallback)}
	}
	if !c.Fallback.IsTerminal() {
		return &ValidationError{
			Field:   "Fallback",
			Message: fmt.Sprintf("fallback policy %q cannot resolve a conflict (valid: source, target, bigger, skip)", c.Fallback),
		}
	}

	switch c.Traversal {
	case TraversalSource:
	case TraversalUnion:
		if c.Mode == ModeMirroring {
			return &ValidationError{Field: "Traversal", Message: "union traversal requires sync mode"}
		}
	default:
		return &ValidationError{Field: "Traversal", Message: fmt.Sprintf("unknown traversal %q", c.Traversal)}
	}

	return nil
}

func isNested(parent, child string) bool {
	return strings.HasPrefix(child, parent+string(filepath.Separator))
}
