package models

import (
	"fmt"
	"strings"
)

// SyncMode defines the synchronization intent
type SyncMode string

const (
	// ModeMirroring makes the target a one-directional copy of the source
	ModeMirroring SyncMode = "mirroring"
	// ModeSync reconciles both sides according to the merge policy
	ModeSync SyncMode = "sync"
)

// MergePolicy decides which side wins when a file exists on both sides and differs
type MergePolicy string

const (
	// MergeSource always copies source over target
	MergeSource MergePolicy = "source"
	// MergeTarget always copies target over source
	MergeTarget MergePolicy = "target"
	// MergeBigger copies the larger file over the smaller one
	MergeBigger MergePolicy = "bigger"
	// MergeNewer copies the most recently modified file
	MergeNewer MergePolicy = "newer"
	// MergeDifferent defers every differing file to the fallback policy
	MergeDifferent MergePolicy = "different"
	// MergeIntervention asks the operator; resolved through the fallback policy
	MergeIntervention MergePolicy = "intervention"
	// MergeSkip never copies a differing file
	MergeSkip MergePolicy = "skip"
)

// FallbackPolicy is used when the merge policy cannot reach a decision.
// Only terminal policies are valid fallbacks.
type FallbackPolicy = MergePolicy

// Traversal selects which trees are enumerated
type Traversal string

const (
	// TraversalSource enumerates the source tree only. Target-only entries are never seen.
	TraversalSource Traversal = "source"
	// TraversalUnion enumerates both trees and visits target-only entries after the source walk
	TraversalUnion Traversal = "union"
)

// MergePolicies lists every policy in declaration order
var MergePolicies = []MergePolicy{
	MergeSource,
	MergeTarget,
	MergeBigger,
	MergeNewer,
	MergeDifferent,
	MergeIntervention,
	MergeSkip,
}

// IsValid reports whether p is a known policy
func (p MergePolicy) IsValid() bool {
	for _, known := range MergePolicies {
		if p == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether p always resolves to a copy or a skip without
// needing another policy
func (p MergePolicy) IsTerminal() bool {
	switch p {
	case MergeSource, MergeTarget, MergeBigger, MergeSkip:
		return true
	default:
		return false
	}
}

// ParseMergePolicy parses a policy name, case-insensitively
func ParseMergePolicy(s string) (MergePolicy, error) {
	p := MergePolicy(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", &ValidationError{
			Field:   "merge_policy",
			Message: fmt.Sprintf("unknown policy %q (valid: %s)", s, policyNames()),
		}
	}
	return p, nil
}

// ParseSyncMode parses a sync mode name, case-insensitively
func ParseSyncMode(s string) (SyncMode, error) {
	m := SyncMode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case ModeMirroring, ModeSync:
		return m, nil
	}
	return "", &ValidationError{
		Field:   "sync_mode",
		Message: fmt.Sprintf("unknown sync mode %q (valid: mirroring, sync)", s),
	}
}

// ParseTraversal parses a traversal name, case-insensitively
func ParseTraversal(s string) (Traversal, error) {
	t := Traversal(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case TraversalSource, TraversalUnion:
		return t, nil
	}
	return "", &ValidationError{
		Field:   "traversal",
		Message: fmt.Sprintf("unknown traversal %q (valid: source, union)", s),
	}
}

func policyNames() string {
	names := make([]string, len(MergePolicies))
	for i, p := range MergePolicies {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}
