package sync

import (
	"fmt"
	"path"
	"strings"

	"github.com/sdejongh/filesync/pkg/models"
)

type ruleKind int

const (
	// matches the base name of any entry
	ruleName ruleKind = iota
	// matches a directory name at any level; everything below is excluded
	ruleDir
	// matches the full relative path
	rulePath
	// **/pattern, matches the base name or the trailing path at any depth
	ruleAnyDepth
)

type rule struct {
	kind    ruleKind
	pattern string
}

// Excluder decides which relative paths are left out of a run.
// Patterns support:
//   - Simple glob patterns: *.tmp, *.log
//   - Directory patterns: .git/, node_modules/
//   - Path patterns: build/*, docs/*.md
//   - Any depth: **/cache, **/cache/*.bin
//
// Once a directory is excluded, all of its descendants are excluded too.
type Excluder struct {
	rules    []rule
	excluded []string
}

// NewExcluder compiles the given patterns. Empty patterns are ignored; a
// malformed glob fails with models.ErrConfiguration.
func NewExcluder(patterns []string) (*Excluder, error) {
	e := &Excluder{}
	for _, raw := range patterns {
		p := strings.TrimSpace(strings.ReplaceAll(raw, "\\", "/"))

		var r rule
		switch {
		case p == "" || p == "/":
			continue
		case strings.HasSuffix(p, "/"):
			r = rule{kind: ruleDir, pattern: strings.TrimSuffix(p, "/")}
		case strings.HasPrefix(p, "**/"):
			r = rule{kind: ruleAnyDepth, pattern: strings.TrimPrefix(p, "**/")}
		case strings.Contains(p, "/"):
			r = rule{kind: rulePath, pattern: strings.TrimPrefix(p, "/")}
		default:
			r = rule{kind: ruleName, pattern: p}
		}

		// path.Match reports a syntax error anywhere in the pattern, even on a mismatch
		if _, err := path.Match(r.pattern, ""); err != nil {
			return nil, &models.ValidationError{
				Field:   "Exclude",
				Message: fmt.Sprintf("invalid pattern %q: %v", raw, err),
			}
		}
		e.rules = append(e.rules, r)
	}
	return e, nil
}

// Exclude reports whether the entry at rel (forward slashes) is excluded.
// Entries must be passed in pre-order so that excluded directories can
// cover their descendants.
func (e *Excluder) Exclude(rel string, isDir bool) bool {
	if len(e.rules) == 0 {
		return false
	}

	for _, dir := range e.excluded {
		if strings.HasPrefix(rel, dir+"/") {
			return true
		}
	}

	if !e.match(rel, isDir) {
		return false
	}
	if isDir {
		e.excluded = append(e.excluded, rel)
	}
	return true
}

func (e *Excluder) match(rel string, isDir bool) bool {
	base := path.Base(rel)

	for _, r := range e.rules {
		switch r.kind {
		case ruleName:
			if glob(r.pattern, base) {
				return true
			}
		case ruleDir:
			if !isDir {
				continue
			}
			if glob(r.pattern, base) || glob(r.pattern, rel) {
				return true
			}
		case rulePath:
			if glob(r.pattern, rel) {
				return true
			}
		case ruleAnyDepth:
			if glob(r.pattern, base) || matchSuffix(r.pattern, rel) {
				return true
			}
		}
	}

	return false
}

// matchSuffix matches pattern against every trailing run of path components
func matchSuffix(pattern, rel string) bool {
	parts := strings.Split(rel, "/")
	for i := range parts {
		if glob(pattern, strings.Join(parts[i:], "/")) {
			return true
		}
	}
	return false
}

// glob matches a pattern already checked by NewExcluder
func glob(pattern, name string) bool {
	matched, _ := path.Match(pattern, name)
	return matched
}
