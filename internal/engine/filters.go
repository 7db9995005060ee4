package engine

import (
	"fmt"
	"path"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// parseGlobsList splits a comma-separated glob list. Each glob is kept as
// written and also with any leading "./" or "**/" removed, so "**/*.log"
// matches a top-level "a.log" as well.
func parseGlobsList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
			if t := trimGlobPrefix(p); t != p && t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}

// matchAnyGlob tests a slash-separated relative path, and its base name,
// against each glob. Malformed globs never match.
func matchAnyGlob(rel string, globs []string) bool {
	base := path.Base(rel)
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, base); ok {
			return true
		}
	}
	return false
}

func trimGlobPrefix(g string) string {
	s := strings.TrimPrefix(g, "./")
	for strings.HasPrefix(s, "**/") {
		s = strings.TrimPrefix(s, "**/")
	}
	return s
}

// ValidateGlobs reports the first malformed glob in a comma-separated list.
func ValidateGlobs(s string) error {
	for _, g := range parseGlobsList(s) {
		if !doublestar.ValidatePattern(g) {
			return &GlobError{Glob: g}
		}
	}
	return nil
}

// GlobError describes an exclude glob that doublestar cannot parse.
type GlobError struct {
	Glob string
}

func (e *GlobError) Error() string {
	return fmt.Sprintf("invalid exclude glob %q", e.Glob)
}
