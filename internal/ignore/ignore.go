// Package ignore loads gitignore-style pattern files used to prune paths
// from a search. A pattern ending in "/" matches directories only; a
// pattern containing an inner "/" is anchored at the start path. Negation
// ("!pattern") is not supported.
package ignore

import (
	"bufio"
	"os"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

type rule struct {
	glob     string
	anchored bool // pattern contains "/" and is matched from the start path
	dirOnly  bool // pattern ended in "/"
}

// Matcher reports whether a slash-separated relative path is ignored.
// The zero value ignores nothing.
type Matcher struct {
	rules []rule
}

// Load reads patterns from path. Blank lines and lines starting with '#' are
// skipped. When the file cannot be read, an empty Matcher is returned along
// with the error so callers may treat a missing file as "no rules".
func Load(path string) (Matcher, error) {
	f, err := os.Open(path)
	if err != nil {
		return Matcher{}, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return Matcher{}, err
	}
	return New(lines...), nil
}

// New builds a Matcher from pattern lines.
func New(patterns ...string) Matcher {
	var m Matcher
	for _, line := range patterns {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		r := rule{dirOnly: strings.HasSuffix(line, "/")}
		line = strings.TrimRight(line, "/")
		if strings.HasPrefix(line, "/") {
			r.anchored = true
			line = strings.TrimLeft(line, "/")
		}
		if strings.Contains(line, "/") {
			r.anchored = true
		}
		if line == "" || !doublestar.ValidatePattern(line) {
			continue
		}
		r.glob = line
		m.rules = append(m.rules, r)
	}
	return m
}

// Len returns the number of usable patterns.
func (m Matcher) Len() int { return len(m.rules) }

// Match reports whether rel, or any of its parent directories, is ignored.
// isDir tells whether rel itself is a directory; its parents always are.
// A directory pattern ("name/") matches the directory itself and every path
// below it, but never a file of the same name.
func (m Matcher) Match(rel string, isDir bool) bool {
	if len(m.rules) == 0 {
		return false
	}
	rel = strings.TrimPrefix(strings.ReplaceAll(rel, "\\", "/"), "./")
	if rel == "" {
		return false
	}
	segs := strings.Split(rel, "/")
	last := len(segs) - 1
	for _, r := range m.rules {
		for i, seg := range segs {
			if r.dirOnly && i == last && !isDir {
				break
			}
			subject := seg
			if r.anchored {
				subject = strings.Join(segs[:i+1], "/")
			}
			if ok, _ := doublestar.Match(r.glob, subject); ok {
				return true
			}
		}
	}
	return false
}
