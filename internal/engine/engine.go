package engine

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrInvalidPattern is returned when the name pattern does not compile.
	ErrInvalidPattern = errors.New("invalid regex pattern")
	// ErrInvalidDepth is returned when max depth is not a non-negative integer.
	ErrInvalidDepth = errors.New("invalid max depth")
	// ErrInvalidType is returned for an unknown entry-type filter.
	ErrInvalidType = errors.New("invalid entry type")
)

// EntryType restricts which kinds of entries may be reported as matches.
type EntryType int

const (
	TypeAll EntryType = iota
	TypeFile
	TypeDir
)

func (t EntryType) String() string {
	switch t {
	case TypeFile:
		return "file"
	case TypeDir:
		return "dir"
	default:
		return "all"
	}
}

// Allows reports whether an entry with the given kind passes the filter.
func (t EntryType) Allows(isDir bool) bool {
	switch t {
	case TypeFile:
		return !isDir
	case TypeDir:
		return isDir
	default:
		return true
	}
}

// ParseEntryType maps the CLI spelling (all, file, dir) to an EntryType.
// An empty string selects TypeAll.
func ParseEntryType(s string) (EntryType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return TypeAll, nil
	case "file":
		return TypeFile, nil
	case "dir":
		return TypeDir, nil
	default:
		return TypeAll, fmt.Errorf("%w %q: must be one of all, file, dir", ErrInvalidType, s)
	}
}

// ParseMaxDepth parses a non-negative decimal depth bound.
func ParseMaxDepth(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w %q: must be a non-negative integer", ErrInvalidDepth, s)
	}
	return n, nil
}

// CompilePattern compiles the name pattern, optionally case-insensitive.
// The returned error wraps both ErrInvalidPattern and the regexp syntax error.
func CompilePattern(pattern string, ignoreCase bool) (*regexp.Regexp, error) {
	expr := pattern
	if ignoreCase {
		expr = "(?i)" + pattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}
	return re, nil
}

// PathMatcher reports whether a slash-separated path relative to the start
// path should be pruned from the traversal. isDir is true when the entry,
// after following symlinks, is a directory.
type PathMatcher interface {
	Match(rel string, isDir bool) bool
}

// Config controls a single search.
type Config struct {
	// Root is the start path. It is used verbatim to build result paths.
	Root string
	// Pattern is tested against each entry's base name. Nil matches every name.
	Pattern *regexp.Regexp
	// MaxDepth bounds descent; the start path is depth 0.
	MaxDepth int
	Type     EntryType

	// ExcludeGlobs is a comma-separated list of doublestar globs. Entries whose
	// relative path or base name matches are neither reported nor expanded.
	ExcludeGlobs string
	// Ignore prunes entries the same way ExcludeGlobs does. Optional.
	Ignore PathMatcher
	// OnSkip receives stat and listing failures. When nil, failures are
	// skipped silently.
	OnSkip func(path string, err error)
}

// Stats summarizes one traversal.
type Stats struct {
	Visited  int // entries whose metadata was read
	Matched  int
	Skipped  int // stat or listing failures
	Pruned   int // children dropped by exclude globs or the ignore matcher
	MaxQueue int // peak frontier width
}

// Search returns a lazy sequence of matching paths in breadth-first order.
// Each range over the sequence runs a fresh traversal; breaking out of the
// loop stops it.
func Search(cfg Config) iter.Seq[string] {
	return func(yield func(string) bool) {
		_, _ = newWalker(cfg).run(context.Background(), yield)
	}
}

// Walk traverses cfg.Root and calls handle for every match. It returns
// ctx.Err() if the context is cancelled between entries.
func Walk(ctx context.Context, cfg Config, handle func(path string)) (Stats, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return newWalker(cfg).run(ctx, func(p string) bool {
		handle(p)
		return true
	})
}

// Collect runs a search to completion and returns every match.
func Collect(cfg Config) []string {
	var out []string
	for p := range Search(cfg) {
		out = append(out, p)
	}
	return out
}
