package core

import (
	"iter"
	"regexp"

	"github.com/varalys/bfind/internal/engine"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
type (
	Config    = engine.Config
	EntryType = engine.EntryType
	Stats     = engine.Stats
)

const (
	TypeAll  = engine.TypeAll
	TypeFile = engine.TypeFile
	TypeDir  = engine.TypeDir
)

var (
	ErrInvalidPattern = engine.ErrInvalidPattern
	ErrInvalidDepth   = engine.ErrInvalidDepth
	ErrInvalidType    = engine.ErrInvalidType
)

// Search is the stable entrypoint for other programs. It returns a lazy
// breadth-first sequence of matching paths.
func Search(cfg Config) iter.Seq[string] { return engine.Search(cfg) }

// Collect runs a search to completion and returns every match.
func Collect(cfg Config) []string { return engine.Collect(cfg) }

// CompilePattern compiles a name pattern; errors wrap ErrInvalidPattern.
func CompilePattern(pattern string, ignoreCase bool) (*regexp.Regexp, error) {
	return engine.CompilePattern(pattern, ignoreCase)
}

// ParseEntryType parses "all", "file" or "dir".
func ParseEntryType(s string) (EntryType, error) { return engine.ParseEntryType(s) }

// ParseMaxDepth parses a non-negative depth bound.
func ParseMaxDepth(s string) (int, error) { return engine.ParseMaxDepth(s) }
