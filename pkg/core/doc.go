// Package core provides a small, stable facade over bfind's internal
// traversal engine for other programs. It re-exports a narrow API surface so
// callers can depend on a stable import path without importing internal
// packages.
//
// Example:
//
//	re, err := core.CompilePattern(`\.go$`, false)
//	if err != nil { /* handle */ }
//	for p := range core.Search(core.Config{Root: ".", Pattern: re, MaxDepth: 2}) {
//		fmt.Println(p)
//	}
package core
