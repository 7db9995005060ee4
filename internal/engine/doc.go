// Package engine contains the breadth-first traversal used by bfind. It walks
// a directory tree level by level from a start path, tests each entry's base
// name against a compiled pattern and an entry-type filter, and streams the
// matching paths in discovery order. This package is internal; external
// consumers should use the stable facade in pkg/core.
package engine
