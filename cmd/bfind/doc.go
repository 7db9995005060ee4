// Package bfind provides the command-line interface for the bfind tool.
// It parses the pattern and depth arguments, merges flags with config files,
// runs the breadth-first search and prints one matching path per line.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/varalys/bfind/cmd/bfind"
//	func main() { bfind.Execute() }
package bfind
