package main

import "github.com/varalys/bfind/cmd/bfind"

func main() { bfind.Execute() }
