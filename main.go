// Package main is the entry point for the seasonmerge CLI, which merges F1
// game race exports into season standings.
package main

import "github.com/pable/go-season-merge/cmd"

func main() {
	cmd.Execute()
}
