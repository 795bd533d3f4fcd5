// Package main is the entry point for the ibridge CLI.
// It provides IBM i metadata introspection and source deployment from the terminal.
package main

import (
	"ibridge/cli/cmd"
)

func main() {
	cmd.Execute()
}
