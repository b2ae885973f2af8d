// The main package for the heatpump-monitor executable.
package main

import (
	"github.com/mbeckert/heatpump-monitor/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
