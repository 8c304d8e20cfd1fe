package main

import (
	"fmt"
	"os"

	"github.com/avpipeline/tracker/cmd/avtracker/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the avtracker command-line application.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(1)
	}
}
