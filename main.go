package main

import (
	"fmt"
	"os"

	"github.com/temirov/git-prompt-info/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main prints the prompt line for the repository in the current directory.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(1)
	}
}
