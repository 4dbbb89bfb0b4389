// main is the entrypoint for the cheetah CLI.
package main

import (
	"github.com/gcopen/cheetah/cmd"
	"github.com/gcopen/cheetah/internal/contract"
)

func main() {
	err := cmd.Execute()
	if closeErr := cmd.Close(); closeErr != nil {
		contract.LogWarn("Cannot close table store", closeErr)
	}
	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
