// Command orchestrate decomposes a free-text request into a subtask DAG and
// executes it across a worker fleet, wave by wave.
package main

import (
	"fmt"
	"os"

	"github.com/wavecraft/orchestrator/internal/cmd"
)

// Version is the current version of the orchestrate binary, overridable at
// build time via -ldflags, mirroring the teacher's cmd/conductor/main.go.
var Version = "dev"

func main() {
	cmd.Version = Version
	root := cmd.NewRootCommand()

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
