package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags, mirroring the teacher's
// cmd.Version/ConductorRepoRoot pattern.
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for orchestrate.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "orchestrate",
		Short: "Decomposes a free-text request and runs it across a worker fleet",
		Long: `orchestrate turns a single free-text request into a DAG of subtasks,
dispatches each wave of subtasks concurrently to external worker processes,
and folds the results into a report.

It classifies the request's pattern, expands it into subtasks with declared
dependencies, partitions those into waves, and executes wave by wave with a
strict barrier between waves.`,
		Version:      Version,
		SilenceUsage: true,
	}

	root.AddCommand(NewRunCommand())
	root.AddCommand(NewValidateCommand())
	root.AddCommand(NewFeedbackCommand())

	return root
}
