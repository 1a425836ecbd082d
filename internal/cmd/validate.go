package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/wavecraft/orchestrator/internal/decomposer"
	"github.com/wavecraft/orchestrator/internal/models"
)

// NewValidateCommand creates the validate subcommand: a dry run of the
// Decomposer only, with no worker invoked. Grounded on the teacher's
// validate.go, whose equivalent dry run there checks a plan file for
// structural problems before any agent spawns.
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate \"<free-text request>\"",
		Short: "Print the subtask plan a request would produce, without running it",
		Long: `Runs only the Decomposer: classifies the request's pattern, expands it
into subtasks, and partitions them into waves. Prints the plan — pattern,
subtasks with their dependencies, wave membership, and estimated total
seconds — without dispatching any worker.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateRequest(cmd.OutOrStdout(), args[0])
		},
	}
	return cmd
}

func validateRequest(out io.Writer, requestText string) error {
	d := decomposer.New()
	req := models.NewRequest(requestText, nil)

	plan, err := d.Decompose(req)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	fmt.Fprintf(out, "Pattern: %s\n", plan.Pattern)
	fmt.Fprintf(out, "Estimated total seconds: %d\n", plan.EstTotalSeconds)
	fmt.Fprintf(out, "Subtasks: %d\n\n", len(plan.SubTasks))

	for _, wave := range plan.Waves {
		fmt.Fprintf(out, "Wave %d:\n", wave.Number)
		for _, id := range wave.SubTaskIDs {
			st := plan.SubTaskByID(id)
			if st == nil {
				continue
			}
			deps := "-"
			if len(st.DependsOn) > 0 {
				deps = fmt.Sprintf("%v", st.DependsOn)
			}
			hint := st.WorkerHint
			if hint == "" {
				hint = "(router default)"
			}
			fmt.Fprintf(out, "  - %s  worker=%s  depends_on=%s  ~%ds\n", st.ID, hint, deps, st.EstSeconds)
		}
	}

	return nil
}
