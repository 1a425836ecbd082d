package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/wavecraft/orchestrator/internal/config"
	"github.com/wavecraft/orchestrator/internal/feedback"
	"github.com/wavecraft/orchestrator/internal/filelock"
)

// NewFeedbackCommand groups the feedback log's read/write maintenance
// subcommands, mirroring the teacher's `learning` command grouping
// `show`/`clear`/`stats`/`export` under one parent.
func NewFeedbackCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Inspect or reset the worker feedback log",
	}
	cmd.AddCommand(newFeedbackShowCommand())
	cmd.AddCommand(newFeedbackClearCommand())
	cmd.AddCommand(newFeedbackCompactCommand())
	return cmd
}

func newFeedbackShowCommand() *cobra.Command {
	var stateDir string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print per-worker success and failure counts from the feedback log",
		Long: `Replays the feedback log through the SQLite read-cache (rebuilding it
first if it has drifted from the log) and prints each worker's success
count, failure count, and success rate.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return feedbackShow(cmd.OutOrStdout(), stateDir)
		},
	}
	cmd.Flags().StringVar(&stateDir, "state-dir", "", "override the resolved state directory")
	return cmd
}

func feedbackShow(out io.Writer, stateDirOverride string) error {
	stateDir, err := resolveStateDir(stateDirOverride)
	if err != nil {
		return fmt.Errorf("feedback show: %w", err)
	}

	cfg, err := config.LoadConfig(configPathFor(stateDir))
	if err != nil {
		return fmt.Errorf("feedback show: %w", err)
	}

	idx, err := feedback.OpenIndex(
		config.FeedbackIndexPath(stateDir, &cfg.Feedback),
		config.FeedbackLogPath(stateDir, &cfg.Feedback),
	)
	if err != nil {
		return fmt.Errorf("feedback show: %w", err)
	}
	defer idx.Close()

	summaries, err := idx.Summaries(time.Time{})
	if err != nil {
		return fmt.Errorf("feedback show: %w", err)
	}

	if len(summaries) == 0 {
		fmt.Fprintln(out, "no feedback recorded yet")
		return nil
	}

	fmt.Fprintf(out, "%-30s %10s %10s %10s\n", "WORKER", "SUCCESSES", "FAILURES", "RATE")
	for _, s := range summaries {
		fmt.Fprintf(out, "%-30s %10d %10d %9.1f%%\n", s.WorkerName, s.SuccessCount, s.FailureCount, s.SuccessRate*100)
	}
	return nil
}

func newFeedbackClearCommand() *cobra.Command {
	var stateDir string
	var force bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Truncate the feedback log",
		Long: `Truncates the feedback log to empty, discarding all learned
per-worker success rates. Asks for confirmation unless --force is given,
mirroring the teacher's learning_clear.go.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return feedbackClear(cmd.InOrStdin(), cmd.OutOrStdout(), stateDir, force)
		},
	}
	cmd.Flags().StringVar(&stateDir, "state-dir", "", "override the resolved state directory")
	cmd.Flags().BoolVar(&force, "force", false, "skip the confirmation prompt")
	return cmd
}

func feedbackClear(in io.Reader, out io.Writer, stateDirOverride string, force bool) error {
	stateDir, err := resolveStateDir(stateDirOverride)
	if err != nil {
		return fmt.Errorf("feedback clear: %w", err)
	}

	cfg, err := config.LoadConfig(configPathFor(stateDir))
	if err != nil {
		return fmt.Errorf("feedback clear: %w", err)
	}

	if !force {
		fmt.Fprintln(out, "WARNING: this will permanently delete all recorded feedback.")
		if !confirmClear(in, out) {
			fmt.Fprintln(out, "Operation cancelled.")
			return nil
		}
	}

	logPath := config.FeedbackLogPath(stateDir, &cfg.Feedback)

	// Guard against truncating the log out from under a running `orchestrate
	// run`, which holds logPath+".lock" only for the duration of a single
	// Record call but would still lose a write racing this truncate.
	lock := filelock.NewFileLock(logPath + ".lock")
	acquired, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("feedback clear: check for concurrent writer: %w", err)
	}
	if !acquired {
		return fmt.Errorf("feedback clear: another process is writing to the feedback log, try again once it finishes")
	}
	defer lock.Unlock()

	if err := os.Truncate(logPath, 0); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("feedback clear: truncate log: %w", err)
	}

	indexPath := config.FeedbackIndexPath(stateDir, &cfg.Feedback)
	if err := os.Remove(indexPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("feedback clear: remove index: %w", err)
	}

	fmt.Fprintln(out, "Feedback log cleared.")
	return nil
}

func newFeedbackCompactCommand() *cobra.Command {
	var stateDir string
	cmd := &cobra.Command{
		Use:   "compact",
		Short: "Rewrite the feedback log, dropping any partial crash-write lines",
		Long: `Opens the feedback log, replays it, and rewrites it atomically keeping
only well-formed records. The learned success-rate table is unaffected;
this only shrinks the file on disk.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return feedbackCompact(cmd.OutOrStdout(), stateDir)
		},
	}
	cmd.Flags().StringVar(&stateDir, "state-dir", "", "override the resolved state directory")
	return cmd
}

func feedbackCompact(out io.Writer, stateDirOverride string) error {
	stateDir, err := resolveStateDir(stateDirOverride)
	if err != nil {
		return fmt.Errorf("feedback compact: %w", err)
	}

	cfg, err := config.LoadConfig(configPathFor(stateDir))
	if err != nil {
		return fmt.Errorf("feedback compact: %w", err)
	}

	store := feedback.NewStore(config.FeedbackLogPath(stateDir, &cfg.Feedback), cfg.Router.EMAAlpha, nil)
	defer store.Close()

	if err := store.Compact(); err != nil {
		return fmt.Errorf("feedback compact: %w", err)
	}

	fmt.Fprintln(out, "Feedback log compacted.")
	return nil
}

func confirmClear(in io.Reader, out io.Writer) bool {
	fmt.Fprint(out, "Continue? [y/N]: ")
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return false
	}
	response := strings.TrimSpace(strings.ToLower(scanner.Text()))
	return response == "y" || response == "yes"
}

func configPathFor(stateDir string) string {
	return filepath.Join(stateDir, "config.yaml")
}
