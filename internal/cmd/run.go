package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/wavecraft/orchestrator/internal/coordinator"
	"github.com/wavecraft/orchestrator/internal/models"
	"github.com/wavecraft/orchestrator/internal/render"
)

// Exit codes per the CLI surface's contract: 0 all subtasks succeeded, 2 at
// least one subtask failed but a report was produced, 1 internal/invariant
// error with no report.
const (
	exitSuccess        = 0
	exitInternalError  = 1
	exitPartialFailure = 2
)

// NewRunCommand creates the run command, the primary `execute` entry
// point.
func NewRunCommand() *cobra.Command {
	var (
		traceFlag   bool
		quietFlag   bool
		verboseFlag bool
		formatFlag  string
		timeoutSecs int
		configPath  string
		stateDir    string
		logDir      string
	)

	cmd := &cobra.Command{
		Use:   "run \"<free-text request>\"",
		Short: "Decompose a request and execute it to a report",
		Long: `Classifies the request's pattern, expands it into a subtask DAG,
partitions the DAG into waves, and executes wave by wave, dispatching each
subtask to a worker process through the router and bridge. Prints the
resulting report in the requested format.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := runRequest(cmd, args[0], runOptions{
				trace:       traceFlag,
				quiet:       quietFlag,
				verbose:     verboseFlag,
				format:      formatFlag,
				timeoutSecs: timeoutSecs,
				timeoutSet:  cmd.Flags().Changed("timeout"),
				configPath:  configPath,
				stateDir:    stateDir,
				logDir:      logDir,
			})
			if err != nil {
				return err
			}
			if code != exitSuccess {
				os.Exit(code)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&traceFlag, "trace", false, "attach the execution trace to the report")
	cmd.Flags().BoolVar(&quietFlag, "quiet", false, "suppress narrative progress output")
	cmd.Flags().BoolVar(&verboseFlag, "verbose", false, "no effect on output; per-subtask result lines are printed only at debug log level")
	cmd.Flags().StringVar(&formatFlag, "format", "text", "output format: text, markdown, json, html")
	cmd.Flags().IntVar(&timeoutSecs, "timeout", 0, "per-subtask timeout in seconds (omit for the configured default; 0 times out every subtask immediately)")
	cmd.Flags().StringVar(&configPath, "config", "", "path to config.yaml (default: <state-dir>/config.yaml)")
	cmd.Flags().StringVar(&stateDir, "state-dir", "", "override the resolved state directory")
	cmd.Flags().StringVar(&logDir, "log-dir", "", "also write a plain-text run log under this directory")

	return cmd
}

type runOptions struct {
	trace       bool
	quiet       bool
	verbose     bool
	format      string
	timeoutSecs int
	timeoutSet  bool
	configPath  string
	stateDir    string
	logDir      string
}

// runRequest wires the collaborators, executes the request, renders the
// report, and returns the process exit code.
func runRequest(cmd *cobra.Command, requestText string, opts runOptions) (int, error) {
	outFormat, err := render.ParseFormat(opts.format)
	if err != nil {
		return exitInternalError, err
	}

	deps, err := newDependencies(opts.stateDir, opts.configPath, opts.logDir, opts.quiet)
	if err != nil {
		return exitInternalError, err
	}
	defer deps.feedbackStore.Close()
	if deps.fileLogger != nil {
		defer deps.fileLogger.Close()
	}

	timeout := time.Duration(opts.timeoutSecs) * time.Second

	coord := coordinator.New(
		deps.decomposer, deps.router, deps.bridge, deps.synthesizer,
		deps.feedbackStore, deps.logger, deps.defaultTimeout,
		deps.cfg.Budget.PriceTable, deps.cfg.Budget.DefaultModel,
	)

	req := models.NewRequest(requestText, nil)
	report, err := coord.Execute(context.Background(), req, coordinator.Options{
		Verbose:    opts.verbose,
		Trace:      opts.trace,
		Timeout:    timeout,
		TimeoutSet: opts.timeoutSet,
		Quiet:      opts.quiet,
	})
	if err != nil {
		return exitInternalError, fmt.Errorf("run: %w", err)
	}

	renderOpts := render.Options{Color: deps.cfg.Console.EnableColor && !opts.quiet}
	if err := render.Render(report, outFormat, cmd.OutOrStdout(), renderOpts); err != nil {
		return exitInternalError, fmt.Errorf("run: %w", err)
	}

	if report.Cancelled || anySectionFailed(report) {
		return exitPartialFailure, nil
	}
	return exitSuccess, nil
}

func anySectionFailed(report *models.Report) bool {
	for _, sec := range report.Sections {
		if sec.Failed {
			return true
		}
	}
	return false
}
