package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/farkas/internal/compiler"
	"github.com/roach88/farkas/internal/engine"
	"github.com/roach88/farkas/internal/store"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Steps []string // restrict the run to these step names
}

// CheckResult is the JSON payload of the check command.
type CheckResult struct {
	RunID    string      `json:"run_id"`
	Source   string      `json:"source"`
	Steps    []CheckView `json:"steps"`
	Accepted int         `json:"accepted"`
	Rejected int         `json:"rejected"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <file.cue|dir>",
		Short: "Check certificate steps",
		Long: `Compile certificate steps and check each one.

A step is accepted when its weighted sum simplifies to a constant false
inequality. Steps are checked in parallel (--workers) and reported in
declaration order. With --db the run is appended to the certificate log.

Exit codes:
  0 - Every step is a valid refutation
  1 - One or more steps were rejected
  2 - Command error (bad path, compile error, database error)

Examples:
  farkas check certs/bound.cue
  farkas check certs/ --workers 8 --db farkas.db
  farkas check certs/ --step bound --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Steps, "step", nil, "only check the named steps")

	return cmd
}

func runCheck(opts *CheckOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	loaded, err := LoadCertificates(path)
	if err != nil {
		return failLoad(formatter, err)
	}
	formatter.VerboseLog("Loaded %d step(s) from %d CUE file(s)", len(loaded.Steps), loaded.FileCount)

	steps, err := selectSteps(loaded.Steps, opts.Steps)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeArgument, err.Error())
	}

	engineOpts := []engine.EngineOption{
		engine.WithWorkers(opts.Workers),
		engine.WithLogger(newLogger(opts.RootOptions, formatter.GetErrWriter())),
	}
	if opts.DB != "" {
		st, err := store.Open(opts.DB)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDatabase, fmt.Sprintf("opening %s: %v", opts.DB, err))
		}
		defer st.Close()
		engineOpts = append(engineOpts, engine.WithStore(st))
	}

	eng := engine.New(engineOpts...)
	if err := eng.EnqueueAll(steps); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeCompile, err.Error())
	}

	report, err := eng.Run(cmd.Context(), path)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, err.Error())
	}

	result := CheckResult{
		RunID:  report.RunID,
		Source: path,
		Steps:  make([]CheckView, len(report.Outcomes)),
	}
	for i, o := range report.Outcomes {
		result.Steps[i] = newCheckView(o.Record(report.RunID))
	}
	result.Rejected = report.Rejected()
	result.Accepted = len(result.Steps) - result.Rejected

	if err := outputCheck(formatter, result); err != nil {
		return err
	}
	if result.Rejected > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d step(s) rejected", result.Rejected))
	}
	return nil
}

// selectSteps keeps the named steps, in declaration order. An empty
// filter keeps everything.
func selectSteps(steps []compiler.Step, names []string) ([]compiler.Step, error) {
	if len(names) == 0 {
		return steps, nil
	}
	var out []compiler.Step
	for _, st := range steps {
		if slices.Contains(names, st.Name) {
			out = append(out, st)
		}
	}
	for _, name := range names {
		if !slices.ContainsFunc(out, func(st compiler.Step) bool { return st.Name == name }) {
			return nil, fmt.Errorf("step %q not found", name)
		}
	}
	return out, nil
}

// newLogger returns the engine logger: debug-level text on stderr when
// verbose, discarded otherwise.
func newLogger(opts *RootOptions, w io.Writer) *slog.Logger {
	if !opts.Verbose {
		return nil
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func outputCheck(f *OutputFormatter, result CheckResult) error {
	if f.JSON() {
		resp := CLIResponse{Status: "ok", Data: result, RunID: result.RunID}
		if result.Rejected > 0 {
			resp.Status = "error"
			resp.Error = &CLIError{
				Code:    "E_REJECTED",
				Message: fmt.Sprintf("%d step(s) rejected", result.Rejected),
			}
		}
		return f.encode(resp)
	}

	w := f.Writer
	writeCheckText(w, result.Steps)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Check Summary: %d accepted, %d rejected, %d total (run %s)\n",
		result.Accepted, result.Rejected, len(result.Steps), result.RunID)
	return nil
}
