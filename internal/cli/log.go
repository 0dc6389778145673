package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/farkas/internal/query"
	"github.com/roach88/farkas/internal/store"
)

// RunView is the JSON form of one logged run.
type RunView struct {
	ID            string `json:"id"`
	Source        string `json:"source"`
	EngineVersion string `json:"engine_version"`
	IRVersion     string `json:"ir_version"`
	Checks        int    `json:"checks"`
	Rejected      int    `json:"rejected"`
}

// RunChecks is the JSON payload of "log <run-id>".
type RunChecks struct {
	RunID  string      `json:"run_id"`
	Checks []CheckView `json:"checks"`
}

// LogOptions holds log-specific options.
type LogOptions struct {
	*RootOptions
	Rule      string
	Step      string
	ErrorCode string
}

// filter narrows a run's checks to the requested rule, step and error code.
func (o *LogOptions) filter() query.Predicate {
	where := map[string]any{}
	if o.Rule != "" {
		where["rule"] = o.Rule
	}
	if o.Step != "" {
		where["step"] = o.Step
	}
	if o.ErrorCode != "" {
		where["error_code"] = o.ErrorCode
	}
	return query.Where(where)
}

// NewLogCommand creates the log command.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "log [run-id]",
		Short: "Show the certificate log",
		Long: `List the runs recorded in the certificate log, or the checks of one run.

The log is the SQLite database written by "farkas check --db".

Examples:
  farkas log --db farkas.db
  farkas log --db farkas.db 0192f3c4-... --format json
  farkas log --db farkas.db 0192f3c4-... --error-code NOT_AN_INEQUALITY`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := ""
			if len(args) == 1 {
				runID = args[0]
			}
			return runLog(opts, runID, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Rule, "rule", "", "Only show checks of this rule (with a run ID)")
	cmd.Flags().StringVar(&opts.Step, "step", "", "Only show the named step (with a run ID)")
	cmd.Flags().StringVar(&opts.ErrorCode, "error-code", "", "Only show checks rejected with this code (with a run ID)")

	return cmd
}

func runLog(opts *LogOptions, runID string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.DB == "" {
		return formatter.Fail(ExitCommandError, ErrCodeArgument, "--db is required (or set FARKAS_DB)")
	}
	st, err := store.Open(opts.DB)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, fmt.Sprintf("opening %s: %v", opts.DB, err))
	}
	defer st.Close()

	ctx := cmd.Context()
	if runID == "" {
		runs, err := st.ReadRuns(ctx)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDatabase, err.Error())
		}
		return outputRuns(formatter, runs)
	}

	n, err := st.CountChecks(ctx, runID)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, err.Error())
	}
	if n == 0 {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("no checks recorded for run %s", runID))
	}
	checks, err := st.FindChecks(ctx, runID, opts.filter())
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, err.Error())
	}

	views := make([]CheckView, len(checks))
	for i, c := range checks {
		views[i] = newCheckView(c)
	}
	if formatter.JSON() {
		return formatter.Success(RunChecks{RunID: runID, Checks: views})
	}
	if len(views) == 0 {
		fmt.Fprintf(formatter.Writer, "No checks in run %s match %s.\n", runID, query.Describe(opts.filter()))
		return nil
	}
	writeCheckText(formatter.Writer, views)
	return nil
}

func outputRuns(f *OutputFormatter, runs []store.RunRecord) error {
	views := make([]RunView, len(runs))
	for i, r := range runs {
		views[i] = RunView{
			ID:            r.ID,
			Source:        r.Source,
			EngineVersion: r.EngineVersion,
			IRVersion:     r.IRVersion,
			Checks:        r.Checks,
			Rejected:      r.Rejected,
		}
	}
	if f.JSON() {
		return f.Success(views)
	}

	if len(views) == 0 {
		fmt.Fprintln(f.Writer, "No runs recorded.")
		return nil
	}
	tw := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSOURCE\tCHECKS\tREJECTED")
	for _, v := range views {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", v.ID, v.Source, v.Checks, v.Rejected)
	}
	return tw.Flush()
}
