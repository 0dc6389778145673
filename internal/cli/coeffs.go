package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/farkas/internal/compiler"
	"github.com/roach88/farkas/internal/farkas"
	"github.com/roach88/farkas/internal/ir"
	"github.com/roach88/farkas/internal/proof"
)

// CoeffsOptions holds flags for the coeffs command.
type CoeffsOptions struct {
	*RootOptions
	Steps []string
}

// StepCoeffs is the coefficient vector of one step.
type StepCoeffs struct {
	Step         string   `json:"step"`
	Rule         string   `json:"rule"`
	Multipliers  []string `json:"multipliers"`
	Coefficients []string `json:"coefficients,omitempty"`
	Clause       string   `json:"clause,omitempty"`
	ErrorCode    string   `json:"error_code,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// NewCoeffsCommand creates the coeffs command.
func NewCoeffsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CoeffsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "coeffs <file.cue|dir>",
		Short: "Print extracted Farkas coefficients",
		Long: `Print the integer coefficient vector of each certificate step.

Multipliers are read from params[2:], signed by the shape of the
inequality they weight and scaled by the LCD of their denominators.
Assign-bounds steps get an implicit leading 1 for the conclusion's
first literal, and their conclusion is printed as a clause below the
coefficients.

Examples:
  farkas coeffs certs/bound.cue
  farkas coeffs certs/ --step chain --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCoeffs(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Steps, "step", nil, "only print the named steps")

	return cmd
}

func runCoeffs(opts *CoeffsOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	loaded, err := LoadCertificates(path)
	if err != nil {
		return failLoad(formatter, err)
	}
	steps, err := selectSteps(loaded.Steps, opts.Steps)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeArgument, err.Error())
	}

	out := make([]StepCoeffs, len(steps))
	failed := 0
	for i, st := range steps {
		out[i] = stepCoeffs(st)
		if out[i].ErrorCode != "" {
			failed++
		}
	}

	if formatter.JSON() {
		if err := formatter.Success(out); err != nil {
			return err
		}
	} else {
		for _, c := range out {
			if c.ErrorCode != "" {
				fmt.Fprintf(formatter.Writer, "%s [%s] %s: %s\n", c.Step, c.Rule, c.ErrorCode, c.Error)
				continue
			}
			fmt.Fprintf(formatter.Writer, "%s [%s] %s\n", c.Step, c.Rule, strings.Join(c.Coefficients, " "))
			if c.Clause != "" {
				fmt.Fprintf(formatter.Writer, "  clause %s\n", c.Clause)
			}
		}
	}

	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d step(s) have malformed coefficients", failed))
	}
	return nil
}

func stepCoeffs(st compiler.Step) StepCoeffs {
	out := StepCoeffs{Step: st.Name, Rule: st.Rule, Multipliers: []string{}}
	if len(st.Params) > 2 {
		out.Multipliers = st.Params[2:]
	}

	s := ir.NewStore()
	n, err := st.Build(s)
	if err != nil {
		out.ErrorCode = string(farkas.ErrCodeMalformedCertificate)
		out.Error = err.Error()
		return out
	}

	var terms []*ir.Term
	if n.Rule == proof.AssignBounds {
		terms, err = farkas.AssignBoundsCoeffTerms(s, n)
		out.Clause = ir.PrintClause(farkas.Literals(n.Conc()))
	} else {
		terms, err = farkas.FarkasCoeffTerms(s, n)
	}
	if err != nil {
		out.ErrorCode = string(farkas.CodeOf(err))
		out.Error = farkas.MessageOf(err)
		return out
	}

	out.Coefficients = make([]string, len(terms))
	for i, t := range terms {
		out.Coefficients[i] = t.String()
	}
	return out
}
