package cli

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/farkas/internal/farkas"
	"github.com/roach88/farkas/internal/ir"
	"github.com/roach88/farkas/internal/simplify"
)

// TermOptions holds flags shared by the term commands (sum, idiv, simplify).
type TermOptions struct {
	*RootOptions
	Declare map[string]string // symbol -> Bool | Int | Real
	Pretty  bool
}

// SumOptions holds flags for the sum command.
type SumOptions struct {
	TermOptions
	Coeffs []string
	Ineqs  []string
}

// SumResult is the output of the sum command.
type SumResult struct {
	Inequality    string `json:"inequality"`
	Contradiction bool   `json:"contradiction"`
}

// TermResult is the output of the idiv and simplify commands.
type TermResult struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

func addTermFlags(cmd *cobra.Command, opts *TermOptions) {
	cmd.Flags().StringToStringVar(&opts.Declare, "declare", nil, "symbol sorts, e.g. r=Real,b=Bool (default Int)")
	cmd.Flags().BoolVar(&opts.Pretty, "pretty", false, "break text output over indented lines when it is wider than 79 columns")
}

// NewSumCommand creates the sum command.
func NewSumCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SumOptions{TermOptions: TermOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "sum --coeff c --ineq formula [--coeff c --ineq formula ...]",
		Short: "Sum weighted inequalities",
		Long: `Add up c1*q1 + c2*q2 + ... starting from (<= 0 0).

Each inequality is first rewritten as "0 REL rhs" according to its
relation and negation; the sum is strict if any summand is. The result is
simplified but keeps its relation, so a refutation prints as e.g.
(<= 0 -2).

Examples:
  farkas sum --coeff 1 --ineq "(<= x (- 1))" --coeff 1 --ineq "(>= x 1)"
  farkas sum --declare r=Real --coeff 1 --ineq "(<= (* 2 r) 1)" --coeff 2 --ineq "(> r 1)"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSum(opts, cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Coeffs, "coeff", nil, "coefficient, repeated once per inequality")
	cmd.Flags().StringArrayVar(&opts.Ineqs, "ineq", nil, "inequality, repeated")
	addTermFlags(cmd, &opts.TermOptions)

	return cmd
}

func runSum(opts *SumOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if len(opts.Ineqs) == 0 {
		return formatter.Fail(ExitCommandError, ErrCodeArgument, "at least one --ineq is required")
	}
	if len(opts.Coeffs) != len(opts.Ineqs) {
		return formatter.Fail(ExitCommandError, ErrCodeArgument,
			fmt.Sprintf("%d --coeff values for %d --ineq values", len(opts.Coeffs), len(opts.Ineqs)))
	}

	s, err := newTermStore(opts.Declare)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeArgument, err.Error())
	}
	coeffs, err := parseTerms(s, "--coeff", opts.Coeffs)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeParse, err.Error())
	}
	ineqs, err := parseTerms(s, "--ineq", opts.Ineqs)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeParse, err.Error())
	}

	sum, err := farkas.SumInequalities(s, coeffs, ineqs)
	if err != nil {
		return failCertificate(formatter, err)
	}

	result := SumResult{
		Inequality:    sum.String(),
		Contradiction: simplify.IsFalseConstantIneq(sum),
	}
	if formatter.JSON() {
		return formatter.Success(result)
	}
	if err := writeTerm(formatter, &opts.TermOptions, sum); err != nil {
		return err
	}
	formatter.VerboseLog("contradiction: %t", result.Contradiction)
	return nil
}

// NewIdivCommand creates the idiv command.
func NewIdivCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TermOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "idiv <term> <divisor>",
		Short: "Split an integer division",
		Long: `Rewrite (div term divisor) with the exactly divisible part pulled out.

The term is simplified first. For a positive integer divisor d every
monomial whose coefficient d divides moves outside the division:

  farkas idiv "(+ (* 4 x) 3)" 2        prints (+ 1 (* 2 x))

A divisor of 1 returns the simplified term. A divisor that is not a
numeral gives the plain (div term divisor).`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIdiv(opts, args[0], args[1], cmd)
		},
	}
	addTermFlags(cmd, opts)

	return cmd
}

func runIdiv(opts *TermOptions, term, divisor string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	s, err := newTermStore(opts.Declare)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeArgument, err.Error())
	}
	parsed, err := parseTerms(s, "argument", []string{term, divisor})
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeParse, err.Error())
	}

	out, err := farkas.MkIdivTerm(s, parsed[0], parsed[1])
	if err != nil {
		return failCertificate(formatter, err)
	}
	return outputTerm(formatter, opts, parsed[0], out)
}

// NewSimplifyCommand creates the simplify command.
func NewSimplifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TermOptions{RootOptions: rootOpts}
	var keepRelation bool

	cmd := &cobra.Command{
		Use:   "simplify <term>",
		Short: "Normalise a term",
		Long: `Print the normal form of a term.

Arithmetic becomes a linear polynomial: constant first, then monomials
ordered by their atom. Relations between numerals fold to true or false
unless --keep-relation is given.

With --pretty, a result wider than 79 columns is printed with one
argument per line, indented by nesting depth.

Examples:
  farkas simplify "(+ y (* 2 x) 1 x)"      prints (+ 1 (* 3 x) y)
  farkas simplify --keep-relation "(<= 0 (+ 1 (- 3)))"
  farkas simplify --pretty "(+ first_long_symbol second_long_symbol ...)"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd)
			s, err := newTermStore(opts.Declare)
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeArgument, err.Error())
			}
			t, err := s.Parse(args[0])
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeParse, err.Error())
			}
			out := simplify.Simplify(s, t)
			if keepRelation {
				out = simplify.SimplifyIneq(s, t)
			}
			return outputTerm(formatter, opts, t, out)
		},
	}
	addTermFlags(cmd, opts)
	cmd.Flags().BoolVar(&keepRelation, "keep-relation", false, "simplify the sides of a relation but keep it")

	return cmd
}

// newTermStore returns a store with the given symbol sorts declared.
func newTermStore(declare map[string]string) (*ir.Store, error) {
	s := ir.NewStore()
	for _, name := range slices.Sorted(maps.Keys(declare)) {
		sort, err := ir.ParseSort(declare[name])
		if err != nil {
			return nil, fmt.Errorf("--declare %s: %w", name, err)
		}
		if err := s.Declare(name, sort); err != nil {
			return nil, fmt.Errorf("--declare %s: %w", name, err)
		}
	}
	return s, nil
}

func parseTerms(s *ir.Store, what string, srcs []string) ([]*ir.Term, error) {
	out := make([]*ir.Term, len(srcs))
	for i, src := range srcs {
		t, err := s.Parse(src)
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", what, src, err)
		}
		out[i] = t
	}
	return out, nil
}

// failCertificate reports a farkas error under its own code.
func failCertificate(f *OutputFormatter, err error) error {
	code := string(farkas.CodeOf(err))
	if code == "" {
		code = ErrCodeGeneric
	}
	return f.Fail(ExitFailure, code, farkas.MessageOf(err))
}

func outputTerm(f *OutputFormatter, opts *TermOptions, in, out *ir.Term) error {
	if f.JSON() {
		return f.Success(TermResult{Input: in.String(), Output: out.String()})
	}
	return writeTerm(f, opts, out)
}

// writeTerm prints t on one line, or indented with --pretty.
func writeTerm(f *OutputFormatter, opts *TermOptions, t *ir.Term) error {
	if opts.Pretty {
		return ir.PrettyPrint(f.Writer, t)
	}
	_, err := fmt.Fprintln(f.Writer, t)
	return err
}
