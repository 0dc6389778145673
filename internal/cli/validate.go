package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/farkas/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                       `json:"valid"`
	Steps  int                        `json:"steps"`
	Errors []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file.cue|dir>",
		Short: "Validate certificates without checking them",
		Long: `Validate CUE certificate files without checking any step.

Reports every problem in every step: unknown rules, missing rule tags,
multipliers that are not rationals, unknown sorts, formulas that do not
parse and multiplier counts that do not match. Faster than check for
development feedback.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	value, files, err := LoadValue(path)
	if err != nil {
		return failLoad(formatter, err)
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", files, path)

	errs, steps, err := compiler.ValidateValue(value)
	if err != nil {
		return failLoad(formatter, convertCompileError(err))
	}
	if steps == 0 {
		return formatter.Fail(ExitCommandError, ErrCodeNoSteps, fmt.Sprintf("no certificate steps found in %s", path))
	}
	formatter.VerboseLog("Validated %d step(s)", steps)

	if len(errs) > 0 {
		return outputValidationErrors(formatter, steps, errs)
	}
	return outputValidateSuccess(formatter, steps)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(f *OutputFormatter, steps int) error {
	if f.JSON() {
		return f.Success(ValidationResult{Valid: true, Steps: steps})
	}
	fmt.Fprintf(f.Writer, "✓ All %d step(s) valid\n", steps)
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(f *OutputFormatter, steps int, errs []compiler.ValidationError) error {
	if f.JSON() {
		response := CLIResponse{
			Status: "error",
			Data: ValidationResult{
				Valid:  false,
				Steps:  steps,
				Errors: errs,
			},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}
		if err := f.encode(response); err != nil {
			return err
		}
		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(f.Writer, "✗ Validation failed")
	fmt.Fprintln(f.Writer)
	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(f.Writer, "line %d: %s\n", err.Line, err.Field)
		} else {
			fmt.Fprintln(f.Writer, err.Field)
		}
		fmt.Fprintf(f.Writer, "  %s: %s\n\n", err.Code, err.Message)
	}

	// Validation failures = exit code 1 (test/validation failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
