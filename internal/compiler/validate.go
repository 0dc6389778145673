package compiler

import (
	"fmt"
	"slices"

	"github.com/roach88/farkas/internal/ir"
	"github.com/roach88/farkas/internal/proof"
)

// Validation error codes (E100-E199)
const (
	ErrInvalidRule        = "E101" // rule is not farkas or assign-bounds
	ErrMissingRuleTags    = "E102" // fewer than two leading params
	ErrNonRationalParam   = "E103" // multiplier is not a rational
	ErrInvalidSort        = "E104" // declare names an unknown sort
	ErrInvalidFormula     = "E105" // premise or conclusion does not parse
	ErrMultiplierMismatch = "E106" // multiplier count does not match premises or literals
	ErrInvalidCertificate = "E107" // step struct cannot be decoded
)

// ValidationError represents a certificate validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks that a step is a well-formed certificate for its rule.
// Returns all errors found (does not fail-fast).
func Validate(st *Step) []ValidationError {
	var errs []ValidationError

	rule, err := proof.ParseRule(st.Rule)
	if err != nil || (rule != proof.FarkasLemma && rule != proof.AssignBounds) {
		errs = append(errs, ValidationError{
			Field:   "rule",
			Message: fmt.Sprintf("rule %q must be %q or %q", st.Rule, proof.FarkasLemma, proof.AssignBounds),
			Code:    ErrInvalidRule,
		})
	}

	if len(st.Params) < 2 {
		errs = append(errs, ValidationError{
			Field:   "params",
			Message: fmt.Sprintf("need at least 2 leading rule tags, got %d params", len(st.Params)),
			Code:    ErrMissingRuleTags,
		})
	}
	for i := 2; i < len(st.Params); i++ {
		if _, ok := proof.ParseParam(st.Params[i]).(proof.RationalParam); !ok {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("params[%d]", i),
				Message: fmt.Sprintf("multiplier %q is not a rational", st.Params[i]),
				Code:    ErrNonRationalParam,
			})
		}
	}

	s := ir.NewStore()
	names := make([]string, 0, len(st.Declare))
	for name := range st.Declare {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		sort, err := ir.ParseSort(st.Declare[name])
		if err != nil {
			errs = append(errs, ValidationError{Field: "declare." + name, Message: err.Error(), Code: ErrInvalidSort})
			continue
		}
		// Names are unique map keys, so Declare cannot conflict.
		_ = s.Declare(name, sort)
	}

	for i, src := range st.Premises {
		if _, err := s.Parse(src); err != nil {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("premises[%d]", i), Message: err.Error(), Code: ErrInvalidFormula})
		}
	}
	concSrc := st.Conclusion
	if concSrc == "" {
		concSrc = DefaultConclusion
	}
	conc, concErr := s.Parse(concSrc)
	if concErr != nil {
		errs = append(errs, ValidationError{Field: "conclusion", Message: concErr.Error(), Code: ErrInvalidFormula})
	}

	if len(st.Params) >= 2 {
		multipliers := len(st.Params) - 2
		switch {
		case rule == proof.FarkasLemma && multipliers != len(st.Premises):
			errs = append(errs, ValidationError{
				Field:   "premises",
				Message: fmt.Sprintf("%d multipliers for %d premises", multipliers, len(st.Premises)),
				Code:    ErrMultiplierMismatch,
			})
		case rule == proof.AssignBounds && concErr == nil && multipliers+1 != literalCount(conc):
			errs = append(errs, ValidationError{
				Field:   "conclusion",
				Message: fmt.Sprintf("%d multipliers for %d literals, want one fewer", multipliers, literalCount(conc)),
				Code:    ErrMultiplierMismatch,
			})
		}
	}

	return errs
}

func literalCount(conc *ir.Term) int {
	if conc.Op() == ir.OpOr {
		return conc.NumArgs()
	}
	return 1
}
