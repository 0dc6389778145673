package compiler

import (
	stderrors "errors"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// CompileFile compiles every step of a single CUE file.
func CompileFile(path string) ([]Step, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	v := cuecontext.New().CompileBytes(data, cue.Filename(path))
	return CompileValue(v)
}

// CompileValue compiles the "step" struct of a CUE value. Steps are
// returned in declaration order. A value without steps yields none.
func CompileValue(v cue.Value) ([]Step, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	stepsVal := v.LookupPath(cue.ParsePath("step"))
	if !stepsVal.Exists() {
		return nil, nil
	}
	iter, err := stepsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var steps []Step
	for iter.Next() {
		st, err := CompileStep(iter.Value())
		if err != nil {
			return nil, err
		}
		steps = append(steps, *st)
	}
	return steps, nil
}

// CompileStep parses one step struct. The step name is the struct label.
//
// Numbers in params are kept in their exact textual form; strings that
// read as rationals ("1/2") are treated the same as numbers later on.
// The first validation problem is returned as a *CompileError.
func CompileStep(v cue.Value) (*Step, error) {
	st, err := decodeStep(v)
	if err != nil {
		return nil, err
	}
	if errs := Validate(st); len(errs) > 0 {
		return nil, &CompileError{Field: errs[0].Field, Message: errs[0].Message, Pos: v.Pos()}
	}
	return st, nil
}

// ValidateValue reports every problem in the "step" struct of a CUE value
// without stopping at the first. Fields are prefixed with the step path,
// e.g. "step.bound.params[2]". The second result counts the steps seen.
func ValidateValue(v cue.Value) ([]ValidationError, int, error) {
	if err := v.Err(); err != nil {
		return nil, 0, formatCUEError(err)
	}
	stepsVal := v.LookupPath(cue.ParsePath("step"))
	if !stepsVal.Exists() {
		return nil, 0, nil
	}
	iter, err := stepsVal.Fields()
	if err != nil {
		return nil, 0, formatCUEError(err)
	}

	var (
		all   []ValidationError
		count int
	)
	for iter.Next() {
		count++
		prefix := "step." + iter.Label()
		line := 0
		if pos := iter.Value().Pos(); pos.IsValid() {
			line = pos.Line()
		}

		st, err := decodeStep(iter.Value())
		if err != nil {
			ve := ValidationError{Field: prefix, Message: err.Error(), Code: ErrInvalidCertificate, Line: line}
			var ce *CompileError
			if stderrors.As(err, &ce) {
				ve.Field = prefix + "." + ce.Field
				ve.Message = ce.Message
				if ce.Pos.IsValid() {
					ve.Line = ce.Pos.Line()
				}
			}
			all = append(all, ve)
			continue
		}
		for _, ve := range Validate(st) {
			ve.Field = prefix + "." + ve.Field
			ve.Line = line
			all = append(all, ve)
		}
	}
	return all, count, nil
}

func decodeStep(v cue.Value) (*Step, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	st := &Step{}
	if labels := v.Path().Selectors(); len(labels) > 0 {
		st.Name = labels[len(labels)-1].String()
	}

	ruleVal := v.LookupPath(cue.ParsePath("rule"))
	if !ruleVal.Exists() {
		return nil, &CompileError{Field: "rule", Message: "rule is required", Pos: v.Pos()}
	}
	rule, err := ruleVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	st.Rule = rule

	if declVal := v.LookupPath(cue.ParsePath("declare")); declVal.Exists() {
		st.Declare = make(map[string]string)
		iter, err := declVal.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			sort, err := iter.Value().String()
			if err != nil {
				return nil, formatCUEError(err)
			}
			st.Declare[iter.Label()] = sort
		}
	}

	paramsVal := v.LookupPath(cue.ParsePath("params"))
	if !paramsVal.Exists() {
		return nil, &CompileError{Field: "params", Message: "params is required", Pos: v.Pos()}
	}
	if st.Params, err = compileParams(paramsVal); err != nil {
		return nil, err
	}

	if premVal := v.LookupPath(cue.ParsePath("premises")); premVal.Exists() {
		if st.Premises, err = stringList(premVal); err != nil {
			return nil, err
		}
	}

	if concVal := v.LookupPath(cue.ParsePath("conclusion")); concVal.Exists() {
		if st.Conclusion, err = concVal.String(); err != nil {
			return nil, formatCUEError(err)
		}
	}

	return st, nil
}

func compileParams(v cue.Value) ([]string, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []string
	for i := 0; iter.Next(); i++ {
		e := iter.Value()
		switch e.Kind() {
		case cue.StringKind:
			s, err := e.String()
			if err != nil {
				return nil, formatCUEError(err)
			}
			out = append(out, s)
		case cue.IntKind, cue.FloatKind, cue.NumberKind:
			raw, err := e.MarshalJSON()
			if err != nil {
				return nil, formatCUEError(err)
			}
			out = append(out, string(raw))
		default:
			return nil, &CompileError{
				Field:   fmt.Sprintf("params[%d]", i),
				Message: fmt.Sprintf("expected number or string, got %s", e.Kind()),
				Pos:     e.Pos(),
			}
		}
	}
	return out, nil
}

func stringList(v cue.Value) ([]string, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}

// CompileError reports a certificate that cannot be compiled.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &CompileError{Field: "cue", Message: err.Error()}
	}

	// Return first error with position info
	firstErr := errs[0]
	ce := &CompileError{Field: "cue", Message: firstErr.Error()}
	if positions := errors.Positions(firstErr); len(positions) > 0 {
		ce.Pos = positions[0]
	}
	return ce
}
