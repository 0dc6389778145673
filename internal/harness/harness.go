package harness

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/roach88/farkas/internal/engine"
	"github.com/roach88/farkas/internal/farkas"
	"github.com/roach88/farkas/internal/ir"
	"github.com/roach88/farkas/internal/store"
)

// Harness holds the per-scenario execution context.
type Harness struct {
	store  *store.Store
	engine *engine.Engine
	runID  string
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory log for isolation.
//
// Execution flow:
// 1. Enqueue every step on an engine backed by the log
// 2. Run the engine and read the checks back in seq order
// 3. Compare each logged check with its step's expect clause
// 4. Evaluate idiv cases
// 5. Evaluate assertions
//
// The returned error is non-nil only when the scenario could not be run;
// mismatches are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, nil)
}

// RunWithLogger is Run with engine logging sent to logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	st, err := store.Open(store.MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	runID := scenario.RunID
	if runID == "" {
		runID = DefaultRunID
	}

	h := &Harness{
		store: st,
		engine: engine.New(
			engine.WithStore(st),
			engine.WithRunIDGenerator(engine.NewFixedGenerator(runID)),
			engine.WithLogger(logger),
		),
		runID:  runID,
		logger: logger,
	}

	ctx := context.Background()
	result := NewResult(runID)

	if err := h.executeSteps(ctx, scenario, result); err != nil {
		return nil, fmt.Errorf("failed to execute steps: %w", err)
	}

	h.executeIdiv(scenario, result)

	actx := &AssertionContext{Store: st, Ctx: ctx}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	return result, nil
}

func (h *Harness) executeSteps(ctx context.Context, scenario *Scenario, result *Result) error {
	if len(scenario.Steps) == 0 {
		return nil
	}

	for _, sc := range scenario.Steps {
		st := sc.Step
		st.Declare = mergeDeclare(scenario.Declare, st.Declare)
		if err := h.engine.Enqueue(st); err != nil {
			return err
		}
	}

	report, err := h.engine.Run(ctx, scenario.Name)
	if err != nil {
		return err
	}

	records, err := h.store.ReadChecks(ctx, report.RunID)
	if err != nil {
		return err
	}

	byName := make(map[string]store.CheckRecord, len(records))
	for _, rec := range records {
		byName[rec.Step] = rec
		result.addEvent(checkEvent(rec))
	}

	for _, sc := range scenario.Steps {
		if sc.Expect == nil {
			continue
		}
		rec, ok := byName[sc.Name]
		if !ok {
			result.AddError(fmt.Sprintf("step %q: not found in check log", sc.Name))
			continue
		}
		for _, msg := range compareStep(rec, sc.Expect) {
			result.AddError(fmt.Sprintf("step %q: %s", sc.Name, msg))
		}
	}
	return nil
}

func checkEvent(rec store.CheckRecord) TraceEvent {
	e := TraceEvent{Type: EventCheck, Seq: rec.Seq, Step: rec.Step, Rule: rec.Rule}
	if rec.ErrorCode != "" {
		e.Error = rec.ErrorCode
		return e
	}
	e.Coefficients = rec.Coefficients
	e.LCD = rec.LCD
	e.Inequality = rec.Inequality
	e.Contradiction = rec.Contradiction
	return e
}

func compareStep(rec store.CheckRecord, want *StepExpect) []string {
	var errs []string
	if want.Error != "" {
		if rec.ErrorCode != want.Error {
			errs = append(errs, fmt.Sprintf("expected error %s, got %q (%s)", want.Error, rec.ErrorCode, rec.ErrorMessage))
		}
		return errs
	}
	if rec.ErrorCode != "" {
		return append(errs, fmt.Sprintf("unexpected error %s: %s", rec.ErrorCode, rec.ErrorMessage))
	}
	if want.Coefficients != nil && !slices.Equal(want.Coefficients, rec.Coefficients) {
		errs = append(errs, fmt.Sprintf("coefficients: expected %v, got %v", want.Coefficients, rec.Coefficients))
	}
	if want.LCD != "" && want.LCD != rec.LCD {
		errs = append(errs, fmt.Sprintf("lcd: expected %s, got %s", want.LCD, rec.LCD))
	}
	if want.Inequality != "" && want.Inequality != rec.Inequality {
		errs = append(errs, fmt.Sprintf("inequality: expected %s, got %s", want.Inequality, rec.Inequality))
	}
	if want.Contradiction != nil && *want.Contradiction != rec.Contradiction {
		errs = append(errs, fmt.Sprintf("contradiction: expected %v, got %v", *want.Contradiction, rec.Contradiction))
	}
	return errs
}

// executeIdiv evaluates idiv cases. Their seq numbers continue after the
// last check.
func (h *Harness) executeIdiv(scenario *Scenario, result *Result) {
	seq := int64(len(result.Trace))
	for i, c := range scenario.Idiv {
		seq++
		e := TraceEvent{Type: EventIdiv, Seq: seq, Term: c.Term, Divisor: c.Divisor}

		out, err := evalIdiv(scenario.Declare, c)
		if err != nil {
			e.Error = errorCode(err)
		} else {
			e.Output = out
		}
		result.addEvent(e)

		switch {
		case c.Error != "" && e.Error != c.Error:
			result.AddError(fmt.Sprintf("idiv[%d]: expected error %s, got %q", i, c.Error, e.Error))
		case c.Error == "" && err != nil:
			result.AddError(fmt.Sprintf("idiv[%d]: unexpected error: %v", i, err))
		case c.Expect != "" && out != c.Expect:
			result.AddError(fmt.Sprintf("idiv[%d]: expected %s, got %s", i, c.Expect, out))
		}
	}
}

func evalIdiv(declare map[string]string, c IdivCase) (string, error) {
	s := ir.NewStore()
	for _, name := range slices.Sorted(maps.Keys(declare)) {
		sort, err := ir.ParseSort(declare[name])
		if err != nil {
			return "", fmt.Errorf("declare %s: %w", name, err)
		}
		if err := s.Declare(name, sort); err != nil {
			return "", err
		}
	}

	t, err := s.Parse(c.Term)
	if err != nil {
		return "", fmt.Errorf("term: %w", err)
	}
	d, err := s.Parse(c.Divisor)
	if err != nil {
		return "", fmt.Errorf("divisor: %w", err)
	}
	out, err := farkas.MkIdivTerm(s, t, d)
	if err != nil {
		return "", err
	}
	return out.String(), nil
}

// errorCode returns the farkas code of err, or "PARSE_ERROR" for
// unreadable input, or the message.
func errorCode(err error) string {
	if code := farkas.CodeOf(err); code != "" {
		return string(code)
	}
	if ir.IsParseError(err) {
		return "PARSE_ERROR"
	}
	return err.Error()
}

func mergeDeclare(shared, own map[string]string) map[string]string {
	if len(shared) == 0 {
		return own
	}
	out := maps.Clone(shared)
	maps.Copy(out, own)
	return out
}
