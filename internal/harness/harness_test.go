package harness

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/farkas/internal/compiler"
)

func boolPtr(b bool) *bool { return &b }

func TestRun_TestdataScenariosPass(t *testing.T) {
	files, err := FindScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, path := range files {
		t.Run(path, func(t *testing.T) {
			s, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_ReportsMismatches(t *testing.T) {
	s := &Scenario{
		Name:        "mismatch",
		Description: "every expectation is wrong",
		Steps: []StepCase{
			{
				Step: compiler.Step{
					Name:     "bound",
					Rule:     "farkas",
					Params:   []string{"arith", "farkas", "1", "1"},
					Premises: []string{"(<= x (- 1))", "(>= x 1)"},
				},
				Expect: &StepExpect{
					Coefficients:  []string{"1", "1"},
					LCD:           "3",
					Inequality:    "(<= 0 0)",
					Contradiction: boolPtr(false),
				},
			},
			{
				Step: compiler.Step{
					Name:     "expects-error",
					Rule:     "farkas",
					Params:   []string{"arith", "farkas", "1"},
					Premises: []string{"(<= x 1)"},
				},
				Expect: &StepExpect{Error: "NOT_AN_INEQUALITY"},
			},
			{
				Step: compiler.Step{
					Name:     "unexpected-error",
					Rule:     "farkas",
					Params:   []string{"arith", "farkas", "oops"},
					Premises: []string{"(<= x 1)"},
				},
				Expect: &StepExpect{Contradiction: boolPtr(true)},
			},
		},
		Idiv: []IdivCase{
			{Term: "(* 4 x)", Divisor: "2", Expect: "x"},
			{Term: "x", Divisor: "2", Error: "MALFORMED_CERTIFICATE"},
			{Term: "x", Divisor: "0"},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)

	joined := ""
	for _, e := range result.Errors {
		joined += e + "\n"
	}
	assert.Contains(t, joined, `step "bound": coefficients: expected [1 1], got [1 -1]`)
	assert.Contains(t, joined, `step "bound": lcd: expected 3, got 1`)
	assert.Contains(t, joined, `step "bound": inequality: expected (<= 0 0), got (<= 0 -2)`)
	assert.Contains(t, joined, `step "bound": contradiction: expected false, got true`)
	assert.Contains(t, joined, `step "expects-error": expected error NOT_AN_INEQUALITY`)
	assert.Contains(t, joined, `step "unexpected-error": unexpected error MALFORMED_CERTIFICATE`)
	assert.Contains(t, joined, `idiv[0]: expected x, got (* 2 x)`)
	assert.Contains(t, joined, `idiv[1]: expected error MALFORMED_CERTIFICATE`)
	assert.Contains(t, joined, `idiv[2]: unexpected error`)
	assert.Len(t, result.Errors, 9)
}

func TestRun_DefaultRunIDAndDeclareMerge(t *testing.T) {
	s := &Scenario{
		Name:        "merge",
		Description: "step declare overrides scenario declare",
		Declare:     map[string]string{"x": "Real"},
		Steps: []StepCase{{
			Step: compiler.Step{
				Name:     "int-x",
				Rule:     "farkas",
				Declare:  map[string]string{"x": "Int"},
				Params:   []string{"arith", "farkas", "1", "1"},
				Premises: []string{"(<= x 1)", "(>= x 0)"},
			},
			Expect: &StepExpect{Inequality: "(<= 0 1)"},
		}},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, DefaultRunID, result.RunID)

	// The caller's step is not modified by the merge.
	assert.Equal(t, map[string]string{"x": "Int"}, s.Steps[0].Declare)
}

func TestRunWithLogger_LogsEngineEvents(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s, err := LoadScenario("testdata/scenarios/farkas_steps.yaml")
	require.NoError(t, err)

	_, err = RunWithLogger(s, logger)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "run_id=farkas-steps")
	assert.Contains(t, buf.String(), "step=broken")
}

func TestMergeDeclare(t *testing.T) {
	assert.Nil(t, mergeDeclare(nil, nil))
	assert.Equal(t, map[string]string{"a": "Int"}, mergeDeclare(nil, map[string]string{"a": "Int"}))
	assert.Equal(t,
		map[string]string{"a": "Int", "b": "Real"},
		mergeDeclare(map[string]string{"a": "Real", "b": "Real"}, map[string]string{"a": "Int"}))
}
