package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/farkas/internal/ir"
	"github.com/roach88/farkas/internal/proof"
)

func TestStepBuild(t *testing.T) {
	st := Step{
		Name:     "bound",
		Rule:     "farkas",
		Declare:  map[string]string{"r": "Real"},
		Params:   []string{"arith", "farkas", "1", "1/2"},
		Premises: []string{"(<= r 1)", "(>= r 2)"},
	}
	s := ir.NewStore()
	n, err := st.Build(s)
	require.NoError(t, err)

	assert.Equal(t, proof.FarkasLemma, n.Rule)
	require.Equal(t, 2, n.NumPrems())
	assert.Equal(t, proof.Asserted, n.Prem(0).Rule)
	assert.Equal(t, "(<= r 1)", n.Prem(0).Conc().String())
	assert.Equal(t, ir.SortReal, n.Prem(0).Conc().Arg(0).Sort())
	assert.True(t, n.Conc().IsFalse(), "default conclusion")

	assert.IsType(t, proof.SymbolParam{}, n.Param(0))
	r, ok := n.Rational(3)
	require.True(t, ok)
	assert.Equal(t, "1/2", r.String())
}

func TestStepBuildErrors(t *testing.T) {
	tests := []struct {
		name  string
		step  Step
		field string
	}{
		{"rule", Step{Rule: "nope"}, "rule"},
		{"sort", Step{Rule: "farkas", Declare: map[string]string{"x": "Float"}}, "declare.x"},
		{"premise", Step{Rule: "farkas", Premises: []string{"(<= x"}}, "premises[0]"},
		{"conclusion", Step{Rule: "farkas", Conclusion: ")"}, "conclusion"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.step.Build(ir.NewStore())
			require.Error(t, err)
			var ce *CompileError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestStepBuildConflictingDeclaration(t *testing.T) {
	s := ir.NewStore()
	require.NoError(t, s.Declare("x", ir.SortReal))
	_, err := Step{Rule: "farkas", Declare: map[string]string{"x": "Int"}}.Build(s)
	assert.Error(t, err)
}
