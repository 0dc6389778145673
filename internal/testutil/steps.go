package testutil

import "github.com/roach88/farkas/internal/compiler"

// ContradictionStep returns a farkas step whose premises x <= -1 and
// x >= 1 sum to (<= 0 -2).
func ContradictionStep(name string) compiler.Step {
	return compiler.Step{
		Name:     name,
		Rule:     "farkas",
		Params:   []string{"arith", "farkas", "1", "1"},
		Premises: []string{"(<= x (- 1))", "(>= x 1)"},
	}
}

// WeakStep returns a well-formed farkas step whose sum, (<= 0 1), is not a
// contradiction.
func WeakStep(name string) compiler.Step {
	return compiler.Step{
		Name:     name,
		Rule:     "farkas",
		Params:   []string{"arith", "farkas", "1", "1"},
		Premises: []string{"(<= x 1)", "(>= x 0)"},
	}
}

// MalformedStep returns a step with a symbolic multiplier.
func MalformedStep(name string) compiler.Step {
	return compiler.Step{
		Name:     name,
		Rule:     "farkas",
		Params:   []string{"arith", "farkas", "lots"},
		Premises: []string{"(<= x 1)"},
	}
}

// ChainStep returns an assign-bounds step for the clause
// y >= 5 or x < 5 or y < x.
func ChainStep(name string) compiler.Step {
	return compiler.Step{
		Name:       name,
		Rule:       "assign-bounds",
		Params:     []string{"arith", "assign-bounds", "1", "1"},
		Conclusion: "(or (>= y 5) (not (>= x 5)) (not (>= y x)))",
	}
}
