// Package compiler turns certificate sources into proof nodes.
//
// Certificates are written in CUE, one struct per step under "step":
//
//	step: bound: {
//		rule:       "farkas"
//		declare:    {x: "Int"}
//		params:     ["arith", "farkas", 1, "1/2"]
//		premises:   ["(<= x (- 1))", "(>= x 1)"]
//		conclusion: "false"
//	}
//
// Compilation produces a Step, which still holds its formulas as text.
// Step.Build parses them into a given ir.Store, so one compiled
// certificate can be checked any number of times against fresh stores.
package compiler

import (
	"fmt"
	"slices"

	"github.com/roach88/farkas/internal/ir"
	"github.com/roach88/farkas/internal/proof"
)

// DefaultConclusion is used when a step omits its conclusion.
const DefaultConclusion = "false"

// Step is the source form of one certificate step.
type Step struct {
	Name       string            `json:"name" yaml:"name"`
	Rule       string            `json:"rule" yaml:"rule"`
	Declare    map[string]string `json:"declare,omitempty" yaml:"declare,omitempty"`
	Params     []string          `json:"params" yaml:"params"`
	Premises   []string          `json:"premises,omitempty" yaml:"premises,omitempty"`
	Conclusion string            `json:"conclusion,omitempty" yaml:"conclusion,omitempty"`
}

// Build declares the step's symbols in s and parses its formulas into a
// proof node. Premises become Asserted leaves.
func (st Step) Build(s *ir.Store) (*proof.Node, error) {
	rule, err := proof.ParseRule(st.Rule)
	if err != nil {
		return nil, &CompileError{Field: "rule", Message: err.Error()}
	}

	names := make([]string, 0, len(st.Declare))
	for name := range st.Declare {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		sort, err := ir.ParseSort(st.Declare[name])
		if err != nil {
			return nil, &CompileError{Field: "declare." + name, Message: err.Error()}
		}
		if err := s.Declare(name, sort); err != nil {
			return nil, &CompileError{Field: "declare." + name, Message: err.Error()}
		}
	}

	n := &proof.Node{Rule: rule}
	for i, src := range st.Premises {
		t, err := s.Parse(src)
		if err != nil {
			return nil, &CompileError{Field: fmt.Sprintf("premises[%d]", i), Message: err.Error()}
		}
		n.Premises = append(n.Premises, proof.NewLeaf(t))
	}

	conc := st.Conclusion
	if conc == "" {
		conc = DefaultConclusion
	}
	if n.Conclusion, err = s.Parse(conc); err != nil {
		return nil, &CompileError{Field: "conclusion", Message: err.Error()}
	}

	for _, p := range st.Params {
		n.Params = append(n.Params, proof.ParseParam(p))
	}
	return n, nil
}
