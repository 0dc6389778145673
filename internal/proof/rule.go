// Package proof models single proof steps as handed over by a
// proof-producing solver: a rule tag, ordered premises, a conclusion and
// a parameter list.
//
// Nodes are plain immutable values. Nothing here validates that a node is
// a well-formed certificate; that is the job of the consumer that knows
// what the rule requires.
package proof

import "fmt"

// Rule tags a proof step.
type Rule uint8

const (
	Other Rule = iota
	Asserted
	Hypothesis
	FarkasLemma
	AssignBounds
)

var ruleNames = map[Rule]string{
	Other:        "other",
	Asserted:     "asserted",
	Hypothesis:   "hypothesis",
	FarkasLemma:  "farkas",
	AssignBounds: "assign-bounds",
}

// String returns the rule spelling used in certificate files.
func (r Rule) String() string {
	if name, ok := ruleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Rule(%d)", uint8(r))
}

// ParseRule is the inverse of Rule.String.
func ParseRule(name string) (Rule, error) {
	for r, n := range ruleNames {
		if n == name {
			return r, nil
		}
	}
	return Other, fmt.Errorf("unknown rule %q", name)
}
