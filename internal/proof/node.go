package proof

import (
	"github.com/roach88/farkas/internal/ir"
	"github.com/roach88/farkas/internal/rational"
)

// Node is one proof step. Premises are themselves nodes; only their
// conclusions matter to consumers in this module.
type Node struct {
	Rule       Rule
	Premises   []*Node
	Conclusion *ir.Term
	Params     []Param
}

// NewLeaf returns an Asserted node concluding t.
func NewLeaf(t *ir.Term) *Node {
	return &Node{Rule: Asserted, Conclusion: t}
}

// NumPrems returns the number of premises.
func (n *Node) NumPrems() int { return len(n.Premises) }

// Prem returns premise i, or nil when i is out of range.
func (n *Node) Prem(i int) *Node {
	if i < 0 || i >= len(n.Premises) {
		return nil
	}
	return n.Premises[i]
}

// Conc returns the conclusion.
func (n *Node) Conc() *ir.Term { return n.Conclusion }

// NumParams returns the length of the parameter list.
func (n *Node) NumParams() int { return len(n.Params) }

// Param returns parameter i, or nil when i is out of range.
func (n *Node) Param(i int) Param {
	if i < 0 || i >= len(n.Params) {
		return nil
	}
	return n.Params[i]
}

// Rational returns parameter i when it is a rational.
func (n *Node) Rational(i int) (rational.Rational, bool) {
	p, ok := n.Param(i).(RationalParam)
	if !ok {
		return rational.Zero, false
	}
	return p.Value, true
}

// PremiseConclusions returns the conclusion of every premise in order.
func (n *Node) PremiseConclusions() []*ir.Term {
	out := make([]*ir.Term, len(n.Premises))
	for i, p := range n.Premises {
		out[i] = p.Conclusion
	}
	return out
}
