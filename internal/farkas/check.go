package farkas

import (
	"github.com/roach88/farkas/internal/ir"
	"github.com/roach88/farkas/internal/proof"
	"github.com/roach88/farkas/internal/rational"
	"github.com/roach88/farkas/internal/simplify"
)

// Result is the outcome of checking one certificate step.
type Result struct {
	Rule proof.Rule

	// Coefficients are the extracted integer multipliers, signed as the
	// extractor for Rule produces them.
	Coefficients []rational.Rational

	// LCD is the factor the raw multipliers were scaled by.
	LCD rational.Rational

	// Inequality is the simplified weighted sum.
	Inequality *ir.Term

	// Contradiction is true when Inequality is a false constant
	// inequality, i.e. the step is a valid refutation.
	Contradiction bool
}

// Check extracts the multipliers of a Farkas lemma or assign-bounds step
// and sums the inequalities they weight.
//
// For a Farkas lemma the inequalities are the premise conclusions. For
// assign-bounds they are the negations of the conclusion's literals. The
// sum uses the magnitudes of the multipliers because LinearComb already
// orients every inequality by its shape.
//
// A sum that is not contradictory is reported, not returned as an error.
func Check(s *ir.Store, n *proof.Node) (*Result, error) {
	var (
		rats  []rational.Rational
		lcd   rational.Rational
		ineqs []*ir.Term
		err   error
	)
	switch n.Rule {
	case proof.FarkasLemma:
		rats, lcd, err = farkasCoeffs(n)
		if err != nil {
			return nil, err
		}
		if n.NumPrems() != len(rats) {
			return nil, malformed(-1, "%d premises for %d multipliers", n.NumPrems(), len(rats))
		}
		ineqs = n.PremiseConclusions()
	case proof.AssignBounds:
		rats, lcd, err = assignBoundsCoeffs(n)
		if err != nil {
			return nil, err
		}
		lits := Literals(n.Conc())
		if len(lits) != len(rats) {
			return nil, malformed(-1, "%d literals for %d multipliers", len(lits), len(rats))
		}
		ineqs = make([]*ir.Term, len(lits))
		for i, l := range lits {
			ineqs[i] = negate(s, l)
		}
	default:
		return nil, malformed(-1, "rule %s carries no Farkas certificate", n.Rule)
	}

	coeffs := make([]*ir.Term, len(rats))
	for i, r := range rats {
		coeffs[i] = s.MakeInt(r.Abs())
	}
	sum, err := SumInequalities(s, coeffs, ineqs)
	if err != nil {
		return nil, err
	}
	return &Result{
		Rule:          n.Rule,
		Coefficients:  rats,
		LCD:           lcd,
		Inequality:    sum,
		Contradiction: simplify.IsFalseConstantIneq(sum),
	}, nil
}

// Literals returns the disjuncts of a clause; a lone literal is a unit
// clause.
func Literals(conc *ir.Term) []*ir.Term {
	if conc == nil {
		return nil
	}
	if conc.Op() == ir.OpOr {
		return conc.Args()
	}
	return []*ir.Term{conc}
}

func negate(s *ir.Store, lit *ir.Term) *ir.Term {
	if inner, ok := lit.Unnegate(); ok {
		return inner
	}
	return s.Not(lit)
}
