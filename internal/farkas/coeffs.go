package farkas

import (
	"github.com/roach88/farkas/internal/ir"
	"github.com/roach88/farkas/internal/proof"
	"github.com/roach88/farkas/internal/rational"
)

// Parameters 0 and 1 of a Farkas or assign-bounds step are rule tags
// ("arith", "farkas"); multipliers start here.
const firstCoeffParam = 2

// FarkasCoeffs returns the integer multipliers of a Farkas lemma step,
// one per premise. A multiplier is negated when its premise is a negated
// <= or <, or a plain >= or >, then the whole vector is scaled by the
// LCD of its denominators.
func FarkasCoeffs(n *proof.Node) ([]rational.Rational, error) {
	rats, _, err := farkasCoeffs(n)
	return rats, err
}

// FarkasCoeffTerms is FarkasCoeffs with each multiplier as an Int numeral.
func FarkasCoeffTerms(s *ir.Store, n *proof.Node) ([]*ir.Term, error) {
	rats, err := FarkasCoeffs(n)
	if err != nil {
		return nil, err
	}
	return numerals(s, rats), nil
}

func farkasCoeffs(n *proof.Node) ([]rational.Rational, rational.Rational, error) {
	np := n.NumParams()
	if np < firstCoeffParam {
		return nil, rational.Zero, malformed(-1, "farkas step has %d parameters, want at least %d", np, firstCoeffParam)
	}
	rats := make([]rational.Rational, np-firstCoeffParam)
	for i := firstCoeffParam; i < np; i++ {
		r, ok := n.Rational(i)
		if !ok {
			return nil, rational.Zero, malformed(i, "parameter %q is not a rational", n.Param(i))
		}
		prem := n.Prem(i - firstCoeffParam)
		if prem == nil || prem.Conc() == nil {
			return nil, rational.Zero, malformed(i, "no premise for multiplier %d", i-firstCoeffParam)
		}
		if flipsSign(prem.Conc()) {
			r = r.Neg()
		}
		rats[i-firstCoeffParam] = r
	}
	lcd := ExtractLCD(rats)
	return rats, lcd, nil
}

// flipsSign reports whether a premise points the opposite way from <=.
func flipsSign(con *ir.Term) bool {
	abs, neg := con.Unnegate()
	switch abs.Op() {
	case ir.OpLeq, ir.OpLt:
		return neg
	case ir.OpGeq, ir.OpGt:
		return !neg
	}
	return false
}

// AssignBoundsCoeffs returns the multipliers of an assign-bounds step.
// The step bounds the conclusion's own literals, so coefficient 0 is the
// synthesized 1 and coefficient i-1 belongs to parameter i. Every
// parameter multiplier is negated whatever the shape of its literal.
func AssignBoundsCoeffs(n *proof.Node) ([]rational.Rational, error) {
	rats, _, err := assignBoundsCoeffs(n)
	return rats, err
}

// AssignBoundsCoeffTerms is AssignBoundsCoeffs with each multiplier as an
// Int numeral.
func AssignBoundsCoeffTerms(s *ir.Store, n *proof.Node) ([]*ir.Term, error) {
	rats, err := AssignBoundsCoeffs(n)
	if err != nil {
		return nil, err
	}
	return numerals(s, rats), nil
}

func assignBoundsCoeffs(n *proof.Node) ([]rational.Rational, rational.Rational, error) {
	np := n.NumParams()
	if np < firstCoeffParam {
		return nil, rational.Zero, malformed(-1, "assign-bounds step has %d parameters, want at least %d", np, firstCoeffParam)
	}
	conc := n.Conc()
	rats := make([]rational.Rational, np-1)
	rats[0] = rational.One
	for i := firstCoeffParam; i < np; i++ {
		r, ok := n.Rational(i)
		if !ok {
			return nil, rational.Zero, malformed(i, "parameter %q is not a rational", n.Param(i))
		}
		if conc == nil || conc.NumArgs() <= i-1 {
			return nil, rational.Zero, malformed(i, "conclusion has no literal %d", i-1)
		}
		rats[i-1] = r.Neg()
	}
	lcd := ExtractLCD(rats)
	return rats, lcd, nil
}

func numerals(s *ir.Store, rats []rational.Rational) []*ir.Term {
	out := make([]*ir.Term, len(rats))
	for i, r := range rats {
		out[i] = s.MakeInt(r)
	}
	return out
}
