package farkas

import (
	"github.com/roach88/farkas/internal/ir"
	"github.com/roach88/farkas/internal/rational"
	"github.com/roach88/farkas/internal/simplify"
)

// SplitIdiv partitions the linear term t by the divisor d. Addends of the
// form (* k x) with d dividing k go to whole as (* k/d x); every other
// addend goes to frac unchanged. Sums are split recursively. An empty
// part is returned as 0.
func SplitIdiv(s *ir.Store, t *ir.Term, d rational.Rational) (whole, frac *ir.Term) {
	sp := &splitter{s: s, d: d}
	sp.split(t)
	zero := s.Int(0)
	if sp.whole == nil {
		sp.whole = zero
	}
	if sp.frac == nil {
		sp.frac = zero
	}
	return sp.whole, sp.frac
}

type splitter struct {
	s     *ir.Store
	d     rational.Rational
	whole *ir.Term
	frac  *ir.Term
}

func (sp *splitter) split(t *ir.Term) {
	switch t.Op() {
	case ir.OpPlus:
		for _, a := range t.Args() {
			sp.split(a)
		}
		return
	case ir.OpTimes:
		if t.NumArgs() == 2 {
			if k, ok := t.Arg(0).Numeral(); ok && rational.Gcd(k, sp.d).Equal(sp.d) {
				m := sp.s.MustMake(ir.OpTimes, sp.s.MakeInt(k.Quo(sp.d)), t.Arg(1))
				sp.whole = sp.add(sp.whole, m)
				return
			}
		}
	}
	sp.frac = sp.add(sp.frac, t)
}

func (sp *splitter) add(acc, t *ir.Term) *ir.Term {
	if acc == nil {
		return t
	}
	return sp.s.MustMake(ir.OpPlus, acc, t)
}

// MkIdiv returns a term equal to (div t d) in which the part of t that d
// divides exactly has been pulled out of the division:
//
//	MkIdiv((+ (* 4 x) 3), 2) = (+ (* 2 x) (div 3 2)), simplified
//
// t is simplified first and returned as is when d is 1. d must be a
// positive integer.
func MkIdiv(s *ir.Store, t *ir.Term, d rational.Rational) (*ir.Term, error) {
	if !d.IsInt() || d.Sign() <= 0 {
		return nil, malformed(-1, "divisor %s is not a positive integer", d)
	}
	t = simplify.Simplify(s, t)
	if d.IsOne() {
		return t, nil
	}
	whole, frac := SplitIdiv(s, t, d)
	q := s.MustMake(ir.OpIdiv, simplify.Simplify(s, frac), s.MakeInt(d))
	return simplify.Simplify(s, s.MustMake(ir.OpPlus, whole, q)), nil
}

// MkIdivTerm is MkIdiv for a divisor given as a term. A non-numeral
// divisor yields the plain (div t d) without any splitting.
func MkIdivTerm(s *ir.Store, t, d *ir.Term) (*ir.Term, error) {
	if r, ok := d.Numeral(); ok {
		return MkIdiv(s, t, r)
	}
	return s.MustMake(ir.OpIdiv, t, d), nil
}
