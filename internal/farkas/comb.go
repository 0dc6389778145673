package farkas

import (
	"errors"

	"github.com/roach88/farkas/internal/ir"
	"github.com/roach88/farkas/internal/simplify"
)

// LinearComb adds c times q to the accumulator p and returns the new
// accumulator.
//
// p must be "(<= l r)" or "(< l r)". q may be any of <=, <, >=, > under at
// most one negation; it is first rewritten as "0 REL rhs":
//
//	(<= a b)        b - a   non-strict
//	(>= a b)        a - b   non-strict
//	(< a b)         b - a   strict
//	(> a b)         a - b   strict
//	(not (> a b))   b - a   non-strict
//	(not (< a b))   a - b   non-strict
//	(not (>= a b))  b - a   strict
//	(not (<= a b))  a - b   strict
//
// The result is "(REL l (+ r (* c rhs)))", strict if p or q was.
func LinearComb(s *ir.Store, p, c, q *ir.Term) (*ir.Term, error) {
	if p.Op() != ir.OpLeq && p.Op() != ir.OpLt {
		return nil, notAnInequality(p)
	}
	rhs, strict, ok := orient(s, q)
	if !ok {
		return nil, notAnInequality(q)
	}
	strict = strict || p.Op() == ir.OpLt

	rel := ir.OpLeq
	if strict {
		rel = ir.OpLt
	}
	sum := s.MustMake(ir.OpPlus, p.Arg(1), s.MustMake(ir.OpTimes, c, rhs))
	return s.MustMake(rel, p.Arg(0), sum), nil
}

// orient returns rhs and strictness of q viewed as "0 REL rhs".
func orient(s *ir.Store, q *ir.Term) (*ir.Term, bool, bool) {
	abs, neg := q.Unnegate()
	if !abs.Op().IsRelation() {
		return nil, false, false
	}
	a0, a1 := abs.Arg(0), abs.Arg(1)
	up := func() *ir.Term { return s.MustMake(ir.OpSub, a1, a0) }
	down := func() *ir.Term { return s.MustMake(ir.OpSub, a0, a1) }

	switch abs.Op() {
	case ir.OpLeq:
		if neg {
			return down(), true, true
		}
		return up(), false, true
	case ir.OpGeq:
		if neg {
			return up(), true, true
		}
		return down(), false, true
	case ir.OpLt:
		if neg {
			return down(), false, true
		}
		return up(), true, true
	default: // ir.OpGt
		if neg {
			return up(), false, true
		}
		return down(), true, true
	}
}

// SumInequalities folds LinearComb over coeffs and ineqs, starting from
// "(<= 0 0)", and simplifies the sum keeping its relation. For a genuine
// Farkas certificate the result is a false constant inequality such as
// "(<= 0 -2)".
func SumInequalities(s *ir.Store, coeffs, ineqs []*ir.Term) (*ir.Term, error) {
	if len(coeffs) != len(ineqs) {
		return nil, malformed(-1, "%d coefficients for %d inequalities", len(coeffs), len(ineqs))
	}
	zero := s.Int(0)
	acc := s.MustMake(ir.OpLeq, zero, zero)
	for i := range coeffs {
		next, err := LinearComb(s, acc, coeffs[i], ineqs[i])
		if err != nil {
			var fe *Error
			if errors.As(err, &fe) {
				fe.Index = i
			}
			return nil, err
		}
		acc = next
	}
	return simplify.SimplifyIneq(s, acc), nil
}
