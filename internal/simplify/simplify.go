// Package simplify normalises arithmetic and boolean terms.
//
// Arithmetic terms are rewritten to a linear polynomial over atoms:
//
//	c + k1*a1 + k2*a2 + ...
//
// with the constant first (omitted when zero) and the monomials ordered by
// the printed form of their atom. Coefficient 1 is dropped, zero
// monomials vanish and an empty sum is 0. Two terms that are equal as
// linear polynomials therefore simplify to the same interned term, no
// matter how their addends were ordered.
//
// Anything that is not linear (products of two non-constants, division by
// a non-constant, integer division that cannot be evaluated, applications)
// becomes an atom built from simplified arguments.
package simplify

import (
	"slices"
	"strings"

	"github.com/roach88/farkas/internal/ir"
	"github.com/roach88/farkas/internal/rational"
)

// Simplify returns the normal form of t. The store must be the one that
// built t.
func Simplify(s *ir.Store, t *ir.Term) *ir.Term {
	return newSimplifier(s).term(t)
}

// SimplifyIneq simplifies both sides of a relation but keeps the
// relation itself, so a summed certificate stays visible as "(<= 0 -2)"
// instead of collapsing to false. Other terms are passed to Simplify.
func SimplifyIneq(s *ir.Store, t *ir.Term) *ir.Term {
	if !t.Op().IsRelation() {
		return Simplify(s, t)
	}
	sp := newSimplifier(s)
	return s.MustMake(t.Op(), sp.term(t.Arg(0)), sp.term(t.Arg(1)))
}

// IsFalseConstantIneq reports whether t is the constant false or a
// relation between two numerals that does not hold, e.g. "(<= 0 -2)" or
// "(< 0 0)".
func IsFalseConstantIneq(t *ir.Term) bool {
	if t.IsFalse() {
		return true
	}
	if !t.Op().IsRelation() {
		return false
	}
	a, ok1 := t.Arg(0).Numeral()
	b, ok2 := t.Arg(1).Numeral()
	return ok1 && ok2 && !holds(t.Op(), a, b)
}

func holds(op ir.Op, a, b rational.Rational) bool {
	c := a.Cmp(b)
	switch op {
	case ir.OpLeq:
		return c <= 0
	case ir.OpLt:
		return c < 0
	case ir.OpGeq:
		return c >= 0
	case ir.OpGt:
		return c > 0
	}
	return false
}

type simplifier struct {
	s    *ir.Store
	memo map[*ir.Term]*ir.Term
}

func newSimplifier(s *ir.Store) *simplifier {
	return &simplifier{s: s, memo: make(map[*ir.Term]*ir.Term)}
}

func (sp *simplifier) term(t *ir.Term) *ir.Term {
	if r, ok := sp.memo[t]; ok {
		return r
	}
	var r *ir.Term
	if t.Sort().IsArith() {
		r = sp.fromPoly(sp.linear(t))
	} else {
		r = sp.boolean(t)
	}
	sp.memo[t] = r
	return r
}

// poly is a linear combination of atoms plus a constant.
type poly struct {
	c      rational.Rational
	mons   map[*ir.Term]rational.Rational
	isReal bool
}

func constPoly(c rational.Rational, isReal bool) poly {
	return poly{c: c, isReal: isReal}
}

func atomPoly(a *ir.Term) poly {
	return poly{mons: map[*ir.Term]rational.Rational{a: rational.One}, isReal: a.Sort() == ir.SortReal}
}

func (p poly) isConst() bool {
	for _, k := range p.mons {
		if !k.IsZero() {
			return false
		}
	}
	return true
}

func (p poly) add(q poly) poly {
	out := poly{c: p.c.Add(q.c), mons: make(map[*ir.Term]rational.Rational, len(p.mons)+len(q.mons)), isReal: p.isReal || q.isReal}
	for a, k := range p.mons {
		out.mons[a] = k
	}
	for a, k := range q.mons {
		out.mons[a] = out.mons[a].Add(k)
	}
	return out
}

func (p poly) scale(k rational.Rational) poly {
	out := poly{c: p.c.Mul(k), mons: make(map[*ir.Term]rational.Rational, len(p.mons)), isReal: p.isReal}
	for a, m := range p.mons {
		out.mons[a] = m.Mul(k)
	}
	return out
}

func (sp *simplifier) linear(t *ir.Term) poly {
	isReal := t.Sort() == ir.SortReal
	switch t.Op() {
	case ir.OpNumeral:
		return constPoly(t.Value(), isReal)
	case ir.OpPlus:
		p := constPoly(rational.Zero, isReal)
		for _, a := range t.Args() {
			p = p.add(sp.linear(a))
		}
		return p
	case ir.OpSub:
		p := sp.linear(t.Arg(0))
		for _, a := range t.Args()[1:] {
			p = p.add(sp.linear(a).scale(rational.FromInt(-1)))
		}
		return p
	case ir.OpUminus:
		return sp.linear(t.Arg(0)).scale(rational.FromInt(-1))
	case ir.OpTimes:
		return sp.product(t)
	case ir.OpDiv:
		num, den := sp.linear(t.Arg(0)), sp.linear(t.Arg(1))
		if den.isConst() && !den.c.IsZero() {
			p := num.scale(rational.One.Quo(den.c))
			p.isReal = true
			return p
		}
		return atomPoly(sp.s.MustMake(ir.OpDiv, sp.fromPoly(num), sp.fromPoly(den)))
	case ir.OpIdiv, ir.OpMod, ir.OpRem:
		return sp.intDivision(t)
	case ir.OpToReal:
		p := sp.linear(t.Arg(0))
		if p.isConst() {
			return constPoly(p.c, true)
		}
		return atomPoly(sp.s.MustMake(ir.OpToReal, sp.fromPoly(p)))
	case ir.OpToInt:
		p := sp.linear(t.Arg(0))
		if p.isConst() {
			return constPoly(p.c.Floor(), false)
		}
		return atomPoly(sp.s.MustMake(ir.OpToInt, sp.fromPoly(p)))
	case ir.OpIte:
		c := sp.term(t.Arg(0))
		a, b := sp.term(t.Arg(1)), sp.term(t.Arg(2))
		switch {
		case c.IsTrue():
			return sp.linear(a)
		case c.IsFalse():
			return sp.linear(b)
		case a == b:
			return sp.linear(a)
		}
		return atomPoly(sp.s.MustMake(ir.OpIte, c, a, b))
	}
	return atomPoly(sp.rebuild(t))
}

// product multiplies out constant factors. A product with more than one
// non-constant factor becomes a single atom whose factors are sorted.
func (sp *simplifier) product(t *ir.Term) poly {
	k := rational.One
	isReal := t.Sort() == ir.SortReal
	var rest []poly
	for _, a := range t.Args() {
		p := sp.linear(a)
		if p.isConst() {
			k = k.Mul(p.c)
			continue
		}
		rest = append(rest, p)
	}
	switch len(rest) {
	case 0:
		return constPoly(k, isReal)
	case 1:
		p := rest[0].scale(k)
		p.isReal = p.isReal || isReal
		return p
	}
	factors := make([]*ir.Term, len(rest))
	for i, p := range rest {
		factors[i] = sp.fromPoly(p)
	}
	slices.SortFunc(factors, compareTerms)
	return atomPoly(sp.s.MustMake(ir.OpTimes, factors...)).scale(k)
}

func (sp *simplifier) intDivision(t *ir.Term) poly {
	a := sp.fromPoly(sp.linear(t.Arg(0)))
	b := sp.fromPoly(sp.linear(t.Arg(1)))
	x, ok1 := a.Numeral()
	y, ok2 := b.Numeral()
	if ok1 && ok2 && !y.IsZero() && x.IsInt() && y.IsInt() {
		var r rational.Rational
		var err error
		switch t.Op() {
		case ir.OpIdiv:
			r, err = rational.EuclidDiv(x, y)
		case ir.OpMod:
			r, err = rational.EuclidMod(x, y)
		default:
			r, err = rational.Rem(x, y)
		}
		if err == nil {
			return constPoly(r, false)
		}
	}
	if ok2 && y.IsOne() && t.Op() == ir.OpIdiv {
		return sp.linear(a)
	}
	return atomPoly(sp.s.MustMake(t.Op(), a, b))
}

// fromPoly renders p as a term.
func (sp *simplifier) fromPoly(p poly) *ir.Term {
	sort := ir.SortInt
	if p.isReal {
		sort = ir.SortReal
	}

	atoms := make([]*ir.Term, 0, len(p.mons))
	for a, k := range p.mons {
		if !k.IsZero() {
			atoms = append(atoms, a)
		}
	}
	slices.SortFunc(atoms, compareTerms)

	addends := make([]*ir.Term, 0, len(atoms)+1)
	if !p.c.IsZero() {
		addends = append(addends, sp.s.MakeNumeral(p.c, sort))
	}
	for _, a := range atoms {
		k := p.mons[a]
		if k.IsOne() {
			addends = append(addends, a)
			continue
		}
		addends = append(addends, sp.s.MustMake(ir.OpTimes, sp.s.MakeNumeral(k, sort), a))
	}

	switch len(addends) {
	case 0:
		return sp.s.MakeNumeral(rational.Zero, sort)
	case 1:
		return addends[0]
	}
	return sp.s.MustMake(ir.OpPlus, addends...)
}

// rebuild returns t with simplified arguments.
func (sp *simplifier) rebuild(t *ir.Term) *ir.Term {
	if t.NumArgs() == 0 {
		return t
	}
	args := make([]*ir.Term, t.NumArgs())
	for i, a := range t.Args() {
		args[i] = sp.term(a)
	}
	r, err := sp.s.Clone(t, args)
	if err != nil {
		// Same argument count as t.
		panic(err)
	}
	return r
}

func (sp *simplifier) boolean(t *ir.Term) *ir.Term {
	s := sp.s
	switch t.Op() {
	case ir.OpLeq, ir.OpGeq, ir.OpLt, ir.OpGt:
		a, b := sp.term(t.Arg(0)), sp.term(t.Arg(1))
		x, ok1 := a.Numeral()
		y, ok2 := b.Numeral()
		if ok1 && ok2 {
			return s.Bool(holds(t.Op(), x, y))
		}
		return s.MustMake(t.Op(), a, b)
	case ir.OpEqual:
		args := sp.terms(t.Args())
		if allSame(args) {
			return s.True()
		}
		if len(args) == 2 {
			x, ok1 := args[0].Numeral()
			y, ok2 := args[1].Numeral()
			if ok1 && ok2 {
				return s.Bool(x.Equal(y))
			}
		}
		return s.MustMake(ir.OpEqual, args...)
	case ir.OpNot:
		a := sp.term(t.Arg(0))
		switch {
		case a.IsTrue():
			return s.False()
		case a.IsFalse():
			return s.True()
		case a.IsNot():
			return a.Arg(0)
		}
		return s.Not(a)
	case ir.OpAnd:
		return sp.junction(t, ir.OpAnd)
	case ir.OpOr:
		return sp.junction(t, ir.OpOr)
	case ir.OpImplies:
		a, b := sp.term(t.Arg(0)), sp.term(t.Arg(1))
		switch {
		case a.IsFalse(), b.IsTrue():
			return s.True()
		case a.IsTrue():
			return b
		}
		return s.MustMake(ir.OpImplies, a, b)
	case ir.OpIte:
		c := sp.term(t.Arg(0))
		a, b := sp.term(t.Arg(1)), sp.term(t.Arg(2))
		switch {
		case c.IsTrue():
			return a
		case c.IsFalse():
			return b
		case a == b:
			return a
		}
		return s.MustMake(ir.OpIte, c, a, b)
	}
	return sp.rebuild(t)
}

// junction folds and/or: the absorbing constant wins, the neutral one is
// dropped, nested junctions of the same kind are flattened.
func (sp *simplifier) junction(t *ir.Term, op ir.Op) *ir.Term {
	absorb, neutral := sp.s.False(), sp.s.True()
	if op == ir.OpOr {
		absorb, neutral = neutral, absorb
	}
	var args []*ir.Term
	for _, a := range t.Args() {
		a = sp.term(a)
		switch {
		case a == absorb:
			return absorb
		case a == neutral:
			continue
		case a.Op() == op:
			args = append(args, a.Args()...)
		default:
			args = append(args, a)
		}
	}
	switch len(args) {
	case 0:
		return neutral
	case 1:
		return args[0]
	}
	return sp.s.MustMake(op, args...)
}

func (sp *simplifier) terms(ts []*ir.Term) []*ir.Term {
	out := make([]*ir.Term, len(ts))
	for i, t := range ts {
		out[i] = sp.term(t)
	}
	return out
}

func allSame(ts []*ir.Term) bool {
	for _, t := range ts[1:] {
		if t != ts[0] {
			return false
		}
	}
	return true
}

func compareTerms(a, b *ir.Term) int {
	return strings.Compare(a.String(), b.String())
}
