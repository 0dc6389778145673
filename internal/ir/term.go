package ir

import (
	"github.com/roach88/farkas/internal/rational"
)

// Term is an immutable, interned expression node.
//
// Terms are only created by a Store. Within one Store, two terms are
// structurally equal if and only if they are the same pointer, so terms
// may be compared with ==.
type Term struct {
	op    Op
	sort  Sort
	name  string            // OpConst, OpApp, OpOther
	value rational.Rational // OpNumeral
	args  []*Term
	id    string
	str   string // printed form, computed at interning
}

// Op returns the operator tag.
func (t *Term) Op() Op { return t.op }

// Sort returns the term's sort.
func (t *Term) Sort() Sort { return t.sort }

// Name returns the symbol of an OpConst, OpApp or OpOther term, "" otherwise.
func (t *Term) Name() string { return t.name }

// NumArgs returns the number of arguments.
func (t *Term) NumArgs() int { return len(t.args) }

// Arg returns argument i. Panics if i is out of range.
func (t *Term) Arg(i int) *Term { return t.args[i] }

// Args returns a copy of the argument list.
func (t *Term) Args() []*Term {
	out := make([]*Term, len(t.args))
	copy(out, t.args)
	return out
}

// ID returns the content hash identifying this term across stores.
func (t *Term) ID() string { return t.id }

// IsNot reports whether t is a negation.
func (t *Term) IsNot() bool { return t.op == OpNot }

// IsNumeral reports whether t is a numeral literal.
func (t *Term) IsNumeral() bool { return t.op == OpNumeral }

// Numeral returns the value of a numeral literal.
func (t *Term) Numeral() (rational.Rational, bool) {
	if t.op != OpNumeral {
		return rational.Zero, false
	}
	return t.value, true
}

// Value returns the value of a numeral literal, or zero for any other term.
func (t *Term) Value() rational.Rational { return t.value }

// IsTrue reports whether t is the constant true.
func (t *Term) IsTrue() bool { return t.op == OpTrue }

// IsFalse reports whether t is the constant false.
func (t *Term) IsFalse() bool { return t.op == OpFalse }

// Unnegate strips one level of negation. It returns the inner term and
// true when t is (not x), or t and false otherwise.
func (t *Term) Unnegate() (*Term, bool) {
	if t.op == OpNot {
		return t.args[0], true
	}
	return t, false
}
