package ir

import (
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/farkas/internal/rational"
)

// Store interns terms and remembers declared symbol sorts.
//
// Store is append-only and NOT safe for concurrent use.
type Store struct {
	terms map[string]*Term
	decls map[string]Sort

	trueT  *Term
	falseT *Term
}

// NewStore creates an empty store.
func NewStore() *Store {
	s := &Store{
		terms: make(map[string]*Term),
		decls: make(map[string]Sort),
	}
	s.trueT = s.intern(OpTrue, SortBool, "", rational.Zero, nil)
	s.falseT = s.intern(OpFalse, SortBool, "", rational.Zero, nil)
	return s
}

// Len returns the number of distinct terms interned so far.
func (s *Store) Len() int {
	return len(s.terms)
}

func (s *Store) intern(op Op, sort Sort, name string, value rational.Rational, args []*Term) *Term {
	id := termID(op, sort, name, value, args)
	if t, ok := s.terms[id]; ok {
		return t
	}
	t := &Term{op: op, sort: sort, name: name, value: value, args: args, id: id}
	t.str = format(t)
	s.terms[id] = t
	return t
}

// True returns the constant true.
func (s *Store) True() *Term { return s.trueT }

// False returns the constant false.
func (s *Store) False() *Term { return s.falseT }

// Bool returns True() or False().
func (s *Store) Bool(b bool) *Term {
	if b {
		return s.trueT
	}
	return s.falseT
}

// Declare records the sort of a symbol. Later MakeConst and Parse calls
// without an explicit sort use it. Redeclaring with a different sort is an
// error because existing terms would disagree with the new sort.
func (s *Store) Declare(name string, sort Sort) error {
	name = norm.NFC.String(name)
	if prev, ok := s.decls[name]; ok && prev != sort {
		return fmt.Errorf("symbol %q already declared as %s", name, prev)
	}
	s.decls[name] = sort
	return nil
}

// SortOf returns the declared sort of a symbol, defaulting to Int.
func (s *Store) SortOf(name string) Sort {
	if sort, ok := s.decls[norm.NFC.String(name)]; ok {
		return sort
	}
	return SortInt
}

// MakeConst returns the named constant of the given sort.
func (s *Store) MakeConst(name string, sort Sort) *Term {
	return s.intern(OpConst, sort, norm.NFC.String(name), rational.Zero, nil)
}

// Var returns the named constant with its declared sort.
func (s *Store) Var(name string) *Term {
	return s.MakeConst(name, s.SortOf(name))
}

// MakeApp returns the uninterpreted application name(args...).
func (s *Store) MakeApp(name string, sort Sort, args ...*Term) *Term {
	if len(args) == 0 {
		return s.MakeConst(name, sort)
	}
	return s.intern(OpApp, sort, norm.NFC.String(name), rational.Zero, cloneArgs(args))
}

// MakeOther returns name(args...) as a term with no meaning in this
// package, such as an SMT-LIB annotation. Rewrites treat it as an atom.
func (s *Store) MakeOther(name string, sort Sort, args ...*Term) *Term {
	return s.intern(OpOther, sort, norm.NFC.String(name), rational.Zero, cloneArgs(args))
}

// MakeNumeral returns the literal r of the given arithmetic sort.
func (s *Store) MakeNumeral(r rational.Rational, sort Sort) *Term {
	if !sort.IsArith() {
		sort = SortInt
	}
	return s.intern(OpNumeral, sort, "", r, nil)
}

// MakeInt returns r as an Int-sorted literal.
func (s *Store) MakeInt(r rational.Rational) *Term {
	return s.MakeNumeral(r, SortInt)
}

// MakeReal returns r as a Real-sorted literal.
func (s *Store) MakeReal(r rational.Rational) *Term {
	return s.MakeNumeral(r, SortReal)
}

// Int returns n as an Int-sorted literal.
func (s *Store) Int(n int64) *Term {
	return s.MakeInt(rational.FromInt(n))
}

// Make builds op(args...). Numerals, constants and applications have
// their own constructors and are rejected here. Fixed-arity operators
// return an *ArityError when given the wrong number of arguments.
func (s *Store) Make(op Op, args ...*Term) (*Term, error) {
	switch op {
	case OpTrue:
		if len(args) != 0 {
			return nil, &ArityError{Op: op, Want: 0, Got: len(args)}
		}
		return s.trueT, nil
	case OpFalse:
		if len(args) != 0 {
			return nil, &ArityError{Op: op, Want: 0, Got: len(args)}
		}
		return s.falseT, nil
	case OpNumeral, OpConst, OpApp, OpOther:
		return nil, fmt.Errorf("Make: %s terms need a dedicated constructor", op)
	}
	if op >= numOps {
		return nil, fmt.Errorf("Make: unknown operator %s", op)
	}
	if err := checkArity(op, len(args)); err != nil {
		return nil, err
	}
	for i, a := range args {
		if a == nil {
			return nil, fmt.Errorf("Make: %s argument %d is nil", op, i)
		}
	}
	return s.intern(op, inferSort(op, args), "", rational.Zero, cloneArgs(args)), nil
}

// MustMake is like Make but panics on error.
// Use only where the operator and argument count are fixed by the caller.
func (s *Store) MustMake(op Op, args ...*Term) *Term {
	t, err := s.Make(op, args...)
	if err != nil {
		panic(err)
	}
	return t
}

// Not returns (not t).
func (s *Store) Not(t *Term) *Term {
	return s.MustMake(OpNot, t)
}

// Clone rebuilds t with replacement arguments, keeping its operator,
// symbol and sort. An empty argument list returns t unchanged; any other
// count that differs from t's arity is an *ArityError.
func (s *Store) Clone(t *Term, args []*Term) (*Term, error) {
	if len(args) == 0 {
		return t, nil
	}
	if len(args) != len(t.args) {
		return nil, &ArityError{Op: t.op, Want: len(t.args), Got: len(args)}
	}
	switch t.op {
	case OpApp:
		return s.intern(OpApp, t.sort, t.name, rational.Zero, cloneArgs(args)), nil
	case OpOther:
		return s.intern(OpOther, t.sort, t.name, rational.Zero, cloneArgs(args)), nil
	}
	return s.Make(t.op, args...)
}

func checkArity(op Op, n int) error {
	if want := op.arity(); want >= 0 {
		if n != want {
			return &ArityError{Op: op, Want: want, Got: n}
		}
		return nil
	}
	least := 1
	if op == OpEqual || op == OpDistinct {
		least = 2
	}
	if n < least {
		return &ArityError{Op: op, Want: least, Got: n, AtLeast: true}
	}
	return nil
}

func inferSort(op Op, args []*Term) Sort {
	switch op {
	case OpPlus, OpSub, OpUminus, OpTimes:
		for _, a := range args {
			if a.sort == SortReal {
				return SortReal
			}
		}
		return SortInt
	case OpDiv, OpToReal:
		return SortReal
	case OpIdiv, OpRem, OpMod, OpToInt:
		return SortInt
	case OpIte:
		return args[1].sort
	}
	return SortBool
}

func cloneArgs(args []*Term) []*Term {
	out := make([]*Term, len(args))
	copy(out, args)
	return out
}
