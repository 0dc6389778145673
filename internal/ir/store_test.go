package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/farkas/internal/rational"
)

func TestInterningSharesStructure(t *testing.T) {
	s := NewStore()
	x := s.Var("x")

	a := s.MustMake(OpPlus, x, s.Int(1))
	b := s.MustMake(OpPlus, s.Var("x"), s.Int(1))

	assert.Same(t, a, b)
	assert.Equal(t, a.ID(), b.ID())
	assert.NotSame(t, a, s.MustMake(OpPlus, s.Int(1), x))
}

func TestIDsStableAcrossStores(t *testing.T) {
	s1, s2 := NewStore(), NewStore()
	a := s1.MustParse("(<= 0 (+ x (* 2 y)))")
	b := s2.MustParse("(<= 0 (+ x (* 2 y)))")
	assert.Equal(t, a.ID(), b.ID())
	assert.Len(t, a.ID(), 64)
}

func TestNumeralSortDistinguishesTerms(t *testing.T) {
	s := NewStore()
	i := s.MakeInt(rational.FromInt(2))
	r := s.MakeReal(rational.FromInt(2))
	assert.NotSame(t, i, r)
	assert.Equal(t, SortInt, i.Sort())
	assert.Equal(t, SortReal, r.Sort())
}

func TestMakeInfersSort(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Declare("r", SortReal))
	x, r := s.Var("x"), s.Var("r")

	tests := []struct {
		name string
		term *Term
		want Sort
	}{
		{"int sum", s.MustMake(OpPlus, x, s.Int(1)), SortInt},
		{"mixed sum", s.MustMake(OpPlus, x, r), SortReal},
		{"div", s.MustMake(OpDiv, x, s.Int(2)), SortReal},
		{"idiv", s.MustMake(OpIdiv, x, s.Int(2)), SortInt},
		{"relation", s.MustMake(OpLeq, x, r), SortBool},
		{"ite", s.MustMake(OpIte, s.True(), r, r), SortReal},
		{"not", s.Not(s.False()), SortBool},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.term.Sort(), tt.name)
	}
}

func TestMakeRejectsWrongArity(t *testing.T) {
	s := NewStore()
	x := s.Var("x")

	_, err := s.Make(OpLeq, x)
	require.Error(t, err)
	assert.True(t, IsArityError(err))

	_, err = s.Make(OpNot, x, x)
	assert.True(t, IsArityError(err))

	_, err = s.Make(OpPlus)
	var ae *ArityError
	require.ErrorAs(t, err, &ae)
	assert.True(t, ae.AtLeast)
	assert.Contains(t, ae.Error(), "UNEXPECTED_ARITY")

	_, err = s.Make(OpEqual, x)
	assert.True(t, IsArityError(err))
}

func TestMakeRejectsLeafOperators(t *testing.T) {
	s := NewStore()
	for _, op := range []Op{OpNumeral, OpConst, OpApp, OpOther} {
		_, err := s.Make(op)
		assert.Error(t, err, op.String())
		assert.False(t, IsArityError(err))
	}
}

func TestMustMakePanics(t *testing.T) {
	s := NewStore()
	assert.Panics(t, func() { s.MustMake(OpLeq) })
}

func TestClone(t *testing.T) {
	s := NewStore()
	x, y := s.Var("x"), s.Var("y")
	leq := s.MustMake(OpLeq, x, y)

	t.Run("empty args returns original", func(t *testing.T) {
		c, err := s.Clone(leq, nil)
		require.NoError(t, err)
		assert.Same(t, leq, c)
	})

	t.Run("replaces arguments", func(t *testing.T) {
		c, err := s.Clone(leq, []*Term{y, x})
		require.NoError(t, err)
		assert.Equal(t, OpLeq, c.Op())
		assert.Same(t, y, c.Arg(0))
		assert.Same(t, x, c.Arg(1))
	})

	t.Run("arity mismatch", func(t *testing.T) {
		_, err := s.Clone(leq, []*Term{x})
		require.Error(t, err)
		assert.True(t, IsArityError(err))
	})

	t.Run("keeps application symbol", func(t *testing.T) {
		f := s.MakeApp("f", SortReal, x)
		c, err := s.Clone(f, []*Term{y})
		require.NoError(t, err)
		assert.Equal(t, "f", c.Name())
		assert.Equal(t, SortReal, c.Sort())
		assert.Same(t, y, c.Arg(0))
	})

	t.Run("keeps other symbol", func(t *testing.T) {
		o := s.MakeOther("!", SortInt, x)
		c, err := s.Clone(o, []*Term{y})
		require.NoError(t, err)
		assert.Equal(t, OpOther, c.Op())
		assert.Equal(t, "!", c.Name())
		assert.Same(t, y, c.Arg(0))
		assert.Same(t, s.MakeOther("!", SortInt, y), c)
	})

	t.Run("leaf with arguments", func(t *testing.T) {
		_, err := s.Clone(x, []*Term{y})
		assert.True(t, IsArityError(err))
	})
}

func TestDeclare(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Declare("r", SortReal))
	require.NoError(t, s.Declare("r", SortReal))
	assert.Error(t, s.Declare("r", SortInt))
	assert.Equal(t, SortReal, s.SortOf("r"))
	assert.Equal(t, SortInt, s.SortOf("undeclared"))
}

func TestNFCNormalizesSymbols(t *testing.T) {
	s := NewStore()
	// precomposed vs e + combining acute
	a := s.Var("caf\u00E9")
	b := s.Var("cafe\u0301")
	assert.Same(t, a, b)
}

func TestArgsReturnsCopy(t *testing.T) {
	s := NewStore()
	p := s.MustMake(OpPlus, s.Var("x"), s.Int(1))
	args := p.Args()
	args[0] = s.Int(7)
	assert.Equal(t, "x", p.Arg(0).String())
}

func TestUnnegate(t *testing.T) {
	s := NewStore()
	leq := s.MustParse("(<= x 1)")
	inner, neg := s.Not(leq).Unnegate()
	assert.True(t, neg)
	assert.Same(t, leq, inner)

	same, neg := leq.Unnegate()
	assert.False(t, neg)
	assert.Same(t, leq, same)
}

func TestOpClassification(t *testing.T) {
	for _, op := range []Op{OpLeq, OpGeq, OpLt, OpGt} {
		assert.True(t, op.IsRelation(), op.String())
	}
	assert.False(t, OpEqual.IsRelation())
	assert.True(t, OpIdiv.IsArith())
	assert.False(t, OpAnd.IsArith())
	assert.Equal(t, "Leq", OpLeq.String())
	assert.Equal(t, "<=", OpLeq.Symbol())
}
