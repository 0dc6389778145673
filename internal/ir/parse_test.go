package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/farkas/internal/rational"
)

func TestParseNumerals(t *testing.T) {
	s := NewStore()
	tests := []struct {
		src   string
		value string
		sort  Sort
	}{
		{"3", "3", SortInt},
		{"-1", "-1", SortInt},
		{"1/2", "1/2", SortReal},
		{"2.5", "5/2", SortReal},
		{"2.0", "2", SortReal},
		{"(- 4)", "-4", SortInt},
		{"(- 1/3)", "-1/3", SortReal},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			term, err := s.Parse(tt.src)
			require.NoError(t, err)
			v, ok := term.Numeral()
			require.True(t, ok)
			assert.Equal(t, tt.value, v.String())
			assert.Equal(t, tt.sort, term.Sort())
		})
	}
}

func TestParseStructure(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Declare("r", SortReal))

	leq := s.MustParse("(<= x (+ y 1))")
	assert.Equal(t, OpLeq, leq.Op())
	assert.Equal(t, OpConst, leq.Arg(0).Op())
	assert.Equal(t, OpPlus, leq.Arg(1).Op())

	assert.Equal(t, OpUminus, s.MustParse("(- x)").Op())
	assert.Equal(t, OpSub, s.MustParse("(- x y)").Op())
	assert.Equal(t, OpSub, s.MustParse("(- x y z)").Op())
	assert.Equal(t, SortReal, s.MustParse("r").Sort())

	f := s.MustParse("(f x 2)")
	assert.Equal(t, OpApp, f.Op())
	assert.Equal(t, "f", f.Name())
	assert.Equal(t, 2, f.NumArgs())

	assert.Same(t, s.True(), s.MustParse("true"))
	assert.Same(t, s.Not(leq), s.MustParse("(not (<= x (+ y 1)))"))
}

func TestParseComments(t *testing.T) {
	s := NewStore()
	term := s.MustParse("; bound\n(<= x ; lhs\n 3)")
	assert.Equal(t, "(<= x 3)", term.String())
}

func TestParseErrors(t *testing.T) {
	s := NewStore()
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"unclosed", "(<= x 1"},
		{"stray close", ")"},
		{"trailing", "x y"},
		{"no head", "()"},
		{"list head", "((f x) y)"},
		{"numeric head", "(3 x)"},
		{"bare minus", "(-)"},
		{"bad arity", "(<= x)"},
		{"bad numeral", "1/0"},
		{"empty annotation", "(!)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Parse(tt.src)
			require.Error(t, err)
			var pe *ParseError
			assert.ErrorAs(t, err, &pe)
			assert.True(t, IsParseError(err))
		})
	}
}

func TestParsePrintRoundTrip(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Declare("r", SortReal))
	srcs := []string{
		"(<= 0 (+ x (* 2 y)))",
		"(not (< x -3))",
		"(>= r 1/2)",
		"(> r 2.0)",
		"(div (+ (* 4 x) 3) 2)",
		"(or (not (<= x 1)) (and p q))",
		"(ite (= x y) x (- y))",
		"(f (g x) 1)",
		"(! (<= x 1) :named a1)",
	}
	for _, src := range srcs {
		t.Run(src, func(t *testing.T) {
			term := s.MustParse(src)
			assert.Equal(t, src, term.String())
			assert.Same(t, term, s.MustParse(term.String()))
		})
	}
}

func TestParseAnnotation(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Declare("r", SortReal))

	named := s.MustParse("(! (<= x 1) :named a1)")
	assert.Equal(t, OpOther, named.Op())
	assert.Equal(t, "!", named.Name())
	assert.Equal(t, SortBool, named.Sort())
	assert.Same(t, s.MustParse("(<= x 1)"), named.Arg(0))

	assert.Equal(t, SortReal, s.MustParse("(! r :weight 2)").Sort())
}

func TestParseNegativeNumeralMatchesConstructor(t *testing.T) {
	s := NewStore()
	assert.Same(t, s.MakeInt(rational.FromInt(-2)), s.MustParse("(- 2)"))
	assert.Same(t, s.MakeInt(rational.FromInt(-2)), s.MustParse("-2"))
}
