package farkas

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/farkas/internal/ir"
	"github.com/roach88/farkas/internal/proof"
	"github.com/roach88/farkas/internal/rational"
)

func strs(rats []rational.Rational) []string {
	out := make([]string, len(rats))
	for i, r := range rats {
		out[i] = r.String()
	}
	return out
}

func farkasNode(s *ir.Store, premises []string, params ...proof.Param) *proof.Node {
	n := &proof.Node{
		Rule:       proof.FarkasLemma,
		Conclusion: s.False(),
		Params:     append([]proof.Param{proof.Sym("arith"), proof.Sym("farkas")}, params...),
	}
	for _, p := range premises {
		n.Premises = append(n.Premises, proof.NewLeaf(s.MustParse(p)))
	}
	return n
}

func TestFarkasCoeffsSigns(t *testing.T) {
	s := ir.NewStore()
	n := farkasNode(s,
		[]string{
			"(<= x 1)",
			"(not (<= x 1))",
			"(>= x 1)",
			"(not (>= x 1))",
			"(< x 1)",
			"(not (< x 1))",
			"(> x 1)",
			"(not (> x 1))",
		},
		proof.Rat(1, 1), proof.Rat(1, 1), proof.Rat(1, 1), proof.Rat(1, 1),
		proof.Rat(1, 1), proof.Rat(1, 1), proof.Rat(1, 1), proof.Rat(1, 1),
	)

	rats, err := FarkasCoeffs(n)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "-1", "-1", "1", "1", "-1", "-1", "1"}, strs(rats))
}

func TestFarkasCoeffsScalesByLCD(t *testing.T) {
	s := ir.NewStore()
	n := farkasNode(s, []string{"(<= x 1)", "(>= x 2)"}, proof.Rat(1, 2), proof.Rat(1, 3))

	rats, err := FarkasCoeffs(n)
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "-2"}, strs(rats))

	terms, err := FarkasCoeffTerms(s, n)
	require.NoError(t, err)
	require.Len(t, terms, 2)
	assert.Equal(t, "-2", terms[1].String())
	assert.Equal(t, ir.SortInt, terms[1].Sort())
}

func TestFarkasCoeffsIgnoresNonRelationPremise(t *testing.T) {
	s := ir.NewStore()
	n := farkasNode(s, []string{"(= x 1)"}, proof.Rat(2, 1))
	rats, err := FarkasCoeffs(n)
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, strs(rats))
}

func TestFarkasCoeffsMalformed(t *testing.T) {
	s := ir.NewStore()

	t.Run("symbol multiplier", func(t *testing.T) {
		n := farkasNode(s, []string{"(<= x 1)", "(>= x 2)"}, proof.Rat(1, 1), proof.Sym("oops"))
		_, err := FarkasCoeffs(n)
		require.Error(t, err)
		assert.True(t, IsMalformedCertificate(err))
		var fe *Error
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, 3, fe.Index)
	})

	t.Run("missing premise", func(t *testing.T) {
		n := farkasNode(s, []string{"(<= x 1)"}, proof.Rat(1, 1), proof.Rat(1, 1))
		_, err := FarkasCoeffs(n)
		assert.True(t, IsMalformedCertificate(err))
	})

	t.Run("too few parameters", func(t *testing.T) {
		n := &proof.Node{Rule: proof.FarkasLemma, Params: []proof.Param{proof.Sym("arith")}}
		_, err := FarkasCoeffTerms(s, n)
		assert.True(t, IsMalformedCertificate(err))
	})
}

func assignBoundsNode(s *ir.Store, conclusion string, params ...proof.Param) *proof.Node {
	return &proof.Node{
		Rule:       proof.AssignBounds,
		Conclusion: s.MustParse(conclusion),
		Params:     append([]proof.Param{proof.Sym("arith"), proof.Sym("assign-bounds")}, params...),
	}
}

func TestAssignBoundsCoeffs(t *testing.T) {
	s := ir.NewStore()
	n := assignBoundsNode(s, "(or (>= y 5) (not (>= x 5)) (not (>= y x)))", proof.Rat(2, 1), proof.Rat(1, 2))

	rats, err := AssignBoundsCoeffs(n)
	require.NoError(t, err)
	// [1, -2, -1/2] scaled by 2
	assert.Equal(t, []string{"2", "-4", "-1"}, strs(rats))

	terms, err := AssignBoundsCoeffTerms(s, n)
	require.NoError(t, err)
	assert.Len(t, terms, 3)
}

func TestAssignBoundsCoeffsNegateRegardlessOfShape(t *testing.T) {
	s := ir.NewStore()
	for _, lit := range []string{"(<= x 1)", "(not (<= x 1))", "(>= x 1)", "(not (>= x 1))"} {
		n := assignBoundsNode(s, "(or (<= y 0) "+lit+")", proof.Rat(3, 1))
		rats, err := AssignBoundsCoeffs(n)
		require.NoError(t, err, lit)
		assert.Equal(t, []string{"1", "-3"}, strs(rats), lit)
	}
}

func TestAssignBoundsCoeffsMalformed(t *testing.T) {
	s := ir.NewStore()

	t.Run("symbol multiplier", func(t *testing.T) {
		n := assignBoundsNode(s, "(or p q)", proof.Sym("x"))
		_, err := AssignBoundsCoeffs(n)
		assert.True(t, IsMalformedCertificate(err))
	})

	t.Run("conclusion too short", func(t *testing.T) {
		n := assignBoundsNode(s, "(or (<= x 1) (>= x 3))", proof.Rat(1, 1), proof.Rat(1, 1))
		_, err := AssignBoundsCoeffs(n)
		require.Error(t, err)
		var fe *Error
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, 3, fe.Index)
	})

	t.Run("too few parameters", func(t *testing.T) {
		n := &proof.Node{Rule: proof.AssignBounds, Conclusion: s.False()}
		_, err := AssignBoundsCoeffTerms(s, n)
		assert.True(t, IsMalformedCertificate(err))
	})
}

func TestErrorFormatting(t *testing.T) {
	s := ir.NewStore()
	e := notAnInequality(s.MustParse("(and p q)"))
	assert.Equal(t, "NOT_AN_INEQUALITY: expected <=, <, >= or > under at most one negation (term=(and p q))", e.Error())

	m := malformed(4, "bad")
	assert.Equal(t, "MALFORMED_CERTIFICATE: bad (index=4)", m.Error())
	assert.Equal(t, ErrCodeMalformedCertificate, CodeOf(m))
	assert.Equal(t, ErrorCode(""), CodeOf(assert.AnError))
}

func TestMessageOfDropsCode(t *testing.T) {
	m := malformed(4, "bad")
	assert.Equal(t, "bad (index=4)", m.Detail())
	assert.Equal(t, "bad (index=4)", MessageOf(fmt.Errorf("step s: %w", m)))
	assert.Equal(t, assert.AnError.Error(), MessageOf(assert.AnError))
}
