package farkas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/farkas/internal/ir"
	"github.com/roach88/farkas/internal/proof"
)

func TestCheckFarkasContradiction(t *testing.T) {
	s := ir.NewStore()
	n := farkasNode(s, []string{"(<= x (- 1))", "(>= x 1)"}, proof.Rat(1, 1), proof.Rat(1, 1))

	res, err := Check(s, n)
	require.NoError(t, err)
	assert.Equal(t, proof.FarkasLemma, res.Rule)
	assert.Equal(t, []string{"1", "-1"}, strs(res.Coefficients))
	assert.Equal(t, "1", res.LCD.String())
	assert.Equal(t, "(<= 0 -2)", res.Inequality.String())
	assert.True(t, res.Contradiction)
}

func TestCheckFarkasFractionalMultipliers(t *testing.T) {
	s := ir.NewStore()
	require.NoError(t, s.Declare("r", ir.SortReal))
	n := farkasNode(s, []string{"(<= (* 2 r) 1)", "(> r 1)"}, proof.Rat(1, 2), proof.Rat(1, 1))

	res, err := Check(s, n)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "-2"}, strs(res.Coefficients))
	assert.Equal(t, "2", res.LCD.String())
	assert.Equal(t, ir.OpLt, res.Inequality.Op())
	assert.True(t, res.Contradiction)
}

func TestCheckFarkasNotContradictory(t *testing.T) {
	s := ir.NewStore()
	n := farkasNode(s, []string{"(<= x 1)", "(>= x 0)"}, proof.Rat(1, 1), proof.Rat(1, 1))

	res, err := Check(s, n)
	require.NoError(t, err)
	assert.Equal(t, "(<= 0 1)", res.Inequality.String())
	assert.False(t, res.Contradiction)
}

func TestCheckAssignBounds(t *testing.T) {
	s := ir.NewStore()
	// x >= 5 and y >= x imply y >= 5
	n := assignBoundsNode(s, "(or (>= y 5) (not (>= x 5)) (not (>= y x)))", proof.Rat(1, 1), proof.Rat(1, 1))

	res, err := Check(s, n)
	require.NoError(t, err)
	assert.Equal(t, proof.AssignBounds, res.Rule)
	assert.Equal(t, []string{"1", "-1", "-1"}, strs(res.Coefficients))
	assert.Equal(t, "(< 0 0)", res.Inequality.String())
	assert.True(t, res.Contradiction)
}

func TestCheckAssignBoundsUnitClause(t *testing.T) {
	s := ir.NewStore()
	n := assignBoundsNode(s, "(<= 0 1)")

	res, err := Check(s, n)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, strs(res.Coefficients))
	// not (0 <= 1) is 1 < 0
	assert.Equal(t, "(< 0 -1)", res.Inequality.String())
	assert.True(t, res.Contradiction)
}

func TestCheckMalformed(t *testing.T) {
	s := ir.NewStore()

	t.Run("unsupported rule", func(t *testing.T) {
		_, err := Check(s, proof.NewLeaf(s.MustParse("(<= x 1)")))
		assert.True(t, IsMalformedCertificate(err))
	})

	t.Run("extra premise", func(t *testing.T) {
		n := farkasNode(s, []string{"(<= x 1)", "(>= x 2)"}, proof.Rat(1, 1))
		_, err := Check(s, n)
		assert.True(t, IsMalformedCertificate(err))
	})

	t.Run("literal count mismatch", func(t *testing.T) {
		n := assignBoundsNode(s, "(or (<= x 1) (>= x 3) (>= x 4))", proof.Rat(1, 1))
		_, err := Check(s, n)
		assert.True(t, IsMalformedCertificate(err))
	})

	t.Run("premise is not an inequality", func(t *testing.T) {
		n := farkasNode(s, []string{"(<= x 1)", "(= x 2)"}, proof.Rat(1, 1), proof.Rat(1, 1))
		_, err := Check(s, n)
		assert.True(t, IsNotAnInequality(err))
	})
}
