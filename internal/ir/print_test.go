package ir

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrettyPrintShortTermIsFlat(t *testing.T) {
	s := NewStore()
	var buf bytes.Buffer
	require.NoError(t, PrettyPrint(&buf, s.MustParse("(<= x 1)")))
	assert.Equal(t, "(<= x 1)\n", buf.String())
}

func TestPrettyPrintBreaksLongTerms(t *testing.T) {
	s := NewStore()
	long := strings.Repeat("very_long_variable_name_", 2)
	src := "(<= (+ " + long + "a " + long + "b " + long + "c) 1)"
	term := s.MustParse(src)

	var buf bytes.Buffer
	require.NoError(t, PrettyPrint(&buf, term))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Greater(t, len(lines), 1)
	assert.Equal(t, "(<=", lines[0])
	for _, l := range lines {
		assert.LessOrEqual(t, len(l), 79, l)
	}
	assert.True(t, strings.HasPrefix(lines[1], "  "))

	// Whitespace-insensitive equality with the flat form.
	flat := strings.Join(strings.Fields(buf.String()), " ")
	assert.Equal(t, strings.Join(strings.Fields(src), " "), strings.ReplaceAll(flat, "( ", "("))
}

func TestPrintLit(t *testing.T) {
	s := NewStore()
	and := s.MustParse("(and p q)")
	leq := s.MustParse("(<= x 1)")

	assert.Equal(t, "[(and p q)]", PrintLit(and))
	assert.Equal(t, "~[(and p q)]", PrintLit(s.Not(and)))
	assert.Equal(t, "(<= x 1)", PrintLit(leq))
	assert.Equal(t, "(not (<= x 1))", PrintLit(s.Not(leq)))
}

func TestPrintClause(t *testing.T) {
	s := NewStore()
	lits := []*Term{s.MustParse("(<= x 1)"), s.Not(s.MustParse("(or p q)"))}
	assert.Equal(t, "((<= x 1),~[(or p q)])", PrintClause(lits))
	assert.Equal(t, "()", PrintClause(nil))
}
