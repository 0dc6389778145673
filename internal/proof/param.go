package proof

import (
	"strings"

	"github.com/roach88/farkas/internal/rational"
)

// Param is one entry of a node's parameter list. It is either a
// RationalParam or a SymbolParam.
type Param interface {
	String() string
	isParam()
}

// RationalParam is a solver-chosen multiplier.
type RationalParam struct {
	Value rational.Rational
}

func (p RationalParam) String() string { return p.Value.String() }
func (RationalParam) isParam()         {}

// SymbolParam is any non-numeric parameter, such as the "arith" and
// "farkas" tags that lead a Farkas step's parameter list.
type SymbolParam struct {
	Name string
}

func (p SymbolParam) String() string { return p.Name }
func (SymbolParam) isParam()         {}

// ParseParam returns a RationalParam when s reads as a rational and a
// SymbolParam otherwise.
func ParseParam(s string) Param {
	s = strings.TrimSpace(s)
	if r, err := rational.Parse(s); err == nil {
		return RationalParam{Value: r}
	}
	return SymbolParam{Name: s}
}

// Rat builds a RationalParam from num/den.
func Rat(num, den int64) Param {
	return RationalParam{Value: rational.New(num, den)}
}

// Sym builds a SymbolParam.
func Sym(name string) Param {
	return SymbolParam{Name: name}
}
