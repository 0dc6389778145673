package ir

import "fmt"

// Op is the operator tag of a term. The set is closed: every term has
// exactly one of these tags, and switches over Op are expected to be
// exhaustive.
type Op uint8

const (
	OpOther Op = iota // anything without a meaning in this package

	// Boolean connectives.
	OpTrue
	OpFalse
	OpEqual
	OpDistinct
	OpIte
	OpAnd
	OpOr
	OpIff
	OpXor
	OpNot
	OpImplies

	// Arithmetic relations.
	OpLeq
	OpGeq
	OpLt
	OpGt

	// Arithmetic functions.
	OpPlus
	OpSub
	OpUminus
	OpTimes
	OpDiv
	OpIdiv
	OpRem
	OpMod
	OpToReal
	OpToInt
	OpIsInt

	// Leaves and uninterpreted symbols.
	OpNumeral
	OpConst
	OpApp

	numOps
)

var opSymbols = [numOps]string{
	OpOther:    "other",
	OpTrue:     "true",
	OpFalse:    "false",
	OpEqual:    "=",
	OpDistinct: "distinct",
	OpIte:      "ite",
	OpAnd:      "and",
	OpOr:       "or",
	OpIff:      "iff",
	OpXor:      "xor",
	OpNot:      "not",
	OpImplies:  "=>",
	OpLeq:      "<=",
	OpGeq:      ">=",
	OpLt:       "<",
	OpGt:       ">",
	OpPlus:     "+",
	OpSub:      "-",
	OpUminus:   "-",
	OpTimes:    "*",
	OpDiv:      "/",
	OpIdiv:     "div",
	OpRem:      "rem",
	OpMod:      "mod",
	OpToReal:   "to_real",
	OpToInt:    "to_int",
	OpIsInt:    "is_int",
	OpNumeral:  "numeral",
	OpConst:    "const",
	OpApp:      "app",
}

var opNames = [numOps]string{
	OpOther:    "Other",
	OpTrue:     "True",
	OpFalse:    "False",
	OpEqual:    "Equal",
	OpDistinct: "Distinct",
	OpIte:      "Ite",
	OpAnd:      "And",
	OpOr:       "Or",
	OpIff:      "Iff",
	OpXor:      "Xor",
	OpNot:      "Not",
	OpImplies:  "Implies",
	OpLeq:      "Leq",
	OpGeq:      "Geq",
	OpLt:       "Lt",
	OpGt:       "Gt",
	OpPlus:     "Plus",
	OpSub:      "Sub",
	OpUminus:   "Uminus",
	OpTimes:    "Times",
	OpDiv:      "Div",
	OpIdiv:     "Idiv",
	OpRem:      "Rem",
	OpMod:      "Mod",
	OpToReal:   "ToReal",
	OpToInt:    "ToInt",
	OpIsInt:    "IsInt",
	OpNumeral:  "Numeral",
	OpConst:    "Const",
	OpApp:      "App",
}

// String returns the operator name, e.g. "Leq".
func (o Op) String() string {
	if o >= numOps {
		return fmt.Sprintf("Op(%d)", uint8(o))
	}
	return opNames[o]
}

// Symbol returns the s-expression spelling, e.g. "<=".
func (o Op) Symbol() string {
	if o >= numOps {
		return o.String()
	}
	return opSymbols[o]
}

// symbolOps maps s-expression heads to operators. "-" is resolved by
// arity in the parser and is not listed.
var symbolOps = map[string]Op{
	"=":        OpEqual,
	"distinct": OpDistinct,
	"ite":      OpIte,
	"and":      OpAnd,
	"or":       OpOr,
	"iff":      OpIff,
	"xor":      OpXor,
	"not":      OpNot,
	"=>":       OpImplies,
	"<=":       OpLeq,
	">=":       OpGeq,
	"<":        OpLt,
	">":        OpGt,
	"+":        OpPlus,
	"*":        OpTimes,
	"/":        OpDiv,
	"div":      OpIdiv,
	"rem":      OpRem,
	"mod":      OpMod,
	"to_real":  OpToReal,
	"to_int":   OpToInt,
	"is_int":   OpIsInt,
}

// IsRelation reports whether o is one of Leq, Geq, Lt, Gt.
func (o Op) IsRelation() bool {
	switch o {
	case OpLeq, OpGeq, OpLt, OpGt:
		return true
	}
	return false
}

// IsArith reports whether o builds an arithmetic (Int or Real) value.
func (o Op) IsArith() bool {
	switch o {
	case OpPlus, OpSub, OpUminus, OpTimes, OpDiv, OpIdiv, OpRem, OpMod,
		OpToReal, OpToInt, OpNumeral:
		return true
	}
	return false
}

// arity returns the fixed argument count of o, or -1 if o is variadic.
func (o Op) arity() int {
	switch o {
	case OpTrue, OpFalse:
		return 0
	case OpNot, OpUminus, OpToReal, OpToInt, OpIsInt:
		return 1
	case OpLeq, OpGeq, OpLt, OpGt, OpDiv, OpIdiv, OpRem, OpMod, OpImplies:
		return 2
	case OpIte:
		return 3
	}
	return -1
}

// Sort is the type of a term.
type Sort uint8

const (
	SortBool Sort = iota
	SortInt
	SortReal
)

// String returns "Bool", "Int" or "Real".
func (s Sort) String() string {
	switch s {
	case SortBool:
		return "Bool"
	case SortInt:
		return "Int"
	case SortReal:
		return "Real"
	}
	return fmt.Sprintf("Sort(%d)", uint8(s))
}

// ParseSort reads "Bool", "Int" or "Real".
func ParseSort(name string) (Sort, error) {
	switch name {
	case "Bool":
		return SortBool, nil
	case "Int":
		return SortInt, nil
	case "Real":
		return SortReal, nil
	}
	return SortInt, fmt.Errorf("unknown sort %q: must be Bool, Int or Real", name)
}

// IsArith reports whether s is Int or Real.
func (s Sort) IsArith() bool {
	return s == SortInt || s == SortReal
}
