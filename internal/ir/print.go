package ir

import (
	"bufio"
	"io"
	"strings"
)

// Pretty-printer layout.
const (
	prettyCols   = 79
	prettyIndent = 2
)

// String returns the s-expression form of t, e.g. "(<= 0 (+ x 1))".
// Negative and fractional numerals print as "-2" and "1/2"; Real-sorted
// integers print as "2.0". The output is accepted by Store.Parse.
func (t *Term) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.str
}

func format(t *Term) string {
	switch t.op {
	case OpTrue, OpFalse:
		return t.op.Symbol()
	case OpNumeral:
		return formatNumeral(t)
	case OpConst:
		return t.name
	}
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(head(t))
	for _, a := range t.args {
		b.WriteByte(' ')
		b.WriteString(a.str)
	}
	b.WriteByte(')')
	return b.String()
}

func head(t *Term) string {
	switch t.op {
	case OpApp, OpOther:
		return t.name
	}
	return t.op.Symbol()
}

func formatNumeral(t *Term) string {
	s := t.value.String()
	if t.sort == SortReal && t.value.IsInt() {
		return s + ".0"
	}
	return s
}

// PrettyPrint writes t indented so that no line exceeds 79 columns where
// possible. Subterms that fit on the current line are printed flat;
// otherwise the operator opens a block and each argument goes on its own
// line, indented two more columns.
func PrettyPrint(w io.Writer, t *Term) error {
	bw := bufio.NewWriter(w)
	pretty(bw, t, 0)
	bw.WriteByte('\n')
	return bw.Flush()
}

func pretty(w *bufio.Writer, t *Term, indent int) {
	if len(t.args) == 0 || indent+len(t.str) <= prettyCols {
		w.WriteString(t.str)
		return
	}
	w.WriteByte('(')
	w.WriteString(head(t))
	for _, a := range t.args {
		w.WriteByte('\n')
		w.WriteString(strings.Repeat(" ", indent+prettyIndent))
		pretty(w, a, indent+prettyIndent)
	}
	w.WriteByte(')')
}

// PrintLit formats a clause literal. Boolean structure inside a literal
// is bracketed so it stands out from the clause: a negated and/or/iff
// prints as ~[...].
func PrintLit(lit *Term) string {
	abs, neg := lit.Unnegate()
	switch abs.op {
	case OpAnd, OpOr, OpIff:
		prefix := ""
		if neg {
			prefix = "~"
		}
		return prefix + "[" + abs.str + "]"
	}
	return lit.str
}

// PrintClause formats literals as "(l1,l2,...)".
func PrintClause(lits []*Term) string {
	parts := make([]string, len(lits))
	for i, l := range lits {
		parts[i] = PrintLit(l)
	}
	return "(" + strings.Join(parts, ",") + ")"
}
