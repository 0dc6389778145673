package ir

import (
	"fmt"
	"strings"

	"github.com/roach88/farkas/internal/rational"
)

// Parse reads one s-expression into a term.
//
// Accepted forms:
//
//	3  -1  1/2  2.5           numerals ("/" or "." makes a Real literal)
//	true  false               boolean constants
//	x                         constant with the declared sort (default Int)
//	(<= x 3)  (+ x y 1)       builtin operators, see Op.Symbol
//	(- 1)                     negative numeral
//	(- x)  (- x y)            Uminus / Sub by arity
//	(f x y)                   uninterpreted application
//	(! t :named a)            annotation, kept opaque with the sort of t
//
// A ';' starts a comment that runs to the end of the line.
func (s *Store) Parse(src string) (*Term, error) {
	p := &parser{store: s, src: src}
	p.next()
	t, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.tok != "" {
		return nil, &ParseError{Pos: p.tokPos, Message: fmt.Sprintf("unexpected %q after expression", p.tok)}
	}
	return t, nil
}

// MustParse is like Parse but panics on error.
// Use only in tests or when the input is a literal known to be valid.
func (s *Store) MustParse(src string) *Term {
	t, err := s.Parse(src)
	if err != nil {
		panic(err)
	}
	return t
}

type parser struct {
	store  *Store
	src    string
	pos    int
	tok    string // "" at end of input
	tokPos int
}

// next advances to the next token.
func (p *parser) next() {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == ';' {
			for p.pos < len(p.src) && p.src[p.pos] != '\n' {
				p.pos++
			}
			continue
		}
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			p.pos++
			continue
		}
		break
	}
	p.tokPos = p.pos
	if p.pos >= len(p.src) {
		p.tok = ""
		return
	}
	if c := p.src[p.pos]; c == '(' || c == ')' {
		p.tok = string(c)
		p.pos++
		return
	}
	start := p.pos
	for p.pos < len(p.src) && !strings.ContainsRune(" \t\n\r();", rune(p.src[p.pos])) {
		p.pos++
	}
	p.tok = p.src[start:p.pos]
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{Pos: p.tokPos, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) expr() (*Term, error) {
	switch p.tok {
	case "":
		return nil, p.errorf("unexpected end of input")
	case ")":
		return nil, p.errorf("unexpected ')'")
	case "(":
		return p.list()
	}
	tok := p.tok
	p.next()
	return p.atom(tok)
}

func (p *parser) atom(tok string) (*Term, error) {
	switch tok {
	case "true":
		return p.store.True(), nil
	case "false":
		return p.store.False(), nil
	}
	if isNumeric(tok) {
		r, err := rational.Parse(tok)
		if err != nil {
			return nil, p.errorf("%v", err)
		}
		sort := SortInt
		if strings.ContainsAny(tok, "./") {
			sort = SortReal
		}
		return p.store.MakeNumeral(r, sort), nil
	}
	return p.store.Var(tok), nil
}

func isNumeric(tok string) bool {
	t := strings.TrimPrefix(tok, "-")
	return t != "" && t[0] >= '0' && t[0] <= '9'
}

func (p *parser) list() (*Term, error) {
	open := p.tokPos
	p.next()
	if p.tok == "" || p.tok == "(" || p.tok == ")" {
		return nil, p.errorf("expected operator after '('")
	}
	head := p.tok
	p.next()

	var args []*Term
	for p.tok != ")" {
		if p.tok == "" {
			return nil, &ParseError{Pos: open, Message: "unclosed '('"}
		}
		a, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	p.next()

	if head == "-" {
		return p.minus(open, args)
	}
	if head == "!" {
		if len(args) == 0 {
			return nil, &ParseError{Pos: open, Message: "annotation without a term"}
		}
		return p.store.MakeOther(head, args[0].Sort(), args...), nil
	}
	if op, ok := symbolOps[head]; ok {
		t, err := p.store.Make(op, args...)
		if err != nil {
			return nil, &ParseError{Pos: open, Message: err.Error()}
		}
		return t, nil
	}
	if isNumeric(head) {
		return nil, &ParseError{Pos: open, Message: fmt.Sprintf("numeral %q used as operator", head)}
	}
	return p.store.MakeApp(head, p.store.SortOf(head), args...), nil
}

func (p *parser) minus(open int, args []*Term) (*Term, error) {
	switch len(args) {
	case 0:
		return nil, &ParseError{Pos: open, Message: "'-' needs at least one argument"}
	case 1:
		if v, ok := args[0].Numeral(); ok {
			return p.store.MakeNumeral(v.Neg(), args[0].Sort()), nil
		}
		return p.store.MustMake(OpUminus, args[0]), nil
	}
	return p.store.MustMake(OpSub, args...), nil
}
