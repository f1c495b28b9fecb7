// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package lang

// Arg is one argument of a surface-syntax term: either a bare
// identifier (a constant) or a variable, written '?name' in the source
// and stored with Name set to the name without the '?'.
type Arg struct {
	IsVar bool
	Name string
}

// Literal is one parsed term: an optional '~' negation, the
// predicate's own name (the term's first identifier), and its
// arguments.
type Literal struct {
	Neg  bool
	Pred string
	Args []Arg
}

// Clause is a parsed rule: a head literal and zero or more body
// literals. A Clause with no body is a fact.
type Clause struct {
	Head Literal
	Body []Literal
}

// parser consumes a pre-lexed item slice with one token of lookahead:
// one rule-level loop reading a head term then an optional body, and
// one term-level loop reading a predicate name and its arguments.
type parser struct {
	items []item
	pos   int
}

func (p *parser) peek() item  { return p.items[p.pos] }
func (p *parser) advance() item {
	it := p.items[p.pos]
	if it.typ != itemEOF {
		p.pos++
	}
	return it
}

// parseProgram parses every rule in source, returning the full list of
// clauses (facts and rules alike) in the order they appear.
func parseProgram(source string) ([]Clause, error) {
	items, err := collect(source)
	if err != nil {
		return nil, withSource(err, source)
	}
	p := &parser{items: items}
	var clauses []Clause
	for p.peek().typ != itemEOF {
		c, err := p.rule()
		if err != nil {
			return nil, withSource(err, source)
		}
		clauses = append(clauses, c)
	}
	return clauses, nil
}

func withSource(err error, source string) error {
	if se, ok := err.(*SyntaxError); ok {
		se.Source = source
		return se
	}
	return err
}

func (p *parser) rule() (Clause, error) {
	head, err := p.term()
	if err != nil {
		return Clause{}, err
	}
	if head == nil {
		return Clause{}, &SyntaxError{Pos: p.peek().pos, Msg: "term expected"}
	}
	c := Clause{Head: *head}
	switch p.peek().typ {
	case itemDot:
		p.advance()
		return c, nil
	case itemColonDash:
		p.advance()
	default:
		return Clause{}, &SyntaxError{Pos: p.peek().pos, Msg: "':-' or '.' expected"}
	}
	for {
		t, err := p.term()
		if err != nil {
			return Clause{}, err
		}
		if t == nil {
			return Clause{}, &SyntaxError{Pos: p.peek().pos, Msg: "term expected"}
		}
		c.Body = append(c.Body, *t)
		switch p.peek().typ {
		case itemComma:
			p.advance()
			continue
		case itemDot:
			p.advance()
			return c, nil
		default:
			return Clause{}, &SyntaxError{Pos: p.peek().pos, Msg: "',' or '.' expected"}
		}
	}
}

// term parses one '~'? identifier (identifier | '?' identifier)*
// literal. It returns (nil, nil) at a token that cannot start a term
// (',', '.', or EOF); rule reports that as a "term expected" syntax
// error, since every position it calls term from requires a term.
func (p *parser) term() (*Literal, error) {
	switch p.peek().typ {
	case itemComma, itemDot, itemEOF:
		return nil, nil
	}
	lit := &Literal{}
	if p.peek().typ == itemTilde {
		p.advance()
		lit.Neg = true
	}
	head := p.peek()
	if head.typ != itemIdent {
		return nil, &SyntaxError{Pos: head.pos, Msg: "identifier expected"}
	}
	p.advance()
	lit.Pred = head.val
	for {
		switch p.peek().typ {
		case itemIdent:
			it := p.advance()
			lit.Args = append(lit.Args, Arg{Name: it.val})
		case itemVar:
			it := p.advance()
			lit.Args = append(lit.Args, Arg{IsVar: true, Name: it.val[1:]})
		default:
			return lit, nil
		}
	}
}
