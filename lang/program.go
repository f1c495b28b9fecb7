// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package lang

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/tamlang/tau/bdd"
	"github.com/tamlang/tau/engine"
	"github.com/tamlang/tau/rule"
	"github.com/tamlang/tau/symbol"
)

// Program holds everything Read builds from a source string: the
// symbol dictionary, the BDD store, the compiled rules, and the
// resulting driver ready to step.
type Program struct {
	Dict   *symbol.Dict
	Store  *bdd.BDD
	Ar     int
	Bits   int
	Driver *engine.Driver

	log hclog.Logger
}

// Option configures Program construction.
type Option func(*Program)

// WithLogger installs a structured logger, propagated to the store and
// the driver. The default is a no-op logger.
func WithLogger(l hclog.Logger) Option {
	return func(p *Program) {
		if l != nil {
			p.log = l
		}
	}
}

// Read lexes and parses source, computes the program-wide arity and
// bit width, and compiles every clause, facts included: a fact becomes
// a head-only rule the driver re-asserts on every step, so the
// database starts empty and receives all facts on the first step. The
// returned Program's Driver is ready for Step/PFP.
//
// A term's relation symbol is folded into the term as its first
// argument, interned like any constant, so the whole database is one
// BDD and the program arity counts the relation position too: "b 2 3"
// is the arity-3 tuple (b, 2, 3), and "a 1" pads to (a, 1, *).
func Read(source string, opts ...Option) (*Program, error) {
	clauses, err := parseProgram(source)
	if err != nil {
		return nil, err
	}

	p := &Program{Dict: symbol.NewDict(), log: hclog.NewNullLogger()}
	for _, o := range opts {
		o(p)
	}

	ar := 1
	for _, c := range clauses {
		ar = maxInt(ar, 1+len(c.Head.Args))
		for _, b := range c.Body {
			ar = maxInt(ar, 1+len(b.Args))
		}
	}
	p.Ar = ar

	matrices := make([]rule.Matrix, 0, len(clauses))
	maxWidth := ar
	for _, c := range clauses {
		p.Dict.VarScope()
		m := rule.Matrix{p.buildTerm(c.Head)}
		for _, b := range c.Body {
			m = append(m, p.buildTerm(b))
		}
		matrices = append(matrices, m)
		if w := len(c.Body); w > 0 {
			maxWidth = maxInt(maxWidth, ar*(w+1))
		}
	}

	p.Bits = p.Dict.Bits()
	dsz := int32(p.Dict.NumConstants())
	varnum := maxWidth * p.Bits
	store, err := bdd.New(varnum, bdd.Logger(p.log))
	if err != nil {
		return nil, fmt.Errorf("lang: allocating BDD store: %w", err)
	}
	p.Store = store

	compiler := rule.NewCompiler(store, p.Dict, p.Bits, dsz, ar)
	rules := make([]*rule.Rule, 0, len(matrices))
	for i, m := range matrices {
		r, err := compiler.Compile(m, false)
		if err != nil {
			return nil, fmt.Errorf("lang: compiling rule %d: %w", i, err)
		}
		rules = append(rules, r)
	}
	if err := store.Err(); err != nil {
		return nil, fmt.Errorf("lang: compiling program: %w", err)
	}

	p.Driver = engine.NewDriver(store, rules, bdd.False, p.Ar, p.Bits, p.log)
	return p, nil
}

// buildTerm interns a literal into a rule.Term: polarity in the sign
// slot, the relation symbol as argument 0, then the arguments, padded
// up to the program's arity with symbol.Pad.
func (p *Program) buildTerm(lit Literal) rule.Term {
	t := make(rule.Term, p.Ar+1)
	if lit.Neg {
		t[0] = -1
	} else {
		t[0] = 1
	}
	t[1] = p.Dict.Intern(lit.Pred)
	for j := 0; j < p.Ar-1; j++ {
		if j >= len(lit.Args) {
			t[j+2] = symbol.Pad
			continue
		}
		a := lit.Args[j]
		if a.IsVar {
			t[j+2] = p.Dict.Var(a.Name)
		} else {
			t[j+2] = p.Dict.Intern(a.Name)
		}
	}
	return t
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
