// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package rule

import (
	"fmt"

	"github.com/tamlang/tau/bdd"
	"github.com/tamlang/tau/symbol"
)

// eqBatchSize bounds how many single-bit equality constraints get
// folded into one conjunction before starting a fresh one. Keeping
// each Apply call's conjunct count bounded avoids building one
// enormous left-leaning AND chain for rules with many repeated
// variables.
const eqBatchSize = 8

// ErrProofWithNegation is returned when proof-matrix extraction is
// requested for a rule that contains negation anywhere.
var ErrProofWithNegation = fmt.Errorf("rule: proof extraction is unsupported for rules with negation")

// Body is a compiled body atom: a selection BDD constraining the
// database to matching constants, an existential mask quantifying away
// bound and repeated-variable positions, batched equality constraints
// for variables repeated within the body, and the replacer that aligns
// this body's surviving (first-occurrence) variables with the rest of
// the rule.
type Body struct {
	Neg      bool
	Sel      bdd.Node
	Ex       bdd.Node // varset of positions to existentially quantify
	Eqs      []bdd.Node
	Replacer bdd.Replacer
}

// Rule is a compiled rule: ready to be fired against a database by
// package engine without any further reference to symbol names.
type Rule struct {
	Neg       bool
	HSym      bdd.Node
	Eqs       []bdd.Node
	Bodies    []*Body
	VarsArity int32 // k: total variable slots used by this rule, head included

	// Proof1/Proof2 hold the optional derivation-encoding matrices
	// built when Compile is asked for a proof and the rule has no
	// negation. Both are nil otherwise.
	Proof1 Matrix
	Proof2 []Matrix
}

// Compiler turns matrices into compiled rules against a fixed bit
// width, database universe size, and BDD store.
type Compiler struct {
	B    *bdd.BDD
	Dict *symbol.Dict
	Bits int
	Dsz  int32 // size of the symbol universe a free variable may range over
	Ar   int   // program-wide maximum arity (padding target)
}

// NewCompiler returns a Compiler bound to store b, dictionary dict,
// and the given bit width and universe size; ar is the maximum arity
// every term in the program has already been padded to.
func NewCompiler(b *bdd.BDD, dict *symbol.Dict, bits int, dsz int32, ar int) *Compiler {
	return &Compiler{B: b, Dict: dict, Bits: bits, Dsz: dsz, Ar: ar}
}

// Fact compiles a single headless ground term into the BDD
// representing the tuples it denotes: equate each constant argument to
// its value and repeated variables to each other. The head's polarity
// is the caller's concern (the driver routes a negative-headed rule's
// contribution into the del set), so the returned set is always the
// positive one.
func (c *Compiler) Fact(head Term) bdd.Node {
	res := bdd.True
	seen := make(map[int32]int)
	for j := 1; j < len(head); j++ {
		v := head[j]
		if v >= 0 {
			res = c.B.Apply(res, c.fromInt(v, int32(j-1)*int32(c.Bits)), bdd.OPand)
			continue
		}
		if first, ok := seen[v]; ok {
			res = c.B.Apply(res, c.fromEq(int32(j-1)*int32(c.Bits), int32(first)*int32(c.Bits)), bdd.OPand)
		} else {
			seen[v] = j - 1
		}
	}
	return res
}

// Compile turns a matrix into a Rule. A fact (head only) compiles to a
// rule with no bodies whose head-symbol BDD is the asserted tuple set
// itself; the driver fires it every step, which is what keeps facts
// alive under deletion. withProof requests proof-matrix extraction; it
// fails with ErrProofWithNegation if the rule or any of its bodies is
// negated.
func (c *Compiler) Compile(m Matrix, withProof bool) (*Rule, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if m.IsFact() {
		r := &Rule{Neg: m[0][0] < 0, HSym: c.Fact(m[0]), VarsArity: int32(m.Arity())}
		if withProof {
			if r.Neg {
				return nil, ErrProofWithNegation
			}
			r.Proof1, r.Proof2 = buildProof(m)
		}
		return r, nil
	}
	ar := m.Arity()
	head := append(Term(nil), m[0]...)
	neg := head[0] < 0
	head = head[1:]
	nvars := varCount(m[1:])

	r := &Rule{Neg: neg}
	hsym := bdd.True
	headOccur := make(map[int32]int) // variable -> head position, shared across all bodies
	var headEq []int32Pair
	for j, v := range head {
		if v >= 0 {
			hsym = c.B.Apply(hsym, c.fromInt(v, int32(j)*int32(c.Bits)), bdd.OPand)
			continue
		}
		if first, ok := headOccur[v]; ok {
			headEq = append(headEq, int32Pair{int32(j) * int32(c.Bits), int32(first) * int32(c.Bits)})
		} else {
			headOccur[v] = j
		}
	}
	r.HSym = hsym
	r.Eqs = c.batchEqs(headEq)

	r.Bodies = make([]*Body, len(m)-1)
	for i, t := range m[1:] {
		b, err := c.compileBody(t, ar, nvars)
		if err != nil {
			return nil, err
		}
		r.Bodies[i] = b
	}

	// Rule-level variable slot assignment, shared across bodies: a
	// variable's target slot is fixed the first time it is seen,
	// scanning the head first (positions 0..ar-1 are already its
	// slot) then each body left to right; variables never seen in
	// the head get a fresh slot above ar, in first-occurrence order.
	slot := headOccur
	k := int32(ar)
	for i, t := range m[1:] {
		old := make([]int, 0, ar)
		new := make([]int, 0, ar)
		for j := 1; j < len(t); j++ {
			v := t[j]
			if v >= 0 {
				continue
			}
			pos := int32(j - 1)
			target, ok := slot[v]
			if !ok {
				slot[v] = int(k)
				target = int(k)
				k++
			}
			if int32(target) == pos {
				continue
			}
			for bi := 0; bi < c.Bits; bi++ {
				old = append(old, int(pos)*c.Bits+bi)
				new = append(new, target*c.Bits+bi)
			}
		}
		if len(old) > 0 {
			rep, err := c.B.NewReplacer(old, new)
			if err != nil {
				return nil, fmt.Errorf("rule: building permutation for body %d: %w", i, err)
			}
			r.Bodies[i].Replacer = rep
		}
	}
	r.VarsArity = k

	if withProof {
		if neg {
			return nil, ErrProofWithNegation
		}
		for _, b := range r.Bodies {
			if b.Neg {
				return nil, ErrProofWithNegation
			}
		}
		r.Proof1, r.Proof2 = buildProof(m)
	}
	return r, nil
}

type int32Pair struct{ a, b int32 }

func (c *Compiler) compileBody(t Term, ar int, nvars int32) (*Body, error) {
	neg := t[0] < 0
	b := &Body{Neg: neg}
	b.Sel = bdd.True
	b.Ex = bdd.True
	seen := make(map[int32]int)
	var localEq []int32Pair
	exclude := []int32{symbol.Pad, symbol.Openp, symbol.Closep}
	for j := 1; j < len(t); j++ {
		v := t[j]
		pos := int32(j - 1)
		switch {
		case v >= 0:
			b.Sel = c.B.Apply(b.Sel, c.fromInt(v, pos*int32(c.Bits)), bdd.OPand)
			b.Ex = c.B.Apply(b.Ex, c.ithvarRange(pos), bdd.OPand)
		default:
			if first, ok := seen[v]; ok {
				b.Ex = c.B.Apply(b.Ex, c.ithvarRange(pos), bdd.OPand)
				localEq = append(localEq, int32Pair{pos * int32(c.Bits), int32(first) * int32(c.Bits)})
			} else {
				seen[v] = j - 1
				b.Sel = c.B.Apply(b.Sel, c.rangeConstraint(pos, exclude), bdd.OPand)
			}
		}
	}
	b.Eqs = c.batchEqs(localEq)
	return b, nil
}

func (c *Compiler) batchEqs(pairs []int32Pair) []bdd.Node {
	var batches []bdd.Node
	for i, p := range pairs {
		if i%eqBatchSize == 0 {
			batches = append(batches, bdd.True)
		}
		batches[len(batches)-1] = c.B.Apply(batches[len(batches)-1], c.fromEq(p.a, p.b), bdd.OPand)
	}
	return batches
}

// fromInt builds the BDD asserting that the bits.Bits()-wide field at
// offset encodes the constant x.
func (c *Compiler) fromInt(x int32, offset int32) bdd.Node {
	res := bdd.True
	for bi := 0; bi < c.Bits; bi++ {
		lvl := int(offset) + bi
		if (x>>uint(bi))&1 == 1 {
			res = c.B.Apply(res, c.B.Ithvar(lvl), bdd.OPand)
		} else {
			res = c.B.Apply(res, c.B.Nithvar(lvl), bdd.OPand)
		}
	}
	return res
}

// fromEq builds the BDD asserting bit-for-bit equality of the two
// bits.Bits()-wide fields starting at i and j.
func (c *Compiler) fromEq(i, j int32) bdd.Node {
	res := bdd.True
	for bi := 0; bi < c.Bits; bi++ {
		res = c.B.Apply(res, c.B.Equiv(c.B.Ithvar(int(i)+bi), c.B.Ithvar(int(j)+bi)), bdd.OPand)
	}
	return res
}

// ithvarRange returns the varset node (a Makeset-style cube) for the
// bits.Bits() variables occupied by argument position pos.
func (c *Compiler) ithvarRange(pos int32) bdd.Node {
	vars := make([]int, c.Bits)
	for bi := range vars {
		vars[bi] = int(pos)*c.Bits + bi
	}
	return c.B.Makeset(vars)
}

// rangeConstraint restricts a free variable's value to an interned
// constant strictly below Dsz, excluding the ids in exclude (the
// reserved padding/parenthesis symbols, which are never valid values
// for a logic variable). This enumerates the legal values rather than
// building a bit-recursive "less than" circuit: simpler to follow, and
// fine for the dictionary sizes this engine is meant to run against;
// a bit-recursive construction would pay off for very large universes.
func (c *Compiler) rangeConstraint(pos int32, exclude []int32) bdd.Node {
	offset := pos * int32(c.Bits)
	res := bdd.False
	for v := int32(0); v < c.Dsz; v++ {
		if containsID(exclude, v) {
			continue
		}
		res = c.B.Apply(res, c.fromInt(v, offset), bdd.OPor)
	}
	return res
}

func containsID(ids []int32, v int32) bool {
	for _, id := range ids {
		if id == v {
			return true
		}
	}
	return false
}

func varCount(bodies []Term) int32 {
	seen := make(map[int32]bool)
	for _, t := range bodies {
		for j := 1; j < len(t); j++ {
			if t[j] < 0 {
				seen[t[j]] = true
			}
		}
	}
	return int32(len(seen))
}
