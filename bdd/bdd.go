// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import "math/big"

// Not returns the negation of n.
func (b *BDD) Not(n Node) Node {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.not(n)
}

// And returns the conjunction of a sequence of nodes, True if empty.
func (b *BDD) And(n ...Node) Node { return b.AndMany(n...) }

// Or returns the disjunction of a sequence of nodes, False if empty.
func (b *BDD) Or(n ...Node) Node { return b.OrMany(n...) }

// AndNot returns n1 & !n2.
func (b *BDD) AndNot(n1, n2 Node) Node {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.apply(OPdiff, n1, n2)
}

// Apply performs one of the binary operations described by op on left
// and right.
func (b *BDD) Apply(left, right Node, op Operator) Node {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.apply(op, left, right)
}

// apply is the standard Bryant recursion, expanding on the topmost
// variable of either operand and memoizing on (op, left, right).
func (b *BDD) apply(op Operator, left, right Node) Node {
	if left == False || left == True {
		if right == False || right == True {
			return boolNode(opres[op][left][right] == 1)
		}
	}
	switch op {
	case OPand:
		if left == False || right == False {
			return False
		}
		if left == True {
			return right
		}
		if right == True || left == right {
			return left
		}
	case OPor:
		if left == True || right == True {
			return True
		}
		if left == False {
			return right
		}
		if right == False || left == right {
			return left
		}
	}
	if v, ok := b.applyLookup(op, left, right); ok {
		return v
	}
	llvl, lhi, llo := b.children(left)
	rlvl, rhi, rlo := b.children(right)
	var res Node
	switch {
	case llvl == rlvl:
		res = b.mk(llvl, b.apply(op, lhi, rhi), b.apply(op, llo, rlo))
	case llvl < rlvl:
		res = b.mk(llvl, b.apply(op, lhi, right), b.apply(op, llo, right))
	default:
		res = b.mk(rlvl, b.apply(op, left, rhi), b.apply(op, left, rlo))
	}
	return b.applyStore(op, left, right, res)
}

func boolNode(v bool) Node {
	if v {
		return True
	}
	return False
}

// not is defined in terms of apply's diff operator against True so
// that it shares the same cache and choke point as every other op.
func (b *BDD) not(n Node) Node {
	return b.apply(OPdiff, True, n)
}

// Ite computes (f & g) | (!f & h) directly, more efficiently than three
// separate Apply calls.
func (b *BDD) Ite(f, g, h Node) Node {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ite(f, g, h)
}

func (b *BDD) ite(f, g, h Node) Node {
	switch {
	case f == True:
		return g
	case f == False:
		return h
	case g == True && h == False:
		return f
	case g == h:
		return g
	}
	flvl, fhi, flo := b.children(f)
	glvl, ghi, glo := b.children(g)
	hlvl, hhi, hlo := b.children(h)
	lvl := flvl
	if glvl < lvl {
		lvl = glvl
	}
	if hlvl < lvl {
		lvl = hlvl
	}
	branch := func(n Node, nlvl int32, hi, lo Node) (Node, Node) {
		if nlvl == lvl {
			return hi, lo
		}
		return n, n
	}
	fh, fl := branch(f, flvl, fhi, flo)
	gh, gl := branch(g, glvl, ghi, glo)
	hh, hl := branch(h, hlvl, hhi, hlo)
	return b.mk(lvl, b.ite(fh, gh, hh), b.ite(fl, gl, hl))
}

// Exist existentially quantifies n over the variables named in varset
// (a node built with Makeset).
func (b *BDD) Exist(n, varset Node) Node {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.exist(n, varset)
}

func (b *BDD) exist(n, varset Node) Node {
	if varset == True {
		return n
	}
	if n == False || n == True {
		return n
	}
	if v, ok := b.existLookup(n, varset); ok {
		return v
	}
	orig := varset
	nlvl, nhi, nlo := b.children(n)
	// varset is a cube: a chain of positive literals with lo == False
	// throughout, so its "continue to the next quantified variable"
	// pointer is the high branch, not the low one.
	vlvl, vhi, _ := b.children(varset)
	for vlvl < nlvl {
		varset = vhi
		if varset == True {
			return b.existStore(n, orig, n)
		}
		vlvl, vhi, _ = b.children(varset)
	}
	var res Node
	if vlvl == nlvl {
		res = b.apply(OPor, b.exist(nhi, vhi), b.exist(nlo, vhi))
	} else {
		res = b.mk(nlvl, b.exist(nhi, varset), b.exist(nlo, varset))
	}
	return b.existStore(n, orig, res)
}

// AppEx applies op to left and right and then existentially quantifies
// the result over varset: an Apply followed by an Exist, performed under
// one acquisition of the store's lock.
func (b *BDD) AppEx(left, right Node, op Operator, varset Node) Node {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.exist(b.apply(op, left, right), varset)
}

// AndDeltail returns the existential quantification of n over every
// variable at level >= from. It has no counterpart in rudd: the PFP
// driver uses it to project a rule's selection BDD down onto its head
// variables once the body variables are no longer needed (see the
// Compiler in package rule).
func (b *BDD) AndDeltail(n Node, from int) Node {
	b.mu.Lock()
	defer b.mu.Unlock()
	set := True
	for v := from; v < int(b.varnum); v++ {
		set = b.apply(OPand, set, b.varset[v][0])
	}
	return b.exist(n, set)
}

// Low returns the false-branch child of n.
func (b *BDD) Low(n Node) Node {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, _, lo := b.children(n)
	return lo
}

// High returns the true-branch child of n.
func (b *BDD) High(n Node) Node {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, hi, _ := b.children(n)
	return hi
}

// Scanset returns the variables found by following the high branch of
// n, the dual of Makeset.
func (b *BDD) Scanset(n Node) []int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var res []int
	for n != True {
		if n == False {
			return nil
		}
		lvl, hi, _ := b.children(n)
		res = append(res, int(lvl))
		n = hi
	}
	return res
}

// Satcount returns the number of satisfying assignments of n over the
// store's full variable range, using arbitrary-precision arithmetic.
func (b *BDD) Satcount(n Node) *big.Int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if n == False {
		return big.NewInt(0)
	}
	lvl, _, _ := b.children(n)
	count := b.satcount(n)
	shift := new(big.Int).Lsh(big.NewInt(1), uint(lvl))
	return new(big.Int).Mul(count, shift)
}

func (b *BDD) satcount(n Node) *big.Int {
	if n == True {
		return big.NewInt(1)
	}
	if n == False {
		return big.NewInt(0)
	}
	lvl, hi, lo := b.children(n)
	hlvl, _, _ := b.children(hi)
	llvl, _, _ := b.children(lo)
	hc := new(big.Int).Mul(b.satcount(hi), new(big.Int).Lsh(big.NewInt(1), uint(hlvl-lvl-1)))
	lc := new(big.Int).Mul(b.satcount(lo), new(big.Int).Lsh(big.NewInt(1), uint(llvl-lvl-1)))
	return new(big.Int).Add(hc, lc)
}
