// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

// This file implements the general form of variable substitution
// Permute needs. The rule compiler's permutation (see package rule) is
// not order-preserving in general: a variable's target slot depends on
// where it was first encountered across a rule's bodies, which can
// send an earlier body position to a later slot while a later position
// lands earlier. A plain top-down rename (as in rudd's Replace, valid
// only for order-preserving pairs) would silently build a
// non-canonical node in that case.
//
// Instead we substitute each changed variable with the literal of its
// target through two passes via a block of scratch variables reserved
// above the store's working range: first rename every source variable
// to its own private scratch variable (harmless, since scratch
// variables never otherwise occur, so the substitutions cannot
// interfere with one another), then rename every scratch variable to
// its real target. Two passes of single-variable compose, using
// restrict and ite, realise an arbitrary permutation correctly.

// restrict returns f with the variable at level fixed to value.
func (b *BDD) restrict(f Node, level int32, value bool) Node {
	if f == False || f == True {
		return f
	}
	lvl, hi, lo := b.children(f)
	if lvl > level {
		return f
	}
	if lvl == level {
		if value {
			return hi
		}
		return lo
	}
	return b.mk(lvl, b.restrict(hi, level, value), b.restrict(lo, level, value))
}

// compose substitutes the variable at level with the function denoted
// by g (here always a single literal, see permuteGeneral).
func (b *BDD) compose(f Node, level int32, g Node) Node {
	hi := b.restrict(f, level, true)
	lo := b.restrict(f, level, false)
	return b.ite(g, hi, lo)
}

// ensureScratch reserves a block of scratch variables the same size
// as the store's working range, the first time it is needed, and
// returns the base level of that block. The reservation is permanent
// and is taken exactly once: rule compilation happens up front, before
// any rule fires, so the working range never grows past this point
// afterward.
func (b *BDD) ensureScratch() int32 {
	if b.scratchBase != 0 {
		return b.scratchBase
	}
	base := b.varnum
	if err := b.setvarnum(int(base) * 2); err != nil {
		b.err = err
		return base
	}
	b.scratchBase = base
	return base
}

// permuteGeneral applies an arbitrary (not necessarily order
// preserving) level permutation, described by pairs of (old, new)
// levels, to n.
func (b *BDD) permuteGeneral(n Node, pairs [][2]int32) Node {
	if len(pairs) == 0 || n == False || n == True {
		return n
	}
	scratch := b.ensureScratch()
	f := n
	for _, p := range pairs {
		f = b.compose(f, p[0], b.varset[scratch+p[0]][0])
	}
	for _, p := range pairs {
		f = b.compose(f, scratch+p[0], b.varset[p[1]][0])
	}
	return f
}
