// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

// This store memoizes the recursive BDD operations with plain Go maps
// keyed on the operation's arguments, rather than the rudd Hudd
// backend's open-addressed array with a pairing-function hash: the node
// table here is already a map, so a second hand-rolled hash table buys
// nothing. Entries are dropped wholesale on every garbage collection
// (see gc.go), since a stale entry can reference a node that GC has
// reused for something else.

type applyKey struct {
	op   Operator
	a, b Node
}

type existKey struct {
	n   Node
	set Node // conjunction of the quantified variables, see set.go
}

type permuteKey struct {
	n    Node
	perm int // identity of the permutation in effect, see replace.go
}

func (b *BDD) applyLookup(op Operator, a, bb Node) (Node, bool) {
	v, ok := b.applyCache[applyKey{op, a, bb}]
	return v, ok
}

func (b *BDD) applyStore(op Operator, a, bb, res Node) Node {
	b.applyCache[applyKey{op, a, bb}] = res
	return res
}

func (b *BDD) existLookup(n, set Node) (Node, bool) {
	v, ok := b.existCache[existKey{n, set}]
	return v, ok
}

func (b *BDD) existStore(n, set, res Node) Node {
	b.existCache[existKey{n, set}] = res
	return res
}

func (b *BDD) permuteLookup(n Node, id int) (Node, bool) {
	v, ok := b.permuteCache[permuteKey{n, id}]
	return v, ok
}

func (b *BDD) permuteStore(n Node, id int, res Node) Node {
	b.permuteCache[permuteKey{n, id}] = res
	return res
}

// cachereset drops every memoized entry. Called after a garbage
// collection, which can reuse node ids cached results still point at,
// and when a virtual-power view is installed or cleared, since cached
// results for virtual ids are only meaningful against one view.
func (b *BDD) cachereset() {
	b.applyCache = make(map[applyKey]Node, len(b.applyCache))
	b.existCache = make(map[existKey]Node, len(b.existCache))
	b.permuteCache = make(map[permuteKey]Node, len(b.permuteCache))
}
