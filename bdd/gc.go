// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

// GC performs a mark-and-sweep collection, reclaiming every node not
// reachable from roots or from a registered variable (ithvar/nithvar
// nodes are always kept live, see varnum.go). Unlike rudd, which tracks
// liveness through refcounts bumped by AddRef/DelRef and Go finalizers
// on externally held Nodes, this store asks the caller for its current
// live set directly: the PFP driver in package engine always knows
// exactly which BDDs (database, rule results, in-flight step cache) it
// still needs, so there is no use maintaining a parallel refcounting
// scheme here.
func (b *BDD) GC(roots []Node) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gc(roots)
}

func (b *BDD) gc(roots []Node) {
	if b.err != nil {
		return
	}
	b.gcs++
	marked := make(map[Node]bool, len(b.nodes)-b.freenum)
	for _, pair := range b.varset {
		b.mark(pair[0], marked)
		b.mark(pair[1], marked)
	}
	for _, r := range roots {
		b.mark(r, marked)
	}
	newUnique := make(map[ukey]Node, len(marked))
	for n := range marked {
		nd := b.nodes[n]
		newUnique[ukey{nd.v, nd.hi, nd.lo}] = n
	}
	b.unique = newUnique

	b.freepos = 0
	b.freenum = 0
	for n := len(b.nodes) - 1; n >= 2; n-- {
		if marked[Node(n)] {
			continue
		}
		b.nodes[n] = node{v: freeMarker, hi: b.freepos, lo: 0}
		b.freepos = Node(n)
		b.freenum++
	}
	b.cachereset()
	b.log.Debug("garbage collected", "freed", b.freenum, "total", len(b.nodes))
}

func (b *BDD) mark(n Node, marked map[Node]bool) {
	if n == False || n == True || marked[n] {
		return
	}
	if b.vp != nil && b.vp.owns(n) {
		// virtual-power handles never denote a stored node directly;
		// only the underlying root needs protecting.
		b.mark(b.vp.root, marked)
		return
	}
	marked[n] = true
	nd := b.nodes[n]
	b.mark(nd.hi, marked)
	b.mark(nd.lo, marked)
}
