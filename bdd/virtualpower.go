// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

// vpBase is the smallest id handed out to a virtual-power view. A
// simple n >= vpBase test tells a virtual id apart from a real one as
// long as the node table holds fewer than vpBase slots; the store does
// not enforce that bound itself (maxNodeIncreaseDefault limits each
// resize, not the total size; Maxnodesize can cap it).
const vpBase Node = 1 << 28

// vpView implements the "virtual power" trick described in the design
// notes: a root's w-fold self-product, rotated across w disjoint copies
// of the variable range, without ever materialising the w-1 renamed
// copies the naive approach would build. Only one view can be active on
// a store at a time; installing a new one with VirtualPower discards
// the previous one (and every cache entry that could reference it).
type vpView struct {
	root  Node  // the node being replicated
	dim   int32 // number of copies (w)
	nvars int32 // number of variables per copy
	size  Node  // node table length at install time, used to size the id range per copy
}

func (v *vpView) owns(n Node) bool {
	return n >= vpBase && n < vpBase+Node(v.dim)*v.size
}

func (v *vpView) copyOf(n Node) int32 {
	return int32((n - vpBase) / v.size)
}

func (v *vpView) realID(n Node) Node {
	return (n - vpBase) % v.size
}

func (v *vpView) wrap(copyIdx int32, real Node) Node {
	return vpBase + Node(copyIdx)*v.size + real
}

// children resolves a virtual id's (level, hi, lo) triple by looking up
// the real node at the appropriate copy and shifting its level into
// that copy's range. A child that references some other real node of
// the same underlying graph stays within the same copy (it is simply
// one level deeper in that copy's replica); a child that hits the True
// terminal is the one edge that advances to the next copy, since
// reaching True in copy d means "this copy's constraint is satisfied,
// continue verifying copy d+1", unless d is the last copy, where True
// really does mean true. A child that hits False stays False in every
// copy: failing any one copy fails the whole product.
func (v *vpView) children(b *BDD, n Node) (int32, Node, Node) {
	copyIdx := v.copyOf(n)
	real := v.realID(n)
	if real == False || real == True {
		return b.varnum * v.dim, real, real
	}
	nd := b.nodes[real]
	level := nd.v + copyIdx*v.nvars
	shift := func(c Node) Node {
		switch c {
		case False:
			return False
		case True:
			if copyIdx == v.dim-1 {
				return True
			}
			return v.wrap(copyIdx+1, v.root)
		default:
			return v.wrap(copyIdx, c)
		}
	}
	return level, shift(nd.hi), shift(nd.lo)
}

// VirtualPower installs a view exposing root's dim-fold self product
// over a variable range of nvars variables per copy, and returns the
// external handle for the first copy's root. It replaces any previously
// active view. Callers that need the un-replicated root back should
// keep it around separately; VirtualPower does not alter root itself.
func (b *BDD) VirtualPower(root Node, dim, nvars int32) Node {
	b.mu.Lock()
	defer b.mu.Unlock()
	if dim <= 0 {
		return True
	}
	if root == False || root == True {
		return root
	}
	b.vp = &vpView{root: root, dim: dim, nvars: nvars, size: Node(len(b.nodes))}
	b.cachereset()
	return b.vp.wrap(0, root)
}

// ClearVirtualPower discards the active view, if any. Callers must not
// hold onto handles returned by VirtualPower once this is called.
func (b *BDD) ClearVirtualPower() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.vp = nil
	b.cachereset()
}
