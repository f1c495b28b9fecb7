// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"sync"

	"github.com/hashicorp/go-hclog"
)

// number of bytes used to hash a (level, hi, lo) triple. Kept as an
// untyped constant purely for documentation; the hashing itself goes
// through Go's map implementation rather than the manual byte-buffer
// hashing rudd uses for its own unicity table.
const nodeKeySize = 3

// minFreeNodesDefault is the minimal percentage of nodes that has to be
// left free after a garbage collection, else we resize.
const minFreeNodesDefault int = 20

// maxVar is the maximal number of variables (levels) a store can hold.
const maxVar int32 = 0x1FFFFF

// maxNodeIncreaseDefault bounds how many nodes a single resize adds
// (~1M nodes).
const maxNodeIncreaseDefault int = 1 << 20

// Node is a reference to a vertex in a BDD store. The two constants
// False and True are the terminal nodes; every other value is an index
// into the store's node table, or (when a virtual-power view is active)
// a shifted id resolved through children, see virtualpower.go.
type Node int32

// False and True are the terminal nodes (v=0 is reserved for terminals).
const (
	False Node = 0
	True  Node = 1
)

// node is a triple (level, hi, lo) stored in the node table. Constants
// live at index 0 and 1 and are never looked up in the unicity table.
type node struct {
	v  int32 // variable level, or freeMarker for a free slot; slots 0 and 1 are never read
	hi Node
	lo Node
}

type ukey struct {
	v      int32
	hi, lo Node
}

// BDD is a hash-consed reduced ordered binary decision diagram store. A
// single store may back many independently rooted BDDs, all sharing one
// node table and unicity map; two structurally equal sub-formulas are
// always represented by the same Node (canonicity).
type BDD struct {
	mu sync.RWMutex // guards every field below; see doc.go Concurrency

	nodes   []node
	unique  map[ukey]Node
	freepos Node
	freenum int

	varnum int32
	varset [][2]Node // [level] -> (ithvar, nithvar), always kept live by GC

	configs

	err error
	log hclog.Logger

	applyCache   map[applyKey]Node
	existCache   map[existKey]Node
	permuteCache map[permuteKey]Node

	produced int // total nodes ever created, for Stats
	gcs      int // number of garbage collections performed

	vp *vpView // active virtual-power view, if any

	scratchBase int32 // first level of the scratch region Permute uses, 0 if unallocated
}

// New creates a store with the given initial number of variables.
// Additional variables can be registered later with SetVarnum. See
// config.go for the available Option values.
func New(varnum int, opts ...Option) (*BDD, error) {
	if varnum < 1 || varnum > int(maxVar) {
		return nil, ErrBadVariable
	}
	cfg := makeconfigs(varnum)
	for _, o := range opts {
		o(cfg)
	}
	b := &BDD{
		varnum:       0,
		varset:       make([][2]Node, 0, varnum),
		configs:      *cfg,
		log:          cfg.logger,
		applyCache:   make(map[applyKey]Node),
		existCache:   make(map[existKey]Node),
		permuteCache: make(map[permuteKey]Node),
	}
	b.nodes = make([]node, cfg.nodesize)
	b.unique = make(map[ukey]Node, cfg.nodesize)
	b.initfreelist(0)
	if err := b.SetVarnum(varnum); err != nil {
		return nil, err
	}
	return b, nil
}

// initfreelist rebuilds the free-node chain starting at index from,
// threading node.hi through every free slot and marking each one free
// with v == freeMarker (lo is left at 0).
const freeMarker int32 = -1

func (b *BDD) initfreelist(from int) {
	for k := from; k < len(b.nodes); k++ {
		b.nodes[k] = node{v: freeMarker, hi: Node(k + 1), lo: 0}
	}
	if len(b.nodes) > 0 {
		b.nodes[len(b.nodes)-1].hi = 0
	}
	if from < 2 {
		from = 2
	}
	b.freepos = Node(from)
	b.freenum = len(b.nodes) - from
}

func (b *BDD) isfree(n Node) bool {
	return int(n) < len(b.nodes) && b.nodes[n].v == freeMarker
}

// children dereferences n, resolving virtual-power ids transparently so
// that every consumer (apply, exists, permute, allsat) shares a single
// choke point.
func (b *BDD) children(n Node) (level int32, hi, lo Node) {
	if n == False || n == True {
		return b.varnum, n, n
	}
	if b.vp != nil && b.vp.owns(n) {
		return b.vp.children(b, n)
	}
	nd := b.nodes[n]
	return nd.v, nd.hi, nd.lo
}

func (b *BDD) level(n Node) int32 {
	lvl, _, _ := b.children(n)
	return lvl
}

// mk is the single canonical node constructor: it enforces reducedness
// (hi == lo collapses to that child) and uniqueness (hash-consing via
// the unique table), allocating a fresh slot only when no equal triple
// already exists. Every operation in this package builds results by
// calling mk, never by appending to b.nodes directly.
func (b *BDD) mk(v int32, hi, lo Node) Node {
	if hi == lo {
		return hi
	}
	key := ukey{v, hi, lo}
	if n, ok := b.unique[key]; ok {
		return n
	}
	// The store never collects on its own: it has no notion of which
	// externally held Nodes are still live. Callers that want
	// reclamation must call GC with their current live roots between
	// operations (see package engine, which does this at PFP step
	// boundaries). Absent that, we grow proactively once free space
	// drops below minfreenodes percent, and unconditionally once it
	// is fully exhausted.
	if b.freepos == 0 || (b.freenum*100)/len(b.nodes) <= b.minfreenodes {
		if err := b.resize(); err != nil {
			if b.freepos == 0 {
				b.err = err
				return False
			}
		}
		if b.freepos == 0 {
			b.err = ErrOutOfMemory
			return False
		}
	}
	id := b.freepos
	b.freepos = b.nodes[id].hi
	b.freenum--
	b.nodes[id] = node{v: v, hi: hi, lo: lo}
	b.unique[key] = id
	b.produced++
	return id
}

func (b *BDD) resize() error {
	old := len(b.nodes)
	if b.maxnodesize > 0 && old >= b.maxnodesize {
		return ErrOutOfMemory
	}
	size := old * 2
	if size <= old {
		size = old + 2
	}
	if b.maxnodeincrease > 0 && size > old+b.maxnodeincrease {
		size = old + b.maxnodeincrease
	}
	if b.maxnodesize > 0 && size > b.maxnodesize {
		size = b.maxnodesize
	}
	if size <= old {
		return ErrOutOfMemory
	}
	grown := make([]node, size)
	copy(grown, b.nodes)
	b.nodes = grown
	b.initfreelist(old)
	b.log.Debug("resized node table", "from", old, "to", size)
	return nil
}

// Do runs fn once under the store's write lock. The lock is not
// reentrant: every exported operation of b takes it too, so fn must not
// call them (an Apply inside fn blocks forever).
func (b *BDD) Do(fn func(b *BDD) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return fn(b)
}

// Varnum returns the number of variables currently registered in the
// store.
func (b *BDD) Varnum() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return int(b.varnum)
}

// Stats reports basic usage counters, useful for the metrics package.
type Stats struct {
	Nodes     int // total size of the node table
	Allocated int // nodes currently in use
	Free      int // nodes currently free
	Produced  int // total nodes ever created
	GCs       int // number of garbage collections performed
}

func (b *BDD) Stats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Stats{
		Nodes:     len(b.nodes),
		Allocated: len(b.nodes) - b.freenum,
		Free:      b.freenum,
		Produced:  b.produced,
		GCs:       b.gcs,
	}
}
