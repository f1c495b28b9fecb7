// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import "github.com/hashicorp/go-hclog"

// configs stores the values of the different tunable parameters of a BDD
// store.
type configs struct {
	varnum          int // number of BDD variables
	nodesize        int // initial number of nodes in the table
	maxnodesize     int // maximum total number of nodes (0 if no limit)
	maxnodeincrease int // maximum number of nodes added at each resize (0 if no limit)
	minfreenodes    int // free-node percentage at or below which an allocation resizes the table
	logger          hclog.Logger
}

func makeconfigs(varnum int) *configs {
	c := &configs{varnum: varnum}
	c.minfreenodes = minFreeNodesDefault
	c.maxnodeincrease = maxNodeIncreaseDefault
	// we build enough nodes to include the two terminals and all the
	// variables registered up front
	c.nodesize = 2*varnum + 2
	c.logger = hclog.NewNullLogger()
	return c
}

// Option configures a store created with New.
type Option func(*configs)

// Nodesize sets a preferred initial size for the node table. The size of
// the table can grow during computation; this only affects the starting
// point, which in turn affects how often an early resize is needed.
func Nodesize(size int) Option {
	return func(c *configs) {
		if size >= 2*c.varnum+2 {
			c.nodesize = size
		}
	}
}

// Maxnodesize sets a hard limit on the number of nodes in the store. An
// operation that would grow the table past this limit fails with
// ErrOutOfMemory instead of growing further. The default, zero, means no
// limit.
func Maxnodesize(size int) Option {
	return func(c *configs) { c.maxnodesize = size }
}

// Maxnodeincrease bounds how many nodes a single resize can add. Below
// this limit the table size doubles on each resize. Set to zero to
// remove the bound.
func Maxnodeincrease(size int) Option {
	return func(c *configs) { c.maxnodeincrease = size }
}

// Minfreenodes sets the free-node percentage at or below which the next
// node allocation grows the table first. The check is made on every
// allocation, independently of garbage collection. The default is 20%.
func Minfreenodes(ratio int) Option {
	return func(c *configs) { c.minfreenodes = ratio }
}

// Logger installs a structured logger used for GC/resize diagnostics.
// The default is a no-op logger.
func Logger(l hclog.Logger) Option {
	return func(c *configs) {
		if l != nil {
			c.logger = l
		}
	}
}
