// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

/*
Package engine implements the database and the partial fixed-point
(PFP) driver: applying a set of compiled rules (package rule) against a
BDD-encoded database (package bdd) until either a fixed point is
reached or the same non-fixed state recurs.

The database is a single BDD root over the canonical one-conjunct
variable space, encoding every currently-true ground tuple of every
relation at once: a term's relation symbol is just its first argument,
interned like any other constant, so "e 1 2" is the tuple (e, 1, 2) and
querying relation e is a selection constraining argument position 0.
The engine therefore needs no relation bookkeeping of its own — a
compiled rule's selection BDDs already carry the relation symbols the
surface parser folded into each term.
*/
package engine

import (
	"github.com/tamlang/tau/bdd"
	"github.com/tamlang/tau/rule"
)

// stepCacheKey is the (sel, ex, neg) triple a body's intermediate
// result is memoized under, deliberately computed before the body's
// permutation is applied so that bodies sharing the same selection
// pattern across different rules hit the same cache entry.
type stepCacheKey struct {
	sel, ex bdd.Node
	neg     bool
}

// stepCache memoizes body evaluation within a single PFP step. It is
// discarded and rebuilt every step, since its entries are only valid
// against that step's starting database.
type stepCache map[stepCacheKey]bdd.Node

// fireBody evaluates one body atom against the current database,
// returning the permuted result node or False if the body cannot
// match.
func fireBody(b *bdd.BDD, body *rule.Body, db bdd.Node, cache stepCache) bdd.Node {
	key := stepCacheKey{body.Sel, body.Ex, body.Neg}
	r, ok := cache[key]
	if !ok {
		if body.Neg {
			// sel & !db, not db & !sel: the selection BDD is the set of
			// tuples the negated atom would match, so an assignment
			// contributes when its tuple is in sel but absent from the
			// database (negation as failure).
			r = b.AndNot(body.Sel, db)
		} else {
			r = b.Apply(body.Sel, db, bdd.OPand)
		}
		for _, eq := range body.Eqs {
			if r == bdd.False {
				break
			}
			r = b.Apply(r, eq, bdd.OPand)
		}
		if r != bdd.False {
			r = b.Exist(r, body.Ex)
		}
		cache[key] = r
	}
	if r == bdd.False {
		return bdd.False
	}
	if body.Replacer != nil {
		return b.Permute(r, body.Replacer)
	}
	return r
}

// Fire evaluates a compiled rule against db, returning the
// contribution it makes to the step's add or del set (a set of head
// tuples, projected back down to the canonical one-conjunct space) or
// False if the rule does not fire at all. ar and bits are the
// program's arity and bit width, used to drop the rule's body-only
// variables once they are no longer needed (AndDeltail).
func Fire(b *bdd.BDD, r *rule.Rule, db bdd.Node, cache stepCache, ar, bits int) bdd.Node {
	vars := bdd.True
	for _, body := range r.Bodies {
		res := fireBody(b, body, db, cache)
		if res == bdd.False {
			return bdd.False
		}
		vars = b.Apply(vars, res, bdd.OPand)
		if vars == bdd.False {
			return bdd.False
		}
	}
	for _, eq := range r.Eqs {
		vars = b.Apply(vars, eq, bdd.OPand)
		if vars == bdd.False {
			return bdd.False
		}
	}
	vars = b.Apply(vars, r.HSym, bdd.OPand)
	if vars == bdd.False {
		return bdd.False
	}
	return b.AndDeltail(vars, bits*ar)
}
