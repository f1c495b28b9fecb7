// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"fmt"
	"math"
	"sync/atomic"
)

var replaceID int32 = 1

// Replacer maps the level of an old variable to the level of a new
// one. Permute uses it to align a compiled rule body's surviving
// variables with the positions the rest of the rule expects them at
// (see package rule's Compiler, grounded on rule.cpp's perm array).
// Unlike a typical BuDDy-style replace, a Replacer here is not required
// to preserve variable order: the rule compiler's permutation routinely
// does not (a variable first seen late in one body can be aligned to
// an earlier body's position, and vice versa), so Permute always goes
// through the general substitution in compose.go.
type Replacer interface {
	Replace(level int32) (int32, bool)
	pairs() [][2]int32
	id() int
}

type replacer struct {
	rid   int
	image []int32
	ps    [][2]int32
}

func (r *replacer) Replace(level int32) (int32, bool) {
	if int(level) >= len(r.image) {
		return level, false
	}
	if r.image[level] == level {
		return level, false
	}
	return r.image[level], true
}

func (r *replacer) pairs() [][2]int32 { return r.ps }
func (r *replacer) id() int           { return r.rid }

func (r *replacer) String() string {
	res := "replacer["
	for i, p := range r.ps {
		if i > 0 {
			res += ", "
		}
		res += fmt.Sprintf("%d<-%d", p[1], p[0])
	}
	return res + "]"
}

// NewReplacer builds a Replacer substituting oldvars[k] with newvars[k]
// for every k. The two slices must have the same length and oldvars
// must contain no duplicate entries; every value must be a valid
// variable index. newvars may repeat or overlap oldvars (e.g. a swap
// oldvars=[0,1], newvars=[1,0] is a legal Replacer).
func (b *BDD) NewReplacer(oldvars, newvars []int) (Replacer, error) {
	if len(oldvars) != len(newvars) {
		return nil, fmt.Errorf("bdd: NewReplacer: mismatched slice lengths (%d, %d)", len(oldvars), len(newvars))
	}
	if replaceID == math.MaxInt32>>2 {
		return nil, fmt.Errorf("bdd: NewReplacer: too many replacers created")
	}
	res := &replacer{rid: int(atomic.AddInt32(&replaceID, 1))}
	varnum := b.Varnum()
	seen := make([]bool, varnum)
	res.image = make([]int32, varnum)
	for k := range res.image {
		res.image[k] = int32(k)
	}
	for k, v := range oldvars {
		if v < 0 || v >= varnum {
			return nil, fmt.Errorf("bdd: NewReplacer: invalid variable in oldvars (%d)", v)
		}
		if seen[v] {
			return nil, fmt.Errorf("bdd: NewReplacer: duplicate variable (%d) in oldvars", v)
		}
		if newvars[k] < 0 || newvars[k] >= varnum {
			return nil, fmt.Errorf("bdd: NewReplacer: invalid variable in newvars (%d)", newvars[k])
		}
		seen[v] = true
		res.image[v] = int32(newvars[k])
		if v != newvars[k] {
			res.ps = append(res.ps, [2]int32{int32(v), int32(newvars[k])})
		}
	}
	return res, nil
}

// Permute applies r to every variable occurring in n, returning the
// resulting node.
func (b *BDD) Permute(n Node, r Replacer) Node {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.permute(n, r)
}

func (b *BDD) permute(n Node, r Replacer) Node {
	if n == False || n == True {
		return n
	}
	if v, ok := b.permuteLookup(n, r.id()); ok {
		return v
	}
	res := b.permuteGeneral(n, r.pairs())
	return b.permuteStore(n, r.id(), res)
}
