// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

// SetVarnum sets the number of variables known to the store. It may be
// called more than once, but only to grow the variable count: shrinking
// would invalidate nodes that already reference the removed levels.
func (b *BDD) SetVarnum(num int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.setvarnum(num)
}

func (b *BDD) setvarnum(num int) error {
	inum := int32(num)
	if inum < 1 || inum > maxVar {
		b.seterror("bdd: bad number of variables (%d) in SetVarnum", num)
		return b.err
	}
	if inum < b.varnum {
		b.seterror("bdd: cannot decrease varnum from %d to %d", b.varnum, inum)
		return b.err
	}
	if inum == b.varnum {
		return nil
	}
	grown := make([][2]Node, inum)
	copy(grown, b.varset)
	b.varset = grown
	for ; b.varnum < inum; b.varnum++ {
		v0 := b.mk(b.varnum, True, False)
		v1 := b.mk(b.varnum, False, True)
		if b.err != nil {
			return b.err
		}
		b.varset[b.varnum] = [2]Node{v0, v1}
	}
	b.log.Debug("set varnum", "varnum", b.varnum)
	return nil
}

// ExtVarnum extends the current number of variables by num.
func (b *BDD) ExtVarnum(num int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if num < 0 {
		b.seterror("bdd: bad extension amount (%d) in ExtVarnum", num)
		return b.err
	}
	return b.setvarnum(int(b.varnum) + num)
}

// Ithvar returns the node representing the positive literal of
// variable v: the BDD that is True exactly when v is set.
func (b *BDD) Ithvar(v int) Node {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if v < 0 || int32(v) >= b.varnum {
		return False
	}
	return b.varset[v][0]
}

// Nithvar returns the node representing the negative literal of
// variable v: the BDD that is True exactly when v is unset.
func (b *BDD) Nithvar(v int) Node {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if v < 0 || int32(v) >= b.varnum {
		return False
	}
	return b.varset[v][1]
}
