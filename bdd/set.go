// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

// Makeset builds the node representing the conjunction of the positive
// literals of vars, the encoding Exists uses to name a set of variables
// to quantify away (see AppEx/Exist in bdd.go).
func (b *BDD) Makeset(vars []int) Node {
	b.mu.Lock()
	defer b.mu.Unlock()
	set := True
	for _, v := range vars {
		if v < 0 || int32(v) >= b.varnum {
			continue
		}
		set = b.apply(OPand, set, b.varset[v][0])
	}
	return set
}

// AndMany returns the conjunction of a sequence of nodes, True if the
// sequence is empty. It stops at the first partial result that is False.
func (b *BDD) AndMany(n ...Node) Node {
	b.mu.Lock()
	defer b.mu.Unlock()
	res := True
	for _, x := range n {
		res = b.apply(OPand, res, x)
		if res == False {
			break
		}
	}
	return res
}

// OrMany returns the disjunction of a sequence of nodes, False if the
// sequence is empty.
func (b *BDD) OrMany(n ...Node) Node {
	b.mu.Lock()
	defer b.mu.Unlock()
	res := False
	for _, x := range n {
		res = b.apply(OPor, res, x)
	}
	return res
}

// Imp returns the logical implication between two nodes.
func (b *BDD) Imp(n1, n2 Node) Node {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.apply(OPimp, n1, n2)
}

// Equiv returns the logical bi-implication between two nodes.
func (b *BDD) Equiv(n1, n2 Node) Node {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.apply(OPbiimp, n1, n2)
}
