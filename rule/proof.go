// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package rule

import "github.com/tamlang/tau/symbol"

// buildProof constructs the derivation-encoding matrices an external
// proof-extraction layer consumes: a "vars" term collecting every
// distinct variable occurring in the rule, a parenthesised encoding of
// the whole rule (prule), a second encoding with the head atom
// singled out before the parenthesised body (bprule). proof1 pairs
// prule with vars; proof2 holds one matrix per body atom (that atom
// wrapped in parentheses, prule, and the wrapped head) followed by one
// matrix combining bprule, prule, the wrapped head and every wrapped
// body atom. The core only needs to produce matrices in
// this shape; interpreting them is left to whatever consumes them.
func buildProof(m Matrix) (Matrix, []Matrix) {
	one := int32(1)
	seen := make(map[int32]bool)
	var vars Term
	vars = append(vars, one)
	for _, v := range m[0] {
		if v < 0 && !seen[v] {
			seen[v] = true
			vars = append(vars, v)
		}
	}
	for _, t := range m[1:] {
		for _, v := range t {
			if v < 0 && !seen[v] {
				seen[v] = true
				vars = append(vars, v)
			}
		}
	}

	prule := Term{one, symbol.Openp}
	for _, t := range m {
		prule = append(prule, t...)
	}
	prule = append(prule, symbol.Closep)

	bprule := Term{one}
	bprule = append(bprule, m[0]...)
	bprule = append(bprule, symbol.Openp)
	for _, t := range m[1:] {
		bprule = append(bprule, t...)
	}
	bprule = append(bprule, symbol.Closep)

	proof1 := Matrix{prule, vars}

	wrap := func(t Term) Term {
		w := Term{one, symbol.Openp}
		w = append(w, t...)
		w = append(w, symbol.Closep)
		return w
	}

	combined := Matrix{bprule, prule, wrap(m[0])}
	var proof2 []Matrix
	for _, t := range m[1:] {
		proof2 = append(proof2, Matrix{wrap(t), prule, wrap(m[0])})
		combined = append(combined, wrap(t))
	}
	proof2 = append(proof2, combined)
	return proof1, proof2
}
