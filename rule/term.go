// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

/*
Package rule implements the compiler that turns a ground-sugar Datalog
rule into a BDD-level executable object: a per-body selection BDD and
existential mask, equality constraints for repeated variables, a
permutation aligning body variables with head positions, and a
head-symbol BDD encoding the head's constants.
*/
package rule

import "fmt"

// Term is an ordered list of symbol ids: a polarity slot followed by
// the arguments. Term[0] is +1 for a positive literal and -1 for a
// negated one; Term[1:] are the argument ids, each either a positive
// constant id, a negative variable id, or Pad. Package lang puts the
// relation symbol in Term[1], as the first argument.
type Term []int32

// Matrix is a non-empty ordered list of terms, head first. A Matrix
// with no body terms is a fact; otherwise it is a rule, possibly with
// negated body atoms.
type Matrix []Term

// Arity returns the number of arguments in the head term (every term
// in a well-formed Matrix shares this arity once padded).
func (m Matrix) Arity() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0]) - 1
}

// IsFact reports whether m has no body, i.e. it asserts a single
// ground tuple unconditionally.
func (m Matrix) IsFact() bool {
	return len(m) == 1
}

// Validate checks that every term in m has the same length as the
// head, a precondition the surface parser and padding step must
// establish before a Matrix reaches the compiler.
func (m Matrix) Validate() error {
	if len(m) == 0 {
		return fmt.Errorf("rule: empty matrix")
	}
	ar := len(m[0])
	for i, t := range m {
		if len(t) != ar {
			return fmt.Errorf("rule: term %d has width %d, want %d (head width)", i, len(t), ar)
		}
	}
	return nil
}
