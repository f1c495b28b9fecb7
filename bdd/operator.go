// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

// Operator selects the Boolean connective an Apply call computes. The
// set is deliberately small: conjunction and disjunction are what
// selections, joins, and the database update formula are made of,
// difference covers negation and relative complement (Not and AndNot
// both dispatch on it), and implication/bi-implication back the
// equality constraints the rule compiler builds for repeated variables
// (see Imp and Equiv in set.go).
type Operator int

const (
	OPand Operator = iota
	OPor
	OPdiff
	OPimp
	OPbiimp
)

var opnames = [5]string{
	OPand:   "and",
	OPor:    "or",
	OPdiff:  "diff",
	OPimp:   "imp",
	OPbiimp: "biimp",
}

func (op Operator) String() string {
	return opnames[op]
}

// opres tabulates each operator on terminal operands, indexed as
// opres[op][left][right] with False = 0 and True = 1.
var opres = [5][2][2]int{
	OPand:   {{0, 0}, {0, 1}},
	OPor:    {{0, 1}, {1, 1}},
	OPdiff:  {{0, 0}, {1, 0}},
	OPimp:   {{1, 1}, {0, 1}},
	OPbiimp: {{1, 0}, {0, 1}},
}
