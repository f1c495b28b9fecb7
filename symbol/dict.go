// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

/*
Package symbol implements the bijection between source-level
identifiers (constant names and logic-variable names) and the small
signed integers the rest of the engine works with: positive ids name
interned constants, negative ids name logic variables (unique across
the whole program, never per-rule), and zero is the reserved padding
symbol used to extend every term up to the program's maximum arity.
*/
package symbol

import (
	"fmt"
	"math/bits"
)

// Reserved constant ids, present in every dictionary regardless of
// what the source program interns. Pad is the padding symbol; Openp,
// Closep, and Null exist only for the external proof-encoding layer
// and are otherwise opaque to this package.
const (
	Pad int32 = iota
	Openp
	Closep
	Null
	firstUserConstant
)

// Dict interns the constants and variables of a program. The zero
// value is not ready for use; call NewDict.
type Dict struct {
	constants map[string]int32
	names     []string // constants[names[i]] == i, for decoding
	variables map[string]int32
	nextVar   int32
}

// NewDict returns an empty dictionary pre-seeded with the reserved
// constants Pad, Openp, Closep, and Null.
func NewDict() *Dict {
	d := &Dict{
		constants: make(map[string]int32),
		names:     make([]string, firstUserConstant),
		variables: make(map[string]int32),
		nextVar:   -1,
	}
	reserved := []string{"*pad*", "*openp*", "*closep*", "*null*"}
	for i, name := range reserved {
		d.constants[name] = int32(i)
		d.names[i] = name
	}
	return d
}

// Intern returns the id for a constant name, assigning a fresh one the
// first time name is seen.
func (d *Dict) Intern(name string) int32 {
	if id, ok := d.constants[name]; ok {
		return id
	}
	id := int32(len(d.names))
	d.constants[name] = id
	d.names = append(d.names, name)
	return id
}

// Var returns the id for a logic-variable name, assigning a fresh
// (negative) one the first time name is seen in the current scope.
// Variable ids are never reused: after VarScope the same name gets a
// fresh id, distinct from every id handed out before, so ids stay
// unique across the whole program when each clause gets its own scope.
func (d *Dict) Var(name string) int32 {
	if id, ok := d.variables[name]; ok {
		return id
	}
	id := d.nextVar
	d.variables[name] = id
	d.nextVar--
	return id
}

// VarScope resets the variable-name-to-id map so that subsequent calls
// to Var treat every name as unseen, without disturbing already
// allocated ids or the constant dictionary. lang.Read calls this
// between clauses, since two rules using the same variable name
// (say, X) do not share a variable.
func (d *Dict) VarScope() {
	d.variables = make(map[string]int32)
}

// Name returns the source name of a constant id, or a bracketed
// placeholder "[id]" if id was never interned (this can legitimately
// happen when id denotes a symbol introduced only inside a proof
// matrix). Pad renders as "*".
func (d *Dict) Name(id int32) string {
	if id == Pad {
		return "*"
	}
	if int(id) >= 0 && int(id) < len(d.names) && d.names[id] != "" {
		return d.names[id]
	}
	return fmt.Sprintf("[%d]", id)
}

// NumConstants returns the number of interned constants, including the
// four reserved ones.
func (d *Dict) NumConstants() int {
	return len(d.names)
}

// Bits returns the number of bits needed to address every interned
// constant, following the layout in the engine's bit-packing scheme:
// ceil(log2(NumConstants)) + 1. The extra bit makes room for the
// implicit universe growth a running program causes as it interns new
// constants mid-evaluation.
func (d *Dict) Bits() int {
	n := d.NumConstants()
	if n <= 1 {
		return 1
	}
	return bits.Len(uint(n-1)) + 1
}
