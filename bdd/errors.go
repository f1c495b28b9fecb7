// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"errors"
	"fmt"
)

// ErrOutOfMemory is returned (and the store's error flag is set) when the
// node table cannot be grown any further. Per the store's failure
// contract it is the only condition a caller should treat as fatal.
var ErrOutOfMemory = errors.New("bdd: unable to free memory or resize node table")

// ErrBadVariable is returned by New when the requested number of
// variables is below 1 or above the store's maximum.
var ErrBadVariable = errors.New("bdd: variable index out of range")

// Err returns the error status of the store, or nil if it is healthy.
// Once set, the error is never cleared; errors reported later through
// SetVarnum/ExtVarnum are appended to it, while a failed node
// allocation replaces it with ErrOutOfMemory. Operations do not consult
// it and keep running, so callers check Err after a sequence of
// operations (package engine does so after every step).
func (b *BDD) Err() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.err
}

func (b *BDD) seterror(format string, a ...interface{}) Node {
	next := fmt.Errorf(format, a...)
	if b.err != nil {
		b.err = fmt.Errorf("%w; %s", b.err, next.Error())
		return False
	}
	b.err = next
	b.log.Debug("bdd error", "err", b.err)
	return False
}
