// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package rule

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tamlang/tau/bdd"
	"github.com/tamlang/tau/symbol"
)

func newTestCompiler(t *testing.T, ar, bits int) (*bdd.BDD, *Compiler) {
	t.Helper()
	store, err := bdd.New((ar + 8) * bits)
	require.NoError(t, err)
	dict := symbol.NewDict()
	return store, NewCompiler(store, dict, bits, 16, ar)
}

func TestCompileSimpleRule(t *testing.T) {
	// p(X) :- q(X).
	store, c := newTestCompiler(t, 1, 5)
	m := Matrix{
		Term{1, -1},
		Term{1, -1},
	}
	r, err := c.Compile(m, false)
	require.NoError(t, err)
	require.False(t, r.Neg)
	require.Len(t, r.Bodies, 1)
	require.NoError(t, store.Err())
}

func TestCompileRuleWithRepeatedVariable(t *testing.T) {
	// p(X) :- q(X, X).
	store, c := newTestCompiler(t, 2, 5)
	m := Matrix{
		Term{1, -1, symbol.Pad},
		Term{1, -1, -1},
	}
	r, err := c.Compile(m, false)
	require.NoError(t, err)
	require.Len(t, r.Bodies[0].Eqs, 1)
	require.NoError(t, store.Err())
}

func TestCompileProofRejectsNegation(t *testing.T) {
	_, c := newTestCompiler(t, 1, 5)
	m := Matrix{
		Term{1, -1},
		Term{-1, -1},
	}
	_, err := c.Compile(m, true)
	require.ErrorIs(t, err, ErrProofWithNegation)
}

func TestFactBuildsGroundTuple(t *testing.T) {
	store, c := newTestCompiler(t, 2, 5)
	n := c.Fact(Term{1, 3, 4})
	require.NotEqual(t, bdd.False, n)
	require.NoError(t, store.Err())
}

func TestCompileFactIsBodylessRule(t *testing.T) {
	store, c := newTestCompiler(t, 2, 5)
	r, err := c.Compile(Matrix{Term{1, 3, 4}}, false)
	require.NoError(t, err)
	require.False(t, r.Neg)
	require.Empty(t, r.Bodies)
	require.Equal(t, c.Fact(Term{1, 3, 4}), r.HSym)
	require.NoError(t, store.Err())
}

func TestCompileNegatedFactKeepsPolarity(t *testing.T) {
	_, c := newTestCompiler(t, 1, 5)
	r, err := c.Compile(Matrix{Term{-1, 3}}, false)
	require.NoError(t, err)
	require.True(t, r.Neg)
	require.Equal(t, c.Fact(Term{-1, 3}), r.HSym)
}
