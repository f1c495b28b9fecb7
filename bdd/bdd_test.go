// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, varnum int) *BDD {
	t.Helper()
	b, err := New(varnum)
	require.NoError(t, err)
	return b
}

func TestCanonicity(t *testing.T) {
	b := newStore(t, 4)
	// (x0 & x1) | (x0 & x2) built two different ways should yield the
	// same node id, the defining property of a reduced ordered BDD.
	x0, x1, x2 := b.Ithvar(0), b.Ithvar(1), b.Ithvar(2)

	left := b.Or(b.And(x0, x1), b.And(x0, x2))
	right := b.And(x0, b.Or(x1, x2))
	require.Equal(t, left, right)

	// And building the same formula with the arguments to Or swapped
	// must still produce the identical node.
	swapped := b.Or(b.And(x0, x2), b.And(x0, x1))
	require.Equal(t, left, swapped)
}

func TestApplyLaws(t *testing.T) {
	b := newStore(t, 3)
	x, y := b.Ithvar(0), b.Ithvar(1)

	require.Equal(t, b.And(x, y), b.And(y, x), "and is commutative")
	require.Equal(t, b.Or(x, y), b.Or(y, x), "or is commutative")
	require.Equal(t, b.And(b.And(x, y), b.Ithvar(2)), b.And(x, b.And(y, b.Ithvar(2))), "and is associative")
	require.Equal(t, b.And(x, x), x, "and is idempotent")
	require.Equal(t, b.Or(x, x), x, "or is idempotent")
	require.Equal(t, x, b.And(x, True), "x & 1 = x")
	require.Equal(t, x, b.Or(x, False), "x | 0 = x")
	require.Equal(t, False, b.AndNot(x, x), "x & !x = 0")
}

func TestPermuteRoundTrip(t *testing.T) {
	b := newStore(t, 4)
	x0, x1, x2 := b.Ithvar(0), b.Ithvar(1), b.Ithvar(2)
	n := b.Or(b.And(x0, x1), b.And(b.Not(x0), x2))

	fwd, err := b.NewReplacer([]int{0, 1, 2}, []int{2, 0, 1})
	require.NoError(t, err)
	bwd, err := b.NewReplacer([]int{2, 0, 1}, []int{0, 1, 2})
	require.NoError(t, err)

	permuted := b.Permute(n, fwd)
	require.NotEqual(t, n, permuted)
	back := b.Permute(permuted, bwd)
	require.Equal(t, n, back)
}

func TestExistQuantifiesAway(t *testing.T) {
	b := newStore(t, 3)
	x0, x1 := b.Ithvar(0), b.Ithvar(1)
	n := b.And(x0, x1)
	set := b.Makeset([]int{0})
	require.Equal(t, x1, b.Exist(n, set))
}

func TestAndDeltailDropsTail(t *testing.T) {
	b := newStore(t, 4)
	x0, x1, x2 := b.Ithvar(0), b.Ithvar(1), b.Ithvar(2)
	n := b.And(x0, b.And(x1, x2))
	require.Equal(t, b.And(x0, x1), b.AndDeltail(n, 2))
}

func TestVirtualPowerConsistency(t *testing.T) {
	// Build a small root over a 2-variable slice and check that the
	// dim=3 virtual-power view agrees, level by level and satisfying
	// assignment by satisfying assignment, with materialising the
	// 3-fold conjunction of variable-shifted copies by hand.
	const nvars = 2
	const dim = 3
	b := newStore(t, nvars*dim)
	root := b.And(b.Ithvar(0), b.Not(b.Ithvar(1)))

	shifted := make([]Node, dim)
	shifted[0] = root
	for d := 1; d < dim; d++ {
		old := []int{0, 1}
		new := []int{d * nvars, d*nvars + 1}
		rep, err := b.NewReplacer(old, new)
		require.NoError(t, err)
		shifted[d] = b.Permute(root, rep)
	}
	materialised := True
	for _, s := range shifted {
		materialised = b.And(materialised, s)
	}

	view := b.VirtualPower(root, dim, nvars)
	defer b.ClearVirtualPower()

	var viewAssignments, materialisedAssignments [][]int8
	record := func(dst *[][]int8) func([]int8) error {
		return func(a []int8) error {
			cp := append([]int8(nil), a...)
			*dst = append(*dst, cp)
			return nil
		}
	}
	require.NoError(t, b.AllSat(view, record(&viewAssignments)))
	require.NoError(t, b.AllSat(materialised, record(&materialisedAssignments)))
	require.ElementsMatch(t, materialisedAssignments, viewAssignments)
}

func TestAllSatEnumeratesEveryModel(t *testing.T) {
	b := newStore(t, 2)
	n := b.Or(b.Ithvar(0), b.Ithvar(1))
	count := 0
	err := b.AllSat(n, func(a []int8) error {
		count++
		return nil
	})
	require.NoError(t, err)
	// x0=1,x1=* and x0=0,x1=1 are the two disjuncts Or's reduced form
	// exposes; either way, False never contributes and n has exactly
	// 3 of the 4 assignments in its model, collapsed into these paths.
	require.Equal(t, 2, count)
}

func TestGCPreservesLiveRoots(t *testing.T) {
	b := newStore(t, 3)
	x0, x1 := b.Ithvar(0), b.Ithvar(1)
	n := b.And(x0, x1)
	b.GC([]Node{n})
	require.Equal(t, x1, b.Exist(n, b.Makeset([]int{0})))
}

func TestSetVarnumCannotShrink(t *testing.T) {
	b := newStore(t, 2)
	require.NoError(t, b.SetVarnum(4))
	require.Error(t, b.SetVarnum(1))
}

func TestStatsReportsProducedNodes(t *testing.T) {
	b := newStore(t, 2)
	before := b.Stats()
	b.And(b.Ithvar(0), b.Ithvar(1))
	after := b.Stats()
	require.Greater(t, after.Produced, before.Produced)
}
