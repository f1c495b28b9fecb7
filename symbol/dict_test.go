// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package symbol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReservedConstants(t *testing.T) {
	d := NewDict()
	require.Equal(t, int32(0), Pad)
	require.Equal(t, "*", d.Name(Pad))
	require.Equal(t, 4, d.NumConstants())
}

func TestInternIsStable(t *testing.T) {
	d := NewDict()
	a := d.Intern("foo")
	b := d.Intern("bar")
	c := d.Intern("foo")
	require.Equal(t, a, c)
	require.NotEqual(t, a, b)
	require.Equal(t, "foo", d.Name(a))
}

func TestVarIdsAreNegative(t *testing.T) {
	d := NewDict()
	x := d.Var("X")
	y := d.Var("Y")
	require.Less(t, x, int32(0))
	require.Less(t, y, int32(0))
	require.NotEqual(t, x, y)
	require.Equal(t, x, d.Var("X"))
}

func TestVarScopeRebinds(t *testing.T) {
	d := NewDict()
	x1 := d.Var("X")
	d.VarScope()
	x2 := d.Var("X")
	require.NotEqual(t, x1, x2)
}

func TestBitsGrowsWithUniverse(t *testing.T) {
	d := NewDict()
	b0 := d.Bits()
	for i := 0; i < 40; i++ {
		d.Intern(string(rune('a' + i)))
	}
	require.Greater(t, d.Bits(), b0)
}

func TestNameUnknown(t *testing.T) {
	d := NewDict()
	require.Equal(t, "[999]", d.Name(999))
}
