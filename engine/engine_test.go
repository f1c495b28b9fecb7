// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package engine_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tamlang/tau/bdd"
	"github.com/tamlang/tau/engine"
	"github.com/tamlang/tau/lang"
)

func runToFixpoint(t *testing.T, src string) (*lang.Program, engine.Outcome) {
	t.Helper()
	prog, err := lang.Read(src)
	require.NoError(t, err)
	outcome, err := prog.Driver.PFP(1000, nil)
	require.NoError(t, err)
	return prog, outcome
}

func dumpLines(t *testing.T, prog *lang.Program) []string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, prog.Driver.Dump(&buf, prog.Dict))
	var lines []string
	for _, l := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func TestTransitiveClosure(t *testing.T) {
	src := `
e 1 2. e 2 3. e 3 4.
t ?x ?y :- e ?x ?y.
t ?x ?z :- e ?x ?y, t ?y ?z.
`
	prog, outcome := runToFixpoint(t, src)
	require.Equal(t, engine.SAT, outcome)
	lines := dumpLines(t, prog)
	require.ElementsMatch(t, []string{
		"e 1 2", "e 2 3", "e 3 4",
		"t 1 2", "t 2 3", "t 3 4", "t 1 3", "t 2 4", "t 1 4",
	}, lines)
}

func TestNegationAsFailureStable(t *testing.T) {
	src := `
p 1. p 2.
q ?x :- p ?x, ~r ?x.
`
	prog, outcome := runToFixpoint(t, src)
	require.Equal(t, engine.SAT, outcome)
	lines := dumpLines(t, prog)
	require.ElementsMatch(t, []string{"p 1", "p 2", "q 1", "q 2"}, lines)
}

func TestOscillationIsUnsat(t *testing.T) {
	src := `
p.
q :- ~p.
~p :- q.
`
	_, outcome := runToFixpoint(t, src)
	require.Equal(t, engine.UNSAT, outcome)
}

func TestPaddingAcrossArities(t *testing.T) {
	src := `
a 1. b 2 3.
c ?x :- a ?x.
c ?x :- b ?x ?y.
`
	prog, outcome := runToFixpoint(t, src)
	require.Equal(t, engine.SAT, outcome)
	// every relation narrower than the program arity is padded, so the
	// padded slot renders as "*" for a's fact and c's derived tuples
	// alike.
	require.ElementsMatch(t, []string{
		"a 1 *", "b 2 3", "c 1 *", "c 2 *",
	}, dumpLines(t, prog))
}

func TestSelfJoinWithRepeatedVariable(t *testing.T) {
	src := `
e 1 1. e 1 2. e 2 2.
loop ?x :- e ?x ?x.
`
	prog, outcome := runToFixpoint(t, src)
	require.Equal(t, engine.SAT, outcome)
	lines := dumpLines(t, prog)
	require.Contains(t, lines, "loop 1 *")
	require.Contains(t, lines, "loop 2 *")
	require.NotContains(t, lines, "loop 1 2")
}

func TestContradictionCollapsesDatabase(t *testing.T) {
	src := `
p 1.
~p 1 :- p 1.
`
	prog, err := lang.Read(src)
	require.NoError(t, err)

	// First step materialises the fact; second derives add = del =
	// {p 1}, which cancels to nothing and collapses the database.
	_, outcome, err := prog.Driver.Step()
	require.NoError(t, err)
	require.Equal(t, engine.Unresolved, outcome)
	require.False(t, prog.Driver.Contradicted())

	_, outcome, err = prog.Driver.Step()
	require.NoError(t, err)
	require.Equal(t, engine.UNSAT, outcome)
	require.True(t, prog.Driver.Contradicted())
	require.Empty(t, dumpLines(t, prog))
}

func TestIdempotenceAtFixpoint(t *testing.T) {
	src := `e 1 2. t ?x ?y :- e ?x ?y.`
	prog, outcome := runToFixpoint(t, src)
	require.Equal(t, engine.SAT, outcome)
	before := dumpLines(t, prog)
	changed, outcome2, err := prog.Driver.Step()
	require.NoError(t, err)
	require.False(t, changed)
	require.Equal(t, engine.SAT, outcome2)
	require.ElementsMatch(t, before, dumpLines(t, prog))
}

func TestPFPRespectsLimitAndBreak(t *testing.T) {
	src := `
e 1 2. e 2 3.
t ?x ?y :- e ?x ?y.
t ?x ?z :- e ?x ?y, t ?y ?z.
`
	prog, err := lang.Read(src)
	require.NoError(t, err)
	outcome, err := prog.Driver.PFP(1, nil)
	require.NoError(t, err)
	require.Equal(t, engine.Unresolved, outcome)
	require.Equal(t, 1, prog.Driver.Steps())

	prog, err = lang.Read(src)
	require.NoError(t, err)
	outcome, err = prog.Driver.PFP(0, func() bool { return true })
	require.NoError(t, err)
	require.Equal(t, engine.Unresolved, outcome)
	require.Equal(t, 0, prog.Driver.Steps())
}

func TestMonotoneGrowthWithoutNegation(t *testing.T) {
	src := `
e 1 2. e 2 3. e 3 4.
t ?x ?y :- e ?x ?y.
t ?x ?z :- e ?x ?y, t ?y ?z.
`
	prog, err := lang.Read(src)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		before := prog.Driver.DB
		changed, _, err := prog.Driver.Step()
		require.NoError(t, err)
		require.Equal(t, bdd.False, prog.Store.AndNot(before, prog.Driver.DB),
			"database lost tuples at step %d", i+1)
		if !changed {
			return
		}
	}
	t.Fatal("no fixed point within 50 steps")
}

func TestCommentsAreIgnored(t *testing.T) {
	src := `
# a fact about edges
e 1 2. # trailing comment
t ?x ?y :- e ?x ?y. # the rule
`
	prog, outcome := runToFixpoint(t, src)
	require.Equal(t, engine.SAT, outcome)
	require.Contains(t, dumpLines(t, prog), "t 1 2")
}
