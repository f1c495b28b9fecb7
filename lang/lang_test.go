// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package lang

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLexerTokenizesBasicProgram(t *testing.T) {
	items, err := collect("e 1 2. t ?x ?y :- e ?x ?y, ~s ?x.")
	require.NoError(t, err)
	var kinds []itemType
	for _, it := range items {
		kinds = append(kinds, it.typ)
	}
	require.Equal(t, []itemType{
		itemIdent, itemIdent, itemIdent, itemDot,
		itemIdent, itemVar, itemVar, itemColonDash,
		itemIdent, itemVar, itemVar, itemComma,
		itemTilde, itemIdent, itemVar, itemDot,
		itemEOF,
	}, kinds)
}

func TestLexerIgnoresComments(t *testing.T) {
	items, err := collect("# a comment\ne 1 2. # trailing\n")
	require.NoError(t, err)
	require.Equal(t, itemIdent, items[0].typ)
	require.Equal(t, "e", items[0].val)
}

func TestLexerRejectsBareColon(t *testing.T) {
	_, err := collect("e 1 2 : - .")
	require.Error(t, err)
}

func TestLexerRejectsEmptyVariableName(t *testing.T) {
	_, err := collect("e ? 1.")
	require.Error(t, err)
}

func TestParserParsesFactsAndRules(t *testing.T) {
	clauses, err := parseProgram("e 1 2. t ?x ?y :- e ?x ?y.")
	require.NoError(t, err)
	require.Len(t, clauses, 2)

	fact := clauses[0]
	require.Equal(t, "e", fact.Head.Pred)
	require.False(t, fact.Head.Neg)
	require.Empty(t, fact.Body)
	require.Equal(t, []Arg{{Name: "1"}, {Name: "2"}}, fact.Head.Args)

	rule := clauses[1]
	require.Equal(t, "t", rule.Head.Pred)
	require.Len(t, rule.Body, 1)
	require.Equal(t, "e", rule.Body[0].Pred)
	require.Equal(t, []Arg{{IsVar: true, Name: "x"}, {IsVar: true, Name: "y"}}, rule.Body[0].Args)
}

func TestParserParsesNegatedBodyAtom(t *testing.T) {
	clauses, err := parseProgram("q ?x :- p ?x, ~r ?x.")
	require.NoError(t, err)
	require.Len(t, clauses, 1)
	require.Len(t, clauses[0].Body, 2)
	require.True(t, clauses[0].Body[1].Neg)
	require.Equal(t, "r", clauses[0].Body[1].Pred)
}

func TestParserRejectsMissingSeparator(t *testing.T) {
	// The ',' between the body atoms is missing. A bare identifier
	// after a term would be read as one more argument, so the next atom
	// is a negated one, which cannot continue the previous term.
	_, err := parseProgram("q ?x :- p ?x ~r ?x.")
	require.Error(t, err)
	var se *SyntaxError
	require.ErrorAs(t, err, &se)
}

func TestParserRejectsEmptyTerm(t *testing.T) {
	_, err := parseProgram("e 1 2. :- e 1 2.")
	require.Error(t, err)
}

func TestParserRejectsDanglingColonDash(t *testing.T) {
	_, err := parseProgram("t ?x :- .")
	require.Error(t, err)
}

func TestSyntaxErrorReportsLineAndColumn(t *testing.T) {
	_, err := parseProgram("e 1 2.\nt ?x :- .")
	require.Error(t, err)
	require.Contains(t, err.Error(), "2:")
}

func TestReadBuildsRunnableProgram(t *testing.T) {
	prog, err := Read("e 1 2. t ?x ?y :- e ?x ?y.")
	require.NoError(t, err)
	// arity counts the relation-symbol position: (e, 1, 2) is width 3.
	require.Equal(t, 3, prog.Ar)
	require.NotNil(t, prog.Driver)
	require.NotNil(t, prog.Store)
}

func TestReadRejectsSyntaxErrors(t *testing.T) {
	_, err := Read("e 1 2")
	require.Error(t, err)
}

func TestReadPadsFactsToProgramArity(t *testing.T) {
	prog, err := Read("a 1. b 2 3.")
	require.NoError(t, err)
	require.Equal(t, 3, prog.Ar)
}
