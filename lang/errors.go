// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package lang

import "fmt"

// SyntaxError reports a lexical or grammatical problem in a source
// program: an unexpected token, a missing separator, or an empty term.
// The core is never entered when one of these is returned.
type SyntaxError struct {
	Pos    int    // byte offset into the source
	Source string // original source, set by parseProgram for line/col rendering
	Msg    string
}

func (e *SyntaxError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("lang: %s (offset %d)", e.Msg, e.Pos)
	}
	line, col := linecol(e.Source, e.Pos)
	return fmt.Sprintf("lang: %d:%d: %s", line, col, e.Msg)
}
