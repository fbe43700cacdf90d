package driver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/grammarlab/parsegen/token"
)

// LexError reports input no active lexical rule matches, or a `more`
// continuation the input ended in the middle of.
type LexError struct {
	Offset  int
	Line    int
	Column  int
	Char    rune
	Message string
}

func (e *LexError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("lexical error at offset %v: %v", e.Offset, e.Message)
	}
	return fmt.Sprintf("lexical error: no rule matches %q at offset %v (line %v, column %v)",
		e.Char, e.Offset, e.Line, e.Column)
}

// SyntaxError reports a token no parser action accepts: the offending
// token, the LR state it arrived in (-1 for the predictive driver), and the
// terminals that would have been accepted instead.
type SyntaxError struct {
	Token             token.Token
	State             int
	ExpectedTerminals []string
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "syntax error: unexpected %q", e.Token.Type)
	if !e.Token.Loc.Zero() {
		fmt.Fprintf(&b, " at line %v, column %v", e.Token.Loc.StartLine, e.Token.Loc.StartColumn)
	}
	if len(e.ExpectedTerminals) > 0 {
		fmt.Fprintf(&b, "; expected %v", strings.Join(e.ExpectedTerminals, ", "))
	}
	return b.String()
}

// NonAssocError reports a chain of a non-associative operator, e.g.
// `a < b < c` under `%nonassoc '<'`. The parsing table records these cells
// as explicit errors rather than resolving them to a shift or reduce.
type NonAssocError struct {
	Token token.Token
}

func (e *NonAssocError) Error() string {
	return fmt.Sprintf("syntax error: operator %q is non-associative and must not be chained", e.Token.Type)
}

// expectedTerminals renders a set of acceptable terminal texts in a stable
// order for SyntaxError reporting.
func expectedTerminals(texts []string) []string {
	sort.Strings(texts)
	return texts
}
