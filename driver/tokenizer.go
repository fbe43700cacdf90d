// Package driver implements the table-driven LR and LL(1) parsing automata
// and the DFA-based longest-match tokenizer that feeds them.
package driver

import (
	"strings"

	mldriver "github.com/nihei9/maleeni/driver"

	"github.com/grammarlab/parsegen/lexical"
	"github.com/grammarlab/parsegen/token"
)

// Tokenizer drives a lexical.Grammar's compiled DFA over a source string,
// applying each matched rule's action and stitching together `more`
// continuations. Mode transitions (start-condition push/pop) happen inside
// the underlying lexer, as directed by the compiled spec.
type Tokenizer struct {
	lex    *lexical.Grammar
	ml     *mldriver.Lexer
	mlSpec mldriver.LexSpec

	offset int

	captureLocations bool

	pending      string
	pendingStart token.Location
	havePending  bool
}

type TokenizerOption func(o *tokenizerOptions) error

type tokenizerOptions struct {
	captureLocations bool
	lexerOpts        []mldriver.LexerOption
}

// WithLocations makes the tokenizer populate every token's Location.
func WithLocations() TokenizerOption {
	return func(o *tokenizerOptions) error {
		o.captureLocations = true
		return nil
	}
}

// DisableModeTransition makes the underlying lexer ignore the push/pop
// start-condition operations attached to rules, keeping it in the initial
// condition for the whole input.
func DisableModeTransition() TokenizerOption {
	return func(o *tokenizerOptions) error {
		o.lexerOpts = append(o.lexerOpts, mldriver.DisableModeTransition())
		return nil
	}
}

// NewTokenizer creates a Tokenizer positioned at the start of src, in the
// grammar's INITIAL start condition.
func NewTokenizer(lex *lexical.Grammar, src string, opts ...TokenizerOption) (*Tokenizer, error) {
	var o tokenizerOptions
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}
	mlSpec := mldriver.NewLexSpec(lex.CompiledSpec())
	ml, err := mldriver.NewLexer(mlSpec, strings.NewReader(src), o.lexerOpts...)
	if err != nil {
		return nil, err
	}
	return &Tokenizer{
		lex:              lex,
		ml:               ml,
		mlSpec:           mlSpec,
		captureLocations: o.captureLocations,
	}, nil
}

func (tz *Tokenizer) locAt(startOffset, startLine, startCol, endOffset, endLine, endCol int) token.Location {
	if !tz.captureLocations {
		return token.Location{}
	}
	return token.Location{
		StartOffset: startOffset, EndOffset: endOffset,
		StartLine: startLine, EndLine: endLine,
		StartColumn: startCol, EndColumn: endCol,
	}
}

// advance steps the line/col counters across s.
func advance(line, col int, s string) (int, int) {
	for _, r := range s {
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// Next returns the next token: it pulls the longest match from the lexer,
// applies the matched rule's action, and either emits a Token or keeps
// scanning (for `skip`/`more` actions) until a token action fires or input
// is exhausted. Longest-match ties break by rule declaration order, which
// the compiled spec preserves.
func (tz *Tokenizer) Next() (token.Token, error) {
	for {
		tok, err := tz.ml.Next()
		if err != nil {
			return token.Token{}, err
		}

		// The lexer counts rows and columns from zero.
		startLine, startCol := tok.Row+1, tok.Col+1

		if tok.EOF {
			if tz.havePending {
				return token.Token{}, &LexError{
					Offset: tz.offset, Line: startLine, Column: startCol,
					Message: "input ended inside a `more` continuation",
				}
			}
			loc := tz.locAt(tz.offset, startLine, startCol, tz.offset, startLine, startCol)
			return token.Token{Type: token.EOFType, Loc: loc}, nil
		}

		lexeme := string(tok.Lexeme)
		startOffset := tz.offset
		tz.offset += len(lexeme)

		if tok.Invalid {
			return token.Token{}, &LexError{
				Offset: startOffset, Line: startLine, Column: startCol,
				Char: []rune(lexeme)[0],
			}
		}

		_, kindName := tz.mlSpec.KindIDAndName(tok.ModeID, tok.ModeKindID)

		rule, ok := tz.lex.RuleForKind(kindName)
		if !ok {
			return token.Token{}, &LexError{
				Offset: startOffset, Line: startLine, Column: startCol,
				Message: "lexer produced a kind no rule is registered under: " + kindName,
			}
		}

		endLine, endCol := advance(startLine, startCol, lexeme)

		switch rule.Action.Kind {
		case lexical.ActionSkip:
			continue

		case lexical.ActionMore:
			if !tz.havePending {
				tz.havePending = true
				tz.pendingStart = tz.locAt(startOffset, startLine, startCol, startOffset, startLine, startCol)
			}
			tz.pending += lexeme
			continue

		case lexical.ActionToken:
			value := lexeme
			loc := tz.locAt(startOffset, startLine, startCol, tz.offset, endLine, endCol)
			if tz.havePending {
				value = tz.pending + lexeme
				loc = token.Span(tz.pendingStart, loc)
				tz.pending = ""
				tz.havePending = false
			}
			return token.Token{Type: rule.Action.TokenType, Value: value, Loc: loc}, nil

		default:
			return token.Token{}, &LexError{
				Offset: startOffset, Line: startLine, Column: startCol,
				Message: "rule produced an unrecognized action kind",
			}
		}
	}
}
