package driver

import (
	"errors"
	"testing"

	"github.com/grammarlab/parsegen/lexical"
)

func mustTokenizer(t *testing.T, lex *lexical.Grammar, src string, opts ...TokenizerOption) *Tokenizer {
	t.Helper()
	tz, err := NewTokenizer(lex, src, opts...)
	if err != nil {
		t.Fatalf("NewTokenizer: %v", err)
	}
	return tz
}

func TestTokenizerSkipsWhitespace(t *testing.T) {
	lex, err := lexical.Build(&lexical.Description{
		Rules: []lexical.RuleDecl{
			{Pattern: `[0-9]+`, Action: lexical.RuleAction{Kind: lexical.ActionToken, TokenType: "NUM"}},
			{Pattern: "[ \t\n]+", Action: lexical.RuleAction{Kind: lexical.ActionSkip}},
		},
	}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	tz := mustTokenizer(t, lex, "12   34")
	tok, err := tz.Next()
	if err != nil || tok.Value != "12" {
		t.Fatalf("got %+v, %v; want NUM 12", tok, err)
	}
	tok, err = tz.Next()
	if err != nil || tok.Value != "34" {
		t.Fatalf("got %+v, %v; want NUM 34", tok, err)
	}
}

func TestTokenizerMoreConcatenatesAcrossMatches(t *testing.T) {
	// A "string" built from an opening quote (more), any run of non-quote
	// characters (more), and a closing doubled quote `""` (token) — the
	// doubled quote outmatches the single-quote rule by length. The classic `more`
	// use case of assembling one lexeme out of several rule matches.
	lex, err := lexical.Build(&lexical.Description{
		Rules: []lexical.RuleDecl{
			{Pattern: `"`, Action: lexical.RuleAction{Kind: lexical.ActionMore}},
			{Pattern: `[^"]+`, Action: lexical.RuleAction{Kind: lexical.ActionMore}},
			{Pattern: `""`, Action: lexical.RuleAction{Kind: lexical.ActionToken, TokenType: "STR"}},
		},
	}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	tz := mustTokenizer(t, lex, `"hello""`)
	tok, err := tz.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if tok.Type != "STR" || tok.Value != `"hello""` {
		t.Fatalf("got %+v, want STR %q", tok, `"hello""`)
	}
}

func TestTokenizerPushPopStartCondition(t *testing.T) {
	// Entering a comment condition on `/*`, staying there for any non-`*/`
	// text (skipped), and popping back to INITIAL on `*/`.
	lex, err := lexical.Build(&lexical.Description{
		StartConditions: []lexical.StartCondition{
			{Name: "COMMENT", Inclusive: false},
		},
		Rules: []lexical.RuleDecl{
			{Pattern: `/\*`, Action: lexical.RuleAction{Kind: lexical.ActionSkip, Push: "COMMENT"}},
			{Pattern: `\*/`, Conditions: []string{"COMMENT"}, Action: lexical.RuleAction{Kind: lexical.ActionSkip, Pop: true}},
			{Pattern: `[^*]+`, Conditions: []string{"COMMENT"}, Action: lexical.RuleAction{Kind: lexical.ActionSkip}},
			{Pattern: `\*`, Conditions: []string{"COMMENT"}, Action: lexical.RuleAction{Kind: lexical.ActionSkip}},
			{Pattern: `[0-9]+`, Action: lexical.RuleAction{Kind: lexical.ActionToken, TokenType: "NUM"}},
			{Pattern: "[ \t\n]+", Action: lexical.RuleAction{Kind: lexical.ActionSkip}},
		},
	}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	tz := mustTokenizer(t, lex, "1 /* skip me */ 2")
	tok, err := tz.Next()
	if err != nil || tok.Value != "1" {
		t.Fatalf("got %+v, %v; want NUM 1", tok, err)
	}
	tok, err = tz.Next()
	if err != nil || tok.Value != "2" {
		t.Fatalf("got %+v, %v; want NUM 2 after the comment was skipped", tok, err)
	}
}

func TestTokenizerReportsUnterminatedMoreAtEOF(t *testing.T) {
	lex, err := lexical.Build(&lexical.Description{
		Rules: []lexical.RuleDecl{
			{Pattern: `"`, Action: lexical.RuleAction{Kind: lexical.ActionMore}},
			{Pattern: `[^"]+`, Action: lexical.RuleAction{Kind: lexical.ActionMore}},
			{Pattern: `""`, Action: lexical.RuleAction{Kind: lexical.ActionToken, TokenType: "STR"}},
		},
	}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	tz := mustTokenizer(t, lex, `"unterminated`)
	if _, err := tz.Next(); err == nil {
		t.Fatalf("expected an error for a `more` lexeme that never reaches a token action")
	}
}

func TestTokenizerTracksLineAndColumn(t *testing.T) {
	lex, err := lexical.Build(&lexical.Description{
		Rules: []lexical.RuleDecl{
			{Pattern: `[a-z]+`, Action: lexical.RuleAction{Kind: lexical.ActionToken, TokenType: "WORD"}},
			{Pattern: "[ \t\n]+", Action: lexical.RuleAction{Kind: lexical.ActionSkip}},
		},
	}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	tz := mustTokenizer(t, lex, "ab\ncd", WithLocations())
	first, err := tz.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if first.Loc.StartLine != 1 || first.Loc.StartColumn != 1 || first.Loc.EndColumn != 3 {
		t.Fatalf("got loc %+v, want line 1 col 1-3", first.Loc)
	}

	second, err := tz.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if second.Loc.StartLine != 2 || second.Loc.StartColumn != 1 {
		t.Fatalf("got loc %+v, want line 2 col 1", second.Loc)
	}
}

func TestTokenizerReportsLexErrorForUnmatchedInput(t *testing.T) {
	lex, err := lexical.Build(&lexical.Description{
		Rules: []lexical.RuleDecl{
			{Pattern: `[0-9]+`, Action: lexical.RuleAction{Kind: lexical.ActionToken, TokenType: "NUM"}},
		},
	}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	tz := mustTokenizer(t, lex, "12x")
	if _, err := tz.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	_, err = tz.Next()
	var lexErr *LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("got %T (%v), want *LexError", err, err)
	}
	if lexErr.Offset != 2 || lexErr.Char != 'x' {
		t.Fatalf("got offset %v char %q, want 2 'x'", lexErr.Offset, lexErr.Char)
	}
}

func TestDisableModeTransitionKeepsInitialCondition(t *testing.T) {
	lex, err := lexical.Build(&lexical.Description{
		StartConditions: []lexical.StartCondition{
			{Name: "STR", Inclusive: false},
		},
		Rules: []lexical.RuleDecl{
			{Pattern: `"`, Action: lexical.RuleAction{Kind: lexical.ActionToken, TokenType: "QUOTE", Push: "STR"}},
			{Pattern: `[a-z]+`, Conditions: []string{"STR"}, Action: lexical.RuleAction{Kind: lexical.ActionToken, TokenType: "CHARS"}},
			{Pattern: `[a-z]+`, Action: lexical.RuleAction{Kind: lexical.ActionToken, TokenType: "WORD"}},
		},
	}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	tz := mustTokenizer(t, lex, `"abc`, DisableModeTransition())
	if tok, err := tz.Next(); err != nil || tok.Type != "QUOTE" {
		t.Fatalf("got %+v, %v; want QUOTE", tok, err)
	}
	tok, err := tz.Next()
	if err != nil || tok.Type != "WORD" {
		t.Fatalf("got %+v, %v; want WORD (the push into STR is disabled)", tok, err)
	}
}

func TestTokenizerLongestMatchAndDeclarationOrderTieBreak(t *testing.T) {
	lex, err := lexical.Build(&lexical.Description{
		Rules: []lexical.RuleDecl{
			{Pattern: "if", Action: lexical.RuleAction{Kind: lexical.ActionToken, TokenType: "IF"}},
			{Pattern: "[a-z]+", Action: lexical.RuleAction{Kind: lexical.ActionToken, TokenType: "IDENT"}},
		},
	}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	tz := mustTokenizer(t, lex, "if")
	tok, err := tz.Next()
	if err != nil || tok.Type != "IF" {
		t.Fatalf("got %+v, %v; want the earlier-declared IF rule to win the tie", tok, err)
	}

	tz = mustTokenizer(t, lex, "iffy")
	tok, err = tz.Next()
	if err != nil || tok.Type != "IDENT" || tok.Value != "iffy" {
		t.Fatalf("got %+v, %v; want the longer IDENT match to win", tok, err)
	}
}
