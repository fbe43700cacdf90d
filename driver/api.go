package driver

import (
	"github.com/grammarlab/parsegen/grammar"
	"github.com/grammarlab/parsegen/token"
)

// Result is the outcome of a successful parse: the start symbol's semantic
// value and, when location capture is enabled, its source span.
type Result struct {
	Value interface{}
	Loc   token.Location
}

// ParseLR tokenizes src with g's lexical grammar and drives tbl over it,
// creating a fresh Tokenizer and LRParser pair for this one parse.
func ParseLR(g *grammar.Grammar, tbl *grammar.LRParsingTable, src string) (*Result, error) {
	tz, err := newTokenizerFor(g, src)
	if err != nil {
		return nil, err
	}
	p := NewLRParser(g, tbl, tz)
	value, err := p.Parse()
	if err != nil {
		return nil, err
	}
	return &Result{Value: value, Loc: p.ResultLocation()}, nil
}

// ParseLL tokenizes src with g's lexical grammar and drives tbl over it,
// creating a fresh Tokenizer and LLParser pair for this one parse.
func ParseLL(g *grammar.Grammar, tbl *grammar.LLParsingTable, src string) (*Result, error) {
	tz, err := newTokenizerFor(g, src)
	if err != nil {
		return nil, err
	}
	p := NewLLParser(g, tbl, tz)
	value, err := p.Parse()
	if err != nil {
		return nil, err
	}
	return &Result{Value: value, Loc: p.ResultLocation()}, nil
}

func newTokenizerFor(g *grammar.Grammar, src string) (*Tokenizer, error) {
	var opts []TokenizerOption
	if g.CapturesLocations() {
		opts = append(opts, WithLocations())
	}
	return NewTokenizer(g.LexGrammar(), src, opts...)
}
