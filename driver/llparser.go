package driver

import (
	"github.com/grammarlab/parsegen/grammar"
	"github.com/grammarlab/parsegen/symbol"
	"github.com/grammarlab/parsegen/token"
)

// llStackEntry is either a pending symbol to match/expand, or an end marker
// placed under a production's RHS so its Action can fire once every RHS
// symbol has been consumed: a production "reduces" when its marker
// resurfaces at the top of the stack.
type llStackEntry struct {
	sym    symbol.Symbol
	marker *grammar.Production
}

// LLParser drives a grammar.LLParsingTable predictively over a Tokenizer: a
// single symbol stack replaces the LR automaton's states, and the table is
// indexed by (non-terminal, lookahead) instead of (state, symbol).
type LLParser struct {
	g   *grammar.Grammar
	tbl *grammar.LLParsingTable
	tz  *Tokenizer

	stack  []llStackEntry
	values []interface{}
	locs   []token.Location
}

func NewLLParser(g *grammar.Grammar, tbl *grammar.LLParsingTable, tz *Tokenizer) *LLParser {
	return &LLParser{
		g:   g,
		tbl: tbl,
		tz:  tz,
		stack: []llStackEntry{
			{sym: symbol.EOF},
			{sym: g.StartSymbol()},
		},
	}
}

// ResultLocation returns the location of the value most recently returned
// by Parse. Only meaningful after a successful Parse call.
func (p *LLParser) ResultLocation() token.Location {
	if len(p.locs) == 0 {
		return token.Location{}
	}
	return p.locs[len(p.locs)-1]
}

// expectedFor lists the terminal texts under which nt has a table entry,
// for SyntaxError reporting.
func (p *LLParser) expectedFor(nt symbol.Symbol) []string {
	var texts []string
	for term := range p.tbl.Table[nt] {
		if text, ok := p.g.Symbols().ToText(term); ok {
			texts = append(texts, text)
		}
	}
	return expectedTerminals(texts)
}

// Parse runs the predict/expand/match loop to completion, invoking each
// completed production's Action (if any) and returning the value
// synthesized for the start symbol once the lookahead reaches $.
func (p *LLParser) Parse() (interface{}, error) {
	tok, err := p.tz.Next()
	if err != nil {
		return nil, err
	}

	for {
		top := p.stack[len(p.stack)-1]

		if top.marker != nil {
			p.stack = p.stack[:len(p.stack)-1]
			value, loc, err := popAndReduce(top.marker, &p.values, &p.locs, tok.Loc)
			if err != nil {
				return nil, err
			}
			p.values = append(p.values, value)
			p.locs = append(p.locs, loc)
			continue
		}

		lookahead, ok := p.g.Symbols().ToSymbol(tok.Type)
		if !ok {
			return nil, &SyntaxError{Token: tok, State: -1}
		}

		if top.sym.IsTerminal() {
			if top.sym != lookahead {
				text, _ := p.g.Symbols().ToText(top.sym)
				return nil, &SyntaxError{Token: tok, State: -1, ExpectedTerminals: []string{text}}
			}
			if top.sym == symbol.EOF {
				if len(p.values) == 0 {
					return nil, nil
				}
				return p.values[len(p.values)-1], nil
			}
			p.stack = p.stack[:len(p.stack)-1]
			p.values = append(p.values, tok.Value)
			p.locs = append(p.locs, tok.Loc)
			tok, err = p.tz.Next()
			if err != nil {
				return nil, err
			}
			continue
		}

		prod, ok := p.tbl.Lookup(top.sym, lookahead)
		if !ok {
			return nil, &SyntaxError{Token: tok, State: -1, ExpectedTerminals: p.expectedFor(top.sym)}
		}
		p.stack = p.stack[:len(p.stack)-1]
		p.stack = append(p.stack, llStackEntry{marker: prod})
		for i := len(prod.RHS) - 1; i >= 0; i-- {
			p.stack = append(p.stack, llStackEntry{sym: prod.RHS[i]})
		}
	}
}
