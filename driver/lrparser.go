package driver

import (
	"github.com/grammarlab/parsegen/grammar"
	"github.com/grammarlab/parsegen/token"
)

// LRParser drives a grammar.LRParsingTable over a Tokenizer, maintaining
// parallel state/value/location stacks.
type LRParser struct {
	g   *grammar.Grammar
	tbl *grammar.LRParsingTable
	tz  *Tokenizer

	states []int
	values []interface{}
	locs   []token.Location
}

func NewLRParser(g *grammar.Grammar, tbl *grammar.LRParsingTable, tz *Tokenizer) *LRParser {
	return &LRParser{g: g, tbl: tbl, tz: tz, states: []int{tbl.InitialState}}
}

// ResultLocation returns the location of the value most recently returned
// by Parse. Only meaningful after a successful Parse call.
func (p *LRParser) ResultLocation() token.Location {
	if len(p.locs) == 0 {
		return token.Location{}
	}
	return p.locs[len(p.locs)-1]
}

// expectedAt lists the terminal texts that have a non-error action in the
// given state, for SyntaxError reporting.
func (p *LRParser) expectedAt(state int) []string {
	var texts []string
	for sym, a := range p.tbl.Action[state] {
		if a.Kind == grammar.ActionError {
			continue
		}
		if text, ok := p.g.Symbols().ToText(sym); ok {
			texts = append(texts, text)
		}
	}
	return expectedTerminals(texts)
}

// Parse runs the shift/reduce loop to completion, invoking each reduced
// production's Action (if any) and returning the value synthesized for the
// start symbol on accept.
func (p *LRParser) Parse() (interface{}, error) {
	tok, err := p.tz.Next()
	if err != nil {
		return nil, err
	}

	for {
		state := p.states[len(p.states)-1]
		sym, ok := p.g.Symbols().ToSymbol(tok.Type)
		if !ok {
			return nil, &SyntaxError{Token: tok, State: state, ExpectedTerminals: p.expectedAt(state)}
		}

		action, ok := p.tbl.ActionAt(state, sym)
		if !ok {
			return nil, &SyntaxError{Token: tok, State: state, ExpectedTerminals: p.expectedAt(state)}
		}
		if action.Kind == grammar.ActionError {
			// An explicit error cell only arises from non-associative
			// operator arbitration.
			return nil, &NonAssocError{Token: tok}
		}

		switch action.Kind {
		case grammar.ActionShift:
			p.states = append(p.states, action.State)
			p.values = append(p.values, tok.Value)
			p.locs = append(p.locs, tok.Loc)
			tok, err = p.tz.Next()
			if err != nil {
				return nil, err
			}

		case grammar.ActionReduce:
			result, resultLoc, err := popAndReduce(action.Prod, &p.values, &p.locs, tok.Loc)
			if err != nil {
				return nil, err
			}
			p.states = p.states[:len(p.states)-len(action.Prod.RHS)]
			top := p.states[len(p.states)-1]
			next, ok := p.tbl.GotoAt(top, action.Prod.LHS)
			if !ok {
				return nil, newNoGotoError(top, action.Prod)
			}
			p.states = append(p.states, next)
			p.values = append(p.values, result)
			p.locs = append(p.locs, resultLoc)

		case grammar.ActionAccept:
			if len(p.values) == 0 {
				return nil, nil
			}
			return p.values[len(p.values)-1], nil
		}
	}
}
