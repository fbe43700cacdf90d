// Package grammar normalizes a grammar description into productions,
// symbols, and an operator table, computes nullable/FIRST/FOLLOW/PREDICT
// sets, and builds LR(0)/SLR(1)/LALR(1)/CLR(1) canonical collections and
// LR/LL(1) parsing tables.
package grammar

import (
	"github.com/grammarlab/parsegen/lexical"
	"github.com/grammarlab/parsegen/symbol"
)

// Mode selects the parsing discipline table construction targets.
type Mode int

const (
	LR0 Mode = iota
	SLR1
	LALR1
	CLR1
	LL1
)

func (m Mode) String() string {
	switch m {
	case LR0:
		return "LR0"
	case SLR1:
		return "SLR1"
	case LALR1:
		return "LALR1"
	case CLR1:
		return "CLR1"
	case LL1:
		return "LL1"
	default:
		return "unknown"
	}
}

func (m Mode) isLR() bool { return m == LR0 || m == SLR1 || m == LALR1 || m == CLR1 }

// Alternative is one RHS alternative of a BNF production. RHS elements that
// are quoted (e.g. `'+'`) classify as terminals; everything else is a
// non-terminal unless it appears in Description.Tokens.
type Alternative struct {
	RHS          []string
	Action       Action
	ActionSource string
	Precedence   string // references an operator declared in Description.Operators
}

// Description is the structured input to Grammar normalization. Parsing a
// textual BNF document into this shape is the grammar-file parser's job;
// the engine itself only ever sees this form.
type Description struct {
	// BNF maps a non-terminal name to its ordered list of RHS alternatives.
	BNF map[string][]Alternative
	// BNFOrder lists the non-terminals in declaration order, since Go maps
	// have no order; BNF[BNFOrder[0]]'s first alternative supplies the
	// default start symbol when Start is empty.
	BNFOrder []string

	// Tokens optionally names non-quoted RHS elements that are terminals
	// (e.g. an already-lexed token type) rather than non-terminals.
	Tokens []string

	// Operators is the ordered precedence/associativity table; the level
	// index (1-based) is the precedence, higher binds tighter.
	Operators []OperatorLevel

	// Lex is the optional lexical specification. When nil, Grammar
	// synthesizes one rule per distinct quoted terminal literal.
	Lex *lexical.Description

	// Start explicitly names the start symbol; when empty, the LHS of the
	// first production (BNFOrder[0]) is used.
	Start string

	Mode             Mode
	CaptureLocations bool

	// ResolveConflicts enables default conflict resolution at table-build
	// time instead of reporting a ConflictError.
	ResolveConflicts bool

	// ModuleInclude is opaque source text passed through to an external
	// code generator; the core never interprets it.
	ModuleInclude string
}

// Grammar is the normalized view of a grammar description: productions,
// terminals, non-terminals, tokens, operator table, augmented production,
// start symbol. Once returned from From, a Grammar is immutable and safe to
// share by reference across goroutines for read-only queries.
type Grammar struct {
	mode             Mode
	captureLocations bool
	resolveConflicts bool

	symbols *symbol.Table
	prods   *productionSet
	ops     *OperatorTable

	start     symbol.Symbol
	augmented *Production // nil for LL1

	lex *lexical.Grammar

	sets *SetsEngine
}

func (g *Grammar) Mode() Mode                 { return g.mode }
func (g *Grammar) CapturesLocations() bool    { return g.captureLocations }
func (g *Grammar) ResolveConflicts() bool     { return g.resolveConflicts }
func (g *Grammar) StartSymbol() symbol.Symbol { return g.start }
func (g *Grammar) Symbols() *symbol.Table     { return g.symbols }
func (g *Grammar) Operators() *OperatorTable  { return g.ops }
func (g *Grammar) LexGrammar() *lexical.Grammar { return g.lex }

// AugmentedProduction returns the synthetic `$accept → start` production.
// It is nil for LL1.
func (g *Grammar) AugmentedProduction() *Production { return g.augmented }

func (g *Grammar) Productions() []*Production { return g.prods.all() }

func (g *Grammar) Production(num int) (*Production, bool) { return g.prods.byNumber(num) }

func (g *Grammar) ProductionsByLHS(lhs symbol.Symbol) []*Production {
	return g.prods.findByLHS(lhs)
}

func (g *Grammar) ProductionsContaining(sym symbol.Symbol) []*Production {
	return g.prods.containingSymbol(sym)
}

func (g *Grammar) Terminals() []symbol.Symbol    { return g.symbols.Terminals() }
func (g *Grammar) NonTerminals() []symbol.Symbol { return g.symbols.NonTerminals() }

func (g *Grammar) Sets() *SetsEngine { return g.sets }

// From normalizes a grammar description into a Grammar: it establishes the
// start symbol, numbers the productions (prepending the augmented
// production under LR modes), classifies every RHS symbol, builds the
// operator table, and compiles the lexical grammar.
func From(desc *Description) (*Grammar, error) {
	if len(desc.BNF) == 0 {
		return nil, newGrammarError("a grammar must declare at least one production")
	}

	// Establish the start symbol.
	startText := desc.Start
	if startText == "" {
		if len(desc.BNFOrder) == 0 {
			return nil, newGrammarError("a grammar with no explicit start symbol must declare BNFOrder")
		}
		startText = desc.BNFOrder[0]
	}
	if _, ok := desc.BNF[startText]; !ok {
		return nil, newGrammarError("undefined start symbol: %v", startText)
	}

	tab := symbol.NewTable()
	tokenSet := map[string]bool{}
	for _, t := range desc.Tokens {
		tokenSet[t] = true
	}

	// Classification happens as each RHS element is interned: a quoted
	// literal is always a terminal; otherwise it is a terminal only if
	// declared in Tokens, else a non-terminal.
	classify := func(elem string) (sym symbol.Symbol, literal string, isLiteral bool, err error) {
		if len(elem) >= 2 && elem[0] == '\'' && elem[len(elem)-1] == '\'' {
			lit := elem[1 : len(elem)-1]
			sym, err = tab.Intern(elem, true)
			return sym, lit, true, err
		}
		if tokenSet[elem] {
			sym, err = tab.Intern(elem, true)
			return sym, "", false, err
		}
		sym, err = tab.Intern(elem, false)
		return sym, "", false, err
	}

	start, err := tab.Intern(startText, false)
	if err != nil {
		return nil, err
	}

	prods := newProductionSet()
	var altProds []*Production // one entry per declared alternative, in order
	var literals []string      // distinct quoted literal terminal texts, in first-seen order

	// Number productions in declaration order.
	order := desc.BNFOrder
	if len(order) == 0 {
		for nt := range desc.BNF {
			order = append(order, nt)
		}
	}
	for _, nt := range order {
		lhs, err := tab.Intern(nt, false)
		if err != nil {
			return nil, err
		}
		for _, alt := range desc.BNF[nt] {
			rhs := make([]symbol.Symbol, 0, len(alt.RHS))
			for _, elem := range alt.RHS {
				sym, lit, isLiteral, err := classify(elem)
				if err != nil {
					return nil, err
				}
				if isLiteral {
					literals = append(literals, lit)
				}
				rhs = append(rhs, sym)
			}
			prod, err := newProduction(lhs, rhs)
			if err != nil {
				return nil, err
			}
			prod.Action = alt.Action
			prod.ActionSource = alt.ActionSource
			altProds = append(altProds, prods.append(prod))
		}
	}

	// The operator table also interns any terminal named only in
	// %left/%right/%nonassoc, e.g. tokens with no quoted literal form.
	ops, err := buildOperatorTable(tab, desc.Operators)
	if err != nil {
		return nil, err
	}

	// Resolve each alternative's precedence tag against the operator
	// table, now that both are fully interned.
	{
		i := 0
		for _, nt := range order {
			for _, alt := range desc.BNF[nt] {
				prod := altProds[i]
				if alt.Precedence != "" {
					sym, ok := tab.ToSymbol(alt.Precedence)
					if !ok {
						sym, ok = tab.ToSymbol("'" + alt.Precedence + "'")
					}
					if !ok {
						return nil, newGrammarError("production %v: unknown precedence tag %q", prod, alt.Precedence)
					}
					prec := ops.TerminalPrecedence(sym)
					if prec == 0 {
						return nil, newGrammarError("production %v: %q is not declared in the operator table", prod, alt.Precedence)
					}
					prod.Precedence = prec
				}
				i++
			}
		}
	}

	var augmented *Production
	if desc.Mode.isLR() {
		// Prepend $accept → start, numbered 0.
		aug, err := newProduction(symbol.Start, []symbol.Symbol{start})
		if err != nil {
			return nil, err
		}
		augmented = prependProduction(prods, aug)
	} else {
		// LL(1) has no augmented production to occupy slot 0; its
		// production numbers run dense from 1 instead.
		prods.renumberFrom(1)
	}

	// Build the lexical grammar, synthesizing a literal-matching rule for
	// every distinct quoted terminal the BNF used.
	lex, err := lexical.Build(desc.Lex, literals)
	if err != nil {
		return nil, newGrammarError("lexical grammar: %v", err)
	}
	for _, t := range desc.Tokens {
		if _, ok := tab.ToSymbol(t); !ok {
			return nil, newGrammarError("token %q is declared but never used", t)
		}
		if !lex.ProducesKind(t) {
			return nil, newGrammarError("terminal %q has no matching lexical rule", t)
		}
	}
	for _, sym := range tab.Terminals() {
		if sym.IsEOF() {
			continue // emitted by the tokenizer itself, not by a rule
		}
		text, _ := tab.ToText(sym)
		if len(text) >= 2 && text[0] == '\'' {
			continue // covered by a synthesized literal rule
		}
		if !lex.ProducesKind(text) {
			return nil, newGrammarError("terminal %q has no matching lexical rule", text)
		}
	}

	g := &Grammar{
		mode:             desc.Mode,
		captureLocations: desc.CaptureLocations,
		resolveConflicts: desc.ResolveConflicts,
		symbols:          tab,
		prods:            prods,
		ops:              ops,
		start:            start,
		augmented:        augmented,
		lex:              lex,
	}

	sets, err := computeSets(g)
	if err != nil {
		return nil, err
	}
	g.sets = sets

	return g, nil
}

// prependProduction inserts aug as production 0 and renumbers the rest.
func prependProduction(ps *productionSet, aug *Production) *Production {
	all := ps.byNum
	ps.byNum = make([]*Production, 0, len(all)+1)
	aug.Num = 0
	ps.byNum = append(ps.byNum, aug)
	ps.byID[aug.id] = aug
	ps.byLHS[aug.LHS] = append(ps.byLHS[aug.LHS], aug)
	for i, p := range all {
		p.Num = i + 1
		ps.byNum = append(ps.byNum, p)
	}
	return aug
}
