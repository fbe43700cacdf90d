package grammar

import "github.com/grammarlab/parsegen/symbol"

// Assoc is a terminal's associativity, used to arbitrate shift/reduce
// conflicts between operators at the same precedence level.
type Assoc int

const (
	AssocNone = Assoc(iota)
	AssocLeft
	AssocRight
	AssocNonAssoc
)

// OperatorLevel is one precedence level of the operator table. The level's
// 1-based index is its precedence; a higher index binds tighter.
type OperatorLevel struct {
	Assoc     Assoc
	Terminals []string
}

// OperatorTable holds the grammar's ordered precedence/associativity
// declarations, indexed by terminal.
type OperatorTable struct {
	levels    []OperatorLevel
	termPrec  map[symbol.Symbol]int
	termAssoc map[symbol.Symbol]Assoc
}

func newOperatorTable() *OperatorTable {
	return &OperatorTable{
		termPrec:  map[symbol.Symbol]int{},
		termAssoc: map[symbol.Symbol]Assoc{},
	}
}

// buildOperatorTable interns every terminal named in levels and records its
// precedence (1-based, in level declaration order) and associativity.
func buildOperatorTable(tab *symbol.Table, levels []OperatorLevel) (*OperatorTable, error) {
	ot := newOperatorTable()
	ot.levels = levels
	for i, lv := range levels {
		prec := i + 1
		for _, text := range lv.Terminals {
			sym, err := tab.Intern(text, true)
			if err != nil {
				return nil, err
			}
			ot.termPrec[sym] = prec
			ot.termAssoc[sym] = lv.Assoc
		}
	}
	return ot, nil
}

// TerminalPrecedence returns a terminal's precedence, or 0 if the terminal
// has none.
func (ot *OperatorTable) TerminalPrecedence(sym symbol.Symbol) int {
	return ot.termPrec[sym]
}

func (ot *OperatorTable) TerminalAssoc(sym symbol.Symbol) Assoc {
	return ot.termAssoc[sym]
}

// rightmostTerminal returns the last terminal symbol in prod's RHS, the one
// that determines its inherited precedence, or false if the RHS has no
// terminal at all.
func rightmostTerminal(prod *Production) (symbol.Symbol, bool) {
	for i := len(prod.RHS) - 1; i >= 0; i-- {
		if s := prod.RHS[i]; s.IsTerminal() {
			return s, true
		}
	}
	return symbol.Symbol(0), false
}

// ProductionPrecedence returns prod's precedence: its explicit tag if set,
// otherwise the precedence of the rightmost terminal in its RHS, otherwise
// 0. The lookup stops at the single rightmost terminal: if that one has no
// precedence, the production has none.
func (ot *OperatorTable) ProductionPrecedence(prod *Production) int {
	if prod.Precedence != 0 {
		return prod.Precedence
	}
	s, ok := rightmostTerminal(prod)
	if !ok {
		return 0
	}
	return ot.termPrec[s]
}

// ProductionAssoc returns the associativity that governs prod's precedence,
// derived the same way as ProductionPrecedence.
func (ot *OperatorTable) ProductionAssoc(prod *Production) Assoc {
	if prod.Precedence != 0 {
		if prod.Precedence <= len(ot.levels) {
			return ot.levels[prod.Precedence-1].Assoc
		}
		return AssocNone
	}
	s, ok := rightmostTerminal(prod)
	if !ok {
		return AssocNone
	}
	return ot.termAssoc[s]
}
