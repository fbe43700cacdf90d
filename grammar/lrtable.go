package grammar

import "github.com/grammarlab/parsegen/symbol"

// ActionKind tags an ACTION-table cell.
type ActionKind int

const (
	ActionError ActionKind = iota
	ActionShift
	ActionReduce
	ActionAccept
)

func (k ActionKind) String() string {
	switch k {
	case ActionShift:
		return "shift"
	case ActionReduce:
		return "reduce"
	case ActionAccept:
		return "accept"
	default:
		return "error"
	}
}

// LRAction is one ACTION-table cell: shift to State, reduce by Prod,
// accept, or an explicit parse error. The explicit error cell is how a
// non-associative operator chain like `a < b < c` fails at parse time
// instead of silently shifting.
type LRAction struct {
	Kind  ActionKind
	State int         // valid when Kind == ActionShift
	Prod  *Production // valid when Kind == ActionReduce or ActionAccept
}

// LRParsingTable is the ACTION/GOTO pair driving the shift/reduce parser.
type LRParsingTable struct {
	Mode         Mode
	InitialState int
	Action       map[int]map[symbol.Symbol]LRAction
	Goto         map[int]map[symbol.Symbol]int
	Conflicts    []Conflict
}

func (t *LRParsingTable) ActionAt(state int, sym symbol.Symbol) (LRAction, bool) {
	row, ok := t.Action[state]
	if !ok {
		return LRAction{}, false
	}
	a, ok := row[sym]
	return a, ok
}

func (t *LRParsingTable) GotoAt(state int, sym symbol.Symbol) (int, bool) {
	row, ok := t.Goto[state]
	if !ok {
		return 0, false
	}
	s, ok := row[sym]
	return s, ok
}

// BuildLRParsingTable assembles the ACTION/GOTO table from a canonical
// collection, arbitrating shift/reduce and reduce/reduce conflicts via
// precedence and associativity. When the grammar disables conflict
// resolution, any unresolved conflict makes this return a *ConflictError
// alongside the best-effort table built so far.
func BuildLRParsingTable(g *Grammar, cc *CanonicalCollection) (*LRParsingTable, error) {
	tbl := &LRParsingTable{
		Mode:   cc.Mode,
		Action: map[int]map[symbol.Symbol]LRAction{},
		Goto:   map[int]map[symbol.Symbol]int{},
	}

	for _, s := range cc.States() {
		actionRow := map[symbol.Symbol]LRAction{}
		gotoRow := map[symbol.Symbol]int{}
		tbl.Action[s.ID] = actionRow
		tbl.Goto[s.ID] = gotoRow

		for sym, target := range s.Transitions {
			if sym.IsTerminal() {
				actionRow[sym] = LRAction{Kind: ActionShift, State: target}
			} else {
				gotoRow[sym] = target
			}
		}

		for _, it := range s.Reducible() {
			if it.Prod.LHS == symbol.Start {
				setAction(g, tbl, s.ID, symbol.EOF, LRAction{Kind: ActionAccept, Prod: it.Prod})
				continue
			}
			for _, la := range reduceLookaheads(g, cc.Mode, it) {
				setAction(g, tbl, s.ID, la, LRAction{Kind: ActionReduce, Prod: it.Prod})
			}
		}
	}

	var unresolved []Conflict
	for _, c := range tbl.Conflicts {
		if !c.Resolved {
			unresolved = append(unresolved, c)
		}
	}
	if len(unresolved) > 0 {
		return tbl, &ConflictError{Conflicts: unresolved}
	}
	return tbl, nil
}

// reduceLookaheads is the set of terminals under which item's production
// reduces: every terminal plus $ for LR0, FOLLOW(LHS) for SLR1, and the
// item's own lookahead set for CLR1/LALR1.
func reduceLookaheads(g *Grammar, mode Mode, it *LRItem) []symbol.Symbol {
	switch mode {
	case LR0:
		// g.Terminals() already includes $.
		return g.Terminals()
	case SLR1:
		return g.Sets().Follow(it.Prod.LHS)
	default: // CLR1, LALR1
		return it.Lookahead.slice()
	}
}

// setAction installs candidate into the ACTION table, resolving a conflict
// with whatever is already there and recording a Conflict either way,
// resolved or not.
func setAction(g *Grammar, tbl *LRParsingTable, state int, sym symbol.Symbol, candidate LRAction) {
	row := tbl.Action[state]
	existing, ok := row[sym]
	if !ok {
		row[sym] = candidate
		return
	}
	if existing.Kind == candidate.Kind && existing.Prod == candidate.Prod && existing.State == candidate.State {
		return
	}

	switch {
	case existing.Kind == ActionShift && candidate.Kind == ActionReduce:
		keepShift, resolvedBy, isError, definite := resolveShiftReduce(g, sym, candidate.Prod)
		applied := definite || g.ResolveConflicts()
		tbl.Conflicts = append(tbl.Conflicts, Conflict{
			Kind: ShiftReduceConflict, State: state, Symbol: sym,
			Productions: []*Production{candidate.Prod},
			Resolved:    applied, ResolvedBy: resolveTag(applied, resolvedBy),
		})
		if !applied {
			return
		}
		if isError {
			row[sym] = LRAction{Kind: ActionError}
		} else if !keepShift {
			row[sym] = candidate
		}
		// else: keep the existing shift.

	case existing.Kind == ActionReduce && candidate.Kind == ActionShift:
		keepShift, resolvedBy, isError, definite := resolveShiftReduce(g, sym, existing.Prod)
		applied := definite || g.ResolveConflicts()
		tbl.Conflicts = append(tbl.Conflicts, Conflict{
			Kind: ShiftReduceConflict, State: state, Symbol: sym,
			Productions: []*Production{existing.Prod},
			Resolved:    applied, ResolvedBy: resolveTag(applied, resolvedBy),
		})
		if !applied {
			return
		}
		if isError {
			row[sym] = LRAction{Kind: ActionError}
		} else if keepShift {
			row[sym] = candidate
		}
		// else: keep the existing reduce.

	case existing.Kind == ActionReduce && candidate.Kind == ActionReduce:
		winner := existing.Prod
		if candidate.Prod.Num < winner.Num {
			winner = candidate.Prod
		}
		applied := g.ResolveConflicts()
		tbl.Conflicts = append(tbl.Conflicts, Conflict{
			Kind: ReduceReduceConflict, State: state, Symbol: sym,
			Productions: []*Production{existing.Prod, candidate.Prod},
			Resolved:    applied, ResolvedBy: resolveTag(applied, "default:earliest-production"),
		})
		if !applied {
			return
		}
		row[sym] = LRAction{Kind: ActionReduce, Prod: winner}

	default:
		// Accept can never legitimately collide with another action once
		// the grammar is augmented correctly; treat it the same as a
		// reduce/reduce conflict so it is surfaced rather than silently
		// overwritten.
		tbl.Conflicts = append(tbl.Conflicts, Conflict{
			Kind: ReduceReduceConflict, State: state, Symbol: sym,
			Productions: []*Production{existing.Prod, candidate.Prod},
		})
	}
}

// resolveTag reports the ResolvedBy string to record on a Conflict: named
// when applied was actually applied to the table cell, blank otherwise —
// nothing was done, so nothing should be claimed.
func resolveTag(applied bool, tag string) string {
	if !applied {
		return ""
	}
	return tag
}

// resolveShiftReduce arbitrates a shift/reduce conflict on sym against
// reduceProd's precedence: higher precedence wins, equal precedence falls
// back to associativity, and an operator declared non-associative makes the
// cell a parse error rather than a silent shift. definite reports whether
// both sides had precedence defined; that case resolves unconditionally,
// regardless of resolveConflicts, while the partial/missing-precedence
// default (shift) is gated on the flag.
func resolveShiftReduce(g *Grammar, sym symbol.Symbol, reduceProd *Production) (keepShift bool, resolvedBy string, isError bool, definite bool) {
	prodPrec := g.Operators().ProductionPrecedence(reduceProd)
	termPrec := g.Operators().TerminalPrecedence(sym)
	if prodPrec == 0 || termPrec == 0 {
		return true, "default:shift", false, false
	}
	if prodPrec > termPrec {
		return false, "precedence", false, true
	}
	if prodPrec < termPrec {
		return true, "precedence", false, true
	}
	switch g.Operators().TerminalAssoc(sym) {
	case AssocLeft:
		return false, "associativity:left", false, true
	case AssocRight:
		return true, "associativity:right", false, true
	case AssocNonAssoc:
		return false, "associativity:nonassoc", true, true
	default:
		return true, "default:shift", false, true
	}
}
