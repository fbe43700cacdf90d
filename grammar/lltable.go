package grammar

import "github.com/grammarlab/parsegen/symbol"

// LLParsingTable maps (non-terminal, lookahead terminal) to the production
// to expand, built from PREDICT sets. Unlike the LR table there is no
// canonical collection: the table is derived directly from the grammar's
// productions and SetsEngine.
type LLParsingTable struct {
	Table     map[symbol.Symbol]map[symbol.Symbol]*Production
	Conflicts []Conflict
}

func (t *LLParsingTable) Lookup(nt, lookahead symbol.Symbol) (*Production, bool) {
	row, ok := t.Table[nt]
	if !ok {
		return nil, false
	}
	p, ok := row[lookahead]
	return p, ok
}

// BuildLLParsingTable fills one row per non-terminal by placing each of
// its alternatives under every terminal in its PREDICT set; two
// alternatives landing on the same cell is a FIRST/FIRST conflict. Default
// resolution, mirroring the LR reduce/reduce default, keeps the
// earliest-declared alternative. The grammar must already be left-factored
// and free of left recursion; construction does not transform it.
func BuildLLParsingTable(g *Grammar) (*LLParsingTable, error) {
	tbl := &LLParsingTable{Table: map[symbol.Symbol]map[symbol.Symbol]*Production{}}
	for _, nt := range g.NonTerminals() {
		tbl.Table[nt] = map[symbol.Symbol]*Production{}
	}

	for _, p := range g.Productions() {
		row, ok := tbl.Table[p.LHS]
		if !ok {
			row = map[symbol.Symbol]*Production{}
			tbl.Table[p.LHS] = row
		}
		for _, term := range g.Sets().Predict(p) {
			existing, occupied := row[term]
			if !occupied {
				row[term] = p
				continue
			}
			if existing == p {
				continue
			}
			winner := existing
			if p.Num < winner.Num {
				winner = p
			}
			applied := g.ResolveConflicts()
			tbl.Conflicts = append(tbl.Conflicts, Conflict{
				Kind: FirstFirstConflict, State: -1, Symbol: term,
				Productions: []*Production{existing, p},
				Resolved:    applied, ResolvedBy: resolveTag(applied, "default:earliest-production"),
			})
			if applied {
				row[term] = winner
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
