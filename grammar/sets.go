package grammar

import "github.com/grammarlab/parsegen/symbol"

// symbolSet is a small set-of-symbols accumulator. symbol.EOF is an
// ordinary member; epsilon membership is tracked separately as nullability.
type symbolSet struct {
	m map[symbol.Symbol]bool
}

func newSymbolSet() *symbolSet { return &symbolSet{m: map[symbol.Symbol]bool{}} }

func (s *symbolSet) add(sym symbol.Symbol) bool {
	if s.m[sym] {
		return false
	}
	s.m[sym] = true
	return true
}

func (s *symbolSet) addAll(other *symbolSet) bool {
	changed := false
	for sym := range other.m {
		if s.add(sym) {
			changed = true
		}
	}
	return changed
}

func (s *symbolSet) has(sym symbol.Symbol) bool { return s.m[sym] }

func (s *symbolSet) slice() []symbol.Symbol {
	out := make([]symbol.Symbol, 0, len(s.m))
	for sym := range s.m {
		out = append(out, sym)
	}
	return out
}

// SetsEngine holds the grammar's nullable/FIRST/FOLLOW sets, computed to a
// fixed point once at construction and cached on the Grammar.
type SetsEngine struct {
	nullable map[symbol.Symbol]bool
	first    map[symbol.Symbol]*symbolSet // non-terminal -> FIRST, terminals excluded (trivial)
	follow   map[symbol.Symbol]*symbolSet // non-terminal -> FOLLOW
}

func computeSets(g *Grammar) (*SetsEngine, error) {
	se := &SetsEngine{
		nullable: map[symbol.Symbol]bool{},
		first:    map[symbol.Symbol]*symbolSet{},
		follow:   map[symbol.Symbol]*symbolSet{},
	}

	nts := g.symbols.NonTerminals()
	nts = append(nts, symbol.Start)
	for _, nt := range nts {
		se.first[nt] = newSymbolSet()
		se.follow[nt] = newSymbolSet()
	}

	// nullable / FIRST fixed point.
	for {
		changed := false
		for _, p := range g.prods.all() {
			if p.IsEmpty() {
				if !se.nullable[p.LHS] {
					se.nullable[p.LHS] = true
					changed = true
				}
				continue
			}
			allNullableSoFar := true
			for _, sym := range p.RHS {
				if sym.IsTerminal() {
					if se.first[p.LHS].add(sym) {
						changed = true
					}
					allNullableSoFar = false
					break
				}
				if se.first[p.LHS].addAll(se.first[sym]) {
					changed = true
				}
				if !se.nullable[sym] {
					allNullableSoFar = false
					break
				}
			}
			if allNullableSoFar && !se.nullable[p.LHS] {
				se.nullable[p.LHS] = true
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	// FOLLOW fixed point.
	se.follow[g.start].add(symbol.EOF)
	if g.augmented != nil {
		se.follow[symbol.Start].add(symbol.EOF)
	}
	for {
		changed := false
		for _, p := range g.prods.all() {
			for i, sym := range p.RHS {
				if !sym.IsNonTerminal() {
					continue
				}
				rest := p.RHS[i+1:]
				firstRest, nullableRest := se.firstOfString(rest)
				if se.follow[sym].addAll(firstRest) {
					changed = true
				}
				if nullableRest {
					if se.follow[sym].addAll(se.follow[p.LHS]) {
						changed = true
					}
				}
			}
		}
		if !changed {
			break
		}
	}

	return se, nil
}

// firstOfString computes FIRST(α) for a string of symbols α.
func (se *SetsEngine) firstOfString(syms []symbol.Symbol) (*symbolSet, bool) {
	out := newSymbolSet()
	for _, sym := range syms {
		if sym.IsTerminal() {
			out.add(sym)
			return out, false
		}
		out.addAll(se.first[sym])
		if !se.nullable[sym] {
			return out, false
		}
	}
	return out, true
}

// Nullable reports whether sym (a non-terminal) can derive the empty
// string.
func (se *SetsEngine) Nullable(sym symbol.Symbol) bool {
	if sym.IsTerminal() {
		return false
	}
	return se.nullable[sym]
}

// First returns FIRST(sym) for a single symbol: {sym} if terminal,
// otherwise the computed FIRST set. Epsilon is never a member; Nullable
// answers that question instead.
func (se *SetsEngine) First(sym symbol.Symbol) []symbol.Symbol {
	if sym.IsTerminal() {
		return []symbol.Symbol{sym}
	}
	return se.first[sym].slice()
}

// FirstOfString computes FIRST(α) for a string of symbols, returning
// whether α is nullable.
func (se *SetsEngine) FirstOfString(syms []symbol.Symbol) ([]symbol.Symbol, bool) {
	s, nullable := se.firstOfString(syms)
	return s.slice(), nullable
}

// Follow returns FOLLOW(nt).
func (se *SetsEngine) Follow(nt symbol.Symbol) []symbol.Symbol {
	return se.follow[nt].slice()
}

// Predict returns PREDICT(p) for production p: A→α, i.e. FIRST(α) plus
// FOLLOW(A) when α is nullable.
func (se *SetsEngine) Predict(p *Production) []symbol.Symbol {
	first, nullable := se.firstOfString(p.RHS)
	out := newSymbolSet()
	out.addAll(first)
	if nullable {
		out.addAll(se.follow[p.LHS])
	}
	return out.slice()
}
