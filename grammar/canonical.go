package grammar

import (
	"sort"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/grammarlab/parsegen/symbol"
)

// State is one member of a canonical collection: a kernel, the kernel's
// closure, and the GOTO transitions out of it.
type State struct {
	ID int

	// Kernel holds the items that define this state's identity: the
	// initial item for state 0, and every item produced by advancing a
	// dot across a GOTO edge for every other state.
	Kernel []*LRItem

	// Items is the full closure of Kernel, keyed by item core.
	Items map[itemCore]*LRItem

	// Transitions maps a grammar symbol to the ID of the state GOTO(this, X)
	// reaches.
	Transitions map[symbol.Symbol]int
}

// Reducible returns every item in the state's closure whose dot has reached
// the end of its production.
func (s *State) Reducible() []*LRItem {
	var out []*LRItem
	for _, it := range s.Items {
		if it.Reducible() {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Prod.Num < out[j].Prod.Num })
	return out
}

var stateComparator = func(a, b interface{}) int {
	return utils.IntComparator(a.(*State).ID, b.(*State).ID)
}

// CanonicalCollection is the full set of LR states reachable by BFS from
// state 0, plus the transition edges between them. States are held in a
// treeset ordered by ID.
type CanonicalCollection struct {
	Mode   Mode
	states *treeset.Set
	byID   map[int]*State
}

// States returns every state, ordered by ID (state 0 first).
func (cc *CanonicalCollection) States() []*State {
	vals := cc.states.Values()
	out := make([]*State, len(vals))
	for i, v := range vals {
		out[i] = v.(*State)
	}
	return out
}

func (cc *CanonicalCollection) State(id int) (*State, bool) {
	s, ok := cc.byID[id]
	return s, ok
}

func newCanonicalCollection(mode Mode) *CanonicalCollection {
	return &CanonicalCollection{
		Mode:   mode,
		states: treeset.NewWith(stateComparator),
		byID:   map[int]*State{},
	}
}

func (cc *CanonicalCollection) addState(s *State) {
	cc.states.Add(s)
	cc.byID[s.ID] = s
}

// closeItems computes the closure of a kernel. When withLookahead is true,
// each closure-generated item's lookahead is FIRST(β) of the triggering
// item `A → α・Bβ, L`, plus L itself if β is nullable. Items that recur
// within one closure computation (by core) have their lookaheads unioned;
// that is part of building one state correctly, not a cross-state merge
// policy.
func closeItems(kernel []*LRItem, g *Grammar, withLookahead bool) map[itemCore]*LRItem {
	closure := map[itemCore]*LRItem{}
	var worklist []*LRItem

	seed := func(it *LRItem) {
		if existing, ok := closure[it.core()]; ok {
			if withLookahead && existing.Lookahead.addAll(it.Lookahead) {
				worklist = append(worklist, existing)
			}
			return
		}
		clone := &LRItem{Prod: it.Prod, Dot: it.Dot}
		if withLookahead {
			clone.Lookahead = it.Lookahead.clone()
		}
		closure[it.core()] = clone
		worklist = append(worklist, clone)
	}
	for _, it := range kernel {
		seed(it)
	}

	for len(worklist) > 0 {
		batch := worklist
		worklist = nil
		for _, it := range batch {
			dsym := it.DottedSymbol()
			if dsym.IsNil() || !dsym.IsNonTerminal() {
				continue
			}
			var lookaheadForChild *symbolSet
			if withLookahead {
				rest := it.Prod.RHS[it.Dot+1:]
				firstRest, nullable := g.sets.firstOfString(rest)
				lookaheadForChild = newSymbolSet()
				lookaheadForChild.addAll(firstRest)
				if nullable {
					lookaheadForChild.addAll(it.Lookahead)
				}
			}
			for _, p := range g.prods.findByLHS(dsym) {
				child := &LRItem{Prod: p, Dot: 0, Lookahead: lookaheadForChild}
				seed(child)
			}
		}
	}
	return closure
}

// gotoKernel advances the dot past X for every closure item dotted on X,
// producing the kernel of GOTO(state, X).
func gotoKernel(closure map[itemCore]*LRItem, X symbol.Symbol) []*LRItem {
	var kernel []*LRItem
	for _, it := range closure {
		if it.DottedSymbol() == X {
			kernel = append(kernel, it.advanced())
		}
	}
	return kernel
}

// buildCanonicalCollection runs the shared BFS construction used by
// LR0/SLR1 (withLookahead=false) and CLR1 (withLookahead=true); LALR1 is
// derived afterward by mergeToLALR1.
func buildCanonicalCollection(g *Grammar, mode Mode, withLookahead bool) (*CanonicalCollection, error) {
	if g.augmented == nil {
		return nil, newInternalError("canonical collection construction requires an augmented production")
	}

	initItem := &LRItem{Prod: g.augmented, Dot: 0}
	if withLookahead {
		initItem.Lookahead = newSymbolSet()
		initItem.Lookahead.add(symbol.EOF)
	}

	cc := newCanonicalCollection(mode)
	initial := &State{ID: 0, Kernel: []*LRItem{initItem}}
	byKey := map[string]*State{stateKey(initial.Kernel, withLookahead): initial}
	cc.addState(initial)

	queue := []*State{initial}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]

		s.Items = closeItems(s.Kernel, g, withLookahead)
		s.Transitions = map[symbol.Symbol]int{}

		var onSymbols []symbol.Symbol
		seenSym := map[symbol.Symbol]bool{}
		for _, it := range s.Items {
			if ds := it.DottedSymbol(); !ds.IsNil() && !seenSym[ds] {
				seenSym[ds] = true
				onSymbols = append(onSymbols, ds)
			}
		}
		sort.Slice(onSymbols, func(i, j int) bool { return onSymbols[i] < onSymbols[j] })

		for _, sym := range onSymbols {
			kernel := gotoKernel(s.Items, sym)
			key := stateKey(kernel, withLookahead)
			if existing, ok := byKey[key]; ok {
				s.Transitions[sym] = existing.ID
				continue
			}
			ns := &State{ID: len(byKey), Kernel: kernel}
			byKey[key] = ns
			cc.addState(ns)
			s.Transitions[sym] = ns.ID
			queue = append(queue, ns)
		}
	}

	return cc, nil
}

// mergeToLALR1 merges every CLR1 state sharing a kernel core into one state
// whose items carry the union of the contributing states' lookaheads. This
// produces the same result as the classic incremental propagation
// algorithm; it is simply computed from the already-built CLR1 collection
// instead of a separate worklist over spontaneous/propagated lookaheads,
// trading construction-time efficiency for a single shared closure/GOTO
// implementation.
func mergeToLALR1(clr1 *CanonicalCollection, g *Grammar) (*CanonicalCollection, error) {
	groups := map[string][]*State{}
	var groupOrder []string
	for _, s := range clr1.States() {
		key := coreKey(s.Kernel)
		if _, ok := groups[key]; !ok {
			groupOrder = append(groupOrder, key)
		}
		groups[key] = append(groups[key], s)
	}
	sort.Slice(groupOrder, func(i, j int) bool {
		return minID(groups[groupOrder[i]]) < minID(groups[groupOrder[j]])
	})

	oldToNew := map[int]int{}
	for newID, key := range groupOrder {
		for _, s := range groups[key] {
			oldToNew[s.ID] = newID
		}
	}

	cc := newCanonicalCollection(LALR1)
	for newID, key := range groupOrder {
		members := groups[key]

		mergedKernel := map[itemCore]*LRItem{}
		for _, m := range members {
			for _, it := range m.Kernel {
				if existing, ok := mergedKernel[it.core()]; ok {
					existing.Lookahead.addAll(it.Lookahead)
				} else {
					mergedKernel[it.core()] = &LRItem{Prod: it.Prod, Dot: it.Dot, Lookahead: it.Lookahead.clone()}
				}
			}
		}
		mergedItems := map[itemCore]*LRItem{}
		for _, m := range members {
			for core, it := range m.Items {
				if existing, ok := mergedItems[core]; ok {
					existing.Lookahead.addAll(it.Lookahead)
				} else {
					mergedItems[core] = &LRItem{Prod: it.Prod, Dot: it.Dot, Lookahead: it.Lookahead.clone()}
				}
			}
		}
		transitions := map[symbol.Symbol]int{}
		for _, m := range members {
			for sym, target := range m.Transitions {
				transitions[sym] = oldToNew[target]
			}
		}

		kernel := make([]*LRItem, 0, len(mergedKernel))
		for _, it := range mergedKernel {
			kernel = append(kernel, it)
		}
		ns := &State{ID: newID, Kernel: kernel, Items: mergedItems, Transitions: transitions}
		cc.addState(ns)
	}

	return cc, nil
}

func minID(states []*State) int {
	m := states[0].ID
	for _, s := range states[1:] {
		if s.ID < m {
			m = s.ID
		}
	}
	return m
}

// BuildCanonicalCollection constructs the canonical collection appropriate
// to mode: LR0/SLR1 carry no lookaheads, CLR1 seeds and propagates
// lookaheads per state, and LALR1 builds the CLR1 collection first and then
// merges by kernel core.
func BuildCanonicalCollection(g *Grammar, mode Mode) (*CanonicalCollection, error) {
	switch mode {
	case LR0, SLR1:
		return buildCanonicalCollection(g, mode, false)
	case CLR1:
		return buildCanonicalCollection(g, CLR1, true)
	case LALR1:
		clr1, err := buildCanonicalCollection(g, CLR1, true)
		if err != nil {
			return nil, err
		}
		return mergeToLALR1(clr1, g)
	default:
		return nil, newInternalError("BuildCanonicalCollection: mode %v has no canonical collection", mode)
	}
}
