package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/grammarlab/parsegen/symbol"
)

// itemCore identifies an LR item irrespective of lookahead: its production
// number and dot position.
type itemCore struct {
	prod int
	dot  int
}

// LRItem is a production with a dot position and an optional lookahead
// set. Lookahead is nil for LR0/SLR1, non-nil (possibly a singleton,
// growing via merges) for CLR1/LALR1.
type LRItem struct {
	Prod      *Production
	Dot       int
	Lookahead *symbolSet
}

func (it *LRItem) core() itemCore { return itemCore{it.Prod.Num, it.Dot} }

// DottedSymbol is the RHS symbol immediately after the dot, or symbol.Nil
// if the dot is at the end.
func (it *LRItem) DottedSymbol() symbol.Symbol {
	if it.Dot >= len(it.Prod.RHS) {
		return symbol.Nil
	}
	return it.Prod.RHS[it.Dot]
}

func (it *LRItem) Reducible() bool { return it.Dot == len(it.Prod.RHS) }

// IsInitial reports whether it is `$accept →・S`, the seed item of state 0.
func (it *LRItem) IsInitial() bool { return it.Prod.LHS == symbol.Start && it.Dot == 0 }

func (it *LRItem) advanced() *LRItem {
	adv := &LRItem{Prod: it.Prod, Dot: it.Dot + 1}
	if it.Lookahead != nil {
		adv.Lookahead = it.Lookahead.clone()
	}
	return adv
}

func (s *symbolSet) clone() *symbolSet {
	if s == nil {
		return nil
	}
	out := newSymbolSet()
	out.addAll(s)
	return out
}

func (it *LRItem) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v →", it.Prod.LHS)
	for i, sym := range it.Prod.RHS {
		if i == it.Dot {
			b.WriteString(" ・")
		} else {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%v", sym)
	}
	if it.Dot == len(it.Prod.RHS) {
		b.WriteString(" ・")
	}
	if it.Lookahead != nil {
		las := it.Lookahead.slice()
		sort.Slice(las, func(i, j int) bool { return las[i] < las[j] })
		b.WriteString(", {")
		for i, a := range las {
			if i > 0 {
				b.WriteString("/")
			}
			fmt.Fprintf(&b, "%v", a)
		}
		b.WriteString("}")
	}
	return b.String()
}

// coreKey returns a stable string key for a set of items' cores, ignoring
// lookaheads: the kernel identity used by LR0/SLR1 state dedup and by the
// LALR1 merge-by-core step.
func coreKey(items []*LRItem) string {
	cores := make([]itemCore, len(items))
	for i, it := range items {
		cores[i] = it.core()
	}
	sort.Slice(cores, func(i, j int) bool {
		if cores[i].prod != cores[j].prod {
			return cores[i].prod < cores[j].prod
		}
		return cores[i].dot < cores[j].dot
	})
	var b strings.Builder
	for _, c := range cores {
		fmt.Fprintf(&b, "%d.%d|", c.prod, c.dot)
	}
	return b.String()
}

// fullKey additionally folds in each item's lookahead set, used for CLR1
// state identity: two states with equal kernels but different lookaheads
// are distinct.
func fullKey(items []*LRItem) string {
	sorted := make([]*LRItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i].core(), sorted[j].core()
		if a.prod != b.prod {
			return a.prod < b.prod
		}
		return a.dot < b.dot
	})
	var b strings.Builder
	b.WriteString(coreKey(items))
	for _, it := range sorted {
		if it.Lookahead == nil {
			continue
		}
		las := it.Lookahead.slice()
		sort.Slice(las, func(i, j int) bool { return las[i] < las[j] })
		fmt.Fprintf(&b, "[%d.%d:", it.core().prod, it.core().dot)
		for _, a := range las {
			fmt.Fprintf(&b, "%d,", a)
		}
		b.WriteString("]")
	}
	return b.String()
}

func stateKey(items []*LRItem, withLookahead bool) string {
	if withLookahead {
		return fullKey(items)
	}
	return coreKey(items)
}
