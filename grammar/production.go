package grammar

import (
	"crypto/sha256"
	"fmt"

	"github.com/grammarlab/parsegen/symbol"
	"github.com/grammarlab/parsegen/token"
)

// productionID content-addresses a production by its LHS and RHS, so
// structurally identical alternatives declared twice collapse to one
// production.
type productionID [32]byte

func genProductionID(lhs symbol.Symbol, rhs []symbol.Symbol) productionID {
	b := make([]byte, 0, 2+2*len(rhs))
	b = append(b, byte(lhs>>8), byte(lhs))
	for _, s := range rhs {
		b = append(b, byte(s>>8), byte(s))
	}
	return productionID(sha256.Sum256(b))
}

// Action is a semantic action attached to a production. It is invoked by an
// in-process driver with the semantic values and locations popped off the
// driver's stack for the production's RHS, in order, and returns the
// synthesized value for the LHS. The core never inspects or compiles an
// Action itself; it only ever calls it. A code generator instead consumes
// Production.ActionSource (the opaque source text an Action was compiled
// from).
type Action func(args []interface{}, locs []token.Location) (interface{}, error)

// Production is one numbered BNF production: an LHS symbol, an ordered RHS
// symbol sequence, and an optional semantic action and precedence tag.
type Production struct {
	id  productionID
	Num int
	LHS symbol.Symbol
	RHS []symbol.Symbol

	Action       Action
	ActionSource string

	// Precedence is 1..k, or 0 when absent (inherit the precedence of the
	// rightmost terminal in RHS, if it has one; see
	// OperatorTable.ProductionPrecedence).
	Precedence int
}

func newProduction(lhs symbol.Symbol, rhs []symbol.Symbol) (*Production, error) {
	if lhs.IsNil() {
		return nil, fmt.Errorf("a production's LHS must not be nil")
	}
	for _, s := range rhs {
		if s.IsNil() {
			return nil, fmt.Errorf("a production's RHS must not contain a nil symbol; LHS: %v", lhs)
		}
	}
	return &Production{
		id:  genProductionID(lhs, rhs),
		LHS: lhs,
		RHS: rhs,
	}, nil
}

func (p *Production) IsEmpty() bool { return len(p.RHS) == 0 }

func (p *Production) String() string {
	return fmt.Sprintf("%v → %v", p.LHS, p.RHS)
}

// productionSet is the dense, numbered collection of a grammar's
// productions, keyed both by number and by content ID for dedup.
type productionSet struct {
	byNum []*Production
	byID  map[productionID]*Production
	byLHS map[symbol.Symbol][]*Production

	// numBase is the Num of byNum[0], normally 0 (LR's augmented production
	// or an unnumbered-yet LL1 set) but 1 once renumberFrom(1) has run.
	numBase int
}

func newProductionSet() *productionSet {
	return &productionSet{
		byID:  map[productionID]*Production{},
		byLHS: map[symbol.Symbol][]*Production{},
	}
}

// append assigns prod the next dense number and records it, unless an
// identical production (by content) was already appended, in which case the
// existing production is returned instead.
func (ps *productionSet) append(prod *Production) *Production {
	if existing, ok := ps.byID[prod.id]; ok {
		return existing
	}
	prod.Num = len(ps.byNum)
	ps.byNum = append(ps.byNum, prod)
	ps.byID[prod.id] = prod
	ps.byLHS[prod.LHS] = append(ps.byLHS[prod.LHS], prod)
	return prod
}

// renumberFrom reassigns every production's Num to be dense starting at
// base, preserving order. LL(1) grammars number from 1, since no augmented
// production occupies slot 0.
func (ps *productionSet) renumberFrom(base int) {
	for i, p := range ps.byNum {
		p.Num = base + i
	}
	ps.numBase = base
}

func (ps *productionSet) all() []*Production { return ps.byNum }

func (ps *productionSet) byNumber(n int) (*Production, bool) {
	i := n - ps.numBase
	if i < 0 || i >= len(ps.byNum) {
		return nil, false
	}
	return ps.byNum[i], true
}

func (ps *productionSet) findByLHS(lhs symbol.Symbol) []*Production {
	return ps.byLHS[lhs]
}

// containingSymbol returns every production that mentions sym anywhere in
// its RHS.
func (ps *productionSet) containingSymbol(sym symbol.Symbol) []*Production {
	var out []*Production
	for _, p := range ps.byNum {
		for _, s := range p.RHS {
			if s == sym {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
