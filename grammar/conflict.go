package grammar

import "github.com/grammarlab/parsegen/symbol"

// ConflictKind distinguishes the three conflict shapes table construction
// can encounter.
type ConflictKind int

const (
	ShiftReduceConflict ConflictKind = iota
	ReduceReduceConflict
	FirstFirstConflict // LL(1) only: two alternatives of one non-terminal share a PREDICT symbol.
)

func (k ConflictKind) String() string {
	switch k {
	case ShiftReduceConflict:
		return "shift/reduce"
	case ReduceReduceConflict:
		return "reduce/reduce"
	case FirstFirstConflict:
		return "first/first"
	default:
		return "unknown"
	}
}

// Conflict records one cell of an ACTION (or LL(1) parsing) table where
// more than one outcome applied, and how it was arbitrated, if at all.
type Conflict struct {
	Kind ConflictKind

	// State is the LR state number the conflict occurred in, or -1 for an
	// LL(1) FIRST/FIRST conflict (which is indexed by non-terminal, not
	// state).
	State int

	Symbol symbol.Symbol

	// Productions are the reduce (or LL predict) candidates involved. A
	// shift/reduce conflict lists the single reducible production contending
	// with the shift.
	Productions []*Production

	// Resolved reports whether the table cell was actually arbitrated to a
	// single outcome. A shift/reduce conflict with precedence defined on
	// both sides is always Resolved; every other kind requires
	// ResolveConflicts to be set. An unresolved conflict is reported via
	// ConflictError rather than silently dropped.
	Resolved bool

	// ResolvedBy names the arbitration rule applied, e.g. "precedence",
	// "associativity:left", "default:shift", "default:earliest-production",
	// or "" when the conflict was left unresolved.
	ResolvedBy string
}
