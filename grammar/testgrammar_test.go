package grammar

import "testing"

// exprGrammar is the textbook left-recursive arithmetic expression grammar
// (E → E + T | T, T → T * F | F, F → ( E ) | id): unambiguous without any
// precedence declarations and conflict-free under SLR1, LALR1 and CLR1. It
// is not LR(0): the reduction E → T・ collides with the shift on '*'.
func exprGrammar(t *testing.T, mode Mode) *Grammar {
	t.Helper()
	desc := &Description{
		BNFOrder: []string{"E", "T", "F"},
		BNF: map[string][]Alternative{
			"E": {
				{RHS: []string{"E", "'+'", "T"}},
				{RHS: []string{"T"}},
			},
			"T": {
				{RHS: []string{"T", "'*'", "F"}},
				{RHS: []string{"F"}},
			},
			"F": {
				{RHS: []string{"'('", "E", "')'"}},
				{RHS: []string{"'id'"}},
			},
		},
		Start:            "E",
		Mode:             mode,
		ResolveConflicts: true,
	}
	g, err := From(desc)
	if err != nil {
		t.Fatalf("From: %v", err)
	}
	return g
}

// balancedGrammar is S → 'a' S 'b' | ε, the textbook example of a grammar
// that is LL(1) but not usable directly as a simple regular pattern.
func balancedGrammar(t *testing.T) *Grammar {
	t.Helper()
	desc := &Description{
		BNFOrder: []string{"S"},
		BNF: map[string][]Alternative{
			"S": {
				{RHS: []string{"'a'", "S", "'b'"}},
				{RHS: nil},
			},
		},
		Start: "S",
		Mode:  LL1,
	}
	g, err := From(desc)
	if err != nil {
		t.Fatalf("From: %v", err)
	}
	return g
}
