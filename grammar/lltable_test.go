package grammar

import "testing"

func TestLLParsingTableHasNoConflictsForBalancedGrammar(t *testing.T) {
	g := balancedGrammar(t)
	tbl, err := BuildLLParsingTable(g)
	if err != nil {
		t.Fatalf("BuildLLParsingTable: %v", err)
	}
	if len(tbl.Conflicts) != 0 {
		t.Fatalf("expected no conflicts, got %+v", tbl.Conflicts)
	}

	s, _ := g.Symbols().ToSymbol("S")
	a, _ := g.Symbols().ToSymbol("'a'")
	b, _ := g.Symbols().ToSymbol("'b'")

	if _, ok := tbl.Lookup(s, a); !ok {
		t.Fatalf("expected a table entry for (S, 'a')")
	}
	if _, ok := tbl.Lookup(s, b); !ok {
		t.Fatalf("expected a table entry for (S, 'b'), predicted via the epsilon alternative's FOLLOW set")
	}
}

func TestLLParsingTableDetectsFirstFirstConflict(t *testing.T) {
	desc := &Description{
		BNFOrder: []string{"S"},
		BNF: map[string][]Alternative{
			"S": {
				{RHS: []string{"'a'", "'b'"}},
				{RHS: []string{"'a'", "'c'"}},
			},
		},
		Start: "S",
		Mode:  LL1,
	}
	g, err := From(desc)
	if err != nil {
		t.Fatalf("From: %v", err)
	}
	if _, err := BuildLLParsingTable(g); err == nil {
		t.Fatalf("expected a ConflictError for two alternatives sharing FIRST('a')")
	}
}
