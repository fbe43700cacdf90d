package grammar

import "testing"

func TestLR0CanonicalCollectionHasNoLookaheads(t *testing.T) {
	g := exprGrammar(t, LR0)
	cc, err := BuildCanonicalCollection(g, LR0)
	if err != nil {
		t.Fatalf("BuildCanonicalCollection: %v", err)
	}
	if len(cc.States()) == 0 {
		t.Fatalf("expected at least one state")
	}
	for _, s := range cc.States() {
		for _, it := range s.Kernel {
			if it.Lookahead != nil {
				t.Fatalf("LR0 item %v carries a lookahead set", it)
			}
		}
	}
}

func TestLALR1HasSameStateCountAsLR0(t *testing.T) {
	g := exprGrammar(t, LALR1)

	lr0, err := BuildCanonicalCollection(g, LR0)
	if err != nil {
		t.Fatalf("LR0: %v", err)
	}
	lalr1, err := BuildCanonicalCollection(g, LALR1)
	if err != nil {
		t.Fatalf("LALR1: %v", err)
	}
	if len(lr0.States()) != len(lalr1.States()) {
		t.Fatalf("LR0 has %v states, LALR1 has %v; they should share the same core automaton",
			len(lr0.States()), len(lalr1.States()))
	}
}

func TestCLR1CanBeAtLeastAsLargeAsLALR1(t *testing.T) {
	g := exprGrammar(t, CLR1)

	clr1, err := BuildCanonicalCollection(g, CLR1)
	if err != nil {
		t.Fatalf("CLR1: %v", err)
	}
	lalr1, err := BuildCanonicalCollection(g, LALR1)
	if err != nil {
		t.Fatalf("LALR1: %v", err)
	}
	if len(clr1.States()) < len(lalr1.States()) {
		t.Fatalf("CLR1 produced fewer states (%v) than its own LALR1 merge (%v)",
			len(clr1.States()), len(lalr1.States()))
	}
}

func TestInitialStateHasTheAugmentedItem(t *testing.T) {
	g := exprGrammar(t, SLR1)
	cc, err := BuildCanonicalCollection(g, SLR1)
	if err != nil {
		t.Fatalf("BuildCanonicalCollection: %v", err)
	}
	s0, ok := cc.State(0)
	if !ok {
		t.Fatalf("expected a state 0")
	}
	foundInitial := false
	for _, it := range s0.Kernel {
		if it.IsInitial() {
			foundInitial = true
		}
	}
	if !foundInitial {
		t.Fatalf("state 0's kernel should contain the $accept →・E item")
	}
}
