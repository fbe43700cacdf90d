package lexical

import "testing"

func TestBuildSynthesizesLiteralRules(t *testing.T) {
	g, err := Build(nil, []string{"+", "*", "("})
	if err != nil {
		t.Fatal(err)
	}
	for _, lit := range []string{"'+'", "'*'", "'('"} {
		if !g.ProducesKind(lit) {
			t.Fatalf("expected a synthesized rule producing %q", lit)
		}
	}
	if g.CompiledSpec() == nil {
		t.Fatalf("expected a compiled lex spec")
	}
}

func TestMacroReferencesBecomeFragments(t *testing.T) {
	desc := &Description{
		Macros: map[string]string{
			"digit": "[0-9]",
		},
		Rules: []RuleDecl{
			{Pattern: "{digit}+", Action: RuleAction{Kind: ActionToken, TokenType: "NUM"}},
		},
	}
	g, err := Build(desc, nil)
	if err != nil {
		t.Fatal(err)
	}
	rules := g.Rules()
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %v", len(rules))
	}
	if rules[0].Pattern != `\f{digit}+` {
		t.Fatalf("got pattern %q, want the macro rewritten to a fragment reference", rules[0].Pattern)
	}
}

func TestNonIdentifierBracesAreNotMacroReferences(t *testing.T) {
	got, err := translateMacroRefs("[0-9]{2,3}", nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != "[0-9]{2,3}" {
		t.Fatalf("got pattern %q, want the non-identifier braces left untouched", got)
	}
}

func TestCyclicMacroIsRejected(t *testing.T) {
	desc := &Description{
		Macros: map[string]string{
			"a": "{b}",
			"b": "{a}",
		},
		Rules: []RuleDecl{
			{Pattern: "{a}", Action: RuleAction{Kind: ActionToken, TokenType: "X"}},
		},
	}
	if _, err := Build(desc, nil); err == nil {
		t.Fatalf("expected an error for a cyclic macro reference")
	}
}

func TestUndeclaredStartConditionIsRejected(t *testing.T) {
	desc := &Description{
		Rules: []RuleDecl{
			{Pattern: `"`, Action: RuleAction{Kind: ActionToken, TokenType: "QUOTE", Push: "STR"}},
		},
	}
	if _, err := Build(desc, nil); err == nil {
		t.Fatalf("expected an error for a push into an undeclared start condition")
	}
}

func TestStartConditionScoping(t *testing.T) {
	desc := &Description{
		StartConditions: []StartCondition{
			{Name: "STR", Inclusive: false},
		},
		Rules: []RuleDecl{
			{Pattern: `"`, Action: RuleAction{Kind: ActionToken, TokenType: "QUOTE", Push: "STR"}},
			{Pattern: `[^"]+`, Action: RuleAction{Kind: ActionToken, TokenType: "CHARS"}, Conditions: []string{"STR"}},
			{Pattern: "[ \t\n]+", Action: RuleAction{Kind: ActionSkip}},
		},
	}
	g, err := Build(desc, nil)
	if err != nil {
		t.Fatal(err)
	}

	initial := g.ActiveRules(InitialCondition)
	if len(initial) != 2 {
		t.Fatalf("expected 2 rules active in INITIAL (quote + whitespace skip), got %v", len(initial))
	}

	inStr := g.ActiveRules("STR")
	if len(inStr) != 1 {
		t.Fatalf("expected only the exclusive CHARS rule active in STR, got %v", len(inStr))
	}
}

func TestInclusiveConditionKeepsUnconditionalRules(t *testing.T) {
	desc := &Description{
		StartConditions: []StartCondition{
			{Name: "VERBOSE", Inclusive: true},
		},
		Rules: []RuleDecl{
			{Pattern: `[0-9]+`, Action: RuleAction{Kind: ActionToken, TokenType: "NUM"}},
			{Pattern: `[a-z]+`, Action: RuleAction{Kind: ActionToken, TokenType: "WORD"}, Conditions: []string{"VERBOSE"}},
		},
	}
	g, err := Build(desc, nil)
	if err != nil {
		t.Fatal(err)
	}

	if n := len(g.ActiveRules("VERBOSE")); n != 2 {
		t.Fatalf("expected the unconditional NUM rule to stay active in the inclusive condition, got %v rules", n)
	}
	if n := len(g.ActiveRules(InitialCondition)); n != 1 {
		t.Fatalf("expected only the NUM rule active in INITIAL, got %v rules", n)
	}
}
