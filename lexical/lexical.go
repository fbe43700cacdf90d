// Package lexical implements the lexical grammar: an ordered collection of
// pattern rules with macro expansion and start-condition scoping, compiled
// from a Description into a maleeni DFA the tokenizer (package driver)
// drives.
package lexical

import (
	"fmt"
	"sort"
	"strings"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mlspec "github.com/nihei9/maleeni/spec"
)

// ActionKind is the effect a matched rule has on the token stream.
type ActionKind int

const (
	// ActionToken emits a token of the given type and continues.
	ActionToken ActionKind = iota
	// ActionSkip consumes the match without emitting a token.
	ActionSkip
	// ActionMore concatenates the next match onto the current lexeme
	// instead of emitting it as a separate token.
	ActionMore
)

// RuleAction is the action side of a lex rule: the effect to perform, plus
// any start-condition stack operation. Stack operations apply after the
// action's effect is processed, immediately before the next match attempt.
type RuleAction struct {
	Kind ActionKind

	// TokenType names the token kind to emit; meaningful only when
	// Kind == ActionToken.
	TokenType string

	// Push, when non-empty, is a start condition to push after this
	// rule's match is processed.
	Push string

	// Pop, when true, pops the active start condition after this rule's
	// match is processed.
	Pop bool
}

// RuleDecl is one declared lex rule before compilation: a pattern source
// (with macros still unexpanded), an action, and the start conditions under
// which the rule is active.
type RuleDecl struct {
	Pattern    string
	Action     RuleAction
	Conditions []string // empty means "always active"
}

// StartCondition declares one named tokenizer mode. Under an inclusive
// condition, rules with no explicit condition set stay active; under an
// exclusive one, only rules tagged with that condition are.
type StartCondition struct {
	Name      string
	Inclusive bool
}

// InitialCondition is the start condition every tokenizer begins in, always
// implicitly declared and inclusive.
const InitialCondition = "INITIAL"

// initialMode is maleeni's name for the mode a lexer starts in;
// InitialCondition maps onto it.
const initialMode = "default"

// Description is the user-supplied lexical specification. A nil Description
// means "no explicit lex rules"; Build then synthesizes one rule per
// distinct terminal literal.
type Description struct {
	Rules           []RuleDecl
	Macros          map[string]string
	StartConditions []StartCondition
}

// Rule is one compiled lex rule: the maleeni kind it was registered under,
// its translated pattern, its action, and its active-condition set.
type Rule struct {
	// Kind is the generated maleeni lex-kind name carrying this rule
	// through the compiled DFA.
	Kind string

	// Pattern is the rule's pattern with macro references rewritten to
	// maleeni fragment references.
	Pattern string

	Action     RuleAction
	Conditions map[string]bool
	Always     bool
	declOrder  int
}

func (r *Rule) DeclOrder() int { return r.declOrder }

// Grammar is the compiled lexical grammar: the declared rules, the
// start-condition declarations, and the maleeni DFA compiled from them.
// The active-rule list for each start condition is precomputed.
type Grammar struct {
	rules      []*Rule
	conditions map[string]bool // name -> inclusive
	active     map[string][]*Rule
	kindToRule map[string]*Rule

	spec *mlspec.CompiledLexSpec
}

func newGrammar() *Grammar {
	return &Grammar{
		conditions: map[string]bool{InitialCondition: true},
		active:     map[string][]*Rule{},
		kindToRule: map[string]*Rule{},
	}
}

// Build compiles desc into a Grammar, appending one synthesized rule per
// distinct string in literals that desc doesn't already cover. literals are
// the bare text of each quoted terminal used in the BNF, e.g. `+` for `'+'`.
func Build(desc *Description, literals []string) (*Grammar, error) {
	g := newGrammar()

	if desc != nil {
		for _, sc := range desc.StartConditions {
			g.conditions[sc.Name] = sc.Inclusive
		}
	}

	macros := map[string]string{}
	if desc != nil && desc.Macros != nil {
		macros = desc.Macros
	}
	if err := validateMacros(macros); err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	if desc != nil {
		for i, decl := range desc.Rules {
			r, err := g.addRule(decl, macros, i)
			if err != nil {
				return nil, fmt.Errorf("rule %v (%q): %w", i, decl.Pattern, err)
			}
			if r.Action.Kind == ActionToken {
				seen[r.Action.TokenType] = true
			}
		}
	}

	dedupLit := map[string]bool{}
	for _, lit := range literals {
		text := "'" + lit + "'"
		if dedupLit[text] || seen[text] {
			continue
		}
		dedupLit[text] = true
		decl := RuleDecl{
			Pattern: string(mlspec.EscapePattern(lit)),
			Action:  RuleAction{Kind: ActionToken, TokenType: text},
		}
		if _, err := g.addRule(decl, nil, len(g.rules)); err != nil {
			return nil, fmt.Errorf("synthesized literal %q: %w", lit, err)
		}
	}

	if len(g.rules) == 0 {
		return nil, fmt.Errorf("a lexical grammar must have at least one rule")
	}

	for cond, inclusive := range g.conditions {
		g.active[cond] = activeRulesFor(g.rules, cond, inclusive)
	}

	spec, err := g.compile(macros)
	if err != nil {
		return nil, err
	}
	g.spec = spec

	return g, nil
}

// addRule validates decl, translates its pattern, and registers it under a
// generated maleeni kind name.
func (g *Grammar) addRule(decl RuleDecl, macros map[string]string, order int) (*Rule, error) {
	pattern, err := translateMacroRefs(decl.Pattern, macros)
	if err != nil {
		return nil, err
	}
	for _, c := range decl.Conditions {
		if _, ok := g.conditions[c]; !ok {
			return nil, fmt.Errorf("undeclared start condition %q", c)
		}
	}
	if push := decl.Action.Push; push != "" {
		if _, ok := g.conditions[push]; !ok {
			return nil, fmt.Errorf("push targets undeclared start condition %q", push)
		}
	}

	r := &Rule{
		Kind:      fmt.Sprintf("k_%v", len(g.rules)+1),
		Pattern:   pattern,
		Action:    decl.Action,
		declOrder: order,
		Always:    len(decl.Conditions) == 0,
	}
	if !r.Always {
		r.Conditions = map[string]bool{}
		for _, c := range decl.Conditions {
			r.Conditions[c] = true
		}
	}
	g.rules = append(g.rules, r)
	g.kindToRule[r.Kind] = r
	return r, nil
}

// compile assembles the maleeni lex spec (one entry per rule, one fragment
// entry per macro) and compiles it to a DFA.
func (g *Grammar) compile(macros map[string]string) (*mlspec.CompiledLexSpec, error) {
	var entries []*mlspec.LexEntry
	for _, r := range g.rules {
		entries = append(entries, &mlspec.LexEntry{
			Kind:    mlspec.LexKindName(r.Kind),
			Pattern: mlspec.LexPattern(r.Pattern),
			Modes:   g.modesFor(r),
			Push:    mlspec.LexModeName(modeName(r.Action.Push)),
			Pop:     r.Action.Pop,
		})
	}

	macroNames := make([]string, 0, len(macros))
	for name := range macros {
		macroNames = append(macroNames, name)
	}
	sort.Strings(macroNames)
	for _, name := range macroNames {
		def, err := translateMacroRefs(macros[name], macros)
		if err != nil {
			return nil, fmt.Errorf("macro %q: %w", name, err)
		}
		entries = append(entries, &mlspec.LexEntry{
			Fragment: true,
			Kind:     mlspec.LexKindName(name),
			Pattern:  mlspec.LexPattern(def),
		})
	}

	spec, err, cErrs := mlcompiler.Compile(&mlspec.LexSpec{Name: "parsegen", Entries: entries},
		mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) > 0 {
			var b strings.Builder
			for i, cErr := range cErrs {
				if i > 0 {
					fmt.Fprintf(&b, "\n")
				}
				if cErr.Fragment {
					fmt.Fprintf(&b, "fragment ")
				}
				fmt.Fprintf(&b, "%v: %v", cErr.Kind, cErr.Cause)
				if cErr.Detail != "" {
					fmt.Fprintf(&b, ": %v", cErr.Detail)
				}
			}
			return nil, fmt.Errorf("%v", b.String())
		}
		return nil, err
	}
	return spec, nil
}

// modesFor computes the maleeni modes a rule is active in. An unconditional
// rule is active in the initial mode and in every inclusive condition; a
// tagged rule is active exactly in its tagged conditions.
func (g *Grammar) modesFor(r *Rule) []mlspec.LexModeName {
	var names []string
	if r.Always {
		names = append(names, InitialCondition)
		for cond, inclusive := range g.conditions {
			if inclusive && cond != InitialCondition {
				names = append(names, cond)
			}
		}
	} else {
		for cond := range r.Conditions {
			names = append(names, cond)
		}
	}
	sort.Strings(names)
	modes := make([]mlspec.LexModeName, len(names))
	for i, n := range names {
		modes[i] = mlspec.LexModeName(modeName(n))
	}
	return modes
}

func modeName(condition string) string {
	if condition == "" {
		return ""
	}
	if condition == InitialCondition {
		return initialMode
	}
	return strings.ToLower(condition)
}

func activeRulesFor(rules []*Rule, cond string, inclusive bool) []*Rule {
	var out []*Rule
	for _, r := range rules {
		if r.Always {
			if inclusive || cond == InitialCondition {
				out = append(out, r)
			}
			continue
		}
		if r.Conditions[cond] {
			out = append(out, r)
		}
	}
	return out
}

// CompiledSpec returns the compiled maleeni DFA the tokenizer drives.
func (g *Grammar) CompiledSpec() *mlspec.CompiledLexSpec { return g.spec }

// RuleForKind maps a maleeni lex-kind name back to the rule it was
// generated from.
func (g *Grammar) RuleForKind(kind string) (*Rule, bool) {
	r, ok := g.kindToRule[kind]
	return r, ok
}

// ActiveRules returns the rules active under the named start condition, in
// declaration order. Longest-match ties break by earlier declaration.
func (g *Grammar) ActiveRules(condition string) []*Rule {
	return g.active[condition]
}

func (g *Grammar) IsInclusive(condition string) bool {
	inclusive, ok := g.conditions[condition]
	return ok && inclusive
}

func (g *Grammar) HasCondition(condition string) bool {
	_, ok := g.conditions[condition]
	return ok
}

// ProducesKind reports whether some rule can emit a token of the given
// type. Grammar normalization uses it to reject terminals no lexical rule
// can ever match.
func (g *Grammar) ProducesKind(tokenType string) bool {
	for _, r := range g.rules {
		if r.Action.Kind == ActionToken && r.Action.TokenType == tokenType {
			return true
		}
	}
	return false
}

func (g *Grammar) Rules() []*Rule { return g.rules }
