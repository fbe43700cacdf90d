package lexical

import (
	"fmt"
	"strings"
)

// translateMacroRefs rewrites every `{name}` reference in pattern into a
// maleeni fragment reference `\f{name}`, so macro bodies compile once as
// fragments instead of being spliced into each pattern textually. Braced
// sequences that are not identifier-shaped, such as the quantifier `{2,3}`,
// pass through untouched.
func translateMacroRefs(pattern string, macros map[string]string) (string, error) {
	var b strings.Builder
	i := 0
	for i < len(pattern) {
		c := pattern[i]
		if c == '\\' && i+1 < len(pattern) {
			b.WriteByte(c)
			b.WriteByte(pattern[i+1])
			i += 2
			continue
		}
		if c == '{' {
			end := strings.IndexByte(pattern[i+1:], '}')
			if end < 0 {
				b.WriteByte(c)
				i++
				continue
			}
			name := pattern[i+1 : i+1+end]
			if !isMacroName(name) {
				// A repetition quantifier or other literal brace use.
				b.WriteByte(c)
				i++
				continue
			}
			if _, ok := macros[name]; !ok {
				return "", fmt.Errorf("undefined macro %q", name)
			}
			b.WriteString(`\f{`)
			b.WriteString(name)
			b.WriteString("}")
			i += 1 + end + 1
			continue
		}
		b.WriteByte(c)
		i++
	}
	return b.String(), nil
}

func isMacroName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c == '_':
		case i > 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}

// validateMacros rejects macro tables with cyclic or dangling references
// before they reach the fragment compiler, so the error names the offending
// macro instead of surfacing as a DFA construction failure.
func validateMacros(macros map[string]string) error {
	var walk func(name string, active map[string]bool) error
	walk = func(name string, active map[string]bool) error {
		if active[name] {
			return fmt.Errorf("cyclic macro reference: %q", name)
		}
		active[name] = true
		defer delete(active, name)
		for _, ref := range macroRefs(macros[name]) {
			if _, ok := macros[ref]; !ok {
				return fmt.Errorf("macro %q references undefined macro %q", name, ref)
			}
			if err := walk(ref, active); err != nil {
				return err
			}
		}
		return nil
	}
	for name := range macros {
		if err := walk(name, map[string]bool{}); err != nil {
			return err
		}
	}
	return nil
}

// macroRefs lists the `{name}` references in a macro body.
func macroRefs(pattern string) []string {
	var refs []string
	i := 0
	for i < len(pattern) {
		c := pattern[i]
		if c == '\\' && i+1 < len(pattern) {
			i += 2
			continue
		}
		if c == '{' {
			end := strings.IndexByte(pattern[i+1:], '}')
			if end >= 0 {
				if name := pattern[i+1 : i+1+end]; isMacroName(name) {
					refs = append(refs, name)
				}
				i += 1 + end + 1
				continue
			}
		}
		i++
	}
	return refs
}
