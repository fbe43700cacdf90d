// Package symbol implements interned grammar symbols: terminals, non-terminals,
// and the two distinguished symbols epsilon and end-of-input.
package symbol

import (
	"fmt"
	"sort"
)

type kind uint16

const (
	kindNonTerminal = kind(0)
	kindTerminal    = kind(1)
)

const (
	maskKind    = uint16(0x8000)
	maskSpecial = uint16(0x4000)
	maskNum     = uint16(0x3fff)

	numMax = uint16(0x3fff)
)

// Symbol is an interned grammar symbol. The zero value is Nil and matches no
// production; Epsilon and EOF are reserved values distinct from any symbol a
// Table produces for user-defined names.
type Symbol uint16

const (
	Nil = Symbol(0)

	// Epsilon is the reserved ε symbol. It never appears inside a
	// production's RHS slice (an empty alternative has an empty RHS), and
	// FIRST-set computation never returns it: whether a string can derive
	// the empty string is reported separately as nullability.
	Epsilon = Symbol(maskSpecial | 1)

	// EOF is the end-of-input terminal, `$` in the grammar notation.
	EOF = Symbol(maskKind | maskSpecial | 1)

	// Start is the augmented start symbol `$accept` introduced by LR
	// normalization. It is a non-terminal.
	Start = Symbol(maskSpecial | 2)
)

func (s Symbol) IsNil() bool { return s == Nil }

func (s Symbol) IsTerminal() bool {
	return s != Nil && uint16(s)&maskKind != 0
}

func (s Symbol) IsNonTerminal() bool {
	return s != Nil && !s.IsTerminal() && s != Epsilon
}

func (s Symbol) IsEpsilon() bool { return s == Epsilon }
func (s Symbol) IsEOF() bool     { return s == EOF }
func (s Symbol) IsStart() bool   { return s == Start }

// Num returns the dense ordinal of the symbol within its kind, usable as an
// array index into terminal- or non-terminal-keyed slices.
func (s Symbol) Num() int {
	return int(uint16(s) & maskNum)
}

func (s Symbol) String() string {
	switch s {
	case Nil:
		return "<nil>"
	case Epsilon:
		return "ε"
	case EOF:
		return "$"
	case Start:
		return "$accept"
	}
	prefix := "n"
	if s.IsTerminal() {
		prefix = "t"
	}
	return fmt.Sprintf("%v%v", prefix, s.Num())
}

func newTerminal(num uint16) Symbol {
	return Symbol(maskKind | num)
}

func newNonTerminal(num uint16) Symbol {
	return Symbol(num)
}

// Table interns symbol text into Symbol values and back. A Table is built up
// during grammar normalization and is immutable once normalization
// completes.
type Table struct {
	text2Sym map[string]Symbol
	sym2Text map[Symbol]string
	termNum  uint16
	nonTNum  uint16
}

func NewTable() *Table {
	t := &Table{
		text2Sym: map[string]Symbol{},
		sym2Text: map[Symbol]string{},
		termNum:  2, // 1 is reserved for EOF
		nonTNum:  3, // 1 is reserved for Epsilon, 2 for Start
	}
	t.text2Sym["$"] = EOF
	t.sym2Text[EOF] = "$"
	t.text2Sym["$accept"] = Start
	t.sym2Text[Start] = "$accept"
	return t
}

// Intern returns the Symbol for text, interning a new terminal or
// non-terminal symbol if text has not been seen before.
func (t *Table) Intern(text string, terminal bool) (Symbol, error) {
	if sym, ok := t.text2Sym[text]; ok {
		if sym.IsTerminal() != terminal && !sym.IsNil() {
			return Nil, fmt.Errorf("symbol %q is used as both a terminal and a non-terminal", text)
		}
		return sym, nil
	}
	var sym Symbol
	if terminal {
		if uint32(t.termNum) > uint32(numMax) {
			return Nil, fmt.Errorf("too many terminal symbols")
		}
		sym = newTerminal(t.termNum)
		t.termNum++
	} else {
		if uint32(t.nonTNum) > uint32(numMax) {
			return Nil, fmt.Errorf("too many non-terminal symbols")
		}
		sym = newNonTerminal(t.nonTNum)
		t.nonTNum++
	}
	t.text2Sym[text] = sym
	t.sym2Text[sym] = text
	return sym, nil
}

func (t *Table) ToSymbol(text string) (Symbol, bool) {
	sym, ok := t.text2Sym[text]
	return sym, ok
}

func (t *Table) ToText(sym Symbol) (string, bool) {
	text, ok := t.sym2Text[sym]
	return text, ok
}

// Terminals returns every interned terminal symbol, sorted by symbol value:
// user terminals in interning order, followed by EOF.
func (t *Table) Terminals() []Symbol {
	var syms []Symbol
	for sym := range t.sym2Text {
		if sym.IsTerminal() {
			syms = append(syms, sym)
		}
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	return syms
}

// NonTerminals returns every interned non-terminal symbol (excluding the
// augmented start symbol), sorted by Num.
func (t *Table) NonTerminals() []Symbol {
	var syms []Symbol
	for sym := range t.sym2Text {
		if sym.IsNonTerminal() && sym != Start {
			syms = append(syms, sym)
		}
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	return syms
}
