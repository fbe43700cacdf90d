// Package token defines the Token and Location value types shared by the
// tokenizer and both parser drivers.
package token

// Location is a source span. StartOffset is inclusive, EndOffset exclusive.
// Lines and columns are 1-based; a column resets to 1 after a newline.
type Location struct {
	StartOffset int
	EndOffset   int
	StartLine   int
	EndLine     int
	StartColumn int
	EndColumn   int
}

// Zero reports whether loc is the unpopulated zero value, i.e. location
// capture was disabled.
func (loc Location) Zero() bool {
	return loc == Location{}
}

// Span returns the smallest Location covering both a and b, used to compute
// a reduction's result location from its first and last popped frames.
func Span(a, b Location) Location {
	return Location{
		StartOffset: a.StartOffset,
		EndOffset:   b.EndOffset,
		StartLine:   a.StartLine,
		EndLine:     b.EndLine,
		StartColumn: a.StartColumn,
		EndColumn:   b.EndColumn,
	}
}

// Token is one lexeme produced by the tokenizer.
type Token struct {
	// Type is the terminal's text form, e.g. `'+'` for a quoted literal or
	// a bare token name such as `NUM`. Type is `$` for the EOF token.
	Type string

	// Value is the matched lexeme.
	Value string

	Loc Location
}

// EOFType is the token type the tokenizer emits at end of input.
const EOFType = "$"

func (t Token) IsEOF() bool { return t.Type == EOFType }
