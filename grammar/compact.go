package grammar

import (
	"github.com/grammarlab/parsegen/compressor"
	"github.com/grammarlab/parsegen/symbol"
)

// Encoded ACTION-table cells pack a tag into the high bits and a target
// (state number or production number) into the low bits, so a whole
// LRParsingTable row can be handed to compressor.RowDisplacementTable,
// which only understands plain int matrices.
const (
	actionTagShift  = 1 << 28
	actionTagReduce = 2 << 28
	actionTagAccept = 3 << 28
	actionTagError  = 4 << 28
	actionTagMask   = 0x0fffffff
)

func encodeAction(a LRAction) int {
	switch a.Kind {
	case ActionShift:
		return actionTagShift | a.State
	case ActionReduce:
		return actionTagReduce | a.Prod.Num
	case ActionAccept:
		return actionTagAccept
	default:
		return actionTagError
	}
}

// DecodeAction reconstructs an LRAction's kind and target from an encoded
// cell produced by CompactActionTable; the production itself must be looked
// up on the Grammar by the returned number when Kind == ActionReduce.
func DecodeAction(code int) (kind ActionKind, target int) {
	switch code &^ actionTagMask {
	case actionTagShift:
		return ActionShift, code & actionTagMask
	case actionTagReduce:
		return ActionReduce, code & actionTagMask
	case actionTagAccept:
		return ActionAccept, 0
	default:
		return ActionError, 0
	}
}

// CompactActionTable row-displacement-compresses tbl's ACTION table into a
// dense int matrix indexed by (state, terminal column), suitable for a
// generated-code backend that wants the table as a flat array rather than
// a map.
func CompactActionTable(g *Grammar, tbl *LRParsingTable) (*compressor.RowDisplacementTable, error) {
	terms := g.Terminals()
	colOf := make(map[symbol.Symbol]int, len(terms))
	for i, s := range terms {
		colOf[s] = i
	}

	rowCount := len(tbl.Action)
	entries := make([]int, rowCount*len(terms))
	for i := range entries {
		entries[i] = compressor.ForbiddenValue
	}
	for state, row := range tbl.Action {
		for sym, a := range row {
			col, ok := colOf[sym]
			if !ok {
				continue
			}
			entries[state*len(terms)+col] = encodeAction(a)
		}
	}

	orig, err := compressor.NewOriginalTable(entries, len(terms))
	if err != nil {
		return nil, err
	}
	rdt := compressor.NewRowDisplacementTable(compressor.ForbiddenValue)
	if err := rdt.Compress(orig); err != nil {
		return nil, err
	}
	return rdt, nil
}

// CompactGotoTable compresses tbl's GOTO table by row deduplication,
// indexed by (state, non-terminal column). GOTO rows repeat heavily across
// states, which suits the unique-entries layout better than displacement.
// Cells hold the target state directly; no encoding is needed since a GOTO
// cell has only one shape.
func CompactGotoTable(g *Grammar, tbl *LRParsingTable) (*compressor.UniqueEntriesTable, error) {
	nts := g.NonTerminals()
	colOf := make(map[symbol.Symbol]int, len(nts))
	for i, s := range nts {
		colOf[s] = i
	}

	rowCount := len(tbl.Goto)
	entries := make([]int, rowCount*len(nts))
	for i := range entries {
		entries[i] = compressor.ForbiddenValue
	}
	for state, row := range tbl.Goto {
		for sym, target := range row {
			col, ok := colOf[sym]
			if !ok {
				continue
			}
			entries[state*len(nts)+col] = target
		}
	}

	orig, err := compressor.NewOriginalTable(entries, len(nts))
	if err != nil {
		return nil, err
	}
	uet := compressor.NewUniqueEntriesTable()
	if err := uet.Compress(orig); err != nil {
		return nil, err
	}
	return uet, nil
}
