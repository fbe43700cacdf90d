package driver

import (
	"fmt"

	"github.com/grammarlab/parsegen/grammar"
	"github.com/grammarlab/parsegen/token"
)

// popAndReduce pops prod's RHS off values/locs, invokes prod's Action (if
// any), and returns the synthesized value and the reduction's location.
// Shared by LRParser and LLParser since both collect a production's
// children on parallel value/location stacks before folding them. An
// ε-reduction's location is zero-width at the current lookahead position.
func popAndReduce(prod *grammar.Production, values *[]interface{}, locs *[]token.Location, lookaheadLoc token.Location) (interface{}, token.Location, error) {
	n := len(prod.RHS)
	vs, ls := *values, *locs

	args := make([]interface{}, n)
	argLocs := make([]token.Location, n)
	copy(args, vs[len(vs)-n:])
	copy(argLocs, ls[len(ls)-n:])

	*values = vs[:len(vs)-n]
	*locs = ls[:len(ls)-n]

	var resultLoc token.Location
	if n > 0 {
		resultLoc = token.Span(argLocs[0], argLocs[n-1])
	} else {
		resultLoc = token.Location{
			StartOffset: lookaheadLoc.StartOffset, EndOffset: lookaheadLoc.StartOffset,
			StartLine: lookaheadLoc.StartLine, EndLine: lookaheadLoc.StartLine,
			StartColumn: lookaheadLoc.StartColumn, EndColumn: lookaheadLoc.StartColumn,
		}
	}

	if prod.Action == nil {
		if n >= 1 {
			return args[0], resultLoc, nil
		}
		return nil, resultLoc, nil
	}
	value, err := prod.Action(args, argLocs)
	if err != nil {
		return nil, resultLoc, fmt.Errorf("action for %v: %w", prod, err)
	}
	return value, resultLoc, nil
}

func newNoGotoError(state int, prod *grammar.Production) error {
	return &grammar.InternalError{
		Message: fmt.Sprintf("no GOTO entry for state %v after reducing by %v", state, prod),
	}
}
