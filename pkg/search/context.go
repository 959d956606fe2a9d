package search

import (
	"github.com/vancezuo/parallel-chess/pkg/board"
)

// Context packages every piece of state the search mutates through
// make/unmake: the board (with its move arena and history stack), the
// triangular PV table and the PV-following flag. It contains only fixed-size
// arrays, so a struct copy is a complete fork -- the parallel variants seed
// each worker with a copy and discard it on join.
type Context struct {
	B board.Board

	// PV[ply][ply:PVLen[ply]] is the best line found so far from ply,
	// assembled by splicing the child line after the candidate move.
	PV    [board.MaxPly][board.MaxPly]board.Move
	PVLen [board.MaxPly]int

	// FollowPV is true while the moves played so far this iteration lie on
	// the previous iteration's principal variation.
	FollowPV bool
}

// NewContext returns a search context rooted at a copy of the given board.
func NewContext(b *board.Board) *Context {
	c := &Context{B: *b}
	c.B.Ply = 0
	return c
}

// BestLine returns a copy of the root principal variation.
func (c *Context) BestLine() []board.Move {
	moves := make([]board.Move, c.PVLen[0])
	copy(moves, c.PV[0][:c.PVLen[0]])
	return moves
}
