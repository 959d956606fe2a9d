package engine

import (
	"github.com/vancezuo/parallel-chess/pkg/board"
)

// BenchBoard returns the built-in benchmark position: move 17 of Bobby
// Fischer vs. J. Sherwin, New Jersey State Open Championship, 9/2/1957. It
// backs the bench command when no (or a malformed) FEN is given.
func BenchBoard() *board.Board {
	b := &board.Board{
		Color: [64]board.Color{
			6, 1, 1, 6, 6, 1, 1, 6,
			1, 6, 6, 6, 6, 1, 1, 1,
			6, 1, 6, 1, 1, 6, 1, 6,
			6, 6, 6, 1, 6, 6, 0, 6,
			6, 6, 1, 0, 6, 6, 6, 6,
			6, 6, 0, 6, 6, 6, 0, 6,
			0, 0, 0, 6, 6, 0, 0, 0,
			0, 6, 0, 6, 0, 6, 0, 6,
		},
		Piece: [64]board.Piece{
			6, 3, 2, 6, 6, 3, 5, 6,
			0, 6, 6, 6, 6, 0, 0, 0,
			6, 0, 6, 4, 0, 6, 1, 6,
			6, 6, 6, 1, 6, 6, 1, 6,
			6, 6, 0, 0, 6, 6, 6, 6,
			6, 6, 0, 6, 6, 6, 0, 6,
			0, 0, 4, 6, 6, 0, 2, 0,
			3, 6, 2, 6, 3, 6, 5, 6,
		},
		Side:  board.Light,
		Xside: board.Dark,
		EP:    -1,
	}
	b.SetHash()
	return b
}
