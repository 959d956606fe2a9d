// Package eval contains the hand-tuned static evaluator: material,
// piece-square tables, pawn structure and king safety, scored in centipawns
// relative to the side to move.
package eval

import (
	"github.com/vancezuo/parallel-chess/pkg/board"
)

const (
	doubledPawnPenalty    = 10
	isolatedPawnPenalty   = 20
	backwardsPawnPenalty  = 8
	passedPawnBonus       = 20
	rookSemiOpenFileBonus = 10
	rookOpenFileBonus     = 15
	rookOnSeventhBonus    = 20
)

// The piece-square tables are from Light's point of view; Dark pieces look up
// flip[sq].

var pawnPcsq = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 15, 20, 20, 15, 10, 5,
	4, 8, 12, 16, 16, 12, 8, 4,
	3, 6, 9, 12, 12, 9, 6, 3,
	2, 4, 6, 8, 8, 6, 4, 2,
	1, 2, 3, -10, -10, 3, 2, 1,
	0, 0, 0, -40, -40, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPcsq = [64]int{
	-10, -10, -10, -10, -10, -10, -10, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, -30, -10, -10, -10, -10, -30, -10,
}

var bishopPcsq = [64]int{
	-10, -10, -10, -10, -10, -10, -10, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, -10, -20, -10, -10, -20, -10, -10,
}

var kingPcsq = [64]int{
	-40, -40, -40, -40, -40, -40, -40, -40,
	-40, -40, -40, -40, -40, -40, -40, -40,
	-40, -40, -40, -40, -40, -40, -40, -40,
	-40, -40, -40, -40, -40, -40, -40, -40,
	-40, -40, -40, -40, -40, -40, -40, -40,
	-40, -40, -40, -40, -40, -40, -40, -40,
	-20, -20, -20, -20, -20, -20, -20, -20,
	0, 20, 40, -20, 0, -20, 40, 20,
}

var kingEndgamePcsq = [64]int{
	0, 10, 20, 30, 30, 20, 10, 0,
	10, 20, 30, 40, 40, 30, 20, 10,
	20, 30, 40, 50, 50, 40, 30, 20,
	30, 40, 50, 60, 60, 50, 40, 30,
	30, 40, 50, 60, 60, 50, 40, 30,
	20, 30, 40, 50, 50, 40, 30, 20,
	10, 20, 30, 40, 40, 30, 20, 10,
	0, 10, 20, 30, 30, 20, 10, 0,
}

var flip = [64]int{
	56, 57, 58, 59, 60, 61, 62, 63,
	48, 49, 50, 51, 52, 53, 54, 55,
	40, 41, 42, 43, 44, 45, 46, 47,
	32, 33, 34, 35, 36, 37, 38, 39,
	24, 25, 26, 27, 28, 29, 30, 31,
	16, 17, 18, 19, 20, 21, 22, 23,
	8, 9, 10, 11, 12, 13, 14, 15,
	0, 1, 2, 3, 4, 5, 6, 7,
}

// accum holds the first-pass aggregates shared by the per-square pass.
//
// pawnRank[c][f+1] is the row of the least advanced pawn of color c on file
// f, with an impossibly advanced sentinel (0 for Light, 7 for Dark) when the
// file has no pawn. Files 0 and 9 are buffer files holding the sentinels so
// the pawn code needs no edge cases.
type accum struct {
	pawnRank [2][10]int
	pieceMat [2]int
	pawnMat  [2]int
}

func (a *accum) collect(b *board.Board) {
	for i := 0; i < 10; i++ {
		a.pawnRank[board.Light][i] = 0
		a.pawnRank[board.Dark][i] = 7
	}

	for i := 0; i < board.NumSquares; i++ {
		c := b.Color[i]
		if c == board.NoColor {
			continue
		}
		if b.Piece[i] == board.Pawn {
			a.pawnMat[c] += board.Value(board.Pawn)
			f := board.Col(i) + 1
			if c == board.Light {
				if a.pawnRank[board.Light][f] < board.Row(i) {
					a.pawnRank[board.Light][f] = board.Row(i)
				}
			} else {
				if a.pawnRank[board.Dark][f] > board.Row(i) {
					a.pawnRank[board.Dark][f] = board.Row(i)
				}
			}
		} else {
			a.pieceMat[c] += board.Value(b.Piece[i])
		}
	}
}

// square returns the second-pass contribution of the piece on sq, or 0 for an
// empty square. Queens score material only.
func (a *accum) square(b *board.Board, sq int) int {
	switch c := b.Color[sq]; c {
	case board.Light:
		switch b.Piece[sq] {
		case board.Pawn:
			return a.lightPawn(sq)
		case board.Knight:
			return knightPcsq[sq]
		case board.Bishop:
			return bishopPcsq[sq]
		case board.Rook:
			r := 0
			if a.pawnRank[board.Light][board.Col(sq)+1] == 0 {
				if a.pawnRank[board.Dark][board.Col(sq)+1] == 7 {
					r += rookOpenFileBonus
				} else {
					r += rookSemiOpenFileBonus
				}
			}
			if board.Row(sq) == 1 {
				r += rookOnSeventhBonus
			}
			return r
		case board.King:
			if a.pieceMat[board.Dark] <= 1200 {
				return kingEndgamePcsq[sq]
			}
			return a.lightKing(sq)
		}
	case board.Dark:
		switch b.Piece[sq] {
		case board.Pawn:
			return a.darkPawn(sq)
		case board.Knight:
			return knightPcsq[flip[sq]]
		case board.Bishop:
			return bishopPcsq[flip[sq]]
		case board.Rook:
			r := 0
			if a.pawnRank[board.Dark][board.Col(sq)+1] == 7 {
				if a.pawnRank[board.Light][board.Col(sq)+1] == 0 {
					r += rookOpenFileBonus
				} else {
					r += rookSemiOpenFileBonus
				}
			}
			if board.Row(sq) == 6 {
				r += rookOnSeventhBonus
			}
			return r
		case board.King:
			if a.pieceMat[board.Light] <= 1200 {
				return kingEndgamePcsq[flip[sq]]
			}
			return a.darkKing(sq)
		}
	}
	return 0
}

func (a *accum) lightPawn(sq int) int {
	r := 0
	f := board.Col(sq) + 1

	r += pawnPcsq[sq]

	// a pawn behind this one makes it doubled
	if a.pawnRank[board.Light][f] > board.Row(sq) {
		r -= doubledPawnPenalty
	}

	// no friendly pawns on adjacent files makes it isolated; otherwise it may
	// be backwards
	if a.pawnRank[board.Light][f-1] == 0 && a.pawnRank[board.Light][f+1] == 0 {
		r -= isolatedPawnPenalty
	} else if a.pawnRank[board.Light][f-1] < board.Row(sq) && a.pawnRank[board.Light][f+1] < board.Row(sq) {
		r -= backwardsPawnPenalty
	}

	if a.pawnRank[board.Dark][f-1] >= board.Row(sq) &&
		a.pawnRank[board.Dark][f] >= board.Row(sq) &&
		a.pawnRank[board.Dark][f+1] >= board.Row(sq) {
		r += (7 - board.Row(sq)) * passedPawnBonus
	}
	return r
}

func (a *accum) darkPawn(sq int) int {
	r := 0
	f := board.Col(sq) + 1

	r += pawnPcsq[flip[sq]]

	if a.pawnRank[board.Dark][f] < board.Row(sq) {
		r -= doubledPawnPenalty
	}
	if a.pawnRank[board.Dark][f-1] == 7 && a.pawnRank[board.Dark][f+1] == 7 {
		r -= isolatedPawnPenalty
	} else if a.pawnRank[board.Dark][f-1] > board.Row(sq) && a.pawnRank[board.Dark][f+1] > board.Row(sq) {
		r -= backwardsPawnPenalty
	}
	if a.pawnRank[board.Light][f-1] <= board.Row(sq) &&
		a.pawnRank[board.Light][f] <= board.Row(sq) &&
		a.pawnRank[board.Light][f+1] <= board.Row(sq) {
		r += board.Row(sq) * passedPawnBonus
	}
	return r
}

func (a *accum) lightKing(sq int) int {
	r := kingPcsq[sq]

	// a castled king is judged by the pawn shelter on its wing; pawn trouble
	// on the c and f files is only half as severe
	switch {
	case board.Col(sq) < 3:
		r += a.lightKingPawn(1)
		r += a.lightKingPawn(2)
		r += a.lightKingPawn(3) / 2
	case board.Col(sq) > 4:
		r += a.lightKingPawn(8)
		r += a.lightKingPawn(7)
		r += a.lightKingPawn(6) / 2
	default:
		for i := board.Col(sq); i <= board.Col(sq)+2; i++ {
			if a.pawnRank[board.Light][i] == 0 && a.pawnRank[board.Dark][i] == 7 {
				r -= 10
			}
		}
	}

	// king safety matters only to the extent the opponent has pieces to
	// attack with
	r *= a.pieceMat[board.Dark]
	r /= 3100
	return r
}

func (a *accum) lightKingPawn(f int) int {
	r := 0

	switch {
	case a.pawnRank[board.Light][f] == 6:
		// pawn has not moved
	case a.pawnRank[board.Light][f] == 5:
		r -= 10
	case a.pawnRank[board.Light][f] != 0:
		r -= 20
	default:
		r -= 25 // no pawn on this file
	}

	switch a.pawnRank[board.Dark][f] {
	case 7:
		r -= 15 // no enemy pawn
	case 5:
		r -= 10
	case 4:
		r -= 5
	}
	return r
}

func (a *accum) darkKing(sq int) int {
	r := kingPcsq[flip[sq]]

	switch {
	case board.Col(sq) < 3:
		r += a.darkKingPawn(1)
		r += a.darkKingPawn(2)
		r += a.darkKingPawn(3) / 2
	case board.Col(sq) > 4:
		r += a.darkKingPawn(8)
		r += a.darkKingPawn(7)
		r += a.darkKingPawn(6) / 2
	default:
		for i := board.Col(sq); i <= board.Col(sq)+2; i++ {
			if a.pawnRank[board.Light][i] == 0 && a.pawnRank[board.Dark][i] == 7 {
				r -= 10
			}
		}
	}

	r *= a.pieceMat[board.Light]
	r /= 3100
	return r
}

func (a *accum) darkKingPawn(f int) int {
	r := 0

	switch {
	case a.pawnRank[board.Dark][f] == 1:
	case a.pawnRank[board.Dark][f] == 2:
		r -= 10
	case a.pawnRank[board.Dark][f] != 7:
		r -= 20
	default:
		r -= 25
	}

	switch a.pawnRank[board.Light][f] {
	case 0:
		r -= 15
	case 2:
		r -= 10
	case 3:
		r -= 5
	}
	return r
}

// Evaluate returns the static score in centipawns from the perspective of
// the side to move.
func Evaluate(b *board.Board) int {
	var a accum
	a.collect(b)

	var score [2]int
	score[board.Light] = a.pieceMat[board.Light] + a.pawnMat[board.Light]
	score[board.Dark] = a.pieceMat[board.Dark] + a.pawnMat[board.Dark]

	for i := 0; i < board.NumSquares; i++ {
		if b.Color[i] == board.NoColor {
			continue
		}
		score[b.Color[i]] += a.square(b, i)
	}

	if b.Side == board.Light {
		return score[board.Light] - score[board.Dark]
	}
	return score[board.Dark] - score[board.Light]
}
