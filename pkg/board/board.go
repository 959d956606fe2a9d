// Package board contains the mutable mailbox chess board: position state,
// move generation, make/unmake with an exact-reversal history stack, and the
// incremental position hash.
package board

import (
	"fmt"
	"strings"
)

const (
	// MaxPly caps search recursion depth; search falls back to static
	// evaluation at the cap rather than failing.
	MaxPly = 32
	// HistStack caps the number of half-moves in a game.
	HistStack = 400
	// GenStack sizes the shared move arena across all live plies.
	GenStack = 1120
)

// Undo holds the pre-move state needed to reverse one half-move.
type Undo struct {
	Move    Move
	Capture Piece
	Castle  Castling
	EP      int
	Fifty   int
	Hash    uint32
}

// Gen is a generated move with its ordering score.
type Gen struct {
	Move  Move
	Score int32
}

// Board is the mutable position. It contains only fixed-size arrays so a
// struct copy is a complete, independent fork; the search relies on this to
// hand each worker a private board.
//
// The move arena GenDat is stacked by ply: the list generated at ply p lives
// in GenDat[FirstMove[p]:FirstMove[p+1]]. Only the top-of-stack list is ever
// appended; Takeback implicitly discards it by decrementing Ply.
type Board struct {
	Color [64]Color
	Piece [64]Piece

	Side  Color
	Xside Color

	Castle Castling
	EP     int // en passant target square, or -1
	Fifty  int
	Hash   uint32

	Ply  int // search ply, root = 0
	Hply int // game ply since initial position

	Hist [HistStack]Undo

	GenDat    [GenStack]Gen
	FirstMove [MaxPly]int
}

// New returns a board with the standard starting position.
func New() *Board {
	b := &Board{}
	b.Init()
	return b
}

// Init installs the standard starting position.
func (b *Board) Init() {
	*b = Board{
		Color:  initColor,
		Piece:  initPiece,
		Side:   Light,
		Xside:  Dark,
		Castle: FullCastlingRights,
		EP:     -1,
	}
	b.SetHash()
}

// Moves returns the arena slice generated for the current ply. The slice is
// invalidated by the next Gen or Takeback at this ply.
func (b *Board) Moves() []Gen {
	return b.GenDat[b.FirstMove[b.Ply]:b.FirstMove[b.Ply+1]]
}

// MakeMove applies a pseudo-legal move. It returns false and leaves the board
// unchanged if the move would leave the mover's king in check; this is the
// only place pseudo-legality is promoted to legality.
func (b *Board) MakeMove(m Move) bool {
	if b.Hply >= HistStack {
		return false // history stack exhausted
	}

	from, to := m.From(), m.To()
	bits := m.Bits()

	hash := b.Hash
	if b.EP != -1 {
		hash ^= zobrist.ep[b.EP]
	}
	hash ^= zobrist.side

	if bits&CastleMove != 0 {
		if b.InCheck(b.Side) {
			return false
		}
		var rookFrom, rookTo int
		switch to {
		case G1:
			if b.Color[F1] != NoColor || b.Color[G1] != NoColor ||
				b.Attack(F1, b.Xside) || b.Attack(G1, b.Xside) {
				return false
			}
			rookFrom, rookTo = H1, F1
		case C1:
			if b.Color[B1] != NoColor || b.Color[C1] != NoColor || b.Color[D1] != NoColor ||
				b.Attack(C1, b.Xside) || b.Attack(D1, b.Xside) {
				return false
			}
			rookFrom, rookTo = A1, D1
		case G8:
			if b.Color[F8] != NoColor || b.Color[G8] != NoColor ||
				b.Attack(F8, b.Xside) || b.Attack(G8, b.Xside) {
				return false
			}
			rookFrom, rookTo = H8, F8
		case C8:
			if b.Color[B8] != NoColor || b.Color[C8] != NoColor || b.Color[D8] != NoColor ||
				b.Attack(C8, b.Xside) || b.Attack(D8, b.Xside) {
				return false
			}
			rookFrom, rookTo = A8, D8
		default:
			return false
		}
		b.Color[rookTo] = b.Color[rookFrom]
		b.Piece[rookTo] = Rook
		b.Color[rookFrom] = NoColor
		b.Piece[rookFrom] = NoPiece
		hash ^= zobrist.piece[b.Side][Rook][rookFrom] ^ zobrist.piece[b.Side][Rook][rookTo]
	}

	u := &b.Hist[b.Hply]
	u.Move = m
	u.Capture = b.Piece[to]
	u.Castle = b.Castle
	u.EP = b.EP
	u.Fifty = b.Fifty
	u.Hash = b.Hash
	b.Ply++
	b.Hply++

	b.Castle &= castleMask[from] & castleMask[to]
	if bits&DoublePush != 0 {
		if b.Side == Light {
			b.EP = to + 8
		} else {
			b.EP = to - 8
		}
		hash ^= zobrist.ep[b.EP]
	} else {
		b.EP = -1
	}
	if bits&(PawnMove|Capture) != 0 {
		b.Fifty = 0
	} else {
		b.Fifty++
	}

	if u.Capture != NoPiece {
		hash ^= zobrist.piece[b.Xside][u.Capture][to]
	}

	mover := b.Piece[from]
	hash ^= zobrist.piece[b.Side][mover][from]
	b.Color[to] = b.Side
	if bits&Promote != 0 {
		b.Piece[to] = m.Promote()
	} else {
		b.Piece[to] = mover
	}
	hash ^= zobrist.piece[b.Side][b.Piece[to]][to]
	b.Color[from] = NoColor
	b.Piece[from] = NoPiece

	if bits&EnPassantCap != 0 {
		capSq := to - 8
		if b.Side == Light {
			capSq = to + 8
		}
		b.Color[capSq] = NoColor
		b.Piece[capSq] = NoPiece
		hash ^= zobrist.piece[b.Xside][Pawn][capSq]
	}

	b.Side, b.Xside = b.Xside, b.Side
	b.Hash = hash

	if b.InCheck(b.Xside) {
		b.Takeback()
		return false
	}
	return true
}

// Takeback reverses the latest made move, restoring every field exactly.
func (b *Board) Takeback() {
	b.Side, b.Xside = b.Xside, b.Side
	b.Ply--
	b.Hply--

	u := &b.Hist[b.Hply]
	m := u.Move
	from, to := m.From(), m.To()
	bits := m.Bits()

	b.Castle = u.Castle
	b.EP = u.EP
	b.Fifty = u.Fifty
	b.Hash = u.Hash

	b.Color[from] = b.Side
	if bits&Promote != 0 {
		b.Piece[from] = Pawn
	} else {
		b.Piece[from] = b.Piece[to]
	}
	if u.Capture == NoPiece {
		b.Color[to] = NoColor
		b.Piece[to] = NoPiece
	} else {
		b.Color[to] = b.Xside
		b.Piece[to] = u.Capture
	}

	if bits&CastleMove != 0 {
		var rookFrom, rookTo int
		switch to {
		case G1:
			rookFrom, rookTo = H1, F1
		case C1:
			rookFrom, rookTo = A1, D1
		case G8:
			rookFrom, rookTo = H8, F8
		case C8:
			rookFrom, rookTo = A8, D8
		}
		b.Color[rookFrom] = b.Side
		b.Piece[rookFrom] = Rook
		b.Color[rookTo] = NoColor
		b.Piece[rookTo] = NoPiece
	}
	if bits&EnPassantCap != 0 {
		capSq := to - 8
		if b.Side == Light {
			capSq = to + 8
		}
		b.Color[capSq] = b.Xside
		b.Piece[capSq] = Pawn
	}
}

// Reps returns the number of times the current position occurred earlier in
// the game. Only the half-moves since the last irreversible move can repeat,
// so the scan covers Hist[Hply-Fifty:Hply], clamped at the stack start for
// positions loaded with a nonzero fifty counter.
func (b *Board) Reps() int {
	start := b.Hply - b.Fifty
	if start < 0 {
		start = 0
	}
	r := 0
	for i := start; i < b.Hply; i++ {
		if b.Hist[i].Hash == b.Hash {
			r++
		}
	}
	return r
}

// String renders the board as an 8x8 grid, uppercase Light and lowercase Dark.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("\n8 ")
	for i := 0; i < NumSquares; i++ {
		switch b.Color[i] {
		case Light:
			sb.WriteString(" " + strings.ToUpper(b.Piece[i].String()))
		case Dark:
			sb.WriteString(" " + b.Piece[i].String())
		default:
			sb.WriteString(" .")
		}
		if (i+1)%8 == 0 && i != 63 {
			sb.WriteString(fmt.Sprintf("\n%d ", 7-Row(i)))
		}
	}
	sb.WriteString("\n\n   a b c d e f g h\n")
	return sb.String()
}
