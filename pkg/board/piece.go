package board

// Piece represents a chess piece with no color. The numeric order is relied
// on by the per-piece tables and the promotion expansion (Knight..Queen
// consecutive).
// NoPiece marks an empty square in the piece array.
type Piece int8

const (
	Pawn Piece = iota
	Knight
	Bishop
	Rook
	Queen
	King

	NoPiece Piece = 6
)

const NumPieces = 6

// pieceValue is the nominal material value in centipawns. The King is
// valueless since it can never be captured.
var pieceValue = [NumPieces]int{100, 300, 310, 500, 900, 0}

// Value returns the material value of a piece in centipawns.
func Value(p Piece) int {
	if !p.IsValid() {
		return 0
	}
	return pieceValue[p]
}

func ParsePiece(r rune) (Piece, bool) {
	switch r {
	case 'p', 'P':
		return Pawn, true
	case 'n', 'N':
		return Knight, true
	case 'b', 'B':
		return Bishop, true
	case 'r', 'R':
		return Rook, true
	case 'q', 'Q':
		return Queen, true
	case 'k', 'K':
		return King, true
	default:
		return NoPiece, false
	}
}

func (p Piece) IsValid() bool {
	return Pawn <= p && p <= King
}

func (p Piece) String() string {
	switch p {
	case Pawn:
		return "p"
	case Knight:
		return "n"
	case Bishop:
		return "b"
	case Rook:
		return "r"
	case Queen:
		return "q"
	case King:
		return "k"
	default:
		return "."
	}
}
