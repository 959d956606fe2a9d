package board

import "math/rand"

// The position hash is a 32-bit zobrist hash: XOR of a random int per
// piece-square, a side-to-move int, and an int per en passant square. It is
// maintained incrementally by MakeMove and restored from the history stack by
// Takeback; ComputeHash recomputes it from scratch.
//
// See also: https://research.cs.wisc.edu/techreports/1970/TR88.pdf.
type zobristTable struct {
	piece [2][NumPieces][NumSquares]uint32
	side  uint32
	ep    [NumSquares]uint32
}

var zobrist = newZobristTable(0)

func newZobristTable(seed int64) *zobristTable {
	ret := &zobristTable{}

	r := rand.New(rand.NewSource(seed))
	for c := 0; c < 2; c++ {
		for p := 0; p < NumPieces; p++ {
			for sq := 0; sq < NumSquares; sq++ {
				ret.piece[c][p][sq] = r.Uint32()
			}
		}
	}
	ret.side = r.Uint32()
	for sq := 0; sq < NumSquares; sq++ {
		ret.ep[sq] = r.Uint32()
	}
	return ret
}

// ComputeHash computes the position hash from scratch.
func (b *Board) ComputeHash() uint32 {
	var hash uint32
	for sq := 0; sq < NumSquares; sq++ {
		if b.Color[sq] != NoColor {
			hash ^= zobrist.piece[b.Color[sq]][b.Piece[sq]][sq]
		}
	}
	if b.Side == Dark {
		hash ^= zobrist.side
	}
	if b.EP != -1 {
		hash ^= zobrist.ep[b.EP]
	}
	return hash
}

// SetHash installs the from-scratch hash, for positions not reached by moves.
func (b *Board) SetHash() {
	b.Hash = b.ComputeHash()
}
