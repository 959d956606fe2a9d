package board

// QuietScorer scores a quiet move for ordering, typically from the history
// heuristic table. A nil scorer scores every quiet move zero.
type QuietScorer func(from, to int) int32

// Gen emits every pseudo-legal move for the side to move into the arena slot
// for the current ply. Captures are scored by MVV (1000000 + 10*victim -
// aggressor); quiet moves take their history score. Promotions expand into
// four consecutive entries in the fixed order Knight, Bishop, Rook, Queen --
// move parsing relies on this ordering.
func (b *Board) Gen(quiet QuietScorer) {
	b.FirstMove[b.Ply+1] = b.FirstMove[b.Ply]

	for i := 0; i < NumSquares; i++ {
		if b.Color[i] != b.Side {
			continue
		}
		if b.Piece[i] == Pawn {
			if b.Side == Light {
				if Col(i) != 0 && b.Color[i-9] == Dark {
					b.genPush(i, i-9, PawnMove|Capture, quiet)
				}
				if Col(i) != 7 && b.Color[i-7] == Dark {
					b.genPush(i, i-7, PawnMove|Capture, quiet)
				}
				if b.Color[i-8] == NoColor {
					b.genPush(i, i-8, PawnMove, quiet)
					if i >= 48 && b.Color[i-16] == NoColor {
						b.genPush(i, i-16, PawnMove|DoublePush, quiet)
					}
				}
			} else {
				if Col(i) != 0 && b.Color[i+7] == Light {
					b.genPush(i, i+7, PawnMove|Capture, quiet)
				}
				if Col(i) != 7 && b.Color[i+9] == Light {
					b.genPush(i, i+9, PawnMove|Capture, quiet)
				}
				if b.Color[i+8] == NoColor {
					b.genPush(i, i+8, PawnMove, quiet)
					if i <= 15 && b.Color[i+16] == NoColor {
						b.genPush(i, i+16, PawnMove|DoublePush, quiet)
					}
				}
			}
			continue
		}
		for j := 0; j < offsets[b.Piece[i]]; j++ {
			for n := i; ; {
				n = mailbox[mailbox64[n]+offset[b.Piece[i]][j]]
				if n == -1 {
					break
				}
				if b.Color[n] != NoColor {
					if b.Color[n] == b.Xside {
						b.genPush(i, n, Capture, quiet)
					}
					break
				}
				b.genPush(i, n, 0, quiet)
				if !slide[b.Piece[i]] {
					break
				}
			}
		}
	}

	// castle moves
	if b.Side == Light {
		if b.Castle.IsAllowed(LightKingSide) {
			b.genPush(E1, G1, CastleMove, quiet)
		}
		if b.Castle.IsAllowed(LightQueenSide) {
			b.genPush(E1, C1, CastleMove, quiet)
		}
	} else {
		if b.Castle.IsAllowed(DarkKingSide) {
			b.genPush(E8, G8, CastleMove, quiet)
		}
		if b.Castle.IsAllowed(DarkQueenSide) {
			b.genPush(E8, C8, CastleMove, quiet)
		}
	}

	b.genEnPassant(quiet)
}

// GenCaps emits only captures, en passant and promotion-rank pawn advances;
// used by quiescence search.
func (b *Board) GenCaps(quiet QuietScorer) {
	b.FirstMove[b.Ply+1] = b.FirstMove[b.Ply]

	for i := 0; i < NumSquares; i++ {
		if b.Color[i] != b.Side {
			continue
		}
		if b.Piece[i] == Pawn {
			if b.Side == Light {
				if Col(i) != 0 && b.Color[i-9] == Dark {
					b.genPush(i, i-9, PawnMove|Capture, quiet)
				}
				if Col(i) != 7 && b.Color[i-7] == Dark {
					b.genPush(i, i-7, PawnMove|Capture, quiet)
				}
				if i <= 15 && b.Color[i-8] == NoColor {
					b.genPush(i, i-8, PawnMove, quiet)
				}
			} else {
				if Col(i) != 0 && b.Color[i+7] == Light {
					b.genPush(i, i+7, PawnMove|Capture, quiet)
				}
				if Col(i) != 7 && b.Color[i+9] == Light {
					b.genPush(i, i+9, PawnMove|Capture, quiet)
				}
				if i >= 48 && b.Color[i+8] == NoColor {
					b.genPush(i, i+8, PawnMove, quiet)
				}
			}
			continue
		}
		for j := 0; j < offsets[b.Piece[i]]; j++ {
			for n := i; ; {
				n = mailbox[mailbox64[n]+offset[b.Piece[i]][j]]
				if n == -1 {
					break
				}
				if b.Color[n] != NoColor {
					if b.Color[n] == b.Xside {
						b.genPush(i, n, Capture, quiet)
					}
					break
				}
				if !slide[b.Piece[i]] {
					break
				}
			}
		}
	}

	b.genEnPassant(quiet)
}

func (b *Board) genEnPassant(quiet QuietScorer) {
	if b.EP == -1 {
		return
	}
	if b.Side == Light {
		if Col(b.EP) != 0 && b.Color[b.EP+7] == Light && b.Piece[b.EP+7] == Pawn {
			b.genPush(b.EP+7, b.EP, PawnMove|Capture|EnPassantCap, quiet)
		}
		if Col(b.EP) != 7 && b.Color[b.EP+9] == Light && b.Piece[b.EP+9] == Pawn {
			b.genPush(b.EP+9, b.EP, PawnMove|Capture|EnPassantCap, quiet)
		}
	} else {
		if Col(b.EP) != 0 && b.Color[b.EP-9] == Dark && b.Piece[b.EP-9] == Pawn {
			b.genPush(b.EP-9, b.EP, PawnMove|Capture|EnPassantCap, quiet)
		}
		if Col(b.EP) != 7 && b.Color[b.EP-7] == Dark && b.Piece[b.EP-7] == Pawn {
			b.genPush(b.EP-7, b.EP, PawnMove|Capture|EnPassantCap, quiet)
		}
	}
}

func (b *Board) genPush(from, to int, bits MoveBits, quiet QuietScorer) {
	if bits&PawnMove != 0 {
		if (b.Side == Light && to <= H8) || (b.Side == Dark && to >= A1) {
			b.genPromote(from, to, bits, quiet)
			return
		}
	}

	g := &b.GenDat[b.FirstMove[b.Ply+1]]
	b.FirstMove[b.Ply+1]++
	g.Move = NewMove(from, to, 0, bits)
	g.Score = b.moveScore(from, to, bits, quiet)
}

func (b *Board) genPromote(from, to int, bits MoveBits, quiet QuietScorer) {
	for p := Knight; p <= Queen; p++ {
		g := &b.GenDat[b.FirstMove[b.Ply+1]]
		b.FirstMove[b.Ply+1]++
		g.Move = NewMove(from, to, p, bits|Promote)
		g.Score = b.moveScore(from, to, bits, quiet)
	}
}

// moveScore applies the ordering formulas: a capture takes the MVV score
// 1000000 + 10*victim - aggressor in material values, a quiet move its
// history score. The en passant victim is the pawn behind the target square.
func (b *Board) moveScore(from, to int, bits MoveBits, quiet QuietScorer) int32 {
	if bits&Capture != 0 {
		victim := b.Piece[to]
		if bits&EnPassantCap != 0 {
			victim = Pawn
		}
		return 1000000 + 10*int32(Value(victim)) - int32(Value(b.Piece[from]))
	}
	if quiet != nil {
		return quiet(from, to)
	}
	return 0
}

// Attack returns true iff any piece of color s attacks sq.
func (b *Board) Attack(sq int, s Color) bool {
	for i := 0; i < NumSquares; i++ {
		if b.Color[i] != s {
			continue
		}
		if b.Piece[i] == Pawn {
			if s == Light {
				if Col(i) != 0 && i-9 == sq {
					return true
				}
				if Col(i) != 7 && i-7 == sq {
					return true
				}
			} else {
				if Col(i) != 0 && i+7 == sq {
					return true
				}
				if Col(i) != 7 && i+9 == sq {
					return true
				}
			}
			continue
		}
		for j := 0; j < offsets[b.Piece[i]]; j++ {
			for n := i; ; {
				n = mailbox[mailbox64[n]+offset[b.Piece[i]][j]]
				if n == -1 {
					break
				}
				if n == sq {
					return true
				}
				if b.Color[n] != NoColor {
					break
				}
				if !slide[b.Piece[i]] {
					break
				}
			}
		}
	}
	return false
}

// InCheck returns true iff the king of color s is attacked by the opponent.
func (b *Board) InCheck(s Color) bool {
	for i := 0; i < NumSquares; i++ {
		if b.Piece[i] == King && b.Color[i] == s {
			return b.Attack(i, s.Opponent())
		}
	}
	return true // no king: treat as checked
}
