package board_test

import (
	"testing"

	"github.com/vancezuo/parallel-chess/pkg/board"
	"github.com/vancezuo/parallel-chess/pkg/board/fen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, str string) *board.Board {
	t.Helper()

	b, err := fen.Decode(str)
	require.NoError(t, err)
	return b
}

func perft(b *board.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	b.Gen(nil)
	var nodes uint64
	for i := b.FirstMove[b.Ply]; i < b.FirstMove[b.Ply+1]; i++ {
		if !b.MakeMove(b.GenDat[i].Move) {
			continue
		}
		nodes += perft(b, depth-1)
		b.Takeback()
	}
	return nodes
}

func TestPerftInitial(t *testing.T) {
	expected := []uint64{1, 20, 400, 8902, 197281}

	b := board.New()
	for depth, want := range expected {
		assert.Equalf(t, want, perft(b, depth), "initial position, depth %v", depth)
	}
}

func TestPerftKiwipete(t *testing.T) {
	b := decode(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")

	assert.Equal(t, uint64(48), perft(b, 1))
	assert.Equal(t, uint64(2039), perft(b, 2))
	assert.Equal(t, uint64(97862), perft(b, 3))
}

func TestPerftPosition3(t *testing.T) {
	b := decode(t, "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1")

	assert.Equal(t, uint64(14), perft(b, 1))
	assert.Equal(t, uint64(191), perft(b, 2))
	assert.Equal(t, uint64(2812), perft(b, 3))
	assert.Equal(t, uint64(43238), perft(b, 4))
	assert.Equal(t, uint64(674624), perft(b, 5))
}
