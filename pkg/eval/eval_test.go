package eval_test

import (
	"testing"

	"github.com/vancezuo/parallel-chess/pkg/board"
	"github.com/vancezuo/parallel-chess/pkg/board/fen"
	"github.com/vancezuo/parallel-chess/pkg/eval"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var positions = []string{
	fen.Initial,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"rnbqkbnr/pppp1ppp/8/4p3/6P1/5P2/PPPPP2P/RNBQKBNR b KQkq g3 0 2",
	"8/P7/8/8/8/8/8/k6K w - - 0 1",
	"8/8/8/4k3/8/8/4P3/4K3 w - - 0 1", // king endgame table in play
	"6k1/5ppp/8/8/8/8/5PPP/6K1 w - - 0 1",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
}

func TestInitialPositionBalanced(t *testing.T) {
	b := board.New()
	assert.Equal(t, 0, eval.Evaluate(b))
}

func TestSideToMovePerspective(t *testing.T) {
	// identical material and structure for both sides: the score flips sign
	// with the side to move
	b, err := fen.Decode("6k1/5ppp/8/8/8/8/5PPP/6K1 w - - 0 1")
	require.NoError(t, err)
	w := eval.Evaluate(b)

	b, err = fen.Decode("6k1/5ppp/8/8/8/8/5PPP/6K1 b - - 0 1")
	require.NoError(t, err)
	assert.Equal(t, w, eval.Evaluate(b))
	assert.Equal(t, 0, w)
}

func TestMaterialDominates(t *testing.T) {
	b, err := fen.Decode("k7/7R/8/8/8/8/8/K7 w - - 0 1")
	require.NoError(t, err)
	assert.Greater(t, eval.Evaluate(b), 400)

	b, err = fen.Decode("k7/7R/8/8/8/8/8/K7 b - - 0 1")
	require.NoError(t, err)
	assert.Less(t, eval.Evaluate(b), -400)
}

func TestParallelMatchesSerial(t *testing.T) {
	for _, tt := range positions {
		b, err := fen.Decode(tt)
		require.NoError(t, err)

		want := eval.Evaluate(b)
		for workers := 1; workers <= 8; workers++ {
			assert.Equalf(t, want, eval.ParallelEvaluate(b, workers), "position %v, workers %v", tt, workers)
		}
		assert.Equal(t, want, eval.Serial.Evaluate(b, 4))
		assert.Equal(t, want, eval.Parallel.Evaluate(b, 4))
	}
}

func TestDoubledPawnPenalized(t *testing.T) {
	clean, err := fen.Decode("4k3/8/8/8/8/8/PP6/4K3 w - - 0 1")
	require.NoError(t, err)
	doubled, err := fen.Decode("4k3/8/8/8/8/P7/P7/4K3 w - - 0 1")
	require.NoError(t, err)

	assert.Greater(t, eval.Evaluate(clean), eval.Evaluate(doubled))
}
