package search_test

import (
	"context"
	"testing"
	"time"

	"github.com/vancezuo/parallel-chess/pkg/board/fen"
	"github.com/vancezuo/parallel-chess/pkg/eval"
	"github.com/vancezuo/parallel-chess/pkg/search"

	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func think(t *testing.T, fenStr string, depth int, cfg search.Config) search.PV {
	t.Helper()

	b, err := fen.Decode(fenStr)
	require.NoError(t, err)

	if cfg.Threads == 0 {
		cfg.Threads = 1
	}
	c := search.NewContext(b)
	sh := search.NewShared(cfg, nil)
	it := &search.Iterative{}

	_, out := it.Launch(context.Background(), c, sh, search.Options{DepthLimit: lang.Some(depth)})
	var last search.PV
	for pv := range out {
		last = pv
	}
	return last
}

func TestOpeningMove(t *testing.T) {
	pv := think(t, fen.Initial, 4, search.Config{})
	require.NotEmpty(t, pv.Moves)

	reasonable := map[string]bool{"e2e4": true, "d2d4": true, "g1f3": true, "c2c4": true}
	assert.Truef(t, reasonable[pv.Moves[0].String()], "unreasonable opening move %v", pv.Moves[0])
}

func TestFoolsMate(t *testing.T) {
	// after 1. f3 e5 2. g4 the side to move mates with the queen
	pos := "rnbqkbnr/pppp1ppp/8/4p3/6P1/5P2/PPPPP2P/RNBQKBNR b KQkq g3 0 2"

	for _, cfg := range []search.Config{
		{Strategy: search.SerialSearch, Threads: 1},
		{Strategy: search.RootSplit, Threads: 4},
		{Strategy: search.PVSplit, Threads: 4},
		{Quiesce: search.ParallelQuiesce, Threads: 4},
	} {
		pv := think(t, pos, 3, cfg)
		require.NotEmptyf(t, pv.Moves, "config %v", cfg)
		assert.Equalf(t, "d8h4", pv.Moves[0].String(), "config %v", cfg)
		assert.GreaterOrEqualf(t, pv.Score, search.MateWindow, "config %v", cfg)
	}
}

func TestCastlingUnderSearch(t *testing.T) {
	pv := think(t, "8/8/8/8/8/8/6k1/4K2R w K - 0 1", 6, search.Config{})
	require.NotEmpty(t, pv.Moves)
	assert.Equal(t, "e1g1", pv.Moves[0].String())
}

func TestFiftyMoveDraw(t *testing.T) {
	pv := think(t, "k7/7R/8/8/8/8/8/K7 w - - 100 1", 2, search.Config{})
	assert.Equal(t, 0, pv.Score)
}

func TestParallelMatchesSerial(t *testing.T) {
	positions := []string{
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	}
	const depth = 4

	for _, pos := range positions {
		serial := think(t, pos, depth, search.Config{})
		require.NotEmpty(t, serial.Moves)

		for _, cfg := range []search.Config{
			{Strategy: search.RootSplit, Threads: 4},
			{Strategy: search.PVSplit, Threads: 4},
			{Quiesce: search.ParallelQuiesce, Threads: 4},
			{Eval: eval.Parallel, Threads: 4},
		} {
			pv := think(t, pos, depth, cfg)
			require.NotEmptyf(t, pv.Moves, "position %v, config %v", pos, cfg)
			// the minimax value is ordering-independent, so the score must
			// match exactly; the PV may legitimately differ when moves tie
			assert.Equalf(t, serial.Score, pv.Score, "position %v, config %v", pos, cfg)
		}
	}
}

func TestTimeLimitHalts(t *testing.T) {
	b, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	c := search.NewContext(b)
	sh := search.NewShared(search.Config{Threads: 1}, nil)
	it := &search.Iterative{}

	start := time.Now()
	_, out := it.Launch(context.Background(), c, sh, search.Options{
		TimeLimit: lang.Some(50 * time.Millisecond),
	})
	var last search.PV
	for pv := range out {
		last = pv
	}
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.NotEmpty(t, last.Moves, "at least the first iteration completes")
}

func TestHaltDiscardsPartialIteration(t *testing.T) {
	b, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	c := search.NewContext(b)
	sh := search.NewShared(search.Config{Threads: 1}, nil)
	it := &search.Iterative{}

	h, out := it.Launch(context.Background(), c, sh, search.Options{DepthLimit: lang.Some(30)})
	pv := h.Halt()
	for range out {
		// drain until the search winds down
	}
	assert.NotEmpty(t, pv.Moves)
	assert.Equal(t, 0, c.B.Ply, "board unwound to the root")
}

func TestMateStopsDeepening(t *testing.T) {
	// mate in one: the driver must not search past the mate window
	pv := think(t, "k7/7R/6R1/8/8/8/8/7K w - - 0 1", 30, search.Config{})
	require.NotEmpty(t, pv.Moves)
	assert.Greater(t, pv.Score, search.MateWindow)
	assert.Less(t, pv.Depth, 10)
}
