package search

import (
	"testing"

	"github.com/vancezuo/parallel-chess/pkg/board/fen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRun(t *testing.T, fenStr string, cfg Config) *run {
	t.Helper()

	b, err := fen.Decode(fenStr)
	require.NoError(t, err)

	if cfg.Threads == 0 {
		cfg.Threads = 1
	}
	sh := NewShared(cfg, nil)
	sh.Reset()
	sh.StopTime = sh.Clock() + (1 << 25)
	return &run{c: NewContext(b), sh: sh}
}

func TestSearchFailHard(t *testing.T) {
	positions := []string{
		fen.Initial,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"k7/7R/6R1/8/8/8/8/7K w - - 0 1",
	}
	windows := []struct{ alpha, beta int }{
		{-Infinity, Infinity},
		{-50, 50},
		{0, 1},
		{-Infinity, -5000},
		{5000, Infinity},
	}

	for _, pos := range positions {
		for _, w := range windows {
			r := newRun(t, pos, Config{})
			x := r.search(w.alpha, w.beta, 3)
			assert.GreaterOrEqualf(t, x, w.alpha, "position %v, window [%v, %v]", pos, w.alpha, w.beta)
			assert.LessOrEqualf(t, x, w.beta, "position %v, window [%v, %v]", pos, w.alpha, w.beta)
			assert.Equal(t, 0, r.c.B.Ply, "search unwound")
		}
	}
}

func TestParallelFailHard(t *testing.T) {
	pos := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	windows := []struct{ alpha, beta int }{
		{-Infinity, Infinity},
		{-50, 50},
		{-Infinity, -5000},
	}

	for _, w := range windows {
		serial := newRun(t, pos, Config{}).search(w.alpha, w.beta, 3)

		rs := newRun(t, pos, Config{Strategy: RootSplit, Threads: 4})
		x := rs.rootSplit(w.alpha, w.beta, 3)
		assert.GreaterOrEqual(t, x, w.alpha)
		assert.LessOrEqual(t, x, w.beta)
		assert.Equalf(t, serial, x, "root-split window [%v, %v]", w.alpha, w.beta)

		ps := newRun(t, pos, Config{Strategy: PVSplit, Threads: 4})
		x = ps.pvSplit(w.alpha, w.beta, 3)
		assert.GreaterOrEqual(t, x, w.alpha)
		assert.LessOrEqual(t, x, w.beta)
		assert.Equalf(t, serial, x, "pv-split window [%v, %v]", w.alpha, w.beta)
	}
}

func TestRepetitionDetected(t *testing.T) {
	// shuffle knights back and forth: after one round the start position has
	// occurred once before, which is what the search's draw claim keys on
	r := newRun(t, fen.Initial, Config{})
	b := &r.c.B

	for _, str := range []string{"g1f3", "g8f6", "f3g1", "f6g8"} {
		b.Ply = 0
		b.Gen(nil)
		made := false
		for i := b.FirstMove[0]; i < b.FirstMove[1]; i++ {
			m := b.GenDat[i].Move
			if m.String() == str {
				require.True(t, b.MakeMove(m))
				made = true
				break
			}
		}
		require.True(t, made)
		b.Ply = 0
	}
	require.Equal(t, 1, b.Reps())
}

func TestCheckExtensionBounded(t *testing.T) {
	// a king hounded by checks cannot extend past MaxPly
	r := newRun(t, "k7/8/8/8/8/8/1q6/K7 w - - 0 1", Config{})
	x := r.search(-Infinity, Infinity, 4)
	assert.GreaterOrEqual(t, x, -Infinity)
	assert.LessOrEqual(t, x, Infinity)
	assert.Equal(t, 0, r.c.B.Ply)
}

func TestSelectionSortPicksHighestNext(t *testing.T) {
	r := newRun(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", Config{})
	b := &r.c.B

	b.Gen(r.sh.HistoryScore)
	begin, end := b.FirstMove[0], b.FirstMove[1]
	for i := begin; i < end; i++ {
		r.sort(i)
		for j := i + 1; j < end; j++ {
			assert.GreaterOrEqual(t, b.GenDat[i].Score, b.GenDat[j].Score,
				"slot %v must hold the highest remaining score", i)
		}
	}
}

func TestTimeoutSetsStop(t *testing.T) {
	now := int64(1000)
	sh := NewShared(Config{Threads: 1}, func() int64 { return now })
	sh.StopTime = 2000

	assert.False(t, sh.Timeout())
	assert.False(t, sh.Stop.Load())

	now = 2000
	assert.True(t, sh.Timeout())
	assert.True(t, sh.Stop.Load())
}
