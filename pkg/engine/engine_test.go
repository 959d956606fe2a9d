package engine_test

import (
	"context"
	"strings"
	"testing"

	"github.com/vancezuo/parallel-chess/pkg/board"
	"github.com/vancezuo/parallel-chess/pkg/board/fen"
	"github.com/vancezuo/parallel-chess/pkg/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserMove(t *testing.T) {
	ctx := context.Background()
	e := engine.New(ctx, "test", "tester")

	require.NoError(t, e.UserMove(ctx, "e2e4"))
	assert.Error(t, e.UserMove(ctx, "e2e4"), "no pawn on e2 anymore")
	assert.Error(t, e.UserMove(ctx, "x9x9"))
	assert.Error(t, e.UserMove(ctx, "e7e5x"))

	require.NoError(t, e.UserMove(ctx, "e7e5"))
	b := e.Board()
	assert.Equal(t, board.Pawn, b.Piece[board.E4])
	assert.Equal(t, board.Pawn, b.Piece[board.E5])
}

func TestTakeBackRestores(t *testing.T) {
	ctx := context.Background()
	e := engine.New(ctx, "test", "tester")

	before := e.Board()
	require.NoError(t, e.UserMove(ctx, "g1f3"))
	require.NoError(t, e.TakeBack(ctx))

	after := e.Board()
	assert.Equal(t, before.Hash, after.Hash)
	assert.Equal(t, before.Color, after.Color)
	assert.Equal(t, before.Piece, after.Piece)

	assert.Error(t, e.TakeBack(ctx), "nothing left to take back")
}

func TestFoolsMateResult(t *testing.T) {
	ctx := context.Background()
	e := engine.New(ctx, "test", "tester")

	for _, m := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		require.NoError(t, e.UserMove(ctx, m))
	}
	result, over := e.Result(ctx)
	require.True(t, over)
	assert.Equal(t, "0-1 {Black mates}", result)
}

func TestStalemateResult(t *testing.T) {
	ctx := context.Background()
	e := engine.New(ctx, "test", "tester")

	b, err := fen.Decode("k7/8/1Q6/8/8/8/8/7K b - - 0 1")
	require.NoError(t, err)
	e.SetBoard(ctx, b)

	result, over := e.Result(ctx)
	require.True(t, over)
	assert.Equal(t, "1/2-1/2 {Stalemate}", result)
}

func TestRepetitionResult(t *testing.T) {
	ctx := context.Background()
	e := engine.New(ctx, "test", "tester")

	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}
	for round := 0; round < 3; round++ {
		for _, m := range shuffle {
			require.NoError(t, e.UserMove(ctx, m))
		}
	}
	result, over := e.Result(ctx)
	require.True(t, over)
	assert.Equal(t, "1/2-1/2 {Draw by repetition}", result)
}

func TestFiftyMoveResult(t *testing.T) {
	ctx := context.Background()
	e := engine.New(ctx, "test", "tester")

	b, err := fen.Decode("k7/7R/8/8/8/8/8/K7 w - - 100 1")
	require.NoError(t, err)
	e.SetBoard(ctx, b)

	result, over := e.Result(ctx)
	require.True(t, over)
	assert.Equal(t, "1/2-1/2 {Draw by fifty move rule}", result)
}

func TestResolveMovePromotion(t *testing.T) {
	b, err := fen.Decode("8/P7/8/8/8/8/8/k6K w - - 0 1")
	require.NoError(t, err)

	m, ok := engine.ResolveMove(b, "a7a8r")
	require.True(t, ok)
	assert.Equal(t, board.Rook, m.Promote())

	m, ok = engine.ResolveMove(b, "a7a8")
	require.True(t, ok)
	assert.Equal(t, board.Queen, m.Promote(), "promotion defaults to a queen")

	_, ok = engine.ResolveMove(b, "a7b8")
	assert.False(t, ok)
}

func TestBookMove(t *testing.T) {
	ctx := context.Background()

	book, err := engine.NewLineBook(strings.NewReader("e2e4 e7e5 g1f3\ne2e4 c7c5\n# comment\n"))
	require.NoError(t, err)

	e := engine.New(ctx, "test", "tester", engine.WithBook(book, 42), engine.WithDepth(1))

	pv := e.Think(ctx, nil)
	require.NotEmpty(t, pv.Moves)
	assert.True(t, pv.Book)
	assert.Equal(t, "e2e4", pv.Moves[0].String())

	require.NoError(t, e.Apply(ctx, pv.Moves[0]))

	// the opponent leaves the book: the engine falls back to searching
	require.NoError(t, e.UserMove(ctx, "g8f6"))
	pv = e.Think(ctx, nil)
	require.NotEmpty(t, pv.Moves)
	assert.False(t, pv.Book)
}

func TestLineBookFind(t *testing.T) {
	ctx := context.Background()

	book, err := engine.NewLineBook(strings.NewReader("e2e4 e7e5\ne2e4 c7c5\nd2d4 d7d5\n"))
	require.NoError(t, err)

	b := board.New()
	cands, err := book.Find(ctx, b, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"e2e4", "e2e4", "d2d4"}, cands)

	cands, err = book.Find(ctx, b, []string{"e2e4"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"e7e5", "c7c5"}, cands)

	cands, err = book.Find(ctx, b, []string{"b1c3"})
	require.NoError(t, err)
	assert.Empty(t, cands)
}

func TestThinkFindsMate(t *testing.T) {
	ctx := context.Background()
	e := engine.New(ctx, "test", "tester", engine.WithDepth(3))

	for _, m := range []string{"f2f3", "e7e5", "g2g4"} {
		require.NoError(t, e.UserMove(ctx, m))
	}

	pv := e.Think(ctx, nil)
	require.NotEmpty(t, pv.Moves)
	assert.Equal(t, "d8h4", pv.Moves[0].String())
	assert.GreaterOrEqual(t, pv.Score, 9000)

	require.NoError(t, e.Apply(ctx, pv.Moves[0]))
	result, over := e.Result(ctx)
	require.True(t, over)
	assert.Equal(t, "0-1 {Black mates}", result)
}
