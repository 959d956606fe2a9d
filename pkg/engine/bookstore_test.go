package engine_test

import (
	"context"
	"strings"
	"testing"

	"github.com/vancezuo/parallel-chess/pkg/board"
	"github.com/vancezuo/parallel-chess/pkg/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreBook(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	lines, err := engine.NewLineBook(strings.NewReader("e2e4 e7e5\ne2e4 c7c5\n"))
	require.NoError(t, err)

	sb, err := engine.OpenStoreBook(ctx, dir, lines)
	require.NoError(t, err)

	b := board.New()
	cands, err := sb.Find(ctx, b, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"e2e4", "e2e4"}, cands)

	// probes are by position: the same position reached by any line matches
	m, ok := engine.ResolveMove(b, "e2e4")
	require.True(t, ok)
	require.True(t, b.MakeMove(m))
	b.Ply = 0

	cands, err = sb.Find(ctx, b, []string{"e2e4"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"e7e5", "c7c5"}, cands)

	require.NoError(t, sb.Close())

	// reopening without a source keeps the imported entries
	sb, err = engine.OpenStoreBook(ctx, dir, nil)
	require.NoError(t, err)
	defer sb.Close()

	cands, err = sb.Find(ctx, board.New(), nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"e2e4", "e2e4"}, cands)
}

func TestStoreBookUnknownPosition(t *testing.T) {
	ctx := context.Background()

	sb, err := engine.OpenStoreBook(ctx, t.TempDir(), nil)
	require.NoError(t, err)
	defer sb.Close()

	cands, err := sb.Find(ctx, board.New(), nil)
	require.NoError(t, err)
	assert.Empty(t, cands)
}
