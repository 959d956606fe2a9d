package xboard_test

import (
	"context"
	"strings"
	"testing"

	"github.com/vancezuo/parallel-chess/pkg/engine"
	"github.com/vancezuo/parallel-chess/pkg/engine/xboard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drive(t *testing.T, commands ...string) []string {
	t.Helper()

	ctx := context.Background()
	e := engine.New(ctx, "test", "tester", engine.WithDepth(2))

	in := make(chan string, len(commands))
	for _, cmd := range commands {
		in <- cmd
	}
	close(in)

	_, out := xboard.NewDriver(ctx, e, in)
	var lines []string
	for line := range out {
		lines = append(lines, line)
	}
	return lines
}

func find(lines []string, prefix string) (string, bool) {
	for _, line := range lines {
		if strings.HasPrefix(line, prefix) {
			return line, true
		}
	}
	return "", false
}

func TestRespondsToMove(t *testing.T) {
	lines := drive(t, "xboard", "new", "sd 2", "e2e4", "quit")

	move, ok := find(lines, "move ")
	require.True(t, ok, "engine must answer with a move: %v", lines)
	assert.Len(t, strings.Fields(move), 2)
}

func TestForceStopsEngine(t *testing.T) {
	lines := drive(t, "xboard", "new", "force", "e2e4", "e7e5", "quit")
	_, ok := find(lines, "move ")
	assert.False(t, ok, "forced engine must not move: %v", lines)
}

func TestUnknownCommand(t *testing.T) {
	lines := drive(t, "xboard", "bogus", "quit")
	_, ok := find(lines, "Error (unknown command): bogus")
	assert.True(t, ok)
}

func TestHint(t *testing.T) {
	lines := drive(t, "xboard", "new", "force", "sd 2", "hint", "quit")
	_, ok := find(lines, "Hint: ")
	assert.True(t, ok)
}

func TestPostOutput(t *testing.T) {
	lines := drive(t, "xboard", "new", "sd 2", "post", "go", "quit")

	// post format: depth score time nodes pv...
	found := false
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) >= 5 && fields[0] == "1" {
			found = true
		}
	}
	assert.True(t, found, "post output expected: %v", lines)
}
