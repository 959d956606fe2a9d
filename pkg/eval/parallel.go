package eval

import (
	"sync/atomic"

	"github.com/vancezuo/parallel-chess/pkg/board"

	"golang.org/x/sync/errgroup"
)

// Kind selects the evaluator variant.
type Kind int

const (
	Serial Kind = iota
	Parallel
)

func (k Kind) String() string {
	if k == Parallel {
		return "parallel"
	}
	return "serial"
}

// Evaluate dispatches to the selected variant. Both variants return identical
// values for any board.
func (k Kind) Evaluate(b *board.Board, workers int) int {
	if k == Parallel {
		return ParallelEvaluate(b, workers)
	}
	return Evaluate(b)
}

// ParallelEvaluate is Evaluate with the per-square pass fanned out across
// workers. The first-pass aggregates are computed once up front; each worker
// accumulates a private partial sum over its chunk of squares and the partials
// are reduced atomically. Integer addition makes the result bit-identical to
// the serial pass regardless of partitioning.
func ParallelEvaluate(b *board.Board, workers int) int {
	var a accum
	a.collect(b)

	var score [2]int64
	score[board.Light] = int64(a.pieceMat[board.Light] + a.pawnMat[board.Light])
	score[board.Dark] = int64(a.pieceMat[board.Dark] + a.pawnMat[board.Dark])

	if workers < 1 {
		workers = 1
	}
	chunk := (board.NumSquares + workers - 1) / workers

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		lo, hi := w*chunk, (w+1)*chunk
		if hi > board.NumSquares {
			hi = board.NumSquares
		}
		if lo >= hi {
			break
		}
		g.Go(func() error {
			var own [2]int64
			for i := lo; i < hi; i++ {
				if b.Color[i] == board.NoColor {
					continue
				}
				own[b.Color[i]] += int64(a.square(b, i))
			}
			atomic.AddInt64(&score[board.Light], own[board.Light])
			atomic.AddInt64(&score[board.Dark], own[board.Dark])
			return nil
		})
	}
	_ = g.Wait()

	if b.Side == board.Light {
		return int(score[board.Light] - score[board.Dark])
	}
	return int(score[board.Dark] - score[board.Light])
}
