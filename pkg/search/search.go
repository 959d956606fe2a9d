// Package search contains the search kernel: iterative-deepening negamax
// with alpha-beta pruning and quiescence, plus three parallel decompositions
// of the same tree (root splitting, principal-variation splitting and
// parallel quiescence) selectable at runtime.
package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/vancezuo/parallel-chess/pkg/board"
	"github.com/vancezuo/parallel-chess/pkg/eval"

	"github.com/seekerror/stdlib/pkg/lang"
)

const (
	// Infinity is the search window bound; mate scores are Infinity less the
	// mating ply so shorter mates score higher.
	Infinity = 10000
	// MateWindow stops deepening once a forced mate is within reach.
	MateWindow = 9000
)

// Strategy selects the full-width search variant.
type Strategy int

const (
	SerialSearch Strategy = iota
	RootSplit
	PVSplit
)

func (s Strategy) String() string {
	switch s {
	case RootSplit:
		return "root-split"
	case PVSplit:
		return "pv-split"
	default:
		return "serial"
	}
}

// QuiesceKind selects the quiescence search variant.
type QuiesceKind int

const (
	SerialQuiesce QuiesceKind = iota
	ParallelQuiesce
)

func (q QuiesceKind) String() string {
	if q == ParallelQuiesce {
		return "parallel"
	}
	return "serial"
}

// Config selects the search, quiescence and evaluation variants and the
// worker count used by the parallel ones.
type Config struct {
	Strategy Strategy
	Quiesce  QuiesceKind
	Eval     eval.Kind
	Threads  int
}

func (c Config) String() string {
	return fmt.Sprintf("{search=%v, quiesce=%v, eval=%v, threads=%v}", c.Strategy, c.Quiesce, c.Eval, c.Threads)
}

// PV represents the principal variation for some search depth.
type PV struct {
	Depth int           // depth of search
	Moves []board.Move  // principal variation
	Score int           // score at depth, side to move's perspective
	Nodes uint64        // nodes searched so far this think
	Time  time.Duration // time taken by this iteration
	Book  bool          // move came from the opening book
}

func (p PV) String() string {
	return fmt.Sprintf("depth=%v score=%v nodes=%v time=%v pv=%v", p.Depth, p.Score, p.Nodes, p.Time, board.PrintMoves(p.Moves))
}

// Options hold dynamic search options for a single search.
type Options struct {
	// DepthLimit, if set, limits the search to the given ply depth.
	DepthLimit lang.Optional[int]
	// TimeLimit, if set, halts the search after the given duration.
	TimeLimit lang.Optional[time.Duration]
}

func (o Options) String() string {
	var ret []string
	if v, ok := o.DepthLimit.V(); ok {
		ret = append(ret, fmt.Sprintf("depth=%v", v))
	}
	if v, ok := o.TimeLimit.V(); ok {
		ret = append(ret, fmt.Sprintf("time=%v", v))
	}
	return fmt.Sprintf("[%v]", strings.Join(ret, ", "))
}
