package search

import (
	"time"

	"go.uber.org/atomic"
)

// Clock returns monotonic milliseconds. It is the only time source the
// kernel consumes, injectable for tests.
type Clock func() int64

// clockBase anchors SystemClock to a monotonic clock reading.
var clockBase = time.Now()

// SystemClock is the Clock backed by the process's monotonic clock.
func SystemClock() int64 {
	return time.Since(clockBase).Milliseconds()
}

// Shared is the cross-worker search state. Everything here is either atomic
// (node counter, stop and cutoff flags, history heuristic) or read-only
// during a search (config, clock, stop time). All remaining search state is
// private per worker in a Context.
type Shared struct {
	Cfg   Config
	Clock Clock

	// StopTime is the clock reading at which the search times out. Read-only
	// once the think starts.
	StopTime int64

	// Nodes counts searched nodes across all workers. Increments are
	// eventually consistent; exact totals need not match serial counts.
	Nodes atomic.Uint64

	// Stop transitions false to true only; it is raised by Timeout, which the
	// kernel polls every 1024 nodes. Cutoff is cleared at each fork point and
	// then only raised, by a worker that fails high. Workers check both
	// between moves.
	Stop   atomic.Bool
	Cutoff atomic.Bool

	// history[from][to] accumulates depth on alpha improvements and orders
	// quiet moves. A statistical hint only, shared across workers.
	history [64][64]atomic.Uint32
}

// NewShared returns shared search state with the given configuration.
func NewShared(cfg Config, clock Clock) *Shared {
	if clock == nil {
		clock = SystemClock
	}
	return &Shared{Cfg: cfg, Clock: clock}
}

// Reset prepares the shared state for a new think: counters, flags and the
// history table are cleared.
func (s *Shared) Reset() {
	s.Nodes.Store(0)
	s.Stop.Store(false)
	s.Cutoff.Store(false)
	for from := 0; from < 64; from++ {
		for to := 0; to < 64; to++ {
			s.history[from][to].Store(0)
		}
	}
}

// Timeout sets the stop flag and returns true once the clock passes StopTime.
func (s *Shared) Timeout() bool {
	if s.Clock() >= s.StopTime {
		s.Stop.Store(true)
		return true
	}
	return false
}

// AddHistory credits a move that improved alpha at the given depth.
func (s *Shared) AddHistory(from, to, depth int) {
	s.history[from][to].Add(uint32(depth))
}

// HistoryScore is the quiet-move ordering score; it satisfies
// board.QuietScorer.
func (s *Shared) HistoryScore(from, to int) int32 {
	return int32(s.history[from][to].Load())
}
