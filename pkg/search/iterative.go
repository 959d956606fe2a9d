package search

import (
	"context"
	"sync"
	"time"

	"github.com/vancezuo/parallel-chess/pkg/board"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

// Launcher is an interface for managing searches.
type Launcher interface {
	// Launch a new iterative-deepening search over the given context. The
	// channel emits one PV per completed depth and is closed when the search
	// is exhausted. The search can be stopped at any time.
	Launch(ctx context.Context, c *Context, sh *Shared, opt Options) (Handle, <-chan PV)
}

// Handle is an interface for the caller to manage a running search.
type Handle interface {
	// Halt halts the search, if running, and returns the principal variation
	// of the last completed iteration. A partial iteration is discarded.
	// Idempotent.
	Halt() PV
}

// Iterative runs the selected search variant at widening depth, one PV per
// iteration, until the depth limit, the clock, or a forced mate ends it.
type Iterative struct{}

func (i *Iterative) Launch(ctx context.Context, c *Context, sh *Shared, opt Options) (Handle, <-chan PV) {
	out := make(chan PV, board.MaxPly)
	h := &handle{
		init: iox.NewAsyncCloser(),
		quit: iox.NewAsyncCloser(),
		sh:   sh,
	}
	go h.process(ctx, c, sh, opt, out)

	return h, out
}

type handle struct {
	init, quit iox.AsyncCloser
	sh         *Shared

	pv PV
	mu sync.Mutex
}

func (h *handle) process(ctx context.Context, c *Context, sh *Shared, opt Options, out chan PV) {
	defer h.init.Close()
	defer close(out)

	maxDepth := board.MaxPly - 1
	if v, ok := opt.DepthLimit.V(); ok && v > 0 && v < maxDepth {
		maxDepth = v
	}

	sh.Reset()
	start := sh.Clock()
	limit := int64(1) << 25
	if v, ok := opt.TimeLimit.V(); ok {
		limit = v.Milliseconds()
	}
	sh.StopTime = start + limit

	// raise the stop flag if the caller goes away mid-iteration
	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
	defer cancel()
	go func() {
		<-wctx.Done()
		sh.Stop.Store(true)
	}()

	c.PV = [board.MaxPly][board.MaxPly]board.Move{}
	c.PVLen = [board.MaxPly]int{}

	for depth := 1; !h.quit.IsClosed(); depth++ {
		iterStart := time.Now()

		c.FollowPV = true
		r := &run{c: c, sh: sh}
		x := r.rootSearch(-Infinity, Infinity, depth)

		if sh.Stop.Load() || contextx.IsCancelled(ctx) {
			break // halted or out of time: discard the partial iteration
		}

		pv := PV{
			Depth: depth,
			Moves: c.BestLine(),
			Score: x,
			Nodes: sh.Nodes.Load(),
			Time:  time.Since(iterStart),
		}

		logw.Debugf(ctx, "Searched %v", pv)

		h.mu.Lock()
		h.pv = pv
		h.mu.Unlock()
		out <- pv

		h.init.Close()
		if depth == maxDepth {
			break
		}
		if x > MateWindow || x < -MateWindow {
			break // forced mate: deeper searches cannot improve it
		}
	}

	// make sure to take back the line being searched
	for c.B.Ply > 0 {
		c.B.Takeback()
	}
}

func (h *handle) Halt() PV {
	<-h.init.Closed()
	h.sh.Stop.Store(true)
	h.quit.Close()

	h.mu.Lock()
	defer h.mu.Unlock()

	return h.pv
}
