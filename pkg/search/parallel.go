package search

import (
	"sync"

	"github.com/vancezuo/parallel-chess/pkg/board"

	"go.uber.org/atomic"
)

// mergeCell is the per-fork-point reduction cell. Workers that improve on
// the shared alpha publish their score and line here under the mutex; a beta
// cutoff raises the global cutoff flag instead. Whichever of two improving
// workers enters the critical section first wins ties -- ordering is
// deliberately not made deterministic.
type mergeCell struct {
	mu      sync.Mutex
	alpha   int
	bestPV  [board.MaxPly]board.Move
	bestLen int
	legal   atomic.Bool
}

// fanOut distributes the arena moves [begin, end) across workers with
// dynamic unit-chunk scheduling. Each worker is seeded with a full copy of
// the master's context, makes its move and searches the subtree serially
// (full-width at depth-1, or captures-only when caps is set). The master's
// context is unchanged on return except through the merge cell.
func (r *run) fanOut(cell *mergeCell, begin, end, beta, depth int, caps bool) {
	workers := r.sh.Cfg.Threads
	if workers < 1 {
		workers = 1
	}
	if n := end - begin; workers > n {
		workers = n
	}

	next := atomic.NewInt64(int64(begin))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		fork := *r.c
		go func(c *Context) {
			defer wg.Done()
			wr := &run{c: c, sh: r.sh}
			for {
				i := int(next.Inc() - 1)
				if i >= end {
					return
				}
				if r.sh.Stop.Load() || r.sh.Cutoff.Load() {
					continue
				}
				m := c.B.GenDat[i].Move
				if !c.B.MakeMove(m) {
					continue
				}
				cell.legal.Store(true)

				cell.mu.Lock()
				a := cell.alpha
				cell.mu.Unlock()

				var x int
				if caps {
					x = -wr.quiesce(-beta, -a)
				} else {
					x = -wr.search(-beta, -a, depth-1)
				}
				c.B.Takeback()

				cell.mu.Lock()
				if x > cell.alpha && !r.sh.Cutoff.Load() {
					if !caps {
						r.sh.AddHistory(m.From(), m.To(), depth)
					}
					if x >= beta {
						r.sh.Cutoff.Store(true)
					} else {
						cell.alpha = x
						ply := c.B.Ply
						cell.bestPV[ply] = m
						for j := ply + 1; j < c.PVLen[ply+1]; j++ {
							cell.bestPV[j] = c.PV[ply+1][j]
						}
						cell.bestLen = c.PVLen[ply+1]
					}
				}
				cell.mu.Unlock()
			}
		}(&fork)
	}
	wg.Wait()
}

// mergePV copies the best line found by any worker back into the master's PV
// table.
func (r *run) mergePV(cell *mergeCell) {
	if cell.bestLen == 0 {
		return
	}
	ply := r.c.B.Ply
	r.c.PV[ply][ply] = cell.bestPV[ply]
	for j := ply + 1; j < cell.bestLen; j++ {
		r.c.PV[ply][j] = cell.bestPV[j]
	}
	r.c.PVLen[ply] = cell.bestLen
}

// rootSplit searches the current ply's moves in parallel: the move list is
// generated and fully pre-sorted serially, then fanned out. Subtrees recurse
// into the serial search.
func (r *run) rootSplit(alpha, beta, depth int) int {
	if depth == 0 {
		return r.quiesceRoot(alpha, beta)
	}
	if r.countNode() {
		return alpha
	}

	b := &r.c.B
	r.c.PVLen[b.Ply] = b.Ply

	if b.Ply > 0 && b.Reps() > 0 {
		return 0
	}
	if b.Ply >= board.MaxPly-1 || b.Hply >= board.HistStack-1 {
		return r.evalStatic()
	}

	check := b.InCheck(b.Side)
	if check {
		depth++
	}

	b.Gen(r.sh.HistoryScore)
	if r.c.FollowPV {
		r.sortPV()
	}

	begin, end := b.FirstMove[b.Ply], b.FirstMove[b.Ply+1]
	for i := begin; i < end; i++ {
		r.sort(i)
	}

	r.sh.Cutoff.Store(false)
	cell := &mergeCell{alpha: alpha}
	r.fanOut(cell, begin, end, beta, depth, false)
	r.mergePV(cell)

	if r.sh.Cutoff.Load() {
		return beta
	}
	if !cell.legal.Load() {
		if check {
			return -Infinity + b.Ply
		}
		return 0
	}
	if b.Fifty >= 100 {
		return 0
	}
	return cell.alpha
}

// pvSplit is rootSplit except the first legal move is searched serially
// first with the full window, recursing into pvSplit again so the split
// happens at every ply down the principal variation. The alpha it
// establishes seeds the parallel siblings.
func (r *run) pvSplit(alpha, beta, depth int) int {
	if depth == 0 {
		return r.quiesceRoot(alpha, beta)
	}
	if r.countNode() {
		return alpha
	}

	b := &r.c.B
	r.c.PVLen[b.Ply] = b.Ply

	if b.Ply > 0 && b.Reps() > 0 {
		return 0
	}
	if b.Ply >= board.MaxPly-1 || b.Hply >= board.HistStack-1 {
		return r.evalStatic()
	}

	check := b.InCheck(b.Side)
	if check {
		depth++
	}

	b.Gen(r.sh.HistoryScore)
	if r.c.FollowPV {
		r.sortPV()
	}

	begin, end := b.FirstMove[b.Ply], b.FirstMove[b.Ply+1]
	cell := &mergeCell{alpha: alpha}

	// search the first legal move before doing the rest in parallel; the
	// index advances past it whether or not it improved alpha
	i0 := begin
	for ; i0 < end; i0++ {
		r.sort(i0)
		m := b.GenDat[i0].Move
		if !b.MakeMove(m) {
			continue
		}
		cell.legal.Store(true)

		x := -r.pvSplit(-beta, -cell.alpha, depth-1)
		b.Takeback()
		if r.sh.Stop.Load() {
			return cell.alpha
		}
		if x > cell.alpha {
			r.sh.AddHistory(m.From(), m.To(), depth)
			if x >= beta {
				return beta
			}
			cell.alpha = x
			r.updatePV(m)
			ply := b.Ply
			cell.bestPV[ply] = m
			for j := ply + 1; j < r.c.PVLen[ply+1]; j++ {
				cell.bestPV[j] = r.c.PV[ply+1][j]
			}
			cell.bestLen = r.c.PVLen[ply+1]
		}
		i0++
		break
	}

	for i := i0; i < end; i++ {
		r.sort(i)
	}
	r.sh.Cutoff.Store(false)
	r.fanOut(cell, i0, end, beta, depth, false)
	r.mergePV(cell)

	if r.sh.Cutoff.Load() {
		return beta
	}
	if !cell.legal.Load() {
		if check {
			return -Infinity + b.Ply
		}
		return 0
	}
	if b.Fifty >= 100 {
		return 0
	}
	return cell.alpha
}

// pQuiesce is root splitting applied to the quiescence capture list; the
// inner recursion is the serial quiescence.
func (r *run) pQuiesce(alpha, beta int) int {
	if r.countNode() {
		return alpha
	}

	b := &r.c.B
	r.c.PVLen[b.Ply] = b.Ply

	if b.Ply >= board.MaxPly-1 || b.Hply >= board.HistStack-1 {
		return r.evalStatic()
	}

	x := r.evalStatic()
	if x >= beta {
		return beta
	}
	if x > alpha {
		alpha = x
	}

	b.GenCaps(r.sh.HistoryScore)
	if r.c.FollowPV {
		r.sortPV()
	}

	begin, end := b.FirstMove[b.Ply], b.FirstMove[b.Ply+1]
	for i := begin; i < end; i++ {
		r.sort(i)
	}

	r.sh.Cutoff.Store(false)
	cell := &mergeCell{alpha: alpha}
	r.fanOut(cell, begin, end, beta, 0, true)
	r.mergePV(cell)

	if r.sh.Cutoff.Load() {
		return beta
	}
	return cell.alpha
}
