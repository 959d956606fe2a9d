package search

import (
	"github.com/vancezuo/parallel-chess/pkg/board"
)

// run binds one worker's private context to the shared search state. The
// serial kernel recurses on run methods; the parallel variants create a run
// per worker over a forked context.
type run struct {
	c  *Context
	sh *Shared
}

// rootSearch dispatches to the selected full-width variant. Only the root
// call dispatches: subtrees below a fork point recurse serially, and the
// PV-split variant re-splits along the principal variation itself.
func (r *run) rootSearch(alpha, beta, depth int) int {
	switch r.sh.Cfg.Strategy {
	case RootSplit:
		return r.rootSplit(alpha, beta, depth)
	case PVSplit:
		return r.pvSplit(alpha, beta, depth)
	default:
		return r.search(alpha, beta, depth)
	}
}

// quiesceRoot dispatches to the selected quiescence variant at the horizon.
func (r *run) quiesceRoot(alpha, beta int) int {
	if r.sh.Cfg.Quiesce == ParallelQuiesce {
		return r.pQuiesce(alpha, beta)
	}
	return r.quiesce(alpha, beta)
}

func (r *run) evalStatic() int {
	return r.sh.Cfg.Eval.Evaluate(&r.c.B, r.sh.Cfg.Threads)
}

// countNode accounts one node and polls the clock every 1024 nodes. Returns
// true if the search should unwind.
func (r *run) countNode() bool {
	n := r.sh.Nodes.Inc()
	return n&1023 == 0 && r.sh.Timeout()
}

// search is fail-hard negamax: a fail high returns exactly beta, and the
// move loop otherwise returns alpha as raised by the best move, so those
// exits stay within [alpha, beta]. The repetition, depth-cap, mate, stalemate
// and fifty-move exits return their own score unclamped.
func (r *run) search(alpha, beta, depth int) int {
	// at the horizon, quiescence provides a reasonable score
	if depth == 0 {
		return r.quiesceRoot(alpha, beta)
	}
	if r.countNode() {
		return alpha
	}

	b := &r.c.B
	r.c.PVLen[b.Ply] = b.Ply

	// below the root a first repetition is claimed as a draw; the root has
	// to pick a move regardless
	if b.Ply > 0 && b.Reps() > 0 {
		return 0
	}

	if b.Ply >= board.MaxPly-1 || b.Hply >= board.HistStack-1 {
		return r.evalStatic()
	}

	// search deeper when in check; MaxPly bounds the extension
	check := b.InCheck(b.Side)
	if check {
		depth++
	}

	b.Gen(r.sh.HistoryScore)
	if r.c.FollowPV {
		r.sortPV()
	}

	legal := false
	for i := b.FirstMove[b.Ply]; i < b.FirstMove[b.Ply+1]; i++ {
		r.sort(i)
		m := b.GenDat[i].Move
		if !b.MakeMove(m) {
			continue
		}
		legal = true

		x := -r.search(-beta, -alpha, depth-1)
		b.Takeback()
		if r.sh.Stop.Load() {
			return alpha
		}
		if x > alpha {
			// order the move higher next time it can be searched
			r.sh.AddHistory(m.From(), m.To(), depth)
			if x >= beta {
				return beta
			}
			alpha = x
			r.updatePV(m)
		}
	}

	// no legal moves is checkmate or stalemate
	if !legal {
		if check {
			return -Infinity + b.Ply
		}
		return 0
	}

	if b.Fifty >= 100 {
		return 0
	}
	return alpha
}

// quiesce searches captures and promotions only, letting the static
// evaluation stand pat to cut the search off.
func (r *run) quiesce(alpha, beta int) int {
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

	for i := b.FirstMove[b.Ply]; i < b.FirstMove[b.Ply+1]; i++ {
		r.sort(i)
		m := b.GenDat[i].Move
		if !b.MakeMove(m) {
			continue
		}

		x := -r.quiesce(-beta, -alpha)
		b.Takeback()
		if r.sh.Stop.Load() || r.sh.Cutoff.Load() {
			return alpha
		}
		if x > alpha {
			if x >= beta {
				return beta
			}
			alpha = x
			r.updatePV(m)
		}
	}
	return alpha
}

// updatePV splices the child line after the improving move.
func (r *run) updatePV(m board.Move) {
	ply := r.c.B.Ply
	r.c.PV[ply][ply] = m
	for j := ply + 1; j < r.c.PVLen[ply+1]; j++ {
		r.c.PV[ply][j] = r.c.PV[ply+1][j]
	}
	r.c.PVLen[ply] = r.c.PVLen[ply+1]
}

// sort selection-sorts one slot: the highest-scored move in [from, end) is
// swapped to position from, so the best unexamined move is searched next.
func (r *run) sort(from int) {
	b := &r.c.B
	bs := int32(-1)
	bi := from
	for i := from; i < b.FirstMove[b.Ply+1]; i++ {
		if b.GenDat[i].Score > bs {
			bs = b.GenDat[i].Score
			bi = i
		}
	}
	b.GenDat[from], b.GenDat[bi] = b.GenDat[bi], b.GenDat[from]
}

// sortPV looks for this ply's move of the previous iteration's principal
// variation in the move list and boosts it to be searched first. If the PV
// move is not in the list the descendants stop looking.
func (r *run) sortPV() {
	b := &r.c.B
	r.c.FollowPV = false
	for i := b.FirstMove[b.Ply]; i < b.FirstMove[b.Ply+1]; i++ {
		if b.GenDat[i].Move == r.c.PV[0][b.Ply] {
			r.c.FollowPV = true
			b.GenDat[i].Score += 10000000
			return
		}
	}
}
