// Package console contains the interactive console driver.
package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vancezuo/parallel-chess/pkg/board"
	"github.com/vancezuo/parallel-chess/pkg/board/fen"
	"github.com/vancezuo/parallel-chess/pkg/engine"
	"github.com/vancezuo/parallel-chess/pkg/eval"
	"github.com/vancezuo/parallel-chess/pkg/search"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/iox"
	"go.uber.org/atomic"
)

// Driver implements the interactive console protocol.
type Driver struct {
	iox.AsyncCloser

	e   *engine.Engine
	out chan<- string

	computerSide board.Color // NoColor when the computer is not playing
	autoplay     bool

	xboard atomic.Bool
}

func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		AsyncCloser:  iox.NewAsyncCloser(),
		e:            e,
		out:          out,
		computerSide: board.NoColor,
	}
	go d.process(ctx, in)

	return d, out
}

// SwitchedXboard reports whether the driver closed because the operator
// asked for the xboard protocol.
func (d *Driver) SwitchedXboard() bool {
	return d.xboard.Load()
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "Console protocol initialized")

	d.out <- fmt.Sprintf("%v (%v)", d.e.Name(), d.e.Author())
	d.out <- `"help" displays a list of commands.`
	d.out <- ""

	for {
		d.playWhileComputerTurn(ctx)

		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}

			parts := strings.Fields(line)
			if len(parts) == 0 {
				break
			}
			cmd, args := parts[0], parts[1:]

			switch cmd {
			case "on":
				d.computerSide = d.e.Side()

			case "off":
				d.computerSide = board.NoColor

			case "auto":
				d.autoplay = true

			case "st":
				if sec, ok := intArg(args); ok {
					d.e.SetMoveTime(time.Duration(sec) * time.Second)
				}

			case "sd":
				if depth, ok := intArg(args); ok {
					d.e.SetDepth(depth)
				}

			case "undo":
				d.computerSide = board.NoColor
				d.autoplay = false
				_ = d.e.TakeBack(ctx)

			case "new":
				d.computerSide = board.NoColor
				d.autoplay = false
				d.e.Reset(ctx)

			case "d":
				d.printBoard()

			case "bench":
				d.computerSide = board.NoColor
				d.autoplay = false
				d.bench(ctx, strings.Join(args, " "))

			case "p":
				d.selectParallel(args)

			case "t":
				if n, ok := intArg(args); ok {
					d.e.SetThreads(n)
					d.out <- fmt.Sprintf("Set to use %d threads.", n)
				}

			case "bye":
				d.out <- "Share and enjoy!"
				return

			case "xboard":
				d.xboard.Store(true)
				return

			case "help":
				d.help()

			default:
				// assume the user entered a move
				if err := d.e.UserMove(ctx, cmd); err != nil {
					d.out <- "Illegal move."
				} else if result, over := d.e.Result(ctx); over {
					d.out <- result
				}
			}

		case <-d.Closed():
			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

// playWhileComputerTurn thinks and moves for as long as it is the computer's
// turn, or in autoplay until the game ends.
func (d *Driver) playWhileComputerTurn(ctx context.Context) {
	for d.autoplay || d.computerSide == d.e.Side() {
		start := time.Now()
		d.out <- "ply      nodes  score  pv"
		pv := d.e.Think(ctx, d.post)

		if len(pv.Moves) == 0 {
			d.out <- "(no legal moves)"
			d.computerSide = board.NoColor
			d.autoplay = false
			return
		}

		d.out <- fmt.Sprintf("Time: %d ms", time.Since(start).Milliseconds())
		d.out <- fmt.Sprintf("Nodes: %d", pv.Nodes)
		d.out <- fmt.Sprintf("Computer's move: %v", pv.Moves[0])
		if err := d.e.Apply(ctx, pv.Moves[0]); err != nil {
			logw.Errorf(ctx, "Engine move rejected: %v", err)
			return
		}
		d.printBoard()

		if result, over := d.e.Result(ctx); over {
			d.out <- result
			d.computerSide = board.NoColor
			d.autoplay = false
			return
		}
	}
}

func (d *Driver) post(pv search.PV) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%3d  %9d  %5d ", pv.Depth, pv.Nodes, pv.Score)
	for _, m := range pv.Moves {
		fmt.Fprintf(&sb, " %v", m)
	}
	d.out <- sb.String()
}

// selectParallel resets every function to serial, then applies at most one
// parallel selection.
func (d *Driver) selectParallel(args []string) {
	cfg := d.e.Config()
	cfg.Strategy = search.SerialSearch
	cfg.Quiesce = search.SerialQuiesce
	cfg.Eval = eval.Serial

	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	switch arg {
	case "e":
		cfg.Eval = eval.Parallel
		d.out <- "Using parallel static evaluation."
	case "q":
		cfg.Quiesce = search.ParallelQuiesce
		d.out <- "Using parallel quiescence search."
	case "r":
		cfg.Strategy = search.RootSplit
		d.out <- "Using parallel root-splitting alpha-beta search."
	case "v":
		cfg.Strategy = search.PVSplit
		d.out <- "Using parallel PV-splitting alpha-beta search."
	default:
		d.out <- "Reset to serial functions."
	}
	d.e.SetConfig(cfg)
}

// bench loads the given FEN (or the built-in benchmark position) and times a
// think on it.
func (d *Driver) bench(ctx context.Context, fenStr string) {
	b := engine.BenchBoard()
	if fenStr != "" {
		parsed, err := fen.Decode(fenStr)
		if err != nil {
			d.out <- fmt.Sprintf("FEN parse error: %v", err)
			d.out <- "Using built-in benchmark position."
		} else {
			b = parsed
			d.out <- fmt.Sprintf("Loaded: %v", fenStr)
		}
	}
	d.e.SetBoard(ctx, b)
	d.printBoard()

	const iterations = 1
	bestTime := time.Duration(0)
	bestNodes := uint64(0)
	for i := 0; i < iterations; i++ {
		start := time.Now()
		d.out <- "ply      nodes  score  pv"
		pv := d.e.Think(ctx, d.post)
		elapsed := time.Since(start)

		if i == 0 || elapsed < bestTime {
			bestTime = elapsed
			bestNodes = pv.Nodes
		}

		d.out <- fmt.Sprintf("Time: %d ms", elapsed.Milliseconds())
		d.out <- fmt.Sprintf("Nodes: %d (%d per second)", pv.Nodes, nps(pv.Nodes, elapsed))
	}
	if iterations > 1 {
		d.out <- ""
		d.out <- fmt.Sprintf("Best time: %d ms", bestTime.Milliseconds())
		d.out <- fmt.Sprintf("Nodes per second: %d", nps(bestNodes, bestTime))
	}

	d.e.Reset(ctx)
}

func nps(nodes uint64, elapsed time.Duration) int64 {
	if elapsed <= 0 {
		return 0
	}
	return int64(float64(nodes) / elapsed.Seconds())
}

func (d *Driver) printBoard() {
	b := d.e.Board()
	for _, line := range strings.Split(b.String(), "\n") {
		d.out <- line
	}
}

func (d *Driver) help() {
	d.out <- "on - computer plays for the side to move"
	d.out <- "off - computer stops playing"
	d.out <- "auto - computer plays automatically, until game ends"
	d.out <- "st n - set search time to n seconds per move"
	d.out <- "sd n - set search depth to n ply per move"
	d.out <- "undo - takes back a move"
	d.out <- "new - starts a new game"
	d.out <- "d - display the board"
	d.out <- "bench [fen] - benchmark built-in, or fen, position"
	d.out <- "p [e|q|r|v] - set parallel function (rest use serial)"
	d.out <- "    e = parallel static evaluation"
	d.out <- "    q = parallel quiescence search"
	d.out <- "    r = parallel (root-splitting) alpha-beta search"
	d.out <- "    v = parallel (PV-splitting) alpha-beta search"
	d.out <- "t n - set number of threads to n"
	d.out <- "bye - exit the program"
	d.out <- "xboard - switch to XBoard mode"
	d.out <- "Enter moves in coordinate notation, e.g., e2e4, e7e8q"
}

func intArg(args []string) (int, bool) {
	if len(args) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, false
	}
	return n, true
}
