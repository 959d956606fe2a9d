// Package xboard contains a driver for using the engine under the xboard
// protocol.
//
// See: https://www.gnu.org/software/xboard/engine-intf.html
package xboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vancezuo/parallel-chess/pkg/board"
	"github.com/vancezuo/parallel-chess/pkg/engine"
	"github.com/vancezuo/parallel-chess/pkg/search"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

// Driver implements the xboard protocol subset: new, quit, force, white,
// black, st, sd, time, otim, go, hint, undo, remove, post, nopost and
// coordinate moves.
type Driver struct {
	iox.AsyncCloser

	e   *engine.Engine
	out chan<- string

	computerSide board.Color // NoColor when forced
	post         bool
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

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "XBoard protocol initialized")

	for {
		d.playIfComputerTurn(ctx)

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
			case "xboard":
				// already in xboard mode

			case "new":
				d.e.Reset(ctx)
				d.computerSide = board.Dark

			case "quit":
				return

			case "force":
				d.computerSide = board.NoColor

			case "white":
				d.e.SetSide(ctx, board.Light)
				d.computerSide = board.Dark

			case "black":
				d.e.SetSide(ctx, board.Dark)
				d.computerSide = board.Light

			case "st":
				if sec, ok := intArg(args); ok {
					d.e.SetMoveTime(time.Duration(sec) * time.Second)
				}

			case "sd":
				if depth, ok := intArg(args); ok {
					d.e.SetDepth(depth)
				}

			case "time":
				// centiseconds of clock left; budget a thirtieth of it
				if cs, ok := intArg(args); ok {
					d.e.SetMoveTime(time.Duration(cs*10/30) * time.Millisecond)
				}

			case "otim":
				// opponent's clock is ignored

			case "go":
				d.computerSide = d.e.Side()

			case "hint":
				pv := d.e.Think(ctx, nil)
				if len(pv.Moves) > 0 {
					d.out <- fmt.Sprintf("Hint: %v", pv.Moves[0])
				}

			case "undo":
				_ = d.e.TakeBack(ctx)

			case "remove":
				_ = d.e.TakeBack(ctx)
				_ = d.e.TakeBack(ctx)

			case "post":
				d.post = true

			case "nopost":
				d.post = false

			default:
				if err := d.e.UserMove(ctx, cmd); err != nil {
					d.out <- fmt.Sprintf("Error (unknown command): %v", cmd)
				} else {
					d.printResult(ctx)
				}
			}

		case <-d.Closed():
			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

func (d *Driver) playIfComputerTurn(ctx context.Context) {
	for d.computerSide == d.e.Side() {
		start := time.Now()
		var post engine.PostFunc
		if d.post {
			post = func(pv search.PV) {
				var sb strings.Builder
				fmt.Fprintf(&sb, "%d %d %d %d", pv.Depth, pv.Score, time.Since(start).Milliseconds()/10, pv.Nodes)
				for _, m := range pv.Moves {
					fmt.Fprintf(&sb, " %v", m)
				}
				d.out <- sb.String()
			}
		}

		pv := d.e.Think(ctx, post)
		if len(pv.Moves) == 0 {
			d.computerSide = board.NoColor
			return
		}

		d.out <- fmt.Sprintf("move %v", pv.Moves[0])
		if err := d.e.Apply(ctx, pv.Moves[0]); err != nil {
			logw.Errorf(ctx, "Engine move rejected: %v", err)
			d.computerSide = board.NoColor
			return
		}
		d.printResult(ctx)
	}
}

func (d *Driver) printResult(ctx context.Context) {
	if result, over := d.e.Result(ctx); over {
		d.out <- result
		d.computerSide = board.NoColor
	}
}

func intArg(args []string) (int, bool) {
	if len(args) == 0 {
		return 0, false
	}
	var n int
	if _, err := fmt.Sscanf(args[0], "%d", &n); err != nil {
		return 0, false
	}
	return n, true
}
