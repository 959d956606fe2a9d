package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/vancezuo/parallel-chess/pkg/engine"
	"github.com/vancezuo/parallel-chess/pkg/engine/console"
	"github.com/vancezuo/parallel-chess/pkg/engine/xboard"
	"github.com/vancezuo/parallel-chess/pkg/search"

	"github.com/seekerror/logw"
)

var (
	threads = flag.Int("threads", runtime.NumCPU(), "Worker count for the parallel search and evaluation variants")
	depth   = flag.Int("depth", 5, "Initial search depth limit in plies")
	book    = flag.String("book", "", "Opening book file of coordinate-move lines (optional)")
	bookDB  = flag.String("book-db", "", "Directory for a persistent opening book database (optional, requires -book to import)")
	seed    = flag.Int64("seed", 0, "Seed for picking among book moves (0 uses the clock)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: parallel-chess [options]

parallel-chess is a chess engine for comparing serial and parallel search
strategies on identical positions. It speaks an interactive console protocol
and the xboard protocol.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	bookSeed := *seed
	if bookSeed == 0 {
		bookSeed = time.Now().UnixNano()
	}

	opts := []engine.Option{
		engine.WithConfig(search.Config{Threads: *threads}),
		engine.WithDepth(*depth),
	}

	var lines *engine.LineBook
	if *book != "" {
		f, err := os.Open(*book)
		if err != nil {
			logw.Exitf(ctx, "Failed to open book %v: %v", *book, err)
		}
		lines, err = engine.NewLineBook(f)
		_ = f.Close()
		if err != nil {
			logw.Exitf(ctx, "Failed to read book %v: %v", *book, err)
		}
	}

	switch {
	case *bookDB != "":
		sb, err := engine.OpenStoreBook(ctx, *bookDB, lines)
		if err != nil {
			logw.Exitf(ctx, "Failed to open book database %v: %v", *bookDB, err)
		}
		defer sb.Close()
		opts = append(opts, engine.WithBook(sb, bookSeed))

	case lines != nil:
		opts = append(opts, engine.WithBook(lines, bookSeed))
	}

	e := engine.New(ctx, "parallel-chess", "vancezuo", opts...)
	in := engine.ReadStdinLines(ctx)

	driver, out := console.NewDriver(ctx, e, in)
	engine.WriteStdoutLines(ctx, out)
	<-driver.Closed()

	if driver.SwitchedXboard() {
		xdriver, xout := xboard.NewDriver(ctx, e, in)
		engine.WriteStdoutLines(ctx, xout)
		<-xdriver.Closed()
	}
}
