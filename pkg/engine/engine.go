// Package engine encapsulates game-playing logic: the game board, search
// configuration, opening book and result adjudication.
package engine

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/vancezuo/parallel-chess/pkg/board"
	"github.com/vancezuo/parallel-chess/pkg/search"

	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

var version = build.NewVersion(1, 0, 0)

// Engine owns the game board, the search configuration and the active
// search. All mutable state is behind the mutex; the search itself runs over
// a forked context and never touches the game board.
type Engine struct {
	name, author string

	launcher search.Launcher
	clock    search.Clock
	book     Book
	rnd      *rand.Rand

	b        *board.Board
	line     []string // moves played, for book lookup
	inBook   bool
	cfg      search.Config
	depth    lang.Optional[int]
	moveTime lang.Optional[time.Duration]

	mu sync.Mutex
}

// Option is an engine creation option.
type Option func(*Engine)

// WithBook configures the engine to use the given opening book, with the
// given seed for picking among book moves.
func WithBook(book Book, seed int64) Option {
	return func(e *Engine) {
		e.book = book
		e.rnd = rand.New(rand.NewSource(seed))
	}
}

// WithClock configures the engine to use the given clock instead of the
// system clock.
func WithClock(clock search.Clock) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithConfig sets the initial search configuration.
func WithConfig(cfg search.Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithDepth sets the initial search depth limit.
func WithDepth(depth int) Option {
	return func(e *Engine) {
		e.depth = lang.Some(depth)
	}
}

func New(ctx context.Context, name, author string, opts ...Option) *Engine {
	e := &Engine{
		name:     name,
		author:   author,
		launcher: &search.Iterative{},
		clock:    search.SystemClock,
		book:     NoBook,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
		cfg:      search.Config{Threads: 1},
		depth:    lang.Some(5),
	}
	for _, fn := range opts {
		fn(e)
	}
	e.b = board.New()
	e.inBook = true

	logw.Infof(ctx, "Initialized engine: %v, config=%v", e.Name(), e.cfg)
	return e
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the author.
func (e *Engine) Author() string {
	return e.author
}

// Board returns a copy of the game board.
func (e *Engine) Board() board.Board {
	e.mu.Lock()
	defer e.mu.Unlock()

	return *e.b
}

// Side returns the side to move.
func (e *Engine) Side() board.Color {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.b.Side
}

// Config returns the search configuration.
func (e *Engine) Config() search.Config {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.cfg
}

// SetConfig installs a new search configuration.
func (e *Engine) SetConfig(cfg search.Config) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cfg = cfg
}

// SetThreads sets the worker count for the parallel variants.
func (e *Engine) SetThreads(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if n < 1 {
		n = 1
	}
	e.cfg.Threads = n
}

// SetDepth limits each think to the given depth and removes any time limit.
func (e *Engine) SetDepth(depth int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.depth = lang.Some(depth)
	e.moveTime = lang.Optional[time.Duration]{}
}

// SetMoveTime limits each think to the given duration, searching as deep as
// the clock allows.
func (e *Engine) SetMoveTime(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.moveTime = lang.Some(d)
	e.depth = lang.Optional[int]{}
}

// SetSide forces the side to move, rehashing the position if it changes.
func (e *Engine) SetSide(ctx context.Context, c board.Color) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !c.IsValid() || e.b.Side == c {
		return
	}
	e.b.Side, e.b.Xside = e.b.Xside, e.b.Side
	e.b.SetHash()

	logw.Infof(ctx, "Side to move forced to %v", c)
}

// Reset starts a new game from the initial position.
func (e *Engine) Reset(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.b.Init()
	e.line = nil
	e.inBook = true

	logw.Infof(ctx, "New game")
}

// SetBoard installs an arbitrary position, such as a benchmark FEN. The
// opening book only covers games from the initial position, so it is out of
// play until the next Reset.
func (e *Engine) SetBoard(ctx context.Context, b *board.Board) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.b = b
	e.line = nil
	e.inBook = false

	logw.Infof(ctx, "Set board: %v", b)
}

// UserMove parses a move in coordinate notation and makes it. The move must
// be legal in the current position.
func (e *Engine) UserMove(ctx context.Context, str string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.b.Ply = 0
	m, ok := ResolveMove(e.b, str)
	if !ok {
		return fmt.Errorf("invalid move: %v", str)
	}
	if !e.b.MakeMove(m) {
		return fmt.Errorf("illegal move: %v", str)
	}
	e.b.Ply = 0
	e.line = append(e.line, m.String())

	logw.Infof(ctx, "Move %v: %v", m, e.b)
	return nil
}

// Apply makes an engine move, usually the head of a search PV.
func (e *Engine) Apply(ctx context.Context, m board.Move) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.b.MakeMove(m) {
		return fmt.Errorf("illegal move: %v", m)
	}
	e.b.Ply = 0
	e.line = append(e.line, m.String())

	logw.Infof(ctx, "Engine move %v: %v", m, e.b)
	return nil
}

// TakeBack undoes the latest move.
func (e *Engine) TakeBack(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.b.Hply == 0 {
		return fmt.Errorf("no move to take back")
	}
	e.b.Takeback()
	e.b.Ply = 0
	if len(e.line) > 0 {
		e.line = e.line[:len(e.line)-1]
	}

	logw.Infof(ctx, "Takeback: %v", e.b)
	return nil
}

// PostFunc receives one PV per completed search depth.
type PostFunc func(pv search.PV)

// Think selects a move for the side to move: the opening book is consulted
// first, then the configured search runs under the current depth/time
// limits. The returned PV's first move is the chosen move; the move is not
// made. An empty PV means there is no legal move.
func (e *Engine) Think(ctx context.Context, post PostFunc) search.PV {
	e.mu.Lock()
	defer e.mu.Unlock()

	if m, ok := e.bookMove(ctx); ok {
		return search.PV{Moves: []board.Move{m}, Book: true}
	}

	c := search.NewContext(e.b)
	sh := search.NewShared(e.cfg, e.clock)
	opt := search.Options{DepthLimit: e.depth, TimeLimit: e.moveTime}

	logw.Debugf(ctx, "Think %v, opt=%v", e.b, opt)

	_, out := e.launcher.Launch(ctx, c, sh, opt)
	var last search.PV
	for pv := range out {
		last = pv
		if post != nil {
			post(pv)
		}
	}
	return last
}

// bookMove draws a move from the continuations of book lines matching the
// game so far, weighted by multiplicity. Once the book has nothing for a
// position it stays out of play until the next game.
func (e *Engine) bookMove(ctx context.Context) (board.Move, bool) {
	if !e.inBook {
		return board.NoMove, false
	}

	cands, err := e.book.Find(ctx, e.b, e.line)
	if err != nil {
		logw.Warningf(ctx, "Book lookup failed: %v", err)
		cands = nil
	}
	if len(cands) == 0 {
		e.inBook = false
		return board.NoMove, false
	}

	pick := cands[e.rnd.Intn(len(cands))]
	e.b.Ply = 0
	m, ok := ResolveMove(e.b, pick)
	if !ok || !e.b.MakeMove(m) {
		logw.Warningf(ctx, "Book move %v not legal, ignoring book", pick)
		e.inBook = false
		return board.NoMove, false
	}
	e.b.Takeback()

	logw.Infof(ctx, "Book move: %v", m)
	return m, true
}

// Result adjudicates the current position: checkmate, stalemate, third
// repetition or the fifty move rule. Returns false while the game goes on.
func (e *Engine) Result(ctx context.Context) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.b.Ply = 0
	e.b.Gen(nil)
	legal := false
	for _, g := range e.b.Moves() {
		if e.b.MakeMove(g.Move) {
			e.b.Takeback()
			legal = true
			break
		}
	}
	if !legal {
		if e.b.InCheck(e.b.Side) {
			if e.b.Side == board.Light {
				return "0-1 {Black mates}", true
			}
			return "1-0 {White mates}", true
		}
		return "1/2-1/2 {Stalemate}", true
	}
	if e.b.Reps() == 3 {
		return "1/2-1/2 {Draw by repetition}", true
	}
	if e.b.Fifty >= 100 {
		return "1/2-1/2 {Draw by fifty move rule}", true
	}
	return "", false
}

// ResolveMove matches a coordinate-notation move against the moves generated
// for the board's current ply. Promotions rely on the generator emitting the
// four promotion pieces consecutively as Knight, Bishop, Rook, Queen; a
// missing promotion letter picks the queen. An invalid promotion letter fails
// to parse, so no move is resolved.
func ResolveMove(b *board.Board, str string) (board.Move, bool) {
	want, err := board.ParseMove(str)
	if err != nil {
		return board.NoMove, false
	}

	b.Gen(nil)
	moves := b.Moves()
	for i := 0; i < len(moves); i++ {
		g := moves[i].Move
		if g.From() != want.From() || g.To() != want.To() {
			continue
		}
		if g.Bits()&board.Promote == 0 {
			return g, true
		}
		switch want.Promote() {
		case board.Knight:
			return moves[i].Move, true
		case board.Bishop:
			return moves[i+1].Move, true
		case board.Rook:
			return moves[i+2].Move, true
		default: // assume a queen
			return moves[i+3].Move, true
		}
	}
	return board.NoMove, false
}
