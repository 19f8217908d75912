package chesscore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/seekerror/logw"
	"golang.org/x/sync/errgroup"

	"github.com/corechess/engine/internal/board"
	"github.com/corechess/engine/internal/control"
	"github.com/corechess/engine/internal/nnue"
	"github.com/corechess/engine/internal/score"
	"github.com/corechess/engine/internal/search"
	"github.com/corechess/engine/internal/tt"
)

// Engine owns the shared transposition table and NNUE network across
// repeated Search/Analyze calls.
type Engine struct {
	opts  Options
	table *tt.Table
	net   *nnue.Network
	gen   control.Generation

	mu     sync.Mutex
	active *control.Plane
}

// NewEngine allocates the transposition table and loads the embedded NNUE
// network. A non-nil error means the embedded weights asset could not be
// decompressed or parsed; the table allocation itself reports no error.
func NewEngine(opts Options) (*Engine, error) {
	opts = opts.withDefaults()

	net, err := nnue.DefaultNetwork()
	if err != nil {
		return nil, fmt.Errorf("chesscore: load default network: %w", err)
	}

	table := tt.NewTable(opts.HashBytes)
	logw.Infof(context.Background(), "chesscore: allocated %vMB transposition table, %d worker(s)", opts.HashBytes>>20, opts.Threads)

	return &Engine{opts: opts, table: table, net: net}, nil
}

// workerResult is one worker's iteration completion, fed into Analyze's
// aggregation loop.
type workerResult struct {
	depth search.Depth
	score search.Score
	move  board.Move
	pv    []board.Move
}

// Search runs Analyze to completion and returns its final Report.
func (e *Engine) Search(ctx context.Context, pos *board.Position, limits control.Limits) (Report, error) {
	reports, err := e.Analyze(ctx, pos, limits)
	if err != nil {
		return Report{}, err
	}
	var last Report
	for r := range reports {
		last = r
	}
	return last, nil
}

// Analyze starts a Lazy-SMP search over pos and streams a Report each time a
// worker completes a depth deeper than any reported so far, or the same
// depth with a higher score. Workers are joined with
// golang.org/x/sync/errgroup rather than a raw sync.WaitGroup plus a
// manual channel-close goroutine.
func (e *Engine) Analyze(ctx context.Context, pos *board.Position, limits control.Limits) (<-chan Report, error) {
	if pos == nil {
		return nil, fmt.Errorf("chesscore: Analyze: nil position")
	}

	gen := e.gen.Next()
	e.table.AdvanceGeneration()
	metrics := &control.Metrics{}
	plane := control.NewPlane(limits, gen, metrics)

	e.mu.Lock()
	e.active = plane
	e.mu.Unlock()

	maxDepth := limits.MaxDepth()
	resultCh := make(chan workerResult, e.opts.Threads*maxDepth)
	out := make(chan Report, maxDepth)

	logw.Infof(ctx, "chesscore: starting search, %d worker(s), max depth %d", e.opts.Threads, maxDepth)

	go func() {
		defer close(out)
		defer func() {
			e.mu.Lock()
			if e.active == plane {
				e.active = nil
			}
			e.mu.Unlock()
		}()

		cancelWatch := make(chan struct{})
		defer close(cancelWatch)
		go func() {
			select {
			case <-ctx.Done():
				plane.Trigger.Disarm()
			case <-cancelWatch:
			}
		}()

		var g errgroup.Group
		for i := 0; i < e.opts.Threads; i++ {
			i := i
			g.Go(func() error {
				e.searchWorker(i, pos, maxDepth, plane, resultCh)
				return nil
			})
		}
		go func() {
			_ = g.Wait()
			close(resultCh)
		}()

		e.collectResults(resultCh, out, plane, metrics)
	}()

	return out, nil
}

// collectResults runs the result aggregation loop: track the deepest,
// best-scoring move seen so far, publish a Report each time it improves,
// and stop early on a found mate or once the soft time budget plus move
// stability says so.
func (e *Engine) collectResults(resultCh <-chan workerResult, out chan<- Report, plane *control.Plane, metrics *control.Metrics) {
	start := time.Now()
	var best workerResult
	best.move = board.NoMove
	var lastMove board.Move
	stability := 0
	instability := 0

	for r := range resultCh {
		if r.move == board.NoMove {
			continue
		}
		if r.depth < best.depth {
			continue
		}
		if r.depth == best.depth && r.score <= best.score && best.move != board.NoMove {
			continue
		}

		if r.depth > best.depth {
			if r.move == lastMove {
				stability++
				instability = 0
				plane.AdjustForStability(stability)
			} else {
				instability++
				stability = 0
				plane.AdjustForInstability(instability)
			}
			lastMove = r.move
		}
		best = r

		out <- Report{
			Depth: best.depth,
			Score: best.score,
			PV:    best.pv,
			Nodes: metrics.Nodes.Load(),
			Time:  time.Since(start),
		}

		if best.score.IsMate() {
			plane.Trigger.Disarm()
			break
		}
		if plane.Optimum() > 0 && time.Since(start) >= plane.Optimum() {
			plane.Trigger.Disarm()
			break
		}
	}

	plane.Trigger.Disarm()
	for range resultCh {
		// Drain so any in-flight worker send doesn't block after we stop
		// consuming early (mate found, or stability-based early stop).
	}
}

// searchWorker runs one worker's iterative-deepening loop against its own
// position copy and evaluator, using a fixed-plus-jitter aspiration window
// rather than volatility-based sizing (see DESIGN.md).
func (e *Engine) searchWorker(id int, rootPos *board.Position, maxDepth int, plane *control.Plane, out chan<- workerResult) {
	pos := rootPos.Copy()
	eval := nnue.NewEvaluator(pos, e.net, search.MaxPly)
	w := search.NewWorker(id, e.table, plane)
	w.Reset(pos, eval, nil)

	startDepth := 1
	switch {
	case id >= 6:
		startDepth = 4
	case id >= 3:
		startDepth = 3
	case id >= 1:
		startDepth = 2
	}

	var prevScore search.Score
	for depth := startDepth; depth <= maxDepth; depth++ {
		if !plane.Trigger.IsArmed() {
			return
		}

		var move board.Move
		var s search.Score
		if depth >= 5 && prevScore != 0 {
			window := search.Score(50 + (id%8)*3)
			alpha, beta := prevScore-window, prevScore+window
			for {
				move, s = w.SearchDepth(search.Depth(depth), alpha, beta)
				if !plane.Trigger.IsArmed() {
					return
				}
				if s <= alpha && alpha > -score.Upper {
					alpha = -score.Upper
					continue
				}
				if s >= beta && beta < score.Upper {
					beta = score.Upper
					continue
				}
				break
			}
		} else {
			move, s = w.SearchDepth(search.Depth(depth), -score.Upper, score.Upper)
		}

		if !plane.Trigger.IsArmed() {
			return
		}
		prevScore = s

		out <- workerResult{
			depth: search.Depth(depth),
			score: s,
			move:  move,
			pv:    w.PV(),
		}
	}
}

// Stop cancels the in-flight Search/Analyze call, if any. Idempotent.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active != nil {
		e.active.Trigger.Disarm()
	}
}

// Clear resets the transposition table between independent games.
func (e *Engine) Clear() {
	e.table.Clear()
	logw.Infof(context.Background(), "chesscore: cleared transposition table")
}
