package chesscore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/corechess/engine/internal/board"
	"github.com/corechess/engine/internal/control"
	"github.com/corechess/engine/internal/search"
)

func TestSearchReturnsLegalMoveFromStartingPosition(t *testing.T) {
	e, err := NewEngine(Options{HashBytes: 1 << 20, Threads: 1})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	report, err := e.Search(ctx, board.DefaultPosition(), control.Limits{Kind: control.KindDepth, Depth: 4})
	require.NoError(t, err)
	require.NotEmpty(t, report.PV)

	legal := board.DefaultPosition().GenerateLegalMoves()
	found := false
	for i := 0; i < legal.Len(); i++ {
		if legal.Get(i) == report.PV[0] {
			found = true
			break
		}
	}
	require.True(t, found)
}

func TestAnalyzeStreamIsDepthMonotonic(t *testing.T) {
	e, err := NewEngine(Options{HashBytes: 1 << 20, Threads: 1})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	reports, err := e.Analyze(ctx, board.DefaultPosition(), control.Limits{Kind: control.KindDepth, Depth: 4})
	require.NoError(t, err)

	var lastDepth search.Depth
	first := true
	for r := range reports {
		if !first {
			require.GreaterOrEqual(t, r.Depth, lastDepth)
		}
		lastDepth = r.Depth
		first = false
	}
	require.False(t, first, "expected at least one report")
}

func TestStopCancelsInFlightSearch(t *testing.T) {
	e, err := NewEngine(Options{HashBytes: 1 << 20, Threads: 1})
	require.NoError(t, err)

	ctx := context.Background()
	reports, err := e.Analyze(ctx, board.DefaultPosition(), control.Limits{Kind: control.KindNone})
	require.NoError(t, err)

	go func() {
		time.Sleep(20 * time.Millisecond)
		e.Stop()
	}()

	done := make(chan struct{})
	go func() {
		for range reports {
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not terminate the search in time")
	}
}

func TestClearResetsTable(t *testing.T) {
	e, err := NewEngine(Options{HashBytes: 1 << 20, Threads: 1})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err = e.Search(ctx, board.DefaultPosition(), control.Limits{Kind: control.KindDepth, Depth: 3})
	require.NoError(t, err)

	require.NotPanics(t, func() { e.Clear() })
}

func TestSearchSolvesBratkoKopecOne(t *testing.T) {
	e, err := NewEngine(Options{HashBytes: 1 << 20, Threads: 1})
	require.NoError(t, err)

	pos, err := board.ParseFEN("1k1r4/pp1b1R2/3q2pp/4p3/2B5/4Q3/PPP2B2/2K5 b - - 0 1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	report, err := e.Search(ctx, pos, control.Limits{Kind: control.KindTime, Time: time.Second})
	require.NoError(t, err)
	require.NotEmpty(t, report.PV)
	require.Equal(t, board.NewMove(board.D6, board.D1), report.PV[0])
}

func TestSearchIsDeterministicAtFixedDepthSingleThread(t *testing.T) {
	e1, err := NewEngine(Options{HashBytes: 1 << 20, Threads: 1})
	require.NoError(t, err)
	e2, err := NewEngine(Options{HashBytes: 1 << 20, Threads: 1})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	limits := control.Limits{Kind: control.KindDepth, Depth: 6}
	r1, err := e1.Search(ctx, board.DefaultPosition(), limits)
	require.NoError(t, err)
	r2, err := e2.Search(ctx, board.DefaultPosition(), limits)
	require.NoError(t, err)

	require.Equal(t, r1.PV, r2.PV)
	require.Equal(t, r1.Score, r2.Score)
}

func TestSearchCancellationIsResponsiveUnderManyThreads(t *testing.T) {
	e, err := NewEngine(Options{HashBytes: 1 << 20, Threads: 8})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	_, err = e.Search(ctx, board.DefaultPosition(), control.Limits{Kind: control.KindTime, Time: 100 * time.Millisecond})
	require.NoError(t, err)
	require.Less(t, time.Since(start), 200*time.Millisecond)
}

func TestScoreToUCIReportsCentipawns(t *testing.T) {
	require.Equal(t, "cp 150", ScoreToUCI(150))
}
