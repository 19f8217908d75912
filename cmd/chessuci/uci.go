package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	chesscore "github.com/corechess/engine"
	"github.com/corechess/engine/internal/board"
	"github.com/corechess/engine/internal/control"
)

// UCI implements the subset of the Universal Chess Interface the engine
// actually supports: position, go (with the five control.Limits kinds),
// stop, ucinewgame, isready, quit. Syzygy tablebase setoptions, CPU
// profiling commands, the debug-validation flag, and the standalone
// "perft"/"d" developer commands are dropped along with the engine
// features they drove.
type UCI struct {
	engine   *chesscore.Engine
	position *board.Position

	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a UCI handler wrapping eng.
func New(eng *chesscore.Engine) *UCI {
	return &UCI{
		engine:   eng,
		position: board.DefaultPosition(),
	}
}

// Run reads UCI commands from r until "quit" or EOF, writing responses to
// stdout via fmt.Println, the plain-stdout UCI style.
func (u *UCI) Run(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			fmt.Println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "quit":
			u.handleStop()
			return
		}
	}
}

func (u *UCI) handleUCI() {
	fmt.Println("id name corechess")
	fmt.Println("id author corechess contributors")
	fmt.Println("option name Hash type spin default 32 min 1 max 4096")
	fmt.Println("option name Threads type spin default 1 min 1 max 256")
	fmt.Println("uciok")
}

func (u *UCI) handleNewGame() {
	u.engine.Clear()
	u.position = board.DefaultPosition()
}

// handlePosition supports "position startpos [moves ...]" and
// "position fen <fen> [moves ...]".
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	var moveStart int
	switch args[0] {
	case "startpos":
		u.position = board.DefaultPosition()
		moveStart = 1
	case "fen":
		fenEnd := len(args)
		for i := 1; i < len(args); i++ {
			if args[i] == "moves" {
				fenEnd = i
				break
			}
		}
		pos, err := board.ParseFEN(strings.Join(args[1:fenEnd], " "))
		if err != nil {
			fmt.Printf("info string invalid fen: %v\n", err)
			return
		}
		u.position = pos
		moveStart = fenEnd
	default:
		return
	}

	for i := moveStart; i < len(args); i++ {
		if args[i] == "moves" {
			continue
		}
		move := parseUCIMove(u.position, args[i])
		if move == board.NoMove {
			fmt.Printf("info string invalid move: %s\n", args[i])
			return
		}
		u.position.MakeMove(move)
	}
}

func parseUCIMove(pos *board.Position, s string) board.Move {
	if len(s) < 4 {
		return board.NoMove
	}
	from := board.NewSquare(int(s[0]-'a'), int(s[1]-'1'))
	to := board.NewSquare(int(s[2]-'a'), int(s[3]-'1'))

	var promo board.PieceType
	if len(s) == 5 {
		switch s[4] {
		case 'q':
			promo = board.Queen
		case 'r':
			promo = board.Rook
		case 'b':
			promo = board.Bishop
		case 'n':
			promo = board.Knight
		}
	}

	moves := pos.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.From() != from || m.To() != to {
			continue
		}
		if m.IsPromotion() {
			if promo != 0 && m.Promotion() == promo {
				return m
			}
			continue
		}
		if promo == 0 {
			return m
		}
	}
	return board.NoMove
}

// handleGo parses "go" arguments into a control.Limits and starts a search,
// streaming "info" lines as Analyze reports and printing "bestmove" once
// the stream closes.
func (u *UCI) handleGo(args []string) {
	limits := parseGoLimits(u.position.SideToMove, args)

	ctx, cancel := context.WithCancel(context.Background())
	u.cancel = cancel
	u.done = make(chan struct{})

	pos := u.position.Copy()

	go func() {
		defer close(u.done)

		reports, err := u.engine.Analyze(ctx, pos, limits)
		if err != nil {
			fmt.Printf("info string search error: %v\n", err)
			fmt.Println("bestmove 0000")
			return
		}

		var last chesscore.Report
		for r := range reports {
			last = r
			u.sendInfo(r)
		}

		if len(last.PV) > 0 {
			fmt.Printf("bestmove %s\n", last.PV[0].String())
			return
		}
		if legal := pos.GenerateLegalMoves(); legal.Len() > 0 {
			fmt.Printf("bestmove %s\n", legal.Get(0).String())
			return
		}
		fmt.Println("bestmove 0000")
	}()
}

func parseGoLimits(side board.Color, args []string) control.Limits {
	var depth int
	var nodes uint64
	var moveTime time.Duration
	var wtime, btime, winc, binc time.Duration
	var movesToGo int
	infinite := false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			i++
			if i < len(args) {
				depth, _ = strconv.Atoi(args[i])
			}
		case "nodes":
			i++
			if i < len(args) {
				nodes, _ = strconv.ParseUint(args[i], 10, 64)
			}
		case "movetime":
			i++
			if i < len(args) {
				ms, _ := strconv.Atoi(args[i])
				moveTime = time.Duration(ms) * time.Millisecond
			}
		case "infinite":
			infinite = true
		case "wtime":
			i++
			if i < len(args) {
				ms, _ := strconv.Atoi(args[i])
				wtime = time.Duration(ms) * time.Millisecond
			}
		case "btime":
			i++
			if i < len(args) {
				ms, _ := strconv.Atoi(args[i])
				btime = time.Duration(ms) * time.Millisecond
			}
		case "winc":
			i++
			if i < len(args) {
				ms, _ := strconv.Atoi(args[i])
				winc = time.Duration(ms) * time.Millisecond
			}
		case "binc":
			i++
			if i < len(args) {
				ms, _ := strconv.Atoi(args[i])
				binc = time.Duration(ms) * time.Millisecond
			}
		case "movestogo":
			i++
			if i < len(args) {
				movesToGo, _ = strconv.Atoi(args[i])
			}
		}
	}

	switch {
	case infinite:
		return control.Limits{Kind: control.KindNone}
	case depth > 0:
		return control.Limits{Kind: control.KindDepth, Depth: depth}
	case nodes > 0:
		return control.Limits{Kind: control.KindNodes, Nodes: nodes}
	case moveTime > 0:
		return control.Limits{Kind: control.KindTime, Time: moveTime}
	case wtime > 0 || btime > 0:
		remaining, increment := wtime, winc
		if side == board.Black {
			remaining, increment = btime, binc
		}
		return control.Limits{
			Kind:      control.KindClock,
			Remaining: remaining,
			Increment: increment,
			MovesToGo: movesToGo,
		}
	default:
		return control.Limits{Kind: control.KindNone}
	}
}

func (u *UCI) sendInfo(r chesscore.Report) {
	parts := []string{
		fmt.Sprintf("depth %d", r.Depth),
		"score " + chesscore.ScoreToUCI(r.Score),
		fmt.Sprintf("nodes %d", r.Nodes),
		fmt.Sprintf("time %d", r.Time.Milliseconds()),
	}
	if r.Time > 0 {
		nps := uint64(float64(r.Nodes) / r.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}
	if len(r.PV) > 0 {
		strs := make([]string, len(r.PV))
		for i, m := range r.PV {
			strs[i] = m.String()
		}
		parts = append(parts, "pv "+strings.Join(strs, " "))
	}
	fmt.Println("info " + strings.Join(parts, " "))
}

func (u *UCI) handleStop() {
	if u.cancel == nil {
		return
	}
	u.engine.Stop()
	u.cancel()
	<-u.done
	u.cancel = nil
}
