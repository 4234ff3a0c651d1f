// Package hexcontrol implements the REPL command dispatch backing
// cmd/hexsolve, kept separate from main so it's testable without a
// terminal. Grounded on the teacher's shell.ShellController: one
// controller struct owning the live board and solver, a single
// standardModeSwitch-style dispatch function, and a readline.Instance
// driving the Loop — generalized from Scrabble's many GCG/simulation
// commands down to Hex's much smaller boardsize/play/undo/solve-state/
// param_solver/param_solver_ice surface.
package hexcontrol

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	shellquote "github.com/kballard/go-shellquote"
	"github.com/rs/zerolog"

	"github.com/domino14/hexsolve/config"
	"github.com/domino14/hexsolve/dfssolver"
	"github.com/domino14/hexsolve/geometry"
	"github.com/domino14/hexsolve/hexboard"
	"github.com/domino14/hexsolve/pattern"
	"github.com/domino14/hexsolve/posdb"
	"github.com/domino14/hexsolve/ttable"
	"github.com/domino14/hexsolve/zobrist"
)

// Controller owns the live hexboard.Board, the solver it drives
// against, and the readline session. It is constructed once per
// process; every command mutates its own fields, never a package-level
// global, per SPEC_FULL.md §9.
type Controller struct {
	l      *readline.Instance
	out    io.Writer
	errOut io.Writer
	logger zerolog.Logger
	cfg    *config.SolverConfig

	geo   *geometry.Board
	board *hexboard.Board
	table *pattern.Table

	tt *ttable.Table
	db *posdb.DB
}

// New constructs a Controller with a board sized from cfg and a
// transposition table sized from cfg.Solver.TTFractionOfMem. The
// position database is optional: if cfg.DataPath can't be opened for
// writing, the controller logs and falls back to TT-only operation
// rather than failing to start, matching the teacher's tolerance for a
// missing strategy/lexicon file.
func New(cfg *config.SolverConfig, logger zerolog.Logger) (*Controller, error) {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32mhexsolve>\033[0m ",
		HistoryFile:     "/tmp/hexsolve_readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
	})
	if err != nil {
		return nil, fmt.Errorf("hexcontrol: starting readline: %w", err)
	}

	c := newController(cfg, logger, l.Stdout())
	c.l = l
	c.errOut = l.Stderr()
	return c, nil
}

// newController builds the dispatch logic around out without touching
// readline at all, so Dispatch is testable in a headless environment —
// the same split the teacher keeps between shell.ShellController's
// command parsing (extractFields, unit-tested directly) and its
// readline-driven Loop (exercised only by hand).
func newController(cfg *config.SolverConfig, logger zerolog.Logger, out io.Writer) *Controller {
	c := &Controller{
		out:    out,
		errOut: out,
		logger: logger,
		cfg:    cfg,
		table:  pattern.DefaultTable(),
		tt:     ttable.New(cfg.Solver.TTFractionOfMem, logger),
	}

	if db, err := posdb.Open(cfg.DataPath + "/positions.db"); err != nil {
		logger.Warn().Err(err).Msg("position database unavailable, running without persistence")
	} else {
		c.db = db
	}

	c.resetBoard(cfg.BoardWidth, cfg.BoardHeight)
	return c
}

func (c *Controller) resetBoard(w, h int) {
	c.geo = geometry.NewBoard(w, h)
	zh := &zobrist.Hash{}
	zh.Initialize(c.geo.NumPoints)
	hbCfg := hexboard.DefaultConfig()
	hbCfg.ICE = c.cfg.IceConfig()

	table := c.table
	if w == 1 || h == 1 {
		// DefaultTable's ring() neighborhood collapses distinct ring
		// directions onto the same edge on a 1-wide or 1-tall board; on
		// a 1x1 board every slot is an edge, which spuriously matches
		// the all-occupied Dead pattern.
		// Graph-theoretic ICE rules alone still hold there.
		table = pattern.NewTable(nil)
	}
	c.board = hexboard.New(c.geo, zh, table, geometry.Black, hbCfg)
}

// Close releases the readline session and position database.
func (c *Controller) Close() error {
	if c.db != nil {
		c.db.Close()
	}
	if c.l == nil {
		return nil
	}
	return c.l.Close()
}

// Loop reads commands until EOF, ^D, or a quit/exit command; any other
// dispatch error is printed and the loop continues.
func (c *Controller) Loop() {
	for {
		line, err := c.l.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := c.Dispatch(line); err != nil {
			if err == io.EOF {
				return
			}
			fmt.Fprintln(c.errOut, "error:", err)
		}
	}
}

// Dispatch parses and runs a single command line, returning any error
// for the caller to display. It never exits the process itself.
func (c *Controller) Dispatch(line string) error {
	args, err := shellquote.Split(line)
	if err != nil {
		return fmt.Errorf("parsing command: %w", err)
	}
	if len(args) == 0 {
		return nil
	}

	switch args[0] {
	case "boardsize":
		return c.cmdBoardSize(args[1:])
	case "play":
		return c.cmdPlay(args[1:])
	case "undo":
		return c.cmdUndo(args[1:])
	case "solve-state":
		return c.cmdSolveState(args[1:])
	case "param_solver":
		return c.cmdParamSolver(args[1:])
	case "param_solver_ice":
		return c.cmdParamSolverIce(args[1:])
	case "quit", "exit":
		return io.EOF
	case "help":
		fmt.Fprintln(c.out, "commands: boardsize W H | play <black|white> <point> | undo | solve-state | param_solver <key> [value] | param_solver_ice <key> [value] | quit")
		return nil
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (c *Controller) cmdBoardSize(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: boardsize <width> <height>")
	}
	w, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("width: %w", err)
	}
	h, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("height: %w", err)
	}
	if w <= 0 || h <= 0 {
		return fmt.Errorf("boardsize: width and height must be positive")
	}
	c.resetBoard(w, h)
	fmt.Fprintf(c.out, "board reset to %dx%d\n", w, h)
	return nil
}

func (c *Controller) cmdPlay(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: play <black|white> <point>")
	}
	color, err := parseColor(args[0])
	if err != nil {
		return err
	}
	p, err := ParsePoint(args[1], c.geo)
	if err != nil {
		return err
	}
	if err := c.board.PlayMove(p, color); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "played %s at %s\n", args[0], args[1])
	return nil
}

func (c *Controller) cmdUndo(args []string) error {
	if err := c.board.UndoMove(); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "undone")
	return nil
}

func (c *Controller) cmdSolveState(args []string) error {
	solverCfg := dfssolver.DefaultConfig()
	solverCfg.MaxDepth = c.cfg.Solver.MaxDepth
	solverCfg.UseDecompositions = c.cfg.Solver.UseDecompositions
	solverCfg.ShrinkProofs = c.cfg.Solver.ShrinkProofs
	solverCfg.Ordering = c.cfg.OrderingFlags()

	s := dfssolver.New(c.tt, c.db, solverCfg)
	stats, err := s.Solve(context.Background(), c.board)
	if err != nil {
		return err
	}

	result := "unknown"
	switch stats.Result {
	case ttable.Win:
		result = "win"
	case ttable.Loss:
		result = "loss"
	}
	fmt.Fprintf(c.out, "result=%s nodes=%d tt_hits=%d elapsed=%s\n",
		result, stats.NodesVisited, stats.TTHits, stats.Elapsed)
	if stats.Result == ttable.Win && stats.BestMove != geometry.InvalidPoint {
		fmt.Fprintf(c.out, "best_move=%s\n", FormatPoint(stats.BestMove, c.geo))
	}
	return nil
}

func (c *Controller) cmdParamSolver(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: param_solver <key> [value]")
	}
	value := ""
	if len(args) > 1 {
		value = args[1]
	}
	got, err := c.cfg.ParamSolver(args[0], value)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s=%s\n", args[0], got)
	return nil
}

func (c *Controller) cmdParamSolverIce(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: param_solver_ice <key> [value]")
	}
	value := ""
	if len(args) > 1 {
		value = args[1]
	}
	got, err := c.cfg.ParamSolverIce(args[0], value)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s=%s\n", args[0], got)
	return nil
}

func parseColor(s string) (geometry.Color, error) {
	switch strings.ToLower(s) {
	case "black", "b":
		return geometry.Black, nil
	case "white", "w":
		return geometry.White, nil
	default:
		return geometry.Empty, fmt.Errorf("color must be black or white, got %q", s)
	}
}
