// Command hexsolve is the thin driving CLI of SPEC_FULL.md §6A: a
// readline REPL exposing boardsize/play/undo/solve-state/param_solver/
// param_solver_ice against one in-memory hexboard.Board. It is not a
// GTP engine — no time control, no showboard framing — just enough
// surface to exercise the core end to end.
//
// Grounded on the teacher's cmd/shell/main.go: same executable-path
// lookup for locating data files, same zerolog console writer built
// through logutil, same top-level os.Signal plumbing around the
// readline loop.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/domino14/hexsolve/config"
	"github.com/domino14/hexsolve/hexcontrol"
	"github.com/domino14/hexsolve/logutil"
)

func main() {
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	exPath := filepath.Dir(ex)

	cfg := config.DefaultConfig()
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "hexsolve: loading config:", err)
		os.Exit(1)
	}
	if !filepath.IsAbs(cfg.DataPath) {
		cfg.DataPath = filepath.Join(exPath, cfg.DataPath)
	}

	level := zerolog.InfoLevel
	logger := logutil.New(os.Stderr, level, cfg.Debug)

	ctrl, err := hexcontrol.New(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to start hexsolve controller")
		os.Exit(1)
	}
	defer ctrl.Close()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sig
		logger.Debug().Msg("shutting down hexsolve")
		ctrl.Close()
		os.Exit(0)
	}()

	ctrl.Loop()
}
