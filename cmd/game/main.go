package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/tomz197/bugstroids/internal/assets"
	"github.com/tomz197/bugstroids/internal/config"
	"github.com/tomz197/bugstroids/internal/logger"
	"github.com/tomz197/bugstroids/internal/loop"
	"github.com/tomz197/bugstroids/internal/scores"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// The terminal belongs to the game; logs only go to LOG_FILE.
	logCloser, err := logger.Init(cfg.Logging, io.Discard)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	board, boardCloser, err := scores.OpenBoard(cfg.Scores, slog.Default())
	if err != nil {
		return err
	}
	defer boardCloser.Close()

	sprites := assets.Load(cfg.Game.AssetsDir, slog.Default())

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := loop.New(bufio.NewReader(os.Stdin), os.Stdout, loop.Options{
		Board:   board,
		Session: loop.SessionOptions(cfg.Game, sprites),
		Logger:  slog.Default(),
	})
	return d.Run(ctx)
}
