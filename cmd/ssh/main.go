package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/bugstroids/internal/assets"
	"github.com/tomz197/bugstroids/internal/config"
	"github.com/tomz197/bugstroids/internal/draw"
	"github.com/tomz197/bugstroids/internal/logger"
	"github.com/tomz197/bugstroids/internal/loop"
	"github.com/tomz197/bugstroids/internal/object"
	"github.com/tomz197/bugstroids/internal/scores"
)

// idleTimeout disconnects players who stopped pressing keys.
const idleTimeout = 2 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	logCloser, err := logger.Init(cfg.Logging, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	log := slog.With("component", "ssh")
	if err := run(cfg, log); err != nil {
		log.Error("SSH server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	// Every session plays alone but shares one leaderboard.
	board, boardCloser, err := scores.OpenBoard(cfg.Scores, slog.Default())
	if err != nil {
		return err
	}
	defer boardCloser.Close()

	sprites := assets.Load(cfg.Game.AssetsDir, slog.Default())

	log.Info("SSH config",
		"host", cfg.SSH.Host,
		"port", cfg.SSH.Port,
		"host_key_path", cfg.SSH.HostKeyPath,
	)

	games := &sessions{}
	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(cfg.SSH.Host, cfg.SSH.Port)),
		wish.WithMiddleware(
			gameMiddleware(cfg.Game, board, sprites, games),
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if cfg.SSH.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(cfg.SSH.HostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	log.Info("Starting SSH server", "address", s.Addr)
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-done:
	}
	log.Info("Shutting down server...", "active_sessions", games.count())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// gameMiddleware runs a game driver for each SSH session.
func gameMiddleware(cfg config.GameConfig, board scores.Board, sprites object.Assets, games *sessions) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, winCh, ok := sess.Pty()
			if !ok {
				fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
				return
			}

			log := slog.With("component", "ssh", "user", sess.User(), "remote_addr", sess.RemoteAddr().String())
			log.Info("New game session",
				"terminal", pty.Term,
				"width", pty.Window.Width,
				"height", pty.Window.Height,
			)

			// Create a terminal size tracker that updates on window changes
			sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
			go func() {
				for win := range winCh {
					sizeTracker.update(win.Width, win.Height)
				}
			}()

			games.add(1)
			defer games.add(-1)

			d := loop.New(bufio.NewReader(sess), sess, loop.Options{
				TermSizeFunc: sizeTracker.getSize,
				Board:        board,
				Session:      loop.SessionOptions(cfg, sprites),
				IdleTimeout:  idleTimeout,
				Logger:       log,
			})
			if err := d.Run(sess.Context()); err != nil {
				log.Error("Game error", "error", err)
			}

			log.Info("Session ended", "score", d.Session().Score)
			next(sess)
		}
	}
}

// sessions counts connected players.
type sessions struct {
	mu sync.Mutex
	n  int
}

func (s *sessions) add(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n += delta
}

func (s *sessions) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
