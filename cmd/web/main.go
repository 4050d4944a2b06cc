package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/tomz197/bugstroids/internal/config"
	"github.com/tomz197/bugstroids/internal/logger"
	"github.com/tomz197/bugstroids/internal/middleware"
	"github.com/tomz197/bugstroids/internal/scores"
)

//go:embed index.html
var htmlPage string

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

	log := slog.With("component", "web")
	if err := run(cfg, log); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := scores.OpenStore(cfg.Scores)
	if err != nil {
		return err
	}
	defer store.Close()

	service := scores.NewService(store, slog.Default())
	page := strings.ReplaceAll(htmlPage, "{{.SSHHost}}", cfg.Server.SSHDisplayHost)

	mux := http.NewServeMux()
	mux.Handle("/api/scores", scores.NewHandler(service, slog.Default()))
	mux.Handle("/healthz", scores.NewHealthHandler(store, slog.Default()))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	})

	rateLimiter := middleware.NewRateLimiter(ctx, cfg.RateLimit, slog.Default())
	cors := middleware.NewCORS(cfg.CORS, slog.Default())

	var handler http.Handler = mux
	handler = rateLimiter.Middleware(handler)
	handler = cors.Middleware(handler)
	handler = middleware.RequestLogger(slog.Default())(handler)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting web server", "address", "http://"+srv.Addr, "store", cfg.Scores.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down web server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
