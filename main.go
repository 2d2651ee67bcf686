// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/ledger"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/notify"
	"github.com/danielhkuo/quickly-elect/router"
	"github.com/danielhkuo/quickly-elect/store"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	level, _ := cfg.SlogLevel()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	admin := auth.NormalizeAddress(cfg.AdminAddress)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the command journal
	journal, err := store.Open(cfg)
	if err != nil {
		slog.Error("journal open failed", "error", err, "type", cfg.DatabaseType)
		os.Exit(1)
	}
	slog.Info("Journal ready", "type", cfg.DatabaseType)

	broker := notify.NewBroker(slog.Default())
	defer broker.Shutdown()

	// Optional AMQP fan-out
	if cfg.AMQPURL != "" {
		relay, err := notify.DialAMQPRelay(cfg.AMQPURL, cfg.AMQPExchange, slog.Default())
		if err != nil {
			slog.Error("AMQP relay failed", "error", err)
			os.Exit(1)
		}
		defer relay.Close()
		go relay.Run(ctx, broker)
		slog.Info("Relaying events", "exchange", cfg.AMQPExchange)
	}

	// Replay the journal
	l, err := ledger.Open(ctx, admin, journal, broker)
	if err != nil {
		journal.Close()
		slog.Error("election restore failed", "error", err)
		os.Exit(1)
	}
	defer l.Close()

	slog.Info("Admin credentials",
		"address", admin,
		"caller_key", auth.GenerateCallerKey(admin, cfg.CallerKeySalt),
	)

	// Create router
	mux := router.NewRouter(l, broker, cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// Event streams only end when their client goes away
	server.RegisterOnShutdown(broker.Shutdown)

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		slog.Error("Listen failed", "error", err, "port", cfg.Port)
		return
	}

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	if err := serve(ctx, &server, ln, shutdownTimeout); err != nil {
		slog.Error("Server closed", "error", err)
		return
	}
	slog.Info("Server closed")
}

const shutdownTimeout = 5 * time.Second

// serve runs server on ln until ctx is done, then shuts it down and waits for
// in-flight requests to finish, up to timeout. The journal must stay open
// until serve returns.
func serve(ctx context.Context, server *http.Server, ln net.Listener, timeout time.Duration) error {
	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		done <- server.Shutdown(shutdownCtx)
	}()

	if err := server.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-done
}
