package telnet

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arsenal/internal/config"
)

// SessionHandler runs the console for one connected client.
type SessionHandler interface {
	HandleSession(ctx context.Context, conn *Conn) error
}

// Acceptor listens for telnet connections and hands each to a SessionHandler
// on its own goroutine.
type Acceptor struct {
	cfg     config.ConsoleConfig
	handler SessionHandler
	logger  *zap.Logger

	mu       sync.Mutex
	listener net.Listener
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	ready    chan struct{}
}

// NewAcceptor creates an acceptor for cfg.TelnetAddr().
//
// Precondition: handler is non-nil; logger may be nil.
func NewAcceptor(cfg config.ConsoleConfig, handler SessionHandler, logger *zap.Logger) *Acceptor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Acceptor{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
		ready:   make(chan struct{}),
	}
}

// Start listens and serves until ctx is cancelled or Stop is called.
//
// Postcondition: returns nil on orderly shutdown, after every session
// goroutine has exited.
func (a *Acceptor) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.TelnetAddr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", a.cfg.TelnetAddr(), err)
	}
	ctx, cancel := context.WithCancel(ctx)
	a.mu.Lock()
	a.listener = ln
	a.cancel = cancel
	a.mu.Unlock()
	close(a.ready)

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	a.logger.Info("telnet console listening", zap.String("addr", ln.Addr().String()))
	defer func() {
		cancel()
		a.wg.Wait()
		a.logger.Info("telnet console stopped")
	}()

	for {
		raw, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			a.logger.Error("accepting connection", zap.Error(err))
			continue
		}
		a.wg.Add(1)
		go a.serve(ctx, raw)
	}
}

func (a *Acceptor) serve(ctx context.Context, raw net.Conn) {
	defer a.wg.Done()
	start := time.Now()
	addr := raw.RemoteAddr().String()
	a.logger.Info("console client connected", zap.String("remote_addr", addr))

	conn := NewConn(raw, a.cfg.ReadTimeout, a.cfg.WriteTimeout)
	defer conn.Close()

	// Closing the socket unblocks ReadLine when the acceptor shuts down.
	stop := context.AfterFunc(ctx, func() { _ = raw.Close() })
	defer stop()

	if err := conn.Negotiate(); err != nil {
		a.logger.Warn("telnet negotiation failed", zap.String("remote_addr", addr), zap.Error(err))
		return
	}
	if err := a.handler.HandleSession(ctx, conn); err != nil {
		a.logger.Debug("console session ended",
			zap.String("remote_addr", addr),
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return
	}
	a.logger.Info("console session ended cleanly",
		zap.String("remote_addr", addr),
		zap.Duration("duration", time.Since(start)),
	)
}

// Stop closes the listener and every open session. Safe to call before Start
// and more than once.
func (a *Acceptor) Stop() {
	a.mu.Lock()
	cancel := a.cancel
	a.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Ready is closed once the listener is bound.
func (a *Acceptor) Ready() <-chan struct{} { return a.ready }

// Addr returns the bound address, or "" before Start has bound it.
func (a *Acceptor) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener == nil {
		return ""
	}
	return a.listener.Addr().String()
}
