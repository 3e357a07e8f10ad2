// Package console runs the text command loop against the player controller,
// on standard input or on telnet sessions.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arsenal/internal/frontend/telnet"
	"github.com/cory-johannsen/arsenal/internal/game/command"
	"github.com/cory-johannsen/arsenal/internal/game/dispenser"
	"github.com/cory-johannsen/arsenal/internal/game/player"
)

// LineIO is a line-oriented terminal. *telnet.Conn and *Stream implement it.
type LineIO interface {
	ReadLine() (string, error)
	WriteLine(text string) error
	WritePrompt(prompt string) error
}

// Sim runs work on the simulation goroutine. *sim.Loop implements it.
type Sim interface {
	Do(ctx context.Context, fn func()) error
}

// Deps carries the collaborators of a Handler.
type Deps struct {
	Registry   *command.Registry
	Sim        Sim
	Controller *player.Controller
	Feed       *Feed // may be nil
	Style      telnet.Styler
	Logger     *zap.Logger
	// Wait lets d of simulation time pass. Nil sleeps on the wall clock,
	// which matches a real-time loop.
	Wait func(ctx context.Context, d time.Duration) error
}

// Handler executes console lines. One Handler serves any number of sessions;
// all of them drive the same player.
type Handler struct {
	deps   Deps
	logger *zap.Logger
}

// NewHandler returns a Handler.
//
// Precondition: Registry, Sim and Controller are non-nil.
func NewHandler(deps Deps) *Handler {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Feed == nil {
		deps.Feed = NewFeed()
	}
	if deps.Wait == nil {
		deps.Wait = sleep
	}
	return &Handler{deps: deps, logger: deps.Logger}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HandleSession implements telnet.SessionHandler.
func (h *Handler) HandleSession(ctx context.Context, conn *telnet.Conn) error {
	return h.Run(ctx, conn)
}

// Run reads and executes lines from lio until quit, end of input or ctx is
// cancelled.
//
// Postcondition: returns nil on quit, EOF or cancellation; read and write
// failures are returned wrapped.
func (h *Handler) Run(ctx context.Context, lio LineIO) error {
	sub := h.deps.Feed.Subscribe()
	defer sub.Close()

	if err := lio.WriteLine(h.deps.Style.Paint(telnet.BrightYellow, "arsenal console. Type 'help' for commands.")); err != nil {
		return fmt.Errorf("writing banner: %w", err)
	}
	for {
		if ctx.Err() != nil {
			return nil
		}
		if err := lio.WritePrompt(h.deps.Style.Paint(telnet.BrightCyan, "> ")); err != nil {
			return fmt.Errorf("writing prompt: %w", err)
		}
		line, err := lio.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}

		quit, err := h.Exec(ctx, line, lio)
		h.flush(sub, lio)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if quit {
			return nil
		}
	}
}

// Exec runs one line and writes its reply to out.
//
// Postcondition: quit is true for the quit command. err is non-nil only when
// the simulation is unreachable or out fails.
func (h *Handler) Exec(ctx context.Context, line string, out LineIO) (quit bool, err error) {
	style := h.deps.Style
	parsed := command.Parse(line)
	if parsed.Command == "" {
		return false, nil
	}
	cmd, ok := h.deps.Registry.Resolve(parsed.Command)
	if !ok {
		return false, out.WriteLine(style.Paintf(telnet.Dim, "You don't know how to '%s'. Type 'help'.", parsed.Command))
	}
	act, err := command.Translate(cmd, parsed)
	if err != nil {
		if errors.Is(err, command.ErrUsage) {
			return false, out.WriteLine(style.Paint(telnet.Red, "Usage: "+cmd.Usage))
		}
		h.logger.Error("command translation failed", zap.String("command", cmd.Name), zap.Error(err))
		return false, out.WriteLine(style.Paint(telnet.Red, err.Error()))
	}

	switch act.Kind {
	case command.ActIntent:
		var applyErr error
		if err := h.deps.Sim.Do(ctx, func() { applyErr = h.deps.Controller.Apply(act.Intent) }); err != nil {
			return false, fmt.Errorf("applying %s: %w", act.Intent, err)
		}
		if applyErr != nil {
			h.logger.Debug("intent rejected", zap.Stringer("intent", act.Intent), zap.Error(applyErr))
			return false, out.WriteLine(style.Paint(telnet.Red, describe(applyErr)))
		}
		return false, nil

	case command.ActWait:
		if err := h.deps.Wait(ctx, act.Wait); err != nil {
			return false, err
		}
		return false, nil

	case command.ActStatus:
		var st player.Status
		if err := h.deps.Sim.Do(ctx, func() { st = h.deps.Controller.Status() }); err != nil {
			return false, fmt.Errorf("reading status: %w", err)
		}
		return false, out.WriteLine(RenderStatus(st, style))

	case command.ActHelp:
		return false, out.WriteLine(RenderHelp(h.deps.Registry, style))

	case command.ActQuit:
		return true, out.WriteLine(style.Paint(telnet.Cyan, "Goodbye."))
	}
	return false, nil
}

func (h *Handler) flush(sub *Subscription, out LineIO) {
	for _, line := range sub.Drain() {
		_ = out.WriteLine(h.deps.Style.Paint(telnet.Magenta, line))
	}
}

func describe(err error) string {
	switch {
	case errors.Is(err, player.ErrNotFound):
		return "Nothing by that name here."
	case errors.Is(err, player.ErrRejected):
		return "You can't carry that."
	case errors.Is(err, dispenser.ErrAlreadyOpen):
		return "That chest is already open."
	}
	return err.Error()
}

// Stream adapts a reader and writer pair, such as standard input and output,
// to LineIO.
type Stream struct {
	scanner *bufio.Scanner
	mu      sync.Mutex
	w       io.Writer
}

// NewStream returns a Stream reading lines from r and writing to w.
func NewStream(r io.Reader, w io.Writer) *Stream {
	return &Stream{scanner: bufio.NewScanner(r), w: w}
}

// ReadLine returns the next line, or io.EOF at the end of input.
func (s *Stream) ReadLine() (string, error) {
	if s.scanner.Scan() {
		return s.scanner.Text(), nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// WriteLine writes text and a newline.
func (s *Stream) WriteLine(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintln(s.w, strings.ReplaceAll(text, "\r\n", "\n"))
	return err
}

// WritePrompt writes prompt without a newline.
func (s *Stream) WritePrompt(prompt string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.w, prompt)
	return err
}

// StdinService runs one console session as a lifecycle service. It returns
// when the session quits or its input ends, which ends the run.
type StdinService struct {
	handler *Handler
	lio     LineIO
}

// NewStdinService returns a service running handler on lio.
func NewStdinService(handler *Handler, lio LineIO) *StdinService {
	return &StdinService{handler: handler, lio: lio}
}

// Start runs the session until it ends or ctx is cancelled. A read blocked on
// the terminal is abandoned on cancellation.
func (s *StdinService) Start(ctx context.Context) error {
	done := make(chan error, 1)
	go func() { done <- s.handler.Run(ctx, s.lio) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return nil
	}
}

// Stop is a no-op; Start follows its context.
func (s *StdinService) Stop() {}
