package sim

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrLoopStopped is returned by Submit once the loop has exited.
var ErrLoopStopped = errors.New("sim: loop stopped")

// StepFunc is invoked once per simulation step with the fixed step duration.
type StepFunc func(step time.Duration)

type namedStep struct {
	name string
	fn   StepFunc
}

// Loop drives registered step callbacks from a wall-clock ticker on a single
// goroutine. Work from other goroutines enters through Submit and runs on that
// same goroutine before the next step, so simulation state is never touched
// concurrently.
//
// Invariant: step callbacks run in registration order, at most maxCatchUp times
// per wall-clock wake-up.
type Loop struct {
	step       time.Duration
	maxCatchUp int
	logger     *zap.Logger

	mu    sync.Mutex
	steps []namedStep

	inbox    chan func()
	done     chan struct{}
	stopOnce sync.Once
}

// NewLoop returns a stopped Loop.
//
// Precondition: step > 0; maxCatchUp >= 1; logger may be nil.
func NewLoop(step time.Duration, maxCatchUp int, logger *zap.Logger) *Loop {
	if step <= 0 {
		panic("sim.NewLoop: step must be > 0")
	}
	if maxCatchUp < 1 {
		maxCatchUp = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		step:       step,
		maxCatchUp: maxCatchUp,
		logger:     logger,
		inbox:      make(chan func(), 64),
		done:       make(chan struct{}),
	}
}

// OnStep registers fn under name. Registering an existing name replaces it in
// place.
func (l *Loop) OnStep(name string, fn StepFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.steps {
		if l.steps[i].name == name {
			l.steps[i].fn = fn
			return
		}
	}
	l.steps = append(l.steps, namedStep{name: name, fn: fn})
}

// Submit queues fn to run on the loop goroutine before the next step.
// Blocks while the inbox is full.
//
// Postcondition: returns ErrLoopStopped if the loop has exited or exits while
// waiting; ctx errors are returned as-is.
func (l *Loop) Submit(ctx context.Context, fn func()) error {
	select {
	case <-l.done:
		return ErrLoopStopped
	default:
	}
	select {
	case l.inbox <- fn:
		return nil
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do runs fn on the loop goroutine and waits for it to return.
//
// Postcondition: on nil error fn has completed. Returns ErrLoopStopped if the
// loop exits before fn runs.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	ran := make(chan struct{})
	if err := l.Submit(ctx, func() {
		defer close(ran)
		fn()
	}); err != nil {
		return err
	}
	select {
	case <-ran:
		return nil
	case <-l.done:
		// fn may have been the last thing the loop ran.
		select {
		case <-ran:
			return nil
		default:
			return ErrLoopStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Start runs the loop until ctx is cancelled or Stop is called.
//
// Postcondition: returns nil on orderly shutdown.
func (l *Loop) Start(ctx context.Context) error {
	ticker := time.NewTicker(l.step)
	defer ticker.Stop()
	defer l.Stop()

	started := time.Now()
	var ran int64
	l.logger.Info("simulation loop started",
		zap.Duration("step", l.step),
		zap.Int("max_catch_up", l.maxCatchUp),
	)
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("simulation loop stopped", zap.Int64("steps", ran))
			return nil
		case <-l.done:
			l.logger.Info("simulation loop stopped", zap.Int64("steps", ran))
			return nil
		case fn := <-l.inbox:
			fn()
		case now := <-ticker.C:
			l.drainInbox()
			due := int64(now.Sub(started)/l.step) - ran
			if due > int64(l.maxCatchUp) {
				l.logger.Debug("simulation loop behind, dropping steps",
					zap.Int64("due", due),
					zap.Int("max_catch_up", l.maxCatchUp),
				)
				ran += due - int64(l.maxCatchUp)
				due = int64(l.maxCatchUp)
			}
			for i := int64(0); i < due; i++ {
				l.runStep()
				ran++
			}
		}
	}
}

// Stop ends the loop. Safe to call multiple times.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

func (l *Loop) drainInbox() {
	for {
		select {
		case fn := <-l.inbox:
			fn()
		default:
			return
		}
	}
}

func (l *Loop) runStep() {
	l.mu.Lock()
	steps := make([]namedStep, len(l.steps))
	copy(steps, l.steps)
	l.mu.Unlock()
	for _, s := range steps {
		s.fn(l.step)
	}
}
