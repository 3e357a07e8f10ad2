// Package sim provides the fixed-step simulation clock, the scheduler for timed
// continuations, and the wall-clock loop that drives both.
//
// Nothing in this package blocks: a "wait" is a continuation queued with a
// deadline in simulated time and run by Advance once the clock reaches it.
package sim

import (
	"sort"
	"time"
)

// Handle identifies one scheduled continuation.
type Handle uint64

type entry struct {
	handle  Handle
	owner   string
	readyAt time.Duration
	fn      func()
}

// Scheduler queues continuations against simulated time.
//
// Scheduler is not safe for concurrent use; it belongs to the single
// simulation goroutine like everything it drives.
//
// Invariant: pending is ordered by (readyAt, handle).
type Scheduler struct {
	now     time.Duration
	next    Handle
	pending []entry
}

// NewScheduler returns a Scheduler at simulated time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the current simulated time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After queues fn to run once simulated time has advanced by delay.
// owner groups continuations so they can be cancelled together.
//
// Precondition: fn must not be nil; a negative delay is treated as zero.
// Postcondition: fn runs during the first Advance whose target >= Now()+delay,
// unless cancelled first.
func (s *Scheduler) After(owner string, delay time.Duration, fn func()) Handle {
	if delay < 0 {
		delay = 0
	}
	s.next++
	e := entry{handle: s.next, owner: owner, readyAt: s.now + delay, fn: fn}
	i := sort.Search(len(s.pending), func(i int) bool {
		return s.pending[i].readyAt > e.readyAt
	})
	s.pending = append(s.pending, entry{})
	copy(s.pending[i+1:], s.pending[i:])
	s.pending[i] = e
	return e.handle
}

// Cancel removes the continuation identified by h.
//
// Postcondition: returns true iff h was pending; its fn will never run.
func (s *Scheduler) Cancel(h Handle) bool {
	for i := range s.pending {
		if s.pending[i].handle == h {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return true
		}
	}
	return false
}

// CancelOwner removes every continuation queued by owner and returns how many
// were dropped.
func (s *Scheduler) CancelOwner(owner string) int {
	kept := s.pending[:0]
	dropped := 0
	for _, e := range s.pending {
		if e.owner == owner {
			dropped++
			continue
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(s.pending); i++ {
		s.pending[i] = entry{}
	}
	s.pending = kept
	return dropped
}

// PendingFor reports how many continuations owner has queued.
func (s *Scheduler) PendingFor(owner string) int {
	n := 0
	for _, e := range s.pending {
		if e.owner == owner {
			n++
		}
	}
	return n
}

// Len reports the total number of queued continuations.
func (s *Scheduler) Len() int {
	return len(s.pending)
}

// Advance moves simulated time forward by dt and runs every continuation that
// became due, in deadline order. See AdvanceTo.
func (s *Scheduler) Advance(dt time.Duration) int {
	if dt < 0 {
		dt = 0
	}
	return s.AdvanceTo(s.now + dt)
}

// AdvanceTo moves simulated time to target and runs due continuations one at a
// time. While a continuation runs, Now() reports its deadline, so anything it
// schedules is timed from the moment it logically fired; if that new deadline
// is also <= target it runs within the same call.
//
// Precondition: a continuation must not reschedule itself with zero delay
// forever.
// Postcondition: Now() == max(Now(), target); returns the number of
// continuations run.
func (s *Scheduler) AdvanceTo(target time.Duration) int {
	ran := 0
	for len(s.pending) > 0 && s.pending[0].readyAt <= target {
		e := s.pending[0]
		s.pending[0] = entry{}
		s.pending = s.pending[1:]
		if e.readyAt > s.now {
			s.now = e.readyAt
		}
		e.fn()
		ran++
	}
	if target > s.now {
		s.now = target
	}
	return ran
}
