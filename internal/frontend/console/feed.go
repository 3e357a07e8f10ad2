package console

import (
	"fmt"
	"sync"

	"github.com/cory-johannsen/arsenal/internal/game/inventory"
	"github.com/cory-johannsen/arsenal/internal/game/weapon"
)

// feedLimit bounds the backlog of one subscriber; older lines are dropped.
const feedLimit = 256

// Feed turns inventory notifications and projectile requests into event lines
// for every console session. It stands in for the projectile system: spawned
// projectiles are reported, not simulated.
//
// Notification methods run on the simulation goroutine; Subscription methods
// run on session goroutines.
type Feed struct {
	mu   sync.Mutex
	next int
	subs map[int][]string
}

// NewFeed returns a Feed with no subscribers.
func NewFeed() *Feed {
	return &Feed{subs: make(map[int][]string)}
}

// Subscription is one session's view of the Feed.
type Subscription struct {
	feed *Feed
	id   int
}

// Subscribe starts collecting lines for a new reader.
func (f *Feed) Subscribe() *Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	f.subs[f.next] = nil
	return &Subscription{feed: f, id: f.next}
}

// Drain returns and clears the lines collected since the last Drain.
func (s *Subscription) Drain() []string {
	s.feed.mu.Lock()
	defer s.feed.mu.Unlock()
	lines := s.feed.subs[s.id]
	if lines != nil {
		s.feed.subs[s.id] = nil
	}
	return lines
}

// Close stops collecting.
func (s *Subscription) Close() {
	s.feed.mu.Lock()
	defer s.feed.mu.Unlock()
	delete(s.feed.subs, s.id)
}

func (f *Feed) publish(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, lines := range f.subs {
		if len(lines) >= feedLimit {
			lines = lines[1:]
		}
		f.subs[id] = append(lines, line)
	}
}

// WeaponAssigned implements inventory.Listener.
func (f *Feed) WeaponAssigned(slot inventory.Slot, w *weapon.Instance) {
	f.publish("%s <- %s [%d|%d] %s", slot, w.TypeID(), w.MagazineAmmo(), w.TotalAmmo(), shortID(w.ID()))
}

// WeaponRemoved implements inventory.Listener.
func (f *Feed) WeaponRemoved(slot inventory.Slot) {
	f.publish("%s emptied", slot)
}

// SelectionChanged implements inventory.Listener.
func (f *Feed) SelectionChanged(slot inventory.Slot) {
	f.publish("selected %s", slot)
}

// SpawnProjectile implements weapon.ProjectileSpawner.
func (f *Feed) SpawnProjectile(req weapon.ProjectileRequest) {
	verb := "fired"
	if req.Thrown {
		verb = "thrown"
	}
	what := req.WeaponType
	if req.Spec.ID != "" {
		what = req.Spec.ID
	}
	f.publish("%s %s %s from (%.2f, %.2f)", what, verb, facingName(req.Direction), req.Origin.X, req.Origin.Y)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func facingName(dir weapon.Vec2) string {
	switch {
	case dir.X < 0:
		return "left"
	case dir.X > 0:
		return "right"
	}
	return "nowhere"
}
