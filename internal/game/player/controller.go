package player

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arsenal/internal/game/dispenser"
	"github.com/cory-johannsen/arsenal/internal/game/inventory"
	"github.com/cory-johannsen/arsenal/internal/game/weapon"
	"github.com/cory-johannsen/arsenal/internal/sim"
)

var (
	// ErrNotFound is returned when an intent names a floor weapon or
	// dispenser that does not exist.
	ErrNotFound = errors.New("player: target not found")
	// ErrRejected is returned when the inventory refuses a pickup.
	ErrRejected = errors.New("player: pickup rejected")
)

// Deps carries the collaborators of a Controller.
type Deps struct {
	Clock      *sim.Clock
	Scheduler  *sim.Scheduler
	Allocator  *inventory.Allocator
	Floor      *inventory.Floor
	Dispensers *dispenser.Registry // may be nil
	Logger     *zap.Logger
	// WeaponExtents is the half-size given to held weapons for muzzle placement.
	WeaponExtents weapon.Vec2
}

// Controller applies intents for one player and runs the per-tick driver.
//
// Controller is not safe for concurrent use; only the simulation goroutine may call it.
type Controller struct {
	deps     Deps
	logger   *zap.Logger
	facing   weapon.Vec2
	position weapon.Vec2
	queue    []Intent
	// trigger is the main weapon whose trigger is held down, or nil.
	trigger *weapon.Instance
}

// NewController returns a Controller facing Left at the origin.
//
// Precondition: Clock, Scheduler, Allocator and Floor are non-nil.
func NewController(deps Deps) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		deps:   deps,
		logger: logger,
		facing: weapon.Left,
	}
}

// Facing returns the player's facing.
func (c *Controller) Facing() weapon.Vec2 { return c.facing }

// Position returns the player's position.
func (c *Controller) Position() weapon.Vec2 { return c.position }

// SetPosition moves the player; held weapons follow on the next sync.
func (c *Controller) SetPosition(p weapon.Vec2) {
	c.position = p
	c.syncHeld()
}

// Enqueue queues in to be applied during the next Tick.
func (c *Controller) Enqueue(in Intent) {
	c.queue = append(c.queue, in)
}

// Tick runs one simulation step: advance the clock, run due continuations,
// activate the selected weapons, keep held weapons on the player, clear
// destroyed weapons off the floor, pull a held trigger again, then apply
// queued intents in order.
func (c *Controller) Tick() {
	now := c.deps.Clock.Tick()
	c.deps.Scheduler.AdvanceTo(now)
	c.deps.Allocator.Tick()
	c.syncHeld()
	if n := c.deps.Floor.Sweep(); n > 0 {
		c.logger.Debug("destroyed weapons swept from floor", zap.Int("count", n))
	}
	c.holdTrigger()

	queue := c.queue
	c.queue = nil
	for _, in := range queue {
		if err := c.Apply(in); err != nil {
			c.logger.Debug("intent not applied", zap.Stringer("intent", in), zap.Error(err))
		}
	}
}

// Step adapts Tick to sim.StepFunc.
func (c *Controller) Step(time.Duration) { c.Tick() }

// Advance runs as many ticks as needed to cover d and returns the count.
func (c *Controller) Advance(d time.Duration) int {
	n := c.deps.Clock.TicksFor(d)
	for range n {
		c.Tick()
	}
	return n
}

// Apply performs in immediately.
//
// Postcondition: gameplay no-ops (no ammo, gate closed, empty slot) return
// nil. ErrNotFound and ErrRejected report a bad target.
func (c *Controller) Apply(in Intent) error {
	alloc := c.deps.Allocator
	switch in.Kind {
	case Fire:
		if w := alloc.ActiveWeapon(); w != nil {
			c.trigger = w
			w.Fire()
		}
	case Release:
		c.trigger = nil
		if w := alloc.ActiveWeapon(); w != nil {
			w.ReleaseTrigger()
		}
	case Reload:
		if w := alloc.ActiveWeapon(); w != nil {
			w.Reload()
		}
	case Throw:
		if w := alloc.ThrowableWeapon(); w != nil {
			w.Fire()
		}
	case ReleaseThrow:
		if w := alloc.ThrowableWeapon(); w != nil {
			w.ReleaseTrigger()
		}
	case Select:
		c.trigger = nil
		alloc.SelectSlot(in.Slot)
	case Drop:
		c.trigger = nil
		if w := alloc.ActiveWeapon(); w != nil {
			w.SetPosition(c.position)
		}
		alloc.Drop()
	case Pickup:
		return c.pickup(in.Target)
	case Open:
		return c.open(in.Target)
	case Face:
		if d, ok := in.Direction.Horizontal(); ok {
			c.facing = d
			c.syncHeld()
		}
	default:
		return fmt.Errorf("player: unknown intent %d", int(in.Kind))
	}
	return nil
}

func (c *Controller) pickup(target string) error {
	w, ok := c.deps.Floor.Find(target)
	if !ok {
		w, ok = c.deps.Floor.FindByPrefix(target)
	}
	if !ok {
		return fmt.Errorf("%w: weapon %q", ErrNotFound, target)
	}
	if !c.deps.Allocator.Acquire(w) {
		return fmt.Errorf("%w: %s", ErrRejected, w.TypeID())
	}
	c.syncHeld()
	return nil
}

func (c *Controller) open(target string) error {
	if c.deps.Dispensers == nil {
		return fmt.Errorf("%w: dispenser %q", ErrNotFound, target)
	}
	d, ok := c.deps.Dispensers.Get(target)
	if !ok {
		return fmt.Errorf("%w: dispenser %q", ErrNotFound, target)
	}
	if _, err := d.Open(c.deps.Allocator); err != nil {
		return err
	}
	c.syncHeld()
	return nil
}

// holdTrigger fires the held main weapon again. Policies decide whether the
// pull registers: full-auto repeats at its fire rate, the others need a release.
func (c *Controller) holdTrigger() {
	if c.trigger == nil {
		return
	}
	if c.trigger != c.deps.Allocator.ActiveWeapon() {
		c.trigger = nil
		return
	}
	c.trigger.Fire()
}

// syncHeld keeps every held weapon at the player's position and facing.
func (c *Controller) syncHeld() {
	for _, w := range c.deps.Allocator.Held() {
		w.SetFacing(c.facing)
		w.SetPosition(c.position)
		w.SetExtents(c.deps.WeaponExtents)
		w.SetHostile(false)
	}
}

// SlotStatus describes one inventory slot.
type SlotStatus struct {
	Slot     inventory.Slot
	Empty    bool
	WeaponID string
	Type     string
	State    weapon.State
	Magazine int
	Capacity int
	Total    int
	Gates    weapon.Gates
	Busy     bool
}

// FloorItem describes one weapon on the floor.
type FloorItem struct {
	WeaponID string
	Type     string
	Magazine int
	Total    int
}

// Status is a read-only snapshot for presentation.
type Status struct {
	Now      time.Duration
	Ticks    uint64
	Selected inventory.Slot
	Facing   weapon.Vec2
	Slots    []SlotStatus
	Floor    []FloorItem
}

// Status returns a snapshot of the player's arsenal and the floor.
func (c *Controller) Status() Status {
	st := Status{
		Now:      c.deps.Clock.Now(),
		Ticks:    c.deps.Clock.Ticks(),
		Selected: c.deps.Allocator.Selected(),
		Facing:   c.facing,
	}
	for _, s := range inventory.Slots {
		ss := SlotStatus{Slot: s, Empty: true}
		if w := c.deps.Allocator.Occupant(s); w != nil {
			ss = SlotStatus{
				Slot:     s,
				WeaponID: w.ID(),
				Type:     w.TypeID(),
				State:    w.State(),
				Magazine: w.MagazineAmmo(),
				Capacity: w.Profile().MagazineCapacity,
				Total:    w.TotalAmmo(),
				Gates:    w.Gates(),
				Busy:     w.Busy(),
			}
		}
		st.Slots = append(st.Slots, ss)
	}
	for _, w := range c.deps.Floor.Items() {
		if !w.Alive() {
			continue
		}
		st.Floor = append(st.Floor, FloorItem{
			WeaponID: w.ID(),
			Type:     w.TypeID(),
			Magazine: w.MagazineAmmo(),
			Total:    w.TotalAmmo(),
		})
	}
	return st
}
