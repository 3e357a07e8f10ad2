package inventory

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arsenal/internal/game/weapon"
)

// ErrWrongSlot is returned when a weapon is placed in a slot of the wrong class.
var ErrWrongSlot = errors.New("inventory: weapon does not fit slot")

// Allocator owns the three inventory slots of one holder.
//
// Invariant: a weapon instance is referenced by at most one slot; the
// Throwable slot holds only throwable-policy weapons and the main slots hold
// only the rest; the selected slot is Primary or Secondary.
//
// Allocator is not safe for concurrent use; only the simulation goroutine may call it.
type Allocator struct {
	slots    [slotCount]*weapon.Instance
	selected Slot
	world    World
	listener Listener
	logger   *zap.Logger
}

// NewAllocator returns an empty Allocator with Primary selected.
//
// Precondition: world is non-nil. listener and logger may be nil.
func NewAllocator(world World, listener Listener, logger *zap.Logger) *Allocator {
	if listener == nil {
		listener = ListenerFuncs{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Allocator{
		selected: Primary,
		world:    world,
		listener: listener,
		logger:   logger,
	}
}

// Acquire places a weapon presented by the world into the inventory.
// The target slot is chosen in this order: the Throwable slot for
// throwable-policy weapons; a slot already holding the same weapon type;
// the first empty main slot; the selected main slot, whose occupant is
// displaced.
//
// Postcondition: returns false with no mutation when the candidate is
// destroyed or carries no recognized tag. Returns true when the candidate
// ends up slotted or merged, or was already held.
func (a *Allocator) Acquire(candidate *weapon.Instance) bool {
	if candidate == nil || !candidate.Alive() {
		return false
	}
	if s, ok := a.SlotOf(candidate); ok {
		a.logger.Debug("weapon already held",
			zap.String("weapon_id", candidate.ID()),
			zap.Stringer("slot", s),
		)
		return true
	}

	target, ok := a.resolveTarget(candidate)
	if !ok {
		a.logger.Debug("acquire rejected: unclassified weapon",
			zap.String("weapon_id", candidate.ID()),
			zap.String("tag", string(candidate.Tag())),
		)
		return false
	}
	if err := a.PlaceInSlot(target, candidate); err != nil {
		a.logger.Error("acquire failed", zap.Stringer("slot", target), zap.Error(err))
		return false
	}
	return true
}

func (a *Allocator) resolveTarget(candidate *weapon.Instance) (Slot, bool) {
	if candidate.Profile().IsThrowable() {
		return Throwable, true
	}
	if !candidate.Tag().Recognized() {
		return 0, false
	}
	for _, s := range Slots {
		if occ := a.slots[s]; occ != nil && occ.TypeID() == candidate.TypeID() {
			return s, true
		}
	}
	for _, s := range [...]Slot{Primary, Secondary} {
		if a.slots[s] == nil {
			return s, true
		}
	}
	return a.selected, true
}

// PlaceInSlot resolves candidate into slot:
// an empty slot takes the candidate; a same-type occupant absorbs the
// candidate's ammo and the candidate is destroyed; a different-type occupant
// is dropped to the world and replaced.
//
// Precondition: candidate is alive and not held by this Allocator.
// Postcondition: returns ErrWrongSlot when the candidate's policy does not
// match the slot class, with no mutation.
func (a *Allocator) PlaceInSlot(slot Slot, candidate *weapon.Instance) error {
	if !slot.Valid() {
		return fmt.Errorf("inventory: PlaceInSlot: invalid slot %d", int(slot))
	}
	if candidate == nil || !candidate.Alive() {
		return fmt.Errorf("inventory: PlaceInSlot: candidate is not alive")
	}
	if candidate.Profile().IsThrowable() != (slot == Throwable) {
		return fmt.Errorf("%w: %s in %s", ErrWrongSlot, candidate.TypeID(), slot)
	}

	incumbent := a.slots[slot]
	switch {
	case incumbent == nil:
		return a.occupy(slot, candidate)

	case incumbent.TypeID() == candidate.TypeID():
		amount := candidate.CombinedAmmo()
		incumbent.AddAmmo(amount)
		a.world.Take(candidate.ID())
		candidate.Destroy()
		a.logger.Debug("weapon merged",
			zap.Stringer("slot", slot),
			zap.String("weapon_type", incumbent.TypeID()),
			zap.Int("amount", amount),
			zap.Int("magazine", incumbent.MagazineAmmo()),
			zap.Int("total", incumbent.TotalAmmo()),
		)
		return nil

	default:
		a.slots[slot] = nil
		if err := incumbent.Transition(weapon.OnGround); err != nil {
			a.slots[slot] = incumbent
			return fmt.Errorf("inventory: PlaceInSlot: displacing %s: %w", incumbent.TypeID(), err)
		}
		a.world.Release(incumbent)
		a.logger.Debug("weapon swapped",
			zap.Stringer("slot", slot),
			zap.String("dropped", incumbent.TypeID()),
			zap.String("taken", candidate.TypeID()),
		)
		return a.occupy(slot, candidate)
	}
}

func (a *Allocator) occupy(slot Slot, w *weapon.Instance) error {
	if err := w.Transition(weapon.InInventory); err != nil {
		return fmt.Errorf("inventory: occupying %s: %w", slot, err)
	}
	a.world.Take(w.ID())
	a.slots[slot] = w
	a.listener.WeaponAssigned(slot, w)
	return nil
}

// SelectSlot makes slot the selected main slot. Requests for Throwable are
// ignored. The other main occupant, if any, is stowed to InInventory; the new
// selection becomes Active on the next Tick.
//
// Postcondition: SelectionChanged is raised for every accepted request, even
// when the slot is empty or already selected.
func (a *Allocator) SelectSlot(slot Slot) {
	if !slot.IsMain() {
		return
	}
	a.selected = slot
	other := Secondary
	if slot == Secondary {
		other = Primary
	}
	if w := a.slots[other]; w != nil && w.State() != weapon.InInventory {
		if err := w.Transition(weapon.InInventory); err != nil {
			a.logger.Error("stow failed", zap.Stringer("slot", other), zap.Error(err))
		}
	}
	a.listener.SelectionChanged(slot)
}

// Tick elevates the selected main occupant and the throwable occupant from
// InInventory to Active. Weapons a holder has put in Inactive stay there.
func (a *Allocator) Tick() {
	for _, s := range [...]Slot{a.selected, Throwable} {
		w := a.slots[s]
		if w == nil || w.State() != weapon.InInventory {
			continue
		}
		if err := w.Transition(weapon.Active); err != nil {
			a.logger.Error("activate failed", zap.Stringer("slot", s), zap.Error(err))
		}
	}
}

// Drop releases the selected main occupant to the world. See DropSlot.
func (a *Allocator) Drop() bool {
	return a.DropSlot(a.selected)
}

// DropSlot releases the occupant of slot to the world.
//
// Postcondition: returns false when the slot is empty; otherwise the weapon is
// OnGround, owned by the world, and WeaponRemoved was raised.
func (a *Allocator) DropSlot(slot Slot) bool {
	if !slot.Valid() {
		return false
	}
	w := a.slots[slot]
	if w == nil {
		return false
	}
	if err := w.Transition(weapon.OnGround); err != nil {
		a.logger.Error("drop failed", zap.Stringer("slot", slot), zap.Error(err))
		return false
	}
	a.slots[slot] = nil
	a.world.Release(w)
	a.listener.WeaponRemoved(slot)
	a.logger.Debug("weapon dropped", zap.Stringer("slot", slot), zap.String("weapon_id", w.ID()))
	return true
}

// Occupant returns the weapon in slot, or nil.
func (a *Allocator) Occupant(slot Slot) *weapon.Instance {
	if !slot.Valid() {
		return nil
	}
	return a.slots[slot]
}

// Selected returns the selected main slot.
func (a *Allocator) Selected() Slot { return a.selected }

// ActiveWeapon returns the occupant of the selected main slot, or nil.
func (a *Allocator) ActiveWeapon() *weapon.Instance { return a.slots[a.selected] }

// ThrowableWeapon returns the occupant of the Throwable slot, or nil.
func (a *Allocator) ThrowableWeapon() *weapon.Instance { return a.slots[Throwable] }

// SlotOf reports which slot holds w.
func (a *Allocator) SlotOf(w *weapon.Instance) (Slot, bool) {
	for _, s := range Slots {
		if a.slots[s] == w && w != nil {
			return s, true
		}
	}
	return 0, false
}

// Held returns the occupied slots' weapons in slot order.
func (a *Allocator) Held() []*weapon.Instance {
	out := make([]*weapon.Instance, 0, slotCount)
	for _, s := range Slots {
		if w := a.slots[s]; w != nil {
			out = append(out, w)
		}
	}
	return out
}

// CheckInvariants verifies the structural rules of the inventory and returns
// every violation joined, or nil.
func (a *Allocator) CheckInvariants() error {
	var errs []error
	if !a.selected.IsMain() {
		errs = append(errs, fmt.Errorf("selected slot %s is not a main slot", a.selected))
	}
	seen := make(map[*weapon.Instance]Slot, slotCount)
	for _, s := range Slots {
		w := a.slots[s]
		if w == nil {
			continue
		}
		if prev, dup := seen[w]; dup {
			errs = append(errs, fmt.Errorf("weapon %s in both %s and %s", w.ID(), prev, s))
		}
		seen[w] = s
		if !w.Alive() {
			errs = append(errs, fmt.Errorf("%s holds destroyed weapon %s", s, w.ID()))
		}
		if w.Profile().IsThrowable() != (s == Throwable) {
			errs = append(errs, fmt.Errorf("%s holds %s of the wrong class", s, w.TypeID()))
		}
		if w.State() == weapon.OnGround {
			errs = append(errs, fmt.Errorf("%s holds %s in state %s", s, w.ID(), w.State()))
		}
		if w.MagazineAmmo() < 0 || w.MagazineAmmo() > w.Profile().MagazineCapacity {
			errs = append(errs, fmt.Errorf("%s magazine %d outside [0, %d]", s, w.MagazineAmmo(), w.Profile().MagazineCapacity))
		}
		if w.TotalAmmo() < 0 {
			errs = append(errs, fmt.Errorf("%s total ammo %d is negative", s, w.TotalAmmo()))
		}
		if s.IsMain() && s != a.selected && w.State() == weapon.Active {
			errs = append(errs, fmt.Errorf("unselected %s is active", s))
		}
	}
	return errors.Join(errs...)
}
