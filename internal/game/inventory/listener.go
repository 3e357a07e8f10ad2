package inventory

import "github.com/cory-johannsen/arsenal/internal/game/weapon"

// Listener receives slot notifications. Calls are fire-and-forget and are made
// synchronously on the simulation goroutine; implementations must not call
// back into the Allocator.
type Listener interface {
	WeaponAssigned(slot Slot, w *weapon.Instance)
	WeaponRemoved(slot Slot)
	SelectionChanged(slot Slot)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	OnAssigned  func(slot Slot, w *weapon.Instance)
	OnRemoved   func(slot Slot)
	OnSelection func(slot Slot)
}

func (l ListenerFuncs) WeaponAssigned(slot Slot, w *weapon.Instance) {
	if l.OnAssigned != nil {
		l.OnAssigned(slot, w)
	}
}

func (l ListenerFuncs) WeaponRemoved(slot Slot) {
	if l.OnRemoved != nil {
		l.OnRemoved(slot)
	}
}

func (l ListenerFuncs) SelectionChanged(slot Slot) {
	if l.OnSelection != nil {
		l.OnSelection(slot)
	}
}

// World owns weapons that are not in any inventory.
type World interface {
	// Release hands w to the world; w is already OnGround.
	Release(w *weapon.Instance)
	// Take removes the weapon with id from the world. It reports whether the
	// weapon was there.
	Take(id string) bool
}
