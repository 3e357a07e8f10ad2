package weapon

import "errors"

// ErrInvalidTransition is returned when a holder requests a state change the
// weapon state machine does not allow.
var ErrInvalidTransition = errors.New("weapon: invalid state transition")

// ErrDestroyed is returned when a destroyed instance is asked to change state.
var ErrDestroyed = errors.New("weapon: instance destroyed")

// State is where a weapon currently lives.
type State int

const (
	// OnGround: in the world, collectible, physically simulated.
	OnGround State = iota
	// InInventory: held but not selected; inert.
	InInventory
	// Inactive: held, shown, not eligible to fire. Entered only by a holder.
	Inactive
	// Active: selected and eligible to fire and reload.
	Active
)

var stateNames = [...]string{
	OnGround:    "on_ground",
	InInventory: "in_inventory",
	Inactive:    "inactive",
	Active:      "active",
}

// String returns the snake_case name of s.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// CanTransition reports whether from -> to is an allowed change.
// Same-state transitions are always allowed and are no-ops.
func CanTransition(from, to State) bool {
	if from == to {
		return true
	}
	switch to {
	case OnGround:
		return true
	case InInventory:
		return from == OnGround || from == Active || from == Inactive
	case Active:
		return from == InInventory
	case Inactive:
		return from == InInventory || from == Active
	}
	return false
}
