// Package player turns discrete player intents into calls on the inventory
// and the held weapons, and drives them once per simulation tick.
package player

import (
	"fmt"

	"github.com/cory-johannsen/arsenal/internal/game/inventory"
	"github.com/cory-johannsen/arsenal/internal/game/weapon"
)

// IntentKind enumerates what the player asked for.
type IntentKind int

const (
	// Fire pulls the trigger of the selected main weapon and holds it until
	// Release, Select or Drop.
	Fire IntentKind = iota
	// Release lets go of the main trigger.
	Release
	// Reload reloads the selected main weapon.
	Reload
	// Throw pulls the throwable's trigger, independent of the main selection.
	Throw
	// ReleaseThrow lets go of the throwable's trigger.
	ReleaseThrow
	// Select chooses a main slot.
	Select
	// Pickup acquires a weapon from the floor by ID (or unique ID prefix).
	Pickup
	// Drop releases the selected main weapon to the floor.
	Drop
	// Open opens a dispenser by ID.
	Open
	// Face turns the player left or right.
	Face
)

var intentNames = [...]string{
	Fire:         "fire",
	Release:      "release",
	Reload:       "reload",
	Throw:        "throw",
	ReleaseThrow: "release_throw",
	Select:       "select",
	Pickup:       "pickup",
	Drop:         "drop",
	Open:         "open",
	Face:         "face",
}

func (k IntentKind) String() string {
	if k < 0 || int(k) >= len(intentNames) {
		return fmt.Sprintf("intent(%d)", int(k))
	}
	return intentNames[k]
}

// Intent is one discrete request. Only the field matching Kind is read:
// Slot for Select, Target for Pickup and Open, Direction for Face.
type Intent struct {
	Kind      IntentKind
	Slot      inventory.Slot
	Target    string
	Direction weapon.Vec2
}

func (in Intent) String() string {
	switch in.Kind {
	case Select:
		return fmt.Sprintf("%s %s", in.Kind, in.Slot)
	case Pickup, Open:
		return fmt.Sprintf("%s %s", in.Kind, in.Target)
	case Face:
		return fmt.Sprintf("%s %+.0f", in.Kind, in.Direction.X)
	}
	return in.Kind.String()
}
