// Package inventory assigns weapons to the three inventory slots, merges
// ammo from duplicate pickups, and tracks weapons lying on the floor.
package inventory

import (
	"fmt"
	"strings"
)

// Slot is one of the three fixed inventory positions.
type Slot int

const (
	// Primary is the first main weapon slot and the initial selection.
	Primary Slot = iota
	// Secondary is the second main weapon slot.
	Secondary
	// Throwable holds throwable-policy weapons and is usable alongside the selected main slot.
	Throwable

	slotCount = 3
)

// Slots lists every slot in acquisition search order.
var Slots = [slotCount]Slot{Primary, Secondary, Throwable}

var slotNames = [slotCount]string{
	Primary:   "primary",
	Secondary: "secondary",
	Throwable: "throwable",
}

// String returns the lower-case slot name.
func (s Slot) String() string {
	if !s.Valid() {
		return fmt.Sprintf("slot(%d)", int(s))
	}
	return slotNames[s]
}

// Valid reports whether s names one of the three slots.
func (s Slot) Valid() bool {
	return s >= Primary && s <= Throwable
}

// IsMain reports whether s is Primary or Secondary.
func (s Slot) IsMain() bool {
	return s == Primary || s == Secondary
}

// ParseSlot accepts a slot name or its 1-based number ("1" is primary).
//
// Postcondition: returns an error for anything else.
func ParseSlot(raw string) (Slot, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "primary", "p":
		return Primary, nil
	case "2", "secondary", "s":
		return Secondary, nil
	case "3", "throwable", "t":
		return Throwable, nil
	}
	return 0, fmt.Errorf("inventory: unknown slot %q", raw)
}
