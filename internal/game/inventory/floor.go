package inventory

import (
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arsenal/internal/game/weapon"
)

// Floor tracks weapon instances lying in the world, in drop order.
// Like the instances it holds, it is not safe for concurrent use: it is read
// and mutated only on the simulation goroutine.
type Floor struct {
	items  []*weapon.Instance
	logger *zap.Logger
}

// NewFloor creates a Floor with no weapons on it.
//
// Postcondition: returned Floor is ready for use with zero items.
func NewFloor(logger *zap.Logger) *Floor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Floor{logger: logger}
}

// Release places w on the floor. Releasing a weapon already present is a no-op.
//
// Precondition: w is non-nil.
func (f *Floor) Release(w *weapon.Instance) {
	for _, it := range f.items {
		if it == w {
			return
		}
	}
	f.items = append(f.items, w)
	f.logger.Debug("weapon on floor",
		zap.String("weapon_id", w.ID()),
		zap.String("weapon_type", w.TypeID()),
	)
}

// Take removes the weapon with the given ID from the floor.
//
// Postcondition: returns false and leaves the floor unchanged if it is absent.
func (f *Floor) Take(id string) bool {
	_, ok := f.remove(id)
	return ok
}

// Find returns the weapon with the given ID without removing it.
func (f *Floor) Find(id string) (*weapon.Instance, bool) {
	for _, it := range f.items {
		if it.ID() == id {
			return it, true
		}
	}
	return nil, false
}

// FindByPrefix returns the single weapon whose ID starts with prefix, so a
// console user can type a short ID. It reports false when zero or several match.
func (f *Floor) FindByPrefix(prefix string) (*weapon.Instance, bool) {
	if prefix == "" {
		return nil, false
	}
	var found *weapon.Instance
	for _, it := range f.items {
		if strings.HasPrefix(it.ID(), prefix) {
			if found != nil {
				return nil, false
			}
			found = it
		}
	}
	return found, found != nil
}

// Items returns a snapshot copy of the weapons on the floor.
//
// Postcondition: returned slice is a copy; mutations do not affect internal state.
func (f *Floor) Items() []*weapon.Instance {
	out := make([]*weapon.Instance, len(f.items))
	copy(out, f.items)
	return out
}

// Len reports the number of weapons on the floor.
func (f *Floor) Len() int {
	return len(f.items)
}

// Sweep removes destroyed instances and returns how many were removed.
func (f *Floor) Sweep() int {
	kept := f.items[:0]
	removed := 0
	for _, it := range f.items {
		if !it.Alive() {
			removed++
			continue
		}
		kept = append(kept, it)
	}
	for i := len(kept); i < len(f.items); i++ {
		f.items[i] = nil
	}
	f.items = kept
	return removed
}

func (f *Floor) remove(id string) (*weapon.Instance, bool) {
	for i, it := range f.items {
		if it.ID() == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return it, true
		}
	}
	return nil, false
}
