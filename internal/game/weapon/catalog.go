package weapon

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownWeapon is returned when a weapon type identifier is not in the catalog.
var ErrUnknownWeapon = errors.New("weapon: unknown weapon type")

// Catalog holds every loaded Profile indexed by weapon type identifier.
// It is read-only once construction finishes and may be shared freely.
type Catalog struct {
	profiles map[string]*Profile
}

// NewCatalog returns a Catalog holding the given profiles.
//
// Precondition: every profile is non-nil.
// Postcondition: returns an error if any profile is invalid or an ID repeats.
func NewCatalog(profiles ...*Profile) (*Catalog, error) {
	c := &Catalog{profiles: make(map[string]*Profile, len(profiles))}
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("weapon: Catalog: profile %q: %w", p.ID, err)
		}
		if _, exists := c.profiles[p.ID]; exists {
			return nil, fmt.Errorf("weapon: Catalog: weapon ID %q already registered", p.ID)
		}
		c.profiles[p.ID] = p
	}
	return c, nil
}

// LoadCatalog loads every profile in dir into a new Catalog.
func LoadCatalog(dir string) (*Catalog, error) {
	profiles, err := LoadProfiles(dir)
	if err != nil {
		return nil, err
	}
	return NewCatalog(profiles...)
}

// Profile returns the Profile for id and whether it was found.
func (c *Catalog) Profile(id string) (*Profile, bool) {
	p, ok := c.profiles[id]
	return p, ok
}

// Lookup is Profile with an error for unknown IDs.
func (c *Catalog) Lookup(id string) (*Profile, error) {
	p, ok := c.profiles[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWeapon, id)
	}
	return p, nil
}

// Len reports how many profiles are registered.
func (c *Catalog) Len() int {
	return len(c.profiles)
}

// All returns every Profile sorted by ID.
func (c *Catalog) All() []*Profile {
	out := make([]*Profile, 0, len(c.profiles))
	for _, p := range c.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
