package weapon

import "fmt"

// Factory creates instances of catalog weapon types sharing one Env.
type Factory struct {
	catalog *Catalog
	env     Env
}

// NewFactory returns a Factory over catalog.
//
// Precondition: catalog is non-nil and env.Scheduler is non-nil.
func NewFactory(catalog *Catalog, env Env) *Factory {
	return &Factory{catalog: catalog, env: env}
}

// Catalog returns the catalog the factory draws profiles from.
func (f *Factory) Catalog() *Catalog { return f.catalog }

// New creates an OnGround instance of typeID with the given ammo.
//
// Postcondition: returns ErrUnknownWeapon (wrapped) for IDs not in the catalog.
func (f *Factory) New(typeID string, magazine, total int) (*Instance, error) {
	p, err := f.catalog.Lookup(typeID)
	if err != nil {
		return nil, err
	}
	w, err := NewInstance(p, magazine, total, f.env)
	if err != nil {
		return nil, fmt.Errorf("weapon: Factory.New: %w", err)
	}
	return w, nil
}

// Full creates an instance with a full magazine and total rounds in reserve.
func (f *Factory) Full(typeID string, total int) (*Instance, error) {
	p, err := f.catalog.Lookup(typeID)
	if err != nil {
		return nil, err
	}
	return f.New(typeID, p.MagazineCapacity, total)
}
