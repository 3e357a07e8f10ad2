// Package dispenser implements content-defined chests that spawn weapons with
// explicit ammo when opened and hand them to an inventory.
package dispenser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/arsenal/internal/game/weapon"
)

// Drop is one weapon a dispenser produces.
type Drop struct {
	Weapon   string `yaml:"weapon"`
	Magazine int    `yaml:"magazine"`
	Total    int    `yaml:"total"`
}

// Validate checks the ammo counts of d against its profile in catalog.
func (d Drop) Validate(catalog *weapon.Catalog) error {
	p, err := catalog.Lookup(d.Weapon)
	if err != nil {
		return err
	}
	if d.Magazine < 0 || d.Magazine > p.MagazineCapacity {
		return fmt.Errorf("%s magazine %d outside [0, %d]", d.Weapon, d.Magazine, p.MagazineCapacity)
	}
	if d.Total < 0 {
		return fmt.Errorf("%s total %d must be >= 0", d.Weapon, d.Total)
	}
	return nil
}

// Def defines a dispenser loaded from YAML.
type Def struct {
	ID       string      `yaml:"id"`
	Name     string      `yaml:"name"`
	Position weapon.Vec2 `yaml:"position"`
	Drops    []Drop      `yaml:"drops"`
	// Hook names a Lua function in the dispenser script set that returns
	// extra drops. Empty means no script.
	Hook string `yaml:"hook"`
}

// Validate checks that the Def satisfies its invariants.
//
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (d *Def) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if len(d.Drops) == 0 && d.Hook == "" {
		errs = append(errs, errors.New("a dispenser needs drops or a hook"))
	}
	for i, drop := range d.Drops {
		if drop.Weapon == "" {
			errs = append(errs, fmt.Errorf("drops[%d]: weapon must not be empty", i))
		}
		if drop.Magazine < 0 || drop.Total < 0 {
			errs = append(errs, fmt.Errorf("drops[%d]: ammo must be >= 0", i))
		}
	}
	return errors.Join(errs...)
}

// ValidateAgainst checks every static drop against catalog.
func (d *Def) ValidateAgainst(catalog *weapon.Catalog) error {
	var errs []error
	for i, drop := range d.Drops {
		if err := drop.Validate(catalog); err != nil {
			errs = append(errs, fmt.Errorf("dispenser %q drops[%d]: %w", d.ID, i, err))
		}
	}
	return errors.Join(errs...)
}

// LoadDefs reads all *.yaml and *.yml files from dir and returns one Def per file.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid Defs or the first encountered error.
func LoadDefs(dir string) ([]*Def, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadDefs: cannot read directory %q: %w", dir, err)
	}

	var defs []*Def
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadDefs: cannot read file %q: %w", path, err)
		}
		var d Def
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("LoadDefs: cannot parse %q: %w", path, err)
		}
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("LoadDefs: invalid dispenser in %q: %w", path, err)
		}
		defs = append(defs, &d)
	}
	return defs, nil
}
