// Package weapon provides weapon profiles, the content catalog, the per-weapon
// state machine and the firing policies that govern shooting and reloading.
package weapon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Tag is the classification a weapon presents when lying in the world.
type Tag string

const (
	// TagNone marks an object the inventory cannot classify.
	TagNone Tag = ""
	// TagWeapon marks a main-slot weapon.
	TagWeapon Tag = "weapon"
	// TagThrowable marks a throwable.
	TagThrowable Tag = "throwable"
)

// Recognized reports whether t is a classification the inventory accepts.
func (t Tag) Recognized() bool {
	return t == TagWeapon || t == TagThrowable
}

// PolicyKind selects the firing policy of a weapon type.
type PolicyKind string

const (
	// PolicySemiAuto fires one round per trigger pull (e.g. sniper).
	PolicySemiAuto PolicyKind = "semi_auto"
	// PolicyFullAuto keeps firing while the trigger is held (e.g. assault rifle).
	PolicyFullAuto PolicyKind = "full_auto"
	// PolicySingleShot must be reloaded after every shot (e.g. rocket launcher).
	PolicySingleShot PolicyKind = "single_shot"
	// PolicyThrowable throws one unit per pull (e.g. grenade).
	PolicyThrowable PolicyKind = "throwable"
)

// DefaultRearmDelay is the single-shot delay before a reload is permitted.
const DefaultRearmDelay = 100 * time.Millisecond

// ProjectileSpec is the payload handed to the projectile system untouched.
type ProjectileSpec struct {
	ID       string        `yaml:"id"`
	Speed    float64       `yaml:"speed"`
	Damage   int           `yaml:"damage"`
	Radius   float64       `yaml:"radius"`
	Lifetime time.Duration `yaml:"-"`
}

// Profile holds the immutable parameters shared by every instance of a weapon type.
//
// Invariant: FireRate > 0; MagazineCapacity >= 0; ReloadTime >= 0.
type Profile struct {
	ID               string
	Name             string
	Tag              Tag
	Policy           PolicyKind
	FireRate         float64 // shots per second
	MagazineCapacity int
	ReloadTime       time.Duration
	RearmDelay       time.Duration // single-shot only
	// MergeIntoMagazine routes merged ammo into the magazine instead of the
	// reserve, for explosive-class weapons without a magazine/reserve split.
	MergeIntoMagazine bool
	Projectile        ProjectileSpec
}

// FireInterval returns the minimum time between two shots.
//
// Precondition: FireRate > 0.
func (p *Profile) FireInterval() time.Duration {
	return time.Duration(float64(time.Second) / p.FireRate)
}

// IsThrowable reports whether the profile uses the throwable policy.
func (p *Profile) IsThrowable() bool {
	return p.Policy == PolicyThrowable
}

// Validate checks that the Profile satisfies its invariants.
//
// Precondition: p is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (p *Profile) Validate() error {
	var errs []error
	if p.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if p.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if _, ok := PolicyFor(p.Policy); !ok {
		errs = append(errs, fmt.Errorf("Policy %q is not one of semi_auto, full_auto, single_shot, throwable", p.Policy))
	}
	if !(p.FireRate > 0) {
		errs = append(errs, fmt.Errorf("FireRate must be > 0, got %v", p.FireRate))
	}
	if p.MagazineCapacity < 0 {
		errs = append(errs, fmt.Errorf("MagazineCapacity must be >= 0, got %d", p.MagazineCapacity))
	}
	if p.Policy == PolicySingleShot && p.MagazineCapacity < 1 {
		errs = append(errs, fmt.Errorf("single_shot requires MagazineCapacity >= 1, got %d", p.MagazineCapacity))
	}
	// A merged round would leave a fired single_shot weapon with a loaded
	// magazine it can neither reload nor fire.
	if p.Policy == PolicySingleShot && p.MergeIntoMagazine {
		errs = append(errs, errors.New("single_shot does not support merge_into_magazine"))
	}
	if p.ReloadTime < 0 {
		errs = append(errs, fmt.Errorf("ReloadTime must be >= 0, got %s", p.ReloadTime))
	}
	if p.RearmDelay < 0 {
		errs = append(errs, fmt.Errorf("RearmDelay must be >= 0, got %s", p.RearmDelay))
	}
	switch {
	case p.IsThrowable() && p.Tag != TagThrowable:
		errs = append(errs, fmt.Errorf("throwable policy requires tag %q, got %q", TagThrowable, p.Tag))
	case !p.IsThrowable() && p.Tag != TagWeapon:
		errs = append(errs, fmt.Errorf("policy %q requires tag %q, got %q", p.Policy, TagWeapon, p.Tag))
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon profile validation failed: %v", errs)
	}
	return nil
}

// profileFile is the on-disk YAML shape of a Profile; durations are strings.
type profileFile struct {
	ID                string     `yaml:"id"`
	Name              string     `yaml:"name"`
	Tag               Tag        `yaml:"tag"`
	Policy            PolicyKind `yaml:"policy"`
	FireRate          float64    `yaml:"fire_rate"`
	MagazineCapacity  int        `yaml:"magazine_capacity"`
	ReloadTime        string     `yaml:"reload_time"`
	RearmDelay        string     `yaml:"rearm_delay"`
	MergeIntoMagazine bool       `yaml:"merge_into_magazine"`
	Projectile        struct {
		ProjectileSpec `yaml:",inline"`
		Lifetime       string `yaml:"lifetime"`
	} `yaml:"projectile"`
}

func (f *profileFile) toProfile() (*Profile, error) {
	p := &Profile{
		ID:                f.ID,
		Name:              f.Name,
		Tag:               f.Tag,
		Policy:            f.Policy,
		FireRate:          f.FireRate,
		MagazineCapacity:  f.MagazineCapacity,
		MergeIntoMagazine: f.MergeIntoMagazine,
		Projectile:        f.Projectile.ProjectileSpec,
		RearmDelay:        DefaultRearmDelay,
	}
	if p.Tag == TagNone {
		p.Tag = TagWeapon
		if p.IsThrowable() {
			p.Tag = TagThrowable
		}
	}
	var err error
	if p.ReloadTime, err = parseDuration("reload_time", f.ReloadTime); err != nil {
		return nil, err
	}
	if f.RearmDelay != "" {
		if p.RearmDelay, err = parseDuration("rearm_delay", f.RearmDelay); err != nil {
			return nil, err
		}
	}
	if p.Projectile.Lifetime, err = parseDuration("projectile.lifetime", f.Projectile.Lifetime); err != nil {
		return nil, err
	}
	return p, nil
}

func parseDuration(field, raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, raw, err)
	}
	return d, nil
}

// ParseProfile decodes and validates a single Profile from YAML.
//
// Postcondition: returns a valid Profile or a non-nil error.
func ParseProfile(data []byte) (*Profile, error) {
	var f profileFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	p, err := f.toProfile()
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadProfiles reads all *.yaml and *.yml files from dir, parses each as a
// Profile, validates it, and returns the collected slice.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid Profiles or the first encountered error.
func LoadProfiles(dir string) ([]*Profile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadProfiles: cannot read directory %q: %w", dir, err)
	}

	var profiles []*Profile
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadProfiles: cannot read file %q: %w", path, err)
		}
		p, err := ParseProfile(data)
		if err != nil {
			return nil, fmt.Errorf("LoadProfiles: invalid weapon in %q: %w", path, err)
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}
