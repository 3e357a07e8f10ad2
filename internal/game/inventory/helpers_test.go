package inventory_test

import (
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/arsenal/internal/game/inventory"
	"github.com/cory-johannsen/arsenal/internal/game/weapon"
	"github.com/cory-johannsen/arsenal/internal/sim"
)

type helperT interface {
	require.TestingT
	Helper()
}

type event struct {
	kind string
	slot inventory.Slot
	id   string
}

type eventRecorder struct {
	events []event
}

func (r *eventRecorder) WeaponAssigned(slot inventory.Slot, w *weapon.Instance) {
	r.events = append(r.events, event{kind: "assigned", slot: slot, id: w.ID()})
}

func (r *eventRecorder) WeaponRemoved(slot inventory.Slot) {
	r.events = append(r.events, event{kind: "removed", slot: slot})
}

func (r *eventRecorder) SelectionChanged(slot inventory.Slot) {
	r.events = append(r.events, event{kind: "selection", slot: slot})
}

func testCatalog(t helperT) *weapon.Catalog {
	t.Helper()
	c, err := weapon.NewCatalog(
		&weapon.Profile{
			ID: "assault_rifle", Name: "Assault Rifle", Tag: weapon.TagWeapon,
			Policy: weapon.PolicyFullAuto, FireRate: 10, MagazineCapacity: 30, ReloadTime: 2 * time.Second,
		},
		&weapon.Profile{
			ID: "shotgun", Name: "Shotgun", Tag: weapon.TagWeapon,
			Policy: weapon.PolicySemiAuto, FireRate: 2, MagazineCapacity: 6, ReloadTime: time.Second,
		},
		&weapon.Profile{
			ID: "sniper", Name: "Sniper", Tag: weapon.TagWeapon,
			Policy: weapon.PolicySemiAuto, FireRate: 1, MagazineCapacity: 5, ReloadTime: 3 * time.Second,
		},
		&weapon.Profile{
			ID: "rocket_launcher", Name: "Rocket Launcher", Tag: weapon.TagWeapon,
			Policy: weapon.PolicySingleShot, FireRate: 1, MagazineCapacity: 1, ReloadTime: 2 * time.Second,
			RearmDelay: weapon.DefaultRearmDelay,
		},
		&weapon.Profile{
			ID: "grenade", Name: "Grenade", Tag: weapon.TagThrowable,
			Policy: weapon.PolicyThrowable, FireRate: 2, MagazineCapacity: 3, ReloadTime: time.Second,
			MergeIntoMagazine: true,
		},
	)
	require.NoError(t, err)
	return c
}

type fixture struct {
	sched     *sim.Scheduler
	factory   *weapon.Factory
	floor     *inventory.Floor
	events    *eventRecorder
	allocator *inventory.Allocator
}

func newFixture(t helperT) *fixture {
	t.Helper()
	f := &fixture{
		sched:  sim.NewScheduler(),
		floor:  inventory.NewFloor(nil),
		events: &eventRecorder{},
	}
	f.factory = weapon.NewFactory(testCatalog(t), weapon.Env{Scheduler: f.sched})
	f.allocator = inventory.NewAllocator(f.floor, f.events, nil)
	return f
}

// spawn creates a weapon lying on the floor.
func (f *fixture) spawn(t helperT, typeID string, magazine, total int) *weapon.Instance {
	t.Helper()
	w, err := f.factory.New(typeID, magazine, total)
	require.NoError(t, err)
	f.floor.Release(w)
	return w
}
