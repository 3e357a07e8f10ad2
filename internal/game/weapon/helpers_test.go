package weapon_test

import (
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/arsenal/internal/game/weapon"
	"github.com/cory-johannsen/arsenal/internal/sim"
)

type spawnRecorder struct {
	reqs []weapon.ProjectileRequest
}

func (r *spawnRecorder) SpawnProjectile(req weapon.ProjectileRequest) {
	r.reqs = append(r.reqs, req)
}

type physicsRecorder struct {
	calls map[string][]bool
}

func (p *physicsRecorder) SetSimulated(id string, simulated bool) {
	if p.calls == nil {
		p.calls = make(map[string][]bool)
	}
	p.calls[id] = append(p.calls[id], simulated)
}

type transitionRecord struct {
	from, to weapon.State
}

type presenterRecorder struct {
	seen []transitionRecord
}

func (p *presenterRecorder) StateChanged(_ *weapon.Instance, from, to weapon.State) {
	p.seen = append(p.seen, transitionRecord{from: from, to: to})
}

func assaultRifle() *weapon.Profile {
	return &weapon.Profile{
		ID: "assault_rifle", Name: "Assault Rifle", Tag: weapon.TagWeapon,
		Policy: weapon.PolicyFullAuto, FireRate: 10, MagazineCapacity: 30,
		ReloadTime: 2 * time.Second,
		Projectile: weapon.ProjectileSpec{ID: "bullet", Speed: 40, Damage: 10},
	}
}

func sniper() *weapon.Profile {
	return &weapon.Profile{
		ID: "sniper", Name: "Sniper", Tag: weapon.TagWeapon,
		Policy: weapon.PolicySemiAuto, FireRate: 1, MagazineCapacity: 5,
		ReloadTime: 3 * time.Second,
		Projectile: weapon.ProjectileSpec{ID: "sniper_round", Speed: 90, Damage: 60},
	}
}

func shotgun() *weapon.Profile {
	return &weapon.Profile{
		ID: "shotgun", Name: "Shotgun", Tag: weapon.TagWeapon,
		Policy: weapon.PolicySemiAuto, FireRate: 2, MagazineCapacity: 6,
		ReloadTime: 1500 * time.Millisecond,
	}
}

func rocketLauncher() *weapon.Profile {
	return &weapon.Profile{
		ID: "rocket_launcher", Name: "Rocket Launcher", Tag: weapon.TagWeapon,
		Policy: weapon.PolicySingleShot, FireRate: 1, MagazineCapacity: 1,
		ReloadTime: 2 * time.Second, RearmDelay: weapon.DefaultRearmDelay,
	}
}

func grenade() *weapon.Profile {
	return &weapon.Profile{
		ID: "grenade", Name: "Grenade", Tag: weapon.TagThrowable,
		Policy: weapon.PolicyThrowable, FireRate: 2, MagazineCapacity: 3,
		ReloadTime: time.Second, MergeIntoMagazine: true,
	}
}

// helperT is satisfied by both *testing.T and *rapid.T.
type helperT interface {
	require.TestingT
	Helper()
}

type fixture struct {
	sched     *sim.Scheduler
	spawns    *spawnRecorder
	physics   *physicsRecorder
	presenter *presenterRecorder
	env       weapon.Env
}

func newFixture() *fixture {
	f := &fixture{
		sched:     sim.NewScheduler(),
		spawns:    &spawnRecorder{},
		physics:   &physicsRecorder{},
		presenter: &presenterRecorder{},
	}
	f.env = weapon.Env{
		Scheduler:   f.sched,
		Projectiles: f.spawns,
		Physics:     f.physics,
		Presenter:   f.presenter,
	}
	return f
}

// held returns an instance already picked up (InInventory).
func (f *fixture) held(t helperT, p *weapon.Profile, magazine, total int) *weapon.Instance {
	t.Helper()
	w, err := weapon.NewInstance(p, magazine, total, f.env)
	require.NoError(t, err)
	require.NoError(t, w.Transition(weapon.InInventory))
	return w
}

// active returns a selected instance ready to fire.
func (f *fixture) active(t helperT, p *weapon.Profile, magazine, total int) *weapon.Instance {
	t.Helper()
	w := f.held(t, p, magazine, total)
	require.NoError(t, w.Transition(weapon.Active))
	return w
}
