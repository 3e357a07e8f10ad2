package weapon

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/arsenal/internal/sim"
)

// Physics enables or disables world simulation of a weapon body.
type Physics interface {
	// SetSimulated wakes the body when simulated is true and puts it to sleep otherwise.
	SetSimulated(weaponID string, simulated bool)
}

// Presenter observes state changes to pick sprites and animations.
type Presenter interface {
	StateChanged(w *Instance, from, to State)
}

// ProjectileRequest asks the projectile system to create one projectile.
type ProjectileRequest struct {
	WeaponID   string
	WeaponType string
	Spec       ProjectileSpec
	Origin     Vec2
	Direction  Vec2
	// Hostile is true when the holder is not the player.
	Hostile bool
	// Thrown is true for throwable-policy weapons.
	Thrown bool
}

// ProjectileSpawner creates projectiles on request.
type ProjectileSpawner interface {
	SpawnProjectile(req ProjectileRequest)
}

// Env carries the collaborators every Instance needs.
// Scheduler is required; the rest may be nil.
type Env struct {
	Scheduler   *sim.Scheduler
	Projectiles ProjectileSpawner
	Physics     Physics
	Presenter   Presenter
	Logger      *zap.Logger
}

func (e Env) withDefaults() Env {
	if e.Logger == nil {
		e.Logger = zap.NewNop()
	}
	if e.Projectiles == nil {
		e.Projectiles = discardProjectiles{}
	}
	return e
}

type discardProjectiles struct{}

func (discardProjectiles) SpawnProjectile(ProjectileRequest) {}
