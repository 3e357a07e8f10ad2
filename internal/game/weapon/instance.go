package weapon

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arsenal/internal/sim"
)

// Gates is the per-instance state owned by the firing policy.
//
// Invariant: after enable, disable or destroy every field holds its reset value
// (CanShoot and CanReload true, arming flags cleared).
type Gates struct {
	CanShoot  bool
	CanReload bool
	// AwaitRelease is set by edge-triggered policies until ReleaseTrigger arrives.
	AwaitRelease bool
	// CoolingDown is set while the post-shot delay of an edge-triggered policy runs.
	CoolingDown bool
}

func resetGates() Gates {
	return Gates{CanShoot: true, CanReload: true}
}

// Instance is one concrete weapon with live ammo counts.
//
// Invariant: 0 <= MagazineAmmo() <= Profile().MagazineCapacity; TotalAmmo() >= 0;
// at most one timed continuation is pending at any time.
//
// Instance is not safe for concurrent use; only the simulation goroutine of its
// holder may call it.
type Instance struct {
	id      string
	profile *Profile
	policy  FiringPolicy
	env     Env
	logger  *zap.Logger

	tag      Tag
	state    State
	magazine int
	reserve  int
	facing   Vec2
	position Vec2
	extents  Vec2
	hostile  bool

	gates     Gates
	pending   sim.Handle
	destroyed bool
}

// NewInstance creates an OnGround instance of profile with explicit ammo.
//
// Precondition: profile is valid; env.Scheduler is non-nil.
// Postcondition: returns an error when ammo violates the instance invariant.
func NewInstance(profile *Profile, magazine, total int, env Env) (*Instance, error) {
	if profile == nil {
		return nil, fmt.Errorf("weapon: NewInstance: profile must not be nil")
	}
	if env.Scheduler == nil {
		return nil, fmt.Errorf("weapon: NewInstance: scheduler must not be nil")
	}
	if magazine < 0 || magazine > profile.MagazineCapacity {
		return nil, fmt.Errorf("weapon: NewInstance: %s magazine %d outside [0, %d]", profile.ID, magazine, profile.MagazineCapacity)
	}
	if total < 0 {
		return nil, fmt.Errorf("weapon: NewInstance: %s total ammo %d must be >= 0", profile.ID, total)
	}
	policy, ok := PolicyFor(profile.Policy)
	if !ok {
		return nil, fmt.Errorf("weapon: NewInstance: %s has unknown policy %q", profile.ID, profile.Policy)
	}
	env = env.withDefaults()
	id := uuid.New().String()
	return &Instance{
		id:       id,
		profile:  profile,
		policy:   policy,
		env:      env,
		logger:   env.Logger.With(zap.String("weapon_id", id), zap.String("weapon_type", profile.ID)),
		tag:      profile.Tag,
		state:    OnGround,
		magazine: magazine,
		reserve:  total,
		facing:   Left,
		gates:    resetGates(),
	}, nil
}

// ID returns the unique instance identifier.
func (w *Instance) ID() string { return w.id }

// Profile returns the shared, read-only profile.
func (w *Instance) Profile() *Profile { return w.profile }

// TypeID returns the weapon type identifier.
func (w *Instance) TypeID() string { return w.profile.ID }

// Policy returns the attached firing policy.
func (w *Instance) Policy() FiringPolicy { return w.policy }

// Tag returns the classification the instance presents to the inventory.
func (w *Instance) Tag() Tag { return w.tag }

// SetTag overrides the classification, e.g. for an untagged world prop.
func (w *Instance) SetTag(t Tag) { w.tag = t }

// State returns the current state.
func (w *Instance) State() State { return w.state }

// MagazineAmmo returns the rounds in the magazine.
func (w *Instance) MagazineAmmo() int { return w.magazine }

// TotalAmmo returns the reserve rounds outside the magazine.
func (w *Instance) TotalAmmo() int { return w.reserve }

// CombinedAmmo returns magazine plus reserve.
func (w *Instance) CombinedAmmo() int { return w.magazine + w.reserve }

// Facing returns the unit direction the weapon points.
func (w *Instance) Facing() Vec2 { return w.facing }

// SetFacing points the weapon Left or Right by the sign of dir.X; a zero X is ignored.
func (w *Instance) SetFacing(dir Vec2) {
	if d, ok := dir.Horizontal(); ok {
		w.facing = d
	}
}

// Position returns the world position last reported by the presentation layer.
func (w *Instance) Position() Vec2 { return w.position }

// SetPosition records the world position.
func (w *Instance) SetPosition(p Vec2) { w.position = p }

// SetExtents records the half-size of the presented sprite.
func (w *Instance) SetExtents(e Vec2) { w.extents = e }

// Muzzle returns the projectile spawn point: the sprite edge along Facing.
func (w *Instance) Muzzle() Vec2 {
	return w.position.Add(w.facing.Mul(w.extents))
}

// Hostile reports whether projectiles from this weapon come from a non-player holder.
func (w *Instance) Hostile() bool { return w.hostile }

// SetHostile marks the holder as hostile (true) or friendly (false).
func (w *Instance) SetHostile(h bool) { w.hostile = h }

// Gates returns a copy of the policy gate state.
func (w *Instance) Gates() Gates { return w.gates }

// Busy reports whether a timed continuation is pending.
func (w *Instance) Busy() bool { return w.pending != 0 }

// Alive reports whether the instance has not been destroyed.
func (w *Instance) Alive() bool { return !w.destroyed }

// Transition moves the instance to state to.
// Leaving Active disables the instance: the pending continuation is dropped and
// the gates reset. Entering Active enables it, which also resets the gates.
//
// Postcondition: on success physics and presentation have been notified once;
// same-state requests are no-ops without notification.
func (w *Instance) Transition(to State) error {
	if w.destroyed {
		return ErrDestroyed
	}
	from := w.state
	if from == to {
		return nil
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	if from == Active {
		w.disable()
	}
	w.state = to
	if to == Active {
		w.enable()
	}
	if w.env.Physics != nil {
		w.env.Physics.SetSimulated(w.id, to == OnGround)
	}
	if w.env.Presenter != nil {
		w.env.Presenter.StateChanged(w, from, to)
	}
	w.logger.Debug("weapon state changed",
		zap.Stringer("from", from),
		zap.Stringer("to", to),
	)
	return nil
}

// Fire forwards a trigger pull to the policy while Active.
func (w *Instance) Fire() {
	if w.state != Active || w.destroyed {
		return
	}
	w.policy.Shoot(w)
}

// ReleaseTrigger forwards a trigger release to the policy while Active.
func (w *Instance) ReleaseTrigger() {
	if w.state != Active || w.destroyed {
		return
	}
	w.policy.ReleaseTrigger(w)
}

// Reload forwards a reload request to the policy while Active.
func (w *Instance) Reload() {
	if w.state != Active || w.destroyed {
		return
	}
	w.policy.Reload(w)
}

// Destroy removes the instance from play. Any pending continuation is dropped
// without applying its effects.
//
// Postcondition: Alive() == false; further calls are no-ops.
func (w *Instance) Destroy() {
	if w.destroyed {
		return
	}
	w.disable()
	w.destroyed = true
	w.logger.Debug("weapon destroyed",
		zap.Int("magazine", w.magazine),
		zap.Int("total", w.reserve),
	)
}

func (w *Instance) enable() {
	w.gates = resetGates()
}

func (w *Instance) disable() {
	if n := w.env.Scheduler.CancelOwner(w.id); n > 0 {
		w.logger.Debug("pending weapon action abandoned", zap.Int("continuations", n))
	}
	w.pending = 0
	w.gates = resetGates()
}

// schedule queues fn after delay as the single pending continuation.
// fn only runs if the instance is still alive when the deadline arrives.
func (w *Instance) schedule(delay time.Duration, fn func()) {
	var h sim.Handle
	h = w.env.Scheduler.After(w.id, delay, func() {
		if w.pending == h {
			w.pending = 0
		}
		if w.destroyed {
			return
		}
		fn()
	})
	w.pending = h
}

func (w *Instance) spawnProjectile() {
	w.env.Projectiles.SpawnProjectile(ProjectileRequest{
		WeaponID:   w.id,
		WeaponType: w.profile.ID,
		Spec:       w.profile.Projectile,
		Origin:     w.Muzzle(),
		Direction:  w.facing,
		Hostile:    w.hostile,
		Thrown:     w.profile.IsThrowable(),
	})
}

// AddAmmo merges n rounds into the instance: into the reserve, or for
// MergeIntoMagazine profiles into the magazine up to capacity with the
// overflow going to the reserve.
//
// Precondition: n >= 0.
func (w *Instance) AddAmmo(n int) {
	if n <= 0 {
		return
	}
	if !w.profile.MergeIntoMagazine {
		w.reserve += n
		return
	}
	room := w.profile.MagazineCapacity - w.magazine
	if n <= room {
		w.magazine += n
		return
	}
	w.magazine += room
	w.reserve += n - room
}
