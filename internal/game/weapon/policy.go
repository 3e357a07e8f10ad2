package weapon

import "go.uber.org/zap"

// FiringPolicy governs fire cadence, ammo consumption and reloading for a
// weapon type. Implementations are stateless and shared by every instance of
// that type; all mutable state lives in the instance's Gates.
//
// A call whose preconditions are not met is a silent no-op.
type FiringPolicy interface {
	Kind() PolicyKind
	// Shoot fires once if the gates and ammo allow it.
	Shoot(w *Instance)
	// ReleaseTrigger reports that the trigger was let go.
	ReleaseTrigger(w *Instance)
	// Reload starts a timed reload if the gates and ammo allow it.
	Reload(w *Instance)
}

var policies = map[PolicyKind]FiringPolicy{
	PolicySemiAuto:   semiAuto{},
	PolicyFullAuto:   fullAuto{},
	PolicySingleShot: singleShot{},
	PolicyThrowable:  throwable{},
}

// PolicyFor returns the shared policy for kind.
func PolicyFor(kind PolicyKind) (FiringPolicy, bool) {
	p, ok := policies[kind]
	return p, ok
}

// armOnRelease starts an edge-triggered cooldown: CanShoot comes back only
// after the fire interval has elapsed and the trigger has been released.
func armOnRelease(w *Instance) {
	w.gates.AwaitRelease = true
	w.gates.CoolingDown = true
	w.schedule(w.profile.FireInterval(), func() {
		w.gates.CoolingDown = false
		rearm(w)
	})
}

func rearm(w *Instance) {
	if w.gates.CoolingDown || w.gates.AwaitRelease || !w.gates.CanReload {
		return
	}
	w.gates.CanShoot = true
}

func releaseEdge(w *Instance) {
	if !w.gates.AwaitRelease {
		return
	}
	w.gates.AwaitRelease = false
	rearm(w)
}

// startTransferReload moves min(reserve, capacity-magazine) rounds into the
// magazine after the reload time. The amount is fixed when the reload starts
// and applied all at once; a disable or destroy before then discards it.
func startTransferReload(w *Instance) {
	capacity := w.profile.MagazineCapacity
	amount := min(w.reserve, capacity-w.magazine)
	w.gates.CanShoot = false
	w.gates.CanReload = false
	w.logger.Debug("reload started",
		zap.Int("amount", amount),
		zap.Duration("reload_time", w.profile.ReloadTime),
	)
	w.schedule(w.profile.ReloadTime, func() {
		n := min(amount, w.reserve, capacity-w.magazine)
		if n > 0 {
			w.reserve -= n
			w.magazine += n
		}
		w.gates = resetGates()
		w.logger.Debug("reload finished",
			zap.Int("magazine", w.magazine),
			zap.Int("total", w.reserve),
		)
	})
}
