package weapon

import "go.uber.org/zap"

// singleShot must be reloaded after every shot. Pulling the trigger on an
// empty weapon still launches and cycles the gates.
type singleShot struct{}

func (singleShot) Kind() PolicyKind { return PolicySingleShot }

func (singleShot) Shoot(w *Instance) {
	if !w.gates.CanShoot || w.magazine < 0 {
		return
	}
	w.gates.CanShoot = false
	w.gates.CanReload = false
	if w.magazine == 0 {
		w.logger.Debug("firing from empty magazine")
	}
	w.spawnProjectile()
	w.magazine = 0
	// CanShoot stays down until a reload completes.
	w.schedule(w.profile.RearmDelay, func() {
		w.gates.CanReload = true
	})
}

func (singleShot) ReleaseTrigger(*Instance) {}

func (singleShot) Reload(w *Instance) {
	if !w.gates.CanReload || w.Busy() {
		return
	}
	if w.magazine > 0 || w.reserve < 1 {
		return
	}
	w.gates.CanShoot = false
	w.gates.CanReload = false
	w.logger.Debug("reload started", zap.Duration("reload_time", w.profile.ReloadTime))
	w.schedule(w.profile.ReloadTime, func() {
		w.magazine = 1
		w.reserve--
		w.gates = resetGates()
	})
}
