package weapon

// semiAuto fires one round per trigger pull.
type semiAuto struct{}

func (semiAuto) Kind() PolicyKind { return PolicySemiAuto }

func (semiAuto) Shoot(w *Instance) {
	if !w.gates.CanShoot || w.magazine < 1 {
		return
	}
	w.gates.CanShoot = false
	w.spawnProjectile()
	w.magazine--
	armOnRelease(w)
}

func (semiAuto) ReleaseTrigger(w *Instance) {
	releaseEdge(w)
}

// Reload only checks the gate: a full or empty-reserve reload still spends
// the reload time.
func (semiAuto) Reload(w *Instance) {
	if !w.gates.CanReload || w.Busy() {
		return
	}
	startTransferReload(w)
}
