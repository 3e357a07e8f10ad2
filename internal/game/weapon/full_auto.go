package weapon

// fullAuto keeps firing at the profile rate while the trigger is held.
type fullAuto struct{}

func (fullAuto) Kind() PolicyKind { return PolicyFullAuto }

func (fullAuto) Shoot(w *Instance) {
	if !w.gates.CanShoot || w.magazine <= 0 {
		return
	}
	w.gates.CanShoot = false
	w.spawnProjectile()
	w.magazine--
	w.schedule(w.profile.FireInterval(), func() {
		w.gates.CanShoot = true
	})
}

func (fullAuto) ReleaseTrigger(*Instance) {}

func (fullAuto) Reload(w *Instance) {
	if !w.gates.CanReload || w.Busy() {
		return
	}
	if w.reserve < 1 || w.magazine >= w.profile.MagazineCapacity {
		return
	}
	startTransferReload(w)
}
