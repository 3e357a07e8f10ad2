package weapon

// throwable throws one unit per pull. The magazine is the count in hand; a
// second throw needs the interval to pass and the button to be released.
type throwable struct{}

func (throwable) Kind() PolicyKind { return PolicyThrowable }

func (throwable) Shoot(w *Instance) {
	if !w.gates.CanShoot || w.magazine < 1 {
		return
	}
	w.gates.CanShoot = false
	w.spawnProjectile()
	w.magazine--
	armOnRelease(w)
}

func (throwable) ReleaseTrigger(w *Instance) {
	releaseEdge(w)
}

func (throwable) Reload(w *Instance) {
	if !w.gates.CanReload || w.Busy() {
		return
	}
	if w.reserve < 1 || w.magazine >= w.profile.MagazineCapacity {
		return
	}
	startTransferReload(w)
}
