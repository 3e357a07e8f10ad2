package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/arsenal/internal/game/inventory"
	"github.com/cory-johannsen/arsenal/internal/game/weapon"
)

func TestFloor_ReleaseAndItems(t *testing.T) {
	f := newFixture(t)
	w := f.spawn(t, "sniper", 5, 0)

	items := f.floor.Items()
	require.Len(t, items, 1)
	assert.Same(t, w, items[0])

	// Snapshot isolation: mutating the returned slice must not affect the floor.
	items[0] = nil
	assert.Same(t, w, f.floor.Items()[0])

	f.floor.Release(w)
	assert.Equal(t, 1, f.floor.Len(), "releasing twice keeps one entry")
}

func TestFloor_ItemsIsUnaffectedByLaterChanges(t *testing.T) {
	f := newFixture(t)
	a := f.spawn(t, "sniper", 5, 0)
	b := f.spawn(t, "shotgun", 6, 0)

	items := f.floor.Items()
	require.True(t, f.floor.Take(a.ID()))
	a.Destroy()
	f.floor.Sweep()

	assert.Equal(t, []*weapon.Instance{a, b}, items)
	assert.Equal(t, []*weapon.Instance{b}, f.floor.Items())
}

func TestFloor_TakeRemovesItem(t *testing.T) {
	f := newFixture(t)
	a := f.spawn(t, "sniper", 5, 0)
	b := f.spawn(t, "shotgun", 6, 0)

	assert.True(t, f.floor.Take(a.ID()))
	assert.False(t, f.floor.Take(a.ID()))
	items := f.floor.Items()
	require.Len(t, items, 1)
	assert.Same(t, b, items[0])
}

func TestFloor_FindByPrefix(t *testing.T) {
	f := newFixture(t)
	w := f.spawn(t, "sniper", 5, 0)

	got, ok := f.floor.FindByPrefix(w.ID()[:8])
	require.True(t, ok)
	assert.Same(t, w, got)

	_, ok = f.floor.FindByPrefix("")
	assert.False(t, ok)
	_, ok = f.floor.FindByPrefix("zzzz")
	assert.False(t, ok)
}

func TestFloor_SweepDropsDestroyed(t *testing.T) {
	f := newFixture(t)
	a := f.spawn(t, "sniper", 5, 0)
	f.spawn(t, "shotgun", 6, 0)
	a.Destroy()

	assert.Equal(t, 1, f.floor.Sweep())
	assert.Equal(t, 1, f.floor.Len())
	_, ok := f.floor.Find(a.ID())
	assert.False(t, ok)
}

func TestProperty_Floor_TakeAfterReleaseRoundTrips(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := newFixture(rt)
		n := rapid.IntRange(1, 12).Draw(rt, "n")
		var ids []string
		for range n {
			ids = append(ids, f.spawn(rt, "sniper", 5, 0).ID())
		}
		take := rapid.SampledFrom(ids).Draw(rt, "take")
		require.True(rt, f.floor.Take(take))
		assert.Equal(rt, n-1, f.floor.Len())
		_, ok := f.floor.Find(take)
		assert.False(rt, ok)
	})
}

func TestParseSlot(t *testing.T) {
	cases := map[string]inventory.Slot{
		"1": inventory.Primary, "primary": inventory.Primary, " P ": inventory.Primary,
		"2": inventory.Secondary, "Secondary": inventory.Secondary,
		"3": inventory.Throwable, "throwable": inventory.Throwable,
	}
	for raw, want := range cases {
		got, err := inventory.ParseSlot(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
	_, err := inventory.ParseSlot("4")
	assert.Error(t, err)
	assert.Equal(t, "secondary", inventory.Secondary.String())
	assert.False(t, inventory.Slot(7).Valid())
}
