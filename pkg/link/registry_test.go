package link

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/distmod/pkg/curve"
	"github.com/justyntemme/distmod/pkg/framework/debug"
	"github.com/justyntemme/distmod/pkg/framework/param"
	"github.com/justyntemme/distmod/pkg/host"
	"github.com/justyntemme/distmod/pkg/host/memhost"
)

const unitName = "distmod"

type fixture struct {
	graph *memhost.Graph
	reg   *Registry
	track int
	unit  host.Location
	eq    host.Location
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	g := memhost.New()
	track := g.AddTrack("Vocals")
	eq := g.AddEffect(track, "ReaEQ", param.Generic(16)...)
	unit := g.AddUnit(track, "JS: distmod")
	return &fixture{
		graph: g,
		reg:   NewRegistry(g, unitName, debug.Discard()),
		track: track,
		unit:  unit,
		eq:    eq,
	}
}

func TestCreate(t *testing.T) {
	f := newFixture(t)

	l, err := f.reg.Create(f.eq, 3)
	require.NoError(t, err)

	assert.Equal(t, 1, l.Slot)
	assert.True(t, l.Enabled)
	assert.True(t, l.Resolved())
	assert.Equal(t, "#e6194b", l.Color)
	assert.Equal(t, 3, l.Target.Param)

	fxRef, _ := f.graph.FXRef(f.eq)
	unitRef, _ := f.graph.FXRef(f.unit)
	assert.Equal(t, fxRef, l.Target.FX)
	assert.Equal(t, unitRef, l.Unit)

	mod, ok := f.graph.Modulation(f.eq, 3)
	require.True(t, ok)
	assert.Equal(t, host.Modulation{
		Active:      true,
		SourceFX:    f.unit.FX,
		SourceParam: param.SlotParam(1),
		Scale:       1,
	}, mod)

	t.Run("Duplicate", func(t *testing.T) {
		_, err := f.reg.Create(f.eq, 3)
		assert.ErrorIs(t, err, ErrAlreadyLinked)
		assert.Equal(t, 1, f.reg.Len())
	})
}

func TestCreateRejects(t *testing.T) {
	t.Run("SelfModulation", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.reg.Create(f.unit, param.UnitLevel)
		assert.ErrorIs(t, err, ErrSelfModulation)
		assert.Equal(t, 0, f.graph.ActiveModulations())
	})

	t.Run("NoUnitOnTrack", func(t *testing.T) {
		f := newFixture(t)
		other := f.graph.AddTrack("Drums")
		comp := f.graph.AddEffect(other, "ReaComp", param.Generic(4)...)

		_, err := f.reg.Create(comp, 0)
		assert.ErrorIs(t, err, ErrNoUnit)
		assert.Equal(t, 0, f.reg.Len())
	})

	t.Run("BadParam", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.reg.Create(f.eq, 99)
		assert.ErrorIs(t, err, host.ErrNoTarget)
	})

	t.Run("SlotsExhausted", func(t *testing.T) {
		f := newFixture(t)
		for p := 0; p < 8; p++ {
			_, err := f.reg.Create(f.eq, p)
			require.NoError(t, err)
		}
		active := f.graph.ActiveModulations()

		_, err := f.reg.Create(f.eq, 8)
		assert.ErrorIs(t, err, ErrSlotsExhausted)
		assert.Equal(t, 8, f.reg.Len())
		assert.Equal(t, active, f.graph.ActiveModulations())
		_, ok := f.graph.Modulation(f.eq, 8)
		assert.False(t, ok)
	})

	t.Run("NothingTouched", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.reg.CreateFromLastTouched()
		assert.ErrorIs(t, err, ErrNothingTouched)
	})
}

func TestCreateFromLastTouched(t *testing.T) {
	f := newFixture(t)
	f.graph.Touch(f.eq, 7)

	l, err := f.reg.CreateFromLastTouched()
	require.NoError(t, err)
	assert.Equal(t, 7, l.Target.Param)
}

func TestSlotsDerivedFromLinks(t *testing.T) {
	f := newFixture(t)
	var links []*Link
	for p := 0; p < 4; p++ {
		l, err := f.reg.Create(f.eq, p)
		require.NoError(t, err)
		links = append(links, l)
	}

	require.NoError(t, f.reg.Remove(links[1].ID))
	slot, err := f.reg.AllocateSlot()
	require.NoError(t, err)
	assert.Equal(t, 2, slot)

	l, err := f.reg.Create(f.eq, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, l.Slot)

	require.NoError(t, f.reg.FreeSlot(3))
	_, ok := f.reg.Get(links[2].ID)
	assert.False(t, ok)
	require.NoError(t, f.reg.FreeSlot(8))
	assert.Equal(t, 3, f.reg.Len())
}

func TestRemove(t *testing.T) {
	f := newFixture(t)
	l, err := f.reg.Create(f.eq, 2)
	require.NoError(t, err)

	require.NoError(t, f.reg.Remove(l.ID))
	assert.Equal(t, 0, f.reg.Len())
	mod, ok := f.graph.Modulation(f.eq, 2)
	require.True(t, ok)
	assert.False(t, mod.Active)

	assert.ErrorIs(t, f.reg.Remove(l.ID), ErrLinkNotFound)

	t.Run("TargetGone", func(t *testing.T) {
		f := newFixture(t)
		l, err := f.reg.Create(f.eq, 2)
		require.NoError(t, err)

		f.graph.RemoveEffect(f.eq)
		require.NoError(t, f.reg.Remove(l.ID))
		slot, err := f.reg.AllocateSlot()
		require.NoError(t, err)
		assert.Equal(t, 1, slot)
	})
}

func TestResolveAll(t *testing.T) {
	f := newFixture(t)
	kept, err := f.reg.Create(f.eq, 0)
	require.NoError(t, err)

	other := f.graph.AddTrack("Drums")
	comp := f.graph.AddEffect(other, "ReaComp", param.Generic(4)...)
	f.graph.AddUnit(other, "distmod")
	lost, err := f.reg.Create(comp, 1)
	require.NoError(t, err)

	// Reorder the first track's chain and delete the second track.
	f.graph.RemoveEffect(f.eq)
	f.graph.AddEffect(f.track, "ReaEQ (new)", param.Generic(16)...)
	f.graph.RemoveTrack(other)

	assert.Equal(t, 0, f.reg.ResolveAll())
	assert.False(t, kept.Resolved())
	assert.False(t, lost.Resolved())
	assert.Equal(t, 2, f.reg.Len())

	t.Run("RefsSurviveReorder", func(t *testing.T) {
		f := newFixture(t)
		l, err := f.reg.Create(f.eq, 5)
		require.NoError(t, err)

		f.graph.AddTrack("Below")
		f.graph.MoveTrack(f.track, 1)
		assert.Equal(t, 1, f.reg.ResolveAll())

		target, unit, ok := l.Locations()
		require.True(t, ok)
		assert.Equal(t, 1, target.Track)
		assert.Equal(t, 1, unit.Track)
	})

}

func TestSetEnabled(t *testing.T) {
	f := newFixture(t)
	l, err := f.reg.Create(f.eq, 1)
	require.NoError(t, err)

	require.NoError(t, f.reg.SetEnabled(l.ID, false))
	mod, _ := f.graph.Modulation(f.eq, 1)
	assert.False(t, mod.Active)

	require.NoError(t, f.reg.SetEnabled(l.ID, true))
	mod, _ = f.graph.Modulation(f.eq, 1)
	assert.True(t, mod.Active)

	assert.ErrorIs(t, f.reg.SetEnabled("nope", true), ErrLinkNotFound)
}

func TestRestore(t *testing.T) {
	f := newFixture(t)
	old, err := f.reg.Create(f.eq, 0)
	require.NoError(t, err)

	fxRef, _ := f.graph.FXRef(f.eq)
	unitRef, _ := f.graph.FXRef(f.unit)
	trackRef, _ := f.graph.TrackRef(f.track)
	mk := func(id string, p, slot int) *Link {
		return &Link{
			ID:      id,
			Target:  host.Target{Track: trackRef, FX: fxRef, Param: p},
			Unit:    unitRef,
			Slot:    slot,
			Enabled: true,
		}
	}

	var incoming []*Link
	incoming = append(incoming, mk("a", 4, 6), mk("a", 5, 6), mk("", 6, 0))
	for i := 0; i < 7; i++ {
		incoming = append(incoming, mk(fmt.Sprintf("x%d", i), 7+i, 0))
	}
	f.reg.Restore(incoming)

	_, ok := f.reg.Get(old.ID)
	assert.False(t, ok)
	mod, _ := f.graph.Modulation(f.eq, 0)
	assert.False(t, mod.Active)

	// Eight slots: the first eight are kept, the rest dropped.
	require.Equal(t, 8, f.reg.Len())
	all := f.reg.All()
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, 6, all[0].Slot)
	assert.NotEqual(t, "a", all[1].ID)
	assert.Equal(t, 1, all[1].Slot)
	assert.NotEmpty(t, all[2].ID)
	assert.Equal(t, 2, all[2].Slot)

	seen := map[int]bool{}
	for _, l := range all {
		assert.False(t, seen[l.Slot], "slot %d reused", l.Slot)
		seen[l.Slot] = true
		assert.True(t, l.Resolved())
		assert.NotNil(t, l.Curve)
		assert.Equal(t, SlotColor(l.Slot), l.Color)
	}
	assert.Equal(t, 8, f.graph.ActiveModulations())
}

func TestValueAndPreview(t *testing.T) {
	l := &Link{Curve: curve.NewNormalized(), Slot: 2}
	assert.InDelta(t, 0.25, l.Value(25), 1e-12)
	assert.Equal(t, param.CustomSlotBase+1, l.SlotParam())

	buf := make([]float64, 5)
	l.Preview(buf, 100)
	assert.InDeltaSlice(t, []float64{0, 25, 50, 75, 100}, buf, 1e-9)
}

func TestRestoreDuplicateTarget(t *testing.T) {
	f := newFixture(t)
	fxRef, _ := f.graph.FXRef(f.eq)
	unitRef, _ := f.graph.FXRef(f.unit)
	trackRef, _ := f.graph.TrackRef(f.track)
	mk := func(id string, p, slot int) *Link {
		return &Link{
			ID:      id,
			Target:  host.Target{Track: trackRef, FX: fxRef, Param: p},
			Unit:    unitRef,
			Slot:    slot,
			Enabled: true,
		}
	}

	f.reg.Restore([]*Link{mk("first", 2, 1), mk("copy", 2, 2), mk("other", 3, 3)})

	require.Equal(t, 2, f.reg.Len())
	_, ok := f.reg.Get("copy")
	assert.False(t, ok)

	require.NoError(t, f.reg.Remove("other"))
	first, ok := f.reg.Get("first")
	require.True(t, ok)
	assert.True(t, first.Resolved())

	mod, ok := f.graph.Modulation(f.eq, 2)
	require.True(t, ok)
	assert.True(t, mod.Active)
	assert.Equal(t, param.SlotParam(1), mod.SourceParam)

	slot, err := f.reg.AllocateSlot()
	require.NoError(t, err)
	assert.Equal(t, 2, slot, "the dropped link holds no slot")
}
