package memhost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/distmod/pkg/framework/param"
	"github.com/justyntemme/distmod/pkg/host"
)

func TestStableRefs(t *testing.T) {
	g := New()
	a := g.AddTrack("A")
	b := g.AddTrack("B")
	eq := g.AddEffect(b, "ReaEQ", param.Generic(4)...)

	trackRef, ok := g.TrackRef(b)
	require.True(t, ok)
	fxRef, ok := g.FXRef(eq)
	require.True(t, ok)

	g.RemoveTrack(a)

	idx, ok := g.FindTrack(trackRef)
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	fx, ok := g.FindFX(idx, fxRef)
	require.True(t, ok)
	assert.Equal(t, 0, fx)

	g.RemoveEffect(host.Location{Track: idx, FX: fx})
	_, ok = g.FindFX(idx, fxRef)
	assert.False(t, ok)
}

func TestMoveTrack(t *testing.T) {
	g := New()
	g.AddTrack("A")
	g.AddTrack("B")
	c := g.AddTrack("C")
	ref, _ := g.TrackRef(c)

	g.MoveTrack(c, 0)
	idx, ok := g.FindTrack(ref)
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 3, g.TrackCount())
}

func TestMaster(t *testing.T) {
	g := New()
	unit := g.AddUnit(host.MasterTrack, "distmod")

	assert.Equal(t, host.Location{Track: host.MasterTrack, FX: 0}, unit)
	assert.Equal(t, param.UnitParamCount, g.ParamCount(unit))

	ref, ok := g.TrackRef(host.MasterTrack)
	require.True(t, ok)
	idx, ok := g.FindTrack(ref)
	require.True(t, ok)
	assert.Equal(t, host.MasterTrack, idx)
}

func TestParamsAndModulation(t *testing.T) {
	g := New()
	tr := g.AddTrack("Vox")
	loc := g.AddEffect(tr, "ReaComp", param.Generic(2)...)

	require.NoError(t, g.SetParam(loc, 1, 0.25))
	v, ok := g.Param(loc, 1)
	require.True(t, ok)
	assert.Equal(t, 0.25, v)

	assert.ErrorIs(t, g.SetParam(loc, 9, 0.5), host.ErrNoTarget)
	assert.ErrorIs(t, g.SetParam(host.Location{Track: 4}, 0, 0.5), host.ErrNoTarget)

	mod := host.SlotModulation(1, param.SlotParam(2), true)
	require.NoError(t, g.SetModulation(loc, 0, mod))
	got, ok := g.Modulation(loc, 0)
	require.True(t, ok)
	assert.Equal(t, mod, got)
	assert.Equal(t, 1, g.ActiveModulations())
	assert.ErrorIs(t, g.SetModulation(loc, 5, mod), host.ErrNoTarget)
}

func TestLastTouched(t *testing.T) {
	g := New()
	tr := g.AddTrack("Gtr")
	loc := g.AddEffect(tr, "Chorus", param.Generic(3)...)

	_, _, ok := g.LastTouched()
	assert.False(t, ok)

	g.Touch(loc, 2)
	got, p, ok := g.LastTouched()
	require.True(t, ok)
	assert.Equal(t, loc, got)
	assert.Equal(t, 2, p)

	g.RemoveEffect(loc)
	_, _, ok = g.LastTouched()
	assert.False(t, ok)
}
