package host_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/distmod/pkg/framework/param"
	"github.com/justyntemme/distmod/pkg/host"
	"github.com/justyntemme/distmod/pkg/host/memhost"
)

func TestIsUnit(t *testing.T) {
	assert.True(t, host.IsUnit("VST3: DistMod (Acme)", "distmod"))
	assert.True(t, host.IsUnit("JS: distmod", "DISTMOD"))
	assert.False(t, host.IsUnit("ReaEQ", "distmod"))
	assert.False(t, host.IsUnit("anything", ""))
}

func TestFindUnits(t *testing.T) {
	g := memhost.New()
	a := g.AddTrack("A")
	b := g.AddTrack("B")
	g.AddEffect(a, "ReaEQ", param.Generic(3)...)
	ua := g.AddUnit(a, "JS: distmod")
	um := g.AddUnit(host.MasterTrack, "distmod")

	units := host.FindUnits(g, "distmod")
	assert.Equal(t, []host.Location{um, ua}, units)

	loc, ok := host.FindUnitOnTrack(g, a, "distmod")
	require.True(t, ok)
	assert.Equal(t, ua, loc)

	_, ok = host.FindUnitOnTrack(g, b, "distmod")
	assert.False(t, ok)

	assert.Equal(t, []int{host.MasterTrack, 0, 1}, host.Tracks(g))
}

func TestToggleUnits(t *testing.T) {
	g := memhost.New()
	tr := g.AddTrack("A")
	u1 := g.AddUnit(tr, "distmod")
	u2 := g.AddUnit(host.MasterTrack, "distmod")

	// Some enabled: disable all.
	require.NoError(t, g.SetEnabled(u1, false))
	enabled, n, err := host.ToggleUnits(g, "distmod")
	require.NoError(t, err)
	assert.False(t, enabled)
	assert.Equal(t, 2, n)
	assert.False(t, g.Enabled(u1))
	assert.False(t, g.Enabled(u2))
	assert.False(t, host.AnyUnitEnabled(g, "distmod"))

	// None enabled: enable all.
	enabled, _, err = host.ToggleUnits(g, "distmod")
	require.NoError(t, err)
	assert.True(t, enabled)
	assert.True(t, g.Enabled(u1))
	assert.True(t, g.Enabled(u2))
}
