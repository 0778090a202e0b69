// Package link manages custom parameter links: bindings from a
// distance-driven curve to an arbitrary effect parameter through one of the
// audio unit's custom slots.
package link

import (
	"github.com/cwbudde/algo-vecmath"

	"github.com/justyntemme/distmod/pkg/curve"
	"github.com/justyntemme/distmod/pkg/framework/param"
	"github.com/justyntemme/distmod/pkg/host"
)

// Link binds a normalized curve to one effect parameter.
//
// Target and Unit are stable refs; the live locations are a cache that is
// recomputed by Registry.ResolveAll and never assumed valid.
type Link struct {
	ID     string
	Target host.Target
	// Unit is the unit instance on the target's track that owns Slot.
	Unit    host.FXRef
	Slot    int
	Curve   *curve.Curve
	Color   string
	Enabled bool

	resolved *resolution
}

type resolution struct {
	target host.Location
	unit   host.Location
}

// Resolved reports whether the link's refs mapped to live objects at the
// last resolution.
func (l *Link) Resolved() bool {
	return l.resolved != nil
}

// Locations returns the cached live locations of the target effect and the
// unit instance.
func (l *Link) Locations() (target, unit host.Location, ok bool) {
	if l.resolved == nil {
		return host.Location{}, host.Location{}, false
	}
	return l.resolved.target, l.resolved.unit, true
}

// SlotParam returns the unit parameter index carrying this link's slot.
func (l *Link) SlotParam() int {
	return param.SlotParam(l.Slot)
}

// Value evaluates the link curve at distance, in 0..1.
func (l *Link) Value(distance float64) float64 {
	return l.Curve.Evaluate(distance)
}

// Preview fills dst with the link curve sampled across the distance domain
// and scaled by scale, e.g. 100 for a percent display.
func (l *Link) Preview(dst []float64, scale float64) {
	l.Curve.Sample(dst)
	vecmath.ScaleBlock(dst, dst, scale)
}
