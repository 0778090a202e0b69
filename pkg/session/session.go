// Package session holds the global state of one distance modulation
// session and composes the values pushed to the audio unit.
package session

import (
	"math"

	"github.com/justyntemme/distmod/pkg/curve"
	"github.com/justyntemme/distmod/pkg/link"
)

// Session is the state edited by the control thread. It is not safe for
// concurrent use; the engine owns it.
type Session struct {
	Distance float64
	Curves   [curve.Count]*curve.Curve
	Enabled  [curve.Count]bool
	Visible  [curve.Count]bool
	// Base holds the user base value of each curve, in plain units.
	Base  [curve.Count]float64
	Links *link.Registry

	dirty bool
	shift []float64 // preview offset block
}

// New returns a session with the default curves, every curve enabled and
// visible, bases at their reference values and the given link registry.
func New(links *link.Registry) *Session {
	s := &Session{Links: links, dirty: true}
	for _, id := range curve.IDs {
		s.Curves[id] = curve.New(id)
		s.Enabled[id] = true
		s.Visible[id] = true
		s.Base[id] = id.Reference()
	}
	return s
}

// MarkDirty flags the session for the next push.
func (s *Session) MarkDirty() { s.dirty = true }

// Dirty reports whether a push is pending.
func (s *Session) Dirty() bool { return s.dirty }

// ClearDirty is called after a successful push.
func (s *Session) ClearDirty() { s.dirty = false }

// Curve returns built-in curve id.
func (s *Session) Curve(id curve.ID) *curve.Curve {
	if id < 0 || id >= curve.Count {
		return nil
	}
	return s.Curves[id]
}

// SetDistance sets the distance, clamped to the curve domain.
func (s *Session) SetDistance(d float64) {
	s.Distance = clampDistance(d)
	s.dirty = true
}

// SetBase sets the base value of curve id, clamped to its range. NaN is
// ignored.
func (s *Session) SetBase(id curve.ID, v float64) {
	c := s.Curve(id)
	if c == nil || math.IsNaN(v) {
		return
	}
	s.Base[id] = clamp(v, c.Min, c.Max)
	s.dirty = true
}

// Offset returns base minus reference for curve id.
func (s *Session) Offset(id curve.ID) float64 {
	return s.Base[id] - id.Reference()
}

// SetEnabled toggles whether curve id drives its output.
func (s *Session) SetEnabled(id curve.ID, enabled bool) {
	if s.Curve(id) == nil {
		return
	}
	s.Enabled[id] = enabled
	s.dirty = true
}

// SetVisible toggles editor visibility of curve id. Visibility does not
// affect the composed outputs.
func (s *Session) SetVisible(id curve.ID, visible bool) {
	if s.Curve(id) == nil {
		return
	}
	s.Visible[id] = visible
}

// Reset restores every built-in curve, flag and base to its default and
// the distance to zero. Links are left alone.
func (s *Session) Reset() {
	links := s.Links
	*s = *New(links)
}

func clampDistance(d float64) float64 {
	if math.IsNaN(d) {
		return curve.DomainMin
	}
	return clamp(d, curve.DomainMin, curve.DomainMax)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
