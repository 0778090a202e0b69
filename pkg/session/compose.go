package session

import (
	"github.com/cwbudde/algo-vecmath"

	"github.com/justyntemme/distmod/pkg/curve"
)

// Outputs are the composed values of the four built-in curves, in plain
// units.
type Outputs struct {
	Level    float64
	HighPass float64
	LowPass  float64
	Width    float64
}

// Get returns the output of curve id.
func (o Outputs) Get(id curve.ID) float64 {
	switch id {
	case curve.Level:
		return o.Level
	case curve.HighPass:
		return o.HighPass
	case curve.LowPass:
		return o.LowPass
	case curve.Width:
		return o.Width
	}
	return 0
}

func (o *Outputs) set(id curve.ID, v float64) {
	switch id {
	case curve.Level:
		o.Level = v
	case curve.HighPass:
		o.HighPass = v
	case curve.LowPass:
		o.LowPass = v
	case curve.Width:
		o.Width = v
	}
}

// Output composes one curve at the current distance. A disabled curve
// yields its reference value; an enabled one yields the curve value shifted
// by base minus reference and clamped to the curve's range.
func (s *Session) Output(id curve.ID) float64 {
	c := s.Curve(id)
	if c == nil {
		return 0
	}
	if !s.Enabled[id] {
		return id.Reference()
	}
	return clamp(c.Evaluate(s.Distance)+s.Offset(id), c.Min, c.Max)
}

// Compose returns every built-in output at the current distance.
func (s *Session) Compose() Outputs {
	var o Outputs
	for _, id := range curve.IDs {
		o.set(id, s.Output(id))
	}
	return o
}

// Preview fills dst with the composed output of curve id sampled across
// the distance domain, for the editor's curve display. A disabled curve
// previews as a flat line at its reference value.
func (s *Session) Preview(id curve.ID, dst []float64) {
	c := s.Curve(id)
	if c == nil || len(dst) == 0 {
		return
	}
	if !s.Enabled[id] {
		ref := id.Reference()
		for i := range dst {
			dst[i] = ref
		}
		return
	}

	c.Sample(dst)
	if off := s.Offset(id); off != 0 {
		vecmath.AddBlockInPlace(dst, s.offsetBlock(off, len(dst)))
	}
	for i, v := range dst {
		dst[i] = clamp(v, c.Min, c.Max)
	}
}

// offsetBlock returns n copies of off, reusing the previous block when
// neither changed.
func (s *Session) offsetBlock(off float64, n int) []float64 {
	if len(s.shift) == n && n > 0 && s.shift[0] == off {
		return s.shift
	}
	if cap(s.shift) < n {
		s.shift = make([]float64, n)
	}
	s.shift = s.shift[:n]
	for i := range s.shift {
		s.shift[i] = off
	}
	return s.shift
}
