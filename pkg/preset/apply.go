package preset

import (
	"errors"
	"fmt"

	"github.com/justyntemme/distmod/pkg/curve"
	"github.com/justyntemme/distmod/pkg/host"
	"github.com/justyntemme/distmod/pkg/link"
	"github.com/justyntemme/distmod/pkg/session"
)

// Serialize snapshots s. Resolved locations are never included.
func Serialize(s *session.Session) Data {
	distance := s.Distance
	d := Data{
		Distance: &distance,
		Curves:   make([]CurveData, 0, curve.Count),
		Links:    []LinkData{},
	}
	for _, id := range curve.IDs {
		c := s.Curve(id)
		d.Curves = append(d.Curves, CurveData{
			ID:            id.String(),
			Enabled:       s.Enabled[id],
			Visible:       s.Visible[id],
			Base:          s.Base[id],
			Interpolation: c.Interp.String(),
			Points:        encodePoints(c.Points()),
		})
	}
	if s.Links != nil {
		for _, l := range s.Links.All() {
			d.Links = append(d.Links, LinkData{
				ID:            l.ID,
				Track:         string(l.Target.Track),
				FX:            string(l.Target.FX),
				Param:         l.Target.Param,
				Unit:          string(l.Unit),
				Slot:          l.Slot,
				Enabled:       l.Enabled,
				Color:         l.Color,
				Interpolation: l.Curve.Interp.String(),
				Points:        encodePoints(l.Curve.Points()),
			})
		}
	}
	return d
}

// Apply loads d into s and marks it dirty. A curve entry that is unknown
// or has unusable points is skipped and reported in the returned error;
// the rest of the document still applies. A non-nil link list replaces
// the whole link set, which is then resolved against the host.
func Apply(s *session.Session, d Data) error {
	var errs []error

	if d.Distance != nil {
		s.SetDistance(*d.Distance)
	}

	for _, cd := range d.Curves {
		if err := applyCurve(s, cd); err != nil {
			errs = append(errs, err)
		}
	}

	if d.Links != nil && s.Links != nil {
		links := make([]*link.Link, 0, len(d.Links))
		for _, ld := range d.Links {
			l, err := decodeLink(ld)
			if err != nil {
				errs = append(errs, err)
			}
			links = append(links, l)
		}
		s.Links.Restore(links)
	}

	s.MarkDirty()
	return errors.Join(errs...)
}

func applyCurve(s *session.Session, cd CurveData) error {
	id, err := curve.ParseID(cd.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	interp, err := parseInterpolation(cd.Interpolation)
	if err != nil {
		return fmt.Errorf("curve %s: %w: %v", id, ErrInvalidDocument, err)
	}

	c := s.Curve(id).Clone()
	if err := c.SetPoints(decodePoints(cd.Points)); err != nil {
		return fmt.Errorf("curve %s: %w: %v", id, ErrInvalidDocument, err)
	}
	c.SetInterpolation(interp)

	s.Curves[id] = c
	s.SetEnabled(id, cd.Enabled)
	s.SetVisible(id, cd.Visible)
	s.SetBase(id, cd.Base)
	return nil
}

// decodeLink always returns a usable link; a bad curve falls back to the
// default shape and is reported.
func decodeLink(ld LinkData) (*link.Link, error) {
	target := host.Target{
		Track: host.TrackRef(ld.Track),
		FX:    host.FXRef(ld.FX),
		Param: ld.Param,
	}
	l := &link.Link{
		ID:      ld.ID,
		Target:  target,
		Unit:    host.FXRef(ld.Unit),
		Slot:    ld.Slot,
		Color:   ld.Color,
		Enabled: ld.Enabled,
		Curve:   curve.NewNormalized(),
	}

	c := curve.NewNormalized()
	if err := c.SetPoints(decodePoints(ld.Points)); err != nil {
		return l, fmt.Errorf("link %s curve: %w: %v", ld.ID, ErrInvalidDocument, err)
	}
	if interp, err := parseInterpolation(ld.Interpolation); err == nil {
		c.SetInterpolation(interp)
	}
	l.Curve = c
	return l, nil
}

// parseInterpolation treats a missing mode as linear.
func parseInterpolation(s string) (curve.Interpolation, error) {
	if s == "" {
		return curve.Linear, nil
	}
	return curve.ParseInterpolation(s)
}

func encodePoints(pts []curve.Point) [][2]float64 {
	out := make([][2]float64, len(pts))
	for i, p := range pts {
		out[i] = [2]float64{p.X, p.Y}
	}
	return out
}

func decodePoints(pts [][2]float64) []curve.Point {
	out := make([]curve.Point, len(pts))
	for i, p := range pts {
		out[i] = curve.Point{X: p[0], Y: p[1]}
	}
	return out
}
