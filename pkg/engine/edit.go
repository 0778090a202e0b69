package engine

import (
	"fmt"

	"github.com/justyntemme/distmod/pkg/curve"
	"github.com/justyntemme/distmod/pkg/host"
	"github.com/justyntemme/distmod/pkg/link"
	"github.com/justyntemme/distmod/pkg/preset"
	"github.com/justyntemme/distmod/pkg/session"
)

func (e *Engine) curve(id curve.ID) (*curve.Curve, error) {
	c := e.sess.Curve(id)
	if c == nil {
		return nil, fmt.Errorf("curve %d: %w", int(id), ErrUnknownCurve)
	}
	return c, nil
}

// SetDistance moves the session distance. The next Tick pushes it.
func (e *Engine) SetDistance(d float64) {
	e.sess.SetDistance(d)
}

// AddPoint adds a control point to a built-in curve.
func (e *Engine) AddPoint(id curve.ID, x, y float64) (int, error) {
	c, err := e.curve(id)
	if err != nil {
		return -1, err
	}
	i, err := c.AddPoint(x, y)
	if err != nil {
		return -1, err
	}
	e.sess.MarkDirty()
	e.persist()
	return i, nil
}

// MovePoint drags a control point and pushes at once so the audio follows
// the drag. The session is not saved; call Persist when the drag ends.
func (e *Engine) MovePoint(id curve.ID, i int, x, y float64) (int, error) {
	c, err := e.curve(id)
	if err != nil {
		return -1, err
	}
	i, err = c.MovePoint(i, x, y)
	if err != nil {
		return -1, err
	}
	e.sess.MarkDirty()
	e.Force()
	return i, nil
}

// RemovePoint deletes a control point of a built-in curve.
func (e *Engine) RemovePoint(id curve.ID, i int) error {
	c, err := e.curve(id)
	if err != nil {
		return err
	}
	if err := c.RemovePoint(i); err != nil {
		return err
	}
	e.sess.MarkDirty()
	e.persist()
	return nil
}

// SetInterpolation changes how a built-in curve interpolates.
func (e *Engine) SetInterpolation(id curve.ID, m curve.Interpolation) error {
	c, err := e.curve(id)
	if err != nil {
		return err
	}
	c.SetInterpolation(m)
	e.sess.MarkDirty()
	e.persist()
	return nil
}

// SetBase sets the base value of a built-in curve.
func (e *Engine) SetBase(id curve.ID, v float64) error {
	if _, err := e.curve(id); err != nil {
		return err
	}
	e.sess.SetBase(id, v)
	e.persist()
	return nil
}

// SetCurveEnabled toggles whether a curve drives its output.
func (e *Engine) SetCurveEnabled(id curve.ID, enabled bool) error {
	if _, err := e.curve(id); err != nil {
		return err
	}
	e.sess.SetEnabled(id, enabled)
	e.persist()
	return nil
}

// SetCurveVisible toggles editor visibility of a curve.
func (e *Engine) SetCurveVisible(id curve.ID, visible bool) error {
	if _, err := e.curve(id); err != nil {
		return err
	}
	e.sess.SetVisible(id, visible)
	e.persist()
	return nil
}

// Outputs returns the composed outputs at the current distance.
func (e *Engine) Outputs() session.Outputs {
	return e.sess.Compose()
}

// Preview samples the composed output of curve id at n distances spread
// evenly across the domain, for the editor's curve display.
func (e *Engine) Preview(id curve.ID, n int) ([]float64, error) {
	if _, err := e.curve(id); err != nil {
		return nil, err
	}
	if n < 0 {
		n = 0
	}
	dst := make([]float64, n)
	e.sess.Preview(id, dst)
	return dst, nil
}

// LinkPreview samples the curve of link id at n distances, in percent.
func (e *Engine) LinkPreview(id string, n int) ([]float64, error) {
	l, ok := e.links.Get(id)
	if !ok {
		return nil, fmt.Errorf("link %s: %w", id, link.ErrLinkNotFound)
	}
	if n < 0 {
		n = 0
	}
	dst := make([]float64, n)
	l.Preview(dst, 100)
	return dst, nil
}

// CreateLink links parameter p of the effect at loc.
func (e *Engine) CreateLink(loc host.Location, p int) (*link.Link, error) {
	l, err := e.links.Create(loc, p)
	if err != nil {
		return nil, err
	}
	e.sess.MarkDirty()
	e.persist()
	return l, nil
}

// CreateLinkFromLastTouched links the host's last-touched parameter.
func (e *Engine) CreateLinkFromLastTouched() (*link.Link, error) {
	l, err := e.links.CreateFromLastTouched()
	if err != nil {
		return nil, err
	}
	e.sess.MarkDirty()
	e.persist()
	return l, nil
}

// RemoveLink deletes a link and frees its slot.
func (e *Engine) RemoveLink(id string) error {
	if err := e.links.Remove(id); err != nil {
		return err
	}
	e.sess.MarkDirty()
	e.persist()
	return nil
}

// SetLinkEnabled toggles a link.
func (e *Engine) SetLinkEnabled(id string, enabled bool) error {
	if err := e.links.SetEnabled(id, enabled); err != nil {
		return err
	}
	e.sess.MarkDirty()
	e.persist()
	return nil
}

func (e *Engine) linkCurve(id string) (*curve.Curve, error) {
	l, ok := e.links.Get(id)
	if !ok {
		return nil, fmt.Errorf("link %s: %w", id, link.ErrLinkNotFound)
	}
	return l.Curve, nil
}

// AddLinkPoint adds a control point to a link curve.
func (e *Engine) AddLinkPoint(id string, x, y float64) (int, error) {
	c, err := e.linkCurve(id)
	if err != nil {
		return -1, err
	}
	i, err := c.AddPoint(x, y)
	if err != nil {
		return -1, err
	}
	e.sess.MarkDirty()
	e.persist()
	return i, nil
}

// MoveLinkPoint drags a control point of a link curve and pushes at once.
func (e *Engine) MoveLinkPoint(id string, i int, x, y float64) (int, error) {
	c, err := e.linkCurve(id)
	if err != nil {
		return -1, err
	}
	i, err = c.MovePoint(i, x, y)
	if err != nil {
		return -1, err
	}
	e.sess.MarkDirty()
	e.Force()
	return i, nil
}

// RemoveLinkPoint deletes a control point of a link curve.
func (e *Engine) RemoveLinkPoint(id string, i int) error {
	c, err := e.linkCurve(id)
	if err != nil {
		return err
	}
	if err := c.RemovePoint(i); err != nil {
		return err
	}
	e.sess.MarkDirty()
	e.persist()
	return nil
}

// ResolveLinks re-resolves every link against the host, e.g. after the
// project's tracks changed. It returns the number of resolved links.
func (e *Engine) ResolveLinks() int {
	n := e.links.ResolveAll()
	e.sess.MarkDirty()
	return n
}

// ToggleBypass disables every unit instance if any is enabled, otherwise
// enables them all, and returns the new state.
func (e *Engine) ToggleBypass() (bool, error) {
	enabled, n, err := host.ToggleUnits(e.graph, e.cfg.UnitName)
	e.log.Info("bypass toggled", "enabled", enabled, "units", n)
	return enabled, err
}

// Presets lists the available presets, built-ins first.
func (e *Engine) Presets() []preset.Entry {
	return e.catalog.Entries()
}

// RefreshPresets re-reads the user preset store.
func (e *Engine) RefreshPresets() error {
	return e.catalog.Refresh()
}

// ApplyPreset loads preset name into the session and pushes it. Entries
// of the document that cannot be applied are skipped and returned as an
// error after the rest has been applied.
func (e *Engine) ApplyPreset(name string) error {
	doc, ok := e.catalog.Find(name)
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrPresetNotFound)
	}
	if doc.Newer() {
		e.log.Warn("preset from newer schema", "name", name, "schema", doc.Schema)
	}

	err := preset.Apply(e.sess, doc.Data)
	if err != nil {
		e.log.Warn("preset partially applied", "name", name, "err", err)
	}
	e.Force()
	e.persist()
	e.log.Info("preset applied", "name", name, "links", e.links.Len())
	return err
}

// SavePreset stores the session as user preset name.
func (e *Engine) SavePreset(name string) (preset.Document, error) {
	return e.catalog.Save(name, preset.Serialize(e.sess))
}

// DeletePreset removes user preset name.
func (e *Engine) DeletePreset(name string) error {
	return e.catalog.Delete(name)
}
