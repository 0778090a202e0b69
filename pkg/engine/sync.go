package engine

import (
	"context"
	"math"
	"time"

	"github.com/justyntemme/distmod/pkg/channel"
	"github.com/justyntemme/distmod/pkg/framework/param"
	"github.com/justyntemme/distmod/pkg/host"
	"github.com/justyntemme/distmod/pkg/session"
)

// Due reports whether a rate-limited push may happen at now given the
// previous push at last.
func Due(last, now time.Time, interval time.Duration) bool {
	return last.IsZero() || now.Sub(last) >= interval
}

// Tick pushes if the session is dirty and the rate limit allows it. It
// reports whether a push happened.
func (e *Engine) Tick() bool {
	if !e.sess.Dirty() {
		return false
	}
	now := e.clock.Now()
	if !Due(e.lastPush, now, e.cfg.Interval()) {
		return false
	}
	e.push(now)
	return true
}

// Force pushes immediately, ignoring the rate limit and the dirty flag.
func (e *Engine) Force() {
	e.push(e.clock.Now())
}

// PollDistance applies a distance reported by the audio unit if it
// differs from the session distance by more than the configured epsilon.
func (e *Engine) PollDistance() bool {
	d, ok := e.seg.TakeDistance()
	if !ok || math.IsNaN(d) {
		return false
	}
	if math.Abs(d-e.sess.Distance) <= e.cfg.DistanceEpsilon {
		return false
	}
	e.sess.SetDistance(d)
	e.log.Debug("distance from unit", "distance", d)
	return true
}

// Update is one control-loop step: poll the unit, then tick.
func (e *Engine) Update() bool {
	e.PollDistance()
	return e.Tick()
}

// pollDivisor sets how many times per sync interval Run polls. Due is
// the actual gate; polling faster keeps pushes from slipping a whole
// interval on timer jitter.
const pollDivisor = 4

// Run calls Update several times per sync interval until ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.cfg.Interval() / pollDivisor)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			e.Update()
		}
	}
}

// push composes the outputs, publishes them on the segment and mirrors
// them onto every unit instance.
func (e *Engine) push(now time.Time) {
	defer e.prof.Start("push")()

	out := e.sess.Compose()
	e.seg.Publish(channel.Values{
		Level:    out.Level,
		HighPass: out.HighPass,
		LowPass:  out.LowPass,
		Width:    out.Width,
		Distance: e.sess.Distance,
	})

	normalized := e.normalize(e.sess, out)
	units := host.FindUnits(e.graph, e.cfg.UnitName)
	for _, unit := range units {
		for p, v := range normalized {
			if err := e.graph.SetParam(unit, p, v); err != nil {
				e.log.Debug("unit param not set", "track", unit.Track, "fx", unit.FX, "param", p, "err", err)
			}
		}
	}

	for _, l := range e.links.All() {
		if !l.Enabled {
			continue
		}
		_, unit, ok := l.Locations()
		if !ok {
			continue
		}
		v := l.Value(e.sess.Distance)
		if p := e.params.GetByIndex(l.SlotParam()); p != nil {
			p.SetPlainValue(v)
		}
		if err := e.graph.SetParam(unit, l.SlotParam(), v); err != nil {
			e.log.Debug("slot not set", "link", l.ID, "slot", l.Slot, "err", err)
		}
	}

	e.sess.ClearDirty()
	e.lastPush = now
	e.log.Debug("pushed", "distance", e.sess.Distance, "units", len(units))
}

// normalize maps the distance and composed outputs onto the unit's first
// parameters, through the parameter ranges so that the filter cutoffs
// are normalized logarithmically.
func (e *Engine) normalize(s *session.Session, out session.Outputs) [param.CustomSlotBase]float64 {
	plain := [param.CustomSlotBase]float64{
		param.UnitDistance: s.Distance,
		param.UnitLevel:    out.Level,
		param.UnitHighPass: out.HighPass,
		param.UnitLowPass:  out.LowPass,
		param.UnitWidth:    out.Width,
	}
	var normalized [param.CustomSlotBase]float64
	for i, v := range plain {
		p := e.params.GetByIndex(i)
		p.SetPlainValue(v)
		normalized[i] = p.GetValue()
	}
	return normalized
}
