// Package memhost is an in-memory audio graph. It backs tests and the
// example programs, and models what the engine expects from a real host:
// stable refs that survive reordering and removals that invalidate them.
package memhost

import (
	"fmt"
	"sync"

	"github.com/justyntemme/distmod/pkg/framework/param"
	"github.com/justyntemme/distmod/pkg/host"
)

// Effect is one effect instance.
type Effect struct {
	Ref     host.FXRef
	Name    string
	Params  *param.Registry
	enabled bool
	mods    map[int]host.Modulation
}

// Track is a track and its effect chain.
type Track struct {
	Ref  host.TrackRef
	Name string
	FX   []*Effect
}

// Graph implements host.Graph in memory.
type Graph struct {
	mu     sync.Mutex
	master *Track
	tracks []*Track
	nextID int

	touched      host.Location
	touchedParam int
	hasTouched   bool
}

var _ host.Graph = (*Graph)(nil)

// New returns a graph with an empty master track.
func New() *Graph {
	g := &Graph{}
	g.master = &Track{Ref: host.TrackRef(g.ref("master")), Name: "Master"}
	return g
}

func (g *Graph) ref(kind string) string {
	g.nextID++
	return fmt.Sprintf("{%s-%04d}", kind, g.nextID)
}

// AddTrack appends a track and returns its index.
func (g *Graph) AddTrack(name string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.tracks = append(g.tracks, &Track{Ref: host.TrackRef(g.ref("track")), Name: name})
	return len(g.tracks) - 1
}

// RemoveTrack deletes a track; later tracks shift down by one.
func (g *Graph) RemoveTrack(track int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if track < 0 || track >= len(g.tracks) {
		return
	}
	g.tracks = append(g.tracks[:track], g.tracks[track+1:]...)
	g.hasTouched = false
}

// MoveTrack moves a track to a new index.
func (g *Graph) MoveTrack(from, to int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if from < 0 || from >= len(g.tracks) || to < 0 || to >= len(g.tracks) {
		return
	}
	t := g.tracks[from]
	g.tracks = append(g.tracks[:from], g.tracks[from+1:]...)
	g.tracks = append(g.tracks[:to], append([]*Track{t}, g.tracks[to:]...)...)
	g.hasTouched = false
}

// AddEffect appends an effect to a track's chain and returns its location.
func (g *Graph) AddEffect(track int, name string, params ...*param.Parameter) host.Location {
	g.mu.Lock()
	defer g.mu.Unlock()

	t := g.track(track)
	if t == nil {
		panic(fmt.Sprintf("memhost: no track %d", track))
	}
	t.FX = append(t.FX, &Effect{
		Ref:     host.FXRef(g.ref("fx")),
		Name:    name,
		Params:  param.MustNewRegistry(params...),
		enabled: true,
		mods:    make(map[int]host.Modulation),
	})
	return host.Location{Track: track, FX: len(t.FX) - 1}
}

// AddUnit appends an instance of the distance modulation unit.
func (g *Graph) AddUnit(track int, name string) host.Location {
	return g.AddEffect(track, name, param.UnitParameters()...)
}

// RemoveEffect deletes an effect; later effects shift down by one.
func (g *Graph) RemoveEffect(loc host.Location) {
	g.mu.Lock()
	defer g.mu.Unlock()

	t := g.track(loc.Track)
	if t == nil || loc.FX < 0 || loc.FX >= len(t.FX) {
		return
	}
	t.FX = append(t.FX[:loc.FX], t.FX[loc.FX+1:]...)
	g.hasTouched = false
}

// Effect returns the effect at loc.
func (g *Graph) Effect(loc host.Location) *Effect {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.effect(loc)
}

// Touch records param of loc as the last touched parameter.
func (g *Graph) Touch(loc host.Location, p int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.touched, g.touchedParam, g.hasTouched = loc, p, true
}

// Param returns the current normalized value of a parameter.
func (g *Graph) Param(loc host.Location, p int) (float64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	e := g.effect(loc)
	if e == nil {
		return 0, false
	}
	prm := e.Params.GetByIndex(p)
	if prm == nil {
		return 0, false
	}
	return prm.GetValue(), true
}

// Modulation returns the link installed on a parameter.
func (g *Graph) Modulation(loc host.Location, p int) (host.Modulation, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	e := g.effect(loc)
	if e == nil {
		return host.Modulation{}, false
	}
	m, ok := e.mods[p]
	return m, ok
}

// ActiveModulations counts active links across the whole graph.
func (g *Graph) ActiveModulations() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := 0
	for _, t := range append([]*Track{g.master}, g.tracks...) {
		for _, e := range t.FX {
			for _, m := range e.mods {
				if m.Active {
					n++
				}
			}
		}
	}
	return n
}

func (g *Graph) track(track int) *Track {
	if track == host.MasterTrack {
		return g.master
	}
	if track < 0 || track >= len(g.tracks) {
		return nil
	}
	return g.tracks[track]
}

func (g *Graph) effect(loc host.Location) *Effect {
	t := g.track(loc.Track)
	if t == nil || loc.FX < 0 || loc.FX >= len(t.FX) {
		return nil
	}
	return t.FX[loc.FX]
}

// TrackCount implements host.Graph.
func (g *Graph) TrackCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.tracks)
}

// TrackRef implements host.Graph.
func (g *Graph) TrackRef(track int) (host.TrackRef, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	t := g.track(track)
	if t == nil {
		return "", false
	}
	return t.Ref, true
}

// FindTrack implements host.Graph.
func (g *Graph) FindTrack(ref host.TrackRef) (int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.master.Ref == ref {
		return host.MasterTrack, true
	}
	for i, t := range g.tracks {
		if t.Ref == ref {
			return i, true
		}
	}
	return 0, false
}

// FXCount implements host.Graph.
func (g *Graph) FXCount(track int) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	t := g.track(track)
	if t == nil {
		return 0
	}
	return len(t.FX)
}

// FXName implements host.Graph.
func (g *Graph) FXName(loc host.Location) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if e := g.effect(loc); e != nil {
		return e.Name
	}
	return ""
}

// FXRef implements host.Graph.
func (g *Graph) FXRef(loc host.Location) (host.FXRef, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	e := g.effect(loc)
	if e == nil {
		return "", false
	}
	return e.Ref, true
}

// FindFX implements host.Graph.
func (g *Graph) FindFX(track int, ref host.FXRef) (int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	t := g.track(track)
	if t == nil {
		return 0, false
	}
	for i, e := range t.FX {
		if e.Ref == ref {
			return i, true
		}
	}
	return 0, false
}

// ParamCount implements host.Graph.
func (g *Graph) ParamCount(loc host.Location) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	if e := g.effect(loc); e != nil {
		return e.Params.Count()
	}
	return 0
}

// SetParam implements host.Graph.
func (g *Graph) SetParam(loc host.Location, p int, normalized float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	e := g.effect(loc)
	if e == nil {
		return fmt.Errorf("set param: track %d fx %d: %w", loc.Track, loc.FX, host.ErrNoTarget)
	}
	prm := e.Params.GetByIndex(p)
	if prm == nil {
		return fmt.Errorf("set param %d on %q: %w", p, e.Name, host.ErrNoTarget)
	}
	prm.SetValue(normalized)
	return nil
}

// SetModulation implements host.Graph.
func (g *Graph) SetModulation(loc host.Location, p int, mod host.Modulation) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	e := g.effect(loc)
	if e == nil {
		return fmt.Errorf("set modulation: track %d fx %d: %w", loc.Track, loc.FX, host.ErrNoTarget)
	}
	if p < 0 || p >= e.Params.Count() {
		return fmt.Errorf("set modulation on param %d of %q: %w", p, e.Name, host.ErrNoTarget)
	}
	e.mods[p] = mod
	return nil
}

// Enabled implements host.Graph.
func (g *Graph) Enabled(loc host.Location) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	e := g.effect(loc)
	return e != nil && e.enabled
}

// SetEnabled implements host.Graph.
func (g *Graph) SetEnabled(loc host.Location, enabled bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	e := g.effect(loc)
	if e == nil {
		return fmt.Errorf("set enabled: track %d fx %d: %w", loc.Track, loc.FX, host.ErrNoTarget)
	}
	e.enabled = enabled
	return nil
}

// LastTouched implements host.Graph.
func (g *Graph) LastTouched() (host.Location, int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.hasTouched || g.effect(g.touched) == nil {
		return host.Location{}, 0, false
	}
	return g.touched, g.touchedParam, true
}
