package link

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/justyntemme/distmod/pkg/curve"
	"github.com/justyntemme/distmod/pkg/framework/debug"
	"github.com/justyntemme/distmod/pkg/host"
)

var (
	// ErrSelfModulation rejects linking a parameter of the unit itself.
	ErrSelfModulation = errors.New("cannot link the modulation unit to itself")
	// ErrNoUnit is returned when the target's track has no unit instance.
	ErrNoUnit = errors.New("no modulation unit on the target's track")
	// ErrAlreadyLinked rejects a second link to the same parameter.
	ErrAlreadyLinked = errors.New("parameter already linked")
	// ErrNothingTouched is returned when the host reports no last-touched
	// parameter.
	ErrNothingTouched = errors.New("no last-touched parameter")
	// ErrLinkNotFound is returned for an unknown link ID.
	ErrLinkNotFound = errors.New("link not found")
)

var linkSeq atomic.Uint64

// Registry owns the custom links of one session and mirrors them onto the
// host graph as modulation links.
type Registry struct {
	graph    host.Graph
	unitName string
	links    []*Link
	log      *debug.Logger
}

// NewRegistry returns an empty registry for units named unitName.
func NewRegistry(g host.Graph, unitName string, log *debug.Logger) *Registry {
	if log == nil {
		log = debug.Default()
	}
	return &Registry{graph: g, unitName: unitName, log: log.Named("link")}
}

// Len returns the number of links.
func (r *Registry) Len() int {
	return len(r.links)
}

// All returns the links in creation order. The slice is a copy; the links
// are shared.
func (r *Registry) All() []*Link {
	return append([]*Link(nil), r.links...)
}

// Get returns the link with id.
func (r *Registry) Get(id string) (*Link, bool) {
	i := r.index(id)
	if i < 0 {
		return nil, false
	}
	return r.links[i], true
}

func (r *Registry) index(id string) int {
	for i, l := range r.links {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// slots derives slot occupancy from the current links.
func (r *Registry) slots() SlotPool {
	var pool SlotPool
	for _, l := range r.links {
		pool.Claim(l.Slot)
	}
	return pool
}

// AllocateSlot returns the slot the next created link would receive.
func (r *Registry) AllocateSlot() (int, error) {
	pool := r.slots()
	return pool.Allocate()
}

// FreeSlot removes the link that holds slot, if any.
func (r *Registry) FreeSlot(slot int) error {
	for _, l := range r.links {
		if l.Slot == slot {
			return r.Remove(l.ID)
		}
	}
	return nil
}

func (r *Registry) newID() string {
	for {
		id := fmt.Sprintf("link-%d", linkSeq.Add(1))
		if r.index(id) < 0 {
			return id
		}
	}
}

// CreateFromLastTouched links the host's last-touched parameter.
func (r *Registry) CreateFromLastTouched() (*Link, error) {
	loc, p, ok := r.graph.LastTouched()
	if !ok {
		return nil, ErrNothingTouched
	}
	return r.Create(loc, p)
}

// Create links parameter p of the effect at loc to the lowest free slot of
// the unit instance on the same track and installs the host modulation.
// Nothing changes on failure.
func (r *Registry) Create(loc host.Location, p int) (*Link, error) {
	g := r.graph
	name := g.FXName(loc)
	if host.IsUnit(name, r.unitName) {
		return nil, ErrSelfModulation
	}
	if p < 0 || p >= g.ParamCount(loc) {
		return nil, fmt.Errorf("param %d of %q: %w", p, name, host.ErrNoTarget)
	}
	unit, ok := host.FindUnitOnTrack(g, loc.Track, r.unitName)
	if !ok {
		return nil, fmt.Errorf("track %d: %w", loc.Track, ErrNoUnit)
	}

	trackRef, ok := g.TrackRef(loc.Track)
	if !ok {
		return nil, fmt.Errorf("track %d: %w", loc.Track, host.ErrNoTarget)
	}
	fxRef, ok := g.FXRef(loc)
	if !ok {
		return nil, fmt.Errorf("fx %d on track %d: %w", loc.FX, loc.Track, host.ErrNoTarget)
	}
	unitRef, _ := g.FXRef(unit)
	target := host.Target{Track: trackRef, FX: fxRef, Param: p}
	for _, l := range r.links {
		if l.Target == target {
			return nil, fmt.Errorf("%q param %d by %s: %w", name, p, l.ID, ErrAlreadyLinked)
		}
	}

	pool := r.slots()
	slot, err := pool.Allocate()
	if err != nil {
		return nil, err
	}

	l := &Link{
		ID:      r.newID(),
		Target:  target,
		Unit:    unitRef,
		Slot:    slot,
		Curve:   curve.NewNormalized(),
		Color:   SlotColor(slot),
		Enabled: true,
	}
	mod := host.SlotModulation(unit.FX, l.SlotParam(), true)
	if err := g.SetModulation(loc, p, mod); err != nil {
		return nil, fmt.Errorf("install modulation: %w", err)
	}
	l.resolved = &resolution{target: loc, unit: unit}
	r.links = append(r.links, l)

	r.log.Info("link created", "id", l.ID, "fx", name, "param", p, "slot", slot)
	return l, nil
}

// Remove deactivates the host modulation of link id, if its target still
// exists, and drops the link, freeing its slot.
func (r *Registry) Remove(id string) error {
	i := r.index(id)
	if i < 0 {
		return fmt.Errorf("remove %s: %w", id, ErrLinkNotFound)
	}
	l := r.links[i]
	r.deactivate(l)
	r.links = append(r.links[:i], r.links[i+1:]...)

	r.log.Info("link removed", "id", id, "slot", l.Slot)
	return nil
}

// Clear removes every link.
func (r *Registry) Clear() {
	for _, l := range r.links {
		r.deactivate(l)
	}
	r.links = nil
}

func (r *Registry) deactivate(l *Link) {
	if err := r.resolve(l); err != nil {
		return
	}
	target, unit, _ := l.Locations()
	mod := host.SlotModulation(unit.FX, l.SlotParam(), false)
	if err := r.graph.SetModulation(target, l.Target.Param, mod); err != nil {
		r.log.Debug("deactivate failed", "id", l.ID, "err", err)
	}
}

// Restore replaces the link set with links, typically decoded from a
// preset, then resolves them. A second link to an already linked target
// is dropped. Links with an invalid or duplicate slot get the lowest free
// slot, or are dropped when none is left; empty or duplicate IDs are
// regenerated.
func (r *Registry) Restore(links []*Link) {
	r.Clear()

	var pool SlotPool
	seen := make(map[string]bool, len(links))
	targets := make(map[host.Target]string, len(links))
	for _, l := range links {
		if first, ok := targets[l.Target]; ok {
			r.log.Warn("link dropped", "id", l.ID, "err", ErrAlreadyLinked, "linked_by", first)
			continue
		}
		if !pool.Claim(l.Slot) {
			slot, err := pool.Allocate()
			if err != nil {
				r.log.Warn("link dropped", "id", l.ID, "err", err)
				continue
			}
			r.log.Warn("link slot reassigned", "id", l.ID, "from", l.Slot, "to", slot)
			l.Slot = slot
		}
		if l.ID == "" || seen[l.ID] {
			l.ID = r.newID()
		}
		seen[l.ID] = true
		targets[l.Target] = l.ID
		if l.Curve == nil {
			l.Curve = curve.NewNormalized()
		}
		if l.Color == "" {
			l.Color = SlotColor(l.Slot)
		}
		l.resolved = nil
		r.links = append(r.links, l)
	}
	r.ResolveAll()
}

// ResolveAll re-derives live locations for every link and re-installs the
// host modulation of each resolved link. Unresolved links are kept. It
// returns the number of resolved links.
func (r *Registry) ResolveAll() int {
	n := 0
	for _, l := range r.links {
		if err := r.resolve(l); err != nil {
			r.log.Warn("link unresolved", "id", l.ID, "err", err)
			continue
		}
		n++
		if err := r.apply(l); err != nil {
			r.log.Warn("link modulation not installed", "id", l.ID, "err", err)
		}
	}
	return n
}

// resolve refreshes the location cache of l.
func (r *Registry) resolve(l *Link) error {
	l.resolved = nil
	g := r.graph

	track, ok := g.FindTrack(l.Target.Track)
	if !ok {
		return fmt.Errorf("track %s: %w", l.Target.Track, host.ErrNoTarget)
	}
	fx, ok := g.FindFX(track, l.Target.FX)
	if !ok {
		return fmt.Errorf("fx %s: %w", l.Target.FX, host.ErrNoTarget)
	}
	target := host.Location{Track: track, FX: fx}
	if l.Target.Param < 0 || l.Target.Param >= g.ParamCount(target) {
		return fmt.Errorf("param %d: %w", l.Target.Param, host.ErrNoTarget)
	}
	unitFX, ok := g.FindFX(track, l.Unit)
	if !ok {
		return fmt.Errorf("unit %s: %w", l.Unit, ErrNoUnit)
	}
	l.resolved = &resolution{target: target, unit: host.Location{Track: track, FX: unitFX}}
	return nil
}

func (r *Registry) apply(l *Link) error {
	target, unit, ok := l.Locations()
	if !ok {
		return host.ErrNoTarget
	}
	mod := host.SlotModulation(unit.FX, l.SlotParam(), l.Enabled)
	return r.graph.SetModulation(target, l.Target.Param, mod)
}

// SetEnabled toggles a link and its host modulation.
func (r *Registry) SetEnabled(id string, enabled bool) error {
	l, ok := r.Get(id)
	if !ok {
		return fmt.Errorf("enable %s: %w", id, ErrLinkNotFound)
	}
	l.Enabled = enabled
	if l.Resolved() {
		if err := r.apply(l); err != nil {
			r.log.Warn("link modulation not updated", "id", id, "err", err)
		}
	}
	return nil
}
