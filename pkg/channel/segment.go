// Package channel implements the low-latency shared memory segment between
// the engine and the audio unit's real-time thread.
//
// A segment is a fixed array of float64 slots stored as atomic bits. There
// are no locks: a reader may observe a mix of old and new values for one
// cycle, which is acceptable for smoothly varying modulation values. The
// new-data and distance-dirty slots act as the only flags.
package channel

import (
	"math"
	"sync"
	"sync/atomic"
)

// Slot indexes a value in a segment.
type Slot int

// Slot layout. Producer of the first five is the engine; the distance pair
// is written by both sides (see ReportDistance).
const (
	SlotLevel Slot = iota
	SlotHighPass
	SlotLowPass
	SlotWidth
	SlotNewData
	SlotDistance
	SlotDistanceDirty

	SlotCount = int(iota)
)

// Segment is one named shared channel.
type Segment struct {
	name  string
	slots [SlotCount]atomic.Uint64
}

// Values is a snapshot of the composed outputs in a segment.
type Values struct {
	Level    float64
	HighPass float64
	LowPass  float64
	Width    float64
	Distance float64
}

var (
	segmentsMu sync.Mutex
	segments   = map[string]*Segment{}
)

// Attach returns the process-wide segment called name, creating it on first
// use. Both sides of the channel attach by the same name.
func Attach(name string) *Segment {
	segmentsMu.Lock()
	defer segmentsMu.Unlock()

	s, ok := segments[name]
	if !ok {
		s = &Segment{name: name}
		segments[name] = s
	}
	return s
}

// Detach forgets the named segment. Holders of the old pointer keep a
// private copy.
func Detach(name string) {
	segmentsMu.Lock()
	defer segmentsMu.Unlock()
	delete(segments, name)
}

// NewSegment returns an unnamed segment that is not registered.
func NewSegment() *Segment {
	return &Segment{}
}

// Name returns the segment name.
func (s *Segment) Name() string {
	return s.name
}

// Load reads one slot.
func (s *Segment) Load(slot Slot) float64 {
	if slot < 0 || int(slot) >= SlotCount {
		return 0
	}
	return math.Float64frombits(s.slots[slot].Load())
}

// Store writes one slot.
func (s *Segment) Store(slot Slot, v float64) {
	if slot < 0 || int(slot) >= SlotCount {
		return
	}
	s.slots[slot].Store(math.Float64bits(v))
}

func (s *Segment) setFlag(slot Slot, on bool) {
	v := 0.0
	if on {
		v = 1
	}
	s.Store(slot, v)
}

// takeFlag clears the flag and reports whether it was set.
func (s *Segment) takeFlag(slot Slot) bool {
	zero := math.Float64bits(0)
	return math.Float64frombits(s.slots[slot].Swap(zero)) != 0
}

// Publish writes composed values and raises the new-data flag last.
func (s *Segment) Publish(v Values) {
	s.Store(SlotLevel, v.Level)
	s.Store(SlotHighPass, v.HighPass)
	s.Store(SlotLowPass, v.LowPass)
	s.Store(SlotWidth, v.Width)
	s.Store(SlotDistance, v.Distance)
	s.setFlag(SlotNewData, true)
}

// Consume is the audio-thread read: it returns the current values and
// whether the engine published since the last Consume.
func (s *Segment) Consume() (Values, bool) {
	fresh := s.takeFlag(SlotNewData)
	return s.Snapshot(), fresh
}

// Snapshot reads all values without touching flags.
func (s *Segment) Snapshot() Values {
	return Values{
		Level:    s.Load(SlotLevel),
		HighPass: s.Load(SlotHighPass),
		LowPass:  s.Load(SlotLowPass),
		Width:    s.Load(SlotWidth),
		Distance: s.Load(SlotDistance),
	}
}

// ReportDistance is the audio-thread write of a distance it originated,
// e.g. from host automation.
func (s *Segment) ReportDistance(d float64) {
	s.Store(SlotDistance, d)
	s.setFlag(SlotDistanceDirty, true)
}

// TakeDistance returns a distance reported by the unit, if any, and clears
// the report flag.
func (s *Segment) TakeDistance() (float64, bool) {
	if !s.takeFlag(SlotDistanceDirty) {
		return 0, false
	}
	return s.Load(SlotDistance), true
}
