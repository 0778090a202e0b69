// Package host defines the audio graph the engine runs against: tracks,
// their effect chains, effect parameters and parameter modulation links.
//
// Locations are transient indices that change as the user edits the
// project; TrackRef and FXRef are stable identifiers that survive reorders
// and sessions. Code that stores a target keeps the refs and re-resolves
// locations on demand.
package host

import "errors"

// MasterTrack is the track index of the global (master) effect chain.
const MasterTrack = -1

// ErrNoTarget is returned when a location no longer addresses an effect or
// parameter.
var ErrNoTarget = errors.New("no such target")

// TrackRef is the stable identifier of a track.
type TrackRef string

// FXRef is the stable identifier of an effect instance.
type FXRef string

// Location addresses one effect by transient indices.
type Location struct {
	Track int
	FX    int
}

// Target is a stable reference to one effect parameter.
type Target struct {
	Track TrackRef
	FX    FXRef
	Param int
}

// Modulation is a parameter link from a source effect parameter on the
// same track to the parameter it is applied to.
type Modulation struct {
	Active      bool
	SourceFX    int
	SourceParam int
	Scale       float64
	Offset      float64
	Mirror      bool
}

// SlotModulation returns the link shape used for custom slots: active,
// unity scale, no offset, mirror off.
func SlotModulation(sourceFX, sourceParam int, active bool) Modulation {
	return Modulation{
		Active:      active,
		SourceFX:    sourceFX,
		SourceParam: sourceParam,
		Scale:       1,
		Offset:      0,
		Mirror:      false,
	}
}

// Graph is the host's audio graph. All calls are synchronous in-process
// lookups.
type Graph interface {
	// TrackCount returns the number of regular tracks; valid track indices
	// are MasterTrack and 0..TrackCount()-1.
	TrackCount() int
	TrackRef(track int) (TrackRef, bool)
	FindTrack(ref TrackRef) (int, bool)

	FXCount(track int) int
	FXName(loc Location) string
	FXRef(loc Location) (FXRef, bool)
	FindFX(track int, ref FXRef) (int, bool)

	ParamCount(loc Location) int
	// SetParam writes a normalized 0-1 value.
	SetParam(loc Location, param int, normalized float64) error
	// SetModulation installs or updates the link driving param.
	SetModulation(loc Location, param int, mod Modulation) error

	Enabled(loc Location) bool
	SetEnabled(loc Location, enabled bool) error

	// LastTouched returns the most recently adjusted parameter.
	LastTouched() (Location, int, bool)
}

// Tracks returns every track index of g, master first.
func Tracks(g Graph) []int {
	n := g.TrackCount()
	tracks := make([]int, 0, n+1)
	tracks = append(tracks, MasterTrack)
	for i := 0; i < n; i++ {
		tracks = append(tracks, i)
	}
	return tracks
}
