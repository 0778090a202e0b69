package host

import (
	"errors"
	"fmt"
	"strings"
)

// IsUnit reports whether an effect named fxName is an instance of the unit
// called unitName. Matching is a case-insensitive substring test so that
// host decorations such as "VST3: distmod (vendor)" still match.
func IsUnit(fxName, unitName string) bool {
	if unitName == "" {
		return false
	}
	return strings.Contains(strings.ToLower(fxName), strings.ToLower(unitName))
}

// FindUnits returns every instance of the unit across the master chain and
// all track chains.
func FindUnits(g Graph, unitName string) []Location {
	var units []Location
	for _, track := range Tracks(g) {
		for fx := 0; fx < g.FXCount(track); fx++ {
			loc := Location{Track: track, FX: fx}
			if IsUnit(g.FXName(loc), unitName) {
				units = append(units, loc)
			}
		}
	}
	return units
}

// FindUnitOnTrack returns the first unit instance on track.
func FindUnitOnTrack(g Graph, track int, unitName string) (Location, bool) {
	for fx := 0; fx < g.FXCount(track); fx++ {
		loc := Location{Track: track, FX: fx}
		if IsUnit(g.FXName(loc), unitName) {
			return loc, true
		}
	}
	return Location{}, false
}

// AnyUnitEnabled reports whether at least one unit instance is enabled.
func AnyUnitEnabled(g Graph, unitName string) bool {
	for _, loc := range FindUnits(g, unitName) {
		if g.Enabled(loc) {
			return true
		}
	}
	return false
}

// ToggleUnits disables every unit instance if any is enabled, otherwise
// enables them all. It returns the new state and the number of instances.
// Every instance is attempted even if some fail.
func ToggleUnits(g Graph, unitName string) (enabled bool, count int, err error) {
	units := FindUnits(g, unitName)
	enabled = !AnyUnitEnabled(g, unitName)

	var errs []error
	for _, loc := range units {
		if e := g.SetEnabled(loc, enabled); e != nil {
			errs = append(errs, fmt.Errorf("track %d fx %d: %w", loc.Track, loc.FX, e))
		}
	}
	return enabled, len(units), errors.Join(errs...)
}
