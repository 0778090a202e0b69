package param

import "fmt"

// Parameter indices of the distance modulation unit.
const (
	UnitDistance = iota
	UnitLevel
	UnitHighPass
	UnitLowPass
	UnitWidth

	// CustomSlotBase is the parameter index of custom slot 1; slot n lives
	// at CustomSlotBase+n-1.
	CustomSlotBase

	// CustomSlots is the number of custom modulation slots.
	CustomSlots = 8

	// UnitParamCount is the total number of unit parameters.
	UnitParamCount = CustomSlotBase + CustomSlots
)

// Plain ranges of the unit's primary parameters.
const (
	LevelMin    = SilenceFloor
	LevelMax    = 0.0
	FreqMin     = 20.0
	FreqMax     = 20000.0
	WidthMin    = 0.0
	WidthMax    = 200.0
	DistanceMin = 0.0
	DistanceMax = 100.0
)

// SlotParam returns the unit parameter index that carries custom slot n.
func SlotParam(slot int) int {
	return CustomSlotBase + slot - 1
}

// UnitParameters builds the parameter surface of one distance modulation
// unit instance, in index order. Custom slots are driven only through
// modulation links and are hidden from the host's generic editor.
func UnitParameters() []*Parameter {
	params := []*Parameter{
		New(UnitDistance, "Distance").
			Range(DistanceMin, DistanceMax).
			Default(0).
			Formatter(DistanceFormatter, nil).
			Build(),
		New(UnitLevel, "Level").
			Range(LevelMin, LevelMax).
			Default(0).
			Unit("dB").
			Formatter(DecibelFormatter, DecibelParser).
			Build(),
		New(UnitHighPass, "High Pass").
			ShortName("HP").
			Range(FreqMin, FreqMax).
			Log().
			Default(FreqMin).
			Unit("Hz").
			Formatter(FrequencyFormatter, FrequencyParser).
			Build(),
		New(UnitLowPass, "Low Pass").
			ShortName("LP").
			Range(FreqMin, FreqMax).
			Log().
			Default(FreqMax).
			Unit("Hz").
			Formatter(FrequencyFormatter, FrequencyParser).
			Build(),
		New(UnitWidth, "Width").
			Range(WidthMin, WidthMax).
			Default(100).
			Unit("%").
			Formatter(PercentFormatter, PercentParser).
			Build(),
	}
	for slot := 1; slot <= CustomSlots; slot++ {
		params = append(params, New(uint32(SlotParam(slot)), fmt.Sprintf("Custom %d", slot)).
			ShortName(fmt.Sprintf("C%d", slot)).
			Hidden().
			Build())
	}
	return params
}

// Generic builds n plain 0-1 parameters named after their index, the shape
// of an arbitrary third-party effect.
func Generic(n int) []*Parameter {
	params := make([]*Parameter, n)
	for i := range params {
		params[i] = New(uint32(i), fmt.Sprintf("Param %d", i+1)).Build()
	}
	return params
}
