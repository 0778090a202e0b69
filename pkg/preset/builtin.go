package preset

import (
	"time"

	"github.com/justyntemme/distmod/pkg/curve"
)

// Builtins returns the factory presets. They carry no links, so applying
// one keeps the user's link set.
func Builtins() []Document {
	return []Document{
		builtin("Default", nil),
		builtin("Small Room", map[curve.ID]CurveData{
			curve.Level:    {Points: [][2]float64{{0, 0}, {50, -4}, {100, -9}}},
			curve.HighPass: {Points: [][2]float64{{0, 20}, {100, 60}}},
			curve.LowPass:  {Points: [][2]float64{{0, 20000}, {100, 12000}}},
			curve.Width:    {Points: [][2]float64{{0, 100}, {100, 80}}},
		}),
		builtin("Open Field", map[curve.ID]CurveData{
			curve.Level:    {Points: [][2]float64{{0, 0}, {10, -6}, {40, -18}, {100, -40}}},
			curve.HighPass: {Points: [][2]float64{{0, 20}, {100, 120}}},
			curve.LowPass:  {Interpolation: "smooth", Points: [][2]float64{{0, 20000}, {30, 9000}, {100, 1800}}},
			curve.Width:    {Points: [][2]float64{{0, 100}, {100, 10}}},
		}),
		builtin("Muffled Distance", map[curve.ID]CurveData{
			curve.Level:   {Points: [][2]float64{{0, 0}, {100, -12}}},
			curve.LowPass: {Interpolation: "smooth", Points: [][2]float64{{0, 12000}, {40, 3000}, {100, 600}}},
		}),
	}
}

// builtin fills every curve from its default, overriding the points and
// interpolation of the curves in shapes.
func builtin(name string, shapes map[curve.ID]CurveData) Document {
	d := Data{Curves: make([]CurveData, 0, curve.Count)}
	for _, id := range curve.IDs {
		def := curve.New(id)
		cd := CurveData{
			ID:            id.String(),
			Enabled:       true,
			Visible:       true,
			Base:          id.Reference(),
			Interpolation: def.Interp.String(),
			Points:        encodePoints(def.Points()),
		}
		if shape, ok := shapes[id]; ok {
			cd.Points = shape.Points
			if shape.Interpolation != "" {
				cd.Interpolation = shape.Interpolation
			}
		}
		d.Curves = append(d.Curves, cd)
	}
	return Document{
		Schema:  CurrentSchema,
		Name:    name,
		Created: time.Time{},
		Data:    d,
	}
}
