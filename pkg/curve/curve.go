// Package curve models the distance curves of the modulation engine and
// evaluates them.
//
// A curve maps the normalized distance domain [DomainMin, DomainMax] to a
// value range [Min, Max] through sorted control points. Curves on a
// logarithmic scale interpolate in log space so that frequency sweeps are
// perceptually even.
package curve

import (
	"fmt"
	"strings"

	"github.com/justyntemme/distmod/pkg/framework/param"
)

// Distance domain and point spacing.
const (
	DomainMin = 0.0
	DomainMax = 100.0

	// MinSpacing is the smallest allowed X distance between two points.
	MinSpacing = 0.5
)

// ID identifies one of the built-in curves.
type ID int

const (
	Level ID = iota
	HighPass
	LowPass
	Width

	// Count is the number of built-in curves.
	Count = 4

	// Custom marks curves that belong to a custom parameter link.
	Custom ID = -1
)

// IDs lists the built-in curves in output order.
var IDs = [Count]ID{Level, HighPass, LowPass, Width}

// String returns the stable name used in preset documents.
func (id ID) String() string {
	switch id {
	case Level:
		return "level"
	case HighPass:
		return "highpass"
	case LowPass:
		return "lowpass"
	case Width:
		return "width"
	case Custom:
		return "custom"
	}
	return fmt.Sprintf("curve(%d)", int(id))
}

// ParseID returns the built-in curve named s.
func ParseID(s string) (ID, error) {
	for _, id := range IDs {
		if strings.EqualFold(s, id.String()) {
			return id, nil
		}
	}
	return Custom, fmt.Errorf("unknown curve %q", s)
}

// Reference returns the value at which the curve's parameter has no effect.
// It is the output of a disabled curve and the zero point of base offsets.
func (id ID) Reference() float64 {
	switch id {
	case Level:
		return 0
	case HighPass:
		return param.FreqMin
	case LowPass:
		return param.FreqMax
	case Width:
		return 100
	case Custom:
		return 0
	}
	return 0
}

// Format renders a value of this curve for display.
func (id ID) Format(v float64) string {
	switch id {
	case Level:
		return param.DecibelFormatter(v)
	case HighPass, LowPass:
		return param.FrequencyFormatter(v)
	case Width:
		return param.PercentFormatter(v)
	case Custom:
		return fmt.Sprintf("%.2f", v)
	}
	return fmt.Sprint(v)
}

// Scale selects the domain values are interpolated in.
type Scale int

const (
	LinearScale Scale = iota
	LogScale
)

// Interpolation selects how values between control points are computed.
type Interpolation int

const (
	Linear Interpolation = iota
	Smooth
)

func (m Interpolation) String() string {
	switch m {
	case Linear:
		return "linear"
	case Smooth:
		return "smooth"
	}
	return fmt.Sprintf("interpolation(%d)", int(m))
}

// ParseInterpolation accepts "linear" and "smooth".
func ParseInterpolation(s string) (Interpolation, error) {
	switch strings.ToLower(s) {
	case "linear":
		return Linear, nil
	case "smooth":
		return Smooth, nil
	}
	return Linear, fmt.Errorf("unknown interpolation %q", s)
}

// Point is one control point.
type Point struct {
	X float64
	Y float64
}

// Curve is a point-list function over the distance domain.
type Curve struct {
	ID     ID
	Label  string
	Unit   string
	Min    float64
	Max    float64
	Scale  Scale
	Interp Interpolation

	points []Point
}

// New returns built-in curve id with its default shape.
func New(id ID) *Curve {
	switch id {
	case Level:
		return &Curve{
			ID: id, Label: "Volume", Unit: "dB",
			Min: param.LevelMin, Max: param.LevelMax, Scale: LinearScale,
			points: []Point{{0, 0}, {10, -3}, {50, -12}, {100, -24}},
		}
	case HighPass:
		return &Curve{
			ID: id, Label: "High Pass", Unit: "Hz",
			Min: param.FreqMin, Max: param.FreqMax, Scale: LogScale,
			points: []Point{{0, 20}, {100, 200}},
		}
	case LowPass:
		return &Curve{
			ID: id, Label: "Low Pass", Unit: "Hz",
			Min: param.FreqMin, Max: param.FreqMax, Scale: LogScale,
			points: []Point{{0, 20000}, {50, 8000}, {100, 2500}},
		}
	case Width:
		return &Curve{
			ID: id, Label: "Stereo Width", Unit: "%",
			Min: param.WidthMin, Max: param.WidthMax, Scale: LinearScale,
			points: []Point{{0, 100}, {100, 30}},
		}
	case Custom:
		return NewNormalized()
	}
	panic(fmt.Sprintf("curve: unknown id %d", int(id)))
}

// NewNormalized returns a 0-1 linear curve rising across the domain, the
// default shape of a custom link.
func NewNormalized() *Curve {
	return &Curve{
		ID: Custom, Label: "Custom",
		Min: 0, Max: 1, Scale: LinearScale,
		points: []Point{{DomainMin, 0}, {DomainMax, 1}},
	}
}

// Points returns a copy of the control points.
func (c *Curve) Points() []Point {
	return append([]Point(nil), c.points...)
}

// Len returns the number of control points.
func (c *Curve) Len() int {
	return len(c.points)
}

// Point returns control point i.
func (c *Curve) Point(i int) (Point, bool) {
	if i < 0 || i >= len(c.points) {
		return Point{}, false
	}
	return c.points[i], true
}

// Clone returns a deep copy.
func (c *Curve) Clone() *Curve {
	dup := *c
	dup.points = c.Points()
	return &dup
}

// Format renders v for display.
func (c *Curve) Format(v float64) string {
	return c.ID.Format(v)
}

func (c *Curve) clamp(v float64) float64 {
	if v < c.Min {
		return c.Min
	}
	if v > c.Max {
		return c.Max
	}
	return v
}
