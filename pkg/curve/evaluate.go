package curve

import (
	"math"
	"sort"
)

// logFloor keeps log-domain interpolation away from log(0).
const logFloor = 1e-6

// Evaluate returns the curve value at distance x, clamped to [Min, Max].
//
// With no points it returns the middle of the range; outside the point span
// it holds the first or last value.
func (c *Curve) Evaluate(x float64) float64 {
	pts := c.points
	switch len(pts) {
	case 0:
		return (c.Min + c.Max) / 2
	case 1:
		return c.clamp(pts[0].Y)
	}
	if math.IsNaN(x) || x <= pts[0].X {
		return c.clamp(pts[0].Y)
	}
	last := pts[len(pts)-1]
	if x >= last.X {
		return c.clamp(last.Y)
	}

	// First point strictly right of x; 1 <= i < len(pts).
	i := sort.Search(len(pts), func(i int) bool { return pts[i].X > x })
	p1, p2 := pts[i-1], pts[i]
	t := (x - p1.X) / (p2.X - p1.X)

	var v float64
	switch c.Interp {
	case Smooth:
		// Flat virtual neighbours one unit past the ends.
		p0 := Point{X: p1.X - 1, Y: p1.Y}
		if i >= 2 {
			p0 = pts[i-2]
		}
		p3 := Point{X: p2.X + 1, Y: p2.Y}
		if i+1 < len(pts) {
			p3 = pts[i+1]
		}
		v = centripetal(c.toDomain(p0), c.toDomain(p1), c.toDomain(p2), c.toDomain(p3), t)
	default:
		v = lerp(c.toDomain(p1).Y, c.toDomain(p2).Y, t)
	}
	return c.clamp(c.fromDomain(v))
}

func (c *Curve) toDomain(p Point) Point {
	if c.Scale == LogScale {
		return Point{X: p.X, Y: math.Log(math.Max(p.Y, logFloor))}
	}
	return p
}

func (c *Curve) fromDomain(v float64) float64 {
	if c.Scale == LogScale {
		return math.Exp(v)
	}
	return v
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// centripetal evaluates a centripetal Catmull-Rom segment between p1 and p2
// at fraction u using the Barry-Goldman pyramid.
func centripetal(p0, p1, p2, p3 Point, u float64) float64 {
	t0 := 0.0
	t1 := t0 + knot(p0, p1)
	t2 := t1 + knot(p1, p2)
	t3 := t2 + knot(p2, p3)
	t := t1 + u*(t2-t1)

	a1 := blend(p0.Y, p1.Y, t0, t1, t)
	a2 := blend(p1.Y, p2.Y, t1, t2, t)
	a3 := blend(p2.Y, p3.Y, t2, t3, t)
	b1 := blend(a1, a2, t0, t2, t)
	b2 := blend(a2, a3, t1, t3, t)
	return blend(b1, b2, t1, t2, t)
}

// knot returns the centripetal (alpha = 0.5) knot interval.
func knot(a, b Point) float64 {
	return math.Max(math.Sqrt(math.Hypot(b.X-a.X, b.Y-a.Y)), 1e-9)
}

func blend(a, b, ta, tb, t float64) float64 {
	return ((tb-t)*a + (t-ta)*b) / (tb - ta)
}
