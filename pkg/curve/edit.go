package curve

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrTooClose rejects a point within MinSpacing of another point.
	ErrTooClose = errors.New("point too close to neighbour")
	// ErrTooFewPoints rejects leaving a curve with fewer than two points.
	ErrTooFewPoints = errors.New("curve needs at least two points")
	// ErrOutOfDomain rejects an X outside the distance domain.
	ErrOutOfDomain = errors.New("point outside distance domain")
	// ErrNoSuchPoint is returned for an invalid point index.
	ErrNoSuchPoint = errors.New("no such point")
)

// AddPoint inserts a point and returns its index. Y is clamped to the
// curve range.
func (c *Curve) AddPoint(x, y float64) (int, error) {
	if err := checkX(x); err != nil {
		return -1, err
	}
	if err := checkY(y); err != nil {
		return -1, err
	}
	if c.collides(x, -1) {
		return -1, fmt.Errorf("add x=%g: %w", x, ErrTooClose)
	}

	i := sort.Search(len(c.points), func(i int) bool { return c.points[i].X > x })
	c.points = append(c.points, Point{})
	copy(c.points[i+1:], c.points[i:])
	c.points[i] = Point{X: x, Y: c.clamp(y)}
	return i, nil
}

// MovePoint moves point i and returns its index after re-sorting.
func (c *Curve) MovePoint(i int, x, y float64) (int, error) {
	if i < 0 || i >= len(c.points) {
		return -1, fmt.Errorf("move %d: %w", i, ErrNoSuchPoint)
	}
	if err := checkX(x); err != nil {
		return -1, err
	}
	if err := checkY(y); err != nil {
		return -1, err
	}
	if c.collides(x, i) {
		return -1, fmt.Errorf("move %d to x=%g: %w", i, x, ErrTooClose)
	}

	c.points[i] = Point{X: x, Y: c.clamp(y)}
	moved := c.points[i]
	sort.SliceStable(c.points, func(a, b int) bool { return c.points[a].X < c.points[b].X })
	for j, p := range c.points {
		if p == moved {
			return j, nil
		}
	}
	return i, nil
}

// RemovePoint deletes point i unless that would leave fewer than two.
func (c *Curve) RemovePoint(i int) error {
	if i < 0 || i >= len(c.points) {
		return fmt.Errorf("remove %d: %w", i, ErrNoSuchPoint)
	}
	if len(c.points) <= 2 {
		return ErrTooFewPoints
	}
	c.points = append(c.points[:i], c.points[i+1:]...)
	return nil
}

// SetPoints replaces all points. The input is sorted by X and Y values are
// clamped; on error the curve is unchanged.
func (c *Curve) SetPoints(points []Point) error {
	if len(points) < 2 {
		return fmt.Errorf("set %d points: %w", len(points), ErrTooFewPoints)
	}
	next := make([]Point, len(points))
	for i, p := range points {
		if err := checkY(p.Y); err != nil {
			return fmt.Errorf("point %d: %w", i, err)
		}
		if err := checkX(p.X); err != nil {
			return fmt.Errorf("point %d: %w", i, err)
		}
		next[i] = Point{X: p.X, Y: c.clamp(p.Y)}
	}
	sort.SliceStable(next, func(a, b int) bool { return next[a].X < next[b].X })
	for i := 1; i < len(next); i++ {
		if next[i].X-next[i-1].X < MinSpacing {
			return fmt.Errorf("points %d and %d: %w", i-1, i, ErrTooClose)
		}
	}
	c.points = next
	return nil
}

// SetInterpolation changes the interpolation mode.
func (c *Curve) SetInterpolation(m Interpolation) {
	c.Interp = m
}

// collides reports whether x lies within MinSpacing of any point but skip.
func (c *Curve) collides(x float64, skip int) bool {
	for j, p := range c.points {
		if j != skip && math.Abs(p.X-x) < MinSpacing {
			return true
		}
	}
	return false
}

func checkX(x float64) error {
	if math.IsNaN(x) || x < DomainMin || x > DomainMax {
		return fmt.Errorf("x=%g: %w", x, ErrOutOfDomain)
	}
	return nil
}

func checkY(y float64) error {
	if math.IsNaN(y) {
		return fmt.Errorf("y is NaN: %w", ErrOutOfDomain)
	}
	return nil
}
