package curve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func levelCurve(t *testing.T) *Curve {
	t.Helper()
	c := New(Level)
	require.NoError(t, c.SetPoints([]Point{{0, 0}, {10, -12}, {50, -48}, {100, -96}}))
	return c
}

func TestEvaluateLinear(t *testing.T) {
	c := levelCurve(t)

	assert.Equal(t, -12.0, c.Evaluate(10))
	v := c.Evaluate(30)
	assert.Less(t, v, -12.0)
	assert.Greater(t, v, -48.0)
	assert.InDelta(t, -30.0, v, 1e-9)

	t.Run("ClampOutsideSpan", func(t *testing.T) {
		c := New(Level)
		require.NoError(t, c.SetPoints([]Point{{20, -6}, {80, -30}}))
		assert.Equal(t, -6.0, c.Evaluate(0))
		assert.Equal(t, -6.0, c.Evaluate(-50))
		assert.Equal(t, -30.0, c.Evaluate(100))
		assert.Equal(t, -6.0, c.Evaluate(math.NaN()))
	})
}

func TestEvaluateLogDomain(t *testing.T) {
	c := New(HighPass)
	require.NoError(t, c.SetPoints([]Point{{0, 20}, {100, 500}}))

	got := c.Evaluate(50)
	assert.InDelta(t, math.Sqrt(20*500), got, 1e-9)
	assert.NotEqual(t, 260.0, math.Round(got))
}

func TestEvaluateDegenerate(t *testing.T) {
	empty := &Curve{Min: 20, Max: 20000}
	assert.Equal(t, 10010.0, empty.Evaluate(40))

	single := &Curve{Min: 0, Max: 1, points: []Point{{30, 0.25}}}
	assert.Equal(t, 0.25, single.Evaluate(0))
	assert.Equal(t, 0.25, single.Evaluate(99))

	outOfRange := &Curve{Min: 0, Max: 1, points: []Point{{0, 5}}}
	assert.Equal(t, 1.0, outOfRange.Evaluate(0))
}

func TestEvaluateSmooth(t *testing.T) {
	t.Run("PassesThroughPoints", func(t *testing.T) {
		c := levelCurve(t)
		c.SetInterpolation(Smooth)
		for _, p := range c.Points() {
			assert.InDelta(t, p.Y, c.Evaluate(p.X), 1e-9, "x=%v", p.X)
		}
	})

	t.Run("FlatExtrapolatedEnds", func(t *testing.T) {
		c := NewNormalized()
		c.SetInterpolation(Smooth)

		// Virtual neighbours make the segment point-symmetric about its centre.
		assert.InDelta(t, 0.5, c.Evaluate(50), 1e-9)
		prev := c.Evaluate(0)
		for x := 1.0; x <= 100; x++ {
			v := c.Evaluate(x)
			assert.GreaterOrEqual(t, v, prev, "x=%v", x)
			prev = v
		}
	})

	t.Run("LogDomain", func(t *testing.T) {
		c := New(LowPass)
		c.SetInterpolation(Smooth)
		for x := 0.0; x <= 100; x += 0.25 {
			v := c.Evaluate(x)
			assert.GreaterOrEqual(t, v, c.Min)
			assert.LessOrEqual(t, v, c.Max)
		}
	})
}

func TestEvaluateContinuousAndBounded(t *testing.T) {
	for _, id := range IDs {
		for _, mode := range []Interpolation{Linear, Smooth} {
			c := New(id)
			c.SetInterpolation(mode)
			pts := c.Points()

			for _, p := range pts[1 : len(pts)-1] {
				left := c.Evaluate(p.X - 1e-9)
				right := c.Evaluate(p.X + 1e-9)
				scale := math.Max(1, math.Abs(p.Y))
				assert.InDelta(t, left, right, 1e-5*scale, "%s %s at x=%v", id, mode, p.X)
			}
			for x := pts[0].X; x <= pts[len(pts)-1].X; x += 0.5 {
				v := c.Evaluate(x)
				require.False(t, math.IsNaN(v))
				assert.GreaterOrEqual(t, v, c.Min, "%s %s at x=%v", id, mode, x)
				assert.LessOrEqual(t, v, c.Max, "%s %s at x=%v", id, mode, x)
			}
		}
	}
}

func TestSample(t *testing.T) {
	c := levelCurve(t)

	buf := make([]float64, 11)
	c.Sample(buf)
	assert.Equal(t, 0.0, buf[0])
	assert.Equal(t, -12.0, buf[1])
	assert.Equal(t, -96.0, buf[10])
	assert.Equal(t, 50.0, SampleX(5, 11))

	one := make([]float64, 1)
	c.Sample(one)
	assert.Equal(t, 0.0, one[0])
	c.Sample(nil)
}

func BenchmarkEvaluate(b *testing.B) {
	c := New(LowPass)
	c.SetInterpolation(Smooth)
	for i := 0; i < b.N; i++ {
		_ = c.Evaluate(float64(i % 100))
	}
}
