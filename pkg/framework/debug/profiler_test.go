package debug

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfiler(t *testing.T) {
	t.Run("Record", func(t *testing.T) {
		p := NewProfiler()
		p.Record("push", 2*time.Millisecond)
		p.Record("push", 4*time.Millisecond)

		m, ok := p.Measurement("push")
		require.True(t, ok)
		assert.Equal(t, uint64(2), m.Count)
		assert.Equal(t, 3*time.Millisecond, m.Average())
		assert.Equal(t, 2*time.Millisecond, m.Min)
		assert.Equal(t, 4*time.Millisecond, m.Max)
		assert.Equal(t, 4*time.Millisecond, m.Last)
		assert.InDelta(t, 6.0, m.Load(50*time.Millisecond), 1e-9)
	})

	t.Run("Disabled", func(t *testing.T) {
		p := NewProfiler()
		p.SetEnabled(false)
		p.Start("push")()

		_, ok := p.Measurement("push")
		assert.False(t, ok)
	})

	t.Run("NilProfiler", func(t *testing.T) {
		var p *Profiler
		assert.NotPanics(t, func() { p.Start("push")() })
	})

	t.Run("Report", func(t *testing.T) {
		p := NewProfiler()
		assert.Equal(t, "No measurements recorded", p.Report())

		p.Start("b")()
		p.Start("a")()
		report := p.Report()
		assert.Less(t, strings.Index(report, "a:"), strings.Index(report, "b:"))

		p.Reset()
		assert.Equal(t, "No measurements recorded", p.Report())
	})
}
