package channel

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttach(t *testing.T) {
	a := Attach("test_attach")
	b := Attach("test_attach")
	assert.Same(t, a, b)
	assert.Equal(t, "test_attach", a.Name())

	Detach("test_attach")
	assert.NotSame(t, a, Attach("test_attach"))
	Detach("test_attach")
}

func TestPublishConsume(t *testing.T) {
	s := NewSegment()

	_, fresh := s.Consume()
	assert.False(t, fresh)

	want := Values{Level: -6, HighPass: 120, LowPass: 8000, Width: 80, Distance: 42}
	s.Publish(want)

	got, fresh := s.Consume()
	require.True(t, fresh)
	assert.Equal(t, want, got)

	_, fresh = s.Consume()
	assert.False(t, fresh)
}

func TestDistanceReport(t *testing.T) {
	s := NewSegment()

	_, ok := s.TakeDistance()
	assert.False(t, ok)

	s.ReportDistance(33)
	d, ok := s.TakeDistance()
	require.True(t, ok)
	assert.Equal(t, 33.0, d)

	_, ok = s.TakeDistance()
	assert.False(t, ok)

	// An engine publish does not look like a report.
	s.Publish(Values{Distance: 50})
	_, ok = s.TakeDistance()
	assert.False(t, ok)
}

func TestSlotBounds(t *testing.T) {
	s := NewSegment()
	s.Store(Slot(SlotCount), 1)
	s.Store(-1, 1)
	assert.Equal(t, 0.0, s.Load(Slot(SlotCount)))
	assert.Equal(t, 0.0, s.Load(-1))
}

func TestConcurrentReaders(t *testing.T) {
	s := NewSegment()
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			v, _ := s.Consume()
			_ = v.Level
		}
	}()
	for i := 0; i < 1000; i++ {
		s.Publish(Values{Level: float64(-i % 96)})
	}
	wg.Wait()
}
