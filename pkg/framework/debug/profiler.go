package debug

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Profiler accumulates timing statistics for named sections such as the
// synchronization push.
type Profiler struct {
	mu           sync.RWMutex
	measurements map[string]*Measurement
	enabled      atomic.Bool
}

// Measurement holds timing statistics for a profiled section.
type Measurement struct {
	Name  string
	Count uint64
	Total time.Duration
	Min   time.Duration
	Max   time.Duration
	Last  time.Duration
}

// NewProfiler creates an enabled profiler.
func NewProfiler() *Profiler {
	p := &Profiler{measurements: make(map[string]*Measurement)}
	p.enabled.Store(true)
	return p
}

// SetEnabled enables or disables profiling.
func (p *Profiler) SetEnabled(enabled bool) {
	p.enabled.Store(enabled)
}

// Start begins timing a named section; call the returned func to stop.
func (p *Profiler) Start(name string) func() {
	if p == nil || !p.enabled.Load() {
		return func() {}
	}
	start := time.Now()
	return func() {
		p.Record(name, time.Since(start))
	}
}

// Record adds one timing sample.
func (p *Profiler) Record(name string, elapsed time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	m, exists := p.measurements[name]
	if !exists {
		m = &Measurement{Name: name, Min: elapsed, Max: elapsed}
		p.measurements[name] = m
	}
	m.Count++
	m.Total += elapsed
	m.Last = elapsed
	if elapsed < m.Min {
		m.Min = elapsed
	}
	if elapsed > m.Max {
		m.Max = elapsed
	}
}

// Measurement returns a copy of the statistics for name.
func (p *Profiler) Measurement(name string) (Measurement, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	m, exists := p.measurements[name]
	if !exists {
		return Measurement{}, false
	}
	return *m, true
}

// Reset clears all measurements.
func (p *Profiler) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.measurements = make(map[string]*Measurement)
}

// Report renders all measurements sorted by name.
func (p *Profiler) Report() string {
	p.mu.RLock()
	names := make([]string, 0, len(p.measurements))
	for name := range p.measurements {
		names = append(names, name)
	}
	p.mu.RUnlock()

	if len(names) == 0 {
		return "No measurements recorded"
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		m, _ := p.Measurement(name)
		fmt.Fprintf(&sb, "%s: count=%d avg=%v min=%v max=%v last=%v\n",
			name, m.Count, m.Average(), m.Min, m.Max, m.Last)
	}
	return sb.String()
}

// Average returns the average time for this measurement.
func (m Measurement) Average() time.Duration {
	if m.Count == 0 {
		return 0
	}
	return m.Total / time.Duration(m.Count)
}

// Load returns the average duration as a percentage of budget, e.g. the
// share of one synchronization interval spent pushing.
func (m Measurement) Load(budget time.Duration) float64 {
	if budget <= 0 {
		return 0
	}
	return float64(m.Average()) / float64(budget) * 100
}
