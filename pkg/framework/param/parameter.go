// Package param describes the tunable parameter surface of the distance
// modulation audio unit and of generic effect parameters in the audio graph.
package param

import (
	"fmt"
	"math"
	"strconv"
	"sync/atomic"
)

// Parameter is one tunable value exposed by an effect.
type Parameter struct {
	ID           uint32
	Name         string
	ShortName    string
	Unit         string
	Min          float64
	Max          float64
	DefaultValue float64
	Flags        uint32

	// Logarithmic parameters normalize through ln(plain/Min).
	Logarithmic bool

	// Normalized value, float64 bits. The control thread writes, the audio
	// thread reads.
	value atomic.Uint64

	formatFunc func(float64) string
	parseFunc  func(string) (float64, error)
}

// Flags for parameters
const (
	CanAutomate uint32 = 1 << 0
	IsHidden    uint32 = 1 << 4
)

// GetValue returns the current normalized value (0-1)
func (p *Parameter) GetValue() float64 {
	return math.Float64frombits(p.value.Load())
}

// SetValue sets the normalized value, clamped to 0-1
func (p *Parameter) SetValue(value float64) {
	if value < 0 || math.IsNaN(value) {
		value = 0
	} else if value > 1 {
		value = 1
	}
	p.value.Store(math.Float64bits(value))
}

// GetPlainValue converts the current value to the plain range
func (p *Parameter) GetPlainValue() float64 {
	return p.Denormalize(p.GetValue())
}

// SetPlainValue stores a plain-range value
func (p *Parameter) SetPlainValue(plain float64) {
	p.SetValue(p.Normalize(plain))
}

// FormatValue returns a display string for a normalized value
func (p *Parameter) FormatValue(normalized float64) string {
	plain := p.Denormalize(normalized)
	if p.formatFunc != nil {
		return p.formatFunc(plain)
	}
	return fmt.Sprintf("%.2f", plain)
}

// ParseValue parses a display string to a normalized value
func (p *Parameter) ParseValue(str string) (float64, error) {
	if p.parseFunc != nil {
		plain, err := p.parseFunc(str)
		if err != nil {
			return 0, err
		}
		return p.Normalize(plain), nil
	}
	plain, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, err
	}
	return p.Normalize(plain), nil
}

// Normalize converts a plain value to 0-1. Logarithmic parameters map
// equal frequency ratios to equal normalized steps.
func (p *Parameter) Normalize(plain float64) float64 {
	if p.Max <= p.Min {
		return 0
	}
	var normalized float64
	if p.Logarithmic && p.Min > 0 {
		if plain <= p.Min {
			return 0
		}
		normalized = math.Log(plain/p.Min) / math.Log(p.Max/p.Min)
	} else {
		normalized = (plain - p.Min) / (p.Max - p.Min)
	}
	if normalized < 0 {
		return 0
	}
	if normalized > 1 {
		return 1
	}
	return normalized
}

// Denormalize converts 0-1 to a plain value
func (p *Parameter) Denormalize(normalized float64) float64 {
	if p.Logarithmic && p.Min > 0 && p.Max > p.Min {
		return p.Min * math.Pow(p.Max/p.Min, normalized)
	}
	return p.Min + normalized*(p.Max-p.Min)
}
