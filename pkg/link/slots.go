package link

import (
	"errors"
	"fmt"

	"github.com/justyntemme/distmod/pkg/framework/param"
)

// ErrSlotsExhausted is returned when all custom slots are taken.
var ErrSlotsExhausted = errors.New("all custom slots in use")

// SlotPool tracks occupancy of custom slots 1..param.CustomSlots. The
// registry never stores a pool; it derives one from its links on demand.
type SlotPool struct {
	used uint16 // bit n set = slot n in use
}

// ValidSlot reports whether slot is a custom slot number.
func ValidSlot(slot int) bool {
	return slot >= 1 && slot <= param.CustomSlots
}

// Allocate marks and returns the lowest free slot.
func (p *SlotPool) Allocate() (int, error) {
	for slot := 1; slot <= param.CustomSlots; slot++ {
		if !p.InUse(slot) {
			p.used |= 1 << slot
			return slot, nil
		}
	}
	return 0, fmt.Errorf("allocate slot: %w", ErrSlotsExhausted)
}

// Claim marks a specific slot, failing if it is taken or invalid.
func (p *SlotPool) Claim(slot int) bool {
	if !ValidSlot(slot) || p.InUse(slot) {
		return false
	}
	p.used |= 1 << slot
	return true
}

// Free releases slot. Freeing a free or invalid slot does nothing.
func (p *SlotPool) Free(slot int) {
	if ValidSlot(slot) {
		p.used &^= 1 << slot
	}
}

// InUse reports whether slot is taken.
func (p SlotPool) InUse(slot int) bool {
	return ValidSlot(slot) && p.used&(1<<slot) != 0
}

// Available returns the number of free slots.
func (p SlotPool) Available() int {
	n := 0
	for slot := 1; slot <= param.CustomSlots; slot++ {
		if !p.InUse(slot) {
			n++
		}
	}
	return n
}

var palette = [param.CustomSlots]string{
	"#e6194b", "#3cb44b", "#4363d8", "#f58231",
	"#911eb4", "#42d4f4", "#f032e6", "#bfef45",
}

// SlotColor returns the default display color of a slot.
func SlotColor(slot int) string {
	if !ValidSlot(slot) {
		return "#808080"
	}
	return palette[slot-1]
}
