package param

import (
	"fmt"
	"sync"
)

// Registry holds the parameters of one effect in index order.
type Registry struct {
	params map[uint32]*Parameter
	order  []uint32
	mu     sync.RWMutex
}

// NewRegistry creates a registry holding params. A duplicate ID is an
// error.
func NewRegistry(params ...*Parameter) (*Registry, error) {
	r := &Registry{
		params: make(map[uint32]*Parameter),
		order:  make([]uint32, 0, len(params)),
	}
	if err := r.Add(params...); err != nil {
		return nil, err
	}
	return r, nil
}

// MustNewRegistry is NewRegistry for fixed parameter surfaces; it panics on
// a duplicate ID.
func MustNewRegistry(params ...*Parameter) *Registry {
	r, err := NewRegistry(params...)
	if err != nil {
		panic(err)
	}
	return r
}

// Add registers parameters; an ID that is already present is an error and
// nothing after it is added.
func (r *Registry) Add(params ...*Parameter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range params {
		if existing, exists := r.params[p.ID]; exists {
			return fmt.Errorf("parameter ID %d already used by '%s'", p.ID, existing.Name)
		}
		r.params[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	return nil
}

// Get retrieves a parameter by ID
func (r *Registry) Get(id uint32) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.params[id]
}

// GetByIndex retrieves a parameter by index
func (r *Registry) GetByIndex(index int) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index < 0 || index >= len(r.order) {
		return nil
	}
	return r.params[r.order[index]]
}

// Count returns the number of parameters
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// All returns all parameters in order
func (r *Registry) All() []*Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Parameter, len(r.order))
	for i, id := range r.order {
		result[i] = r.params[id]
	}
	return result
}
