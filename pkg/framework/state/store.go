package state

import "sync"

// Store is the host's embedded key/value store: string values grouped in
// named sections.
type Store interface {
	Get(section, key string) (string, bool)
	Set(section, key, value string) error
	Delete(section, key string) error
}

// MapStore is an in-memory Store.
type MapStore struct {
	mu     sync.RWMutex
	values map[string]map[string]string
}

// NewMapStore returns an empty store.
func NewMapStore() *MapStore {
	return &MapStore{values: make(map[string]map[string]string)}
}

// Get implements Store.
func (s *MapStore) Get(section, key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[section][key]
	return v, ok
}

// Set implements Store.
func (s *MapStore) Set(section, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec := s.values[section]
	if sec == nil {
		sec = make(map[string]string)
		s.values[section] = sec
	}
	sec[key] = value
	return nil
}

// Delete implements Store.
func (s *MapStore) Delete(section, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values[section], key)
	return nil
}

// Keys returns the keys of a section.
func (s *MapStore) Keys(section string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.values[section]))
	for k := range s.values[section] {
		keys = append(keys, k)
	}
	return keys
}
