// Package state saves the engine's session into the host's embedded
// key/value store and restores it on start-up.
package state

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/justyntemme/distmod/pkg/framework/param"
)

const magic = "DISTMOD"

// MaxCustomState bounds the custom payload Save writes and Load accepts.
const MaxCustomState = 4 << 20

var (
	// ErrNoState is returned by Restore when the store holds nothing under
	// the key.
	ErrNoState = errors.New("no saved state")
	// ErrStateTooLarge is returned for a custom payload over MaxCustomState.
	ErrStateTooLarge = errors.New("custom state too large")
)

// Manager handles session state saving and loading
type Manager struct {
	version  uint32
	store    Store
	section  string
	registry *param.Registry
	save     SaveFunc
	load     LoadFunc
}

// SaveFunc writes the custom session payload that follows the parameters.
type SaveFunc func(w io.Writer) error

// LoadFunc reads back what SaveFunc wrote.
type LoadFunc func(data []byte) error

// NewManager creates a state manager writing to section of store. registry
// may be nil when only the custom payload is persisted.
func NewManager(store Store, section string, registry *param.Registry) *Manager {
	if registry == nil {
		registry = param.MustNewRegistry()
	}
	return &Manager{
		version:  1,
		store:    store,
		section:  section,
		registry: registry,
	}
}

// SetCustomState sets the functions for the custom payload
func (m *Manager) SetCustomState(save SaveFunc, load LoadFunc) {
	m.save = save
	m.load = load
}

// Section returns the store section the manager writes to.
func (m *Manager) Section() string {
	return m.section
}

// Save writes the state to a writer
func (m *Manager) Save(w io.Writer) error {
	if _, err := io.WriteString(w, magic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, m.version); err != nil {
		return err
	}

	params := m.registry.All()
	if err := binary.Write(w, binary.LittleEndian, int32(len(params))); err != nil {
		return err
	}
	for _, p := range params {
		if err := binary.Write(w, binary.LittleEndian, p.ID); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, p.GetValue()); err != nil {
			return err
		}
	}

	// Custom payload, length-prefixed so loaders can skip it.
	var custom bytes.Buffer
	if m.save != nil {
		if err := m.save(&custom); err != nil {
			return fmt.Errorf("save custom state: %w", err)
		}
	}
	if custom.Len() > MaxCustomState {
		return fmt.Errorf("save custom state: %d bytes: %w", custom.Len(), ErrStateTooLarge)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(custom.Len())); err != nil {
		return err
	}
	_, err := w.Write(custom.Bytes())
	return err
}

// Load reads the state from a reader
func (m *Manager) Load(r io.Reader) error {
	header := make([]byte, len(magic))
	if _, err := io.ReadFull(r, header); err != nil {
		return err
	}
	if string(header) != magic {
		return fmt.Errorf("invalid state format")
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return err
	}
	if version > m.version {
		return fmt.Errorf("state version %d is newer than supported version %d", version, m.version)
	}

	var paramCount int32
	if err := binary.Read(r, binary.LittleEndian, &paramCount); err != nil {
		return err
	}
	for i := int32(0); i < paramCount; i++ {
		var id uint32
		if err := binary.Read(r, binary.LittleEndian, &id); err != nil {
			return err
		}
		var value float64
		if err := binary.Read(r, binary.LittleEndian, &value); err != nil {
			return err
		}
		// Unknown parameters are ignored for forward compatibility.
		if p := m.registry.Get(id); p != nil {
			p.SetValue(value)
		}
	}

	var size uint32
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return err
	}
	if size > MaxCustomState {
		return fmt.Errorf("load custom state: %d bytes: %w", size, ErrStateTooLarge)
	}
	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		return fmt.Errorf("read custom state: %w", err)
	}
	if size > 0 && m.load != nil {
		if err := m.load(data); err != nil {
			return fmt.Errorf("load custom state: %w", err)
		}
	}
	return nil
}

// Persist saves the state under key in the store.
func (m *Manager) Persist(key string) error {
	var buf bytes.Buffer
	if err := m.Save(&buf); err != nil {
		return err
	}
	return m.store.Set(m.section, key, base64.StdEncoding.EncodeToString(buf.Bytes()))
}

// Restore loads the state saved under key.
func (m *Manager) Restore(key string) error {
	value, ok := m.store.Get(m.section, key)
	if !ok {
		return fmt.Errorf("%s/%s: %w", m.section, key, ErrNoState)
	}
	data, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return fmt.Errorf("decode %s/%s: %w", m.section, key, err)
	}
	return m.Load(bytes.NewReader(data))
}

// Forget deletes the state saved under key.
func (m *Manager) Forget(key string) error {
	return m.store.Delete(m.section, key)
}
