package preset

import (
	"fmt"
	"time"

	"github.com/justyntemme/distmod/pkg/framework/debug"
)

// Entry is one listed preset.
type Entry struct {
	Name    string
	Builtin bool
	Doc     Document
}

// Catalog merges the built-in presets with the documents of a Store.
// Built-ins always come first and cannot be overwritten or shadowed.
type Catalog struct {
	store   Store
	log     *debug.Logger
	now     func() time.Time
	entries []Entry
}

// NewCatalog returns a catalog over store, which may be nil for built-ins
// only. Call Refresh to load user presets.
func NewCatalog(store Store, log *debug.Logger) *Catalog {
	if log == nil {
		log = debug.Default()
	}
	c := &Catalog{store: store, log: log.Named("preset"), now: time.Now}
	c.entries = c.builtins()
	return c
}

func (c *Catalog) builtins() []Entry {
	var entries []Entry
	for _, doc := range Builtins() {
		entries = append(entries, Entry{Name: doc.Name, Builtin: true, Doc: doc})
	}
	return entries
}

// Refresh rebuilds the list. A user document that cannot be read, parsed
// or migrated is logged and skipped; only a failure to list the store is
// returned.
func (c *Catalog) Refresh() error {
	entries := c.builtins()
	if c.store == nil {
		c.entries = entries
		return nil
	}

	names, err := c.store.List()
	if err != nil {
		c.entries = entries
		return err
	}
	for _, name := range names {
		data, err := c.store.Read(name)
		if err != nil {
			c.log.Error("preset unreadable", "name", name, "err", err)
			continue
		}
		doc, err := Decode(data)
		if err != nil {
			c.log.Error("preset skipped", "name", name, "err", err)
			continue
		}
		if doc.Newer() {
			c.log.Warn("preset from newer schema", "name", name, "schema", doc.Schema)
		}
		// The file name is the preset name.
		doc.Name = name
		entries = append(entries, Entry{Name: name, Doc: doc})
	}
	c.entries = entries
	return nil
}

// Entries returns the listed presets, built-ins first.
func (c *Catalog) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Find returns the first preset named name.
func (c *Catalog) Find(name string) (Document, bool) {
	for _, e := range c.entries {
		if e.Name == name {
			return e.Doc, true
		}
	}
	return Document{}, false
}

func (c *Catalog) isBuiltin(name string) bool {
	for _, doc := range Builtins() {
		if doc.Name == name {
			return true
		}
	}
	return false
}

// Save stores d as user preset name and refreshes the list.
func (c *Catalog) Save(name string, d Data) (Document, error) {
	if c.isBuiltin(name) {
		return Document{}, fmt.Errorf("save %q: %w", name, ErrReadOnly)
	}
	if c.store == nil {
		return Document{}, fmt.Errorf("save %q: no preset store", name)
	}

	doc := Document{
		Schema:  CurrentSchema,
		Name:    name,
		Created: c.now().UTC().Truncate(time.Second),
		Data:    d,
	}
	data, err := Encode(doc)
	if err != nil {
		return Document{}, err
	}
	if err := c.store.Write(name, data); err != nil {
		return Document{}, fmt.Errorf("save %q: %w", name, err)
	}
	c.log.Info("preset saved", "name", name)
	return doc, c.Refresh()
}

// Delete removes user preset name.
func (c *Catalog) Delete(name string) error {
	if c.isBuiltin(name) {
		return fmt.Errorf("delete %q: %w", name, ErrReadOnly)
	}
	if c.store == nil {
		return fmt.Errorf("delete %q: no preset store", name)
	}
	if err := c.store.Delete(name); err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	return c.Refresh()
}
