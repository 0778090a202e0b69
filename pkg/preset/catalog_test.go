package preset

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/distmod/pkg/framework/debug"
	"github.com/justyntemme/distmod/pkg/host"
)

func fxAt(track, fx int) host.Location {
	return host.Location{Track: track, FX: fx}
}

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestCatalog(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("Vocal Booth.json", `{"schema":1,"name":"ignored","data":{"distance":12}}`)
	write("broken.json", `{"schema":`)
	write("negative.json", `{"schema":-4}`)
	write("Default.json", `{"schema":1,"data":{}}`)
	write("notes.txt", `hello`)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0o755))

	c := NewCatalog(NewDirStore(dir), debug.Discard())
	require.NoError(t, c.Refresh())

	want := append(names(c.builtins()), "Default", "Vocal Booth")
	assert.Equal(t, want, names(c.Entries()))

	doc, ok := c.Find("Vocal Booth")
	require.True(t, ok)
	assert.Equal(t, "Vocal Booth", doc.Name)
	require.NotNil(t, doc.Data.Distance)
	assert.Equal(t, 12.0, *doc.Data.Distance)

	def, ok := c.Find("Default")
	require.True(t, ok)
	assert.Len(t, def.Data.Curves, 4, "built-in wins over a user file of the same name")

	_, ok = c.Find("missing")
	assert.False(t, ok)
}

func TestCatalogSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "presets")
	c := NewCatalog(NewDirStore(dir), debug.Discard())
	c.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 5, time.UTC) }

	_, err := c.Save("Open Field", Data{})
	assert.ErrorIs(t, err, ErrReadOnly)
	assert.ErrorIs(t, c.Delete("Default"), ErrReadOnly)

	_, err = c.Save("../escape", Data{})
	assert.ErrorIs(t, err, ErrInvalidDocument)

	d := 50.0
	doc, err := c.Save("Hall", Data{Distance: &d, Links: []LinkData{}})
	require.NoError(t, err)
	assert.True(t, doc.Created.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))

	got, ok := c.Find("Hall")
	require.True(t, ok)
	assert.True(t, doc.Created.Equal(got.Created))
	assert.NotNil(t, got.Data.Links)

	require.NoError(t, c.Delete("Hall"))
	_, ok = c.Find("Hall")
	assert.False(t, ok)

	t.Run("NoStore", func(t *testing.T) {
		c := NewCatalog(nil, debug.Discard())
		require.NoError(t, c.Refresh())
		assert.Len(t, c.Entries(), len(Builtins()))
		_, err := c.Save("x", Data{})
		assert.Error(t, err)
	})

	t.Run("MissingDir", func(t *testing.T) {
		c := NewCatalog(NewDirStore(filepath.Join(t.TempDir(), "nope")), debug.Discard())
		assert.NoError(t, c.Refresh())
	})
}
