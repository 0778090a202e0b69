// Package engine runs a distance modulation session: it owns the session
// state, pushes composed values to every audio unit instance at a bounded
// rate and exposes the editing operations of the curve editor.
package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/justyntemme/distmod/pkg/channel"
	"github.com/justyntemme/distmod/pkg/framework/config"
	"github.com/justyntemme/distmod/pkg/framework/debug"
	"github.com/justyntemme/distmod/pkg/framework/param"
	"github.com/justyntemme/distmod/pkg/framework/state"
	"github.com/justyntemme/distmod/pkg/host"
	"github.com/justyntemme/distmod/pkg/link"
	"github.com/justyntemme/distmod/pkg/preset"
	"github.com/justyntemme/distmod/pkg/session"
)

// stateKey is the key/value store key of the saved session.
const stateKey = "session"

var (
	// ErrMissingCapability is returned by New when a required host
	// capability is absent.
	ErrMissingCapability = errors.New("missing host capability")
	// ErrUnknownCurve is returned for an ID that is not a built-in curve.
	ErrUnknownCurve = errors.New("unknown curve")
	// ErrPresetNotFound is returned by ApplyPreset for an unknown name.
	ErrPresetNotFound = errors.New("preset not found")
)

// Clock supplies the time used for rate limiting.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Options configures New. Graph is required; everything else has a
// default.
type Options struct {
	Config config.Config
	Graph  host.Graph
	// Segment defaults to the process segment named by Config.Segment.
	Segment *channel.Segment
	// State is the embedded key/value store. Nil disables session
	// persistence.
	State state.Store
	// Presets holds user presets. Nil defaults to a directory store at
	// Config.PresetDir, or built-ins only when that is empty.
	Presets preset.Store
	Clock   Clock
	Logger  *debug.Logger
}

// Engine is driven from a single control goroutine; none of its methods
// are safe for concurrent use.
type Engine struct {
	cfg     config.Config
	graph   host.Graph
	seg     *channel.Segment
	sess    *session.Session
	links   *link.Registry
	catalog *preset.Catalog
	state   *state.Manager
	params  *param.Registry
	clock   Clock
	log     *debug.Logger
	prof    *debug.Profiler

	lastPush time.Time
}

// New validates opts, builds a session and restores the saved state, if
// any. Nothing is created when the configuration is unusable.
func New(opts Options) (*Engine, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	if opts.Graph == nil {
		return nil, fmt.Errorf("audio graph: %w", ErrMissingCapability)
	}

	log := opts.Logger
	if log == nil {
		log = debug.Default()
	}
	seg := opts.Segment
	if seg == nil {
		seg = channel.Attach(opts.Config.Segment)
	}
	clock := opts.Clock
	if clock == nil {
		clock = systemClock{}
	}
	store := opts.Presets
	if store == nil && opts.Config.PresetDir != "" {
		store = preset.NewDirStore(opts.Config.PresetDir)
	}

	links := link.NewRegistry(opts.Graph, opts.Config.UnitName, log)
	e := &Engine{
		cfg:     opts.Config,
		graph:   opts.Graph,
		seg:     seg,
		sess:    session.New(links),
		links:   links,
		catalog: preset.NewCatalog(store, log),
		params:  param.MustNewRegistry(param.UnitParameters()...),
		clock:   clock,
		log:     log.Named("engine"),
		prof:    debug.NewProfiler(),
	}
	if err := e.catalog.Refresh(); err != nil {
		e.log.Error("preset list failed", "err", err)
	}

	if opts.State != nil {
		e.state = state.NewManager(opts.State, opts.Config.StateSection, e.params)
		e.state.SetCustomState(e.saveSession, e.loadSession)
		e.restore()
	}
	e.sess.MarkDirty()

	e.log.Info("engine ready",
		"segment", e.seg.Name(),
		"units", len(host.FindUnits(e.graph, e.cfg.UnitName)),
		"links", e.links.Len())
	return e, nil
}

func (e *Engine) restore() {
	err := e.state.Restore(stateKey)
	switch {
	case err == nil:
		e.log.Info("session restored", "links", e.links.Len())
	case errors.Is(err, state.ErrNoState):
	default:
		e.log.Warn("session restore failed", "err", err)
	}
}

func (e *Engine) saveSession(w io.Writer) error {
	data, err := preset.Encode(preset.Document{
		Schema: preset.CurrentSchema,
		Name:   stateKey,
		Data:   preset.Serialize(e.sess),
	})
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func (e *Engine) loadSession(data []byte) error {
	doc, err := preset.Decode(bytes.TrimSpace(data))
	if err != nil {
		return err
	}
	return preset.Apply(e.sess, doc.Data)
}

// Persist saves the session into the key/value store. It is a no-op
// without a store.
func (e *Engine) Persist() error {
	if e.state == nil {
		return nil
	}
	if err := e.state.Persist(stateKey); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// persist is Persist for edit paths, where a failure is logged only.
func (e *Engine) persist() {
	if err := e.Persist(); err != nil {
		e.log.Warn("session not saved", "err", err)
	}
}

// Close saves the session.
func (e *Engine) Close() error {
	return e.Persist()
}

// Session returns the engine's session.
func (e *Engine) Session() *session.Session { return e.sess }

// Links returns the link registry.
func (e *Engine) Links() *link.Registry { return e.links }

// Segment returns the shared channel.
func (e *Engine) Segment() *channel.Segment { return e.seg }

// Parameters returns the unit parameter surface as last pushed.
func (e *Engine) Parameters() *param.Registry { return e.params }

// Profiler returns the push timing statistics.
func (e *Engine) Profiler() *debug.Profiler { return e.prof }

// Config returns the engine settings.
func (e *Engine) Config() config.Config { return e.cfg }
