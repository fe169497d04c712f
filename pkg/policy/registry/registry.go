package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jpicklyk/knox-core/pkg/policy"
	"github.com/jpicklyk/knox-core/pkg/telemetry/metrics"
)

// snapshot is one immutable generation of the catalog. Readers load the
// current snapshot once and work against it without further coordination;
// a replacement builds a fresh snapshot off to the side and publishes it
// with a single pointer swap.
type snapshot struct {
	// components holds every component in registration order.
	components []*policy.Component

	// byName maps policy name to component.
	byName map[string]*policy.Component

	// byCategory maps category to components in registration order.
	byCategory map[policy.Category][]*policy.Component

	// byCapability maps capability to components in registration order.
	// Every capability has an entry, empty when nothing declares it, so
	// lookups never distinguish "unknown capability" from "no matches".
	byCapability map[policy.Capability][]*policy.Component

	// version counts replacements since the registry was created.
	version uint64

	// builtAt is when this snapshot was published.
	builtAt time.Time
}

// emptySnapshot returns the generation-zero snapshot a new registry starts
// with. Indexes are fully populated so readers never nil-check.
func emptySnapshot() *snapshot {
	return buildSnapshot(nil, 0)
}

// buildSnapshot constructs a snapshot from a validated component slice.
func buildSnapshot(components []*policy.Component, version uint64) *snapshot {
	s := &snapshot{
		components:   make([]*policy.Component, len(components)),
		byName:       make(map[string]*policy.Component, len(components)),
		byCategory:   make(map[policy.Category][]*policy.Component),
		byCapability: make(map[policy.Capability][]*policy.Component),
		version:      version,
		builtAt:      time.Now(),
	}
	copy(s.components, components)

	for _, cat := range policy.Categories() {
		s.byCategory[cat] = nil
	}
	for _, cap := range policy.Capabilities() {
		s.byCapability[cap] = nil
	}

	for _, c := range s.components {
		s.byName[c.Name()] = c
		s.byCategory[c.Category()] = append(s.byCategory[c.Category()], c)
		for cap := range c.Capabilities() {
			s.byCapability[cap] = append(s.byCapability[cap], c)
		}
	}
	return s
}

// Registry is a capability-indexed catalog of policy components. Reads are
// lock-free against an atomically published snapshot; ReplaceAll swaps the
// entire catalog in one step so readers observe either the old set or the
// new set, never a mix.
type Registry struct {
	snap    atomic.Pointer[snapshot]
	mu      sync.Mutex // serializes ReplaceAll
	logger  *slog.Logger
	metrics *metrics.Collector
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for catalog lifecycle events.
// A nil logger falls back to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics sets the telemetry collector. A nil collector disables
// instrumentation.
func WithMetrics(collector *metrics.Collector) Option {
	return func(r *Registry) {
		r.metrics = collector
	}
}

// New creates an empty registry. The zero generation is published
// immediately, so queries are valid before the first ReplaceAll.
func New(opts ...Option) *Registry {
	r := &Registry{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.snap.Store(emptySnapshot())
	return r
}

// ReplaceAll atomically replaces the entire catalog with the given
// components. The replacement set is validated first; on any failure the
// current catalog is left untouched. An empty (non-nil) slice clears the
// catalog.
//
// Returns ErrNilComponents for a nil slice, a wrapped ErrNilComponent for a
// nil entry, and a DuplicateNameError when two components share a name.
func (r *Registry) ReplaceAll(ctx context.Context, components []*policy.Component) error {
	start := time.Now()

	if components == nil {
		r.recordReplaceRejected(start, ErrNilComponents)
		return ErrNilComponents
	}
	seen := make(map[string]struct{}, len(components))
	for i, c := range components {
		if c == nil {
			err := fmt.Errorf("component at index %d: %w", i, ErrNilComponent)
			r.recordReplaceRejected(start, err)
			return err
		}
		if _, dup := seen[c.Name()]; dup {
			err := &DuplicateNameError{PolicyName: c.Name()}
			r.recordReplaceRejected(start, err)
			return err
		}
		seen[c.Name()] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.snap.Load()
	next := buildSnapshot(components, prev.version+1)
	r.snap.Store(next)

	r.metrics.RecordCatalogReplace("ok", len(next.components), time.Since(start))
	r.logger.InfoContext(ctx, "catalog replaced",
		slog.Uint64("version", next.version),
		slog.Int("components", len(next.components)),
	)
	return nil
}

func (r *Registry) recordReplaceRejected(start time.Time, err error) {
	r.metrics.RecordCatalogReplace("rejected", r.Len(), time.Since(start))
	r.logger.Warn("catalog replacement rejected", slog.String("error", err.Error()))
}

// Component returns the component registered under name. The ok result is
// false when no such policy exists.
func (r *Registry) Component(name string) (*policy.Component, bool) {
	r.metrics.RecordCatalogQuery("component")
	c, ok := r.snap.Load().byName[name]
	if !ok {
		r.metrics.RecordCatalogMiss("component")
	}
	return c, ok
}

// Handler returns the typed state handler for key's policy. The ok result
// is false when the policy is absent or its state type does not match T.
func Handler[T policy.State](r *Registry, key policy.Key[T]) (policy.Handler[T], bool) {
	r.metrics.RecordCatalogQuery("handler")
	c, ok := r.snap.Load().byName[key.Name()]
	if !ok {
		r.metrics.RecordCatalogMiss("handler")
		return nil, false
	}
	h, ok := policy.HandlerFor(c, key)
	if !ok {
		r.metrics.RecordCatalogMiss("handler")
		return nil, false
	}
	return h, true
}

// SetPolicyState applies state to the named policy through its handler.
// Returns a NotFoundError when the policy is not in the catalog; handler
// failures are returned as-is.
func (r *Registry) SetPolicyState(ctx context.Context, name string, state policy.State) error {
	c, ok := r.snap.Load().byName[name]
	if !ok {
		r.metrics.RecordCatalogMiss("set_state")
		return &NotFoundError{PolicyName: name}
	}
	return c.SetState(ctx, state)
}

// Len returns the number of registered components.
func (r *Registry) Len() int {
	return len(r.snap.Load().components)
}

// Version returns the replacement counter. It starts at zero and increments
// once per successful ReplaceAll.
func (r *Registry) Version() uint64 {
	return r.snap.Load().version
}

// LastReplaceTime returns when the current catalog generation was published.
func (r *Registry) LastReplaceTime() time.Time {
	return r.snap.Load().builtAt
}
