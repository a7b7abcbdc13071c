package shared

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vnykmshr/conduit/pkg/common/validation"
	"github.com/vnykmshr/conduit/pkg/metrics"
)

// ErrRegistryClosed is returned by Get after the registry has been closed.
var ErrRegistryClosed = errors.New("shared: registry closed")

// Config holds configuration for a Registry.
type Config struct {
	// Name identifies the registry in logs and metrics.
	Name string

	// Logger receives construction and eviction events at debug level.
	// Defaults to a no-op logger.
	Logger *zap.Logger

	// Metrics controls Prometheus collection. Disabled by default.
	Metrics metrics.Config
}

// DefaultConfig returns a configuration with logging and metrics off.
func DefaultConfig() Config {
	return Config{Name: "default"}
}

// Option adjusts a single Get call.
type Option func(*options)

type options struct {
	tag       string
	permanent bool
}

// WithTag selects one of several instances of the same type.
func WithTag(tag string) Option {
	return func(o *options) {
		o.tag = tag
	}
}

// Permanent keeps the instance alive after its last handle is released,
// until the registry is closed. It promotes an existing instance too.
func Permanent() Option {
	return func(o *options) {
		o.permanent = true
	}
}

type key struct {
	typ reflect.Type
	tag string
}

type entry struct {
	key   key
	ready chan struct{} // closed once construction has finished

	// Set before ready is closed and never changed after.
	value      any
	err        error
	generation uuid.UUID

	// Guarded by Registry.mu.
	refs      int
	permanent bool
}

// Registry hands out shared instances keyed by type and tag. Each instance is
// constructed lazily by the first caller to ask for it; concurrent callers wait
// for that construction instead of running their own.
type Registry struct {
	config  Config
	logger  *zap.Logger
	metrics *metrics.Registry

	mu      sync.Mutex
	entries map[key]*entry
	closed  bool
}

// NewRegistry creates an empty registry.
func NewRegistry(config Config) *Registry {
	r := &Registry{
		config:  config,
		logger:  config.Logger,
		entries: make(map[key]*entry),
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if config.Metrics.Enabled {
		r.metrics = metrics.RegistryFor(config.Metrics)
	}
	return r
}

// Handle is a reference to a shared instance. Release it when done.
type Handle[T any] struct {
	registry *Registry
	entry    *entry
	value    T
	released atomic.Bool
}

// Value returns the shared instance.
func (h *Handle[T]) Value() T {
	return h.value
}

// Generation identifies the construction that produced the instance.
// A recreated instance gets a new generation.
func (h *Handle[T]) Generation() uuid.UUID {
	return h.entry.generation
}

// Release gives up the handle. Releasing the last handle of a non-permanent
// instance evicts it, closing it if it implements io.Closer. Extra calls are
// ignored.
func (h *Handle[T]) Release() {
	if h.released.CompareAndSwap(false, true) {
		h.registry.release(h.entry)
	}
}

// Get returns a handle to the instance of T for the requested tag, calling
// create if no live instance exists. A failed construction is not cached.
func Get[T any](r *Registry, create func() (T, error), opts ...Option) (*Handle[T], error) {
	if err := validation.ValidateNotNil("shared", "create", create); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	k := key{typ: reflect.TypeFor[T](), tag: o.tag}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrRegistryClosed
	}
	e, ok := r.entries[k]
	if !ok {
		e = &entry{key: k, ready: make(chan struct{})}
		r.entries[k] = e
	}
	e.refs++
	if o.permanent {
		e.permanent = true
	}
	r.mu.Unlock()

	if ok {
		<-e.ready
	} else {
		r.construct(e, func() (any, error) { return create() })
	}

	if e.err != nil {
		r.mu.Lock()
		e.refs--
		r.mu.Unlock()
		return nil, e.err
	}

	value, _ := e.value.(T)
	return &Handle[T]{registry: r, entry: e, value: value}, nil
}

// construct runs create for e and publishes the outcome to waiters.
func (r *Registry) construct(e *entry, create func() (any, error)) {
	e.generation = uuid.New()

	defer close(e.ready)
	defer func() {
		if p := recover(); p != nil {
			e.err = fmt.Errorf("shared: constructing %s panicked: %v", e.key.typ, p)
		}
		if e.err != nil {
			r.mu.Lock()
			if r.entries[e.key] == e {
				delete(r.entries, e.key)
			}
			r.mu.Unlock()
			r.logger.Debug("shared instance construction failed",
				zap.String("registry", r.config.Name),
				zap.Stringer("type", e.key.typ),
				zap.String("tag", e.key.tag),
				zap.Error(e.err))
		}
	}()

	value, err := create()
	if err != nil {
		e.err = fmt.Errorf("shared: constructing %s: %w", e.key.typ, err)
		return
	}
	e.value = value

	r.logger.Debug("shared instance constructed",
		zap.String("registry", r.config.Name),
		zap.Stringer("type", e.key.typ),
		zap.String("tag", e.key.tag),
		zap.Stringer("generation", e.generation))
	if r.metrics != nil {
		r.metrics.SharedInstances.WithLabelValues(r.config.Name).Inc()
		r.metrics.SharedConstructions.WithLabelValues(r.config.Name, e.key.typ.String()).Inc()
	}
}

func (r *Registry) release(e *entry) {
	r.mu.Lock()
	e.refs--
	evict := e.refs == 0 && !e.permanent && r.entries[e.key] == e
	if evict {
		delete(r.entries, e.key)
	}
	r.mu.Unlock()

	if !evict {
		return
	}

	r.logger.Debug("shared instance evicted",
		zap.String("registry", r.config.Name),
		zap.Stringer("type", e.key.typ),
		zap.String("tag", e.key.tag),
		zap.Stringer("generation", e.generation))
	if r.metrics != nil {
		r.metrics.SharedEvictions.WithLabelValues(r.config.Name, e.key.typ.String()).Inc()
	}
	if err := r.dispose(e); err != nil {
		r.logger.Warn("closing evicted instance failed",
			zap.String("registry", r.config.Name),
			zap.Stringer("type", e.key.typ),
			zap.Error(err))
	}
}

// dispose closes a successfully constructed instance that left the registry.
func (r *Registry) dispose(e *entry) error {
	if r.metrics != nil {
		r.metrics.SharedInstances.WithLabelValues(r.config.Name).Dec()
	}
	if c, ok := e.value.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Len returns the number of instances held, including any under construction.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Close drops every instance, permanent or not, closing those that implement
// io.Closer. Handles still held stay usable but the registry no longer owns
// their instances. An instance still under construction when Close begins is
// waited for and handed to its callers unclosed; they own it from then on.
// Further Get calls fail with ErrRegistryClosed.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	entries := r.entries
	r.entries = make(map[key]*entry)
	inFlight := make(map[*entry]bool)
	for _, e := range entries {
		select {
		case <-e.ready:
		default:
			inFlight[e] = true
		}
	}
	r.mu.Unlock()

	var errs []error
	for _, e := range entries {
		<-e.ready
		if e.err != nil {
			continue
		}
		if inFlight[e] {
			r.logger.Debug("shared instance handed over unclosed",
				zap.String("registry", r.config.Name),
				zap.Stringer("type", e.key.typ),
				zap.String("tag", e.key.tag))
			if r.metrics != nil {
				r.metrics.SharedInstances.WithLabelValues(r.config.Name).Dec()
			}
			continue
		}
		if err := r.dispose(e); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", e.key.typ, err))
		}
	}

	r.logger.Debug("shared registry closed",
		zap.String("registry", r.config.Name),
		zap.Int("instances", len(entries)))

	return errors.Join(errs...)
}
