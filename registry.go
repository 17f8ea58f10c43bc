package wirebind

import (
	"iter"
	"log/slog"
	"reflect"
	"sort"
	"sync"
)

// Registry is a name-keyed table of compiled endpoints. It exists for the
// code that needs to enumerate an API surface: routers binding server
// handlers, documentation and client generators, conformance tooling.
// Endpoints work fine without one.
//
// A Registry is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	endpoints map[string]Compiled
	logger    *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		endpoints: make(map[string]Compiled),
	}
}

// WithLogger sets a custom logger for the registry.
// If not set, slog.Default() will be used.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a compiled endpoint under its metadata name. Registering
// the same name again replaces the earlier endpoint and logs a warning.
func (r *Registry) Register(e Compiled) {
	name := e.Meta().Name
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.endpoints[name]; exists {
		logger := r.logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("duplicate endpoint registration",
			slog.String("endpoint", name),
			slog.String("method", e.Meta().Method))
	}
	r.endpoints[name] = e
}

// Lookup returns the endpoint registered under name.
func (r *Registry) Lookup(name string) (Compiled, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.endpoints[name]
	return e, ok
}

// Names returns the registered endpoint names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.endpoints))
	for name := range r.endpoints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All iterates the registered endpoints in name order.
func (r *Registry) All() iter.Seq[Compiled] {
	return func(yield func(Compiled) bool) {
		for _, name := range r.Names() {
			e, ok := r.Lookup(name)
			if !ok {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// ExportedEndpoint contains metadata about a registered endpoint for code
// generation and documentation tooling.
type ExportedEndpoint struct {
	Name     string
	Method   string
	Request  reflect.Type
	Response reflect.Type
	Error    reflect.Type
}

// Export returns all registered endpoints for tooling purposes.
func (r *Registry) Export() map[string]ExportedEndpoint {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exported := make(map[string]ExportedEndpoint, len(r.endpoints))
	for name, e := range r.endpoints {
		exported[name] = ExportedEndpoint{
			Name:     name,
			Method:   e.Meta().Method,
			Request:  e.RequestType(),
			Response: e.ResponseType(),
			Error:    e.ErrorType(),
		}
	}
	return exported
}
