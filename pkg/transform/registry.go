package transform

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	// ErrUnknownTransform is returned when no transform has the requested name.
	ErrUnknownTransform = errors.New("unknown transform")
	// ErrDuplicateTransform is returned when a name is registered twice.
	ErrDuplicateTransform = errors.New("transform already registered")

	errUnnamedTransform = errors.New("transform has no name")
)

// Registry maps transform names to transforms. It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	transforms map[string]*Transform
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{transforms: make(map[string]*Transform)}
}

// Builtin creates a registry holding the built-in transforms.
func Builtin() *Registry {
	reg := NewRegistry()

	for _, tr := range builtins() {
		// Built-in names are unique.
		_ = reg.Register(tr)
	}

	return reg
}

// Register adds tr under its name.
func (r *Registry) Register(tr *Transform) error {
	if tr == nil || tr.Name == "" {
		return errUnnamedTransform
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.transforms[tr.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTransform, tr.Name)
	}

	r.transforms[tr.Name] = tr

	return nil
}

// Get returns the transform registered under name.
func (r *Registry) Get(name string) (*Transform, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tr, ok := r.transforms[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransform, name)
	}

	return tr, nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.transforms))
	for name := range r.transforms {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// All returns the registered transforms sorted by name.
func (r *Registry) All() []*Transform {
	names := r.Names()

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Transform, 0, len(names))
	for _, name := range names {
		out = append(out, r.transforms[name])
	}

	return out
}
