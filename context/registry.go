package context

import (
	"fmt"
	"sync"

	"github.com/govm-net/counter/types"
)

// ContextType represents the type of state backend
type ContextType string

const (
	// MemoryContextType represents in-memory context implementation
	MemoryContextType ContextType = "memory"
	// DBContextType represents database-backed context implementation
	DBContextType ContextType = "db"
)

// ContextConstructor is a function type that creates a new StateContext instance
type ContextConstructor func(params map[string]any) (types.StateContext, error)

// Registry defines the interface for managing StateContext implementations
type Registry interface {
	// Register adds a new StateContext implementation to the registry
	Register(ct ContextType, constructor ContextConstructor) error
	// SetDefault sets the default context type
	SetDefault(ct ContextType) error
	// Get returns a new instance of the specified context type
	Get(ct ContextType, params map[string]any) (types.StateContext, error)
	// DefaultContextType returns the current default context type
	DefaultContextType() ContextType
	// ListRegistered returns a list of all registered context types
	ListRegistered() []ContextType
}

// registry implements the Registry interface
type registry struct {
	mu        sync.RWMutex
	contexts  map[ContextType]ContextConstructor
	defaultCt ContextType
}

var (
	// defaultRegistry is the global singleton registry instance
	defaultRegistry Registry = NewRegistry()
)

// NewRegistry returns an empty registry
func NewRegistry() Registry {
	return &registry{
		contexts: make(map[ContextType]ContextConstructor),
	}
}

// GetRegistry returns the global Registry instance
func GetRegistry() Registry {
	return defaultRegistry
}

func (r *registry) Register(ct ContextType, constructor ContextConstructor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contexts[ct]; exists {
		return fmt.Errorf("context type %s already registered", ct)
	}

	r.contexts[ct] = constructor
	return nil
}

func (r *registry) SetDefault(ct ContextType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contexts[ct]; !exists {
		return fmt.Errorf("context type %s not registered", ct)
	}

	r.defaultCt = ct
	return nil
}

// Get returns a new instance of ct; an empty ct selects the default type
func (r *registry) Get(ct ContextType, params map[string]any) (types.StateContext, error) {
	if ct == "" {
		ct = r.DefaultContextType()
	}

	r.mu.RLock()
	constructor, exists := r.contexts[ct]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("context type %s not found", ct)
	}

	return constructor(params)
}

func (r *registry) DefaultContextType() ContextType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.defaultCt == "" {
		return DBContextType
	}
	return r.defaultCt
}

func (r *registry) ListRegistered() []ContextType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]ContextType, 0, len(r.contexts))
	for ct := range r.contexts {
		types = append(types, ct)
	}
	return types
}

// Package level functions that delegate to defaultRegistry

func Register(ct ContextType, constructor ContextConstructor) error {
	return GetRegistry().Register(ct, constructor)
}

func SetDefault(ct ContextType) error {
	return GetRegistry().SetDefault(ct)
}

func Get(ct ContextType, params map[string]any) (types.StateContext, error) {
	return GetRegistry().Get(ct, params)
}

func DefaultContextType() ContextType {
	return GetRegistry().DefaultContextType()
}

func ListRegistered() []ContextType {
	return GetRegistry().ListRegistered()
}
