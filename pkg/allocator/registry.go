package allocator

import (
	"sync"

	"github.com/onnx-ir/onnxir/pkg/status"
)

// Registry is a process-wide, mutex-serialized singleton that lazily
// instantiates allocators on first Get for a given Kind.
type Registry struct {
	mu         sync.Mutex
	allocators map[Kind]Allocator
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide allocator registry, constructing it on
// first use.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry constructs an empty registry. Most callers want Default();
// NewRegistry exists so tests can install mock allocators without
// disturbing process-wide state.
func NewRegistry() *Registry {
	return &Registry{allocators: make(map[Kind]Allocator)}
}

// Get returns the allocator for kind. CPU and DefaultKind get a
// CPUAllocator instantiated lazily on first request; other kinds must be
// registered via Register before Get succeeds.
func (r *Registry) Get(kind Kind) (Allocator, status.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.allocators[kind]; ok {
		return a, status.Ok()
	}

	switch kind {
	case CPU, DefaultKind:
		a := NewCPUAllocator()
		r.allocators[kind] = a
		return a, status.Ok()
	default:
		return nil, status.Newf(status.InvalidParam, "no allocator registered for kind %v", kind)
	}
}

// Register installs a concrete allocator for kind, overwriting any prior
// registration. Used by tests to install mocks.
func (r *Registry) Register(kind Kind, a Allocator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.allocators[kind] = a
}
