// Package shapeinfer implements the per-operator shape inferers dispatched
// by Graph.ConstructTopology, plus the process-wide registry that resolves
// an operator-type string to its Inferer.
package shapeinfer

import (
	"sync"

	"github.com/onnx-ir/onnxir/pkg/graph"
)

// Registry maps operator-type names to Inferers. It implements
// graph.InferenceRegistry.
type Registry struct {
	mu       sync.RWMutex
	inferers map[string]graph.Inferer
}

// NewRegistry constructs an empty Registry. Most callers want Default();
// NewRegistry exists so tests can build a registry with a subset of
// inferers without disturbing process-wide state.
func NewRegistry() *Registry {
	return &Registry{inferers: make(map[string]graph.Inferer)}
}

// Register installs inferer under its own NodeType() key, overwriting any
// prior registration for that type.
func (r *Registry) Register(inferer graph.Inferer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inferers[inferer.NodeType()] = inferer
}

// Get looks up the Inferer registered for opType, returning the handle on
// a successful hit.
func (r *Registry) Get(opType string) (graph.Inferer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inferer, ok := r.inferers[opType]
	if !ok {
		return nil, false
	}
	return inferer, true
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide shape-inference registry, populating it
// via RegisterAll on first use. Initialization happens exactly once behind
// a sync.Once barrier; after that the registry is read-only and safe to
// share across goroutines.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		RegisterAll(defaultRegistry)
	})
	return defaultRegistry
}

// RegisterAll installs every inferer this module knows about into r. It is
// idempotent: calling it twice just overwrites each entry with itself.
func RegisterAll(r *Registry) {
	r.Register(&reluInferer{})
	r.Register(&addInferer{})
	r.Register(&flattenInferer{})
	r.Register(&gemmInferer{})
	r.Register(&convInferer{})
	r.Register(&globalAveragePoolInferer{})
	r.Register(&maxPoolInferer{})
	r.Register(&identityInferer{})
	r.Register(&softmaxInferer{})
	r.Register(&concatInferer{})
	r.Register(&batchNormalizationInferer{})
}
