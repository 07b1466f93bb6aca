// Package model holds the Model type: the deserialized header metadata of
// an ONNX model plus its owned, validated Graph.
package model

import "github.com/onnx-ir/onnxir/pkg/graph"

// Model is the result of a successful load: header metadata plus the
// computation graph it describes. A freshly loaded Model's Graph has had
// Initialize called but not necessarily ConstructTopology — callers must
// call that themselves before relying on topological order or inferred
// shapes.
type Model struct {
	IRVersion       int64
	ProducerName    string
	ProducerVersion string
	Domain          string
	ModelVersion    int64
	DocString       string
	Metadata        map[string]string
	OpsetImport     map[string]int64

	graph *graph.Graph
}

// New constructs a Model wrapping g.
func New(g *graph.Graph) *Model {
	return &Model{
		Metadata:    make(map[string]string),
		OpsetImport: make(map[string]int64),
		graph:       g,
	}
}

// Graph returns the model's owned computation graph.
func (m *Model) Graph() *graph.Graph { return m.graph }

// OpsetVersion returns the imported opset version for domain, and whether
// one was declared.
func (m *Model) OpsetVersion(domain string) (int64, bool) {
	v, ok := m.OpsetImport[domain]
	return v, ok
}
