package graph

import "github.com/onnx-ir/onnxir/pkg/status"

// Inferer computes output shapes for one operator type. Implementations
// live in pkg/shapeinfer; this interface is declared here (rather than
// imported from there) so that pkg/graph never depends on pkg/shapeinfer —
// the dependency runs the other way, with shape inferers importing
// pkg/graph for NodeArg/NodeAttribute.
type Inferer interface {
	// NodeType returns the operator-type string this inferer handles,
	// e.g. "Conv" or "Relu".
	NodeType() string

	// Infer computes shapes for outputs in place, via NodeArg.SetShape.
	Infer(nodeName string, inputs []*NodeArg, attributes map[string]NodeAttribute, outputs []*NodeArg) status.Status
}

// InferenceRegistry resolves an operator type to its Inferer. Graph never
// constructs one itself; the caller of ConstructTopology injects it.
type InferenceRegistry interface {
	Get(opType string) (Inferer, bool)
}

// Warner receives advisory warnings (duplicate initializer, missing
// input type) that do not abort construction. The zero value
// of Graph has a nil Warner and simply drops warnings.
type Warner interface {
	Warnf(format string, args ...any)
}
