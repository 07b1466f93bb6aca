package graph

import (
	"github.com/onnx-ir/onnxir/pkg/tensor"
)

// Graph owns the nodes, initializers, and named values of one computation
// graph, and carries out the validation pipeline that turns a freshly
// deserialized node list into a DAG with a deterministic topological order
// and inferred shapes.
type Graph struct {
	nodes      []*Node
	nodeByID   map[int]*Node
	nextNodeID int

	initializerMap map[string]*tensor.Tensor
	nodeArgMap     map[string]*NodeArg

	inputNames  []string
	outputNames []string

	inputsIncludingInit []*NodeArg
	inputsExcludingInit []*NodeArg
	overridableInits    []*NodeArg
	outputs             []*NodeArg

	topologicalNodes []*Node

	producerMap map[string]int
	consumerMap map[string]map[int]bool

	warner Warner
}

// NewGraph constructs an empty Graph.
func NewGraph() *Graph {
	return &Graph{
		nodeByID:       make(map[int]*Node),
		initializerMap: make(map[string]*tensor.Tensor),
		nodeArgMap:     make(map[string]*NodeArg),
		producerMap:    make(map[string]int),
		consumerMap:    make(map[string]map[int]bool),
	}
}

// SetWarner installs w as the recipient of advisory warnings. Pass nil to
// silence warnings (the default).
func (g *Graph) SetWarner(w Warner) { g.warner = w }

func (g *Graph) warnf(format string, args ...any) {
	if g.warner != nil {
		g.warner.Warnf(format, args...)
	}
}

// AddInputName records a declared graph input name, in order.
func (g *Graph) AddInputName(name string) { g.inputNames = append(g.inputNames, name) }

// AddOutputName records a declared graph output name, in order.
func (g *Graph) AddOutputName(name string) { g.outputNames = append(g.outputNames, name) }

// InputNames returns the declared input name list.
func (g *Graph) InputNames() []string { return g.inputNames }

// OutputNames returns the declared output name list.
func (g *Graph) OutputNames() []string { return g.outputNames }

// AddInitializer inserts or overwrites the initializer tensor keyed by its
// name. Last writer wins; overwriting an existing initializer is warned
// about but never fails.
func (g *Graph) AddInitializer(t *tensor.Tensor) {
	if _, exists := g.initializerMap[t.Name()]; exists {
		g.warnf("overwriting initializer %q", t.Name())
	}
	g.initializerMap[t.Name()] = t
}

// HasInitializer reports whether name is a known initializer.
func (g *Graph) HasInitializer(name string) bool {
	_, ok := g.initializerMap[name]
	return ok
}

// Initializer looks up an initializer by name.
func (g *Graph) Initializer(name string) (*tensor.Tensor, bool) {
	t, ok := g.initializerMap[name]
	return t, ok
}

// InitializerMap returns the name->Tensor map. Callers must not mutate it.
func (g *Graph) InitializerMap() map[string]*tensor.Tensor { return g.initializerMap }

// GetOrCreateNodeArg returns the canonical NodeArg for name, creating one
// from template on first sight. Subsequent calls with the same name return
// the existing handle unchanged — the template argument is ignored once a
// NodeArg for that name exists. This is how producers and consumers end up
// sharing one NodeArg instance per name.
func (g *Graph) GetOrCreateNodeArg(name string, template *NodeArg) *NodeArg {
	if existing, ok := g.nodeArgMap[name]; ok {
		return existing
	}
	var canonical *NodeArg
	if template != nil {
		canonical = NewNodeArg(name, template.DataType(), template.Shape())
	} else {
		canonical = NewNodeArg(name, tensor.Unknown, tensor.TensorShape{})
	}
	g.nodeArgMap[name] = canonical
	return canonical
}

// GetNodeArg looks up a NodeArg by name.
func (g *Graph) GetNodeArg(name string) (*NodeArg, bool) {
	a, ok := g.nodeArgMap[name]
	return a, ok
}

// NodeArgMap returns the name->NodeArg map. Callers must not mutate it.
func (g *Graph) NodeArgMap() map[string]*NodeArg { return g.nodeArgMap }

// AddNode appends node to the graph in insertion order and assigns it a
// fresh, Graph-unique id.
func (g *Graph) AddNode(node *Node) *Node {
	node.id = g.nextNodeID
	g.nextNodeID++
	g.nodes = append(g.nodes, node)
	g.nodeByID[node.id] = node
	return node
}

// GetNodes returns the node list in insertion order.
func (g *Graph) GetNodes() []*Node { return g.nodes }

// GetNodeByID looks up a node by its Graph-assigned id.
func (g *Graph) GetNodeByID(id int) (*Node, bool) {
	n, ok := g.nodeByID[id]
	return n, ok
}

// GetTopologicalNodes returns the node list in the order computed by the
// last successful ConstructTopology call.
func (g *Graph) GetTopologicalNodes() []*Node { return g.topologicalNodes }

// GetInputsIncludingInitializers returns every declared graph input,
// whether or not it is also an initializer.
func (g *Graph) GetInputsIncludingInitializers() []*NodeArg { return g.inputsIncludingInit }

// GetInputsExcludingInitializers returns the true external inputs: graph
// inputs with no matching initializer.
func (g *Graph) GetInputsExcludingInitializers() []*NodeArg { return g.inputsExcludingInit }

// GetOverridableInitializers returns initializers that are also declared
// as graph inputs — a caller may supply a runtime value to replace them.
func (g *Graph) GetOverridableInitializers() []*NodeArg { return g.overridableInits }

// GetOutputs returns the declared graph outputs.
func (g *Graph) GetOutputs() []*NodeArg { return g.outputs }

// Producer returns the id of the node that produces name, if any.
func (g *Graph) Producer(name string) (int, bool) {
	id, ok := g.producerMap[name]
	return id, ok
}

// Consumers returns the ids of the nodes that consume name.
func (g *Graph) Consumers(name string) []int {
	set := g.consumerMap[name]
	out := make([]int, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}
