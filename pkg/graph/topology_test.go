package graph_test

import (
	"testing"

	"github.com/onnx-ir/onnxir/pkg/allocator"
	"github.com/onnx-ir/onnxir/pkg/graph"
	"github.com/onnx-ir/onnxir/pkg/shapeinfer"
	"github.com/onnx-ir/onnxir/pkg/status"
	"github.com/onnx-ir/onnxir/pkg/tensor"
)

type Graph = graph.Graph
type Node = graph.Node
type NodeArg = graph.NodeArg

var NewGraph = graph.NewGraph
var NewNode = graph.NewNode
var NewNodeArg = graph.NewNodeArg

func testAllocator() (allocator.Allocator, status.Status) {
	return allocator.Default().Get(allocator.CPU)
}

func newTestGraph() *Graph {
	return NewGraph()
}

func TestConstructTopologySingleRelu(t *testing.T) {
	g := newTestGraph()
	x := g.GetOrCreateNodeArg("x", NewNodeArg("x", tensor.Float32, tensor.NewShape(1, 3, 4, 4)))
	g.AddInputName("x")
	y := g.GetOrCreateNodeArg("y", nil)
	g.AddOutputName("y")

	g.AddNode(NewNode("r", "Relu", "", "", []*NodeArg{x}, []*NodeArg{y}, nil))

	if st := g.Initialize(); !st.IsOK() {
		t.Fatalf("Initialize failed: %v", st)
	}
	if st := g.ConstructTopology(shapeinfer.Default()); !st.IsOK() {
		t.Fatalf("ConstructTopology failed: %v", st)
	}

	if len(g.GetTopologicalNodes()) != 1 {
		t.Fatalf("len(GetTopologicalNodes()) = %d, want 1", len(g.GetTopologicalNodes()))
	}
	if !y.Shape().Equal(tensor.NewShape(1, 3, 4, 4)) {
		t.Errorf("y.Shape() = %s, want {1,3,4,4}", y.Shape())
	}
}

func TestConstructTopologyBroadcastAdd(t *testing.T) {
	g := newTestGraph()
	a := g.GetOrCreateNodeArg("a", NewNodeArg("a", tensor.Float32, tensor.NewShape(2, 3, 4)))
	g.AddInputName("a")
	b := g.GetOrCreateNodeArg("b", NewNodeArg("b", tensor.Float32, tensor.NewShape(4)))
	g.AddInputName("b")
	sum := g.GetOrCreateNodeArg("sum", nil)
	g.AddOutputName("sum")

	g.AddNode(NewNode("add", "Add", "", "", []*NodeArg{a, b}, []*NodeArg{sum}, nil))

	if st := g.Initialize(); !st.IsOK() {
		t.Fatalf("Initialize failed: %v", st)
	}
	if st := g.ConstructTopology(shapeinfer.Default()); !st.IsOK() {
		t.Fatalf("ConstructTopology failed: %v", st)
	}
	if !sum.Shape().Equal(tensor.NewShape(2, 3, 4)) {
		t.Errorf("sum.Shape() = %s, want {2,3,4}", sum.Shape())
	}
}

// TestConstructTopologyWiresForwardReferences exercises a node whose
// producer appears later in source order: A consumes "b", which B (added
// to the graph after A) produces. Edge construction must resolve this
// against the full producer map, not one built incrementally in source
// order.
func TestConstructTopologyWiresForwardReferences(t *testing.T) {
	g := newTestGraph()
	x := g.GetOrCreateNodeArg("x", NewNodeArg("x", tensor.Float32, tensor.NewShape(2, 2)))
	g.AddInputName("x")
	bArg := g.GetOrCreateNodeArg("b", nil)
	aArg := g.GetOrCreateNodeArg("a", nil)
	g.AddOutputName("a")

	nodeA := NewNode("A", "Relu", "", "", []*NodeArg{bArg}, []*NodeArg{aArg}, nil)
	nodeB := NewNode("B", "Relu", "", "", []*NodeArg{x}, []*NodeArg{bArg}, nil)
	g.AddNode(nodeA)
	g.AddNode(nodeB)

	if st := g.Initialize(); !st.IsOK() {
		t.Fatalf("Initialize failed: %v", st)
	}
	if st := g.ConstructTopology(shapeinfer.Default()); !st.IsOK() {
		t.Fatalf("ConstructTopology failed: %v", st)
	}

	order := g.GetTopologicalNodes()
	if len(order) != 2 {
		t.Fatalf("len(order) = %d, want 2", len(order))
	}
	if order[0].Name() != "B" || order[1].Name() != "A" {
		t.Errorf("order = [%s, %s], want [B, A]", order[0].Name(), order[1].Name())
	}
}

// TestConstructTopologyDetectsCycle builds A <-> B feeding a downstream
// leaf node C that consumes A's output, so the DFS reaches the cycle
// through a genuine leaf rather than leaving every node without input or
// output edges (which would report a node-count mismatch instead of
// exercising the onStack cycle check directly).
func TestConstructTopologyDetectsCycle(t *testing.T) {
	g := newTestGraph()
	aOut := g.GetOrCreateNodeArg("a", nil)
	bOut := g.GetOrCreateNodeArg("b", nil)
	cOut := g.GetOrCreateNodeArg("c", nil)
	g.AddOutputName("c")

	nodeA := NewNode("A", "Relu", "", "", []*NodeArg{bOut}, []*NodeArg{aOut}, nil)
	nodeB := NewNode("B", "Relu", "", "", []*NodeArg{aOut}, []*NodeArg{bOut}, nil)
	nodeC := NewNode("C", "Relu", "", "", []*NodeArg{aOut}, []*NodeArg{cOut}, nil)
	g.AddNode(nodeA)
	g.AddNode(nodeB)
	g.AddNode(nodeC)

	if st := g.Initialize(); !st.IsOK() {
		t.Fatalf("Initialize failed: %v", st)
	}
	st := g.ConstructTopology(shapeinfer.Default())
	if st.IsOK() {
		t.Fatal("expected cycle detection failure")
	}
	if st.Kind() != status.InvalidModel {
		t.Errorf("Kind() = %v, want InvalidModel", st.Kind())
	}
}

func TestConstructTopologyRejectsDuplicateOutputName(t *testing.T) {
	g := newTestGraph()
	x := g.GetOrCreateNodeArg("x", NewNodeArg("x", tensor.Float32, tensor.NewShape(1)))
	g.AddInputName("x")
	y1 := g.GetOrCreateNodeArg("y", nil)

	nodeA := NewNode("A", "Relu", "", "", []*NodeArg{x}, []*NodeArg{y1}, nil)
	nodeB := NewNode("B", "Relu", "", "", []*NodeArg{x}, []*NodeArg{y1}, nil)
	g.AddNode(nodeA)
	g.AddNode(nodeB)

	if st := g.Initialize(); !st.IsOK() {
		t.Fatalf("Initialize failed: %v", st)
	}
	st := g.ConstructTopology(shapeinfer.Default())
	if st.IsOK() {
		t.Fatal("expected duplicate node output name failure")
	}
	if st.Kind() != status.InvalidModel {
		t.Errorf("Kind() = %v, want InvalidModel", st.Kind())
	}
}

// TestConstructTopologyFoldsConstantIntoInitializer mirrors what
// pkg/loader's Constant-lifting pass hands to Graph: an initializer with
// no corresponding node, consumed directly by a real node. The final node
// list must contain only the consumer, never a "Constant" node.
func TestConstructTopologyFoldsConstantIntoInitializer(t *testing.T) {
	g := newTestGraph()
	c := tensor.NewShape(3)
	cArg := g.GetOrCreateNodeArg("c", NewNodeArg("c", tensor.Float32, c))
	g.AddInitializer(mustOwnedTensor(t, "c", tensor.Float32, c))
	y := g.GetOrCreateNodeArg("y", nil)
	g.AddOutputName("y")

	g.AddNode(NewNode("r", "Relu", "", "", []*NodeArg{cArg}, []*NodeArg{y}, nil))

	if st := g.Initialize(); !st.IsOK() {
		t.Fatalf("Initialize failed: %v", st)
	}
	if st := g.ConstructTopology(shapeinfer.Default()); !st.IsOK() {
		t.Fatalf("ConstructTopology failed: %v", st)
	}

	for _, n := range g.GetNodes() {
		if n.OpType() == "Constant" {
			t.Error("a Constant node must never survive into the final node list")
		}
	}
	if _, ok := g.Initializer("c"); !ok {
		t.Error("expected initializer \"c\" to remain live (consumed by node r)")
	}
}

// TestConstructTopologyRemovesOrphanNode covers a node declared with
// neither inputs nor outputs: build_nodes_connections must drop it rather
// than leave it stranded in the final node list.
func TestConstructTopologyRemovesOrphanNode(t *testing.T) {
	g := newTestGraph()
	x := g.GetOrCreateNodeArg("x", NewNodeArg("x", tensor.Float32, tensor.NewShape(1)))
	g.AddInputName("x")
	y := g.GetOrCreateNodeArg("y", nil)
	g.AddOutputName("y")

	g.AddNode(NewNode("r", "Relu", "", "", []*NodeArg{x}, []*NodeArg{y}, nil))
	g.AddNode(NewNode("orphan", "Relu", "", "", nil, nil, nil))

	if st := g.Initialize(); !st.IsOK() {
		t.Fatalf("Initialize failed: %v", st)
	}
	if st := g.ConstructTopology(shapeinfer.Default()); !st.IsOK() {
		t.Fatalf("ConstructTopology failed: %v", st)
	}

	if len(g.GetNodes()) != 1 {
		t.Fatalf("len(GetNodes()) = %d, want 1", len(g.GetNodes()))
	}
	if g.GetNodes()[0].Name() != "r" {
		t.Errorf("surviving node = %q, want %q", g.GetNodes()[0].Name(), "r")
	}
}

func mustOwnedTensor(t *testing.T, name string, dtype tensor.PrimitiveDataType, shape tensor.TensorShape) *tensor.Tensor {
	t.Helper()
	alloc, st := testAllocator()
	if !st.IsOK() {
		t.Fatalf("testAllocator failed: %v", st)
	}
	ten, st := tensor.NewOwned(name, dtype, shape, alloc)
	if !st.IsOK() {
		t.Fatalf("NewOwned failed: %v", st)
	}
	return ten
}
