package loader

import (
	"github.com/onnx-ir/onnxir/internal/onnx"
	"github.com/onnx-ir/onnxir/pkg/graph"
	"github.com/onnx-ir/onnxir/pkg/status"
	"github.com/onnx-ir/onnxir/pkg/tensor"
)

// runConstantPass lifts every "Constant" node's attribute payload into an
// initializer keyed by the node's first output name (pass A). Constant
// nodes are never inserted into the graph's node list.
func runConstantPass(g *graph.Graph, nodes []*onnx.NodeProto) status.Status {
	for _, n := range nodes {
		if n.OpType != "Constant" {
			continue
		}
		if len(n.Output) == 0 {
			return status.Newf(status.InvalidModel, "Constant node %q has no output", n.Name)
		}
		name := n.Output[0]
		if len(n.Attribute) == 0 {
			return status.Newf(status.InvalidModel, "Constant node %q has no value attribute", n.Name)
		}

		t, st := constantTensor(name, n.Attribute[0])
		if !st.IsOK() {
			return st
		}
		g.AddInitializer(t)
		g.GetOrCreateNodeArg(name, graph.NewNodeArg(name, t.DataType(), t.Shape()))
	}
	return status.Ok()
}

func constantTensor(name string, a *onnx.AttributeProto) (*tensor.Tensor, status.Status) {
	switch a.GetType() {
	case onnx.AttributeTensor:
		return materializeTensor(name, a.T)
	case onnx.AttributeFloat:
		return newFloat32Tensor(name, tensor.NewShape(1), []float32{a.F})
	case onnx.AttributeFloats:
		return newFloat32Tensor(name, tensor.NewShape(int64(len(a.Floats))), a.Floats)
	case onnx.AttributeInt:
		return newInt64Tensor(name, tensor.NewShape(1), []int64{a.I})
	case onnx.AttributeInts:
		return newInt64Tensor(name, tensor.NewShape(int64(len(a.Ints))), a.Ints)
	default:
		return nil, status.Newf(status.InvalidModel, "Constant node %q: unsupported attribute kind %v", name, a.GetType())
	}
}

// runGraphInputsPass records a NodeArg and input name for every declared
// input that carries a tensor type (pass B).
func runGraphInputsPass(g *graph.Graph, inputs []*onnx.ValueInfoProto) {
	for _, v := range inputs {
		tmpl := nodeArgTemplate(v.Name, v)
		if tmpl == nil {
			continue
		}
		g.GetOrCreateNodeArg(v.Name, tmpl)
		g.AddInputName(v.Name)
	}
}

// runInitializersPass materializes every initializer tensor and installs
// it, creating a NodeArg only if one doesn't already exist for that name
// (pass C). An initializer sharing a name with a declared input becomes
// overridable — the input-declared NodeArg is left untouched.
func runInitializersPass(g *graph.Graph, initializers []*onnx.TensorProto) status.Status {
	for _, tp := range initializers {
		t, st := materializeTensor(tp.GetName(), tp)
		if !st.IsOK() {
			return st
		}
		if _, ok := g.GetNodeArg(t.Name()); !ok {
			g.GetOrCreateNodeArg(t.Name(), graph.NewNodeArg(t.Name(), t.DataType(), t.Shape()))
		}
		g.AddInitializer(t)
	}
	return status.Ok()
}

// runGraphOutputsPass records a NodeArg and output name for every declared
// output that carries a tensor type (pass D).
func runGraphOutputsPass(g *graph.Graph, outputs []*onnx.ValueInfoProto) {
	for _, v := range outputs {
		tmpl := nodeArgTemplate(v.Name, v)
		if tmpl == nil {
			continue
		}
		g.GetOrCreateNodeArg(v.Name, tmpl)
		g.AddOutputName(v.Name)
	}
}

// runValueInfoPass seeds NodeArgs for internal tensors with a declared
// type/shape (pass E), ahead of pass F resolving node inputs/outputs.
func runValueInfoPass(g *graph.Graph, valueInfo []*onnx.ValueInfoProto) {
	for _, v := range valueInfo {
		tmpl := nodeArgTemplate(v.Name, v)
		if tmpl == nil {
			continue
		}
		g.GetOrCreateNodeArg(v.Name, tmpl)
	}
}

// runNodesPass resolves every non-Constant node's inputs/outputs to
// canonical NodeArgs and converts its attributes, inserting it in source
// order (pass F). Graph.AddNode assigns the monotonically increasing id.
func runNodesPass(g *graph.Graph, nodes []*onnx.NodeProto) status.Status {
	for _, n := range nodes {
		if n.OpType == "Constant" {
			continue
		}

		inputs := make([]*graph.NodeArg, len(n.Input))
		for i, name := range n.Input {
			inputs[i] = g.GetOrCreateNodeArg(name, nil)
		}
		outputs := make([]*graph.NodeArg, len(n.Output))
		for i, name := range n.Output {
			outputs[i] = g.GetOrCreateNodeArg(name, nil)
		}

		attributes := make(map[string]graph.NodeAttribute, len(n.Attribute))
		for _, a := range n.Attribute {
			attr, ok, st := convertAttribute(a)
			if !st.IsOK() {
				return st
			}
			if !ok {
				continue
			}
			attributes[a.GetName()] = attr
		}

		node := graph.NewNode(n.Name, n.OpType, n.Domain, n.DocString, inputs, outputs, attributes)
		g.AddNode(node)
	}
	return status.Ok()
}
