package shapeinfer

import (
	"github.com/onnx-ir/onnxir/pkg/graph"
	"github.com/onnx-ir/onnxir/pkg/status"
)

// reluInferer implements Relu: output shape equals input shape.
type reluInferer struct{}

func (*reluInferer) NodeType() string { return "Relu" }

func (*reluInferer) Infer(nodeName string, inputs []*graph.NodeArg, attributes map[string]graph.NodeAttribute, outputs []*graph.NodeArg) status.Status {
	if len(inputs) != 1 || len(outputs) != 1 {
		return status.Newf(status.InvalidParam, "Relu %q: expected 1 input and 1 output, got %d/%d", nodeName, len(inputs), len(outputs))
	}
	outputs[0].SetShape(inputs[0].Shape())
	return status.Ok()
}

// identityInferer implements Identity: output shape equals input shape.
type identityInferer struct{}

func (*identityInferer) NodeType() string { return "Identity" }

func (*identityInferer) Infer(nodeName string, inputs []*graph.NodeArg, attributes map[string]graph.NodeAttribute, outputs []*graph.NodeArg) status.Status {
	if len(inputs) != 1 || len(outputs) != 1 {
		return status.Newf(status.InvalidParam, "Identity %q: expected 1 input and 1 output, got %d/%d", nodeName, len(inputs), len(outputs))
	}
	outputs[0].SetShape(inputs[0].Shape())
	return status.Ok()
}

// softmaxInferer implements Softmax: output shape equals input shape; axis
// only needs to be a valid rank index.
type softmaxInferer struct{}

func (*softmaxInferer) NodeType() string { return "Softmax" }

func (*softmaxInferer) Infer(nodeName string, inputs []*graph.NodeArg, attributes map[string]graph.NodeAttribute, outputs []*graph.NodeArg) status.Status {
	if len(inputs) != 1 || len(outputs) != 1 {
		return status.Newf(status.InvalidParam, "Softmax %q: expected 1 input and 1 output, got %d/%d", nodeName, len(inputs), len(outputs))
	}
	shape := inputs[0].Shape()
	axis := int64Attr(attributes, "axis", -1)
	r := int64(shape.Rank())
	if axis < 0 {
		axis += r
	}
	if axis < 0 || axis >= r {
		return status.Newf(status.InvalidParam, "Softmax %q: axis out of range for rank %d", nodeName, r)
	}
	outputs[0].SetShape(shape)
	return status.Ok()
}
