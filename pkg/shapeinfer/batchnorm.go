package shapeinfer

import (
	"github.com/onnx-ir/onnxir/pkg/graph"
	"github.com/onnx-ir/onnxir/pkg/status"
)

// batchNormalizationInferer implements inference-mode BatchNormalization:
// output shape equals X's shape; scale, bias, mean, and variance must each
// be rank 1 and sized to X's channel dimension.
type batchNormalizationInferer struct{}

func (*batchNormalizationInferer) NodeType() string { return "BatchNormalization" }

func (*batchNormalizationInferer) Infer(nodeName string, inputs []*graph.NodeArg, attributes map[string]graph.NodeAttribute, outputs []*graph.NodeArg) status.Status {
	if len(inputs) != 5 || len(outputs) < 1 {
		return status.Newf(status.InvalidParam, "BatchNormalization %q: expected 5 inputs and at least 1 output, got %d/%d", nodeName, len(inputs), len(outputs))
	}
	x := inputs[0].Shape()
	if x.Rank() < 2 {
		return status.Newf(status.InvalidParam, "BatchNormalization %q: X rank must be >= 2, got %d", nodeName, x.Rank())
	}
	channels := x.Dim(1)

	names := []string{"scale", "B", "mean", "var"}
	for i, arg := range inputs[1:] {
		shape := arg.Shape()
		if shape.Rank() != 1 || shape.Dim(0) != channels {
			return status.Newf(status.InvalidParam, "BatchNormalization %q: %s shape must be (%d,), got %s", nodeName, names[i], channels, shape)
		}
	}

	outputs[0].SetShape(x)
	return status.Ok()
}
