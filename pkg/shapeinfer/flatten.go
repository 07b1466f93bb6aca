package shapeinfer

import (
	"github.com/onnx-ir/onnxir/pkg/graph"
	"github.com/onnx-ir/onnxir/pkg/status"
	"github.com/onnx-ir/onnxir/pkg/tensor"
)

// flattenInferer implements Flatten: collapses the input into a 2-D shape
// split at axis.
type flattenInferer struct{}

func (*flattenInferer) NodeType() string { return "Flatten" }

func (*flattenInferer) Infer(nodeName string, inputs []*graph.NodeArg, attributes map[string]graph.NodeAttribute, outputs []*graph.NodeArg) status.Status {
	if len(inputs) != 1 || len(outputs) != 1 {
		return status.Newf(status.InvalidParam, "Flatten %q: expected 1 input and 1 output, got %d/%d", nodeName, len(inputs), len(outputs))
	}
	shape := inputs[0].Shape()
	r := int64(shape.Rank())
	axis := int64Attr(attributes, "axis", 1)
	if axis < 0 {
		axis += r
	}
	if axis < 0 || axis > r {
		return status.Newf(status.InvalidParam, "Flatten %q: axis out of [0, %d]", nodeName, r)
	}

	var dim0 int64 = 1
	for i := int64(0); i < axis; i++ {
		dim0 *= shape.Dim(int(i))
	}
	var dim1 int64 = 1
	for i := axis; i < r; i++ {
		dim1 *= shape.Dim(int(i))
	}

	outputs[0].SetShape(tensor.NewShape(dim0, dim1))
	return status.Ok()
}
