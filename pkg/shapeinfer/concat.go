package shapeinfer

import (
	"github.com/onnx-ir/onnxir/pkg/graph"
	"github.com/onnx-ir/onnxir/pkg/status"
	"github.com/onnx-ir/onnxir/pkg/tensor"
)

// concatInferer implements Concat: all inputs share rank and every
// dimension except axis; the output sums the axis dimension.
type concatInferer struct{}

func (*concatInferer) NodeType() string { return "Concat" }

func (*concatInferer) Infer(nodeName string, inputs []*graph.NodeArg, attributes map[string]graph.NodeAttribute, outputs []*graph.NodeArg) status.Status {
	if len(inputs) < 1 || len(outputs) != 1 {
		return status.Newf(status.InvalidParam, "Concat %q: expected at least 1 input and 1 output, got %d/%d", nodeName, len(inputs), len(outputs))
	}
	attr, ok := attributes["axis"]
	if !ok {
		return status.Newf(status.InvalidParam, "Concat %q: axis attribute is required", nodeName)
	}
	axis, st := attr.Int64()
	if !st.IsOK() {
		return status.Newf(status.InvalidParam, "Concat %q: axis attribute must be an int", nodeName)
	}

	first := inputs[0].Shape()
	r := int64(first.Rank())
	if axis < 0 {
		axis += r
	}
	if axis < 0 || axis >= r {
		return status.Newf(status.InvalidParam, "Concat %q: axis out of range for rank %d", nodeName, r)
	}

	dims := append([]int64(nil), first.Dims()...)
	for i := 1; i < len(inputs); i++ {
		shape := inputs[i].Shape()
		if shape.Rank() != int(r) {
			return status.Newf(status.InvalidParam, "Concat %q: input %d rank %d does not match rank %d", nodeName, i, shape.Rank(), r)
		}
		for d := int64(0); d < r; d++ {
			if d == axis {
				dims[d] += shape.Dim(int(d))
				continue
			}
			if shape.Dim(int(d)) != dims[d] {
				return status.Newf(status.InvalidParam, "Concat %q: input %d dim %d mismatch", nodeName, i, d)
			}
		}
	}

	outputs[0].SetShape(tensor.NewShape(dims...))
	return status.Ok()
}
