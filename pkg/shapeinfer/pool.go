package shapeinfer

import (
	"github.com/onnx-ir/onnxir/pkg/graph"
	"github.com/onnx-ir/onnxir/pkg/status"
	"github.com/onnx-ir/onnxir/pkg/tensor"
)

// globalAveragePoolInferer implements GlobalAveragePool: every spatial
// dimension collapses to 1, batch and channel dims pass through.
type globalAveragePoolInferer struct{}

func (*globalAveragePoolInferer) NodeType() string { return "GlobalAveragePool" }

func (*globalAveragePoolInferer) Infer(nodeName string, inputs []*graph.NodeArg, attributes map[string]graph.NodeAttribute, outputs []*graph.NodeArg) status.Status {
	if len(inputs) != 1 || len(outputs) != 1 {
		return status.Newf(status.InvalidParam, "GlobalAveragePool %q: expected 1 input and 1 output, got %d/%d", nodeName, len(inputs), len(outputs))
	}
	shape := inputs[0].Shape()
	if shape.Rank() < 2 {
		return status.Newf(status.InvalidParam, "GlobalAveragePool %q: input rank must be >= 2, got %d", nodeName, shape.Rank())
	}
	dims := make([]int64, shape.Rank())
	dims[0], dims[1] = shape.Dim(0), shape.Dim(1)
	for i := 2; i < shape.Rank(); i++ {
		dims[i] = 1
	}
	outputs[0].SetShape(tensor.NewShape(dims...))
	return status.Ok()
}

// maxPoolInferer implements MaxPool: same spatial formula as Conv, with
// ceil_mode controlling how a non-exact final window is counted.
type maxPoolInferer struct{}

func (*maxPoolInferer) NodeType() string { return "MaxPool" }

func (*maxPoolInferer) Infer(nodeName string, inputs []*graph.NodeArg, attributes map[string]graph.NodeAttribute, outputs []*graph.NodeArg) status.Status {
	if len(inputs) != 1 || len(outputs) != 1 {
		return status.Newf(status.InvalidParam, "MaxPool %q: expected 1 input and 1 output, got %d/%d", nodeName, len(inputs), len(outputs))
	}
	if autoPad := stringAttr(attributes, "auto_pad", "NOTSET"); autoPad != "NOTSET" {
		return status.Newf(status.NotImplemented, "MaxPool %q: auto_pad %q not implemented", nodeName, autoPad)
	}

	x := inputs[0].Shape()
	kernelShape := int64ArrayAttr(attributes, "kernel_shape", nil)
	if kernelShape == nil {
		return status.Newf(status.InvalidParam, "MaxPool %q: kernel_shape is required", nodeName)
	}
	kernelRank := len(kernelShape)
	if x.Rank() != kernelRank+2 {
		return status.Newf(status.InvalidParam, "MaxPool %q: input rank %d does not match kernel rank %d + 2", nodeName, x.Rank(), kernelRank)
	}

	dilations := int64ArrayAttr(attributes, "dilations", nil)
	if dilations == nil {
		dilations = repeat(1, kernelRank)
	}
	strides := int64ArrayAttr(attributes, "strides", nil)
	if strides == nil {
		strides = repeat(1, kernelRank)
	}
	pads := int64ArrayAttr(attributes, "pads", nil)
	if pads == nil {
		pads = repeat(0, 2*kernelRank)
	}
	if st := validatePads(nodeName, pads, kernelRank); !st.IsOK() {
		return st
	}
	ceilMode := int64Attr(attributes, "ceil_mode", 0) != 0

	dims := make([]int64, x.Rank())
	dims[0], dims[1] = x.Dim(0), x.Dim(1)
	for i := 0; i < kernelRank; i++ {
		in := x.Dim(i + 2)
		tmp := in + pads[i] + pads[i+kernelRank] - dilations[i]*(kernelShape[i]-1) - 1
		q := tmp / strides[i]
		if ceilMode && q*strides[i] != tmp {
			dims[i+2] = q + 2
		} else {
			dims[i+2] = q + 1
		}
	}

	outputs[0].SetShape(tensor.NewShape(dims...))
	return status.Ok()
}
