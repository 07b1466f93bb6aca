package shapeinfer

import (
	"github.com/onnx-ir/onnxir/pkg/graph"
	"github.com/onnx-ir/onnxir/pkg/status"
	"github.com/onnx-ir/onnxir/pkg/tensor"
)

// convInferer implements Conv: cross-correlation output shape with
// padding, dilation, and stride, NOTSET auto_pad and group 1 only.
type convInferer struct{}

func (*convInferer) NodeType() string { return "Conv" }

func (*convInferer) Infer(nodeName string, inputs []*graph.NodeArg, attributes map[string]graph.NodeAttribute, outputs []*graph.NodeArg) status.Status {
	if (len(inputs) != 2 && len(inputs) != 3) || len(outputs) != 1 {
		return status.Newf(status.InvalidParam, "Conv %q: expected 2 or 3 inputs and 1 output, got %d/%d", nodeName, len(inputs), len(outputs))
	}
	if autoPad := stringAttr(attributes, "auto_pad", "NOTSET"); autoPad != "NOTSET" {
		return status.Newf(status.NotImplemented, "Conv %q: auto_pad %q not implemented", nodeName, autoPad)
	}
	if group := int64Attr(attributes, "group", 1); group > 1 {
		return status.Newf(status.NotImplemented, "Conv %q: group > 1 not implemented", nodeName)
	}

	x, w := inputs[0].Shape(), inputs[1].Shape()
	if x.Rank() < 2 || x.Rank() != w.Rank() {
		return status.Newf(status.InvalidParam, "Conv %q: input rank %d and weight rank %d must match and be >= 2", nodeName, x.Rank(), w.Rank())
	}
	kernelRank := x.Rank() - 2

	kernelShape := int64ArrayAttr(attributes, "kernel_shape", nil)
	if kernelShape == nil {
		kernelShape = append([]int64(nil), w.Dims()[2:]...)
	}
	if len(kernelShape) != kernelRank {
		return status.Newf(status.InvalidParam, "Conv %q: kernel_shape length %d does not match spatial rank %d", nodeName, len(kernelShape), kernelRank)
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

	dims := make([]int64, x.Rank())
	dims[0] = x.Dim(0)
	dims[1] = w.Dim(0)
	for i := 0; i < kernelRank; i++ {
		in := x.Dim(i + 2)
		padded := in + pads[i] + pads[i+kernelRank] - dilations[i]*(kernelShape[i]-1) - 1
		dims[i+2] = padded/strides[i] + 1
	}

	outputs[0].SetShape(tensor.NewShape(dims...))
	return status.Ok()
}

func validatePads(nodeName string, pads []int64, kernelRank int) status.Status {
	if len(pads) != 2*kernelRank {
		return status.Newf(status.InvalidParam, "%q: pads length %d must be 2x kernel rank %d", nodeName, len(pads), kernelRank)
	}
	for _, p := range pads {
		if p < 0 {
			return status.Newf(status.InvalidParam, "%q: pads must be non-negative, got %d", nodeName, p)
		}
	}
	return status.Ok()
}
