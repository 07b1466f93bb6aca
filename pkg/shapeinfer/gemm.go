package shapeinfer

import (
	"github.com/onnx-ir/onnxir/pkg/graph"
	"github.com/onnx-ir/onnxir/pkg/status"
	"github.com/onnx-ir/onnxir/pkg/tensor"
)

// gemmInferer implements Gemm: general matrix multiply with optional
// transposes and an optional broadcastable bias addend C.
type gemmInferer struct{}

func (*gemmInferer) NodeType() string { return "Gemm" }

func (*gemmInferer) Infer(nodeName string, inputs []*graph.NodeArg, attributes map[string]graph.NodeAttribute, outputs []*graph.NodeArg) status.Status {
	if (len(inputs) != 2 && len(inputs) != 3) || len(outputs) != 1 {
		return status.Newf(status.InvalidParam, "Gemm %q: expected 2 or 3 inputs and 1 output, got %d/%d", nodeName, len(inputs), len(outputs))
	}
	a, b := inputs[0].Shape(), inputs[1].Shape()
	if a.Rank() != 2 || b.Rank() != 2 {
		return status.Newf(status.InvalidParam, "Gemm %q: A and B must be rank 2, got %d and %d", nodeName, a.Rank(), b.Rank())
	}

	transA := int64Attr(attributes, "transA", 0) != 0
	transB := int64Attr(attributes, "transB", 0) != 0

	m, ka := a.Dim(0), a.Dim(1)
	if transA {
		m, ka = a.Dim(1), a.Dim(0)
	}
	kb, n := b.Dim(0), b.Dim(1)
	if transB {
		kb, n = b.Dim(1), b.Dim(0)
	}
	if ka != kb {
		return status.Newf(status.InvalidParam, "Gemm %q: inner dims mismatch %d vs %d", nodeName, ka, kb)
	}

	if len(inputs) == 3 {
		c := inputs[2].Shape()
		switch c.Rank() {
		case 1:
			if c.Dim(0) != 1 && c.Dim(0) != n {
				return status.Newf(status.InvalidParam, "Gemm %q: C shape %s not broadcastable to (%d,%d)", nodeName, c, m, n)
			}
		case 2:
			if (c.Dim(0) != 1 && c.Dim(0) != m) || (c.Dim(1) != 1 && c.Dim(1) != n) {
				return status.Newf(status.InvalidParam, "Gemm %q: C shape %s not broadcastable to (%d,%d)", nodeName, c, m, n)
			}
		default:
			return status.Newf(status.InvalidParam, "Gemm %q: C must be rank 1 or 2, got %d", nodeName, c.Rank())
		}
	}

	outputs[0].SetShape(tensor.NewShape(m, n))
	return status.Ok()
}
