package shapeinfer

import (
	"github.com/onnx-ir/onnxir/pkg/graph"
	"github.com/onnx-ir/onnxir/pkg/status"
	"github.com/onnx-ir/onnxir/pkg/tensor"
)

// addInferer implements Add: numpy-style right-aligned broadcasting of the
// two input shapes.
type addInferer struct{}

func (*addInferer) NodeType() string { return "Add" }

func (*addInferer) Infer(nodeName string, inputs []*graph.NodeArg, attributes map[string]graph.NodeAttribute, outputs []*graph.NodeArg) status.Status {
	if len(inputs) != 2 || len(outputs) != 1 {
		return status.Newf(status.InvalidParam, "Add %q: expected 2 inputs and 1 output, got %d/%d", nodeName, len(inputs), len(outputs))
	}
	shape, st := broadcastShapes(inputs[0].Shape(), inputs[1].Shape())
	if !st.IsOK() {
		return status.Newf(status.InvalidParam, "Add %q: %s", nodeName, st.Message())
	}
	outputs[0].SetShape(shape)
	return status.Ok()
}

// broadcastShapes computes the numpy-style right-aligned broadcast of a and
// b. Shorter shapes are conceptually left-padded with 1s; for each aligned
// pair of dims, the output dim is whichever side is not 1 (or the common
// value when equal); unequal dims where neither is 1 fail. Dimensions outside
// the overlap are copied verbatim from the longer shape. The result is
// symmetric in a and b.
func broadcastShapes(a, b tensor.TensorShape) (tensor.TensorShape, status.Status) {
	ra, rb := a.Rank(), b.Rank()
	r := ra
	if rb > r {
		r = rb
	}
	dims := make([]int64, r)
	for i := 0; i < r; i++ {
		ai := ra - r + i
		bi := rb - r + i

		var da, db int64 = 1, 1
		haveA, haveB := ai >= 0, bi >= 0
		if haveA {
			da = a.Dim(ai)
		}
		if haveB {
			db = b.Dim(bi)
		}

		switch {
		case !haveA:
			dims[i] = db
		case !haveB:
			dims[i] = da
		case da == db:
			dims[i] = da
		case db == 1:
			dims[i] = da
		case da == 1:
			dims[i] = db
		default:
			return tensor.TensorShape{}, status.Newf(status.InvalidParam, "cannot broadcast dims %d and %d at axis %d", da, db, i)
		}
	}
	return tensor.NewShape(dims...), status.Ok()
}
