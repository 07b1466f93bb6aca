package loader

import (
	"encoding/binary"
	"math"

	"github.com/onnx-ir/onnxir/internal/onnx"
	"github.com/onnx-ir/onnxir/pkg/allocator"
	"github.com/onnx-ir/onnxir/pkg/graph"
	"github.com/onnx-ir/onnxir/pkg/status"
	"github.com/onnx-ir/onnxir/pkg/tensor"
)

// primitiveType maps a wire-format element type to this module's
// PrimitiveDataType. Types outside the supported set map to Unknown.
func primitiveType(dt onnx.DataType) tensor.PrimitiveDataType {
	switch dt {
	case onnx.DataTypeFloat:
		return tensor.Float32
	case onnx.DataTypeInt8:
		return tensor.Int8
	case onnx.DataTypeUint8:
		return tensor.Uint8
	case onnx.DataTypeInt16:
		return tensor.Int16
	case onnx.DataTypeUint16:
		return tensor.Uint16
	case onnx.DataTypeInt32:
		return tensor.Int32
	case onnx.DataTypeUint32:
		return tensor.Uint32
	case onnx.DataTypeInt64:
		return tensor.Int64
	case onnx.DataTypeUint64:
		return tensor.Uint64
	default:
		return tensor.Unknown
	}
}

// shapeFromProto converts a TensorShapeProto into a TensorShape. A
// dimension without a concrete value contributes SymbolicDim. A nil proto
// (no shape declared) yields a rank-0 shape.
func shapeFromProto(s *onnx.TensorShapeProto) tensor.TensorShape {
	dims := s.GetDim()
	out := make([]int64, len(dims))
	for i, d := range dims {
		if d.HasDimValue {
			out[i] = d.DimValue
		} else {
			out[i] = tensor.SymbolicDim
		}
	}
	return tensor.NewShape(out...)
}

// nodeArgTemplate builds a throwaway NodeArg from a ValueInfoProto's
// tensor type, or nil if the value carries no tensor type.
func nodeArgTemplate(name string, v *onnx.ValueInfoProto) *graph.NodeArg {
	tt := v.GetType().GetTensorType()
	if tt == nil {
		return nil
	}
	return graph.NewNodeArg(name, primitiveType(tt.GetElemType()), shapeFromProto(tt.GetShape()))
}

// materializeTensor allocates a Tensor named name for t through the CPU
// allocator and fills it from whichever payload the proto carries. Only
// FLOAT32 is supported; anything else is NOT_IMPLEMENTED. The caller
// supplies name explicitly rather than t.GetName() because a Constant
// node's lifted initializer is keyed by the node's output name, which may
// differ from (or stand in for an absent) tensor-proto name.
func materializeTensor(name string, t *onnx.TensorProto) (*tensor.Tensor, status.Status) {
	dtype := primitiveType(t.DataType)
	if dtype != tensor.Float32 {
		return nil, status.Newf(status.NotImplemented, "tensor %q: element type %v not implemented", name, t.DataType)
	}
	shape := tensor.NewShape(t.GetDims()...)
	count := shape.ElementCount()

	switch {
	case len(t.RawData) > 0:
		wantBytes := 4 * count
		if int64(len(t.RawData)) != wantBytes {
			return nil, status.Newf(status.InvalidModel, "tensor %q: raw_data length %d, want %d", name, len(t.RawData), wantBytes)
		}
		return newFloat32TensorFromBytes(name, shape, t.RawData)
	case len(t.FloatData) > 0:
		if int64(len(t.FloatData)) != count {
			return nil, status.Newf(status.InvalidModel, "tensor %q: float_data length %d, want %d", name, len(t.FloatData), count)
		}
		return newFloat32Tensor(name, shape, t.FloatData)
	case count == 0:
		return newFloat32Tensor(name, shape, nil)
	default:
		return nil, status.Newf(status.InvalidModel, "tensor %q: no data payload for %d elements", name, count)
	}
}

func cpuAllocator() (allocator.Allocator, status.Status) {
	return allocator.Default().Get(allocator.CPU)
}

func newFloat32Tensor(name string, shape tensor.TensorShape, values []float32) (*tensor.Tensor, status.Status) {
	alloc, st := cpuAllocator()
	if !st.IsOK() {
		return nil, st
	}
	ten, st := tensor.NewOwned(name, tensor.Float32, shape, alloc)
	if !st.IsOK() {
		return nil, st
	}
	data := ten.Data()
	for i, v := range values {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}
	return ten, status.Ok()
}

func newFloat32TensorFromBytes(name string, shape tensor.TensorShape, raw []byte) (*tensor.Tensor, status.Status) {
	alloc, st := cpuAllocator()
	if !st.IsOK() {
		return nil, st
	}
	ten, st := tensor.NewOwned(name, tensor.Float32, shape, alloc)
	if !st.IsOK() {
		return nil, st
	}
	copy(ten.Data(), raw)
	return ten, status.Ok()
}

func newInt64Tensor(name string, shape tensor.TensorShape, values []int64) (*tensor.Tensor, status.Status) {
	alloc, st := cpuAllocator()
	if !st.IsOK() {
		return nil, st
	}
	ten, st := tensor.NewOwned(name, tensor.Int64, shape, alloc)
	if !st.IsOK() {
		return nil, st
	}
	data := ten.Data()
	for i, v := range values {
		binary.LittleEndian.PutUint64(data[i*8:], uint64(v))
	}
	return ten, status.Ok()
}

// convertAttribute converts one proto AttributeProto into a NodeAttribute.
// TENSOR-typed attributes are materialized through the same allocator path
// as initializers. Unsupported kinds (GRAPH, GRAPHS, UNDEFINED) report ok
// false so the caller can skip them rather than fail the whole load.
func convertAttribute(a *onnx.AttributeProto) (graph.NodeAttribute, bool, status.Status) {
	switch a.GetType() {
	case onnx.AttributeFloat:
		return graph.NewFloatAttribute(a.F), true, status.Ok()
	case onnx.AttributeInt:
		return graph.NewInt64Attribute(a.I), true, status.Ok()
	case onnx.AttributeString:
		return graph.NewStringAttribute(string(a.S)), true, status.Ok()
	case onnx.AttributeTensor:
		t, st := materializeTensor(a.GetName(), a.T)
		if !st.IsOK() {
			return graph.NodeAttribute{}, false, st
		}
		return graph.NewTensorAttribute(t), true, status.Ok()
	case onnx.AttributeFloats:
		return graph.NewFloatArrayAttribute(a.Floats), true, status.Ok()
	case onnx.AttributeInts:
		return graph.NewInt64ArrayAttribute(a.Ints), true, status.Ok()
	case onnx.AttributeStrings:
		out := make([]string, len(a.Strings))
		for i, s := range a.Strings {
			out[i] = string(s)
		}
		return graph.NewStringArrayAttribute(out), true, status.Ok()
	case onnx.AttributeTensors:
		out := make([]*tensor.Tensor, len(a.Tensors))
		for i, tp := range a.Tensors {
			t, st := materializeTensor(tp.GetName(), tp)
			if !st.IsOK() {
				return graph.NodeAttribute{}, false, st
			}
			out[i] = t
		}
		return graph.NewTensorArrayAttribute(out), true, status.Ok()
	default:
		return graph.NodeAttribute{}, false, status.Ok()
	}
}
