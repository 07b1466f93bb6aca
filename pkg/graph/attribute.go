package graph

import (
	"github.com/onnx-ir/onnxir/pkg/status"
	"github.com/onnx-ir/onnxir/pkg/tensor"
)

// AttributeKind tags which payload a NodeAttribute holds.
type AttributeKind int

const (
	AttrInvalid AttributeKind = iota
	AttrInt64
	AttrFloat
	AttrString
	AttrTensor
	AttrInt64Array
	AttrFloatArray
	AttrStringArray
	AttrTensorArray
)

func (k AttributeKind) String() string {
	switch k {
	case AttrInt64:
		return "INT64"
	case AttrFloat:
		return "FLOAT"
	case AttrString:
		return "STRING"
	case AttrTensor:
		return "TENSOR"
	case AttrInt64Array:
		return "INT64_ARRAY"
	case AttrFloatArray:
		return "FLOAT_ARRAY"
	case AttrStringArray:
		return "STRING_ARRAY"
	case AttrTensorArray:
		return "TENSOR_ARRAY"
	default:
		return "INVALID"
	}
}

// NodeAttribute is a tagged union keyed by AttributeKind. Every accessor
// kind-checks against the stored variant and fails with a typed Status on
// mismatch.
type NodeAttribute struct {
	kind    AttributeKind
	i       int64
	f       float32
	s       string
	t       *tensor.Tensor
	ints    []int64
	floats  []float32
	strings []string
	tensors []*tensor.Tensor
}

// NewInt64Attribute constructs an INT64 attribute.
func NewInt64Attribute(v int64) NodeAttribute {
	return NodeAttribute{kind: AttrInt64, i: v}
}

// NewFloatAttribute constructs a FLOAT attribute.
func NewFloatAttribute(v float32) NodeAttribute {
	return NodeAttribute{kind: AttrFloat, f: v}
}

// NewStringAttribute constructs a STRING attribute.
func NewStringAttribute(v string) NodeAttribute {
	return NodeAttribute{kind: AttrString, s: v}
}

// NewTensorAttribute constructs a TENSOR attribute.
func NewTensorAttribute(v *tensor.Tensor) NodeAttribute {
	return NodeAttribute{kind: AttrTensor, t: v}
}

// NewInt64ArrayAttribute constructs an INT64_ARRAY attribute.
func NewInt64ArrayAttribute(v []int64) NodeAttribute {
	return NodeAttribute{kind: AttrInt64Array, ints: v}
}

// NewFloatArrayAttribute constructs a FLOAT_ARRAY attribute.
func NewFloatArrayAttribute(v []float32) NodeAttribute {
	return NodeAttribute{kind: AttrFloatArray, floats: v}
}

// NewStringArrayAttribute constructs a STRING_ARRAY attribute.
func NewStringArrayAttribute(v []string) NodeAttribute {
	return NodeAttribute{kind: AttrStringArray, strings: v}
}

// NewTensorArrayAttribute constructs a TENSOR_ARRAY attribute.
func NewTensorArrayAttribute(v []*tensor.Tensor) NodeAttribute {
	return NodeAttribute{kind: AttrTensorArray, tensors: v}
}

// Kind returns the stored variant.
func (a NodeAttribute) Kind() AttributeKind { return a.kind }

func (a NodeAttribute) kindMismatch(want AttributeKind) status.Status {
	return status.Newf(status.FAIL, "attribute kind mismatch: stored %v, requested %v", a.kind, want)
}

// Int64 returns the INT64 payload.
func (a NodeAttribute) Int64() (int64, status.Status) {
	if a.kind != AttrInt64 {
		return 0, a.kindMismatch(AttrInt64)
	}
	return a.i, status.Ok()
}

// Float returns the FLOAT payload.
func (a NodeAttribute) Float() (float32, status.Status) {
	if a.kind != AttrFloat {
		return 0, a.kindMismatch(AttrFloat)
	}
	return a.f, status.Ok()
}

// Str returns the STRING payload.
func (a NodeAttribute) Str() (string, status.Status) {
	if a.kind != AttrString {
		return "", a.kindMismatch(AttrString)
	}
	return a.s, status.Ok()
}

// Tensor returns the TENSOR payload.
func (a NodeAttribute) Tensor() (*tensor.Tensor, status.Status) {
	if a.kind != AttrTensor {
		return nil, a.kindMismatch(AttrTensor)
	}
	return a.t, status.Ok()
}

// Int64Array returns the INT64_ARRAY payload as a reference to the stored
// slice; callers must not mutate it.
func (a NodeAttribute) Int64Array() ([]int64, status.Status) {
	if a.kind != AttrInt64Array {
		return nil, a.kindMismatch(AttrInt64Array)
	}
	return a.ints, status.Ok()
}

// FloatArray returns the FLOAT_ARRAY payload.
func (a NodeAttribute) FloatArray() ([]float32, status.Status) {
	if a.kind != AttrFloatArray {
		return nil, a.kindMismatch(AttrFloatArray)
	}
	return a.floats, status.Ok()
}

// StringArray returns the STRING_ARRAY payload.
func (a NodeAttribute) StringArray() ([]string, status.Status) {
	if a.kind != AttrStringArray {
		return nil, a.kindMismatch(AttrStringArray)
	}
	return a.strings, status.Ok()
}

// TensorArray returns the TENSOR_ARRAY payload.
func (a NodeAttribute) TensorArray() ([]*tensor.Tensor, status.Status) {
	if a.kind != AttrTensorArray {
		return nil, a.kindMismatch(AttrTensorArray)
	}
	return a.tensors, status.Ok()
}
