// Package graph implements the computation-graph IR: NodeArg, NodeAttribute,
// Node, Edge, and the Graph that owns and validates them.
package graph

import "github.com/onnx-ir/onnxir/pkg/tensor"

// NodeArg is a named, typed edge value flowing between nodes. It is
// immutable except for SetShape, which shape inference uses to write the
// inferred output shape back into the canonical instance shared by every
// consumer.
type NodeArg struct {
	name  string
	dtype tensor.PrimitiveDataType
	shape tensor.TensorShape
}

// NewNodeArg constructs a NodeArg.
func NewNodeArg(name string, dtype tensor.PrimitiveDataType, shape tensor.TensorShape) *NodeArg {
	return &NodeArg{name: name, dtype: dtype, shape: shape}
}

// Name returns the arg's unique name.
func (a *NodeArg) Name() string { return a.name }

// DataType returns the arg's element type.
func (a *NodeArg) DataType() tensor.PrimitiveDataType { return a.dtype }

// Shape returns the arg's shape.
func (a *NodeArg) Shape() tensor.TensorShape { return a.shape }

// SetShape overwrites the arg's shape. Shape inference is the only caller.
func (a *NodeArg) SetShape(shape tensor.TensorShape) { a.shape = shape }

// SetDataType overwrites the arg's element type. Nothing in this module
// calls it; the loader never changes a NodeArg's type after creation.
func (a *NodeArg) SetDataType(dtype tensor.PrimitiveDataType) { a.dtype = dtype }

// Equal reports whether name, dtype, and shape all match.
func (a *NodeArg) Equal(other *NodeArg) bool {
	if a == other {
		return true
	}
	if a == nil || other == nil {
		return false
	}
	return a.name == other.name && a.dtype == other.dtype && a.shape.Equal(other.shape)
}

// NotEqual is the negation of Equal.
func (a *NodeArg) NotEqual(other *NodeArg) bool {
	return !a.Equal(other)
}

// Clone returns a value copy of a, detached from the original so that
// SetShape on one does not affect the other.
func (a *NodeArg) Clone() *NodeArg {
	return &NodeArg{name: a.name, dtype: a.dtype, shape: a.shape}
}
