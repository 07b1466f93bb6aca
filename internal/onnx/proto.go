// Package onnx hand-decodes the subset of the ONNX ModelProto wire format
// this module consumes. No protoc-generated code is available in this
// build environment, so the message types below are written by hand and
// expose the same nil-safe GetX() accessor idiom protoc-gen-go would have
// produced; field numbers are recorded next to each case in parser.go.
package onnx

// ModelProto is the root message of a serialized ONNX model.
type ModelProto struct {
	IrVersion       int64
	OpsetImport     []*OperatorSetIdProto
	ProducerName    string
	ProducerVersion string
	Domain          string
	ModelVersion    int64
	DocString       string
	Graph           *GraphProto
	MetadataProps   []*StringStringEntryProto
}

func (m *ModelProto) GetIrVersion() int64 {
	if m == nil {
		return 0
	}
	return m.IrVersion
}

func (m *ModelProto) GetGraph() *GraphProto {
	if m == nil {
		return nil
	}
	return m.Graph
}

func (m *ModelProto) GetOpsetImport() []*OperatorSetIdProto {
	if m == nil {
		return nil
	}
	return m.OpsetImport
}

func (m *ModelProto) GetMetadataProps() []*StringStringEntryProto {
	if m == nil {
		return nil
	}
	return m.MetadataProps
}

// GraphProto is one computation graph: nodes, declared boundary names, and
// constant initializers.
type GraphProto struct {
	Node        []*NodeProto
	Name        string
	Initializer []*TensorProto
	DocString   string
	Input       []*ValueInfoProto
	Output      []*ValueInfoProto
	ValueInfo   []*ValueInfoProto
}

func (g *GraphProto) GetNode() []*NodeProto {
	if g == nil {
		return nil
	}
	return g.Node
}

func (g *GraphProto) GetInitializer() []*TensorProto {
	if g == nil {
		return nil
	}
	return g.Initializer
}

func (g *GraphProto) GetInput() []*ValueInfoProto {
	if g == nil {
		return nil
	}
	return g.Input
}

func (g *GraphProto) GetOutput() []*ValueInfoProto {
	if g == nil {
		return nil
	}
	return g.Output
}

func (g *GraphProto) GetValueInfo() []*ValueInfoProto {
	if g == nil {
		return nil
	}
	return g.ValueInfo
}

// NodeProto is a single operator instance: its type, inputs, outputs, and
// static attributes.
type NodeProto struct {
	Input     []string
	Output    []string
	Name      string
	OpType    string
	Attribute []*AttributeProto
	DocString string
	Domain    string
}

func (n *NodeProto) GetName() string {
	if n == nil {
		return ""
	}
	return n.Name
}

func (n *NodeProto) GetOpType() string {
	if n == nil {
		return ""
	}
	return n.OpType
}

func (n *NodeProto) GetInput() []string {
	if n == nil {
		return nil
	}
	return n.Input
}

func (n *NodeProto) GetOutput() []string {
	if n == nil {
		return nil
	}
	return n.Output
}

func (n *NodeProto) GetAttribute() []*AttributeProto {
	if n == nil {
		return nil
	}
	return n.Attribute
}

// AttributeType tags which field of AttributeProto carries the payload.
type AttributeType int32

const (
	AttributeUndefined AttributeType = 0
	AttributeFloat     AttributeType = 1
	AttributeInt       AttributeType = 2
	AttributeString    AttributeType = 3
	AttributeTensor    AttributeType = 4
	AttributeGraph     AttributeType = 5
	AttributeFloats    AttributeType = 6
	AttributeInts      AttributeType = 7
	AttributeStrings   AttributeType = 8
	AttributeTensors   AttributeType = 9
	AttributeGraphs    AttributeType = 10
)

// AttributeProto is a single named, typed node attribute.
type AttributeProto struct {
	Name      string
	Type      AttributeType
	F         float32
	I         int64
	S         []byte
	T         *TensorProto
	Floats    []float32
	Ints      []int64
	Strings   [][]byte
	Tensors   []*TensorProto
	DocString string
}

func (a *AttributeProto) GetName() string {
	if a == nil {
		return ""
	}
	return a.Name
}

func (a *AttributeProto) GetType() AttributeType {
	if a == nil {
		return AttributeUndefined
	}
	return a.Type
}

// DataType is TensorProto's element-type enumeration.
type DataType int32

const (
	DataTypeUndefined  DataType = 0
	DataTypeFloat      DataType = 1
	DataTypeUint8      DataType = 2
	DataTypeInt8       DataType = 3
	DataTypeUint16     DataType = 4
	DataTypeInt16      DataType = 5
	DataTypeInt32      DataType = 6
	DataTypeInt64      DataType = 7
	DataTypeString     DataType = 8
	DataTypeBool       DataType = 9
	DataTypeFloat16    DataType = 10
	DataTypeDouble     DataType = 11
	DataTypeUint32     DataType = 12
	DataTypeUint64     DataType = 13
	DataTypeComplex64  DataType = 14
	DataTypeComplex128 DataType = 15
	DataTypeBfloat16   DataType = 16
)

// TensorProto is a tensor literal: an initializer, a Constant node's
// payload, or a TENSOR-typed attribute value.
type TensorProto struct {
	Dims      []int64
	DataType  DataType
	FloatData []float32
	Int32Data []int32
	Int64Data []int64
	Name      string
	RawData   []byte
	DocString string
}

func (t *TensorProto) GetName() string {
	if t == nil {
		return ""
	}
	return t.Name
}

func (t *TensorProto) GetDims() []int64 {
	if t == nil {
		return nil
	}
	return t.Dims
}

// ValueInfoProto describes one declared input, output, or intermediate
// value's name and (optionally) its type.
type ValueInfoProto struct {
	Name      string
	Type      *TypeProto
	DocString string
}

func (v *ValueInfoProto) GetName() string {
	if v == nil {
		return ""
	}
	return v.Name
}

func (v *ValueInfoProto) GetType() *TypeProto {
	if v == nil {
		return nil
	}
	return v.Type
}

// TypeProto wraps the one type variant this module consumes: tensor type.
type TypeProto struct {
	TensorType *TypeProtoTensor
}

func (t *TypeProto) GetTensorType() *TypeProtoTensor {
	if t == nil {
		return nil
	}
	return t.TensorType
}

// TypeProtoTensor is TypeProto.Tensor: element type plus shape.
type TypeProtoTensor struct {
	ElemType DataType
	Shape    *TensorShapeProto
}

func (t *TypeProtoTensor) GetElemType() DataType {
	if t == nil {
		return DataTypeUndefined
	}
	return t.ElemType
}

func (t *TypeProtoTensor) GetShape() *TensorShapeProto {
	if t == nil {
		return nil
	}
	return t.Shape
}

// TensorShapeProto is an ordered list of dimensions, each either a concrete
// value or an unbound symbolic name.
type TensorShapeProto struct {
	Dim []*TensorShapeProtoDimension
}

func (s *TensorShapeProto) GetDim() []*TensorShapeProtoDimension {
	if s == nil {
		return nil
	}
	return s.Dim
}

// TensorShapeProtoDimension is one dimension: a concrete DimValue when
// HasDimValue is true, otherwise a symbolic (possibly empty) DimParam.
type TensorShapeProtoDimension struct {
	DimValue    int64
	DimParam    string
	HasDimValue bool
}

// OperatorSetIdProto names one opset import: a domain and its version.
type OperatorSetIdProto struct {
	Domain  string
	Version int64
}

// StringStringEntryProto is a single metadata_props key/value pair.
type StringStringEntryProto struct {
	Key   string
	Value string
}
