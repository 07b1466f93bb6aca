package onnx

import (
	"math"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
)

// appendMessage wraps payload as a length-delimited field with the given
// number, mirroring how protoc-generated Marshal code nests submessages.
func appendMessage(b []byte, num protowire.Number, payload []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	b = protowire.AppendVarint(b, uint64(len(payload)))
	return append(b, payload...)
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	b = protowire.AppendVarint(b, uint64(len(s)))
	return append(b, s...)
}

func appendVarint(b []byte, num protowire.Number, v int64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func buildNodeProto(name, opType string, inputs, outputs []string) []byte {
	var b []byte
	for _, in := range inputs {
		b = appendString(b, 1, in)
	}
	for _, out := range outputs {
		b = appendString(b, 2, out)
	}
	b = appendString(b, 3, name)
	b = appendString(b, 4, opType)
	return b
}

func buildValueInfoProto(name string, elemType DataType, dims []int64) []byte {
	var shape []byte
	for _, d := range dims {
		dim := appendVarint(nil, 1, d)
		shape = appendMessage(shape, 1, dim)
	}
	tt := appendVarint(nil, 1, int64(elemType))
	tt = appendMessage(tt, 2, shape)
	typ := appendMessage(nil, 1, tt)

	var b []byte
	b = appendString(b, 1, name)
	b = appendMessage(b, 2, typ)
	return b
}

func buildMinimalModel(nodes [][]byte, inputs, outputs [][]byte, initializers [][]byte) []byte {
	var graph []byte
	for _, n := range nodes {
		graph = appendMessage(graph, 1, n)
	}
	for _, init := range initializers {
		graph = appendMessage(graph, 5, init)
	}
	for _, in := range inputs {
		graph = appendMessage(graph, 11, in)
	}
	for _, out := range outputs {
		graph = appendMessage(graph, 12, out)
	}

	var model []byte
	model = appendVarint(model, 1, 7)
	opset := appendVarint(nil, 2, 13)
	model = appendMessage(model, 2, opset)
	model = appendMessage(model, 8, graph)
	return model
}

func TestParseSingleReluModel(t *testing.T) {
	node := buildNodeProto("r", "Relu", []string{"x"}, []string{"y"})
	in := buildValueInfoProto("x", DataTypeFloat, []int64{1, 3, 4, 4})
	out := buildValueInfoProto("y", DataTypeFloat, nil)

	data := buildMinimalModel([][]byte{node}, [][]byte{in}, [][]byte{out}, nil)

	m, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if m.IrVersion != 7 {
		t.Errorf("IrVersion = %d, want 7", m.IrVersion)
	}
	if m.Graph == nil {
		t.Fatal("Graph is nil")
	}
	if len(m.Graph.Node) != 1 {
		t.Fatalf("len(Node) = %d, want 1", len(m.Graph.Node))
	}
	n := m.Graph.Node[0]
	if n.OpType != "Relu" || n.Name != "r" {
		t.Errorf("node = %+v", n)
	}
	if len(n.Input) != 1 || n.Input[0] != "x" {
		t.Errorf("Input = %v", n.Input)
	}
	if len(n.Output) != 1 || n.Output[0] != "y" {
		t.Errorf("Output = %v", n.Output)
	}
	if len(m.Graph.Input) != 1 || m.Graph.Input[0].Name != "x" {
		t.Fatalf("Input = %+v", m.Graph.Input)
	}
	shape := m.Graph.Input[0].Type.GetTensorType().GetShape()
	if shape == nil || len(shape.Dim) != 4 {
		t.Fatalf("shape = %+v", shape)
	}
	if shape.Dim[0].DimValue != 1 || shape.Dim[2].DimValue != 4 {
		t.Errorf("dims = %+v", shape.Dim)
	}
	if len(m.OpsetImport) != 1 || m.OpsetImport[0].Version != 13 {
		t.Errorf("OpsetImport = %+v", m.OpsetImport)
	}
}

func TestParseAttributeKinds(t *testing.T) {
	var attr []byte
	attr = appendString(attr, 1, "axis")
	attr = appendVarint(attr, 3, 1)
	attr = appendVarint(attr, 20, int64(AttributeInt))

	var node []byte
	node = appendString(node, 1, "x")
	node = appendString(node, 2, "y")
	node = appendString(node, 3, "f")
	node = appendString(node, 4, "Flatten")
	node = appendMessage(node, 5, attr)

	data := buildMinimalModel([][]byte{node}, nil, nil, nil)
	m, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	n := m.Graph.Node[0]
	if len(n.Attribute) != 1 {
		t.Fatalf("len(Attribute) = %d, want 1", len(n.Attribute))
	}
	a := n.Attribute[0]
	if a.Name != "axis" || a.I != 1 || a.Type != AttributeInt {
		t.Errorf("attribute = %+v", a)
	}
}

func TestParsePackedFloatsAttribute(t *testing.T) {
	var floatsPayload []byte
	for _, f := range []float32{1, 2, 3} {
		floatsPayload = protowire.AppendFixed32(floatsPayload, math.Float32bits(f))
	}

	var attr []byte
	attr = appendString(attr, 1, "value")
	attr = appendMessage(attr, 7, floatsPayload)
	attr = appendVarint(attr, 20, int64(AttributeFloats))

	var node []byte
	node = appendString(node, 3, "c")
	node = appendString(node, 4, "Constant")
	node = appendString(node, 2, "out")
	node = appendMessage(node, 5, attr)

	data := buildMinimalModel([][]byte{node}, nil, nil, nil)
	m, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	a := m.Graph.Node[0].Attribute[0]
	if len(a.Floats) != 3 || a.Floats[1] != 2 {
		t.Errorf("Floats = %v", a.Floats)
	}
}

func TestParseInitializerRawData(t *testing.T) {
	var init []byte
	init = appendVarint(init, 1, 2)
	init = appendVarint(init, 1, 2)
	init = appendVarint(init, 2, int64(DataTypeFloat))
	init = appendString(init, 8, "W")
	raw := make([]byte, 16)
	init = appendBytesField(init, 9, raw)

	data := buildMinimalModel(nil, nil, nil, [][]byte{init})
	m, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(m.Graph.Initializer) != 1 {
		t.Fatalf("len(Initializer) = %d, want 1", len(m.Graph.Initializer))
	}
	got := m.Graph.Initializer[0]
	if got.Name != "W" || got.DataType != DataTypeFloat {
		t.Errorf("initializer = %+v", got)
	}
	if len(got.Dims) != 2 || got.Dims[0] != 2 {
		t.Errorf("Dims = %v", got.Dims)
	}
	if len(got.RawData) != 16 {
		t.Errorf("len(RawData) = %d, want 16", len(got.RawData))
	}
}

func appendBytesField(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	b = protowire.AppendVarint(b, uint64(len(v)))
	return append(b, v...)
}
