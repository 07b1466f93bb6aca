package loader

import (
	"testing"

	"github.com/onnx-ir/onnxir/internal/onnx"
	"github.com/onnx-ir/onnxir/pkg/status"
)

func valueInfo(name string, elemType onnx.DataType, dims []int64) *onnx.ValueInfoProto {
	dimProtos := make([]*onnx.TensorShapeProtoDimension, len(dims))
	for i, d := range dims {
		dimProtos[i] = &onnx.TensorShapeProtoDimension{DimValue: d, HasDimValue: true}
	}
	return &onnx.ValueInfoProto{
		Name: name,
		Type: &onnx.TypeProto{
			TensorType: &onnx.TypeProtoTensor{
				ElemType: elemType,
				Shape:    &onnx.TensorShapeProto{Dim: dimProtos},
			},
		},
	}
}

func reluModel() *onnx.ModelProto {
	return &onnx.ModelProto{
		IrVersion:   7,
		OpsetImport: []*onnx.OperatorSetIdProto{{Domain: "", Version: 13}},
		Graph: &onnx.GraphProto{
			Name:   "g",
			Node:   []*onnx.NodeProto{{Name: "r", OpType: "Relu", Input: []string{"x"}, Output: []string{"y"}}},
			Input:  []*onnx.ValueInfoProto{valueInfo("x", onnx.DataTypeFloat, []int64{1, 3, 4, 4})},
			Output: []*onnx.ValueInfoProto{valueInfo("y", onnx.DataTypeFloat, nil)},
		},
	}
}

func TestBuildModelLoadsSimpleGraph(t *testing.T) {
	m, st := buildModel(reluModel(), nil)
	if !st.IsOK() {
		t.Fatalf("buildModel failed: %v", st)
	}
	if m.IRVersion != 7 {
		t.Errorf("IRVersion = %d, want 7", m.IRVersion)
	}
	if v, ok := m.OpsetVersion(""); !ok || v != 13 {
		t.Errorf("OpsetVersion(\"\") = %d,%v, want 13,true", v, ok)
	}
	g := m.Graph()
	if len(g.GetNodes()) != 1 {
		t.Fatalf("len(GetNodes()) = %d, want 1", len(g.GetNodes()))
	}
	if g.GetNodes()[0].OpType() != "Relu" {
		t.Errorf("OpType() = %q, want Relu", g.GetNodes()[0].OpType())
	}
	if len(g.InputNames()) != 1 || g.InputNames()[0] != "x" {
		t.Errorf("InputNames() = %v", g.InputNames())
	}
}

func TestBuildModelRejectsMissingGraph(t *testing.T) {
	proto := &onnx.ModelProto{IrVersion: 7, OpsetImport: []*onnx.OperatorSetIdProto{{Version: 13}}}
	_, st := buildModel(proto, nil)
	if st.IsOK() {
		t.Fatal("expected failure for missing graph")
	}
	if st.Kind() != status.InvalidModel {
		t.Errorf("Kind() = %v, want InvalidModel", st.Kind())
	}
}

func TestBuildModelRejectsMissingOpsetImport(t *testing.T) {
	m := reluModel()
	m.OpsetImport = nil
	_, st := buildModel(m, nil)
	if st.IsOK() {
		t.Fatal("expected failure for missing opset_import")
	}
}

func TestBuildModelRejectsOldIRVersion(t *testing.T) {
	m := reluModel()
	m.IrVersion = 2
	_, st := buildModel(m, nil)
	if st.IsOK() {
		t.Fatal("expected failure for unsupported ir_version")
	}
	if st.Kind() != status.NotImplemented {
		t.Errorf("Kind() = %v, want NotImplemented", st.Kind())
	}
}

func TestBuildModelRejectsUnrecognizedIRVersion(t *testing.T) {
	m := reluModel()
	m.IrVersion = 999
	_, st := buildModel(m, nil)
	if st.IsOK() {
		t.Fatal("expected failure for unrecognized ir_version")
	}
	if st.Kind() != status.InvalidModel {
		t.Errorf("Kind() = %v, want InvalidModel", st.Kind())
	}
}

func TestConstantNodeLiftedToInitializer(t *testing.T) {
	m := reluModel()
	m.Graph.Node = append(m.Graph.Node, &onnx.NodeProto{
		OpType: "Constant",
		Output: []string{"c"},
		Attribute: []*onnx.AttributeProto{
			{Name: "value", Type: onnx.AttributeFloats, Floats: []float32{1, 2, 3}},
		},
	})

	model, st := buildModel(m, nil)
	if !st.IsOK() {
		t.Fatalf("buildModel failed: %v", st)
	}
	g := model.Graph()
	ten, ok := g.Initializer("c")
	if !ok {
		t.Fatal("expected initializer \"c\"")
	}
	if ten.Shape().Rank() != 1 || ten.Shape().Dim(0) != 3 {
		t.Errorf("shape = %s, want {3}", ten.Shape())
	}
	for _, n := range g.GetNodes() {
		if n.OpType() == "Constant" {
			t.Error("Constant node should not be inserted into the node list")
		}
	}
}

func TestInitializerWithRawDataMaterializes(t *testing.T) {
	m := reluModel()
	raw := make([]byte, 16) // 2x2 float32
	m.Graph.Initializer = []*onnx.TensorProto{
		{Name: "W", Dims: []int64{2, 2}, DataType: onnx.DataTypeFloat, RawData: raw},
	}

	model, st := buildModel(m, nil)
	if !st.IsOK() {
		t.Fatalf("buildModel failed: %v", st)
	}
	ten, ok := model.Graph().Initializer("W")
	if !ok {
		t.Fatal("expected initializer \"W\"")
	}
	if len(ten.Data()) != 16 {
		t.Errorf("len(Data()) = %d, want 16", len(ten.Data()))
	}
}

func TestInitializerRejectsNonFloat32(t *testing.T) {
	m := reluModel()
	m.Graph.Initializer = []*onnx.TensorProto{
		{Name: "W", Dims: []int64{4}, DataType: onnx.DataTypeInt64, Int64Data: []int64{1, 2, 3, 4}},
	}
	_, st := buildModel(m, nil)
	if st.IsOK() {
		t.Fatal("expected NotImplemented for non-FLOAT32 initializer")
	}
	if st.Kind() != status.NotImplemented {
		t.Errorf("Kind() = %v, want NotImplemented", st.Kind())
	}
}

func TestInitializerRejectsMismatchedRawDataLength(t *testing.T) {
	m := reluModel()
	m.Graph.Initializer = []*onnx.TensorProto{
		{Name: "W", Dims: []int64{2, 2}, DataType: onnx.DataTypeFloat, RawData: make([]byte, 8)},
	}
	_, st := buildModel(m, nil)
	if st.IsOK() {
		t.Fatal("expected failure for mismatched raw_data length")
	}
	if st.Kind() != status.InvalidModel {
		t.Errorf("Kind() = %v, want InvalidModel", st.Kind())
	}
}

func TestLoadFromMemoryRejectsEmptyData(t *testing.T) {
	_, st := LoadFromMemory(nil, nil)
	if st.IsOK() {
		t.Fatal("expected failure for empty data")
	}
	if st.Kind() != status.InvalidParam {
		t.Errorf("Kind() = %v, want InvalidParam", st.Kind())
	}
}

func TestLoadFromFileRejectsMissingFile(t *testing.T) {
	_, st := LoadFromFile("/nonexistent/path/model.onnx", nil)
	if st.IsOK() {
		t.Fatal("expected failure for missing file")
	}
	if st.Kind() != status.FileNotFound {
		t.Errorf("Kind() = %v, want FileNotFound", st.Kind())
	}
}
