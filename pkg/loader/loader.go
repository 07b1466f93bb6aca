// Package loader turns a decoded ONNX model into this module's
// computation-graph IR: envelope validation, header metadata copy, and the
// pass-ordered graph materialization described for the wire-format
// deserializer.
package loader

import (
	"os"

	"github.com/onnx-ir/onnxir/internal/onnx"
	"github.com/onnx-ir/onnxir/pkg/graph"
	"github.com/onnx-ir/onnxir/pkg/model"
	"github.com/onnx-ir/onnxir/pkg/status"
)

// minRecognizedIRVersion is the lowest ir_version this loader supports.
// Recognized versions below it are rejected as NOT_IMPLEMENTED rather than
// INVALID_MODEL.
const minRecognizedIRVersion = 4

// maxKnownIRVersion bounds the ir_version values this loader recognizes as
// valid at all. Anything higher is from a future ONNX release this build
// was never taught about.
const maxKnownIRVersion = 10

// LoadFromFile reads path and loads it as an ONNX model. warner, if
// non-nil, receives advisory warnings (duplicate initializer, missing
// input type) raised while materializing the graph.
func LoadFromFile(path string, warner graph.Warner) (*model.Model, status.Status) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, status.Newf(status.FileNotFound, "onnx model not found: %s", path)
		}
		return nil, status.Newf(status.FAIL, "read %s: %v", path, err)
	}
	return LoadFromMemory(data, warner)
}

// LoadFromMemory parses and loads an ONNX model already resident in data.
func LoadFromMemory(data []byte, warner graph.Warner) (*model.Model, status.Status) {
	if len(data) == 0 {
		return nil, status.New(status.InvalidParam, "onnx model data is empty")
	}

	proto, err := onnx.Parse(data)
	if err != nil {
		return nil, status.Newf(status.InvalidModel, "parse onnx model: %v", err)
	}
	return buildModel(proto, warner)
}

func buildModel(proto *onnx.ModelProto, warner graph.Warner) (*model.Model, status.Status) {
	if st := validateEnvelope(proto); !st.IsOK() {
		return nil, st
	}

	g := graph.NewGraph()
	g.SetWarner(warner)

	graphProto := proto.GetGraph()
	if st := runConstantPass(g, graphProto.GetNode()); !st.IsOK() {
		return nil, st
	}
	runGraphInputsPass(g, graphProto.GetInput())
	if st := runInitializersPass(g, graphProto.GetInitializer()); !st.IsOK() {
		return nil, st
	}
	runGraphOutputsPass(g, graphProto.GetOutput())
	runValueInfoPass(g, graphProto.GetValueInfo())
	if st := runNodesPass(g, graphProto.GetNode()); !st.IsOK() {
		return nil, st
	}

	if st := g.Initialize(); !st.IsOK() {
		return nil, st
	}

	m := model.New(g)
	copyHeader(m, proto)
	return m, status.Ok()
}

func validateEnvelope(proto *onnx.ModelProto) status.Status {
	if proto.GetGraph() == nil {
		return status.New(status.InvalidModel, "model has no graph")
	}
	if len(proto.GetOpsetImport()) == 0 {
		return status.New(status.InvalidModel, "model has no opset_import entries")
	}
	ir := proto.GetIrVersion()
	if ir < 1 || ir > maxKnownIRVersion {
		return status.Newf(status.InvalidModel, "unrecognized ir_version %d", ir)
	}
	if ir < minRecognizedIRVersion {
		return status.Newf(status.NotImplemented, "ir_version %d predates this module's minimum supported version %d", ir, minRecognizedIRVersion)
	}
	return status.Ok()
}

func copyHeader(m *model.Model, proto *onnx.ModelProto) {
	m.IRVersion = proto.GetIrVersion()
	m.ProducerName = proto.ProducerName
	m.ProducerVersion = proto.ProducerVersion
	m.Domain = proto.Domain
	m.ModelVersion = proto.ModelVersion
	m.DocString = proto.DocString

	for _, e := range proto.GetMetadataProps() {
		m.Metadata[e.Key] = e.Value
	}
	for _, o := range proto.GetOpsetImport() {
		m.OpsetImport[o.Domain] = o.Version
	}
}
