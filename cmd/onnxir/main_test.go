package main_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
)

// buildOnnxirBinary compiles the CLI into a temp directory and returns its
// path so tests can exercise it as a subprocess.
func buildOnnxirBinary(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	bin := filepath.Join(dir, "onnxir")

	cmd := exec.Command("go", "build", "-o", bin, "./cmd/onnxir")
	cmd.Dir = moduleRoot(t)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("build onnxir: %v", err)
	}
	return bin
}

func moduleRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	return filepath.Join(wd, "..", "..")
}

func appendTag(b []byte, num protowire.Number, typ protowire.Type) []byte {
	return protowire.AppendTag(b, num, typ)
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	b = appendTag(b, num, protowire.BytesType)
	b = protowire.AppendVarint(b, uint64(len(s)))
	return append(b, s...)
}

func appendVarint(b []byte, num protowire.Number, v int64) []byte {
	b = appendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func appendMessage(b []byte, num protowire.Number, payload []byte) []byte {
	b = appendTag(b, num, protowire.BytesType)
	b = protowire.AppendVarint(b, uint64(len(payload)))
	return append(b, payload...)
}

// writeReluModel writes a minimal one-node Relu model to path, using the
// same wire-format field numbers the internal/onnx parser tests encode
// against.
func writeReluModel(t *testing.T, path string) {
	t.Helper()

	var node []byte
	node = appendString(node, 1, "x")
	node = appendString(node, 2, "y")
	node = appendString(node, 3, "r")
	node = appendString(node, 4, "Relu")

	var inType []byte
	inType = appendVarint(inType, 1, 1) // FLOAT
	inType = appendMessage(inType, 2, nil)
	var in []byte
	in = appendString(in, 1, "x")
	in = appendMessage(in, 2, appendMessage(nil, 1, inType))

	var outType []byte
	outType = appendVarint(outType, 1, 1)
	var out []byte
	out = appendString(out, 1, "y")
	out = appendMessage(out, 2, appendMessage(nil, 1, outType))

	var graph []byte
	graph = appendMessage(graph, 1, node)
	graph = appendMessage(graph, 11, in)
	graph = appendMessage(graph, 12, out)

	var m []byte
	m = appendVarint(m, 1, 7)
	m = appendMessage(m, 2, appendVarint(nil, 2, 13))
	m = appendMessage(m, 8, graph)

	if err := os.WriteFile(path, m, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLoadCommandPrintsSummary(t *testing.T) {
	bin := buildOnnxirBinary(t)
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "model.onnx")
	writeReluModel(t, modelPath)

	out, err := exec.Command(bin, "load", modelPath).CombinedOutput()
	if err != nil {
		t.Fatalf("load failed: %v\n%s", err, out)
	}
	if !strings.Contains(string(out), "nodes: 1") {
		t.Errorf("output missing node count: %s", out)
	}
}

func TestValidateCommandSucceedsOnCleanModel(t *testing.T) {
	bin := buildOnnxirBinary(t)
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "model.onnx")
	writeReluModel(t, modelPath)

	out, err := exec.Command(bin, "validate", modelPath).CombinedOutput()
	if err != nil {
		t.Fatalf("validate failed: %v\n%s", err, out)
	}
	if !strings.Contains(string(out), "ok") {
		t.Errorf("output = %s, want ok", out)
	}
}

func TestValidateCommandFailsOnMissingFile(t *testing.T) {
	bin := buildOnnxirBinary(t)
	cmd := exec.Command(bin, "validate", filepath.Join(t.TempDir(), "missing.onnx"))
	out, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatalf("expected non-zero exit, output: %s", out)
	}
}

