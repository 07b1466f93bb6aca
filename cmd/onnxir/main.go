// Command onnxir loads ONNX models into this module's computation-graph
// IR and reports on them from the command line.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/onnx-ir/onnxir/pkg/loader"
	"github.com/onnx-ir/onnxir/pkg/logger"
	"github.com/onnx-ir/onnxir/pkg/shapeinfer"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "load":
		handleLoad()
	case "inspect":
		handleInspect()
	case "validate":
		handleValidate()
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: onnxir <load|inspect|validate> <model.onnx>")
}

func newLogger() *logger.Logger {
	l, err := logger.New(".onnxir-logs", "onnxir")
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
		return nil
	}
	return l
}

func handleLoad() {
	cmd := flag.NewFlagSet("load", flag.ExitOnError)
	if err := cmd.Parse(os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "error parsing flags: %v\n", err)
		os.Exit(1)
	}
	path := cmd.Arg(0)
	if path == "" {
		fmt.Fprintln(os.Stderr, "error: a model path is required")
		cmd.Usage()
		os.Exit(1)
	}

	l := newLogger()
	if l != nil {
		defer l.Close()
	}

	m, st := loader.LoadFromFile(path, l)
	if !st.IsOK() {
		fmt.Fprintf(os.Stderr, "load failed: %s\n", st)
		os.Exit(1)
	}

	g := m.Graph()
	fmt.Printf("producer: %s %s\n", m.ProducerName, m.ProducerVersion)
	fmt.Printf("ir_version: %d\n", m.IRVersion)
	fmt.Printf("nodes: %d\n", len(g.GetNodes()))
	fmt.Printf("inputs: %d\n", len(g.InputNames()))
	fmt.Printf("outputs: %d\n", len(g.OutputNames()))
}

func handleInspect() {
	cmd := flag.NewFlagSet("inspect", flag.ExitOnError)
	if err := cmd.Parse(os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "error parsing flags: %v\n", err)
		os.Exit(1)
	}
	path := cmd.Arg(0)
	if path == "" {
		fmt.Fprintln(os.Stderr, "error: a model path is required")
		cmd.Usage()
		os.Exit(1)
	}

	l := newLogger()
	if l != nil {
		defer l.Close()
	}

	m, st := loader.LoadFromFile(path, l)
	if !st.IsOK() {
		fmt.Fprintf(os.Stderr, "load failed: %s\n", st)
		os.Exit(1)
	}

	g := m.Graph()
	registry := shapeinfer.Default()
	if st := g.ConstructTopology(registry); !st.IsOK() {
		fmt.Fprintf(os.Stderr, "construct_topology failed: %s\n", st)
		os.Exit(1)
	}

	for _, n := range g.GetTopologicalNodes() {
		fmt.Printf("[%d] %s (%s)\n", n.ID(), n.Name(), n.OpType())
		for _, in := range n.Inputs() {
			fmt.Printf("    in  %s: %s %s\n", in.Name(), in.DataType(), in.Shape())
		}
		for _, out := range n.Outputs() {
			fmt.Printf("    out %s: %s %s\n", out.Name(), out.DataType(), out.Shape())
		}
	}
}

func handleValidate() {
	cmd := flag.NewFlagSet("validate", flag.ExitOnError)
	if err := cmd.Parse(os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "error parsing flags: %v\n", err)
		os.Exit(1)
	}
	path := cmd.Arg(0)
	if path == "" {
		fmt.Fprintln(os.Stderr, "error: a model path is required")
		cmd.Usage()
		os.Exit(1)
	}

	l := newLogger()
	if l != nil {
		defer l.Close()
	}

	m, st := loader.LoadFromFile(path, l)
	if !st.IsOK() {
		fmt.Fprintf(os.Stderr, "%s\n", st)
		os.Exit(1)
	}

	if st := m.Graph().ConstructTopology(shapeinfer.Default()); !st.IsOK() {
		fmt.Fprintf(os.Stderr, "%s\n", st)
		os.Exit(1)
	}

	fmt.Println("ok")
}
