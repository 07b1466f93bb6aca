package graph

import "github.com/onnx-ir/onnxir/pkg/status"

// Initialize computes the derived inputs/outputs/overridable-initializer
// sets (§3). It must run before ConstructTopology. It fails with
// INVALID_MODEL if a declared graph output corresponds to no node output,
// no initializer, and no graph input.
func (g *Graph) Initialize() status.Status {
	g.inputsIncludingInit = nil
	g.inputsExcludingInit = nil
	g.overridableInits = nil

	for _, name := range g.inputNames {
		arg, ok := g.nodeArgMap[name]
		if !ok {
			g.warnf("graph input %q has no declared type/shape", name)
			arg = g.GetOrCreateNodeArg(name, nil)
		}
		g.inputsIncludingInit = append(g.inputsIncludingInit, arg)
		if g.HasInitializer(name) {
			g.overridableInits = append(g.overridableInits, arg)
		} else {
			g.inputsExcludingInit = append(g.inputsExcludingInit, arg)
		}
	}

	nodeOutputNames := make(map[string]bool)
	for _, n := range g.nodes {
		for _, o := range n.Outputs() {
			if o.Name() != "" {
				nodeOutputNames[o.Name()] = true
			}
		}
	}
	inputNameSet := make(map[string]bool, len(g.inputNames))
	for _, name := range g.inputNames {
		inputNameSet[name] = true
	}

	g.outputs = nil
	for _, name := range g.outputNames {
		arg, ok := g.nodeArgMap[name]
		if !ok {
			return status.Newf(status.InvalidModel, "graph output %q has no NodeArg", name)
		}
		if !nodeOutputNames[name] && !g.HasInitializer(name) && !inputNameSet[name] {
			return status.Newf(status.InvalidModel, "graph output %q is not produced by any node, initializer, or graph input", name)
		}
		g.outputs = append(g.outputs, arg)
	}

	return status.Ok()
}

// ConstructTopology runs the full validation pipeline: name-uniqueness
// checks, edge construction, topological sort, shape inference, and
// dead-value cleanup. registry resolves operator types to shape inferers;
// passing nil causes inference to fail FAIL for any node (use this only
// when the caller genuinely has no inferers to offer).
func (g *Graph) ConstructTopology(registry InferenceRegistry) status.Status {
	inputsAndInits, st := g.checkInputsInitializersNames()
	if !st.IsOK() {
		return st
	}
	if st := g.checkNoDuplicateNames(inputsAndInits); !st.IsOK() {
		return st
	}
	if st := g.buildNodesConnections(inputsAndInits); !st.IsOK() {
		return st
	}
	if st := g.topologicalSort(); !st.IsOK() {
		return st
	}
	if st := g.inferShapes(registry); !st.IsOK() {
		return st
	}
	g.cleanUnusedInitializersArgs()
	return status.Ok()
}

// checkInputsInitializersNames enforces invariant 1's input half: no
// duplicate names among declared graph inputs. It returns the union of
// input and initializer names for use by later steps; duplication between
// an input name and an initializer name is permitted (overridable
// initializers).
func (g *Graph) checkInputsInitializersNames() (map[string]bool, status.Status) {
	seen := make(map[string]bool)
	for _, name := range g.inputNames {
		if name == "" {
			continue
		}
		if seen[name] {
			return nil, status.Newf(status.InvalidModel, "duplicate graph input name %q", name)
		}
		seen[name] = true
	}
	for name := range g.initializerMap {
		seen[name] = true
	}
	return seen, status.Ok()
}

// checkNoDuplicateNames enforces invariants 1 and 2's node half: every
// non-empty node name is unique, and every non-empty node-output name is
// unique and disjoint from inputsAndInits.
func (g *Graph) checkNoDuplicateNames(inputsAndInits map[string]bool) status.Status {
	nodeNames := make(map[string]bool)
	outputNames := make(map[string]bool)

	for _, n := range g.nodes {
		if n.Name() != "" {
			if nodeNames[n.Name()] {
				return status.Newf(status.InvalidModel, "duplicate node name %q", n.Name())
			}
			nodeNames[n.Name()] = true
		}
		for _, o := range n.Outputs() {
			name := o.Name()
			if name == "" {
				continue
			}
			if outputNames[name] {
				return status.Newf(status.InvalidModel, "duplicate node output name %q", name)
			}
			if inputsAndInits[name] {
				return status.Newf(status.InvalidModel, "node output %q collides with a graph input or initializer", name)
			}
			outputNames[name] = true
		}
	}
	return status.Ok()
}

// buildNodesConnections wires edges by matching each consumer input name
// against the producer map built over every node's outputs up front (not
// incrementally), so a node may be wired to a producer appearing later in
// source order. Where producer and consumer hold distinct NodeArg instances
// for the same name, their dtype and shape must match or construction fails
// INVALID_MODEL. Nodes with no inputs and no outputs (orphans) are then
// dropped, and the producer/consumer maps are rebuilt from the surviving
// node list.
func (g *Graph) buildNodesConnections(inputsAndInits map[string]bool) status.Status {
	producer := make(map[string]int, len(g.nodes))
	for _, n := range g.nodes {
		for _, arg := range n.Outputs() {
			if arg.Name() != "" {
				producer[arg.Name()] = n.id
			}
		}
	}

	for _, n := range g.nodes {
		for dstIdx, arg := range n.Inputs() {
			name := arg.Name()
			if name == "" {
				continue
			}
			if prodID, ok := producer[name]; ok {
				prodNode := g.nodeByID[prodID]
				srcIdx := outputIndex(prodNode, name)
				if prodArg := prodNode.Outputs()[srcIdx]; prodArg != arg &&
					(prodArg.DataType() != arg.DataType() || !prodArg.Shape().Equal(arg.Shape())) {
					return status.Newf(status.InvalidModel, "node %q input %q does not match the type/shape of its producer's output", n.Name(), name)
				}
				g.mirrorAddEdge(prodID, n.id, srcIdx, dstIdx)
			} else if !inputsAndInits[name] {
				return status.Newf(status.InvalidModel, "node %q input %q is not a graph input, initializer, or any node output", n.Name(), name)
			}
		}
	}

	remaining := g.nodes[:0:0]
	for _, n := range g.nodes {
		if n.IsOrphan() {
			continue
		}
		remaining = append(remaining, n)
	}
	g.nodes = remaining

	g.producerMap = make(map[string]int)
	g.consumerMap = make(map[string]map[int]bool)
	for _, n := range g.nodes {
		for _, arg := range n.Outputs() {
			if arg.Name() != "" {
				g.producerMap[arg.Name()] = n.id
			}
		}
	}
	for _, n := range g.nodes {
		for _, arg := range n.Inputs() {
			if arg.Name() == "" {
				continue
			}
			if g.consumerMap[arg.Name()] == nil {
				g.consumerMap[arg.Name()] = make(map[int]bool)
			}
			g.consumerMap[arg.Name()][n.id] = true
		}
	}

	return status.Ok()
}

func outputIndex(n *Node, name string) int {
	for i, o := range n.Outputs() {
		if o.Name() == name {
			return i
		}
	}
	return -1
}

func (g *Graph) mirrorAddEdge(srcID, dstID, srcIdx, dstIdx int) {
	src := g.nodeByID[srcID]
	dst := g.nodeByID[dstID]
	src.addOutputEdge(Edge{OtherNodeID: dstID, SrcArgIndex: srcIdx, DstArgIndex: dstIdx})
	dst.addInputEdge(Edge{OtherNodeID: srcID, SrcArgIndex: srcIdx, DstArgIndex: dstIdx})
}

// topologicalSort computes a deterministic topological order: nodes with
// no input edges seed the order directly (in insertion order); the
// remainder are discovered via an iterative post-order DFS walking
// backwards from each leaf (no output edges) along input edges. A node
// revisited while still on the active DFS path indicates a cycle.
func (g *Graph) topologicalSort() status.Status {
	visited := make(map[int]bool, len(g.nodes))
	onStack := make(map[int]bool, len(g.nodes))
	order := make([]*Node, 0, len(g.nodes))

	for _, n := range g.nodes {
		if len(n.InputEdges()) == 0 {
			order = append(order, n)
			visited[n.id] = true
		}
	}

	type frame struct {
		id        int
		processed bool
	}

	for _, leaf := range g.nodes {
		if len(leaf.OutputEdges()) != 0 || visited[leaf.id] {
			continue
		}
		stack := []frame{{id: leaf.id, processed: false}}
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if top.processed {
				order = append(order, g.nodeByID[top.id])
				delete(onStack, top.id)
				continue
			}
			if visited[top.id] {
				continue
			}
			visited[top.id] = true
			onStack[top.id] = true
			stack = append(stack, frame{id: top.id, processed: true})

			node := g.nodeByID[top.id]
			for _, e := range node.InputEdges() {
				if onStack[e.OtherNodeID] {
					return status.Newf(status.InvalidModel, "graph is not a DAG: cycle through node %q", node.Name())
				}
				if !visited[e.OtherNodeID] {
					stack = append(stack, frame{id: e.OtherNodeID, processed: false})
				}
			}
		}
	}

	if len(order) != len(g.nodes) {
		return status.Newf(status.InvalidModel, "topological sort visited %d of %d nodes", len(order), len(g.nodes))
	}

	g.topologicalNodes = order
	return status.Ok()
}

// inferShapes iterates the topological order and dispatches each node to
// its registered Inferer, writing shapes into the canonical output
// NodeArgs so every consumer observes them.
func (g *Graph) inferShapes(registry InferenceRegistry) status.Status {
	for _, n := range g.topologicalNodes {
		if registry == nil {
			return status.Newf(status.FAIL, "no shape-inference registry available for node %q (op %q)", n.Name(), n.OpType())
		}
		inferer, ok := registry.Get(n.OpType())
		if !ok {
			return status.Newf(status.FAIL, "no shape inferer registered for op type %q", n.OpType())
		}
		if st := inferer.Infer(n.Name(), n.Inputs(), n.Attributes(), n.Outputs()); !st.IsOK() {
			return st
		}
	}
	return status.Ok()
}

// cleanUnusedInitializersArgs drops every initializer and non-empty-named
// NodeArg that is unreachable from graph inputs, overridable initializers,
// graph outputs, or any surviving node's inputs/outputs.
func (g *Graph) cleanUnusedInitializersArgs() {
	live := make(map[string]bool)
	for _, arg := range g.inputsExcludingInit {
		live[arg.Name()] = true
	}
	for _, arg := range g.overridableInits {
		live[arg.Name()] = true
	}
	for _, arg := range g.outputs {
		live[arg.Name()] = true
	}
	for _, n := range g.nodes {
		for _, a := range n.Inputs() {
			if a.Name() != "" {
				live[a.Name()] = true
			}
		}
		for _, a := range n.Outputs() {
			if a.Name() != "" {
				live[a.Name()] = true
			}
		}
	}

	for name := range g.initializerMap {
		if !live[name] {
			delete(g.initializerMap, name)
		}
	}
	for name := range g.nodeArgMap {
		if name != "" && !live[name] {
			delete(g.nodeArgMap, name)
		}
	}
}
