package graph

import "github.com/onnx-ir/onnxir/pkg/status"

// AddEdge validates and mirror-inserts an edge between two existing nodes.
// The source output arg and destination input arg must be the same
// NodeArg instance, or at least equal in name/dtype/shape.
func (g *Graph) AddEdge(srcID, dstID, srcIdx, dstIdx int) status.Status {
	src, ok := g.nodeByID[srcID]
	if !ok {
		return status.Newf(status.FAIL, "AddEdge: no such node id %d", srcID)
	}
	dst, ok := g.nodeByID[dstID]
	if !ok {
		return status.Newf(status.FAIL, "AddEdge: no such node id %d", dstID)
	}
	if srcIdx < 0 || srcIdx >= len(src.Outputs()) {
		return status.Newf(status.FAIL, "AddEdge: src arg index %d out of range for node %q (%d outputs)", srcIdx, src.Name(), len(src.Outputs()))
	}
	if dstIdx < 0 || dstIdx >= len(dst.Inputs()) {
		return status.Newf(status.FAIL, "AddEdge: dst arg index %d out of range for node %q (%d inputs)", dstIdx, dst.Name(), len(dst.Inputs()))
	}

	srcArg := src.Outputs()[srcIdx]
	dstArg := dst.Inputs()[dstIdx]
	if srcArg != dstArg && !srcArg.Equal(dstArg) {
		return status.Newf(status.FAIL, "AddEdge: arg type mismatch between %q and %q", srcArg.Name(), dstArg.Name())
	}

	g.mirrorAddEdge(srcID, dstID, srcIdx, dstIdx)
	return status.Ok()
}

// RemoveEdge mirror-removes a previously added edge.
func (g *Graph) RemoveEdge(srcID, dstID, srcIdx, dstIdx int) status.Status {
	src, ok := g.nodeByID[srcID]
	if !ok {
		return status.Newf(status.FAIL, "RemoveEdge: no such node id %d", srcID)
	}
	dst, ok := g.nodeByID[dstID]
	if !ok {
		return status.Newf(status.FAIL, "RemoveEdge: no such node id %d", dstID)
	}
	src.removeOutputEdge(Edge{OtherNodeID: dstID, SrcArgIndex: srcIdx, DstArgIndex: dstIdx})
	dst.removeInputEdge(Edge{OtherNodeID: srcID, SrcArgIndex: srcIdx, DstArgIndex: dstIdx})
	return status.Ok()
}

// RemoveNode deletes a node by id, provided it has no remaining output
// edges (removing it would otherwise orphan its consumers). Input edges
// are unwound first so the (former) producers' output-edge sets stay
// consistent.
func (g *Graph) RemoveNode(id int) status.Status {
	n, ok := g.nodeByID[id]
	if !ok {
		return status.Newf(status.FAIL, "RemoveNode: no such node id %d", id)
	}
	if len(n.OutputEdges()) > 0 {
		return status.Newf(status.FAIL, "RemoveNode: node %q still has %d output edge(s)", n.Name(), len(n.OutputEdges()))
	}

	for _, e := range append([]Edge(nil), n.InputEdges()...) {
		if st := g.RemoveEdge(e.OtherNodeID, id, e.SrcArgIndex, e.DstArgIndex); !st.IsOK() {
			return st
		}
	}

	delete(g.nodeByID, id)
	for i, node := range g.nodes {
		if node.id == id {
			g.nodes = append(g.nodes[:i], g.nodes[i+1:]...)
			break
		}
	}
	return status.Ok()
}
