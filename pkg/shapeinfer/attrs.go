package shapeinfer

import "github.com/onnx-ir/onnxir/pkg/graph"

// int64Attr returns the named INT64 attribute's value, or def if absent.
func int64Attr(attrs map[string]graph.NodeAttribute, name string, def int64) int64 {
	a, ok := attrs[name]
	if !ok {
		return def
	}
	v, st := a.Int64()
	if !st.IsOK() {
		return def
	}
	return v
}

// stringAttr returns the named STRING attribute's value, or def if absent.
func stringAttr(attrs map[string]graph.NodeAttribute, name, def string) string {
	a, ok := attrs[name]
	if !ok {
		return def
	}
	v, st := a.Str()
	if !st.IsOK() {
		return def
	}
	return v
}

// int64ArrayAttr returns the named INT64_ARRAY attribute's value, or def if
// absent.
func int64ArrayAttr(attrs map[string]graph.NodeAttribute, name string, def []int64) []int64 {
	a, ok := attrs[name]
	if !ok {
		return def
	}
	v, st := a.Int64Array()
	if !st.IsOK() {
		return def
	}
	return v
}

func repeat(v int64, n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
