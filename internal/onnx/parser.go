package onnx

import (
	"fmt"
	"math"
	"os"

	"google.golang.org/protobuf/encoding/protowire"
)

// ParseFile reads path and parses it as a serialized ModelProto.
func ParseFile(path string) (*ModelProto, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a serialized ModelProto from data.
func Parse(data []byte) (*ModelProto, error) {
	m := &ModelProto{}
	if err := unmarshalModel(data, m); err != nil {
		return nil, fmt.Errorf("onnx: parse model: %w", err)
	}
	return m, nil
}

// forEachField walks the top-level fields of a single embedded message,
// calling fn once per field with its number, wire type, and the bytes that
// follow the tag. fn must consume exactly as many bytes as it is given back
// via the returned n (or return an error). Unrecognized field numbers are
// the caller's responsibility to skip via skipField.
func forEachField(data []byte, fn func(num protowire.Number, typ protowire.Type, rest []byte) (int, error)) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]

		consumed, err := fn(num, typ, data)
		if err != nil {
			return err
		}
		data = data[consumed:]
	}
	return nil
}

// skipField consumes and discards one field's value (the tag has already
// been consumed) and returns the number of bytes consumed.
func skipField(typ protowire.Type, data []byte) (int, error) {
	n := protowire.ConsumeFieldValue(0, typ, data)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	return n, nil
}

func consumeVarint(data []byte) (int64, int, error) {
	v, n := protowire.ConsumeVarint(data)
	if n < 0 {
		return 0, 0, protowire.ParseError(n)
	}
	return int64(v), n, nil
}

func consumeBytes(data []byte) ([]byte, int, error) {
	v, n := protowire.ConsumeBytes(data)
	if n < 0 {
		return nil, 0, protowire.ParseError(n)
	}
	return v, n, nil
}

func consumeFixed32(data []byte) (uint32, int, error) {
	v, n := protowire.ConsumeFixed32(data)
	if n < 0 {
		return 0, 0, protowire.ParseError(n)
	}
	return v, n, nil
}

// consumePackedFloats decodes a packed repeated float field (wire type
// Bytes, 4-byte little-endian IEEE754 elements) or, if typ is Fixed32,
// falls back to the legacy unpacked single-value encoding.
func consumePackedFloats(typ protowire.Type, data []byte) ([]float32, int, error) {
	if typ == protowire.Fixed32Type {
		bits, n, err := consumeFixed32(data)
		if err != nil {
			return nil, 0, err
		}
		return []float32{math.Float32frombits(bits)}, n, nil
	}
	raw, n, err := consumeBytes(data)
	if err != nil {
		return nil, 0, err
	}
	out := make([]float32, 0, len(raw)/4)
	for i := 0; i+4 <= len(raw); i += 4 {
		bits := uint32(raw[i]) | uint32(raw[i+1])<<8 | uint32(raw[i+2])<<16 | uint32(raw[i+3])<<24
		out = append(out, math.Float32frombits(bits))
	}
	return out, n, nil
}

// consumePackedVarints decodes a packed repeated varint field, or, if typ
// is Varint, the legacy unpacked single-value encoding.
func consumePackedVarints(typ protowire.Type, data []byte) ([]int64, int, error) {
	if typ == protowire.VarintType {
		v, n, err := consumeVarint(data)
		if err != nil {
			return nil, 0, err
		}
		return []int64{v}, n, nil
	}
	raw, n, err := consumeBytes(data)
	if err != nil {
		return nil, 0, err
	}
	var out []int64
	for len(raw) > 0 {
		v, m := protowire.ConsumeVarint(raw)
		if m < 0 {
			return nil, 0, protowire.ParseError(m)
		}
		out = append(out, int64(v))
		raw = raw[m:]
	}
	return out, n, nil
}

func unmarshalModel(data []byte, m *ModelProto) error {
	return forEachField(data, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
		switch num {
		case 1: // ir_version
			v, n, err := consumeVarint(rest)
			if err != nil {
				return 0, err
			}
			m.IrVersion = v
			return n, nil
		case 2: // opset_import
			raw, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			o := &OperatorSetIdProto{}
			if err := unmarshalOperatorSetID(raw, o); err != nil {
				return 0, err
			}
			m.OpsetImport = append(m.OpsetImport, o)
			return n, nil
		case 3: // producer_name
			v, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			m.ProducerName = string(v)
			return n, nil
		case 4: // producer_version
			v, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			m.ProducerVersion = string(v)
			return n, nil
		case 5: // domain
			v, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			m.Domain = string(v)
			return n, nil
		case 6: // model_version
			v, n, err := consumeVarint(rest)
			if err != nil {
				return 0, err
			}
			m.ModelVersion = v
			return n, nil
		case 7: // doc_string
			v, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			m.DocString = string(v)
			return n, nil
		case 8: // graph
			raw, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			g := &GraphProto{}
			if err := unmarshalGraph(raw, g); err != nil {
				return 0, err
			}
			m.Graph = g
			return n, nil
		case 14: // metadata_props
			raw, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			e := &StringStringEntryProto{}
			if err := unmarshalStringStringEntry(raw, e); err != nil {
				return 0, err
			}
			m.MetadataProps = append(m.MetadataProps, e)
			return n, nil
		default:
			return skipField(typ, rest)
		}
	})
}

func unmarshalGraph(data []byte, g *GraphProto) error {
	return forEachField(data, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
		switch num {
		case 1: // node
			raw, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			nd := &NodeProto{}
			if err := unmarshalNode(raw, nd); err != nil {
				return 0, err
			}
			g.Node = append(g.Node, nd)
			return n, nil
		case 2: // name
			v, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			g.Name = string(v)
			return n, nil
		case 5: // initializer
			raw, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			t := &TensorProto{}
			if err := unmarshalTensor(raw, t); err != nil {
				return 0, err
			}
			g.Initializer = append(g.Initializer, t)
			return n, nil
		case 10: // doc_string
			v, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			g.DocString = string(v)
			return n, nil
		case 11: // input
			raw, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			v := &ValueInfoProto{}
			if err := unmarshalValueInfo(raw, v); err != nil {
				return 0, err
			}
			g.Input = append(g.Input, v)
			return n, nil
		case 12: // output
			raw, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			v := &ValueInfoProto{}
			if err := unmarshalValueInfo(raw, v); err != nil {
				return 0, err
			}
			g.Output = append(g.Output, v)
			return n, nil
		case 13: // value_info
			raw, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			v := &ValueInfoProto{}
			if err := unmarshalValueInfo(raw, v); err != nil {
				return 0, err
			}
			g.ValueInfo = append(g.ValueInfo, v)
			return n, nil
		default:
			return skipField(typ, rest)
		}
	})
}

func unmarshalNode(data []byte, nd *NodeProto) error {
	return forEachField(data, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
		switch num {
		case 1: // input
			v, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			nd.Input = append(nd.Input, string(v))
			return n, nil
		case 2: // output
			v, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			nd.Output = append(nd.Output, string(v))
			return n, nil
		case 3: // name
			v, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			nd.Name = string(v)
			return n, nil
		case 4: // op_type
			v, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			nd.OpType = string(v)
			return n, nil
		case 5: // attribute
			raw, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			a := &AttributeProto{}
			if err := unmarshalAttribute(raw, a); err != nil {
				return 0, err
			}
			nd.Attribute = append(nd.Attribute, a)
			return n, nil
		case 6: // doc_string
			v, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			nd.DocString = string(v)
			return n, nil
		case 7: // domain
			v, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			nd.Domain = string(v)
			return n, nil
		default:
			return skipField(typ, rest)
		}
	})
}

func unmarshalAttribute(data []byte, a *AttributeProto) error {
	return forEachField(data, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
		switch num {
		case 1: // name
			v, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			a.Name = string(v)
			return n, nil
		case 2: // f
			bits, n, err := consumeFixed32(rest)
			if err != nil {
				return 0, err
			}
			a.F = math.Float32frombits(bits)
			return n, nil
		case 3: // i
			v, n, err := consumeVarint(rest)
			if err != nil {
				return 0, err
			}
			a.I = v
			return n, nil
		case 4: // s
			v, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			a.S = v
			return n, nil
		case 5: // t
			raw, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			t := &TensorProto{}
			if err := unmarshalTensor(raw, t); err != nil {
				return 0, err
			}
			a.T = t
			return n, nil
		case 7: // floats (packed or legacy single)
			v, n, err := consumePackedFloats(typ, rest)
			if err != nil {
				return 0, err
			}
			a.Floats = append(a.Floats, v...)
			return n, nil
		case 8: // ints (packed or legacy single)
			v, n, err := consumePackedVarints(typ, rest)
			if err != nil {
				return 0, err
			}
			a.Ints = append(a.Ints, v...)
			return n, nil
		case 9: // strings
			v, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			a.Strings = append(a.Strings, v)
			return n, nil
		case 10: // tensors
			raw, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			t := &TensorProto{}
			if err := unmarshalTensor(raw, t); err != nil {
				return 0, err
			}
			a.Tensors = append(a.Tensors, t)
			return n, nil
		case 13: // doc_string
			v, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			a.DocString = string(v)
			return n, nil
		case 20: // type
			v, n, err := consumeVarint(rest)
			if err != nil {
				return 0, err
			}
			a.Type = AttributeType(v)
			return n, nil
		default:
			return skipField(typ, rest)
		}
	})
}

func unmarshalTensor(data []byte, t *TensorProto) error {
	return forEachField(data, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
		switch num {
		case 1: // dims (packed or legacy single)
			v, n, err := consumePackedVarints(typ, rest)
			if err != nil {
				return 0, err
			}
			t.Dims = append(t.Dims, v...)
			return n, nil
		case 2: // data_type
			v, n, err := consumeVarint(rest)
			if err != nil {
				return 0, err
			}
			t.DataType = DataType(v)
			return n, nil
		case 4: // float_data (packed or legacy single)
			v, n, err := consumePackedFloats(typ, rest)
			if err != nil {
				return 0, err
			}
			t.FloatData = append(t.FloatData, v...)
			return n, nil
		case 5: // int32_data (packed or legacy single)
			v, n, err := consumePackedVarints(typ, rest)
			if err != nil {
				return 0, err
			}
			for _, x := range v {
				t.Int32Data = append(t.Int32Data, int32(x))
			}
			return n, nil
		case 7: // int64_data (packed or legacy single)
			v, n, err := consumePackedVarints(typ, rest)
			if err != nil {
				return 0, err
			}
			t.Int64Data = append(t.Int64Data, v...)
			return n, nil
		case 8: // name
			v, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			t.Name = string(v)
			return n, nil
		case 9: // raw_data
			v, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			t.RawData = v
			return n, nil
		case 12: // doc_string
			v, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			t.DocString = string(v)
			return n, nil
		default:
			return skipField(typ, rest)
		}
	})
}

func unmarshalValueInfo(data []byte, v *ValueInfoProto) error {
	return forEachField(data, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
		switch num {
		case 1: // name
			s, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			v.Name = string(s)
			return n, nil
		case 2: // type
			raw, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			tp := &TypeProto{}
			if err := unmarshalType(raw, tp); err != nil {
				return 0, err
			}
			v.Type = tp
			return n, nil
		case 3: // doc_string
			s, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			v.DocString = string(s)
			return n, nil
		default:
			return skipField(typ, rest)
		}
	})
}

func unmarshalType(data []byte, t *TypeProto) error {
	return forEachField(data, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
		switch num {
		case 1: // tensor_type
			raw, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			tt := &TypeProtoTensor{}
			if err := unmarshalTensorType(raw, tt); err != nil {
				return 0, err
			}
			t.TensorType = tt
			return n, nil
		default:
			return skipField(typ, rest)
		}
	})
}

func unmarshalTensorType(data []byte, t *TypeProtoTensor) error {
	return forEachField(data, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
		switch num {
		case 1: // elem_type
			v, n, err := consumeVarint(rest)
			if err != nil {
				return 0, err
			}
			t.ElemType = DataType(v)
			return n, nil
		case 2: // shape
			raw, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			s := &TensorShapeProto{}
			if err := unmarshalTensorShape(raw, s); err != nil {
				return 0, err
			}
			t.Shape = s
			return n, nil
		default:
			return skipField(typ, rest)
		}
	})
}

func unmarshalTensorShape(data []byte, s *TensorShapeProto) error {
	return forEachField(data, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
		switch num {
		case 1: // dim
			raw, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			d := &TensorShapeProtoDimension{}
			if err := unmarshalDimension(raw, d); err != nil {
				return 0, err
			}
			s.Dim = append(s.Dim, d)
			return n, nil
		default:
			return skipField(typ, rest)
		}
	})
}

func unmarshalDimension(data []byte, d *TensorShapeProtoDimension) error {
	return forEachField(data, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
		switch num {
		case 1: // dim_value
			v, n, err := consumeVarint(rest)
			if err != nil {
				return 0, err
			}
			d.DimValue = v
			d.HasDimValue = true
			return n, nil
		case 2: // dim_param
			v, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			d.DimParam = string(v)
			return n, nil
		default:
			return skipField(typ, rest)
		}
	})
}

func unmarshalOperatorSetID(data []byte, o *OperatorSetIdProto) error {
	return forEachField(data, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
		switch num {
		case 1: // domain
			v, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			o.Domain = string(v)
			return n, nil
		case 2: // version
			v, n, err := consumeVarint(rest)
			if err != nil {
				return 0, err
			}
			o.Version = v
			return n, nil
		default:
			return skipField(typ, rest)
		}
	})
}

func unmarshalStringStringEntry(data []byte, e *StringStringEntryProto) error {
	return forEachField(data, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
		switch num {
		case 1: // key
			v, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			e.Key = string(v)
			return n, nil
		case 2: // value
			v, n, err := consumeBytes(rest)
			if err != nil {
				return 0, err
			}
			e.Value = string(v)
			return n, nil
		default:
			return skipField(typ, rest)
		}
	})
}
