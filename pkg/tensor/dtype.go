// Package tensor holds the typed-buffer data model: PrimitiveDataType,
// TensorShape, MemoryInfo, and the Tensor itself.
package tensor

// PrimitiveDataType is the closed enumeration of scalar element types a
// Tensor or NodeArg may carry.
type PrimitiveDataType int

const (
	Unknown PrimitiveDataType = iota
	Float32
	Float16
	Int8
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Int64
	Uint64
)

// byteWidths is the authoritative element-size table.
var byteWidths = map[PrimitiveDataType]uint64{
	Unknown: 0,
	Float32: 4,
	Float16: 2,
	Int8:    1,
	Uint8:   1,
	Int16:   2,
	Uint16:  2,
	Int32:   4,
	Uint32:  4,
	Int64:   8,
	Uint64:  8,
}

// ByteWidth returns the number of bytes a single element of d occupies.
func (d PrimitiveDataType) ByteWidth() uint64 {
	return byteWidths[d]
}

func (d PrimitiveDataType) String() string {
	switch d {
	case Float32:
		return "FLOAT32"
	case Float16:
		return "FLOAT16"
	case Int8:
		return "INT8"
	case Uint8:
		return "UINT8"
	case Int16:
		return "INT16"
	case Uint16:
		return "UINT16"
	case Int32:
		return "INT32"
	case Uint32:
		return "UINT32"
	case Int64:
		return "INT64"
	case Uint64:
		return "UINT64"
	default:
		return "UNKNOWN"
	}
}
