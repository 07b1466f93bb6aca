package tensor

import (
	"github.com/onnx-ir/onnxir/pkg/allocator"
	"github.com/onnx-ir/onnxir/pkg/status"
)

// Tensor owns or borrows a raw byte buffer, tagged with an element type,
// shape, and memory location. Tensors are move-only: Move transfers
// ownership and zeros the donor so at most one Tensor ever releases a
// given buffer.
type Tensor struct {
	name       string
	dtype      PrimitiveDataType
	shape      TensorShape
	memInfo    MemoryInfo
	buf        []byte
	byteOffset uint64
	alloc      allocator.Allocator // non-nil iff this Tensor owns buf
}

// CalcStorageSize returns bytes_per_element * element_count for the given
// dtype and shape, or 0 when the shape is empty.
func CalcStorageSize(dtype PrimitiveDataType, shape TensorShape) uint64 {
	if shape.Rank() == 0 {
		return 0
	}
	count := shape.ElementCount()
	if count <= 0 {
		return 0
	}
	return dtype.ByteWidth() * uint64(count)
}

// NewBorrowed constructs a Tensor that borrows an externally owned buffer.
// The caller guarantees buf is large enough for the shape starting at
// byteOffset; the Tensor never frees it.
func NewBorrowed(name string, dtype PrimitiveDataType, shape TensorShape, buf []byte, memInfo MemoryInfo, byteOffset uint64) *Tensor {
	return &Tensor{
		name:       name,
		dtype:      dtype,
		shape:      shape,
		memInfo:    memInfo,
		buf:        buf,
		byteOffset: byteOffset,
		alloc:      nil,
	}
}

// NewOwned allocates storage for shape/dtype through alloc and takes
// ownership of it. An empty shape yields a Tensor with a nil buffer and
// OK status.
func NewOwned(name string, dtype PrimitiveDataType, shape TensorShape, alloc allocator.Allocator) (*Tensor, status.Status) {
	size := CalcStorageSize(dtype, shape)
	if size == 0 {
		return &Tensor{name: name, dtype: dtype, shape: shape, memInfo: DefaultCPUMemoryInfo()}, status.Ok()
	}

	buf, st := alloc.Alloc(size)
	if !st.IsOK() {
		return nil, st
	}
	return &Tensor{
		name:    name,
		dtype:   dtype,
		shape:   shape,
		memInfo: DefaultCPUMemoryInfo(),
		buf:     buf,
		alloc:   alloc,
	}, status.Ok()
}

// Name returns the tensor's name.
func (t *Tensor) Name() string { return t.name }

// DataType returns the element type.
func (t *Tensor) DataType() PrimitiveDataType { return t.dtype }

// Shape returns the tensor's shape.
func (t *Tensor) Shape() TensorShape { return t.shape }

// MemoryInfo returns the tensor's memory location.
func (t *Tensor) MemoryInfo() MemoryInfo { return t.memInfo }

// Owned reports whether this Tensor releases its buffer on Release.
func (t *Tensor) Owned() bool { return t.alloc != nil }

// ByteOffset returns the byte offset into the backing buffer at which this
// tensor's data begins.
func (t *Tensor) ByteOffset() uint64 { return t.byteOffset }

// Data returns the raw bytes for this tensor, starting at ByteOffset. It
// is nil for an empty-shape tensor or after Move/Release.
func (t *Tensor) Data() []byte {
	if t.buf == nil {
		return nil
	}
	return t.buf[t.byteOffset:]
}

// Release frees the owned buffer, if any, and is idempotent. Borrowed
// tensors are unaffected (the buffer remains externally owned).
func (t *Tensor) Release() {
	if t.alloc != nil && t.buf != nil {
		t.alloc.Free(t.buf)
	}
	t.buf = nil
	t.alloc = nil
}

// Move transfers ownership of t's buffer to a new Tensor and zeros t so
// it can no longer read or release the buffer. Use this whenever a Tensor
// is handed into an initializer map, an attribute payload, or a node
// output — never copy a Tensor implicitly.
func (t *Tensor) Move() *Tensor {
	moved := &Tensor{
		name:       t.name,
		dtype:      t.dtype,
		shape:      t.shape,
		memInfo:    t.memInfo,
		buf:        t.buf,
		byteOffset: t.byteOffset,
		alloc:      t.alloc,
	}
	t.name = ""
	t.dtype = Unknown
	t.shape = TensorShape{}
	t.buf = nil
	t.alloc = nil
	t.byteOffset = 0
	return moved
}
