package allocator

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/onnx-ir/onnxir/pkg/status"
)

// CPUAllocator hands out plain heap buffers over-allocated so the returned
// slice begins on a MinAlignment-byte boundary.
type CPUAllocator struct {
	mu             sync.Mutex
	numAllocations uint64
	bytesInUse     uint64
	bytesAllocated uint64
}

// NewCPUAllocator constructs a CPUAllocator.
func NewCPUAllocator() *CPUAllocator {
	return &CPUAllocator{}
}

// Kind implements Allocator.
func (a *CPUAllocator) Kind() Kind { return CPU }

// Alloc implements Allocator. size == 0 returns a nil, zero-length slice.
func (a *CPUAllocator) Alloc(size uint64) ([]byte, status.Status) {
	if size == 0 {
		return nil, status.Ok()
	}

	raw := make([]byte, size+MinAlignment)
	off := alignmentOffset(raw)
	buf := raw[off : off+uintptr(size)]

	atomic.AddUint64(&a.numAllocations, 1)
	a.mu.Lock()
	a.bytesInUse += size
	a.bytesAllocated += size
	a.mu.Unlock()

	return buf, status.Ok()
}

// Free implements Allocator.
func (a *CPUAllocator) Free(buf []byte) {
	if buf == nil {
		return
	}
	a.mu.Lock()
	if n := uint64(len(buf)); n <= a.bytesInUse {
		a.bytesInUse -= n
	} else {
		a.bytesInUse = 0
	}
	a.mu.Unlock()
}

// AllocArray implements Allocator.
func (a *CPUAllocator) AllocArray(n, itemSize uint64) ([]byte, status.Status) {
	return a.Alloc(n * itemSize)
}

// Stats implements Allocator.
func (a *CPUAllocator) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Stats{
		NumAllocations: atomic.LoadUint64(&a.numAllocations),
		BytesInUse:     a.bytesInUse,
		BytesAllocated: a.bytesAllocated,
	}
}

// alignmentOffset returns how far into raw the first MinAlignment-aligned
// byte sits, as a uintptr (always < MinAlignment).
func alignmentOffset(raw []byte) uintptr {
	if len(raw) == 0 {
		return 0
	}
	addr := uintptr(unsafe.Pointer(&raw[0]))
	rem := addr % MinAlignment
	if rem == 0 {
		return 0
	}
	return MinAlignment - rem
}
