package tensor

import "fmt"

// AllocatorKind is MemoryInfo's allocator tag. Its values parallel
// allocator.Kind (Invalid, CPU, Default) but are a separate type.
type AllocatorKind int

const (
	AllocatorInvalid AllocatorKind = iota
	AllocatorCPU
	AllocatorDefault
)

// MemoryKind distinguishes device-resident memory roles.
type MemoryKind int

const (
	MemDefault MemoryKind = iota
	MemCPUInput
	MemCPUOutput
)

// DeviceKind identifies the physical device a buffer lives on.
type DeviceKind int

const (
	DeviceCPU DeviceKind = iota
	DeviceGPU
)

// MemoryInfo is a hashable tuple describing where a Tensor's storage
// lives. Two MemoryInfo values are equal iff all fields match.
type MemoryInfo struct {
	AllocatorKind AllocatorKind
	MemoryKind    MemoryKind
	DeviceKind    DeviceKind
	DeviceID      int
	LogicalID     int
	Name          string
}

// DefaultCPUMemoryInfo is the MemoryInfo every CPU-resident Tensor in this
// module uses unless told otherwise.
func DefaultCPUMemoryInfo() MemoryInfo {
	return MemoryInfo{
		AllocatorKind: AllocatorCPU,
		MemoryKind:    MemDefault,
		DeviceKind:    DeviceCPU,
		DeviceID:      0,
		LogicalID:     0,
		Name:          "Cpu",
	}
}

// Equal reports whether two MemoryInfo values match in every field.
func (m MemoryInfo) Equal(other MemoryInfo) bool {
	return m == other
}

func (m MemoryInfo) String() string {
	return fmt.Sprintf("%s[alloc=%d mem=%d device=%d:%d logical=%d]",
		m.Name, m.AllocatorKind, m.MemoryKind, m.DeviceKind, m.DeviceID, m.LogicalID)
}
