package mmio

import (
	"sync/atomic"
	"unsafe"
)

// Memory is the live physical address space. It must only be used on the
// target, where the addresses are backed by peripheral registers.
//
// Accesses are single 32-bit loads and stores that the compiler may not
// elide or merge.
type Memory struct{}

//go:nosplit
func (Memory) Load(addr uintptr) uint32 {
	return atomic.LoadUint32((*uint32)(unsafe.Pointer(addr)))
}

//go:nosplit
func (Memory) Store(addr uintptr, value uint32) {
	atomic.StoreUint32((*uint32)(unsafe.Pointer(addr)), value)
}
