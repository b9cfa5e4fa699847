// Package mmio provides access to 32-bit memory-mapped registers.
//
// Drivers address registers through a Bus so that the same code runs against
// the live peripheral address space (Memory) or against a simulated register
// file (Bank) off-target.
package mmio

// Bus loads and stores aligned 32-bit words at physical addresses.
type Bus interface {
	Load(addr uintptr) uint32
	Store(addr uintptr, value uint32)
}

// Register is a single 32-bit register on a bus.
type Register struct {
	Bus  Bus
	Addr uintptr
}

// Reg returns the register at addr on bus.
func Reg(bus Bus, addr uintptr) Register {
	return Register{Bus: bus, Addr: addr}
}

func (r Register) Load() uint32 {
	return r.Bus.Load(r.Addr)
}

func (r Register) Store(value uint32) {
	r.Bus.Store(r.Addr, value)
}

// SetBits ors mask into the register. This is a read-modify-write sequence.
func (r Register) SetBits(mask uint32) {
	r.Store(r.Load() | mask)
}

// ClearBits clears mask in the register. This is a read-modify-write
// sequence.
func (r Register) ClearBits(mask uint32) {
	r.Store(r.Load() &^ mask)
}

// StoreBits replaces the bits selected by mask with value. Bits of value
// outside mask are dropped.
func (r Register) StoreBits(mask, value uint32) {
	r.Store(r.Load()&^mask | value&mask)
}

// HasBits reports whether all bits of mask are set.
func (r Register) HasBits(mask uint32) bool {
	return r.Load()&mask == mask
}

// Field returns the value of the width-bit field at shift.
func (r Register) Field(shift, width uint) uint32 {
	return (r.Load() >> shift) & (1<<width - 1)
}
