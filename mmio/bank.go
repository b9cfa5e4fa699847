package mmio

import (
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Op uint8

const (
	OpLoad Op = iota
	OpStore
)

func (op Op) String() string {
	if op == OpStore {
		return "store"
	}
	return "load"
}

// Access is one recorded bus cycle. For loads Value is the value returned,
// for stores the value written by the driver.
type Access struct {
	Op    Op
	Addr  uintptr
	Value uint32
}

// WriteMode selects how a store to an address affects its backing register.
type WriteMode uint8

const (
	// WriteDirect replaces the register content.
	WriteDirect WriteMode = iota
	// WriteOneToSet sets the bits written as 1 and ignores the zeros.
	WriteOneToSet
	// WriteOneToClear clears the bits written as 1 and ignores the zeros.
	WriteOneToClear
)

type alias struct {
	mode   WriteMode
	target uintptr
}

// Bank is a simulated register file. Every address not explicitly aliased
// behaves like plain memory and reads as zero until written.
//
// Set/clear register pairs, as found on most interrupt controllers, are
// modelled with Alias: both addresses read the shared backing register and
// only act on the bits written as 1.
type Bank struct {
	mu      sync.Mutex
	regs    map[uintptr]uint32
	aliases map[uintptr]alias
	trace   []Access
	tracing bool
}

func NewBank() *Bank {
	return &Bank{
		regs:    make(map[uintptr]uint32),
		aliases: make(map[uintptr]alias),
		tracing: true,
	}
}

// Alias routes loads from addr to target and applies stores to addr to
// target according to mode. An address may alias itself.
func (b *Bank) Alias(addr uintptr, mode WriteMode, target uintptr) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.aliases[addr] = alias{mode: mode, target: target}
}

func (b *Bank) resolve(addr uintptr) (uintptr, WriteMode) {
	if a, ok := b.aliases[addr]; ok {
		return a.target, a.mode
	}
	return addr, WriteDirect
}

func (b *Bank) Load(addr uintptr) uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	target, _ := b.resolve(addr)
	v := b.regs[target]
	if b.tracing {
		b.trace = append(b.trace, Access{Op: OpLoad, Addr: addr, Value: v})
	}
	return v
}

func (b *Bank) Store(addr uintptr, value uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	target, mode := b.resolve(addr)
	switch mode {
	case WriteOneToSet:
		b.regs[target] |= value
	case WriteOneToClear:
		b.regs[target] &^= value
	default:
		b.regs[target] = value
	}
	if b.tracing {
		b.trace = append(b.trace, Access{Op: OpStore, Addr: addr, Value: value})
	}
}

// Peek returns the backing value at addr without recording an access.
func (b *Bank) Peek(addr uintptr) uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	target, _ := b.resolve(addr)
	return b.regs[target]
}

// Poke sets the backing value at addr without recording an access and
// regardless of the write mode.
func (b *Bank) Poke(addr uintptr, value uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	target, _ := b.resolve(addr)
	b.regs[target] = value
}

// Snapshot returns a copy of every backing register that was ever written.
func (b *Bank) Snapshot() map[uintptr]uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return maps.Clone(b.regs)
}

// Restore replaces the backing registers with regs. Aliases are kept.
func (b *Bank) Restore(regs map[uintptr]uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.regs = maps.Clone(regs)
	if b.regs == nil {
		b.regs = make(map[uintptr]uint32)
	}
}

// Addresses returns the written backing addresses in ascending order.
func (b *Bank) Addresses() []uintptr {
	b.mu.Lock()
	defer b.mu.Unlock()
	addrs := maps.Keys(b.regs)
	slices.Sort(addrs)
	return addrs
}

// Trace returns the recorded accesses since the last ResetTrace.
func (b *Bank) Trace() []Access {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.trace)
}

func (b *Bank) ResetTrace() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.trace = nil
}

// SetTracing enables or disables access recording.
func (b *Bank) SetTracing(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tracing = enabled
}
