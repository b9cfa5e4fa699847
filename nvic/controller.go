package nvic

import (
	"errors"
	"fmt"
	"sync"

	"omibyte.io/nvic/mmio"
)

// PriorityMode selects how priority fields are written.
type PriorityMode uint8

const (
	// PriorityReplace clears the field before writing the new priority.
	PriorityReplace PriorityMode = iota
	// PriorityAccumulate ors the new priority into the field without
	// clearing it first, so repeated writes accumulate bits. It matches
	// drivers that only ever or into the priority registers.
	PriorityAccumulate
)

func (m PriorityMode) String() string {
	if m == PriorityAccumulate {
		return "accumulate"
	}
	return "replace"
}

type Option func(*Controller)

func WithLayout(l Layout) Option {
	return func(c *Controller) { c.layout = l }
}

// WithIRQCount limits the controller to interrupt lines [0, n).
func WithIRQCount(n int) Option {
	return func(c *Controller) { c.irqCount = n }
}

// WithPriorityBits sets the number of implemented priority bits.
func WithPriorityBits(n int) Option {
	return func(c *Controller) { c.priorityBits = n }
}

func WithPriorityMode(m PriorityMode) Option {
	return func(c *Controller) { c.mode = m }
}

// WithLocker serialises the read-modify-write sequences of the controller.
func WithLocker(l sync.Locker) Option {
	return func(c *Controller) { c.lock = l }
}

type nopLocker struct{}

func (nopLocker) Lock()   {}
func (nopLocker) Unlock() {}

// Controller drives one NVIC. It holds no register state of its own; every
// call reads or writes the bus.
type Controller struct {
	bus          mmio.Bus
	layout       Layout
	irqCount     int
	priorityBits int
	mode         PriorityMode
	lock         sync.Locker
}

// New returns a controller on bus. Without options it covers all 160
// interrupt lines with 3 priority bits at the ARMv7-M addresses.
func New(bus mmio.Bus, opts ...Option) (*Controller, error) {
	c := &Controller{
		bus:          bus,
		layout:       DefaultLayout,
		irqCount:     MaxIRQs,
		priorityBits: defaultPriorityBits,
		lock:         nopLocker{},
	}
	for _, opt := range opts {
		opt(c)
	}

	var errs []error
	if bus == nil {
		errs = append(errs, fmt.Errorf("%w: nil bus", ErrInvalidConfig))
	}
	if c.irqCount < 1 || c.irqCount > MaxIRQs {
		errs = append(errs, fmt.Errorf("%w: %d interrupt lines, expected 1-%d", ErrInvalidConfig, c.irqCount, MaxIRQs))
	}
	if c.priorityBits < 1 || c.priorityBits > maxFieldWidth {
		errs = append(errs, fmt.Errorf("%w: %d priority bits, expected 1-%d", ErrInvalidConfig, c.priorityBits, maxFieldWidth))
	}
	if c.mode != PriorityReplace && c.mode != PriorityAccumulate {
		errs = append(errs, fmt.Errorf("%w: priority mode %d", ErrInvalidConfig, c.mode))
	}
	if c.lock == nil {
		c.lock = nopLocker{}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return c, nil
}

// Hardware returns a controller on the live system control space.
func Hardware(opts ...Option) (*Controller, error) {
	return New(mmio.Memory{}, opts...)
}

// NewSimulator returns a controller on a simulated register bank. The
// enable and pending banks are modelled as set/clear pairs sharing state,
// as on the hardware.
func NewSimulator(opts ...Option) (*Controller, *mmio.Bank, error) {
	c, err := New(mmio.NewBank(), opts...)
	if err != nil {
		return nil, nil, err
	}
	bank := c.bus.(*mmio.Bank)
	MapBank(bank, c.layout)
	return c, bank, nil
}

// MapBank installs the set/clear aliases of layout l on bank.
func MapBank(bank *mmio.Bank, l Layout) {
	for k := uintptr(0); k < enableBanks; k++ {
		bank.Alias(l.SetEnable+4*k, mmio.WriteOneToSet, l.SetEnable+4*k)
		bank.Alias(l.ClearEnable+4*k, mmio.WriteOneToClear, l.SetEnable+4*k)
		bank.Alias(l.SetPending+4*k, mmio.WriteOneToSet, l.SetPending+4*k)
		bank.Alias(l.ClearPending+4*k, mmio.WriteOneToClear, l.SetPending+4*k)
	}
}

func (c *Controller) Layout() Layout             { return c.layout }
func (c *Controller) IRQCount() int              { return c.irqCount }
func (c *Controller) PriorityBits() int          { return c.priorityBits }
func (c *Controller) PriorityMode() PriorityMode { return c.mode }

// MaxPriority returns the numerically largest, i.e. least urgent, priority.
func (c *Controller) MaxPriority() uint8 {
	return uint8(1<<c.priorityBits - 1)
}

func (c *Controller) checkIRQ(irq IRQ) error {
	if irq < 0 || int(irq) >= c.irqCount {
		return fmt.Errorf("%w: %d, expected 0-%d", ErrUnsupportedInterrupt, int(irq), c.irqCount-1)
	}
	return nil
}

func (c *Controller) checkPriority(priority uint8) error {
	if priority > c.MaxPriority() {
		return fmt.Errorf("%w: %d, expected 0-%d", ErrPriorityOutOfRange, priority, c.MaxPriority())
	}
	return nil
}

// writePriority stores priority into 8-bit field slot of the register at
// addr according to the controller's priority mode.
func (c *Controller) writePriority(addr uintptr, slot uint, priority uint8) {
	shift := fieldShift(slot, c.priorityBits)
	mask := uint32(c.MaxPriority()) << shift
	value := uint32(priority) << shift

	reg := mmio.Reg(c.bus, addr)
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.mode == PriorityAccumulate {
		reg.SetBits(value)
	} else {
		reg.StoreBits(mask, value)
	}
}

func (c *Controller) readPriority(addr uintptr, slot uint) uint8 {
	return uint8(mmio.Reg(c.bus, addr).Field(fieldShift(slot, c.priorityBits), uint(c.priorityBits)))
}
