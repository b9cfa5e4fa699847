package nvic

const (
	// MaxIRQs is the number of interrupt lines covered by the register banks.
	MaxIRQs = 160

	enableBanks         = MaxIRQs / 32
	priorityBanks       = MaxIRQs / 4
	maxFieldWidth       = 8
	defaultPriorityBits = 3
)

// Layout holds the addresses of the registers driven by a Controller.
type Layout struct {
	SetEnable    uintptr // ISER0, followed by ISER1-4
	ClearEnable  uintptr // ICER0
	SetPending   uintptr // ISPR0
	ClearPending uintptr // ICPR0
	Priority     uintptr // IPR0, followed by IPR1-39

	// SystemPriority holds SHPR1 (PRI1), SHPR2 (PRI2) and SHPR3 (PRI3).
	SystemPriority [3]uintptr
	// HandlerControl is SHCSR.
	HandlerControl uintptr
}

// DefaultLayout is the ARMv7-M system control space.
var DefaultLayout = Layout{
	SetEnable:      0xE000E100,
	ClearEnable:    0xE000E180,
	SetPending:     0xE000E200,
	ClearPending:   0xE000E280,
	Priority:       0xE000E400,
	SystemPriority: [3]uintptr{0xE000ED18, 0xE000ED1C, 0xE000ED20},
	HandlerControl: 0xE000ED24,
}

func (l Layout) setEnable(irq IRQ) uintptr    { return l.SetEnable + uintptr(irq/32)*4 }
func (l Layout) clearEnable(irq IRQ) uintptr  { return l.ClearEnable + uintptr(irq/32)*4 }
func (l Layout) setPending(irq IRQ) uintptr   { return l.SetPending + uintptr(irq/32)*4 }
func (l Layout) clearPending(irq IRQ) uintptr { return l.ClearPending + uintptr(irq/32)*4 }
func (l Layout) priority(irq IRQ) uintptr     { return l.Priority + uintptr(irq/4)*4 }

// Register lists every register address of the layout: the five registers
// of each enable/pending bank, the forty priority registers, SHPR1-3 and
// SHCSR.
func (l Layout) Registers() []uintptr {
	regs := make([]uintptr, 0, 4*enableBanks+priorityBanks+4)
	for _, base := range []uintptr{l.SetEnable, l.ClearEnable, l.SetPending, l.ClearPending} {
		for k := uintptr(0); k < enableBanks; k++ {
			regs = append(regs, base+4*k)
		}
	}
	for k := uintptr(0); k < priorityBanks; k++ {
		regs = append(regs, l.Priority+4*k)
	}
	regs = append(regs, l.SystemPriority[:]...)
	return append(regs, l.HandlerControl)
}

// exceptionField locates the controls of one system exception.
type exceptionField struct {
	enableBit int  // bit in SHCSR, -1 if the exception has no enable bit
	priority  int  // index into Layout.SystemPriority
	slot      uint // 8-bit field within the priority register
}

var exceptionFields = map[Exception]exceptionField{
	MemFault:     {enableBit: 16, priority: 0, slot: 0},
	BusFault:     {enableBit: 14, priority: 0, slot: 1},
	UsageFault:   {enableBit: 18, priority: 0, slot: 2},
	SVCall:       {enableBit: -1, priority: 1, slot: 3},
	DebugMonitor: {enableBit: -1, priority: 2, slot: 0},
	PendSV:       {enableBit: -1, priority: 2, slot: 2},
	SysTick:      {enableBit: 11, priority: 2, slot: 3},
}

// fieldShift returns the shift of a bits-wide priority value stored in the
// top bits of 8-bit field slot. With 3 priority bits the shifts are 5, 13,
// 21 and 29.
func fieldShift(slot uint, bits int) uint {
	return slot*maxFieldWidth + uint(maxFieldWidth-bits)
}
