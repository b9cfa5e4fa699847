package nvic

import "omibyte.io/nvic/mmio"

// ExceptionState is the configuration of one system exception.
type ExceptionState struct {
	Exception Exception
	// Enabled is only meaningful if Exception.HasEnableBit.
	Enabled  bool
	Priority uint8
}

// State is a decoded view of the controller registers.
type State struct {
	Enabled    []IRQ
	Pending    []IRQ
	Priorities map[IRQ]uint8 // lines with a non-zero priority
	Exceptions []ExceptionState
}

// State reads back the whole controller configuration.
func (c *Controller) State() State {
	s := State{Priorities: make(map[IRQ]uint8)}

	var enabled, pending uint32
	for irq := IRQ(0); int(irq) < c.irqCount; irq++ {
		if irq%32 == 0 {
			enabled = c.bus.Load(c.layout.setEnable(irq))
			pending = c.bus.Load(c.layout.setPending(irq))
		}
		if enabled&bit(irq) != 0 {
			s.Enabled = append(s.Enabled, irq)
		}
		if pending&bit(irq) != 0 {
			s.Pending = append(s.Pending, irq)
		}
		if p := c.readPriority(c.layout.priority(irq), uint(irq%4)); p != 0 {
			s.Priorities[irq] = p
		}
	}

	shcsr := mmio.Reg(c.bus, c.layout.HandlerControl).Load()
	for _, e := range Exceptions {
		f := exceptionFields[e]
		es := ExceptionState{
			Exception: e,
			Priority:  c.readPriority(c.layout.SystemPriority[f.priority], f.slot),
		}
		if f.enableBit >= 0 {
			es.Enabled = shcsr&(1<<f.enableBit) != 0
		}
		s.Exceptions = append(s.Exceptions, es)
	}
	return s
}
