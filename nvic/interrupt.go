package nvic

import "omibyte.io/nvic/mmio"

// IRQ is a peripheral interrupt line number.
type IRQ int

func bit(irq IRQ) uint32 {
	return 1 << (uint(irq) & 0x1F)
}

// EnableInterrupt arms interrupt irq.
func (c *Controller) EnableInterrupt(irq IRQ) error {
	if err := c.checkIRQ(irq); err != nil {
		return err
	}
	c.bus.Store(c.layout.setEnable(irq), bit(irq))
	return nil
}

// DisableInterrupt disarms interrupt irq.
func (c *Controller) DisableInterrupt(irq IRQ) error {
	if err := c.checkIRQ(irq); err != nil {
		return err
	}
	c.bus.Store(c.layout.clearEnable(irq), bit(irq))
	return nil
}

// SetInterruptPriority enables interrupt irq and sets its priority. Nothing
// is written if either argument is out of range.
func (c *Controller) SetInterruptPriority(irq IRQ, priority uint8) error {
	if err := c.checkIRQ(irq); err != nil {
		return err
	}
	if err := c.checkPriority(priority); err != nil {
		return err
	}
	c.bus.Store(c.layout.setEnable(irq), bit(irq))
	c.writePriority(c.layout.priority(irq), uint(irq%4), priority)
	return nil
}

// StoreInterruptPriority sets the priority of interrupt irq without
// enabling it.
func (c *Controller) StoreInterruptPriority(irq IRQ, priority uint8) error {
	if err := c.checkIRQ(irq); err != nil {
		return err
	}
	if err := c.checkPriority(priority); err != nil {
		return err
	}
	c.writePriority(c.layout.priority(irq), uint(irq%4), priority)
	return nil
}

// InterruptPriority returns the priority field of interrupt irq.
func (c *Controller) InterruptPriority(irq IRQ) (uint8, error) {
	if err := c.checkIRQ(irq); err != nil {
		return 0, err
	}
	return c.readPriority(c.layout.priority(irq), uint(irq%4)), nil
}

func (c *Controller) IsEnabled(irq IRQ) (bool, error) {
	if err := c.checkIRQ(irq); err != nil {
		return false, err
	}
	return mmio.Reg(c.bus, c.layout.setEnable(irq)).HasBits(bit(irq)), nil
}

// SetPending marks interrupt irq as pending.
func (c *Controller) SetPending(irq IRQ) error {
	if err := c.checkIRQ(irq); err != nil {
		return err
	}
	c.bus.Store(c.layout.setPending(irq), bit(irq))
	return nil
}

func (c *Controller) ClearPending(irq IRQ) error {
	if err := c.checkIRQ(irq); err != nil {
		return err
	}
	c.bus.Store(c.layout.clearPending(irq), bit(irq))
	return nil
}

func (c *Controller) IsPending(irq IRQ) (bool, error) {
	if err := c.checkIRQ(irq); err != nil {
		return false, err
	}
	return mmio.Reg(c.bus, c.layout.setPending(irq)).HasBits(bit(irq)), nil
}
