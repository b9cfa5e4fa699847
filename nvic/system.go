package nvic

import (
	"fmt"

	"omibyte.io/nvic/mmio"
)

func (c *Controller) enableField(e Exception) (exceptionField, error) {
	f, ok := exceptionFields[e]
	if !ok || f.enableBit < 0 {
		return f, fmt.Errorf("%w: %v has no enable bit", ErrUnsupportedException, e)
	}
	return f, nil
}

func (c *Controller) priorityField(e Exception) (exceptionField, error) {
	f, ok := exceptionFields[e]
	if !ok {
		return f, fmt.Errorf("%w: %v has a fixed priority", ErrUnsupportedException, e)
	}
	return f, nil
}

func (c *Controller) setHandlerBit(n int, set bool) {
	reg := mmio.Reg(c.bus, c.layout.HandlerControl)
	c.lock.Lock()
	defer c.lock.Unlock()
	if set {
		reg.SetBits(1 << n)
	} else {
		reg.ClearBits(1 << n)
	}
}

// EnableException enables SysTick, UsageFault, MemFault or BusFault in
// SHCSR. The other exceptions have no enable bit.
func (c *Controller) EnableException(e Exception) error {
	f, err := c.enableField(e)
	if err != nil {
		return err
	}
	c.setHandlerBit(f.enableBit, true)
	return nil
}

func (c *Controller) DisableException(e Exception) error {
	f, err := c.enableField(e)
	if err != nil {
		return err
	}
	c.setHandlerBit(f.enableBit, false)
	return nil
}

// SetExceptionPriority enables exception e if it has an enable bit and sets
// its priority. Reset, NMI and HardFault are rejected.
func (c *Controller) SetExceptionPriority(e Exception, priority uint8) error {
	f, err := c.priorityField(e)
	if err != nil {
		return err
	}
	if err := c.checkPriority(priority); err != nil {
		return err
	}
	if f.enableBit >= 0 {
		c.setHandlerBit(f.enableBit, true)
	}
	c.writePriority(c.layout.SystemPriority[f.priority], f.slot, priority)
	return nil
}

// StoreExceptionPriority sets the priority of exception e without touching
// SHCSR.
func (c *Controller) StoreExceptionPriority(e Exception, priority uint8) error {
	f, err := c.priorityField(e)
	if err != nil {
		return err
	}
	if err := c.checkPriority(priority); err != nil {
		return err
	}
	c.writePriority(c.layout.SystemPriority[f.priority], f.slot, priority)
	return nil
}

func (c *Controller) ExceptionPriority(e Exception) (uint8, error) {
	f, err := c.priorityField(e)
	if err != nil {
		return 0, err
	}
	return c.readPriority(c.layout.SystemPriority[f.priority], f.slot), nil
}

// IsExceptionEnabled reports the SHCSR enable bit of e.
func (c *Controller) IsExceptionEnabled(e Exception) (bool, error) {
	f, err := c.enableField(e)
	if err != nil {
		return false, err
	}
	return mmio.Reg(c.bus, c.layout.HandlerControl).HasBits(1 << f.enableBit), nil
}
