package nvic

// Interrupt is implemented by anything that owns one interrupt line.
type Interrupt interface {
	EnableIRQ() error
	DisableIRQ() error
	SetPriority(priority uint8) error
}

// Line binds one interrupt line to a controller.
type Line struct {
	c   *Controller
	irq IRQ
}

// Line returns the handle of interrupt irq.
func (c *Controller) Line(irq IRQ) (Line, error) {
	if err := c.checkIRQ(irq); err != nil {
		return Line{}, err
	}
	return Line{c: c, irq: irq}, nil
}

func (l Line) IRQ() IRQ { return l.irq }

func (l Line) EnableIRQ() error  { return l.c.EnableInterrupt(l.irq) }
func (l Line) DisableIRQ() error { return l.c.DisableInterrupt(l.irq) }

// SetPriority enables the line and sets its priority.
func (l Line) SetPriority(priority uint8) error {
	return l.c.SetInterruptPriority(l.irq, priority)
}

var _ Interrupt = Line{}
