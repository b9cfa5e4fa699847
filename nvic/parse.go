package nvic

import (
	"errors"
	"fmt"
	"strconv"
)

// Resolver maps symbolic interrupt names, e.g. from a device description,
// to line numbers.
type Resolver interface {
	Lookup(name string) (IRQ, bool)
}

// ParseIRQ parses a decimal or 0x-prefixed line number, falling back to res
// for names. res may be nil.
func ParseIRQ(s string, res Resolver) (IRQ, error) {
	if n, err := strconv.ParseInt(s, 0, 32); err == nil {
		return IRQ(n), nil
	}
	if res != nil {
		if irq, ok := res.Lookup(s); ok {
			return irq, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedInterrupt, s)
}

// ParsePriority parses a priority value. Values above 255 are out of
// range; the implemented range is checked by the controller.
func ParsePriority(s string) (uint8, error) {
	n, err := strconv.ParseUint(s, 0, 8)
	if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%w: %q", ErrPriorityOutOfRange, s)
	} else if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidPriority, s)
	}
	return uint8(n), nil
}
