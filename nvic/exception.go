package nvic

import (
	"fmt"
	"strings"
)

// Exception identifies a Cortex-M system exception by its exception number.
type Exception uint8

const (
	Reset        Exception = 1
	NMI          Exception = 2
	HardFault    Exception = 3
	MemFault     Exception = 4
	BusFault     Exception = 5
	UsageFault   Exception = 6
	SVCall       Exception = 11
	DebugMonitor Exception = 12
	PendSV       Exception = 14
	SysTick      Exception = 15
)

var exceptionNames = map[Exception]string{
	Reset:        "Reset",
	NMI:          "NMI",
	HardFault:    "HardFault",
	MemFault:     "MemFault",
	BusFault:     "BusFault",
	UsageFault:   "UsageFault",
	SVCall:       "SVCall",
	DebugMonitor: "DebugMonitor",
	PendSV:       "PendSV",
	SysTick:      "SysTick",
}

// Exceptions lists the exceptions whose priority can be configured, in
// exception number order.
var Exceptions = []Exception{MemFault, BusFault, UsageFault, SVCall, DebugMonitor, PendSV, SysTick}

func (e Exception) String() string {
	if name, ok := exceptionNames[e]; ok {
		return name
	}
	return fmt.Sprintf("Exception(%d)", uint8(e))
}

// Configurable reports whether the exception has a priority field.
func (e Exception) Configurable() bool {
	_, ok := exceptionFields[e]
	return ok
}

// HasEnableBit reports whether the exception can be individually enabled
// and disabled in SHCSR.
func (e Exception) HasEnableBit() bool {
	f, ok := exceptionFields[e]
	return ok && f.enableBit >= 0
}

// ParseException returns the exception with the given name. Matching is case
// insensitive and accepts the CMSIS spellings MemManage and SVC.
func ParseException(name string) (Exception, error) {
	switch strings.ToLower(name) {
	case "memmanage", "memmanagefault":
		return MemFault, nil
	case "svc":
		return SVCall, nil
	case "debugmon":
		return DebugMonitor, nil
	}
	for e, n := range exceptionNames {
		if strings.EqualFold(n, name) {
			return e, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedException, name)
}
