package nvic_test

import (
	"errors"
	"reflect"
	"testing"

	"omibyte.io/nvic/mmio"
	"omibyte.io/nvic/nvic"
)

func TestEnableException(t *testing.T) {
	tests := []struct {
		exception nvic.Exception
		bit       uint
	}{
		{nvic.SysTick, 11},
		{nvic.BusFault, 14},
		{nvic.MemFault, 16},
		{nvic.UsageFault, 18},
	}

	for _, tt := range tests {
		t.Run(tt.exception.String(), func(t *testing.T) {
			c, bank := newSimulator(t)
			bank.Poke(shcsr, 0x0000_0400)

			if err := c.EnableException(tt.exception); err != nil {
				t.Fatal(err)
			}
			if v := bank.Peek(shcsr); v != 0x400|1<<tt.bit {
				t.Errorf("SHCSR %#x, expected %#x", v, 0x400|1<<tt.bit)
			}
			if enabled, _ := c.IsExceptionEnabled(tt.exception); !enabled {
				t.Error("not enabled")
			}

			if err := c.DisableException(tt.exception); err != nil {
				t.Fatal(err)
			}
			if v := bank.Peek(shcsr); v != 0x400 {
				t.Errorf("SHCSR %#x after disable, expected 0x400", v)
			}
		})
	}
}

func TestUnsupportedExceptionEnable(t *testing.T) {
	c, bank := newSimulator(t)
	before := fill(bank)

	for _, e := range []nvic.Exception{nvic.Reset, nvic.NMI, nvic.HardFault, nvic.SVCall, nvic.DebugMonitor, nvic.PendSV, 99} {
		if err := c.EnableException(e); !errors.Is(err, nvic.ErrUnsupportedException) {
			t.Errorf("EnableException(%v): %v", e, err)
		}
		if err := c.DisableException(e); !errors.Is(err, nvic.ErrUnsupportedException) {
			t.Errorf("DisableException(%v): %v", e, err)
		}
	}
	for _, e := range []nvic.Exception{nvic.Reset, nvic.NMI, nvic.HardFault, 0, 7} {
		if err := c.SetExceptionPriority(e, 1); !errors.Is(err, nvic.ErrUnsupportedException) {
			t.Errorf("SetExceptionPriority(%v): %v", e, err)
		}
	}

	if trace := bank.Trace(); len(trace) != 0 {
		t.Errorf("registers accessed: %v", trace)
	}
	if got := bank.Snapshot(); !reflect.DeepEqual(got, before) {
		t.Error("registers modified")
	}
}

func TestSetExceptionPriority(t *testing.T) {
	tests := []struct {
		exception nvic.Exception
		reg       uintptr
		shift     uint
		enable    uint32 // expected SHCSR
	}{
		{nvic.SysTick, pri3, 29, 1 << 11},
		{nvic.PendSV, pri3, 21, 0},
		{nvic.DebugMonitor, pri3, 5, 0},
		{nvic.SVCall, pri2, 29, 0},
		{nvic.BusFault, pri1, 13, 1 << 14},
		{nvic.UsageFault, pri1, 21, 1 << 18},
		{nvic.MemFault, pri1, 5, 1 << 16},
	}

	for _, tt := range tests {
		t.Run(tt.exception.String(), func(t *testing.T) {
			c, bank := newSimulator(t)

			if err := c.SetExceptionPriority(tt.exception, 5); err != nil {
				t.Fatal(err)
			}

			expected := map[uintptr]uint32{tt.reg: 5 << tt.shift}
			if tt.enable != 0 {
				expected[shcsr] = tt.enable
			}
			if got := nonZero(bank.Snapshot()); !reflect.DeepEqual(got, expected) {
				t.Errorf("registers %x, expected %x", got, expected)
			}
			if p, _ := c.ExceptionPriority(tt.exception); p != 5 {
				t.Errorf("priority %d, expected 5", p)
			}
		})
	}
}

func TestSVCallPriorityLeavesHandlerControl(t *testing.T) {
	c, bank := newSimulator(t)

	if err := c.SetExceptionPriority(nvic.SVCall, 3); err != nil {
		t.Fatal(err)
	}
	if v := bank.Peek(pri2); v != 3<<29 {
		t.Errorf("PRI2 %#x, expected %#x", v, 3<<29)
	}
	for _, a := range bank.Trace() {
		if a.Addr == shcsr {
			t.Errorf("SHCSR accessed: %v", a)
		}
	}
}

func TestExceptionPriorityAccumulates(t *testing.T) {
	c, bank := newSimulator(t, nvic.WithPriorityMode(nvic.PriorityAccumulate))

	for _, p := range []uint8{1, 4} {
		if err := c.SetExceptionPriority(nvic.SysTick, p); err != nil {
			t.Fatal(err)
		}
	}
	if v := bank.Peek(pri3); v != 5<<29 {
		t.Errorf("PRI3 %#x, expected %#x", v, 5<<29)
	}
}

func TestStorePriorityDoesNotEnable(t *testing.T) {
	c, bank := newSimulator(t)

	if err := c.StoreExceptionPriority(nvic.UsageFault, 2); err != nil {
		t.Fatal(err)
	}
	if err := c.StoreInterruptPriority(12, 6); err != nil {
		t.Fatal(err)
	}

	expected := map[uintptr]uint32{pri1: 2 << 21, ipr0 + 12: 6 << 5}
	if got := nonZero(bank.Snapshot()); !reflect.DeepEqual(got, expected) {
		t.Errorf("registers %x, expected %x", got, expected)
	}
}

func TestParseException(t *testing.T) {
	tests := []struct {
		in       string
		expected nvic.Exception
	}{
		{"SysTick", nvic.SysTick},
		{"systick", nvic.SysTick},
		{"MemManage", nvic.MemFault},
		{"memfault", nvic.MemFault},
		{"SVC", nvic.SVCall},
		{"pendsv", nvic.PendSV},
		{"DebugMon", nvic.DebugMonitor},
		{"HardFault", nvic.HardFault},
	}
	for _, tt := range tests {
		e, err := nvic.ParseException(tt.in)
		if err != nil || e != tt.expected {
			t.Errorf("ParseException(%q) = %v, %v", tt.in, e, err)
		}
	}
	if _, err := nvic.ParseException("Watchdog"); !errors.Is(err, nvic.ErrUnsupportedException) {
		t.Errorf("got %v", err)
	}
}

func TestState(t *testing.T) {
	c, _ := newSimulator(t)

	steps := []error{
		c.SetInterruptPriority(3, 2),
		c.EnableInterrupt(100),
		c.SetPending(64),
		c.SetExceptionPriority(nvic.SysTick, 1),
		c.EnableException(nvic.BusFault),
	}
	if err := errors.Join(steps...); err != nil {
		t.Fatal(err)
	}

	s := c.State()
	if !reflect.DeepEqual(s.Enabled, []nvic.IRQ{3, 100}) {
		t.Errorf("enabled %v", s.Enabled)
	}
	if !reflect.DeepEqual(s.Pending, []nvic.IRQ{64}) {
		t.Errorf("pending %v", s.Pending)
	}
	if !reflect.DeepEqual(s.Priorities, map[nvic.IRQ]uint8{3: 2}) {
		t.Errorf("priorities %v", s.Priorities)
	}

	got := make(map[nvic.Exception]nvic.ExceptionState)
	for _, es := range s.Exceptions {
		got[es.Exception] = es
	}
	if len(got) != len(nvic.Exceptions) {
		t.Fatalf("%d exceptions", len(got))
	}
	if es := got[nvic.SysTick]; !es.Enabled || es.Priority != 1 {
		t.Errorf("SysTick %+v", es)
	}
	if es := got[nvic.BusFault]; !es.Enabled || es.Priority != 0 {
		t.Errorf("BusFault %+v", es)
	}
	if es := got[nvic.UsageFault]; es.Enabled {
		t.Errorf("UsageFault %+v", es)
	}
}

func TestHardwareBus(t *testing.T) {
	c, err := nvic.Hardware()
	if err != nil {
		t.Fatal(err)
	}
	if c.Layout() != nvic.DefaultLayout || c.IRQCount() != nvic.MaxIRQs || c.PriorityBits() != 3 {
		t.Errorf("unexpected defaults")
	}
	var _ mmio.Bus = mmio.Memory{}
}
