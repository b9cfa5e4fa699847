package svd

import (
	"errors"
	"os"
	"strings"
	"testing"

	"omibyte.io/nvic/nvic"
)

func loadTestdata(t *testing.T) *Device {
	t.Helper()
	f, err := os.Open("testdata/tm4c123.svd")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	d, err := Load(f)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestLoad(t *testing.T) {
	d := loadTestdata(t)

	if d.Name != "TM4C123GH6PM" || d.CPU.NVICPriorityBits != 3 {
		t.Errorf("device %s, %d priority bits", d.Name, d.CPU.NVICPriorityBits)
	}

	var names []string
	for _, irq := range d.Interrupts() {
		names = append(names, irq.Name)
	}
	expected := "GPIOA UART0 UART1 TIMER0A TIMER0B PWM1_FAULT"
	if got := strings.Join(names, " "); got != expected {
		t.Errorf("interrupts %q, expected %q", got, expected)
	}
}

func TestLookup(t *testing.T) {
	d := loadTestdata(t)

	tests := []struct {
		name string
		irq  nvic.IRQ
		ok   bool
	}{
		{"UART0", 5, true},
		{"uart1", 6, true},
		{"TIMER0A_IRQn", 19, true},
		{"TIMER0B_IRQ", 20, true},
		{"GPIOA_AHB", 0, false},
		{"SSI0", 0, false},
	}
	for _, tt := range tests {
		irq, ok := d.Lookup(tt.name)
		if ok != tt.ok || irq != tt.irq {
			t.Errorf("Lookup(%q) = %d, %v", tt.name, irq, ok)
		}
	}
}

func TestOptions(t *testing.T) {
	d := loadTestdata(t)

	c, _, err := nvic.NewSimulator(d.Options()...)
	if err != nil {
		t.Fatal(err)
	}
	if c.IRQCount() != 139 || c.PriorityBits() != 3 {
		t.Errorf("got %d lines, %d bits", c.IRQCount(), c.PriorityBits())
	}

	irq, err := nvic.ParseIRQ("PWM1_FAULT", d)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SetInterruptPriority(irq, 7); err != nil {
		t.Error(err)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []string{
		`<device><peripherals><peripheral><interrupt><name>X</name><value>200</value></interrupt></peripheral></peripherals></device>`,
		`<device><cpu><nvicPrioBits>9</nvicPrioBits></cpu></device>`,
	}
	for _, doc := range tests {
		if _, err := Load(strings.NewReader(doc)); !errors.Is(err, ErrInvalidDevice) {
			t.Errorf("got %v", err)
		}
	}

	if _, err := Load(strings.NewReader(`<device><cpu><nvicPrioBits>three</nvicPrioBits></cpu></device>`)); err == nil {
		t.Error("malformed integer accepted")
	}
}
