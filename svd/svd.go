// Package svd reads the interrupt controller description of a CMSIS-SVD
// device file.
package svd

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/exp/slices"

	"omibyte.io/nvic/nvic"
)

var ErrInvalidDevice = errors.New("invalid device description")

type DeviceElement struct {
	Name        string             `xml:"name"`
	Description string             `xml:"description"`
	Series      string             `xml:"series"`
	Vendor      string             `xml:"vendor"`
	CPU         CPUElement         `xml:"cpu"`
	Peripherals PeripheralsElement `xml:"peripherals"`
}

type CPUElement struct {
	Name             string  `xml:"name"`
	Revision         string  `xml:"revision"`
	NVICPriorityBits Integer `xml:"nvicPrioBits"`
}

type PeripheralsElement struct {
	Elements []PeripheralElement `xml:"peripheral"`
}

type PeripheralElement struct {
	Name        string             `xml:"name"`
	Group       string             `xml:"groupName"`
	Interrupts  []InterruptElement `xml:"interrupt"`
	DerivedFrom string             `xml:"derivedFrom,attr"`
}

type InterruptElement struct {
	Name        string  `xml:"name"`
	Description string  `xml:"description"`
	Value       Integer `xml:"value"`
}

// Device is a decoded device file. It resolves interrupt names to lines.
type Device struct {
	DeviceElement
	interrupts []InterruptElement
	byName     map[string]nvic.IRQ
}

// Load decodes a device file.
func Load(r io.Reader) (*Device, error) {
	var d Device
	if err := xml.NewDecoder(r).Decode(&d.DeviceElement); err != nil {
		return nil, fmt.Errorf("xml decode error: %w", err)
	}

	// Collect all the interrupts. Shared vectors appear on several
	// peripherals; keep the first definition of each value.
	for _, periph := range d.Peripherals.Elements {
		d.interrupts = append(d.interrupts, periph.Interrupts...)
	}
	slices.SortStableFunc(d.interrupts, func(a, b InterruptElement) bool {
		return a.Value < b.Value
	})
	d.interrupts = slices.CompactFunc(d.interrupts, func(a, b InterruptElement) bool {
		return a.Value == b.Value
	})

	d.byName = make(map[string]nvic.IRQ, len(d.interrupts))
	for _, irq := range d.interrupts {
		if irq.Value >= nvic.MaxIRQs {
			return nil, fmt.Errorf("%w: interrupt %s has number %d", ErrInvalidDevice, irq.Name, irq.Value)
		}
		d.byName[strings.ToUpper(irq.Name)] = nvic.IRQ(irq.Value)
	}
	if bits := d.CPU.NVICPriorityBits; bits > 8 {
		return nil, fmt.Errorf("%w: %d priority bits", ErrInvalidDevice, bits)
	}
	return &d, nil
}

// Interrupts returns the device interrupts ordered by line number.
func (d *Device) Interrupts() []InterruptElement {
	return slices.Clone(d.interrupts)
}

// Lookup resolves an interrupt name case-insensitively. The suffixes _IRQ
// and _IRQn used by vendor headers are accepted.
func (d *Device) Lookup(name string) (nvic.IRQ, bool) {
	name = strings.ToUpper(name)
	for _, suffix := range []string{"", "_IRQN", "_IRQ"} {
		if irq, ok := d.byName[strings.TrimSuffix(name, suffix)]; ok {
			return irq, true
		}
	}
	return 0, false
}

// Options returns controller options for the device: the implemented
// priority bits and enough lines to cover the highest interrupt.
func (d *Device) Options() []nvic.Option {
	var opts []nvic.Option
	if bits := d.CPU.NVICPriorityBits; bits > 0 {
		opts = append(opts, nvic.WithPriorityBits(int(bits)))
	}
	if n := len(d.interrupts); n > 0 {
		opts = append(opts, nvic.WithIRQCount(int(d.interrupts[n-1].Value)+1))
	}
	return opts
}

var _ nvic.Resolver = (*Device)(nil)
