// Package profile applies a declarative interrupt configuration to a
// controller.
//
// A profile is a YAML document:
//
//	interrupts:
//	  - name: uart0
//	    irq: UART0        # number or device interrupt name
//	    priority: 2
//	  - irq: 19
//	    priority: 5
//	    after: [uart0]
//	exceptions:
//	  - exception: SysTick
//	    priority: 1
//	  - exception: BusFault
//	    enabled: false
//
// Entries are applied in declaration order unless after requires an entry
// to wait for others.
package profile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"omibyte.io/nvic/nvic"
)

type Profile struct {
	Interrupts []InterruptEntry `yaml:"interrupts"`
	Exceptions []ExceptionEntry `yaml:"exceptions"`
}

type InterruptEntry struct {
	Name     string   `yaml:"name"`
	IRQ      string   `yaml:"irq"`
	Priority *uint8   `yaml:"priority"`
	Enabled  *bool    `yaml:"enabled"`
	After    []string `yaml:"after"`
}

// key names the entry for after references.
func (e InterruptEntry) key() string {
	if e.Name != "" {
		return strings.ToLower(e.Name)
	}
	return strings.ToLower(e.IRQ)
}

type ExceptionEntry struct {
	Exception string   `yaml:"exception"`
	Priority  *uint8   `yaml:"priority"`
	Enabled   *bool    `yaml:"enabled"`
	After     []string `yaml:"after"`
}

func (e ExceptionEntry) key() string {
	return strings.ToLower(e.Exception)
}

// Parse decodes a profile. Unknown fields are rejected.
func Parse(data []byte) (*Profile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var p Profile
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", nvic.ErrInvalidConfig, err)
	}
	return &p, nil
}

func Load(r io.Reader) (*Profile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Apply configures c with the profile. Interrupt names are resolved with
// res, which may be nil. Steps run in order and the first failure stops
// the application.
func (p *Profile) Apply(c *nvic.Controller, res nvic.Resolver) error {
	steps, err := p.Plan(res)
	if err != nil {
		return err
	}
	for _, step := range steps {
		if err := step.Apply(c); err != nil {
			return fmt.Errorf("%s: %w", step.Name, err)
		}
	}
	return nil
}
