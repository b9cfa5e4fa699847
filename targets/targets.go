package targets

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"omibyte.io/nvic/nvic"
)

//go:embed targets.yaml
var rawTargets []byte

var targets Targets

var ErrTargetNotFound = errors.New("target not found")

func All() Targets {
	return targets
}

type Targets []TargetInfo
type TargetInfo struct {
	Series       string   `yaml:"series"`
	Chips        []string `yaml:"chips"`
	Cpu          string   `yaml:"cpu"`
	IRQCount     int      `yaml:"irqCount"`
	PriorityBits int      `yaml:"priorityBits"`
}

// Options returns the controller options describing the target.
func (t TargetInfo) Options() []nvic.Option {
	return []nvic.Option{
		nvic.WithIRQCount(t.IRQCount),
		nvic.WithPriorityBits(t.PriorityBits),
	}
}

func (t Targets) FindBySeries(name string) (TargetInfo, error) {
	for _, target := range t {
		if target.Series == strings.ToLower(name) {
			return target, nil
		}
	}
	return TargetInfo{}, fmt.Errorf("%w: series %q", ErrTargetNotFound, name)
}

func (t Targets) FindByChip(name string) (TargetInfo, error) {
	for _, target := range t {
		if slices.Contains(target.Chips, strings.ToLower(name)) {
			return target, nil
		}
	}
	return TargetInfo{}, fmt.Errorf("%w: chip %q", ErrTargetNotFound, name)
}

// Find looks name up as a chip first and as a series second.
func (t Targets) Find(name string) (TargetInfo, error) {
	if target, err := t.FindByChip(name); err == nil {
		return target, nil
	}
	return t.FindBySeries(name)
}

// Parse decodes a target table document.
func Parse(data []byte) (Targets, error) {
	var t struct {
		Elements Targets `yaml:"targets"`
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, err
	}

	var errs []error
	for _, target := range t.Elements {
		if target.IRQCount < 1 || target.IRQCount > nvic.MaxIRQs {
			errs = append(errs, fmt.Errorf("%w: %s has %d interrupt lines", nvic.ErrInvalidConfig, target.Series, target.IRQCount))
		}
		if target.PriorityBits < 1 || target.PriorityBits > 8 {
			errs = append(errs, fmt.Errorf("%w: %s has %d priority bits", nvic.ErrInvalidConfig, target.Series, target.PriorityBits))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return t.Elements, nil
}

func init() {
	t, err := Parse(rawTargets)
	if err != nil {
		panic(err)
	}
	targets = t
}
