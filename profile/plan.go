package profile

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"omibyte.io/nvic/nvic"
)

// Step is one resolved profile entry. Exception is zero for interrupt
// steps.
type Step struct {
	Name      string
	IRQ       nvic.IRQ
	Exception nvic.Exception
	Priority  *uint8
	Enabled   bool
}

// Apply performs the step on c. A disabled entry with a priority stores the
// priority without enabling the source.
func (s Step) Apply(c *nvic.Controller) error {
	if s.Exception != 0 {
		return s.applyException(c)
	}

	switch {
	case s.Priority != nil && s.Enabled:
		return c.SetInterruptPriority(s.IRQ, *s.Priority)
	case s.Priority != nil:
		if err := c.StoreInterruptPriority(s.IRQ, *s.Priority); err != nil {
			return err
		}
		return c.DisableInterrupt(s.IRQ)
	case s.Enabled:
		return c.EnableInterrupt(s.IRQ)
	default:
		return c.DisableInterrupt(s.IRQ)
	}
}

func (s Step) applyException(c *nvic.Controller) error {
	e := s.Exception
	switch {
	case s.Priority != nil && s.Enabled:
		return c.SetExceptionPriority(e, *s.Priority)
	case s.Priority != nil:
		if err := c.StoreExceptionPriority(e, *s.Priority); err != nil {
			return err
		}
		return c.DisableException(e)
	case s.Enabled:
		return c.EnableException(e)
	default:
		return c.DisableException(e)
	}
}

// Plan resolves the profile into steps ordered so that every entry follows
// the entries named in its after list.
func (p *Profile) Plan(res nvic.Resolver) ([]Step, error) {
	var (
		steps []Step
		after [][]string
		errs  []error
	)
	index := make(map[string]int)

	add := func(key string, step Step, deps []string) {
		if _, dup := index[key]; dup {
			errs = append(errs, fmt.Errorf("%w: duplicate entry %q", nvic.ErrInvalidConfig, key))
			return
		}
		index[key] = len(steps)
		steps = append(steps, step)
		after = append(after, deps)
	}

	for _, e := range p.Interrupts {
		irq, err := nvic.ParseIRQ(e.IRQ, res)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: entry %q: %v", nvic.ErrInvalidConfig, e.key(), err))
			continue
		}
		add(e.key(), Step{
			Name:     "interrupt " + e.key(),
			IRQ:      irq,
			Priority: e.Priority,
			Enabled:  e.Enabled == nil || *e.Enabled,
		}, e.After)
	}

	for _, e := range p.Exceptions {
		step, err := exceptionStep(e)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		add(e.key(), step, e.After)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return order(steps, after, index)
}

func exceptionStep(e ExceptionEntry) (Step, error) {
	exc, err := nvic.ParseException(e.Exception)
	if err != nil {
		return Step{}, fmt.Errorf("%w: %v", nvic.ErrInvalidConfig, err)
	}
	if !exc.Configurable() {
		return Step{}, fmt.Errorf("%w: %v cannot be configured", nvic.ErrInvalidConfig, exc)
	}

	enabled := e.Enabled == nil || *e.Enabled
	if !exc.HasEnableBit() {
		if !enabled {
			return Step{}, fmt.Errorf("%w: %v cannot be disabled", nvic.ErrInvalidConfig, exc)
		}
		if e.Priority == nil {
			return Step{}, fmt.Errorf("%w: %v needs a priority", nvic.ErrInvalidConfig, exc)
		}
	}

	return Step{
		Name:      "exception " + exc.String(),
		Exception: exc,
		Priority:  e.Priority,
		Enabled:   enabled,
	}, nil
}

func order(steps []Step, after [][]string, index map[string]int) ([]Step, error) {
	g := simple.NewDirectedGraph()
	for i := range steps {
		g.AddNode(simple.Node(i))
	}

	var errs []error
	for i, deps := range after {
		for _, dep := range deps {
			j, ok := index[strings.ToLower(dep)]
			switch {
			case !ok:
				errs = append(errs, fmt.Errorf("%w: %s waits for unknown entry %q", nvic.ErrInvalidConfig, steps[i].Name, dep))
			case i == j:
				errs = append(errs, fmt.Errorf("%w: %s waits for itself", nvic.ErrInvalidConfig, steps[i].Name))
			default:
				g.SetEdge(g.NewEdge(simple.Node(j), simple.Node(i)))
			}
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	// Node IDs are declaration indices, so unconstrained entries keep
	// declaration order.
	sorted, err := topo.SortStabilized(g, func(nodes []graph.Node) {
		slices.SortFunc(nodes, func(a, b graph.Node) bool { return a.ID() < b.ID() })
	})
	if err != nil {
		var cycles topo.Unorderable
		if errors.As(err, &cycles) {
			var names []string
			for _, cycle := range cycles {
				for _, n := range cycle {
					names = append(names, steps[n.ID()].Name)
				}
			}
			return nil, fmt.Errorf("%w: dependency cycle between %s", nvic.ErrInvalidConfig, strings.Join(names, ", "))
		}
		return nil, err
	}

	ordered := make([]Step, len(sorted))
	for i, n := range sorted {
		ordered[i] = steps[n.ID()]
	}
	return ordered, nil
}
