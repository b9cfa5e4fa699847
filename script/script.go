// Package script runs line-oriented controller command scripts.
//
// Each line holds one command. Words are split with POSIX shell rules and a
// word starting with # begins a comment:
//
//	enable-irq UART0
//	irq-priority 19 5        # timer 0A
//	exception-priority SysTick 1
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/buildkite/shellwords"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"omibyte.io/nvic/nvic"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrArguments      = errors.New("wrong number of arguments")
)

type Command struct {
	Line int
	Name string
	Args []string
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

type handler struct {
	args  []string
	usage string
	run   func(c *nvic.Controller, res nvic.Resolver, args []string) error
}

var commands = map[string]handler{
	"enable-irq": {
		args:  []string{"irq"},
		usage: "arm an interrupt line",
		run: func(c *nvic.Controller, res nvic.Resolver, args []string) error {
			irq, err := nvic.ParseIRQ(args[0], res)
			if err != nil {
				return err
			}
			return c.EnableInterrupt(irq)
		},
	},
	"disable-irq": {
		args:  []string{"irq"},
		usage: "disarm an interrupt line",
		run: func(c *nvic.Controller, res nvic.Resolver, args []string) error {
			irq, err := nvic.ParseIRQ(args[0], res)
			if err != nil {
				return err
			}
			return c.DisableInterrupt(irq)
		},
	},
	"irq-priority": {
		args:  []string{"irq", "priority"},
		usage: "arm an interrupt line and set its priority",
		run: func(c *nvic.Controller, res nvic.Resolver, args []string) error {
			irq, err := nvic.ParseIRQ(args[0], res)
			if err != nil {
				return err
			}
			p, err := nvic.ParsePriority(args[1])
			if err != nil {
				return err
			}
			return c.SetInterruptPriority(irq, p)
		},
	},
	"pend": {
		args:  []string{"irq"},
		usage: "set an interrupt line pending",
		run: func(c *nvic.Controller, res nvic.Resolver, args []string) error {
			irq, err := nvic.ParseIRQ(args[0], res)
			if err != nil {
				return err
			}
			return c.SetPending(irq)
		},
	},
	"unpend": {
		args:  []string{"irq"},
		usage: "clear a pending interrupt line",
		run: func(c *nvic.Controller, res nvic.Resolver, args []string) error {
			irq, err := nvic.ParseIRQ(args[0], res)
			if err != nil {
				return err
			}
			return c.ClearPending(irq)
		},
	},
	"enable-exception": {
		args:  []string{"exception"},
		usage: "enable SysTick, UsageFault, MemFault or BusFault",
		run: func(c *nvic.Controller, _ nvic.Resolver, args []string) error {
			e, err := nvic.ParseException(args[0])
			if err != nil {
				return err
			}
			return c.EnableException(e)
		},
	},
	"disable-exception": {
		args:  []string{"exception"},
		usage: "disable SysTick, UsageFault, MemFault or BusFault",
		run: func(c *nvic.Controller, _ nvic.Resolver, args []string) error {
			e, err := nvic.ParseException(args[0])
			if err != nil {
				return err
			}
			return c.DisableException(e)
		},
	},
	"exception-priority": {
		args:  []string{"exception", "priority"},
		usage: "enable a system exception and set its priority",
		run: func(c *nvic.Controller, _ nvic.Resolver, args []string) error {
			e, err := nvic.ParseException(args[0])
			if err != nil {
				return err
			}
			p, err := nvic.ParsePriority(args[1])
			if err != nil {
				return err
			}
			return c.SetExceptionPriority(e, p)
		},
	},
}

// Names returns the known command names in alphabetical order.
func Names() []string {
	names := maps.Keys(commands)
	slices.Sort(names)
	return names
}

// Usage returns the argument names and a one-line description of command
// name.
func Usage(name string) (args []string, usage string, ok bool) {
	h, ok := commands[name]
	return h.args, h.usage, ok
}

// Parse reads a script. Commands are checked for existence and arity, not
// for argument values.
func Parse(r io.Reader) ([]Command, error) {
	var (
		cmds []Command
		errs []error
	)
	s := bufio.NewScanner(r)
	for line := 1; s.Scan(); line++ {
		words, err := shellwords.SplitPosix(s.Text())
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		if i := slices.IndexFunc(words, func(w string) bool { return strings.HasPrefix(w, "#") }); i >= 0 {
			words = words[:i]
		}
		if len(words) == 0 {
			continue
		}

		cmd := Command{Line: line, Name: words[0], Args: words[1:]}
		if err := check(cmd); err != nil {
			errs = append(errs, err)
			continue
		}
		cmds = append(cmds, cmd)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cmds, nil
}

func check(cmd Command) error {
	h, ok := commands[cmd.Name]
	if !ok {
		return cmd.errorf("%w %q", ErrUnknownCommand, cmd.Name)
	}
	if len(cmd.Args) != len(h.args) {
		return cmd.errorf("%w: %s expects %s", ErrArguments, cmd.Name, strings.Join(h.args, " "))
	}
	return nil
}

// errorf prefixes the line number of commands read from a script.
func (c Command) errorf(format string, args ...any) error {
	if c.Line > 0 {
		return fmt.Errorf("line %d: "+format, append([]any{c.Line}, args...)...)
	}
	return fmt.Errorf(format, args...)
}

// Run executes a single command.
func Run(c *nvic.Controller, res nvic.Resolver, cmd Command) error {
	if err := check(cmd); err != nil {
		return err
	}
	if err := commands[cmd.Name].run(c, res, cmd.Args); err != nil {
		return cmd.errorf("%s: %w", cmd, err)
	}
	return nil
}

// Exec runs cmds in order and stops at the first failure.
func Exec(c *nvic.Controller, res nvic.Resolver, cmds []Command) error {
	for _, cmd := range cmds {
		if err := Run(c, res, cmd); err != nil {
			return err
		}
	}
	return nil
}
