package script

import (
	"errors"
	"strings"
	"testing"

	"omibyte.io/nvic/nvic"
)

type resolver map[string]nvic.IRQ

func (r resolver) Lookup(name string) (nvic.IRQ, bool) {
	irq, ok := r[name]
	return irq, ok
}

const bringup = `
# bring up the console
enable-irq UART0
irq-priority 19 5        # timer 0A
irq-priority "0x22" 3
disable-irq 35
pend 64
pend 65
unpend 65

exception-priority SysTick 1
exception-priority SVC 2
enable-exception BusFault
`

func TestExec(t *testing.T) {
	cmds, err := Parse(strings.NewReader(bringup))
	if err != nil {
		t.Fatal(err)
	}
	if len(cmds) != 10 {
		t.Fatalf("%d commands", len(cmds))
	}
	if cmds[0].Line != 3 || cmds[1].String() != "irq-priority 19 5" {
		t.Errorf("first commands %+v %+v", cmds[0], cmds[1])
	}

	c, _, err := nvic.NewSimulator()
	if err != nil {
		t.Fatal(err)
	}
	if err := Exec(c, resolver{"UART0": 5}, cmds); err != nil {
		t.Fatal(err)
	}

	s := c.State()
	if got := s.Enabled; len(got) != 3 || got[0] != 5 || got[1] != 19 || got[2] != 34 {
		t.Errorf("enabled %v", got)
	}
	if got := s.Pending; len(got) != 1 || got[0] != 64 {
		t.Errorf("pending %v", got)
	}
	if s.Priorities[19] != 5 || s.Priorities[34] != 3 {
		t.Errorf("priorities %v", s.Priorities)
	}
	if p, _ := c.ExceptionPriority(nvic.SVCall); p != 2 {
		t.Errorf("SVCall priority %d", p)
	}
	if enabled, _ := c.IsExceptionEnabled(nvic.BusFault); !enabled {
		t.Error("BusFault not enabled")
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(strings.NewReader("enable-irq 1 2\nreboot\npend\n"))
	if !errors.Is(err, ErrArguments) || !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("got %v", err)
	}
	for _, line := range []string{"line 1", "line 2", "line 3"} {
		if !strings.Contains(err.Error(), line) {
			t.Errorf("%q missing from %v", line, err)
		}
	}
}

func TestExecStopsOnError(t *testing.T) {
	cmds, err := Parse(strings.NewReader("enable-irq 1\nenable-exception PendSV\nenable-irq 2\n"))
	if err != nil {
		t.Fatal(err)
	}
	c, _, err := nvic.NewSimulator()
	if err != nil {
		t.Fatal(err)
	}

	err = Exec(c, nil, cmds)
	if !errors.Is(err, nvic.ErrUnsupportedException) {
		t.Fatalf("got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "line 2: enable-exception PendSV") {
		t.Errorf("error %q", err)
	}
	if enabled, _ := c.IsEnabled(2); enabled {
		t.Error("command after failure executed")
	}
}

func TestRun(t *testing.T) {
	c, _, err := nvic.NewSimulator(nvic.WithIRQCount(32))
	if err != nil {
		t.Fatal(err)
	}
	err = Run(c, nil, Command{Name: "enable-irq", Args: []string{"40"}})
	if !errors.Is(err, nvic.ErrUnsupportedInterrupt) {
		t.Fatalf("got %v", err)
	}
	if strings.HasPrefix(err.Error(), "line") {
		t.Errorf("error %q carries a line number", err)
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != 8 || names[0] != "disable-exception" {
		t.Errorf("names %v", names)
	}
	for _, name := range names {
		if _, usage, ok := Usage(name); !ok || usage == "" {
			t.Errorf("%s has no usage", name)
		}
	}
}
