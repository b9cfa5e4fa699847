package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"omibyte.io/nvic/nvic"
)

var (
	dumpOpts = struct {
		raw   bool
		debug bool
	}{}

	dumpCmd = &cobra.Command{
		Use:   "dump",
		Short: "Show the controller configuration",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			s := openSession()
			out := cmd.OutOrStdout()

			switch {
			case dumpOpts.debug:
				printer := pp.New()
				printer.SetOutput(out)
				printer.SetColoringEnabled(false)
				printer.Println(s.ctrl.State())
			case dumpOpts.raw:
				for _, addr := range s.bank.Addresses() {
					if v := s.bank.Peek(addr); v != 0 {
						fmt.Fprintf(out, "%#08x %#08x\n", addr, v)
					}
				}
			default:
				printState(out, s.ctrl.State(), s.names())
			}
		},
	}
)

func init() {
	dumpCmd.Flags().BoolVar(&dumpOpts.raw, "raw", false, "print the non-zero backing registers")
	dumpCmd.Flags().BoolVar(&dumpOpts.debug, "debug", false, "pretty-print the decoded state")
	rootCmd.AddCommand(dumpCmd)
}

// names maps lines to device interrupt names, empty without a device file.
func (s *session) names() map[nvic.IRQ]string {
	names := make(map[nvic.IRQ]string)
	if s.device != nil {
		for _, irq := range s.device.Interrupts() {
			names[nvic.IRQ(irq.Value)] = irq.Name
		}
	}
	return names
}

func label(irq nvic.IRQ, names map[nvic.IRQ]string) string {
	if name, ok := names[irq]; ok {
		return fmt.Sprintf("%d(%s)", irq, name)
	}
	return fmt.Sprint(irq)
}

func printState(w io.Writer, st nvic.State, names map[nvic.IRQ]string) {
	list := func(irqs []nvic.IRQ) string {
		if len(irqs) == 0 {
			return "-"
		}
		labels := make([]string, len(irqs))
		for i, irq := range irqs {
			labels[i] = label(irq, names)
		}
		return strings.Join(labels, " ")
	}

	fmt.Fprintf(w, "enabled:   %s\n", list(st.Enabled))
	fmt.Fprintf(w, "pending:   %s\n", list(st.Pending))

	irqs := maps.Keys(st.Priorities)
	slices.Sort(irqs)
	fmt.Fprintf(w, "priority: ")
	if len(irqs) == 0 {
		fmt.Fprintf(w, " -")
	}
	for _, irq := range irqs {
		fmt.Fprintf(w, " %s=%d", label(irq, names), st.Priorities[irq])
	}
	fmt.Fprintln(w)

	for _, es := range st.Exceptions {
		state := "always on"
		if es.Exception.HasEnableBit() {
			state = "disabled"
			if es.Enabled {
				state = "enabled"
			}
		}
		fmt.Fprintf(w, "%-13s %-9s priority %d\n", es.Exception, state, es.Priority)
	}
}
