package main

import (
	"fmt"
	"log"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"omibyte.io/nvic/targets"
)

var (
	targetsCmd = &cobra.Command{
		Use:   "targets",
		Short: "List the known chips",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "SERIES\tCPU\tLINES\tBITS\tCHIPS")
			for _, t := range targets.All() {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", t.Series, t.Cpu, t.IRQCount, t.PriorityBits, strings.Join(t.Chips, ","))
			}
			w.Flush()
		},
	}

	irqsCmd = &cobra.Command{
		Use:   "irqs",
		Short: "List the interrupts of the --svd device",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if len(rootOpts.svd) == 0 {
				log.Fatal("no device file specified, use --svd")
			}
			device := loadDevice(rootOpts.svd)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%d priority bits\n", device.Name, device.CPU.NVICPriorityBits)
			for _, irq := range device.Interrupts() {
				fmt.Fprintf(w, "%d\t%s\t%s\n", irq.Value, irq.Name, irq.Description)
			}
			w.Flush()
		},
	}
)

func init() {
	rootCmd.AddCommand(targetsCmd, irqsCmd)
}
