package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"omibyte.io/nvic/mmio"
	"omibyte.io/nvic/nvic"
	"omibyte.io/nvic/snapshot"
	"omibyte.io/nvic/svd"
	"omibyte.io/nvic/targets"
)

var (
	rootOpts = struct {
		state      string
		target     string
		svd        string
		accumulate bool
		verbose    bool
	}{}

	rootCmd = &cobra.Command{
		Use:   "nvicsim",
		Short: "Configure a simulated Cortex-M interrupt controller",
		Long: `nvicsim drives a simulated ARMv7-M NVIC and system handler registers.
The register state is kept in a snapshot file between invocations, so a
sequence of commands behaves like the same calls made by firmware.`,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootOpts.state, "state", "nvic.state", "register snapshot file")
	rootCmd.PersistentFlags().StringVar(&rootOpts.target, "target", "", "chip or series from the target table")
	rootCmd.PersistentFlags().StringVar(&rootOpts.svd, "svd", "", "CMSIS-SVD device file for interrupt names")
	rootCmd.PersistentFlags().BoolVar(&rootOpts.accumulate, "accumulate", false, "or priorities into their fields instead of replacing them")
	rootCmd.PersistentFlags().BoolVarP(&rootOpts.verbose, "verbose", "v", false, "log register file activity")
}

// session is the simulated controller of one invocation.
type session struct {
	ctrl   *nvic.Controller
	bank   *mmio.Bank
	device *svd.Device
}

// resolver returns the interrupt name resolver, nil without a device file.
func (s *session) resolver() nvic.Resolver {
	if s.device == nil {
		return nil
	}
	return s.device
}

func loadDevice(path string) *svd.Device {
	file, err := os.Open(path)
	if err != nil {
		log.Fatal("file io error: ", err)
	}
	defer file.Close()

	device, err := svd.Load(file)
	if err != nil {
		log.Fatalf("%s: %v", path, err)
	}
	return device
}

// openSession builds the controller from the target flags and restores the
// snapshot.
func openSession() *session {
	s := &session{}
	var opts []nvic.Option

	if len(rootOpts.target) > 0 {
		target, err := targets.All().Find(rootOpts.target)
		if err != nil {
			log.Fatal(err)
		}
		opts = append(opts, target.Options()...)
	}
	if len(rootOpts.svd) > 0 {
		s.device = loadDevice(rootOpts.svd)
		opts = append(opts, s.device.Options()...)
	}
	if rootOpts.accumulate {
		opts = append(opts, nvic.WithPriorityMode(nvic.PriorityAccumulate))
	}

	ctrl, bank, err := nvic.NewSimulator(opts...)
	if err != nil {
		log.Fatal(err)
	}
	s.ctrl, s.bank = ctrl, bank

	if err := snapshot.Load(rootOpts.state, bank); err != nil {
		log.Fatal(err)
	}
	bank.ResetTrace()
	if rootOpts.verbose {
		log.Printf("%s: %d registers, %d lines, %d priority bits, %v writes",
			rootOpts.state, len(bank.Addresses()), ctrl.IRQCount(), ctrl.PriorityBits(), ctrl.PriorityMode())
	}
	return s
}

// save writes the snapshot back.
func (s *session) save() {
	if rootOpts.verbose {
		for _, a := range s.bank.Trace() {
			log.Printf("%-5v %#08x %#08x", a.Op, a.Addr, a.Value)
		}
	}
	if err := snapshot.Save(rootOpts.state, s.bank); err != nil {
		log.Fatal("file io error: ", err)
	}
}

func main() {
	log.Default().SetFlags(0)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
