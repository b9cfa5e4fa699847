package main

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"omibyte.io/nvic/profile"
	"omibyte.io/nvic/script"
)

var (
	runCmd = &cobra.Command{
		Use:   "run SCRIPT",
		Short: "Execute a command script",
		Long:  "Execute a command script, one command per line. Every command of nvicsim that changes registers may appear in a script.",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			file, err := os.Open(args[0])
			if err != nil {
				log.Fatal("file io error: ", err)
			}
			defer file.Close()

			cmds, err := script.Parse(file)
			if err != nil {
				log.Fatalf("%s: %v", args[0], err)
			}

			s := openSession()
			err = script.Exec(s.ctrl, s.resolver(), cmds)
			// Commands before a failure have taken effect, as on hardware.
			s.save()
			if err != nil {
				log.Fatalf("%s: %v", args[0], err)
			}
		},
	}

	applyCmd = &cobra.Command{
		Use:   "apply PROFILE",
		Short: "Apply a YAML interrupt profile",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			file, err := os.Open(args[0])
			if err != nil {
				log.Fatal("file io error: ", err)
			}
			defer file.Close()

			p, err := profile.Load(file)
			if err != nil {
				log.Fatalf("%s: %v", args[0], err)
			}

			s := openSession()
			err = p.Apply(s.ctrl, s.resolver())
			s.save()
			if err != nil {
				log.Fatalf("%s: %v", args[0], err)
			}
		},
	}

	resetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Return all registers to their reset value",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if err := os.Remove(rootOpts.state); err != nil && !os.IsNotExist(err) {
				log.Fatal("file io error: ", err)
			}
		},
	}
)

// commandFor exposes one script command as a subcommand.
func commandFor(name string) *cobra.Command {
	params, usage, _ := script.Usage(name)
	return &cobra.Command{
		Use:   name + " " + strings.ToUpper(strings.Join(params, " ")),
		Short: usage,
		Args:  cobra.ExactArgs(len(params)),
		Run: func(cmd *cobra.Command, args []string) {
			s := openSession()
			if err := script.Run(s.ctrl, s.resolver(), script.Command{Name: name, Args: args}); err != nil {
				log.Fatal(err)
			}
			s.save()
		},
	}
}

func init() {
	for _, name := range script.Names() {
		rootCmd.AddCommand(commandFor(name))
	}
	rootCmd.AddCommand(runCmd, applyCmd, resetCmd)
}
