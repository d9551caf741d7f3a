// Package main provides the entry point for the LC-3 simulator.
// It loads one or more assembled object images and executes them until
// the guest halts.
package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/sarchlab/m2sim/console"
	"github.com/sarchlab/m2sim/emu"
	"github.com/sarchlab/m2sim/loader"
)

// Exit codes. The interrupt code is -2 as seen by the shell on POSIX.
const (
	exitUsage     = 2
	exitLoad      = 1
	exitFatal     = 1
	exitInterrupt = 254
)

var (
	maxInstructions uint64
	verbose         bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "lc3 [image-file1] ...",
		Short:         "LC-3 virtual machine — execute assembled LC-3 object images",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	rootCmd.Flags().Uint64Var(&maxInstructions, "max-instructions", 0,
		"Stop with an error after this many instructions (0 = no limit)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"Print execution statistics after the run")

	if err := rootCmd.Execute(); err != nil {
		// User-visible messages go to stdout; the guest's console
		// stream and ours are the same file.
		fmt.Printf("%v\n", err)
		os.Exit(exitFatal)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		fmt.Printf("lc3 [image-file1] ...\n")
		os.Exit(exitUsage)
	}

	images := make([]*loader.Image, 0, len(args))
	for _, path := range args {
		img, err := loader.Load(path)
		if err != nil {
			fmt.Printf("failed to load image: %s\n", path)
			os.Exit(exitLoad)
		}
		images = append(images, img)
	}

	con, err := console.New()
	if err != nil {
		return err
	}
	defer con.Restore()

	// Restore the terminal on interrupt, whether it arrives from the
	// raw-mode tty (re-raised by the console) or from outside.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		con.Restore()
		fmt.Println()
		os.Exit(exitInterrupt)
	}()

	e := emu.NewEmulator(
		emu.WithKeyboard(con),
		emu.WithMaxInstructions(maxInstructions),
	)
	for _, img := range images {
		e.LoadImage(img.Origin, img.Words)
	}

	if err := e.Run(); err != nil {
		con.Restore()
		return err
	}

	if verbose {
		con.Restore()
		fmt.Printf("instructions executed: %d\n", e.InstructionCount())
	}

	return nil
}
