// Package main provides the entry point for lc3sim.
// lc3sim is a faithful LC-3 instruction-set simulator.
//
// For the full CLI, use: go run ./cmd/lc3sim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("lc3sim - LC-3 Virtual Machine")
	fmt.Println("")
	fmt.Println("Usage: lc3 [image-file1] ...")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  --max-instructions  Stop after this many instructions (0 = no limit)")
	fmt.Println("  -v                  Print execution statistics after the run")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/lc3sim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/lc3sim' instead.")
	}
}
