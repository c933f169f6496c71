// Package main provides a pointer to the real entry point for TomaSim.
// TomaSim is a cycle-accurate Tomasulo out-of-order scheduling simulator.
//
// For the full CLI, use: go run ./cmd/tomasim
package main

import "fmt"

func main() {
	fmt.Println("TomaSim - Tomasulo Out-of-Order Scheduling Simulator")
	fmt.Println("")
	fmt.Println("Usage: tomasim [options] <program.asm>")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/tomasim' for the interactive simulator.")
}
