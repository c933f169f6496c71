// Package main provides the interactive CLI for TomaSim.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/gosim/tomasulo/asm"
	"github.com/gosim/tomasulo/timing/core"
	"github.com/gosim/tomasulo/timing/latency"
)

var (
	verbose    = flag.Bool("v", false, "Print the loaded program's path and instruction count before stepping")
	configPath = flag.String("config", "", "Path to a latency configuration JSON file")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: tomasim [options] <program.asm>\n\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	programPath := flag.Arg(0)

	program, err := asm.Load(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	cfg := latency.DefaultLatencyConfig()
	if *configPath != "" {
		cfg, err = latency.LoadLatencyConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading latency config: %v\n", err)
			os.Exit(1)
		}
	}

	if *verbose {
		fmt.Printf("Loaded: %s (%d instructions)\n", programPath, len(program))
	}

	engine := core.NewEngine(program, cfg)
	runInteractive(engine)
}

// runInteractive drives the engine one cycle at a time, printing a snapshot
// and reading a keystroke between cycles. 'q' (or 'Q') quits; anything else
// requests one more cycle. The engine itself is never blocked on input —
// only this driver is.
func runInteractive(engine *core.Engine) {
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Println(engine.Snapshot().String())

		if engine.Halted() {
			fmt.Println("program complete.")
			return
		}

		fmt.Print("press enter to advance one cycle, 'q' to quit: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			// EOF on stdin (e.g. piped input exhausted): stop cleanly.
			return
		}

		if strings.EqualFold(strings.TrimSpace(line), "q") {
			return
		}

		if !engine.AdvanceOneCycle() {
			fmt.Println(engine.Snapshot().String())
			fmt.Println("program complete.")
			return
		}
	}
}
