package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"buttonled/core"
	"buttonled/host/monitor"
	"buttonled/host/serial"
	"buttonled/host/sim"
	"buttonled/protocol"
)

var (
	mode    = flag.String("mode", "monitor", "monitor: read telemetry from a board; sim: simulate the board")
	device  = flag.String("device", "/dev/ttyACM0", "Serial device path (monitor mode)")
	baud    = flag.Int("baud", serial.DefaultBaud, "Baud rate (monitor mode)")
	clockHz = flag.Uint("clock", 16000000, "Simulated core clock in Hz (sim mode)")
	pulldn  = flag.Bool("pulldown", false, "Simulate a pull-down button switched to supply (sim mode)")
	verbose = flag.Bool("verbose", false, "Enable verbose output")
)

func main() {
	flag.Parse()

	fmt.Println("buttonled host")
	fmt.Println("==============")
	fmt.Println()

	var err error
	switch *mode {
	case "monitor":
		err = runMonitor()
	case "sim":
		err = runSim()
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// printHandler prints decoded telemetry to stdout
func printHandler() monitor.Handler {
	return monitor.Handler{
		Ready: func(r monitor.Ready) {
			fmt.Printf("[ready] led=%s button=%s delay=%d\n", r.LED, r.Button, r.DelayIterations)
		},
		Event: func(e core.Event) {
			if e.Type == core.EvtToggle || *verbose {
				fmt.Printf("[event] %s\n", e)
			}
		},
	}
}

func runMonitor() error {
	fmt.Printf("Connecting to board on %s...\n", *device)
	m, err := monitor.Connect(*device, *baud, printHandler())
	if err != nil {
		return err
	}
	fmt.Println("Connected. Press Ctrl-C to exit.")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	select {
	case <-interrupt:
	case <-m.Done():
		fmt.Println("Port closed")
	}

	stats := m.Stats()
	if err := m.Stop(); err != nil {
		return fmt.Errorf("failed to close port: %w", err)
	}
	fmt.Printf("frames=%d messages=%d desyncs=%d dropped=%d\n",
		stats.Frames, stats.Messages, stats.Desyncs, stats.Dropped)
	return nil
}

func runSim() error {
	if *clockHz == 0 {
		return fmt.Errorf("clock must be positive")
	}

	board := core.DiscoveryBoard
	wiring := sim.SwitchToGround
	if *pulldn {
		board.ButtonPull = core.PullDown
		wiring = sim.SwitchToSupply
	}

	machine := sim.New(board, wiring, sim.CalibratedWait(uint32(*clockHz), sim.DefaultCyclesPerIteration))

	// The simulated firmware's telemetry goes through the same decoder a
	// real board's would
	port := serial.NewLoopback()
	mon := monitor.New(port, printHandler())
	mon.Start()
	defer mon.Stop()

	out := protocol.NewScratchOutput()
	reporter := protocol.NewReporter(out)
	machine.SetEventHandler(func(e core.Event) {
		if e.Type == core.EvtInit {
			_ = core.ReportReady(reporter, board)
		}
		_ = core.ReportEvent(reporter, e)
		port.Write(out.Result())
		out.Reset()
	})

	if err := machine.Init(); err != nil {
		return fmt.Errorf("init failed: %w", err)
	}
	machine.Start()
	defer machine.Stop()

	fmt.Println("Simulating STM32F4 Discovery (type 'help' for commands, 'quit' to exit)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch strings.Fields(line)[0] {
		case "quit", "exit", "q":
			fmt.Println("Goodbye!")
			return nil

		case "help", "?":
			printHelp()

		case "press":
			machine.Press()

		case "release":
			machine.Release()

		case "tap":
			machine.Press()
			time.Sleep(tapHold())
			machine.Release()
			time.Sleep(tapHold())

		case "status":
			printStatus(machine.Status())

		case "dump":
			machine.DumpEvents(func(s string) { fmt.Println(s) })

		default:
			fmt.Printf("Unknown command: %s (type 'help' for available commands)\n", line)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

// tapHold is long enough for a few polls at the simulated clock
func tapHold() time.Duration {
	cycles := uint64(core.DefaultDelayIterations) * sim.DefaultCyclesPerIteration * 3
	return time.Duration(cycles*uint64(time.Second)/uint64(*clockHz)) + 5*time.Millisecond
}

func printStatus(st sim.Status) {
	fmt.Printf("button: pressed=%v level=%v\n", st.Pressed, st.ButtonLevel)
	fmt.Printf("led:    pin=%v lit=%v controller=%v\n", st.LEDLevel, st.LEDLit, st.Controller)
	fmt.Printf("loops=%d toggles=%d bsrr_writes=%d ignored_writes=%d\n",
		st.Stats.Loops, st.Stats.Toggles, st.BSRRWrites, st.IgnoredWrites)
}

func printHelp() {
	fmt.Println("\nAvailable commands:")
	fmt.Println("  press          - Hold the button down")
	fmt.Println("  release        - Let the button go")
	fmt.Println("  tap            - Press and release")
	fmt.Println("  status         - Show pin levels and counters")
	fmt.Println("  dump           - Print the controller event ring")
	fmt.Println("  quit/exit/q    - Exit the program")
	fmt.Println()
}
