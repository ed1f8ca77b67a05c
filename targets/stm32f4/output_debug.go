//go:build stm32f4 && debug && !telemetry

package main

import "buttonled/core"

// initOutput routes debug text to the default serial console and prints
// every controller event as it happens
func initOutput(ctrl *core.Controller) {
	core.SetDebugWriter(func(s string) {
		println(s)
	})
	core.SetDebugEnabled(true)

	ctrl.SetEventHandler(func(e core.Event) {
		core.DebugPrintln("[EVT] " + e.String())
	})
}
