//go:build stm32f4 && !telemetry && !debug

package main

import "buttonled/core"

// initOutput does nothing in the default build: the loop only touches the
// GPIO registers. Build with -serial=none to keep the UART unconfigured.
func initOutput(ctrl *core.Controller) {}
