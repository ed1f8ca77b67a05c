//go:build stm32f4

package main

import (
	"buttonled/core"
)

func main() {
	// Registers are accessed directly; no machine.Pin configuration is
	// involved, so the clock gates are ours to enable.
	gpio := core.NewSTM32GPIO(core.MMIO{}, core.STM32F4Layout)
	core.SetGPIODriver(gpio)

	ctrl := core.NewController(core.MustGPIO(), core.DiscoveryBoard, core.BusyWait)
	initOutput(ctrl)

	if err := ctrl.Init(); err != nil {
		panic("init: " + err.Error())
	}

	// Never returns
	ctrl.Run()
}
