//go:build stm32f4 && telemetry

package main

import (
	"machine"

	"buttonled/core"
	"buttonled/protocol"
)

var (
	// Buffers for telemetry output
	outputBuffer *protocol.ScratchOutput
	reporter     *protocol.Reporter

	// Debug counters
	framesSent uint32
	sendErrors uint32
)

// initOutput streams controller events as telemetry frames on the default
// UART. Frames are written synchronously from the event handler, so output
// only happens on button changes and toggles.
func initOutput(ctrl *core.Controller) {
	outputBuffer = protocol.NewScratchOutput()
	reporter = protocol.NewReporter(outputBuffer)

	ctrl.SetEventHandler(func(e core.Event) {
		if e.Type == core.EvtInit {
			if err := core.ReportReady(reporter, ctrl.Board()); err != nil {
				sendErrors++
			}
		}
		if err := core.ReportEvent(reporter, e); err != nil {
			sendErrors++
		}
		writeSerial()
	})
}

// writeSerial flushes the output buffer to the UART
func writeSerial() {
	result := outputBuffer.Result()
	if len(result) == 0 {
		return
	}
	if _, err := machine.Serial.Write(result); err != nil {
		sendErrors++
	} else {
		framesSent++
	}
	outputBuffer.Reset()
}
