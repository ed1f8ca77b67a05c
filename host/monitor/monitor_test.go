package monitor

import (
	"testing"
	"time"

	"buttonled/core"
	"buttonled/host/serial"
	"buttonled/protocol"
)

func TestMonitorDecodesTelemetry(t *testing.T) {
	port := serial.NewLoopback()
	events := make(chan core.Event, 8)
	readies := make(chan Ready, 1)

	m := New(port, Handler{
		Ready: func(r Ready) { readies <- r },
		Event: func(e core.Event) { events <- e },
	})
	m.Start()

	out := protocol.NewScratchOutput()
	reporter := protocol.NewReporter(out)
	core.ReportReady(reporter, core.DiscoveryBoard)
	core.ReportEvent(reporter, core.Event{Type: core.EvtToggle, Loop: 9, Value: 1})

	// Line noise before the frames
	port.Write([]byte{0x00, 0xFF, 0x7E})
	port.Write(out.Result())

	select {
	case r := <-readies:
		if r.LED != core.DiscoveryBoard.LED || r.Button != core.DiscoveryBoard.Button {
			t.Errorf("Unexpected ready %+v", r)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for ready message")
	}

	select {
	case e := <-events:
		if e.Type != core.EvtToggle || e.Loop != 9 || e.Value != 1 {
			t.Errorf("Unexpected event %v", e)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for event")
	}

	if err := m.Stop(); err != nil {
		t.Errorf("Stop failed: %v", err)
	}

	select {
	case <-m.Done():
	default:
		t.Error("Reader still running after Stop")
	}

	if stats := m.Stats(); stats.Messages != 2 {
		t.Errorf("Expected 2 messages, got %d", stats.Messages)
	}
}

func TestMonitorSplitWrites(t *testing.T) {
	port := serial.NewLoopback()
	events := make(chan core.Event, 8)
	m := New(port, Handler{Event: func(e core.Event) { events <- e }})
	m.Start()
	defer m.Stop()

	out := protocol.NewScratchOutput()
	reporter := protocol.NewReporter(out)
	core.ReportEvent(reporter, core.Event{Type: core.EvtButtonHigh, Loop: 70000})

	// One byte at a time
	for _, b := range out.Result() {
		port.Write([]byte{b})
	}

	select {
	case e := <-events:
		if e.Loop != 70000 {
			t.Errorf("Expected loop 70000, got %d", e.Loop)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for event")
	}
}
