package core

import (
	"strings"
	"testing"
)

func TestEventRingWrap(t *testing.T) {
	var ring EventRing
	for i := uint32(1); i <= EventRingSize+5; i++ {
		ring.Record(Event{Type: EvtToggle, Loop: i})
	}

	events := ring.Events()
	if len(events) != EventRingSize {
		t.Fatalf("Expected %d events, got %d", EventRingSize, len(events))
	}
	if events[0].Loop != 6 {
		t.Errorf("Oldest event should be loop 6, got %d", events[0].Loop)
	}
	if events[len(events)-1].Loop != EventRingSize+5 {
		t.Errorf("Newest event should be loop %d, got %d", EventRingSize+5, events[len(events)-1].Loop)
	}

	ring.Clear()
	if len(ring.Events()) != 0 {
		t.Error("Clear left events behind")
	}
}

func TestEventRingDump(t *testing.T) {
	var ring EventRing
	ring.Record(Event{Type: EvtInit, Loop: 0, Value: 1})
	ring.Record(Event{Type: EvtToggle, Loop: 42, Value: 1})

	var lines []string
	ring.Dump(func(s string) { lines = append(lines, s) })

	if len(lines) != 4 {
		t.Fatalf("Expected header, 2 events and footer, got %d lines", len(lines))
	}
	if lines[2] != "[EVENTS] TOGGLE loop=42 v=1" {
		t.Errorf("Unexpected line %q", lines[2])
	}
}

func TestDebugPrintlnGated(t *testing.T) {
	var out []string
	SetDebugWriter(func(s string) { out = append(out, s) })
	defer SetDebugWriter(func(string) {})
	defer SetDebugEnabled(false)

	DebugPrintln("hidden")
	SetDebugEnabled(true)
	DebugPrintln("shown")

	if len(out) != 1 || !strings.Contains(out[0], "shown") {
		t.Errorf("Expected only the enabled message, got %v", out)
	}
}

func TestUtoa(t *testing.T) {
	testCases := map[uint32]string{
		0:          "0",
		7:          "7",
		50000:      "50000",
		4294967295: "4294967295",
	}
	for n, expected := range testCases {
		if s := utoa(n); s != expected {
			t.Errorf("utoa(%d) = %q, expected %q", n, s, expected)
		}
	}
}
