package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// Event type codes
const (
	EvtInit       = 1 // Controller initialized, Value = seeded button state
	EvtButtonHigh = 2 // Sampled button bit went 0 -> 1
	EvtButtonLow  = 3 // Sampled button bit went 1 -> 0
	EvtToggle     = 4 // LED toggled, Value = new LED state
	EvtFault      = 5 // Step failed, Value = fault count
)

// Event is a controller event kept for post-mortem analysis
type Event struct {
	Type  uint8  // Event type code (Evt*)
	Loop  uint32 // Loop iteration the event happened in
	Value uint32 // Context-dependent value
}

const (
	EventRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, semihosting, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// EventName returns the printable name of an event type
func EventName(eventType uint8) string {
	switch eventType {
	case EvtInit:
		return "INIT"
	case EvtButtonHigh:
		return "BUTTON_HIGH"
	case EvtButtonLow:
		return "BUTTON_LOW"
	case EvtToggle:
		return "TOGGLE"
	case EvtFault:
		return "FAULT!"
	default:
		return "UNKNOWN"
	}
}

// String formats the event without fmt
func (e Event) String() string {
	return EventName(e.Type) + " loop=" + utoa(e.Loop) + " v=" + utoa(e.Value)
}

// EventRing is a fixed-size ring of the most recent events.
// Recording is non-blocking and allocation-free.
type EventRing struct {
	events [EventRingSize]Event
	head   uint8 // Next write position
}

// Record captures an event, overwriting the oldest one when full
func (r *EventRing) Record(e Event) {
	idx := r.head
	r.events[idx] = e
	r.head = (idx + 1) % EventRingSize
}

// Events returns the recorded events from oldest to newest
func (r *EventRing) Events() []Event {
	out := make([]Event, 0, EventRingSize)
	start := r.head
	for i := uint8(0); i < EventRingSize; i++ {
		evt := r.events[(start+i)%EventRingSize]
		if evt.Type == 0 {
			continue // Empty slot
		}
		out = append(out, evt)
	}
	return out
}

// Dump writes the ring through w, oldest first
func (r *EventRing) Dump(w DebugWriter) {
	if w == nil {
		return
	}
	w("[EVENTS] === Event Ring Dump ===")
	for _, evt := range r.Events() {
		w("[EVENTS] " + evt.String())
	}
	w("[EVENTS] === End Dump ===")
}

// Clear empties the ring
func (r *EventRing) Clear() {
	for i := range r.events {
		r.events[i] = Event{}
	}
	r.head = 0
}
