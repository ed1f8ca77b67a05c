package core

import "buttonled/protocol"

// ReportReady sends the ready message describing the board wiring
func ReportReady(r *protocol.Reporter, b Board) error {
	return r.Send(protocol.MsgReady, uint32(b.LED), uint32(b.Button), b.DelayIterations)
}

// ReportEvent sends one controller event
func ReportEvent(r *protocol.Reporter, e Event) error {
	return r.Send(protocol.MsgEvent, uint32(e.Type), e.Loop, e.Value)
}

// EventFromMessage converts a decoded event message back into an Event.
// ok is false for any other message.
func EventFromMessage(msg protocol.Message) (e Event, ok bool) {
	if msg.ID != protocol.MsgEvent || len(msg.Args) != 3 {
		return Event{}, false
	}
	return Event{Type: uint8(msg.Args[0]), Loop: msg.Args[1], Value: msg.Args[2]}, true
}
