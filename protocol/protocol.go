// Package protocol implements the telemetry framing used between the
// firmware and the host tools
package protocol

// Version represents the firmware telemetry version
const Version = "0.1.0"

// Frame layout: len, seq, payload..., crc_hi, crc_lo, sync
const (
	MessageHeaderSize  = 2
	MessageTrailerSize = 3
	MessageLengthMin   = MessageHeaderSize + MessageTrailerSize
	MessageLengthMax   = 64
	MessagePositionLen = 0
	MessagePositionSeq = 1
	MessageTrailerCRC  = 3
	MessageTrailerSync = 1
	MessageValueSync   = 0x7E
	MessageDest        = 0x10

	// Message sequence masks
	MessageSeqMask = 0x0F
)

// Message IDs carried in frame payloads
const (
	MsgReady = 1 // led_pin, button_pin, delay_iterations
	MsgEvent = 2 // type, loop, value
)

// MessageName returns the printable name of a message ID
func MessageName(id uint32) string {
	switch id {
	case MsgReady:
		return "ready"
	case MsgEvent:
		return "event"
	default:
		return "unknown"
	}
}

// MessageArgs returns the number of VLQ arguments that follow a message ID,
// or -1 for an unknown ID
func MessageArgs(id uint32) int {
	switch id {
	case MsgReady, MsgEvent:
		return 3
	default:
		return -1
	}
}
