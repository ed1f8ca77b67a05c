package protocol

// Message is one decoded telemetry message
type Message struct {
	Sequence uint8    // Sequence byte of the carrying frame
	ID       uint32   // Message ID (Msg*)
	Args     []uint32 // Decoded VLQ arguments
}

// MessageHandler is called for every message decoded from a valid frame
type MessageHandler func(msg Message)

// DecoderStats counts decoder activity
type DecoderStats struct {
	Frames    uint32 // Frames that passed length, sync and CRC checks
	Messages  uint32 // Messages delivered to the handler
	Desyncs   uint32 // Times the decoder lost framing
	Dropped   uint32 // Sequence gaps observed between valid frames
	Malformed uint32 // Valid frames whose payload did not decode
}

// Decoder reassembles frames from an arbitrary byte stream. On any framing
// error it discards input up to the next sync byte.
type Decoder struct {
	handler      MessageHandler
	synchronized bool
	haveSeq      bool
	nextSeq      uint8
	stats        DecoderStats
}

// NewDecoder creates a Decoder that delivers messages to handler
func NewDecoder(handler MessageHandler) *Decoder {
	return &Decoder{
		handler:      handler,
		synchronized: true,
	}
}

// Stats returns the decoder counters
func (d *Decoder) Stats() DecoderStats {
	return d.stats
}

// Receive processes the data held by input and pops what it consumed.
// Incomplete trailing frames stay in input for the next call.
func (d *Decoder) Receive(input *FifoBuffer) {
	data := input.Data()
	consumed := d.Feed(data)
	input.Pop(consumed)
}

// Feed decodes frames from data and returns the number of bytes consumed
func (d *Decoder) Feed(data []byte) int {
	original := len(data)

	for len(data) > 0 {
		if !d.synchronized {
			syncPos := -1
			for i, b := range data {
				if b == MessageValueSync {
					syncPos = i
					break
				}
			}
			if syncPos < 0 {
				data = nil
				break
			}
			data = data[syncPos+1:]
			d.synchronized = true
			continue
		}

		// Skip leading sync bytes
		if data[0] == MessageValueSync {
			data = data[1:]
			continue
		}

		if len(data) < MessageLengthMin {
			break
		}

		msgLen := int(data[MessagePositionLen])
		if msgLen < MessageLengthMin || msgLen > MessageLengthMax {
			d.desync()
			continue
		}

		seq := data[MessagePositionSeq]
		if seq&^MessageSeqMask != MessageDest {
			d.desync()
			continue
		}

		// Wait for full message
		if len(data) < msgLen {
			break
		}

		if data[msgLen-MessageTrailerSync] != MessageValueSync {
			d.desync()
			continue
		}

		frameCRC := uint16(data[msgLen-MessageTrailerCRC])<<8 |
			uint16(data[msgLen-MessageTrailerCRC+1])
		if frameCRC != CRC16(data[:msgLen-MessageTrailerSize]) {
			d.desync()
			continue
		}

		frame := data[MessageHeaderSize : msgLen-MessageTrailerSize]
		data = data[msgLen:]

		d.stats.Frames++
		if d.haveSeq && seq != d.nextSeq {
			d.stats.Dropped++
		}
		d.haveSeq = true
		d.nextSeq = ((seq + 1) & MessageSeqMask) | MessageDest

		// Framing is intact even when the payload is not
		if err := d.parseFrame(seq, frame); err != nil {
			d.stats.Malformed++
		}
	}

	return original - len(data)
}

// parseFrame splits a frame payload into messages
func (d *Decoder) parseFrame(seq uint8, frame []byte) error {
	for len(frame) > 0 {
		id, err := DecodeVLQUint(&frame)
		if err != nil {
			return err
		}
		n := MessageArgs(id)
		if n < 0 {
			return ErrInvalidVLQ
		}
		msg := Message{Sequence: seq, ID: id, Args: make([]uint32, n)}
		for i := range msg.Args {
			if msg.Args[i], err = DecodeVLQUint(&frame); err != nil {
				return err
			}
		}
		d.stats.Messages++
		if d.handler != nil {
			d.handler(msg)
		}
	}
	return nil
}

func (d *Decoder) desync() {
	d.synchronized = false
	d.stats.Desyncs++
}
