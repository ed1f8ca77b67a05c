package protocol

import "errors"

var ErrFrameTooLong = errors.New("frame exceeds maximum length")

// Reporter encodes one-way telemetry frames into an OutputBuffer. Each frame
// carries the next sequence number in 0x10-0x1F.
type Reporter struct {
	output  OutputBuffer
	payload *ScratchOutput
	seq     uint8
}

// NewReporter creates a Reporter writing to output
func NewReporter(output OutputBuffer) *Reporter {
	return &Reporter{
		output:  output,
		payload: NewScratchOutput(),
		seq:     MessageDest,
	}
}

// Send encodes a single message (ID followed by VLQ arguments) as one frame
func (r *Reporter) Send(msgID uint32, args ...uint32) error {
	r.payload.Reset()
	EncodeVLQUint(r.payload, msgID)
	for _, a := range args {
		EncodeVLQUint(r.payload, a)
	}
	return r.EncodeFrame(r.payload.Result())
}

// EncodeFrame wraps payload in header, CRC and sync byte
func (r *Reporter) EncodeFrame(payload []byte) error {
	msgLen := MessageHeaderSize + len(payload) + MessageTrailerSize
	if msgLen > MessageLengthMax {
		return ErrFrameTooLong
	}

	cursor := r.output.CurPosition()
	r.output.Output([]byte{uint8(msgLen), r.seq})
	r.output.Output(payload)

	crc := CRC16(r.output.DataSince(cursor))
	r.output.Output([]byte{
		uint8((crc & 0xFF00) >> 8),
		uint8(crc & 0xFF),
		MessageValueSync,
	})

	r.seq = ((r.seq + 1) & MessageSeqMask) | MessageDest
	return nil
}

// Sequence returns the sequence byte the next frame will carry
func (r *Reporter) Sequence() uint8 {
	return r.seq
}
