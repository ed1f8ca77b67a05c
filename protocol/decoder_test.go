package protocol

import "testing"

// encodeFrames produces a stream of event frames with values 0..n-1
func encodeFrames(t *testing.T, n int) []byte {
	t.Helper()
	out := NewScratchOutput()
	r := NewReporter(out)
	var stream []byte
	for i := 0; i < n; i++ {
		out.Reset()
		if err := r.Send(MsgEvent, 4, uint32(i*10), uint32(i)); err != nil {
			t.Fatalf("Send failed: %v", err)
		}
		stream = append(stream, out.Result()...)
	}
	return stream
}

func TestDecoderRoundTrip(t *testing.T) {
	stream := encodeFrames(t, 3)

	var got []Message
	d := NewDecoder(func(msg Message) { got = append(got, msg) })

	consumed := d.Feed(stream)
	if consumed != len(stream) {
		t.Errorf("Expected %d bytes consumed, got %d", len(stream), consumed)
	}

	if len(got) != 3 {
		t.Fatalf("Expected 3 messages, got %d", len(got))
	}
	for i, msg := range got {
		if msg.ID != MsgEvent {
			t.Errorf("Message %d: expected ID %d, got %d", i, MsgEvent, msg.ID)
		}
		if msg.Args[1] != uint32(i*10) || msg.Args[2] != uint32(i) {
			t.Errorf("Message %d: unexpected args %v", i, msg.Args)
		}
		if msg.Sequence != uint8(MessageDest|i) {
			t.Errorf("Message %d: expected seq 0x%02X, got 0x%02X", i, MessageDest|i, msg.Sequence)
		}
	}
}

func TestDecoderPartialFrame(t *testing.T) {
	stream := encodeFrames(t, 1)

	var count int
	d := NewDecoder(func(msg Message) { count++ })

	consumed := d.Feed(stream[:4])
	if consumed != 0 {
		t.Errorf("Partial frame should not be consumed, consumed %d", consumed)
	}
	if count != 0 {
		t.Errorf("Partial frame delivered %d messages", count)
	}

	consumed = d.Feed(stream)
	if consumed != len(stream) || count != 1 {
		t.Errorf("Full frame: consumed %d, delivered %d", consumed, count)
	}
}

func TestDecoderResyncAfterCorruption(t *testing.T) {
	stream := encodeFrames(t, 3)
	frameLen := len(stream) / 3

	// Flip a payload bit in the middle frame
	corrupted := append([]byte{}, stream...)
	corrupted[frameLen+3] ^= 0x01

	// Leading garbage before the first frame
	corrupted = append([]byte{0x42, 0x13}, corrupted...)

	var got []Message
	d := NewDecoder(func(msg Message) { got = append(got, msg) })
	d.Feed(corrupted)

	if len(got) != 1 {
		t.Fatalf("Expected only the last frame to survive, got %d messages", len(got))
	}
	if got[0].Args[2] != 2 {
		t.Errorf("Expected last frame (value 2), got %v", got[0].Args)
	}

	stats := d.Stats()
	if stats.Desyncs == 0 {
		t.Error("Expected at least one desync")
	}
	if stats.Dropped != 0 {
		t.Errorf("Expected no sequence gap before the first valid frame, got %d", stats.Dropped)
	}
}

func TestDecoderSequenceGap(t *testing.T) {
	stream := encodeFrames(t, 3)
	frameLen := len(stream) / 3

	// Drop the middle frame entirely
	gapped := append(append([]byte{}, stream[:frameLen]...), stream[2*frameLen:]...)

	d := NewDecoder(nil)
	d.Feed(gapped)

	stats := d.Stats()
	if stats.Frames != 2 {
		t.Errorf("Expected 2 frames, got %d", stats.Frames)
	}
	if stats.Dropped != 1 {
		t.Errorf("Expected 1 dropped frame, got %d", stats.Dropped)
	}
}

func TestDecoderReceiveFromFifo(t *testing.T) {
	stream := encodeFrames(t, 2)

	var count int
	d := NewDecoder(func(msg Message) { count++ })
	fifo := NewFifoBuffer(64)

	// Deliver in two uneven chunks
	fifo.Write(stream[:5])
	d.Receive(fifo)
	fifo.Write(stream[5:])
	d.Receive(fifo)

	if count != 2 {
		t.Errorf("Expected 2 messages, got %d", count)
	}
	if !fifo.IsEmpty() {
		t.Errorf("Expected FIFO drained, %d bytes left", fifo.Available())
	}
}

func TestDecoderUnknownMessage(t *testing.T) {
	out := NewScratchOutput()
	r := NewReporter(out)
	if err := r.EncodeFrame([]byte{0x09}); err != nil {
		t.Fatalf("EncodeFrame failed: %v", err)
	}

	d := NewDecoder(nil)
	d.Feed(out.Result())

	stats := d.Stats()
	if stats.Frames != 1 || stats.Malformed != 1 {
		t.Errorf("Expected 1 frame, 1 malformed; got %+v", stats)
	}
}
