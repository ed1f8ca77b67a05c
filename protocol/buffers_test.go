package protocol

import "testing"

func TestScratchOutput(t *testing.T) {
	scratch := NewScratchOutput()

	scratch.Output([]byte{1, 2, 3})
	if scratch.CurPosition() != 3 {
		t.Errorf("Expected position 3, got %d", scratch.CurPosition())
	}

	scratch.Output([]byte{4, 5})
	if scratch.CurPosition() != 5 {
		t.Errorf("Expected position 5, got %d", scratch.CurPosition())
	}

	scratch.Update(0, 99)
	if result := scratch.Result(); result[0] != 99 {
		t.Errorf("Expected first byte to be 99, got %d", result[0])
	}

	// Positions past the write cursor are not writable
	scratch.Update(10, 1)
	if scratch.CurPosition() != 5 {
		t.Errorf("Update past cursor moved position to %d", scratch.CurPosition())
	}

	since := scratch.DataSince(2)
	if len(since) != 3 || since[0] != 3 {
		t.Errorf("DataSince(2) failed: expected [3 4 5], got %v", since)
	}

	scratch.Reset()
	if scratch.CurPosition() != 0 {
		t.Errorf("After reset, expected position 0, got %d", scratch.CurPosition())
	}
}

func TestScratchOutputFull(t *testing.T) {
	scratch := NewScratchOutput()
	big := make([]byte, scratch.Free()+10)
	scratch.Output(big)

	if scratch.Free() != 0 {
		t.Errorf("Expected full buffer, %d bytes free", scratch.Free())
	}
	if scratch.CurPosition() != len(big)-10 {
		t.Errorf("Expected truncation at %d, got %d", len(big)-10, scratch.CurPosition())
	}
}

func TestFifoBuffer(t *testing.T) {
	fifo := NewFifoBuffer(10)

	if !fifo.IsEmpty() {
		t.Error("New FIFO should be empty")
	}

	written := fifo.Write([]byte{1, 2, 3, 4, 5})
	if written != 5 {
		t.Errorf("Expected to write 5 bytes, wrote %d", written)
	}
	if fifo.Available() != 5 {
		t.Errorf("Expected 5 bytes available, got %d", fifo.Available())
	}

	fifo.Pop(3)
	if fifo.Available() != 2 {
		t.Errorf("After popping 3, expected 2 available, got %d", fifo.Available())
	}
	if data := fifo.Data(); data[0] != 4 {
		t.Errorf("Expected first byte 4, got %d", data[0])
	}

	// Popping more than available empties the buffer
	fifo.Pop(100)
	if !fifo.IsEmpty() {
		t.Errorf("Expected empty FIFO, %d available", fifo.Available())
	}

	fifo.Reset()
	written = fifo.Write(make([]byte, 12))
	if written != 9 { // Buffer size is 10, can only store 9 (one slot reserved)
		t.Errorf("Expected to write 9 bytes to size-10 FIFO, wrote %d", written)
	}
	if fifo.Free() != 0 {
		t.Errorf("Expected no free space, got %d", fifo.Free())
	}
}

func TestFifoBufferWrapAround(t *testing.T) {
	fifo := NewFifoBuffer(5)

	fifo.Write([]byte{1, 2, 3, 4})
	fifo.Pop(2)

	// Write more (will wrap around)
	written := fifo.Write([]byte{5, 6})
	if written != 2 {
		t.Errorf("Expected to write 2 bytes, wrote %d", written)
	}

	allData := fifo.Data()
	if len(allData) != 4 {
		t.Fatalf("Expected 4 bytes, got %d", len(allData))
	}
	if allData[0] != 3 || allData[1] != 4 || allData[2] != 5 || allData[3] != 6 {
		t.Errorf("Wrap-around data mismatch: got %v", allData)
	}
}
