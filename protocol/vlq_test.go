package protocol

import (
	"bytes"
	"testing"
)

func TestVLQEncodeDecodeInt(t *testing.T) {
	testCases := []int32{
		0,
		1,
		-1,
		-32,
		-33,
		95,
		96,
		127,
		-128,
		1000,
		-1000,
		65535,
		1000000,
		-1000000,
	}

	for _, expected := range testCases {
		output := NewScratchOutput()
		EncodeVLQInt(output, expected)
		encoded := output.Result()

		data := encoded
		decoded, err := DecodeVLQInt(&data)
		if err != nil {
			t.Errorf("Failed to decode VLQ for value %d: %v", expected, err)
			continue
		}

		if decoded != expected {
			t.Errorf("VLQ mismatch: expected %d, got %d (encoded as %v)", expected, decoded, encoded)
		}

		if len(data) != 0 {
			t.Errorf("VLQ decode didn't consume all bytes for value %d: %d bytes remaining", expected, len(data))
		}
	}
}

func TestVLQEncoding(t *testing.T) {
	testCases := []struct {
		value    uint32
		expected []byte
	}{
		{0, []byte{0x00}},
		{95, []byte{0x5F}},
		{96, []byte{0x80, 0x60}},
		{50000, []byte{0x83, 0x86, 0x50}},
	}

	for _, tc := range testCases {
		output := NewScratchOutput()
		EncodeVLQUint(output, tc.value)
		if !bytes.Equal(output.Result(), tc.expected) {
			t.Errorf("EncodeVLQUint(%d) = %v, expected %v", tc.value, output.Result(), tc.expected)
		}
	}
}

func TestVLQBufferTooSmall(t *testing.T) {
	// Continuation byte but no following byte
	data := []byte{0x80}
	_, err := DecodeVLQInt(&data)
	if err != ErrBufferTooSmall {
		t.Errorf("Expected ErrBufferTooSmall, got %v", err)
	}
}

func TestVLQTooLong(t *testing.T) {
	data := []byte{0x81, 0x81, 0x81, 0x81, 0x81, 0x01}
	_, err := DecodeVLQInt(&data)
	if err != ErrInvalidVLQ {
		t.Errorf("Expected ErrInvalidVLQ, got %v", err)
	}
}
