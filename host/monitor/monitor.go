// Package monitor decodes controller telemetry arriving on a serial port
package monitor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"buttonled/core"
	"buttonled/host/serial"
	"buttonled/protocol"
)

// Ready describes the board as announced by the firmware after init
type Ready struct {
	LED             core.GPIOPin
	Button          core.GPIOPin
	DelayIterations uint32
}

// Handler receives decoded telemetry. Either field may be nil.
type Handler struct {
	Ready func(Ready)
	Event func(core.Event)
}

// Monitor reads telemetry frames from a port in a background goroutine
type Monitor struct {
	port    serial.Port
	handler Handler

	// Guards decoder and input
	mu      sync.Mutex
	decoder *protocol.Decoder
	input   *protocol.FifoBuffer

	stopChan chan struct{}
	doneChan chan struct{}
	stopOnce sync.Once
}

// New creates a monitor for port. Call Start to begin reading.
func New(port serial.Port, handler Handler) *Monitor {
	m := &Monitor{
		port:     port,
		handler:  handler,
		input:    protocol.NewFifoBuffer(512),
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
	m.decoder = protocol.NewDecoder(m.dispatch)
	return m
}

// Connect opens device with the default telemetry settings and returns a
// started monitor
func Connect(device string, baud int, handler Handler) (*Monitor, error) {
	cfg := serial.DefaultConfig(device)
	if baud > 0 {
		cfg.Baud = baud
	}
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	m := New(port, handler)
	m.Start()
	return m, nil
}

// Start launches the reader goroutine
func (m *Monitor) Start() {
	go m.readLoop()
}

// Stop closes the port and waits for the reader to exit
func (m *Monitor) Stop() error {
	var err error
	m.stopOnce.Do(func() {
		close(m.stopChan)
		err = m.port.Close()
	})
	<-m.doneChan
	return err
}

// Done is closed when the reader goroutine exits
func (m *Monitor) Done() <-chan struct{} {
	return m.doneChan
}

// Stats returns the decoder counters
func (m *Monitor) Stats() protocol.DecoderStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.decoder.Stats()
}

// readLoop continuously reads from the port and decodes frames
func (m *Monitor) readLoop() {
	defer close(m.doneChan)

	buffer := make([]byte, 256)

	for {
		select {
		case <-m.stopChan:
			return
		default:
		}

		n, err := m.port.Read(buffer)
		if n > 0 {
			m.feed(buffer[:n])
		}
		if err != nil {
			if errors.Is(err, io.ErrClosedPipe) || errors.Is(err, os.ErrClosed) {
				return
			}
			// Read timeouts show up as EOF on a quiet line
			time.Sleep(10 * time.Millisecond)
		}
	}
}

// feed pushes raw bytes through the decoder
func (m *Monitor) feed(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for len(data) > 0 {
		written := m.input.Write(data)
		data = data[written:]
		m.decoder.Receive(m.input)
		if written == 0 && m.input.Free() == 0 {
			// A full buffer with no frame in it is garbage
			m.input.Reset()
		}
	}
}

// dispatch routes a decoded message to the handler
func (m *Monitor) dispatch(msg protocol.Message) {
	if e, ok := core.EventFromMessage(msg); ok {
		if m.handler.Event != nil {
			m.handler.Event(e)
		}
		return
	}
	if msg.ID == protocol.MsgReady && m.handler.Ready != nil {
		m.handler.Ready(Ready{
			LED:             core.GPIOPin(msg.Args[0]),
			Button:          core.GPIOPin(msg.Args[1]),
			DelayIterations: msg.Args[2],
		})
	}
}
