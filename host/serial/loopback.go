package serial

import (
	"io"
	"sync"
)

// LoopbackPort delivers everything written to it to its reader. The
// simulator uses it to feed its own telemetry into a monitor.
type LoopbackPort struct {
	mu     sync.Mutex
	cond   *sync.Cond
	buf    []byte
	closed bool
}

// NewLoopback creates an open loopback port
func NewLoopback() *LoopbackPort {
	p := &LoopbackPort{}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Write appends data for the reader. It never blocks.
func (p *LoopbackPort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, io.ErrClosedPipe
	}
	p.buf = append(p.buf, b...)
	p.cond.Broadcast()
	return len(b), nil
}

// Read blocks until data is available or the port is closed
func (p *LoopbackPort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for len(p.buf) == 0 && !p.closed {
		p.cond.Wait()
	}
	if len(p.buf) == 0 {
		return 0, io.ErrClosedPipe
	}
	n := copy(b, p.buf)
	p.buf = p.buf[n:]
	return n, nil
}

// Close wakes any blocked reader. Buffered data can still be read.
func (p *LoopbackPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.cond.Broadcast()
	return nil
}

// Flush discards unread data
func (p *LoopbackPort) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buf = nil
	return nil
}
