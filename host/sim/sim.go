// Package sim models the STM32 GPIO peripherals the controller drives, so
// the firmware logic can run on a development host
package sim

import (
	"sync"
	"time"

	"buttonled/core"
)

// Wiring describes how the simulated push button is connected
type Wiring uint8

const (
	// SwitchToGround pulls the pin low while pressed
	SwitchToGround Wiring = iota
	// SwitchToSupply drives the pin high while pressed
	SwitchToSupply
)

// DefaultCyclesPerIteration approximates one pass of the unoptimized
// volatile delay loop on a Cortex-M4
const DefaultCyclesPerIteration = 4

// CalibratedWait returns a Waiter that sleeps for as long as the busy-wait
// would spin on a core running at clockHz
func CalibratedWait(clockHz, cyclesPerIteration uint32) core.Waiter {
	return core.WaitFunc(func(iterations uint32) {
		cycles := uint64(iterations) * uint64(cyclesPerIteration)
		time.Sleep(time.Duration(cycles * uint64(time.Second) / uint64(clockHz)))
	})
}

// Status is a snapshot of the simulated board
type Status struct {
	Pressed       bool // Button held down
	ButtonLevel   bool // Electrical level seen in IDR
	LEDLevel      bool // Output data bit of the LED pin
	LEDLit        bool // Light output, given the LED's drive type
	Controller    bool // Controller's own view of the LED
	Stats         core.Stats
	BSRRWrites    uint32 // Stores to the LED bank's BSRR
	IgnoredWrites uint32 // Stores dropped because the bank clock was off
}

// Machine is a simulated board: register model plus controller
type Machine struct {
	mu sync.Mutex

	regs   *core.MemoryRegisters
	layout core.STM32Layout
	board  core.Board
	wiring Wiring
	ctrl   *core.Controller

	pressed       bool
	bsrrWrites    uint32
	ignoredWrites uint32

	stopChan chan struct{}
	doneChan chan struct{}
	stopOnce sync.Once
}

// New builds a simulated STM32F4 board running the controller. Register
// content starts at reset values (zero).
func New(board core.Board, wiring Wiring, wait core.Waiter) *Machine {
	m := &Machine{
		regs:     core.NewMemoryRegisters(),
		layout:   core.STM32F4Layout,
		board:    board,
		wiring:   wiring,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
	m.regs.SetLogging(false)
	m.regs.OnLoad = m.onLoad
	m.regs.OnStore = m.onStore

	gpio := core.NewSTM32GPIO(m.regs, m.layout)
	m.ctrl = core.NewController(gpio, board, wait)
	return m
}

// SetEventHandler forwards controller events to h. Call before Init.
// h runs with the machine locked and must not call back into it.
func (m *Machine) SetEventHandler(h core.EventHandler) {
	m.ctrl.SetEventHandler(h)
}

// Init runs the controller's initialization
func (m *Machine) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ctrl.Init()
}

// Step runs one controller iteration
func (m *Machine) Step() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ctrl.Step()
}

// Start runs the polling loop in a goroutine until Stop
func (m *Machine) Start() {
	go func() {
		defer close(m.doneChan)
		for {
			select {
			case <-m.stopChan:
				return
			default:
			}
			_ = m.Step()
			// Let button changes in between passes
			time.Sleep(time.Millisecond)
		}
	}()
}

// Stop ends the polling loop started by Start
func (m *Machine) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
	})
	<-m.doneChan
}

// Press holds the button down
func (m *Machine) Press() {
	m.mu.Lock()
	m.pressed = true
	m.mu.Unlock()
}

// Release lets the button go
func (m *Machine) Release() {
	m.mu.Lock()
	m.pressed = false
	m.mu.Unlock()
}

// Status returns a snapshot of the board
func (m *Machine) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	ledLevel := m.pinLevel(m.board.LED)
	lit := ledLevel
	if m.board.LEDOutput == core.OpenDrain {
		// Common anode: current flows while the pin sinks
		lit = !ledLevel
	}
	return Status{
		Pressed:       m.pressed,
		ButtonLevel:   m.buttonLevel(),
		LEDLevel:      ledLevel,
		LEDLit:        lit,
		Controller:    m.ctrl.LED(),
		Stats:         m.ctrl.Stats(),
		BSRRWrites:    m.bsrrWrites,
		IgnoredWrites: m.ignoredWrites,
	}
}

// DumpEvents writes the controller's event ring through w
func (m *Machine) DumpEvents(w core.DebugWriter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ctrl.DumpEvents(w)
}

// Registers exposes the register model for inspection
func (m *Machine) Registers() *core.MemoryRegisters {
	return m.regs
}

// bank returns the port owning addr and whether addr is a GPIO register
func (m *Machine) bank(addr uintptr) (port uint8, offset uintptr, ok bool) {
	if addr < m.layout.BankBase {
		return 0, 0, false
	}
	rel := addr - m.layout.BankBase
	port = uint8(rel / m.layout.BankStride)
	if port >= m.layout.Ports {
		return 0, 0, false
	}
	return port, rel % m.layout.BankStride, true
}

func (m *Machine) clocked(port uint8) bool {
	return m.regs.Peek(m.layout.ClockEnable)&(1<<port) != 0
}

// onLoad models input data and gated clocks. Called with mu held.
func (m *Machine) onLoad(addr uintptr, value uint32) uint32 {
	port, offset, ok := m.bank(addr)
	if !ok {
		return value
	}
	if !m.clocked(port) {
		return 0
	}
	if offset != core.GPIOIdr {
		return value
	}

	// Input data follows the output latch except where the button drives
	idr := m.regs.Peek(addr - core.GPIOIdr + core.GPIOOdr)
	if port == m.board.Button.Port() {
		bit := uint32(1) << m.board.Button.Index()
		if m.buttonLevel() {
			idr |= bit
		} else {
			idr &^= bit
		}
	}
	return idr
}

// onStore models BSRR and gated clocks. Called with mu held.
func (m *Machine) onStore(addr uintptr, value uint32) bool {
	port, offset, ok := m.bank(addr)
	if !ok {
		return true
	}
	if !m.clocked(port) {
		m.ignoredWrites++
		return false
	}

	switch offset {
	case core.GPIOIdr:
		// Read-only
		return false
	case core.GPIOBsrr:
		if port == m.board.LED.Port() {
			m.bsrrWrites++
		}
		odrAddr := addr - core.GPIOBsrr + core.GPIOOdr
		odr := m.regs.Peek(odrAddr)
		// Set wins when both halves name the same pin
		odr &^= value >> 16
		odr |= value & 0xFFFF
		m.regs.Poke(odrAddr, odr)
		return false
	}
	return true
}

// buttonLevel derives the pin level from wiring and the configured pull
func (m *Machine) buttonLevel() bool {
	if m.pressed {
		return m.wiring == SwitchToSupply
	}

	// Released: only the bias resistor decides
	pin := m.board.Button
	pupdr := m.regs.Peek(m.layout.BankAddr(pin) + core.GPIOPupdr)
	switch core.Pull(core.Field(pupdr, pin.Index()*2, 2)) {
	case core.PullUp:
		return true
	default:
		// Floating reads as low in the model
		return false
	}
}

func (m *Machine) pinLevel(pin core.GPIOPin) bool {
	odr := m.regs.Peek(m.layout.BankAddr(pin) + core.GPIOOdr)
	return odr&(1<<pin.Index()) != 0
}
