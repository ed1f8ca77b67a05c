package core

import "errors"

// DefaultDelayIterations is the debounce spin count. Tuned for the 16 MHz HSI
// clock with no compiler optimizations; scale it with the core clock.
const DefaultDelayIterations = 50000

// Board collects the compile-time wiring of the controller
type Board struct {
	LED       GPIOPin
	LEDOutput OutputType // OpenDrain sinks current, for a common-anode LED

	Button     GPIOPin
	ButtonPull Pull // PullUp: an open switch reads 1

	// DelayIterations is the busy-wait count after every poll
	DelayIterations uint32
}

// DiscoveryBoard is the STM32F4 Discovery wiring: LED on PD13, button on PE15
var DiscoveryBoard = Board{
	LED:             Pin('D', 13),
	LEDOutput:       OpenDrain,
	Button:          Pin('E', 15),
	ButtonPull:      PullUp,
	DelayIterations: DefaultDelayIterations,
}

var (
	ErrNoDelay    = errors.New("board delay must be positive")
	ErrPinsShared = errors.New("led and button share a pin")
	ErrBadPull    = errors.New("invalid pull encoding")
)

// Validate checks the board for wiring mistakes the hardware cannot report
func (b Board) Validate() error {
	if b.DelayIterations == 0 {
		return ErrNoDelay
	}
	if b.LED == b.Button {
		return ErrPinsShared
	}
	if b.ButtonPull > PullDown {
		return ErrBadPull
	}
	return nil
}
