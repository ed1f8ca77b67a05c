package core

import "errors"

// GPIOPin identifies a hardware GPIO pin as port*16 + index, the same
// numbering TinyGo uses for STM32 (PA0 = 0, PD13 = 3*16+13)
type GPIOPin uint32

// PinsPerPort is the number of pins in one GPIO bank
const PinsPerPort = 16

// Pin builds a GPIOPin from a port letter ('A'..'K') and index
func Pin(port byte, index uint8) GPIOPin {
	return GPIOPin(uint32(port-'A')*PinsPerPort + uint32(index))
}

// Port returns the zero-based bank number (A = 0)
func (p GPIOPin) Port() uint8 {
	return uint8(p / PinsPerPort)
}

// Index returns the pin number within its bank
func (p GPIOPin) Index() uint8 {
	return uint8(p % PinsPerPort)
}

// String returns the pin in board notation, e.g. "PD13"
func (p GPIOPin) String() string {
	return "P" + string(rune('A'+p.Port())) + utoa(uint32(p.Index()))
}

// OutputType selects the output driver stage
type OutputType uint8

const (
	PushPull  OutputType = 0
	OpenDrain OutputType = 1 // Pin only sinks current
)

// Pull selects the input bias resistor. Values are the 2-bit hardware
// encodings.
type Pull uint8

const (
	PullNone Pull = 0
	PullUp   Pull = 1
	PullDown Pull = 2
)

var (
	ErrPortNotMapped = errors.New("gpio port not mapped")
	ErrPinOutOfRange = errors.New("gpio pin out of range")
)

// GPIODriver is the abstract GPIO interface that core code uses.
// Platform-specific implementations handle actual hardware control.
type GPIODriver interface {
	// EnableClocks gates the clock on for every bank the pins belong to.
	// Must be called before any other access to those banks.
	EnableClocks(pins ...GPIOPin) error

	// ConfigureOutput configures a pin as a general-purpose output
	ConfigureOutput(pin GPIOPin, otype OutputType) error

	// ConfigureInput configures a pin as a digital input with the given bias
	ConfigureInput(pin GPIOPin, pull Pull) error

	// SetPin drives the pin high (true) or low (false)
	SetPin(pin GPIOPin, value bool) error

	// GetPin reads the current input level
	GetPin(pin GPIOPin) (bool, error)
}

// Global singleton used by target code.
var gpioDriver GPIODriver

// SetGPIODriver is called by target-specific code to register its driver.
func SetGPIODriver(d GPIODriver) {
	gpioDriver = d
}

// MustGPIO returns the configured driver or panics if missing.
func MustGPIO() GPIODriver {
	if gpioDriver == nil {
		panic("GPIO driver not configured")
	}
	return gpioDriver
}
