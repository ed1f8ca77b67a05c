package core

// STM32 GPIO register offsets, relative to the bank base
const (
	GPIOModer   = 0x00 // Mode, 2 bits per pin
	GPIOOtyper  = 0x04 // Output type, 1 bit per pin
	GPIOOspeedr = 0x08 // Output speed, 2 bits per pin
	GPIOPupdr   = 0x0C // Pull-up/pull-down, 2 bits per pin
	GPIOIdr     = 0x10 // Input data, read-only
	GPIOOdr     = 0x14 // Output data
	GPIOBsrr    = 0x18 // Bit set/reset, write-only
)

// MODER encodings
const (
	ModeInput     = 0
	ModeOutput    = 1
	ModeAlternate = 2
	ModeAnalog    = 3
)

// bsrrResetShift is the offset of the reset half of BSRR
const bsrrResetShift = 16

// STM32Layout describes where the clock gate and the GPIO banks live
type STM32Layout struct {
	ClockEnable uintptr // Address of the AHB clock-enable register
	BankBase    uintptr // Base address of port A
	BankStride  uintptr // Distance between consecutive banks
	Ports       uint8   // Number of banks present
}

// STM32F4Layout is the register map of the STM32F4 family.
// RCC at 0x40023800 (AHB1ENR at +0x30), GPIOA at 0x40020000.
var STM32F4Layout = STM32Layout{
	ClockEnable: 0x40023800 + 0x30,
	BankBase:    0x40020000,
	BankStride:  0x400,
	Ports:       9,
}

// BankAddr returns the base address of the bank holding pin
func (l STM32Layout) BankAddr(pin GPIOPin) uintptr {
	return l.BankBase + uintptr(pin.Port())*l.BankStride
}

// ClockBit returns the clock-enable bit for the bank holding pin.
// On STM32F4, GPIOxEN is bit x of AHB1ENR.
func (l STM32Layout) ClockBit(pin GPIOPin) uint32 {
	return 1 << pin.Port()
}

// STM32GPIO implements GPIODriver on top of a RegisterFile using the STM32
// GPIO register map
type STM32GPIO struct {
	regs   RegisterFile
	layout STM32Layout
}

// NewSTM32GPIO creates a driver for the given register file and layout
func NewSTM32GPIO(regs RegisterFile, layout STM32Layout) *STM32GPIO {
	return &STM32GPIO{regs: regs, layout: layout}
}

// Layout returns the register layout the driver was built with
func (d *STM32GPIO) Layout() STM32Layout {
	return d.layout
}

// Check reports whether the driver can address pin
func (d *STM32GPIO) Check(pin GPIOPin) error {
	if pin.Port() >= d.layout.Ports {
		return ErrPortNotMapped
	}
	return nil
}

// EnableClocks sets the clock-enable bits of every bank used by pins in a
// single read-modify-write
func (d *STM32GPIO) EnableClocks(pins ...GPIOPin) error {
	var mask uint32
	for _, pin := range pins {
		if err := d.Check(pin); err != nil {
			return err
		}
		mask |= d.layout.ClockBit(pin)
	}
	if mask == 0 {
		return nil
	}
	SetBits(d.regs, d.layout.ClockEnable, mask)
	return nil
}

// ConfigureOutput clears the mode field, selects general-purpose output and
// then programs the output type
func (d *STM32GPIO) ConfigureOutput(pin GPIOPin, otype OutputType) error {
	if err := d.Check(pin); err != nil {
		return err
	}
	bank := d.layout.BankAddr(pin)
	shift := pin.Index() * 2

	ClearBits(d.regs, bank+GPIOModer, 3<<shift)
	SetBits(d.regs, bank+GPIOModer, ModeOutput<<shift)

	if otype == OpenDrain {
		SetBits(d.regs, bank+GPIOOtyper, 1<<pin.Index())
	} else {
		ClearBits(d.regs, bank+GPIOOtyper, 1<<pin.Index())
	}
	return nil
}

// ConfigureInput selects input mode and programs the pull resistor
func (d *STM32GPIO) ConfigureInput(pin GPIOPin, pull Pull) error {
	if err := d.Check(pin); err != nil {
		return err
	}
	bank := d.layout.BankAddr(pin)
	shift := pin.Index() * 2

	// 00 = input, so clearing the field is the whole job
	ClearBits(d.regs, bank+GPIOModer, 3<<shift)

	ClearBits(d.regs, bank+GPIOPupdr, 3<<shift)
	if pull != PullNone {
		SetBits(d.regs, bank+GPIOPupdr, uint32(pull&3)<<shift)
	}
	return nil
}

// SetPin drives the pin through BSRR. This is a single store that touches
// only this pin's bit.
func (d *STM32GPIO) SetPin(pin GPIOPin, value bool) error {
	if err := d.Check(pin); err != nil {
		return err
	}
	d.regs.Store(d.layout.BankAddr(pin)+GPIOBsrr, bsrrMask(pin, value))
	return nil
}

// GetPin samples the input data register
func (d *STM32GPIO) GetPin(pin GPIOPin) (bool, error) {
	if err := d.Check(pin); err != nil {
		return false, err
	}
	idr := d.regs.Load(d.layout.BankAddr(pin) + GPIOIdr)
	return idr&(1<<pin.Index()) != 0, nil
}

// bsrrMask returns the BSRR word that sets (value=true) or resets the pin
func bsrrMask(pin GPIOPin, value bool) uint32 {
	if value {
		return 1 << pin.Index()
	}
	return 1 << (pin.Index() + bsrrResetShift)
}
