package core

// RegisterFile is the capability core code uses to touch hardware registers.
// Production firmware binds it to memory-mapped addresses (MMIO); host tests
// bind it to MemoryRegisters.
//
// Implementations must perform every Load and Store in program order and must
// not merge, cache or drop accesses.
type RegisterFile interface {
	// Load reads the 32-bit register at addr
	Load(addr uintptr) uint32

	// Store writes the 32-bit register at addr
	Store(addr uintptr, value uint32)
}

// SetBits performs a read-modify-write that ORs mask into the register
func SetBits(r RegisterFile, addr uintptr, mask uint32) {
	r.Store(addr, r.Load(addr)|mask)
}

// ClearBits performs a read-modify-write that clears mask in the register
func ClearBits(r RegisterFile, addr uintptr, mask uint32) {
	r.Store(addr, r.Load(addr)&^mask)
}

// HasBits reports whether every bit of mask is set in the register
func HasBits(r RegisterFile, addr uintptr, mask uint32) bool {
	return r.Load(addr)&mask == mask
}

// Field extracts a width-bit field starting at shift from a register value
func Field(value uint32, shift, width uint8) uint32 {
	return (value >> shift) & (1<<width - 1)
}
