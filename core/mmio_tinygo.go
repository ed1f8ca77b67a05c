//go:build tinygo

package core

import (
	"runtime/volatile"
	"unsafe"
)

// MMIO is the RegisterFile backed by real memory-mapped peripheral registers.
// Every access goes through runtime/volatile so the compiler keeps it.
type MMIO struct{}

// Load implements RegisterFile
func (MMIO) Load(addr uintptr) uint32 {
	return (*volatile.Register32)(unsafe.Pointer(addr)).Get()
}

// Store implements RegisterFile
func (MMIO) Store(addr uintptr, value uint32) {
	(*volatile.Register32)(unsafe.Pointer(addr)).Set(value)
}
