package core

// AccessKind distinguishes loads from stores in the access log
type AccessKind uint8

const (
	AccessLoad AccessKind = iota
	AccessStore
)

// Access is one logged register access
type Access struct {
	Kind  AccessKind
	Addr  uintptr
	Value uint32
}

// MemoryRegisters is an in-memory RegisterFile. Unwritten addresses read as
// Fill. Hooks let a harness model peripheral side effects (write-only
// registers, input pins) without changing the code under test.
type MemoryRegisters struct {
	// Fill is returned for addresses that were never stored
	Fill uint32

	// OnLoad, if set, may replace the value returned by a load
	OnLoad func(addr uintptr, value uint32) uint32

	// OnStore, if set, is called for every store. Returning false keeps the
	// value out of backing memory (write-only or self-clearing registers).
	OnStore func(addr uintptr, value uint32) bool

	values  map[uintptr]uint32
	log     []Access
	logging bool
}

// NewMemoryRegisters creates an empty register file with access logging on
func NewMemoryRegisters() *MemoryRegisters {
	return &MemoryRegisters{
		values:  make(map[uintptr]uint32),
		logging: true,
	}
}

// Load implements RegisterFile
func (m *MemoryRegisters) Load(addr uintptr) uint32 {
	value, ok := m.values[addr]
	if !ok {
		value = m.Fill
	}
	if m.OnLoad != nil {
		value = m.OnLoad(addr, value)
	}
	if m.logging {
		m.log = append(m.log, Access{Kind: AccessLoad, Addr: addr, Value: value})
	}
	return value
}

// Store implements RegisterFile
func (m *MemoryRegisters) Store(addr uintptr, value uint32) {
	if m.logging {
		m.log = append(m.log, Access{Kind: AccessStore, Addr: addr, Value: value})
	}
	if m.OnStore != nil && !m.OnStore(addr, value) {
		return
	}
	m.values[addr] = value
}

// Peek returns the backing value without running hooks or logging
func (m *MemoryRegisters) Peek(addr uintptr) uint32 {
	value, ok := m.values[addr]
	if !ok {
		return m.Fill
	}
	return value
}

// Poke sets the backing value without running hooks or logging
func (m *MemoryRegisters) Poke(addr uintptr, value uint32) {
	m.values[addr] = value
}

// SetLogging turns the access log on or off. Long-running simulations
// disable it to keep memory bounded.
func (m *MemoryRegisters) SetLogging(enabled bool) {
	m.logging = enabled
}

// Accesses returns the logged accesses since the last ClearLog
func (m *MemoryRegisters) Accesses() []Access {
	return m.log
}

// Stores returns only the logged stores to addr
func (m *MemoryRegisters) Stores(addr uintptr) []uint32 {
	var out []uint32
	for _, a := range m.log {
		if a.Kind == AccessStore && a.Addr == addr {
			out = append(out, a.Value)
		}
	}
	return out
}

// ClearLog discards the access log
func (m *MemoryRegisters) ClearLog() {
	m.log = m.log[:0]
}
