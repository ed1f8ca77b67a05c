//go:build !tinygo

package core

import "sync/atomic"

// spinCounter is package-level so the loop has an observable side effect
var spinCounter uint32

// busyWait spins through atomic operations (regular Go implementation)
func busyWait(iterations uint32) {
	for atomic.StoreUint32(&spinCounter, 0); atomic.LoadUint32(&spinCounter) < iterations; atomic.AddUint32(&spinCounter, 1) {
	}
}
