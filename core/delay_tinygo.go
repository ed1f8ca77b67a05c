//go:build tinygo

package core

import "runtime/volatile"

// busyWait counts through a volatile register so every increment is a real
// load and store
func busyWait(iterations uint32) {
	var counter volatile.Register32
	for counter.Set(0); counter.Get() < iterations; counter.Set(counter.Get() + 1) {
	}
}
