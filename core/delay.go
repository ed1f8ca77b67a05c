package core

// Waiter is the debounce delay capability
type Waiter interface {
	// Wait spins for the given number of iterations
	Wait(iterations uint32)
}

// WaitFunc adapts a function to the Waiter interface
type WaitFunc func(iterations uint32)

// Wait implements Waiter
func (f WaitFunc) Wait(iterations uint32) {
	f(iterations)
}

// BusyWait is the production delay: a counted spin loop the compiler cannot
// remove. It is not derived from a hardware timer.
var BusyWait Waiter = WaitFunc(busyWait)

// NoWait returns immediately. Host tests and simulations use it.
var NoWait Waiter = WaitFunc(func(uint32) {})
