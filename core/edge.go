package core

// ButtonState is the normalised sample of the button pin
type ButtonState uint8

const (
	Idle    ButtonState = 0
	Pressed ButtonState = 1
)

// StateFromLevel converts a pin level to a ButtonState
func StateFromLevel(level bool) ButtonState {
	if level {
		return Pressed
	}
	return Idle
}

// DetectEdge is the two-state edge detector. It returns the state to carry
// into the next iteration (always the sample) and whether a toggle fires.
// Only Idle -> Pressed fires.
func DetectEdge(prev, sample ButtonState) (next ButtonState, toggle bool) {
	return sample, prev == Idle && sample == Pressed
}
