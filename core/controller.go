package core

// EventHandler receives controller events as they happen
type EventHandler func(Event)

// Stats is a snapshot of the controller's counters
type Stats struct {
	Loops   uint32 // Completed Step calls
	Toggles uint32 // Rising edges acted on
	Faults  uint32 // Steps that returned an error inside Run
}

// Controller polls the button and toggles the LED on each rising edge of
// the sampled button bit. It owns lastButton and led exclusively.
type Controller struct {
	gpio  GPIODriver
	board Board
	wait  Waiter

	lastButton ButtonState
	led        bool

	stats   Stats
	ring    EventRing
	handler EventHandler
}

// NewController creates a controller. wait may be nil for BusyWait.
func NewController(gpio GPIODriver, board Board, wait Waiter) *Controller {
	if wait == nil {
		wait = BusyWait
	}
	return &Controller{
		gpio:  gpio,
		board: board,
		wait:  wait,
	}
}

// SetEventHandler installs a handler called for every recorded event
func (c *Controller) SetEventHandler(h EventHandler) {
	c.handler = h
}

// Init runs once before the polling loop. The order of register accesses is
// mandatory: clocks, LED, button, LED off, seed sample.
func (c *Controller) Init() error {
	if err := c.board.Validate(); err != nil {
		return err
	}

	if err := c.gpio.EnableClocks(c.board.LED, c.board.Button); err != nil {
		return err
	}
	if err := c.gpio.ConfigureOutput(c.board.LED, c.board.LEDOutput); err != nil {
		return err
	}
	if err := c.gpio.ConfigureInput(c.board.Button, c.board.ButtonPull); err != nil {
		return err
	}
	if err := c.gpio.SetPin(c.board.LED, false); err != nil {
		return err
	}

	// Seed so a button held at power-on is not seen as an edge
	level, err := c.gpio.GetPin(c.board.Button)
	if err != nil {
		return err
	}
	c.lastButton = StateFromLevel(level)
	c.led = false
	c.stats = Stats{}

	c.record(EvtInit, uint32(c.lastButton))
	DebugPrintln("[CTRL] init led=" + c.board.LED.String() + " button=" + c.board.Button.String() +
		" delay=" + utoa(c.board.DelayIterations))
	return nil
}

// Step runs one iteration of the polling loop: sample, edge-detect, toggle,
// commit, delay. The delay runs on every pass, including failed ones.
func (c *Controller) Step() error {
	defer c.wait.Wait(c.board.DelayIterations)

	level, err := c.gpio.GetPin(c.board.Button)
	if err != nil {
		return err
	}
	sample := StateFromLevel(level)

	next, toggle := DetectEdge(c.lastButton, sample)
	if next != c.lastButton {
		if next == Pressed {
			c.record(EvtButtonHigh, 0)
		} else {
			c.record(EvtButtonLow, 0)
		}
	}

	if toggle {
		if err := c.gpio.SetPin(c.board.LED, !c.led); err != nil {
			return err
		}
		c.led = !c.led
		c.stats.Toggles++
		if c.led {
			c.record(EvtToggle, 1)
		} else {
			c.record(EvtToggle, 0)
		}
	}

	c.lastButton = next
	c.stats.Loops++
	return nil
}

// Run polls forever. It never returns.
func (c *Controller) Run() {
	for {
		if err := c.Step(); err != nil {
			c.stats.Faults++
			c.record(EvtFault, c.stats.Faults)
			DebugPrintln("[CTRL] step failed: " + err.Error())
		}
	}
}

// LED returns the last commanded LED state
func (c *Controller) LED() bool {
	return c.led
}

// LastButton returns the button state carried into the next Step
func (c *Controller) LastButton() ButtonState {
	return c.lastButton
}

// Board returns the wiring the controller was built with
func (c *Controller) Board() Board {
	return c.board
}

// Stats returns a snapshot of the counters
func (c *Controller) Stats() Stats {
	return c.stats
}

// Events returns the recorded events, oldest first
func (c *Controller) Events() []Event {
	return c.ring.Events()
}

// DumpEvents writes the event ring through w
func (c *Controller) DumpEvents(w DebugWriter) {
	c.ring.Dump(w)
}

func (c *Controller) record(eventType uint8, value uint32) {
	evt := Event{Type: eventType, Loop: c.stats.Loops, Value: value}
	c.ring.Record(evt)
	if c.handler != nil {
		c.handler(evt)
	}
}
