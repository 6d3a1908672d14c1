package interview

// Timer IDs used in expiry events.
const (
	TimerQuestion = "question"
	TimerOverall  = "overall"
)

// Countdown is one passive countdown timer. It never schedules anything
// itself; the session manager's clock calls Tick once per second while the
// owning session is active, so the countdown stays testable without any
// scheduling environment.
type Countdown struct {
	LimitSeconds     int  `json:"limit_seconds"`
	RemainingSeconds int  `json:"remaining_seconds"`
	Active           bool `json:"active"`
}

// Arm resets the countdown to limit and activates it.
func (c *Countdown) Arm(limitSeconds int) {
	if limitSeconds < 0 {
		limitSeconds = 0
	}
	c.LimitSeconds = limitSeconds
	c.RemainingSeconds = limitSeconds
	c.Active = limitSeconds > 0
}

// Disarm deactivates without resetting remaining, so a later Resume picks up
// exactly where Pause left off.
func (c *Countdown) Disarm() {
	c.Active = false
}

// Tick decrements an active countdown by one second. It returns true exactly
// once: on the tick that drives remaining to zero, which also deactivates the
// countdown. Ticks while inactive or already at zero are no-ops.
func (c *Countdown) Tick() (expired bool) {
	if !c.Active || c.RemainingSeconds <= 0 {
		return false
	}
	c.RemainingSeconds--
	if c.RemainingSeconds <= 0 {
		c.RemainingSeconds = 0
		c.Active = false
		return true
	}
	return false
}
