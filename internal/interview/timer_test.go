package interview

import "testing"

func TestCountdownArm(t *testing.T) {
	tests := []struct {
		name          string
		limit         int
		wantRemaining int
		wantActive    bool
	}{
		{"positive limit", 180, 180, true},
		{"zero limit stays inactive", 0, 0, false},
		{"negative limit clamps to zero", -5, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Countdown
			c.Arm(tt.limit)
			if c.RemainingSeconds != tt.wantRemaining {
				t.Errorf("RemainingSeconds = %d, want %d", c.RemainingSeconds, tt.wantRemaining)
			}
			if c.Active != tt.wantActive {
				t.Errorf("Active = %v, want %v", c.Active, tt.wantActive)
			}
		})
	}
}

func TestCountdownTickExpiresExactlyOnce(t *testing.T) {
	var c Countdown
	c.Arm(3)

	expiries := 0
	for i := 0; i < 10; i++ {
		if c.Tick() {
			expiries++
		}
		if c.RemainingSeconds < 0 {
			t.Fatalf("remaining went negative: %d", c.RemainingSeconds)
		}
		if c.RemainingSeconds > c.LimitSeconds {
			t.Fatalf("remaining %d exceeds limit %d", c.RemainingSeconds, c.LimitSeconds)
		}
	}

	if expiries != 1 {
		t.Errorf("expired %d times, want exactly 1", expiries)
	}
	if c.Active {
		t.Error("countdown still active after expiry")
	}
	if c.RemainingSeconds != 0 {
		t.Errorf("RemainingSeconds = %d after expiry, want 0", c.RemainingSeconds)
	}
}

func TestCountdownDisarmPreservesRemaining(t *testing.T) {
	var c Countdown
	c.Arm(60)
	c.Tick()
	c.Tick()

	c.Disarm()
	if c.RemainingSeconds != 58 {
		t.Fatalf("RemainingSeconds = %d after disarm, want 58", c.RemainingSeconds)
	}

	// Ticks while disarmed must not move the clock.
	for i := 0; i < 5; i++ {
		if c.Tick() {
			t.Fatal("disarmed countdown reported expiry")
		}
	}
	if c.RemainingSeconds != 58 {
		t.Errorf("RemainingSeconds = %d after disarmed ticks, want 58", c.RemainingSeconds)
	}
}

func TestCountdownTickInactiveNoop(t *testing.T) {
	var c Countdown
	if c.Tick() {
		t.Error("zero-value countdown reported expiry")
	}
	if c.RemainingSeconds != 0 {
		t.Errorf("RemainingSeconds = %d, want 0", c.RemainingSeconds)
	}
}
