package timer

import "testing"

func TestCountdownFiresOnce(t *testing.T) {
	fired := 0
	var c Countdown
	c.Start(0.2, func() { fired++ })
	if c.Tick(0.1) {
		t.Fatalf("fired too early")
	}
	if !c.Tick(0.1) {
		t.Fatalf("expected countdown to fire")
	}
	c.Tick(1)
	if fired != 1 {
		t.Fatalf("expected one callback, got %d", fired)
	}
	if c.Running() {
		t.Fatalf("expected countdown to be idle")
	}
}

func TestCountdownStop(t *testing.T) {
	fired := false
	var c Countdown
	c.Start(0.05, func() { fired = true })
	c.Stop()
	c.Tick(1)
	if fired {
		t.Fatalf("stopped countdown must not fire")
	}
	if c.Remaining() != 0 {
		t.Fatalf("expected no remaining time, got %v", c.Remaining())
	}
}
