package common

import "testing"

func TestSign(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{3.5, 1},
		{-0.1, -1},
		{0, 0},
	}
	for _, c := range cases {
		if got := Sign(c.in); got != c.want {
			t.Fatalf("Sign(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestClampAndApproach(t *testing.T) {
	if got := Clamp(12, 0, 10); got != 10 {
		t.Fatalf("expected clamp to max, got %v", got)
	}
	if got := Clamp(-2, 0, 10); got != 0 {
		t.Fatalf("expected clamp to min, got %v", got)
	}
	if got := Approach(0, 10, 4); got != 4 {
		t.Fatalf("expected 4, got %v", got)
	}
	if got := Approach(10, 0, 20); got != 0 {
		t.Fatalf("expected overshoot to stop at target, got %v", got)
	}
}

func TestCountDownExpiresOnTheExactTick(t *testing.T) {
	cases := []struct {
		duration float64
		dt       float64
		ticks    int
	}{
		{3, 1.0 / 60, 180},
		{1, 1.0 / 30, 30},
		{0.5, 0.1, 5},
		{0.2, 1.0 / 60, 12},
	}
	for _, c := range cases {
		remaining := c.duration
		ticks := 0
		for done := false; !done; {
			remaining, done = CountDown(remaining, c.dt)
			ticks++
			if ticks > c.ticks+10 {
				t.Fatalf("duration %v never expired", c.duration)
			}
		}
		if ticks != c.ticks {
			t.Fatalf("duration %v at dt %v: expired after %d ticks, want %d", c.duration, c.dt, ticks, c.ticks)
		}
		if remaining != 0 {
			t.Fatalf("expired timer should be zero, got %v", remaining)
		}
	}
}

func TestReachedToleratesSummedTicks(t *testing.T) {
	if !Reached(0.6-1e-12, 0.6) {
		t.Fatal("drift below the mark should still reach it")
	}
	if Reached(0.5, 0.6) {
		t.Fatal("0.5 should not reach 0.6")
	}
}
