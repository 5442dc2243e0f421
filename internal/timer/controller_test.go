package timer

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestController() *Controller {
	c := New(zerolog.Nop())
	c.Interval = 5 * time.Millisecond
	return c
}

func TestRemaining(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)

	tests := []struct {
		name     string
		deadline time.Time
		want     int
	}{
		{name: "future", deadline: now.Add(90 * time.Second), want: 90},
		{name: "sub-second floor", deadline: now.Add(1500 * time.Millisecond), want: 1},
		{name: "exactly now", deadline: now, want: 0},
		{name: "past never negative", deadline: now.Add(-time.Minute), want: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Remaining(tc.deadline, now); got != tc.want {
				t.Errorf("Remaining = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestStart_TicksAndExpiresOnce(t *testing.T) {
	c := newTestController()
	defer c.Stop()

	var ticks, expiries atomic.Int32
	done := make(chan struct{})

	c.Start(time.Now().Add(30*time.Millisecond),
		func(remaining int) {
			if remaining < 0 {
				t.Errorf("negative remaining %d", remaining)
			}
			ticks.Add(1)
		},
		func() {
			expiries.Add(1)
			close(done)
		},
	)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("countdown never expired")
	}
	// Let any stray ticks after expiry land before counting.
	time.Sleep(50 * time.Millisecond)

	if got := expiries.Load(); got != 1 {
		t.Errorf("expiry fired %d times, want 1", got)
	}
	if ticks.Load() == 0 {
		t.Error("expected at least one tick before expiry")
	}
}

func TestStart_ImmediateExpiryForPastDeadline(t *testing.T) {
	c := newTestController()
	defer c.Stop()

	done := make(chan struct{})
	c.Start(time.Now().Add(-time.Second), nil, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("past deadline did not expire immediately")
	}
}

func TestStop_PreventsExpiry(t *testing.T) {
	c := newTestController()

	var expiries atomic.Int32
	c.Start(time.Now().Add(40*time.Millisecond), nil, func() { expiries.Add(1) })
	c.Stop()

	time.Sleep(100 * time.Millisecond)
	if got := expiries.Load(); got != 0 {
		t.Errorf("expiry fired %d times after Stop, want 0", got)
	}
}

func TestStart_ReplacesRunningCountdown(t *testing.T) {
	c := newTestController()
	defer c.Stop()

	var first, second atomic.Int32
	done := make(chan struct{})

	c.Start(time.Now().Add(40*time.Millisecond), nil, func() { first.Add(1) })
	c.Start(time.Now().Add(20*time.Millisecond), nil, func() {
		second.Add(1)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("replacement countdown never expired")
	}
	time.Sleep(100 * time.Millisecond)

	if got := first.Load(); got != 0 {
		t.Errorf("replaced countdown expired %d times, want 0", got)
	}
	if got := second.Load(); got != 1 {
		t.Errorf("replacement expired %d times, want 1", got)
	}
}
