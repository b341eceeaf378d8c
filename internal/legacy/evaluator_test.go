package legacy

import (
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/legacykeeper/internal/common"
)

const day = 24 * time.Hour

func validTimer(last time.Time) Timer {
	return Timer{
		HeartbeatInterval: 30 * day,
		GracePeriod:       7 * day,
		LastHeartbeatAt:   last,
	}
}

func TestEvaluate_Boundaries(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	timer := validTimer(base)

	tests := []struct {
		name string
		now  time.Time
		want Status
	}{
		{name: "well inside interval", now: base.Add(29 * day), want: StatusAlive},
		{name: "one instant before deadline", now: base.Add(30 * day).Add(-time.Nanosecond), want: StatusAlive},
		{name: "exactly at deadline", now: base.Add(30 * day), want: StatusOverdue},
		{name: "deep in grace", now: base.Add(36*day + 23*time.Hour), want: StatusOverdue},
		{name: "one instant before final deadline", now: base.Add(37 * day).Add(-time.Nanosecond), want: StatusOverdue},
		{name: "exactly at final deadline", now: base.Add(37 * day), want: StatusTriggered},
		{name: "long after final deadline", now: base.Add(400 * day), want: StatusTriggered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(timer, tt.now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluate_TriggeredIsTerminal(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	timer := validTimer(base)
	timer.Triggered = true

	// Even a clock jumped into the past must not resurrect the account.
	for _, now := range []time.Time{
		base.Add(-365 * day),
		base,
		base.Add(time.Hour),
		base.Add(100 * day),
	} {
		got, err := Evaluate(timer, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != StatusTriggered {
			t.Fatalf("Evaluate(triggered, %v) = %v, want StatusTriggered", now, got)
		}
	}
}

func TestEvaluate_TriggeredSkipsValidation(t *testing.T) {
	got, err := Evaluate(Timer{Triggered: true}, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != StatusTriggered {
		t.Fatalf("got %v, want StatusTriggered", got)
	}
}

func TestEvaluate_InvalidConfig(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		timer Timer
	}{
		{name: "zero timer", timer: Timer{}},
		{name: "interval too short", timer: Timer{HeartbeatInterval: 3 * day, GracePeriod: 7 * day, LastHeartbeatAt: base}},
		{name: "interval negative", timer: Timer{HeartbeatInterval: -30 * day, GracePeriod: 7 * day, LastHeartbeatAt: base}},
		{name: "interval too long", timer: Timer{HeartbeatInterval: 400 * day, GracePeriod: 7 * day, LastHeartbeatAt: base}},
		{name: "grace too short", timer: Timer{HeartbeatInterval: 30 * day, GracePeriod: 0, LastHeartbeatAt: base}},
		{name: "grace too long", timer: Timer{HeartbeatInterval: 30 * day, GracePeriod: 45 * day, LastHeartbeatAt: base}},
		{name: "missing heartbeat", timer: Timer{HeartbeatInterval: 30 * day, GracePeriod: 7 * day}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Evaluate(tt.timer, base.Add(day)); !errors.Is(err, common.ErrConfigInvalid) {
				t.Fatalf("expected ErrConfigInvalid, got %v", err)
			}
		})
	}
}

func TestStatus_String(t *testing.T) {
	tests := []struct {
		s    Status
		want string
	}{
		{StatusAlive, "alive"},
		{StatusOverdue, "overdue"},
		{StatusTriggered, "triggered"},
		{Status(42), "status(42)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", int(tt.s), got, tt.want)
		}
	}
}

func TestShouldRemind(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	cadence := 24 * time.Hour

	tests := []struct {
		name string
		last time.Time
		want bool
	}{
		{name: "never reminded", last: time.Time{}, want: true},
		{name: "reminded an hour ago", last: now.Add(-time.Hour), want: false},
		{name: "reminded exactly one cadence ago", last: now.Add(-cadence), want: true},
		{name: "reminded two days ago", last: now.Add(-48 * time.Hour), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldRemind(tt.last, now, cadence); got != tt.want {
				t.Fatalf("ShouldRemind() = %v, want %v", got, tt.want)
			}
		})
	}
}
