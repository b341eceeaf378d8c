// Package legacy implements the dead-man's-switch state machine. The
// evaluator is a pure function of the stored timer fields and a caller
// supplied instant; it performs no I/O, which is what makes it testable
// in isolation from the sweep that acts on its decisions.
package legacy

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/legacykeeper/internal/common"
)

// Status is an account's position in the lifecycle. Statuses only ever
// move forward: Alive -> Overdue -> Triggered, and Triggered is terminal.
type Status int

const (
	// StatusAlive: the heartbeat interval since the last check-in has not
	// elapsed yet.
	StatusAlive Status = iota

	// StatusOverdue: the interval elapsed but the grace period has not.
	// The account owner should be reminded to check in.
	StatusOverdue

	// StatusTriggered: interval plus grace elapsed, or the transmission
	// already fired earlier. Terminal.
	StatusTriggered
)

func (s Status) String() string {
	switch s {
	case StatusAlive:
		return "alive"
	case StatusOverdue:
		return "overdue"
	case StatusTriggered:
		return "triggered"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Timer is the evaluator's view of one account: the four persisted fields
// the lifecycle decision depends on, and nothing else.
type Timer struct {
	HeartbeatInterval time.Duration
	GracePeriod       time.Duration
	LastHeartbeatAt   time.Time
	Triggered         bool
}

// Deadline is the instant the account becomes overdue.
func (t Timer) Deadline() time.Time {
	return t.LastHeartbeatAt.Add(t.HeartbeatInterval)
}

// FinalDeadline is the instant the transmission becomes irreversible.
func (t Timer) FinalDeadline() time.Time {
	return t.Deadline().Add(t.GracePeriod)
}

// Validate checks the timer fields against the configured bounds. An
// already-triggered timer is always valid: it needs no further evaluation.
func (t Timer) Validate() error {
	if t.Triggered {
		return nil
	}

	const day = 24 * time.Hour

	minInterval := common.MinHeartbeatIntervalDays * day
	maxInterval := common.MaxHeartbeatIntervalDays * day
	if t.HeartbeatInterval < minInterval || t.HeartbeatInterval > maxInterval {
		return fmt.Errorf("%w: heartbeat interval %v out of range", common.ErrConfigInvalid, t.HeartbeatInterval)
	}

	minGrace := common.MinGracePeriodDays * day
	maxGrace := common.MaxGracePeriodDays * day
	if t.GracePeriod < minGrace || t.GracePeriod > maxGrace {
		return fmt.Errorf("%w: grace period %v out of range", common.ErrConfigInvalid, t.GracePeriod)
	}

	if t.LastHeartbeatAt.IsZero() {
		return fmt.Errorf("%w: missing last heartbeat", common.ErrConfigInvalid)
	}

	return nil
}

// Evaluate maps a timer and an instant to a lifecycle status.
//
// Boundary instants belong to the later state: at exactly
// last+interval the account is Overdue, at exactly last+interval+grace
// it is Triggered. A timer whose Triggered flag is already set evaluates
// to StatusTriggered for any now, including one earlier than the last
// heartbeat — clock skew must never resurrect an account.
func Evaluate(t Timer, now time.Time) (Status, error) {
	if t.Triggered {
		return StatusTriggered, nil
	}

	if err := t.Validate(); err != nil {
		return StatusAlive, err
	}

	switch {
	case now.Before(t.Deadline()):
		return StatusAlive, nil
	case now.Before(t.FinalDeadline()):
		return StatusOverdue, nil
	default:
		return StatusTriggered, nil
	}
}

// ShouldRemind reports whether a reminder may be sent at now, given the
// time the previous reminder went out and the configured cadence. A zero
// lastReminderAt means no reminder has ever been sent.
func ShouldRemind(lastReminderAt, now time.Time, cadence time.Duration) bool {
	if lastReminderAt.IsZero() {
		return true
	}
	return !now.Before(lastReminderAt.Add(cadence))
}
