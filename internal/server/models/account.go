// Package models defines server-side data models persisted in the database.
package models

import "time"

// Account is one user of the vault together with the dead-man's-switch
// state that governs the legacy transmission.
//
// Salt is assigned once at registration and never rotated: regenerating it
// would silently invalidate every entry the user ever encrypted.
// TransmissionTriggered is a write-once flag; no code path may set it back
// to false.
type Account struct {
	ID       string
	Email    string
	Salt     []byte
	Verifier []byte

	HeartbeatIntervalDays int
	GracePeriodDays       int
	LastHeartbeatAt       time.Time
	TransmissionTriggered bool

	// LastReminderSentAt bounds how often overdue reminders go out.
	// Zero means no reminder has been sent since the last heartbeat.
	LastReminderSentAt time.Time

	CreatedAt time.Time
}

// HeartbeatInterval returns the interval as a duration.
func (a *Account) HeartbeatInterval() time.Duration {
	return time.Duration(a.HeartbeatIntervalDays) * 24 * time.Hour
}

// GracePeriod returns the grace period as a duration.
func (a *Account) GracePeriod() time.Duration {
	return time.Duration(a.GracePeriodDays) * 24 * time.Hour
}
