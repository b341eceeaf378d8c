package models

import "time"

// Heir is a designated recipient of an account's vault after the
// transmission triggers.
type Heir struct {
	ID        string
	AccountID string
	Name      string
	Email     string

	// AccessToken is assigned when the transmission fires; it is the
	// opaque reference mailed to the heir. Empty until then.
	AccessToken string
	NotifiedAt  time.Time

	CreatedAt time.Time
}
