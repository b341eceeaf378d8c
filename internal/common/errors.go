// Package common defines shared constants and sentinel errors used across
// client and server layers of LegacyKeeper. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// ErrDecryptionFailed covers a wrong key, a tampered ciphertext and a
	// malformed ciphertext alike. The three cases are deliberately
	// indistinguishable to the caller.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrConfigInvalid marks an account whose legacy settings cannot be
	// evaluated (missing salt, interval or grace out of range).
	ErrConfigInvalid = errors.New("invalid legacy configuration")

	// ErrAlreadyTriggered is returned when a mutation is attempted on an
	// account whose transmission already fired. The flag is write-once.
	ErrAlreadyTriggered = errors.New("transmission already triggered")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
