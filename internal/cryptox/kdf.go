// Package cryptox implements the client-held encryption scheme: a slow
// password-based key derivation and an authenticated cipher for vault
// payloads. Everything here is a pure function of its inputs; no I/O, no
// logging. Derived keys must never be persisted or written to any durable
// store — they exist only for the duration of a single call chain.
package cryptox

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

// KDF parameters. Changing any of these invalidates every previously
// derived key, so they are fixed for the lifetime of the data format.
const (
	kdfIterations = 600_000
	KeySize       = 32
)

// DeriveKey derives a 256-bit symmetric key from a passphrase and a
// per-account salt using PBKDF2-HMAC-SHA256. Deterministic: the same
// (password, salt) pair always yields the same key, which is what allows
// the key to never be stored anywhere.
func DeriveKey(password, salt []byte) []byte {
	return pbkdf2.Key(password, salt, kdfIterations, KeySize, sha256.New)
}

// MakeVerifier hashes a derived key for server-side authentication. The
// server stores only this value; possessing it is not enough to decrypt
// anything.
func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}
