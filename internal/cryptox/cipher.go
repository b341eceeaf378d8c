package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"

	"github.com/dmitrijs2005/legacykeeper/internal/common"
)

const nonceSize = 12

// Encrypt seals plaintext under a 32-byte key with AES-256-GCM and returns
// an opaque base64 string of nonce || ciphertext || tag. A fresh random
// nonce is generated per call, so encrypting the same plaintext twice
// yields different outputs.
func Encrypt(plaintext string, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := common.GenerateRandByteArray(nonceSize)

	// nonce is prepended so Decrypt needs nothing besides the key
	sealed := aesgcm.Seal(nonce, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. A wrong key, a tampered ciphertext and a
// malformed input all fail with common.ErrDecryptionFailed; the caller
// cannot (and must not) tell which of the three happened.
func Decrypt(ciphertext string, key []byte) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", common.ErrDecryptionFailed
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", common.ErrDecryptionFailed
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", common.ErrDecryptionFailed
	}

	if len(raw) < nonceSize {
		return "", common.ErrDecryptionFailed
	}

	plaintext, err := aesgcm.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return "", common.ErrDecryptionFailed
	}

	return string(plaintext), nil
}
