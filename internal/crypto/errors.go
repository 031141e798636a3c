package crypto

import "errors"

var (
	// ErrDecryptionFailed is returned when the GCM authentication tag does
	// not verify during decryption. It is the system's tamper/integrity
	// signal: callers must propagate it and must never map it to empty data
	// or to a "not found" condition.
	ErrDecryptionFailed = errors.New("decryption failed: ciphertext rejected")

	// ErrInvalidKeySize is returned by Import when the supplied raw key
	// material is not a valid AES-256 key.
	ErrInvalidKeySize = errors.New("imported key must be 32 bytes")
)
