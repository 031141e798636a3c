package validators

import "errors"

var (
	ErrEmptyAccount = errors.New("account is required")
	ErrEmptyItemID  = errors.New("item id is required")
	ErrEmptyCipher  = errors.New("cipher is required")
	ErrEmptyIV      = errors.New("iv is required")
	ErrEmptyType    = errors.New("type is required")

	// ErrItemTooLarge is returned when the JSON-serialized item record
	// exceeds models.MaxItemSize. The check runs before any persistence
	// attempt, so an oversized write has no side effect.
	ErrItemTooLarge = errors.New("item exceeds maximum serialized size")
)
