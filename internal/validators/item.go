// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators holds request validation applied before any persistence
// or transport side effect takes place.
package validators

import (
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-flock-vault/models"
)

// ValidateItem checks that an encrypted item record carries every required
// field and that its serialized form fits within models.MaxItemSize.
//
// The server cannot inspect the ciphertext, so this is the only write-time
// validation it can perform: cipher, iv and type must all be present (a
// record missing any of them could never be decrypted or routed), and the
// whole record must stay below the storage ceiling.
func ValidateItem(item models.Item) error {
	if item.Account == "" {
		return ErrEmptyAccount
	}
	if item.ItemID == "" {
		return ErrEmptyItemID
	}
	if item.Cipher == "" {
		return ErrEmptyCipher
	}
	if item.IV == "" {
		return ErrEmptyIV
	}
	if item.Type == "" {
		return ErrEmptyType
	}

	serialized, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("serialize item for size check: %w", err)
	}
	if len(serialized) > models.MaxItemSize {
		return fmt.Errorf("%w: %d > %d bytes", ErrItemTooLarge, len(serialized), models.MaxItemSize)
	}

	return nil
}
