// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-flock-vault/internal/logger"
	"github.com/MKhiriev/go-flock-vault/internal/store"
	"github.com/MKhiriev/go-flock-vault/models"
)

// authService is the concrete implementation of AuthService: the gate every
// authenticated request passes through. It compares the presented token
// against the stored one in constant time and reports every failure mode as
// the single ErrAuthenticationFailed.
type authService struct {
	driver store.Driver
	logger *logger.Logger
}

// NewAuthService constructs an AuthService backed by the given driver.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(driver store.Driver, logger *logger.Logger) AuthService {
	return &authService{
		driver: driver,
		logger: logger,
	}
}

// dummyToken is compared against when the account row does not exist, so the
// missing-account path performs the same digest-and-compare work as the
// wrong-token path.
const dummyToken = "flock-vault-no-such-account"

// Authenticate looks up the account and verifies the presented token against
// the stored one.
//
// The comparison hashes both values to a fixed length and compares the
// digests with crypto/subtle, so neither the token length nor the position
// of the first differing byte leaks through response latency. When the
// account does not exist a comparison still runs against a dummy value.
//
// Every failure (unknown account, wrong token) comes back as
// ErrAuthenticationFailed with no distinguishing detail, so responses
// cannot be used to enumerate accounts.
func (a *authService) Authenticate(ctx context.Context, accountID, token string) (models.Account, error) {
	log := logger.FromContext(ctx)

	if accountID == "" || token == "" {
		return models.Account{}, ErrInvalidDataProvided
	}

	account, err := a.driver.GetAccount(ctx, accountID)
	if err != nil {
		if !errors.Is(err, store.ErrAccountNotFound) {
			log.Err(err).Str("func", "*authService.Authenticate").Msg("account lookup failed")
			return models.Account{}, fmt.Errorf("account lookup failed: %w", err)
		}
		// Equalise work with the found-account path before failing.
		tokensEqual(dummyToken, token)
		return models.Account{}, ErrAuthenticationFailed
	}

	if !tokensEqual(account.AuthToken, token) {
		log.Debug().Str("account", accountID).Msg("authentication failed")
		return models.Account{}, ErrAuthenticationFailed
	}

	return account, nil
}

// CheckPassword reports whether (account, token) authenticates, as a plain
// boolean for login flows. A bad guess is false, never an error; backend
// failures are also false because the caller cannot act on the difference.
func (a *authService) CheckPassword(ctx context.Context, accountID, token string) bool {
	_, err := a.Authenticate(ctx, accountID, token)
	return err == nil
}

// tokensEqual compares two tokens in constant time. Hashing both sides first
// fixes the compared length, so tokens of different lengths take the same
// time as tokens differing in one byte.
func tokensEqual(stored, presented string) bool {
	storedDigest := sha256.Sum256([]byte(stored))
	presentedDigest := sha256.Sum256([]byte(presented))
	return subtle.ConstantTimeCompare(storedDigest[:], presentedDigest[:]) == 1
}
