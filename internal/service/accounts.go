package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-flock-vault/internal/logger"
	"github.com/MKhiriev/go-flock-vault/internal/store"
	"github.com/MKhiriev/go-flock-vault/models"
)

// accountService implements AccountService on top of the storage driver.
type accountService struct {
	driver store.Driver
	logger *logger.Logger
}

// NewAccountService constructs an AccountService backed by the given driver.
func NewAccountService(driver store.Driver, logger *logger.Logger) AccountService {
	return &accountService{
		driver: driver,
		logger: logger,
	}
}

// Register creates a new account via the driver's conditional insert.
//
// Returns (false, nil) when the identifier is taken; the stored record is
// untouched in that case. An empty account or token is rejected before any
// storage interaction.
func (a *accountService) Register(ctx context.Context, account models.Account) (bool, error) {
	log := logger.FromContext(ctx)

	if account.Account == "" || account.AuthToken == "" {
		log.Error().Str("account", account.Account).Msg("invalid account data provided")
		return false, ErrInvalidDataProvided
	}

	created, err := a.driver.CreateAccount(ctx, account)
	if err != nil {
		log.Err(err).Str("account", account.Account).Msg("account creation ended with error")
		return false, fmt.Errorf("account creation ended with error: %w", err)
	}

	return created, nil
}

// Get fetches the account record by identifier.
func (a *accountService) Get(ctx context.Context, accountID string) (models.Account, error) {
	if accountID == "" {
		return models.Account{}, ErrInvalidDataProvided
	}

	return a.driver.GetAccount(ctx, accountID)
}

// SetMetadata unconditionally replaces the account's metadata. The caller is
// expected to have authenticated already (the HTTP layer does this in
// middleware).
func (a *accountService) SetMetadata(ctx context.Context, accountID string, metadata json.RawMessage) error {
	if accountID == "" {
		return ErrInvalidDataProvided
	}
	if metadata == nil {
		metadata = json.RawMessage("{}")
	}

	return a.driver.SetMetadata(ctx, accountID, metadata)
}
