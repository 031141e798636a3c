package service

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/go-flock-vault/models"
)

// AuthService is the authentication gate for every read/write/delete on the
// vault. See the authService implementation for the anti-enumeration and
// timing guarantees.
type AuthService interface {
	// Authenticate verifies (account, token) and returns the account record.
	// Unknown account and wrong token produce the identical
	// ErrAuthenticationFailed.
	Authenticate(ctx context.Context, accountID, token string) (models.Account, error)

	// CheckPassword exposes authentication as a boolean for login flows; it
	// never returns an error for a bad guess.
	CheckPassword(ctx context.Context, accountID, token string) bool
}

// AccountService manages account creation and the plaintext metadata
// document.
type AccountService interface {
	// Register conditionally creates the account. False means the
	// identifier is already taken, an ordinary outcome rather than an error.
	Register(ctx context.Context, account models.Account) (bool, error)

	// Get fetches the account record. Callers are expected to have
	// authenticated already; the stored token is never serialized back to
	// clients.
	Get(ctx context.Context, accountID string) (models.Account, error)

	// SetMetadata replaces the metadata document of an account.
	SetMetadata(ctx context.Context, accountID string, metadata json.RawMessage) error
}

// ItemService stores and retrieves opaque encrypted records.
type ItemService interface {
	Set(ctx context.Context, item models.Item) error
	Get(ctx context.Context, accountID, itemID string) (models.Item, error)
	FetchAll(ctx context.Context, accountID string) ([]models.Item, error)
	Delete(ctx context.Context, accountID, itemID string) error
}

// SubscriptionService manages push-subscription bookkeeping.
type SubscriptionService interface {
	Set(ctx context.Context, sub models.Subscription) error
	Get(ctx context.Context, accountID, token string) (models.Subscription, error)

	// ReportFailure counts one delivery failure, evicting the subscription
	// once the configured threshold is reached.
	ReportFailure(ctx context.Context, accountID, token string) error

	// All enumerates every subscription across all accounts (paginated and
	// partial-failure tolerant underneath).
	All(ctx context.Context) ([]models.Subscription, error)
}
