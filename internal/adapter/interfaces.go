// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer abstractions for communicating
// with the vault server.
//
// The primary abstraction is [ServerAdapter], which decouples the client
// facade from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPServerAdapter]).
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrConflict] for 409, [ErrUnauthorized] for 401).
package adapter

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/go-flock-vault/models"
)

// ServerAdapter defines transport-agnostic communication with the vault
// server. Implementations are responsible for serialisation, authentication
// header management, and mapping transport-level errors to the sentinel
// values defined in this package.
type ServerAdapter interface {
	// SetCredentials stores the account identifier and bearer token that
	// will be attached to all subsequent authenticated requests. It should
	// be called immediately after deriving the vault key.
	SetCredentials(account, token string)

	// Account returns the account identifier currently stored in the
	// adapter, or an empty string if none has been set yet.
	Account() string

	// CreateAccount asks the server to create the account. Returns false,
	// not an error, when the identifier is already taken.
	CreateAccount(ctx context.Context, account models.Account) (bool, error)

	// CheckPassword verifies the stored credentials against the server
	// without mutating anything. A bad guess is false, never an error.
	CheckPassword(ctx context.Context) (bool, error)

	// GetAccount fetches the account record, including its plaintext
	// metadata document.
	GetAccount(ctx context.Context) (models.Account, error)

	// SetMetadata replaces the account's metadata document.
	SetMetadata(ctx context.Context, metadata json.RawMessage) error

	// SetItem writes one encrypted record. The server overwrites any
	// existing record with the same item identifier.
	SetItem(ctx context.Context, item models.Item) error

	// GetItem fetches one encrypted record. Returns [ErrNotFound] (wrapped)
	// when the item does not exist.
	GetItem(ctx context.Context, itemID string) (models.Item, error)

	// FetchAllItems fetches every encrypted record of the account.
	FetchAllItems(ctx context.Context) ([]models.Item, error)

	// DeleteItem removes one record. Deleting an absent item is success.
	DeleteItem(ctx context.Context, itemID string) error

	// SetSubscription registers or replaces a push subscription for the
	// given device token.
	SetSubscription(ctx context.Context, sub models.Subscription) error

	// GetSubscription fetches the subscription for the given device token.
	// Returns [ErrNotFound] (wrapped) when none is registered.
	GetSubscription(ctx context.Context, token string) (models.Subscription, error)
}
