// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store implements the server-side persistence layer of the vault:
// account records, opaque encrypted items, and push-subscription bookkeeping.
//
// The concrete backing store is PostgreSQL (see [NewConnectPostgres] and
// [NewPostgresDriver]); an in-memory implementation backs tests and local
// development. Single-row conditional operations (account creation, the
// failure-counter increment and its guarded delete) are atomic per key, but
// there are no cross-row transaction guarantees: FetchAllItems and
// EverySubscription are not snapshots and may interleave with concurrent
// writes.
package store

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/go-flock-vault/models"
)

// Driver is the persistence contract of the vault server. All methods take a
// context for cancellation and deadline propagation.
type Driver interface {
	// Init idempotently ensures the required tables exist. Creating a table
	// that already exists is success; any other failure is propagated.
	Init(ctx context.Context) error

	// CreateAccount conditionally inserts a new account. It returns false,
	// not an error, when the account already exists, because "already
	// taken" is an ordinary, expected outcome for callers. Any other
	// persistence failure is returned as an error. A failed insert leaves
	// the stored record untouched.
	CreateAccount(ctx context.Context, account models.Account) (bool, error)

	// GetAccount fetches the raw account row, including the stored token.
	// It performs no authentication; that is the auth gate's job. Returns
	// ErrAccountNotFound when no row matches.
	GetAccount(ctx context.Context, account string) (models.Account, error)

	// SetMetadata unconditionally replaces the account's metadata document.
	SetMetadata(ctx context.Context, account string, metadata json.RawMessage) error

	// SetItem validates the record (required cipher/iv/type fields, size
	// ceiling) and then upserts it. Last write wins per (account, item).
	SetItem(ctx context.Context, item models.Item) error

	// GetItem is a point lookup by (account, item). Returns ErrItemNotFound
	// when absent.
	GetItem(ctx context.Context, account, itemID string) (models.Item, error)

	// FetchAllItems returns every item in the account's partition. No
	// cross-item atomicity is guaranteed.
	FetchAllItems(ctx context.Context, account string) ([]models.Item, error)

	// DeleteItem unconditionally removes an item. Deleting an absent item is
	// not an error.
	DeleteItem(ctx context.Context, account, itemID string) error

	// SetSubscription upserts a full subscription record, implicitly
	// resetting its failure counter to zero.
	SetSubscription(ctx context.Context, sub models.Subscription) error

	// GetSubscription is a point lookup by (account, token). Returns
	// ErrSubscriptionNotFound when absent.
	GetSubscription(ctx context.Context, account, token string) (models.Subscription, error)

	// CountSubscriptionFailure atomically increments the failure counter
	// while it is below maxFailures; once the threshold is reached the
	// record is deleted instead, guarded by a failures >= maxFailures
	// condition so that two concurrent reports racing on the threshold
	// cannot double-delete (the loser's delete is a no-op).
	CountSubscriptionFailure(ctx context.Context, account, token string, maxFailures int) error

	// EverySubscription enumerates all subscriptions, paginated, up to a
	// bounded cap. Pages fetched before a mid-scan failure are retained;
	// only a zero-page failure is reported as ErrSubscriptionScan.
	EverySubscription(ctx context.Context) ([]models.Subscription, error)
}
