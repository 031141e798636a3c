// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/MKhiriev/go-flock-vault/models"
)

// ─────────────────────────────────────────────
// Mock: store.Driver
// ─────────────────────────────────────────────

type mockDriver struct {
	createAccountFn           func(ctx context.Context, account models.Account) (bool, error)
	getAccountFn              func(ctx context.Context, account string) (models.Account, error)
	setMetadataFn             func(ctx context.Context, account string, metadata json.RawMessage) error
	setItemFn                 func(ctx context.Context, item models.Item) error
	getItemFn                 func(ctx context.Context, account, itemID string) (models.Item, error)
	fetchAllItemsFn           func(ctx context.Context, account string) ([]models.Item, error)
	deleteItemFn              func(ctx context.Context, account, itemID string) error
	setSubscriptionFn         func(ctx context.Context, sub models.Subscription) error
	getSubscriptionFn         func(ctx context.Context, account, token string) (models.Subscription, error)
	countSubscriptionFailFn   func(ctx context.Context, account, token string, maxFailures int) error
	everySubscriptionFn       func(ctx context.Context) ([]models.Subscription, error)
}

func (m *mockDriver) Init(_ context.Context) error { return nil }

func (m *mockDriver) CreateAccount(ctx context.Context, account models.Account) (bool, error) {
	if m.createAccountFn != nil {
		return m.createAccountFn(ctx, account)
	}
	return true, nil
}

func (m *mockDriver) GetAccount(ctx context.Context, account string) (models.Account, error) {
	if m.getAccountFn != nil {
		return m.getAccountFn(ctx, account)
	}
	return models.Account{}, nil
}

func (m *mockDriver) SetMetadata(ctx context.Context, account string, metadata json.RawMessage) error {
	if m.setMetadataFn != nil {
		return m.setMetadataFn(ctx, account, metadata)
	}
	return nil
}

func (m *mockDriver) SetItem(ctx context.Context, item models.Item) error {
	if m.setItemFn != nil {
		return m.setItemFn(ctx, item)
	}
	return nil
}

func (m *mockDriver) GetItem(ctx context.Context, account, itemID string) (models.Item, error) {
	if m.getItemFn != nil {
		return m.getItemFn(ctx, account, itemID)
	}
	return models.Item{}, nil
}

func (m *mockDriver) FetchAllItems(ctx context.Context, account string) ([]models.Item, error) {
	if m.fetchAllItemsFn != nil {
		return m.fetchAllItemsFn(ctx, account)
	}
	return nil, nil
}

func (m *mockDriver) DeleteItem(ctx context.Context, account, itemID string) error {
	if m.deleteItemFn != nil {
		return m.deleteItemFn(ctx, account, itemID)
	}
	return nil
}

func (m *mockDriver) SetSubscription(ctx context.Context, sub models.Subscription) error {
	if m.setSubscriptionFn != nil {
		return m.setSubscriptionFn(ctx, sub)
	}
	return nil
}

func (m *mockDriver) GetSubscription(ctx context.Context, account, token string) (models.Subscription, error) {
	if m.getSubscriptionFn != nil {
		return m.getSubscriptionFn(ctx, account, token)
	}
	return models.Subscription{}, nil
}

func (m *mockDriver) CountSubscriptionFailure(ctx context.Context, account, token string, maxFailures int) error {
	if m.countSubscriptionFailFn != nil {
		return m.countSubscriptionFailFn(ctx, account, token, maxFailures)
	}
	return nil
}

func (m *mockDriver) EverySubscription(ctx context.Context) ([]models.Subscription, error) {
	if m.everySubscriptionFn != nil {
		return m.everySubscriptionFn(ctx)
	}
	return nil, nil
}

var errStorage = errors.New("storage error")
