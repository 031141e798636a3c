// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package vault is the client-side facade of the system. It binds the
// cryptographic engine to a server transport so that callers work with plain
// Go values: objects go in, are encrypted locally, travel as opaque
// ciphertext, and come back decrypted. The server never sees a key.
package vault

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-flock-vault/internal/adapter"
	"github.com/MKhiriev/go-flock-vault/internal/crypto"
	"github.com/MKhiriev/go-flock-vault/models"
)

// DecryptedItem is one vault record after local decryption. Data holds the
// decrypted JSON payload of the record.
type DecryptedItem struct {
	ItemID string
	Type   string
	Data   json.RawMessage
}

// Client couples a per-account cryptographic engine with a server adapter.
//
// A Client is safe for concurrent use once constructed.
type Client struct {
	engine *crypto.Vault
	server adapter.ServerAdapter
}

// New derives the vault key from the account and password and returns a
// Client authenticated against the given server adapter. The password never
// leaves the process; only the derived token is sent.
func New(account, password string, server adapter.ServerAdapter) (*Client, error) {
	engine, err := crypto.New(account, password)
	if err != nil {
		return nil, fmt.Errorf("deriving vault key: %w", err)
	}

	return newClient(engine, server), nil
}

// Resume restores a Client from a previously exported key, skipping the
// expensive key derivation. It is the counterpart of [Client.ExportKey].
func Resume(account string, key []byte, server adapter.ServerAdapter) (*Client, error) {
	engine, err := crypto.Import(account, key)
	if err != nil {
		return nil, fmt.Errorf("importing vault key: %w", err)
	}

	return newClient(engine, server), nil
}

func newClient(engine *crypto.Vault, server adapter.ServerAdapter) *Client {
	server.SetCredentials(engine.Account(), engine.AuthToken())
	return &Client{
		engine: engine,
		server: server,
	}
}

// Account returns the account identifier this client is bound to.
func (c *Client) Account() string {
	return c.engine.Account()
}

// ExportKey returns a copy of the derived key for local session storage, so
// a later [Resume] does not have to re-run key derivation.
func (c *Client) ExportKey() []byte {
	return c.engine.Export()
}

// Register creates the account on the server. Returns false when the
// identifier is already taken; the caller should pick another one or check
// the password against the existing account.
func (c *Client) Register(ctx context.Context, metadata json.RawMessage) (bool, error) {
	return c.server.CreateAccount(ctx, models.Account{
		Account:   c.engine.Account(),
		AuthToken: c.engine.AuthToken(),
		Metadata:  metadata,
	})
}

// CheckPassword verifies the derived credentials against the server. A wrong
// password is false, not an error.
func (c *Client) CheckPassword(ctx context.Context) (bool, error) {
	return c.server.CheckPassword(ctx)
}

// Metadata fetches the account's plaintext metadata document.
func (c *Client) Metadata(ctx context.Context) (json.RawMessage, error) {
	account, err := c.server.GetAccount(ctx)
	if err != nil {
		return nil, err
	}
	return account.Metadata, nil
}

// SetMetadata replaces the account's plaintext metadata document.
func (c *Client) SetMetadata(ctx context.Context, metadata json.RawMessage) error {
	return c.server.SetMetadata(ctx, metadata)
}

// Store encrypts obj locally and writes it to the server under itemID.
// itemType is stored in plaintext alongside the ciphertext so that records
// can be grouped without decrypting them.
func (c *Client) Store(ctx context.Context, itemID, itemType string, obj any) error {
	ct, err := c.engine.EncryptObject(obj)
	if err != nil {
		return fmt.Errorf("encrypting item %q: %w", itemID, err)
	}

	return c.server.SetItem(ctx, models.Item{
		Account: c.engine.Account(),
		ItemID:  itemID,
		Cipher:  ct.Cipher,
		IV:      ct.IV,
		Type:    itemType,
	})
}

// Fetch retrieves the record stored under itemID and decrypts it into
// target. Returns [adapter.ErrNotFound] (wrapped) when the record does not
// exist and [crypto.ErrDecryptionFailed] (wrapped) when the ciphertext does
// not verify under this vault's key.
func (c *Client) Fetch(ctx context.Context, itemID string, target any) error {
	item, err := c.server.GetItem(ctx, itemID)
	if err != nil {
		return err
	}

	ct := models.CipherText{IV: item.IV, Cipher: item.Cipher}
	if err := c.engine.DecryptObject(ct, target); err != nil {
		return fmt.Errorf("decrypting item %q: %w", itemID, err)
	}

	return nil
}

// FetchAll retrieves and decrypts every record of the account.
//
// A record that fails to decrypt does not abort the rest: it is reported in
// itemErrs (keyed by item identifier) while all other records are returned
// normally. The third return value is non-nil only when the fetch itself
// failed and no records are available at all.
func (c *Client) FetchAll(ctx context.Context) (items []DecryptedItem, itemErrs map[string]error, err error) {
	records, err := c.server.FetchAllItems(ctx)
	if err != nil {
		return nil, nil, err
	}

	items = make([]DecryptedItem, 0, len(records))
	itemErrs = make(map[string]error)

	for _, record := range records {
		ct := models.CipherText{IV: record.IV, Cipher: record.Cipher}
		plaintext, decErr := c.engine.Decrypt(ct)
		if decErr != nil {
			itemErrs[record.ItemID] = decErr
			continue
		}

		items = append(items, DecryptedItem{
			ItemID: record.ItemID,
			Type:   record.Type,
			Data:   plaintext,
		})
	}

	return items, itemErrs, nil
}

// Delete removes the record stored under itemID. It is best-effort cleanup:
// true means a record existed and was removed; false means there was nothing
// to remove or the attempt failed. Callers treat deletion as advisory, so
// transport failures downgrade to false instead of an error.
func (c *Client) Delete(ctx context.Context, itemID string) bool {
	_, err := c.server.GetItem(ctx, itemID)
	if err != nil {
		return false
	}

	if err := c.server.DeleteItem(ctx, itemID); err != nil {
		return false
	}

	return true
}

// Subscribe registers a push subscription for the given device token,
// resetting any previous failure count.
func (c *Client) Subscribe(ctx context.Context, token string, hours []int, timezone string) error {
	return c.server.SetSubscription(ctx, models.Subscription{
		Account:  c.engine.Account(),
		Token:    token,
		Hours:    hours,
		Timezone: timezone,
	})
}

// Subscription fetches the push subscription registered for the given
// device token.
func (c *Client) Subscription(ctx context.Context, token string) (models.Subscription, error) {
	return c.server.GetSubscription(ctx, token)
}
