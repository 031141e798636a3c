package models

import "encoding/json"

// Account represents a vault tenant. An account is a self-contained namespace
// authenticated by a password-derived token; it is not tied to any external
// identity system.
//
// The server never sees the password itself. AuthToken is the base64-encoded
// SHA-512 digest of the client's exported encryption key, so possession of the
// token proves knowledge of the password without revealing it.
type Account struct {
	// Account is the unique, client-chosen account identifier.
	Account string `json:"account"`

	// AuthToken is the stored password-equivalent credential. It is compared
	// in constant time on every authenticated request and never returned to
	// clients.
	AuthToken string `json:"-"`

	// Metadata holds small, intentionally unencrypted application settings.
	// It is authenticated but not part of the zero-knowledge guarantee.
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

// TableName returns the name of the database table
// associated with the Account model.
func (a Account) TableName() string {
	return "accounts"
}
