package models

import "encoding/json"

// CreateAccountRequest is the body of POST /api/accounts.
type CreateAccountRequest struct {
	Account   string          `json:"account"`
	AuthToken string          `json:"token"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
}

// WriteItemRequest is the body of PUT /api/accounts/{account}/items/{item}.
// The account and item identifiers come from the URL.
type WriteItemRequest struct {
	Cipher string `json:"cipher"`
	IV     string `json:"iv"`
	Type   string `json:"type"`
}

// ItemResponse is one encrypted record as returned to clients. Account is
// omitted: the caller already scoped the request to it.
type ItemResponse struct {
	ItemID string `json:"item"`
	Cipher string `json:"cipher"`
	IV     string `json:"iv"`
	Type   string `json:"type"`
}

// SetMetadataRequest is the body of PUT /api/accounts/{account}.
type SetMetadataRequest struct {
	Metadata json.RawMessage `json:"metadata"`
}

// CheckPasswordResponse is the body of POST /api/accounts/{account}/check.
// The endpoint always answers 200; a bad guess shows up as Valid=false, never
// as an error.
type CheckPasswordResponse struct {
	Valid bool `json:"valid"`
}

// SetSubscriptionRequest is the body of
// PUT /api/accounts/{account}/subscriptions/{token}.
type SetSubscriptionRequest struct {
	Hours    []int  `json:"hours"`
	Timezone string `json:"timezone"`
}
