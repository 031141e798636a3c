package models

// MaxItemSize is the hard ceiling, in bytes, on the JSON-serialized form of a
// single vault item record. Writes above this size are rejected before any
// persistence attempt.
const MaxItemSize = 50000

// CipherText is the output of one authenticated encryption: a fresh 96-bit
// nonce and the ciphertext (including the GCM tag), both base64-encoded.
// The nonce travels alongside the ciphertext; it is not secret, but it must
// never repeat under the same key.
type CipherText struct {
	IV     string `json:"iv"`
	Cipher string `json:"cipher"`
}

// Item is one encrypted vault record as stored by the server. The payload is
// opaque: the server persists cipher and iv without ever holding the key that
// produced them.
type Item struct {
	// Account is the owning account identifier (partition key).
	Account string `json:"account"`

	// ItemID identifies the record within its account (range key). The
	// client assigns it; writes to an existing ItemID are last-write-wins.
	ItemID string `json:"item"`

	// Cipher is the base64-encoded AES-GCM ciphertext of the record.
	Cipher string `json:"cipher"`

	// IV is the base64-encoded 96-bit nonce used for this ciphertext.
	IV string `json:"iv"`

	// Type is a plaintext tag describing the kind of record (e.g. "person",
	// "group", "note"). It is the only item attribute the server can read.
	Type string `json:"type"`
}

// TableName returns the name of the database table
// associated with the Item model.
func (i Item) TableName() string {
	return "items"
}
