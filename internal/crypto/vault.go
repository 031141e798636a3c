// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crypto implements the client-side cryptographic engine of the
// vault. A Vault instance holds a symmetric key derived from the account
// identifier and the user's password; every record is encrypted locally with
// AES-256-GCM before it leaves the process, so the server only ever observes
// opaque ciphertext.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"

	"github.com/MKhiriev/go-flock-vault/models"
)

// Key-derivation parameters. The salt is the account identifier itself, so a
// returning user can re-derive the same key from nothing but their login
// credentials; no salt needs to be stored or transmitted. Two accounts
// sharing both identifier and password derive the same key, an accepted
// limitation of the protocol; do not change without a migration path for
// already-encrypted data.
const (
	kdfIterations = 100000
	keySize       = 32 // AES-256
	nonceSize     = 12 // 96-bit GCM nonce
)

// Vault is the cryptographic engine bound to one account. It performs key
// derivation, authenticated encryption/decryption, and computes the
// password-equivalent authentication token.
//
// A Vault is safe for concurrent use: all fields are read-only after
// construction and every Encrypt call draws its own nonce from the OS CSPRNG,
// so concurrent encryptions can never collide on a nonce.
type Vault struct {
	account   string
	key       []byte
	aead      cipher.AEAD
	authToken string
}

// New derives a vault for the given account and password.
//
// The key is PBKDF2-SHA256(password, salt=account, 100 000 iterations,
// 32 bytes). Derivation is deterministic: identical inputs always produce an
// identical key and therefore an identical authentication token, which is
// what allows re-login without any persisted secret.
func New(account, password string) (*Vault, error) {
	key := pbkdf2.Key([]byte(password), []byte(account), kdfIterations, keySize, sha256.New)
	return newVault(account, key)
}

// Import reconstructs a vault from raw key material previously obtained via
// [Vault.Export]. It is used to restore a session across process restarts
// without asking for the password again. The authentication token is
// recomputed from the key, so an imported vault authenticates exactly like a
// freshly derived one.
func Import(account string, key []byte) (*Vault, error) {
	if len(key) != keySize {
		return nil, ErrInvalidKeySize
	}
	return newVault(account, key)
}

func newVault(account string, key []byte) (*Vault, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	// The auth token is the only password-derived artifact that ever reaches
	// the server: an irreversible digest of the exported key.
	digest := sha512.Sum512(key)

	return &Vault{
		account:   account,
		key:       key,
		aead:      aead,
		authToken: base64.StdEncoding.EncodeToString(digest[:]),
	}, nil
}

// Account returns the account identifier this vault was derived for.
func (v *Vault) Account() string {
	return v.account
}

// AuthToken returns the password-equivalent credential sent with every
// request: base64(SHA-512(key)). The digest is irreversible, so the server
// can authenticate the caller without ever learning the key or the password.
func (v *Vault) AuthToken() string {
	return v.authToken
}

// Export returns a copy of the raw key material for local persistence only
// (e.g. a session store on disk). The exported key must never be transmitted.
func (v *Vault) Export() []byte {
	out := make([]byte, len(v.key))
	copy(out, v.key)
	return out
}

// Encrypt seals plaintext with AES-256-GCM under a fresh random 96-bit nonce
// and returns the nonce and ciphertext as separate base64 fields. A new nonce
// is drawn from crypto/rand on every call; nonce reuse under the same key
// would be a total confidentiality failure for GCM, so freshness is enforced
// by construction rather than by coordination.
func (v *Vault) Encrypt(plaintext []byte) (models.CipherText, error) {
	iv := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return models.CipherText{}, fmt.Errorf("generate nonce: %w", err)
	}

	ciphertext := v.aead.Seal(nil, iv, plaintext, nil)

	return models.CipherText{
		IV:     base64.StdEncoding.EncodeToString(iv),
		Cipher: base64.StdEncoding.EncodeToString(ciphertext),
	}, nil
}

// Decrypt is the inverse of [Vault.Encrypt]. It fails with
// [ErrDecryptionFailed] if the authentication tag does not verify, which
// means the ciphertext was tampered with or produced under a different key.
func (v *Vault) Decrypt(ct models.CipherText) ([]byte, error) {
	iv, err := base64.StdEncoding.DecodeString(ct.IV)
	if err != nil {
		return nil, fmt.Errorf("decode iv: %w", err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(ct.Cipher)
	if err != nil {
		return nil, fmt.Errorf("decode cipher: %w", err)
	}
	if len(iv) != nonceSize {
		return nil, fmt.Errorf("%w: bad nonce length %d", ErrDecryptionFailed, len(iv))
	}

	plaintext, err := v.aead.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}

	return plaintext, nil
}

// EncryptObject marshals obj to JSON and encrypts the result.
func (v *Vault) EncryptObject(obj any) (models.CipherText, error) {
	plaintext, err := json.Marshal(obj)
	if err != nil {
		return models.CipherText{}, fmt.Errorf("marshal object: %w", err)
	}
	return v.Encrypt(plaintext)
}

// DecryptObject decrypts ct and unmarshals the resulting JSON into target.
// target must be a non-nil pointer, identical to the requirement of
// [encoding/json.Unmarshal].
func (v *Vault) DecryptObject(ct models.CipherText, target any) error {
	plaintext, err := v.Decrypt(ct)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(plaintext, target); err != nil {
		return fmt.Errorf("unmarshal object: %w", err)
	}
	return nil
}
