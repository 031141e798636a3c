// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DerivationIsDeterministic(t *testing.T) {
	v1, err := New("frodo@shire", "correct horse battery staple")
	require.NoError(t, err)
	v2, err := New("frodo@shire", "correct horse battery staple")
	require.NoError(t, err)

	assert.Equal(t, v1.AuthToken(), v2.AuthToken())
	assert.Equal(t, v1.Export(), v2.Export())
}

func TestNew_DifferentInputsDifferentTokens(t *testing.T) {
	v1, err := New("frodo@shire", "password-one")
	require.NoError(t, err)
	v2, err := New("frodo@shire", "password-two")
	require.NoError(t, err)
	v3, err := New("sam@shire", "password-one")
	require.NoError(t, err)

	assert.NotEqual(t, v1.AuthToken(), v2.AuthToken())
	assert.NotEqual(t, v1.AuthToken(), v3.AuthToken())
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	v, err := New("frodo@shire", "secret")
	require.NoError(t, err)

	plaintext := []byte(`{"id":"p1","type":"person","firstName":"Frodo"}`)
	ct, err := v.Encrypt(plaintext)
	require.NoError(t, err)

	got, err := v.Decrypt(ct)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestEncrypt_NonceIsFresh(t *testing.T) {
	v, err := New("frodo@shire", "secret")
	require.NoError(t, err)

	plaintext := []byte("same plaintext every time")
	ct1, err := v.Encrypt(plaintext)
	require.NoError(t, err)
	ct2, err := v.Encrypt(plaintext)
	require.NoError(t, err)

	// A repeated nonce under the same key would be catastrophic; with a
	// 96-bit random nonce two calls must practically never collide.
	assert.NotEqual(t, ct1.IV, ct2.IV)
	assert.NotEqual(t, ct1.Cipher, ct2.Cipher)
}

func TestDecrypt_TamperedCipherFails(t *testing.T) {
	v, err := New("frodo@shire", "secret")
	require.NoError(t, err)

	ct, err := v.Encrypt([]byte("integrity matters"))
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(ct.Cipher)
	require.NoError(t, err)
	raw[0] ^= 0x01 // flip one bit
	ct.Cipher = base64.StdEncoding.EncodeToString(raw)

	_, err = v.Decrypt(ct)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecryptionFailed), "tampering must surface as ErrDecryptionFailed, got %v", err)
}

func TestDecrypt_WrongKeyFails(t *testing.T) {
	v1, err := New("frodo@shire", "secret")
	require.NoError(t, err)
	v2, err := New("frodo@shire", "not the secret")
	require.NoError(t, err)

	ct, err := v1.Encrypt([]byte("for frodo only"))
	require.NoError(t, err)

	_, err = v2.Decrypt(ct)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestImport_RestoresSession(t *testing.T) {
	v1, err := New("frodo@shire", "secret")
	require.NoError(t, err)

	ct, err := v1.Encrypt([]byte("written before restart"))
	require.NoError(t, err)

	v2, err := Import(v1.Account(), v1.Export())
	require.NoError(t, err)

	// Imported vault recomputes the same token and decrypts old ciphertext.
	assert.Equal(t, v1.AuthToken(), v2.AuthToken())
	got, err := v2.Decrypt(ct)
	require.NoError(t, err)
	assert.Equal(t, []byte("written before restart"), got)
}

func TestImport_RejectsBadKeySize(t *testing.T) {
	_, err := Import("frodo@shire", []byte("short"))
	assert.ErrorIs(t, err, ErrInvalidKeySize)
}

func TestEncryptObjectDecryptObject_RoundTrip(t *testing.T) {
	v, err := New("frodo@shire", "secret")
	require.NoError(t, err)

	type person struct {
		ID        string `json:"id"`
		Type      string `json:"type"`
		FirstName string `json:"firstName"`
	}

	in := person{ID: "p1", Type: "person", FirstName: "Frodo"}
	ct, err := v.EncryptObject(in)
	require.NoError(t, err)

	var out person
	require.NoError(t, v.DecryptObject(ct, &out))
	assert.Equal(t, in, out)
}

func FuzzEncryptDecrypt_RoundTrip(f *testing.F) {
	v, err := New("fuzz@vault", "fuzzing password")
	if err != nil {
		f.Fatal(err)
	}

	f.Add([]byte("hello"))
	f.Add([]byte{})
	f.Add([]byte{0x00, 0xff, 0x10})
	f.Fuzz(func(t *testing.T, plaintext []byte) {
		ct, err := v.Encrypt(plaintext)
		if err != nil {
			t.Fatalf("encrypt err: %v", err)
		}
		got, err := v.Decrypt(ct)
		if err != nil {
			t.Fatalf("decrypt err: %v", err)
		}
		if string(got) != string(plaintext) {
			t.Fatalf("roundtrip mismatch")
		}
	})
}
