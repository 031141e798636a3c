// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-flock-vault/internal/adapter"
	"github.com/MKhiriev/go-flock-vault/internal/config"
	"github.com/MKhiriev/go-flock-vault/internal/crypto"
	myHTTP "github.com/MKhiriev/go-flock-vault/internal/handler/http"
	"github.com/MKhiriev/go-flock-vault/internal/logger"
	"github.com/MKhiriev/go-flock-vault/internal/service"
	"github.com/MKhiriev/go-flock-vault/internal/store"
	"github.com/MKhiriev/go-flock-vault/models"
)

type person struct {
	Name     string `json:"name"`
	Birthday string `json:"birthday"`
}

// newTestServer spins up the full server stack over the in-memory driver.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.StructuredConfig{}
	cfg.Push.MaxFailures = config.DefaultPushMaxFailures

	services := service.NewServices(store.NewMemoryDriver(), cfg, logger.Nop())
	srv := httptest.NewServer(myHTTP.NewHandler(services, logger.Nop()).Init())
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server, account, password string) *Client {
	t.Helper()

	client, err := New(account, password, adapter.NewHTTPServerAdapter(adapter.HTTPClientConfig{BaseURL: srv.URL}))
	require.NoError(t, err)
	return client
}

func TestClient_RegisterAndCheckPassword(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	client := newTestClient(t, srv, "alice", "correct horse battery staple")

	created, err := client.Register(ctx, nil)
	require.NoError(t, err)
	assert.True(t, created)

	// Same identifier again is a taken identifier, not an error.
	again, err := client.Register(ctx, nil)
	require.NoError(t, err)
	assert.False(t, again)

	valid, err := client.CheckPassword(ctx)
	require.NoError(t, err)
	assert.True(t, valid)

	// A client derived from the wrong password fails the check.
	impostor := newTestClient(t, srv, "alice", "wrong password")
	valid, err = impostor.CheckPassword(ctx)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestClient_StoreFetchRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	client := newTestClient(t, srv, "alice", "pw")
	created, err := client.Register(ctx, nil)
	require.NoError(t, err)
	require.True(t, created)

	original := person{Name: "Grace", Birthday: "1906-12-09"}
	require.NoError(t, client.Store(ctx, "person-1", "person", original))

	var restored person
	require.NoError(t, client.Fetch(ctx, "person-1", &restored))
	assert.Equal(t, original, restored)
}

func TestClient_Fetch_NotFound(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	client := newTestClient(t, srv, "alice", "pw")
	created, err := client.Register(ctx, nil)
	require.NoError(t, err)
	require.True(t, created)

	var target person
	err = client.Fetch(ctx, "absent", &target)
	assert.ErrorIs(t, err, adapter.ErrNotFound)
}

func TestClient_FetchAll_Completeness(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	client := newTestClient(t, srv, "alice", "pw")
	created, err := client.Register(ctx, nil)
	require.NoError(t, err)
	require.True(t, created)

	people := map[string]person{
		"person-1": {Name: "Grace"},
		"person-2": {Name: "Ada"},
		"person-3": {Name: "Katherine"},
	}
	for id, p := range people {
		require.NoError(t, client.Store(ctx, id, "person", p))
	}

	items, itemErrs, err := client.FetchAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, itemErrs)
	require.Len(t, items, len(people))

	for _, item := range items {
		assert.Equal(t, "person", item.Type)
		var p person
		require.NoError(t, json.Unmarshal(item.Data, &p))
		assert.Equal(t, people[item.ItemID].Name, p.Name)
	}
}

// A record written under a different key must surface as a per-item error
// while the rest of the vault still decrypts.
func TestClient_FetchAll_PartialDecryptionFailure(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	client := newTestClient(t, srv, "alice", "pw")
	created, err := client.Register(ctx, nil)
	require.NoError(t, err)
	require.True(t, created)

	require.NoError(t, client.Store(ctx, "good", "note", person{Name: "Grace"}))

	// Plant a record encrypted under a foreign key through the transport,
	// bypassing this client's engine.
	foreign, err := crypto.New("mallory", "other password")
	require.NoError(t, err)
	ct, err := foreign.EncryptObject(person{Name: "Intruder"})
	require.NoError(t, err)

	raw := adapter.NewHTTPServerAdapter(adapter.HTTPClientConfig{BaseURL: srv.URL})
	aliceEngine, err := crypto.New("alice", "pw")
	require.NoError(t, err)
	raw.SetCredentials("alice", aliceEngine.AuthToken())
	require.NoError(t, raw.SetItem(ctx, models.Item{
		ItemID: "bad",
		Cipher: ct.Cipher,
		IV:     ct.IV,
		Type:   "note",
	}))

	items, itemErrs, err := client.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "good", items[0].ItemID)
	require.Contains(t, itemErrs, "bad")
	assert.ErrorIs(t, itemErrs["bad"], crypto.ErrDecryptionFailed)
}

func TestClient_Delete(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	client := newTestClient(t, srv, "alice", "pw")
	created, err := client.Register(ctx, nil)
	require.NoError(t, err)
	require.True(t, created)

	require.NoError(t, client.Store(ctx, "notes", "note", person{Name: "Grace"}))

	assert.True(t, client.Delete(ctx, "notes"))
	assert.False(t, client.Delete(ctx, "notes"), "second delete has nothing to remove")

	// After deletion the record is gone, not empty.
	var restored person
	err = client.Fetch(ctx, "notes", &restored)
	assert.ErrorIs(t, err, adapter.ErrNotFound)
}

func TestClient_Delete_TransportFailureIsFalse(t *testing.T) {
	srv := newTestServer(t)
	client := newTestClient(t, srv, "alice", "pw")
	srv.Close()

	assert.False(t, client.Delete(context.Background(), "notes"))
}

func TestClient_Metadata(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	client := newTestClient(t, srv, "alice", "pw")
	created, err := client.Register(ctx, json.RawMessage(`{"theme":"dark"}`))
	require.NoError(t, err)
	require.True(t, created)

	metadata, err := client.Metadata(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"dark"}`, string(metadata))

	require.NoError(t, client.SetMetadata(ctx, json.RawMessage(`{"theme":"light"}`)))

	metadata, err = client.Metadata(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"light"}`, string(metadata))
}

func TestClient_Subscriptions(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	client := newTestClient(t, srv, "alice", "pw")
	created, err := client.Register(ctx, nil)
	require.NoError(t, err)
	require.True(t, created)

	require.NoError(t, client.Subscribe(ctx, "device-1", []int{9, 21}, "America/New_York"))

	sub, err := client.Subscription(ctx, "device-1")
	require.NoError(t, err)
	assert.Equal(t, []int{9, 21}, sub.Hours)
	assert.Equal(t, "America/New_York", sub.Timezone)
}

func TestClient_Resume(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	client := newTestClient(t, srv, "alice", "pw")
	created, err := client.Register(ctx, nil)
	require.NoError(t, err)
	require.True(t, created)
	require.NoError(t, client.Store(ctx, "notes", "note", person{Name: "Grace"}))

	// Resume from the exported key, as the CLI does on startup.
	resumed, err := Resume("alice", client.ExportKey(), adapter.NewHTTPServerAdapter(adapter.HTTPClientConfig{BaseURL: srv.URL}))
	require.NoError(t, err)

	var restored person
	require.NoError(t, resumed.Fetch(ctx, "notes", &restored))
	assert.Equal(t, "Grace", restored.Name)
}
