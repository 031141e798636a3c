// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-flock-vault/internal/config"
	"github.com/MKhiriev/go-flock-vault/internal/logger"
	"github.com/MKhiriev/go-flock-vault/internal/service"
	"github.com/MKhiriev/go-flock-vault/internal/store"
	"github.com/MKhiriev/go-flock-vault/models"
)

// ---- Helpers ----

// newTestRouter wires a full handler stack over the in-memory driver.
func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	cfg := config.StructuredConfig{}
	cfg.Push.MaxFailures = config.DefaultPushMaxFailures

	services := service.NewServices(store.NewMemoryDriver(), cfg, logger.Nop())
	return NewHandler(services, logger.Nop()).Init()
}

func registerTestAccount(t *testing.T, router *chi.Mux, account, token string) {
	t.Helper()

	body := fmt.Sprintf(`{"account":%q,"token":%q}`, account, token)
	req := httptest.NewRequest(http.MethodPost, "/api/accounts", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
}

func doJSON(router *chi.Mux, method, target, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// ---- Account creation ----

func TestCreateAccount_Success(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(router, http.MethodPost, "/api/accounts", "", models.CreateAccountRequest{
		Account:   "alice",
		AuthToken: "token-a",
	})

	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestCreateAccount_DuplicateConflicts(t *testing.T) {
	router := newTestRouter(t)
	registerTestAccount(t, router, "alice", "token-a")

	rr := doJSON(router, http.MethodPost, "/api/accounts", "", models.CreateAccountRequest{
		Account:   "alice",
		AuthToken: "token-other",
	})

	assert.Equal(t, http.StatusConflict, rr.Code)

	// The original credential still authenticates; the rejected insert must
	// not have replaced anything.
	check := doJSON(router, http.MethodGet, "/api/accounts/alice/items", "token-a", nil)
	assert.Equal(t, http.StatusOK, check.Code)
}

func TestCreateAccount_InvalidJSON(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/accounts", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateAccount_MissingFields(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(router, http.MethodPost, "/api/accounts", "", models.CreateAccountRequest{
		Account: "alice",
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// ---- Password check ----

func TestCheckPassword(t *testing.T) {
	router := newTestRouter(t)
	registerTestAccount(t, router, "alice", "token-a")

	good := doJSON(router, http.MethodPost, "/api/accounts/alice/check", "token-a", nil)
	require.Equal(t, http.StatusOK, good.Code)
	assert.JSONEq(t, `{"valid":true}`, good.Body.String())

	bad := doJSON(router, http.MethodPost, "/api/accounts/alice/check", "wrong", nil)
	require.Equal(t, http.StatusOK, bad.Code, "a bad guess is an answer, not an error")
	assert.JSONEq(t, `{"valid":false}`, bad.Body.String())

	unknown := doJSON(router, http.MethodPost, "/api/accounts/nobody/check", "token-a", nil)
	require.Equal(t, http.StatusOK, unknown.Code)
	assert.JSONEq(t, `{"valid":false}`, unknown.Body.String())
}

// ---- Account metadata ----

func TestAccountMetadata_RoundTrip(t *testing.T) {
	router := newTestRouter(t)
	registerTestAccount(t, router, "alice", "token-a")

	put := doJSON(router, http.MethodPut, "/api/accounts/alice", "token-a", models.SetMetadataRequest{
		Metadata: json.RawMessage(`{"devices":2}`),
	})
	require.Equal(t, http.StatusNoContent, put.Code)

	get := doJSON(router, http.MethodGet, "/api/accounts/alice", "token-a", nil)
	require.Equal(t, http.StatusOK, get.Code)

	var account models.Account
	require.NoError(t, json.Unmarshal(get.Body.Bytes(), &account))
	assert.Equal(t, "alice", account.Account)
	assert.JSONEq(t, `{"devices":2}`, string(account.Metadata))

	// The stored token never leaves the server.
	assert.NotContains(t, get.Body.String(), "token-a")
}

// ---- Items ----

func TestItems_Lifecycle(t *testing.T) {
	router := newTestRouter(t)
	registerTestAccount(t, router, "alice", "token-a")

	put := doJSON(router, http.MethodPut, "/api/accounts/alice/items/notes", "token-a", models.WriteItemRequest{
		Cipher: "Y2lwaGVy",
		IV:     "aXY=",
		Type:   "note",
	})
	require.Equal(t, http.StatusNoContent, put.Code)

	get := doJSON(router, http.MethodGet, "/api/accounts/alice/items/notes", "token-a", nil)
	require.Equal(t, http.StatusOK, get.Code)

	var item models.ItemResponse
	require.NoError(t, json.Unmarshal(get.Body.Bytes(), &item))
	assert.Equal(t, "notes", item.ItemID)
	assert.Equal(t, "Y2lwaGVy", item.Cipher)
	assert.Equal(t, "aXY=", item.IV)
	assert.Equal(t, "note", item.Type)

	list := doJSON(router, http.MethodGet, "/api/accounts/alice/items", "token-a", nil)
	require.Equal(t, http.StatusOK, list.Code)
	var items []models.ItemResponse
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &items))
	assert.Len(t, items, 1)

	del := doJSON(router, http.MethodDelete, "/api/accounts/alice/items/notes", "token-a", nil)
	require.Equal(t, http.StatusNoContent, del.Code)

	gone := doJSON(router, http.MethodGet, "/api/accounts/alice/items/notes", "token-a", nil)
	assert.Equal(t, http.StatusNotFound, gone.Code)

	// Deleting again is still success.
	delAgain := doJSON(router, http.MethodDelete, "/api/accounts/alice/items/notes", "token-a", nil)
	assert.Equal(t, http.StatusNoContent, delAgain.Code)
}

func TestItems_RejectsIncompleteRecord(t *testing.T) {
	router := newTestRouter(t)
	registerTestAccount(t, router, "alice", "token-a")

	rr := doJSON(router, http.MethodPut, "/api/accounts/alice/items/notes", "token-a", models.WriteItemRequest{
		Cipher: "Y2lwaGVy",
		// iv and type missing
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestItems_IsolatedPerAccount(t *testing.T) {
	router := newTestRouter(t)
	registerTestAccount(t, router, "alice", "token-a")
	registerTestAccount(t, router, "bob", "token-b")

	put := doJSON(router, http.MethodPut, "/api/accounts/alice/items/notes", "token-a", models.WriteItemRequest{
		Cipher: "Y2lwaGVy", IV: "aXY=", Type: "note",
	})
	require.Equal(t, http.StatusNoContent, put.Code)

	// Bob's token does not open Alice's partition.
	cross := doJSON(router, http.MethodGet, "/api/accounts/alice/items/notes", "token-b", nil)
	assert.Equal(t, http.StatusUnauthorized, cross.Code)

	// Bob's own partition does not contain Alice's item.
	own := doJSON(router, http.MethodGet, "/api/accounts/bob/items/notes", "token-b", nil)
	assert.Equal(t, http.StatusNotFound, own.Code)
}

// ---- Subscriptions ----

func TestSubscriptions_RoundTrip(t *testing.T) {
	router := newTestRouter(t)
	registerTestAccount(t, router, "alice", "token-a")

	put := doJSON(router, http.MethodPut, "/api/accounts/alice/subscriptions/device-1", "token-a", models.SetSubscriptionRequest{
		Hours:    []int{8, 20},
		Timezone: "Europe/Berlin",
	})
	require.Equal(t, http.StatusNoContent, put.Code)

	get := doJSON(router, http.MethodGet, "/api/accounts/alice/subscriptions/device-1", "token-a", nil)
	require.Equal(t, http.StatusOK, get.Code)

	var sub models.Subscription
	require.NoError(t, json.Unmarshal(get.Body.Bytes(), &sub))
	assert.Equal(t, "alice", sub.Account)
	assert.Equal(t, "device-1", sub.Token)
	assert.Equal(t, []int{8, 20}, sub.Hours)
	assert.Equal(t, "Europe/Berlin", sub.Timezone)
	assert.Zero(t, sub.Failures)
}

func TestSubscriptions_UnknownTokenNotFound(t *testing.T) {
	router := newTestRouter(t)
	registerTestAccount(t, router, "alice", "token-a")

	rr := doJSON(router, http.MethodGet, "/api/accounts/alice/subscriptions/absent", "token-a", nil)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
