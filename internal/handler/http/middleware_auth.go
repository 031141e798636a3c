package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-flock-vault/internal/logger"
	"github.com/MKhiriev/go-flock-vault/internal/service"
	"github.com/MKhiriev/go-flock-vault/internal/utils"
)

// auth is an HTTP middleware that authenticates the account named in the
// request URL.
//
// It extracts the bearer token from the "Authorization" header and the
// account identifier from the {account} URL parameter, verifies the pair via
// [service.AuthService.Authenticate], and on success stores the account
// identifier in the request context under [utils.AccountCtxKey] before
// delegating to the next handler.
//
// Every rejection is HTTP 401 Unauthorized with the same body, regardless of
// whether the account exists, the token is wrong, or the header is
// malformed. Varying the response here would let a caller probe which
// account identifiers are taken.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		token, err := getTokenFromAuthHeader(r.Header.Get("Authorization"))
		if err != nil {
			log.Err(err).Send()
			http.Error(w, service.ErrAuthenticationFailed.Error(), http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		accountID := chi.URLParam(r, "account")

		account, err := h.services.AuthService.Authenticate(ctx, accountID, token)
		if err != nil {
			if !errors.Is(err, service.ErrAuthenticationFailed) && !errors.Is(err, service.ErrInvalidDataProvided) {
				log.Err(err).Msg("error occurred during authentication")
			}
			http.Error(w, service.ErrAuthenticationFailed.Error(), http.StatusUnauthorized)
			return
		}

		// Store the authenticated account in the context so that downstream
		// handlers can retrieve it without re-checking the token.
		ctx = context.WithValue(ctx, utils.AccountCtxKey, account.Account)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// getTokenFromAuthHeader extracts the bearer token string from a raw
// "Authorization" HTTP header value.
//
// The header is expected to follow the standard format:
//
//	Authorization: <scheme> <token>
//
// It returns the following sentinel errors:
//   - [ErrEmptyAuthorizationHeader] if the header is absent entirely.
//   - [ErrInvalidAuthorizationHeader] if the header contains fewer than
//     two space-separated parts (i.e. the token is missing entirely).
//   - [ErrEmptyToken] if the second part exists but is an empty string.
func getTokenFromAuthHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrEmptyAuthorizationHeader
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) < 2 {
		return "", ErrInvalidAuthorizationHeader
	}

	tokenString := parts[1]
	if tokenString == "" {
		return "", ErrEmptyToken
	}

	return tokenString, nil
}
