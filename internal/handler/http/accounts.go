package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-flock-vault/internal/logger"
	"github.com/MKhiriev/go-flock-vault/internal/service"
	"github.com/MKhiriev/go-flock-vault/internal/utils"
	"github.com/MKhiriev/go-flock-vault/models"
)

func (h *Handler) createAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.createAccount").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	account := models.Account{
		Account:   req.Account,
		AuthToken: req.AuthToken,
		Metadata:  req.Metadata,
	}

	created, err := h.services.AccountService.Register(ctx, account)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid data provided")
			http.Error(w, "invalid data provided", http.StatusBadRequest)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during account creation")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	if !created {
		log.Debug().Str("account", req.Account).Msg("account identifier already taken")
		http.Error(w, "account already exists", http.StatusConflict)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// checkPassword answers 200 with a boolean for every well-formed request: a
// bad guess is {"valid": false}, never an error status. The endpoint is not
// behind the auth middleware for exactly this reason.
func (h *Handler) checkPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	token, err := getTokenFromAuthHeader(r.Header.Get("Authorization"))
	if err != nil {
		log.Err(err).Send()
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	accountID := chi.URLParam(r, "account")
	valid := h.services.AuthService.CheckPassword(ctx, accountID, token)

	utils.WriteJSON(w, models.CheckPasswordResponse{Valid: valid}, http.StatusOK)
}

func (h *Handler) getAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	accountID, ok := utils.GetAccountFromContext(ctx)
	if !ok {
		log.Error().Msg("no authenticated account in context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	account, err := h.services.AccountService.Get(ctx, accountID)
	if err != nil {
		log.Err(err).Msg("error fetching account")
		http.Error(w, "error fetching account", statusFromError(err))
		return
	}

	utils.WriteJSON(w, account, http.StatusOK)
}

func (h *Handler) setMetadata(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	accountID, ok := utils.GetAccountFromContext(ctx)
	if !ok {
		log.Error().Msg("no authenticated account in context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req models.SetMetadataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.setMetadata").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.AccountService.SetMetadata(ctx, accountID, req.Metadata); err != nil {
		log.Err(err).Msg("error updating account metadata")
		http.Error(w, "error updating account metadata", statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
