package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-flock-vault/internal/logger"
	"github.com/MKhiriev/go-flock-vault/internal/store"
	"github.com/MKhiriev/go-flock-vault/internal/utils"
	"github.com/MKhiriev/go-flock-vault/models"
)

func (h *Handler) setSubscription(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	accountID, ok := utils.GetAccountFromContext(ctx)
	if !ok {
		log.Error().Msg("no authenticated account in context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req models.SetSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.setSubscription").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	sub := models.Subscription{
		Account:  accountID,
		Token:    chi.URLParam(r, "token"),
		Hours:    req.Hours,
		Timezone: req.Timezone,
	}

	if err := h.services.SubscriptionService.Set(ctx, sub); err != nil {
		log.Err(err).Msg("error storing subscription")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getSubscription(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	accountID, ok := utils.GetAccountFromContext(ctx)
	if !ok {
		log.Error().Msg("no authenticated account in context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	token := chi.URLParam(r, "token")

	sub, err := h.services.SubscriptionService.Get(ctx, accountID, token)
	if err != nil {
		if errors.Is(err, store.ErrSubscriptionNotFound) {
			http.Error(w, "subscription was not found", http.StatusNotFound)
			return
		}
		log.Err(err).Msg("error fetching subscription")
		http.Error(w, "error fetching subscription", statusFromError(err))
		return
	}

	utils.WriteJSON(w, sub, http.StatusOK)
}
