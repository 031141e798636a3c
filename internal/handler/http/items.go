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

func (h *Handler) setItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	accountID, ok := utils.GetAccountFromContext(ctx)
	if !ok {
		log.Error().Msg("no authenticated account in context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req models.WriteItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.setItem").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	item := models.Item{
		Account: accountID,
		ItemID:  chi.URLParam(r, "item"),
		Cipher:  req.Cipher,
		IV:      req.IV,
		Type:    req.Type,
	}

	if err := h.services.ItemService.Set(ctx, item); err != nil {
		log.Err(err).Str("item", item.ItemID).Msg("error storing item")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	accountID, ok := utils.GetAccountFromContext(ctx)
	if !ok {
		log.Error().Msg("no authenticated account in context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	itemID := chi.URLParam(r, "item")

	item, err := h.services.ItemService.Get(ctx, accountID, itemID)
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			http.Error(w, "item was not found", http.StatusNotFound)
			return
		}
		log.Err(err).Str("item", itemID).Msg("error fetching item")
		http.Error(w, "error fetching item", statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.ItemResponse{
		ItemID: item.ItemID,
		Cipher: item.Cipher,
		IV:     item.IV,
		Type:   item.Type,
	}, http.StatusOK)
}

func (h *Handler) fetchAllItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	accountID, ok := utils.GetAccountFromContext(ctx)
	if !ok {
		log.Error().Msg("no authenticated account in context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	items, err := h.services.ItemService.FetchAll(ctx, accountID)
	if err != nil {
		log.Err(err).Msg("error fetching items")
		http.Error(w, "error fetching items", statusFromError(err))
		return
	}

	// Always an array, even for an empty vault.
	response := make([]models.ItemResponse, 0, len(items))
	for _, item := range items {
		response = append(response, models.ItemResponse{
			ItemID: item.ItemID,
			Cipher: item.Cipher,
			IV:     item.IV,
			Type:   item.Type,
		})
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	accountID, ok := utils.GetAccountFromContext(ctx)
	if !ok {
		log.Error().Msg("no authenticated account in context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	itemID := chi.URLParam(r, "item")

	if err := h.services.ItemService.Delete(ctx, accountID, itemID); err != nil {
		log.Err(err).Str("item", itemID).Msg("error deleting item")
		http.Error(w, "error deleting item", statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
