package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-flock-vault/internal/service"
	"github.com/MKhiriev/go-flock-vault/internal/store"
	"github.com/MKhiriev/go-flock-vault/internal/validators"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:  http.StatusBadRequest,
	service.ErrAuthenticationFailed: http.StatusUnauthorized,

	validators.ErrEmptyAccount: http.StatusBadRequest,
	validators.ErrEmptyItemID:  http.StatusBadRequest,
	validators.ErrEmptyCipher:  http.StatusBadRequest,
	validators.ErrEmptyIV:      http.StatusBadRequest,
	validators.ErrEmptyType:    http.StatusBadRequest,
	validators.ErrItemTooLarge: http.StatusBadRequest,

	store.ErrAccountNotFound:      http.StatusNotFound,
	store.ErrItemNotFound:         http.StatusNotFound,
	store.ErrSubscriptionNotFound: http.StatusNotFound,
	store.ErrSubscriptionScan:     http.StatusInternalServerError,

	store.ErrBuildingSQLQuery:   http.StatusInternalServerError,
	store.ErrExecutingQuery:     http.StatusInternalServerError,
	store.ErrExecutingStatement: http.StatusInternalServerError,
	store.ErrScanningRow:        http.StatusInternalServerError,
	store.ErrScanningRows:       http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
