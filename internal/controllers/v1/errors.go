package v1

import (
	"errors"
	"net/http"

	"github.com/house-help/backend/internal/models"
	"github.com/house-help/backend/internal/store"
)

type httpError struct {
	Error string `json:"error" example:"the specified resource ID is not a valid UUID"`
}

// status returns the appropriate HTTP status for an error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	if errors.Is(err, store.ErrMonthLocked) {
		return http.StatusConflict
	}

	return http.StatusBadRequest
}
