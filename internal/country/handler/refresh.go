package handler

import (
	"countryfx/internal/domain"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type RefreshResponse struct {
	Message         string     `json:"message" example:"Refresh completed"`
	LastRefreshedAt *time.Time `json:"last_refreshed_at" example:"2025-10-22T18:00:00Z"`
}

// Refresh godoc
// @Summary Refresh countries
// @Description Fetch countries and exchange rates, upsert them and render the summary image
// @Tags Countries
// @Produce json
// @Success 200 {object} RefreshResponse
// @Failure 503 {object} detailedErrorResponse
// @Failure 500 {object} errorResponse
// @Router /countries/refresh [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.refresher.Refresh(r.Context()); err != nil {
		var upErr *domain.UpstreamError
		switch {
		case errors.As(err, &upErr):
			writeJSON(w, http.StatusServiceUnavailable, detailedErrorResponse{
				Error:   msgSourceUnavailable,
				Details: fmt.Sprintf("Could not fetch data from %s", upErr.Source),
			})
		case errors.Is(err, domain.ErrInternalProcessing):
			writeJSON(w, http.StatusServiceUnavailable, detailedErrorResponse{
				Error:   msgSourceUnavailable,
				Details: msgInternalProcessing,
			})
		default:
			writeInternalError(w, err, logrus.Fields{"handler": "Refresh"})
		}
		return
	}

	last, err := h.service.LastRefreshedAt(r.Context())
	if err != nil {
		writeInternalError(w, err, logrus.Fields{"handler": "Refresh"})
		return
	}
	if last != nil {
		utc := last.UTC()
		last = &utc
	}

	writeJSON(w, http.StatusOK, RefreshResponse{Message: "Refresh completed", LastRefreshedAt: last})
}
