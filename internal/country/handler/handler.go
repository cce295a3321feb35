package handler

import (
	"context"
	"countryfx/internal/country"
	"countryfx/internal/domain"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type countryService interface {
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Country, error)
	Get(ctx context.Context, name string) (domain.Country, error)
	Delete(ctx context.Context, name string) (domain.Country, error)
	Status(ctx context.Context) (domain.Status, error)
	LastRefreshedAt(ctx context.Context) (*time.Time, error)
	SummaryImage(ctx context.Context) ([]byte, error)
}

type refresher interface {
	Refresh(ctx context.Context) error
}

type Handler struct {
	service   countryService
	refresher refresher
}

func NewCountryHandler(service countryService, refresher refresher) *Handler {
	return &Handler{service: service, refresher: refresher}
}

const (
	msgInternal           = "Internal server error"
	msgValidation         = "Validation failed"
	msgCountryNotFound    = "Country not found"
	msgImageNotFound      = "Summary image not found"
	msgSourceUnavailable  = "External data source unavailable"
	msgInternalProcessing = "Internal processing during refresh"
)

type errorResponse struct {
	Error string `json:"error" example:"Country not found"`
}

type detailedErrorResponse struct {
	Error   string `json:"error" example:"External data source unavailable"`
	Details string `json:"details" example:"Could not fetch data from Countries API"`
}

type validationErrorResponse struct {
	Error   string              `json:"error" example:"Validation failed"`
	Details map[string][]string `json:"details"`
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	writeJSON(w, statusCode, errorResponse{Error: errorMsg})
}

func writeValidationError(w http.ResponseWriter, verr *country.ValidationError) {
	writeJSON(w, http.StatusBadRequest, validationErrorResponse{Error: msgValidation, Details: verr.Fields})
}

// rejectInvalid writes a 400 response for a validation failure and reports whether it did.
func rejectInvalid(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}
	var verr *country.ValidationError
	if errors.As(err, &verr) {
		writeValidationError(w, verr)
		return true
	}
	writeError(w, http.StatusBadRequest, msgValidation)
	return true
}

func writeInternalError(w http.ResponseWriter, err error, fields logrus.Fields) {
	logrus.WithError(err).WithFields(fields).Error("request failed")
	writeError(w, http.StatusInternalServerError, msgInternal)
}

// nameParam returns the decoded {name} path segment.
func nameParam(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return raw
	}
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}
