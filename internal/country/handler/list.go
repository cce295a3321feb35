package handler

import (
	"countryfx/internal/country"
	"countryfx/internal/domain"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
)

// List godoc
// @Summary List countries
// @Description List countries with optional region and currency filters.
// @Description No sort keeps insertion (id) order, an unknown sort value falls back to name ascending.
// @Description Blank parameters are treated as absent.
// @Description GDP sorts place countries without an estimate last.
// @Tags Countries
// @Produce json
// @Param region query string false "Exact region match" example(Africa)
// @Param currency query string false "Currency code, case-insensitive" example(NGN)
// @Param sort query string false "gdp_desc | gdp_asc | name_desc | name_asc"
// @Success 200 {array} CountryResponse
// @Failure 400 {object} validationErrorResponse
// @Failure 500 {object} errorResponse
// @Router /countries [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	region, currency, sortBy := queryParam(q, "region"), queryParam(q, "currency"), queryParam(q, "sort")

	if rejectInvalid(w, country.ValidateListQuery(region, currency, sortBy)) {
		return
	}

	filter := domain.ListFilter{Sort: domain.ParseSortOrder(sortBy)}
	if region != "" {
		filter.Region = &region
	}
	if currency != "" {
		filter.Currency = &currency
	}

	countries, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeInternalError(w, err, logrus.Fields{"handler": "List", "region": region, "currency": currency, "sort": sortBy})
		return
	}

	res := make([]CountryResponse, 0, len(countries))
	for _, c := range countries {
		res = append(res, toCountryResponse(c))
	}
	writeJSON(w, http.StatusOK, res)
}

// queryParam returns "" for a missing or whitespace-only value, the raw value otherwise.
func queryParam(q url.Values, key string) string {
	v := q.Get(key)
	if strings.TrimSpace(v) == "" {
		return ""
	}
	return v
}
